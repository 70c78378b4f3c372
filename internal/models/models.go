// Package models defines the persistent entities and their default bundles.
// Primary keys are UUIDv7 set in BeforeCreate hooks so rows sort by creation
// time.
package models

// All lists every entity in migration order (referenced tables first).
func All() []any {
	return []any{
		&User{},
		&UserPreferences{},
		&SystemSettings{},
		&Technician{},
		&Ticket{},
		&Notification{},
	}
}
