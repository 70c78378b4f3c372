package client

import "time"

// Record types mirror the server's JSON. They are plain values; callers keep
// the last one returned and replace it wholesale after each save.

// Preferences is the full per-user preferences record. Direction is derived
// by the server from Language.
type Preferences struct {
	Theme     string `json:"theme"`
	FontSize  string `json:"font_size"`
	Language  string `json:"language"`
	Direction string `json:"direction"`
	Timezone  string `json:"timezone"`

	EmailEnabled   bool `json:"email_enabled"`
	PushEnabled    bool `json:"push_enabled"`
	SMSEnabled     bool `json:"sms_enabled"`
	DesktopEnabled bool `json:"desktop_enabled"`
}

// PreferencesUpdate carries the four appearance fields. Notification flags
// are saved through NotificationPrefsUpdate instead.
type PreferencesUpdate struct {
	Theme    string `json:"theme"`
	FontSize string `json:"font_size"`
	Language string `json:"language"`
	Timezone string `json:"timezone"`
}

// NotificationPrefs holds the four channel toggles.
type NotificationPrefs struct {
	EmailEnabled   bool `json:"email_enabled"`
	PushEnabled    bool `json:"push_enabled"`
	SMSEnabled     bool `json:"sms_enabled"`
	DesktopEnabled bool `json:"desktop_enabled"`
}

// NotificationPrefsUpdate mirrors NotificationPrefs for saves.
type NotificationPrefsUpdate struct {
	EmailEnabled   bool `json:"email_enabled"`
	PushEnabled    bool `json:"push_enabled"`
	SMSEnabled     bool `json:"sms_enabled"`
	DesktopEnabled bool `json:"desktop_enabled"`
}

// SystemSettings is the global admin-managed record.
type SystemSettings struct {
	AppName      string `json:"app_name"`
	SupportEmail string `json:"support_email"`
	SupportPhone string `json:"support_phone"`

	DefaultLanguage string `json:"default_language"`
	DefaultTheme    string `json:"default_theme"`
	DefaultTimezone string `json:"default_timezone"`

	DefaultTicketPriority string `json:"default_ticket_priority"`
	DefaultTicketStatus   string `json:"default_ticket_status"`
	ResponseSLAHours      int    `json:"response_sla_hours"`
	MaxAttachmentSizeMB   int    `json:"max_attachment_size_mb"`

	MaintenanceMode      bool `json:"maintenance_mode"`
	NotificationsEnabled bool `json:"notifications_enabled"`
	AttachmentsEnabled   bool `json:"attachments_enabled"`

	PasswordMinLength     int `json:"password_min_length"`
	SessionTimeoutMinutes int `json:"session_timeout_minutes"`

	AllowedEmailDomains []string `json:"allowed_email_domains"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// SystemSettingsUpdate carries the whole settings payload; saves are
// whole-record.
type SystemSettingsUpdate struct {
	AppName      string `json:"app_name"`
	SupportEmail string `json:"support_email"`
	SupportPhone string `json:"support_phone"`

	DefaultLanguage string `json:"default_language"`
	DefaultTheme    string `json:"default_theme"`
	DefaultTimezone string `json:"default_timezone"`

	DefaultTicketPriority string `json:"default_ticket_priority"`
	DefaultTicketStatus   string `json:"default_ticket_status"`
	ResponseSLAHours      int    `json:"response_sla_hours"`
	MaxAttachmentSizeMB   int    `json:"max_attachment_size_mb"`

	MaintenanceMode      bool `json:"maintenance_mode"`
	NotificationsEnabled bool `json:"notifications_enabled"`
	AttachmentsEnabled   bool `json:"attachments_enabled"`

	PasswordMinLength     int `json:"password_min_length"`
	SessionTimeoutMinutes int `json:"session_timeout_minutes"`

	AllowedEmailDomains []string `json:"allowed_email_domains"`
}

// Technician is an admin-managed staff record.
type Technician struct {
	ID        string    `json:"id"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Specialty string    `json:"specialty"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TechnicianUpdate is the create/update payload; edits replace the whole
// record.
type TechnicianUpdate struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Specialty string `json:"specialty"`
}

// Ticket is the slice of the ticket record the assignment call returns.
type Ticket struct {
	ID           string     `json:"id"`
	UserID       string     `json:"user_id"`
	TechnicianID *string    `json:"technician_id"`
	Subject      string     `json:"subject"`
	Description  string     `json:"description"`
	Status       string     `json:"status"`
	Priority     string     `json:"priority"`
	DueAt        *time.Time `json:"due_at"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// AvatarResult points at the freshly stored profile photo.
type AvatarResult struct {
	Key string `json:"key"`
	URL string `json:"url"`
}
