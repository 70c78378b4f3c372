package models

import (
	"time"

	"gorm.io/datatypes"
)

// SystemSettingsID is the fixed primary key of the single global row.
const SystemSettingsID = 1

const (
	MinResponseSLAHours = 1
	MaxResponseSLAHours = 168

	MinAttachmentSizeMB = 1
	MaxAttachmentSizeMB = 100

	MinPasswordLength = 4
	MaxPasswordLength = 32

	MinSessionTimeoutMinutes = 5
	MaxSessionTimeoutMinutes = 1440
)

// SystemSettings is the admin-managed global configuration row governing
// ticketing defaults, notification dispatch and account policies. Exactly one
// row exists once an admin saves; until then reads serve in-memory defaults.
type SystemSettings struct {
	ID uint `gorm:"primaryKey" json:"-"`

	AppName      string `gorm:"size:100;not null" json:"app_name"`
	SupportEmail string `gorm:"size:255;not null" json:"support_email"`
	SupportPhone string `gorm:"size:20" json:"support_phone"`

	DefaultLanguage string `gorm:"size:10;not null;default:'fa'" json:"default_language"`
	DefaultTheme    string `gorm:"size:20;not null;default:'system'" json:"default_theme"`
	DefaultTimezone string `gorm:"size:100;not null;default:'Asia/Tehran'" json:"default_timezone"`

	DefaultTicketPriority string `gorm:"size:20;not null;default:'normal'" json:"default_ticket_priority"`
	DefaultTicketStatus   string `gorm:"size:20;not null;default:'open'" json:"default_ticket_status"`
	ResponseSLAHours      int    `gorm:"not null;default:24" json:"response_sla_hours"`
	MaxAttachmentSizeMB   int    `gorm:"not null;default:10" json:"max_attachment_size_mb"`

	// No column defaults on the toggles, gorm would drop a false value
	// on the first insert otherwise.
	MaintenanceMode      bool `gorm:"not null" json:"maintenance_mode"`
	NotificationsEnabled bool `gorm:"not null" json:"notifications_enabled"`
	AttachmentsEnabled   bool `gorm:"not null" json:"attachments_enabled"`

	PasswordMinLength     int `gorm:"not null;default:8" json:"password_min_length"`
	SessionTimeoutMinutes int `gorm:"not null;default:120" json:"session_timeout_minutes"`

	AllowedEmailDomains datatypes.JSONSlice[string] `json:"allowed_email_domains"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (SystemSettings) TableName() string {
	return "system_settings"
}

// DefaultSystemSettings is served on reads before any admin has saved the row
// and seeds the row on first write.
func DefaultSystemSettings() *SystemSettings {
	return &SystemSettings{
		ID:                    SystemSettingsID,
		AppName:               "Hamyar Helpdesk",
		SupportEmail:          "support@hamyar.app",
		SupportPhone:          "+982191000000",
		DefaultLanguage:       LanguageFA,
		DefaultTheme:          ThemeSystem,
		DefaultTimezone:       DefaultTimezone,
		DefaultTicketPriority: TicketPriorityNormal,
		DefaultTicketStatus:   TicketStatusOpen,
		ResponseSLAHours:      24,
		MaxAttachmentSizeMB:   10,
		MaintenanceMode:       false,
		NotificationsEnabled:  true,
		AttachmentsEnabled:    true,
		PasswordMinLength:     8,
		SessionTimeoutMinutes: 120,
		AllowedEmailDomains:   datatypes.JSONSlice[string]{},
	}
}

// EmailDomainAllowed reports whether addr passes the allowed-domains policy.
// An empty list allows every domain. Matching is on the part after the last
// "@", case-insensitive, handled by the caller lowercasing addresses on input.
func (s *SystemSettings) EmailDomainAllowed(addr string) bool {
	if len(s.AllowedEmailDomains) == 0 {
		return true
	}
	at := -1
	for i := len(addr) - 1; i >= 0; i-- {
		if addr[i] == '@' {
			at = i
			break
		}
	}
	if at < 0 || at == len(addr)-1 {
		return false
	}
	domain := addr[at+1:]
	for _, allowed := range s.AllowedEmailDomains {
		if domain == allowed {
			return true
		}
	}
	return false
}
