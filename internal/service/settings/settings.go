// Package settings manages the single global configuration row. Other
// services read the effective values from here so ticket defaults, session
// lifetimes and account policies always reflect the latest admin save.
package settings

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/hamyarhq/hamyar_backend/internal/models"
	"github.com/hamyarhq/hamyar_backend/pkg/validate"
)

// ---------------------------------------------------------------------------
// DTOs
// ---------------------------------------------------------------------------

// UpdateRequest carries the full settings payload. Saves are whole-row, there
// is no per-field patching.
type UpdateRequest struct {
	AppName      string `json:"app_name" validate:"required,max=100"`
	SupportEmail string `json:"support_email" validate:"required,email,max=255"`
	SupportPhone string `json:"support_phone" validate:"omitempty,phone"`

	DefaultLanguage string `json:"default_language" validate:"required,oneof=fa en"`
	DefaultTheme    string `json:"default_theme" validate:"required,oneof=light dark system"`
	DefaultTimezone string `json:"default_timezone" validate:"required,max=100"`

	DefaultTicketPriority string `json:"default_ticket_priority" validate:"required,oneof=low normal high urgent"`
	DefaultTicketStatus   string `json:"default_ticket_status" validate:"required,oneof=open in_progress waiting closed"`
	ResponseSLAHours      int    `json:"response_sla_hours" validate:"min=1,max=168"`
	MaxAttachmentSizeMB   int    `json:"max_attachment_size_mb" validate:"min=1,max=100"`

	MaintenanceMode      bool `json:"maintenance_mode"`
	NotificationsEnabled bool `json:"notifications_enabled"`
	AttachmentsEnabled   bool `json:"attachments_enabled"`

	PasswordMinLength     int `json:"password_min_length" validate:"min=4,max=32"`
	SessionTimeoutMinutes int `json:"session_timeout_minutes" validate:"min=5,max=1440"`

	AllowedEmailDomains []string `json:"allowed_email_domains" validate:"omitempty,dive,fqdn"`
}

// ---------------------------------------------------------------------------
// Interface
// ---------------------------------------------------------------------------

type Service interface {
	// Effective returns the saved settings row, or the default bundle when no
	// admin has saved yet. The missing-row case never writes.
	Effective(ctx context.Context) (*models.SystemSettings, error)

	// Update validates and persists the whole settings payload, creating the
	// row on first save.
	Update(ctx context.Context, req UpdateRequest) (*models.SystemSettings, error)
}

// ---------------------------------------------------------------------------
// Implementation
// ---------------------------------------------------------------------------

type settingsService struct {
	db *gorm.DB
}

func New(db *gorm.DB) Service {
	return &settingsService{db: db}
}

func (s *settingsService) Effective(ctx context.Context) (*models.SystemSettings, error) {
	var row models.SystemSettings
	err := s.db.WithContext(ctx).First(&row, models.SystemSettingsID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.DefaultSystemSettings(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("get system settings: %w", err)
	}
	return &row, nil
}

func (s *settingsService) Update(ctx context.Context, req UpdateRequest) (*models.SystemSettings, error) {
	req.normalize()
	if err := validate.Struct(req); err != nil {
		return nil, err
	}

	var row models.SystemSettings
	err := s.db.WithContext(ctx).First(&row, models.SystemSettingsID).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		row = models.SystemSettings{ID: models.SystemSettingsID}
	case err != nil:
		return nil, fmt.Errorf("get system settings: %w", err)
	}

	req.apply(&row)
	if err := s.db.WithContext(ctx).Save(&row).Error; err != nil {
		return nil, fmt.Errorf("save system settings: %w", err)
	}
	return &row, nil
}

// normalize lowercases the fields matched case-insensitively elsewhere so the
// stored values compare directly.
func (r *UpdateRequest) normalize() {
	r.AppName = strings.TrimSpace(r.AppName)
	r.SupportEmail = strings.ToLower(strings.TrimSpace(r.SupportEmail))
	r.SupportPhone = strings.TrimSpace(r.SupportPhone)
	domains := make([]string, 0, len(r.AllowedEmailDomains))
	for _, d := range r.AllowedEmailDomains {
		d = strings.ToLower(strings.TrimSpace(d))
		if d != "" {
			domains = append(domains, d)
		}
	}
	r.AllowedEmailDomains = domains
}

func (r *UpdateRequest) apply(row *models.SystemSettings) {
	row.AppName = r.AppName
	row.SupportEmail = r.SupportEmail
	row.SupportPhone = r.SupportPhone
	row.DefaultLanguage = r.DefaultLanguage
	row.DefaultTheme = r.DefaultTheme
	row.DefaultTimezone = r.DefaultTimezone
	row.DefaultTicketPriority = r.DefaultTicketPriority
	row.DefaultTicketStatus = r.DefaultTicketStatus
	row.ResponseSLAHours = r.ResponseSLAHours
	row.MaxAttachmentSizeMB = r.MaxAttachmentSizeMB
	row.MaintenanceMode = r.MaintenanceMode
	row.NotificationsEnabled = r.NotificationsEnabled
	row.AttachmentsEnabled = r.AttachmentsEnabled
	row.PasswordMinLength = r.PasswordMinLength
	row.SessionTimeoutMinutes = r.SessionTimeoutMinutes
	row.AllowedEmailDomains = datatypes.NewJSONSlice(r.AllowedEmailDomains)
}
