// Package preference implements the per-user settings contract: reads serve
// stored rows or in-memory defaults, writes create-or-update the single row,
// and text direction is derived from language on every response.
package preference

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/hamyarhq/hamyar_backend/internal/models"
	"github.com/hamyarhq/hamyar_backend/pkg/validate"
)

// ---------------------------------------------------------------------------
// DTOs
// ---------------------------------------------------------------------------

type UpdateRequest struct {
	Theme    string `json:"theme" validate:"required,oneof=light dark system"`
	FontSize string `json:"font_size" validate:"required,oneof=sm md lg"`
	Language string `json:"language" validate:"required,oneof=fa en"`
	Timezone string `json:"timezone" validate:"required,max=100"`
}

type UpdateNotificationsRequest struct {
	EmailEnabled   bool `json:"email_enabled"`
	PushEnabled    bool `json:"push_enabled"`
	SMSEnabled     bool `json:"sms_enabled"`
	DesktopEnabled bool `json:"desktop_enabled"`
}

// Response is the full preferences payload. Direction is computed from
// Language and never read from storage.
type Response struct {
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

type NotificationPrefs struct {
	EmailEnabled   bool `json:"email_enabled"`
	PushEnabled    bool `json:"push_enabled"`
	SMSEnabled     bool `json:"sms_enabled"`
	DesktopEnabled bool `json:"desktop_enabled"`
}

// Direction maps a language code to its text direction. Persian is the only
// right-to-left language we ship.
func Direction(language string) string {
	if language == models.LanguageFA {
		return "rtl"
	}
	return "ltr"
}

// ---------------------------------------------------------------------------
// Interface
// ---------------------------------------------------------------------------

type Service interface {
	// Get returns the user's preferences, or the default bundle when no row
	// exists. The missing-row case never writes. A stored legacy row (all
	// four notification flags false and never written through the
	// notification API) is corrected to the default flags and the correction
	// is persisted, so this read can mutate state.
	Get(ctx context.Context, userID uuid.UUID) (*Response, error)

	// Update writes the four appearance fields, creating the row with default
	// notification flags when absent. Notification flags are never touched.
	Update(ctx context.Context, userID uuid.UUID, req UpdateRequest) (*Response, error)

	// GetNotificationPrefs returns the four channel toggles, applying the
	// same missing-row defaults and legacy correction as Get.
	GetNotificationPrefs(ctx context.Context, userID uuid.UUID) (*NotificationPrefs, error)

	// UpdateNotificationPrefs writes the four channel toggles and marks them
	// as an explicit choice, creating the row with default appearance fields
	// when absent. Appearance fields are never touched.
	UpdateNotificationPrefs(ctx context.Context, userID uuid.UUID, req UpdateNotificationsRequest) (*NotificationPrefs, error)
}

// ---------------------------------------------------------------------------
// Implementation
// ---------------------------------------------------------------------------

type preferenceService struct {
	db *gorm.DB
}

func New(db *gorm.DB) Service {
	return &preferenceService{db: db}
}

func (s *preferenceService) Get(ctx context.Context, userID uuid.UUID) (*Response, error) {
	p, found, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !found {
		return newResponse(models.DefaultPreferences(userID)), nil
	}

	if err := s.healLegacyFlags(ctx, p); err != nil {
		return nil, err
	}

	return newResponse(p), nil
}

func (s *preferenceService) Update(ctx context.Context, userID uuid.UUID, req UpdateRequest) (*Response, error) {
	if err := validate.Struct(req); err != nil {
		return nil, err
	}

	p, found, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}

	if !found {
		p = models.DefaultPreferences(userID)
		p.Theme = req.Theme
		p.FontSize = req.FontSize
		p.Language = req.Language
		p.Timezone = req.Timezone
		if err := s.db.WithContext(ctx).Create(p).Error; err != nil {
			return nil, fmt.Errorf("create preferences: %w", err)
		}
		return newResponse(p), nil
	}

	p.Theme = req.Theme
	p.FontSize = req.FontSize
	p.Language = req.Language
	p.Timezone = req.Timezone

	// Column list keeps the write scoped to appearance: notification flags
	// are untouched even if the in-memory struct drifted.
	err = s.db.WithContext(ctx).Model(p).
		Select("theme", "font_size", "language", "timezone").
		Updates(p).Error
	if err != nil {
		return nil, fmt.Errorf("update preferences: %w", err)
	}

	return newResponse(p), nil
}

func (s *preferenceService) GetNotificationPrefs(ctx context.Context, userID uuid.UUID) (*NotificationPrefs, error) {
	resp, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &NotificationPrefs{
		EmailEnabled:   resp.EmailEnabled,
		PushEnabled:    resp.PushEnabled,
		SMSEnabled:     resp.SMSEnabled,
		DesktopEnabled: resp.DesktopEnabled,
	}, nil
}

func (s *preferenceService) UpdateNotificationPrefs(ctx context.Context, userID uuid.UUID, req UpdateNotificationsRequest) (*NotificationPrefs, error) {
	p, found, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}

	if !found {
		p = models.DefaultPreferences(userID)
		p.EmailEnabled = req.EmailEnabled
		p.PushEnabled = req.PushEnabled
		p.SMSEnabled = req.SMSEnabled
		p.DesktopEnabled = req.DesktopEnabled
		p.NotificationsChosen = true
		if err := s.db.WithContext(ctx).Create(p).Error; err != nil {
			return nil, fmt.Errorf("create notification prefs: %w", err)
		}
		return notificationPrefs(p), nil
	}

	p.EmailEnabled = req.EmailEnabled
	p.PushEnabled = req.PushEnabled
	p.SMSEnabled = req.SMSEnabled
	p.DesktopEnabled = req.DesktopEnabled
	p.NotificationsChosen = true

	err = s.db.WithContext(ctx).Model(p).
		Select("email_enabled", "push_enabled", "sms_enabled", "desktop_enabled", "notifications_chosen").
		Updates(p).Error
	if err != nil {
		return nil, fmt.Errorf("update notification prefs: %w", err)
	}

	return notificationPrefs(p), nil
}

// load fetches the row by user. The bool reports whether a row exists;
// a missing row is not an error.
func (s *preferenceService) load(ctx context.Context, userID uuid.UUID) (*models.UserPreferences, bool, error) {
	var p models.UserPreferences
	err := s.db.WithContext(ctx).Where("user_id = ?", userID).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get preferences: %w", err)
	}
	return &p, true, nil
}

// healLegacyFlags resets the notification flags of a never-migrated row to
// the default bundle and persists the correction. Rows whose flags were
// written through the API (NotificationsChosen) are left alone, so a user
// who deliberately disabled every channel keeps that choice.
func (s *preferenceService) healLegacyFlags(ctx context.Context, p *models.UserPreferences) error {
	if p.NotificationsChosen {
		return nil
	}
	if p.EmailEnabled || p.PushEnabled || p.SMSEnabled || p.DesktopEnabled {
		return nil
	}

	d := models.DefaultPreferences(p.UserID)
	p.EmailEnabled = d.EmailEnabled
	p.PushEnabled = d.PushEnabled
	p.SMSEnabled = d.SMSEnabled
	p.DesktopEnabled = d.DesktopEnabled
	p.NotificationsChosen = true

	err := s.db.WithContext(ctx).Model(p).
		Select("email_enabled", "push_enabled", "sms_enabled", "desktop_enabled", "notifications_chosen").
		Updates(p).Error
	if err != nil {
		return fmt.Errorf("heal legacy notification flags: %w", err)
	}
	return nil
}

func newResponse(p *models.UserPreferences) *Response {
	return &Response{
		Theme:          p.Theme,
		FontSize:       p.FontSize,
		Language:       p.Language,
		Direction:      Direction(p.Language),
		Timezone:       p.Timezone,
		EmailEnabled:   p.EmailEnabled,
		PushEnabled:    p.PushEnabled,
		SMSEnabled:     p.SMSEnabled,
		DesktopEnabled: p.DesktopEnabled,
	}
}

func notificationPrefs(p *models.UserPreferences) *NotificationPrefs {
	return &NotificationPrefs{
		EmailEnabled:   p.EmailEnabled,
		PushEnabled:    p.PushEnabled,
		SMSEnabled:     p.SMSEnabled,
		DesktopEnabled: p.DesktopEnabled,
	}
}
