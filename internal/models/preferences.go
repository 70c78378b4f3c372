package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	ThemeLight  = "light"
	ThemeDark   = "dark"
	ThemeSystem = "system"

	FontSizeSM = "sm"
	FontSizeMD = "md"
	FontSizeLG = "lg"

	LanguageFA = "fa"
	LanguageEN = "en"

	// DefaultTimezone is the IANA zone applied when a user has never set one.
	DefaultTimezone = "Asia/Tehran"

	TimezoneMaxLen = 100
)

// UserPreferences is the single per-user settings row: appearance fields plus
// the four notification channel toggles. Text direction is never stored, it is
// recomputed from Language on every read.
//
// NotificationsChosen records that the four flags were written through the
// notification API. Rows imported before the marker existed carry false; an
// all-false flag set on such a row is treated as unmigrated and reset to
// defaults on read. Once the marker is set, an all-false state is an explicit
// user choice and is left alone.
type UserPreferences struct {
	ID     uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex" json:"user_id"`

	Theme    string `gorm:"size:20;not null;default:'system'" json:"theme"`
	FontSize string `gorm:"size:10;not null;default:'md'" json:"font_size"`
	Language string `gorm:"size:10;not null;default:'fa'" json:"language"`
	Timezone string `gorm:"size:100;not null;default:'Asia/Tehran'" json:"timezone"`

	// No column defaults on the flags: a default tag makes gorm drop
	// zero values on insert, which would turn an explicit all-off save
	// back into the defaults.
	EmailEnabled   bool `gorm:"not null" json:"email_enabled"`
	PushEnabled    bool `gorm:"not null" json:"push_enabled"`
	SMSEnabled     bool `gorm:"not null" json:"sms_enabled"`
	DesktopEnabled bool `gorm:"not null" json:"desktop_enabled"`

	NotificationsChosen bool `gorm:"not null" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	User *User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

func (p *UserPreferences) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		id, err := uuid.NewV7()
		if err != nil {
			return err
		}
		p.ID = id
	}
	return nil
}

func (UserPreferences) TableName() string {
	return "user_preferences"
}

// DefaultPreferences is the bundle served when no row exists and the target
// state of the legacy-row correction. Single source of truth for defaults.
func DefaultPreferences(userID uuid.UUID) *UserPreferences {
	return &UserPreferences{
		UserID:         userID,
		Theme:          ThemeSystem,
		FontSize:       FontSizeMD,
		Language:       LanguageFA,
		Timezone:       DefaultTimezone,
		EmailEnabled:   true,
		PushEnabled:    true,
		SMSEnabled:     false,
		DesktopEnabled: true,
	}
}

func ValidTheme(v string) bool {
	return v == ThemeLight || v == ThemeDark || v == ThemeSystem
}

func ValidFontSize(v string) bool {
	return v == FontSizeSM || v == FontSizeMD || v == FontSizeLG
}

func ValidLanguage(v string) bool {
	return v == LanguageFA || v == LanguageEN
}
