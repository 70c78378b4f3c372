package preference

import (
	"context"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/hamyarhq/hamyar_backend/internal/models"
	"github.com/hamyarhq/hamyar_backend/pkg/validate"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("unwrap sql.DB: %v", err)
	}
	// One connection keeps every query on the same in-memory database.
	sqlDB.SetMaxOpenConns(1)
	if err := db.AutoMigrate(models.All()...); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func countRows(t *testing.T, db *gorm.DB) int64 {
	t.Helper()
	var n int64
	if err := db.Model(&models.UserPreferences{}).Count(&n).Error; err != nil {
		t.Fatalf("count rows: %v", err)
	}
	return n
}

func loadRow(t *testing.T, db *gorm.DB, userID uuid.UUID) *models.UserPreferences {
	t.Helper()
	var p models.UserPreferences
	if err := db.Where("user_id = ?", userID).First(&p).Error; err != nil {
		t.Fatalf("load row: %v", err)
	}
	return &p
}

func TestDirection(t *testing.T) {
	tests := []struct {
		language string
		want     string
	}{
		{"fa", "rtl"},
		{"en", "ltr"},
		{"", "ltr"},
		{"de", "ltr"},
	}
	for _, tt := range tests {
		if got := Direction(tt.language); got != tt.want {
			t.Errorf("Direction(%q) = %q, want %q", tt.language, got, tt.want)
		}
	}
}

func TestGetServesDefaultsWithoutWriting(t *testing.T) {
	db := openTestDB(t)
	svc := New(db)
	userID := uuid.New()

	resp, err := svc.Get(context.Background(), userID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}

	if resp.Theme != models.ThemeSystem {
		t.Errorf("theme = %q, want %q", resp.Theme, models.ThemeSystem)
	}
	if resp.FontSize != models.FontSizeMD {
		t.Errorf("font size = %q, want %q", resp.FontSize, models.FontSizeMD)
	}
	if resp.Language != models.LanguageFA {
		t.Errorf("language = %q, want %q", resp.Language, models.LanguageFA)
	}
	if resp.Direction != "rtl" {
		t.Errorf("direction = %q, want rtl", resp.Direction)
	}
	if resp.Timezone != models.DefaultTimezone {
		t.Errorf("timezone = %q, want %q", resp.Timezone, models.DefaultTimezone)
	}
	if !resp.EmailEnabled || !resp.PushEnabled || resp.SMSEnabled || !resp.DesktopEnabled {
		t.Errorf("notification flags = %v/%v/%v/%v, want true/true/false/true",
			resp.EmailEnabled, resp.PushEnabled, resp.SMSEnabled, resp.DesktopEnabled)
	}

	if n := countRows(t, db); n != 0 {
		t.Errorf("Get persisted %d rows, want 0", n)
	}
}

func TestUpdateCreatesThenReuses(t *testing.T) {
	db := openTestDB(t)
	svc := New(db)
	userID := uuid.New()
	ctx := context.Background()

	resp, err := svc.Update(ctx, userID, UpdateRequest{
		Theme:    models.ThemeDark,
		FontSize: models.FontSizeLG,
		Language: models.LanguageEN,
		Timezone: "Europe/Berlin",
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if resp.Theme != models.ThemeDark || resp.Language != models.LanguageEN {
		t.Errorf("response = %+v, want dark/en", resp)
	}
	if resp.Direction != "ltr" {
		t.Errorf("direction = %q, want ltr", resp.Direction)
	}
	if n := countRows(t, db); n != 1 {
		t.Fatalf("rows after first update = %d, want 1", n)
	}

	// New row gets the default flag bundle.
	row := loadRow(t, db, userID)
	if !row.EmailEnabled || !row.PushEnabled || row.SMSEnabled || !row.DesktopEnabled {
		t.Errorf("fresh row flags = %v/%v/%v/%v, want defaults",
			row.EmailEnabled, row.PushEnabled, row.SMSEnabled, row.DesktopEnabled)
	}
	if row.NotificationsChosen {
		t.Error("appearance update marked notification flags as chosen")
	}

	if _, err := svc.Update(ctx, userID, UpdateRequest{
		Theme:    models.ThemeLight,
		FontSize: models.FontSizeSM,
		Language: models.LanguageFA,
		Timezone: models.DefaultTimezone,
	}); err != nil {
		t.Fatalf("second Update: %v", err)
	}
	if n := countRows(t, db); n != 1 {
		t.Errorf("rows after second update = %d, want 1", n)
	}
	row = loadRow(t, db, userID)
	if row.Theme != models.ThemeLight || row.Language != models.LanguageFA {
		t.Errorf("row = %q/%q, want light/fa", row.Theme, row.Language)
	}
}

func TestUpdateRejectsInvalidInput(t *testing.T) {
	db := openTestDB(t)
	svc := New(db)
	userID := uuid.New()
	ctx := context.Background()

	longZone := make([]byte, models.TimezoneMaxLen+1)
	for i := range longZone {
		longZone[i] = 'a'
	}

	tests := []struct {
		name string
		req  UpdateRequest
	}{
		{"bad theme", UpdateRequest{Theme: "neon", FontSize: "md", Language: "fa", Timezone: "Asia/Tehran"}},
		{"bad font size", UpdateRequest{Theme: "dark", FontSize: "xl", Language: "fa", Timezone: "Asia/Tehran"}},
		{"bad language", UpdateRequest{Theme: "dark", FontSize: "md", Language: "fr", Timezone: "Asia/Tehran"}},
		{"empty timezone", UpdateRequest{Theme: "dark", FontSize: "md", Language: "fa", Timezone: ""}},
		{"timezone too long", UpdateRequest{Theme: "dark", FontSize: "md", Language: "fa", Timezone: string(longZone)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Update(ctx, userID, tt.req)
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !validate.IsValidationError(err) {
				t.Fatalf("error = %v, want validation error", err)
			}
		})
	}

	if n := countRows(t, db); n != 0 {
		t.Errorf("invalid updates persisted %d rows, want 0", n)
	}
}

func TestAppearanceAndNotificationsIndependent(t *testing.T) {
	db := openTestDB(t)
	svc := New(db)
	userID := uuid.New()
	ctx := context.Background()

	if _, err := svc.UpdateNotificationPrefs(ctx, userID, UpdateNotificationsRequest{
		EmailEnabled: false, PushEnabled: false, SMSEnabled: true, DesktopEnabled: false,
	}); err != nil {
		t.Fatalf("UpdateNotificationPrefs: %v", err)
	}

	if _, err := svc.Update(ctx, userID, UpdateRequest{
		Theme: models.ThemeDark, FontSize: models.FontSizeLG, Language: models.LanguageEN, Timezone: "UTC",
	}); err != nil {
		t.Fatalf("Update: %v", err)
	}

	row := loadRow(t, db, userID)
	if row.EmailEnabled || row.PushEnabled || !row.SMSEnabled || row.DesktopEnabled {
		t.Errorf("appearance update changed flags: %v/%v/%v/%v",
			row.EmailEnabled, row.PushEnabled, row.SMSEnabled, row.DesktopEnabled)
	}

	if _, err := svc.UpdateNotificationPrefs(ctx, userID, UpdateNotificationsRequest{
		EmailEnabled: true, PushEnabled: true, SMSEnabled: true, DesktopEnabled: true,
	}); err != nil {
		t.Fatalf("second UpdateNotificationPrefs: %v", err)
	}

	row = loadRow(t, db, userID)
	if row.Theme != models.ThemeDark || row.FontSize != models.FontSizeLG ||
		row.Language != models.LanguageEN || row.Timezone != "UTC" {
		t.Errorf("notification update changed appearance: %q/%q/%q/%q",
			row.Theme, row.FontSize, row.Language, row.Timezone)
	}
	if n := countRows(t, db); n != 1 {
		t.Errorf("rows = %d, want 1", n)
	}
}

func TestNotificationPrefsCreateSetsDefaultAppearance(t *testing.T) {
	db := openTestDB(t)
	svc := New(db)
	userID := uuid.New()

	prefs, err := svc.UpdateNotificationPrefs(context.Background(), userID, UpdateNotificationsRequest{
		EmailEnabled: true, PushEnabled: false, SMSEnabled: true, DesktopEnabled: false,
	})
	if err != nil {
		t.Fatalf("UpdateNotificationPrefs: %v", err)
	}
	if !prefs.EmailEnabled || prefs.PushEnabled || !prefs.SMSEnabled || prefs.DesktopEnabled {
		t.Errorf("prefs = %+v, want true/false/true/false", prefs)
	}

	row := loadRow(t, db, userID)
	if row.Theme != models.ThemeSystem || row.Language != models.LanguageFA {
		t.Errorf("fresh row appearance = %q/%q, want system/fa", row.Theme, row.Language)
	}
	if !row.NotificationsChosen {
		t.Error("notification write did not set the chosen marker")
	}
}

func TestLegacyAllFalseRowHealedOnRead(t *testing.T) {
	db := openTestDB(t)
	svc := New(db)
	userID := uuid.New()

	legacy := models.DefaultPreferences(userID)
	legacy.EmailEnabled = false
	legacy.PushEnabled = false
	legacy.SMSEnabled = false
	legacy.DesktopEnabled = false
	legacy.NotificationsChosen = false
	if err := db.Create(legacy).Error; err != nil {
		t.Fatalf("seed legacy row: %v", err)
	}

	resp, err := svc.Get(context.Background(), userID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !resp.EmailEnabled || !resp.PushEnabled || resp.SMSEnabled || !resp.DesktopEnabled {
		t.Errorf("healed flags = %v/%v/%v/%v, want true/true/false/true",
			resp.EmailEnabled, resp.PushEnabled, resp.SMSEnabled, resp.DesktopEnabled)
	}

	// Correction is persisted, not just served.
	row := loadRow(t, db, userID)
	if !row.EmailEnabled || !row.PushEnabled || row.SMSEnabled || !row.DesktopEnabled {
		t.Errorf("stored flags = %v/%v/%v/%v, want true/true/false/true",
			row.EmailEnabled, row.PushEnabled, row.SMSEnabled, row.DesktopEnabled)
	}
	if !row.NotificationsChosen {
		t.Error("healing did not set the chosen marker")
	}
}

func TestDeliberateAllFalseSurvivesRead(t *testing.T) {
	db := openTestDB(t)
	svc := New(db)
	userID := uuid.New()
	ctx := context.Background()

	if _, err := svc.UpdateNotificationPrefs(ctx, userID, UpdateNotificationsRequest{}); err != nil {
		t.Fatalf("UpdateNotificationPrefs: %v", err)
	}

	prefs, err := svc.GetNotificationPrefs(ctx, userID)
	if err != nil {
		t.Fatalf("GetNotificationPrefs: %v", err)
	}
	if prefs.EmailEnabled || prefs.PushEnabled || prefs.SMSEnabled || prefs.DesktopEnabled {
		t.Errorf("prefs = %+v, want all false", prefs)
	}

	// A second read must not resurrect the defaults either.
	resp, err := svc.Get(ctx, userID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if resp.EmailEnabled || resp.PushEnabled || resp.SMSEnabled || resp.DesktopEnabled {
		t.Errorf("flags after reread = %v/%v/%v/%v, want all false",
			resp.EmailEnabled, resp.PushEnabled, resp.SMSEnabled, resp.DesktopEnabled)
	}
}

func TestPartiallyFalseLegacyRowUntouched(t *testing.T) {
	db := openTestDB(t)
	svc := New(db)
	userID := uuid.New()

	legacy := models.DefaultPreferences(userID)
	legacy.EmailEnabled = false
	legacy.PushEnabled = false
	legacy.SMSEnabled = false
	legacy.DesktopEnabled = true
	legacy.NotificationsChosen = false
	if err := db.Create(legacy).Error; err != nil {
		t.Fatalf("seed row: %v", err)
	}

	resp, err := svc.Get(context.Background(), userID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if resp.EmailEnabled || resp.PushEnabled || resp.SMSEnabled || !resp.DesktopEnabled {
		t.Errorf("flags = %v/%v/%v/%v, want false/false/false/true",
			resp.EmailEnabled, resp.PushEnabled, resp.SMSEnabled, resp.DesktopEnabled)
	}
	row := loadRow(t, db, userID)
	if row.NotificationsChosen {
		t.Error("partially false row was marked as chosen")
	}
}
