package ticket

import (
	"bytes"
	"context"
	"errors"
	"io"
	"mime/multipart"
	"strings"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/hamyarhq/hamyar_backend/internal/models"
	"github.com/hamyarhq/hamyar_backend/internal/service/settings"
	"github.com/hamyarhq/hamyar_backend/pkg/validate"
)

type fakeStore struct {
	keys []string
}

func (f *fakeStore) Upload(_ context.Context, key, _ string, body io.Reader, _ int64) error {
	if _, err := io.Copy(io.Discard, body); err != nil {
		return err
	}
	f.keys = append(f.keys, key)
	return nil
}

func (f *fakeStore) PresignDownload(_ context.Context, key string) (string, error) {
	return "https://files.test/" + key, nil
}

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
	sqlDB.SetMaxOpenConns(1)
	if err := db.AutoMigrate(models.All()...); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func newTestService(t *testing.T) (Service, *gorm.DB, *fakeStore) {
	t.Helper()
	db := openTestDB(t)
	store := &fakeStore{}
	return New(db, nil, store, settings.New(db)), db, store
}

func fileHeader(t *testing.T, name string, content []byte) *multipart.FileHeader {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	fw, err := w.CreateFormFile("file", name)
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := fw.Write(content); err != nil {
		t.Fatalf("write form file: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}

	form, err := multipart.NewReader(&buf, w.Boundary()).ReadForm(64 << 20)
	if err != nil {
		t.Fatalf("read form: %v", err)
	}
	t.Cleanup(func() { _ = form.RemoveAll() })
	return form.File["file"][0]
}

func TestCreateAppliesSettingsDefaults(t *testing.T) {
	svc, _, _ := newTestService(t)
	userID := uuid.New()

	before := time.Now()
	row, err := svc.Create(context.Background(), userID, CreateRequest{
		Subject:     "  printer is on fire  ",
		Description: "third floor",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if row.Subject != "printer is on fire" {
		t.Errorf("subject = %q, want trimmed", row.Subject)
	}
	if row.Status != models.TicketStatusOpen {
		t.Errorf("status = %q, want open", row.Status)
	}
	if row.Priority != models.TicketPriorityNormal {
		t.Errorf("priority = %q, want normal", row.Priority)
	}
	if row.TechnicianID != nil {
		t.Error("new ticket already has a technician")
	}
	if row.DueAt == nil {
		t.Fatal("due time not set")
	}
	// Default SLA is 24 hours.
	want := before.Add(24 * time.Hour)
	if row.DueAt.Before(want.Add(-time.Minute)) || row.DueAt.After(want.Add(time.Minute)) {
		t.Errorf("due at = %v, want about %v", row.DueAt, want)
	}
}

func TestCreateHonorsExplicitPriorityAndSavedSLA(t *testing.T) {
	svc, db, _ := newTestService(t)

	sys := models.DefaultSystemSettings()
	sys.ResponseSLAHours = 2
	sys.DefaultTicketPriority = models.TicketPriorityLow
	if err := db.Create(sys).Error; err != nil {
		t.Fatalf("seed settings: %v", err)
	}

	before := time.Now()
	row, err := svc.Create(context.Background(), uuid.New(), CreateRequest{
		Subject:  "vpn down",
		Priority: models.TicketPriorityUrgent,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if row.Priority != models.TicketPriorityUrgent {
		t.Errorf("priority = %q, want explicit urgent over default", row.Priority)
	}
	want := before.Add(2 * time.Hour)
	if row.DueAt.Before(want.Add(-time.Minute)) || row.DueAt.After(want.Add(time.Minute)) {
		t.Errorf("due at = %v, want about %v", row.DueAt, want)
	}
}

func TestCreateValidatesInput(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	tests := []struct {
		name string
		req  CreateRequest
	}{
		{"empty subject", CreateRequest{Subject: "   "}},
		{"bad priority", CreateRequest{Subject: "x", Priority: "asap"}},
		{"long subject", CreateRequest{Subject: strings.Repeat("x", 256)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(ctx, uuid.New(), tt.req)
			if !validate.IsValidationError(err) {
				t.Fatalf("error = %v, want validation error", err)
			}
		})
	}
}

func TestListScopesToOwnerUnlessAdmin(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()
	alice := uuid.New()
	bob := uuid.New()

	mine, err := svc.Create(ctx, alice, CreateRequest{Subject: "mine"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := svc.Create(ctx, bob, CreateRequest{Subject: "theirs"}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	own, err := svc.List(ctx, alice, false, ListRequest{})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(own) != 1 || own[0].ID != mine.ID {
		t.Fatalf("owner list = %d rows, want only own ticket", len(own))
	}

	all, err := svc.List(ctx, alice, true, ListRequest{})
	if err != nil {
		t.Fatalf("admin List: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("admin list = %d rows, want 2", len(all))
	}

	open := models.TicketStatusOpen
	filtered, err := svc.List(ctx, alice, true, ListRequest{Status: &open})
	if err != nil {
		t.Fatalf("filtered List: %v", err)
	}
	if len(filtered) != 2 {
		t.Fatalf("status filter dropped open tickets: %d", len(filtered))
	}

	bad := "done"
	if _, err := svc.List(ctx, alice, true, ListRequest{Status: &bad}); !validate.IsValidationError(err) {
		t.Fatalf("error = %v, want validation error for bad status", err)
	}
}

func TestGetByIDHidesForeignTickets(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()
	owner := uuid.New()
	stranger := uuid.New()

	row, err := svc.Create(ctx, owner, CreateRequest{Subject: "secret"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if _, err := svc.GetByID(ctx, row.ID, owner, false); err != nil {
		t.Fatalf("owner GetByID: %v", err)
	}
	if _, err := svc.GetByID(ctx, row.ID, stranger, false); !errors.Is(err, ErrNotFound) {
		t.Fatalf("stranger error = %v, want ErrNotFound", err)
	}
	if _, err := svc.GetByID(ctx, row.ID, stranger, true); err != nil {
		t.Fatalf("admin GetByID: %v", err)
	}
	if _, err := svc.GetByID(ctx, uuid.New(), owner, true); !errors.Is(err, ErrNotFound) {
		t.Fatalf("missing ticket error = %v, want ErrNotFound", err)
	}
}

func TestUpdateStatus(t *testing.T) {
	svc, db, _ := newTestService(t)
	ctx := context.Background()

	row, err := svc.Create(ctx, uuid.New(), CreateRequest{Subject: "slow wifi"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	updated, err := svc.UpdateStatus(ctx, row.ID, UpdateStatusRequest{Status: models.TicketStatusInProgress})
	if err != nil {
		t.Fatalf("UpdateStatus: %v", err)
	}
	if updated.Status != models.TicketStatusInProgress {
		t.Errorf("status = %q, want in_progress", updated.Status)
	}

	var stored models.Ticket
	if err := db.First(&stored, "id = ?", row.ID).Error; err != nil {
		t.Fatalf("reload: %v", err)
	}
	if stored.Status != models.TicketStatusInProgress {
		t.Errorf("stored status = %q, want in_progress", stored.Status)
	}
	if stored.Subject != "slow wifi" {
		t.Errorf("status change touched subject: %q", stored.Subject)
	}

	if _, err := svc.UpdateStatus(ctx, row.ID, UpdateStatusRequest{Status: "done"}); !validate.IsValidationError(err) {
		t.Fatalf("error = %v, want validation error", err)
	}
	if _, err := svc.UpdateStatus(ctx, uuid.New(), UpdateStatusRequest{Status: models.TicketStatusClosed}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("error = %v, want ErrNotFound", err)
	}
}

func TestAssignTechnician(t *testing.T) {
	svc, db, _ := newTestService(t)
	ctx := context.Background()

	row, err := svc.Create(ctx, uuid.New(), CreateRequest{Subject: "assign me"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	active := models.Technician{FirstName: "Sara", LastName: "Mohammadi", Email: "sara@example.com", Active: true}
	inactive := models.Technician{FirstName: "Old", LastName: "Hand", Email: "old@example.com", Active: false}
	if err := db.Create(&active).Error; err != nil {
		t.Fatalf("seed technician: %v", err)
	}
	if err := db.Create(&inactive).Error; err != nil {
		t.Fatalf("seed technician: %v", err)
	}
	// Create() fills defaults on the struct, so force the stored state.
	if err := db.Model(&inactive).Select("active").Updates(map[string]any{"active": false}).Error; err != nil {
		t.Fatalf("deactivate technician: %v", err)
	}

	assigned, err := svc.AssignTechnician(ctx, row.ID, active.ID)
	if err != nil {
		t.Fatalf("AssignTechnician: %v", err)
	}
	if assigned.TechnicianID == nil || *assigned.TechnicianID != active.ID {
		t.Errorf("technician = %v, want %v", assigned.TechnicianID, active.ID)
	}

	if _, err := svc.AssignTechnician(ctx, row.ID, inactive.ID); !errors.Is(err, ErrTechnicianInactive) {
		t.Fatalf("error = %v, want ErrTechnicianInactive", err)
	}
	if _, err := svc.AssignTechnician(ctx, row.ID, uuid.New()); !errors.Is(err, ErrTechnicianNotFound) {
		t.Fatalf("error = %v, want ErrTechnicianNotFound", err)
	}
	if _, err := svc.AssignTechnician(ctx, uuid.New(), active.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("error = %v, want ErrNotFound", err)
	}
}

func TestAddAttachment(t *testing.T) {
	svc, db, store := newTestService(t)
	ctx := context.Background()
	owner := uuid.New()

	row, err := svc.Create(ctx, owner, CreateRequest{Subject: "logs attached"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	res, err := svc.AddAttachment(ctx, row.ID, owner, false, fileHeader(t, "trace.log", []byte("boom")))
	if err != nil {
		t.Fatalf("AddAttachment: %v", err)
	}
	if !strings.HasPrefix(res.Key, "tickets/"+row.ID.String()+"/") {
		t.Errorf("key = %q, want tickets/<id>/ prefix", res.Key)
	}
	if !strings.HasSuffix(res.Key, ".log") {
		t.Errorf("key = %q, want .log extension", res.Key)
	}
	if res.URL != "https://files.test/"+res.Key {
		t.Errorf("url = %q", res.URL)
	}
	if len(store.keys) != 1 || store.keys[0] != res.Key {
		t.Errorf("store uploads = %v", store.keys)
	}

	var stored models.Ticket
	if err := db.First(&stored, "id = ?", row.ID).Error; err != nil {
		t.Fatalf("reload: %v", err)
	}
	if len(stored.AttachmentKeys) != 1 || stored.AttachmentKeys[0] != res.Key {
		t.Errorf("attachment keys = %v", stored.AttachmentKeys)
	}

	if _, err := svc.AddAttachment(ctx, row.ID, uuid.New(), false, fileHeader(t, "x.txt", []byte("hi"))); !errors.Is(err, ErrNotFound) {
		t.Fatalf("stranger upload error = %v, want ErrNotFound", err)
	}
}

func TestAddAttachmentHonorsSettings(t *testing.T) {
	svc, db, _ := newTestService(t)
	ctx := context.Background()
	owner := uuid.New()

	row, err := svc.Create(ctx, owner, CreateRequest{Subject: "blocked"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	sys := models.DefaultSystemSettings()
	sys.MaxAttachmentSizeMB = 1
	if err := db.Create(sys).Error; err != nil {
		t.Fatalf("seed settings: %v", err)
	}

	big := make([]byte, 1<<20+1)
	if _, err := svc.AddAttachment(ctx, row.ID, owner, false, fileHeader(t, "big.bin", big)); !errors.Is(err, ErrAttachmentTooLarge) {
		t.Fatalf("error = %v, want ErrAttachmentTooLarge", err)
	}

	err = db.Model(&models.SystemSettings{ID: models.SystemSettingsID}).
		Select("attachments_enabled").Updates(map[string]any{"attachments_enabled": false}).Error
	if err != nil {
		t.Fatalf("disable attachments: %v", err)
	}

	if _, err := svc.AddAttachment(ctx, row.ID, owner, false, fileHeader(t, "x.txt", []byte("hi"))); !errors.Is(err, ErrAttachmentsDisabled) {
		t.Fatalf("error = %v, want ErrAttachmentsDisabled", err)
	}
}
