package user

import (
	"bytes"
	"context"
	"errors"
	"io"
	"mime/multipart"
	"strings"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/hamyarhq/hamyar_backend/internal/models"
	"github.com/hamyarhq/hamyar_backend/internal/service/settings"
	"github.com/hamyarhq/hamyar_backend/pkg/util/password"
	"github.com/hamyarhq/hamyar_backend/pkg/validate"
)

var (
	pngHeader  = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 0}
	gifHeader  = []byte("GIF89a trailing")
	jpegHeader = []byte{0xFF, 0xD8, 0xFF, 0xE0, 0, 0, 0, 0}
)

type fakeStore struct {
	uploads map[string]string // key -> content type
	deleted []string
}

func newFakeStore() *fakeStore {
	return &fakeStore{uploads: map[string]string{}}
}

func (f *fakeStore) Upload(_ context.Context, key, contentType string, body io.Reader, _ int64) error {
	if _, err := io.Copy(io.Discard, body); err != nil {
		return err
	}
	f.uploads[key] = contentType
	return nil
}

func (f *fakeStore) PresignDownload(_ context.Context, key string) (string, error) {
	return "https://files.test/" + key, nil
}

func (f *fakeStore) Delete(_ context.Context, key string) error {
	f.deleted = append(f.deleted, key)
	delete(f.uploads, key)
	return nil
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
	store := newFakeStore()
	return New(db, store, settings.New(db)), db, store
}

func seedUser(t *testing.T, db *gorm.DB, email, pass string) *models.User {
	t.Helper()
	hash, err := password.Hash(pass)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	u := &models.User{
		FirstName:    "Omid",
		LastName:     "Naseri",
		Email:        email,
		PasswordHash: hash,
		Role:         models.RoleUser,
	}
	if err := db.Create(u).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return u
}

func fileHeader(t *testing.T, name string, content []byte) *multipart.FileHeader {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	fw, err := w.CreateFormFile("avatar", name)
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := fw.Write(content); err != nil {
		t.Fatalf("write form file: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}

	form, err := multipart.NewReader(&buf, w.Boundary()).ReadForm(16 << 20)
	if err != nil {
		t.Fatalf("read form: %v", err)
	}
	t.Cleanup(func() { _ = form.RemoveAll() })
	return form.File["avatar"][0]
}

func TestGetByID(t *testing.T) {
	svc, db, _ := newTestService(t)
	u := seedUser(t, db, "omid@example.com", "long enough")

	got, err := svc.GetByID(context.Background(), u.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Email != "omid@example.com" {
		t.Errorf("email = %q", got.Email)
	}

	if _, err := svc.GetByID(context.Background(), uuid.New()); !errors.Is(err, ErrNotFound) {
		t.Fatalf("error = %v, want ErrNotFound", err)
	}
}

func TestUpdateProfile(t *testing.T) {
	svc, db, _ := newTestService(t)
	u := seedUser(t, db, "omid@example.com", "long enough")

	got, err := svc.UpdateProfile(context.Background(), u.ID, UpdateMeRequest{
		FirstName: "Omid",
		LastName:  "Rahimi",
		Phone:     "+989123456789",
	})
	if err != nil {
		t.Fatalf("UpdateProfile: %v", err)
	}
	if got.LastName != "Rahimi" || got.Phone != "+989123456789" {
		t.Errorf("profile = %+v", got)
	}

	var stored models.User
	if err := db.First(&stored, "id = ?", u.ID).Error; err != nil {
		t.Fatalf("reload: %v", err)
	}
	if stored.Email != "omid@example.com" {
		t.Errorf("profile update touched email: %q", stored.Email)
	}
	if stored.PasswordHash != u.PasswordHash {
		t.Error("profile update touched password hash")
	}

	if _, err := svc.UpdateProfile(context.Background(), u.ID, UpdateMeRequest{LastName: "x"}); !validate.IsValidationError(err) {
		t.Fatalf("error = %v, want validation error", err)
	}
	if _, err := svc.UpdateProfile(context.Background(), uuid.New(), UpdateMeRequest{FirstName: "a", LastName: "b"}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("error = %v, want ErrNotFound", err)
	}
}

func TestChangePassword(t *testing.T) {
	svc, db, _ := newTestService(t)
	ctx := context.Background()
	u := seedUser(t, db, "omid@example.com", "old password")

	err := svc.ChangePassword(ctx, u.ID, ChangePasswordRequest{
		CurrentPassword: "wrong",
		NewPassword:     "new password",
	})
	if !errors.Is(err, ErrWrongPassword) {
		t.Fatalf("error = %v, want ErrWrongPassword", err)
	}

	// Default policy minimum is 8 characters.
	err = svc.ChangePassword(ctx, u.ID, ChangePasswordRequest{
		CurrentPassword: "old password",
		NewPassword:     "seven77",
	})
	if !errors.Is(err, ErrPasswordTooShort) {
		t.Fatalf("error = %v, want ErrPasswordTooShort", err)
	}

	err = svc.ChangePassword(ctx, u.ID, ChangePasswordRequest{
		CurrentPassword: "old password",
		NewPassword:     "new password",
	})
	if err != nil {
		t.Fatalf("ChangePassword: %v", err)
	}

	var stored models.User
	if err := db.First(&stored, "id = ?", u.ID).Error; err != nil {
		t.Fatalf("reload: %v", err)
	}
	if err := password.Verify(stored.PasswordHash, "new password"); err != nil {
		t.Errorf("new password does not verify: %v", err)
	}
	if err := password.Verify(stored.PasswordHash, "old password"); err == nil {
		t.Error("old password still verifies")
	}
}

func TestChangePasswordHonorsPolicy(t *testing.T) {
	svc, db, _ := newTestService(t)
	u := seedUser(t, db, "omid@example.com", "old password")

	sys := models.DefaultSystemSettings()
	sys.PasswordMinLength = 12
	if err := db.Create(sys).Error; err != nil {
		t.Fatalf("seed settings: %v", err)
	}

	err := svc.ChangePassword(context.Background(), u.ID, ChangePasswordRequest{
		CurrentPassword: "old password",
		NewPassword:     "elevenchar1",
	})
	if !errors.Is(err, ErrPasswordTooShort) {
		t.Fatalf("error = %v, want ErrPasswordTooShort under stricter policy", err)
	}
}

func TestUploadAvatarSniffsContent(t *testing.T) {
	svc, db, store := newTestService(t)
	ctx := context.Background()
	u := seedUser(t, db, "omid@example.com", "long enough")

	// Content wins over filename: a png named .txt is accepted as png.
	res, err := svc.UploadAvatar(ctx, u.ID, fileHeader(t, "whatever.txt", pngHeader))
	if err != nil {
		t.Fatalf("UploadAvatar: %v", err)
	}
	wantKey := "avatars/" + u.ID.String() + ".png"
	if res.Key != wantKey {
		t.Errorf("key = %q, want %q", res.Key, wantKey)
	}
	if res.URL != "https://files.test/"+wantKey {
		t.Errorf("url = %q", res.URL)
	}
	if ct := store.uploads[wantKey]; ct != "image/png" {
		t.Errorf("stored content type = %q", ct)
	}

	var stored models.User
	if err := db.First(&stored, "id = ?", u.ID).Error; err != nil {
		t.Fatalf("reload: %v", err)
	}
	if stored.AvatarKey != wantKey {
		t.Errorf("avatar key = %q", stored.AvatarKey)
	}

	// And a text file named .png is rejected.
	_, err = svc.UploadAvatar(ctx, u.ID, fileHeader(t, "fake.png", []byte("just some text content here")))
	if !errors.Is(err, ErrAvatarType) {
		t.Fatalf("error = %v, want ErrAvatarType", err)
	}
}

func TestUploadAvatarAcceptsJpegAndGif(t *testing.T) {
	svc, db, _ := newTestService(t)
	ctx := context.Background()

	tests := []struct {
		name    string
		content []byte
		ext     string
	}{
		{"jpeg", jpegHeader, ".jpg"},
		{"gif", gifHeader, ".gif"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u := seedUser(t, db, tt.name+"@example.com", "long enough")
			res, err := svc.UploadAvatar(ctx, u.ID, fileHeader(t, "pic", tt.content))
			if err != nil {
				t.Fatalf("UploadAvatar: %v", err)
			}
			if !strings.HasSuffix(res.Key, tt.ext) {
				t.Errorf("key = %q, want %s suffix", res.Key, tt.ext)
			}
		})
	}
}

func TestUploadAvatarSizeLimit(t *testing.T) {
	svc, db, _ := newTestService(t)
	u := seedUser(t, db, "omid@example.com", "long enough")

	big := make([]byte, maxAvatarSize+1)
	copy(big, pngHeader)
	_, err := svc.UploadAvatar(context.Background(), u.ID, fileHeader(t, "big.png", big))
	if !errors.Is(err, ErrAvatarTooLarge) {
		t.Fatalf("error = %v, want ErrAvatarTooLarge", err)
	}
}

func TestUploadAvatarReplacesOldObject(t *testing.T) {
	svc, db, store := newTestService(t)
	ctx := context.Background()
	u := seedUser(t, db, "omid@example.com", "long enough")

	if _, err := svc.UploadAvatar(ctx, u.ID, fileHeader(t, "a.png", pngHeader)); err != nil {
		t.Fatalf("first upload: %v", err)
	}
	res, err := svc.UploadAvatar(ctx, u.ID, fileHeader(t, "b.gif", gifHeader))
	if err != nil {
		t.Fatalf("second upload: %v", err)
	}

	pngKey := "avatars/" + u.ID.String() + ".png"
	gifKey := "avatars/" + u.ID.String() + ".gif"
	if res.Key != gifKey {
		t.Errorf("key = %q, want %q", res.Key, gifKey)
	}
	if len(store.deleted) != 1 || store.deleted[0] != pngKey {
		t.Errorf("deleted = %v, want old png key", store.deleted)
	}

	var stored models.User
	if err := db.First(&stored, "id = ?", u.ID).Error; err != nil {
		t.Fatalf("reload: %v", err)
	}
	if stored.AvatarKey != gifKey {
		t.Errorf("avatar key = %q, want %q", stored.AvatarKey, gifKey)
	}
}
