// Package user implements profile management for the signed-in account:
// profile edits, password changes against the configured policy, and avatar
// uploads to object storage.
package user

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/hamyarhq/hamyar_backend/internal/models"
	"github.com/hamyarhq/hamyar_backend/internal/service/settings"
	s3pkg "github.com/hamyarhq/hamyar_backend/pkg/s3"
	"github.com/hamyarhq/hamyar_backend/pkg/util/password"
	"github.com/hamyarhq/hamyar_backend/pkg/validate"
)

// Avatars have a fixed cap independent of the admin-configured ticket
// attachment limit. Type checks go by sniffed content, not the filename.
const maxAvatarSize = 5 << 20

var avatarExt = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
}

// ObjectStore is the slice of the S3 client the avatar path needs.
type ObjectStore interface {
	Upload(ctx context.Context, key, contentType string, body io.Reader, size int64) error
	PresignDownload(ctx context.Context, key string) (string, error)
	Delete(ctx context.Context, key string) error
}

// ---------------------------------------------------------------------------
// DTOs
// ---------------------------------------------------------------------------

type UpdateMeRequest struct {
	FirstName string `json:"first_name" validate:"required,max=100"`
	LastName  string `json:"last_name" validate:"required,max=100"`
	Phone     string `json:"phone" validate:"omitempty,phone"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,max=128"`
}

type AvatarResult struct {
	Key string `json:"key"`
	URL string `json:"url"`
}

// ---------------------------------------------------------------------------
// Interface
// ---------------------------------------------------------------------------

type Service interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)

	UpdateProfile(ctx context.Context, id uuid.UUID, req UpdateMeRequest) (*models.User, error)

	// ChangePassword verifies the current password and applies the new one,
	// which must meet the configured minimum length.
	ChangePassword(ctx context.Context, id uuid.UUID, req ChangePasswordRequest) error

	// UploadAvatar stores the image under a per-user key. Only jpeg, png and
	// gif pass, judged by content sniffing, and files over 5 MB are rejected.
	UploadAvatar(ctx context.Context, id uuid.UUID, fh *multipart.FileHeader) (*AvatarResult, error)
}

// ---------------------------------------------------------------------------
// Implementation
// ---------------------------------------------------------------------------

type userService struct {
	db       *gorm.DB
	store    ObjectStore
	settings settings.Service
}

func New(db *gorm.DB, store ObjectStore, settingsSvc settings.Service) Service {
	return &userService{db: db, store: store, settings: settingsSvc}
}

func (s *userService) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var u models.User
	err := s.db.WithContext(ctx).First(&u, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	return &u, nil
}

func (s *userService) UpdateProfile(ctx context.Context, id uuid.UUID, req UpdateMeRequest) (*models.User, error) {
	req.FirstName = strings.TrimSpace(req.FirstName)
	req.LastName = strings.TrimSpace(req.LastName)
	req.Phone = strings.TrimSpace(req.Phone)
	if err := validate.Struct(req); err != nil {
		return nil, err
	}

	u, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	u.FirstName = req.FirstName
	u.LastName = req.LastName
	u.Phone = req.Phone
	err = s.db.WithContext(ctx).Model(u).
		Select("first_name", "last_name", "phone").
		Updates(u).Error
	if err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}
	return u, nil
}

func (s *userService) ChangePassword(ctx context.Context, id uuid.UUID, req ChangePasswordRequest) error {
	if err := validate.Struct(req); err != nil {
		return err
	}

	u, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := password.Verify(u.PasswordHash, req.CurrentPassword); err != nil {
		return ErrWrongPassword
	}

	sys, err := s.settings.Effective(ctx)
	if err != nil {
		return err
	}
	if len(req.NewPassword) < sys.PasswordMinLength {
		return fmt.Errorf("%w: minimum is %d characters", ErrPasswordTooShort, sys.PasswordMinLength)
	}

	hash, err := password.Hash(req.NewPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	u.PasswordHash = hash
	err = s.db.WithContext(ctx).Model(u).Select("password_hash").Updates(u).Error
	if err != nil {
		return fmt.Errorf("save password: %w", err)
	}
	return nil
}

func (s *userService) UploadAvatar(ctx context.Context, id uuid.UUID, fh *multipart.FileHeader) (*AvatarResult, error) {
	u, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if fh.Size > maxAvatarSize {
		return nil, fmt.Errorf("%w: limit is %d MB", ErrAvatarTooLarge, maxAvatarSize>>20)
	}

	src, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("open upload: %w", err)
	}
	defer src.Close()

	head := make([]byte, 512)
	n, err := io.ReadFull(src, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	head = head[:n]

	mime := http.DetectContentType(head)
	ext, ok := avatarExt[mime]
	if !ok {
		return nil, ErrAvatarType
	}

	key := s3pkg.AvatarKey(u.ID, ext)
	body := io.MultiReader(bytes.NewReader(head), src)
	if err := s.store.Upload(ctx, key, mime, body, fh.Size); err != nil {
		return nil, fmt.Errorf("upload avatar: %w", err)
	}

	// A format change leaves the old object under a different extension;
	// drop it best-effort.
	if u.AvatarKey != "" && u.AvatarKey != key {
		if err := s.store.Delete(ctx, u.AvatarKey); err != nil {
			slog.Warn("delete old avatar failed", "key", u.AvatarKey, "error", err)
		}
	}

	u.AvatarKey = key
	err = s.db.WithContext(ctx).Model(u).Select("avatar_key").Updates(u).Error
	if err != nil {
		return nil, fmt.Errorf("save avatar key: %w", err)
	}

	url, err := s.store.PresignDownload(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("presign avatar: %w", err)
	}
	return &AvatarResult{Key: key, URL: url}, nil
}
