// Package auth implements account signup and the session-backed token flow.
// Access and refresh tokens are PASETO; the session lives in Redis keyed by
// the session ID carried in both tokens, with its TTL taken from the
// admin-configured session timeout.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/hamyarhq/hamyar_backend/config"
	"github.com/hamyarhq/hamyar_backend/internal/models"
	"github.com/hamyarhq/hamyar_backend/internal/service/settings"
	pasetotoken "github.com/hamyarhq/hamyar_backend/pkg/paseto"
	"github.com/hamyarhq/hamyar_backend/pkg/util/password"
	"github.com/hamyarhq/hamyar_backend/pkg/validate"
)

// redisKeySession returns the Redis key holding a session's user ID.
func redisKeySession(sessionID string) string { return "session:" + sessionID }

// ---------------------------------------------------------------------------
// DTOs
// ---------------------------------------------------------------------------

type RegisterRequest struct {
	FirstName string `json:"first_name" validate:"required,max=100"`
	LastName  string `json:"last_name" validate:"required,max=100"`
	Email     string `json:"email" validate:"required,email,max=255"`
	Phone     string `json:"phone" validate:"omitempty,phone"`
	Password  string `json:"password" validate:"required,max=128"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type AuthTokens struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"` // seconds until the access token expires
}

// ---------------------------------------------------------------------------
// Interface
// ---------------------------------------------------------------------------

type Service interface {
	// Register creates an account with the user role. The password must meet
	// the configured minimum length and the email must pass the
	// allowed-domains policy.
	Register(ctx context.Context, req RegisterRequest) (*models.User, error)

	Login(ctx context.Context, req LoginRequest) (*AuthTokens, error)

	// RefreshTokens extends the session and issues a fresh access token. The
	// refresh token is returned unchanged; it rotates only at login.
	RefreshTokens(ctx context.Context, refreshToken string) (*AuthTokens, error)

	Logout(ctx context.Context, sessionID uuid.UUID) error
}

// ---------------------------------------------------------------------------
// Implementation
// ---------------------------------------------------------------------------

type authService struct {
	db       *gorm.DB
	rdb      *redis.Client
	paseto   *pasetotoken.Manager
	settings settings.Service
	cfg      *config.Config
}

func New(
	db *gorm.DB,
	rdb *redis.Client,
	paseto *pasetotoken.Manager,
	settingsSvc settings.Service,
	cfg *config.Config,
) Service {
	return &authService{
		db:       db,
		rdb:      rdb,
		paseto:   paseto,
		settings: settingsSvc,
		cfg:      cfg,
	}
}

func (s *authService) Register(ctx context.Context, req RegisterRequest) (*models.User, error) {
	req.FirstName = strings.TrimSpace(req.FirstName)
	req.LastName = strings.TrimSpace(req.LastName)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.Phone = strings.TrimSpace(req.Phone)
	if err := validate.Struct(req); err != nil {
		return nil, err
	}

	sys, err := s.settings.Effective(ctx)
	if err != nil {
		return nil, err
	}
	if !sys.EmailDomainAllowed(req.Email) {
		return nil, ErrEmailDomainNotAllowed
	}
	if len(req.Password) < sys.PasswordMinLength {
		return nil, fmt.Errorf("%w: minimum is %d characters", ErrPasswordTooShort, sys.PasswordMinLength)
	}

	var n int64
	err = s.db.WithContext(ctx).Model(&models.User{}).Where("email = ?", req.Email).Count(&n).Error
	if err != nil {
		return nil, fmt.Errorf("check email: %w", err)
	}
	if n > 0 {
		return nil, ErrEmailTaken
	}

	hash, err := password.Hash(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	u := models.User{
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Email:        req.Email,
		Phone:        req.Phone,
		PasswordHash: hash,
		Role:         models.RoleUser,
	}
	if err := s.db.WithContext(ctx).Create(&u).Error; err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	return &u, nil
}

func (s *authService) Login(ctx context.Context, req LoginRequest) (*AuthTokens, error) {
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if err := validate.Struct(req); err != nil {
		return nil, err
	}

	var u models.User
	err := s.db.WithContext(ctx).First(&u, "email = ?", req.Email).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}

	if err := password.Verify(u.PasswordHash, req.Password); err != nil {
		return nil, ErrInvalidCredentials
	}

	now := time.Now()
	u.LastLoginAt = &now
	err = s.db.WithContext(ctx).Model(&u).Select("last_login_at").Updates(&u).Error
	if err != nil {
		slog.Warn("record last login failed", "user_id", u.ID, "error", err)
	}

	return s.createSession(ctx, &u)
}

func (s *authService) RefreshTokens(ctx context.Context, refreshToken string) (*AuthTokens, error) {
	claims, err := s.paseto.Verify(refreshToken)
	if err != nil {
		return nil, ErrInvalidToken
	}
	if claims.Type != pasetotoken.TokenTypeRefresh || claims.SessionID == nil {
		return nil, ErrInvalidToken
	}

	sessionKey := redisKeySession(claims.SessionID.String())
	if err := s.rdb.Get(ctx, sessionKey).Err(); errors.Is(err, redis.Nil) {
		return nil, ErrSessionNotFound
	} else if err != nil {
		return nil, fmt.Errorf("redis get session: %w", err)
	}

	// Load the user so the new access token carries the current role.
	var u models.User
	err = s.db.WithContext(ctx).First(&u, "id = ?", claims.UserID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrInvalidToken
	}
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}

	ttl, err := s.sessionTTL(ctx)
	if err != nil {
		return nil, err
	}
	s.rdb.Expire(ctx, sessionKey, ttl)

	access, err := s.paseto.IssueAccess(u.ID, u.Role, claims.SessionID)
	if err != nil {
		return nil, fmt.Errorf("issue access token: %w", err)
	}

	accessTTL := time.Duration(s.cfg.Authentication.Paseto.AccessTTLMinutes) * time.Minute
	return &AuthTokens{
		AccessToken:  access,
		RefreshToken: refreshToken, // unchanged until the next login
		ExpiresIn:    int64(accessTTL.Seconds()),
	}, nil
}

func (s *authService) Logout(ctx context.Context, sessionID uuid.UUID) error {
	deleted, err := s.rdb.Del(ctx, redisKeySession(sessionID.String())).Result()
	if err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	if deleted == 0 {
		// Already expired; nothing for the client to act on.
		slog.Debug("logout: session not found in Redis", "session_id", sessionID)
	}
	return nil
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

func (s *authService) createSession(ctx context.Context, u *models.User) (*AuthTokens, error) {
	sessionID := uuid.Must(uuid.NewV7())

	ttl, err := s.sessionTTL(ctx)
	if err != nil {
		return nil, err
	}
	sessionKey := redisKeySession(sessionID.String())
	if err := s.rdb.Set(ctx, sessionKey, u.ID.String(), ttl).Err(); err != nil {
		return nil, fmt.Errorf("store session: %w", err)
	}

	access, err := s.paseto.IssueAccess(u.ID, u.Role, &sessionID)
	if err != nil {
		return nil, fmt.Errorf("issue access token: %w", err)
	}
	refresh, err := s.paseto.IssueRefresh(u.ID, &sessionID)
	if err != nil {
		return nil, fmt.Errorf("issue refresh token: %w", err)
	}

	accessTTL := time.Duration(s.cfg.Authentication.Paseto.AccessTTLMinutes) * time.Minute
	return &AuthTokens{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresIn:    int64(accessTTL.Seconds()),
	}, nil
}

// sessionTTL is the admin-configured session timeout.
func (s *authService) sessionTTL(ctx context.Context) (time.Duration, error) {
	sys, err := s.settings.Effective(ctx)
	if err != nil {
		return 0, err
	}
	return time.Duration(sys.SessionTimeoutMinutes) * time.Minute, nil
}
