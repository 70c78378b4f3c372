package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/glebarez/sqlite"
	goredis "github.com/redis/go-redis/v9"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/hamyarhq/hamyar_backend/config"
	"github.com/hamyarhq/hamyar_backend/internal/models"
	"github.com/hamyarhq/hamyar_backend/internal/service/settings"
	pasetotoken "github.com/hamyarhq/hamyar_backend/pkg/paseto"
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
	sqlDB.SetMaxOpenConns(1)
	if err := db.AutoMigrate(models.All()...); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func newTestService(t *testing.T) (Service, *gorm.DB, *miniredis.Miniredis, *pasetotoken.Manager) {
	t.Helper()
	db := openTestDB(t)
	mr := miniredis.RunT(t)
	rdb := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	mgr, err := pasetotoken.New(pasetotoken.Config{
		Mode:     pasetotoken.ModeLocal,
		Issuer:   "hamyar-test",
		Audience: "hamyar-test",
	}, pasetotoken.NewLocalKeys())
	if err != nil {
		t.Fatalf("paseto manager: %v", err)
	}

	cfg := &config.Config{}
	cfg.Authentication.Paseto.AccessTTLMinutes = 15

	return New(db, rdb, mgr, settings.New(db), cfg), db, mr, mgr
}

func register(t *testing.T, svc Service, email, pass string) *models.User {
	t.Helper()
	u, err := svc.Register(context.Background(), RegisterRequest{
		FirstName: "Neda",
		LastName:  "Karimi",
		Email:     email,
		Password:  pass,
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	return u
}

func TestRegisterCreatesUserRole(t *testing.T) {
	svc, _, _, _ := newTestService(t)

	u := register(t, svc, "Neda@Example.com", "correct horse")
	if u.Email != "neda@example.com" {
		t.Errorf("email = %q, want lowercased", u.Email)
	}
	if u.Role != models.RoleUser {
		t.Errorf("role = %q, want user", u.Role)
	}
	if u.PasswordHash == "" || u.PasswordHash == "correct horse" {
		t.Error("password stored unhashed")
	}
}

func TestRegisterEnforcesPolicies(t *testing.T) {
	svc, db, _, _ := newTestService(t)
	ctx := context.Background()

	register(t, svc, "taken@example.com", "long enough")
	if _, err := svc.Register(ctx, RegisterRequest{
		FirstName: "A", LastName: "B", Email: "TAKEN@example.com", Password: "long enough",
	}); !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("error = %v, want ErrEmailTaken", err)
	}

	// Default minimum password length is 8.
	if _, err := svc.Register(ctx, RegisterRequest{
		FirstName: "A", LastName: "B", Email: "short@example.com", Password: "seven77",
	}); !errors.Is(err, ErrPasswordTooShort) {
		t.Fatalf("error = %v, want ErrPasswordTooShort", err)
	}

	if _, err := svc.Register(ctx, RegisterRequest{
		FirstName: "A", LastName: "B", Email: "bad", Password: "long enough",
	}); !validate.IsValidationError(err) {
		t.Fatalf("error = %v, want validation error", err)
	}

	sys := models.DefaultSystemSettings()
	sys.AllowedEmailDomains = append(sys.AllowedEmailDomains, "example.com")
	if err := db.Create(sys).Error; err != nil {
		t.Fatalf("seed settings: %v", err)
	}

	if _, err := svc.Register(ctx, RegisterRequest{
		FirstName: "A", LastName: "B", Email: "someone@gmail.com", Password: "long enough",
	}); !errors.Is(err, ErrEmailDomainNotAllowed) {
		t.Fatalf("error = %v, want ErrEmailDomainNotAllowed", err)
	}
	if _, err := svc.Register(ctx, RegisterRequest{
		FirstName: "A", LastName: "B", Email: "someone@example.com", Password: "long enough",
	}); err != nil {
		t.Fatalf("allowed domain rejected: %v", err)
	}
}

func TestLoginIssuesSessionTokens(t *testing.T) {
	svc, db, mr, mgr := newTestService(t)
	ctx := context.Background()

	u := register(t, svc, "login@example.com", "long enough")

	tokens, err := svc.Login(ctx, LoginRequest{Email: "Login@Example.com", Password: "long enough"})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if tokens.ExpiresIn != int64((15 * time.Minute).Seconds()) {
		t.Errorf("expires_in = %d, want 900", tokens.ExpiresIn)
	}

	claims, err := mgr.Verify(tokens.AccessToken)
	if err != nil {
		t.Fatalf("verify access: %v", err)
	}
	if claims.Type != pasetotoken.TokenTypeAccess {
		t.Errorf("type = %q, want access", claims.Type)
	}
	if claims.UserID != u.ID {
		t.Errorf("user id = %v, want %v", claims.UserID, u.ID)
	}
	if claims.Role != models.RoleUser {
		t.Errorf("role claim = %q, want user", claims.Role)
	}
	if claims.SessionID == nil {
		t.Fatal("access token has no session")
	}

	refresh, err := mgr.Verify(tokens.RefreshToken)
	if err != nil {
		t.Fatalf("verify refresh: %v", err)
	}
	if refresh.Type != pasetotoken.TokenTypeRefresh {
		t.Errorf("refresh type = %q", refresh.Type)
	}
	if refresh.Role != "" {
		t.Errorf("refresh carries role %q", refresh.Role)
	}

	key := redisKeySession(claims.SessionID.String())
	got, err := mr.Get(key)
	if err != nil {
		t.Fatalf("session key missing: %v", err)
	}
	if got != u.ID.String() {
		t.Errorf("session value = %q, want user id", got)
	}
	// Default session timeout is 120 minutes.
	if ttl := mr.TTL(key); ttl != 120*time.Minute {
		t.Errorf("session ttl = %v, want 120m", ttl)
	}

	var stored models.User
	if err := db.First(&stored, "id = ?", u.ID).Error; err != nil {
		t.Fatalf("reload user: %v", err)
	}
	if stored.LastLoginAt == nil {
		t.Error("last login not recorded")
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	svc, _, _, _ := newTestService(t)
	ctx := context.Background()

	register(t, svc, "known@example.com", "long enough")

	if _, err := svc.Login(ctx, LoginRequest{Email: "known@example.com", Password: "wrong pass"}); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("error = %v, want ErrInvalidCredentials", err)
	}
	if _, err := svc.Login(ctx, LoginRequest{Email: "ghost@example.com", Password: "whatever1"}); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("error = %v, want ErrInvalidCredentials", err)
	}
}

func TestSessionTTLFollowsSettings(t *testing.T) {
	svc, db, mr, mgr := newTestService(t)
	ctx := context.Background()

	sys := models.DefaultSystemSettings()
	sys.SessionTimeoutMinutes = 5
	if err := db.Create(sys).Error; err != nil {
		t.Fatalf("seed settings: %v", err)
	}

	register(t, svc, "ttl@example.com", "long enough")
	tokens, err := svc.Login(ctx, LoginRequest{Email: "ttl@example.com", Password: "long enough"})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	claims, err := mgr.Verify(tokens.AccessToken)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if ttl := mr.TTL(redisKeySession(claims.SessionID.String())); ttl != 5*time.Minute {
		t.Errorf("session ttl = %v, want 5m", ttl)
	}
}

func TestRefreshExtendsSessionAndReissuesAccess(t *testing.T) {
	svc, _, mr, mgr := newTestService(t)
	ctx := context.Background()

	register(t, svc, "fresh@example.com", "long enough")
	tokens, err := svc.Login(ctx, LoginRequest{Email: "fresh@example.com", Password: "long enough"})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	claims, _ := mgr.Verify(tokens.AccessToken)
	key := redisKeySession(claims.SessionID.String())

	mr.FastForward(60 * time.Minute)
	if ttl := mr.TTL(key); ttl != 60*time.Minute {
		t.Fatalf("ttl before refresh = %v, want 60m", ttl)
	}

	refreshed, err := svc.RefreshTokens(ctx, tokens.RefreshToken)
	if err != nil {
		t.Fatalf("RefreshTokens: %v", err)
	}
	if refreshed.RefreshToken != tokens.RefreshToken {
		t.Error("refresh token rotated on refresh")
	}
	if refreshed.AccessToken == tokens.AccessToken {
		t.Error("access token not reissued")
	}
	if _, err := mgr.Verify(refreshed.AccessToken); err != nil {
		t.Fatalf("verify new access: %v", err)
	}
	if ttl := mr.TTL(key); ttl != 120*time.Minute {
		t.Errorf("ttl after refresh = %v, want 120m", ttl)
	}
}

func TestRefreshRejectsAccessTokenAndDeadSessions(t *testing.T) {
	svc, _, mr, _ := newTestService(t)
	ctx := context.Background()

	register(t, svc, "dead@example.com", "long enough")
	tokens, err := svc.Login(ctx, LoginRequest{Email: "dead@example.com", Password: "long enough"})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	if _, err := svc.RefreshTokens(ctx, tokens.AccessToken); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("error = %v, want ErrInvalidToken for access token", err)
	}
	if _, err := svc.RefreshTokens(ctx, "v4.local.garbage"); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("error = %v, want ErrInvalidToken for garbage", err)
	}

	mr.FastForward(121 * time.Minute)
	if _, err := svc.RefreshTokens(ctx, tokens.RefreshToken); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("error = %v, want ErrSessionNotFound", err)
	}
}

func TestLogoutDropsSession(t *testing.T) {
	svc, _, mr, mgr := newTestService(t)
	ctx := context.Background()

	register(t, svc, "bye@example.com", "long enough")
	tokens, err := svc.Login(ctx, LoginRequest{Email: "bye@example.com", Password: "long enough"})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	claims, _ := mgr.Verify(tokens.AccessToken)

	if err := svc.Logout(ctx, *claims.SessionID); err != nil {
		t.Fatalf("Logout: %v", err)
	}
	if mr.Exists(redisKeySession(claims.SessionID.String())) {
		t.Error("session key survived logout")
	}
	if _, err := svc.RefreshTokens(ctx, tokens.RefreshToken); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("refresh after logout = %v, want ErrSessionNotFound", err)
	}
	// Logging out twice is fine.
	if err := svc.Logout(ctx, *claims.SessionID); err != nil {
		t.Fatalf("second Logout: %v", err)
	}
}
