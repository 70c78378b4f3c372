package app

import (
	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
	"gorm.io/gorm"

	"github.com/hamyarhq/hamyar_backend/config"
	"github.com/hamyarhq/hamyar_backend/internal/service/auth"
	"github.com/hamyarhq/hamyar_backend/internal/service/notification"
	"github.com/hamyarhq/hamyar_backend/internal/service/preference"
	"github.com/hamyarhq/hamyar_backend/internal/service/settings"
	"github.com/hamyarhq/hamyar_backend/internal/service/technician"
	"github.com/hamyarhq/hamyar_backend/internal/service/ticket"
	"github.com/hamyarhq/hamyar_backend/internal/service/user"
	"github.com/hamyarhq/hamyar_backend/pkg/email"
	pasetotoken "github.com/hamyarhq/hamyar_backend/pkg/paseto"
	s3pkg "github.com/hamyarhq/hamyar_backend/pkg/s3"
	"github.com/hamyarhq/hamyar_backend/pkg/sms"
)

// ServiceModule provides all application service dependencies.
var ServiceModule = fx.Module("services",
	fx.Provide(
		ProvideSettingsService,
		ProvidePreferenceService,
		ProvideAuthService,
		ProvideUserService,
		ProvideTicketService,
		ProvideTechnicianService,
		ProvideNotificationService,
		ProvidePasetoManager,
	),
)

func ProvideSettingsService(db *gorm.DB) settings.Service {
	return settings.New(db)
}

func ProvidePreferenceService(db *gorm.DB) preference.Service {
	return preference.New(db)
}

func ProvideAuthService(
	db *gorm.DB,
	rdb *redis.Client,
	paseto *pasetotoken.Manager,
	settingsSvc settings.Service,
	cfg *config.Config,
) auth.Service {
	return auth.New(db, rdb, paseto, settingsSvc, cfg)
}

func ProvideUserService(db *gorm.DB, s3 *s3pkg.Client, settingsSvc settings.Service) user.Service {
	return user.New(db, s3, settingsSvc)
}

func ProvideTicketService(db *gorm.DB, nc *nats.Conn, s3 *s3pkg.Client, settingsSvc settings.Service) ticket.Service {
	return ticket.New(db, nc, s3, settingsSvc)
}

func ProvideTechnicianService(db *gorm.DB) technician.Service {
	return technician.New(db)
}

func ProvideNotificationService(
	db *gorm.DB,
	prefs preference.Service,
	settingsSvc settings.Service,
	emailClient *email.Client,
	smsClient *sms.Client,
	cfg *config.Config,
) notification.Service {
	return notification.New(db, prefs, settingsSvc, emailClient, smsClient, cfg)
}

func ProvidePasetoManager(cfg *config.Config) (*pasetotoken.Manager, error) {
	return pasetotoken.NewPasetoManager(cfg)
}
