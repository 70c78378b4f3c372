package router

import (
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/gofiber/fiber/v3/middleware/healthcheck"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
	"gorm.io/gorm"

	"github.com/hamyarhq/hamyar_backend/config"
	"github.com/hamyarhq/hamyar_backend/internal/api/http/handler"
	"github.com/hamyarhq/hamyar_backend/internal/api/http/middleware"
	"github.com/hamyarhq/hamyar_backend/internal/service/auth"
	"github.com/hamyarhq/hamyar_backend/internal/service/notification"
	"github.com/hamyarhq/hamyar_backend/internal/service/preference"
	"github.com/hamyarhq/hamyar_backend/internal/service/settings"
	"github.com/hamyarhq/hamyar_backend/internal/service/technician"
	"github.com/hamyarhq/hamyar_backend/internal/service/ticket"
	"github.com/hamyarhq/hamyar_backend/internal/service/user"
	pasetotoken "github.com/hamyarhq/hamyar_backend/pkg/paseto"
)

// Module provides the Router to the fx graph.
var Module = fx.Module("router", fx.Provide(NewRouter))

type Params struct {
	fx.In

	Cfg             *config.Config
	DB              *gorm.DB
	Redis           *redis.Client
	AuthSvc         auth.Service
	UserSvc         user.Service
	PreferenceSvc   preference.Service
	SettingsSvc     settings.Service
	TicketSvc       ticket.Service
	TechnicianSvc   technician.Service
	NotificationSvc notification.Service
	PasetoMgr       *pasetotoken.Manager
}

type Router struct {
	p Params
}

func NewRouter(p Params) *Router {
	return &Router{p: p}
}

func (r *Router) Register(app *fiber.App) {
	// 1. Health & Metrics
	r.registerSystemRoutes(app)

	// 2. Initialize Middlewares
	authRequired := middleware.AuthRequired(r.p.PasetoMgr, r.p.Redis)
	maintenance := middleware.Maintenance(r.p.SettingsSvc)
	adminOnly := middleware.RequireAdmin()

	// 3. Initialize Handlers
	authH := handler.NewAuthHandler(r.p.AuthSvc)
	userH := handler.NewUserHandler(r.p.UserSvc)
	prefH := handler.NewPreferenceHandler(r.p.PreferenceSvc)
	settingsH := handler.NewSettingsHandler(r.p.SettingsSvc)
	ticketH := handler.NewTicketHandler(r.p.TicketSvc)
	technicianH := handler.NewTechnicianHandler(r.p.TechnicianSvc)
	notificationH := handler.NewNotificationHandler(r.p.NotificationSvc)

	api := app.Group("/api/v1")

	// 4. Delegate to sub-files
	r.registerAuthRoutes(api, authH, authRequired)
	r.registerUserRoutes(api, userH, prefH, authRequired, maintenance)
	r.registerTicketRoutes(api, ticketH, authRequired, maintenance, adminOnly)
	r.registerNotificationRoutes(api, notificationH, authRequired, maintenance)
	r.registerAdminRoutes(api, settingsH, technicianH, authRequired, adminOnly)
}

func (r *Router) registerSystemRoutes(app *fiber.App) {
	app.Get(healthcheck.LivenessEndpoint, healthcheck.New())
	app.Get(healthcheck.ReadinessEndpoint, healthcheck.New(healthcheck.Config{
		Probe: r.ready,
	}))
	app.Get(healthcheck.StartupEndpoint, healthcheck.New())

	if r.p.Cfg.Observability.Enabled && r.p.Cfg.Observability.Metrics.Enabled {
		path := r.p.Cfg.Observability.Metrics.Path
		if path == "" {
			path = "/metrics"
		}
		app.Get(path, adaptor.HTTPHandler(promhttp.Handler()))
	}
}

// ready reports whether the datastores behind the API answer.
func (r *Router) ready(c fiber.Ctx) bool {
	sqlDB, err := r.p.DB.DB()
	if err != nil || sqlDB.PingContext(c.Context()) != nil {
		return false
	}
	return r.p.Redis.Ping(c.Context()).Err() == nil
}
