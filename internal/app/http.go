package app

import (
	"gorm.io/gorm"

	"github.com/yungbote/roadmap-backend/internal/http"
	httpH "github.com/yungbote/roadmap-backend/internal/http/handlers"
	httpMW "github.com/yungbote/roadmap-backend/internal/http/middleware"
	"github.com/yungbote/roadmap-backend/internal/observability"
	"github.com/yungbote/roadmap-backend/internal/platform/logger"
	"github.com/yungbote/roadmap-backend/internal/realtime"
)

type Middleware struct {
	Auth *httpMW.AuthMiddleware
}

type Handlers struct {
	Health      *httpH.HealthHandler
	Auth        *httpH.AuthHandler
	Initiative  *httpH.InitiativeHandler
	Progress    *httpH.ProgressHandler
	Catalog     *httpH.CatalogHandler
	Milestone   *httpH.MilestoneHandler
	Support     *httpH.SupportHandler
	User        *httpH.UserHandler
	Preference  *httpH.PreferenceHandler
	Spreadsheet *httpH.SpreadsheetHandler
	Dashboard   *httpH.DashboardHandler
	Realtime    *httpH.RealtimeHandler
}

func wireHandlers(db *gorm.DB, log *logger.Logger, services Services, hub *realtime.SSEHub, metrics *observability.Metrics) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Health:      httpH.NewHealthHandler(db),
		Auth:        httpH.NewAuthHandler(services.Auth, metrics),
		Initiative:  httpH.NewInitiativeHandler(services.Initiative),
		Progress:    httpH.NewProgressHandler(services.Progress),
		Catalog:     httpH.NewCatalogHandler(services.Catalog),
		Milestone:   httpH.NewMilestoneHandler(services.Milestone, services.OnePager),
		Support:     httpH.NewSupportHandler(services.Support),
		User:        httpH.NewUserHandler(services.User, services.Avatar),
		Preference:  httpH.NewPreferenceHandler(services.Preference),
		Spreadsheet: httpH.NewSpreadsheetHandler(services.Spreadsheet),
		Dashboard:   httpH.NewDashboardHandler(services.Dashboard),
		Realtime:    httpH.NewRealtimeHandler(log, hub, metrics),
	}
}

func wireMiddleware(log *logger.Logger, services Services) Middleware {
	log.Info("Wiring middleware...")
	return Middleware{
		Auth: httpMW.NewAuthMiddleware(log, services.Auth),
	}
}

func wireServer(cfg Config, log *logger.Logger, metrics *observability.Metrics, handlers Handlers, middleware Middleware) *http.Server {
	serviceName := ""
	if cfg.Otel.Enabled {
		serviceName = cfg.Otel.ServiceName
	}
	return http.NewServer(cfg.Addr(), http.RouterConfig{
		Log:                log,
		Metrics:            metrics,
		ServiceName:        serviceName,
		AllowedOrigins:     cfg.AllowedOrigins,
		AuthMiddleware:     middleware.Auth,
		AuthHandler:        handlers.Auth,
		InitiativeHandler:  handlers.Initiative,
		ProgressHandler:    handlers.Progress,
		CatalogHandler:     handlers.Catalog,
		MilestoneHandler:   handlers.Milestone,
		SupportHandler:     handlers.Support,
		UserHandler:        handlers.User,
		PreferenceHandler:  handlers.Preference,
		SpreadsheetHandler: handlers.Spreadsheet,
		DashboardHandler:   handlers.Dashboard,
		RealtimeHandler:    handlers.Realtime,
		HealthHandler:      handlers.Health,
	})
}
