package app

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/yungbote/roadmap-backend/internal/observability"
	"github.com/yungbote/roadmap-backend/internal/platform/logger"
	"github.com/yungbote/roadmap-backend/internal/realtime"
	"github.com/yungbote/roadmap-backend/internal/services"
)

type Services struct {
	Emitter services.SSEEmitter

	Auth        services.AuthService
	User        services.UserService
	Avatar      services.AvatarService
	Initiative  services.InitiativeService
	Progress    services.ProgressService
	Catalog     services.CatalogService
	Milestone   services.MilestoneService
	OnePager    services.OnePagerService
	Support     services.SupportService
	Preference  services.PreferenceService
	Spreadsheet services.SpreadsheetService
	Dashboard   services.DashboardService
}

// meteredEmitter counts published events before handing them on.
type meteredEmitter struct {
	next    services.SSEEmitter
	metrics *observability.Metrics
}

func (e meteredEmitter) Emit(ctx context.Context, msg realtime.SSEMessage) {
	e.metrics.IncEvent(string(msg.Event))
	e.next.Emit(ctx, msg)
}

func wireServices(
	db *gorm.DB,
	log *logger.Logger,
	cfg Config,
	repos Repos,
	clients Clients,
	hub *realtime.SSEHub,
	metrics *observability.Metrics,
) (Services, error) {
	log.Info("Wiring services...")

	// With a bus every instance's forwarder broadcasts, including this one, so the hub is not fed directly.
	var emit services.SSEEmitter = &services.HubEmitter{Hub: hub}
	if clients.SSEBus != nil {
		emit = &services.RedisEmitter{Bus: clients.SSEBus, Log: log}
	}
	emit = meteredEmitter{next: emit, metrics: metrics}

	limiter := services.NewMemoryLoginLimiter(services.MaxFailedLoginAttempts, services.LoginLockoutWindow)
	if clients.Redis != nil {
		limiter = services.NewRedisLoginLimiter(clients.Redis, services.MaxFailedLoginAttempts, services.LoginLockoutWindow)
	}

	avatar, err := services.NewAvatarService(log, repos.User)
	if err != nil {
		return Services{}, fmt.Errorf("init avatar service: %w", err)
	}

	initiative := services.NewInitiativeService(
		db, log,
		repos.Initiative,
		repos.Phase,
		repos.InitiativePhase,
		repos.Technology,
		repos.Progress,
		repos.Milestone,
		repos.OnePager,
		emit,
	)

	return Services{
		Emitter:     emit,
		Auth:        services.NewAuthService(db, log, repos.User, limiter, cfg.JWTSecretKey, cfg.AccessTokenTTL),
		User:        services.NewUserService(db, log, repos.User, repos.Preference),
		Avatar:      avatar,
		Initiative:  initiative,
		Progress:    services.NewProgressService(db, log, repos.Progress, repos.Initiative, repos.InitiativePhase, emit),
		Catalog:     services.NewCatalogService(db, log, repos.Phase, repos.Initiative, repos.InitiativePhase, emit),
		Milestone:   services.NewMilestoneService(db, log, repos.Milestone, repos.Initiative, emit),
		OnePager:    services.NewOnePagerService(db, log, repos.OnePager, repos.Initiative, emit),
		Support:     services.NewSupportService(db, log, repos.SupportItem, emit),
		Preference:  services.NewPreferenceService(db, log, repos.Preference, emit),
		Spreadsheet: services.NewSpreadsheetService(log, initiative),
		Dashboard:   services.NewDashboardService(db, log, repos.Initiative, repos.Milestone, repos.Progress, repos.SupportItem),
	}, nil
}
