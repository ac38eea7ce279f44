package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/yungbote/roadmap-backend/internal/domain/user"
	httpH "github.com/yungbote/roadmap-backend/internal/http/handlers"
	httpMW "github.com/yungbote/roadmap-backend/internal/http/middleware"
	"github.com/yungbote/roadmap-backend/internal/observability"
	"github.com/yungbote/roadmap-backend/internal/platform/logger"
)

type RouterConfig struct {
	Log            *logger.Logger
	Metrics        *observability.Metrics
	ServiceName    string
	AllowedOrigins []string

	AuthMiddleware *httpMW.AuthMiddleware

	AuthHandler        *httpH.AuthHandler
	InitiativeHandler  *httpH.InitiativeHandler
	ProgressHandler    *httpH.ProgressHandler
	CatalogHandler     *httpH.CatalogHandler
	MilestoneHandler   *httpH.MilestoneHandler
	SupportHandler     *httpH.SupportHandler
	UserHandler        *httpH.UserHandler
	PreferenceHandler  *httpH.PreferenceHandler
	SpreadsheetHandler *httpH.SpreadsheetHandler
	DashboardHandler   *httpH.DashboardHandler
	RealtimeHandler    *httpH.RealtimeHandler

	HealthHandler *httpH.HealthHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	if cfg.ServiceName != "" {
		r.Use(otelgin.Middleware(cfg.ServiceName))
	}
	r.Use(httpMW.AttachTraceContext())
	r.Use(httpMW.RequestLogger(cfg.Log))
	r.Use(httpMW.Metrics(cfg.Metrics))
	r.Use(httpMW.CORS(cfg.AllowedOrigins))

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}
	if cfg.Metrics != nil {
		r.GET("/metrics", gin.WrapF(cfg.Metrics.WriteHTTP))
	}

	api := r.Group("/api")
	{
		// Auth (public)
		if cfg.AuthHandler != nil {
			api.POST("/auth/login", cfg.AuthHandler.Login)
		}
	}

	am := cfg.AuthMiddleware

	// Realtime (SSE)
	if cfg.RealtimeHandler != nil {
		api.GET("/sse/stream", am.RequireStreamAuth(), cfg.RealtimeHandler.SSEStream)
	}

	protected := api.Group("/")
	protected.Use(am.RequireAuth())
	editor := protected.Group("/", am.RequireRole(user.RoleEditor))
	admin := protected.Group("/", am.RequireRole(user.RoleAdmin))

	if cfg.AuthHandler != nil {
		protected.GET("/auth/me", cfg.AuthHandler.Me)
	}

	// Initiatives
	if h := cfg.InitiativeHandler; h != nil {
		protected.GET("/initiatives", h.List)
		protected.GET("/initiatives/:id", h.Get)
		protected.GET("/initiatives/:id/phases", h.ListPhases)
		editor.POST("/initiatives", h.Create)
		editor.PUT("/initiatives/:id", h.Update)
		editor.DELETE("/initiatives/:id", h.Delete)
		editor.POST("/initiatives/:id/reorder", h.Reorder)
		editor.PATCH("/initiatives/:id/phases/:phaseId", h.PatchPhase)
	}

	// Weekly grid
	if h := cfg.ProgressHandler; h != nil {
		protected.GET("/progress", h.List)
		protected.GET("/roadmap/weeks", h.Weeks)
		editor.POST("/progress", h.Upsert)
		editor.PUT("/progress", h.Upsert)
	}

	// Phase catalog
	if h := cfg.CatalogHandler; h != nil {
		protected.GET("/phases", h.List)
		admin.POST("/phases", h.AddPhase)
		admin.POST("/admin/repair", h.Repair)
	}

	// Milestones + one-pagers
	if h := cfg.MilestoneHandler; h != nil {
		protected.GET("/milestones", h.List)
		editor.POST("/milestones", h.Create)
		editor.DELETE("/milestones/:id", h.Delete)
		protected.GET("/one-pagers", h.ListOnePagers)
		editor.POST("/one-pagers", h.SaveOnePager)
	}

	// Support board
	if h := cfg.SupportHandler; h != nil {
		protected.GET("/support", h.List)
		editor.POST("/support", h.Create)
		editor.PUT("/support/:id", h.Update)
		editor.DELETE("/support/:id", h.Delete)
	}

	// Users
	if h := cfg.UserHandler; h != nil {
		protected.GET("/users/:id/avatar", h.Avatar)
		admin.GET("/users", h.List)
		admin.GET("/users/:id", h.Get)
		admin.POST("/users", h.Create)
		admin.PUT("/users/:id", h.Update)
		admin.DELETE("/users/:id", h.Delete)
	}

	// Preferences
	if h := cfg.PreferenceHandler; h != nil {
		protected.GET("/preferences/:key", h.Get)
		protected.PUT("/preferences/:key", h.Put)
		protected.DELETE("/preferences/:key", h.Delete)
	}

	// Spreadsheet
	if h := cfg.SpreadsheetHandler; h != nil {
		protected.GET("/export", h.Export)
		editor.POST("/import", h.Import)
	}

	// Dashboard
	if h := cfg.DashboardHandler; h != nil {
		protected.GET("/dashboard", h.Summary)
	}

	return r
}
