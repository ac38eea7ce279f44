package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/roadmap-backend/internal/http/response"
	"github.com/yungbote/roadmap-backend/internal/platform/apierr"
	"github.com/yungbote/roadmap-backend/internal/platform/ctxutil"
	"github.com/yungbote/roadmap-backend/internal/platform/logger"
	"github.com/yungbote/roadmap-backend/internal/services"
)

type AuthMiddleware struct {
	log         *logger.Logger
	authService services.AuthService
}

func NewAuthMiddleware(log *logger.Logger, authService services.AuthService) *AuthMiddleware {
	middlewareLogger := log.With("Middleware", "AuthMiddleware")
	return &AuthMiddleware{log: middlewareLogger, authService: authService}
}

// RequireAuth only reads the Authorization header.
func (am *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return am.requireAuth(bearerToken)
}

// RequireStreamAuth also accepts ?token=, since EventSource cannot set headers.
// The header wins when both are present.
func (am *AuthMiddleware) RequireStreamAuth() gin.HandlerFunc {
	return am.requireAuth(func(c *gin.Context) string {
		if tok := bearerToken(c); tok != "" {
			return tok
		}
		return strings.TrimSpace(c.Query("token"))
	})
}

func (am *AuthMiddleware) requireAuth(extract func(*gin.Context) string) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := extract(c)
		if tokenString == "" {
			response.Abort(c, apierr.Unauthorized("missing or invalid token"))
			return
		}
		ctx, err := am.authService.SetContextFromToken(c.Request.Context(), tokenString)
		if err != nil {
			am.log.Debug("Rejected token", "error", err)
			response.Abort(c, err)
			return
		}
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// RequireRole runs after RequireAuth.
func (am *AuthMiddleware) RequireRole(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		rd := ctxutil.GetRequestData(c.Request.Context())
		if rd == nil || rd.UserID == 0 {
			response.Abort(c, apierr.Unauthorized("not authenticated"))
			return
		}
		if !services.RoleSatisfies(rd.Role, role) {
			response.Abort(c, apierr.Forbidden())
			return
		}
		c.Next()
	}
}

func bearerToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if len(authHeader) > 7 && strings.EqualFold(authHeader[:7], "Bearer ") {
		return strings.TrimSpace(authHeader[7:])
	}
	return ""
}
