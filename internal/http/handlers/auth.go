package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/roadmap-backend/internal/http/response"
	"github.com/yungbote/roadmap-backend/internal/observability"
	"github.com/yungbote/roadmap-backend/internal/platform/apierr"
	"github.com/yungbote/roadmap-backend/internal/services"
)

type AuthHandler struct {
	authService services.AuthService
	metrics     *observability.Metrics
}

func NewAuthHandler(authService services.AuthService, metrics *observability.Metrics) *AuthHandler {
	return &AuthHandler{authService: authService, metrics: metrics}
}

// POST /api/auth/login
func (ah *AuthHandler) Login(c *gin.Context) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := bindJSON(c, &req); err != nil {
		response.RespondErr(c, err)
		return
	}
	res, err := ah.authService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if ae, ok := apierr.As(err); ok {
			ah.metrics.IncLoginFailure(ae.Code)
		}
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, res)
}

// GET /api/auth/me
func (ah *AuthHandler) Me(c *gin.Context) {
	me, err := ah.authService.Me(c.Request.Context())
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, me)
}
