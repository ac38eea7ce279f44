package handlers

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/roadmap-backend/internal/platform/apierr"
)

func uintParam(c *gin.Context, name string) (uint, error) {
	raw := strings.TrimSpace(c.Param(name))
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		return 0, apierr.BadRequest("invalid_"+name, "%s must be a positive integer", name)
	}
	return uint(id), nil
}

// uintQuery returns 0 when the parameter is absent.
func uintQuery(c *gin.Context, name string) (uint, error) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return 0, nil
	}
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return 0, apierr.BadRequest("invalid_"+name, "%s must be a positive integer", name)
	}
	return uint(id), nil
}

// intQuery returns nil when the parameter is absent.
func intQuery(c *gin.Context, name string) (*int, error) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return nil, apierr.BadRequest("invalid_"+name, "%s must be an integer", name)
	}
	return &v, nil
}

func bindJSON(c *gin.Context, dst any) error {
	if err := c.ShouldBindJSON(dst); err != nil {
		return apierr.BadRequest("invalid_request", "invalid request body: %v", err)
	}
	return nil
}
