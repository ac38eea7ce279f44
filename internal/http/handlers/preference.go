package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/roadmap-backend/internal/http/response"
	"github.com/yungbote/roadmap-backend/internal/platform/apierr"
	"github.com/yungbote/roadmap-backend/internal/services"
)

// maxPreferenceBody bounds one stored JSON value.
const maxPreferenceBody = 256 << 10

type PreferenceHandler struct {
	prefs services.PreferenceService
}

func NewPreferenceHandler(prefs services.PreferenceService) *PreferenceHandler {
	return &PreferenceHandler{prefs: prefs}
}

// GET /api/preferences/:key
func (h *PreferenceHandler) Get(c *gin.Context) {
	p, err := h.prefs.Get(c.Request.Context(), c.Param("key"))
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, p)
}

// PUT /api/preferences/:key
// body: any JSON value, stored verbatim
func (h *PreferenceHandler) Put(c *gin.Context) {
	raw, err := c.GetRawData()
	if err != nil {
		response.RespondErr(c, apierr.BadRequest("invalid_request", "read body: %v", err))
		return
	}
	if len(raw) > maxPreferenceBody {
		response.RespondErr(c, apierr.BadRequest("value_too_large", "preference value exceeds %d bytes", maxPreferenceBody))
		return
	}
	p, err := h.prefs.Put(c.Request.Context(), c.Param("key"), raw)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, p)
}

// DELETE /api/preferences/:key
func (h *PreferenceHandler) Delete(c *gin.Context) {
	if err := h.prefs.Delete(c.Request.Context(), c.Param("key")); err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, gin.H{"ok": true})
}
