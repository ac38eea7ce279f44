package handlers

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/roadmap-backend/internal/data/repos"
	"github.com/yungbote/roadmap-backend/internal/http/response"
	"github.com/yungbote/roadmap-backend/internal/services"
)

type SupportHandler struct {
	support services.SupportService
}

func NewSupportHandler(support services.SupportService) *SupportHandler {
	return &SupportHandler{support: support}
}

// GET /api/support?status=&area=
func (h *SupportHandler) List(c *gin.Context) {
	out, err := h.support.List(c.Request.Context(), repos.SupportFilter{
		Status: strings.TrimSpace(c.Query("status")),
		Area:   strings.TrimSpace(c.Query("area")),
	})
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, out)
}

// POST /api/support
func (h *SupportHandler) Create(c *gin.Context) {
	var in services.SupportItemInput
	if err := bindJSON(c, &in); err != nil {
		response.RespondErr(c, err)
		return
	}
	out, err := h.support.Create(c.Request.Context(), in)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondCreated(c, out)
}

// PUT /api/support/:id
func (h *SupportHandler) Update(c *gin.Context) {
	id, err := uintParam(c, "id")
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	var in services.SupportItemInput
	if err := bindJSON(c, &in); err != nil {
		response.RespondErr(c, err)
		return
	}
	out, err := h.support.Update(c.Request.Context(), id, in)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, out)
}

// DELETE /api/support/:id
func (h *SupportHandler) Delete(c *gin.Context) {
	id, err := uintParam(c, "id")
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	if err := h.support.Delete(c.Request.Context(), id); err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, gin.H{"ok": true})
}
