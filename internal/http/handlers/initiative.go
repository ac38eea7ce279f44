package handlers

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/roadmap-backend/internal/data/repos"
	"github.com/yungbote/roadmap-backend/internal/http/response"
	"github.com/yungbote/roadmap-backend/internal/services"
)

type InitiativeHandler struct {
	initiatives services.InitiativeService
}

func NewInitiativeHandler(initiatives services.InitiativeService) *InitiativeHandler {
	return &InitiativeHandler{initiatives: initiatives}
}

// GET /api/initiatives?year=&area=
func (h *InitiativeHandler) List(c *gin.Context) {
	year, err := intQuery(c, "year")
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	out, err := h.initiatives.List(c.Request.Context(), repos.InitiativeFilter{
		Year: year,
		Area: strings.TrimSpace(c.Query("area")),
	})
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, out)
}

// GET /api/initiatives/:id
func (h *InitiativeHandler) Get(c *gin.Context) {
	id, err := uintParam(c, "id")
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	out, err := h.initiatives.Get(c.Request.Context(), id)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, out)
}

// POST /api/initiatives
func (h *InitiativeHandler) Create(c *gin.Context) {
	var in services.InitiativeInput
	if err := bindJSON(c, &in); err != nil {
		response.RespondErr(c, err)
		return
	}
	out, err := h.initiatives.Create(c.Request.Context(), in)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondCreated(c, out)
}

// PUT /api/initiatives/:id
func (h *InitiativeHandler) Update(c *gin.Context) {
	id, err := uintParam(c, "id")
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	var in services.InitiativeInput
	if err := bindJSON(c, &in); err != nil {
		response.RespondErr(c, err)
		return
	}
	out, err := h.initiatives.Update(c.Request.Context(), id, in)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, out)
}

// POST /api/initiatives/:id/reorder
// body: { "direction": "up" | "down" }
func (h *InitiativeHandler) Reorder(c *gin.Context) {
	id, err := uintParam(c, "id")
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	var req struct {
		Direction string `json:"direction"`
	}
	if err := bindJSON(c, &req); err != nil {
		response.RespondErr(c, err)
		return
	}
	out, err := h.initiatives.Reorder(c.Request.Context(), id, req.Direction)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, out)
}

// GET /api/initiatives/:id/phases
func (h *InitiativeHandler) ListPhases(c *gin.Context) {
	id, err := uintParam(c, "id")
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	out, err := h.initiatives.ListPhases(c.Request.Context(), id)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, out)
}

// PATCH /api/initiatives/:id/phases/:phaseId
func (h *InitiativeHandler) PatchPhase(c *gin.Context) {
	id, err := uintParam(c, "id")
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	phaseID, err := uintParam(c, "phaseId")
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	var patch services.PhasePatch
	if err := bindJSON(c, &patch); err != nil {
		response.RespondErr(c, err)
		return
	}
	out, err := h.initiatives.PatchPhase(c.Request.Context(), id, phaseID, patch)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, out)
}

// DELETE /api/initiatives/:id
func (h *InitiativeHandler) Delete(c *gin.Context) {
	id, err := uintParam(c, "id")
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	if err := h.initiatives.Delete(c.Request.Context(), id); err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, gin.H{"ok": true})
}
