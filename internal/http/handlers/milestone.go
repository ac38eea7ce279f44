package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/roadmap-backend/internal/data/repos"
	"github.com/yungbote/roadmap-backend/internal/http/response"
	"github.com/yungbote/roadmap-backend/internal/services"
)

type MilestoneHandler struct {
	milestones services.MilestoneService
	onePagers  services.OnePagerService
}

func NewMilestoneHandler(milestones services.MilestoneService, onePagers services.OnePagerService) *MilestoneHandler {
	return &MilestoneHandler{milestones: milestones, onePagers: onePagers}
}

// GET /api/milestones?initiative_id=&year=
func (h *MilestoneHandler) List(c *gin.Context) {
	initiativeID, err := uintQuery(c, "initiative_id")
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	year, err := intQuery(c, "year")
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	out, err := h.milestones.List(c.Request.Context(), repos.MilestoneFilter{InitiativeID: initiativeID, Year: year})
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, out)
}

// POST /api/milestones
func (h *MilestoneHandler) Create(c *gin.Context) {
	var in services.MilestoneInput
	if err := bindJSON(c, &in); err != nil {
		response.RespondErr(c, err)
		return
	}
	out, err := h.milestones.Create(c.Request.Context(), in)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondCreated(c, out)
}

// DELETE /api/milestones/:id
func (h *MilestoneHandler) Delete(c *gin.Context) {
	id, err := uintParam(c, "id")
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	if err := h.milestones.Delete(c.Request.Context(), id); err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, gin.H{"ok": true})
}

// GET /api/one-pagers?initiative_id=&year=&week=
func (h *MilestoneHandler) ListOnePagers(c *gin.Context) {
	initiativeID, err := uintQuery(c, "initiative_id")
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	year, err := intQuery(c, "year")
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	week, err := intQuery(c, "week")
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	out, err := h.onePagers.List(c.Request.Context(), repos.OnePagerFilter{InitiativeID: initiativeID, Year: year, Week: week})
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, out)
}

// POST /api/one-pagers
func (h *MilestoneHandler) SaveOnePager(c *gin.Context) {
	var in services.OnePagerInput
	if err := bindJSON(c, &in); err != nil {
		response.RespondErr(c, err)
		return
	}
	out, err := h.onePagers.Save(c.Request.Context(), in)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, out)
}
