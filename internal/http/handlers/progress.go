package handlers

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/roadmap-backend/internal/http/response"
	"github.com/yungbote/roadmap-backend/internal/services"
)

type ProgressHandler struct {
	progress services.ProgressService
	now      func() time.Time
}

func NewProgressHandler(progress services.ProgressService) *ProgressHandler {
	return &ProgressHandler{progress: progress, now: time.Now}
}

func (h *ProgressHandler) yearOrCurrent(c *gin.Context) (int, error) {
	year, err := intQuery(c, "year")
	if err != nil {
		return 0, err
	}
	if year == nil {
		return h.now().Year(), nil
	}
	return *year, nil
}

// GET /api/progress?initiative_id=&year=
// With initiative_id the result is that initiative's history (every year unless year is set);
// without it, the whole grid of one year (current year by default).
func (h *ProgressHandler) List(c *gin.Context) {
	initiativeID, err := uintQuery(c, "initiative_id")
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	if initiativeID != 0 {
		year, err := intQuery(c, "year")
		if err != nil {
			response.RespondErr(c, err)
			return
		}
		cells, err := h.progress.History(c.Request.Context(), initiativeID, year)
		if err != nil {
			response.RespondErr(c, err)
			return
		}
		response.RespondOK(c, cells)
		return
	}
	year, err := h.yearOrCurrent(c)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	cells, err := h.progress.Grid(c.Request.Context(), year)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, cells)
}

// POST /api/progress (PUT accepted too)
func (h *ProgressHandler) Upsert(c *gin.Context) {
	var in services.ProgressInput
	if err := bindJSON(c, &in); err != nil {
		response.RespondErr(c, err)
		return
	}
	cell, err := h.progress.Upsert(c.Request.Context(), in)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, cell)
}

// GET /api/roadmap/weeks?year=
func (h *ProgressHandler) Weeks(c *gin.Context) {
	year, err := h.yearOrCurrent(c)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	weeks, err := h.progress.Weeks(year)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, gin.H{"year": year, "weeks": weeks})
}
