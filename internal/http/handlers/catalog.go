package handlers

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/roadmap-backend/internal/http/response"
	"github.com/yungbote/roadmap-backend/internal/services"
)

type CatalogHandler struct {
	catalog services.CatalogService
}

func NewCatalogHandler(catalog services.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalog: catalog}
}

// GET /api/phases?methodology=
func (h *CatalogHandler) List(c *gin.Context) {
	out, err := h.catalog.List(c.Request.Context(), strings.TrimSpace(c.Query("methodology")))
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, out)
}

// POST /api/phases
func (h *CatalogHandler) AddPhase(c *gin.Context) {
	var in services.PhaseInput
	if err := bindJSON(c, &in); err != nil {
		response.RespondErr(c, err)
		return
	}
	out, err := h.catalog.AddPhase(c.Request.Context(), in)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondCreated(c, out)
}

// POST /api/admin/repair
func (h *CatalogHandler) Repair(c *gin.Context) {
	report, err := h.catalog.Repair(c.Request.Context())
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, report)
}
