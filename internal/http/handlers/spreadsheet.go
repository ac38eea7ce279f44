package handlers

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/roadmap-backend/internal/http/response"
	"github.com/yungbote/roadmap-backend/internal/platform/apierr"
	"github.com/yungbote/roadmap-backend/internal/services"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type SpreadsheetHandler struct {
	sheets services.SpreadsheetService
}

func NewSpreadsheetHandler(sheets services.SpreadsheetService) *SpreadsheetHandler {
	return &SpreadsheetHandler{sheets: sheets}
}

// POST /api/import (multipart field "file")
func (h *SpreadsheetHandler) Import(c *gin.Context) {
	// room for the multipart envelope around the file itself
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, services.MaxImportBytes+(1<<20))

	fh, err := c.FormFile("file")
	if err != nil {
		response.RespondErr(c, apierr.BadRequest("missing_file", "multipart field \"file\" is required: %v", err))
		return
	}
	if fh.Size > services.MaxImportBytes {
		response.RespondError(c, http.StatusRequestEntityTooLarge, "file_too_large",
			fmt.Errorf("file exceeds %d MiB", services.MaxImportBytes>>20))
		return
	}
	f, err := fh.Open()
	if err != nil {
		response.RespondErr(c, apierr.BadRequest("invalid_file", "open upload: %v", err))
		return
	}
	defer f.Close()

	res, err := h.sheets.Import(c.Request.Context(), f)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, res)
}

// GET /api/export?year=
func (h *SpreadsheetHandler) Export(c *gin.Context) {
	year, err := intQuery(c, "year")
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	var buf bytes.Buffer
	if err := h.sheets.Export(c.Request.Context(), year, &buf); err != nil {
		response.RespondErr(c, err)
		return
	}
	name := "roadmap.xlsx"
	if year != nil {
		name = fmt.Sprintf("roadmap-%d.xlsx", *year)
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}
