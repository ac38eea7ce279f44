package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/yungbote/roadmap-backend/internal/data/db"
	"github.com/yungbote/roadmap-backend/internal/platform/apierr"
)

const internalMessage = "internal server error"

type APIError struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

func RespondError(c *gin.Context, status int, code string, err error) {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	c.JSON(status, ErrorEnvelope{
		Error: APIError{
			Message: msg,
			Code:    code,
		},
	})
}

// RespondErr maps a service error onto the JSON envelope. Unclassified errors are
// attached to the gin context for the request logger and answered with a generic 500.
func RespondErr(c *gin.Context, err error) {
	if ae, ok := apierr.As(err); ok {
		status := ae.Status
		if status == 0 {
			status = http.StatusBadRequest
		}
		RespondError(c, status, ae.Code, ae)
		return
	}
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		RespondError(c, http.StatusNotFound, "not_found", errors.New("resource not found"))
	case db.IsUniqueViolation(err):
		RespondError(c, http.StatusConflict, "conflict", errors.New("resource already exists"))
	default:
		_ = c.Error(err)
		RespondError(c, http.StatusInternalServerError, "internal_error", errors.New(internalMessage))
	}
}

// Abort is RespondErr for middleware: it also stops the handler chain.
func Abort(c *gin.Context, err error) {
	RespondErr(c, err)
	c.Abort()
}

func RespondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}

func RespondCreated(c *gin.Context, payload any) {
	c.JSON(http.StatusCreated, payload)
}
