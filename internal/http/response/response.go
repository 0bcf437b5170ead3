package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/lims-backend/internal/ingest/reconcile"
	"github.com/yungbote/lims-backend/internal/platform/apierr"
)

type APIError struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
	// Processed is set when an import aborted after some chunks committed.
	Processed *int `json:"processed,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

type SuccessEnvelope struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
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

// RespondImportError maps err through apierr and adds the committed row count
// for persistence failures.
func RespondImportError(c *gin.Context, err error) {
	mapped := apierr.FromImport(err)
	body := APIError{Message: mapped.Error(), Code: mapped.Code}
	var persist *reconcile.PersistenceError
	if errors.As(err, &persist) {
		committed := persist.Committed
		body.Processed = &committed
	}
	c.JSON(mapped.Status, ErrorEnvelope{Error: body})
}

func RespondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}

func RespondSuccess(c *gin.Context, message string, data any) {
	c.JSON(http.StatusOK, SuccessEnvelope{Success: true, Message: message, Data: data})
}
