package apierr

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/yungbote/lims-backend/internal/ingest/decode"
	"github.com/yungbote/lims-backend/internal/ingest/reconcile"
	pkgerrors "github.com/yungbote/lims-backend/internal/pkg/errors"
)

type Error struct {
	Status int
	Code   string
	Err    error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	if e.Code != "" {
		return e.Code
	}
	if e.Status != 0 {
		return fmt.Sprintf("api error (%d)", e.Status)
	}
	return "api error"
}

func (e *Error) Unwrap() error { return e.Err }

func New(status int, code string, err error) *Error {
	return &Error{Status: status, Code: code, Err: err}
}

// FromImport maps the import error taxonomy onto HTTP statuses.
func FromImport(err error) *Error {
	if err == nil {
		return nil
	}
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr
	}
	var empty *decode.EmptyBatchError
	var invalid *decode.ValidationError
	var persist *reconcile.PersistenceError
	switch {
	case errors.Is(err, pkgerrors.ErrUnauthorized):
		return New(http.StatusUnauthorized, "unauthorized", err)
	case errors.As(err, &empty):
		return New(http.StatusBadRequest, "no_valid_rows", err)
	case errors.As(err, &invalid):
		return New(http.StatusBadRequest, "invalid_request", err)
	case errors.Is(err, pkgerrors.ErrNoFile):
		return New(http.StatusBadRequest, "no_file", err)
	case errors.Is(err, pkgerrors.ErrPayloadTooLarge):
		return New(http.StatusRequestEntityTooLarge, "payload_too_large", err)
	case errors.Is(err, pkgerrors.ErrUnsupportedKind), errors.Is(err, pkgerrors.ErrInvalidArgument):
		return New(http.StatusBadRequest, "invalid_argument", err)
	case errors.As(err, &persist):
		return New(http.StatusInternalServerError, "persistence_failed", err)
	default:
		return New(http.StatusInternalServerError, "import_failed", err)
	}
}
