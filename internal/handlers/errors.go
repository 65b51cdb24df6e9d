package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/danielgtaylor/huma/v2"
	"github.com/gdg-garage/memorial-api/internal/attendance"
	"github.com/rs/zerolog/log"
)

// APIError is the error body of every endpoint: {ok:false, error} for
// single failures and {ok:false, errors:{field:message}} for bad input.
type APIError struct {
	status  int
	OK      bool              `json:"ok"`
	Message string            `json:"error,omitempty"`
	Errors  map[string]string `json:"errors,omitempty"`
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return http.StatusText(e.status)
}

func (e *APIError) GetStatus() int {
	return e.status
}

func init() {
	// Request validation done by huma reports 422; callers of this API
	// expect 400 for any input problem.
	huma.NewError = func(status int, msg string, errs ...error) huma.StatusError {
		if status == http.StatusUnprocessableEntity {
			status = http.StatusBadRequest
		}
		e := &APIError{status: status, Message: msg}
		for _, err := range errs {
			if err == nil {
				continue
			}
			if e.Errors == nil {
				e.Errors = map[string]string{}
			}
			var detail *huma.ErrorDetail
			if errors.As(err, &detail) {
				field := strings.TrimPrefix(detail.Location, "body.")
				e.Errors[field] = detail.Message
				continue
			}
			e.Errors["request"] = err.Error()
		}
		return e
	}
}

// serviceError translates attendance errors into API errors. Anything
// unexpected is logged and reported as a bare server error.
func serviceError(err error, operation string) error {
	var verr *attendance.ValidationError
	switch {
	case errors.As(err, &verr):
		return &APIError{status: http.StatusBadRequest, Errors: verr.Fields}
	case errors.Is(err, attendance.ErrMemorialNotFound):
		return &APIError{status: http.StatusNotFound, Message: "Memorial not found"}
	default:
		log.Error().Err(err).Str("operation", operation).Msg("Request failed")
		return &APIError{status: http.StatusInternalServerError, Message: "server error"}
	}
}
