package api

import (
	"errors"
	"net/http"
	"sync"

	"github.com/danielgtaylor/huma/v2"

	domainerrors "github.com/listenupapp/bookshelf/internal/errors"
)

// APIError is the error body for huma operations. It carries the same
// fields as response.ErrorBody so every route fails the same way.
type APIError struct { //nolint:revive // API prefix is intentional for clarity
	status  int
	Code    string `json:"code" doc:"Machine-readable error code"`
	Message string `json:"message" doc:"Human-readable error message"`
	Details any    `json:"details,omitempty" doc:"Additional error details"`
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return e.Message
}

// GetStatus implements huma.StatusError.
func (e *APIError) GetStatus() int {
	return e.status
}

// ContentType returns the content type for the error response.
func (e *APIError) ContentType(_ string) string {
	return "application/json"
}

var registerOnce sync.Once

// RegisterErrorHandler makes huma build its own errors (bad JSON, schema
// violations) as APIError. huma.NewError is package state, so this runs once.
func RegisterErrorHandler() {
	registerOnce.Do(func() {
		huma.NewError = func(status int, message string, errs ...error) huma.StatusError {
			for _, err := range errs {
				var domainErr *domainerrors.Error
				if errors.As(err, &domainErr) {
					return fromDomain(domainErr)
				}
			}

			e := &APIError{status: status, Code: statusToCode(status), Message: message}
			if len(errs) > 0 {
				details := make([]string, 0, len(errs))
				for _, err := range errs {
					if err != nil {
						details = append(details, err.Error())
					}
				}
				e.Details = details
			}
			return e
		}
	})
}

// toAPIError converts a handler error. Internal failures are logged and
// reported without their cause.
func (s *Server) toAPIError(err error) error {
	var domainErr *domainerrors.Error
	if errors.As(err, &domainErr) && domainErr.Code != domainerrors.CodeInternal {
		return fromDomain(domainErr)
	}

	s.logger.Error("Unhandled error", "error", err)
	return &APIError{
		status:  http.StatusInternalServerError,
		Code:    string(domainerrors.CodeInternal),
		Message: "internal server error",
	}
}

func fromDomain(e *domainerrors.Error) *APIError {
	return &APIError{
		status:  domainerrors.StatusOf(e),
		Code:    string(e.Code),
		Message: e.Message,
		Details: e.Details,
	}
}

func statusToCode(status int) string {
	switch status {
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return string(domainerrors.CodeValidation)
	case http.StatusNotFound:
		return string(domainerrors.CodeNotFound)
	case http.StatusConflict:
		return string(domainerrors.CodeConflict)
	case http.StatusTooManyRequests:
		return string(domainerrors.CodeRateLimited)
	default:
		return string(domainerrors.CodeInternal)
	}
}
