// Package response writes JSON responses for the collection server's plain
// chi routes. Resources are written bare, the way json-server does, so the
// client decodes arrays and records without an envelope.
package response

import (
	"encoding/json/v2"
	"errors"
	"log/slog"
	"net/http"

	domainerrors "github.com/listenupapp/bookshelf/internal/errors"
)

// ErrorBody is the JSON shape of every error response.
type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitzero"`
}

// JSON writes v with the given status code using json/v2.
func JSON(w http.ResponseWriter, status int, v any, logger *slog.Logger) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)

	if err := json.MarshalWrite(w, v); err != nil && logger != nil {
		logger.Error("Failed to encode JSON response", "error", err)
	}
}

// Success writes a 200 OK response.
func Success(w http.ResponseWriter, v any, logger *slog.Logger) {
	JSON(w, http.StatusOK, v, logger)
}

// Created writes a 201 Created response.
func Created(w http.ResponseWriter, v any, logger *slog.Logger) {
	JSON(w, http.StatusCreated, v, logger)
}

// NoContent writes a 204 No Content response.
func NoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

// Error writes an ErrorBody.
func Error(w http.ResponseWriter, status int, body ErrorBody, logger *slog.Logger) {
	JSON(w, status, body, logger)
}

// NotFound writes a 404 Not Found response.
func NotFound(w http.ResponseWriter, message string, logger *slog.Logger) {
	Error(w, http.StatusNotFound, ErrorBody{Code: string(domainerrors.CodeNotFound), Message: message}, logger)
}

// TooManyRequests writes a 429 response.
func TooManyRequests(w http.ResponseWriter, logger *slog.Logger) {
	HandleError(w, domainerrors.ErrRateLimited, logger)
}

// HandleError maps a domain error to its status and body. Anything else is
// logged and becomes a 500 with a generic message.
func HandleError(w http.ResponseWriter, err error, logger *slog.Logger) {
	var de *domainerrors.Error
	if errors.As(err, &de) && de.Code != domainerrors.CodeInternal {
		Error(w, domainerrors.StatusOf(de), ErrorBody{Code: string(de.Code), Message: de.Message, Details: de.Details}, logger)
		return
	}

	if logger != nil {
		logger.Error("Unhandled error", "error", err)
	}
	Error(w, http.StatusInternalServerError, ErrorBody{
		Code:    string(domainerrors.CodeInternal),
		Message: "internal server error",
	}, logger)
}
