// Package handler contains the HTTP handlers of the quiz API.
//
// Handlers are the glue between HTTP and the service layer. Each one:
//  1. Parses the request (JSON or form body, user id from the auth context)
//  2. Calls one service method
//  3. Writes an envelope with the right status code
//
// No game rules live here; they are in internal/game and internal/service.
package handler

// RESPONSE ENVELOPES:
// Every JSON endpoint answers with one of two shapes:
//
//	{"success": true,  "message": "Hint purchased", "data": [...]}
//	{"success": false, "error": "insufficient funds"}
//
// Handlers call Responder.Success / Responder.Error and never build these
// by hand, so the frontend can rely on the shape for every status code.

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"mime"
	"net/http"

	"github.com/sakif/quiz-arena/internal/apperror"
)

// maxBodyBytes caps request bodies; every payload here is a few dozen bytes.
const maxBodyBytes = 1 << 20

type successEnvelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

type errorEnvelope struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// Responder writes envelopes and maps errors to status codes.
//
// In production, internal errors are reported as "Internal Server Error"
// and the detail goes only to the log. In development the raw message is
// returned to help debugging.
type Responder struct {
	logger     *slog.Logger
	production bool
}

func NewResponder(logger *slog.Logger, production bool) *Responder {
	return &Responder{logger: logger, production: production}
}

// JSON writes v with the given status. Headers go out before the body, so
// anything set after the first Write is lost.
func (rs *Responder) JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(v); err != nil {
		rs.logger.Error("failed to encode JSON response", slog.String("error", err.Error()))
	}
}

func (rs *Responder) Success(w http.ResponseWriter, status int, message string, data any) {
	rs.JSON(w, status, successEnvelope{Success: true, Message: message, Data: data})
}

// Error maps err to a status code through the apperror sentinels:
//
//	ErrValidation, ErrPreconditionFailed → 400
//	ErrUnauthorized                      → 401
//	ErrForbidden                         → 403
//	ErrNotFound                          → 404
//	ErrConflict                          → 409
//	anything else                        → 500
//
// errors.Is walks the %w chain, so services can wrap freely.
func (rs *Responder) Error(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)

	var appErr *apperror.AppError
	if status != http.StatusInternalServerError && errors.As(err, &appErr) {
		rs.JSON(w, status, errorEnvelope{Error: appErr.Message})
		return
	}

	rs.logger.Error("request failed",
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
		slog.String("error", err.Error()),
	)

	msg := err.Error()
	if rs.production {
		msg = "Internal Server Error"
	}
	rs.JSON(w, http.StatusInternalServerError, errorEnvelope{Error: msg})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, apperror.ErrValidation), errors.Is(err, apperror.ErrPreconditionFailed):
		return http.StatusBadRequest
	case errors.Is(err, apperror.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, apperror.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, apperror.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, apperror.ErrConflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// decodeJSON reads one JSON value from the request body into dst.
// A malformed or empty body is a validation error.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return apperror.ValidationFailed("body", "request body is required")
		}
		return apperror.ValidationFailed("body", "invalid JSON body")
	}
	return nil
}

// isForm reports whether the request carries HTML form data.
func isForm(r *http.Request) bool {
	ct, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return ct == "application/x-www-form-urlencoded" || ct == "multipart/form-data"
}
