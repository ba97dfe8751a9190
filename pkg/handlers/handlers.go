// Package handlers provides JSON response helpers shared by the HTTP handlers.
package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
)

// FieldErrors is implemented by errors that carry per-field detail,
// such as request validation failures.
type FieldErrors interface {
	error
	Fields() map[string]string
}

type errorBody struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

// RespondJSON writes data as a JSON body with the given status code.
func RespondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// RespondError logs err and writes it as {"error": "..."}.
// Errors implementing FieldErrors also populate the "fields" member.
// Server errors are reported with a generic message.
func RespondError(w http.ResponseWriter, logger *slog.Logger, status int, err error) {
	body := errorBody{Error: err.Error()}

	var fe FieldErrors
	if errors.As(err, &fe) {
		body.Fields = fe.Fields()
	}

	if status >= http.StatusInternalServerError {
		logger.Error("request failed", "status", status, "error", err)
		body.Error = http.StatusText(status)
	} else {
		logger.Warn("request rejected", "status", status, "error", err)
	}

	RespondJSON(w, status, body)
}
