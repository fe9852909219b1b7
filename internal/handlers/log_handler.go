package handlers

import (
	"net/http"
	"strings"
)

// FrontendLogPayload defines the structure for logs coming from the browser.
type FrontendLogPayload struct {
	Level   string `json:"level"`             // e.g., "info", "error", "warn"
	Message string `json:"message"`           // The main log message
	Context any    `json:"context,omitempty"` // Optional extra data (e.g., stack trace)
}

// NewFrontendLogHandler forwards browser log lines to the server logger.
func NewFrontendLogHandler(logger Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload FrontendLogPayload
		if err := decodeJSON(r, &payload); err != nil || payload.Message == "" {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}

		kv := []interface{}{"source", "client", "context", payload.Context}
		switch strings.ToLower(payload.Level) {
		case "error":
			logger.Error(payload.Message, kv...)
		case "warn", "warning":
			logger.Warn(payload.Message, kv...)
		case "debug":
			logger.Debug(payload.Message, kv...)
		default:
			logger.Info(payload.Message, kv...)
		}

		w.WriteHeader(http.StatusNoContent)
	}
}
