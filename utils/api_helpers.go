package utils

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
)

// RespondJSON sends a JSON response with the given status code and payload.
func RespondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		// Headers are already sent; all we can do is log.
		slog.Error("error encoding JSON response", "error", err)
	}
}

// RespondError sends {"error": message} and records the message in the
// request log. A nil logger logs the message directly.
func RespondError(w http.ResponseWriter, logger *strings.Builder, message string, status int) {
	if logger != nil {
		AddToLogMessage(logger, message)
	} else {
		slog.Warn("request error", "status", status, "error", message)
	}
	RespondJSON(w, status, map[string]string{"error": message})
}

// DecodeJSON reads the request body into v.
func DecodeJSON(r *http.Request, v interface{}) error {
	dec := json.NewDecoder(r.Body)
	return dec.Decode(v)
}
