package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

type errorResponse struct {
	Code        int                 `json:"code"`
	Text        string              `json:"text"`
	FieldErrors map[string][]string `json:"fieldErrors,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, text string, fieldErrors map[string][]string) {
	writeJSON(w, status, errorResponse{Code: status, Text: text, FieldErrors: fieldErrors})
}
