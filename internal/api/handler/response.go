package handler

import (
	"log/slog"
	"net/http"

	"github.com/goccy/go-json"
)

// ErrorResponse is the body of every non-2xx API response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// JSON writes data with the given status. The body is encoded before any
// header is sent, so an encoding failure still yields a clean 500.
func JSON(w http.ResponseWriter, status int, data any) {
	body, err := json.Marshal(data)
	if err != nil {
		slog.Error("failed to encode response", "error", err)
		body = []byte(`{"error":"internal_error","message":"failed to encode response"}`)
		status = http.StatusInternalServerError
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(append(body, '\n'))
}

// Error writes an ErrorResponse with a machine-readable code and a message.
func Error(w http.ResponseWriter, status int, code string, message string) {
	JSON(w, status, ErrorResponse{Error: code, Message: message})
}
