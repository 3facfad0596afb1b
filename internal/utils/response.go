package utils

import (
	"encoding/json"
	"net/http"
	"time"
)

// APIResponse is the JSON envelope of the machine-facing endpoints.
type APIResponse struct {
	Success   bool        `json:"success"`
	Message   string      `json:"message"`
	Data      interface{} `json:"data,omitempty"`
	Error     string      `json:"error,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

func SuccessResponse(message string, data interface{}) APIResponse {
	return APIResponse{
		Success:   true,
		Message:   message,
		Data:      data,
		Timestamp: time.Now().UTC(),
	}
}

func ErrorResponse(message, errText string) APIResponse {
	return APIResponse{
		Success:   false,
		Message:   message,
		Error:     errText,
		Timestamp: time.Now().UTC(),
	}
}

// WriteJSON sends resp with the given status.
func WriteJSON(w http.ResponseWriter, status int, resp APIResponse) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(resp)
}
