package httputil

import (
	"encoding/json"
	"log"
	"net/http"
)

// Failure messages shared by API handlers.
const (
	MessageInvalidBody = "Invalid request body"
	MessageUnknown     = "Unknown error"
	MessageNotLoggedIn = "Not logged in"
)

// Envelope is the fixed response shape of every API endpoint.
// The HTTP status is always 200; Success is the only failure signal.
type Envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
}

// RespondJSON sends a JSON response with the given status code.
// Logs encoding errors to avoid silent failures.
func RespondJSON(w http.ResponseWriter, data any, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("ERROR: failed to encode JSON response: %v", err)
	}
}

// RespondSuccess sends {"success":true,"data":data}. A nil data is sent as an empty object.
func RespondSuccess(w http.ResponseWriter, data any) {
	if data == nil {
		data = struct{}{}
	}
	RespondJSON(w, Envelope{Success: true, Data: data}, http.StatusOK)
}

// RespondFailure sends {"success":false,"message":message}
func RespondFailure(w http.ResponseWriter, message string) {
	RespondJSON(w, Envelope{Success: false, Message: message}, http.StatusOK)
}

// DecodeJSON decodes the request body into dst
func DecodeJSON(r *http.Request, dst any) error {
	return json.NewDecoder(r.Body).Decode(dst)
}
