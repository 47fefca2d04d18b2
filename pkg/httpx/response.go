// Package httpx provides the HTTP plumbing shared by plog handlers: response
// envelopes, middleware chaining, token transport, authentication and access
// policy middleware, and rate limiting.
package httpx

import (
	"encoding/json"
	"net/http"
)

// Envelope is the response body wrapper used by every API endpoint.
type Envelope struct {
	Status  string `json:"status"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
}

const (
	StatusSuccess = "success"
	StatusFail    = "fail"
)

// WriteJSON writes v as a JSON response body with the given status code.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteSuccess writes a success envelope.
func WriteSuccess(w http.ResponseWriter, status int, data any, message string) {
	WriteJSON(w, status, Envelope{Status: StatusSuccess, Data: data, Message: message})
}

// WriteFail writes a fail envelope.
func WriteFail(w http.ResponseWriter, status int, message string) {
	WriteJSON(w, status, Envelope{Status: StatusFail, Message: message})
}

// NoCache marks a response as uncacheable. Used on endpoints that return
// credentials or per-user data.
func NoCache(w http.ResponseWriter) {
	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("Pragma", "no-cache")
}
