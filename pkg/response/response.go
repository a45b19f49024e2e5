// Package response writes the JSON envelope used by every endpoint:
//
//	{"status":200,"message":"...","data":{...},"errors":{...}}
package response

import (
	"encoding/json"
	"net/http"

	"github.com/shashiranjanraj/delish/pkg/apperr"
)

type envelope struct {
	Status  int         `json:"status"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Errors  interface{} `json:"errors,omitempty"`
}

func write(w http.ResponseWriter, status int, body envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body) //nolint:errcheck
}

// Success sends a 200 JSON response with data.
func Success(w http.ResponseWriter, data interface{}) {
	write(w, http.StatusOK, envelope{Status: http.StatusOK, Data: data})
}

// Message sends a 200 JSON response with a message and data.
func Message(w http.ResponseWriter, message string, data interface{}) {
	write(w, http.StatusOK, envelope{Status: http.StatusOK, Message: message, Data: data})
}

// Created sends a 201 JSON response with a message and data.
func Created(w http.ResponseWriter, message string, data interface{}) {
	write(w, http.StatusCreated, envelope{Status: http.StatusCreated, Message: message, Data: data})
}

// Error sends a JSON error response.
func Error(w http.ResponseWriter, status int, message string) {
	write(w, status, envelope{Status: status, Message: message})
}

// ValidationError sends a 422 with field-level error map.
func ValidationError(w http.ResponseWriter, errs map[string]string) {
	write(w, http.StatusUnprocessableEntity, envelope{
		Status:  http.StatusUnprocessableEntity,
		Message: "Validation failed",
		Errors:  errs,
	})
}

// StatusOf maps an error's kind to an HTTP status.
func StatusOf(err error) int {
	switch apperr.KindOf(err) {
	case apperr.KindNotFound:
		return http.StatusNotFound
	case apperr.KindValidation:
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// Fail sends err as an error envelope. Classified errors keep their message
// and report the offending field; anything else becomes a bare 500.
func Fail(w http.ResponseWriter, err error) {
	status := StatusOf(err)
	body := envelope{Status: status, Message: apperr.MessageOf(err, http.StatusText(status))}
	if field := apperr.FieldOf(err); field != "" {
		body.Errors = map[string]string{field: "required"}
	}
	write(w, status, body)
}

// Unauthorized sends a 401.
func Unauthorized(w http.ResponseWriter) {
	Error(w, http.StatusUnauthorized, "Unauthorized")
}

// Forbidden sends a 403.
func Forbidden(w http.ResponseWriter) {
	Error(w, http.StatusForbidden, "Forbidden")
}

// NotFound sends a 404.
func NotFound(w http.ResponseWriter) {
	Error(w, http.StatusNotFound, "Not found")
}

// TooManyRequests sends a 429.
func TooManyRequests(w http.ResponseWriter) {
	Error(w, http.StatusTooManyRequests, "Too Many Requests")
}
