// Package httpx maps catalog errors onto HTTP responses for the JSON endpoints.
package httpx

import (
	"encoding/json"
	"errors"
	"net/http"
)

// Sentinels shared by the catalog API client and the handlers.
var (
	ErrNotFound    = errors.New("not found")
	ErrValidation  = errors.New("invalid input")
	ErrUpstream    = errors.New("catalog api failure")
	ErrUnavailable = errors.New("service unavailable")
)

var problemStatus = []struct {
	err    error
	status int
}{
	{ErrNotFound, http.StatusNotFound},
	{ErrValidation, http.StatusBadRequest},
	{ErrUpstream, http.StatusBadGateway},
	{ErrUnavailable, http.StatusServiceUnavailable},
}

// ProblemDetail is an RFC 7807 body.
type ProblemDetail struct {
	Type   string `json:"type,omitempty"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail,omitempty"`
}

// StatusFor returns the HTTP status that represents err.
func StatusFor(err error) int {
	for _, p := range problemStatus {
		if errors.Is(err, p.err) {
			return p.status
		}
	}
	return http.StatusInternalServerError
}

// RespondError writes err as a problem document. Unclassified errors keep
// their message out of the response.
func RespondError(w http.ResponseWriter, err error) {
	status := StatusFor(err)
	detail := ""
	if status != http.StatusInternalServerError {
		detail = err.Error()
	}
	writeJSON(w, status, "application/problem+json", ProblemDetail{
		Title:  http.StatusText(status),
		Status: status,
		Detail: detail,
	})
}

// JSON writes data with status. Responses depend on the session, so they are
// never cached.
func JSON(w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, "application/json", data)
}

func writeJSON(w http.ResponseWriter, status int, contentType string, data any) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}
