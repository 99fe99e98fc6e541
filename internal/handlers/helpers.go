package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/lexiq/internal/interfaces"
)

var validate = validator.New()

// RequireMethod validates that the HTTP request uses the specified method.
// Returns true if the method matches, false otherwise (and writes error response).
func RequireMethod(w http.ResponseWriter, r *http.Request, method string) bool {
	if r.Method != method {
		WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return false
	}
	return true
}

// WriteJSON writes a JSON response with the specified status code and data.
func WriteJSON(w http.ResponseWriter, statusCode int, data interface{}) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	return json.NewEncoder(w).Encode(data)
}

// WriteError writes a standard error JSON response.
func WriteError(w http.ResponseWriter, statusCode int, message string) error {
	return WriteJSON(w, statusCode, map[string]string{
		"error":   http.StatusText(statusCode),
		"message": message,
	})
}

// WriteServiceError maps service-layer errors onto HTTP status codes.
// Status conflicts surface as 400 so clients learn the stage precondition
// failed rather than retrying blindly.
func WriteServiceError(w http.ResponseWriter, logger arbor.ILogger, err error, fallback string) {
	switch {
	case errors.Is(err, interfaces.ErrNotFound):
		WriteError(w, http.StatusNotFound, "Document not found")
	case errors.Is(err, interfaces.ErrForbidden):
		WriteError(w, http.StatusForbidden, "Access denied")
	case errors.Is(err, interfaces.ErrStatusConflict):
		WriteError(w, http.StatusBadRequest, err.Error())
	default:
		logger.Error().Err(err).Msg(fallback)
		WriteError(w, http.StatusInternalServerError, fallback)
	}
}

// DecodeAndValidate decodes the JSON request body into dst and runs
// struct validation. Writes a 400 response and returns false on failure.
func DecodeAndValidate(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid JSON request body")
		return false
	}
	if err := validate.Struct(dst); err != nil {
		WriteError(w, http.StatusBadRequest, err.Error())
		return false
	}
	return true
}

// UserID returns the caller identity from the X-User-ID header. An empty
// value is anonymous access.
func UserID(r *http.Request) string {
	return strings.TrimSpace(r.Header.Get("X-User-ID"))
}

// PathID extracts the identifier segment immediately following prefix.
// Example: PathID(r, "/api/upload/") on /api/upload/doc_123/status -> doc_123
func PathID(r *http.Request, prefix string) string {
	rest := strings.TrimPrefix(r.URL.Path, prefix)
	if idx := strings.Index(rest, "/"); idx >= 0 {
		rest = rest[:idx]
	}
	return rest
}

// QueryInt parses an integer query parameter, returning fallback when the
// parameter is absent or invalid.
func QueryInt(r *http.Request, name string, fallback int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value <= 0 {
		return fallback
	}
	return value
}
