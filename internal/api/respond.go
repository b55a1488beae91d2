package api

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"

	"github.com/example/storefront-api/internal/apperr"
)

// maxBodyBytes bounds request bodies; nothing this API accepts is large.
const maxBodyBytes = 1 << 20

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		_ = json.NewEncoder(w).Encode(data)
	}
}

// respondError maps a service error onto the transport: status from the
// error kind, client-safe message, validation details when present.
func respondError(w http.ResponseWriter, err error) {
	status := apperr.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		log.Printf("[API] internal error: %v", err)
	}

	body := map[string]any{"error": apperr.Message(err)}
	if details := apperr.DetailsOf(err); len(details) > 0 {
		body["details"] = details
	}
	respondJSON(w, status, body)
}

// decodeJSON reads a bounded JSON body into dst.
func decodeJSON(r *http.Request, dst any) error {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		return apperr.Wrap(apperr.Validation, "unreadable request body", err)
	}
	if len(body) == 0 {
		return apperr.New(apperr.Validation, "request body is required")
	}
	if err := json.Unmarshal(body, dst); err != nil {
		return apperr.Wrap(apperr.Validation, "malformed JSON body", err)
	}
	return nil
}

var errMethodNotAllowed = errors.New("method not allowed")

func methodNotAllowed(w http.ResponseWriter) {
	respondJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": errMethodNotAllowed.Error()})
}
