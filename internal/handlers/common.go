package handlers

import (
	"encoding/json"
	"net/http"

	"pixelgram-backend/internal/apperr"
)

// envelope is the common part of every JSON response. Failures carry
// the failed precondition in Error so clients need not parse wording.
type envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

func ok(message string) envelope {
	return envelope{Success: true, Message: message}
}

func respondJSON(w http.ResponseWriter, statusCode int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(v)
}

// respondError maps a classified error to a status code and the
// failure envelope.
func respondError(w http.ResponseWriter, err error) {
	kind := apperr.KindOf(err)
	respondJSON(w, statusFor(kind), envelope{
		Success: false,
		Message: apperr.Message(err),
		Error:   kind.String(),
	})
}

func statusFor(kind apperr.Kind) int {
	switch kind {
	case apperr.Validation:
		return http.StatusBadRequest
	case apperr.Unauthenticated:
		return http.StatusUnauthorized
	case apperr.Unauthorized:
		return http.StatusForbidden
	case apperr.NotFound:
		return http.StatusNotFound
	case apperr.Conflict:
		return http.StatusConflict
	case apperr.Upstream:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
