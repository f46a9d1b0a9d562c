package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/ashishkaushik/leazzy/internal/common"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

// writeError writes the API error envelope.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// respondError maps service-level sentinel errors onto HTTP statuses.
// Internal details never reach the wire.
func respondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, common.ErrorValidation):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, common.ErrorAlreadyExists):
		writeError(w, http.StatusConflict, common.ErrorAlreadyExists.Error())
	case errors.Is(err, common.ErrTokenExpired):
		writeError(w, http.StatusUnauthorized, common.ErrTokenExpired.Error())
	case errors.Is(err, common.ErrorUnauthorized), errors.Is(err, common.ErrInvalidToken):
		writeError(w, http.StatusUnauthorized, common.ErrorUnauthorized.Error())
	case errors.Is(err, common.ErrorNotFound):
		writeError(w, http.StatusNotFound, common.ErrorNotFound.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func decodeJSON(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return common.ErrorValidation
	}
	return nil
}
