package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"resumematch-engine/internal/store"
)

type APIError struct {
	Error struct {
		Code      string `json:"code"`
		Message   string `json:"message"`
		RequestID string `json:"request_id,omitempty"`
	} `json:"error"`
}

func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func WriteError(w http.ResponseWriter, r *http.Request, status int, code, message string) {
	var e APIError
	e.Error.Code = code
	e.Error.Message = message
	e.Error.RequestID = RequestIDFrom(r.Context())
	WriteJSON(w, status, e)
}

// writeStoreError maps store sentinels to statuses; anything else is logged
// and reported as an internal error.
func writeStoreError(w http.ResponseWriter, r *http.Request, log *zap.Logger, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		WriteError(w, r, http.StatusNotFound, "not_found", "Job not found")
	case errors.Is(err, store.ErrInvalidJob),
		errors.Is(err, store.ErrInvalidStatus),
		errors.Is(err, store.ErrInvalidEventType):
		WriteError(w, r, http.StatusBadRequest, "invalid_request", err.Error())
	default:
		log.Error("store", zap.String("request_id", RequestIDFrom(r.Context())), zap.Error(err))
		WriteError(w, r, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}
