package httpapi

import (
	"database/sql"
	"net/http"

	"go.uber.org/zap"

	"resumematch-engine/internal/store"
)

type DBHandler struct {
	DB  *sql.DB
	Log *zap.Logger
}

// Checkpoint flushes the WAL; local callers only.
func (h DBHandler) Checkpoint(w http.ResponseWriter, r *http.Request) {
	if !isLocal(r) {
		WriteError(w, r, http.StatusForbidden, "forbidden", "forbidden")
		return
	}

	if err := store.Checkpoint(r.Context(), h.DB); err != nil {
		h.Log.Error("wal checkpoint", zap.Error(err))
		WriteError(w, r, http.StatusInternalServerError, "internal_error", err.Error())
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
