package httpapi

import (
	"net/http"
	"time"

	"resumematch-engine/internal/match"
)

type HealthHandler struct {
	Now func() time.Time
}

func (h HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, map[string]any{
		"ok":       true,
		"time":     h.Now().UTC().Format(time.RFC3339),
		"lexicon":  match.LexiconSize(),
		"protocol": 1,
	})
}
