package httpapi

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"resumematch-engine/internal/jobfetch"
	"resumematch-engine/internal/logger"
)

type FetchHandler struct {
	D *Deps
}

type fetchReq struct {
	URL string `json:"url"`
}

func (h FetchHandler) Fetch(w http.ResponseWriter, r *http.Request) {
	var req fetchReq
	if !readJSON(w, r, &req) {
		return
	}

	desc, err := h.D.Fetcher.Fetch(r.Context(), req.URL)
	if h.D.Metrics != nil {
		h.D.Metrics.Fetches.WithLabelValues(fetchResult(err)).Inc()
	}
	if err != nil {
		msg := jobfetch.UserMessage(err)
		switch {
		case errors.Is(err, jobfetch.ErrInvalidURL), errors.Is(err, jobfetch.ErrUnsupportedHost):
			WriteError(w, r, http.StatusBadRequest, "invalid_url", msg)
		case errors.Is(err, jobfetch.ErrDescriptionNotFound):
			WriteError(w, r, http.StatusNotFound, "not_found", msg)
		default:
			h.D.Log.Warn("job description fetch", zap.String("url", logger.Truncate(req.URL, logTextLimit)), zap.Error(err))
			WriteError(w, r, http.StatusBadGateway, "fetch_failed", msg)
		}
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{"description": desc})
}

func fetchResult(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, jobfetch.ErrInvalidURL), errors.Is(err, jobfetch.ErrUnsupportedHost):
		return "rejected"
	case errors.Is(err, jobfetch.ErrDescriptionNotFound):
		return "not_found"
	default:
		return "error"
	}
}
