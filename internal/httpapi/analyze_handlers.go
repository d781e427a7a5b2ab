package httpapi

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"resumematch-engine/internal/ats"
	"resumematch-engine/internal/events"
	"resumematch-engine/internal/logger"
	"resumematch-engine/internal/match"
	"resumematch-engine/internal/usage"
)

// logTextLimit caps how much user-supplied text goes into a log line.
const logTextLimit = 120

type AnalyzeHandler struct {
	D *Deps
}

type analyzeReq struct {
	ResumeText     string `json:"resumeText"`
	JobDescription string `json:"jobDescription"`
}

func (h AnalyzeHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	var req analyzeReq
	if !readJSON(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.ResumeText) == "" || strings.TrimSpace(req.JobDescription) == "" {
		WriteError(w, r, http.StatusBadRequest, "invalid_request", "resumeText and jobDescription are required")
		return
	}

	res, _, ok := h.analyze(w, r, "api", req.ResumeText, req.JobDescription)
	if !ok {
		return
	}
	WriteJSON(w, http.StatusOK, res)
}

// reserveUsage takes one unit of the caller's daily allowance. On false the
// error response has already been written.
func (d *Deps) reserveUsage(w http.ResponseWriter, r *http.Request) (*usage.Reservation, bool) {
	user := UserID(r)
	res, err := d.gate().Reserve(r.Context(), user)
	switch {
	case errors.Is(err, usage.ErrLimitReached):
		if d.Metrics != nil {
			d.Metrics.UsageDenied.Inc()
		}
		WriteError(w, r, http.StatusTooManyRequests, "usage_limit",
			"Daily analysis limit reached. Please try again tomorrow.")
		return nil, false
	case err != nil:
		d.Log.Error("usage reserve", zap.String("user", user), zap.Error(err))
		WriteError(w, r, http.StatusInternalServerError, "internal_error", "internal server error")
		return nil, false
	}
	return res, true
}

// releaseUsage hands a unit back after the request failed past the
// reservation. It runs even when the request context is gone.
func (d *Deps) releaseUsage(r *http.Request, res *usage.Reservation) {
	if err := res.Release(context.WithoutCancel(r.Context())); err != nil {
		d.Log.Warn("usage release", zap.String("user", UserID(r)), zap.Error(err))
	}
}

// analyze runs one usage-gated analysis for the caller. On false the error
// response has already been written. The returned reservation lets callers
// that can still fail afterwards give the unit back.
func (h AnalyzeHandler) analyze(w http.ResponseWriter, r *http.Request, source, resume, job string) (match.Result, *usage.Reservation, bool) {
	d := h.D
	reservation, ok := d.reserveUsage(w, r)
	if !ok {
		return match.Result{}, nil, false
	}

	res := match.Analyze(resume, job)

	d.Metrics.ObserveAnalysis(source, res.Score)
	d.Log.Debug("analysis",
		zap.String("request_id", RequestIDFrom(r.Context())),
		zap.String("source", source),
		zap.Int("score", res.Score),
		zap.Int("matched", len(res.Matched)),
		zap.Int("missing", len(res.Missing)),
		zap.String("job", logger.Truncate(job, logTextLimit)),
	)
	d.Hub.Publish(events.MakeEvent(RequestIDFrom(r.Context()), events.AnalysisCompleted, 1, map[string]any{
		"source": source,
		"score":  res.Score,
	}))
	return res, reservation, true
}

type atsReq struct {
	Text string `json:"text"`
}

func (h AnalyzeHandler) ATS(w http.ResponseWriter, r *http.Request) {
	var req atsReq
	if !readJSON(w, r, &req) {
		return
	}
	WriteJSON(w, http.StatusOK, ats.Simulate(req.Text))
}

func (h AnalyzeHandler) Usage(w http.ResponseWriter, r *http.Request) {
	st, err := h.D.gate().Status(r.Context(), UserID(r))
	if err != nil {
		h.D.Log.Error("usage status", zap.Error(err))
		WriteError(w, r, http.StatusInternalServerError, "internal_error", "internal server error")
		return
	}
	WriteJSON(w, http.StatusOK, st)
}
