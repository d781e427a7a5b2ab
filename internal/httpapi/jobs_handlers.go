package httpapi

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"resumematch-engine/internal/events"
	"resumematch-engine/internal/rank"
	"resumematch-engine/internal/store"
)

type JobsHandler struct {
	D *Deps
}

func (h JobsHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit := h.D.config().Jobs.PageSize
	if s := q.Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n <= 0 || n > 200 {
			WriteError(w, r, http.StatusBadRequest, "invalid_request", "limit must be between 1 and 200")
			return
		}
		limit = n
	}

	page, err := store.ListJobs(r.Context(), h.D.DB, UserID(r), store.ListJobsOpts{
		Limit:  limit,
		Before: q.Get("before"),
	})
	if err != nil {
		writeStoreError(w, r, h.D.Log, err)
		return
	}
	WriteJSON(w, http.StatusOK, page)
}

type createJobReq struct {
	Company         string       `json:"company"`
	Position        string       `json:"position"`
	Location        string       `json:"location"`
	JobDescription  string       `json:"jobDescription"`
	Status          store.Status `json:"status"`
	ApplicationDate *time.Time   `json:"applicationDate"`
	Salary          string       `json:"salary"`
	URL             string       `json:"url"`
}

func (h JobsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createJobReq
	if !readJSON(w, r, &req) {
		return
	}

	job, err := store.CreateJob(r.Context(), h.D.DB, store.Job{
		UserID:          UserID(r),
		Company:         req.Company,
		Position:        req.Position,
		Location:        req.Location,
		JobDescription:  req.JobDescription,
		Status:          req.Status,
		ApplicationDate: req.ApplicationDate,
		Salary:          req.Salary,
		URL:             req.URL,
	})
	if err != nil {
		writeStoreError(w, r, h.D.Log, err)
		return
	}
	h.publish(r, events.JobCreated, job.ID)
	WriteJSON(w, http.StatusCreated, job)
}

// ByPath dispatches /jobs/{id} and /jobs/{id}/{notes|events|analyze}.
func (h JobsHandler) ByPath(w http.ResponseWriter, r *http.Request) {
	rest := strings.Trim(strings.TrimPrefix(r.URL.Path, "/jobs/"), "/")
	id, sub, _ := strings.Cut(rest, "/")
	if id == "" || strings.Contains(sub, "/") {
		WriteError(w, r, http.StatusNotFound, "not_found", "not found")
		return
	}

	var routes map[string]http.HandlerFunc
	switch sub {
	case "":
		routes = map[string]http.HandlerFunc{
			http.MethodGet:    func(w http.ResponseWriter, r *http.Request) { h.get(w, r, id) },
			http.MethodPut:    func(w http.ResponseWriter, r *http.Request) { h.update(w, r, id) },
			http.MethodPatch:  func(w http.ResponseWriter, r *http.Request) { h.update(w, r, id) },
			http.MethodDelete: func(w http.ResponseWriter, r *http.Request) { h.delete(w, r, id) },
		}
	case "notes":
		routes = map[string]http.HandlerFunc{
			http.MethodPost: func(w http.ResponseWriter, r *http.Request) { h.addNote(w, r, id) },
		}
	case "events":
		routes = map[string]http.HandlerFunc{
			http.MethodPost: func(w http.ResponseWriter, r *http.Request) { h.addEvent(w, r, id) },
		}
	case "analyze":
		routes = map[string]http.HandlerFunc{
			http.MethodPost: func(w http.ResponseWriter, r *http.Request) { h.analyze(w, r, id) },
		}
	default:
		WriteError(w, r, http.StatusNotFound, "not_found", "not found")
		return
	}
	methodMux(routes)(w, r)
}

func (h JobsHandler) get(w http.ResponseWriter, r *http.Request, id string) {
	job, err := store.GetJob(r.Context(), h.D.DB, UserID(r), id)
	if err != nil {
		writeStoreError(w, r, h.D.Log, err)
		return
	}
	WriteJSON(w, http.StatusOK, job)
}

func (h JobsHandler) update(w http.ResponseWriter, r *http.Request, id string) {
	var patch store.JobPatch
	if !readJSON(w, r, &patch) {
		return
	}
	job, err := store.UpdateJob(r.Context(), h.D.DB, UserID(r), id, patch)
	if err != nil {
		writeStoreError(w, r, h.D.Log, err)
		return
	}
	h.publish(r, events.JobUpdated, job.ID)
	WriteJSON(w, http.StatusOK, job)
}

func (h JobsHandler) delete(w http.ResponseWriter, r *http.Request, id string) {
	if err := store.DeleteJob(r.Context(), h.D.DB, UserID(r), id); err != nil {
		writeStoreError(w, r, h.D.Log, err)
		return
	}
	h.publish(r, events.JobDeleted, id)
	WriteJSON(w, http.StatusOK, map[string]any{"ok": true, "id": id})
}

type noteReq struct {
	Content string `json:"content"`
}

func (h JobsHandler) addNote(w http.ResponseWriter, r *http.Request, id string) {
	var req noteReq
	if !readJSON(w, r, &req) {
		return
	}
	note, err := store.AddNote(r.Context(), h.D.DB, UserID(r), id, req.Content)
	if err != nil {
		writeStoreError(w, r, h.D.Log, err)
		return
	}
	h.publish(r, events.JobUpdated, id)
	WriteJSON(w, http.StatusCreated, note)
}

func (h JobsHandler) addEvent(w http.ResponseWriter, r *http.Request, id string) {
	var req store.Event
	if !readJSON(w, r, &req) {
		return
	}
	ev, err := store.AddEvent(r.Context(), h.D.DB, UserID(r), id, req)
	if err != nil {
		writeStoreError(w, r, h.D.Log, err)
		return
	}
	h.publish(r, events.JobUpdated, id)
	WriteJSON(w, http.StatusCreated, ev)
}

type resumeReq struct {
	ResumeText string `json:"resumeText"`
}

// analyze scores the stored description against a resume and keeps the score
// on the job.
func (h JobsHandler) analyze(w http.ResponseWriter, r *http.Request, id string) {
	var req resumeReq
	if !readJSON(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.ResumeText) == "" {
		WriteError(w, r, http.StatusBadRequest, "invalid_request", "resumeText is required")
		return
	}

	user := UserID(r)
	job, err := store.GetJob(r.Context(), h.D.DB, user, id)
	if err != nil {
		writeStoreError(w, r, h.D.Log, err)
		return
	}
	if strings.TrimSpace(job.JobDescription) == "" {
		WriteError(w, r, http.StatusBadRequest, "invalid_request", "job has no description to analyze")
		return
	}

	res, reservation, ok := AnalyzeHandler{D: h.D}.analyze(w, r, "job", req.ResumeText, job.JobDescription)
	if !ok {
		return
	}
	if err := store.SetMatchScore(r.Context(), h.D.DB, user, id, res.Score); err != nil {
		h.D.releaseUsage(r, reservation)
		writeStoreError(w, r, h.D.Log, err)
		return
	}
	h.publish(r, events.JobUpdated, id)
	WriteJSON(w, http.StatusOK, res)
}

// Rank orders all of the caller's jobs by how well their descriptions match
// the resume. One call costs one unit of the daily allowance; the unit is
// given back when nothing was scored.
func (h JobsHandler) Rank(w http.ResponseWriter, r *http.Request) {
	var req resumeReq
	if !readJSON(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.ResumeText) == "" {
		WriteError(w, r, http.StatusBadRequest, "invalid_request", "resumeText is required")
		return
	}

	reservation, ok := h.D.reserveUsage(w, r)
	if !ok {
		return
	}

	jobs, err := store.AllJobs(r.Context(), h.D.DB, UserID(r))
	if err != nil {
		h.D.releaseUsage(r, reservation)
		writeStoreError(w, r, h.D.Log, err)
		return
	}
	if len(jobs) == 0 {
		h.D.releaseUsage(r, reservation)
		WriteJSON(w, http.StatusOK, map[string]any{"jobs": []rank.Ranked{}})
		return
	}

	ranked, err := rank.Rank(r.Context(), rank.NewMatchScorer(req.ResumeText), jobs, h.D.config().Jobs.RankWorkers)
	if err != nil {
		h.D.releaseUsage(r, reservation)
		h.D.Log.Warn("rank", zap.Error(err))
		WriteError(w, r, http.StatusServiceUnavailable, "cancelled", "ranking was cancelled")
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{"jobs": ranked})
}

func (h JobsHandler) publish(r *http.Request, typ, id string) {
	h.D.Hub.Publish(events.MakeEvent(RequestIDFrom(r.Context()), typ, 1, map[string]any{"id": id}))
}
