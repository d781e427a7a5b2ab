package httpapi

import (
	"net/http"
)

// NewMux returns the raw mux so main() can still attach /shutdown (needs srv+token).
func NewMux(d *Deps) *http.ServeMux {
	d.defaults()
	mux := http.NewServeMux()

	hh := HealthHandler{Now: d.Now}
	mux.HandleFunc("/health", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: hh.Health,
	}))

	// Analysis
	ah := AnalyzeHandler{D: d}
	mux.HandleFunc("/analyze", methodMux(map[string]http.HandlerFunc{
		http.MethodPost: ah.Analyze,
	}))
	mux.HandleFunc("/ats", methodMux(map[string]http.HandlerFunc{
		http.MethodPost: ah.ATS,
	}))
	mux.HandleFunc("/usage", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: ah.Usage,
	}))

	dh := DocumentsHandler{D: d}
	mux.HandleFunc("/documents/parse", methodMux(map[string]http.HandlerFunc{
		http.MethodPost: dh.Parse,
	}))

	fh := FetchHandler{D: d}
	mux.HandleFunc("/job-description/fetch", methodMux(map[string]http.HandlerFunc{
		http.MethodPost: fh.Fetch,
	}))

	// Jobs
	jh := JobsHandler{D: d}
	mux.HandleFunc("/jobs", methodMux(map[string]http.HandlerFunc{
		http.MethodGet:  jh.List,
		http.MethodPost: jh.Create,
	}))
	mux.HandleFunc("/jobs/rank", methodMux(map[string]http.HandlerFunc{
		http.MethodPost: jh.Rank,
	}))
	mux.HandleFunc("/jobs/", jh.ByPath)

	// Config
	ch := ConfigHandler{D: d}
	mux.HandleFunc("/config", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: ch.Get,
		http.MethodPut: ch.Put,
	}))
	mux.HandleFunc("/config/path", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: ch.Path,
	}))
	mux.HandleFunc("/config/validate", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: ch.Validate,
	}))

	sh := SecretsHandler{D: d}
	mux.HandleFunc("/api/secrets/fetch-cookie", methodMux(map[string]http.HandlerFunc{
		http.MethodPost:   sh.SetFetchCookie,
		http.MethodDelete: sh.DeleteFetchCookie,
	}))

	// SSE events
	eh := EventsHandler{Hub: d.Hub}
	mux.HandleFunc("/events", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: eh.ServeSSE,
	}))

	if d.Metrics != nil {
		mux.Handle("/metrics", d.Metrics.Handler())
	}

	dbh := DBHandler{DB: d.DB, Log: d.Log}
	mux.HandleFunc("/db/checkpoint", methodMux(map[string]http.HandlerFunc{
		http.MethodPost: dbh.Checkpoint,
	}))

	return mux
}

// NewHandler wraps h with the standard middleware stack.
func NewHandler(d *Deps, h http.Handler) http.Handler {
	d.defaults()
	return Chain(h,
		RequestID,
		Recover(d.Log),
		AccessLog(d.Log, d.Metrics),
		Cors(func() []string { return d.config().App.AllowedOrigins }),
	)
}
