package config

import (
	"fmt"
	"strings"
)

type Validation struct {
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
}

func (v *Validation) addErr(format string, args ...any) {
	v.Errors = append(v.Errors, fmt.Sprintf(format, args...))
}
func (v *Validation) addWarn(format string, args ...any) {
	v.Warnings = append(v.Warnings, fmt.Sprintf(format, args...))
}
func (v Validation) OK() bool { return len(v.Errors) == 0 }

// NormalizeAndValidate returns a normalized copy of cfg with the problems
// found in it.
func NormalizeAndValidate(cfg Config) (Config, Validation) {
	var out = cfg
	var res Validation

	trimHosts := func(xs []string) []string {
		seen := map[string]bool{}
		var ys []string
		for _, x := range xs {
			x = strings.ToLower(strings.TrimSpace(x))
			x = strings.TrimPrefix(x, "www.")
			if x == "" || seen[x] {
				continue
			}
			seen[x] = true
			ys = append(ys, x)
		}
		return ys
	}

	trimOrigins := func(xs []string) []string {
		seen := map[string]bool{}
		var ys []string
		for _, x := range xs {
			x = strings.TrimSuffix(strings.ToLower(strings.TrimSpace(x)), "/")
			if x == "" || seen[x] {
				continue
			}
			seen[x] = true
			ys = append(ys, x)
		}
		return ys
	}

	out.App.AllowedOrigins = trimOrigins(out.App.AllowedOrigins)
	out.Fetch.AllowedHosts = trimHosts(out.Fetch.AllowedHosts)
	out.Fetch.UserAgent = strings.TrimSpace(out.Fetch.UserAgent)

	// ---- Validation rules ----

	if out.App.Port <= 0 || out.App.Port > 65535 {
		res.addErr("app.port must be 1..65535")
	}

	for _, o := range out.App.AllowedOrigins {
		if strings.Contains(o, "*") || !strings.Contains(o, "://") {
			res.addErr("app.allowed_origins entry %q must be an exact origin like http://localhost:5173", o)
		}
	}
	if len(out.App.AllowedOrigins) == 0 {
		res.addWarn("app.allowed_origins is empty; browser clients cannot call the engine.")
	}

	if out.Usage.Enabled && out.Usage.DailyLimit <= 0 {
		res.addErr("usage.daily_limit must be > 0 when usage.enabled=true")
	}
	if out.Usage.RetentionDays < 0 {
		res.addErr("usage.retention_days must be >= 0")
	}
	if !out.Usage.Enabled {
		res.addWarn("usage.enabled is false; analyses are not limited.")
	}

	if len(out.Fetch.AllowedHosts) == 0 {
		res.addWarn("fetch.allowed_hosts is empty; job description fetching is disabled.")
	}
	if out.Fetch.RequestsPerSecond <= 0 {
		res.addErr("fetch.requests_per_second must be > 0")
	} else if out.Fetch.RequestsPerSecond > 5 {
		res.addWarn("fetch.requests_per_second is high (%.1f) and may get the engine blocked.", out.Fetch.RequestsPerSecond)
	}
	if out.Fetch.Burst <= 0 {
		res.addErr("fetch.burst must be > 0")
	}
	if out.Fetch.TimeoutSeconds <= 0 {
		res.addErr("fetch.timeout_seconds must be > 0")
	}
	if out.Fetch.UserAgent == "" {
		res.addWarn("fetch.user_agent is empty; most job boards reject requests without one.")
	}

	if out.Uploads.MaxBytes <= 0 {
		res.addErr("uploads.max_bytes must be > 0")
	}

	if out.Jobs.PageSize <= 0 || out.Jobs.PageSize > 200 {
		res.addErr("jobs.page_size must be 1..200")
	}
	if out.Jobs.RankWorkers <= 0 {
		res.addErr("jobs.rank_workers must be > 0")
	}

	if out.Maintenance.IntervalMinutes <= 0 {
		res.addErr("maintenance.interval_minutes must be > 0")
	}

	return out, res
}
