package httpapi

import (
	"database/sql"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"resumematch-engine/internal/config"
	"resumematch-engine/internal/events"
	"resumematch-engine/internal/jobfetch"
	"resumematch-engine/internal/metrics"
	"resumematch-engine/internal/secrets"
	"resumematch-engine/internal/usage"
)

type Deps struct {
	DB *sql.DB

	Hub     *events.Hub
	Log     *zap.Logger
	Metrics *metrics.Metrics

	CfgVal *atomic.Value // stores config.Config

	// Config persistence
	UserCfgPath string
	LoadCfg     func() (config.Config, error)

	Fetcher *jobfetch.Fetcher

	// Injectable for tests; default to the OS keychain and the wall clock.
	SetFetchCookie    func(cookie string) error
	DeleteFetchCookie func() error
	Now               func() time.Time
}

func (d *Deps) defaults() {
	if d.Log == nil {
		d.Log = zap.NewNop()
	}
	if d.Hub == nil {
		d.Hub = events.NewHub()
	}
	if d.SetFetchCookie == nil {
		d.SetFetchCookie = secrets.SetFetchCookie
	}
	if d.DeleteFetchCookie == nil {
		d.DeleteFetchCookie = secrets.DeleteFetchCookie
	}
	if d.Now == nil {
		d.Now = time.Now
	}
	if d.Fetcher == nil {
		d.Fetcher = jobfetch.New(FetchConfig(d.config()), d.Log)
	}
}

func (d *Deps) config() config.Config {
	if d.CfgVal == nil {
		return config.Default()
	}
	cfg, ok := d.CfgVal.Load().(config.Config)
	if !ok {
		return config.Default()
	}
	return cfg
}

// gate builds the usage gate from the live config.
func (d *Deps) gate() *usage.Gate {
	cfg := d.config()
	return &usage.Gate{
		DB:      d.DB,
		Limit:   cfg.Usage.DailyLimit,
		Enabled: cfg.Usage.Enabled,
		Now:     d.Now,
	}
}

// FetchConfig converts the fetch section of cfg for the job description
// fetcher.
func FetchConfig(cfg config.Config) jobfetch.Config {
	return jobfetch.Config{
		AllowedHosts:      cfg.Fetch.AllowedHosts,
		UserAgent:         cfg.Fetch.UserAgent,
		Timeout:           time.Duration(cfg.Fetch.TimeoutSeconds) * time.Second,
		RequestsPerSecond: cfg.Fetch.RequestsPerSecond,
		Burst:             cfg.Fetch.Burst,
	}
}
