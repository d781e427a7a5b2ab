// engine/internal/config/config.go
package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	App struct {
		Port    int    `yaml:"port" json:"port"`
		DataDir string `yaml:"data_dir" json:"dataDir"`
		// AllowedOrigins are the browser origins that may call the API.
		AllowedOrigins []string `yaml:"allowed_origins" json:"allowedOrigins"`
	} `yaml:"app" json:"app"`

	Log struct {
		JSON  bool `yaml:"json" json:"json"`
		Debug bool `yaml:"debug" json:"debug"`
	} `yaml:"log" json:"log"`

	Usage struct {
		Enabled       bool `yaml:"enabled" json:"enabled"`
		DailyLimit    int  `yaml:"daily_limit" json:"dailyLimit"`
		RetentionDays int  `yaml:"retention_days" json:"retentionDays"`
	} `yaml:"usage" json:"usage"`

	Fetch struct {
		AllowedHosts      []string `yaml:"allowed_hosts" json:"allowedHosts"`
		UserAgent         string   `yaml:"user_agent" json:"userAgent"`
		RequestsPerSecond float64  `yaml:"requests_per_second" json:"requestsPerSecond"`
		Burst             int      `yaml:"burst" json:"burst"`
		TimeoutSeconds    int      `yaml:"timeout_seconds" json:"timeoutSeconds"`
	} `yaml:"fetch" json:"fetch"`

	Uploads struct {
		MaxBytes int64 `yaml:"max_bytes" json:"maxBytes"`
	} `yaml:"uploads" json:"uploads"`

	Jobs struct {
		PageSize    int `yaml:"page_size" json:"pageSize"`
		RankWorkers int `yaml:"rank_workers" json:"rankWorkers"`
	} `yaml:"jobs" json:"jobs"`

	Maintenance struct {
		IntervalMinutes int `yaml:"interval_minutes" json:"intervalMinutes"`
	} `yaml:"maintenance" json:"maintenance"`
}

// Default is the configuration used when no file exists yet and the base
// that a loaded file is decoded over.
func Default() Config {
	var cfg Config
	cfg.App.Port = 38472
	cfg.App.DataDir = "."
	cfg.App.AllowedOrigins = []string{
		"tauri://localhost",
		"http://tauri.localhost",
		"http://localhost:5173",
		"http://127.0.0.1:5173",
	}

	cfg.Usage.Enabled = true
	cfg.Usage.DailyLimit = 3
	cfg.Usage.RetentionDays = 30

	cfg.Fetch.AllowedHosts = []string{"linkedin.com"}
	cfg.Fetch.UserAgent = "Mozilla/5.0 (compatible; ResumeMatch/1.0)"
	cfg.Fetch.RequestsPerSecond = 1
	cfg.Fetch.Burst = 2
	cfg.Fetch.TimeoutSeconds = 20

	cfg.Uploads.MaxBytes = 10 << 20

	cfg.Jobs.PageSize = 20
	cfg.Jobs.RankWorkers = 4

	cfg.Maintenance.IntervalMinutes = 60
	return cfg
}

// Load reads a YAML file over Default, so keys missing from the file keep
// their default values.
func Load(path string) (Config, error) {
	cfg := Default()
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	err = yaml.Unmarshal(b, &cfg)
	return cfg, err
}
