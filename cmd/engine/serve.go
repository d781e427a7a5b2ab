package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/gofrs/flock"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"resumematch-engine/internal/config"
	"resumematch-engine/internal/events"
	"resumematch-engine/internal/httpapi"
	"resumematch-engine/internal/jobfetch"
	"resumematch-engine/internal/logger"
	"resumematch-engine/internal/metrics"
	"resumematch-engine/internal/scheduler"
	"resumematch-engine/internal/secrets"
	"resumematch-engine/internal/store"
	"resumematch-engine/internal/usage"
)

func newServeCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the local HTTP engine",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return serve(ctx, v)
		},
	}

	cmd.Flags().String("data-dir", ".", "directory holding the database, config and lock file")
	cmd.Flags().String("defaults", filepath.Join("config", "config.yml"), "default config copied into the data dir on first run")
	cmd.Flags().Int("port", 0, "listen port (overrides app.port)")
	_ = v.BindPFlag("data-dir", cmd.Flags().Lookup("data-dir"))
	_ = v.BindPFlag("defaults", cmd.Flags().Lookup("defaults"))
	_ = v.BindPFlag("port", cmd.Flags().Lookup("port"))
	return cmd
}

func serve(ctx context.Context, v *viper.Viper) error {
	dataDir := v.GetString("data-dir")
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return err
	}

	// one engine per data dir
	lock := flock.New(filepath.Join(dataDir, "engine.lock"))
	locked, err := lock.TryLock()
	if err != nil {
		return fmt.Errorf("lock data dir: %w", err)
	}
	if !locked {
		return fmt.Errorf("another engine is already running on %s", dataDir)
	}
	defer func() { _ = lock.Unlock() }()

	userCfgPath, err := config.EnsureUserConfig(dataDir, v.GetString("defaults"))
	if err != nil {
		return fmt.Errorf("config bootstrap failed: %w", err)
	}

	// Load config and keep it reloadable
	var cfgVal atomic.Value // stores config.Config
	loadCfg := func() (config.Config, error) {
		return config.Load(userCfgPath)
	}
	cfg, err := loadCfg()
	if err != nil {
		return fmt.Errorf("config load failed (%s): %w", userCfgPath, err)
	}
	normalized, vr := config.NormalizeAndValidate(cfg)
	if !vr.OK() {
		return fmt.Errorf("invalid config %s: %v", userCfgPath, vr.Errors)
	}
	cfg = normalized
	cfgVal.Store(cfg)

	log, err := logger.New(v.GetBool("log-json") || cfg.Log.JSON, v.GetBool("debug") || cfg.Log.Debug)
	if err != nil {
		return fmt.Errorf("creating a logger: %w", err)
	}
	defer func() { _ = log.Sync() }()
	for _, w := range vr.Warnings {
		log.Warn("config", zap.String("warning", w))
	}

	dbPath := filepath.Join(dataDir, "resumematch.db")
	db, err := store.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer db.Close()

	fetcher := jobfetch.New(httpapi.FetchConfig(cfg), log)
	fetcher.Cookie = secrets.FetchCookie

	deps := &httpapi.Deps{
		DB:          db.Pool,
		Hub:         events.NewHub(),
		Log:         log,
		Metrics:     metrics.New(),
		CfgVal:      &cfgVal,
		UserCfgPath: userCfgPath,
		LoadCfg:     loadCfg,
		Fetcher:     fetcher,
	}
	mux := httpapi.NewMux(deps)

	port := cfg.App.Port
	if p := v.GetInt("port"); p > 0 {
		port = p
	}
	addr := fmt.Sprintf("127.0.0.1:%d", port)
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Handler:           httpapi.NewHandler(deps, mux),
		ReadHeaderTimeout: 5 * time.Second,
	}

	token := v.GetString("shutdown-token")
	if token == "" {
		if token, err = randomToken(16); err != nil {
			return err
		}
		tokenPath := filepath.Join(dataDir, "engine.token")
		if err := os.WriteFile(tokenPath, []byte(token), 0o600); err != nil {
			return fmt.Errorf("write shutdown token: %w", err)
		}
		defer os.Remove(tokenPath)
	}
	mux.HandleFunc("/shutdown", shutdownHandler(token, srv, log))

	go scheduler.Every(ctx, log, time.Duration(cfg.Maintenance.IntervalMinutes)*time.Minute, "usage-cleanup",
		func(ctx context.Context) error {
			cur := cfgVal.Load().(config.Config)
			gate := usage.Gate{DB: db.Pool}
			n, err := gate.Cleanup(ctx, cur.Usage.RetentionDays)
			if err != nil {
				return err
			}
			if n > 0 {
				log.Info("usage records pruned", zap.Int64("deleted", n))
			}
			return nil
		})

	log.Info("engine listening",
		zap.String("addr", "http://"+addr),
		zap.String("db", dbPath),
		zap.String("config", userCfgPath),
	)

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Serve(ln) }()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
