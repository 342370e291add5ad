package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"musicsales/internal/api"
	"musicsales/internal/config"
	"musicsales/internal/dashboard"
	"musicsales/internal/logger"
	"musicsales/internal/metrics"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the dashboard over HTTP",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().Int("port", 0, "override server.port")
}

// loadConfig reads config and applies command line overrides.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, err
	}
	if data, _ := cmd.Flags().GetString("data"); data != "" {
		cfg.Data.Path = data
	}
	if f := cmd.Flags().Lookup("port"); f != nil && f.Changed {
		cfg.Server.Port, _ = cmd.Flags().GetInt("port")
	}
	return cfg, cfg.Validate()
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	log, err := logger.New(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 1. Initialize Service and Echo (Starts Instantly)
	m := metrics.New()
	svc := dashboard.NewService(dashboard.Options{
		DataPath:    cfg.Data.Path,
		ChartWidth:  cfg.Charts.Width,
		ChartHeight: cfg.Charts.Height,
	}, m, log.Named("dashboard"))

	e, err := api.NewServer(api.NewHandler(svc, m, log.Named("api")), log.Named("http"), cfg.CORS.AllowedOrigins)
	if err != nil {
		return err
	}
	e.Server.ReadTimeout = cfg.Server.ReadTimeout
	e.Server.WriteTimeout = cfg.Server.WriteTimeout

	// 2. Preflight load in background
	// Pages render from a fresh load either way; this only feeds /api/health and the logs.
	go svc.Warmup(ctx)

	// 3. Start Server
	errCh := make(chan error, 1)
	go func() {
		log.Info("server listening", zap.String("addr", cfg.Server.Address()), zap.String("data", cfg.Data.Path))
		if err := e.Start(cfg.Server.Address()); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}
