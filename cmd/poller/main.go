// Package main provides the entry point for the race card polling daemon.
package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/yourusername/value-hunter/internal/config"
	"github.com/yourusername/value-hunter/internal/health"
	"github.com/yourusername/value-hunter/internal/logger"
	"github.com/yourusername/value-hunter/internal/metrics"
	"github.com/yourusername/value-hunter/internal/models"
	"github.com/yourusername/value-hunter/internal/netkeiba"
	"github.com/yourusername/value-hunter/internal/reporter"
	"github.com/yourusername/value-hunter/internal/scheduler"
	"github.com/yourusername/value-hunter/internal/service"
)

// Build information - set via ldflags
var Version = "dev"

var (
	configFile string
	runOnce    bool

	appLog *logrus.Logger
	cfg    *config.Config
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "./config/config.yaml", "Path to configuration file")
	rootCmd.Flags().BoolVar(&runOnce, "once", false, "Run a single extraction sweep and exit")
}

var rootCmd = &cobra.Command{
	Use:     "poller",
	Short:   "Periodically extract configured race cards",
	Version: Version,
	Long: `Runs extraction sweeps over the configured race ids on a cron schedule,
writing each race card JSON to the output directory. Exposes health and
metrics endpoints for container orchestration.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.LoadWithDefaults(configFile)
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		if err := loadSecrets(cfg); err != nil {
			return err
		}
		if err := config.Validate(cfg); err != nil {
			return fmt.Errorf("invalid configuration: %w", err)
		}
		appLog = logger.NewLogger(cfg.App.LogLevel)
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPoller(cmd.Context())
	},
	SilenceUsage: true,
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		log.Fatalf("Error: %v", err)
	}
}

func loadSecrets(cfg *config.Config) error {
	if os.Getenv("AWS_SECRETS_ENABLED") != "true" {
		return nil
	}
	region := os.Getenv("AWS_REGION")
	secretName := os.Getenv("AWS_SECRET_NAME")
	if region == "" || secretName == "" {
		return fmt.Errorf("AWS_REGION and AWS_SECRET_NAME must be set when AWS_SECRETS_ENABLED is true")
	}
	if err := config.LoadSecretsFromAWS(cfg, region, secretName); err != nil {
		return fmt.Errorf("failed to load secrets: %w", err)
	}
	return nil
}

func runPoller(ctx context.Context) error {
	if len(cfg.Poller.RaceIDs) == 0 {
		return fmt.Errorf("poller.race_ids must list at least one race")
	}

	metrics.InitRegistry()

	client, err := netkeiba.NewClient(clientConfig(cfg), appLog)
	if err != nil {
		return fmt.Errorf("failed to create client: %w", err)
	}
	defer client.Close()

	svc := service.NewExtractionService(client, appLog)

	sched := scheduler.New(
		svc,
		saveSink(cfg, appLog),
		cfg.Poller.RaceIDs,
		time.Duration(cfg.Poller.RaceDelaySeconds*float64(time.Second)),
		cfg.Poller.IncludeOdds,
		appLog,
	)

	if runOnce {
		sched.RunOnce()
		return nil
	}

	if cfg.Poller.Cron == "" {
		return fmt.Errorf("poller.cron must be set for daemon mode")
	}
	if err := sched.Schedule(cfg.Poller.Cron); err != nil {
		return fmt.Errorf("failed to schedule sweeps: %w", err)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var healthServer *health.Server
	if cfg.Health.Enabled {
		healthServer = health.NewServer(health.Config{
			ServiceName: cfg.App.Name,
			Version:     Version,
			Port:        cfg.Health.Port,
			Logger:      appLog,
			Sweeps:      sched,
		})
		if err := healthServer.Start(ctx); err != nil {
			return fmt.Errorf("failed to start health server: %w", err)
		}
	}

	var metricsServer *http.Server
	if cfg.Metrics.Enabled {
		metricsServer = startMetricsServer(cfg, appLog)
	}

	if err := sched.Start(); err != nil {
		return fmt.Errorf("failed to start scheduler: %w", err)
	}
	if healthServer != nil {
		healthServer.SetReady(true)
	}

	appLog.WithFields(logrus.Fields{
		"races":    len(cfg.Poller.RaceIDs),
		"cron":     cfg.Poller.Cron,
		"next_run": sched.NextRun().Format(time.RFC3339),
	}).Info("Poller started")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	select {
	case sig := <-sigCh:
		appLog.WithField("signal", sig.String()).Info("Shutting down")
	case <-ctx.Done():
	}

	if healthServer != nil {
		healthServer.SetReady(false)
	}
	if err := sched.Stop(); err != nil {
		appLog.WithError(err).Error("Scheduler stop failed")
	}
	if metricsServer != nil {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		if err := metricsServer.Shutdown(shutdownCtx); err != nil {
			appLog.WithError(err).Error("Metrics server shutdown failed")
		}
	}
	return nil
}

// saveSink writes each extracted race card under the output directory,
// keyed by race id.
func saveSink(cfg *config.Config, logger *logrus.Logger) scheduler.ResultSink {
	return func(raceID string, result *models.RaceResult) {
		path := filepath.Join(cfg.Output.Dir, raceID+".json")
		if err := reporter.SaveJSON(path, result, cfg.Output.Indent); err != nil {
			logger.WithError(err).WithField("race_id", raceID).Error("Failed to write race card")
			return
		}
		logger.WithFields(logrus.Fields{
			"race_id": raceID,
			"path":    path,
		}).Info("Race card written")
	}
}

func startMetricsServer(cfg *config.Config, logger *logrus.Logger) *http.Server {
	path := cfg.Metrics.Path
	if path == "" {
		path = "/metrics"
	}
	mux := http.NewServeMux()
	mux.Handle(path, metrics.Handler())

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Metrics.Port),
		Handler: mux,
	}
	go func() {
		logger.WithField("port", cfg.Metrics.Port).Info("Metrics server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.WithError(err).Error("Metrics server error")
		}
	}()
	return server
}

func clientConfig(cfg *config.Config) netkeiba.ClientConfig {
	cc := netkeiba.DefaultClientConfig()
	cc.RaceCardURL = cfg.Scraper.RaceCardURL
	cc.NewspaperURL = cfg.Scraper.NewspaperURL
	cc.OddsAPIURL = cfg.Scraper.OddsAPIURL
	cc.UserAgent = cfg.Scraper.UserAgent
	cc.ProxyURL = cfg.Scraper.ProxyURL
	cc.Timeout = cfg.RequestTimeout()
	cc.MaxRetries = cfg.Scraper.MaxRetries
	cc.RateLimit = cfg.RequestRate()
	cc.CacheTTL = cfg.OddsCacheTTL()
	return cc
}
