package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/j-veylop/uranus/internal/audio"
	"github.com/j-veylop/uranus/internal/catalog"
	"github.com/j-veylop/uranus/internal/config"
	"github.com/j-veylop/uranus/internal/db"
	"github.com/j-veylop/uranus/internal/inference"
	"github.com/j-veylop/uranus/internal/logger"
	"github.com/j-veylop/uranus/internal/server"
	"github.com/j-veylop/uranus/internal/telemetry"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the describe API",
	Long: `Serve the describe endpoints, telemetry, saved audio and the static
frontend. Describe requests fail until a Vertex project or API key is set.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		logger.Configure(os.Stderr, cfg.LogLevel)

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		return runServer(ctx, cfg)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

// closer is released when the server stops.
type closer interface {
	Close() error
}

func runServer(ctx context.Context, cfg *config.Config) error {
	if cfg.EnvFile != "" {
		logger.Info("loaded env file", "path", cfg.EnvFile)
	}

	adapter, err := newAdapter(ctx, cfg)
	if err != nil {
		logger.Warn("model provider not configured; describe requests will fail", "error", err)
	}
	models := catalog.Default()
	runner := inference.NewRunner(models, adapter)

	store := telemetry.NewStore(cfg.TelemetryLogPath)
	n, err := store.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load telemetry: %w", err)
	}
	logger.Info("telemetry loaded", "path", cfg.TelemetryLogPath, "records", n)

	var closers []closer
	defer func() {
		for _, c := range closers {
			if err := c.Close(); err != nil {
				logger.Error("failed to close", "error", err)
			}
		}
	}()

	deps := server.Deps{
		CheckProvider: cfg.ValidateProvider,
		Models:        models,
		Runner:        runner,
		OCR:           inference.NewVisionClient(cfg.VisionAPIKey),
		Telemetry:     store,
		StaticDir:     cfg.StaticDir,
	}

	if cfg.MirrorEnabled() {
		database, err := db.New(cfg.DatabasePath)
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		closers = append(closers, database)

		inserted, err := database.InsertRecords(ctx, store.Records())
		if err != nil {
			logger.Warn("failed to backfill mirror", "error", err)
		} else if inserted > 0 {
			logger.Info("mirror backfilled", "records", inserted)
		}
		store.AddSink(database)
		deps.Hourly = database
	}

	if cfg.RedisURL != "" {
		sink, err := telemetry.NewRedisSink(cfg.RedisURL, cfg.RedisChannel)
		if err != nil {
			return fmt.Errorf("failed to configure redis: %w", err)
		}
		closers = append(closers, sink)
		if err := sink.Ping(ctx); err != nil {
			logger.Warn("redis unreachable; records will still be logged", "error", err)
		}
		store.AddSink(sink)
	}

	if cfg.MetricsEnabled {
		reg := prometheus.NewRegistry()
		metrics, err := telemetry.NewMetrics(reg)
		if err != nil {
			return fmt.Errorf("failed to register metrics: %w", err)
		}
		store.AddSink(metrics)
		deps.Metrics = promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
	}

	audioStore, err := audio.NewStore(cfg.SavedAudioPath)
	if err != nil {
		return fmt.Errorf("failed to open saved audio: %w", err)
	}
	deps.Audio = audioStore

	if err := server.New(cfg.Addr(), deps).Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// newAdapter returns the GenAI adapter, or an adapter that reports err on
// every call when no provider is configured.
func newAdapter(ctx context.Context, cfg *config.Config) (inference.Adapter, error) {
	if err := cfg.ValidateProvider(); err != nil {
		return unavailable(err), err
	}
	adapter, err := inference.NewGenAIAdapter(ctx, inference.GenAIConfig{
		Project:  cfg.VertexProject,
		Location: cfg.VertexLocation,
		APIKey:   cfg.VertexAPIKey,
	})
	if err != nil {
		return unavailable(err), err
	}
	return adapter, nil
}

func unavailable(err error) inference.Adapter {
	return inference.AdapterFunc(func(context.Context, inference.Request) (inference.Response, error) {
		return inference.Response{}, err
	})
}
