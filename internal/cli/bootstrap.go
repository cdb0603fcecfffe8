package cli

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"time"

	"github.com/aevon-lab/sparkify-dwh/internal/core/config"
	"github.com/aevon-lab/sparkify-dwh/internal/core/storage/postgres"
	"github.com/aevon-lab/sparkify-dwh/internal/logging"
	"github.com/aevon-lab/sparkify-dwh/internal/metrics"
	"github.com/aevon-lab/sparkify-dwh/internal/pipeline"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

const metricsPushTimeout = 10 * time.Second

// session is everything a command needs for one run.
type session struct {
	cfg      *config.Config
	adapter  *postgres.Adapter
	recorder *metrics.Recorder
	runner   *pipeline.Runner
}

// loadConfig configures logging, loads the env file and reads the configuration.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	configPath, _ := cmd.Flags().GetString("config")
	envFile, _ := cmd.Flags().GetString("env-file")
	verbose, _ := cmd.Flags().GetBool("verbose")

	logger := logging.New(os.Stderr, verbose).With("run_id", uuid.NewString(), "command", cmd.Name())
	slog.SetDefault(logger)

	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to load env file %s: %w", envFile, err)
		}
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	slog.Info("Loaded config",
		"config", configPath,
		"host", cfg.Cluster.Host,
		"database", cfg.Cluster.DBName,
		"dialect", cfg.Dialect())
	return cfg, nil
}

// connect opens the warehouse connection for cfg.
func connect(cfg *config.Config) (*session, error) {
	adapter, err := postgres.NewAdapter(cfg.Cluster.ConnectionString(), cfg.Warehouse.ConnectTimeout)
	if err != nil {
		return nil, err
	}

	recorder := metrics.NewRecorder()
	return &session{
		cfg:      cfg,
		adapter:  adapter,
		recorder: recorder,
		runner:   pipeline.NewRunner(adapter, recorder),
	}, nil
}

// openSession loads configuration, configures logging and connects to the warehouse.
func openSession(cmd *cobra.Command) (*session, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	return connect(cfg)
}

// close pushes metrics when configured and releases the connection.
func (s *session) close() {
	if url := s.cfg.Metrics.PushgatewayURL; url != "" {
		ctx, cancel := context.WithTimeout(context.Background(), metricsPushTimeout)
		defer cancel()
		if err := s.recorder.Push(ctx, url, s.cfg.Metrics.Job); err != nil {
			slog.Warn("Metrics push failed", "error", err)
		}
	}
	if err := s.adapter.Close(); err != nil {
		slog.Warn("Failed to close warehouse connection", "error", err)
	}
}
