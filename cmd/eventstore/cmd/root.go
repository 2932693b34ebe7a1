/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/ssargent/eventstore/pkg/config"
	"github.com/ssargent/eventstore/pkg/di"
	"github.com/ssargent/eventstore/pkg/engine"
	"github.com/ssargent/eventstore/pkg/event"
	"github.com/ssargent/eventstore/pkg/logging"
	"github.com/ssargent/eventstore/pkg/storage"
)

var container *di.Container

// SetContainer injects the dependency container
func SetContainer(c *di.Container) {
	container = c
}

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "eventstore",
	Short: "Eventstore - durable event record store",
	Long: `Eventstore keeps event records (title, date, time, attendee limit and an
attachment URL) in an embedded key-value backend and serves them over a CLI
and a REST API.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "Path to config file (default: OS-specific location)")
	rootCmd.PersistentFlags().StringP("data-dir", "d", "./data", "Data directory for the store")
	rootCmd.PersistentFlags().String("engine", "log", "Storage engine (log, pebble, sqlite, memory)")
	rootCmd.PersistentFlags().String("log-level", "info", "Log level (debug, info, warn, error)")
}

// configPath returns the --config flag or the platform default
func configPath(cmd *cobra.Command) string {
	path, _ := cmd.Flags().GetString("config")
	if path == "" {
		path = config.GetDefaultConfigPath()
	}
	return path
}

// loadConfig reads the config file when present and applies explicitly set flags over it
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path := configPath(cmd)

	cfg := config.DefaultConfig()
	if config.ConfigExists(path) {
		loaded, err := config.LoadConfig(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("data-dir") {
		cfg.DataDir, _ = flags.GetString("data-dir")
	}
	if flags.Changed("engine") {
		cfg.Engine, _ = flags.GetString("engine")
	}
	if flags.Changed("log-level") {
		cfg.Logging.Level, _ = flags.GetString("log-level")
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// session is an open event service and the resources behind it
type session struct {
	config *config.Config
	logger *slog.Logger
	events *event.Service
	engine *engine.Engine
}

func (s *session) Close() error {
	return s.engine.Close()
}

// openSession loads config, opens the configured backend and builds the event service
func openSession(cmd *cobra.Command) (*session, error) {
	if container == nil {
		return nil, fmt.Errorf("dependency container not initialized")
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}

	logger, err := logging.New(cfg.Logging.Level, cfg.Logging.Format, cmd.ErrOrStderr())
	if err != nil {
		return nil, err
	}

	if cfg.Engine != storage.DriverMemory {
		if err := os.MkdirAll(cfg.DataDir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create data dir: %w", err)
		}
	}

	kv, err := container.GetStorageOpener()(storage.Options{
		Driver:     cfg.Engine,
		DataDir:    cfg.DataDir,
		SyncWrites: cfg.SyncWrites,
		Logger:     logger,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open store: %w", err)
	}
	logger.Debug("storage opened", "engine", cfg.Engine, "data_dir", cfg.DataDir)

	e := engine.New(kv, event.MaxEncodedSize)
	return &session{
		config: cfg,
		logger: logger,
		events: event.NewService(e, event.WithLogger(logger)),
		engine: e,
	}, nil
}

// withEvents runs fn against an open event service and closes it afterwards
func withEvents(cmd *cobra.Command, fn func(s *session) error) (err error) {
	s, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := s.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close store: %w", cerr)
		}
	}()
	return fn(s)
}
