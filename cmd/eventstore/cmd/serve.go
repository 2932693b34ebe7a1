/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ssargent/eventstore/pkg/api"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long: `Start the REST API server. Requests under /api/v1 must carry the
X-API-Key header when an API key is configured. Prometheus metrics are
served at /metrics.

Examples:
  eventstore serve
  eventstore serve --port 9000 --bind 0.0.0.0 --engine pebble`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withEvents(cmd, func(s *session) error {
			cfg := s.config
			if cmd.Flags().Changed("port") {
				cfg.Port, _ = cmd.Flags().GetInt("port")
			}
			if cmd.Flags().Changed("bind") {
				cfg.Bind, _ = cmd.Flags().GetString("bind")
			}
			if cmd.Flags().Changed("api-key") {
				cfg.Security.APIKey, _ = cmd.Flags().GetString("api-key")
			}
			if cfg.Security.APIKey == "" {
				s.logger.Warn("no API key configured, authentication disabled")
			}

			nextID, err := s.events.NextID()
			if err != nil {
				return err
			}
			s.logger.Info("event store ready",
				"engine", cfg.Engine,
				"data_dir", cfg.DataDir,
				"next_id", nextID,
				"slot_size", s.engine.SlotSize())

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			starter := container.GetServerFactory().CreateServerStarter()
			return starter.StartServer(ctx, s.events, api.ServerConfig{
				Port:   cfg.Port,
				Bind:   cfg.Bind,
				APIKey: cfg.Security.APIKey,
			}, s.logger)
		})
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().IntP("port", "p", 8080, "Port to listen on")
	serveCmd.Flags().String("bind", "127.0.0.1", "Address to bind server to")
	serveCmd.Flags().String("api-key", "", "API key for authentication (overrides config)")
}
