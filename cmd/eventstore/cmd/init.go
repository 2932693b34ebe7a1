/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ssargent/eventstore/pkg/config"
)

// initCmd represents the init command
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a configuration file",
	Long: `Create a configuration file with default settings and a freshly generated
API key. An existing file is left untouched unless --force is given.

Examples:
  eventstore init
  eventstore init --config ./eventstore.yaml --data-dir ./data --engine pebble`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path := configPath(cmd)
		force, _ := cmd.Flags().GetBool("force")
		printKeys, _ := cmd.Flags().GetBool("print-keys")

		if config.ConfigExists(path) && !force {
			cmd.Printf("Configuration already exists at %s. Use --force to overwrite.\n", path)
			return nil
		}

		dataDir, _ := cmd.Flags().GetString("data-dir")
		cfg, err := config.BootstrapConfig(path, dataDir)
		if err != nil {
			return err
		}

		if cmd.Flags().Changed("engine") {
			cfg.Engine, _ = cmd.Flags().GetString("engine")
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("invalid configuration: %w", err)
			}
			if err := config.SaveConfig(cfg, path); err != nil {
				return err
			}
		}

		cmd.Printf("Configuration created at %s\n", path)
		cmd.Printf("Data directory: %s\n", cfg.DataDir)
		cmd.Printf("Engine: %s\n", cfg.Engine)
		if printKeys {
			cmd.Printf("API key: %s\n", cfg.Security.APIKey)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)

	initCmd.Flags().Bool("force", false, "Overwrite an existing configuration file")
	initCmd.Flags().Bool("print-keys", false, "Print the generated API key")
}
