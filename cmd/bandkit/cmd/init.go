/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"github.com/spf13/cobra"

	"github.com/ssargent/bandkit/pkg/config"
)

func newInitCmd() *cobra.Command {
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Create a bandkit configuration",
		Long: `Create a configuration file with a generated API key and prepare the band
store in the data directory.

Examples:
  bandkit init
  bandkit init --config ./bandkit.yaml --data-dir ./rasters --print-key`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			configPath, _ := cmd.Flags().GetString("config")
			dataDir, _ := cmd.Flags().GetString("data-dir")
			force, _ := cmd.Flags().GetBool("force")
			printKey, _ := cmd.Flags().GetBool("print-key")

			if configPath == "" {
				configPath = config.GetDefaultConfigPath()
			}

			if config.ConfigExists(configPath) && !force {
				cmd.Printf("Configuration already exists at %s. Use --force to overwrite.\n", configPath)
				return nil
			}

			cfg, err := config.BootstrapConfig(configPath, dataDir)
			if err != nil {
				return err
			}

			// Opening the store once creates the pebble directory
			store, err := openStore(cfg)
			if err != nil {
				return err
			}
			if err := store.Close(); err != nil {
				return err
			}

			cmd.Printf("✅ Configuration created at %s\n", configPath)
			cmd.Printf("📁 Data directory: %s\n", cfg.DataDir)
			if printKey {
				cmd.Printf("🔑 API key: %s\n", cfg.Security.APIKey)
			}
			cmd.Printf("\nYou can now start the server with:\n")
			cmd.Printf("  bandkit serve --config %s\n", configPath)
			return nil
		},
	}

	initCmd.Flags().Bool("force", false, "Overwrite an existing configuration")
	initCmd.Flags().Bool("print-key", false, "Print the generated API key")
	return initCmd
}
