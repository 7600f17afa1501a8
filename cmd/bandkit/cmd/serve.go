/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ssargent/bandkit/pkg/api"
	"github.com/ssargent/bandkit/pkg/config"
)

func newServeCmd() *cobra.Command {
	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the REST API server",
		Long: `Start the bandkit REST API server on the configured address.

An api_key of "auto" generates a key for this run and prints it. An empty
api_key disables authentication.

Examples:
  bandkit serve
  bandkit serve --config ./bandkit.yaml --port 9000 --bind 0.0.0.0`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("port") {
				cfg.Port, _ = cmd.Flags().GetInt("port")
			}
			if cmd.Flags().Changed("bind") {
				cfg.Bind, _ = cmd.Flags().GetString("bind")
			}
			if cmd.Flags().Changed("api-key") {
				cfg.Security.APIKey, _ = cmd.Flags().GetString("api-key")
			}

			serverConfig, err := serverConfigFrom(cfg)
			if err != nil {
				return err
			}
			if cfg.Security.APIKey == "auto" {
				cmd.Printf("🔑 Generated API key for this run: %s\n", serverConfig.APIKey)
			}

			pc, err := cfg.PixelCodec()
			if err != nil {
				return err
			}
			store, err := openStore(cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			cmd.Printf("🚀 Starting bandkit server on %s:%d\n", cfg.Bind, cfg.Port)
			cmd.Printf("📁 Data directory: %s\n", cfg.DataDir)

			starter := container.GetServerFactory().CreateServerStarter()
			return starter.StartServer(store, pc, serverConfig)
		},
	}

	serveCmd.Flags().IntP("port", "p", 8080, "Port to listen on (overrides config)")
	serveCmd.Flags().String("bind", "127.0.0.1", "Address to bind server to (overrides config)")
	serveCmd.Flags().String("api-key", "", "API key for authentication (overrides config)")
	return serveCmd
}

// serverConfigFrom validates cfg and derives the API server settings
func serverConfigFrom(cfg *config.Config) (api.ServerConfig, error) {
	if err := cfg.Validate(); err != nil {
		return api.ServerConfig{}, fmt.Errorf("invalid configuration: %w", err)
	}

	apiKey := cfg.Security.APIKey
	if apiKey == "auto" {
		key, err := config.GenerateSecureKey(32)
		if err != nil {
			return api.ServerConfig{}, err
		}
		apiKey = key
	}

	return api.ServerConfig{
		Port:   cfg.Port,
		Bind:   cfg.Bind,
		APIKey: apiKey,
		Debug:  cfg.Logging.Debug(),
	}, nil
}
