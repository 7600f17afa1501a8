/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ssargent/bandkit/pkg/codec"
	"github.com/ssargent/bandkit/pkg/config"
	"github.com/ssargent/bandkit/pkg/di"
	"github.com/ssargent/bandkit/pkg/storage"
)

var container *di.Container

// SetContainer injects the dependency container used by the commands
func SetContainer(c *di.Container) {
	container = c
}

// NewRootCmd builds the bandkit command tree
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "bandkit",
		Short: "bandkit - raster pixel codec and band store",
		Long: `bandkit converts raw raster pixel buffers to and from typed samples using
GDAL pixel type tags, and keeps datasets of bands in an embedded store.`,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().String("config", "", "Path to config file (default: OS-specific location)")
	rootCmd.PersistentFlags().StringP("data-dir", "d", "", "Data directory for the band store (overrides config)")
	rootCmd.PersistentFlags().String("byte-order", "", "Sample byte order: native, little or big (overrides config)")
	rootCmd.PersistentFlags().Bool("range-check", false, "Reject integers that do not fit the pixel type instead of wrapping")
	rootCmd.PersistentFlags().StringP("format", "f", "text", "Output format: text or json")

	rootCmd.AddCommand(
		newTypesCmd(),
		newDecodeCmd(),
		newEncodeCmd(),
		newInitCmd(),
		newServeCmd(),
		newServiceCmd(),
		newDatasetCmd(),
		newReadCmd(),
		newWriteCmd(),
	)
	return rootCmd
}

// Execute builds the root command and runs it.
// This is called by main.main(). It only needs to happen once.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig reads the config file named by --config, or the default path
// when it exists, and applies the persistent flag overrides.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	configPath, _ := cmd.Flags().GetString("config")

	cfg := config.DefaultConfig()
	switch {
	case configPath != "":
		loaded, err := config.LoadConfig(configPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	case config.ConfigExists(config.GetDefaultConfigPath()):
		loaded, err := config.LoadConfig(config.GetDefaultConfigPath())
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if cmd.Flags().Changed("data-dir") {
		cfg.DataDir, _ = cmd.Flags().GetString("data-dir")
	}
	if cmd.Flags().Changed("byte-order") {
		cfg.Codec.ByteOrder, _ = cmd.Flags().GetString("byte-order")
	}
	if cmd.Flags().Changed("range-check") {
		cfg.Codec.RangeCheck, _ = cmd.Flags().GetBool("range-check")
	}
	return cfg, nil
}

// pixelCodec builds the codec from config and flags
func pixelCodec(cmd *cobra.Command) (*codec.PixelCodec, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	return cfg.PixelCodec()
}

// openStore opens the band store through the dependency container
func openStore(cfg *config.Config) (*storage.BandStore, error) {
	if container == nil {
		return nil, fmt.Errorf("dependency container not initialized")
	}
	store, err := container.GetStoreFactory().CreateStore(cfg.StoreConfig())
	if err != nil {
		return nil, fmt.Errorf("failed to open store: %w", err)
	}
	return store, nil
}

func jsonOutput(cmd *cobra.Command) bool {
	format, _ := cmd.Flags().GetString("format")
	return format == "json"
}
