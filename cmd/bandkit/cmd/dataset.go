/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"github.com/spf13/cobra"

	"github.com/ssargent/bandkit/pkg/codec"
	"github.com/ssargent/bandkit/pkg/storage"
)

// withStore loads the configuration, opens the band store and runs fn
func withStore(cmd *cobra.Command, fn func(store *storage.BandStore) error) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	store, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer store.Close()
	return fn(store)
}

func newDatasetCmd() *cobra.Command {
	datasetCmd := &cobra.Command{
		Use:   "dataset",
		Short: "Manage stored datasets",
		Long: `Create, list, inspect and drop datasets in the band store.

Examples:
  bandkit dataset create --xsize 256 --ysize 256 --bands 3 --type Byte
  bandkit dataset list
  bandkit dataset info 2Hk6f0Zm5p8o5Yv6tQ1uXoBz9aJ
  bandkit dataset drop 2Hk6f0Zm5p8o5Yv6tQ1uXoBz9aJ`,
	}

	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Create a zero-filled dataset",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			xsize, _ := cmd.Flags().GetInt("xsize")
			ysize, _ := cmd.Flags().GetInt("ysize")
			bands, _ := cmd.Flags().GetInt("bands")
			typeName, _ := cmd.Flags().GetString("type")

			pt, err := codec.ParsePixelType(typeName)
			if err != nil {
				return err
			}
			return withStore(cmd, func(store *storage.BandStore) error {
				ds, err := store.Create(storage.DatasetSpec{XSize: xsize, YSize: ysize, Bands: bands, PixelType: pt})
				if err != nil {
					return err
				}
				return outputDataset(cmd.OutOrStdout(), ds.Info(), jsonOutput(cmd))
			})
		},
	}
	createCmd.Flags().Int("xsize", 0, "Width in pixels")
	createCmd.Flags().Int("ysize", 0, "Height in pixels")
	createCmd.Flags().Int("bands", 1, "Number of bands")
	createCmd.Flags().StringP("type", "t", "Byte", "Pixel type")
	_ = createCmd.MarkFlagRequired("xsize")
	_ = createCmd.MarkFlagRequired("ysize")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List datasets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd, func(store *storage.BandStore) error {
				infos, err := store.List()
				if err != nil {
					return err
				}
				return outputDatasets(cmd.OutOrStdout(), infos, jsonOutput(cmd))
			})
		},
	}

	infoCmd := &cobra.Command{
		Use:   "info <id>",
		Short: "Show a dataset",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd, func(store *storage.BandStore) error {
				ds, err := store.Open(args[0])
				if err != nil {
					return err
				}
				return outputDataset(cmd.OutOrStdout(), ds.Info(), jsonOutput(cmd))
			})
		},
	}

	dropCmd := &cobra.Command{
		Use:   "drop <id>",
		Short: "Remove a dataset and its pixels",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd, func(store *storage.BandStore) error {
				if err := store.Drop(args[0]); err != nil {
					return err
				}
				cmd.Printf("Dropped dataset %s\n", args[0])
				return nil
			})
		},
	}

	datasetCmd.AddCommand(createCmd, listCmd, infoCmd, dropCmd)
	return datasetCmd
}
