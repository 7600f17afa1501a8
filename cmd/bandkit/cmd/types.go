/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"github.com/spf13/cobra"
)

func newTypesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "types",
		Short: "List pixel types",
		Long: `List every GDAL pixel type tag with its host type, sample size and byte layout.
Complex types have a size but no layout and cannot be decoded or encoded.

Example:
  bandkit types --format json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return outputTypes(cmd.OutOrStdout(), jsonOutput(cmd))
		},
	}
}
