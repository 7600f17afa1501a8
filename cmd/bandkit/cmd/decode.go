/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/ssargent/bandkit/pkg/codec"
	"github.com/ssargent/bandkit/pkg/raster"
)

func newDecodeCmd() *cobra.Command {
	decodeCmd := &cobra.Command{
		Use:   "decode [file]",
		Short: "Decode a raw pixel buffer",
		Long: `Decode a raw pixel buffer read from a file (or stdin) into samples of the
given pixel type. With --xsize the samples are printed as rows of that width;
trailing samples that do not fill a row and bytes short of a sample are dropped.

Examples:
  bandkit decode --type Int16 tile.raw
  head -c 1024 band.raw | bandkit decode --type Float32 --xsize 16 --byte-order big`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			typeName, _ := cmd.Flags().GetString("type")
			xsize, _ := cmd.Flags().GetInt("xsize")

			pt, err := codec.ParsePixelType(typeName)
			if err != nil {
				return err
			}
			pc, err := pixelCodec(cmd)
			if err != nil {
				return err
			}
			data, err := readInput(cmd, args)
			if err != nil {
				return err
			}

			samples, width, err := decodeBuffer(cmd, pc, data, pt, xsize)
			if err != nil {
				return err
			}
			return outputSamples(cmd.OutOrStdout(), samples, width, jsonOutput(cmd))
		},
	}

	decodeCmd.Flags().StringP("type", "t", "", "Pixel type (Byte, Int16, GDT_FLOAT32, ...)")
	decodeCmd.Flags().Int("xsize", 0, "Samples per output row (default: all samples on one row)")
	_ = decodeCmd.MarkFlagRequired("type")
	return decodeCmd
}

// decodeBuffer shapes data as a single-band in-memory raster and reads the
// band back through a raster.Reader.
func decodeBuffer(cmd *cobra.Command, pc *codec.PixelCodec, data []byte, pt codec.PixelType, xsize int) (codec.Samples, int, error) {
	size, err := codec.SampleSize(pt)
	if err != nil {
		return codec.Samples{}, 0, err
	}
	n := len(data) / size
	if n == 0 {
		samples, err := pc.Decode(nil, pt)
		return samples, 0, err
	}
	if xsize <= 0 || xsize > n {
		xsize = n
	}
	ysize := n / xsize

	ds, err := raster.NewMemDataset(xsize, ysize, 1, pt)
	if err != nil {
		return codec.Samples{}, 0, err
	}
	band, err := ds.Band(cmd.Context(), 1)
	if err != nil {
		return codec.Samples{}, 0, err
	}
	if err := band.WriteRegion(cmd.Context(), raster.FullRegion(xsize, ysize), data[:xsize*ysize*size]); err != nil {
		return codec.Samples{}, 0, err
	}

	samples, err := raster.NewReader(ds, pc).ReadBand(cmd.Context(), 1)
	if err != nil {
		return codec.Samples{}, 0, err
	}
	return samples, xsize, nil
}

// readInput reads the named file, or stdin when no file is given or it is "-"
func readInput(cmd *cobra.Command, args []string) ([]byte, error) {
	if len(args) == 0 || args[0] == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return nil, fmt.Errorf("failed to read stdin: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read input: %w", err)
	}
	return data, nil
}
