/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"encoding/hex"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ssargent/bandkit/pkg/codec"
	"github.com/ssargent/bandkit/pkg/raster"
)

func newEncodeCmd() *cobra.Command {
	encodeCmd := &cobra.Command{
		Use:   "encode [values...]",
		Short: "Encode samples into a raw pixel buffer",
		Long: `Encode samples into the byte layout of the given pixel type. Values come from
the arguments or, when there are none, whitespace-separated from stdin. Integer
types take integers; without --range-check they wrap to the element width.

Examples:
  bandkit encode --type Int16 --hex -- 513 -1
  echo "1.5 2.25" | bandkit encode --type Float32 --output out.raw`,
		RunE: func(cmd *cobra.Command, args []string) error {
			typeName, _ := cmd.Flags().GetString("type")
			output, _ := cmd.Flags().GetString("output")
			asHex, _ := cmd.Flags().GetBool("hex")

			pt, err := codec.ParsePixelType(typeName)
			if err != nil {
				return err
			}
			pc, err := pixelCodec(cmd)
			if err != nil {
				return err
			}

			fields := args
			if len(fields) == 0 {
				data, err := readInput(cmd, nil)
				if err != nil {
					return err
				}
				fields = strings.Fields(string(data))
			}
			values, err := parseSamples(fields, pt)
			if err != nil {
				return err
			}

			data, err := encodeBuffer(cmd, pc, values, pt)
			if err != nil {
				return err
			}

			switch {
			case output != "":
				if err := os.WriteFile(output, data, 0644); err != nil {
					return fmt.Errorf("failed to write output: %w", err)
				}
				cmd.PrintErrf("Wrote %d samples (%d bytes) to %s\n", values.Len(), len(data), output)
			case asHex:
				fmt.Fprintln(cmd.OutOrStdout(), hex.EncodeToString(data))
			default:
				_, err = cmd.OutOrStdout().Write(data)
			}
			return err
		},
	}

	encodeCmd.Flags().StringP("type", "t", "", "Pixel type (Byte, Int16, GDT_FLOAT32, ...)")
	encodeCmd.Flags().StringP("output", "o", "", "Write the buffer to a file instead of stdout")
	encodeCmd.Flags().Bool("hex", false, "Print the buffer as hex")
	_ = encodeCmd.MarkFlagRequired("type")
	return encodeCmd
}

// encodeBuffer writes values to a single-row in-memory band and returns its bytes
func encodeBuffer(cmd *cobra.Command, pc *codec.PixelCodec, values codec.Samples, pt codec.PixelType) ([]byte, error) {
	n := values.Len()
	if n == 0 {
		return pc.Encode(values, pt)
	}

	ds, err := raster.NewMemDataset(n, 1, 1, pt)
	if err != nil {
		return nil, err
	}
	if err := raster.NewReader(ds, pc).WriteBand(cmd.Context(), 1, values); err != nil {
		return nil, err
	}
	band, err := ds.Band(cmd.Context(), 1)
	if err != nil {
		return nil, err
	}
	return band.(*raster.MemBand).Bytes(), nil
}

// parseSamples parses text values for pt. Integer layouts get integer samples
// when every value is an integer; anything else is parsed as reals, which the
// codec rejects for integer layouts.
func parseSamples(fields []string, pt codec.PixelType) (codec.Samples, error) {
	layout, err := codec.LayoutOf(pt)
	if err != nil || layout.IsInteger() {
		ints := make([]int64, 0, len(fields))
		for _, f := range fields {
			v, err := strconv.ParseInt(f, 10, 64)
			if err != nil {
				ints = nil
				break
			}
			ints = append(ints, v)
		}
		if ints != nil {
			return codec.IntSamples(ints...), nil
		}
	}

	reals := make([]float64, 0, len(fields))
	for _, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return codec.Samples{}, fmt.Errorf("invalid sample %q: %w", f, err)
		}
		reals = append(reals, v)
	}
	return codec.RealSamples(reals...), nil
}
