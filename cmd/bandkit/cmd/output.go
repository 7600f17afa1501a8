package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/samber/lo"

	"github.com/ssargent/bandkit/pkg/codec"
	"github.com/ssargent/bandkit/pkg/storage"
)

// formatSample renders one sample the way ParseFloat and ParseInt read it back
func formatSample(v interface{}) string {
	switch n := v.(type) {
	case int64:
		return strconv.FormatInt(n, 10)
	case float64:
		return strconv.FormatFloat(n, 'g', -1, 64)
	default:
		return fmt.Sprint(v)
	}
}

// outputSamples prints samples as rows of xsize values
func outputSamples(w io.Writer, samples codec.Samples, xsize int, asJSON bool) error {
	values := samples.Values()
	if asJSON {
		return outputJSON(w, lo.Map(values, func(v interface{}, _ int) interface{} {
			if f, ok := v.(float64); ok && (math.IsNaN(f) || math.IsInf(f, 0)) {
				return formatSample(f)
			}
			return v
		}))
	}

	if len(values) == 0 {
		return nil
	}
	if xsize <= 0 {
		xsize = len(values)
	}
	for _, row := range lo.Chunk(values, xsize) {
		fmt.Fprintln(w, strings.Join(lo.Map(row, func(v interface{}, _ int) string {
			return formatSample(v)
		}), " "))
	}
	return nil
}

// outputTypes prints the pixel type mapping table
func outputTypes(w io.Writer, asJSON bool) error {
	type row struct {
		Tag      uint8  `json:"tag"`
		Name     string `json:"name"`
		HostType string `json:"host_type,omitempty"`
		Size     int    `json:"size,omitempty"`
		Layout   string `json:"layout,omitempty"`
	}
	rows := lo.Map(codec.PixelTypes(), func(pt codec.PixelType, _ int) row {
		r := row{Tag: uint8(pt), Name: pt.String()}
		if host, err := codec.HostTypeOf(pt); err == nil {
			r.HostType = host.String()
		}
		if size, err := codec.SampleSize(pt); err == nil {
			r.Size = size
		}
		if layout, err := codec.LayoutOf(pt); err == nil {
			r.Layout = fmt.Sprintf("%s%d", layout.Kind, layout.Width*8)
		}
		return r
	})
	if asJSON {
		return outputJSON(w, rows)
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	defer tw.Flush()

	fmt.Fprintln(tw, "TAG\tNAME\tHOST\tSIZE\tLAYOUT")
	for _, r := range rows {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n", r.Tag, r.Name,
			orDash(r.HostType), orDash(sizeString(r.Size)), orDash(r.Layout))
	}
	return nil
}

// outputDataset prints a single dataset
func outputDataset(w io.Writer, info storage.DatasetInfo, asJSON bool) error {
	if asJSON {
		return outputJSON(w, datasetJSON(info))
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	defer tw.Flush()

	fmt.Fprintf(tw, "ID:\t%s\n", info.ID)
	fmt.Fprintf(tw, "Size:\t%dx%d\n", info.XSize, info.YSize)
	fmt.Fprintf(tw, "Bands:\t%d\n", info.Bands)
	fmt.Fprintf(tw, "Type:\t%s\n", info.PixelType)
	if host, err := codec.HostTypeOf(info.PixelType); err == nil {
		fmt.Fprintf(tw, "Host type:\t%s\n", host)
	}
	fmt.Fprintf(tw, "Created:\t%s\n", info.Created().Format(time.RFC3339))
	return nil
}

// outputDatasets prints multiple datasets
func outputDatasets(w io.Writer, infos []storage.DatasetInfo, asJSON bool) error {
	if asJSON {
		return outputJSON(w, lo.Map(infos, func(info storage.DatasetInfo, _ int) map[string]interface{} {
			return datasetJSON(info)
		}))
	}
	if len(infos) == 0 {
		fmt.Fprintln(w, "No datasets found")
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	defer tw.Flush()

	fmt.Fprintln(tw, "ID\tSIZE\tBANDS\tTYPE\tCREATED")
	for _, info := range infos {
		fmt.Fprintf(tw, "%s\t%dx%d\t%d\t%s\t%s\n", info.ID, info.XSize, info.YSize,
			info.Bands, info.PixelType, info.Created().Format(time.RFC3339))
	}
	return nil
}

func datasetJSON(info storage.DatasetInfo) map[string]interface{} {
	return map[string]interface{}{
		"id":      info.ID,
		"xsize":   info.XSize,
		"ysize":   info.YSize,
		"bands":   info.Bands,
		"type":    info.PixelType.String(),
		"created": info.Created().Format(time.RFC3339),
	}
}

func outputJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func sizeString(n int) string {
	if n == 0 {
		return ""
	}
	return strconv.Itoa(n)
}
