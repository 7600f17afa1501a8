package raster

import (
	"context"
	"fmt"
	"sync"

	"github.com/ssargent/bandkit/pkg/codec"
)

// Reader reads and writes typed band regions of a dataset. Band lookups are
// resolved from the dataset once and cached.
type Reader struct {
	ds    Dataset
	codec *codec.PixelCodec

	mu    sync.Mutex
	bands map[int]Band
}

// NewReader wraps ds. A nil codec means codec.NewPixelCodec().
func NewReader(ds Dataset, c *codec.PixelCodec) *Reader {
	if c == nil {
		c = codec.NewPixelCodec()
	}
	return &Reader{
		ds:    ds,
		codec: c,
		bands: make(map[int]Band),
	}
}

// Dataset returns the wrapped dataset.
func (r *Reader) Dataset() Dataset { return r.ds }

// BandCount returns the number of bands in the dataset.
func (r *Reader) BandCount() int { return r.ds.BandCount() }

// Band returns the band at index, asking the dataset only on first use.
func (r *Reader) Band(ctx context.Context, index int) (Band, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if b, ok := r.bands[index]; ok {
		return b, nil
	}
	if index < 1 || index > r.ds.BandCount() {
		return nil, fmt.Errorf("%w: %d of %d", ErrBandNotFound, index, r.ds.BandCount())
	}
	b, err := r.ds.Band(ctx, index)
	if err != nil {
		return nil, fmt.Errorf("failed to get band %d: %w", index, err)
	}
	r.bands[index] = b
	return b, nil
}

// Read reads a region of a band and decodes it.
func (r *Reader) Read(ctx context.Context, index int, region Region) (codec.Samples, error) {
	b, err := r.Band(ctx, index)
	if err != nil {
		return codec.Samples{}, err
	}
	pt := b.PixelType()
	// fail on unsupported types before touching the band
	if _, err := codec.LayoutOf(pt); err != nil {
		return codec.Samples{}, err
	}

	raw, err := b.ReadRegion(ctx, region)
	if err != nil {
		return codec.Samples{}, fmt.Errorf("failed to read band %d region %v: %w", index, region, err)
	}
	return r.codec.Decode(raw, pt)
}

// Write encodes values and writes them to a region of a band.
func (r *Reader) Write(ctx context.Context, index int, region Region, values codec.Samples) error {
	b, err := r.Band(ctx, index)
	if err != nil {
		return err
	}
	raw, err := r.codec.Encode(values, b.PixelType())
	if err != nil {
		return err
	}
	if err := b.WriteRegion(ctx, region, raw); err != nil {
		return fmt.Errorf("failed to write band %d region %v: %w", index, region, err)
	}
	return nil
}

// ReadBand reads a whole band.
func (r *Reader) ReadBand(ctx context.Context, index int) (codec.Samples, error) {
	return r.Read(ctx, index, FullRegion(r.ds.XSize(), r.ds.YSize()))
}

// WriteBand writes a whole band.
func (r *Reader) WriteBand(ctx context.Context, index int, values codec.Samples) error {
	return r.Write(ctx, index, FullRegion(r.ds.XSize(), r.ds.YSize()), values)
}

// HostType returns the host scalar type of a band.
func (r *Reader) HostType(ctx context.Context, index int) (codec.HostType, error) {
	b, err := r.Band(ctx, index)
	if err != nil {
		return 0, err
	}
	return codec.HostTypeOf(b.PixelType())
}

// TypeName returns the GDAL-style name of a band's pixel type.
func (r *Reader) TypeName(ctx context.Context, index int) (string, error) {
	b, err := r.Band(ctx, index)
	if err != nil {
		return "", err
	}
	return b.PixelType().String(), nil
}
