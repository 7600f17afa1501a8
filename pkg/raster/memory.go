package raster

import (
	"context"
	"fmt"
	"sync"

	"github.com/ssargent/bandkit/pkg/codec"
)

// MemDataset is an in-memory Dataset. All bands share one pixel type.
type MemDataset struct {
	xsize, ysize int
	bands        []*MemBand
}

// NewMemDataset allocates a zero-filled dataset.
func NewMemDataset(xsize, ysize, bands int, pt codec.PixelType) (*MemDataset, error) {
	if xsize <= 0 || ysize <= 0 || bands <= 0 {
		return nil, fmt.Errorf("invalid dataset shape %dx%dx%d", xsize, ysize, bands)
	}
	size, err := codec.SampleSize(pt)
	if err != nil {
		return nil, err
	}

	ds := &MemDataset{xsize: xsize, ysize: ysize}
	for i := 0; i < bands; i++ {
		ds.bands = append(ds.bands, &MemBand{
			pt:    pt,
			size:  size,
			xsize: xsize,
			ysize: ysize,
			data:  make([]byte, xsize*ysize*size),
		})
	}
	return ds, nil
}

func (d *MemDataset) BandCount() int { return len(d.bands) }
func (d *MemDataset) XSize() int     { return d.xsize }
func (d *MemDataset) YSize() int     { return d.ysize }

// Band returns the band at a 1-based index.
func (d *MemDataset) Band(_ context.Context, index int) (Band, error) {
	if index < 1 || index > len(d.bands) {
		return nil, fmt.Errorf("%w: %d", ErrBandNotFound, index)
	}
	return d.bands[index-1], nil
}

// MemBand holds a band's pixels row-major in one buffer.
type MemBand struct {
	pt           codec.PixelType
	size         int
	xsize, ysize int

	mu   sync.RWMutex
	data []byte
}

func (b *MemBand) PixelType() codec.PixelType { return b.pt }
func (b *MemBand) Size() (int, int)           { return b.xsize, b.ysize }

// Bytes returns a copy of the whole band.
func (b *MemBand) Bytes() []byte {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return append([]byte(nil), b.data...)
}

func (b *MemBand) ReadRegion(ctx context.Context, r Region) ([]byte, error) {
	if err := r.Within(b.xsize, b.ysize); err != nil {
		return nil, err
	}
	b.mu.RLock()
	defer b.mu.RUnlock()

	rowBytes := r.W * b.size
	out := make([]byte, r.H*rowBytes)
	for row := 0; row < r.H; row++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		src := ((r.Y+row)*b.xsize + r.X) * b.size
		copy(out[row*rowBytes:], b.data[src:src+rowBytes])
	}
	return out, nil
}

func (b *MemBand) WriteRegion(ctx context.Context, r Region, data []byte) error {
	if err := r.Within(b.xsize, b.ysize); err != nil {
		return err
	}
	rowBytes := r.W * b.size
	if len(data) != r.H*rowBytes {
		return fmt.Errorf("%w: got %d bytes, want %d", ErrSizeMismatch, len(data), r.H*rowBytes)
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	for row := 0; row < r.H; row++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		dst := ((r.Y+row)*b.xsize + r.X) * b.size
		copy(b.data[dst:dst+rowBytes], data[row*rowBytes:])
	}
	return nil
}
