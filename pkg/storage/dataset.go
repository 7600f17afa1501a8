package storage

import (
	"context"
	"fmt"

	"github.com/ssargent/bandkit/pkg/codec"
	"github.com/ssargent/bandkit/pkg/raster"
)

// StoredDataset is a dataset held in a BandStore. It implements
// raster.Dataset.
type StoredDataset struct {
	store      *BandStore
	info       DatasetInfo
	sampleSize int
}

var _ raster.Dataset = (*StoredDataset)(nil)

// Info returns the dataset's metadata.
func (d *StoredDataset) Info() DatasetInfo { return d.info }

func (d *StoredDataset) BandCount() int { return d.info.Bands }
func (d *StoredDataset) XSize() int     { return d.info.XSize }
func (d *StoredDataset) YSize() int     { return d.info.YSize }

// Band returns the band at a 1-based index.
func (d *StoredDataset) Band(_ context.Context, index int) (raster.Band, error) {
	if index < 1 || index > d.info.Bands {
		return nil, fmt.Errorf("%w: %d of %d", raster.ErrBandNotFound, index, d.info.Bands)
	}
	return &storedBand{ds: d, index: index}, nil
}

type storedBand struct {
	ds    *StoredDataset
	index int
}

func (b *storedBand) PixelType() codec.PixelType { return b.ds.info.PixelType }
func (b *storedBand) Size() (int, int)           { return b.ds.info.XSize, b.ds.info.YSize }

func (b *storedBand) ReadRegion(ctx context.Context, r raster.Region) ([]byte, error) {
	info := b.ds.info
	if err := r.Within(info.XSize, info.YSize); err != nil {
		return nil, err
	}
	size := b.ds.sampleSize
	fullRow := info.XSize * size
	rowBytes := r.W * size

	s := b.ds.store
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, ErrClosed
	}

	out := make([]byte, r.H*rowBytes)
	for i := 0; i < r.H; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		row, err := s.readRowLocked(info.ID, b.index, r.Y+i, fullRow)
		if err != nil {
			return nil, err
		}
		copy(out[i*rowBytes:], row[r.X*size:(r.X+r.W)*size])
	}
	return out, nil
}

func (b *storedBand) WriteRegion(ctx context.Context, r raster.Region, data []byte) error {
	info := b.ds.info
	if err := r.Within(info.XSize, info.YSize); err != nil {
		return err
	}
	size := b.ds.sampleSize
	fullRow := info.XSize * size
	rowBytes := r.W * size
	if len(data) != r.H*rowBytes {
		return fmt.Errorf("%w: got %d bytes, want %d", raster.ErrSizeMismatch, len(data), r.H*rowBytes)
	}

	s := b.ds.store
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return ErrClosed
	}

	batch := s.db.NewBatch()
	defer batch.Close()

	for i := 0; i < r.H; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		y := r.Y + i
		row, err := s.readRowLocked(info.ID, b.index, y, fullRow)
		if err != nil {
			return err
		}
		copy(row[r.X*size:], data[i*rowBytes:(i+1)*rowBytes])
		if err := batch.Set(rowKey(info.ID, b.index, y), s.rows.Encode(row), nil); err != nil {
			return err
		}
	}
	return batch.Commit(s.syncOpts)
}
