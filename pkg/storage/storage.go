// Package storage persists raster datasets in pebble so band regions can be
// read and written through the raster.Dataset contract.
package storage

import (
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/cockroachdb/pebble"
	"github.com/fxamacker/cbor/v2"
	"github.com/segmentio/ksuid"

	"github.com/ssargent/bandkit/pkg/codec"
)

// Key layout:
//
//	meta/<id>                       CBOR DatasetInfo
//	px/<id>/<band:04d>/<row:08d>    framed row of raw pixels
const (
	metaPrefix  = "meta/"
	pixelPrefix = "px/"
)

func metaKey(id string) []byte { return []byte(metaPrefix + id) }

func rowKey(id string, band, row int) []byte {
	return []byte(fmt.Sprintf("%s%s/%04d/%08d", pixelPrefix, id, band, row))
}

// prefixEnd returns the first key after every key starting with prefix,
// for prefixes ending in '/'.
func prefixEnd(prefix string) []byte {
	return []byte(prefix[:len(prefix)-1] + "0")
}

// BandStore keeps datasets in a pebble database.
type BandStore struct {
	db       *pebble.DB
	rows     *rowCodec
	syncOpts *pebble.WriteOptions

	writeMu sync.Mutex
	mu      sync.RWMutex
	closed  bool
}

// NewBandStore opens (or creates) a band store in config.DataDir.
func NewBandStore(config StoreConfig) (*BandStore, error) {
	if err := os.MkdirAll(config.DataDir, 0755); err != nil {
		return nil, err
	}

	rows, err := newRowCodec(config.Compression)
	if err != nil {
		return nil, err
	}

	db, err := pebble.Open(config.DataDir, &pebble.Options{})
	if err != nil {
		rows.Close()
		return nil, fmt.Errorf("failed to open pebble: %w", err)
	}

	syncOpts := pebble.Sync
	if config.NoSync {
		syncOpts = pebble.NoSync
	}

	return &BandStore{db: db, rows: rows, syncOpts: syncOpts}, nil
}

// Create stores the metadata of a new, zero-filled dataset and returns it.
func (s *BandStore) Create(spec DatasetSpec) (*StoredDataset, error) {
	if spec.XSize <= 0 || spec.YSize <= 0 || spec.Bands <= 0 {
		return nil, fmt.Errorf("%w: shape %dx%dx%d", ErrInvalidDataset, spec.XSize, spec.YSize, spec.Bands)
	}
	size, err := codec.SampleSize(spec.PixelType)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDataset, err)
	}

	info := DatasetInfo{
		ID:        ksuid.New().String(),
		XSize:     spec.XSize,
		YSize:     spec.YSize,
		Bands:     spec.Bands,
		PixelType: spec.PixelType,
	}
	data, err := cbor.Marshal(info)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal dataset info: %w", err)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, ErrClosed
	}
	if err := s.db.Set(metaKey(info.ID), data, s.syncOpts); err != nil {
		return nil, fmt.Errorf("failed to store dataset info: %w", err)
	}

	return &StoredDataset{store: s, info: info, sampleSize: size}, nil
}

// Open returns the dataset with the given ID.
func (s *BandStore) Open(id string) (*StoredDataset, error) {
	if _, err := ksuid.Parse(id); err != nil {
		return nil, fmt.Errorf("%w: %q", ErrDatasetNotFound, id)
	}
	info, err := s.info(id)
	if err != nil {
		return nil, err
	}
	size, err := codec.SampleSize(info.PixelType)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDataset, err)
	}
	return &StoredDataset{store: s, info: info, sampleSize: size}, nil
}

// List returns the metadata of every dataset, oldest first.
func (s *BandStore) List() ([]DatasetInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, ErrClosed
	}

	iter, err := s.db.NewIter(&pebble.IterOptions{
		LowerBound: []byte(metaPrefix),
		UpperBound: prefixEnd(metaPrefix),
	})
	if err != nil {
		return nil, err
	}
	defer iter.Close()

	var out []DatasetInfo
	for iter.First(); iter.Valid(); iter.Next() {
		var info DatasetInfo
		if err := cbor.Unmarshal(iter.Value(), &info); err != nil {
			return nil, fmt.Errorf("failed to decode dataset info %q: %w", iter.Key(), err)
		}
		out = append(out, info)
	}
	return out, iter.Error()
}

// Drop removes a dataset and all of its pixels.
func (s *BandStore) Drop(id string) error {
	if _, err := s.info(id); err != nil {
		return err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return ErrClosed
	}

	batch := s.db.NewBatch()
	defer batch.Close()

	prefix := pixelPrefix + id + "/"
	if err := batch.DeleteRange([]byte(prefix), prefixEnd(prefix), nil); err != nil {
		return err
	}
	if err := batch.Delete(metaKey(id), nil); err != nil {
		return err
	}
	return batch.Commit(s.syncOpts)
}

// Close closes the underlying database.
func (s *BandStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	s.rows.Close()
	return s.db.Close()
}

func (s *BandStore) info(id string) (DatasetInfo, error) {
	data, err := s.get(metaKey(id))
	if err != nil {
		return DatasetInfo{}, err
	}
	if data == nil {
		return DatasetInfo{}, fmt.Errorf("%w: %s", ErrDatasetNotFound, id)
	}
	var info DatasetInfo
	if err := cbor.Unmarshal(data, &info); err != nil {
		return DatasetInfo{}, fmt.Errorf("failed to decode dataset info: %w", err)
	}
	return info, nil
}

// get returns a copy of the value under key, or nil when it is absent.
func (s *BandStore) get(key []byte) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, ErrClosed
	}
	return s.getLocked(key)
}

// getLocked is get for callers already holding s.mu.
func (s *BandStore) getLocked(key []byte) ([]byte, error) {
	data, closer, err := s.db.Get(key)
	if errors.Is(err, pebble.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	defer closer.Close()
	return append([]byte(nil), data...), nil
}

// readRowLocked returns one full row; rows never written read as zeros.
// Callers hold s.mu.
func (s *BandStore) readRowLocked(id string, band, row, rowBytes int) ([]byte, error) {
	frame, err := s.getLocked(rowKey(id, band, row))
	if err != nil {
		return nil, err
	}
	if frame == nil {
		return make([]byte, rowBytes), nil
	}
	raw, err := s.rows.Decode(frame)
	if err != nil {
		return nil, fmt.Errorf("band %d row %d: %w", band, row, err)
	}
	if len(raw) != rowBytes {
		return nil, fmt.Errorf("%w: band %d row %d has %d bytes, want %d", ErrCorruptRow, band, row, len(raw), rowBytes)
	}
	return raw, nil
}
