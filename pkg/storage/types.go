package storage

import (
	"time"

	"github.com/segmentio/ksuid"

	"github.com/ssargent/bandkit/pkg/codec"
)

// StoreConfig holds configuration for the band store
type StoreConfig struct {
	DataDir     string // Directory for the pebble database
	Compression string // "zstd" (default) or "none"
	NoSync      bool   // Skip fsync on writes
}

// DatasetSpec describes a dataset to create
type DatasetSpec struct {
	XSize     int
	YSize     int
	Bands     int
	PixelType codec.PixelType
}

// DatasetInfo is the metadata record kept for every dataset
type DatasetInfo struct {
	ID        string          `cbor:"1,keyasint"`
	XSize     int             `cbor:"2,keyasint"`
	YSize     int             `cbor:"3,keyasint"`
	Bands     int             `cbor:"4,keyasint"`
	PixelType codec.PixelType `cbor:"5,keyasint"`
}

// Created returns the creation time embedded in the dataset ID.
func (i DatasetInfo) Created() time.Time {
	id, err := ksuid.Parse(i.ID)
	if err != nil {
		return time.Time{}
	}
	return id.Time()
}

// Errors
var (
	ErrDatasetNotFound = &StoreError{"dataset not found"}
	ErrInvalidDataset  = &StoreError{"invalid dataset"}
	ErrCorruptRow      = &StoreError{"row corruption detected"}
	ErrClosed          = &StoreError{"store is closed"}
)

// StoreError represents a band store error
type StoreError struct {
	Message string
}

func (e *StoreError) Error() string {
	return e.Message
}
