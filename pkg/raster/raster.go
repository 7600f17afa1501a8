// Package raster defines the band and dataset contract bandkit consumes and
// the typed read/write helpers built on top of it.
package raster

import (
	"context"
	"errors"
	"fmt"

	"github.com/ssargent/bandkit/pkg/codec"
)

var (
	// ErrOutOfBounds is returned for regions that fall outside the raster.
	ErrOutOfBounds = errors.New("region out of bounds")

	// ErrBandNotFound is returned for band indexes outside [1, BandCount].
	ErrBandNotFound = errors.New("band not found")

	// ErrSizeMismatch is returned when a write carries the wrong number of bytes.
	ErrSizeMismatch = errors.New("buffer size does not match region")
)

// Band is one channel of a dataset. Implementations move raw pixel bytes;
// they do not interpret them.
type Band interface {
	PixelType() codec.PixelType
	Size() (xsize, ysize int)
	ReadRegion(ctx context.Context, r Region) ([]byte, error)
	WriteRegion(ctx context.Context, r Region, data []byte) error
}

// Dataset is a grid of one or more bands sharing an extent. Band indexes are
// 1-based.
type Dataset interface {
	BandCount() int
	XSize() int
	YSize() int
	Band(ctx context.Context, index int) (Band, error)
}

// Region is a rectangular window of pixels.
type Region struct {
	X int `json:"x"`
	Y int `json:"y"`
	W int `json:"w"`
	H int `json:"h"`
}

// FullRegion covers a whole raster.
func FullRegion(xsize, ysize int) Region {
	return Region{W: xsize, H: ysize}
}

// Pixels returns the number of pixels in the region.
func (r Region) Pixels() int { return r.W * r.H }

// Within checks that the region lies inside a raster of the given size.
func (r Region) Within(xsize, ysize int) error {
	// compare by subtraction so huge widths cannot overflow past the check
	if r.X < 0 || r.Y < 0 || r.W < 0 || r.H < 0 ||
		r.X > xsize || r.Y > ysize || r.W > xsize-r.X || r.H > ysize-r.Y {
		return fmt.Errorf("%w: %v in %dx%d", ErrOutOfBounds, r, xsize, ysize)
	}
	return nil
}

func (r Region) String() string {
	return fmt.Sprintf("%dx%d+%d+%d", r.W, r.H, r.X, r.Y)
}
