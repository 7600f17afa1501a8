package codec

import (
	"errors"
	"fmt"
)

var (
	// ErrUnsupportedType is returned for Unknown, for tags outside the
	// defined set and for host types other than text, integer and real.
	ErrUnsupportedType = errors.New("unsupported pixel type")

	// ErrComplexType is returned for the complex tags, which are recognized
	// but have no byte layout. It wraps ErrUnsupportedType.
	ErrComplexType = fmt.Errorf("%w: complex pixel types have no byte layout", ErrUnsupportedType)

	// ErrValueKind is returned when integer samples are encoded under a float
	// layout or the other way round.
	ErrValueKind = errors.New("sample kind does not match pixel layout")

	// ErrOutOfRange is returned by range-checking codecs when a sample does
	// not fit the element width.
	ErrOutOfRange = errors.New("sample out of range for pixel type")
)

// TypeError records the operation and pixel type that failed.
type TypeError struct {
	Op   string
	Type PixelType
	Err  error
}

func (e *TypeError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Type, e.Err)
}

func (e *TypeError) Unwrap() error { return e.Err }
