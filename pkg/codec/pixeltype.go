package codec

import (
	"fmt"
	"strings"
)

// PixelType identifies how a single raster sample is stored. The numeric
// values follow GDAL's GDT_* constants.
type PixelType uint8

const (
	Unknown PixelType = iota
	Byte
	UInt16
	Int16
	UInt32
	Int32
	Float32
	Float64
	CInt16
	CInt32
	CFloat32
	CFloat64

	numPixelTypes = iota
)

var pixelTypeNames = [numPixelTypes]string{
	"GDT_UNKNOWN",
	"GDT_BYTE",
	"GDT_UINT16",
	"GDT_INT16",
	"GDT_UINT32",
	"GDT_INT32",
	"GDT_FLOAT32",
	"GDT_FLOAT64",
	"GDT_CINT16",
	"GDT_CINT32",
	"GDT_CFLOAT32",
	"GDT_CFLOAT64",
}

// String returns the GDAL-style name of the pixel type ("GDT_BYTE", "GDT_INT16", ...).
func (pt PixelType) String() string {
	if !pt.Valid() {
		return fmt.Sprintf("PixelType(%d)", uint8(pt))
	}
	return pixelTypeNames[pt]
}

// Valid reports whether pt is one of the defined tags, Unknown included.
func (pt PixelType) Valid() bool {
	return pt < numPixelTypes
}

// IsComplex reports whether pt is one of the four complex tags.
func (pt PixelType) IsComplex() bool {
	return pt >= CInt16 && pt <= CFloat64
}

// PixelTypes returns every defined tag in numeric order.
func PixelTypes() []PixelType {
	out := make([]PixelType, numPixelTypes)
	for i := range out {
		out[i] = PixelType(i)
	}
	return out
}

// ParsePixelType accepts the GDAL-style names returned by String as well as
// the short forms ("Byte", "int16", "cfloat32"), case-insensitively.
func ParsePixelType(name string) (PixelType, error) {
	key := strings.ToUpper(strings.TrimSpace(name))
	key = strings.TrimPrefix(key, "GDT_")
	for i, n := range pixelTypeNames {
		if strings.TrimPrefix(n, "GDT_") == key {
			return PixelType(i), nil
		}
	}
	return Unknown, fmt.Errorf("%w: %q", ErrUnsupportedType, name)
}

// HostType is the coarse scalar type a pixel type is exposed as.
type HostType uint8

const (
	HostText HostType = iota + 1
	HostInteger
	HostReal
)

// String returns "text", "integer" or "real".
func (h HostType) String() string {
	switch h {
	case HostText:
		return "text"
	case HostInteger:
		return "integer"
	case HostReal:
		return "real"
	default:
		return fmt.Sprintf("HostType(%d)", uint8(h))
	}
}

// ParseHostType parses the names returned by HostType.String.
func ParseHostType(name string) (HostType, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "text", "string":
		return HostText, nil
	case "integer", "int":
		return HostInteger, nil
	case "real", "float":
		return HostReal, nil
	}
	return 0, fmt.Errorf("%w: host type %q", ErrUnsupportedType, name)
}
