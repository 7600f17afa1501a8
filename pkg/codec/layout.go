package codec

import (
	"encoding/binary"

	"golang.org/x/sys/cpu"
)

// Kind is the numeric interpretation of a layout's element.
type Kind uint8

const (
	KindUnsigned Kind = iota + 1
	KindSigned
	KindFloat
)

func (k Kind) String() string {
	switch k {
	case KindUnsigned:
		return "unsigned"
	case KindSigned:
		return "signed"
	case KindFloat:
		return "float"
	default:
		return "none"
	}
}

// Layout is the fixed binary shape of one element of a pixel type.
type Layout struct {
	Width int
	Kind  Kind
}

// IsInteger reports whether the layout holds integers.
func (l Layout) IsInteger() bool {
	return l.Kind == KindUnsigned || l.Kind == KindSigned
}

type typeEntry struct {
	host   HostType
	layout Layout // zero for Unknown and the complex tags
	size   int    // raw bytes per pixel, complex included
}

// typeTable is indexed by PixelType and never modified.
var typeTable = [numPixelTypes]typeEntry{
	Unknown:  {},
	Byte:     {host: HostText, layout: Layout{1, KindUnsigned}, size: 1},
	UInt16:   {host: HostInteger, layout: Layout{2, KindUnsigned}, size: 2},
	Int16:    {host: HostInteger, layout: Layout{2, KindSigned}, size: 2},
	UInt32:   {host: HostInteger, layout: Layout{4, KindUnsigned}, size: 4},
	Int32:    {host: HostInteger, layout: Layout{4, KindSigned}, size: 4},
	Float32:  {host: HostReal, layout: Layout{4, KindFloat}, size: 4},
	Float64:  {host: HostReal, layout: Layout{8, KindFloat}, size: 8},
	CInt16:   {host: HostInteger, size: 4},
	CInt32:   {host: HostReal, size: 8},
	CFloat32: {host: HostReal, size: 8},
	CFloat64: {host: HostReal, size: 16},
}

// canonical tag per host type; the reverse mapping is deliberately narrow.
var hostCanonical = map[HostType]PixelType{
	HostText:    Byte,
	HostInteger: Int16,
	HostReal:    Float32,
}

// LayoutOf returns the byte layout for pt. Unknown and out-of-range tags fail
// with ErrUnsupportedType, complex tags with ErrComplexType.
func LayoutOf(pt PixelType) (Layout, error) {
	if err := checkCodable("layout", pt); err != nil {
		return Layout{}, err
	}
	return typeTable[pt].layout, nil
}

// SampleSize returns the number of raw bytes one pixel of pt occupies. Unlike
// LayoutOf it is defined for the complex tags, so raw pixel data of any known
// type can be stored and moved without being decoded.
func SampleSize(pt PixelType) (int, error) {
	if !pt.Valid() || pt == Unknown {
		return 0, &TypeError{Op: "size", Type: pt, Err: ErrUnsupportedType}
	}
	return typeTable[pt].size, nil
}

// HostTypeOf maps a pixel type to the host scalar type it is exposed as.
func HostTypeOf(pt PixelType) (HostType, error) {
	if !pt.Valid() || pt == Unknown {
		return 0, &TypeError{Op: "host type", Type: pt, Err: ErrUnsupportedType}
	}
	return typeTable[pt].host, nil
}

// PixelTypeFor returns the canonical pixel type for a host type: Byte for
// text, Int16 for integer and Float32 for real.
func PixelTypeFor(h HostType) (PixelType, error) {
	pt, ok := hostCanonical[h]
	if !ok {
		return Unknown, &TypeError{Op: "pixel type for " + h.String(), Type: Unknown, Err: ErrUnsupportedType}
	}
	return pt, nil
}

// NativeOrder returns the byte order of the running platform.
func NativeOrder() binary.ByteOrder {
	if cpu.IsBigEndian {
		return binary.BigEndian
	}
	return binary.LittleEndian
}

func checkCodable(op string, pt PixelType) error {
	switch {
	case !pt.Valid() || pt == Unknown:
		return &TypeError{Op: op, Type: pt, Err: ErrUnsupportedType}
	case pt.IsComplex():
		return &TypeError{Op: op, Type: pt, Err: ErrComplexType}
	}
	return nil
}
