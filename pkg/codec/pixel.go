package codec

import (
	"encoding/binary"
	"fmt"
	"math"
)

// Samples is a run of pixel values in buffer order. Integer layouts use Ints,
// float layouts use Reals; only one of the two is set.
type Samples struct {
	Ints  []int64
	Reals []float64
}

// IntSamples builds integer samples.
func IntSamples(v ...int64) Samples { return Samples{Ints: v} }

// RealSamples builds real samples.
func RealSamples(v ...float64) Samples { return Samples{Reals: v} }

// IsReal reports whether the samples carry real values.
func (s Samples) IsReal() bool { return len(s.Reals) > 0 || (s.Reals != nil && s.Ints == nil) }

// Len returns the number of samples.
func (s Samples) Len() int {
	if s.IsReal() {
		return len(s.Reals)
	}
	return len(s.Ints)
}

// Float64s returns the samples as float64 regardless of kind.
func (s Samples) Float64s() []float64 {
	if s.IsReal() {
		return s.Reals
	}
	out := make([]float64, len(s.Ints))
	for i, v := range s.Ints {
		out[i] = float64(v)
	}
	return out
}

// Values returns the samples boxed, ints as int64 and reals as float64.
func (s Samples) Values() []any {
	out := make([]any, 0, s.Len())
	if s.IsReal() {
		for _, v := range s.Reals {
			out = append(out, v)
		}
		return out
	}
	for _, v := range s.Ints {
		out = append(out, v)
	}
	return out
}

// PixelCodec converts raw pixel buffers to and from Samples. A PixelCodec is
// immutable and safe for concurrent use.
type PixelCodec struct {
	order      binary.ByteOrder
	rangeCheck bool
}

// Option configures a PixelCodec.
type Option func(*PixelCodec)

// WithByteOrder overrides the element byte order. The default is the
// platform's native order.
func WithByteOrder(order binary.ByteOrder) Option {
	return func(c *PixelCodec) {
		if order != nil {
			c.order = order
		}
	}
}

// WithRangeCheck makes Encode reject integers that do not fit the element
// instead of truncating them, and finite reals that overflow Float32.
func WithRangeCheck(on bool) Option {
	return func(c *PixelCodec) { c.rangeCheck = on }
}

// NewPixelCodec creates a codec using the native byte order and wrapping
// integer packing.
func NewPixelCodec(opts ...Option) *PixelCodec {
	c := &PixelCodec{order: NativeOrder()}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ByteOrder returns the order elements are read and written in.
func (c *PixelCodec) ByteOrder() binary.ByteOrder { return c.order }

// RangeCheck reports whether the codec rejects out-of-range samples.
func (c *PixelCodec) RangeCheck() bool { return c.rangeCheck }

var defaultCodec = NewPixelCodec()

// Decode decodes data with the default codec.
func Decode(data []byte, pt PixelType) (Samples, error) { return defaultCodec.Decode(data, pt) }

// Encode encodes values with the default codec.
func Encode(values Samples, pt PixelType) ([]byte, error) { return defaultCodec.Encode(values, pt) }

// Decode reinterprets data as packed elements of pt's layout, producing
// len(data)/width samples. Trailing bytes short of a whole element are
// ignored. Byte is read unsigned.
func (c *PixelCodec) Decode(data []byte, pt PixelType) (Samples, error) {
	if err := checkCodable("decode", pt); err != nil {
		return Samples{}, err
	}
	layout := typeTable[pt].layout
	n := len(data) / layout.Width

	if layout.Kind == KindFloat {
		out := make([]float64, n)
		for i := range out {
			b := data[i*layout.Width:]
			if layout.Width == 4 {
				out[i] = widenFloat32(c.order.Uint32(b))
			} else {
				out[i] = math.Float64frombits(c.order.Uint64(b))
			}
		}
		return Samples{Reals: out}, nil
	}

	out := make([]int64, n)
	for i := range out {
		b := data[i*layout.Width:]
		switch pt {
		case Byte:
			out[i] = int64(b[0])
		case UInt16:
			out[i] = int64(c.order.Uint16(b))
		case Int16:
			out[i] = int64(int16(c.order.Uint16(b)))
		case UInt32:
			out[i] = int64(c.order.Uint32(b))
		case Int32:
			out[i] = int64(int32(c.order.Uint32(b)))
		}
	}
	return Samples{Ints: out}, nil
}

// Encode packs values into pt's layout in sequence order. Byte is packed
// through a signed 8-bit conversion. Without a range check, integers wrap to
// the element width, so Encode(IntSamples(300), Byte) yields 0x2C.
func (c *PixelCodec) Encode(values Samples, pt PixelType) ([]byte, error) {
	if err := checkCodable("encode", pt); err != nil {
		return nil, err
	}
	layout := typeTable[pt].layout

	if layout.IsInteger() && len(values.Reals) > 0 || layout.Kind == KindFloat && len(values.Ints) > 0 {
		return nil, &TypeError{Op: "encode", Type: pt, Err: ErrValueKind}
	}
	if c.rangeCheck {
		if err := checkRange(values, pt); err != nil {
			return nil, &TypeError{Op: "encode", Type: pt, Err: err}
		}
	}

	if layout.Kind == KindFloat {
		buf := make([]byte, len(values.Reals)*layout.Width)
		for i, v := range values.Reals {
			b := buf[i*layout.Width:]
			if layout.Width == 4 {
				c.order.PutUint32(b, narrowFloat64(v))
			} else {
				c.order.PutUint64(b, math.Float64bits(v))
			}
		}
		return buf, nil
	}

	buf := make([]byte, len(values.Ints)*layout.Width)
	for i, v := range values.Ints {
		b := buf[i*layout.Width:]
		switch layout.Width {
		case 1:
			b[0] = byte(int8(v))
		case 2:
			c.order.PutUint16(b, uint16(v))
		case 4:
			c.order.PutUint32(b, uint32(v))
		}
	}
	return buf, nil
}

// intRange holds the decoded range of each integer type.
var intRange = map[PixelType][2]int64{
	Byte:   {0, math.MaxUint8},
	UInt16: {0, math.MaxUint16},
	Int16:  {math.MinInt16, math.MaxInt16},
	UInt32: {0, math.MaxUint32},
	Int32:  {math.MinInt32, math.MaxInt32},
}

func checkRange(values Samples, pt PixelType) error {
	if r, ok := intRange[pt]; ok {
		for i, v := range values.Ints {
			if v < r[0] || v > r[1] {
				return fmt.Errorf("%w: sample %d is %d, want [%d, %d]", ErrOutOfRange, i, v, r[0], r[1])
			}
		}
		return nil
	}
	if pt == Float32 {
		for i, v := range values.Reals {
			if !math.IsInf(v, 0) && math.IsInf(float64(float32(v)), 0) {
				return fmt.Errorf("%w: sample %d is %g", ErrOutOfRange, i, v)
			}
		}
	}
	return nil
}

const (
	f32ExpMask  = 0x7F800000
	f32MantMask = 0x007FFFFF
	f32QuietBit = 0x00400000
	f64ExpMask  = 0x7FF0000000000000
)

// widenFloat32 converts float32 bits to float64. NaN payloads, signaling ones
// included, are carried into the top of the float64 mantissa unchanged; a
// plain conversion would set the quiet bit.
func widenFloat32(bits uint32) float64 {
	if bits&f32ExpMask == f32ExpMask && bits&f32MantMask != 0 {
		return math.Float64frombits(uint64(bits>>31)<<63 | f64ExpMask | uint64(bits&f32MantMask)<<29)
	}
	return float64(math.Float32frombits(bits))
}

// narrowFloat64 is the inverse of widenFloat32: NaNs keep the top 23 payload
// bits, so every float32 pattern survives a Decode/Encode round trip.
func narrowFloat64(v float64) uint32 {
	if v != v {
		bits := math.Float64bits(v)
		mant := uint32(bits>>29) & f32MantMask
		if mant == 0 {
			// payload only in the dropped low bits
			mant = f32QuietBit
		}
		return uint32(bits>>63)<<31 | f32ExpMask | mant
	}
	return math.Float32bits(float32(v))
}
