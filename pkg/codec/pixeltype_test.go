package codec

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHostTypeOf(t *testing.T) {
	testCases := []struct {
		pt   PixelType
		want HostType
	}{
		{Byte, HostText},
		{UInt16, HostInteger},
		{Int16, HostInteger},
		{UInt32, HostInteger},
		{Int32, HostInteger},
		{Float32, HostReal},
		{Float64, HostReal},
		{CInt16, HostInteger},
		{CInt32, HostReal},
		{CFloat32, HostReal},
		{CFloat64, HostReal},
	}

	for _, tc := range testCases {
		t.Run(tc.pt.String(), func(t *testing.T) {
			got, err := HostTypeOf(tc.pt)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}

	_, err := HostTypeOf(Unknown)
	assert.ErrorIs(t, err, ErrUnsupportedType)

	_, err = HostTypeOf(PixelType(200))
	assert.ErrorIs(t, err, ErrUnsupportedType)
}

func TestPixelTypeFor(t *testing.T) {
	pt, err := PixelTypeFor(HostText)
	require.NoError(t, err)
	assert.Equal(t, Byte, pt)

	pt, err = PixelTypeFor(HostInteger)
	require.NoError(t, err)
	assert.Equal(t, Int16, pt, "integer maps to the canonical Int16, not the source tag")

	pt, err = PixelTypeFor(HostReal)
	require.NoError(t, err)
	assert.Equal(t, Float32, pt)

	_, err = PixelTypeFor(HostType(0))
	assert.ErrorIs(t, err, ErrUnsupportedType)

	_, err = PixelTypeFor(HostType(9))
	assert.ErrorIs(t, err, ErrUnsupportedType)
}

func TestLayoutOf(t *testing.T) {
	testCases := []struct {
		pt    PixelType
		width int
		kind  Kind
	}{
		{Byte, 1, KindUnsigned},
		{UInt16, 2, KindUnsigned},
		{Int16, 2, KindSigned},
		{UInt32, 4, KindUnsigned},
		{Int32, 4, KindSigned},
		{Float32, 4, KindFloat},
		{Float64, 8, KindFloat},
	}

	for _, tc := range testCases {
		layout, err := LayoutOf(tc.pt)
		require.NoError(t, err)
		assert.Equal(t, Layout{Width: tc.width, Kind: tc.kind}, layout, tc.pt.String())
	}

	_, err := LayoutOf(Unknown)
	assert.ErrorIs(t, err, ErrUnsupportedType)
	_, err = LayoutOf(CFloat64)
	assert.ErrorIs(t, err, ErrComplexType)
}

func TestSampleSize(t *testing.T) {
	sizes := map[PixelType]int{
		Byte: 1, UInt16: 2, Int16: 2, UInt32: 4, Int32: 4, Float32: 4, Float64: 8,
		CInt16: 4, CInt32: 8, CFloat32: 8, CFloat64: 16,
	}
	for pt, want := range sizes {
		got, err := SampleSize(pt)
		require.NoError(t, err)
		assert.Equal(t, want, got, pt.String())
	}

	_, err := SampleSize(Unknown)
	assert.ErrorIs(t, err, ErrUnsupportedType)
}

func TestPixelTypeNames(t *testing.T) {
	assert.Equal(t, "GDT_BYTE", Byte.String())
	assert.Equal(t, "GDT_FLOAT32", Float32.String())
	assert.Equal(t, "GDT_CFLOAT64", CFloat64.String())
	assert.Equal(t, "PixelType(99)", PixelType(99).String())

	for _, pt := range PixelTypes() {
		parsed, err := ParsePixelType(pt.String())
		require.NoError(t, err)
		assert.Equal(t, pt, parsed)
	}

	for name, want := range map[string]PixelType{
		"byte":       Byte,
		"Int16":      Int16,
		" uint32 ":   UInt32,
		"gdt_cint16": CInt16,
	} {
		got, err := ParsePixelType(name)
		require.NoError(t, err, name)
		assert.Equal(t, want, got, name)
	}

	_, err := ParsePixelType("int64")
	assert.ErrorIs(t, err, ErrUnsupportedType)
}

func TestPixelTypes(t *testing.T) {
	all := PixelTypes()
	require.Len(t, all, 12)
	assert.Equal(t, Unknown, all[0])
	assert.Equal(t, CFloat64, all[11])

	for _, pt := range all {
		assert.True(t, pt.Valid())
	}
	assert.False(t, PixelType(12).Valid())

	assert.True(t, CInt16.IsComplex())
	assert.False(t, Float64.IsComplex())
}

func TestHostTypeNames(t *testing.T) {
	for _, h := range []HostType{HostText, HostInteger, HostReal} {
		parsed, err := ParseHostType(h.String())
		require.NoError(t, err)
		assert.Equal(t, h, parsed)
	}

	_, err := ParseHostType("complex")
	assert.ErrorIs(t, err, ErrUnsupportedType)
}

func TestNativeOrder(t *testing.T) {
	order := NativeOrder()
	assert.Contains(t, []binary.ByteOrder{binary.LittleEndian, binary.BigEndian}, order)
	assert.Equal(t, order, NewPixelCodec().ByteOrder())
}
