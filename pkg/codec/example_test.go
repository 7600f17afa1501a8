package codec_test

import (
	"encoding/binary"
	"errors"
	"fmt"
	"log"

	"github.com/ssargent/bandkit/pkg/codec"
)

// ExamplePixelCodec_Decode decodes a little-endian Int16 buffer.
func ExamplePixelCodec_Decode() {
	c := codec.NewPixelCodec(codec.WithByteOrder(binary.LittleEndian))

	samples, err := c.Decode([]byte{0x01, 0x02, 0xFF, 0xFF}, codec.Int16)
	if err != nil {
		log.Fatal(err)
	}

	fmt.Println(samples.Ints)

	// Output:
	// [513 -1]
}

// ExamplePixelCodec_Encode shows the wrapping behaviour for Byte.
func ExamplePixelCodec_Encode() {
	c := codec.NewPixelCodec()

	raw, err := c.Encode(codec.IntSamples(1, 255, 300), codec.Byte)
	if err != nil {
		log.Fatal(err)
	}

	fmt.Printf("% x\n", raw)

	// Output:
	// 01 ff 2c
}

// ExampleHostTypeOf maps tags to host types and back.
func ExampleHostTypeOf() {
	for _, pt := range []codec.PixelType{codec.Byte, codec.UInt32, codec.Float64} {
		host, _ := codec.HostTypeOf(pt)
		canonical, _ := codec.PixelTypeFor(host)
		fmt.Printf("%s -> %s -> %s\n", pt, host, canonical)
	}

	// Output:
	// GDT_BYTE -> text -> GDT_BYTE
	// GDT_UINT32 -> integer -> GDT_INT16
	// GDT_FLOAT64 -> real -> GDT_FLOAT32
}

// ExampleErrComplexType shows how callers tell a known gap from bad input.
func ExampleErrComplexType() {
	for _, pt := range []codec.PixelType{codec.Unknown, codec.CFloat32} {
		_, err := codec.Decode([]byte{0, 0, 0, 0}, pt)
		switch {
		case errors.Is(err, codec.ErrComplexType):
			fmt.Println(pt, "not implemented")
		case errors.Is(err, codec.ErrUnsupportedType):
			fmt.Println(pt, "invalid")
		}
	}

	// Output:
	// GDT_UNKNOWN invalid
	// GDT_CFLOAT32 not implemented
}
