//go:build bench
// +build bench

package codec

import (
	"testing"
)

func BenchmarkPixelCodec_Decode(b *testing.B) {
	c := NewPixelCodec()

	benchmarks := []struct {
		name string
		pt   PixelType
		size int
	}{
		{name: "byte_tile", pt: Byte, size: 256 * 256},
		{name: "int16_tile", pt: Int16, size: 256 * 256 * 2},
		{name: "float32_tile", pt: Float32, size: 256 * 256 * 4},
		{name: "float64_row", pt: Float64, size: 4096 * 8},
	}

	for _, bm := range benchmarks {
		data := make([]byte, bm.size)
		for i := range data {
			data[i] = byte(i)
		}
		b.Run(bm.name, func(b *testing.B) {
			b.SetBytes(int64(bm.size))
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				_, err := c.Decode(data, bm.pt)
				if err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

func BenchmarkPixelCodec_Encode(b *testing.B) {
	c := NewPixelCodec()

	ints := make([]int64, 256*256)
	reals := make([]float64, 256*256)
	for i := range ints {
		ints[i] = int64(i % 32768)
		reals[i] = float64(i) * 0.25
	}

	benchmarks := []struct {
		name   string
		pt     PixelType
		values Samples
	}{
		{name: "byte_tile", pt: Byte, values: IntSamples(ints...)},
		{name: "int16_tile", pt: Int16, values: IntSamples(ints...)},
		{name: "float32_tile", pt: Float32, values: RealSamples(reals...)},
		{name: "float64_tile", pt: Float64, values: RealSamples(reals...)},
	}

	for _, bm := range benchmarks {
		b.Run(bm.name, func(b *testing.B) {
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				_, err := c.Encode(bm.values, bm.pt)
				if err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

func BenchmarkPixelCodec_RangeCheckedEncode(b *testing.B) {
	c := NewPixelCodec(WithRangeCheck(true))
	ints := make([]int64, 256*256)
	for i := range ints {
		ints[i] = int64(i % 256)
	}
	values := IntSamples(ints...)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := c.Encode(values, Byte); err != nil {
			b.Fatal(err)
		}
	}
}
