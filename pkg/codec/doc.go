// Package codec maps raster pixel types to host scalar types and converts raw
// pixel buffers to and from typed samples.
//
// The package is the single source of truth for pixel type semantics in
// bandkit. Everything that reads or writes band data (the in-memory bands in
// package raster, the pebble-backed store in package storage, the HTTP API and
// the CLI) goes through it.
//
// # Pixel Types
//
// PixelType is the closed set of GDAL data type tags:
//
//	Unknown Byte UInt16 Int16 UInt32 Int32 Float32 Float64
//	CInt16 CInt32 CFloat32 CFloat64
//
// Each tag has a fixed Layout (element width, kind) and a HostType:
//
//	Tag       Layout            Host
//	Byte      1 byte unsigned   text
//	UInt16    2 bytes unsigned  integer
//	Int16     2 bytes signed    integer
//	UInt32    4 bytes unsigned  integer
//	Int32     4 bytes signed    integer
//	Float32   4 bytes IEEE-754  real
//	Float64   8 bytes IEEE-754  real
//	CInt16    none              integer
//	CInt32    none              real
//	CFloat32  none              real
//	CFloat64  none              real
//
// The reverse mapping, PixelTypeFor, picks one canonical tag per host type
// (text -> Byte, integer -> Int16, real -> Float32). It is not an inverse of
// HostTypeOf.
//
// # Encoding and Decoding
//
//	c := codec.NewPixelCodec()
//
//	samples, err := c.Decode([]byte{0x01, 0x02}, codec.Int16)
//	if err != nil {
//	    return err
//	}
//	// on a little-endian host samples.Ints == []int64{513}
//
//	raw, err := c.Encode(samples, codec.Int16)
//
// Elements are read and written in the codec's byte order, which defaults to
// the platform's native order. Decode produces len(data)/width samples and
// ignores a trailing partial element.
//
// Float32 samples are widened to float64 without touching NaN payloads, so
// decoding and re-encoding any Float32 buffer reproduces it bit for bit,
// signaling NaNs included.
//
// Byte is decoded unsigned but encoded through a signed 8-bit conversion.
// Both directions truncate to eight bits, so the bytes produced are the same
// either way; -1 encodes to 0xFF and decodes back as 255.
//
// Integers that do not fit the element width wrap: Encode(IntSamples(300),
// Byte) yields 0x2C. A codec built with WithRangeCheck(true) returns
// ErrOutOfRange instead.
//
// # Error Handling
//
// Every failure is a *TypeError naming the operation and tag. Callers test the
// cause with errors.Is:
//   - ErrUnsupportedType: Unknown, or a tag or host type outside the set
//   - ErrComplexType: a complex tag; it also matches ErrUnsupportedType
//   - ErrValueKind: integer samples for a float layout or the reverse
//   - ErrOutOfRange: only from range-checking codecs
//
// Errors are returned before any buffer is allocated; there are no partial
// results.
//
// # Thread Safety
//
// The type table is built at package initialization and never written.
// PixelCodec values are immutable, so all functions in this package are safe
// for concurrent use.
package codec
