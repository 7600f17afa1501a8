package storage

import (
	"encoding/binary"
	"fmt"
	"hash/crc32"

	"github.com/klauspost/compress/zstd"
)

const (
	rowHeaderSize = 9
	rowFlagZstd   = 1 << 0
)

// rowCodec frames one row of raw pixel bytes for storage.
// Format: [CRC32(4)][RawSize(4)][Flags(1)][Payload]
// The CRC covers RawSize, Flags and Payload.
type rowCodec struct {
	enc *zstd.Encoder
	dec *zstd.Decoder
}

func newRowCodec(compression string) (*rowCodec, error) {
	dec, err := zstd.NewReader(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create zstd decoder: %w", err)
	}
	c := &rowCodec{dec: dec}

	switch compression {
	case "", "zstd":
		enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
		if err != nil {
			dec.Close()
			return nil, fmt.Errorf("failed to create zstd encoder: %w", err)
		}
		c.enc = enc
	case "none":
	default:
		dec.Close()
		return nil, fmt.Errorf("unknown compression %q", compression)
	}
	return c, nil
}

// Encode frames a raw row, compressing it when that makes it smaller.
func (c *rowCodec) Encode(raw []byte) []byte {
	payload := raw
	var flags byte
	if c.enc != nil {
		if packed := c.enc.EncodeAll(raw, nil); len(packed) < len(raw) {
			payload = packed
			flags |= rowFlagZstd
		}
	}

	buf := make([]byte, rowHeaderSize+len(payload))
	binary.LittleEndian.PutUint32(buf[4:], uint32(len(raw)))
	buf[8] = flags
	copy(buf[rowHeaderSize:], payload)
	binary.LittleEndian.PutUint32(buf[0:], crc32.ChecksumIEEE(buf[4:]))
	return buf
}

// Decode validates a framed row and returns its raw bytes.
func (c *rowCodec) Decode(frame []byte) ([]byte, error) {
	if len(frame) < rowHeaderSize {
		return nil, fmt.Errorf("%w: frame too short (%d bytes)", ErrCorruptRow, len(frame))
	}
	want := binary.LittleEndian.Uint32(frame[0:])
	if got := crc32.ChecksumIEEE(frame[4:]); got != want {
		return nil, fmt.Errorf("%w: CRC32 mismatch: %d != %d", ErrCorruptRow, got, want)
	}
	rawSize := int(binary.LittleEndian.Uint32(frame[4:]))
	payload := frame[rowHeaderSize:]

	if frame[8]&rowFlagZstd == 0 {
		if len(payload) != rawSize {
			return nil, fmt.Errorf("%w: size mismatch: %d != %d", ErrCorruptRow, len(payload), rawSize)
		}
		return append([]byte(nil), payload...), nil
	}

	raw, err := c.dec.DecodeAll(payload, make([]byte, 0, rawSize))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptRow, err)
	}
	if len(raw) != rawSize {
		return nil, fmt.Errorf("%w: size mismatch: %d != %d", ErrCorruptRow, len(raw), rawSize)
	}
	return raw, nil
}

func (c *rowCodec) Close() {
	if c.enc != nil {
		_ = c.enc.Close()
	}
	c.dec.Close()
}
