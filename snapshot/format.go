package snapshot

import (
	"errors"
	"fmt"
)

const (
	// MagicNumber identifies snapshot streams (bytes on the wire: "IXT0").
	MagicNumber uint32 = 0x30545849
	// Version is the current snapshot format version.
	Version uint32 = 1

	headerSize = 24
)

var (
	ErrInvalidMagic       = errors.New("invalid magic number")
	ErrInvalidVersion     = errors.New("unsupported version")
	ErrUnknownCodec       = errors.New("unknown codec")
	ErrCodecMismatch      = errors.New("codec mismatch")
	ErrUnknownCompression = errors.New("unknown compression")
	ErrChecksumMismatch   = errors.New("checksum mismatch")
	ErrCountMismatch      = errors.New("record count mismatch")
)

// Compression selects how the payload is compressed.
type Compression uint8

const (
	// CompressionNone stores the payload as is.
	CompressionNone Compression = 0
	// CompressionLZ4 uses the LZ4 frame format (fast).
	CompressionLZ4 Compression = 1
	// CompressionZSTD uses a zstd stream (better ratio).
	CompressionZSTD Compression = 2
)

func (c Compression) valid() bool { return c <= CompressionZSTD }

func (c Compression) String() string {
	switch c {
	case CompressionNone:
		return "none"
	case CompressionLZ4:
		return "lz4"
	case CompressionZSTD:
		return "zstd"
	default:
		return fmt.Sprintf("compression(%d)", uint8(c))
	}
}

// Header is the 24-byte little-endian header at the start of every snapshot.
// It is followed by CodecNameLen bytes of codec name and the payload.
type Header struct {
	Magic        uint32 // MagicNumber
	Version      uint32 // Format version
	Compression  Compression
	CodecNameLen uint8
	Padding      [2]byte
	RecordCount  uint64 // Number of records in the payload
	Checksum     uint32 // CRC32 (IEEE) of the uncompressed payload
}
