package snapshot

import (
	"bytes"
	"fmt"
	"io"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// compress writes payload to w using compression c.
func compress(w io.Writer, c Compression, level zstd.EncoderLevel, payload []byte) error {
	switch c {
	case CompressionNone:
		_, err := w.Write(payload)
		return err

	case CompressionLZ4:
		zw := lz4.NewWriter(w)
		if _, err := zw.Write(payload); err != nil {
			return err
		}
		return zw.Close()

	case CompressionZSTD:
		zw, err := zstd.NewWriter(w, zstd.WithEncoderLevel(level))
		if err != nil {
			return err
		}
		if _, err := zw.Write(payload); err != nil {
			_ = zw.Close()
			return err
		}
		return zw.Close()

	default:
		return fmt.Errorf("%w: %s", ErrUnknownCompression, c)
	}
}

// decompress reads the rest of r and returns the uncompressed payload.
func decompress(r io.Reader, c Compression) ([]byte, error) {
	switch c {
	case CompressionNone:
		return io.ReadAll(r)

	case CompressionLZ4:
		return io.ReadAll(lz4.NewReader(r))

	case CompressionZSTD:
		dec, err := zstd.NewReader(r)
		if err != nil {
			return nil, err
		}
		defer dec.Close()

		var buf bytes.Buffer
		if _, err := dec.WriteTo(&buf); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil

	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownCompression, c)
	}
}
