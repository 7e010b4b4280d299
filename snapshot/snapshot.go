// Package snapshot exports a table to a portable byte stream and rebuilds
// tables from it.
//
// A snapshot is a fixed Header, the name of the codec that encoded the
// records, and the payload: the table's records as one codec-encoded list,
// optionally compressed. The table's index is not stored; it is rebuilt by
// inserting the decoded records.
//
// Example:
//
//	var buf bytes.Buffer
//	err := snapshot.Write(&buf, books, snapshot.WithCompression(snapshot.CompressionZSTD))
//	...
//	restored, err := snapshot.Read[BookID, BookCategory, Book](&buf)
//
// Read consumes r to its end; a snapshot cannot be followed by other data in
// the same stream.
package snapshot

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"hash/crc32"
	"io"
	"math"
	"slices"

	"github.com/hupe1980/indextable"
	"github.com/hupe1980/indextable/codec"
)

// Write encodes every record of t to w.
func Write[K comparable, C comparable, R indextable.Record[K, C]](w io.Writer, t *indextable.Table[K, C, R], optFns ...Option) error {
	opts := defaultOptions()
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.codec == nil {
		opts.codec = codec.Default
	}

	name := opts.codec.Name()
	if len(name) == 0 || len(name) > math.MaxUint8 {
		return fmt.Errorf("%w: invalid name %q", ErrUnknownCodec, name)
	}
	if !opts.compression.valid() {
		return fmt.Errorf("%w: %s", ErrUnknownCompression, opts.compression)
	}

	records := slices.Collect(t.Values())
	if records == nil {
		records = []R{}
	}

	payload, err := opts.codec.Marshal(records)
	if err != nil {
		return fmt.Errorf("snapshot: encode records with %s: %w", name, err)
	}

	h := Header{
		Magic:        MagicNumber,
		Version:      Version,
		Compression:  opts.compression,
		CodecNameLen: uint8(len(name)),
		RecordCount:  uint64(len(records)),
		Checksum:     crc32.ChecksumIEEE(payload),
	}

	var prefix bytes.Buffer
	prefix.Grow(headerSize + len(name))
	if err := binary.Write(&prefix, binary.LittleEndian, &h); err != nil {
		return fmt.Errorf("snapshot: write header: %w", err)
	}
	prefix.WriteString(name)

	if _, err := w.Write(prefix.Bytes()); err != nil {
		return fmt.Errorf("snapshot: write header: %w", err)
	}
	if err := compress(w, opts.compression, opts.zstdLevel, payload); err != nil {
		return fmt.Errorf("snapshot: write payload: %w", err)
	}
	return nil
}

// ReadHeader reads and validates the header and codec name at the start of r.
func ReadHeader(r io.Reader) (Header, string, error) {
	var h Header
	if err := binary.Read(r, binary.LittleEndian, &h); err != nil {
		return Header{}, "", fmt.Errorf("snapshot: read header: %w", err)
	}
	if h.Magic != MagicNumber {
		return Header{}, "", fmt.Errorf("%w: got 0x%08x", ErrInvalidMagic, h.Magic)
	}
	if h.Version != Version {
		return Header{}, "", fmt.Errorf("%w: got %d", ErrInvalidVersion, h.Version)
	}

	name := make([]byte, h.CodecNameLen)
	if _, err := io.ReadFull(r, name); err != nil {
		return Header{}, "", fmt.Errorf("snapshot: read codec name: %w", err)
	}
	return h, string(name), nil
}

// Read creates a new table from the snapshot in r.
func Read[K comparable, C comparable, R indextable.Record[K, C]](r io.Reader, optFns ...Option) (*indextable.Table[K, C, R], error) {
	opts := defaultOptions()
	for _, fn := range optFns {
		fn(&opts)
	}

	t := indextable.New[K, C, R](opts.tableOptions...)
	if _, err := Into(r, t, optFns...); err != nil {
		return nil, err
	}
	return t, nil
}

// Into inserts the records of the snapshot in r into an existing table and
// returns how many were inserted. A record whose key is already present
// stops the import with the table's *indextable.KeyCollisionError; records
// inserted before it stay.
func Into[K comparable, C comparable, R indextable.Record[K, C]](r io.Reader, t *indextable.Table[K, C, R], optFns ...Option) (int, error) {
	opts := defaultOptions()
	for _, fn := range optFns {
		fn(&opts)
	}

	records, err := decode[R](r, opts)
	if err != nil {
		return 0, err
	}

	n, err := t.InsertAll(slices.Values(records))
	if err != nil {
		return n, fmt.Errorf("snapshot: import record %d: %w", n, err)
	}
	return n, nil
}

func decode[R any](r io.Reader, opts options) ([]R, error) {
	h, name, err := ReadHeader(r)
	if err != nil {
		return nil, err
	}

	c, err := selectCodec(name, opts.codec)
	if err != nil {
		return nil, err
	}

	payload, err := decompress(r, h.Compression)
	if err != nil {
		return nil, fmt.Errorf("snapshot: read payload: %w", err)
	}
	if sum := crc32.ChecksumIEEE(payload); sum != h.Checksum {
		return nil, fmt.Errorf("%w: header 0x%08x, payload 0x%08x", ErrChecksumMismatch, h.Checksum, sum)
	}

	var records []R
	if err := c.Unmarshal(payload, &records); err != nil {
		return nil, fmt.Errorf("snapshot: decode records with %s: %w", name, err)
	}
	if uint64(len(records)) != h.RecordCount {
		return nil, fmt.Errorf("%w: header %d, payload %d", ErrCountMismatch, h.RecordCount, len(records))
	}
	return records, nil
}

func selectCodec(name string, override codec.Codec) (codec.Codec, error) {
	if override != nil {
		if override.Name() != name {
			return nil, fmt.Errorf("%w: snapshot uses %q, got %q", ErrCodecMismatch, name, override.Name())
		}
		return override, nil
	}
	c, ok := codec.ByName(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownCodec, name)
	}
	return c, nil
}
