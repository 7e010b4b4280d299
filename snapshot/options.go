package snapshot

import (
	"github.com/hupe1980/indextable"
	"github.com/hupe1980/indextable/codec"
	"github.com/klauspost/compress/zstd"
)

type options struct {
	codec        codec.Codec
	compression  Compression
	zstdLevel    zstd.EncoderLevel
	tableOptions []indextable.Option
}

func defaultOptions() options {
	return options{
		compression: CompressionNone,
		zstdLevel:   zstd.SpeedDefault,
	}
}

// Option configures snapshot writing and reading.
type Option func(*options)

// WithCodec sets the codec used to encode records.
//
// On Write, nil selects codec.Default. On Read, the codec is taken from the
// header; if WithCodec is given its name must match the stored one.
func WithCodec(c codec.Codec) Option {
	return func(o *options) {
		o.codec = c
	}
}

// WithCompression sets the payload compression used by Write.
// Read always uses the compression recorded in the header.
func WithCompression(c Compression) Option {
	return func(o *options) {
		o.compression = c
	}
}

// WithZSTDLevel sets the zstd encoder level (e.g. 1-22 mapped via
// zstd.EncoderLevelFromZstd). Only used with CompressionZSTD.
func WithZSTDLevel(level int) Option {
	return func(o *options) {
		o.zstdLevel = zstd.EncoderLevelFromZstd(level)
	}
}

// WithTableOptions passes options to the table created by Read.
func WithTableOptions(optFns ...indextable.Option) Option {
	return func(o *options) {
		o.tableOptions = append(o.tableOptions, optFns...)
	}
}
