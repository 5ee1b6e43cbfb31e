package config

import (
	"fmt"
	"math"
)

const (
	// HeaderSize is the width of the big-endian length prefix on every record.
	HeaderSize = 4

	// CompatMaxRecordSize is the payload limit of the Java deflater peers.
	CompatMaxRecordSize = 1024 * 1024 // 1MB.

	// DefaultMaxRecordSize is the payload limit applied when none is configured.
	DefaultMaxRecordSize = 16 * 1024 * 1024 // 16MB.

	// MaxRecordSizeLimit is the largest length a peer writing Java ints can
	// produce.
	MaxRecordSizeLimit = math.MaxInt32

	// MinChunkSize keeps stream mode from degenerating into per-byte reads.
	MinChunkSize = 512

	// DefaultChunkSize is the stream mode read buffer.
	DefaultChunkSize = 1024 * 1024 // 1MB.

	// CompatChunkSize is the read buffer of the Java stream deflater.
	CompatChunkSize = 10 * 1024 * 1024 // 10MB.

	// MaxChunkSize bounds the stream mode read buffer.
	MaxChunkSize = 64 * 1024 * 1024 // 64MB.
)

// SizeConfig holds the size limits shared by both framing modes.
type SizeConfig struct {
	// MaxRecordSize is the largest accepted record payload.
	MaxRecordSize uint32

	// ChunkSize is the stream mode read buffer size.
	ChunkSize uint32
}

// SizeConfigOption modifies a SizeConfig during construction.
type SizeConfigOption func(*SizeConfig)

// WithMaxRecordSize sets the record payload limit. Zero keeps the default.
func WithMaxRecordSize(size uint32) SizeConfigOption {
	return func(c *SizeConfig) {
		if size != 0 {
			c.MaxRecordSize = size
		}
	}
}

// WithChunkSize sets the stream read buffer size. Zero keeps the default.
func WithChunkSize(size uint32) SizeConfigOption {
	return func(c *SizeConfig) {
		if size != 0 {
			c.ChunkSize = size
		}
	}
}

// NewSizeConfig starts from DefaultSizeConfig and applies opts in order.
func NewSizeConfig(opts ...SizeConfigOption) *SizeConfig {
	cfg := DefaultSizeConfig()

	for _, opt := range opts {
		opt(cfg)
	}

	return cfg
}

// SizeValidationError reports a size limit outside its allowed range.
type SizeValidationError struct {
	Field   string
	Value   uint32
	Details string
}

func (e *SizeValidationError) Error() string {
	return fmt.Sprintf("invalid configuration for %s (%d): %s", e.Field, e.Value, e.Details)
}

// Validate checks every limit against its allowed range.
func (c *SizeConfig) Validate() error {
	if c.MaxRecordSize == 0 {
		return &SizeValidationError{
			Field:   "MaxRecordSize",
			Value:   c.MaxRecordSize,
			Details: "must be greater than 0",
		}
	}

	if c.MaxRecordSize > MaxRecordSizeLimit {
		return &SizeValidationError{
			Field:   "MaxRecordSize",
			Value:   c.MaxRecordSize,
			Details: fmt.Sprintf("exceeds maximum allowed value of %d", MaxRecordSizeLimit),
		}
	}

	if c.ChunkSize < MinChunkSize {
		return &SizeValidationError{
			Field:   "ChunkSize",
			Value:   c.ChunkSize,
			Details: fmt.Sprintf("below minimum allowed value of %d", MinChunkSize),
		}
	}

	if c.ChunkSize > MaxChunkSize {
		return &SizeValidationError{
			Field:   "ChunkSize",
			Value:   c.ChunkSize,
			Details: fmt.Sprintf("exceeds maximum allowed value of %d", MaxChunkSize),
		}
	}

	return nil
}
