// Package domain defines the core types and configurations for the framers.
package domain

// Mode selects which framing protocol a run speaks.
type Mode string

const (
	// ModeRecords reads length-prefixed records and emits one
	// length-prefixed compressed record for each.
	ModeRecords Mode = "records"

	// ModeStream compresses the whole input as one continuous stream.
	ModeStream Mode = "stream"
)

// ShortReadPolicy decides what happens when a record payload arrives in
// fewer bytes than its declared length.
type ShortReadPolicy string

const (
	// ShortReadStrict reads until the declared length is satisfied and fails
	// with a truncated record error when input runs out first.
	ShortReadStrict ShortReadPolicy = "strict"

	// ShortReadSingle performs exactly one read into a zeroed buffer of the
	// declared length and uses the whole buffer as the payload. It reproduces
	// the behavior of the Java deflater peer byte for byte.
	ShortReadSingle ShortReadPolicy = "single"
)

// FramerOptions configures a framing run.
type FramerOptions struct {
	// Mode selects the framing protocol.
	//
	// Default: ModeRecords
	Mode Mode

	// MaxRecordSize is the largest payload length accepted in records mode.
	// Larger lengths fail before any buffer is allocated.
	//
	// Default: 16MB
	MaxRecordSize uint32

	// ShortReadPolicy controls payload reads in records mode.
	//
	// Default: ShortReadStrict
	ShortReadPolicy ShortReadPolicy

	// ChunkSize bounds each read in stream mode. It only tunes throughput and
	// memory; the output does not depend on it.
	//
	// Default: 1MB
	ChunkSize uint32

	// CompressionOptions selects the compressor.
	CompressionOptions *CompressionOptions

	// VerifyOptions enables the round-trip check in records mode.
	VerifyOptions *VerifyOptions
}
