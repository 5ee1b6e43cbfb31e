package ports

import (
	"io"

	"github.com/iamNilotpal/framer/internal/core/domain"
)

// Defines the interface for compression operations.
// This allows us to swap compression algorithms without changing the framers.
type CompressionPort interface {
	// Compress returns the complete compressed form of data, finished so it
	// can be decompressed on its own. The output buffer grows as needed and
	// is owned by the caller.
	Compress(data []byte) ([]byte, error)

	// Decompress restores original data.
	// Returns decompressed data and any error that occurred.
	Decompress(data []byte) ([]byte, error)

	// NewSession starts an incremental compression session whose output is
	// written to w.
	NewSession(w io.Writer) (SessionPort, error)

	// NewReader returns a reader decompressing a stream produced by a session.
	NewReader(r io.Reader) (io.ReadCloser, error)

	// Codec returns the format produced by this compressor.
	Codec() domain.Codec

	// Level returns current compression level.
	Level() int

	// Close cleans up compression resources.
	Close() error
}

// SessionPort is one long lived compressor bound to an output sink.
// Write feeds raw bytes, Flush forces out everything compressed so far and
// Close finishes the stream by writing its trailer.
type SessionPort interface {
	io.WriteCloser
	Flush() error
}
