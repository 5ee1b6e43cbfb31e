// Package compression provides the compressors behind ports.CompressionPort.
// The DEFLATE family (zlib, raw deflate, gzip) is backed by klauspost/compress,
// as is zstd; snappy is backed by golang/snappy.
package compression

import (
	"errors"
	"fmt"

	"github.com/iamNilotpal/framer/internal/core/domain"
	"github.com/iamNilotpal/framer/internal/core/ports"
	"github.com/klauspost/compress/flate"
)

// Compression level bounds for the DEFLATE family.
const (
	HuffmanOnlyLevel     = flate.HuffmanOnly        // -2, entropy coding only
	DefaultDeflateLevel  = flate.DefaultCompression // -1, what java.util.zip.Deflater uses
	NoCompressionLevel   = flate.NoCompression      // 0, stored blocks
	BestSpeedLevel       = flate.BestSpeed          // 1
	BestCompressionLevel = flate.BestCompression    // 9
)

// ErrCompressorClosed is returned by every operation on a closed compressor.
var ErrCompressorClosed = errors.New("compressor is closed")

// Returns CompressionOptions matching the Java deflater peers: zlib output at
// the library default level.
func DefaultOptions() *domain.CompressionOptions {
	return &domain.CompressionOptions{
		Codec: domain.CodecZlib,
		Level: DefaultDeflateLevel,
	}
}

// DefaultLevel returns the level a codec uses when none is configured.
// Zstd and snappy take 0, which zstd maps to ZstdDefaultLevel.
func DefaultLevel(codec domain.Codec) int {
	switch codec {
	case domain.CodecZstd, domain.CodecSnappy:
		return 0
	default:
		return DefaultDeflateLevel
	}
}

// Checks that the codec is known and the level is within the range that codec
// accepts.
func Validate(input *domain.CompressionOptions) error {
	switch input.Codec {
	case domain.CodecZlib, domain.CodecDeflate, domain.CodecGzip:
		if input.Level < HuffmanOnlyLevel || input.Level > BestCompressionLevel {
			return fmt.Errorf(
				"%s compression level must be between %d and %d, got %d",
				input.Codec, HuffmanOnlyLevel, BestCompressionLevel, input.Level,
			)
		}
	case domain.CodecZstd:
		if input.Level < 0 || input.Level > ZstdBestLevel {
			return fmt.Errorf("zstd compression level must be between 0 and %d, got %d", ZstdBestLevel, input.Level)
		}
	case domain.CodecSnappy:
		if input.Level != 0 {
			return fmt.Errorf("snappy has no compression levels, got %d", input.Level)
		}
	default:
		return fmt.Errorf("unsupported codec: %q", input.Codec)
	}
	return nil
}

// New builds the compressor described by opts. A nil opts uses DefaultOptions.
func New(opts *domain.CompressionOptions) (ports.CompressionPort, error) {
	if opts == nil {
		opts = DefaultOptions()
	}

	if err := Validate(opts); err != nil {
		return nil, err
	}

	switch opts.Codec {
	case domain.CodecZlib:
		return NewZlibCompression(opts.Level)
	case domain.CodecDeflate:
		return NewFlateCompression(opts.Level)
	case domain.CodecGzip:
		return NewGzipCompression(opts.Level)
	case domain.CodecZstd:
		return NewZstdCompression(opts.Level)
	default:
		return NewSnappyCompression(), nil
	}
}
