package compression

import (
	"fmt"
	"io"
	"sync"

	"github.com/iamNilotpal/framer/internal/core/domain"
	"github.com/iamNilotpal/framer/internal/core/ports"
	"github.com/klauspost/compress/zstd"
)

// Zstd level constants map onto klauspost's encoder speeds.
// Higher levels provide better compression at the cost of increased CPU usage and time.
const (
	ZstdFastestLevel = int(zstd.SpeedFastest)         // Optimized for speed with minimal compression
	ZstdDefaultLevel = int(zstd.SpeedDefault)         // Balanced between speed and compression ratio
	ZstdBestLevel    = int(zstd.SpeedBestCompression) // Maximum compression ratio, higher CPU usage
)

// ZstdCompression implements CompressionPort using the zstd compression algorithm.
// It provides thread-safe compression and decompression operations with configurable
// compression levels. One encoder and one decoder are shared by the one-shot
// operations (Compress, Decompress); every session gets a dedicated single
// threaded encoder bound to its own output, so sessions never contend with
// records compressed on the shared encoder.
type ZstdCompression struct {
	level   int           // Current compression level (1-4)
	mu      sync.RWMutex  // Protects concurrent access to compression state
	decoder *zstd.Decoder // Shared decoder instance for decompression
	encoder *zstd.Encoder // Shared encoder instance for compression
	closed  bool
}

// NewZstdCompression creates a new zstd compression instance with the specified level.
// It initializes both the shared encoder and decoder. The compression level must be
// between ZstdFastestLevel (1) and ZstdBestLevel (4); level 0 selects ZstdDefaultLevel.
//
// Returns an error if:
// - The compression level is invalid
// - The encoder or decoder initialization fails
func NewZstdCompression(level int) (*ZstdCompression, error) {
	if err := Validate(&domain.CompressionOptions{Codec: domain.CodecZstd, Level: level}); err != nil {
		return nil, err
	}

	if level == 0 {
		level = ZstdDefaultLevel
	}

	encoder, err := zstd.NewWriter(nil, zstdEncoderOptions(level)...)
	if err != nil {
		return nil, fmt.Errorf("failed to create encoder: %w", err)
	}

	decoder, err := zstd.NewReader(nil)
	if err != nil {
		encoder.Close()
		return nil, fmt.Errorf("failed to create decoder: %w", err)
	}

	return &ZstdCompression{encoder: encoder, decoder: decoder, level: level}, nil
}

// zstdEncoderOptions returns the encoder settings shared by the one-shot
// encoder and session encoders, so both emit the same frames for the same input.
func zstdEncoderOptions(level int) []zstd.EOption {
	return []zstd.EOption{
		zstd.WithEncoderLevel(zstd.EncoderLevel(level)),
		zstd.WithEncoderConcurrency(1),
		// Empty input still yields a decodable frame.
		zstd.WithZeroFrames(true),
	}
}

// Compress encodes data as a single, complete zstd frame.
// The result can be decoded on its own, which records mode relies on: every
// record is an independent frame. Unlike a generic compressor it never returns
// the input unchanged for small or incompressible data, since the peer always
// decompresses what it receives.
//
// The operation is thread-safe and can be called concurrently.
func (z *ZstdCompression) Compress(data []byte) ([]byte, error) {
	z.mu.RLock()
	defer z.mu.RUnlock()

	if z.closed {
		return nil, ErrCompressorClosed
	}
	return z.encoder.EncodeAll(data, nil), nil
}

// Decompress restores the original data from its compressed form.
//
// Returns an error if:
// - The input data is not valid zstd compressed data
// - Decompression fails for any other reason
func (z *ZstdCompression) Decompress(data []byte) ([]byte, error) {
	z.mu.RLock()
	defer z.mu.RUnlock()

	if z.closed {
		return nil, ErrCompressorClosed
	}

	decompressed, err := z.decoder.DecodeAll(data, nil)
	if err != nil {
		return nil, fmt.Errorf("decompression failed: %w", err)
	}

	return decompressed, nil
}

// NewSession returns a streaming encoder writing frames to w.
// Write feeds raw bytes, Flush ends the current block so everything written so
// far can be decoded, and Close writes the final frame. Closing the session
// does not close w.
func (z *ZstdCompression) NewSession(w io.Writer) (ports.SessionPort, error) {
	z.mu.RLock()
	defer z.mu.RUnlock()

	if z.closed {
		return nil, ErrCompressorClosed
	}

	encoder, err := zstd.NewWriter(w, zstdEncoderOptions(z.level)...)
	if err != nil {
		return nil, fmt.Errorf("failed to create zstd session: %w", err)
	}
	return encoder, nil
}

// NewReader returns a streaming decoder over r. Closing the returned reader
// releases the decoder but not r.
func (z *ZstdCompression) NewReader(r io.Reader) (io.ReadCloser, error) {
	decoder, err := zstd.NewReader(r, zstd.WithDecoderConcurrency(1))
	if err != nil {
		return nil, fmt.Errorf("failed to create zstd reader: %w", err)
	}
	return decoder.IOReadCloser(), nil
}

func (z *ZstdCompression) Codec() domain.Codec {
	return domain.CodecZstd
}

// Level returns the current compression level.
func (z *ZstdCompression) Level() int {
	z.mu.RLock()
	defer z.mu.RUnlock()
	return z.level
}

// Close releases the shared encoder and decoder.
// After closing, the instance cannot be used for compression or decompression.
func (z *ZstdCompression) Close() error {
	z.mu.Lock()
	defer z.mu.Unlock()

	if z.closed {
		return ErrCompressorClosed
	}
	z.closed = true

	if err := z.encoder.Close(); err != nil {
		return fmt.Errorf("error closing encoder : %w", err)
	}

	z.decoder.Close()
	return nil
}
