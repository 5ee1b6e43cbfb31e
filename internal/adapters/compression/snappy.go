package compression

import (
	"fmt"
	"io"
	"sync/atomic"

	"github.com/golang/snappy"
	"github.com/iamNilotpal/framer/internal/core/domain"
	"github.com/iamNilotpal/framer/internal/core/ports"
)

// SnappyCompression implements CompressionPort with Snappy. One-shot calls use
// the block format; sessions and readers use the framed stream format.
type SnappyCompression struct {
	closed atomic.Bool
}

func NewSnappyCompression() *SnappyCompression {
	return &SnappyCompression{}
}

func (s *SnappyCompression) Compress(data []byte) ([]byte, error) {
	if s.closed.Load() {
		return nil, ErrCompressorClosed
	}
	return snappy.Encode(nil, data), nil
}

func (s *SnappyCompression) Decompress(data []byte) ([]byte, error) {
	if s.closed.Load() {
		return nil, ErrCompressorClosed
	}

	decoded, err := snappy.Decode(nil, data)
	if err != nil {
		return nil, fmt.Errorf("decompression failed: %w", err)
	}
	return decoded, nil
}

func (s *SnappyCompression) NewSession(w io.Writer) (ports.SessionPort, error) {
	if s.closed.Load() {
		return nil, ErrCompressorClosed
	}
	return snappy.NewBufferedWriter(w), nil
}

func (s *SnappyCompression) NewReader(r io.Reader) (io.ReadCloser, error) {
	return io.NopCloser(snappy.NewReader(r)), nil
}

func (s *SnappyCompression) Codec() domain.Codec {
	return domain.CodecSnappy
}

func (s *SnappyCompression) Level() int {
	return 0
}

func (s *SnappyCompression) Close() error {
	if !s.closed.CompareAndSwap(false, true) {
		return ErrCompressorClosed
	}
	return nil
}
