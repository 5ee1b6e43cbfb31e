// Package framer is the single entry point for both framing modes. It owns
// the compressor and checksum built from FramerOptions and hands them to
// the records or stream framer for each run.
package framer

import (
	"context"
	"errors"
	"io"
	"sync"

	"github.com/iamNilotpal/framer/internal/adapters/checksum"
	"github.com/iamNilotpal/framer/internal/adapters/compression"
	"github.com/iamNilotpal/framer/internal/core/domain"
	"github.com/iamNilotpal/framer/internal/core/ports"
	"github.com/iamNilotpal/framer/internal/core/services/records"
	"github.com/iamNilotpal/framer/internal/core/services/stream"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// ErrFramerClosed is returned by Run after Close.
var ErrFramerClosed = errors.New("framer is closed")

// Framer compresses standard streams in the configured mode.
type Framer struct {
	options    *domain.FramerOptions // Validated options with defaults applied
	compressor ports.CompressionPort // Shared by every run
	checksum   ports.ChecksumPort    // Set only when verification is enabled
	logger     *zap.Logger

	mu     sync.Mutex
	closed bool
}

// New applies defaults to opts, validates them and builds the compressor.
// A nil opts runs records mode with zlib at the default level. A nil logger
// disables logging.
func New(opts *domain.FramerOptions, logger *zap.Logger) (*Framer, error) {
	if opts == nil {
		opts = &domain.FramerOptions{}
	}
	opts = prepareDefaults(opts)

	if err := Validate(opts); err != nil {
		return nil, err
	}

	if logger == nil {
		logger = zap.NewNop()
	}

	compressor, err := compression.New(opts.CompressionOptions)
	if err != nil {
		return nil, err
	}

	var sum ports.ChecksumPort
	if opts.VerifyOptions.Enable {
		if sum, err = checksum.NewChecksummer(opts.VerifyOptions.Algorithm); err != nil {
			return nil, multierr.Append(err, compressor.Close())
		}
	}

	logger.Debug(
		"framer ready",
		zap.String("mode", string(opts.Mode)),
		zap.Stringer("codec", opts.CompressionOptions.Codec),
		zap.Int("level", opts.CompressionOptions.Level),
	)

	return &Framer{
		options:    opts,
		compressor: compressor,
		checksum:   sum,
		logger:     logger,
	}, nil
}

// Options returns the effective options.
func (f *Framer) Options() *domain.FramerOptions {
	return f.options
}

// Run frames in to out in the configured mode.
func (f *Framer) Run(ctx context.Context, in io.Reader, out io.Writer) (*domain.Result, error) {
	f.mu.Lock()
	closed := f.closed
	f.mu.Unlock()

	if closed {
		return nil, ErrFramerClosed
	}

	if f.options.Mode == domain.ModeStream {
		sf, err := stream.NewFramer(&stream.Config{
			Options:    f.options,
			Compressor: f.compressor,
			Logger:     f.logger,
		})
		if err != nil {
			return nil, err
		}
		return sf.Run(ctx, in, out)
	}

	rf, err := records.NewFramer(&records.Config{
		Options:    f.options,
		Compressor: f.compressor,
		Checksum:   f.checksum,
		Logger:     f.logger,
	})
	if err != nil {
		return nil, err
	}
	return rf.Run(ctx, in, out)
}

// NewClient returns a records client that logs through this framer's logger.
func (f *Framer) NewClient(w io.Writer, r io.Reader) *records.Client {
	return records.NewClient(w, r, records.WithClientLogger(f.logger))
}

// Decompress restores a record compressed with this framer's codec.
func (f *Framer) Decompress(data []byte) ([]byte, error) {
	return f.compressor.Decompress(data)
}

// Close releases the compressor. Calling Close more than once is a no-op.
func (f *Framer) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.closed {
		return nil
	}
	f.closed = true

	return f.compressor.Close()
}
