// Package stream implements the continuous framing mode: the whole input is
// fed through one compressor session and the compressed stream is written
// out as it is produced.
package stream

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/iamNilotpal/framer/internal/core/domain"
	"github.com/iamNilotpal/framer/internal/core/domain/config"
	"github.com/iamNilotpal/framer/internal/core/ports"
	"github.com/iamNilotpal/framer/internal/core/services"
	validation "github.com/iamNilotpal/framer/pkg/errors"
	"go.uber.org/zap"
)

// ErrAlreadyRun is returned when Run is called on a framer that has left the idle state.
var ErrAlreadyRun = errors.New("stream framer has already run")

// Config holds everything a stream Framer needs.
type Config struct {
	// Options must have ChunkSize set.
	Options *domain.FramerOptions

	// Compressor opens the session the input is fed through.
	Compressor ports.CompressionPort

	// Logger receives lifecycle diagnostics. Nil disables logging.
	Logger *zap.Logger
}

// Framer compresses one input stream into one output stream. It runs once:
// IDLE -> STREAMING -> FLUSHING -> FINISHED, or FAILED on the first error.
type Framer struct {
	chunkSize  int
	compressor ports.CompressionPort
	logger     *zap.Logger

	mu    sync.Mutex
	state State
}

func NewFramer(cfg *Config) (*Framer, error) {
	if cfg == nil {
		return nil, validation.NewValidationError("config", nil, fmt.Errorf("config is required"))
	}

	if cfg.Options == nil {
		return nil, validation.NewValidationError("options", nil, fmt.Errorf("options are required"))
	}

	if cfg.Compressor == nil {
		return nil, validation.NewValidationError("compressor", nil, fmt.Errorf("compressor is required"))
	}

	size := cfg.Options.ChunkSize
	if size < config.MinChunkSize || size > config.MaxChunkSize {
		return nil, validation.NewValidationError(
			"chunk_size", size,
			fmt.Errorf("must be between %d and %d", config.MinChunkSize, config.MaxChunkSize),
		)
	}

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Framer{
		state:      StateIdle,
		chunkSize:  int(size),
		compressor: cfg.Compressor,
		logger:     logger.With(zap.String("mode", string(domain.ModeStream))),
	}, nil
}

// State reports where the framer is in its lifecycle.
func (f *Framer) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

func (f *Framer) setState(state State) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.logger.Debug("state change", zap.Stringer("from", f.state), zap.Stringer("to", state))
	f.state = state
}

// Run reads in until it is exhausted, feeding every chunk to one compressor
// session writing to out, then flushes and finishes the stream.
//
// On failure the session is still released, but nothing more reaches out,
// so a failed run never ends in a stream trailer. Result.Records counts the
// chunks fed to the session.
func (f *Framer) Run(ctx context.Context, in io.Reader, out io.Writer) (*domain.Result, error) {
	f.mu.Lock()
	if f.state != StateIdle {
		f.mu.Unlock()
		return nil, ErrAlreadyRun
	}
	f.state = StateStreaming
	f.mu.Unlock()

	result := &domain.Result{}
	sink := &countingWriter{w: out}

	session, err := f.compressor.NewSession(sink)
	if err != nil {
		f.setState(StateFailed)
		return result, services.NewFrameError(domain.ErrorCompression, "open session", 0, err)
	}

	if err := f.stream(ctx, session, sink, in, result); err != nil {
		sink.discard = true
		if closeErr := session.Close(); closeErr != nil {
			f.logger.Debug("release failed session", zap.Error(closeErr))
		}

		result.BytesOut = sink.n
		f.setState(StateFailed)
		return result, err
	}

	result.BytesOut = sink.n
	result.Outcome = domain.OutcomeFinished
	f.setState(StateFinished)

	f.logger.Debug(
		"stream finished",
		zap.Uint64("chunks", result.Records),
		zap.Uint64("bytes_in", result.BytesIn),
		zap.Uint64("bytes_out", result.BytesOut),
	)
	return result, nil
}

func (f *Framer) stream(
	ctx context.Context, session ports.SessionPort, sink *countingWriter, in io.Reader, result *domain.Result,
) error {
	chunk := make([]byte, f.chunkSize)

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		n, readErr := in.Read(chunk)
		if n > 0 {
			if _, err := session.Write(chunk[:n]); err != nil {
				return f.sessionError(sink, "feed chunk", result.Records, err)
			}
			result.Records++
			result.BytesIn += uint64(n)
		}

		if errors.Is(readErr, io.EOF) {
			break
		}
		if readErr != nil {
			return services.NewFrameError(domain.ErrorRead, "read chunk", result.Records, readErr)
		}
	}

	f.setState(StateFlushing)

	if err := session.Flush(); err != nil {
		return f.sessionError(sink, "flush session", result.Records, err)
	}

	if err := session.Close(); err != nil {
		return f.sessionError(sink, "finish session", result.Records, err)
	}
	return nil
}

// sessionError blames the output when the sink saw a write error and the
// compressor otherwise.
func (f *Framer) sessionError(sink *countingWriter, op string, chunk uint64, err error) error {
	if sink.err != nil {
		return services.NewFrameError(domain.ErrorWrite, op, chunk, sink.err)
	}
	return services.NewFrameError(domain.ErrorCompression, op, chunk, err)
}
