// Package records implements the length-prefixed framing mode: every input
// record is compressed on its own and written back as one length-prefixed
// compressed record.
package records

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/iamNilotpal/framer/internal/core/domain"
	"github.com/iamNilotpal/framer/internal/core/domain/config"
	"github.com/iamNilotpal/framer/internal/core/ports"
	"github.com/iamNilotpal/framer/internal/core/services"
	validation "github.com/iamNilotpal/framer/pkg/errors"
	"github.com/iamNilotpal/framer/pkg/pool"
	"go.uber.org/zap"
)

// Payload buffers start at this capacity and are pooled up to twice of it.
const payloadBufferSize = 64 * 1024

// Config holds everything a records Framer needs.
type Config struct {
	// Options must have MaxRecordSize and ShortReadPolicy set.
	Options *domain.FramerOptions

	// Compressor compresses each record independently.
	Compressor ports.CompressionPort

	// Checksum fingerprints payloads. Required when verification is enabled.
	Checksum ports.ChecksumPort

	// Logger receives per record diagnostics. Nil disables logging.
	Logger *zap.Logger
}

// Framer reads (length, payload) records, compresses each payload and writes
// (compressed-length, compressed-payload) records in the same order.
type Framer struct {
	options    *domain.FramerOptions
	compressor ports.CompressionPort
	checksum   ports.ChecksumPort
	verify     bool
	logger     *zap.Logger
	bufferPool *pool.BufferPool
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

	if cfg.Options.MaxRecordSize == 0 || cfg.Options.MaxRecordSize > config.MaxRecordSizeLimit {
		return nil, validation.NewValidationError(
			"max_record_size", cfg.Options.MaxRecordSize,
			fmt.Errorf("must be between 1 and %d", config.MaxRecordSizeLimit),
		)
	}

	switch cfg.Options.ShortReadPolicy {
	case domain.ShortReadStrict, domain.ShortReadSingle:
	default:
		return nil, validation.NewValidationError(
			"short_read", cfg.Options.ShortReadPolicy, fmt.Errorf("must be %q or %q", domain.ShortReadStrict, domain.ShortReadSingle),
		)
	}

	verify := cfg.Options.VerifyOptions != nil && cfg.Options.VerifyOptions.Enable
	if verify && cfg.Checksum == nil {
		return nil, validation.NewValidationError("checksum", nil, fmt.Errorf("checksum is required when verification is enabled"))
	}

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Framer{
		verify:     verify,
		options:    cfg.Options,
		checksum:   cfg.Checksum,
		compressor: cfg.Compressor,
		logger:     logger.With(zap.String("mode", string(domain.ModeRecords))),
		bufferPool: pool.NewBufferPool(payloadBufferSize),
	}, nil
}

// Run processes records from in until a zero length record or the end of
// input, writing compressed records to out. Output is flushed after every
// record, so a peer that waits for each response never stalls.
//
// Running out of input before or inside a length prefix is a normal end
// (OutcomeEndOfInput). Everything else that stops the run early is returned
// as a *services.FrameError, or the context error. The Result is never nil
// and counts the records completed before any failure.
func (f *Framer) Run(ctx context.Context, in io.Reader, out io.Writer) (*domain.Result, error) {
	result := &domain.Result{}
	writer := bufio.NewWriter(out)

	for index := uint64(0); ; index++ {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		length, err := ReadHeader(in)
		if err != nil {
			if errors.Is(err, io.EOF) {
				result.Outcome = domain.OutcomeEndOfInput
				f.logger.Debug("input exhausted", zap.Uint64("records", result.Records))
				return result, nil
			}
			return result, services.NewFrameError(domain.ErrorRead, "read length", index, err)
		}

		record := domain.Record{Index: index, Length: length}
		if record.IsSentinel() {
			result.Outcome = domain.OutcomeSentinel
			f.logger.Debug("sentinel record", zap.Uint64("records", result.Records))
			return result, nil
		}

		if err := f.process(writer, in, &record, result); err != nil {
			return result, err
		}
	}
}

func (f *Framer) process(w *bufio.Writer, in io.Reader, record *domain.Record, result *domain.Result) error {
	if record.Length > f.options.MaxRecordSize {
		return services.NewFrameError(
			domain.ErrorProtocol, "read length", record.Index,
			fmt.Errorf("%w: %d > %d", services.ErrRecordTooLarge, record.Length, f.options.MaxRecordSize),
		)
	}

	buf, payload := f.bufferPool.GetBytes(int(record.Length))
	defer f.bufferPool.Put(buf)

	if err := f.readPayload(in, payload, record.Index); err != nil {
		return err
	}
	record.Payload = payload
	result.BytesIn += uint64(record.Length)

	compressed, err := f.compressor.Compress(record.Payload)
	if err != nil {
		return services.NewFrameError(domain.ErrorCompression, "compress record", record.Index, err)
	}

	if f.verify {
		if err := f.verifyRecord(record, compressed); err != nil {
			return err
		}
	}

	if err := WriteRecord(w, compressed); err != nil {
		return services.NewFrameError(domain.ErrorWrite, "write record", record.Index, err)
	}

	if err := w.Flush(); err != nil {
		return services.NewFrameError(domain.ErrorWrite, "flush record", record.Index, err)
	}

	result.Records++
	result.BytesOut += uint64(config.HeaderSize + len(compressed))

	f.logger.Debug(
		"record compressed",
		zap.Uint64("record", record.Index),
		zap.Uint32("length", record.Length),
		zap.Int("compressed_length", len(compressed)),
	)
	return nil
}

// readPayload fills payload according to the short read policy.
func (f *Framer) readPayload(in io.Reader, payload []byte, index uint64) error {
	if f.options.ShortReadPolicy == domain.ShortReadSingle {
		// One read; whatever it leaves untouched stays zero.
		n, err := in.Read(payload)
		if err != nil && !errors.Is(err, io.EOF) {
			return services.NewFrameError(domain.ErrorRead, "read payload", index, err)
		}
		if n < len(payload) {
			f.logger.Warn("short payload read", zap.Uint64("record", index), zap.Int("read", n), zap.Int("length", len(payload)))
		}
		return nil
	}

	n, err := io.ReadFull(in, payload)
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return services.NewFrameError(
			domain.ErrorProtocol, "read payload", index,
			fmt.Errorf("%w: got %d of %d bytes", services.ErrTruncatedRecord, n, len(payload)),
		)
	}
	if err != nil {
		return services.NewFrameError(domain.ErrorRead, "read payload", index, err)
	}
	return nil
}

// verifyRecord checks that compressed decompresses back to the record payload.
func (f *Framer) verifyRecord(record *domain.Record, compressed []byte) error {
	decompressed, err := f.compressor.Decompress(compressed)
	if err != nil {
		return services.NewFrameError(domain.ErrorVerification, "verify record", record.Index, err)
	}

	expected := f.checksum.Calculate(record.Payload)
	if !f.checksum.Verify(decompressed, expected) {
		return services.NewFrameError(
			domain.ErrorVerification, "verify record", record.Index,
			fmt.Errorf("%w: %s %x", services.ErrChecksumMismatch, f.checksum.Name(), expected),
		)
	}
	return nil
}
