package records

import (
	"bytes"
	"context"
	"errors"
	"io"
	"math/rand"
	"testing"
	"testing/iotest"

	"github.com/iamNilotpal/framer/internal/adapters/checksum"
	"github.com/iamNilotpal/framer/internal/adapters/compression"
	"github.com/iamNilotpal/framer/internal/core/domain"
	"github.com/iamNilotpal/framer/internal/core/ports"
	"github.com/iamNilotpal/framer/internal/core/services"
	validation "github.com/iamNilotpal/framer/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errBoom = errors.New("boom")

func testOptions() *domain.FramerOptions {
	return &domain.FramerOptions{
		Mode:               domain.ModeRecords,
		MaxRecordSize:      1 << 20,
		ShortReadPolicy:    domain.ShortReadStrict,
		CompressionOptions: compression.DefaultOptions(),
		VerifyOptions:      checksum.DefaultOptions(),
	}
}

func newTestFramer(t *testing.T, mutate func(*Config)) (*Framer, ports.CompressionPort) {
	t.Helper()

	compressor, err := compression.NewZlibCompression(compression.DefaultDeflateLevel)
	require.NoError(t, err)
	t.Cleanup(func() { compressor.Close() })

	cfg := &Config{Options: testOptions(), Compressor: compressor}
	if mutate != nil {
		mutate(cfg)
	}

	framer, err := NewFramer(cfg)
	require.NoError(t, err)
	return framer, cfg.Compressor
}

func encodeRecords(t *testing.T, payloads ...[]byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	for _, payload := range payloads {
		require.NoError(t, WriteRecord(&buf, payload))
	}
	return buf.Bytes()
}

func decodeRecords(t *testing.T, data []byte) [][]byte {
	t.Helper()
	r := bytes.NewReader(data)
	var records [][]byte
	for {
		length, err := ReadHeader(r)
		if errors.Is(err, io.EOF) {
			return records
		}
		require.NoError(t, err)

		payload := make([]byte, length)
		_, err = io.ReadFull(r, payload)
		require.NoError(t, err)
		records = append(records, payload)
	}
}

func decompressAll(t *testing.T, c ports.CompressionPort, records [][]byte) []string {
	t.Helper()
	var out []string
	for _, record := range records {
		payload, err := c.Decompress(record)
		require.NoError(t, err)
		out = append(out, string(payload))
	}
	return out
}

func TestRunCompressesABC(t *testing.T) {
	framer, compressor := newTestFramer(t, nil)

	input := []byte{0, 0, 0, 3, 'A', 'B', 'C', 0, 0, 0, 0}
	var out bytes.Buffer

	result, err := framer.Run(context.Background(), bytes.NewReader(input), &out)
	require.NoError(t, err)

	records := decodeRecords(t, out.Bytes())
	require.Len(t, records, 1)
	assert.Equal(t, []string{"ABC"}, decompressAll(t, compressor, records))

	assert.Equal(t, domain.OutcomeSentinel, result.Outcome)
	assert.EqualValues(t, 1, result.Records)
	assert.EqualValues(t, 3, result.BytesIn)
	assert.EqualValues(t, out.Len(), result.BytesOut)
}

func TestRunSentinelStopsReading(t *testing.T) {
	framer, compressor := newTestFramer(t, nil)

	input := encodeRecords(t, []byte("one"), nil, []byte("two"))
	in := bytes.NewReader(input)
	var out bytes.Buffer

	result, err := framer.Run(context.Background(), in, &out)
	require.NoError(t, err)

	assert.Equal(t, domain.OutcomeSentinel, result.Outcome)
	assert.Equal(t, []string{"one"}, decompressAll(t, compressor, decodeRecords(t, out.Bytes())))
	// The record after the sentinel is left unread.
	assert.Equal(t, 4+len("two"), in.Len())
}

func TestRunEmptyInput(t *testing.T) {
	tests := []struct {
		name    string
		input   []byte
		outcome domain.Outcome
	}{
		{"no bytes", nil, domain.OutcomeEndOfInput},
		{"sentinel only", []byte{0, 0, 0, 0}, domain.OutcomeSentinel},
		{"truncated length", []byte{0, 0, 1}, domain.OutcomeEndOfInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			framer, _ := newTestFramer(t, nil)
			var out bytes.Buffer

			result, err := framer.Run(context.Background(), bytes.NewReader(tt.input), &out)
			require.NoError(t, err)

			assert.Equal(t, tt.outcome, result.Outcome)
			assert.Zero(t, result.Records)
			assert.Zero(t, out.Len())
		})
	}
}

func TestRunRoundTrip(t *testing.T) {
	framer, compressor := newTestFramer(t, nil)

	rng := rand.New(rand.NewSource(7))
	var payloads [][]byte
	var want []string
	for i := 0; i < 50; i++ {
		payload := make([]byte, 1+rng.Intn(5000))
		if i%2 == 0 {
			rng.Read(payload)
		} else {
			for j := range payload {
				payload[j] = byte('a' + j%3)
			}
		}
		payloads = append(payloads, payload)
		want = append(want, string(payload))
	}

	var out bytes.Buffer
	result, err := framer.Run(context.Background(), bytes.NewReader(encodeRecords(t, payloads...)), &out)
	require.NoError(t, err)

	assert.Equal(t, domain.OutcomeEndOfInput, result.Outcome)
	assert.EqualValues(t, len(payloads), result.Records)
	assert.Equal(t, want, decompressAll(t, compressor, decodeRecords(t, out.Bytes())))
}

func TestRunStrictToleratesShortReads(t *testing.T) {
	framer, compressor := newTestFramer(t, nil)

	input := encodeRecords(t, []byte("first record"), []byte("second"), nil)
	var out bytes.Buffer

	result, err := framer.Run(context.Background(), iotest.OneByteReader(bytes.NewReader(input)), &out)
	require.NoError(t, err)

	assert.Equal(t, domain.OutcomeSentinel, result.Outcome)
	assert.Equal(t, []string{"first record", "second"}, decompressAll(t, compressor, decodeRecords(t, out.Bytes())))
}

func TestRunStrictTruncatedPayload(t *testing.T) {
	framer, _ := newTestFramer(t, nil)

	input := append(encodeRecords(t, []byte("whole")), 0, 0, 0, 10, 'a', 'b', 'c')
	var out bytes.Buffer

	result, err := framer.Run(context.Background(), bytes.NewReader(input), &out)
	require.Error(t, err)

	assert.ErrorIs(t, err, services.ErrTruncatedRecord)
	assert.Equal(t, domain.ErrorProtocol, services.CategoryOf(err))
	assert.EqualValues(t, 1, result.Records)
	assert.Len(t, decodeRecords(t, out.Bytes()), 1)
}

func TestRunSingleReadPolicyZeroFills(t *testing.T) {
	framer, compressor := newTestFramer(t, func(cfg *Config) {
		cfg.Options.ShortReadPolicy = domain.ShortReadSingle
	})

	input := []byte{0, 0, 0, 5, 'A', 'B'}
	var out bytes.Buffer

	result, err := framer.Run(context.Background(), bytes.NewReader(input), &out)
	require.NoError(t, err)

	assert.Equal(t, domain.OutcomeEndOfInput, result.Outcome)
	assert.Equal(t, []string{"AB\x00\x00\x00"}, decompressAll(t, compressor, decodeRecords(t, out.Bytes())))
}

func TestRunRecordTooLarge(t *testing.T) {
	framer, _ := newTestFramer(t, func(cfg *Config) {
		cfg.Options.MaxRecordSize = 8
	})

	input := encodeRecords(t, []byte("12345678"), []byte("123456789"))
	var out bytes.Buffer

	result, err := framer.Run(context.Background(), bytes.NewReader(input), &out)
	assert.ErrorIs(t, err, services.ErrRecordTooLarge)
	assert.EqualValues(t, 1, result.Records)

	var fe *services.FrameError
	require.True(t, errors.As(err, &fe))
	assert.EqualValues(t, 1, fe.Record)
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) {
	return 0, errBoom
}

func TestRunWriteFailure(t *testing.T) {
	framer, _ := newTestFramer(t, nil)

	input := encodeRecords(t, []byte("payload"))
	result, err := framer.Run(context.Background(), bytes.NewReader(input), failingWriter{})

	assert.True(t, services.IsWriteFailure(err))
	assert.ErrorIs(t, err, errBoom)
	assert.Zero(t, result.Records)
}

func TestRunReadFailure(t *testing.T) {
	framer, _ := newTestFramer(t, nil)

	in := io.MultiReader(bytes.NewReader(encodeRecords(t, []byte("ok"))), iotest.ErrReader(errBoom))
	var out bytes.Buffer

	result, err := framer.Run(context.Background(), in, &out)
	assert.True(t, services.IsReadFailure(err))
	assert.ErrorIs(t, err, errBoom)
	assert.EqualValues(t, 1, result.Records)
}

func TestRunVerify(t *testing.T) {
	crc, err := checksum.NewChecksummer(checksum.CRC32IEEE)
	require.NoError(t, err)

	framer, compressor := newTestFramer(t, func(cfg *Config) {
		cfg.Options.VerifyOptions.Enable = true
		cfg.Checksum = crc
	})

	var out bytes.Buffer
	_, err = framer.Run(context.Background(), bytes.NewReader(encodeRecords(t, []byte("verified"), nil)), &out)
	require.NoError(t, err)
	assert.Equal(t, []string{"verified"}, decompressAll(t, compressor, decodeRecords(t, out.Bytes())))
}

// corruptingCompressor decompresses everything to the wrong bytes.
type corruptingCompressor struct {
	ports.CompressionPort
}

func (c corruptingCompressor) Decompress(data []byte) ([]byte, error) {
	return []byte("not the payload"), nil
}

func TestRunVerifyMismatch(t *testing.T) {
	crc, err := checksum.NewChecksummer(checksum.Adler32)
	require.NoError(t, err)

	framer, _ := newTestFramer(t, func(cfg *Config) {
		cfg.Options.VerifyOptions.Enable = true
		cfg.Checksum = crc
		cfg.Compressor = corruptingCompressor{cfg.Compressor}
	})

	var out bytes.Buffer
	_, err = framer.Run(context.Background(), bytes.NewReader(encodeRecords(t, []byte("payload"))), &out)

	assert.ErrorIs(t, err, services.ErrChecksumMismatch)
	assert.Equal(t, domain.ErrorVerification, services.CategoryOf(err))
	assert.Zero(t, out.Len())
}

func TestRunCancelledContext(t *testing.T) {
	framer, _ := newTestFramer(t, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	in := bytes.NewReader(encodeRecords(t, []byte("payload")))
	_, err := framer.Run(ctx, in, io.Discard)

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, int64(in.Size()), int64(in.Len()))
}

func TestNewFramerValidation(t *testing.T) {
	compressor, err := compression.NewZlibCompression(compression.DefaultDeflateLevel)
	require.NoError(t, err)
	defer compressor.Close()

	tests := []struct {
		name  string
		cfg   *Config
		field string
	}{
		{"nil config", nil, "config"},
		{"no options", &Config{Compressor: compressor}, "options"},
		{"no compressor", &Config{Options: testOptions()}, "compressor"},
		{"zero max size", &Config{Options: &domain.FramerOptions{ShortReadPolicy: domain.ShortReadStrict}, Compressor: compressor}, "max_record_size"},
		{"bad policy", &Config{Options: &domain.FramerOptions{MaxRecordSize: 10, ShortReadPolicy: "greedy"}, Compressor: compressor}, "short_read"},
		{
			"verify without checksum",
			&Config{
				Options: &domain.FramerOptions{
					MaxRecordSize:   10,
					ShortReadPolicy: domain.ShortReadStrict,
					VerifyOptions:   &domain.VerifyOptions{Enable: true},
				},
				Compressor: compressor,
			},
			"checksum",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewFramer(tt.cfg)
			ve := validation.AsValidationError(err)
			require.NotNil(t, ve)
			assert.Equal(t, tt.field, ve.Field)
		})
	}
}
