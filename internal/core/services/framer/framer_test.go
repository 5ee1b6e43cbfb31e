package framer

import (
	"bytes"
	"context"
	"io"
	"testing"

	"github.com/iamNilotpal/framer/internal/adapters/checksum"
	"github.com/iamNilotpal/framer/internal/core/domain"
	"github.com/iamNilotpal/framer/internal/core/domain/config"
	"github.com/iamNilotpal/framer/internal/core/services/records"
	validation "github.com/iamNilotpal/framer/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func newTestFramer(t *testing.T, opts *domain.FramerOptions) *Framer {
	t.Helper()

	f, err := New(opts, zaptest.NewLogger(t))
	require.NoError(t, err)
	t.Cleanup(func() { f.Close() })
	return f
}

func TestNewAppliesDefaults(t *testing.T) {
	f := newTestFramer(t, nil)
	opts := f.Options()

	assert.Equal(t, domain.ModeRecords, opts.Mode)
	assert.Equal(t, domain.ShortReadStrict, opts.ShortReadPolicy)
	assert.EqualValues(t, config.DefaultMaxRecordSize, opts.MaxRecordSize)
	assert.EqualValues(t, config.DefaultChunkSize, opts.ChunkSize)
	assert.Equal(t, domain.CodecZlib, opts.CompressionOptions.Codec)
	assert.Equal(t, -1, opts.CompressionOptions.Level)
	assert.False(t, opts.VerifyOptions.Enable)
	assert.Equal(t, checksum.CRC32IEEE, opts.VerifyOptions.Algorithm)
}

func TestNewKeepsExplicitValues(t *testing.T) {
	f := newTestFramer(t, &domain.FramerOptions{
		Mode:               domain.ModeStream,
		ChunkSize:          4096,
		CompressionOptions: &domain.CompressionOptions{Codec: domain.CodecGzip, Level: 9},
	})
	opts := f.Options()

	assert.Equal(t, domain.ModeStream, opts.Mode)
	assert.EqualValues(t, 4096, opts.ChunkSize)
	assert.Equal(t, domain.CodecGzip, opts.CompressionOptions.Codec)
	assert.Equal(t, 9, opts.CompressionOptions.Level)
}

func TestNewValidation(t *testing.T) {
	tests := []struct {
		name  string
		opts  *domain.FramerOptions
		field string
	}{
		{"unknown mode", &domain.FramerOptions{Mode: "batch"}, "mode"},
		{"unknown short read policy", &domain.FramerOptions{ShortReadPolicy: "greedy"}, "short_read"},
		{"chunk size too small", &domain.FramerOptions{ChunkSize: 1}, "sizes"},
		{"record size too large", &domain.FramerOptions{MaxRecordSize: config.MaxRecordSizeLimit + 1}, "sizes"},
		{"unknown codec", &domain.FramerOptions{CompressionOptions: &domain.CompressionOptions{Codec: "lz4"}}, "compression"},
		{"level out of range", &domain.FramerOptions{CompressionOptions: &domain.CompressionOptions{Codec: domain.CodecZlib, Level: 12}}, "compression"},
		{
			"verify in stream mode",
			&domain.FramerOptions{Mode: domain.ModeStream, VerifyOptions: &domain.VerifyOptions{Enable: true}},
			"verify",
		},
		{
			"unknown checksum",
			&domain.FramerOptions{VerifyOptions: &domain.VerifyOptions{Enable: true, Algorithm: "md5"}},
			"checksum",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := New(tt.opts, nil)
			require.Error(t, err)
			assert.Nil(t, f)

			ve := validation.AsValidationError(err)
			require.NotNil(t, ve)
			assert.Equal(t, tt.field, ve.Field)
		})
	}
}

func TestRunRecordsMode(t *testing.T) {
	f := newTestFramer(t, &domain.FramerOptions{
		VerifyOptions: &domain.VerifyOptions{Enable: true, Algorithm: checksum.Adler32},
	})

	input := []byte{0, 0, 0, 3, 'A', 'B', 'C', 0, 0, 0, 0}
	var out bytes.Buffer

	result, err := f.Run(context.Background(), bytes.NewReader(input), &out)
	require.NoError(t, err)
	assert.Equal(t, domain.OutcomeSentinel, result.Outcome)

	length, err := records.ReadHeader(&out)
	require.NoError(t, err)
	assert.EqualValues(t, out.Len(), length)

	payload, err := f.compressor.Decompress(out.Bytes())
	require.NoError(t, err)
	assert.Equal(t, "ABC", string(payload))
}

func TestRunStreamMode(t *testing.T) {
	f := newTestFramer(t, &domain.FramerOptions{Mode: domain.ModeStream, ChunkSize: config.MinChunkSize})
	input := bytes.Repeat([]byte("stream me "), 1000)

	for i := 0; i < 2; i++ {
		var out bytes.Buffer
		result, err := f.Run(context.Background(), bytes.NewReader(input), &out)
		require.NoError(t, err)
		assert.Equal(t, domain.OutcomeFinished, result.Outcome)

		reader, err := f.compressor.NewReader(&out)
		require.NoError(t, err)
		decompressed, err := io.ReadAll(reader)
		require.NoError(t, err)
		assert.Equal(t, input, decompressed)
	}
}

func TestClientRoundTrip(t *testing.T) {
	f := newTestFramer(t, nil)

	requestReader, requestWriter := io.Pipe()
	responseReader, responseWriter := io.Pipe()

	done := make(chan error, 1)
	go func() {
		_, err := f.Run(context.Background(), requestReader, responseWriter)
		responseWriter.Close()
		done <- err
	}()

	client := f.NewClient(requestWriter, responseReader)
	compressed, err := client.Compress(context.Background(), []byte("through the pipe"))
	require.NoError(t, err)

	payload, err := f.compressor.Decompress(compressed)
	require.NoError(t, err)
	assert.Equal(t, "through the pipe", string(payload))

	require.NoError(t, client.Close())
	require.NoError(t, <-done)
}

func TestClose(t *testing.T) {
	f, err := New(nil, nil)
	require.NoError(t, err)

	require.NoError(t, f.Close())
	require.NoError(t, f.Close())

	_, err = f.Run(context.Background(), bytes.NewReader(nil), io.Discard)
	assert.ErrorIs(t, err, ErrFramerClosed)
}
