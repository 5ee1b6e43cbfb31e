package compression

import (
	"bytes"
	"fmt"
	"io"
	"sync"

	"github.com/iamNilotpal/framer/internal/core/domain"
	"github.com/iamNilotpal/framer/internal/core/ports"
	"github.com/klauspost/compress/flate"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zlib"
)

// resettableWriter is the writer shape shared by the zlib, flate and gzip packages.
type resettableWriter interface {
	io.WriteCloser
	Flush() error
	Reset(w io.Writer)
}

// DeflateCompression implements CompressionPort for the DEFLATE family.
//
// One-shot compression reuses a single writer, resetting it onto a scratch
// buffer for every call, so compressing a long run of records does not
// allocate a fresh compressor state each time. Sessions get their own writer.
type DeflateCompression struct {
	codec     domain.Codec
	level     int
	newWriter func(w io.Writer, level int) (resettableWriter, error)
	newReader func(r io.Reader) (io.ReadCloser, error)

	mu     sync.Mutex       // Guards writer and buffer.
	writer resettableWriter // Reused by Compress, nil until first use.
	buffer bytes.Buffer     // Scratch output for Compress.
	closed bool
}

// NewZlibCompression returns a compressor producing zlib streams, the format
// java.util.zip.Deflater writes by default.
func NewZlibCompression(level int) (*DeflateCompression, error) {
	return newDeflateCompression(domain.CodecZlib, level, newZlibWriter, newZlibReader)
}

// NewFlateCompression returns a compressor producing raw DEFLATE streams.
func NewFlateCompression(level int) (*DeflateCompression, error) {
	return newDeflateCompression(domain.CodecDeflate, level, newFlateWriter, newFlateReader)
}

// NewGzipCompression returns a compressor producing gzip members.
func NewGzipCompression(level int) (*DeflateCompression, error) {
	return newDeflateCompression(domain.CodecGzip, level, newGzipWriter, newGzipReader)
}

func newDeflateCompression(
	codec domain.Codec,
	level int,
	newWriter func(io.Writer, int) (resettableWriter, error),
	newReader func(io.Reader) (io.ReadCloser, error),
) (*DeflateCompression, error) {
	if err := Validate(&domain.CompressionOptions{Codec: codec, Level: level}); err != nil {
		return nil, err
	}

	return &DeflateCompression{
		codec:     codec,
		level:     level,
		newWriter: newWriter,
		newReader: newReader,
	}, nil
}

// Compress returns the finished compressed form of data. The result is a
// fresh slice; it stays valid after later calls.
func (d *DeflateCompression) Compress(data []byte) ([]byte, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return nil, ErrCompressorClosed
	}

	d.buffer.Reset()
	if d.writer == nil {
		writer, err := d.newWriter(&d.buffer, d.level)
		if err != nil {
			return nil, fmt.Errorf("failed to create %s writer : %w", d.codec, err)
		}
		d.writer = writer
	} else {
		d.writer.Reset(&d.buffer)
	}

	if _, err := d.writer.Write(data); err != nil {
		return nil, fmt.Errorf("compression failed : %w", err)
	}

	if err := d.writer.Close(); err != nil {
		return nil, fmt.Errorf("failed to finish compression : %w", err)
	}

	return bytes.Clone(d.buffer.Bytes()), nil
}

// Decompress restores the original data from its compressed form.
func (d *DeflateCompression) Decompress(data []byte) ([]byte, error) {
	reader, err := d.newReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decompression failed : %w", err)
	}
	defer reader.Close()

	decompressed, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("decompression failed : %w", err)
	}

	return decompressed, nil
}

// NewSession returns a writer compressing into w. Closing the session writes
// the stream trailer but does not close w.
func (d *DeflateCompression) NewSession(w io.Writer) (ports.SessionPort, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return nil, ErrCompressorClosed
	}

	writer, err := d.newWriter(w, d.level)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s session : %w", d.codec, err)
	}
	return writer, nil
}

// NewReader returns a reader that decompresses r.
func (d *DeflateCompression) NewReader(r io.Reader) (io.ReadCloser, error) {
	return d.newReader(r)
}

func (d *DeflateCompression) Codec() domain.Codec {
	return d.codec
}

func (d *DeflateCompression) Level() int {
	return d.level
}

// Close releases the reusable writer. Sessions already handed out are not
// affected.
func (d *DeflateCompression) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return ErrCompressorClosed
	}

	d.closed = true
	d.writer = nil
	d.buffer = bytes.Buffer{}
	return nil
}

func newZlibWriter(w io.Writer, level int) (resettableWriter, error) {
	writer, err := zlib.NewWriterLevel(w, level)
	if err != nil {
		return nil, err
	}
	return writer, nil
}

func newZlibReader(r io.Reader) (io.ReadCloser, error) {
	return zlib.NewReader(r)
}

func newFlateWriter(w io.Writer, level int) (resettableWriter, error) {
	writer, err := flate.NewWriter(w, level)
	if err != nil {
		return nil, err
	}
	return writer, nil
}

func newFlateReader(r io.Reader) (io.ReadCloser, error) {
	return flate.NewReader(r), nil
}

func newGzipWriter(w io.Writer, level int) (resettableWriter, error) {
	writer, err := gzip.NewWriterLevel(w, level)
	if err != nil {
		return nil, err
	}
	return writer, nil
}

func newGzipReader(r io.Reader) (io.ReadCloser, error) {
	reader, err := gzip.NewReader(r)
	if err != nil {
		return nil, err
	}
	return reader, nil
}
