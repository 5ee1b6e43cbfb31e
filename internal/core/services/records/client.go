package records

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/iamNilotpal/framer/internal/core/domain"
	"github.com/iamNilotpal/framer/internal/core/domain/config"
	"github.com/iamNilotpal/framer/internal/core/services"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var (
	// ErrEmptyRecord is returned for empty payloads, which would read as the sentinel.
	ErrEmptyRecord = errors.New("empty payload cannot be sent as a record")

	// ErrClientClosed indicates operation on a closed client.
	ErrClientClosed = errors.New("client is closed")
)

// Client talks to a records mode framer running on the other end of a pair
// of streams: requests go to w, compressed responses come back on r.
// Calls are serialized; one record is in flight at a time.
type Client struct {
	w               io.Writer
	r               io.Reader
	logger          *zap.Logger
	maxResponseSize uint32

	mu     sync.Mutex
	index  uint64
	closed bool
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithClientLogger sets the logger used for protocol warnings.
func WithClientLogger(logger *zap.Logger) ClientOption {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithMaxResponseSize bounds the compressed length accepted from the peer.
func WithMaxResponseSize(size uint32) ClientOption {
	return func(c *Client) {
		if size != 0 {
			c.maxResponseSize = size
		}
	}
}

func NewClient(w io.Writer, r io.Reader, opts ...ClientOption) *Client {
	c := &Client{
		w:               w,
		r:               r,
		logger:          zap.NewNop(),
		maxResponseSize: config.MaxRecordSizeLimit,
	}

	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Compress sends payload as one record and returns the peer's compressed
// record. The request is written concurrently with reading the response so a
// payload larger than the pipe buffers cannot deadlock against a peer that
// starts answering early.
//
// The call returns as soon as either side fails or ctx is done, even when the
// other side is still blocked on a stream that cannot be interrupted. A failed
// exchange leaves the two streams out of step, so the client closes itself
// (and each stream that is an io.Closer) and later calls fail.
func (c *Client) Compress(ctx context.Context, payload []byte) ([]byte, error) {
	if len(payload) == 0 {
		return nil, ErrEmptyRecord
	}

	if uint64(len(payload)) > config.MaxRecordSizeLimit {
		return nil, fmt.Errorf("%w: %d bytes", services.ErrRecordTooLarge, len(payload))
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil, ErrClientClosed
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	index := c.index
	failure := &firstError{}
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := WriteRecord(c.w, payload); err != nil {
			return failure.set(services.NewFrameError(domain.ErrorWrite, "send record", index, err))
		}
		return nil
	})

	var compressed []byte
	g.Go(func() error {
		response, err := c.readResponse(index)
		if err != nil {
			return failure.set(err)
		}
		compressed = response
		return nil
	})

	// Wait runs on its own goroutine so a side that never returns cannot
	// hold the caller.
	done := make(chan error, 1)
	go func() {
		done <- g.Wait()
	}()

	var err error
	select {
	case err = <-done:
	case <-gctx.Done():
		// gctx is also cancelled when Wait returns after a clean exchange,
		// so only a recorded failure or a done parent context ends early.
		if err = failure.get(); err == nil {
			err = ctx.Err()
		}
		if err == nil {
			err = <-done
		}
	}

	if err != nil {
		c.abort()
		return nil, err
	}

	c.index++
	return compressed, nil
}

// firstError keeps the first error reported by either side of an exchange.
type firstError struct {
	mu  sync.Mutex
	err error
}

func (f *firstError) set(err error) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err == nil {
		f.err = err
	}
	return err
}

func (f *firstError) get() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.err
}

func (c *Client) readResponse(index uint64) ([]byte, error) {
	length, err := ReadHeader(c.r)
	if err != nil {
		if errors.Is(err, io.EOF) {
			err = io.ErrUnexpectedEOF
		}
		return nil, services.NewFrameError(domain.ErrorRead, "read response length", index, err)
	}

	if length == 0 {
		c.logger.Warn("peer returned an empty compressed record", zap.Uint64("record", index))
		return []byte{}, nil
	}

	if length > c.maxResponseSize {
		return nil, services.NewFrameError(
			domain.ErrorProtocol, "read response length", index,
			fmt.Errorf("%w: %d > %d", services.ErrRecordTooLarge, length, c.maxResponseSize),
		)
	}

	compressed := make([]byte, length)
	if n, err := io.ReadFull(c.r, compressed); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			err = fmt.Errorf("%w: got %d of %d bytes", services.ErrTruncatedRecord, n, length)
			return nil, services.NewFrameError(domain.ErrorProtocol, "read response", index, err)
		}
		return nil, services.NewFrameError(domain.ErrorRead, "read response", index, err)
	}

	return compressed, nil
}

// abort marks the client closed and closes whichever streams can be closed,
// which unblocks a request write or response read still in flight.
func (c *Client) abort() {
	c.closed = true
	if closer, ok := c.w.(io.Closer); ok {
		closer.Close()
	}
	if closer, ok := c.r.(io.Closer); ok {
		closer.Close()
	}
}

// Close sends the sentinel that tells the peer no more records follow.
// It does not close either stream.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return ErrClientClosed
	}
	c.closed = true

	if err := WriteSentinel(c.w); err != nil {
		return services.NewFrameError(domain.ErrorWrite, "send sentinel", c.index, err)
	}
	return nil
}

// Sent returns the number of records compressed so far.
func (c *Client) Sent() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.index
}
