package pool

import (
	"bytes"
	"sync"
)

// BufferPool manages a pool of byte buffers.
type BufferPool struct {
	size int       // Initial capacity of each buffer.
	pool sync.Pool // Thread-safe pool of buffers.
}

// Creates a new buffer pool with a specified buffer size.
func NewBufferPool(size int) *BufferPool {
	return &BufferPool{
		size: size,
		pool: sync.Pool{
			New: func() any {
				return bytes.NewBuffer(make([]byte, 0, size))
			},
		},
	}
}

// Retrieves an empty buffer from the pool.
func (bp *BufferPool) Get() *bytes.Buffer {
	buf := bp.pool.Get().(*bytes.Buffer)
	buf.Reset()
	return buf
}

// GetBytes retrieves a buffer and returns it together with a zeroed slice of
// length n backed by that buffer's storage. The slice is only valid until the
// buffer is returned with Put.
func (bp *BufferPool) GetBytes(n int) (*bytes.Buffer, []byte) {
	buf := bp.Get()
	buf.Grow(n)

	p := buf.AvailableBuffer()[:n]
	clear(p)
	return buf, p
}

// Returns a buffer to the pool.
func (bp *BufferPool) Put(buf *bytes.Buffer) {
	// Don't pool buffers that have grown too large.
	if buf.Cap() > bp.size*2 {
		return
	}

	buf.Reset()
	bp.pool.Put(buf)
}

// Size returns the initial capacity of pooled buffers.
func (bp *BufferPool) Size() int {
	return bp.size
}
