package stream

import "io"

// countingWriter counts what reaches the output and remembers the first
// output error. Once discard is set, writes are swallowed so a session
// released after a failure cannot append its trailer.
type countingWriter struct {
	w       io.Writer
	n       uint64
	err     error
	discard bool
}

func (c *countingWriter) Write(p []byte) (int, error) {
	if c.discard {
		return len(p), nil
	}

	n, err := c.w.Write(p)
	c.n += uint64(n)
	if err != nil && c.err == nil {
		c.err = err
	}
	return n, err
}
