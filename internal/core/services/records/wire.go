package records

import (
	"encoding/binary"
	"errors"
	"io"

	"github.com/iamNilotpal/framer/internal/core/domain/config"
)

// ReadHeader reads one big-endian length prefix. Input that ends before or
// inside the prefix yields io.EOF.
func ReadHeader(r io.Reader) (uint32, error) {
	var header [config.HeaderSize]byte
	if _, err := io.ReadFull(r, header[:]); err != nil {
		if errors.Is(err, io.ErrUnexpectedEOF) {
			return 0, io.EOF
		}
		return 0, err
	}
	return binary.BigEndian.Uint32(header[:]), nil
}

// WriteRecord writes payload preceded by its big-endian length. An empty
// payload writes the sentinel.
func WriteRecord(w io.Writer, payload []byte) error {
	var header [config.HeaderSize]byte
	binary.BigEndian.PutUint32(header[:], uint32(len(payload)))

	if _, err := w.Write(header[:]); err != nil {
		return err
	}

	if len(payload) == 0 {
		return nil
	}

	_, err := w.Write(payload)
	return err
}

// WriteSentinel writes the zero length record that ends a stream.
func WriteSentinel(w io.Writer) error {
	return WriteRecord(w, nil)
}
