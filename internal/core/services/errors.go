package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/iamNilotpal/framer/internal/core/domain"
)

var (
	// ErrTruncatedRecord means input ended inside a record payload.
	ErrTruncatedRecord = errors.New("truncated record")

	// ErrRecordTooLarge means a record declared a length above the configured limit.
	ErrRecordTooLarge = errors.New("record too large")

	// ErrChecksumMismatch means a compressed record did not decompress back to its payload.
	ErrChecksumMismatch = errors.New("checksum mismatch")
)

// FrameError is a hard failure of a framing run.
type FrameError struct {
	Err       error
	Operation string
	Record    uint64 // index of the record being processed, Mode A only
	Timestamp time.Time
	Category  domain.ErrorCategory
}

// NewFrameError stamps err with its category and the operation that failed.
func NewFrameError(category domain.ErrorCategory, operation string, record uint64, err error) *FrameError {
	return &FrameError{
		Err:       err,
		Record:    record,
		Category:  category,
		Operation: operation,
		Timestamp: time.Now(),
	}
}

func (e *FrameError) Error() string {
	return fmt.Sprintf("[%v] %s (record %d): %v", e.Category, e.Operation, e.Record, e.Err)
}

func (e *FrameError) Unwrap() error {
	return e.Err
}

// IsRetryAble reports whether rerunning the same input could succeed.
// Protocol and verification failures are properties of the input or the
// compressor and fail again; I/O failures may be transient.
func (e *FrameError) IsRetryAble() bool {
	switch e.Category {
	case domain.ErrorRead, domain.ErrorWrite:
		return true
	default:
		return false
	}
}

// CategoryOf returns the category of the first FrameError in err's chain,
// or zero when there is none.
func CategoryOf(err error) domain.ErrorCategory {
	var fe *FrameError
	if errors.As(err, &fe) {
		return fe.Category
	}
	return 0
}

// IsReadFailure reports whether err is an input failure.
func IsReadFailure(err error) bool {
	return CategoryOf(err) == domain.ErrorRead
}

// IsWriteFailure reports whether err is an output failure.
func IsWriteFailure(err error) bool {
	return CategoryOf(err) == domain.ErrorWrite
}
