package domain

// ErrorCategory classifies failures raised while framing.
type ErrorCategory int

const (
	// ErrorRead is any input failure other than a clean end of input.
	ErrorRead ErrorCategory = iota + 1

	// ErrorWrite is any failure writing to the output sink.
	ErrorWrite

	// ErrorCompression is a failure inside the compressor.
	ErrorCompression

	// ErrorProtocol is input that violates the record wire format, such as a
	// truncated payload or an oversized length.
	ErrorProtocol

	// ErrorVerification is a compressed record that does not decompress back to
	// its payload.
	ErrorVerification
)

// String returns the string representation of the error category.
func (c ErrorCategory) String() string {
	switch c {
	case ErrorRead:
		return "read"
	case ErrorWrite:
		return "write"
	case ErrorCompression:
		return "compression"
	case ErrorProtocol:
		return "protocol"
	case ErrorVerification:
		return "verification"
	default:
		return "unknown"
	}
}
