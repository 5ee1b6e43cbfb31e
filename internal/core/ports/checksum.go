package ports

// Defines an interface for calculating and verifying data checksums.
type ChecksumPort interface {
	// Calculates a checksum for the provided data. Digests wider than 64 bits
	// are truncated to their leading 8 bytes.
	Calculate(data []byte) uint64

	// Validates whether the provided data matches the expected checksum.
	Verify(data []byte, expected uint64) bool

	// Size returns the width of the underlying digest in bytes.
	Size() int

	// Name returns the algorithm name.
	Name() string
}
