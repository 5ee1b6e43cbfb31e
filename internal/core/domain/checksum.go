package domain

// ChecksumAlgorithm represents supported checksum algorithms.
type ChecksumAlgorithm string

// VerifyOptions controls the round-trip check applied to compressed records.
type VerifyOptions struct {
	// Enable decompresses every compressed record and compares its checksum
	// against the checksum of the input payload before the record is written.
	//
	// Default: false
	Enable bool

	// Algorithm used to fingerprint payloads.
	// Defaults to crc32-ieee if not specified.
	Algorithm ChecksumAlgorithm
}
