// Package checksum fingerprints payloads for the records round-trip check.
package checksum

import (
	"fmt"

	"github.com/iamNilotpal/framer/internal/core/domain"
	"github.com/iamNilotpal/framer/internal/core/ports"
)

const (
	// CRC32IEEE uses the IEEE polynomial for CRC32 checksums
	CRC32IEEE domain.ChecksumAlgorithm = "crc32-ieee"

	// CRC32Castagnoli uses the Castagnoli polynomial for CRC32 checksums
	CRC32Castagnoli domain.ChecksumAlgorithm = "crc32-castagnoli"

	// CRC64ISO uses the ISO polynomial for CRC64 checksums
	CRC64ISO domain.ChecksumAlgorithm = "crc64-iso"

	// CRC64ECMA uses the ECMA polynomial for CRC64 checksums
	CRC64ECMA domain.ChecksumAlgorithm = "crc64-ecma"

	// Adler32 is the checksum zlib streams carry in their trailer
	Adler32 domain.ChecksumAlgorithm = "adler32"

	// SHA1 provides SHA-1 checksums (160-bit)
	SHA1 domain.ChecksumAlgorithm = "sha1"

	// SHA256 provides SHA-256 checksums (256-bit)
	SHA256 domain.ChecksumAlgorithm = "sha256"
)

// Returns recommended verification settings. Verification is opt-in.
func DefaultOptions() *domain.VerifyOptions {
	return &domain.VerifyOptions{
		Enable:    false,
		Algorithm: CRC32IEEE,
	}
}

func Validate(input *domain.VerifyOptions) error {
	if _, ok := algorithms[input.Algorithm]; !ok {
		return fmt.Errorf("unsupported checksum algorithm: %s", input.Algorithm)
	}
	return nil
}

// NewChecksummer returns the checksum implementation for algorithm.
func NewChecksummer(algorithm domain.ChecksumAlgorithm) (ports.ChecksumPort, error) {
	newHash, ok := algorithms[algorithm]
	if !ok {
		return nil, fmt.Errorf("unsupported checksum algorithm: %s", algorithm)
	}
	return newHashChecksum(string(algorithm), newHash), nil
}
