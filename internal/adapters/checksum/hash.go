package checksum

import (
	"crypto/sha1"
	"crypto/sha256"
	"encoding/binary"
	"hash"
	"hash/adler32"
	"hash/crc32"
	"hash/crc64"

	"github.com/iamNilotpal/framer/internal/core/domain"
)

var (
	castagnoliTable = crc32.MakeTable(crc32.Castagnoli)
	isoTable        = crc64.MakeTable(crc64.ISO)
	ecmaTable       = crc64.MakeTable(crc64.ECMA)
)

var algorithms = map[domain.ChecksumAlgorithm]func() hash.Hash{
	CRC32IEEE:       func() hash.Hash { return crc32.NewIEEE() },
	CRC32Castagnoli: func() hash.Hash { return crc32.New(castagnoliTable) },
	CRC64ISO:        func() hash.Hash { return crc64.New(isoTable) },
	CRC64ECMA:       func() hash.Hash { return crc64.New(ecmaTable) },
	Adler32:         func() hash.Hash { return adler32.New() },
	SHA1:            sha1.New,
	SHA256:          sha256.New,
}

// hashChecksum adapts any hash.Hash to ChecksumPort. The digest is read as a
// big-endian integer; digests wider than 8 bytes keep their leading 8 bytes.
type hashChecksum struct {
	name    string
	size    int
	newHash func() hash.Hash
}

func newHashChecksum(name string, newHash func() hash.Hash) *hashChecksum {
	return &hashChecksum{name: name, size: newHash().Size(), newHash: newHash}
}

func (c *hashChecksum) Calculate(data []byte) uint64 {
	h := c.newHash()
	h.Write(data)
	sum := h.Sum(nil)

	switch {
	case len(sum) >= 8:
		return binary.BigEndian.Uint64(sum[:8])
	case len(sum) == 4:
		return uint64(binary.BigEndian.Uint32(sum))
	default:
		var v uint64
		for _, b := range sum {
			v = v<<8 | uint64(b)
		}
		return v
	}
}

func (c *hashChecksum) Verify(data []byte, expected uint64) bool {
	return c.Calculate(data) == expected
}

func (c *hashChecksum) Size() int {
	return c.size
}

func (c *hashChecksum) Name() string {
	return c.name
}
