package domain

// Codec names a compression format the framers can emit.
type Codec string

const (
	// CodecZlib is DEFLATE wrapped in the zlib header and adler32 trailer.
	// It is the format java.util.zip.Deflater produces by default.
	CodecZlib Codec = "zlib"

	// CodecDeflate is the raw RFC 1951 bitstream with no wrapper.
	CodecDeflate Codec = "deflate"

	// CodecGzip is DEFLATE wrapped in a gzip member header and crc32 trailer.
	CodecGzip Codec = "gzip"

	// CodecZstd is a Zstandard frame.
	CodecZstd Codec = "zstd"

	// CodecSnappy is Snappy: the block format for one-shot compression and the
	// framed stream format for sessions.
	CodecSnappy Codec = "snappy"
)

// CompressionOptions selects the compressor used by both framing modes.
type CompressionOptions struct {
	// Codec selects the compression format.
	// Default: CodecZlib
	Codec Codec

	// Level is interpreted by the codec:
	//   - zlib, deflate, gzip: -2 (huffman only) through 9, -1 is the library default.
	//   - zstd: 1 (fastest) through 4 (best), 0 picks the default.
	//   - snappy: must be 0, snappy has no levels.
	Level int
}

// String returns the codec name.
func (c Codec) String() string {
	return string(c)
}
