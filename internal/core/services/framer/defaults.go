package framer

import (
	"strings"

	"github.com/iamNilotpal/framer/internal/adapters/checksum"
	"github.com/iamNilotpal/framer/internal/adapters/compression"
	"github.com/iamNilotpal/framer/internal/core/domain"
	"github.com/iamNilotpal/framer/internal/core/domain/config"
)

const (
	DefaultMode            = domain.ModeRecords
	DefaultShortReadPolicy = domain.ShortReadStrict
)

// Returns FramerOptions for records mode with every default filled in.
func DefaultOptions() *domain.FramerOptions {
	return prepareDefaults(&domain.FramerOptions{})
}

func prepareDefaults(opts *domain.FramerOptions) *domain.FramerOptions {
	if strings.TrimSpace(string(opts.Mode)) == "" {
		opts.Mode = DefaultMode
	}

	if strings.TrimSpace(string(opts.ShortReadPolicy)) == "" {
		opts.ShortReadPolicy = DefaultShortReadPolicy
	}

	sizes := config.NewSizeConfig(
		config.WithMaxRecordSize(opts.MaxRecordSize),
		config.WithChunkSize(opts.ChunkSize),
	)
	opts.MaxRecordSize = sizes.MaxRecordSize
	opts.ChunkSize = sizes.ChunkSize

	if opts.CompressionOptions == nil {
		opts.CompressionOptions = compression.DefaultOptions()
	} else if strings.TrimSpace(string(opts.CompressionOptions.Codec)) == "" {
		opts.CompressionOptions.Codec = domain.CodecZlib
	}

	if opts.VerifyOptions == nil {
		opts.VerifyOptions = checksum.DefaultOptions()
	} else if strings.TrimSpace(string(opts.VerifyOptions.Algorithm)) == "" {
		opts.VerifyOptions.Algorithm = checksum.CRC32IEEE
	}

	return opts
}
