package framer

import (
	"fmt"

	"github.com/iamNilotpal/framer/internal/adapters/checksum"
	"github.com/iamNilotpal/framer/internal/adapters/compression"
	"github.com/iamNilotpal/framer/internal/core/domain"
	"github.com/iamNilotpal/framer/internal/core/domain/config"
	validation "github.com/iamNilotpal/framer/pkg/errors"
)

// Validate checks options that already have their defaults applied.
func Validate(opts *domain.FramerOptions) error {
	switch opts.Mode {
	case domain.ModeRecords, domain.ModeStream:
	default:
		return validation.NewValidationError(
			"mode", opts.Mode, fmt.Errorf("must be %q or %q", domain.ModeRecords, domain.ModeStream),
		)
	}

	switch opts.ShortReadPolicy {
	case domain.ShortReadStrict, domain.ShortReadSingle:
	default:
		return validation.NewValidationError(
			"short_read", opts.ShortReadPolicy, fmt.Errorf("must be %q or %q", domain.ShortReadStrict, domain.ShortReadSingle),
		)
	}

	sizes := &config.SizeConfig{MaxRecordSize: opts.MaxRecordSize, ChunkSize: opts.ChunkSize}
	if err := sizes.Validate(); err != nil {
		return validation.NewValidationError("sizes", sizes, err)
	}

	if err := compression.Validate(opts.CompressionOptions); err != nil {
		return validation.NewValidationError("compression", opts.CompressionOptions, err)
	}

	if opts.VerifyOptions.Enable {
		if opts.Mode != domain.ModeRecords {
			return validation.NewValidationError(
				"verify", opts.VerifyOptions.Enable, fmt.Errorf("only supported in %s mode", domain.ModeRecords),
			)
		}

		if err := checksum.Validate(opts.VerifyOptions); err != nil {
			return validation.NewValidationError("checksum", opts.VerifyOptions.Algorithm, err)
		}
	}

	return nil
}
