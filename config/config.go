package config

import (
	"fmt"
	"os"

	"github.com/iamNilotpal/framer/internal/adapters/checksum"
	"github.com/iamNilotpal/framer/internal/adapters/compression"
	"github.com/iamNilotpal/framer/internal/core/domain"
	sizes "github.com/iamNilotpal/framer/internal/core/domain/config"
	"github.com/iamNilotpal/framer/pkg/logger"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Compression CompressionConfig `yaml:"compression"`
	Records     RecordsConfig     `yaml:"records"`
	Stream      StreamConfig      `yaml:"stream"`
	Log         LogConfig         `yaml:"log"`
}

// Selects the compressor shared by both modes.
type CompressionConfig struct {
	Codec string `yaml:"codec"` // zlib, deflate, gzip, zstd or snappy
	Level int    `yaml:"level"` // Codec specific level, -1 is the zlib default
}

// Holds records mode configuration.
type RecordsConfig struct {
	MaxRecordSize uint32 `yaml:"max_record_size"` // Largest accepted payload
	ShortRead     string `yaml:"short_read"`      // strict or single
	Verify        bool   `yaml:"verify"`          // Decompress and compare every record
	Checksum      string `yaml:"checksum"`        // Algorithm used by verify
}

// Holds stream mode configuration.
type StreamConfig struct {
	ChunkSize uint32 `yaml:"chunk_size"` // Bytes read per chunk
}

// Holds logger configuration. Logs never go to stdout.
type LogConfig struct {
	Level      string `yaml:"level"`
	FilePath   string `yaml:"file_path"`   // Empty logs to stderr
	MaxSize    int    `yaml:"max_size"`    // Megabytes before rotation
	MaxBackups int    `yaml:"max_backups"` // Rotated files kept
	MaxAge     int    `yaml:"max_age"`     // Days rotated files are kept
	Compress   bool   `yaml:"compress"`    // Gzip rotated files
}

// Returns a Config struct with reasonable default values.
func DefaultConfig() *Config {
	return &Config{
		Compression: CompressionConfig{
			Codec: string(domain.CodecZlib),
			Level: compression.DefaultDeflateLevel,
		},
		Records: RecordsConfig{
			MaxRecordSize: sizes.DefaultMaxRecordSize,
			ShortRead:     string(domain.ShortReadStrict),
			Checksum:      string(checksum.CRC32IEEE),
		},
		Stream: StreamConfig{
			ChunkSize: sizes.DefaultChunkSize,
		},
		Log: LogConfig{
			Level:      "info",
			MaxSize:    10,
			MaxBackups: 3,
			MaxAge:     7,
		},
	}
}

// Loads configuration from a YAML file. Keys missing from the file keep
// their DefaultConfig values.
func LoadConfig(filename string) (*Config, error) {
	// Read the config file
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	config := DefaultConfig()

	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	// The default level belongs to the default codec, so a file that picks
	// another codec without a level gets that codec's default instead.
	var explicit struct {
		Compression struct {
			Level *int `yaml:"level"`
		} `yaml:"compression"`
	}
	if err := yaml.Unmarshal(data, &explicit); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}
	if explicit.Compression.Level == nil {
		config.Compression.Level = compression.DefaultLevel(domain.Codec(config.Compression.Codec))
	}

	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// FramerOptions converts the file layout into options for mode.
func (c *Config) FramerOptions(mode domain.Mode) *domain.FramerOptions {
	return &domain.FramerOptions{
		Mode:            mode,
		MaxRecordSize:   c.Records.MaxRecordSize,
		ShortReadPolicy: domain.ShortReadPolicy(c.Records.ShortRead),
		ChunkSize:       c.Stream.ChunkSize,
		CompressionOptions: &domain.CompressionOptions{
			Codec: domain.Codec(c.Compression.Codec),
			Level: c.Compression.Level,
		},
		VerifyOptions: &domain.VerifyOptions{
			Enable:    c.Records.Verify,
			Algorithm: domain.ChecksumAlgorithm(c.Records.Checksum),
		},
	}
}

// LoggerOptions converts the log section into logger options.
func (c *Config) LoggerOptions() *logger.Options {
	return &logger.Options{
		Level:      c.Log.Level,
		FilePath:   c.Log.FilePath,
		MaxSize:    c.Log.MaxSize,
		MaxBackups: c.Log.MaxBackups,
		MaxAge:     c.Log.MaxAge,
		Compress:   c.Log.Compress,
	}
}

func validateConfig(config *Config) error {
	if err := compression.Validate(&domain.CompressionOptions{
		Codec: domain.Codec(config.Compression.Codec),
		Level: config.Compression.Level,
	}); err != nil {
		return fmt.Errorf("invalid compression configuration: %w", err)
	}

	if err := validateRecordsConfig(&config.Records); err != nil {
		return fmt.Errorf("invalid records configuration: %w", err)
	}

	if config.Stream.ChunkSize < sizes.MinChunkSize || config.Stream.ChunkSize > sizes.MaxChunkSize {
		return fmt.Errorf(
			"invalid stream configuration: chunk_size must be between %d and %d",
			sizes.MinChunkSize, sizes.MaxChunkSize,
		)
	}

	if err := validateLogConfig(&config.Log); err != nil {
		return fmt.Errorf("invalid log configuration: %w", err)
	}

	return nil
}

func validateRecordsConfig(config *RecordsConfig) error {
	if config.MaxRecordSize == 0 || config.MaxRecordSize > sizes.MaxRecordSizeLimit {
		return fmt.Errorf("max_record_size must be between 1 and %d", sizes.MaxRecordSizeLimit)
	}

	switch domain.ShortReadPolicy(config.ShortRead) {
	case domain.ShortReadStrict, domain.ShortReadSingle:
	default:
		return fmt.Errorf("short_read must be %q or %q", domain.ShortReadStrict, domain.ShortReadSingle)
	}

	if config.Verify {
		if err := checksum.Validate(&domain.VerifyOptions{
			Enable:    true,
			Algorithm: domain.ChecksumAlgorithm(config.Checksum),
		}); err != nil {
			return err
		}
	}

	return nil
}

func validateLogConfig(config *LogConfig) error {
	switch config.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("level must be one of debug, info, warn or error")
	}

	if config.MaxSize < 0 {
		return fmt.Errorf("max_size must be greater than 0")
	}

	if config.MaxBackups < 0 {
		return fmt.Errorf("max_backups must not be negative")
	}

	if config.MaxAge < 0 {
		return fmt.Errorf("max_age must not be negative")
	}

	return nil
}
