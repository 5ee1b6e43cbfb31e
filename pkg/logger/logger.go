// Package logger builds the zap loggers used by the framer commands.
// Output goes to stderr because stdout carries framed data, or to a rotating
// file when a path is configured.
package logger

import (
	"io"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Options controls level and destination.
type Options struct {
	Level      string // debug, info, warn, error
	FilePath   string // empty logs to stderr
	MaxSize    int    // megabytes before a log file is rotated
	MaxBackups int    // rotated files kept
	MaxAge     int    // days rotated files are kept
	Compress   bool   // gzip rotated files
}

func DefaultOptions() *Options {
	return &Options{
		Level:      "info",
		MaxSize:    10,
		MaxBackups: 3,
		MaxAge:     7,
	}
}

// New returns a sugared logger named after service. An unknown level falls
// back to info.
func New(service string, opts *Options) *zap.SugaredLogger {
	if opts == nil {
		opts = DefaultOptions()
	}

	if opts.FilePath != "" {
		rotator := &lumberjack.Logger{
			Filename:   opts.FilePath,
			MaxSize:    opts.MaxSize,
			MaxBackups: opts.MaxBackups,
			MaxAge:     opts.MaxAge,
			Compress:   opts.Compress,
		}
		return build(service, opts.Level, zapcore.NewJSONEncoder(encoderConfig()), zapcore.AddSync(rotator))
	}

	return build(service, opts.Level, zapcore.NewConsoleEncoder(encoderConfig()), zapcore.Lock(os.Stderr))
}

// NewWithWriter is New with an explicit destination, for embedding and tests.
func NewWithWriter(service string, level string, w io.Writer) *zap.SugaredLogger {
	return build(service, level, zapcore.NewJSONEncoder(encoderConfig()), zapcore.AddSync(w))
}

func build(service, level string, encoder zapcore.Encoder, sink zapcore.WriteSyncer) *zap.SugaredLogger {
	core := zapcore.NewCore(encoder, sink, zap.NewAtomicLevelAt(parseLevel(level)))
	return zap.New(core, zap.AddCaller(), zap.ErrorOutput(zapcore.Lock(os.Stderr))).Named(service).Sugar()
}

func encoderConfig() zapcore.EncoderConfig {
	cfg := zap.NewProductionEncoderConfig()
	cfg.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.EncodeLevel = zapcore.CapitalLevelEncoder
	return cfg
}

func parseLevel(level string) zapcore.Level {
	parsed, err := zapcore.ParseLevel(level)
	if err != nil {
		return zapcore.InfoLevel
	}
	return parsed
}
