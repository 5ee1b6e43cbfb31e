package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/iamNilotpal/framer/config"
	"github.com/iamNilotpal/framer/internal/adapters/compression"
	"github.com/iamNilotpal/framer/internal/core/domain"
	sizes "github.com/iamNilotpal/framer/internal/core/domain/config"
	"github.com/iamNilotpal/framer/internal/core/services/framer"
	"github.com/iamNilotpal/framer/pkg/logger"
	"github.com/iamNilotpal/framer/pkg/system"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// shutdownGrace is how long a run may take to stop after a signal.
const shutdownGrace = 2 * time.Second

// reportedError marks an error that has already been logged.
type reportedError struct {
	err error
}

func (e *reportedError) Error() string { return e.err.Error() }
func (e *reportedError) Unwrap() error { return e.err }

type rootFlags struct {
	configPath string
	codec      string
	level      int
	logLevel   string
	logFile    string
	compat     bool
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}

	cmd := &cobra.Command{
		Use:   "framer",
		Short: "Compress standard input to standard output",
		Long: "framer compresses standard input to standard output, either one\n" +
			"length-prefixed record at a time (records) or as one continuous stream (stream).",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := cmd.PersistentFlags()
	pf.StringVar(&flags.configPath, "config", "", "path to a YAML config file")
	pf.StringVar(&flags.codec, "codec", "", "compression codec: zlib, deflate, gzip, zstd or snappy")
	pf.IntVar(&flags.level, "level", 0, "compression level for the selected codec")
	pf.StringVar(&flags.logLevel, "log-level", "", "log level: debug, info, warn or error")
	pf.StringVar(&flags.logFile, "log-file", "", "write logs to a rotating file instead of stderr")
	pf.BoolVar(&flags.compat, "compat", false, "use the Java deflater limits and single read payloads")

	cmd.AddCommand(newRecordsCmd(flags), newStreamCmd(flags), newCheckCmd(flags))
	return cmd
}

// loadConfig reads the config file when one is given and applies the flags
// that were set on the command line.
func (f *rootFlags) loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if f.configPath != "" {
		loaded, err := config.LoadConfig(f.configPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if f.compat {
		limits := sizes.CompatSizeConfig()
		cfg.Records.MaxRecordSize = limits.MaxRecordSize
		cfg.Records.ShortRead = string(domain.ShortReadSingle)
		cfg.Stream.ChunkSize = limits.ChunkSize
	}

	changed := cmd.Flags().Changed
	if changed("codec") {
		cfg.Compression.Codec = f.codec
		if !changed("level") {
			cfg.Compression.Level = compression.DefaultLevel(domain.Codec(f.codec))
		}
	}
	if changed("level") {
		cfg.Compression.Level = f.level
	}
	if changed("log-level") {
		cfg.Log.Level = f.logLevel
	}
	if changed("log-file") {
		cfg.Log.FilePath = f.logFile
	}

	return cfg, nil
}

// run frames the command's stdin to its stdout in mode.
func run(cmd *cobra.Command, cfg *config.Config, mode domain.Mode) error {
	log := logger.New("framer", cfg.LoggerOptions())
	defer log.Sync()

	f, err := framer.New(cfg.FramerOptions(mode), log.Desugar())
	if err != nil {
		log.Errorw("invalid options", "mode", mode, "error", err)
		return &reportedError{err}
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var result *domain.Result
	err = system.RunWithContext(ctx, shutdownGrace, func(ctx context.Context) error {
		var runErr error
		result, runErr = f.Run(ctx, cmd.InOrStdin(), cmd.OutOrStdout())
		return runErr
	})

	// Close errors after a run are not worth failing the process over.
	if closeErr := f.Close(); closeErr != nil {
		log.Debugw("close framer", "error", closeErr)
	}

	if err != nil {
		log.Errorw("framing failed", "mode", mode, "error", err)
		return &reportedError{err}
	}

	log.Desugar().Debug(
		"run complete",
		zap.String("outcome", string(result.Outcome)),
		zap.Uint64("records", result.Records),
		zap.Uint64("bytes_in", result.BytesIn),
		zap.Uint64("bytes_out", result.BytesOut),
	)
	return nil
}
