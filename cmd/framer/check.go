package main

import (
	"errors"
	"fmt"
	"io"
	"os/exec"

	"github.com/iamNilotpal/framer/config"
	"github.com/iamNilotpal/framer/internal/adapters/checksum"
	"github.com/iamNilotpal/framer/internal/core/domain"
	"github.com/iamNilotpal/framer/internal/core/ports"
	"github.com/iamNilotpal/framer/internal/core/services"
	"github.com/iamNilotpal/framer/internal/core/services/framer"
	"github.com/iamNilotpal/framer/pkg/logger"
	"github.com/spf13/cobra"
	"go.uber.org/multierr"
)

// DefaultCheckRecordSize is how much input goes into each record sent to the peer.
const DefaultCheckRecordSize = 64 * 1024

func newCheckCmd(root *rootFlags) *cobra.Command {
	var (
		recordSize uint32
		algorithm  string
	)

	cmd := &cobra.Command{
		Use:   "check [flags] -- peer-command [args...]",
		Short: "Round-trip standard input through a records mode peer",
		Long: "Starts peer-command, splits standard input into records, sends each one to the\n" +
			"peer and decompresses its answer locally. Every record must come back with the\n" +
			"checksum it was sent with. The peer must speak records mode on its stdin/stdout,\n" +
			"for example another `framer records`.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := root.loadConfig(cmd)
			if err != nil {
				return err
			}

			if recordSize == 0 || recordSize > cfg.Records.MaxRecordSize {
				return fmt.Errorf("record-size must be between 1 and %d", cfg.Records.MaxRecordSize)
			}

			return check(cmd, cfg, args, int(recordSize), domain.ChecksumAlgorithm(algorithm))
		},
	}

	flags := cmd.Flags()
	flags.Uint32Var(&recordSize, "record-size", DefaultCheckRecordSize, "input bytes per record sent to the peer")
	flags.StringVar(&algorithm, "checksum", string(checksum.Adler32), "checksum compared after each round trip")

	return cmd
}

// checkSummary counts what a check run pushed through the peer.
type checkSummary struct {
	records  uint64
	bytesIn  uint64
	bytesOut uint64
}

func check(cmd *cobra.Command, cfg *config.Config, args []string, recordSize int, algorithm domain.ChecksumAlgorithm) error {
	log := logger.New("framer", cfg.LoggerOptions())
	defer log.Sync()

	f, err := framer.New(cfg.FramerOptions(domain.ModeRecords), log.Desugar())
	if err != nil {
		log.Errorw("invalid options", "mode", "check", "error", err)
		return &reportedError{err}
	}
	defer f.Close()

	sum, err := checksum.NewChecksummer(algorithm)
	if err != nil {
		log.Errorw("invalid options", "mode", "check", "error", err)
		return &reportedError{err}
	}

	peer := exec.CommandContext(cmd.Context(), args[0], args[1:]...)
	peer.Stderr = cmd.ErrOrStderr()

	requests, err := peer.StdinPipe()
	if err != nil {
		return err
	}
	responses, err := peer.StdoutPipe()
	if err != nil {
		return err
	}

	if err := peer.Start(); err != nil {
		log.Errorw("start peer", "command", args[0], "error", err)
		return &reportedError{err}
	}

	summary, err := roundTrip(cmd, f, sum, requests, responses, recordSize)

	// Closing stdin ends the peer even if the sentinel never reached it.
	err = multierr.Append(err, requests.Close())
	if waitErr := peer.Wait(); waitErr != nil && err == nil {
		err = fmt.Errorf("peer exited: %w", waitErr)
	}

	if err != nil {
		log.Errorw("round trip failed", "records", summary.records, "error", err)
		return &reportedError{err}
	}

	fmt.Fprintf(
		cmd.OutOrStdout(), "verified %d records (%d bytes in, %d bytes compressed)\n",
		summary.records, summary.bytesIn, summary.bytesOut,
	)
	return nil
}

func roundTrip(
	cmd *cobra.Command, f *framer.Framer, sum ports.ChecksumPort, requests io.Writer, responses io.Reader, recordSize int,
) (checkSummary, error) {
	var summary checkSummary
	client := f.NewClient(requests, responses)
	in := cmd.InOrStdin()
	buf := make([]byte, recordSize)

	for {
		n, readErr := io.ReadFull(in, buf)
		if n > 0 {
			payload := buf[:n]

			compressed, err := client.Compress(cmd.Context(), payload)
			if err != nil {
				return summary, err
			}

			restored, err := f.Decompress(compressed)
			if err != nil {
				return summary, services.NewFrameError(domain.ErrorVerification, "decompress response", summary.records, err)
			}

			if expected := sum.Calculate(payload); !sum.Verify(restored, expected) {
				return summary, services.NewFrameError(
					domain.ErrorVerification, "verify response", summary.records,
					fmt.Errorf("%w: %s %x", services.ErrChecksumMismatch, sum.Name(), expected),
				)
			}

			summary.records++
			summary.bytesIn += uint64(n)
			summary.bytesOut += uint64(len(compressed))
		}

		if errors.Is(readErr, io.EOF) || errors.Is(readErr, io.ErrUnexpectedEOF) {
			break
		}
		if readErr != nil {
			return summary, services.NewFrameError(domain.ErrorRead, "read input", summary.records, readErr)
		}
	}

	return summary, client.Close()
}
