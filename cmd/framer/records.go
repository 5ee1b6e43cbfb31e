package main

import (
	"github.com/iamNilotpal/framer/internal/core/domain"
	"github.com/spf13/cobra"
)

func newRecordsCmd(root *rootFlags) *cobra.Command {
	var (
		maxRecordSize uint32
		shortRead     string
		verify        bool
		checksum      string
	)

	cmd := &cobra.Command{
		Use:   "records",
		Short: "Compress length-prefixed records one at a time",
		Long: "Reads records of a 4-byte big-endian length followed by that many bytes,\n" +
			"and writes each one back compressed behind its own 4-byte length.\n" +
			"A zero length or the end of input stops the run.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := root.loadConfig(cmd)
			if err != nil {
				return err
			}

			flags := cmd.Flags()
			if flags.Changed("max-record-size") {
				cfg.Records.MaxRecordSize = maxRecordSize
			}
			if flags.Changed("short-read") {
				cfg.Records.ShortRead = shortRead
			}
			if flags.Changed("verify") {
				cfg.Records.Verify = verify
			}
			if flags.Changed("checksum") {
				cfg.Records.Checksum = checksum
			}

			return run(cmd, cfg, domain.ModeRecords)
		},
	}

	flags := cmd.Flags()
	flags.Uint32Var(&maxRecordSize, "max-record-size", 0, "largest accepted record payload in bytes")
	flags.StringVar(&shortRead, "short-read", "", "payload read policy: strict or single")
	flags.BoolVar(&verify, "verify", false, "decompress every record and compare checksums")
	flags.StringVar(&checksum, "checksum", "", "checksum used by --verify")

	return cmd
}
