package main

import (
	"github.com/iamNilotpal/framer/internal/core/domain"
	"github.com/spf13/cobra"
)

func newStreamCmd(root *rootFlags) *cobra.Command {
	var chunkSize uint32

	cmd := &cobra.Command{
		Use:   "stream",
		Short: "Compress the whole input as one continuous stream",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := root.loadConfig(cmd)
			if err != nil {
				return err
			}

			if cmd.Flags().Changed("chunk-size") {
				cfg.Stream.ChunkSize = chunkSize
			}

			return run(cmd, cfg, domain.ModeStream)
		},
	}

	cmd.Flags().Uint32Var(&chunkSize, "chunk-size", 0, "bytes read from input per chunk")
	return cmd
}
