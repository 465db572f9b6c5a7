package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Bbowlby22/oxproxion/core"
	"github.com/Bbowlby22/oxproxion/knowledge"
)

func newSyncCmd(configPath *string) *cobra.Command {
	var reverse bool

	cmd := &cobra.Command{
		Use:   "sync <snapshot>",
		Short: "Register a snapshot of knowledge entries in the sync ledger",
		Long:  "Reads a knowledge snapshot file and records every entry as synchronized from the first configured repository to the second. Use --reverse for the opposite direction.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, cfg, err := openEngine(*configPath)
			if err != nil {
				return err
			}
			defer engine.Close()

			snap, err := knowledge.ReadSnapshot(args[0])
			if err != nil {
				return err
			}

			dir := core.Direction{From: cfg.RepoA, To: cfg.RepoB}
			if reverse {
				dir = dir.Reverse()
			}

			result := engine.SyncBatch(snap.Entries, dir)
			fmt.Fprintf(cmd.OutOrStdout(), "synced %d entries %s, %d errors\n",
				result.Synced, result.Direction, result.Errors)
			return nil
		},
	}

	cmd.Flags().BoolVar(&reverse, "reverse", false, "sync from the second repository to the first")
	return cmd
}
