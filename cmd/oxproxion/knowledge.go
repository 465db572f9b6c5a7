package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Bbowlby22/oxproxion/learning"
)

func newExportCmd(configPath *string) *cobra.Command {
	var journalPath string

	cmd := &cobra.Command{
		Use:   "export <snapshot>",
		Short: "Export journaled learnings to a knowledge snapshot file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, cfg, err := openEngine(*configPath)
			if err != nil {
				return err
			}
			defer engine.Close()

			path := journalPath
			if path == "" {
				path = cfg.Advisor.JournalPath
			}
			if path == "" {
				return fmt.Errorf("no learning journal configured, set advisor.journal_path or --journal")
			}

			source := learning.NewJournalSource(path, cfg.RepoB)
			snap, err := engine.ExportSnapshot(cmd.Context(), source, args[0])
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "exported %d entries to %s\n", snap.TotalEntries, args[0])
			return nil
		},
	}

	cmd.Flags().StringVar(&journalPath, "journal", "", "learning journal to export (defaults to advisor.journal_path)")
	return cmd
}

func newImportCmd(configPath *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import <snapshot>",
		Short: "Import a knowledge snapshot into the learning backend",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, _, err := openEngine(*configPath)
			if err != nil {
				return err
			}
			defer engine.Close()

			result, err := engine.ImportSnapshot(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "imported %d entries (%d malformed, %d errors), avg confidence %.2f across %d categories\n",
				result.Imported, result.Malformed, result.Errors, result.AvgConfidence, result.Categories)
			return nil
		},
	}
	return cmd
}
