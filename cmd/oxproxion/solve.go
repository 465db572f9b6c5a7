package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newSolveCmd(configPath *string) *cobra.Command {
	var problemType string

	cmd := &cobra.Command{
		Use:   "solve <problem>",
		Short: "Route a problem to an agent and record the solution",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, _, err := openEngine(*configPath)
			if err != nil {
				return err
			}
			defer engine.Close()

			record, err := engine.Solve(cmd.Context(), args[0], problemType)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "routed %q (%s) to %s\n",
				record.Problem, record.ProblemType, record.SolvedBy)
			return nil
		},
	}

	cmd.Flags().StringVarP(&problemType, "type", "t", "", "problem type (defaults to general)")
	return cmd
}
