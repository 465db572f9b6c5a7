package main

import (
	"github.com/spf13/cobra"

	"github.com/Bbowlby22/oxproxion"
	"github.com/Bbowlby22/oxproxion/config"
)

func newRootCmd() *cobra.Command {
	var configPath string

	rootCmd := &cobra.Command{
		Use:           "oxproxion",
		Short:         "Federation and routing engine between two knowledge repositories",
		Long:          "oxproxion synchronizes knowledge entries between two repositories, resolves conflicting entries, routes problems to the least loaded agent, and records every decision in durable state documents.",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "oxproxion.yaml", "path to the YAML configuration file")

	rootCmd.AddCommand(
		newStatusCmd(&configPath),
		newSolveCmd(&configPath),
		newSyncCmd(&configPath),
		newExportCmd(&configPath),
		newImportCmd(&configPath),
	)

	return rootCmd
}

// openEngine builds a fully wired engine from the configuration file. The
// caller owns the returned engine and must Close it.
func openEngine(configPath string) (*oxproxion.Engine, *config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, err
	}
	engine, err := oxproxion.NewFromConfig(cfg)
	if err != nil {
		return nil, nil, err
	}
	return engine, cfg, nil
}
