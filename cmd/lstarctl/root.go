package main

import (
	"github.com/lstarinfer/lstar"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

func newRootCommand(logger zerolog.Logger) *cobra.Command {
	var verbose bool

	root := &cobra.Command{
		Use:     "lstarctl",
		Short:   "Learn a Mealy machine from a teacher via active automata learning",
		Version: lstar.Version,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if verbose {
				logger = logger.Level(zerolog.DebugLevel)
			} else {
				logger = logger.Level(zerolog.InfoLevel)
			}
		},
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(newLearnCommand(&logger))
	return root
}
