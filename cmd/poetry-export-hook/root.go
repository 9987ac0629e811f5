package main

import (
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "poetry-export-hook",
		Short:         "Keep requirements files in sync with poetry export",
		Version:       version,
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	cmd.PersistentFlags().StringP("chdir", "C", ".", "Run as if started in this directory")
	cmd.PersistentFlags().String("config", "", "Config file (default .poetry-export.yaml in --chdir)")
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Print debug logs")

	cmd.AddCommand(
		newCheckCmd(),
		newInitCmd(),
		newDoctorCmd(),
	)

	return cmd
}
