package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var Version = "dev"

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	rootCmd := &cobra.Command{
		Use:           "focusflow",
		Short:         "FocusFlow - weekly planner, habit tracker and coin economy",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd, opts)
		},
	}
	opts.bind(rootCmd)

	rootCmd.AddCommand(tuiCmd(opts))
	rootCmd.AddCommand(summaryCmd(opts))
	rootCmd.AddCommand(tasksCmd(opts))
	rootCmd.AddCommand(ledgerCmd(opts))
	rootCmd.AddCommand(doCmd(opts))
	rootCmd.AddCommand(watchCmd(opts))
	rootCmd.AddCommand(weekCmd(opts))
	rootCmd.AddCommand(resetCmd(opts))
	rootCmd.AddCommand(configCmd(opts))
	return rootCmd
}
