package main

import (
	"os"

	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dwh",
		Short: "Freight document warehouse loader",
	}
	cmd.AddCommand(newLoadDateCmd())
	cmd.AddCommand(newLoadRangeCmd())
	cmd.AddCommand(newInitDBCmd())
	return cmd
}

func execute() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
