package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/iota-uz/freight-dwh/modules/dwh/services"
	"github.com/iota-uz/freight-dwh/pkg/configuration"
)

func newLoadRangeCmd() *cobra.Command {
	var (
		only    string
		force   bool
		verbose bool
		quiet   bool
	)

	cmd := &cobra.Command{
		Use:   "load-range <from YYYYMMDD> <to YYYYMMDD>",
		Short: "Load a span of days, continuing past per-file failures",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := configuration.Use()
			log := cfg.Logger()
			applyVerbosity(log, verbose, quiet)

			pool, err := connectDB(cmd.Context())
			if err != nil {
				return err
			}
			defer pool.Close()

			ctl := newController(pool, cfg, log)
			summary, err := ctl.LoadRange(cmd.Context(), args[0], args[1], services.LoadOptions{
				Only:  only,
				Force: force,
			})
			if summary != nil {
				fmt.Print(summary.Render(verbose))
			}
			return err
		},
	}

	cmd.Flags().StringVar(&only, "only", "", "Process only file names containing this substring")
	cmd.Flags().BoolVar(&force, "force", false, "Reprocess files the ingestion ledger has already seen")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Debug logging plus per-table row movement in the summary")
	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "Errors only")
	return cmd
}
