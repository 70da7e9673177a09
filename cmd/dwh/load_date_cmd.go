package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/iota-uz/freight-dwh/modules/dwh/services"
	"github.com/iota-uz/freight-dwh/pkg/configuration"
)

func newLoadDateCmd() *cobra.Command {
	var (
		only    string
		limit   int
		force   bool
		verbose bool
		quiet   bool
	)

	cmd := &cobra.Command{
		Use:   "load-date <YYYYMMDD>",
		Short: "Load every XML file dropped for one day",
		Args:  cobra.ExactArgs(1),
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
			summary, err := ctl.LoadDate(cmd.Context(), args[0], services.LoadOptions{
				Only:  only,
				Limit: limit,
				Force: force,
			})
			// The summary is rendered no matter how the run ended.
			if summary != nil {
				fmt.Print(summary.Render(verbose))
			}
			return err
		},
	}

	cmd.Flags().StringVar(&only, "only", "", "Process only file names containing this substring")
	cmd.Flags().IntVar(&limit, "limit", 0, "Stop after N files (0 = no limit)")
	cmd.Flags().BoolVar(&force, "force", false, "Reprocess files the ingestion ledger has already seen")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Debug logging plus per-table row movement in the summary")
	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "Errors only")
	return cmd
}
