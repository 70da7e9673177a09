package main

import (
	"database/sql"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/spf13/cobra"

	"github.com/iota-uz/freight-dwh/pkg/configuration"
)

func newInitDBCmd() *cobra.Command {
	var down bool

	cmd := &cobra.Command{
		Use:   "init-db",
		Short: "Apply warehouse schema migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := configuration.Use()
			if err := cfg.Database.Validate(); err != nil {
				return err
			}

			db, err := sql.Open("pgx", cfg.Database.Opts)
			if err != nil {
				return err
			}
			defer func() {
				_ = db.Close()
			}()

			if err := goose.SetDialect("postgres"); err != nil {
				return err
			}
			if down {
				return goose.Down(db, cfg.MigrationsDir)
			}
			return goose.Up(db, cfg.MigrationsDir)
		},
	}

	cmd.Flags().BoolVar(&down, "down", false, "Roll back the most recent migration instead")
	return cmd
}
