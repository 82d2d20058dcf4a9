package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kushwaha-yash/loan-risk/internal/infrastructure/config"
	"github.com/kushwaha-yash/loan-risk/pkg/postgres"
)

func newMigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply or roll back database migrations",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Apply pending migrations",
			RunE: func(cmd *cobra.Command, _ []string) error {
				cfg := config.Load()
				if err := postgres.RunMigrations(cfg.Postgres().DSN(), cfg.MigrationsSource()); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "migrations applied")
				return nil
			},
		},
		&cobra.Command{
			Use:   "down",
			Short: "Roll back every migration",
			RunE: func(cmd *cobra.Command, _ []string) error {
				cfg := config.Load()
				if err := postgres.RunMigrationsDown(cfg.Postgres().DSN(), cfg.MigrationsSource()); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "migrations rolled back")
				return nil
			},
		},
	)
	return cmd
}
