package main

import (
	"fmt"

	"github.com/gdg-garage/memorial-api/internal/database"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := database.Connect(cfg); err != nil {
			return err
		}
		log.Info().Str("driver", cfg.DatabaseDriver).Msg("Schema is up to date")
		return nil
	},
}

var reconcileCmd = &cobra.Command{
	Use:   "reconcile <slug>",
	Short: "Promote waitlisted RSVPs of a memorial into free capacity",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := database.Connect(cfg)
		if err != nil {
			return err
		}

		svc := newService(cmd.Context(), db)
		res, err := svc.Reconcile(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		svc.Wait()
		fmt.Fprintf(cmd.OutOrStdout(), "promoted=%d remaining=%d\n", res.Promoted, res.Remaining)
		return nil
	},
}
