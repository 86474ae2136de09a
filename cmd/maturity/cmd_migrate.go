package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"maturity/internal/logger"
)

var migrateFlags struct {
	down bool
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply (or roll back) the database schema",
	RunE:  runMigrate,
}

func init() {
	migrateCmd.Flags().BoolVar(&migrateFlags.down, "down", false, "Roll back the most recent migration")
}

func runMigrate(cmd *cobra.Command, _ []string) error {
	log, err := logger.New("cli")
	if err != nil {
		return err
	}
	defer log.Sync()

	db, err := connectDB(cmd.Context(), log)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := db.Migrate(cmd.Context(), migrateFlags.down); err != nil {
		return err
	}
	if migrateFlags.down {
		fmt.Fprintln(cmd.OutOrStdout(), "rolled back one migration")
	} else {
		fmt.Fprintln(cmd.OutOrStdout(), "schema up to date")
	}
	return nil
}
