package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"blogly/store"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database tables",
	Long: `Create or update the users, posts, tags and posttags tables in the
configured database. Nothing is dropped.`,
	RunE: runMigrate,
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}

func runMigrate(cmd *cobra.Command, args []string) error {
	if cfg.Database.Driver == "memory" {
		return errors.New("migrate needs a persistent database; database.driver is memory")
	}
	db, err := store.Open(storeOptions(), logger)
	if err != nil {
		return err
	}
	if sqlDB, err := db.DB(); err == nil {
		defer sqlDB.Close()
	}
	if err := store.Migrate(db); err != nil {
		return err
	}
	logger.Info("migration complete", "driver", cfg.Database.Driver)
	fmt.Fprintln(cmd.OutOrStdout(), "tables are up to date")
	return nil
}

func storeOptions() store.Options {
	return store.Options{
		Driver: cfg.Database.Driver,
		DSN:    cfg.Database.DSN,
		Echo:   cfg.Database.Echo,
	}
}
