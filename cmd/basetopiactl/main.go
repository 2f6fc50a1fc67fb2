// Command basetopiactl runs one-off maintenance tasks against the Basetopia
// database: schema migration, counter setup, catalog import and highlight
// ingestion.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/basetopia/basetopia-backend/internal/config"
	"github.com/basetopia/basetopia-backend/internal/database"
	"github.com/basetopia/basetopia-backend/internal/logging"
	"github.com/basetopia/basetopia-backend/internal/store"
)

var (
	cfg *config.Config
	db  *gorm.DB
)

var rootCmd = &cobra.Command{
	Use:           "basetopiactl",
	Short:         "Basetopia maintenance commands",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load()
		if err != nil {
			return err
		}
		logging.Setup(cfg.LogLevel)

		db, err = database.Connect(cfg)
		if err != nil {
			return fmt.Errorf("connect database: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if db == nil {
			return
		}
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd, initCounterCmd, importCatalogCmd, ingestCmd)
}

func newStore() *store.Store {
	return store.New(db)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		slog.Error("command failed", "error", err)
		os.Exit(1)
	}
}
