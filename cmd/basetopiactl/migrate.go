package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/basetopia/basetopia-backend/internal/database"
	"github.com/basetopia/basetopia-backend/internal/store"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := database.Migrate(db); err != nil {
			return err
		}
		if err := newStore().EnsureCounter(cmd.Context(), store.PostsCounter); err != nil {
			return err
		}
		slog.Info("migration completed", "driver", cfg.DBDriver)
		return nil
	},
}

var initCounterCmd = &cobra.Command{
	Use:   "init-counter",
	Short: "Align the post id counter with the stored posts",
	Long: `Set the posts counter to the highest existing post id (zero on an empty
database). Safe to run repeatedly: the next created post always gets a new id.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		seq, err := newStore().ResetPostsCounter(cmd.Context())
		if err != nil {
			return err
		}
		slog.Info("posts counter initialised", "value", seq)
		return nil
	},
}
