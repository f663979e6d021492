package main

import (
	"fmt"

	"github.com/sensei-learn/backend/internal/config"
	"github.com/sensei-learn/backend/internal/database"
	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply database migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		db, err := database.Connect(cfg.DB)
		if err != nil {
			return err
		}
		defer db.Close()

		steps, _ := cmd.Flags().GetInt("rollback")
		if steps > 0 {
			if err := database.Rollback(db, steps); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Rolled back %d migration(s)\n", steps)
			return nil
		}
		return database.Migrate(db)
	},
}

func init() {
	migrateCmd.Flags().Int("rollback", 0, "Revert the last N migrations instead of applying")
}
