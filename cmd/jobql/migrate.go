package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/rpattn/jobql/internal/db"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply or roll back database migrations",
	RunE:  migrateRunE,
}

var migrateArgs struct {
	down    int
	version bool
}

func init() {
	migrateCmd.Flags().IntVar(&migrateArgs.down, "down", 0, "Roll back this many migrations instead of applying")
	migrateCmd.Flags().BoolVar(&migrateArgs.version, "version", false, "Print the current schema version and exit")
	rootCmd.AddCommand(migrateCmd)
}

func migrateRunE(cmd *cobra.Command, args []string) error {
	switch {
	case migrateArgs.version:
		version, dirty, err := db.MigrationVersion(cfg.Database)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "version %d (dirty: %t)\n", version, dirty)
		return nil
	case migrateArgs.down > 0:
		if err := db.RollbackMigrations(cfg.Database, migrateArgs.down); err != nil {
			return err
		}
		logger.Info("migrations rolled back", zap.Int("steps", migrateArgs.down))
		return nil
	default:
		if err := db.RunMigrations(cfg.Database); err != nil {
			return err
		}
		logger.Info("migrations applied")
		return nil
	}
}
