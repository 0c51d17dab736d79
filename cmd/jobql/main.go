package main

import (
	"fmt"
	"os"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/rpattn/jobql/internal/config"
	"github.com/rpattn/jobql/internal/logging"
)

var rootCmd = &cobra.Command{
	Use:               "jobql",
	Short:             "Job listings filtered by a boolean query language",
	Long:              `Serves and explains job listing queries written in the jobql filter language, and manages the backing Postgres schema`,
	SilenceErrors:     true,
	SilenceUsage:      true,
	PersistentPreRunE: rootPreRunE,
}

var rootArgs struct {
	configPath string
	logLevel   string
	logFormat  string
}

// Populated by rootPreRunE for every subcommand.
var (
	cfg    config.Config
	logger *zap.Logger
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&rootArgs.configPath, "config", "c", ".", "Directory containing config.yaml")
	rootCmd.PersistentFlags().StringVar(&rootArgs.logLevel, "log-level", "", "Log level override (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&rootArgs.logFormat, "log-format", "", "Log format override (json, console)")
}

func rootPreRunE(cmd *cobra.Command, args []string) error {
	loaded, err := config.Load(rootArgs.configPath)
	if err != nil {
		return errors.Wrap(err, "load configuration")
	}
	if rootArgs.logLevel != "" {
		loaded.Log.Level = rootArgs.logLevel
	}
	if rootArgs.logFormat != "" {
		loaded.Log.Format = rootArgs.logFormat
	}

	l, err := logging.New(loaded.Log.Level, loaded.Log.Format)
	if err != nil {
		return err
	}
	cfg = loaded
	logger = l
	return nil
}

func main() {
	err := rootCmd.Execute()
	if logger != nil {
		_ = logger.Sync()
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
