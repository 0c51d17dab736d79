package main

import (
	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/rpattn/jobql/internal/db"
	"github.com/rpattn/jobql/internal/seed"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load demo languages, locations, categories, attributes and jobs",
	RunE:  seedRunE,
}

var seedArgs struct {
	jobs  int
	seed  int64
	reset bool
}

func init() {
	seedCmd.Flags().IntVar(&seedArgs.jobs, "jobs", 500, "Number of jobs to generate")
	seedCmd.Flags().Int64Var(&seedArgs.seed, "seed", 1, "Random seed; the same seed produces the same jobs")
	seedCmd.Flags().BoolVar(&seedArgs.reset, "reset", false, "Delete existing jobs first")
	rootCmd.AddCommand(seedCmd)
}

func seedRunE(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	conn, err := db.NewConnection(ctx, cfg.Database)
	if err != nil {
		return errors.Wrap(err, "connect to database")
	}
	defer conn.Close()

	return seed.NewSeeder(conn, logger.Named("seed")).Run(ctx, seed.Options{
		Jobs:  seedArgs.jobs,
		Seed:  seedArgs.seed,
		Reset: seedArgs.reset,
	})
}
