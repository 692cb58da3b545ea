package app

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"horse.fit/landbase/internal/backfill"
	"horse.fit/landbase/internal/cli"
	"horse.fit/landbase/internal/db"
)

func runBackfill(args []string) int {
	fs := flag.NewFlagSet("backfill", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	envLoader := cli.AddEnvFlag(fs, ".env", "Path to the .env file")
	timeout := fs.Duration("timeout", 0, "Command timeout (0 means no timeout)")
	dryRun := fs.Bool("dry-run", false, "Compute and count updates without writing")
	community := fs.Bool("community", false, "Run the community-name backfill instead of the field sweep")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "backfill does not accept positional arguments")
		return 2
	}

	cfg, logger, err := loadConfigAndLogger(envLoader)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	ctx, cancel := commandContext(*timeout)
	defer cancel()

	pool, err := db.NewPool(ctx, cfg)
	if err != nil {
		logger.Error().Err(err).Msg("database connection failed")
		fmt.Fprintf(os.Stderr, "Failed to connect to database: %v\n", err)
		return 1
	}
	defer pool.Close()

	// The chunked read cursor runs on its own connection so its pagination
	// is not interleaved with the write side's commits.
	readPool, err := db.NewReadPool(ctx, cfg, "")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open read cursor: %v\n", err)
		return 1
	}
	defer readPool.Close()

	opts := backfill.Options{
		ChunkSize:       cfg.SweepChunkSize,
		UpdateBatchSize: cfg.UpdateBatchSize,
		CheckpointEvery: cfg.CheckpointEvery,
		DryRun:          *dryRun,
	}

	if *community {
		stats, err := backfill.NewCommunity(readPool, pool, opts, logger).Run(ctx)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Community backfill failed: %v\n", err)
			return 1
		}
		fmt.Printf("mirror_rows=%d rules=%d applied=%d rows=%d dry_run=%t\n",
			stats.MirrorRows, stats.Rules, stats.Applied, stats.Rows, *dryRun)
		return 0
	}

	stats, err := backfill.NewSweeper(readPool, pool, opts, logger).Run(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Backfill sweep failed: %v\n", err)
		return 1
	}
	fmt.Printf("scanned=%d candidates=%d updated=%d skipped_complete=%d skipped_ranges=%d dry_run=%t\n",
		stats.Scanned, stats.Candidates, stats.Updated, stats.SkippedComplete, stats.SkippedRanges, *dryRun)
	return 0
}
