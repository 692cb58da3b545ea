package app

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"horse.fit/landbase/internal/cli"
	"horse.fit/landbase/internal/config"
	"horse.fit/landbase/internal/db"
	"horse.fit/landbase/internal/ingest"
	"horse.fit/landbase/internal/source"
)

func runIngest(args []string) int {
	fs := flag.NewFlagSet("ingest", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	envLoader := cli.AddEnvFlag(fs, ".env", "Path to the .env file")
	timeout := fs.Duration("timeout", 0, "Command timeout (0 means no timeout)")
	sourceName := fs.String("source", "csv", "Input source: csv, mirror, or snapshot")
	file := fs.String("file", "", "Path to the CSV export (required for --source csv)")
	snapshotDSN := fs.String("snapshot-dsn", "", "Connection string of the snapshot database (required for --source snapshot)")
	finalize := fs.Bool("finalize", true, "Rebuild the FTS index and compact after the run")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "ingest does not accept positional arguments")
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

	src, sourcePath, cleanup, code := buildSource(ctx, cfg, logger, *sourceName, *file, *snapshotDSN, pool)
	if code != 0 {
		return code
	}
	if cleanup != nil {
		defer cleanup()
	}

	svc := ingest.NewService(pool, ingest.Options{
		InsertBatchSize: cfg.InsertBatchSize,
		UpdateBatchSize: cfg.UpdateBatchSize,
		CheckpointEvery: cfg.CheckpointEvery,
		FilterFPRate:    cfg.FilterFPRate,
	}, logger)

	stats, err := svc.Run(ctx, src, sourcePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Ingest failed: %v\n", err)
		return 1
	}

	if *finalize {
		if err := pool.Finalize(ctx); err != nil {
			fmt.Fprintf(os.Stderr, "Finalize failed: %v\n", err)
			return 1
		}
	}

	fmt.Printf("scanned=%d inserted=%d enriched=%d duplicated=%d discarded=%d\n",
		stats.Scanned, stats.Inserted, stats.Enriched, stats.Duplicated, stats.Discarded)
	if stats.Discarded > 0 {
		fmt.Printf("discard_no_address=%d discard_no_number=%d discard_parse=%d\n",
			stats.DiscardNoAddress, stats.DiscardNoNumber, stats.DiscardParse)
	}
	return 0
}

// buildSource resolves the --source flag into a reader. The returned cleanup,
// when non-nil, closes the snapshot's own connection.
func buildSource(ctx context.Context, cfg *config.Config, logger zerolog.Logger, name, file, snapshotDSN string, pool *db.Pool) (source.Source, string, func(), int) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "csv":
		if strings.TrimSpace(file) == "" {
			fmt.Fprintln(os.Stderr, "--file is required for --source csv")
			return nil, "", nil, 2
		}
		return source.NewCSV(file, logger), file, nil, 0
	case "mirror":
		return source.NewMirror(pool, cfg.SweepChunkSize, logger), "", nil, 0
	case "snapshot":
		if strings.TrimSpace(snapshotDSN) == "" {
			fmt.Fprintln(os.Stderr, "--snapshot-dsn is required for --source snapshot")
			return nil, "", nil, 2
		}
		snapshotPool, err := db.NewReadPool(ctx, cfg, snapshotDSN)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to connect to snapshot database: %v\n", err)
			return nil, "", nil, 1
		}
		return source.NewSnapshot(snapshotPool, cfg.SweepChunkSize, logger), snapshotDSN, func() { snapshotPool.Close() }, 0
	default:
		fmt.Fprintf(os.Stderr, "unknown source: %s (expected csv, mirror, or snapshot)\n", name)
		return nil, "", nil, 2
	}
}

func commandContext(timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout > 0 {
		return context.WithTimeout(context.Background(), timeout)
	}
	return context.WithCancel(context.Background())
}
