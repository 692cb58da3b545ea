package app

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"horse.fit/landbase/internal/cli"
	"horse.fit/landbase/internal/db"
)

func runFinalize(args []string) int {
	fs := flag.NewFlagSet("finalize", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	envLoader := cli.AddEnvFlag(fs, ".env", "Path to the .env file")
	timeout := fs.Duration("timeout", 0, "Command timeout (0 means no timeout)")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "finalize does not accept positional arguments")
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

	if err := pool.Finalize(ctx); err != nil {
		logger.Error().Err(err).Msg("finalize failed")
		fmt.Fprintf(os.Stderr, "Finalize failed: %v\n", err)
		return 1
	}

	logger.Info().Msg("finalize completed")
	fmt.Println("ok: fts index rebuilt, table analyzed and compacted")
	return 0
}
