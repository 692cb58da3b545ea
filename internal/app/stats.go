package app

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"horse.fit/landbase/internal/cli"
	"horse.fit/landbase/internal/db"
	"horse.fit/landbase/internal/enrich"
)

func runStats(args []string) int {
	fs := flag.NewFlagSet("stats", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	envLoader := cli.AddEnvFlag(fs, ".env", "Path to the .env file")
	timeout := fs.Duration("timeout", 30*time.Second, "Command timeout")
	format := fs.String("format", outputFormatTable, "Output format: table or json")
	runLimit := fs.Int("runs", 10, "How many recent runs to list")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "stats does not accept positional arguments")
		return 2
	}

	outputFormat, err := parseOutputFormat(*format, outputFormatTable)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid format: %v\n", err)
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

	coverage, err := pool.FieldCoverage(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to query field coverage: %v\n", err)
		return 1
	}
	runs, err := pool.ListRecentRuns(ctx, *runLimit)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to query recent runs: %v\n", err)
		return 1
	}

	if outputFormat == outputFormatJSON {
		if err := printJSON(map[string]any{"coverage": coverage, "runs": runs}); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to encode JSON: %v\n", err)
			return 1
		}
		return 0
	}

	coverageRows := make([][]string, 0, len(coverage.Fields))
	for _, column := range enrich.Columns() {
		count := coverage.Fields[column]
		percent := 0.0
		if coverage.Total > 0 {
			percent = float64(count) / float64(coverage.Total) * 100
		}
		coverageRows = append(coverageRows, []string{
			column,
			fmt.Sprintf("%d", count),
			fmt.Sprintf("%.1f%%", percent),
		})
	}
	coverageRows = append(coverageRows, []string{"TOTAL ROWS", fmt.Sprintf("%d", coverage.Total), ""})
	if err := writeTable([]string{"field", "populated", "coverage"}, coverageRows); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to render coverage table: %v\n", err)
		return 1
	}

	if len(runs) > 0 {
		fmt.Println()
		runRows := make([][]string, 0, len(runs))
		for _, run := range runs {
			finished := ""
			if run.FinishedAt != nil {
				finished = run.FinishedAt.UTC().Format(time.RFC3339)
			}
			runRows = append(runRows, []string{
				fmt.Sprintf("%d", run.RunID),
				run.Source,
				run.Status,
				fmt.Sprintf("%d", run.ItemsScanned),
				fmt.Sprintf("%d", run.ItemsInserted),
				fmt.Sprintf("%d", run.ItemsEnriched),
				fmt.Sprintf("%d", run.ItemsDuplicated),
				fmt.Sprintf("%d", run.ItemsDiscarded),
				finished,
			})
		}
		if err := writeTable([]string{"run", "source", "status", "scanned", "inserted", "enriched", "duplicated", "discarded", "finished"}, runRows); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to render run table: %v\n", err)
			return 1
		}
	}

	return 0
}
