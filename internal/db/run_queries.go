package db

import (
	"context"
	"fmt"
	"time"
)

// RunTotals is the per-run ledger snapshot written when a run finishes.
type RunTotals struct {
	Scanned          int
	Inserted         int
	Enriched         int
	Duplicated       int
	Discarded        int
	DiscardNoAddress int
	DiscardNoNumber  int
	DiscardParse     int
}

// InsertRun opens a ledger row for a new ingestion run.
func (p *Pool) InsertRun(ctx context.Context, source, sourcePath string) (int64, error) {
	const q = `
INSERT INTO land.ingest_runs (source, source_path, status, started_at)
VALUES ($1, $2, 'running', now())
RETURNING run_id
`
	var runID int64
	if err := p.QueryRow(ctx, q, source, sourcePath).Scan(&runID); err != nil {
		return 0, fmt.Errorf("insert ingest run: %w", err)
	}
	return runID, nil
}

// CompleteRun closes the ledger row with final counts.
func (p *Pool) CompleteRun(ctx context.Context, runID int64, totals RunTotals) error {
	const q = `
UPDATE land.ingest_runs
SET status = 'completed',
    finished_at = $2,
    items_scanned = $3,
    items_inserted = $4,
    items_enriched = $5,
    items_duplicated = $6,
    items_discarded = $7,
    discard_no_address = $8,
    discard_no_number = $9,
    discard_parse = $10,
    updated_at = $2
WHERE run_id = $1
`
	tag, err := p.Exec(ctx, q, runID, time.Now().UTC(),
		totals.Scanned, totals.Inserted, totals.Enriched, totals.Duplicated,
		totals.Discarded, totals.DiscardNoAddress, totals.DiscardNoNumber,
		totals.DiscardParse)
	if err != nil {
		return fmt.Errorf("complete ingest run: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNoRows
	}
	return nil
}

// FailRun closes the ledger row with the failure message and whatever counts
// were reached before the abort.
func (p *Pool) FailRun(ctx context.Context, runID int64, totals RunTotals, runErr error) error {
	message := "unknown error"
	if runErr != nil {
		message = runErr.Error()
	}
	const q = `
UPDATE land.ingest_runs
SET status = 'failed',
    finished_at = $2,
    items_scanned = $3,
    items_inserted = $4,
    items_enriched = $5,
    items_duplicated = $6,
    items_discarded = $7,
    discard_no_address = $8,
    discard_no_number = $9,
    discard_parse = $10,
    error_message = $11,
    updated_at = $2
WHERE run_id = $1
`
	tag, err := p.Exec(ctx, q, runID, time.Now().UTC(),
		totals.Scanned, totals.Inserted, totals.Enriched, totals.Duplicated,
		totals.Discarded, totals.DiscardNoAddress, totals.DiscardNoNumber,
		totals.DiscardParse, message)
	if err != nil {
		return fmt.Errorf("fail ingest run: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNoRows
	}
	return nil
}

// ListRecentRuns returns the newest ledger rows, newest first.
func (p *Pool) ListRecentRuns(ctx context.Context, limit int) ([]IngestRun, error) {
	if p == nil || p.gdb == nil {
		return nil, fmt.Errorf("database pool is not initialized")
	}
	if limit < 1 {
		limit = 10
	}
	var runs []IngestRun
	err := p.gdb.WithContext(ctx).
		Order("run_id desc").
		Limit(limit).
		Find(&runs).Error
	if err != nil {
		return nil, fmt.Errorf("list recent runs: %w", err)
	}
	return runs, nil
}
