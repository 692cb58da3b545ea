package db

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/mmcloughlin/geohash"

	"horse.fit/landbase/internal/enrich"
)

// CountDedupKeys returns the number of keyed rows, for sizing the
// membership filter before a run.
func (p *Pool) CountDedupKeys(ctx context.Context) (int64, error) {
	var count int64
	const q = `
SELECT count(*)
FROM land.transactions
WHERE dedup_key <> ''
`
	if err := p.QueryRow(ctx, q).Scan(&count); err != nil {
		return 0, fmt.Errorf("count dedup keys: %w", err)
	}
	return count, nil
}

// LoadDedupKeys streams every non-empty dedup key to fn and returns how many
// were streamed.
func (p *Pool) LoadDedupKeys(ctx context.Context, fn func(key string)) (int64, error) {
	const q = `
SELECT dedup_key
FROM land.transactions
WHERE dedup_key <> ''
`
	rows, err := p.Query(ctx, q)
	if err != nil {
		return 0, fmt.Errorf("load dedup keys: %w", err)
	}
	defer rows.Close()

	var loaded int64
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return loaded, fmt.Errorf("scan dedup key: %w", err)
		}
		fn(key)
		loaded++
	}
	if err := rows.Err(); err != nil {
		return loaded, fmt.Errorf("iterate dedup keys: %w", err)
	}
	return loaded, nil
}

// FindByDedupKey returns the row id and enrichable slice of the row holding
// key. ErrNoRows when absent.
func (p *Pool) FindByDedupKey(ctx context.Context, key string) (int64, enrich.Payload, error) {
	const q = `
SELECT id, lat, lng, community_name, building_type, main_use, has_management,
       rooms, halls, bathrooms, building_area, unit_price, transaction_type,
       floor_level, total_floors, note
FROM land.transactions
WHERE dedup_key = $1
LIMIT 1
`
	var (
		id      int64
		payload enrich.Payload
	)
	err := p.QueryRow(ctx, q, key).Scan(
		&id, &payload.Lat, &payload.Lng, &payload.CommunityName,
		&payload.BuildingType, &payload.MainUse, &payload.HasManagement,
		&payload.Rooms, &payload.Halls, &payload.Bathrooms,
		&payload.BuildingArea, &payload.UnitPrice, &payload.TransactionType,
		&payload.FloorLevel, &payload.TotalFloors, &payload.Note,
	)
	if err != nil {
		if errors.Is(err, ErrNoRows) {
			return 0, enrich.Payload{}, ErrNoRows
		}
		return 0, enrich.Payload{}, fmt.Errorf("find by dedup key: %w", err)
	}
	return id, payload, nil
}

// InsertTransactions writes a batch of new rows in one transaction. All rows
// commit or none do.
func (p *Pool) InsertTransactions(ctx context.Context, rows []*Transaction) error {
	if len(rows) == 0 {
		return nil
	}
	if p == nil || p.gdb == nil {
		return fmt.Errorf("database pool is not initialized")
	}

	now := time.Now().UTC()
	for _, row := range rows {
		row.RefreshGeohash()
		row.CreatedAt = now
		row.UpdatedAt = now
	}

	tx := p.gdb.WithContext(ctx).Begin()
	if tx.Error != nil {
		return fmt.Errorf("begin insert transaction: %w", tx.Error)
	}
	if err := tx.CreateInBatches(rows, 500).Error; err != nil {
		tx.Rollback()
		return fmt.Errorf("insert transactions: %w", err)
	}
	if err := tx.Commit().Error; err != nil {
		return fmt.Errorf("commit insert transaction: %w", err)
	}
	return nil
}

// RowUpdate is one queued partial update: the target row and the columns the
// merge engine decided to fill.
type RowUpdate struct {
	ID      int64
	Columns map[string]any
}

// ApplyUpdates applies a batch of partial updates in one transaction, one
// UPDATE per row. Columns are ordered deterministically; a lat+lng pair also
// refreshes the geohash column.
func (p *Pool) ApplyUpdates(ctx context.Context, updates []RowUpdate) error {
	if len(updates) == 0 {
		return nil
	}

	tx, err := p.BeginTx(ctx, TxOptions{})
	if err != nil {
		return fmt.Errorf("begin update transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	for _, update := range updates {
		if update.ID == 0 || len(update.Columns) == 0 {
			continue
		}
		if err := applyRowUpdate(ctx, tx, update); err != nil {
			return err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit update transaction: %w", err)
	}
	return nil
}

func applyRowUpdate(ctx context.Context, tx Tx, update RowUpdate) error {
	columns := make([]string, 0, len(update.Columns))
	for column := range update.Columns {
		columns = append(columns, column)
	}
	sort.Strings(columns)

	set := make([]string, 0, len(columns)+2)
	args := make([]any, 0, len(columns)+2)
	args = append(args, update.ID)
	argPos := 2

	for _, column := range columns {
		set = append(set, fmt.Sprintf("%s = $%d", column, argPos))
		args = append(args, update.Columns[column])
		argPos++
	}

	if gh, ok := geohashFromUpdates(update.Columns); ok {
		set = append(set, fmt.Sprintf("geohash = $%d", argPos))
		args = append(args, gh)
		argPos++
	}

	set = append(set, fmt.Sprintf("updated_at = $%d", argPos))
	args = append(args, time.Now().UTC())

	q := fmt.Sprintf(`
UPDATE land.transactions
SET
	%s
WHERE id = $1
`, strings.Join(set, ",\n\t"))

	if _, err := tx.Exec(ctx, q, args...); err != nil {
		return fmt.Errorf("update transaction %d: %w", update.ID, err)
	}
	return nil
}

func geohashFromUpdates(columns map[string]any) (string, bool) {
	lat, latOK := columns["lat"].(float64)
	lng, lngOK := columns["lng"].(float64)
	if !latOK || !lngOK || lat == 0 || lng == 0 {
		return "", false
	}
	return geohash.EncodeWithPrecision(lat, lng, 8), true
}

// Checkpoint forces a write-ahead-log checkpoint, bounding recovery-log
// growth between flushes.
func (p *Pool) Checkpoint(ctx context.Context) error {
	if _, err := p.Exec(ctx, "CHECKPOINT"); err != nil {
		return fmt.Errorf("checkpoint: %w", err)
	}
	return nil
}

// Finalize rebuilds the address full-text index, refreshes planner
// statistics and compacts the primary table. Safe to re-run; chained ingests
// may skip it between runs.
func (p *Pool) Finalize(ctx context.Context) error {
	statements := []struct {
		label string
		sql   string
	}{
		{"drop address fts index", `DROP INDEX IF EXISTS land.idx_transactions_address_fts`},
		{"rebuild address fts index", `
CREATE INDEX idx_transactions_address_fts
    ON land.transactions
    USING gin (to_tsvector('simple', address))`},
		{"analyze", `ANALYZE land.transactions`},
		{"vacuum", `VACUUM land.transactions`},
	}
	for _, stmt := range statements {
		if _, err := p.Exec(ctx, stmt.sql); err != nil {
			return fmt.Errorf("%s: %w", stmt.label, err)
		}
	}
	return nil
}

// MaxTransactionID returns the highest row id, the upper bound for id-cursor
// sweeps. Zero when the table is empty.
func (p *Pool) MaxTransactionID(ctx context.Context) (int64, error) {
	var maxID int64
	const q = `
SELECT COALESCE(MAX(id), 0)
FROM land.transactions
`
	if err := p.QueryRow(ctx, q).Scan(&maxID); err != nil {
		return 0, fmt.Errorf("max transaction id: %w", err)
	}
	return maxID, nil
}

// ScanTransactions reads one chunk of rows ordered by id, starting after
// afterID. The sweep resumes from the last id it saw, so shifting row order
// during compaction cannot skip rows.
func (p *Pool) ScanTransactions(ctx context.Context, afterID int64, limit int) ([]Transaction, error) {
	if p == nil || p.gdb == nil {
		return nil, fmt.Errorf("database pool is not initialized")
	}
	var rows []Transaction
	err := p.gdb.WithContext(ctx).
		Where("id > ?", afterID).
		Order("id").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("scan transactions after id %d: %w", afterID, err)
	}
	return rows, nil
}

// ScanMirrorListings reads one chunk of mirror rows ordered by id.
func (p *Pool) ScanMirrorListings(ctx context.Context, afterID int64, limit int) ([]MirrorListing, error) {
	if p == nil || p.gdb == nil {
		return nil, fmt.Errorf("database pool is not initialized")
	}
	var rows []MirrorListing
	err := p.gdb.WithContext(ctx).
		Where("id > ?", afterID).
		Order("id").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("scan mirror listings after id %d: %w", afterID, err)
	}
	return rows, nil
}

// CountCommunityBackfillTargets counts the rows a community backfill rule
// would touch, for dry runs. pattern is a complete LIKE pattern.
func (p *Pool) CountCommunityBackfillTargets(ctx context.Context, district, pattern string) (int64, error) {
	var count int64
	const q = `
SELECT count(*)
FROM land.transactions
WHERE district = $1
  AND address LIKE $2
  AND community_name = ''
`
	if err := p.QueryRow(ctx, q, district, pattern).Scan(&count); err != nil {
		return 0, fmt.Errorf("count community backfill targets: %w", err)
	}
	return count, nil
}

// BackfillCommunity fills community_name for rows matching one backfill rule.
// Only empty community names are written.
func (p *Pool) BackfillCommunity(ctx context.Context, district, pattern, community string) (int64, error) {
	const q = `
UPDATE land.transactions
SET community_name = $3,
    updated_at = now()
WHERE district = $1
  AND address LIKE $2
  AND community_name = ''
`
	tag, err := p.Exec(ctx, q, district, pattern, community)
	if err != nil {
		return 0, fmt.Errorf("backfill community: %w", err)
	}
	return tag.RowsAffected(), nil
}

// Coverage reports per-field population counts over the primary table.
type Coverage struct {
	Total  int64
	Fields map[string]int64
}

// FieldCoverage computes how many rows carry each enrichable field, the
// post-run verification report.
func (p *Pool) FieldCoverage(ctx context.Context) (Coverage, error) {
	const q = `
SELECT count(*),
       count(*) FILTER (WHERE lat <> 0),
       count(*) FILTER (WHERE lng <> 0),
       count(*) FILTER (WHERE community_name <> ''),
       count(*) FILTER (WHERE building_type <> ''),
       count(*) FILTER (WHERE main_use <> ''),
       count(*) FILTER (WHERE has_management <> ''),
       count(*) FILTER (WHERE rooms IS NOT NULL),
       count(*) FILTER (WHERE halls IS NOT NULL),
       count(*) FILTER (WHERE bathrooms IS NOT NULL),
       count(*) FILTER (WHERE building_area <> 0),
       count(*) FILTER (WHERE unit_price <> 0),
       count(*) FILTER (WHERE transaction_type <> ''),
       count(*) FILTER (WHERE floor_level <> ''),
       count(*) FILTER (WHERE total_floors <> ''),
       count(*) FILTER (WHERE note <> '')
FROM land.transactions
`
	coverage := Coverage{Fields: make(map[string]int64, 15)}
	counts := make([]int64, 15)
	err := p.QueryRow(ctx, q).Scan(
		&coverage.Total,
		&counts[0], &counts[1], &counts[2], &counts[3], &counts[4],
		&counts[5], &counts[6], &counts[7], &counts[8], &counts[9],
		&counts[10], &counts[11], &counts[12], &counts[13], &counts[14],
	)
	if err != nil {
		return Coverage{}, fmt.Errorf("field coverage: %w", err)
	}
	for i, column := range enrich.Columns() {
		coverage.Fields[column] = counts[i]
	}
	return coverage, nil
}
