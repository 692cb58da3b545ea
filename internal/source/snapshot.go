package source

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"horse.fit/landbase/internal/db"
)

// Snapshot reads a prior capture of the target schema, for replaying an old
// database into a fresh one. Row ids and dedup keys are not carried over;
// the classifier re-derives identity.
type Snapshot struct {
	pool      *db.Pool
	chunkSize int
	logger    zerolog.Logger
}

func NewSnapshot(pool *db.Pool, chunkSize int, logger zerolog.Logger) *Snapshot {
	if chunkSize < 1 {
		chunkSize = 50000
	}
	return &Snapshot{
		pool:      pool,
		chunkSize: chunkSize,
		logger:    logger.With().Str("source", "snapshot").Logger(),
	}
}

func (s *Snapshot) Name() string { return "snapshot" }

func (s *Snapshot) Each(ctx context.Context, fn func(Result) error) error {
	afterID := int64(0)
	for {
		rows, err := s.pool.ScanTransactions(ctx, afterID, s.chunkSize)
		if err != nil {
			return fmt.Errorf("read snapshot chunk: %w", err)
		}
		if len(rows) == 0 {
			return nil
		}
		for i := range rows {
			if err := fn(mapSnapshotRow(&rows[i])); err != nil {
				return err
			}
		}
		afterID = rows[len(rows)-1].ID
	}
}

func mapSnapshotRow(row *db.Transaction) Result {
	if strings.TrimSpace(row.Address) == "" {
		return Result{Discard: DiscardMissingAddress}
	}
	record := *row
	record.ID = 0
	record.DedupKey = ""
	return Result{Record: &record}
}
