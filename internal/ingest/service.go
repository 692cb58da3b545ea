// Package ingest drives a full ingestion run: ledger row, filter load,
// stream classification, batched flushes, ledger close.
package ingest

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"horse.fit/landbase/internal/address"
	"horse.fit/landbase/internal/db"
	"horse.fit/landbase/internal/dedup"
	"horse.fit/landbase/internal/enrich"
	"horse.fit/landbase/internal/source"
)

// Store is the backing-store surface the driver needs. *db.Pool satisfies
// it; tests supply fakes.
type Store interface {
	CountDedupKeys(ctx context.Context) (int64, error)
	LoadDedupKeys(ctx context.Context, fn func(key string)) (int64, error)
	FindByDedupKey(ctx context.Context, key string) (int64, enrich.Payload, error)
	InsertTransactions(ctx context.Context, rows []*db.Transaction) error
	ApplyUpdates(ctx context.Context, updates []db.RowUpdate) error
	Checkpoint(ctx context.Context) error
	InsertRun(ctx context.Context, source, sourcePath string) (int64, error)
	CompleteRun(ctx context.Context, runID int64, totals db.RunTotals) error
	FailRun(ctx context.Context, runID int64, totals db.RunTotals, runErr error) error
}

// storeLookup adapts Store to the classifier's point-lookup interface:
// a missing row is a nil result there, not an error.
type storeLookup struct {
	store Store
}

func (s storeLookup) FindByDedupKey(ctx context.Context, key string) (*dedup.Existing, error) {
	id, payload, err := s.store.FindByDedupKey(ctx, key)
	if err != nil {
		if db.IsNoRows(err) {
			return nil, nil
		}
		return nil, err
	}
	return &dedup.Existing{ID: id, Payload: payload}, nil
}

// Options are the pipeline thresholds. Zero values fall back to the
// defaults the store was tuned for.
type Options struct {
	InsertBatchSize int
	UpdateBatchSize int
	CheckpointEvery int
	FilterFPRate    float64
}

func (o Options) withDefaults() Options {
	if o.InsertBatchSize < 1 {
		o.InsertBatchSize = 10000
	}
	if o.UpdateBatchSize < 1 {
		o.UpdateBatchSize = 10000
	}
	if o.CheckpointEvery < 1 {
		o.CheckpointEvery = 100000
	}
	if o.FilterFPRate <= 0 || o.FilterFPRate >= 1 {
		o.FilterFPRate = 0.01
	}
	return o
}

type Service struct {
	store  Store
	opts   Options
	logger zerolog.Logger
}

func NewService(store Store, opts Options, logger zerolog.Logger) *Service {
	return &Service{
		store:  store,
		opts:   opts.withDefaults(),
		logger: logger.With().Str("component", "ingest").Logger(),
	}
}

// Run ingests one source end to end and returns the final stats. Store I/O
// failures abort the run and mark its ledger row failed; per-record quality
// failures only count.
func (s *Service) Run(ctx context.Context, src source.Source, sourcePath string) (Stats, error) {
	runID, err := s.store.InsertRun(ctx, src.Name(), sourcePath)
	if err != nil {
		return Stats{}, fmt.Errorf("open run ledger: %w", err)
	}
	logger := s.logger.With().Int64("run_id", runID).Str("source", src.Name()).Logger()

	var stats Stats
	if err := s.run(ctx, logger, src, &stats); err != nil {
		ledgerCtx := context.WithoutCancel(ctx)
		if failErr := s.store.FailRun(ledgerCtx, runID, stats.RunTotals(), err); failErr != nil {
			logger.Error().Err(failErr).Msg("failed to mark run failed")
		}
		return stats, err
	}

	if err := s.store.CompleteRun(ctx, runID, stats.RunTotals()); err != nil {
		return stats, fmt.Errorf("close run ledger: %w", err)
	}
	logger.Info().
		Int("scanned", stats.Scanned).
		Int("inserted", stats.Inserted).
		Int("enriched", stats.Enriched).
		Int("duplicated", stats.Duplicated).
		Int("discarded", stats.Discarded).
		Msg("run completed")
	return stats, nil
}

func (s *Service) run(ctx context.Context, logger zerolog.Logger, src source.Source, stats *Stats) error {
	classifier, err := s.buildClassifier(ctx, logger)
	if err != nil {
		return err
	}

	var (
		insertBuf       []*db.Transaction
		updateBuf       []db.RowUpdate
		sinceCheckpoint int
	)

	flushInserts := func() error {
		if len(insertBuf) == 0 {
			return nil
		}
		if err := s.store.InsertTransactions(ctx, insertBuf); err != nil {
			return fmt.Errorf("flush insert buffer: %w", err)
		}
		logger.Debug().Int("rows", len(insertBuf)).Msg("insert buffer flushed")
		insertBuf = insertBuf[:0]
		classifier.ClearPending()
		return nil
	}

	flushUpdates := func() error {
		if len(updateBuf) == 0 {
			return nil
		}
		if err := s.store.ApplyUpdates(ctx, updateBuf); err != nil {
			return fmt.Errorf("flush update buffer: %w", err)
		}
		logger.Debug().Int("rows", len(updateBuf)).Msg("update buffer flushed")
		sinceCheckpoint += len(updateBuf)
		updateBuf = updateBuf[:0]
		if sinceCheckpoint >= s.opts.CheckpointEvery {
			if err := s.store.Checkpoint(ctx); err != nil {
				return err
			}
			logger.Info().Int("updates", sinceCheckpoint).Msg("checkpoint")
			sinceCheckpoint = 0
		}
		return nil
	}

	err = src.Each(ctx, func(res source.Result) error {
		stats.Scanned++

		if res.Discard != source.DiscardNone {
			stats.discard(res.Discard)
			return nil
		}
		record := res.Record

		// Quality gate.
		if strings.TrimSpace(record.Address) == "" {
			stats.discard(source.DiscardMissingAddress)
			return nil
		}
		if !address.HasHouseNumber(record.Address) {
			stats.discard(source.DiscardNoHouseNumber)
			return nil
		}

		key, keyed := dedup.Key(record.TransactionDate, record.Address, record.TotalPrice)
		if !keyed {
			// Unnormalizable address: insert without dedup.
			stats.Inserted++
			insertBuf = append(insertBuf, record)
			if len(insertBuf) >= s.opts.InsertBatchSize {
				return flushInserts()
			}
			return nil
		}

		payload := record.EnrichPayload()
		result, err := classifier.Classify(ctx, key, &payload)
		if err != nil {
			return fmt.Errorf("classify record: %w", err)
		}

		switch result.Outcome {
		case dedup.Insert:
			stats.Inserted++
			record.DedupKey = key
			insertBuf = append(insertBuf, record)
			if len(insertBuf) >= s.opts.InsertBatchSize {
				return flushInserts()
			}
		case dedup.Enrich:
			stats.Enriched++
			updateBuf = append(updateBuf, db.RowUpdate{ID: result.RowID, Columns: result.Updates})
			if len(updateBuf) >= s.opts.UpdateBatchSize {
				return flushUpdates()
			}
		case dedup.Duplicate:
			stats.Duplicated++
		}
		return nil
	})
	if err != nil {
		return err
	}

	if err := flushInserts(); err != nil {
		return err
	}
	return flushUpdates()
}

func (s *Service) buildClassifier(ctx context.Context, logger zerolog.Logger) (*dedup.Classifier, error) {
	existing, err := s.store.CountDedupKeys(ctx)
	if err != nil {
		return nil, err
	}

	// Size for the existing keys plus room for a full run of new ones.
	expected := uint(existing) * 2
	if expected < 1<<20 {
		expected = 1 << 20
	}
	filter := dedup.NewFilter(expected, s.opts.FilterFPRate)

	loaded, err := s.store.LoadDedupKeys(ctx, filter.Add)
	if err != nil {
		return nil, err
	}
	logger.Info().
		Int64("keys", loaded).
		Uint("bits", filter.Bits()).
		Uint("hashes", filter.Hashes()).
		Msg("membership filter loaded")

	return dedup.NewClassifier(filter, storeLookup{store: s.store}), nil
}
