// Package backfill holds the offline enrichment passes: the bulk
// entity-resolution sweep over the primary table and the community-name
// backfill. Both read the mirror, both only ever fill empty fields.
package backfill

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"horse.fit/landbase/internal/address"
	"horse.fit/landbase/internal/db"
	"horse.fit/landbase/internal/enrich"
	"horse.fit/landbase/internal/source"
)

// Reader is the paginated read cursor. It runs on its own connection so
// chunked reads are not blocked by the write side's commits.
type Reader interface {
	ScanMirrorListings(ctx context.Context, afterID int64, limit int) ([]db.MirrorListing, error)
	ScanTransactions(ctx context.Context, afterID int64, limit int) ([]db.Transaction, error)
	MaxTransactionID(ctx context.Context) (int64, error)
}

// maxConsecutiveSkips bounds how many failed chunk reads in a row count as a
// damaged region before the sweep treats the store itself as broken.
const maxConsecutiveSkips = 3

// Writer is the write side of the sweep.
type Writer interface {
	ApplyUpdates(ctx context.Context, updates []db.RowUpdate) error
	Checkpoint(ctx context.Context) error
}

// Options tune the sweep. DryRun computes and counts updates without
// writing any.
type Options struct {
	ChunkSize       int
	UpdateBatchSize int
	CheckpointEvery int
	DryRun          bool
}

func (o Options) withDefaults() Options {
	if o.ChunkSize < 1 {
		o.ChunkSize = 50000
	}
	if o.UpdateBatchSize < 1 {
		o.UpdateBatchSize = 10000
	}
	if o.CheckpointEvery < 1 {
		o.CheckpointEvery = 100000
	}
	return o
}

// Stats summarize one sweep.
type Stats struct {
	MirrorRows       int
	FullKeys         int
	DatePriceKeys    int
	BaseKeys         int
	Scanned          int
	Candidates       int
	MatchedFull      int
	MatchedDatePrice int
	MatchedBase      int
	Updated          int
	SkippedComplete  int
	SkippedRanges    int
}

type Sweeper struct {
	reader Reader
	writer Writer
	opts   Options
	logger zerolog.Logger
}

func NewSweeper(reader Reader, writer Writer, opts Options, logger zerolog.Logger) *Sweeper {
	return &Sweeper{
		reader: reader,
		writer: writer,
		opts:   opts.withDefaults(),
		logger: logger.With().Str("component", "backfill").Logger(),
	}
}

// Run builds the entity-resolution maps from the mirror and sweeps the
// primary table against them.
func (s *Sweeper) Run(ctx context.Context) (Stats, error) {
	var stats Stats
	maps, err := s.buildMaps(ctx, &stats)
	if err != nil {
		return stats, err
	}
	if err := s.sweep(ctx, maps, &stats); err != nil {
		return stats, err
	}
	s.logger.Info().
		Int("scanned", stats.Scanned).
		Int("candidates", stats.Candidates).
		Int("updated", stats.Updated).
		Int("skipped_ranges", stats.SkippedRanges).
		Bool("dry_run", s.opts.DryRun).
		Msg("sweep finished")
	return stats, nil
}

// buildMaps makes one pass over the mirror and fills the three lookup maps.
// The maps live only for this sweep.
func (s *Sweeper) buildMaps(ctx context.Context, stats *Stats) (*enrich.Maps, error) {
	maps := enrich.NewMaps()
	afterID := int64(0)
	for {
		rows, err := s.reader.ScanMirrorListings(ctx, afterID, s.opts.ChunkSize)
		if err != nil {
			return nil, fmt.Errorf("read mirror for maps: %w", err)
		}
		if len(rows) == 0 {
			break
		}
		for i := range rows {
			payload, normAddr, baseAddr, dateNorm, totalPrice, ok := source.ListingPayload(&rows[i])
			if !ok {
				continue
			}
			stats.MirrorRows++
			p := payload
			maps.AddFull(normAddr, &p)
			if dateNorm != "" && totalPrice > 0 {
				dp := payload
				maps.AddDatePrice(enrich.DatePriceKey{Date: dateNorm, Price: totalPrice}, &dp)
			}
			if baseAddr != "" && baseAddr != normAddr {
				base := payload
				maps.AddBase(baseAddr, &base)
			}
		}
		afterID = rows[len(rows)-1].ID
	}

	stats.FullKeys, stats.DatePriceKeys, stats.BaseKeys = maps.Len()
	s.logger.Info().
		Int("mirror_rows", stats.MirrorRows).
		Int("full_keys", stats.FullKeys).
		Int("date_price_keys", stats.DatePriceKeys).
		Int("base_keys", stats.BaseKeys).
		Msg("entity-resolution maps built")
	return maps, nil
}

func (s *Sweeper) sweep(ctx context.Context, maps *enrich.Maps, stats *Stats) error {
	// The cursor is bounded by the max id taken up front, so a damaged tail
	// region cannot keep the loop alive forever.
	maxID, err := s.reader.MaxTransactionID(ctx)
	if err != nil {
		return fmt.Errorf("resolve sweep upper bound: %w", err)
	}

	var (
		updates          []db.RowUpdate
		sinceCheckpoint  int
		afterID          int64
		consecutiveSkips int
	)

	flush := func() error {
		if len(updates) == 0 {
			return nil
		}
		if !s.opts.DryRun {
			if err := s.writer.ApplyUpdates(ctx, updates); err != nil {
				return fmt.Errorf("apply sweep updates: %w", err)
			}
			sinceCheckpoint += len(updates)
			if sinceCheckpoint >= s.opts.CheckpointEvery {
				if err := s.writer.Checkpoint(ctx); err != nil {
					return err
				}
				sinceCheckpoint = 0
			}
		}
		updates = updates[:0]
		return nil
	}

	for afterID < maxID {
		if err := ctx.Err(); err != nil {
			return err
		}
		rows, err := s.reader.ScanTransactions(ctx, afterID, s.opts.ChunkSize)
		if err != nil {
			// One damaged region must not abort the whole pass: log the
			// range, jump the cursor past it, keep sweeping. Repeated
			// failures mean the store is gone, not the rows.
			consecutiveSkips++
			if consecutiveSkips >= maxConsecutiveSkips {
				return fmt.Errorf("read transactions after id %d: %w", afterID, err)
			}
			s.logger.Warn().Err(err).
				Int64("after_id", afterID).
				Int("chunk", s.opts.ChunkSize).
				Msg("chunk read failed, skipping range")
			stats.SkippedRanges++
			afterID += int64(s.opts.ChunkSize)
			continue
		}
		consecutiveSkips = 0
		if len(rows) == 0 {
			break
		}

		for i := range rows {
			row := &rows[i]
			stats.Scanned++

			if !s.isCandidate(row) {
				continue
			}
			stats.Candidates++

			existing := row.EnrichPayload()
			if existing.Complete() {
				stats.SkippedComplete++
				continue
			}

			normAddr := address.StripCity(address.Normalize(row.Address))
			baseAddr := address.StripFloor(normAddr)
			dpKey := enrich.DatePriceKey{Date: row.TransactionDate, Price: row.TotalPrice}

			if _, ok := maps.FullAddress[normAddr]; ok {
				stats.MatchedFull++
			}
			if _, ok := maps.DatePrice[dpKey]; ok {
				stats.MatchedDatePrice++
			}
			if _, ok := maps.BaseAddress[baseAddr]; ok {
				stats.MatchedBase++
			}

			columns := maps.UpdatesFor(&existing, normAddr, dpKey, baseAddr)
			if len(columns) == 0 {
				continue
			}
			stats.Updated++
			updates = append(updates, db.RowUpdate{ID: row.ID, Columns: columns})
			if len(updates) >= s.opts.UpdateBatchSize {
				if err := flush(); err != nil {
					return err
				}
			}
		}
		afterID = rows[len(rows)-1].ID
	}

	return flush()
}

// isCandidate applies the sweep gate: the row must carry a house number and
// must not itself come from the mirror.
func (s *Sweeper) isCandidate(row *db.Transaction) bool {
	if !address.HasHouseNumber(row.Address) {
		return false
	}
	if strings.HasPrefix(row.SerialNo, "591_") {
		return false
	}
	return true
}
