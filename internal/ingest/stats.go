package ingest

import (
	"horse.fit/landbase/internal/db"
	"horse.fit/landbase/internal/source"
)

// Stats are the per-run counters. Threaded explicitly through the pipeline
// and returned; there is no process-wide counter state.
type Stats struct {
	Scanned          int
	Inserted         int
	Enriched         int
	Duplicated       int
	Discarded        int
	DiscardNoAddress int
	DiscardNoNumber  int
	DiscardParse     int
}

func (s *Stats) discard(reason source.DiscardReason) {
	s.Discarded++
	switch reason {
	case source.DiscardMissingAddress:
		s.DiscardNoAddress++
	case source.DiscardNoHouseNumber:
		s.DiscardNoNumber++
	case source.DiscardParseFailure:
		s.DiscardParse++
	}
}

// RunTotals converts the counters into the ledger row shape.
func (s Stats) RunTotals() db.RunTotals {
	return db.RunTotals{
		Scanned:          s.Scanned,
		Inserted:         s.Inserted,
		Enriched:         s.Enriched,
		Duplicated:       s.Duplicated,
		Discarded:        s.Discarded,
		DiscardNoAddress: s.DiscardNoAddress,
		DiscardNoNumber:  s.DiscardNoNumber,
		DiscardParse:     s.DiscardParse,
	}
}
