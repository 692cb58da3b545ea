// Package source turns raw input rows into transaction records. Each reader
// yields a stream of Results; expected per-row problems are discard reasons
// on the Result, never errors.
package source

import (
	"context"
	"strconv"
	"strings"

	"horse.fit/landbase/internal/db"
)

// DiscardReason says why a row cannot become a record. Quality failures are
// values, not errors; the run counts them and moves on.
type DiscardReason int

const (
	DiscardNone DiscardReason = iota
	DiscardMissingAddress
	DiscardNoHouseNumber
	DiscardParseFailure
)

func (r DiscardReason) String() string {
	switch r {
	case DiscardNone:
		return "none"
	case DiscardMissingAddress:
		return "missing_address"
	case DiscardNoHouseNumber:
		return "no_house_number"
	case DiscardParseFailure:
		return "parse_failure"
	default:
		return "unknown"
	}
}

// Result is one source row: either a record or a discard reason.
type Result struct {
	Record  *db.Transaction
	Discard DiscardReason
}

// Source yields every row of one input. fn returning an error stops the
// stream; the error surfaces to the driver and aborts the run.
type Source interface {
	Name() string
	Each(ctx context.Context, fn func(Result) error) error
}

// safeFloat coerces a numeric string leniently: commas stripped, anything
// unparseable folds to 0.
func safeFloat(raw string) float64 {
	trimmed := strings.ReplaceAll(strings.TrimSpace(raw), ",", "")
	if trimmed == "" {
		return 0
	}
	v, err := strconv.ParseFloat(trimmed, 64)
	if err != nil {
		return 0
	}
	return v
}

// safePrice coerces a price string; fractions truncate, garbage folds to 0.
func safePrice(raw string) int64 {
	trimmed := strings.ReplaceAll(strings.TrimSpace(raw), ",", "")
	if trimmed == "" {
		return 0
	}
	if v, err := strconv.ParseInt(trimmed, 10, 64); err == nil {
		return v
	}
	if f, err := strconv.ParseFloat(trimmed, 64); err == nil {
		return int64(f)
	}
	return 0
}

// safeCount coerces a nullable count column; blank or garbage stays nil.
func safeCount(raw string) *int {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil
	}
	v, err := strconv.Atoi(trimmed)
	if err != nil {
		return nil
	}
	return &v
}
