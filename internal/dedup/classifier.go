package dedup

import (
	"context"

	"horse.fit/landbase/internal/enrich"
)

// Outcome is the classifier's verdict for one record.
type Outcome int

const (
	Insert Outcome = iota
	Enrich
	Duplicate
)

func (o Outcome) String() string {
	switch o {
	case Insert:
		return "insert"
	case Enrich:
		return "enrich"
	case Duplicate:
		return "duplicate"
	default:
		return "unknown"
	}
}

// Existing is the enrichable slice of a stored row, with the row identifier
// the update must target.
type Existing struct {
	ID      int64
	Payload enrich.Payload
}

// Store is the point-lookup side of the backing store. FindByDedupKey
// returns nil when no row holds the key.
type Store interface {
	FindByDedupKey(ctx context.Context, key string) (*Existing, error)
}

// Result carries the verdict plus, for Enrich, the target row and the column
// updates the merge engine computed.
type Result struct {
	Outcome Outcome
	RowID   int64
	Updates map[string]any
}

// Classifier routes each keyed record through the cheap checks first: the
// in-flight pending set, then the filter, and only on a filter hit the
// authoritative store. The pending set is cleared on every insert-buffer
// flush, bounding its memory to one batch.
type Classifier struct {
	filter  *Filter
	store   Store
	pending map[string]struct{}
}

func NewClassifier(filter *Filter, store Store) *Classifier {
	return &Classifier{
		filter:  filter,
		store:   store,
		pending: make(map[string]struct{}),
	}
}

// Classify decides the outcome for a record carrying key. The only error it
// can return is a store I/O failure, which aborts the run.
func (c *Classifier) Classify(ctx context.Context, key string, candidate *enrich.Payload) (Result, error) {
	if _, inFlight := c.pending[key]; inFlight {
		return Result{Outcome: Duplicate}, nil
	}
	if !c.filter.Contains(key) {
		c.accept(key)
		return Result{Outcome: Insert}, nil
	}
	existing, err := c.store.FindByDedupKey(ctx, key)
	if err != nil {
		return Result{}, err
	}
	if existing == nil {
		// Filter false positive.
		c.accept(key)
		return Result{Outcome: Insert}, nil
	}
	updates := enrich.Updates(&existing.Payload, candidate)
	if len(updates) == 0 {
		return Result{Outcome: Duplicate}, nil
	}
	return Result{Outcome: Enrich, RowID: existing.ID, Updates: updates}, nil
}

func (c *Classifier) accept(key string) {
	c.pending[key] = struct{}{}
	c.filter.Add(key)
}

// ClearPending drops the in-flight key set. Called exactly once per
// insert-buffer flush.
func (c *Classifier) ClearPending() {
	c.pending = make(map[string]struct{})
}

// PendingLen reports the in-flight key count, for flush logging.
func (c *Classifier) PendingLen() int {
	return len(c.pending)
}
