package dedup

import (
	"context"
	"errors"
	"testing"

	"horse.fit/landbase/internal/enrich"
)

type fakeStore struct {
	rows    map[string]*Existing
	lookups int
	err     error
}

func (s *fakeStore) FindByDedupKey(_ context.Context, key string) (*Existing, error) {
	s.lookups++
	if s.err != nil {
		return nil, s.err
	}
	return s.rows[key], nil
}

func intp(v int) *int { return &v }

func TestClassifyNewKeyInsertsWithoutStoreLookup(t *testing.T) {
	t.Parallel()

	store := &fakeStore{rows: map[string]*Existing{}}
	c := NewClassifier(NewFilter(100, 0.01), store)

	res, err := c.Classify(context.Background(), "k1", &enrich.Payload{})
	if err != nil {
		t.Fatalf("classify: %v", err)
	}
	if res.Outcome != Insert {
		t.Fatalf("expected insert, got %v", res.Outcome)
	}
	if store.lookups != 0 {
		t.Fatalf("fresh key must not reach the store, got %d lookups", store.lookups)
	}
}

func TestClassifyPendingKeyIsDuplicate(t *testing.T) {
	t.Parallel()

	store := &fakeStore{rows: map[string]*Existing{}}
	c := NewClassifier(NewFilter(100, 0.01), store)

	if res, _ := c.Classify(context.Background(), "k1", &enrich.Payload{}); res.Outcome != Insert {
		t.Fatalf("first sighting should insert, got %v", res.Outcome)
	}
	res, err := c.Classify(context.Background(), "k1", &enrich.Payload{CommunityName: "仁愛帝寶"})
	if err != nil {
		t.Fatalf("classify: %v", err)
	}
	if res.Outcome != Duplicate {
		t.Fatalf("in-flight key should be duplicate, got %v", res.Outcome)
	}
	if store.lookups != 0 {
		t.Fatalf("pending hit must not reach the store, got %d lookups", store.lookups)
	}
}

func TestClassifyFilterFalsePositiveFallsThroughToInsert(t *testing.T) {
	t.Parallel()

	filter := NewFilter(100, 0.01)
	filter.Add("k1")
	store := &fakeStore{rows: map[string]*Existing{}}
	c := NewClassifier(filter, store)

	res, err := c.Classify(context.Background(), "k1", &enrich.Payload{})
	if err != nil {
		t.Fatalf("classify: %v", err)
	}
	if res.Outcome != Insert {
		t.Fatalf("false positive should fall through to insert, got %v", res.Outcome)
	}
	if store.lookups != 1 {
		t.Fatalf("filter hit must be confirmed by the store, got %d lookups", store.lookups)
	}
}

func TestClassifyStoredRowEnrichesOrDuplicates(t *testing.T) {
	t.Parallel()

	filter := NewFilter(100, 0.01)
	filter.Add("k1")
	store := &fakeStore{rows: map[string]*Existing{
		"k1": {ID: 42, Payload: enrich.Payload{Rooms: intp(3)}},
	}}
	c := NewClassifier(filter, store)

	res, err := c.Classify(context.Background(), "k1", &enrich.Payload{CommunityName: "仁愛帝寶", Rooms: intp(4)})
	if err != nil {
		t.Fatalf("classify: %v", err)
	}
	if res.Outcome != Enrich {
		t.Fatalf("expected enrich, got %v", res.Outcome)
	}
	if res.RowID != 42 {
		t.Fatalf("unexpected target row: %d", res.RowID)
	}
	if res.Updates["community_name"] != "仁愛帝寶" {
		t.Fatalf("expected community update, got %v", res.Updates)
	}
	if _, ok := res.Updates["rooms"]; ok {
		t.Fatalf("populated rooms must not be overwritten: %v", res.Updates)
	}

	// Candidate adding nothing is a duplicate, not an enrichment.
	res, err = c.Classify(context.Background(), "k1", &enrich.Payload{Rooms: intp(5)})
	if err != nil {
		t.Fatalf("classify: %v", err)
	}
	if res.Outcome != Duplicate {
		t.Fatalf("no-op candidate should be duplicate, got %v", res.Outcome)
	}
}

func TestClassifyStoreErrorAbortsRun(t *testing.T) {
	t.Parallel()

	filter := NewFilter(100, 0.01)
	filter.Add("k1")
	store := &fakeStore{err: errors.New("connection reset")}
	c := NewClassifier(filter, store)

	if _, err := c.Classify(context.Background(), "k1", &enrich.Payload{}); err == nil {
		t.Fatalf("expected store failure to surface")
	}
}

func TestClearPendingAllowsStoreConfirmedReclassification(t *testing.T) {
	t.Parallel()

	store := &fakeStore{rows: map[string]*Existing{}}
	c := NewClassifier(NewFilter(100, 0.01), store)

	if res, _ := c.Classify(context.Background(), "k1", &enrich.Payload{}); res.Outcome != Insert {
		t.Fatalf("expected insert")
	}
	if c.PendingLen() != 1 {
		t.Fatalf("expected one pending key, got %d", c.PendingLen())
	}

	// Flush: the inserted row is now in the store, pending set cleared.
	store.rows["k1"] = &Existing{ID: 1}
	c.ClearPending()
	if c.PendingLen() != 0 {
		t.Fatalf("pending set not cleared")
	}

	res, err := c.Classify(context.Background(), "k1", &enrich.Payload{CommunityName: "仁愛帝寶"})
	if err != nil {
		t.Fatalf("classify: %v", err)
	}
	if res.Outcome != Enrich {
		t.Fatalf("post-flush sighting with new fields should enrich, got %v", res.Outcome)
	}
	if store.lookups != 1 {
		t.Fatalf("post-flush key must be confirmed against the store, got %d lookups", store.lookups)
	}
}
