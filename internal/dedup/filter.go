// Package dedup decides what an incoming transaction record is: a new row,
// an enrichment of an existing one, a duplicate, or noise.
package dedup

import "github.com/bits-and-blooms/bloom/v3"

// Filter is the probabilistic membership filter over dedup keys. It never
// reports a key it holds as absent; a "possibly present" answer must be
// confirmed with a store lookup. Keys are never removed; the filter is
// rebuilt from the store at the start of each run.
type Filter struct {
	bf *bloom.BloomFilter
}

// NewFilter sizes the filter for expectedItems at the target false-positive
// rate.
func NewFilter(expectedItems uint, fpRate float64) *Filter {
	if expectedItems == 0 {
		expectedItems = 1
	}
	return &Filter{bf: bloom.NewWithEstimates(expectedItems, fpRate)}
}

func (f *Filter) Add(key string) {
	f.bf.AddString(key)
}

func (f *Filter) Contains(key string) bool {
	return f.bf.TestString(key)
}

// Bits and Hashes expose the computed filter geometry, for run logging.
func (f *Filter) Bits() uint   { return f.bf.Cap() }
func (f *Filter) Hashes() uint { return f.bf.K() }
