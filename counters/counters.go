// Package counters extracts performance counters from simulator logs.
package counters

import (
	"sort"
)

// Set maps a counter name to its most recently reported value.
type Set map[string]uint64

// Get returns the value of a counter and whether it was reported.
func (s Set) Get(name string) (uint64, bool) {
	v, ok := s[name]
	return v, ok
}

// BranchKey identifies one branch predictor tally.
type BranchKey struct {
	// Outcome is the prediction outcome, e.g. "correct" or "wrong".
	Outcome string
	// Source is the unit that resolved the branch, e.g. "exu".
	Source string
}

// BranchTally accumulates branch predictor outcomes per source.
// Repeated reports of the same key are summed.
type BranchTally struct {
	counts map[BranchKey]uint64
}

// NewBranchTally creates an empty tally.
func NewBranchTally() *BranchTally {
	return &BranchTally{counts: make(map[BranchKey]uint64)}
}

// Add adds n to the tally for (outcome, source).
func (t *BranchTally) Add(outcome, source string, n uint64) {
	t.counts[BranchKey{Outcome: outcome, Source: source}] += n
}

// Count returns the accumulated count for (outcome, source) and whether
// that pair was ever reported.
func (t *BranchTally) Count(outcome, source string) (uint64, bool) {
	v, ok := t.counts[BranchKey{Outcome: outcome, Source: source}]
	return v, ok
}

// Len returns the number of distinct keys.
func (t *BranchTally) Len() int {
	return len(t.counts)
}

// Keys returns all keys sorted by outcome, then source.
func (t *BranchTally) Keys() []BranchKey {
	keys := make([]BranchKey, 0, len(t.counts))
	for k := range t.counts {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].Outcome != keys[j].Outcome {
			return keys[i].Outcome < keys[j].Outcome
		}
		return keys[i].Source < keys[j].Source
	})
	return keys
}

// Counters holds everything extracted from one log.
type Counters struct {
	// TopDown holds the pipeline slot counters (topdown_*).
	TopDown Set
	// ICache holds the instruction cache counters (icache_*).
	ICache Set
	// DCache holds the data cache counters (dcache_*).
	DCache Set
	// BPU holds the branch predictor outcomes (bpu_<outcome>_<source>).
	BPU *BranchTally
}

// New creates an empty Counters.
func New() *Counters {
	return &Counters{
		TopDown: make(Set),
		ICache:  make(Set),
		DCache:  make(Set),
		BPU:     NewBranchTally(),
	}
}
