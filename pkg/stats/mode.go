package stats

import (
	"cmp"
	"slices"
)

// Count is one distinct value and how often it occurred.
type Count[K cmp.Ordered] struct {
	Value K
	Count int
}

// Rank orders a tally most frequent first. Equal counts are ordered by value
// ascending so results are deterministic.
func Rank[K cmp.Ordered](tally map[K]int) []Count[K] {
	keys := make([]K, 0, len(tally))
	for k := range tally {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	counts := make([]Count[K], 0, len(tally))
	for _, v := range keys {
		counts = append(counts, Count[K]{Value: v, Count: tally[v]})
	}
	slices.SortStableFunc(counts, func(a, b Count[K]) int {
		return cmp.Compare(b.Count, a.Count)
	})
	return counts
}

// Mode returns the most frequent value of a tally. Ties resolve to the
// lowest value; ok is false for an empty tally.
func Mode[K cmp.Ordered](tally map[K]int) (mode K, ok bool) {
	counts := Rank(tally)
	if len(counts) == 0 {
		return mode, false
	}
	return counts[0].Value, true
}

func share(part, total float64) float64 {
	if total == 0 {
		return 0
	}
	return part / total
}
