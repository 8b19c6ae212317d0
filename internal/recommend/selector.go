package recommend

import (
	"math"
	"math/rand"
	"sort"

	"github.com/xxxsen/stylerec/internal/catalog"
	"github.com/xxxsen/stylerec/internal/model"
)

// Filter narrows a category pool before ranking. Zero values mean
// unconstrained; MaxPrice 0 means no upper bound. Filtering never
// re-weights scores.
type Filter struct {
	MinPrice int64
	MaxPrice int64
}

func (f Filter) match(item *model.Item) bool {
	if item.Price < f.MinPrice {
		return false
	}
	if f.MaxPrice > 0 && item.Price > f.MaxPrice {
		return false
	}
	return true
}

// Selector applies the two-stage top-pool-then-sample policy. By default
// sampling uses the global locked rand source, so a single Selector is safe
// for concurrent requests; tests inject their own source to pin the shuffle.
type Selector struct {
	poolSize  int
	pickCount int
	perm      func(n int) []int
}

func NewSelector(poolSize, pickCount int) *Selector {
	return &Selector{poolSize: poolSize, pickCount: pickCount, perm: rand.Perm}
}

func NewSelectorWithRand(poolSize, pickCount int, rng *rand.Rand) *Selector {
	return &Selector{poolSize: poolSize, pickCount: pickCount, perm: rng.Perm}
}

// SelectCategory returns up to pickCount snapshot rows for one category:
// rank the filtered pool descending by score, cap at poolSize, then sample
// uniformly without replacement. Repeated calls over the same pool return
// different but always top-pool results. An empty pool yields an empty
// slice, never an error.
func (s *Selector) SelectCategory(snap *catalog.Snapshot, scores []float64, category model.Category, filter Filter) []int {
	pool := make([]int, 0, 64)
	for row := 0; row < snap.Len(); row++ {
		item := snap.Item(row)
		if item.Category != category {
			continue
		}
		if math.IsInf(scores[row], -1) {
			continue
		}
		if !filter.match(item) {
			continue
		}
		pool = append(pool, row)
	}
	if len(pool) == 0 {
		return nil
	}
	// Stable sort keeps tie order at the ranking step; the sampling below
	// randomizes presentation anyway.
	sort.SliceStable(pool, func(i, j int) bool {
		return scores[pool[i]] > scores[pool[j]]
	})
	if len(pool) > s.poolSize {
		pool = pool[:s.poolSize]
	}
	count := s.pickCount
	if count > len(pool) {
		count = len(pool)
	}
	picked := make([]int, 0, count)
	for _, idx := range s.perm(len(pool))[:count] {
		picked = append(picked, pool[idx])
	}
	return picked
}
