package recommend

import (
	"math"

	"github.com/xxxsen/stylerec/internal/catalog"
	"github.com/xxxsen/stylerec/internal/config"
)

// excludedScore marks rows that must never surface as candidates (the
// target's own items). It sits below any attainable weighted dot-product sum.
var excludedScore = math.Inf(-1)

// Weights fuse the four per-field similarities. Arbitrary non-negative
// values are accepted; they are not required to sum to 1.
type Weights struct {
	Name     float64
	Brand    float64
	Image    float64
	Category float64
}

func WeightsFromConfig(w config.Weights) Weights {
	return Weights{Name: w.Name, Brand: w.Brand, Image: w.Image, Category: w.Category}
}

// Target is the per-field anchor vectors for one category, plus the rows of
// the anchor items themselves so they can be excluded from their own pool.
type Target struct {
	Rows     []int
	Name     []float64
	Brand    []float64
	Image    []float64
	Category []float64
}

// BuildTarget derives a target from anchor rows. With more than one anchor
// the per-field vector is the arithmetic mean across anchors, deliberately
// NOT re-normalized afterwards: the mean of unit vectors has magnitude below
// 1 and renormalizing would shift which items rank highest.
func BuildTarget(snap *catalog.Snapshot, rows []int) Target {
	t := Target{Rows: rows}
	for _, row := range rows {
		item := snap.Item(row)
		t.Name = accumulate(t.Name, item.NameVec)
		t.Brand = accumulate(t.Brand, item.BrandVec)
		t.Image = accumulate(t.Image, item.ImageVec)
		t.Category = accumulate(t.Category, item.CategoryVec)
	}
	if n := float64(len(rows)); n > 1 {
		scale(t.Name, 1/n)
		scale(t.Brand, 1/n)
		scale(t.Image, 1/n)
		scale(t.Category, 1/n)
	}
	return t
}

// Score fuses the weighted per-field dot products of every catalog item
// against the target. The result is indexed by snapshot row. Deterministic:
// identical inputs produce identical outputs. Zero vectors (missing
// embeddings) contribute exactly 0 to their field.
func Score(snap *catalog.Snapshot, target Target, weights Weights) []float64 {
	scores := make([]float64, snap.Len())
	for row := range scores {
		item := snap.Item(row)
		score := weights.Name * dot(target.Name, item.NameVec)
		score += weights.Brand * dot(target.Brand, item.BrandVec)
		score += weights.Image * dot(target.Image, item.ImageVec)
		score += weights.Category * dot(target.Category, item.CategoryVec)
		scores[row] = score
	}
	for _, row := range target.Rows {
		scores[row] = excludedScore
	}
	return scores
}

func dot(a []float64, b []float32) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var sum float64
	for i := 0; i < n; i++ {
		sum += a[i] * float64(b[i])
	}
	return sum
}

func accumulate(dst []float64, vec []float32) []float64 {
	if dst == nil {
		dst = make([]float64, len(vec))
	}
	for i := range vec {
		if i >= len(dst) {
			break
		}
		dst[i] += float64(vec[i])
	}
	return dst
}

func scale(vec []float64, factor float64) {
	for i := range vec {
		vec[i] *= factor
	}
}
