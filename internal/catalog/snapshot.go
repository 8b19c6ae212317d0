package catalog

import (
	"fmt"

	"github.com/xxxsen/stylerec/internal/model"
)

// Snapshot is an immutable view of the whole catalog. Row order is load
// order and stays stable for the lifetime of the snapshot, so scorers can
// use the row index as the implicit index space.
type Snapshot struct {
	items []model.Item
	index map[int64]int
	dims  vectorDims
}

type vectorDims struct {
	name     int
	brand    int
	image    int
	category int
}

// NewSnapshot validates the loaded items and freezes them into a snapshot.
// Validation fails closed: duplicate ids or a vector whose dimension does
// not match the rest of its field reject the whole load.
func NewSnapshot(items []model.Item) (*Snapshot, error) {
	snap := &Snapshot{
		items: items,
		index: make(map[int64]int, len(items)),
	}
	for row, item := range items {
		if _, exists := snap.index[item.ID]; exists {
			return nil, fmt.Errorf("duplicate item id %d", item.ID)
		}
		if item.Price < 0 {
			return nil, fmt.Errorf("item %d: negative price", item.ID)
		}
		if _, ok := model.ParseCategory(string(item.Category)); !ok {
			return nil, fmt.Errorf("item %d: unknown category %q", item.ID, item.Category)
		}
		if err := snap.dims.check(&items[row]); err != nil {
			return nil, fmt.Errorf("item %d: %w", item.ID, err)
		}
		snap.index[item.ID] = row
	}
	return snap, nil
}

func (d *vectorDims) check(item *model.Item) error {
	fields := []struct {
		name string
		vec  []float32
		dim  *int
	}{
		{"name_vec", item.NameVec, &d.name},
		{"brand_vec", item.BrandVec, &d.brand},
		{"image_vec", item.ImageVec, &d.image},
		{"category_vec", item.CategoryVec, &d.category},
	}
	for _, f := range fields {
		if len(f.vec) == 0 {
			return fmt.Errorf("%s is empty", f.name)
		}
		if *f.dim == 0 {
			*f.dim = len(f.vec)
			continue
		}
		if len(f.vec) != *f.dim {
			return fmt.Errorf("%s dimension %d does not match %d", f.name, len(f.vec), *f.dim)
		}
	}
	return nil
}

func (s *Snapshot) Len() int {
	return len(s.items)
}

// Items returns the backing slice. Callers must treat it as read-only.
func (s *Snapshot) Items() []model.Item {
	return s.items
}

func (s *Snapshot) Item(row int) *model.Item {
	return &s.items[row]
}

func (s *Snapshot) Get(id int64) (*model.Item, bool) {
	row, ok := s.index[id]
	if !ok {
		return nil, false
	}
	return &s.items[row], true
}

func (s *Snapshot) Row(id int64) (int, bool) {
	row, ok := s.index[id]
	return row, ok
}

// PriceRanges computes per-category min/max prices over the snapshot.
// Categories with no items report {0, 0}.
func (s *Snapshot) PriceRanges() map[model.Category]model.PriceRange {
	ranges := make(map[model.Category]model.PriceRange, len(model.Categories))
	seen := make(map[model.Category]bool, len(model.Categories))
	for _, cat := range model.Categories {
		ranges[cat] = model.PriceRange{}
	}
	for _, item := range s.items {
		r := ranges[item.Category]
		if !seen[item.Category] {
			r.Min, r.Max = item.Price, item.Price
			seen[item.Category] = true
		} else {
			if item.Price < r.Min {
				r.Min = item.Price
			}
			if item.Price > r.Max {
				r.Max = item.Price
			}
		}
		ranges[item.Category] = r
	}
	return ranges
}
