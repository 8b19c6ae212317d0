package catalog

import (
	"context"
	"fmt"
	"os"

	"github.com/goccy/go-json"

	"github.com/xxxsen/stylerec/internal/model"
)

// snapshotArtifact mirrors the offline preprocessing job's output: parallel
// arrays, all the same length, vectors uniform-dimension per field.
type snapshotArtifact struct {
	IDs          []int64     `json:"ids"`
	Names        []string    `json:"names"`
	Prices       []int64     `json:"prices"`
	ImageURLs    []string    `json:"image_urls"`
	Categories   []string    `json:"categories"`
	NameVecs     [][]float32 `json:"name_vecs"`
	BrandVecs    [][]float32 `json:"brand_vecs"`
	ImageVecs    [][]float32 `json:"image_vecs"`
	CategoryVecs [][]float32 `json:"category_vecs"`
}

type FileLoader struct {
	path string
}

func NewFileLoader(path string) *FileLoader {
	return &FileLoader{path: path}
}

func (l *FileLoader) Load(ctx context.Context) (*Snapshot, error) {
	_ = ctx
	data, err := os.ReadFile(l.path)
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}
	var artifact snapshotArtifact
	if err := json.Unmarshal(data, &artifact); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	items, err := artifact.toItems()
	if err != nil {
		return nil, err
	}
	return NewSnapshot(items)
}

func (a *snapshotArtifact) toItems() ([]model.Item, error) {
	fields := map[string]int{
		"ids":           len(a.IDs),
		"names":         len(a.Names),
		"prices":        len(a.Prices),
		"image_urls":    len(a.ImageURLs),
		"categories":    len(a.Categories),
		"name_vecs":     len(a.NameVecs),
		"brand_vecs":    len(a.BrandVecs),
		"image_vecs":    len(a.ImageVecs),
		"category_vecs": len(a.CategoryVecs),
	}
	missing := []string{}
	for name, length := range fields {
		if length == 0 {
			missing = append(missing, name)
		}
	}
	if len(missing) == len(fields) {
		return nil, fmt.Errorf("snapshot is empty")
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("snapshot missing required fields: %v", missing)
	}
	count := len(a.IDs)
	for name, length := range fields {
		if length != count {
			return nil, fmt.Errorf("snapshot field %s has %d entries, want %d", name, length, count)
		}
	}
	items := make([]model.Item, 0, count)
	for i := 0; i < count; i++ {
		category, ok := model.ParseCategory(a.Categories[i])
		if !ok {
			return nil, fmt.Errorf("snapshot item %d: unknown category %q", a.IDs[i], a.Categories[i])
		}
		items = append(items, model.Item{
			ID:          a.IDs[i],
			Name:        a.Names[i],
			Price:       a.Prices[i],
			ImageURL:    a.ImageURLs[i],
			Category:    category,
			NameVec:     a.NameVecs[i],
			BrandVec:    a.BrandVecs[i],
			ImageVec:    a.ImageVecs[i],
			CategoryVec: a.CategoryVecs[i],
		})
	}
	return items, nil
}
