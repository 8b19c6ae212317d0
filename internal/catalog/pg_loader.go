package catalog

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/pgvector/pgvector-go"

	"github.com/xxxsen/stylerec/internal/model"
)

// PGLoader reads the catalog table the preprocessing job populates.
// Vector columns use the pgvector extension.
type PGLoader struct {
	db *sql.DB
}

func NewPGLoader(db *sql.DB) *PGLoader {
	return &PGLoader{db: db}
}

func (l *PGLoader) Load(ctx context.Context) (*Snapshot, error) {
	const query = `
		SELECT id, name, price, image_url, category,
		       name_vec, brand_vec, image_vec, category_vec
		FROM catalog_items
		ORDER BY id
	`
	rows, err := l.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query catalog: %w", err)
	}
	defer rows.Close()

	var items []model.Item
	for rows.Next() {
		var item model.Item
		var category string
		var nameVec, brandVec, imageVec, categoryVec pgvector.Vector
		if err := rows.Scan(
			&item.ID, &item.Name, &item.Price, &item.ImageURL, &category,
			&nameVec, &brandVec, &imageVec, &categoryVec,
		); err != nil {
			return nil, fmt.Errorf("scan catalog row: %w", err)
		}
		parsed, ok := model.ParseCategory(category)
		if !ok {
			return nil, fmt.Errorf("catalog item %d: unknown category %q", item.ID, category)
		}
		item.Category = parsed
		item.NameVec = nameVec.Slice()
		item.BrandVec = brandVec.Slice()
		item.ImageVec = imageVec.Slice()
		item.CategoryVec = categoryVec.Slice()
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate catalog rows: %w", err)
	}
	return NewSnapshot(items)
}
