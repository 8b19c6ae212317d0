package repo

import (
	"context"

	"github.com/jmoiron/sqlx"
)

type RepresentativeRepo struct {
	db *sqlx.DB
}

func NewRepresentativeRepo(db *sqlx.DB) *RepresentativeRepo {
	return &RepresentativeRepo{db: db}
}

// ItemIDs returns the persona's representative item ids, load order.
func (r *RepresentativeRepo) ItemIDs(ctx context.Context, persona string) ([]int64, error) {
	const query = `SELECT product_id FROM representative_item WHERE persona = $1 ORDER BY product_id`
	var ids []int64
	if err := r.db.SelectContext(ctx, &ids, query, persona); err != nil {
		return nil, err
	}
	return ids, nil
}
