package repo

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"

	"github.com/xxxsen/stylerec/internal/model"
	"github.com/xxxsen/stylerec/internal/pkg/dbutil"
	appErr "github.com/xxxsen/stylerec/internal/pkg/errors"
)

type OutfitRepo struct {
	db *sqlx.DB
}

func NewOutfitRepo(db *sqlx.DB) *OutfitRepo {
	return &OutfitRepo{db: db}
}

// ListIDs returns the distinct outfit ids associated with a persona.
func (r *OutfitRepo) ListIDs(ctx context.Context, persona string) ([]int64, error) {
	const query = `SELECT id FROM outfit WHERE persona = $1 ORDER BY id`
	var ids []int64
	if err := r.db.SelectContext(ctx, &ids, query, persona); err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *OutfitRepo) Get(ctx context.Context, persona string, outfitID int64) (*model.Outfit, error) {
	const query = `
		SELECT id, persona, outer_id, top_id, bottom_id, shoes_id, acc_id
		FROM outfit
		WHERE id = $1 AND persona = $2
	`
	var outfit model.Outfit
	if err := r.db.GetContext(ctx, &outfit, query, outfitID, persona); err != nil {
		if err == sql.ErrNoRows {
			return nil, appErr.ErrNotFound
		}
		return nil, err
	}
	return &outfit, nil
}

func (r *OutfitRepo) Create(ctx context.Context, outfit *model.Outfit, now int64) (int64, error) {
	const query = `
		INSERT INTO outfit (persona, outer_id, top_id, bottom_id, shoes_id, acc_id, ctime)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`
	var id int64
	err := r.db.QueryRowContext(ctx, query,
		outfit.Persona, outfit.OuterID, outfit.TopID,
		outfit.BottomID, outfit.ShoesID, outfit.AccID, now,
	).Scan(&id)
	if err != nil {
		if dbutil.IsConflict(err) {
			return 0, appErr.ErrConflict
		}
		return 0, err
	}
	return id, nil
}
