package service

import (
	"context"
	"time"

	"github.com/xxxsen/stylerec/internal/catalog"
	"github.com/xxxsen/stylerec/internal/model"
	appErr "github.com/xxxsen/stylerec/internal/pkg/errors"
)

type OutfitWriter interface {
	Create(ctx context.Context, outfit *model.Outfit, now int64) (int64, error)
}

type OutfitService struct {
	outfits OutfitWriter
	catalog *catalog.Store
}

func NewOutfitService(outfits OutfitWriter, store *catalog.Store) *OutfitService {
	return &OutfitService{outfits: outfits, catalog: store}
}

type OutfitItemInput struct {
	Category  string `json:"category"`
	ProductID int64  `json:"product_id"`
}

// Create stores a persona outfit. top/bottom/shoes are mandatory slots,
// outer/acc default to 0 (meaning "none"). A duplicate item combination
// surfaces as ErrConflict.
func (s *OutfitService) Create(ctx context.Context, persona string, items []OutfitItemInput) (int64, error) {
	if persona == "" {
		return 0, appErr.ErrInvalid
	}
	byCategory := make(map[model.Category]int64, len(items))
	for _, item := range items {
		cat, ok := model.ParseCategory(item.Category)
		if !ok || item.ProductID <= 0 {
			continue
		}
		byCategory[cat] = item.ProductID
	}
	for _, required := range []model.Category{model.CategoryTop, model.CategoryBottom, model.CategoryShoes} {
		if byCategory[required] == 0 {
			return 0, appErr.ErrInvalid
		}
	}
	if snap, err := s.catalog.Snapshot(); err == nil {
		for _, id := range byCategory {
			if _, ok := snap.Get(id); !ok {
				return 0, appErr.ErrInvalid
			}
		}
	}
	outfit := &model.Outfit{
		Persona:  persona,
		OuterID:  byCategory[model.CategoryOuter],
		TopID:    byCategory[model.CategoryTop],
		BottomID: byCategory[model.CategoryBottom],
		ShoesID:  byCategory[model.CategoryShoes],
		AccID:    byCategory[model.CategoryAcc],
	}
	return s.outfits.Create(ctx, outfit, time.Now().Unix())
}
