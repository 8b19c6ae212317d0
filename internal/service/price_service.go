package service

import (
	"context"

	"github.com/xxxsen/stylerec/internal/catalog"
	"github.com/xxxsen/stylerec/internal/model"
)

type PriceService struct {
	catalog *catalog.Store
}

func NewPriceService(store *catalog.Store) *PriceService {
	return &PriceService{catalog: store}
}

func (s *PriceService) Ranges(ctx context.Context) (map[model.Category]model.PriceRange, error) {
	_ = ctx
	snap, err := s.catalog.Snapshot()
	if err != nil {
		return nil, err
	}
	return snap.PriceRanges(), nil
}
