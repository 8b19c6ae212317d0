package service

import (
	"context"
	"math/rand"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/xxxsen/stylerec/internal/assetcache"
	"github.com/xxxsen/stylerec/internal/catalog"
	"github.com/xxxsen/stylerec/internal/metrics"
	"github.com/xxxsen/stylerec/internal/model"
	appErr "github.com/xxxsen/stylerec/internal/pkg/errors"
	"github.com/xxxsen/stylerec/internal/recommend"
)

const (
	ModeOutfit         = "outfit"
	ModeRepresentative = "representative"
)

// OutfitSource and RepresentativeSource are the association-store queries
// the resolver needs; the postgres repos satisfy them.
type OutfitSource interface {
	ListIDs(ctx context.Context, persona string) ([]int64, error)
	Get(ctx context.Context, persona string, outfitID int64) (*model.Outfit, error)
}

type RepresentativeSource interface {
	ItemIDs(ctx context.Context, persona string) ([]int64, error)
}

type AssetResolver interface {
	GetOrCreate(ctx context.Context, itemID int64, sourceURL, baseURL string) assetcache.Result
}

type RecommendService struct {
	catalog  *catalog.Store
	outfits  OutfitSource
	reps     RepresentativeSource
	assets   AssetResolver
	selector *recommend.Selector
	presets  map[string]recommend.Weights
	fallback string
}

func NewRecommendService(
	store *catalog.Store,
	outfits OutfitSource,
	reps RepresentativeSource,
	assets AssetResolver,
	selector *recommend.Selector,
	presets map[string]recommend.Weights,
	defaultPreset string,
) *RecommendService {
	return &RecommendService{
		catalog:  store,
		outfits:  outfits,
		reps:     reps,
		assets:   assets,
		selector: selector,
		presets:  presets,
		fallback: defaultPreset,
	}
}

type RecommendQuery struct {
	Persona  string
	Mode     string
	OutfitID int64 // outfit mode only; 0 picks a random persona outfit
	Category model.Category
	MinPrice int64
	MaxPrice int64
	Preset   string
	BaseURL  string
}

type RecommendResult struct {
	Persona  string                                     `json:"persona"`
	OutfitID int64                                      `json:"outfit_id,omitempty"`
	Items    map[model.Category][]model.RecommendedItem `json:"items"`
}

// Recommend runs the whole pipeline: resolve the target set, score the
// catalog per target category, select a diverse shortlist, and attach a
// display-ready image for every pick.
func (s *RecommendService) Recommend(ctx context.Context, q RecommendQuery) (*RecommendResult, error) {
	snap, err := s.catalog.Snapshot()
	if err != nil {
		return nil, err
	}
	weights, ok := s.presets[s.presetName(q.Preset)]
	if !ok {
		return nil, appErr.ErrInvalid
	}
	targets, outfitID, err := s.resolveTargets(ctx, snap, q)
	if err != nil {
		return nil, err
	}

	result := &RecommendResult{
		Persona:  q.Persona,
		OutfitID: outfitID,
		Items:    make(map[model.Category][]model.RecommendedItem, len(model.Categories)),
	}
	for _, cat := range model.Categories {
		result.Items[cat] = []model.RecommendedItem{}
	}
	filter := recommend.Filter{MinPrice: q.MinPrice, MaxPrice: q.MaxPrice}
	for _, cat := range model.Categories {
		if q.Category != "" && q.Category != cat {
			continue
		}
		rows, populated := targets[cat]
		if !populated {
			continue
		}
		target := recommend.BuildTarget(snap, rows)
		scores := recommend.Score(snap, target, weights)
		for _, row := range s.selector.SelectCategory(snap, scores, cat, filter) {
			item := snap.Item(row)
			asset := s.assets.GetOrCreate(ctx, item.ID, item.ImageURL, q.BaseURL)
			result.Items[cat] = append(result.Items[cat], model.RecommendedItem{
				ID:       item.ID,
				Name:     item.Name,
				Price:    item.Price,
				Category: item.Category,
				ImageURL: asset.URL,
				Score:    scores[row],
			})
		}
	}
	return result, nil
}

func (s *RecommendService) presetName(name string) string {
	if name == "" {
		return s.fallback
	}
	return name
}

// resolveTargets turns the request into per-category snapshot rows. Ids
// known to the association store but missing from the catalog are dropped
// and counted; only an empty remainder is a hard failure.
func (s *RecommendService) resolveTargets(ctx context.Context, snap *catalog.Snapshot, q RecommendQuery) (map[model.Category][]int, int64, error) {
	var ids []int64
	var outfitID int64
	switch q.Mode {
	case ModeRepresentative:
		repIDs, err := s.reps.ItemIDs(ctx, q.Persona)
		if err != nil {
			return nil, 0, err
		}
		if len(repIDs) == 0 {
			return nil, 0, appErr.ErrNotFound
		}
		ids = repIDs
	case ModeOutfit:
		chosen := q.OutfitID
		if chosen == 0 {
			outfitIDs, err := s.outfits.ListIDs(ctx, q.Persona)
			if err != nil {
				return nil, 0, err
			}
			if len(outfitIDs) == 0 {
				return nil, 0, appErr.ErrNotFound
			}
			chosen = outfitIDs[rand.Intn(len(outfitIDs))]
		}
		outfit, err := s.outfits.Get(ctx, q.Persona, chosen)
		if err != nil {
			return nil, 0, err
		}
		itemIDs := outfit.ItemIDs()
		if len(itemIDs) == 0 {
			return nil, 0, appErr.ErrNotFound
		}
		ids = itemIDs
		outfitID = chosen
	default:
		return nil, 0, appErr.ErrInvalid
	}

	targets := make(map[model.Category][]int)
	dropped := 0
	for _, id := range ids {
		row, ok := snap.Row(id)
		if !ok {
			dropped++
			continue
		}
		cat := snap.Item(row).Category
		targets[cat] = append(targets[cat], row)
	}
	if dropped > 0 {
		metrics.StaleTargetIDs.Add(float64(dropped))
		logutil.GetLogger(ctx).Warn("target ids missing from catalog",
			zap.String("persona", q.Persona), zap.Int("dropped", dropped))
	}
	if len(targets) == 0 {
		return nil, 0, appErr.ErrNotFound
	}
	return targets, outfitID, nil
}
