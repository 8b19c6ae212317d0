package handler_test

import (
	"context"
	"math/rand"
	"net/http"
	"os"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/xxxsen/stylerec/internal/assetcache"
	"github.com/xxxsen/stylerec/internal/catalog"
	"github.com/xxxsen/stylerec/internal/config"
	"github.com/xxxsen/stylerec/internal/filestore"
	"github.com/xxxsen/stylerec/internal/handler"
	"github.com/xxxsen/stylerec/internal/middleware"
	"github.com/xxxsen/stylerec/internal/model"
	appErr "github.com/xxxsen/stylerec/internal/pkg/errors"
	"github.com/xxxsen/stylerec/internal/recommend"
	"github.com/xxxsen/stylerec/internal/service"
)

type fixtureLoader struct {
	snap *catalog.Snapshot
}

func (l *fixtureLoader) Load(ctx context.Context) (*catalog.Snapshot, error) {
	return l.snap, nil
}

type memOutfits struct {
	ids     []int64
	outfits map[int64]*model.Outfit
	nextID  int64
}

func (m *memOutfits) ListIDs(ctx context.Context, persona string) ([]int64, error) {
	var ids []int64
	for _, id := range m.ids {
		if m.outfits[id].Persona == persona {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

func (m *memOutfits) Get(ctx context.Context, persona string, outfitID int64) (*model.Outfit, error) {
	outfit, ok := m.outfits[outfitID]
	if !ok || outfit.Persona != persona {
		return nil, appErr.ErrNotFound
	}
	return outfit, nil
}

func (m *memOutfits) Create(ctx context.Context, outfit *model.Outfit, now int64) (int64, error) {
	m.nextID++
	outfit.ID = m.nextID
	m.outfits[outfit.ID] = outfit
	m.ids = append(m.ids, outfit.ID)
	return outfit.ID, nil
}

type memReps struct {
	byPersona map[string][]int64
}

func (m *memReps) ItemIDs(ctx context.Context, persona string) ([]int64, error) {
	return m.byPersona[persona], nil
}

type sourceURLAssets struct{}

func (sourceURLAssets) GetOrCreate(ctx context.Context, itemID int64, sourceURL, baseURL string) assetcache.Result {
	return assetcache.Result{URL: sourceURL}
}

func catalogItem(id int64, category model.Category, price int64) model.Item {
	return model.Item{
		ID:          id,
		Name:        "item",
		Price:       price,
		ImageURL:    "http://img.example/src.jpg",
		Category:    category,
		NameVec:     []float32{1, 0},
		BrandVec:    []float32{1, 0},
		ImageVec:    []float32{1, 0},
		CategoryVec: []float32{1, 0},
	}
}

func setupRouter(t *testing.T) (http.Handler, func()) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	snap, err := catalog.NewSnapshot([]model.Item{
		catalogItem(1, model.CategoryTop, 5000),
		catalogItem(2, model.CategoryTop, 12000),
		catalogItem(3, model.CategoryBottom, 8000),
		catalogItem(4, model.CategoryShoes, 30000),
		catalogItem(5, model.CategoryShoes, 35000),
	})
	require.NoError(t, err)
	store := catalog.NewStore(&fixtureLoader{snap: snap})
	require.NoError(t, store.Reload(context.Background()))

	outfits := &memOutfits{outfits: map[int64]*model.Outfit{}}
	reps := &memReps{byPersona: map[string][]int64{
		"amekaji": {1, 4},
	}}

	presets := map[string]recommend.Weights{
		"balanced": {Name: 0.3, Brand: 0.3, Image: 0.3, Category: 0.1},
	}
	selector := recommend.NewSelectorWithRand(100, 5, rand.New(rand.NewSource(1)))
	recommendService := service.NewRecommendService(store, outfits, reps, sourceURLAssets{}, selector, presets, "balanced")
	outfitService := service.NewOutfitService(outfits, store)
	priceService := service.NewPriceService(store)

	tmpDir, err := os.MkdirTemp("", "stylerec-assets-*")
	require.NoError(t, err)
	fileStore, err := filestore.New(config.FileStoreConfig{
		Type: "local",
		Dir:  tmpDir,
	})
	require.NoError(t, err)

	engine := gin.New()
	engine.Use(middleware.RequestID(), middleware.CORS(nil))
	handler.RegisterRoutes(engine, handler.RouterDeps{
		Recommend: handler.NewRecommendHandler(recommendService, "amekaji"),
		Outfits:   handler.NewOutfitHandler(outfitService),
		Prices:    handler.NewPriceHandler(priceService),
		Assets:    handler.NewAssetHandler(fileStore),
		Catalog:   handler.NewCatalogHandler(store),
	})

	return engine, func() {
		_ = os.RemoveAll(tmpDir)
	}
}
