package catalog

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/xxxsen/stylerec/internal/model"
	appErr "github.com/xxxsen/stylerec/internal/pkg/errors"
)

func testItem(id int64, category model.Category, price int64) model.Item {
	return model.Item{
		ID:          id,
		Name:        "item",
		Price:       price,
		ImageURL:    "http://img.example/a.jpg",
		Category:    category,
		NameVec:     []float32{1, 0},
		BrandVec:    []float32{0, 1},
		ImageVec:    []float32{1, 0},
		CategoryVec: []float32{0, 1},
	}
}

func TestNewSnapshot_RejectsDuplicateIDs(t *testing.T) {
	_, err := NewSnapshot([]model.Item{
		testItem(1, model.CategoryTop, 100),
		testItem(1, model.CategoryTop, 200),
	})
	require.Error(t, err)
}

func TestNewSnapshot_RejectsDimensionMismatch(t *testing.T) {
	bad := testItem(2, model.CategoryTop, 100)
	bad.ImageVec = []float32{1, 0, 0}
	_, err := NewSnapshot([]model.Item{
		testItem(1, model.CategoryTop, 100),
		bad,
	})
	require.Error(t, err)
}

func TestNewSnapshot_RejectsUnknownCategory(t *testing.T) {
	bad := testItem(1, model.Category("hat"), 100)
	_, err := NewSnapshot([]model.Item{bad})
	require.Error(t, err)
}

func TestSnapshot_RowOrderIsLoadOrder(t *testing.T) {
	snap, err := NewSnapshot([]model.Item{
		testItem(30, model.CategoryTop, 100),
		testItem(10, model.CategoryShoes, 200),
		testItem(20, model.CategoryTop, 300),
	})
	require.NoError(t, err)
	require.Equal(t, 3, snap.Len())
	require.Equal(t, int64(30), snap.Item(0).ID)
	require.Equal(t, int64(10), snap.Item(1).ID)
	require.Equal(t, int64(20), snap.Item(2).ID)

	row, ok := snap.Row(20)
	require.True(t, ok)
	require.Equal(t, 2, row)
	_, ok = snap.Get(99)
	require.False(t, ok)
}

func TestSnapshot_PriceRanges(t *testing.T) {
	snap, err := NewSnapshot([]model.Item{
		testItem(1, model.CategoryTop, 5000),
		testItem(2, model.CategoryTop, 15000),
		testItem(3, model.CategoryShoes, 30000),
	})
	require.NoError(t, err)
	ranges := snap.PriceRanges()
	require.Equal(t, model.PriceRange{Min: 5000, Max: 15000}, ranges[model.CategoryTop])
	require.Equal(t, model.PriceRange{Min: 30000, Max: 30000}, ranges[model.CategoryShoes])
	require.Equal(t, model.PriceRange{}, ranges[model.CategoryOuter])
}

func writeSnapshotFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "snapshot.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

const validSnapshotJSON = `{
	"ids": [1, 2],
	"names": ["a", "b"],
	"prices": [1000, 2000],
	"image_urls": ["http://img.example/1.jpg", "http://img.example/2.jpg"],
	"categories": ["top", "shoes"],
	"name_vecs": [[1, 0], [0, 1]],
	"brand_vecs": [[1, 0], [0, 1]],
	"image_vecs": [[1, 0], [0, 1]],
	"category_vecs": [[1, 0], [0, 1]]
}`

func TestFileLoader_LoadsValidSnapshot(t *testing.T) {
	path := writeSnapshotFile(t, validSnapshotJSON)
	snap, err := NewFileLoader(path).Load(context.Background())
	require.NoError(t, err)
	require.Equal(t, 2, snap.Len())
	item, ok := snap.Get(2)
	require.True(t, ok)
	require.Equal(t, model.CategoryShoes, item.Category)
}

func TestFileLoader_AbortsOnMissingField(t *testing.T) {
	content := `{
		"ids": [1],
		"names": ["a"],
		"prices": [1000],
		"image_urls": ["http://img.example/1.jpg"],
		"categories": ["top"],
		"name_vecs": [[1, 0]],
		"brand_vecs": [[1, 0]],
		"image_vecs": [[1, 0]]
	}`
	path := writeSnapshotFile(t, content)
	_, err := NewFileLoader(path).Load(context.Background())
	require.Error(t, err)
	require.Contains(t, err.Error(), "category_vecs")
}

func TestFileLoader_AbortsOnLengthMismatch(t *testing.T) {
	content := `{
		"ids": [1, 2],
		"names": ["a"],
		"prices": [1000, 2000],
		"image_urls": ["u1", "u2"],
		"categories": ["top", "top"],
		"name_vecs": [[1], [1]],
		"brand_vecs": [[1], [1]],
		"image_vecs": [[1], [1]],
		"category_vecs": [[1], [1]]
	}`
	path := writeSnapshotFile(t, content)
	_, err := NewFileLoader(path).Load(context.Background())
	require.Error(t, err)
}

func TestStore_UnreadyBeforeFirstLoad(t *testing.T) {
	store := NewStore(NewFileLoader("/does/not/exist.json"))
	require.False(t, store.Ready())
	_, err := store.Snapshot()
	require.ErrorIs(t, err, appErr.ErrUnready)

	require.Error(t, store.Reload(context.Background()))
	require.False(t, store.Ready())
}

func TestStore_ReloadSwapsSnapshot(t *testing.T) {
	path := writeSnapshotFile(t, validSnapshotJSON)
	store := NewStore(NewFileLoader(path))
	require.NoError(t, store.Reload(context.Background()))
	require.True(t, store.Ready())

	first, err := store.Snapshot()
	require.NoError(t, err)

	require.NoError(t, store.Reload(context.Background()))
	second, err := store.Snapshot()
	require.NoError(t, err)
	require.NotSame(t, first, second)
	// The old snapshot stays intact for requests that already hold it.
	require.Equal(t, 2, first.Len())
}

func TestStore_FailedReloadKeepsOldSnapshot(t *testing.T) {
	path := writeSnapshotFile(t, validSnapshotJSON)
	loader := &switchableLoader{loader: NewFileLoader(path)}
	store := NewStore(loader)
	require.NoError(t, store.Reload(context.Background()))

	loader.loader = NewFileLoader("/does/not/exist.json")
	require.Error(t, store.Reload(context.Background()))
	require.True(t, store.Ready())
}

type switchableLoader struct {
	loader Loader
}

func (l *switchableLoader) Load(ctx context.Context) (*Snapshot, error) {
	return l.loader.Load(ctx)
}
