package repo

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/xxxsen/stylerec/internal/model"
	appErr "github.com/xxxsen/stylerec/internal/pkg/errors"
	"github.com/xxxsen/stylerec/internal/repo"
	"github.com/xxxsen/stylerec/test/testutil"
)

// outfitFixture builds an outfit whose item ids are unique per call, so
// repeated test runs against the same database never trip the duplicate
// combination constraint by accident.
func outfitFixture(persona string) *model.Outfit {
	base := time.Now().UnixNano() % 1_000_000_000
	return &model.Outfit{
		Persona:  persona,
		TopID:    base + 1,
		BottomID: base + 2,
		ShoesID:  base + 3,
	}
}

func uniquePersona(t *testing.T) string {
	t.Helper()
	return fmt.Sprintf("persona-%d", time.Now().UnixNano())
}

func TestOutfitRepoCreateAndGet(t *testing.T) {
	db, cleanup := testutil.OpenTestDB(t)
	defer cleanup()
	ctx := context.Background()
	r := repo.NewOutfitRepo(db)

	now := time.Now().Unix()
	id, err := r.Create(ctx, outfitFixture("amekaji"), now)
	require.NoError(t, err)
	require.Greater(t, id, int64(0))

	outfit, err := r.Get(ctx, "amekaji", id)
	require.NoError(t, err)
	require.Equal(t, "amekaji", outfit.Persona)
	require.Equal(t, []int64{outfit.TopID, outfit.BottomID, outfit.ShoesID}, outfit.ItemIDs())

	ids, err := r.ListIDs(ctx, "amekaji")
	require.NoError(t, err)
	require.Contains(t, ids, id)

	_, err = r.Get(ctx, "other-persona", id)
	require.ErrorIs(t, err, appErr.ErrNotFound)
}

func TestOutfitRepoDuplicateConflict(t *testing.T) {
	db, cleanup := testutil.OpenTestDB(t)
	defer cleanup()
	ctx := context.Background()
	r := repo.NewOutfitRepo(db)

	now := time.Now().Unix()
	outfit := outfitFixture("amekaji")
	_, err := r.Create(ctx, outfit, now)
	require.NoError(t, err)

	_, err = r.Create(ctx, outfit, now)
	require.ErrorIs(t, err, appErr.ErrConflict)
}

func TestRepresentativeRepoItemIDs(t *testing.T) {
	db, cleanup := testutil.OpenTestDB(t)
	defer cleanup()
	ctx := context.Background()
	r := repo.NewRepresentativeRepo(db)

	persona := uniquePersona(t)
	for _, productID := range []int64{301, 302} {
		_, err := db.ExecContext(ctx,
			`INSERT INTO representative_item (persona, product_id) VALUES ($1, $2)`,
			persona, productID)
		require.NoError(t, err)
	}

	ids, err := r.ItemIDs(ctx, persona)
	require.NoError(t, err)
	require.Equal(t, []int64{301, 302}, ids)

	empty, err := r.ItemIDs(ctx, "nobody")
	require.NoError(t, err)
	require.Empty(t, empty)
}
