package job

import (
	"context"

	"github.com/xxxsen/stylerec/internal/catalog"
	"github.com/xxxsen/stylerec/internal/metrics"
)

// CatalogReloadJob refreshes the catalog snapshot from its source artifact.
// The swap is atomic, so requests in flight keep their snapshot.
type CatalogReloadJob struct {
	store *catalog.Store
}

func NewCatalogReloadJob(store *catalog.Store) *CatalogReloadJob {
	return &CatalogReloadJob{store: store}
}

func (j *CatalogReloadJob) Name() string {
	return "catalog_reload"
}

func (j *CatalogReloadJob) Run(ctx context.Context) error {
	if err := j.store.Reload(ctx); err != nil {
		metrics.CatalogReloads.WithLabelValues("error").Inc()
		return err
	}
	metrics.CatalogReloads.WithLabelValues("ok").Inc()
	return nil
}
