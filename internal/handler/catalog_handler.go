package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/xxxsen/stylerec/internal/catalog"
	"github.com/xxxsen/stylerec/internal/metrics"
	appErr "github.com/xxxsen/stylerec/internal/pkg/errors"
	"github.com/xxxsen/stylerec/internal/pkg/response"
)

type CatalogHandler struct {
	store *catalog.Store
}

func NewCatalogHandler(store *catalog.Store) *CatalogHandler {
	return &CatalogHandler{store: store}
}

// Reload swaps in a fresh snapshot. In-flight requests keep the snapshot
// they resolved at the start of their pipeline.
func (h *CatalogHandler) Reload(c *gin.Context) {
	ctx := c.Request.Context()
	if err := h.store.Reload(ctx); err != nil {
		metrics.CatalogReloads.WithLabelValues("error").Inc()
		logutil.GetLogger(ctx).Error("catalog reload failed", zap.Error(err))
		handleError(c, appErr.ErrUnready)
		return
	}
	metrics.CatalogReloads.WithLabelValues("ok").Inc()
	snap, err := h.store.Snapshot()
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, gin.H{"items": snap.Len()})
}

func (h *CatalogHandler) Health(c *gin.Context) {
	if !h.store.Ready() {
		handleError(c, appErr.ErrUnready)
		return
	}
	response.Success(c, gin.H{"status": "ok"})
}
