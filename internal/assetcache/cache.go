package assetcache

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/xxxsen/stylerec/internal/filestore"
	"github.com/xxxsen/stylerec/internal/imgproc"
	"github.com/xxxsen/stylerec/internal/metrics"
)

// Result is what the ranking path renders: either the derived asset's URL
// or, after any failure, the untouched source URL.
type Result struct {
	URL       string
	FromCache bool
}

// Cache materializes background-removed product images on first use and
// keeps them forever under a deterministic per-item key. A filestore entry,
// once present, is trusted absolutely; there is no TTL and no invalidation.
//
// Concurrent fills of the same key are tolerated rather than locked out:
// the transform is a pure function of the source image, so the last writer
// wins with an equivalent object.
type Cache struct {
	store filestore.Store
	proc  *imgproc.Processor
	// seen only remembers keys already observed in the filestore so hot
	// items skip the existence check. Losing an entry is harmless.
	seen *expirable.LRU[string, struct{}]
}

func New(store filestore.Store, proc *imgproc.Processor, lruSize int, lruTTL time.Duration) *Cache {
	return &Cache{
		store: store,
		proc:  proc,
		seen:  expirable.NewLRU[string, struct{}](lruSize, nil, lruTTL),
	}
}

// Key is the deterministic, content-addressed-by-id storage key.
func Key(itemID int64) string {
	return fmt.Sprintf("nobg_%d.png", itemID)
}

// GetOrCreate resolves the display URL for an item. It never returns an
// error: every failure degrades to the original source URL and leaves no
// cache entry, so a later request retries the fill.
func (c *Cache) GetOrCreate(ctx context.Context, itemID int64, sourceURL, baseURL string) Result {
	key := Key(itemID)
	if _, ok := c.seen.Get(key); ok {
		metrics.AssetCacheLookups.WithLabelValues("hit").Inc()
		return Result{URL: c.store.URL(key, baseURL), FromCache: true}
	}
	exists, err := c.store.Exists(ctx, key)
	if err != nil {
		logutil.GetLogger(ctx).Warn("asset existence check failed",
			zap.Int64("item_id", itemID), zap.Error(err))
	}
	if exists {
		c.seen.Add(key, struct{}{})
		metrics.AssetCacheLookups.WithLabelValues("hit").Inc()
		return Result{URL: c.store.URL(key, baseURL), FromCache: true}
	}
	derived, err := c.proc.Process(ctx, sourceURL)
	if err != nil {
		metrics.AssetCacheLookups.WithLabelValues("fallback").Inc()
		logutil.GetLogger(ctx).Warn("asset transform failed, serving original",
			zap.Int64("item_id", itemID), zap.String("source_url", sourceURL), zap.Error(err))
		return Result{URL: sourceURL}
	}
	reader := newByteReader(derived)
	if err := c.store.Save(ctx, key, reader, int64(len(derived))); err != nil {
		metrics.AssetCacheLookups.WithLabelValues("fallback").Inc()
		logutil.GetLogger(ctx).Warn("asset save failed, serving original",
			zap.Int64("item_id", itemID), zap.Error(err))
		return Result{URL: sourceURL}
	}
	c.seen.Add(key, struct{}{})
	metrics.AssetCacheLookups.WithLabelValues("fill").Inc()
	return Result{URL: c.store.URL(key, baseURL)}
}

type byteReader struct {
	*bytes.Reader
}

func newByteReader(data []byte) filestore.ReadSeekCloser {
	return &byteReader{Reader: bytes.NewReader(data)}
}

func (b *byteReader) Close() error {
	return nil
}
