package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	RecommendRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "stylerec_recommend_requests_total",
		Help: "Recommendation requests by resolve mode and outcome.",
	}, []string{"mode", "outcome"})

	StaleTargetIDs = promauto.NewCounter(prometheus.CounterOpts{
		Name: "stylerec_stale_target_ids_total",
		Help: "Target item ids present in the association store but absent from the catalog.",
	})

	AssetCacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "stylerec_asset_cache_lookups_total",
		Help: "Derived asset lookups by result (hit, fill, fallback).",
	}, []string{"result"})

	CatalogReloads = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "stylerec_catalog_reloads_total",
		Help: "Catalog snapshot reload attempts by outcome.",
	}, []string{"outcome"})
)
