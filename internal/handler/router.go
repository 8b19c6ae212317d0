package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/xxxsen/stylerec/internal/middleware"
)

type RouterDeps struct {
	Recommend *RecommendHandler
	Outfits   *OutfitHandler
	Prices    *PriceHandler
	Assets    *AssetHandler
	Catalog   *CatalogHandler
	RateLimit time.Duration
}

func RegisterRoutes(engine *gin.Engine, deps RouterDeps) {
	engine.GET("/healthz", deps.Catalog.Health)
	engine.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := engine.Group("/api/v1")
	api.GET("/recommendations", deps.Recommend.Get)
	api.GET("/price-ranges", deps.Prices.Ranges)
	api.GET("/assets/:key", deps.Assets.Get)

	writes := api.Group("")
	if deps.RateLimit > 0 {
		writes.Use(middleware.RateLimit(deps.RateLimit))
	}
	writes.POST("/outfits", deps.Outfits.Create)
	writes.POST("/catalog/reload", deps.Catalog.Reload)
}
