package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/xxxsen/stylerec/internal/metrics"
	"github.com/xxxsen/stylerec/internal/model"
	"github.com/xxxsen/stylerec/internal/pkg/errcode"
	appErr "github.com/xxxsen/stylerec/internal/pkg/errors"
	"github.com/xxxsen/stylerec/internal/pkg/response"
	"github.com/xxxsen/stylerec/internal/service"
)

type RecommendHandler struct {
	recommender    *service.RecommendService
	defaultPersona string
}

func NewRecommendHandler(recommender *service.RecommendService, defaultPersona string) *RecommendHandler {
	return &RecommendHandler{recommender: recommender, defaultPersona: defaultPersona}
}

// Get handles GET /recommendations. Input validation happens here, before
// any scoring work; the randomized payload is marked uncacheable.
func (h *RecommendHandler) Get(c *gin.Context) {
	query, err := h.parseQuery(c)
	if err != nil {
		metrics.RecommendRequests.WithLabelValues("invalid", "rejected").Inc()
		response.Error(c, http.StatusBadRequest, errcode.ErrInvalid, err.Error())
		return
	}
	result, err := h.recommender.Recommend(c.Request.Context(), *query)
	if err != nil {
		metrics.RecommendRequests.WithLabelValues(query.Mode, "error").Inc()
		handleError(c, err)
		return
	}
	metrics.RecommendRequests.WithLabelValues(query.Mode, "ok").Inc()
	c.Header("Cache-Control", "no-store")
	response.Success(c, result)
}

func (h *RecommendHandler) parseQuery(c *gin.Context) (*service.RecommendQuery, error) {
	query := &service.RecommendQuery{
		Persona: c.DefaultQuery("persona", h.defaultPersona),
		Mode:    c.DefaultQuery("mode", service.ModeRepresentative),
		Preset:  c.Query("preset"),
		BaseURL: requestBaseURL(c),
	}
	if query.Mode != service.ModeOutfit && query.Mode != service.ModeRepresentative {
		return nil, appErr.ErrInvalid
	}
	if value := c.Query("outfit_id"); value != "" {
		parsed, err := strconv.ParseInt(value, 10, 64)
		if err != nil || parsed <= 0 {
			return nil, appErr.ErrInvalid
		}
		query.OutfitID = parsed
	}
	if value := c.Query("category"); value != "" {
		category, ok := model.ParseCategory(value)
		if !ok {
			return nil, appErr.ErrInvalid
		}
		query.Category = category
	}
	var err error
	if query.MinPrice, err = parsePrice(c.Query("min_price")); err != nil {
		return nil, err
	}
	if query.MaxPrice, err = parsePrice(c.Query("max_price")); err != nil {
		return nil, err
	}
	if query.MaxPrice > 0 && query.MinPrice > query.MaxPrice {
		return nil, appErr.ErrInvalid
	}
	return query, nil
}

func parsePrice(value string) (int64, error) {
	if value == "" {
		return 0, nil
	}
	parsed, err := strconv.ParseInt(value, 10, 64)
	if err != nil || parsed < 0 {
		return 0, appErr.ErrInvalid
	}
	return parsed, nil
}
