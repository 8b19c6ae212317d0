package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/xxxsen/stylerec/internal/pkg/response"
	"github.com/xxxsen/stylerec/internal/service"
)

type PriceHandler struct {
	prices *service.PriceService
}

func NewPriceHandler(prices *service.PriceService) *PriceHandler {
	return &PriceHandler{prices: prices}
}

func (h *PriceHandler) Ranges(c *gin.Context) {
	ranges, err := h.prices.Ranges(c.Request.Context())
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, ranges)
}
