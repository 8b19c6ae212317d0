package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/xxxsen/stylerec/internal/pkg/errcode"
	"github.com/xxxsen/stylerec/internal/pkg/response"
	"github.com/xxxsen/stylerec/internal/service"
)

type OutfitHandler struct {
	outfits *service.OutfitService
}

func NewOutfitHandler(outfits *service.OutfitService) *OutfitHandler {
	return &OutfitHandler{outfits: outfits}
}

type createOutfitRequest struct {
	Persona string                    `json:"persona"`
	Items   []service.OutfitItemInput `json:"items"`
}

func (h *OutfitHandler) Create(c *gin.Context) {
	var req createOutfitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, errcode.ErrInvalid, "invalid payload")
		return
	}
	id, err := h.outfits.Create(c.Request.Context(), req.Persona, req.Items)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, gin.H{"id": id})
}
