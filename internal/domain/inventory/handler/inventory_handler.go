package handler

import (
	"errors"
	"net/http"

	"shop_engine/internal/domain/inventory/model"
	"shop_engine/internal/domain/inventory/service"
	"shop_engine/pkg/response"

	"github.com/gin-gonic/gin"
)

type InventoryHandler struct {
	service service.InventoryService
}

func NewInventoryHandler(service service.InventoryService) *InventoryHandler {
	return &InventoryHandler{service: service}
}

type CheckInput struct {
	VariantID string `json:"variantId" binding:"required"`
	Quantity  int    `json:"quantity" binding:"required,min=1"`
}

// CheckInventory godoc
// @Summary 库存校验 (只读，不预占)
// @Tags inventory
// @Accept json
// @Produce json
// @Param request body CheckInput true "规格与数量"
// @Success 200 {object} response.Response
// @Router /inventory/check [post]
func (h *InventoryHandler) CheckInventory(c *gin.Context) {
	var input CheckInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}

	check, err := h.service.CheckInventory(c.Request.Context(), input.VariantID, input.Quantity)
	if err != nil {
		if errors.Is(err, model.ErrInvalidQuantity) {
			response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
			return
		}
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
		return
	}

	if !check.Available {
		response.FailWithData(c, response.ErrInventoryRejected, check.Message, check)
		return
	}
	response.Success(c, check)
}
