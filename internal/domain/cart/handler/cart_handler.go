package handler

import (
	"errors"
	"net/http"

	"shop_engine/internal/domain/cart/model"
	"shop_engine/internal/domain/cart/service"
	catalogModel "shop_engine/internal/domain/catalog/model"
	inventoryModel "shop_engine/internal/domain/inventory/model"
	"shop_engine/internal/pkg/middleware"
	"shop_engine/pkg/response"

	"github.com/gin-gonic/gin"
)

type CartHandler struct {
	service service.CartService
}

func NewCartHandler(service service.CartService) *CartHandler {
	return &CartHandler{service: service}
}

type AddItemRequest struct {
	ProductID string `json:"productId" binding:"required"`
	VariantID string `json:"variantId" binding:"required"`
	Quantity  int    `json:"quantity" binding:"required,min=1"`
}

type UpdateItemRequest struct {
	Quantity int `json:"quantity" binding:"required,min=1"`
}

// GetCart godoc
// @Summary 我的购物车 (按当前活动定价)
// @Tags cart
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /cart [get]
func (h *CartHandler) GetCart(c *gin.Context) {
	uid, ok := middleware.RequireUserID(c)
	if !ok {
		return
	}

	cart, err := h.service.GetCart(c.Request.Context(), uid)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, cart)
}

// AddItem godoc
// @Summary 加入购物车
// @Tags cart
// @Security BearerAuth
// @Param request body AddItemRequest true "商品规格与数量"
// @Success 200 {object} response.Response
// @Router /cart/items [post]
func (h *CartHandler) AddItem(c *gin.Context) {
	uid, ok := middleware.RequireUserID(c)
	if !ok {
		return
	}

	var req AddItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}

	cart, err := h.service.AddItem(c.Request.Context(), uid, service.AddItemInput{
		ProductID: req.ProductID,
		VariantID: req.VariantID,
		Quantity:  req.Quantity,
	})
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, cart)
}

// UpdateItem godoc
// @Summary 修改购物车行数量
// @Tags cart
// @Security BearerAuth
// @Param id path string true "购物车行 ID"
// @Param request body UpdateItemRequest true "数量"
// @Success 200 {object} response.Response
// @Router /cart/items/{id} [put]
func (h *CartHandler) UpdateItem(c *gin.Context) {
	uid, ok := middleware.RequireUserID(c)
	if !ok {
		return
	}

	var req UpdateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}

	cart, err := h.service.UpdateItem(c.Request.Context(), uid, c.Param("id"), req.Quantity)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, cart)
}

// RemoveItem godoc
// @Summary 删除购物车行
// @Tags cart
// @Security BearerAuth
// @Param id path string true "购物车行 ID"
// @Success 200 {object} response.Response
// @Router /cart/items/{id} [delete]
func (h *CartHandler) RemoveItem(c *gin.Context) {
	uid, ok := middleware.RequireUserID(c)
	if !ok {
		return
	}

	cart, err := h.service.RemoveItem(c.Request.Context(), uid, c.Param("id"))
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, cart)
}

func (h *CartHandler) handleError(c *gin.Context, err error) {
	var rejection *inventoryModel.RejectionError
	switch {
	case errors.As(err, &rejection):
		response.FailWithData(c, response.ErrInventoryRejected, rejection.Check.Message, rejection.Check)
	case errors.Is(err, model.ErrInvalidQuantity):
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
	case errors.Is(err, model.ErrCartItemNotFound):
		response.Error(c, http.StatusNotFound, response.ErrCartItemNotFound, err.Error())
	case errors.Is(err, catalogModel.ErrProductNotFound):
		response.Error(c, http.StatusNotFound, response.ErrProductNotFound, err.Error())
	case errors.Is(err, catalogModel.ErrVariantNotFound):
		response.Error(c, http.StatusNotFound, response.ErrVariantNotFound, err.Error())
	default:
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
	}
}
