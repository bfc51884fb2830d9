package handler

import (
	"errors"
	"net/http"

	checkoutModel "shop_engine/internal/domain/checkout/model"
	inventoryModel "shop_engine/internal/domain/inventory/model"
	"shop_engine/internal/domain/order/model"
	"shop_engine/internal/domain/order/service"
	walletModel "shop_engine/internal/domain/wallet/model"
	"shop_engine/internal/pkg/middleware"
	"shop_engine/pkg/response"
	"shop_engine/pkg/utils"

	"github.com/gin-gonic/gin"
)

type OrderHandler struct {
	service service.OrderService
}

func NewOrderHandler(service service.OrderService) *OrderHandler {
	return &OrderHandler{service: service}
}

type PlaceOrderRequest struct {
	DraftID          string `json:"draftId" binding:"required"`
	PaymentMethod    string `json:"paymentMethod" binding:"required"`
	PaymentConfirmed bool   `json:"paymentConfirmed"`
}

type ReasonRequest struct {
	Reason string `json:"reason"`
}

type ReturnRequest struct {
	ItemIDs []string `json:"itemIds"`
	Reason  string   `json:"reason"`
}

type StatusRequest struct {
	Status string `json:"status" binding:"required"`
	Reason string `json:"reason"`
}

// PlaceOrder godoc
// @Summary 由结算草稿下单
// @Tags orders
// @Security BearerAuth
// @Param request body PlaceOrderRequest true "草稿与支付方式"
// @Success 200 {object} response.Response
// @Router /orders [post]
func (h *OrderHandler) PlaceOrder(c *gin.Context) {
	uid, ok := middleware.RequireUserID(c)
	if !ok {
		return
	}

	var req PlaceOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}

	order, err := h.service.PlaceOrder(c.Request.Context(), uid, service.PlaceOrderInput{
		DraftID:          req.DraftID,
		PaymentMethod:    req.PaymentMethod,
		PaymentConfirmed: req.PaymentConfirmed,
	})
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, order)
}

// ListMyOrders godoc
// @Summary 我的订单
// @Tags orders
// @Security BearerAuth
// @Param page query int false "页码"
// @Param limit query int false "每页数量"
// @Success 200 {object} response.Response
// @Router /orders [get]
func (h *OrderHandler) ListMyOrders(c *gin.Context) {
	uid, ok := middleware.RequireUserID(c)
	if !ok {
		return
	}

	var p utils.Pagination
	if err := c.ShouldBindQuery(&p); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}
	offset, limit := p.GetPageOffset()

	orders, total, err := h.service.ListUserOrders(c.Request.Context(), uid, offset, limit)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Page(c, orders, total, p)
}

// GetMyOrder godoc
// @Summary 订单详情
// @Tags orders
// @Security BearerAuth
// @Param id path string true "订单 ID"
// @Success 200 {object} response.Response
// @Router /orders/{id} [get]
func (h *OrderHandler) GetMyOrder(c *gin.Context) {
	uid, ok := middleware.RequireUserID(c)
	if !ok {
		return
	}

	order, err := h.service.GetUserOrder(c.Request.Context(), uid, c.Param("id"))
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, order)
}

// CancelOrder godoc
// @Summary 取消整单
// @Tags orders
// @Security BearerAuth
// @Param id path string true "订单 ID"
// @Param request body ReasonRequest false "取消原因"
// @Success 200 {object} response.Response
// @Router /orders/{id}/cancel [post]
func (h *OrderHandler) CancelOrder(c *gin.Context) {
	uid, ok := middleware.RequireUserID(c)
	if !ok {
		return
	}

	var req ReasonRequest
	if !bindOptional(c, &req) {
		return
	}

	result, err := h.service.CancelOrder(c.Request.Context(), uid, c.Param("id"), req.Reason)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, result)
}

// CancelItem godoc
// @Summary 取消单个订单行
// @Tags orders
// @Security BearerAuth
// @Param id path string true "订单 ID"
// @Param itemId path string true "订单行 ID"
// @Param request body ReasonRequest false "取消原因"
// @Success 200 {object} response.Response
// @Router /orders/{id}/items/{itemId}/cancel [post]
func (h *OrderHandler) CancelItem(c *gin.Context) {
	uid, ok := middleware.RequireUserID(c)
	if !ok {
		return
	}

	var req ReasonRequest
	if !bindOptional(c, &req) {
		return
	}

	result, err := h.service.CancelItem(c.Request.Context(), uid, c.Param("id"), c.Param("itemId"), req.Reason)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, result)
}

// RequestReturn godoc
// @Summary 申请退货，itemIds 为空时整单退货
// @Tags orders
// @Security BearerAuth
// @Param id path string true "订单 ID"
// @Param request body ReturnRequest false "退货订单行与原因"
// @Success 200 {object} response.Response
// @Router /orders/{id}/return [post]
func (h *OrderHandler) RequestReturn(c *gin.Context) {
	uid, ok := middleware.RequireUserID(c)
	if !ok {
		return
	}

	var req ReturnRequest
	if !bindOptional(c, &req) {
		return
	}

	result, err := h.service.RequestReturn(c.Request.Context(), uid, c.Param("id"), req.ItemIDs, req.Reason)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, result)
}

// ListOrders godoc
// @Summary 订单列表 (管理员)
// @Tags admin
// @Security BearerAuth
// @Param status query string false "订单状态"
// @Param page query int false "页码"
// @Param limit query int false "每页数量"
// @Success 200 {object} response.Response
// @Router /admin/orders [get]
func (h *OrderHandler) ListOrders(c *gin.Context) {
	var p utils.Pagination
	if err := c.ShouldBindQuery(&p); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}
	offset, limit := p.GetPageOffset()

	orders, total, err := h.service.ListOrders(c.Request.Context(), c.Query("status"), offset, limit)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Page(c, orders, total, p)
}

// GetOrder godoc
// @Summary 订单详情 (管理员)
// @Tags admin
// @Security BearerAuth
// @Param id path string true "订单 ID"
// @Success 200 {object} response.Response
// @Router /admin/orders/{id} [get]
func (h *OrderHandler) GetOrder(c *gin.Context) {
	order, err := h.service.GetOrder(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, order)
}

// GetHistory godoc
// @Summary 订单状态流转记录 (管理员)
// @Tags admin
// @Security BearerAuth
// @Param id path string true "订单 ID"
// @Success 200 {object} response.Response
// @Router /admin/orders/{id}/history [get]
func (h *OrderHandler) GetHistory(c *gin.Context) {
	history, err := h.service.GetHistory(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, history)
}

// UpdateOrderStatus godoc
// @Summary 修改订单状态 (管理员)
// @Tags admin
// @Security BearerAuth
// @Param id path string true "订单 ID"
// @Param request body StatusRequest true "目标状态"
// @Success 200 {object} response.Response
// @Router /admin/orders/{id}/status [patch]
func (h *OrderHandler) UpdateOrderStatus(c *gin.Context) {
	var req StatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}

	result, err := h.service.UpdateOrderStatus(c.Request.Context(), c.Param("id"), req.Status, model.ActorAdmin, req.Reason)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, result)
}

// UpdateItemStatus godoc
// @Summary 修改订单行状态 (管理员)
// @Tags admin
// @Security BearerAuth
// @Param id path string true "订单 ID"
// @Param itemId path string true "订单行 ID"
// @Param request body StatusRequest true "目标状态"
// @Success 200 {object} response.Response
// @Router /admin/orders/{id}/items/{itemId}/status [patch]
func (h *OrderHandler) UpdateItemStatus(c *gin.Context) {
	var req StatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}

	result, err := h.service.UpdateItemStatus(c.Request.Context(), c.Param("id"), c.Param("itemId"), req.Status, model.ActorAdmin, req.Reason)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, result)
}

// bindOptional 请求体可以为空
func bindOptional(c *gin.Context, dest interface{}) bool {
	if c.Request.ContentLength == 0 {
		return true
	}
	if err := c.ShouldBindJSON(dest); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return false
	}
	return true
}

func handleError(c *gin.Context, err error) {
	var invalid *model.InvalidTransitionError
	var rejected *inventoryModel.RejectionError

	switch {
	case errors.As(err, &invalid):
		response.Error(c, http.StatusConflict, response.ErrInvalidTransition, err.Error())
	case errors.Is(err, model.ErrCustomerOnlyStatus):
		response.Error(c, http.StatusForbidden, response.ErrCustomerOnlyStatus, err.Error())
	case errors.Is(err, model.ErrConcurrentUpdate):
		response.Error(c, http.StatusConflict, response.ErrConcurrentUpdate, err.Error())
	case errors.Is(err, model.ErrOrderNotFound):
		response.Error(c, http.StatusNotFound, response.ErrOrderNotFound, err.Error())
	case errors.Is(err, model.ErrOrderItemNotFound):
		response.Error(c, http.StatusNotFound, response.ErrOrderItemNotFound, err.Error())
	case errors.Is(err, model.ErrUnknownStatus), errors.Is(err, model.ErrNothingToReturn):
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
	case errors.Is(err, model.ErrInvalidPaymentMethod), errors.Is(err, model.ErrPaymentNotConfirmed):
		response.Error(c, http.StatusBadRequest, response.ErrInvalidPayment, err.Error())
	case errors.As(err, &rejected):
		response.FailWithData(c, response.ErrInsufficientStock, err.Error(), rejected.Check)
	case errors.Is(err, walletModel.ErrInsufficientBalance):
		response.Error(c, http.StatusPaymentRequired, response.ErrInsufficientBalance, err.Error())
	case errors.Is(err, checkoutModel.ErrDraftNotFound):
		response.Error(c, http.StatusNotFound, response.ErrDraftNotFound, err.Error())
	case errors.Is(err, checkoutModel.ErrDraftStale), errors.Is(err, checkoutModel.ErrEmptyCart):
		response.Error(c, http.StatusConflict, response.ErrDraftStale, err.Error())
	case errors.Is(err, checkoutModel.ErrCouponRejected):
		response.Error(c, http.StatusUnprocessableEntity, response.ErrCouponRejected, err.Error())
	default:
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
	}
}
