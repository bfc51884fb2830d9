package handler

import (
	"errors"
	"net/http"

	addressModel "shop_engine/internal/domain/address/model"
	"shop_engine/internal/domain/checkout/model"
	"shop_engine/internal/domain/checkout/service"
	"shop_engine/internal/pkg/middleware"
	"shop_engine/pkg/response"

	"github.com/gin-gonic/gin"
)

type CheckoutHandler struct {
	service service.CheckoutService
}

func NewCheckoutHandler(service service.CheckoutService) *CheckoutHandler {
	return &CheckoutHandler{service: service}
}

type PreviewRequest struct {
	AddressID  string        `json:"addressId" binding:"required"`
	Contact    model.Contact `json:"contact"`
	CouponCode string        `json:"couponCode"`
}

// Preview godoc
// @Summary 结算预览 (定价、试算优惠券并生成草稿)
// @Tags checkout
// @Security BearerAuth
// @Param request body PreviewRequest true "收货地址、联系人与优惠码"
// @Success 200 {object} response.Response
// @Router /checkout/preview [post]
func (h *CheckoutHandler) Preview(c *gin.Context) {
	uid, ok := middleware.RequireUserID(c)
	if !ok {
		return
	}

	var req PreviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}

	draft, err := h.service.Preview(c.Request.Context(), uid, service.PreviewInput{
		AddressID:  req.AddressID,
		Contact:    req.Contact,
		CouponCode: req.CouponCode,
	})
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, draft)
}

// GetDraft godoc
// @Summary 查看结算草稿
// @Tags checkout
// @Security BearerAuth
// @Param id path string true "草稿 ID"
// @Success 200 {object} response.Response
// @Router /checkout/drafts/{id} [get]
func (h *CheckoutHandler) GetDraft(c *gin.Context) {
	uid, ok := middleware.RequireUserID(c)
	if !ok {
		return
	}

	draft, err := h.service.GetDraft(c.Request.Context(), uid, c.Param("id"))
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, draft)
}

func handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, model.ErrEmptyCart):
		response.Error(c, http.StatusUnprocessableEntity, response.ErrCartEmpty, err.Error())
	case errors.Is(err, addressModel.ErrAddressNotFound):
		response.Error(c, http.StatusNotFound, response.ErrAddressNotFound, err.Error())
	case errors.Is(err, model.ErrDraftNotFound):
		response.Error(c, http.StatusNotFound, response.ErrDraftNotFound, err.Error())
	default:
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
	}
}
