package handler

import (
	"errors"
	"net/http"
	"time"

	"shop_engine/internal/domain/coupon/model"
	"shop_engine/internal/domain/coupon/service"
	"shop_engine/pkg/response"
	"shop_engine/pkg/utils"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type CouponHandler struct {
	service service.CouponService
}

func NewCouponHandler(service service.CouponService) *CouponHandler {
	return &CouponHandler{service: service}
}

type CouponRequest struct {
	Code           string           `json:"code" binding:"required"`
	Description    string           `json:"description"`
	DiscountType   string           `json:"discountType" binding:"required,oneof=percentage fixed"`
	DiscountAmount decimal.Decimal  `json:"discountAmount" swaggertype:"string"`
	MinAmount      decimal.Decimal  `json:"minAmount" swaggertype:"string"`
	MaxAmount      *decimal.Decimal `json:"maxAmount" swaggertype:"string"`
	PerUserLimit   int              `json:"perUserLimit" binding:"omitempty,min=1"`
	IsActive       *bool            `json:"isActive"`
	StartDate      time.Time        `json:"startDate" binding:"required"`
	EndDate        time.Time        `json:"endDate" binding:"required"`
}

func (r CouponRequest) toInput() service.CouponInput {
	return service.CouponInput{
		Code:           r.Code,
		Description:    r.Description,
		DiscountType:   r.DiscountType,
		DiscountAmount: r.DiscountAmount,
		MinAmount:      r.MinAmount,
		MaxAmount:      r.MaxAmount,
		PerUserLimit:   r.PerUserLimit,
		IsActive:       r.IsActive,
		StartDate:      r.StartDate,
		EndDate:        r.EndDate,
	}
}

// CreateCoupon godoc
// @Summary 创建优惠券
// @Tags admin-coupons
// @Accept json
// @Produce json
// @Param request body CouponRequest true "优惠券"
// @Success 200 {object} response.Response
// @Router /admin/coupons [post]
func (h *CouponHandler) CreateCoupon(c *gin.Context) {
	var req CouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}

	coupon, err := h.service.CreateCoupon(c.Request.Context(), req.toInput())
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, coupon)
}

// UpdateCoupon godoc
// @Summary 更新优惠券
// @Tags admin-coupons
// @Param id path string true "优惠券 ID"
// @Param request body CouponRequest true "优惠券"
// @Success 200 {object} response.Response
// @Router /admin/coupons/{id} [put]
func (h *CouponHandler) UpdateCoupon(c *gin.Context) {
	var req CouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}

	coupon, err := h.service.UpdateCoupon(c.Request.Context(), c.Param("id"), req.toInput())
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, coupon)
}

// ToggleCoupon godoc
// @Summary 启用 / 停用优惠券
// @Tags admin-coupons
// @Param id path string true "优惠券 ID"
// @Success 200 {object} response.Response
// @Router /admin/coupons/{id}/toggle [patch]
func (h *CouponHandler) ToggleCoupon(c *gin.Context) {
	coupon, err := h.service.ToggleCoupon(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, coupon)
}

// GetCoupon godoc
// @Summary 获取优惠券
// @Tags admin-coupons
// @Param id path string true "优惠券 ID"
// @Success 200 {object} response.Response
// @Router /admin/coupons/{id} [get]
func (h *CouponHandler) GetCoupon(c *gin.Context) {
	coupon, err := h.service.GetCoupon(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, coupon)
}

// ListCoupons godoc
// @Summary 优惠券列表
// @Tags admin-coupons
// @Param page query int false "页码"
// @Param limit query int false "每页数量"
// @Success 200 {object} response.Response
// @Router /admin/coupons [get]
func (h *CouponHandler) ListCoupons(c *gin.Context) {
	var p utils.Pagination
	if err := c.ShouldBindQuery(&p); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}
	offset, limit := p.GetPageOffset()

	coupons, total, err := h.service.ListCoupons(c.Request.Context(), offset, limit)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Page(c, coupons, total, p)
}

func handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, model.ErrCouponNotFound):
		response.Error(c, http.StatusNotFound, response.ErrCouponNotFound, err.Error())
	case errors.Is(err, model.ErrCouponCodeExists):
		response.Error(c, http.StatusConflict, response.ErrCouponDuplicate, err.Error())
	case errors.Is(err, model.ErrInvalidCode),
		errors.Is(err, model.ErrInvalidDiscountType),
		errors.Is(err, model.ErrInvalidDiscount),
		errors.Is(err, model.ErrPercentageTooLarge),
		errors.Is(err, model.ErrInvalidMinAmount),
		errors.Is(err, model.ErrMaxAmountOnFixed),
		errors.Is(err, model.ErrInvalidMaxAmount),
		errors.Is(err, model.ErrInvalidPerUserLimit),
		errors.Is(err, model.ErrInvalidCouponWindow):
		response.Error(c, http.StatusBadRequest, response.ErrCouponInvalid, err.Error())
	default:
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
	}
}
