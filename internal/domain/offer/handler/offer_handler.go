package handler

import (
	"errors"
	"net/http"
	"time"

	"shop_engine/internal/domain/offer/model"
	"shop_engine/internal/domain/offer/service"
	"shop_engine/pkg/response"
	"shop_engine/pkg/utils"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type OfferHandler struct {
	service service.OfferService
}

func NewOfferHandler(service service.OfferService) *OfferHandler {
	return &OfferHandler{service: service}
}

type OfferRequest struct {
	Name          string          `json:"name" binding:"required"`
	Description   string          `json:"description"`
	Type          string          `json:"type" binding:"required"`
	DiscountValue decimal.Decimal `json:"discountValue" swaggertype:"string"`
	TargetingType string          `json:"targetingType" binding:"required,oneof=all products categories"`
	ProductIDs    []string        `json:"productIds"`
	CategoryIDs   []string        `json:"categoryIds"`
	Status        string          `json:"status" binding:"omitempty,oneof=active inactive"`
	StartDate     time.Time       `json:"startDate" binding:"required"`
	EndDate       time.Time       `json:"endDate" binding:"required"`
}

func (r OfferRequest) toInput() service.OfferInput {
	return service.OfferInput{
		Name:          r.Name,
		Description:   r.Description,
		Type:          r.Type,
		DiscountValue: r.DiscountValue,
		TargetingType: r.TargetingType,
		ProductIDs:    r.ProductIDs,
		CategoryIDs:   r.CategoryIDs,
		Status:        r.Status,
		StartDate:     r.StartDate,
		EndDate:       r.EndDate,
	}
}

// CreateOffer godoc
// @Summary 创建促销活动
// @Tags admin-offers
// @Accept json
// @Produce json
// @Param request body OfferRequest true "活动"
// @Success 200 {object} response.Response
// @Router /admin/offers [post]
func (h *OfferHandler) CreateOffer(c *gin.Context) {
	var req OfferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}

	offer, err := h.service.CreateOffer(c.Request.Context(), req.toInput())
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, offer)
}

// UpdateOffer godoc
// @Summary 更新促销活动
// @Tags admin-offers
// @Param id path string true "活动 ID"
// @Param request body OfferRequest true "活动"
// @Success 200 {object} response.Response
// @Router /admin/offers/{id} [put]
func (h *OfferHandler) UpdateOffer(c *gin.Context) {
	var req OfferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}

	offer, err := h.service.UpdateOffer(c.Request.Context(), c.Param("id"), req.toInput())
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, offer)
}

// ToggleOffer godoc
// @Summary 启用 / 停用促销活动
// @Tags admin-offers
// @Param id path string true "活动 ID"
// @Success 200 {object} response.Response
// @Router /admin/offers/{id}/toggle [patch]
func (h *OfferHandler) ToggleOffer(c *gin.Context) {
	offer, err := h.service.ToggleOffer(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, offer)
}

// GetOffer godoc
// @Summary 获取促销活动
// @Tags admin-offers
// @Param id path string true "活动 ID"
// @Success 200 {object} response.Response
// @Router /admin/offers/{id} [get]
func (h *OfferHandler) GetOffer(c *gin.Context) {
	offer, err := h.service.GetOffer(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, offer)
}

// ListOffers godoc
// @Summary 促销活动列表
// @Tags admin-offers
// @Param status query string false "active / inactive"
// @Param page query int false "页码"
// @Param limit query int false "每页数量"
// @Success 200 {object} response.Response
// @Router /admin/offers [get]
func (h *OfferHandler) ListOffers(c *gin.Context) {
	var p utils.Pagination
	if err := c.ShouldBindQuery(&p); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}
	offset, limit := p.GetPageOffset()

	offers, total, err := h.service.ListOffers(c.Request.Context(), c.Query("status"), offset, limit)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Page(c, offers, total, p)
}

func handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, model.ErrOfferNotFound):
		response.Error(c, http.StatusNotFound, response.ErrOfferNotFound, err.Error())
	case errors.Is(err, model.ErrInvalidOfferType),
		errors.Is(err, model.ErrInvalidOfferValue),
		errors.Is(err, model.ErrPercentageTooLarge),
		errors.Is(err, model.ErrInvalidTargeting),
		errors.Is(err, model.ErrTargetProducts),
		errors.Is(err, model.ErrTargetCategories),
		errors.Is(err, model.ErrTargetAll),
		errors.Is(err, model.ErrInvalidOfferWindow),
		errors.Is(err, model.ErrInvalidOfferStatus):
		response.Error(c, http.StatusBadRequest, response.ErrOfferInvalid, err.Error())
	default:
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
	}
}
