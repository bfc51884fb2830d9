package handler

import (
	"errors"
	"net/http"

	"shop_engine/internal/domain/catalog/model"
	"shop_engine/internal/domain/catalog/repository"
	"shop_engine/internal/domain/catalog/service"
	"shop_engine/pkg/response"
	"shop_engine/pkg/utils"

	"github.com/gin-gonic/gin"
)

type CatalogHandler struct {
	service service.CatalogService
}

func NewCatalogHandler(service service.CatalogService) *CatalogHandler {
	return &CatalogHandler{service: service}
}

// ListProducts godoc
// @Summary 商品列表 (含活动价)
// @Tags products
// @Param search query string false "名称关键字"
// @Param categoryId query string false "分类 ID"
// @Param page query int false "页码"
// @Param limit query int false "每页数量"
// @Success 200 {object} response.Response
// @Router /products [get]
func (h *CatalogHandler) ListProducts(c *gin.Context) {
	var p utils.Pagination
	if err := c.ShouldBindQuery(&p); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}
	offset, limit := p.GetPageOffset()

	filter := repository.ProductFilter{
		Search:     c.Query("search"),
		CategoryID: c.Query("categoryId"),
	}
	products, total, err := h.service.ListProducts(c.Request.Context(), filter, offset, limit)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
		return
	}
	response.Page(c, products, total, p)
}

// GetProduct godoc
// @Summary 商品详情 (含活动价)
// @Tags products
// @Param id path string true "商品 ID"
// @Success 200 {object} response.Response
// @Router /products/{id} [get]
func (h *CatalogHandler) GetProduct(c *gin.Context) {
	product, err := h.service.GetProduct(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, model.ErrProductNotFound) {
			response.Error(c, http.StatusNotFound, response.ErrProductNotFound, err.Error())
			return
		}
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
		return
	}
	response.Success(c, product)
}
