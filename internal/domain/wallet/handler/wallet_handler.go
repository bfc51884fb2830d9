package handler

import (
	"errors"
	"net/http"

	"shop_engine/internal/domain/wallet/model"
	"shop_engine/internal/domain/wallet/service"
	"shop_engine/internal/pkg/middleware"
	"shop_engine/pkg/response"
	"shop_engine/pkg/utils"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type WalletHandler struct {
	service service.WalletService
}

func NewWalletHandler(service service.WalletService) *WalletHandler {
	return &WalletHandler{service: service}
}

// GetWallet godoc
// @Summary 我的钱包
// @Tags wallet
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /wallet [get]
func (h *WalletHandler) GetWallet(c *gin.Context) {
	uid, ok := middleware.RequireUserID(c)
	if !ok {
		return
	}

	wallet, err := h.service.GetWallet(c.Request.Context(), uid)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
		return
	}
	response.Success(c, wallet)
}

// ListTransactions godoc
// @Summary 钱包流水
// @Tags wallet
// @Security BearerAuth
// @Param page query int false "页码"
// @Param limit query int false "每页数量"
// @Success 200 {object} response.Response
// @Router /wallet/transactions [get]
func (h *WalletHandler) ListTransactions(c *gin.Context) {
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

	txs, total, err := h.service.ListTransactions(c.Request.Context(), uid, offset, limit)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
		return
	}
	response.Page(c, txs, total, p)
}

type TopUpInput struct {
	Amount      decimal.Decimal `json:"amount" swaggertype:"string"`
	Description string          `json:"description"`
}

// TopUp godoc
// @Summary 管理员为用户钱包充值
// @Tags admin-wallets
// @Param userId path string true "用户 ID"
// @Param request body TopUpInput true "金额"
// @Success 200 {object} response.Response
// @Router /admin/wallets/{userId}/topup [post]
func (h *WalletHandler) TopUp(c *gin.Context) {
	var input TopUpInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}

	record, err := h.service.TopUp(c.Request.Context(), c.Param("userId"), input.Amount, input.Description)
	if err != nil {
		if errors.Is(err, model.ErrInvalidAmount) {
			response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
			return
		}
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
		return
	}
	response.Success(c, record)
}
