package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"vision-rewards/internal/domain"
	"vision-rewards/internal/service"
)

// WalletHandler mantiene dependencias para endpoints de billetera y planes.
type WalletHandler struct {
	logger *zap.Logger
	ledger *service.LedgerService
}

func NewWalletHandler(logger *zap.Logger, ledger *service.LedgerService) *WalletHandler {
	return &WalletHandler{logger: logger, ledger: ledger}
}

// Convert maneja POST /wallet/convert.
func (h *WalletHandler) Convert(c *gin.Context) {
	claims, ok := GetAuthClaims(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing claims"})
		return
	}

	var req struct {
		Points int64 `json:"points" binding:"required,gt=0"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	tx, err := h.ledger.ConvertPoints(c.Request.Context(), claims.UserID, req.Points)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInsufficientPoints):
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "insufficient points"})
		default:
			h.logger.Error("convert points failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not convert points"})
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"transaction": tx})
}

// RequestWithdrawal maneja POST /wallet/withdrawals.
func (h *WalletHandler) RequestWithdrawal(c *gin.Context) {
	claims, ok := GetAuthClaims(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing claims"})
		return
	}

	var req struct {
		Amount float64 `json:"amount" binding:"required,gt=0"`
		PixKey string  `json:"pix_key" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	tx, err := h.ledger.RequestWithdrawal(c.Request.Context(), claims.UserID, req.Amount, req.PixKey)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidAmount):
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid withdrawal amount"})
		case errors.Is(err, service.ErrInsufficientBalance):
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "insufficient balance"})
		default:
			h.logger.Error("request withdrawal failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not request withdrawal"})
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"transaction": tx, "payment_link": domain.PaymentLinkBase})
}

// ListTransactions maneja GET /wallet/transactions.
func (h *WalletHandler) ListTransactions(c *gin.Context) {
	claims, ok := GetAuthClaims(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing claims"})
		return
	}

	txs, err := h.ledger.Transactions(c.Request.Context(), claims.UserID)
	if err != nil {
		h.logger.Error("list transactions failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not list transactions"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"transactions": txs})
}

// Subscribe maneja POST /plans/subscribe. El plan se activa de inmediato;
// la confirmacion del pago llega despues por la via admin.
func (h *WalletHandler) Subscribe(c *gin.Context) {
	claims, ok := GetAuthClaims(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing claims"})
		return
	}

	var req struct {
		Plan string `json:"plan" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	plan := domain.Plan(req.Plan)
	switch plan {
	case domain.PlanFree, domain.PlanPremium, domain.PlanDarkPremium:
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown plan"})
		return
	}

	tx, err := h.ledger.PurchaseSubscription(c.Request.Context(), claims.UserID, plan)
	if err != nil {
		h.logger.Error("purchase subscription failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not purchase subscription"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"plan": plan, "transaction": tx, "payment_link": domain.PaymentLinkBase})
}
