package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"vision-rewards/internal/service"
)

// AdminHandler mantiene dependencias para la revision de saques.
type AdminHandler struct {
	logger *zap.Logger
	ledger *service.LedgerService
}

func NewAdminHandler(logger *zap.Logger, ledger *service.LedgerService) *AdminHandler {
	return &AdminHandler{logger: logger, ledger: ledger}
}

// AdminOnlyMiddleware exige la marca admin en los claims.
func AdminOnlyMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := GetAuthClaims(c)
		if !ok || !claims.IsAdmin {
			c.JSON(http.StatusForbidden, gin.H{"error": "admin only"})
			c.Abort()
			return
		}
		c.Next()
	}
}

// ListWithdrawals maneja GET /admin/withdrawals.
func (h *AdminHandler) ListWithdrawals(c *gin.Context) {
	txs, err := h.ledger.Withdrawals(c.Request.Context())
	if err != nil {
		h.logger.Error("list withdrawals failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not list withdrawals"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"withdrawals": txs})
}

// Approve maneja POST /admin/withdrawals/:id/approve.
func (h *AdminHandler) Approve(c *gin.Context) {
	h.transition(c, func(txID string) error {
		return h.ledger.ApproveWithdrawal(c.Request.Context(), txID)
	})
}

// Reject maneja POST /admin/withdrawals/:id/reject.
func (h *AdminHandler) Reject(c *gin.Context) {
	h.transition(c, func(txID string) error {
		return h.ledger.RejectWithdrawal(c.Request.Context(), txID)
	})
}

// Confirm maneja POST /admin/withdrawals/:id/confirm: la señal externa de
// comprobante aceptado o negado.
func (h *AdminHandler) Confirm(c *gin.Context) {
	var req struct {
		Accepted *bool `json:"accepted" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	h.transition(c, func(txID string) error {
		return h.ledger.ConfirmExternalApproval(c.Request.Context(), txID, *req.Accepted)
	})
}

func (h *AdminHandler) transition(c *gin.Context, op func(txID string) error) {
	txID := c.Param("id")
	if txID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing transaction id"})
		return
	}

	if err := op(txID); err != nil {
		switch {
		case errors.Is(err, service.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "transaction not found"})
		case errors.Is(err, service.ErrInvalidTransition):
			c.JSON(http.StatusConflict, gin.H{"error": "invalid transaction state"})
		default:
			h.logger.Error("withdrawal transition failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not update withdrawal"})
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
