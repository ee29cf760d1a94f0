package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"vision-rewards/internal/service"
)

// GameHandler mantiene dependencias para los endpoints de juego.
type GameHandler struct {
	logger   *zap.Logger
	sessions *service.SessionService
}

func NewGameHandler(logger *zap.Logger, sessions *service.SessionService) *GameHandler {
	return &GameHandler{logger: logger, sessions: sessions}
}

// ListQuestions maneja GET /game/questions: solo preguntas presentables
// (tier desbloqueado y nunca respondidas).
func (h *GameHandler) ListQuestions(c *gin.Context) {
	claims, ok := GetAuthClaims(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing claims"})
		return
	}

	questions, err := h.sessions.AvailableQuestions(c.Request.Context(), claims.UserID)
	if err != nil {
		h.logger.Error("list questions failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not list questions"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"questions": questions})
}

// TierStatuses maneja GET /game/tiers.
func (h *GameHandler) TierStatuses(c *gin.Context) {
	claims, ok := GetAuthClaims(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing claims"})
		return
	}

	statuses, err := h.sessions.TierStatuses(c.Request.Context(), claims.UserID)
	if err != nil {
		h.logger.Error("tier statuses failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not compute tiers"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"tiers": statuses})
}

// DailyRemaining maneja GET /game/daily.
func (h *GameHandler) DailyRemaining(c *gin.Context) {
	claims, ok := GetAuthClaims(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing claims"})
		return
	}

	remaining, err := h.sessions.DailyRemaining(c.Request.Context(), claims.UserID)
	if err != nil {
		h.logger.Error("daily remaining failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not compute remaining"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"remaining": remaining})
}

// StartMission maneja POST /game/missions.
func (h *GameHandler) StartMission(c *gin.Context) {
	claims, ok := GetAuthClaims(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing claims"})
		return
	}

	var req struct {
		QuestionID string `json:"question_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	question, err := h.sessions.StartMission(c.Request.Context(), claims.UserID, req.QuestionID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrDailyLimitReached):
			c.JSON(http.StatusForbidden, gin.H{"error": "daily limit reached"})
		case errors.Is(err, service.ErrTierLocked):
			c.JSON(http.StatusForbidden, gin.H{"error": "tier locked"})
		case errors.Is(err, service.ErrQuestionAnswered):
			c.JSON(http.StatusConflict, gin.H{"error": "question already answered"})
		case errors.Is(err, service.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "question not found"})
		default:
			h.logger.Error("start mission failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not start mission"})
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"question": question})
}

// SubmitAnswer maneja POST /game/answer.
func (h *GameHandler) SubmitAnswer(c *gin.Context) {
	claims, ok := GetAuthClaims(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing claims"})
		return
	}

	var req struct {
		AnswerIndex *int `json:"answer_index" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	result, err := h.sessions.SubmitAnswer(c.Request.Context(), claims.UserID, *req.AnswerIndex)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNoActiveMission):
			c.JSON(http.StatusConflict, gin.H{"error": "no active mission"})
		default:
			h.logger.Error("submit answer failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not submit answer"})
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"result": result})
}

// AbandonMission maneja DELETE /game/missions: cierre sin efectos.
func (h *GameHandler) AbandonMission(c *gin.Context) {
	claims, ok := GetAuthClaims(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing claims"})
		return
	}

	h.sessions.AbandonMission(claims.UserID)
	c.JSON(http.StatusOK, gin.H{"status": "abandoned"})
}
