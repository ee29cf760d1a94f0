package http

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"vision-rewards/internal/service"
)

// NewRouter configura el router de Gin con middlewares y rutas.
func NewRouter(
	logger *zap.Logger,
	jwtSvc *service.JWTService,
	authH *AuthHandler,
	gameH *GameHandler,
	walletH *WalletHandler,
	adminH *AdminHandler,
) *gin.Engine {
	r := gin.New()

	// Middlewares basicos: logging, recovery y JSON content-type.
	r.Use(zapLoggerMiddleware(logger), gin.Recovery(), jsonContentTypeMiddleware())

	auth := r.Group("/auth")
	auth.POST("/register", authH.Register)
	auth.POST("/login", authH.Login)
	auth.POST("/refresh", authH.Refresh)
	auth.POST("/logout", JWTAuthMiddleware(jwtSvc), authH.Logout)

	game := r.Group("/game", JWTAuthMiddleware(jwtSvc))
	game.GET("/questions", gameH.ListQuestions)
	game.GET("/tiers", gameH.TierStatuses)
	game.GET("/daily", gameH.DailyRemaining)
	game.POST("/missions", gameH.StartMission)
	game.DELETE("/missions", gameH.AbandonMission)
	game.POST("/answer", gameH.SubmitAnswer)

	wallet := r.Group("/wallet", JWTAuthMiddleware(jwtSvc))
	wallet.POST("/convert", walletH.Convert)
	wallet.POST("/withdrawals", walletH.RequestWithdrawal)
	wallet.GET("/transactions", walletH.ListTransactions)

	r.POST("/plans/subscribe", JWTAuthMiddleware(jwtSvc), walletH.Subscribe)

	admin := r.Group("/admin", JWTAuthMiddleware(jwtSvc), AdminOnlyMiddleware())
	admin.GET("/withdrawals", adminH.ListWithdrawals)
	admin.POST("/withdrawals/:id/approve", adminH.Approve)
	admin.POST("/withdrawals/:id/reject", adminH.Reject)
	admin.POST("/withdrawals/:id/confirm", adminH.Confirm)

	return r
}

// zapLoggerMiddleware crea un middleware simple de logging con zap.
func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		latency := time.Since(start)
		logger.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", latency),
			zap.String("client_ip", c.ClientIP()),
		)
	}
}

// jsonContentTypeMiddleware fuerza Content-Type: application/json en responses.
func jsonContentTypeMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Content-Type", "application/json")
		c.Next()
	}
}
