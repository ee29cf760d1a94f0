package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"vision-rewards/internal/config"
	"vision-rewards/internal/db"
	"vision-rewards/internal/email"
	apihttp "vision-rewards/internal/http"
	"vision-rewards/internal/repository"
	"vision-rewards/internal/service"
	"vision-rewards/internal/vault"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	ctx := context.Background()

	if err := godotenv.Load(); err != nil {
		log.Printf("warning: loading .env: %v", err)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		panic(err)
	}

	logger, _ := zap.NewProduction()
	defer logger.Sync()

	pool, err := db.NewPool(ctx, cfg)
	if err != nil {
		logger.Fatal("db connect", zap.Error(err))
	}
	defer pool.Close()

	userRepo := repository.NewPgUserRepository(pool)
	txRepo := repository.NewPgTransactionRepository(pool)

	v := vault.New(cfg.KeyDerivationWorkers)
	locks := service.NewUserLocks()
	bank := service.NewQuestionBank()

	identitySvc := service.NewIdentityService(logger, userRepo, v, cfg.AdminEmail)
	gate := service.NewTierGate(bank, identitySvc.AdminEmailHash())
	sessionSvc := service.NewSessionService(logger, identitySvc, userRepo, bank, gate, locks)

	emailSender := email.NewDisabledSender("email sender not configured")
	if cfg.SMTPHost != "" {
		sender, err := email.NewSMTPSender(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass, cfg.SMTPFrom, cfg.SMTPFromName, cfg.SMTPUseTLS)
		if err != nil {
			logger.Warn("smtp sender init failed", zap.Error(err))
		} else {
			emailSender = sender
		}
	}

	ledgerSvc := service.NewLedgerService(logger, userRepo, txRepo, locks, emailSender, cfg.AdminEmail)

	var (
		loginLimiter service.LoginRateLimiter
		tokenStore   service.RefreshTokenStore
		redisClient  *redis.Client
	)
	if cfg.RedisAddr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		ctxPing, cancel := context.WithTimeout(ctx, 2*time.Second)
		if err := redisClient.Ping(ctxPing).Err(); err != nil {
			logger.Warn("redis ping failed", zap.Error(err))
		} else {
			loginLimiter = service.NewRedisLoginRateLimiter(redisClient, 10*time.Minute, 10)
			tokenStore = service.NewRedisRefreshTokenStore(redisClient)
		}
		cancel()
	}
	if loginLimiter == nil {
		loginLimiter = service.NewLoginRateLimiter(10*time.Minute, 10)
	}

	jwtSvc := service.NewJWTServiceWithStore(
		cfg.JWTSecret,
		time.Duration(cfg.JWTAccessTTLMinutes)*time.Minute,
		time.Duration(cfg.JWTRefreshTTLMinutes)*time.Minute,
		tokenStore,
	)
	if cfg.JWTSecret == "" {
		logger.Warn("jwt secret not configured")
	}

	authHandler := apihttp.NewAuthHandler(logger, identitySvc, sessionSvc, jwtSvc, loginLimiter)
	gameHandler := apihttp.NewGameHandler(logger, sessionSvc)
	walletHandler := apihttp.NewWalletHandler(logger, ledgerSvc)
	adminHandler := apihttp.NewAdminHandler(logger, ledgerSvc)
	router := apihttp.NewRouter(logger, jwtSvc, authHandler, gameHandler, walletHandler, adminHandler)

	server := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	logger.Info("starting server", zap.String("port", cfg.HTTPPort))

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatal("server error", zap.Error(err))
	}
}
