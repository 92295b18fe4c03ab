package main

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/afrobites/shop-backend/internal/config"
	"github.com/afrobites/shop-backend/internal/database"
	"github.com/afrobites/shop-backend/internal/handler"
	"github.com/afrobites/shop-backend/internal/middleware"
	"github.com/afrobites/shop-backend/internal/queue"
	"github.com/afrobites/shop-backend/internal/repository"
	"github.com/afrobites/shop-backend/internal/router"
	"github.com/afrobites/shop-backend/internal/service"
)

func main() {
	_ = godotenv.Load() // .env is optional; real env vars win

	cfg := config.Load()

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	db, err := database.Open(database.Options{
		User:            cfg.DBUser,
		Pass:            cfg.DBPass,
		Host:            cfg.DBHost,
		Port:            cfg.DBPort,
		Name:            cfg.DBName,
		MaxOpenConns:    cfg.DBMaxOpen,
		MaxIdleConns:    cfg.DBMaxIdle,
		ConnMaxLifetime: time.Duration(cfg.DBConnLifeMin) * time.Minute,
	})
	if err != nil {
		logger.Fatal("database connect failed", zap.Error(err))
	}
	defer db.Close()

	rdb := config.NewRedisClient()
	if rdb == nil {
		logger.Warn("redis unavailable, rate limiting disabled")
	}

	// Repositories
	carts := repository.NewCartRepo(db)
	products := repository.NewProductRepo(db)
	orders := repository.NewOrderRepo(db)
	customers := repository.NewCustomerRepo(db)
	tokens := repository.NewTokenRepo(db)

	// Services
	publisher := queue.NewPublisher(cfg.AMQPURL, logger)
	cartSvc := service.NewCartService(carts, products, logger)
	mergeSvc := service.NewMergeService(carts, logger)
	checkoutSvc := service.NewCheckoutService(db, carts, orders, publisher, logger)
	orderQuery := service.NewOrderQuery(orders)

	// Handlers
	authH := handler.NewAuthHandler(cfg, customers, tokens, mergeSvc)
	cartH := handler.NewCartHandler(cartSvc)
	checkoutH := handler.NewCheckoutHandler(checkoutSvc)
	orderH := handler.NewOrderHandler(orderQuery)

	// Background consumer writes confirmed orders to logs/orders.log.
	go func() {
		if err := queue.StartOrderConsumer(cfg.AMQPURL); err != nil {
			logger.Warn("order consumer stopped", zap.Error(err))
		}
	}()

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Session(cfg.SessionTTLDays))
	e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))

	router.RegisterRoutes(e)
	router.RegisterAuth(e, authH, cfg.JWTSecret)
	router.RegisterShop(e, cartH, checkoutH, orderH, cfg.JWTSecret)

	addr := ":" + cfg.Port
	logger.Info("listening", zap.String("addr", addr), zap.String("env", cfg.Env))
	if err := e.Start(addr); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}
