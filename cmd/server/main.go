package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/bhaumikkgohil/teeku-masi-cloud-kitchen/internal/cart"
	"github.com/bhaumikkgohil/teeku-masi-cloud-kitchen/internal/checkout"
	"github.com/bhaumikkgohil/teeku-masi-cloud-kitchen/internal/notification"
	"github.com/bhaumikkgohil/teeku-masi-cloud-kitchen/internal/notification/email"
	"github.com/bhaumikkgohil/teeku-masi-cloud-kitchen/internal/repository"
	"github.com/bhaumikkgohil/teeku-masi-cloud-kitchen/internal/service"
	transporthttp "github.com/bhaumikkgohil/teeku-masi-cloud-kitchen/internal/transport/http"
	"github.com/bhaumikkgohil/teeku-masi-cloud-kitchen/internal/transport/http/handler"
	"github.com/bhaumikkgohil/teeku-masi-cloud-kitchen/pkg/applog"
	"github.com/bhaumikkgohil/teeku-masi-cloud-kitchen/pkg/config"
	"github.com/bhaumikkgohil/teeku-masi-cloud-kitchen/pkg/db"
	"github.com/bhaumikkgohil/teeku-masi-cloud-kitchen/pkg/kafka"
	outboxrepo "github.com/bhaumikkgohil/teeku-masi-cloud-kitchen/pkg/outbox/repository"
	"github.com/bhaumikkgohil/teeku-masi-cloud-kitchen/pkg/outbox/worker"
	"github.com/bhaumikkgohil/teeku-masi-cloud-kitchen/pkg/utils"
	"github.com/gofiber/fiber/v2"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := config.MustLoad()

	logger, err := config.NewLogger(config.LoggerConfig{Level: cfg.LogLevel, Env: cfg.Env})
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	tp, err := utils.InitTracer(ctx, "cloud-kitchen")
	if err != nil {
		logger.Fatal("failed to init tracer", zap.Error(err))
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := tp.Shutdown(shutdownCtx); err != nil {
			logger.Error("failed to shutdown tracer provider", zap.Error(err))
		}
	}()

	pool, err := db.NewPostgresDB(cfg.Postgres.URL)
	if err != nil {
		logger.Fatal("failed to connect to postgres", zap.Error(err))
	}
	defer pool.Close()

	redisClient := redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr})
	defer redisClient.Close() //nolint:errcheck

	if err := redisClient.Ping(ctx).Err(); err != nil {
		logger.Fatal("failed to connect to redis", zap.Error(err))
	}

	producer, err := kafka.NewProducer(cfg.Kafka.Brokers)
	if err != nil {
		logger.Fatal("failed to create kafka producer", zap.Error(err))
	}
	defer producer.Close() //nolint:errcheck

	userRepo := repository.NewUserRepository(pool, logger)
	adminRepo := repository.NewAdminRepository(pool, logger)
	orderRepo := repository.NewOrderRepository(pool, logger)
	subscriptionRepo := repository.NewSubscriptionRepository(pool, logger)
	menuRepo := repository.NewMenuRepository(pool, logger)
	outboxRepo := outboxrepo.NewOutboxRepository(pool, logger)

	carts := cart.NewStore()
	stash := checkout.NewRedisStash(redisClient, cfg.Checkout.StashTTL)

	authService := service.NewAuthService(logger, userRepo, adminRepo, cfg.Admin.SecurityCode)
	orderService := service.NewOrderService(pool, logger, carts, stash, orderRepo, adminRepo, outboxRepo)
	subscriptionService := service.NewSubscriptionService(logger, subscriptionRepo)
	menuService := service.NewCachedMenuService(service.NewMenuService(logger, menuRepo), redisClient)

	processor := worker.NewOutboxProcessor(pool, outboxRepo, producer, logger)
	go processor.Start(ctx)

	if !cfg.Kafka.DisableSend {
		sender := email.NewSMTPSender(cfg.SMTP, logger)
		consumer := notification.NewConsumer(pool, sender, logger, cfg.Kafka.OrderTopic, cfg.Kafka.GroupID)
		go consumer.Start(ctx, cfg.Kafka.Brokers)
	}

	app := fiber.New(fiber.Config{
		ReadTimeout:  cfg.HTTP.Timeout,
		WriteTimeout: cfg.HTTP.Timeout,
	})

	transporthttp.RegisterRoutes(app, transporthttp.Handlers{
		Auth:          handler.NewAuthHandler(logger, authService),
		Cart:          handler.NewCartHandler(logger, carts, menuService),
		Checkout:      handler.NewCheckoutHandler(logger, stash, orderService),
		Orders:        handler.NewOrderHandler(logger, orderService),
		Subscriptions: handler.NewSubscriptionHandler(logger, subscriptionService),
		Menu:          handler.NewMenuHandler(logger, menuService),
	}, authService)

	go func() {
		applog.Info(ctx, logger, "starting http server", zap.String("port", cfg.HTTP.Port))

		if err := app.Listen(cfg.HTTP.Port); err != nil {
			logger.Error("http server stopped", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()

	applog.Info(context.Background(), logger, "shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		logger.Error("failed to shutdown http server", zap.Error(err))
	}
}
