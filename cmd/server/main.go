package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"inkwell/internal/auth"
	"inkwell/internal/cart"
	"inkwell/internal/catalog"
	"inkwell/internal/commons"
	"inkwell/internal/config"
	"inkwell/internal/events"
	"inkwell/internal/infrastructure/logger"
	"inkwell/internal/infrastructure/mysql"
	"inkwell/internal/infrastructure/redis"
	"inkwell/internal/intake"
	"inkwell/internal/notification"
	"inkwell/internal/order"
	"inkwell/internal/order/service"
	"inkwell/internal/paypal"
	"inkwell/internal/promo"
	"inkwell/internal/server"
	"inkwell/internal/webhook"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

type eventPublisher interface {
	service.EventPublisher
	Close() error
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	zapLogger, err := logger.New(cfg.Log.Level)
	if err != nil {
		log.Fatalf("creating logger: %v", err)
	}
	defer zapLogger.Sync()

	for _, w := range cfg.Warnings() {
		zapLogger.Warn(w)
	}

	ctx := context.Background()

	db, err := mysql.NewConnection(cfg.Database)
	if err != nil {
		zapLogger.Fatal("connecting to database", zap.Error(err))
	}
	defer db.Close()
	zapLogger.Info("database connected")

	if cfg.Database.Migrate {
		if err := mysql.RunMigrations(db, zapLogger); err != nil {
			zapLogger.Fatal("running migrations", zap.Error(err))
		}
	}

	redisClient, err := redis.NewClient(ctx, cfg.Redis)
	if err != nil {
		zapLogger.Fatal("connecting to redis", zap.Error(err))
	}
	defer redisClient.Close()
	zapLogger.Info("redis connected")

	publisher := newPublisher(cfg.RabbitMQ, zapLogger)
	defer publisher.Close()

	catalogModule := catalog.NewModule(db, zapLogger)
	if entries, err := commons.LoadCatalog(cfg.Catalog.Path); err != nil {
		zapLogger.Warn("catalog seed skipped", zap.String("path", cfg.Catalog.Path), zap.Error(err))
	} else if err := catalogModule.Service.Seed(ctx, entries); err != nil {
		zapLogger.Fatal("seeding catalog", zap.Error(err))
	}

	cartModule := cart.NewModule(db, redisClient, cfg.Redis.CartCacheTTL, catalogModule.Service, zapLogger)
	promoModule := promo.NewModule(db, zapLogger)
	notificationModule := notification.NewModule(db, cfg.Email, zapLogger)
	paypalClient := paypal.NewClient(cfg.PayPal, zapLogger)

	orderModule := order.NewModule(
		db,
		cfg,
		paypalClient,
		promoModule.Service,
		cartModule.Service,
		publisher,
		notificationModule.Notifier,
		zapLogger,
	)
	intakeModule := intake.NewModule(db, orderModule.Repository, zapLogger)
	webhookModule := webhook.NewModule(db, paypalClient, orderModule.Repository, orderModule.Transitions, zapLogger)

	router := server.NewRouter(server.Controllers{
		Catalog:   catalogModule.Controller,
		Cart:      cartModule.Controller,
		Auth:      auth.NewController(cartModule.Service, zapLogger),
		Promo:     promoModule.Controller,
		Payments:  orderModule.Payments,
		Orders:    orderModule.Orders,
		Intake:    intakeModule.Controller,
		EmailLogs: notificationModule.Controller,
		Webhook:   webhookModule.Controller,
	}, db, zapLogger)

	srv := server.New(cfg.Server.Port, router, zapLogger)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := srv.Start(); err != nil {
			zapLogger.Fatal("server error", zap.Error(err))
		}
	}()

	<-quit
	zapLogger.Info("received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		zapLogger.Fatal("server shutdown failed", zap.Error(err))
	}

	zapLogger.Info("server stopped gracefully")
}

// newPublisher falls back to logging events when RabbitMQ is not configured
// or unreachable.
func newPublisher(cfg config.RabbitMQConfig, logger *zap.Logger) eventPublisher {
	if cfg.URL == "" {
		logger.Info("RABBITMQ_URL not set; order events will only be logged")
		return events.NewLogPublisher(logger)
	}

	conn, err := amqp.DialConfig(cfg.URL, amqp.Config{Dial: amqp.DefaultDial(10 * time.Second)})
	if err != nil {
		logger.Warn("rabbitmq unreachable; order events will only be logged", zap.Error(err))
		return events.NewLogPublisher(logger)
	}

	publisher, err := events.NewRabbitPublisher(conn, logger)
	if err != nil {
		_ = conn.Close()
		logger.Warn("rabbitmq channel setup failed; order events will only be logged", zap.Error(err))
		return events.NewLogPublisher(logger)
	}
	logger.Info("rabbitmq connected")
	return publisher
}
