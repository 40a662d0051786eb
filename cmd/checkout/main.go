package main

import (
	"context"
	"database/sql"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/vendormarket/checkout-service/internal/cart"
	"github.com/vendormarket/checkout-service/internal/checkout"
	"github.com/vendormarket/checkout-service/internal/clients"
	"github.com/vendormarket/checkout-service/internal/config"
	"github.com/vendormarket/checkout-service/internal/events"
	"github.com/vendormarket/checkout-service/internal/handlers"
	"github.com/vendormarket/checkout-service/internal/repository"
	"github.com/vendormarket/checkout-service/internal/server"
	"github.com/vendormarket/checkout-service/internal/tax"

	_ "github.com/lib/pq"
)

func main() {
	cfg := config.Load()

	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	logger.Info("Starting checkout-service", zap.Int("port", cfg.Server.Port))

	db, err := initDatabase(cfg, logger)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	orderStore := repository.NewPostgresOrderStore(db, logger)
	cartStore := cart.NewRedisStore(cfg.Redis, logger)

	catalogClient := clients.NewHTTPCatalogClient(cfg.CatalogService, logger)
	paymentClient := clients.NewHTTPPaymentClient(cfg.PaymentService, logger)

	var publisher checkout.EventPublisher = events.NoopPublisher{}
	if cfg.Features.EnableCheckoutEvents {
		kafkaPublisher := events.NewKafkaPublisher(cfg.Kafka, logger)
		defer kafkaPublisher.Close()
		publisher = kafkaPublisher
	}

	rateTable := tax.DefaultTable()
	calculator := tax.NewCalculator(rateTable)
	aggregator := cart.NewAggregator(calculator)

	cartService := cart.NewService(cartStore, catalogClient, aggregator, logger)
	validator := checkout.NewValidator(catalogClient, logger)
	orchestrator := checkout.NewOrchestrator(
		cartStore,
		validator,
		aggregator,
		orderStore,
		paymentClient,
		publisher,
		cfg.Checkout.OrderCreateTimeout,
		logger,
	)

	h := handlers.New(cartService, orchestrator, orderStore, cfg, logger)
	srv := server.New(h, cfg, logger)

	go func() {
		logger.Info("Server starting",
			zap.Int("port", cfg.Server.Port),
			zap.String("tax_table_version", rateTable.Version()),
			zap.Bool("checkout_events", cfg.Features.EnableCheckoutEvents))
		if err := srv.Start(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited")
}

func initDatabase(cfg *config.Config, logger *zap.Logger) (*sql.DB, error) {
	db, err := sql.Open("postgres", cfg.Database.ConnectionString())
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.Database.MaxLifetime)

	if err := db.Ping(); err != nil {
		return nil, err
	}

	logger.Info("Database connected",
		zap.String("host", cfg.Database.Host),
		zap.String("name", cfg.Database.Name))

	return db, nil
}
