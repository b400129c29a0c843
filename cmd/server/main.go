package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/cors"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"gorm.io/gorm"

	"github.com/tranqv/shopcore/internal/cart"
	cartrepo "github.com/tranqv/shopcore/internal/cart/repository"
	"github.com/tranqv/shopcore/internal/catalog"
	catalogrepo "github.com/tranqv/shopcore/internal/catalog/repository"
	"github.com/tranqv/shopcore/internal/config"
	"github.com/tranqv/shopcore/internal/httpmw"
	"github.com/tranqv/shopcore/internal/inventory"
	invrepo "github.com/tranqv/shopcore/internal/inventory/repository"
	"github.com/tranqv/shopcore/internal/order"
	orderrepo "github.com/tranqv/shopcore/internal/order/repository"
	"github.com/tranqv/shopcore/internal/payment"
	payrepo "github.com/tranqv/shopcore/internal/payment/repository"
	"github.com/tranqv/shopcore/internal/user"
	userrepo "github.com/tranqv/shopcore/internal/user/repository"
	"github.com/tranqv/shopcore/kafka"
	"github.com/tranqv/shopcore/pkg/database"
	"github.com/tranqv/shopcore/pkg/logger"
	"github.com/tranqv/shopcore/pkg/tracing"
)

func main() {
	serviceName := getEnv("OTEL_SERVICE_NAME", "shopcore")
	cfg := config.Load()
	isDevelopment := cfg.Environment == "development"

	logger.Init(serviceName, isDevelopment)
	logger.SetLevel(cfg.LogLevel)

	logger.Logger.Info().
		Str("service", serviceName).
		Str("environment", cfg.Environment).
		Str("log_level", cfg.LogLevel).
		Msg("Starting shopcore")

	// Initialize tracer
	tp, err := tracing.InitTracer(serviceName)
	if err != nil {
		logger.Logger.Error().Err(err).Msg("Failed to initialize tracer")
	} else {
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := tracing.Shutdown(ctx, tp); err != nil {
				logger.Logger.Error().Err(err).Msg("Failed to shutdown tracer")
			}
		}()
	}

	// Connect to database
	dbConfig := database.Config{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     getEnv("DB_PORT", "5432"),
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", "postgres"),
		DBName:   getEnv("DB_NAME", "shopcore"),
		SSLMode:  getEnv("DB_SSLMODE", "disable"),
	}

	db, err := database.NewGormConnection(dbConfig)
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to connect to database")
	}

	sqlDB, err := db.DB()
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to get database instance")
	}
	defer sqlDB.Close()

	// Separate probe connection so health checks never queue behind the pool
	healthDB, err := database.NewPostgresConnection(dbConfig)
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to open health check connection")
	}
	defer healthDB.Close()

	if err := runMigrations(db); err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to run migrations")
	}
	logger.Logger.Info().Msg("Database initialized successfully")

	// Kafka producer; order and payment events flow through it
	publisher, err := kafka.NewPublisher(cfg.KafkaBrokers)
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to connect to kafka")
	}
	defer publisher.Close()

	// Redis backs the rate limiter and the product response cache
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPass,
	})
	defer redisClient.Close()

	// Wire handlers
	catalogHandler, err := catalog.InitializeHTTPHandler(db)
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to initialize catalog handler")
	}
	inventoryHandler, err := inventory.InitializeHTTPHandler(db)
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to initialize inventory handler")
	}
	cartHandler, err := cart.InitializeHTTPHandler(db)
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to initialize cart handler")
	}
	orderHandler, err := order.InitializeHTTPHandler(db, publisher)
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to initialize order handler")
	}
	paymentHandler, err := payment.InitializeHTTPHandler(db, &cfg, publisher)
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to initialize payment handler")
	}
	userHandler, err := user.InitializeHTTPHandler(db)
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to initialize user handler")
	}

	// Consume placement events for the low stock alert log
	consumerCtx, stopConsumer := context.WithCancel(context.Background())
	defer stopConsumer()
	startOrderPlacedConsumer(consumerCtx, cfg, db)

	// Router and middleware stack
	router := mux.NewRouter()
	router.Use(httpmw.Recovery)
	router.Use(httpmw.Timeout(30 * time.Second))
	router.Use(httpmw.Logging)

	limiter := httpmw.NewRateLimiter(redisClient, 10, time.Minute)
	cache := httpmw.NewResponseCache(redisClient, 30*time.Second)

	catalogHandler.RegisterRoutes(router, cache)
	inventoryHandler.RegisterRoutes(router)
	cartHandler.RegisterRoutes(router)
	orderHandler.RegisterRoutes(router, limiter)
	paymentHandler.RegisterRoutes(router)
	userHandler.RegisterRoutes(router)

	router.Handle("/metrics", promhttp.Handler()).Methods("GET")
	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		if err := healthDB.Ping(); err != nil {
			http.Error(w, `{"status":"unhealthy"}`, http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"healthy"}`))
	}).Methods("GET")

	// Server spans wrap the whole router so request logs carry trace ids and
	// repository spans attach to the inbound request
	tracedRouter := otelhttp.NewHandler(router, "http.server",
		otelhttp.WithSpanNameFormatter(func(operation string, r *http.Request) string {
			return r.Method + " " + r.URL.Path
		}))

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	}).Handler(tracedRouter)

	server := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      corsHandler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Logger.Info().Str("port", cfg.HTTPPort).Msg("HTTP server listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Logger.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Logger.Info().Msg("Shutting down server...")
	stopConsumer()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Logger.Error().Err(err).Msg("Graceful shutdown failed")
	}
}

// runMigrations creates every table through the repository AutoMigrates so
// repo-level indexes (the live cart uniqueness index among them) are applied
func runMigrations(db *gorm.DB) error {
	migrations := []func() error{
		userrepo.NewGormUserRepository(db).AutoMigrate,
		catalogrepo.NewGormProductRepository(db).AutoMigrate,
		invrepo.NewGormInventoryRepository(db).AutoMigrate,
		cartrepo.NewGormCartRepository(db).AutoMigrate,
		orderrepo.NewGormOrderRepository(db).AutoMigrate,
		payrepo.NewGormPaymentRepository(db).AutoMigrate,
	}
	for _, migrate := range migrations {
		if err := migrate(); err != nil {
			return err
		}
	}
	return nil
}

// startOrderPlacedConsumer logs a warning for every line that dips below its
// reorder level after a placement commits
func startOrderPlacedConsumer(ctx context.Context, cfg config.Config, db *gorm.DB) {
	consumer, err := kafka.NewConsumer(cfg.KafkaBrokers, "shopcore-lowstock", []string{kafka.TopicOrderPlaced})
	if err != nil {
		logger.Logger.Error().Err(err).Msg("Failed to start kafka consumer, low stock alerts disabled")
		return
	}

	inventoryRepo := invrepo.NewGormInventoryRepository(db)
	consumer.RegisterHandler(kafka.EventTypeOrderPlaced, func(ctx context.Context, payload []byte) error {
		event, err := kafka.DecodeOrderPlaced(payload)
		if err != nil {
			return err
		}
		for _, line := range event.Lines {
			records, err := inventoryRepo.FindRecordsByVariant(line.VariantID)
			if err != nil {
				return err
			}
			for _, record := range records {
				if record.LowStock() {
					logger.Warn(ctx).
						Str("order_code", event.OrderCode).
						Uint("variant_id", record.VariantID).
						Uint("warehouse_id", record.WarehouseID).
						Int("available", record.Available()).
						Int("reorder_level", record.ReorderLevel).
						Msg("stock below reorder level")
				}
			}
		}
		return nil
	})

	go func() {
		if err := consumer.Start(ctx); err != nil && ctx.Err() == nil {
			logger.Logger.Error().Err(err).Msg("Kafka consumer stopped")
		}
		consumer.Close()
	}()
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
