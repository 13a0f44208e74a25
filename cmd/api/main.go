package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/zypso/storefront-service/internal/api/handlers"
	"github.com/zypso/storefront-service/internal/application"
	"github.com/zypso/storefront-service/internal/domain"
	"github.com/zypso/storefront-service/internal/infrastructure/geocode"
	"github.com/zypso/storefront-service/internal/infrastructure/messaging"
	mongoRepo "github.com/zypso/storefront-service/internal/infrastructure/mongodb"
	redisStore "github.com/zypso/storefront-service/internal/infrastructure/redis"
	"github.com/zypso/storefront-service/pkg/kafka"
	"github.com/zypso/storefront-service/pkg/logging"
	"github.com/zypso/storefront-service/pkg/metrics"
	"github.com/zypso/storefront-service/pkg/middleware"
	"github.com/zypso/storefront-service/pkg/mongodb"
	"github.com/zypso/storefront-service/pkg/redis"
	"github.com/zypso/storefront-service/pkg/tracing"
)

const serviceName = "storefront-service"

func main() {
	signalCh := make(chan os.Signal, 1)
	signal.Notify(signalCh, syscall.SIGINT, syscall.SIGTERM)

	if err := run(context.Background(), signalCh); err != nil {
		os.Exit(1)
	}
}

func run(ctx context.Context, signalCh <-chan os.Signal) error {
	logConfig := logging.DefaultConfig(serviceName)
	logConfig.Level = logging.LogLevel(getEnv("LOG_LEVEL", "info"))
	logger := logging.New(logConfig)
	logger.SetDefault()

	logger.Info("Starting storefront-service API")

	config := loadConfig()

	// Initialize OpenTelemetry tracing
	tracingConfig := tracing.DefaultConfig(serviceName)
	tracingConfig.OTLPEndpoint = getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317")
	tracingConfig.Environment = getEnv("ENVIRONMENT", "development")
	tracingConfig.Enabled = getEnv("TRACING_ENABLED", "true") == "true"

	tracerProvider, err := tracing.Initialize(ctx, tracingConfig)
	if err != nil {
		logger.WithError(err).Error("Failed to initialize tracing")
	} else if tracerProvider != nil {
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := tracerProvider.Shutdown(shutdownCtx); err != nil {
				logger.WithError(err).Error("Failed to shutdown tracer")
			}
		}()
		logger.Info("Tracing initialized", "endpoint", tracingConfig.OTLPEndpoint)
	}

	// Initialize Prometheus metrics
	m := metrics.New(metrics.DefaultConfig(serviceName))
	businessMetrics := middleware.NewBusinessMetrics(m)
	logger.Info("Metrics initialized")

	// Initialize MongoDB
	mongoClient, err := mongodb.NewClient(ctx, config.MongoDB)
	if err != nil {
		logger.WithError(err).Error("Failed to connect to MongoDB")
		return err
	}
	defer mongoClient.Close(ctx)
	logger.Info("Connected to MongoDB", "database", config.MongoDB.Database)

	// Initialize Redis session store
	redisClient, err := redis.NewClient(ctx, config.Redis)
	if err != nil {
		logger.WithError(err).Error("Failed to connect to Redis")
		return err
	}
	defer redisClient.Close()
	logger.Info("Connected to Redis")

	// Initialize Kafka
	producer := kafka.NewProducer(config.Kafka, logger)
	defer producer.Close()
	consumer := kafka.NewConsumer(config.Kafka, logger)
	defer consumer.Close()
	logger.Info("Kafka initialized", "brokers", config.Kafka.Brokers)

	// Initialize repositories
	db := mongoClient.Database()
	productRepo := mongoRepo.NewProductRepository(db)
	categoryRepo := mongoRepo.NewCategoryRepository(db)
	orderRepo := mongoRepo.NewOrderRepository(db)
	settingsRepo := mongoRepo.NewSettingsRepository(db)
	sessionStore := redisStore.NewSessionStore(redisClient, logger, m)

	// Seed the in-memory settings from Mongo, defaults before the first
	// config feed event
	settings := domain.DefaultShopSettings()
	if persisted, err := settingsRepo.Load(ctx); err != nil {
		logger.WithError(err).Warn("Failed to load persisted settings, using defaults")
	} else if persisted != nil {
		settings = *persisted
	}
	settingsStore := domain.NewSettingsStore(settings)
	logger.Info("Shop settings loaded", "shopName", settings.ShopName, "isClosed", settings.IsClosed)

	// Initialize geocoder
	geocoderConfig := geocode.DefaultConfig()
	geocoderConfig.BaseURL = getEnv("NOMINATIM_URL", geocoderConfig.BaseURL)
	geocoder := geocode.NewNominatimGeocoder(geocoderConfig, logger, m)

	// Start the catalog and config feed consumers
	feedConsumer := messaging.NewFeedConsumer(consumer, productRepo, categoryRepo, settingsStore, settingsRepo, logger)
	consumerCtx, stopConsumer := context.WithCancel(ctx)
	defer stopConsumer()
	go func() {
		if err := feedConsumer.Start(consumerCtx); err != nil && !errors.Is(err, context.Canceled) {
			logger.WithError(err).Error("Feed consumer stopped")
		}
	}()
	logger.Info("Feed consumers started")

	// Initialize application services
	catalogService := application.NewCatalogService(productRepo, categoryRepo, settingsStore, logger)
	cartService := application.NewCartService(sessionStore, productRepo, settingsStore, geocoder, logger)
	checkoutService := application.NewCheckoutService(orderRepo, sessionStore, settingsStore, producer, logger)

	// Initialize handlers
	catalogHandler := handlers.NewCatalogHandler(catalogService, logger)
	cartHandler := handlers.NewCartHandler(cartService, logger, businessMetrics)
	orderHandler := handlers.NewOrderHandler(checkoutService, logger, businessMetrics)

	// Setup Gin router with middleware
	router := gin.New()

	middlewareConfig := middleware.DefaultConfig(serviceName, logger.Logger)
	middleware.Setup(router, middlewareConfig)

	router.Use(middleware.MetricsMiddleware(m))
	router.Use(middleware.SimpleTracingMiddleware(serviceName))

	router.NoRoute(middleware.NoRoute())
	router.NoMethod(middleware.NoMethod())

	router.GET("/health", middleware.HealthCheck(serviceName))
	router.GET("/ready", middleware.ReadinessCheck(serviceName, func() error {
		if err := mongoClient.HealthCheck(ctx); err != nil {
			return err
		}
		return redisClient.HealthCheck(ctx)
	}))
	router.GET("/metrics", middleware.MetricsEndpoint(m))

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		v1.GET("/products", catalogHandler.ListProducts)
		v1.GET("/products/:productId", catalogHandler.GetProduct)
		v1.GET("/categories", catalogHandler.ListCategories)
		v1.GET("/settings", catalogHandler.GetSettings)

		sessions := v1.Group("/sessions/:sessionId")
		{
			sessions.GET("/cart", cartHandler.GetCart)
			sessions.POST("/cart/items", cartHandler.AddItem)
			sessions.PUT("/cart/items/:productId", cartHandler.UpdateQuantity)
			sessions.DELETE("/cart", cartHandler.ClearCart)
			sessions.GET("/location", cartHandler.GetLocation)
			sessions.PUT("/location", cartHandler.SetLocation)
			sessions.GET("/quote", cartHandler.GetQuote)
			sessions.POST("/orders", orderHandler.PlaceOrder)
		}

		orders := v1.Group("/orders")
		{
			orders.GET("/:orderId", orderHandler.GetOrder)
			orders.PUT("/:orderId/cancel", orderHandler.CancelOrder)
			orders.PUT("/:orderId/return", orderHandler.RequestReturn)
			orders.PUT("/:orderId/deliver", orderHandler.MarkDelivered)
		}

		customers := v1.Group("/customers")
		{
			customers.GET("/:phone/orders", orderHandler.ListOrdersByPhone)
		}
	}

	srv := &http.Server{
		Addr:         config.ServerAddr,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Error("Server error")
		}
	}()
	logger.Info("Server started", "addr", config.ServerAddr)

	<-signalCh
	logger.Info("Shutting down server...")

	stopConsumer()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Error("Server forced to shutdown")
	}

	logger.Info("Server stopped")
	return nil
}

// Config holds application configuration
type Config struct {
	ServerAddr string
	MongoDB    *mongodb.Config
	Redis      *redis.Config
	Kafka      *kafka.Config
}

func loadConfig() *Config {
	mongoConfig := mongodb.DefaultConfig()
	mongoConfig.URI = getEnv("MONGODB_URI", mongoConfig.URI)
	mongoConfig.Database = getEnv("MONGODB_DATABASE", mongoConfig.Database)

	redisConfig := redis.DefaultConfig()
	redisConfig.URL = getEnv("REDIS_URL", redisConfig.URL)

	kafkaConfig := kafka.DefaultConfig()
	kafkaConfig.Brokers = []string{getEnv("KAFKA_BROKERS", "localhost:9092")}
	kafkaConfig.ConsumerGroup = serviceName
	kafkaConfig.ClientID = serviceName

	return &Config{
		ServerAddr: getEnv("SERVER_ADDR", ":8080"),
		MongoDB:    mongoConfig,
		Redis:      redisConfig,
		Kafka:      kafkaConfig,
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
