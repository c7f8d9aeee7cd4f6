package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	gocache "github.com/patrickmn/go-cache"
	"go.uber.org/zap"

	"github.com/wheelshare/service-rental/internal/application"
	"github.com/wheelshare/service-rental/internal/auth"
	"github.com/wheelshare/service-rental/internal/config"
	"github.com/wheelshare/service-rental/internal/database"
	bookingDomain "github.com/wheelshare/service-rental/internal/domain/booking"
	"github.com/wheelshare/service-rental/internal/events"
	"github.com/wheelshare/service-rental/internal/handler"
	"github.com/wheelshare/service-rental/internal/logger"
	"github.com/wheelshare/service-rental/internal/middleware"
	"github.com/wheelshare/service-rental/internal/repository"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log, err := logger.NewNamed(cfg.AppEnv, "service-rental")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	log.Info("starting service-rental",
		zap.String("port", cfg.Port),
	)

	// Connect to database
	db, err := database.Connect(cfg.DBConfig.DSN(), log)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}

	// Run database migrations
	if cfg.AppEnv == "development" {
		if err := db.AutoMigrate(
			&repository.UserModel{},
			&repository.CarTypeModel{},
			&repository.CarModel{},
			&repository.BookingModel{},
			&repository.CarPhotoModel{},
		); err != nil {
			log.Fatal("failed to run auto-migration", zap.Error(err))
		}
		log.Info("database migration completed (dev auto-migrate)")
	} else {
		if err := database.RunMigrations(cfg.DBConfig.URL(), "migrations", log); err != nil {
			log.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	// Initialize JWT manager
	jwtManager := auth.NewJWTManager(cfg.JWTConfig.Secret, 15*time.Minute)

	// Initialize Kafka producer
	kafkaProducer := events.NewProducer(cfg.KafkaConfig.Brokers, log)
	defer func() { _ = kafkaProducer.Close() }()

	// Initialize repositories and the transaction manager
	txManager := database.NewTxManager(db)
	userRepo := repository.NewGormUserRepository(db)
	carTypeRepo := repository.NewGormCarTypeRepository(db)
	carRepo := repository.NewGormCarRepository(db)
	bookingRepo := repository.NewGormBookingRepository(db)
	photoRepo := repository.NewGormCarPhotoRepository(db)

	// Initialize application services
	carCache := gocache.New(5*time.Minute, 10*time.Minute)
	userService := application.NewUserService(userRepo, jwtManager, log)
	carTypeService := application.NewCarTypeService(carTypeRepo, log)
	carService := application.NewCarService(txManager, carRepo, carTypeRepo, bookingRepo, carCache, kafkaProducer, log)
	bookingService := application.NewBookingService(
		txManager,
		bookingRepo,
		carRepo,
		bookingDomain.AvailabilityPolicy{},
		kafkaProducer,
		log,
	)
	photoService := application.NewCarPhotoService(photoRepo, carRepo, log)

	// Start the car event consumer so cache entries are invalidated when
	// another instance changes a car.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	groupID := cfg.KafkaConfig.GroupPrefix + "rental-service"
	carConsumer := events.NewCarEventConsumer(cfg.KafkaConfig.Brokers, groupID, carService, log)
	defer func() { _ = carConsumer.Close() }()

	go func() {
		log.Info("starting car event consumer")
		if err := carConsumer.Start(ctx); err != nil && err != context.Canceled {
			log.Error("car event consumer error", zap.Error(err))
		}
	}()

	// Initialize HTTP handlers
	userHandler := handler.NewUserHandler(userService)
	carTypeHandler := handler.NewCarTypeHandler(carTypeService)
	carHandler := handler.NewCarHandler(carService)
	bookingHandler := handler.NewBookingHandler(bookingService)
	photoHandler := handler.NewCarPhotoHandler(photoService)
	adminBookingHandler := handler.NewAdminBookingHandler(bookingService)
	healthHandler := handler.NewHealthHandler(db)

	// Setup Gin router
	gin.SetMode(gin.ReleaseMode)
	handler.RegisterValidations()
	router := gin.New()

	// Apply global middleware
	router.Use(middleware.RecoveryMiddleware(log))
	router.Use(middleware.LoggerMiddleware(log))
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.CORSMiddleware())
	router.Use(middleware.SecurityHeadersMiddleware())

	// Register routes
	healthHandler.RegisterRoutes(&router.RouterGroup)
	userHandler.RegisterRoutes(&router.RouterGroup, jwtManager)
	carTypeHandler.RegisterRoutes(&router.RouterGroup, jwtManager)
	carHandler.RegisterRoutes(&router.RouterGroup, jwtManager)
	bookingHandler.RegisterRoutes(&router.RouterGroup, jwtManager)
	photoHandler.RegisterRoutes(&router.RouterGroup, jwtManager)
	adminBookingHandler.RegisterRoutes(&router.RouterGroup, jwtManager)

	// Create HTTP server
	srv := &http.Server{
		Addr:         cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Info("HTTP server starting", zap.String("addr", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down service-rental...")

	// Stop the consumer
	cancel()

	// Shutdown HTTP server with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server forced shutdown", zap.Error(err))
	}

	log.Info("service-rental stopped")
}
