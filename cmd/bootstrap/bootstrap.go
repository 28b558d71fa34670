package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"clinic-inventory/config"
	deliveryHttp "clinic-inventory/internal/delivery/http"
	"clinic-inventory/internal/delivery/http/handler"
	"clinic-inventory/internal/delivery/http/middleware"
	"clinic-inventory/internal/infrastructure/cache"
	"clinic-inventory/internal/infrastructure/database"
	"clinic-inventory/internal/repository"
	"clinic-inventory/internal/session"
	"clinic-inventory/internal/usecase"
	"clinic-inventory/pkg/validator"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
	"gorm.io/gorm"
)

// App holds all dependencies for the application
type App struct {
	Config      *config.Config
	DB          *gorm.DB
	RedisClient *redis.Client
	Server      *http.Server
}

// New creates a new App instance with all dependencies initialized
func New() (*App, error) {
	app := &App{}

	setupLogger()

	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	app.Config = cfg
	logrus.Info("Configuration loaded successfully")

	db, err := database.NewPostgresConnection(cfg.DB)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	app.DB = db
	logrus.Info("Database connected successfully")

	redisClient, err := cache.NewRedisClient(cfg.Redis)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	app.RedisClient = redisClient
	logrus.Info("Redis connected successfully")

	server := initializeServer(cfg, db, redisClient)
	app.Server = server

	return app, nil
}

// setupLogger configures the logrus logger
func setupLogger() {
	logrus.SetFormatter(&logrus.JSONFormatter{})
	logrus.SetOutput(os.Stdout)
	logrus.SetLevel(logrus.InfoLevel)
}

// initializeServer creates and configures the HTTP server
func initializeServer(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) *http.Server {
	sessions := session.NewService(cfg.Session, redisClient)

	customValidator := validator.NewValidator()

	userRepo := repository.NewUserRepository()
	drugRepo := repository.NewDrugRepository()
	messageRepo := repository.NewMessageRepository()

	log := logrus.StandardLogger()

	authUsecase := usecase.NewAuthUsecase(db, log, userRepo, sessions)
	drugUsecase := usecase.NewDrugUsecase(db, log, drugRepo)
	messageUsecase := usecase.NewMessageUsecase(db, log, messageRepo)
	dashboardUsecase := usecase.NewDashboardUsecase(db, log, drugRepo, messageRepo)

	authHandler := handler.NewAuthHandler(authUsecase, customValidator, sessions)
	drugHandler := handler.NewDrugHandler(drugUsecase, customValidator, sessions)
	messageHandler := handler.NewMessageHandler(messageUsecase, customValidator, sessions)
	dashboardHandler := handler.NewDashboardHandler(dashboardUsecase, sessions)

	registry := prometheus.NewRegistry()
	sessionMiddleware := middleware.NewSessionMiddleware(db, userRepo, sessions)
	corsMiddleware := middleware.NewCORSMiddleware()
	metricsMiddleware := middleware.NewMetricsMiddleware(registry)
	rateLimit := middleware.NewRateLimitMiddleware(rate.Limit(2), 20)

	router := deliveryHttp.NewRouter(
		authHandler,
		drugHandler,
		messageHandler,
		dashboardHandler,
		sessionMiddleware,
		corsMiddleware,
		metricsMiddleware,
		rateLimit,
		registry,
	)
	httpRouter := router.Setup()

	serverAddr := fmt.Sprintf(":%s", cfg.App.Port)
	return &http.Server{
		Addr:    serverAddr,
		Handler: httpRouter,
	}
}

// Run starts the HTTP server and handles graceful shutdown
func (app *App) Run() {
	go func() {
		logrus.Infof("Server starting on port %s", app.Config.App.Port)
		logrus.Infof("Environment: %s", app.Config.App.Env)
		if err := app.Server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.Fatalf("Failed to start server: %v", err)
		}
	}()

	app.waitForShutdown()
}

// waitForShutdown blocks until an interrupt signal is received
func (app *App) waitForShutdown() {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logrus.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.Server.Shutdown(ctx); err != nil {
		logrus.Errorf("Server forced to shutdown: %v", err)
	}

	app.Close()

	logrus.Info("Server shutdown complete")
}

// Close closes all connections (database, redis, etc.)
func (app *App) Close() {
	if app.DB != nil {
		sqlDB, err := app.DB.DB()
		if err == nil {
			sqlDB.Close()
		}
	}

	if app.RedisClient != nil {
		app.RedisClient.Close()
	}
}
