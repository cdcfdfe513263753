package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/tickerpulse/ticker-tweets-api/internal/accounts"
	"github.com/tickerpulse/ticker-tweets-api/internal/api"
	"github.com/tickerpulse/ticker-tweets-api/internal/config"
	"github.com/tickerpulse/ticker-tweets-api/internal/monitor"
	"github.com/tickerpulse/ticker-tweets-api/internal/notifications"
	"github.com/tickerpulse/ticker-tweets-api/internal/scheduler"
	"github.com/tickerpulse/ticker-tweets-api/internal/scraper"
	"github.com/tickerpulse/ticker-tweets-api/internal/service"
	"github.com/tickerpulse/ticker-tweets-api/internal/storage"
)

func main() {
	// Load environment variables from .env file if it exists
	if err := godotenv.Load(); err != nil {
		logrus.Info("No .env file found, using environment variables")
	}

	// Initialize configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Set up logging
	logrus.SetLevel(logrus.InfoLevel)
	if cfg.Debug {
		logrus.SetLevel(logrus.DebugLevel)
	}
	logrus.SetFormatter(&logrus.JSONFormatter{})

	logrus.Info("Starting Ticker Tweets API")

	// Initialize storage backend for the account store
	backend, err := newStorageBackend(cfg)
	if err != nil {
		logrus.Fatalf("Failed to initialize storage: %v", err)
	}

	// Initialize account pool and restore persisted accounts
	pool := accounts.NewPool(accounts.NewStore(backend))
	if err := pool.Load(); err != nil {
		logrus.Fatalf("Failed to load accounts: %v", err)
	}

	// Initialize post source and orchestration service
	source := scraper.NewClient(cfg.ScraperBaseURL, cfg.FetchTimeout)
	svc := service.New(pool, source, cfg.FetchTimeout)

	// Seed an account from the environment, as the hosted deployment does
	if err := seedAccount(cfg, svc); err != nil {
		logrus.Errorf("Failed to seed account from environment: %v", err)
	}

	if pool.Size() == 0 {
		logrus.Warn("No accounts registered; fetch requests will fail until one is added")
	}

	// Initialize account health monitoring
	notificationService := notifications.NewService(cfg)
	monitorService := monitor.NewService(pool, notificationService)
	schedulerService := scheduler.NewService(monitorService, cfg.MonitorSchedule)

	if err := schedulerService.Start(); err != nil {
		logrus.Fatalf("Failed to start scheduler: %v", err)
	}
	defer schedulerService.Stop()

	// Set up HTTP server
	apiServer := api.NewServer(svc, pool)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      apiServer.Router(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start HTTP server in a goroutine
	go func() {
		logrus.Infof("HTTP server starting on port %s", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.Fatalf("HTTP server failed: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logrus.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logrus.Errorf("Server forced to shutdown: %v", err)
	}

	logrus.Info("Server exited")
}

func newStorageBackend(cfg *config.Config) (storage.Interface, error) {
	switch cfg.StorageBackend {
	case "azure":
		return storage.NewAzureStorage(cfg.StorageAccount, cfg.StorageContainer)
	default:
		return storage.NewLocalStorage(cfg.DataDir)
	}
}

// seedAccount registers the account configured through the environment, if
// any. An already-persisted account is left untouched.
func seedAccount(cfg *config.Config, svc *service.Service) error {
	if cfg.TwitterUsername == "" {
		return nil
	}
	if cfg.TwitterPassword == "" && cfg.TwitterCookieString == "" {
		return fmt.Errorf("TWITTER_USERNAME is set but no TWITTER_PASSWORD or TWITTER_COOKIE_STRING")
	}

	err := svc.RegisterAccount(cfg.TwitterUsername, cfg.TwitterPassword,
		cfg.TwitterEmail, cfg.TwitterEmailPassword, cfg.TwitterCookieString)
	if errors.Is(err, accounts.ErrDuplicateAccount) {
		logrus.Debugf("Account %s already registered", cfg.TwitterUsername)
		return nil
	}
	if err != nil {
		return err
	}

	logrus.Infof("Seeded account %s from environment", cfg.TwitterUsername)
	return nil
}
