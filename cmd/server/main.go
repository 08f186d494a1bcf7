package main

import (
	"context"
	"log"
	"net/http"

	firebaseauth "firebase.google.com/go/v4/auth"
	"github.com/inkwell-blog/backend/internal/events"
	"github.com/inkwell-blog/backend/internal/router"
	"github.com/inkwell-blog/backend/pkg/config"
	"github.com/inkwell-blog/backend/pkg/firebase"
	"github.com/inkwell-blog/backend/pkg/logging"
	"github.com/inkwell-blog/backend/validators"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg := config.Load()

	logger, err := logging.New(cfg.LogLevel, cfg.Env)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	// Initialize database connections
	db, err := config.InitDB()
	if err != nil {
		logger.Fatal("Failed to initialize databases", zap.Error(err))
	}
	defer db.CloseDB() // Ensure database connections are closed when main exits

	// Initialize Firebase when it is the configured identity resolver
	var authClient *firebaseauth.Client
	if cfg.AuthMode == "firebase" {
		firebaseApp, err := firebase.InitFirebase(context.Background(), cfg.FirebaseCredentialsPath)
		if err != nil {
			logger.Fatal("Failed to initialize Firebase", zap.Error(err))
		}
		authClient = firebaseApp.AuthClient
	}

	// Interaction event publisher (stub when NATS_URL is unset)
	publisher, err := events.New(cfg.NATSURL, logger)
	if err != nil {
		logger.Fatal("Failed to initialize NATS publisher", zap.Error(err))
	}

	// Create Echo instance
	e := echo.New()

	// Setup global middleware
	router.SetupMiddleware(e, logger)

	// Setup routes and dependencies
	if err := router.SetupRoutes(e, db.Postgres, db.Mongo, cfg, authClient, publisher, logger); err != nil {
		logger.Fatal("Failed to set up routes", zap.Error(err))
	}

	// Validator
	e.Validator = validators.NewValidator()

	// Metrics on a side listener
	go func() {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		if err := http.ListenAndServe(":"+cfg.MetricsPort, mux); err != nil {
			logger.Warn("metrics listener stopped", zap.Error(err))
		}
	}()

	// Start server
	e.Logger.Fatal(e.Start(":" + cfg.Port))
}
