package router

import (
	"firebase.google.com/go/v4/auth"
	"github.com/inkwell-blog/backend/internal/events"
	"github.com/inkwell-blog/backend/internal/handlers"
	"github.com/inkwell-blog/backend/internal/middleware"
	"github.com/inkwell-blog/backend/internal/models"
	"github.com/inkwell-blog/backend/internal/repositories"
	"github.com/inkwell-blog/backend/pkg/config"
	"github.com/labstack/echo/v4"
	eMiddleware "github.com/labstack/echo/v4/middleware"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// SetupMiddleware configures global Echo middleware
func SetupMiddleware(e *echo.Echo, logger *zap.Logger) {
	e.Use(eMiddleware.RequestLoggerWithConfig(eMiddleware.RequestLoggerConfig{
		LogURI:    true,
		LogStatus: true,
		LogMethod: true,
		LogValuesFunc: func(c echo.Context, v eMiddleware.RequestLoggerValues) error {
			logger.Info("request",
				zap.String("method", v.Method),
				zap.String("uri", v.URI),
				zap.Int("status", v.Status),
			)
			return nil
		},
	}))
	e.Use(eMiddleware.Recover())
	e.Use(eMiddleware.CORS())
}

// SetupRoutes configures all application routes and injects dependencies
func SetupRoutes(e *echo.Echo, pgdb *gorm.DB, mgClient *mongo.Client, cfg *config.Config, firebaseAuthClient *auth.Client, publisher *events.Publisher, logger *zap.Logger) error {
	// AutoMigrate PostgreSQL models
	err := pgdb.AutoMigrate(
		&models.User{},
		&models.Comment{},
		&models.Like{},
		&models.CommentLike{},
		&models.Reaction{},
		&models.Notification{},
	)
	if err != nil {
		return err
	}
	logger.Info("PostgreSQL auto-migrations completed for all models")

	// Health check - always accessible
	e.GET("/health", handlers.HealthCheck)

	// --- Initialize Repositories ---
	userRepo := repositories.NewPostgresUserRepository(pgdb)
	postRepo := repositories.NewMongoPostRepository(mgClient.Database("inkwell"))
	commentRepo := repositories.NewPostgresCommentRepository(pgdb)
	likeRepo := repositories.NewPostgresLikeRepository(pgdb)
	commentLikeRepo := repositories.NewPostgresCommentLikeRepository(pgdb)
	reactionRepo := repositories.NewPostgresReactionRepository(pgdb)
	notificationRepo := repositories.NewPostgresNotificationRepository(pgdb)

	// --- Protected routes (require authentication) ---
	api := e.Group("/api/v1")
	if cfg.AuthMode == "firebase" {
		api.Use(middleware.FirebaseAuthMiddleware(firebaseAuthClient, userRepo))
		logger.Info("Firebase authentication middleware applied to /api/v1 group")
	} else {
		api.Use(middleware.JWTAuthMiddleware())
		logger.Info("JWT authentication middleware applied to /api/v1 group")
	}

	// Actions endpoint: likes, comments, comment likes, reactions
	actionHandler := handlers.NewActionHandler(postRepo, userRepo, commentRepo, likeRepo, commentLikeRepo, reactionRepo, notificationRepo, publisher, logger)
	actionHandler.RegisterActionRoutes(api)

	// Post read surface
	postHandler := handlers.NewPostHandler(postRepo, likeRepo, commentRepo, reactionRepo, logger)
	postHandler.RegisterPostRoutes(api)

	// Comment routes
	commentHandler := handlers.NewCommentHandler(commentRepo, postRepo, userRepo, commentLikeRepo, logger)
	commentHandler.RegisterCommentRoutes(api)

	// Notification routes
	notificationHandler := handlers.NewNotificationHandler(notificationRepo, logger)
	notificationHandler.RegisterNotificationRoutes(api)

	logger.Info("All routes configured")
	return nil
}
