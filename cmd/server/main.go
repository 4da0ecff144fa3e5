package main

import (
	"context"
	"os"

	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/chartvault/ChartVaultServer/internal/auth"
	"github.com/chartvault/ChartVaultServer/internal/config"
	"github.com/chartvault/ChartVaultServer/internal/favorites"
	"github.com/chartvault/ChartVaultServer/internal/ingest"
	"github.com/chartvault/ChartVaultServer/internal/service"
	"github.com/chartvault/ChartVaultServer/internal/storage"
	"github.com/chartvault/ChartVaultServer/internal/store"
)

func main() {
	var logger *zap.Logger
	var err error

	if os.Getenv("DEBUG") == "true" {
		logger, err = zap.NewDevelopment()
		if err != nil {
			panic(err)
		}
		if err := godotenv.Load(".env"); err != nil {
			logger.Warn("Warning: .env file not found. Using system environment variables.")
		}
	} else {
		logger, err = zap.NewProduction()
		if err != nil {
			panic(err)
		}
	}
	defer logger.Sync()

	// Initialize loggers for all packages
	store.InitializeLogger(logger)
	ingest.InitializeLogger(logger)
	service.InitializeLogger(logger)

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", zap.Error(err))
	}

	ctx := context.Background()
	metadata, err := store.New(ctx, cfg)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer metadata.Close()

	blobs, err := storage.NewFS(cfg.StorageRoot)
	if err != nil {
		logger.Fatal("Failed to initialize artifact storage", zap.Error(err))
	}

	gate := auth.NewGate(metadata, cfg.TokenSecret, cfg.TokenTTL, logger)
	pipeline := ingest.NewPipeline(metadata, blobs, ingest.NewMetrics(prometheus.DefaultRegisterer))
	favs := favorites.NewManager(metadata)
	handler := service.NewHandler(metadata, gate, pipeline, favs, blobs)

	router := gin.New()
	router.Use(ginzap.Ginzap(logger, "2006-01-02T15:04:05Z07:00", true))
	router.Use(ginzap.RecoveryWithZap(logger, true))

	router.GET("/", handler.Home)
	router.GET("/health", handler.Health)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	router.POST("/token", handler.Token)

	router.POST("/users", handler.Register)
	router.GET("/users", handler.ListUsers)
	router.GET("/users/:id", handler.GetUser)

	// "me" routes live outside /users so they don't collide with the
	// /users/:id wildcard in gin's routing tree.
	router.PUT("/me", handler.RequireAuth(), handler.UpdateMe)
	router.DELETE("/me", handler.RequireAuth(), handler.DeleteMe)
	router.GET("/me/favorites", handler.RequireAuth(), handler.ListMyFavorites)

	router.GET("/songs", handler.OptionalAuth(), handler.ListSongs)
	router.GET("/stats", handler.CountSongs)
	router.GET("/songs/:id", handler.OptionalAuth(), handler.GetSong)
	router.POST("/songs", handler.RequireAuth(), service.UploadRateLimit(cfg.UploadsPerMinute), handler.CreateSong)
	router.DELETE("/songs/:id", handler.RequireAuth(), handler.DeleteSong)

	router.POST("/songs/:id/fav", handler.RequireAuth(), handler.Favorite)
	router.POST("/songs/:id/unfav", handler.RequireAuth(), handler.Unfavorite)

	router.GET("/songs/:id/audio", handler.Artifact("audio"))
	router.GET("/songs/:id/jacket", handler.Artifact("jacket"))
	router.GET("/songs/:id/easy", handler.Artifact("easy"))
	router.GET("/songs/:id/normal", handler.Artifact("normal"))
	router.GET("/songs/:id/hard", handler.Artifact("hard"))

	logger.Info("Server starting", zap.String("port", cfg.Port))
	if err := router.Run(":" + cfg.Port); err != nil {
		logger.Fatal("Failed to run server", zap.Error(err))
	}
}
