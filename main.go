package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"brickshot/config"
	"brickshot/database"
	routes "brickshot/internal/app/http"
	"brickshot/internal/app/http/middleware"
	"brickshot/internal/board"
	"brickshot/internal/domain/media"
	"brickshot/internal/infra/objectstore"
	"brickshot/internal/logging"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	if err := config.LoadEnv(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	log, err := logging.New(config.LOG_LEVEL, config.LOG_DEV)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	if !config.DotenvLoaded {
		log.Info("no .env file found, using system environment variables")
	}

	if err := database.InitDB(config.DB_URL, log); err != nil {
		log.Fatal("database init failed", zap.Error(err))
	}

	var storage media.Storage
	if config.StorageEnabled() {
		store, err := objectstore.New(objectstore.Config{
			Endpoint:  config.S3_ENDPOINT,
			AccessKey: config.S3_ACCESS_KEY,
			SecretKey: config.S3_SECRET_KEY,
			Bucket:    config.S3_BUCKET,
			Region:    config.S3_REGION,
			UseSSL:    config.S3_USE_SSL,
		})
		if err != nil {
			log.Fatal("object store init failed", zap.Error(err))
		}
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		err = store.EnsureBucket(ctx)
		cancel()
		if err != nil {
			log.Fatal("object store bucket check failed", zap.Error(err))
		}
		storage = store
	} else {
		log.Warn("S3_ENDPOINT not set, attachments disabled")
	}

	if !config.LOG_DEV {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger(log))

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{config.CORS_ORIGIN},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	svc := board.New(database.DB, storage, log.Named("board"))
	routes.RegisterRoutes(r, svc)

	log.Info("listening", zap.String("port", config.PORT))
	if err := r.Run(":" + config.PORT); err != nil {
		log.Fatal("server stopped", zap.Error(err))
	}
}
