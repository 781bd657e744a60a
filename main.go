package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
)

func main() {
	cfg, err := LoadConfig(".")
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	if err := initLogger(cfg.LogDir); err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync()

	secret := cfg.JWTSecret
	if secret == "" {
		secret = "dev-insecure-secret-change" // development fallback
	}
	jwtSecret = []byte(secret)
	storageBase = cfg.StorageBase

	if err := initDB(cfg); err != nil {
		logger.Fatalw("db init failed", "error", err)
	}
	if err := ensureBucket(templateBucket); err != nil {
		logger.Fatalw("storage init failed", "error", err)
	}

	// Support a lightweight migrate command: `./workboard migrate`
	// runs AutoMigrate and seeding then exits. Useful for CI or manual setup.
	if len(os.Args) > 1 && os.Args[1] == "migrate" {
		logger.Infow("migration and seeding completed")
		return
	}

	var rdb *redis.Client
	if cfg.RedisAddr != "" {
		rdb = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err := rdb.Ping(context.Background()).Err(); err != nil {
			logger.Warnw("redis unreachable, change events stay in-process", "error", err)
			rdb = nil
		}
	}
	events = newHub(rdb)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	go events.run(ctx)

	if err := startStorageSweeper(ctx, events); err != nil {
		logger.Warnw("storage sweeper disabled", "error", err)
	}

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	setupRoutes(r)

	srv := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: r,
	}

	go func() {
		logger.Infow("starting server", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalw("server error", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Infow("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Errorw("shutdown failed", "error", err)
	}
}
