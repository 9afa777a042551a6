package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/redis/go-redis/v9"

	"careconnect/internal/config"
	"careconnect/internal/db"
	"careconnect/internal/email"
	"careconnect/internal/jobs"
	"careconnect/internal/metrics"
	"careconnect/internal/server"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg := config.Load()

	// Initialize database
	database, err := db.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close()

	// Run migrations
	if err := database.RunMigrations(cfg.DatabaseURL); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Migrations completed successfully")

	// Redis backs saved sets, the banner cache, and session storage. The
	// service runs without it; affinity features degrade to neutral results.
	var rdb *redis.Client
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			log.Fatalf("Invalid REDIS_URL: %v", err)
		}
		rdb = redis.NewClient(opts)
		if err := rdb.Ping(ctx).Err(); err != nil {
			log.Printf("Warning: redis unreachable: %v", err)
		}
	} else {
		log.Println("REDIS_URL not set; saved listings and banner caching are disabled")
	}

	metrics.Init(database)

	notifier := email.NewNotifier(cfg, database)
	if !cfg.IsEmailEnabled() {
		log.Println("SMTP not configured; email notifications are disabled")
	}

	// Background banner refresh keeps the ordered promotion strip warm.
	banners := jobs.NewBannerCache(rdb)
	refresher := jobs.NewBannerRefresher(database, banners, cfg.BannerRefreshInterval)
	go refresher.Start(ctx)

	srv := server.New(cfg)
	if err := srv.RegisterRoutes(ctx, database, rdb, notifier, banners); err != nil {
		log.Fatalf("Failed to register routes: %v", err)
	}

	go func() {
		if err := srv.Start(); err != nil {
			log.Printf("Server error: %v", err)
		}
	}()
	log.Printf("Server started on %s", cfg.ServerAddr)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	cancel()
	if err := srv.Shutdown(); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}
	log.Println("Server exited")
}
