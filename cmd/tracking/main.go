package main

import (
	"context"
	"database/sql"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"

	"github.com/guardians/awareness-portal/internal/config"
	"github.com/guardians/awareness-portal/internal/pkg/logger"
	"github.com/guardians/awareness-portal/internal/repository/postgres"
	"github.com/guardians/awareness-portal/internal/service/simulation"
	"github.com/guardians/awareness-portal/internal/simtoken"
	"github.com/guardians/awareness-portal/internal/tracking"
)

// Standalone landing-page server. Runs on the public edge so simulated
// phishing links never touch the admin API. It only decodes tokens and
// appends click events; no mail transport is wired.
func main() {
	configPath := "config/config.yaml"
	if p := os.Getenv("CONFIG_PATH"); p != "" {
		configPath = p
	}
	cfg, err := config.LoadFromEnv(configPath)
	if err != nil {
		logger.Error("load config", "error", err.Error())
		os.Exit(1)
	}

	if cfg.Database.URL == "" {
		logger.Error("DATABASE_URL is required")
		os.Exit(1)
	}
	if cfg.Tracking.SigningKey == "" {
		logger.Error("TRACKING_SIGNING_KEY is required")
		os.Exit(1)
	}

	db, err := sql.Open("postgres", cfg.Database.URL)
	if err != nil {
		logger.Error("open database", "error", err.Error())
		os.Exit(1)
	}
	defer db.Close()
	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.Database.ConnMaxLifetime())
	if err := db.Ping(); err != nil {
		logger.Error("ping database", "error", err.Error())
		os.Exit(1)
	}

	var redisClient *redis.Client
	if cfg.Redis.Enabled {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := redisClient.Ping(context.Background()).Err(); err != nil {
			logger.Warn("redis unavailable, click de-dup disabled", "error", err.Error())
			redisClient = nil
		}
	}

	simSvc := simulation.NewService(simulation.Config{
		Employees:     postgres.NewEmployeeRepo(db),
		Events:        postgres.NewEventRepo(db),
		Tokens:        simtoken.NewCodec(cfg.Tracking.SigningKey, cfg.Tracking.TokenTTL()),
		PublicBaseURL: cfg.Tracking.PublicBaseURL,
	})

	handler := tracking.NewHandler(simSvc,
		tracking.NewDedup(redisClient, cfg.Tracking.ClickDedupWindow()))

	port := os.Getenv("PORT")
	if port == "" {
		port = "8081"
	}
	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      handler.Routes(),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		logger.Info("tracking service listening", "port", port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("listen", "error", err.Error())
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down tracking service")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	srv.Shutdown(ctx)
}
