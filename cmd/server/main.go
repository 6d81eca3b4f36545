package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"

	"github.com/guardians/awareness-portal/internal/api"
	"github.com/guardians/awareness-portal/internal/config"
	"github.com/guardians/awareness-portal/internal/mailer"
	"github.com/guardians/awareness-portal/internal/pkg/logger"
	"github.com/guardians/awareness-portal/internal/repository/postgres"
	"github.com/guardians/awareness-portal/internal/service/content"
	"github.com/guardians/awareness-portal/internal/service/quiz"
	"github.com/guardians/awareness-portal/internal/service/simulation"
	"github.com/guardians/awareness-portal/internal/simtoken"
	"github.com/guardians/awareness-portal/internal/tracking"
)

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
	logger.Info("database connected")

	// Redis is optional; without it clicks are recorded on every refresh.
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
		} else {
			logger.Info("redis connected", "addr", cfg.Redis.Addr)
		}
	}

	// Mail transport is optional at boot; campaign starts are refused
	// until credentials are configured.
	var mail mailer.Mailer
	if cfg.SES.Configured() {
		ses, err := mailer.NewSESMailer(cfg.SES.AccessKey, cfg.SES.SecretKey, cfg.SES.Region)
		if err != nil {
			logger.Error("init ses mailer", "error", err.Error())
			os.Exit(1)
		}
		mail = ses
		logger.Info("ses mailer ready", "region", cfg.SES.Region)
	} else {
		logger.Warn("ses credentials missing, simulation sends disabled")
	}

	if cfg.Tracking.SigningKey == "" {
		logger.Error("TRACKING_SIGNING_KEY is required")
		os.Exit(1)
	}

	employeeRepo := postgres.NewEmployeeRepo(db)
	templateRepo := postgres.NewTemplateRepo(db)
	eventRepo := postgres.NewEventRepo(db)
	contentRepo := postgres.NewContentRepo(db)
	quizRepo := postgres.NewQuizRepo(db)

	simSvc := simulation.NewService(simulation.Config{
		Employees:     employeeRepo,
		Events:        eventRepo,
		Mail:          mail,
		Tokens:        simtoken.NewCodec(cfg.Tracking.SigningKey, cfg.Tracking.TokenTTL()),
		PublicBaseURL: cfg.Tracking.PublicBaseURL,
		FromName:      cfg.Mail.FromName,
		FromEmail:     cfg.Mail.FromEmail,
	})

	landing := tracking.NewHandler(simSvc,
		tracking.NewDedup(redisClient, cfg.Tracking.ClickDedupWindow()))

	handlers := api.NewHandlers(api.Deps{
		Employees:   employeeRepo,
		Templates:   templateRepo,
		Events:      eventRepo,
		ContentRepo: contentRepo,
		QuizRepo:    quizRepo,
		Content:     content.NewService(contentRepo),
		Quizzes:     quiz.NewService(quizRepo),
		Simulations: simSvc,
		Landing:     landing,
	})

	srv := api.NewServer(handlers)
	addr := fmt.Sprintf("%s:%d", cfg.Server.GetHost(), cfg.Server.Port)

	go func() {
		logger.Info("portal api listening", "addr", addr)
		if err := srv.ListenAndServe(addr); err != nil && err != http.ErrServerClosed {
			logger.Error("listen", "error", err.Error())
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("shutdown", "error", err.Error())
	}
}
