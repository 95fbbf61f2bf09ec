package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/bryanwahyu/code-reviewer/internal/application"
	appreview "github.com/bryanwahyu/code-reviewer/internal/application/review"
	"github.com/bryanwahyu/code-reviewer/internal/config"
	domain "github.com/bryanwahyu/code-reviewer/internal/domain/review"
	aiclient "github.com/bryanwahyu/code-reviewer/internal/infra/ai/openai"
	mysqlp "github.com/bryanwahyu/code-reviewer/internal/infra/db/mysql"
	postgresp "github.com/bryanwahyu/code-reviewer/internal/infra/db/postgres"
	"github.com/bryanwahyu/code-reviewer/internal/infra/httpserver"
	minioStore "github.com/bryanwahyu/code-reviewer/internal/infra/storage"
	"github.com/bryanwahyu/code-reviewer/internal/middleware"
	"github.com/bryanwahyu/code-reviewer/internal/webui"
)

func main() {
	// .env is for local development; absence is fine
	_ = godotenv.Load()

	path := "config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		path = v
	}

	cfg, err := config.Load(path)
	if err != nil {
		log.Fatalf("config load error: %v", err)
	}

	logger := newLogger()
	defer logger.Sync()

	if cfg.AI.APIKey == "" {
		logger.Fatal("OPENAI_API_KEY not set; configure ai.apiKey or the environment")
	}

	ctx := context.Background()

	// connect database
	db, repo, err := connectRepository(ctx, cfg)
	if err != nil {
		logger.Fatal("database connect error", zap.Error(err))
	}
	defer db.Close()

	// init AI gateway
	gateway := aiclient.NewClient(cfg.AI.APIKey, cfg.AI.Model)

	// init raw response archive (optional)
	var archive appreview.Archive
	if cfg.Archive.Enabled {
		store, err := minioStore.New(ctx,
			cfg.Archive.Endpoint,
			cfg.Archive.Region,
			cfg.Archive.BucketName,
			cfg.Archive.AccessKey,
			cfg.Archive.SecretKey,
			cfg.Archive.UseSSL,
		)
		if err != nil {
			logger.Fatal("archive init error", zap.Error(err))
		}
		archive = store
	}

	// init service
	svc := &appreview.Service{
		Repo:     repo,
		Analyzer: gateway,
		Archive:  archive,
		Clock:    application.SystemClock{},
		Logger:   logger,
	}

	// init router
	checkers := map[string]middleware.HealthChecker{
		"database": &middleware.DatabaseHealthChecker{DB: db},
	}
	handler := httpserver.NewRouter(svc, checkers, logger, webui.Handler())

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 120 * time.Second, // model calls can be slow
		IdleTimeout:  60 * time.Second,
	}

	// run server
	go func() {
		logger.Info("server listening", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server error", zap.Error(err))
		}
	}()

	// graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
	logger.Info("shutting down server...")

	ctx2, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx2); err != nil {
		logger.Error("shutdown error", zap.Error(err))
	}
}

// connectRepository picks the repository backend from config and makes
// sure the schema exists.
func connectRepository(ctx context.Context, cfg *config.Config) (*sql.DB, domain.Repository, error) {
	switch cfg.Database.Driver {
	case "postgres":
		db, err := postgresp.Connect(ctx, cfg.DSN())
		if err != nil {
			return nil, nil, err
		}
		repo := postgresp.NewReviewRepository(db)
		if err := repo.EnsureSchema(ctx); err != nil {
			db.Close()
			return nil, nil, err
		}
		return db, repo, nil
	default:
		db, err := mysqlp.Connect(ctx, cfg.DSN())
		if err != nil {
			return nil, nil, err
		}
		repo := mysqlp.NewReviewRepository(db)
		if err := repo.EnsureSchema(ctx); err != nil {
			db.Close()
			return nil, nil, err
		}
		return db, repo, nil
	}
}

func newLogger() *zap.Logger {
	var logger *zap.Logger
	var err error
	if os.Getenv("APP_ENV") == "production" {
		logger, err = zap.NewProduction()
	} else {
		logger, err = zap.NewDevelopment()
	}
	if err != nil {
		log.Fatalf("logger init error: %v", err)
	}
	return logger
}
