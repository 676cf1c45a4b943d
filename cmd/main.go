package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"dhonk_backend/internal/config"
	"dhonk_backend/internal/infrastructure"
	httpapi "dhonk_backend/internal/interfaces/http"
	"dhonk_backend/internal/logger"
	"dhonk_backend/internal/metrics"
	"dhonk_backend/internal/repository"
	"dhonk_backend/internal/usecases"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "fatal:", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	m := metrics.New()

	connector := newConnector(cfg.Database)
	contentRepo := repository.NewContentRepository(connector, cfg.Database.Table)
	prepareContent(contentRepo, cfg.Database, log)

	intents, err := repository.LoadIntentRules(cfg.IntentRulesPath)
	if err != nil {
		return fmt.Errorf("load intent rules: %w", err)
	}

	if cfg.LLM.APIKey == "" {
		log.Warn("OPENROUTER_API_KEY is not set, language model answers will fail")
	}
	llm := infrastructure.NewOpenRouterClient(cfg.LLM)

	chatService := usecases.NewChatService(intents, cfg.Contacts, contentRepo, llm, cfg.Prompts, log, m)

	gin.SetMode(cfg.GinMode)
	r := gin.New()
	httpapi.SetupRoutes(r, chatService, m, log)

	// Each request may wait on the model for connect + read timeout.
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      cfg.LLM.ConnectTimeout + cfg.LLM.ReadTimeout + 10*time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("Server starting",
			logger.String("port", cfg.Port),
			logger.String("db_driver", cfg.Database.Driver),
			logger.String("model", cfg.LLM.Model),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	case sig := <-quit:
		log.Info("Shutting down", logger.String("signal", sig.String()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

func newConnector(db config.DatabaseConfig) infrastructure.Connector {
	if db.Driver == config.DriverSQLite {
		return infrastructure.NewSQLiteConnector(db.SQLitePath)
	}
	return infrastructure.NewPostgresConnector(db.PostgresDSN())
}

// prepareContent creates the content table and loads the seed CSV. Failures
// are logged only: the chatbot still answers from the other sources.
func prepareContent(repo *repository.ContentRepository, db config.DatabaseConfig, log logger.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := repo.Migrate(ctx); err != nil {
		log.Warn("Content table migration failed", logger.Error(err))
		return
	}
	if db.SeedCSV == "" {
		return
	}
	n, err := repo.SyncFromCSV(ctx, db.SeedCSV)
	if err != nil {
		log.Warn("Failed to sync content from CSV", logger.String("path", db.SeedCSV), logger.Error(err))
		return
	}
	log.Info("Content synced from CSV", logger.String("path", db.SeedCSV), logger.Int("rows", n))
}
