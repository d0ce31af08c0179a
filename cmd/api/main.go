package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"salva-mascotas/internal/adapters/photos/local"
	"salva-mascotas/internal/adapters/storage/postgres"
	"salva-mascotas/internal/adapters/vision/openai"
	"salva-mascotas/internal/config"
	"salva-mascotas/internal/platform/logger"
	"salva-mascotas/internal/platform/tasks"
	"salva-mascotas/internal/router"
)

// @title Salva-Mascotas API
// @version 1.0
// @description API para reportar mascotas perdidas/encontradas y proponer matches por similitud de fotos.
// @BasePath /
func main() {
	log := logger.NewFromEnv()
	defer func() { _ = log.Sync() }()

	cfg := config.Load()

	opts := router.Options{
		Log:            log,
		AllowedOrigins: cfg.AllowedOrigins,
		Tasks:          tasks.NewRunner(log, 0),
	}

	if cfg.DatabaseURL != "" {
		db, err := postgres.Open(cfg.DatabaseURL)
		if err != nil {
			log.Fatalw("failed to connect to postgres", "error", err)
		}
		defer db.Close()
		opts.DB = db
	} else {
		log.Warnw("DATABASE_URL not set, using in-memory storage")
	}

	photoStore, err := local.NewStore(cfg.UploadsDir, cfg.PublicBaseURL)
	if err != nil {
		log.Fatalw("failed to init photo storage", "error", err)
	}
	opts.Photos = photoStore
	opts.UploadsDir = photoStore.Root()

	opts.Scorer = openai.NewClient(openai.Config{
		APIKey:  cfg.OpenAIAPIKey,
		Model:   cfg.OpenAIModel,
		BaseURL: cfg.OpenAIBaseURL,
		Timeout: 30 * time.Second,
	}, log)
	if cfg.OpenAIAPIKey == "" {
		log.Warnw("OPENAI_API_KEY not set, vision oracle degraded to score 0")
	}

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      router.NewRouter(opts),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Infow("server listening", "addr", srv.Addr, "env", cfg.Environment)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalw("server error", "error", err)
		}
	}()

	<-done
	log.Infow("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Errorw("forced shutdown", "error", err)
	}

	// drenar discovery pendiente antes de salir
	opts.Tasks.Wait()
	log.Infow("server stopped")
}
