package main

import (
	"campussafety/internal/app"
	"campussafety/internal/config"
	"campussafety/internal/log"
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
)

// @title Campus Safety Assessment API
// @version 1.0
// @description Dynamic form sessions for school safety assessments, drills and inspections
// @host localhost:8080
// @BasePath /v1
func main() {
	cfg := config.Load()
	log.SetLevel(cfg.LogLevel)
	log.Info("started")

	if cfg.Completion.IsEnabled() {
		log.Infof("completion endpoint: %s", cfg.Completion.Endpoint)
	}

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	stores, err := app.Connect(ctx, cfg)
	if err != nil {
		log.Fatalf("startup failed: %v", err)
	}

	a := app.New(ctx, cfg, stores)

	// Start server
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           a.Handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Infof("server starting on :%s", cfg.Port)
		log.Info("endpoints:")
		log.Info("  POST /v1/auth/login")
		log.Info("  GET  /v1/locations")
		log.Info("  POST/GET /v1/assignments")
		log.Info("  GET/PUT/DELETE /v1/assignments/{id}")
		log.Info("  GET  /v1/assignments/{id}/session")
		log.Info("  GET  /v1/assignments/{id}/questions")
		log.Info("  PUT  /v1/assignments/{id}/answers")
		log.Info("  PUT  /v1/assignments/{id}/draft")
		log.Info("  POST /v1/assignments/{id}/questions/{questionId}/upload")
		log.Info("  POST /v1/assignments/{id}/submit")
		log.Info("  GET  /v1/assignments/{id}/report")
		log.Info("  GET  /v1/files/{fileId}")
		log.Info("  WS   /v1/ws/assignments/{id}")

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("ListenAndServe: %v", err)
		}
	}()

	// Wait for interrupt
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Errorf("server forced to shutdown: %v", err)
	}

	// let queued uploads finish before closing the stores
	a.Pool.Shutdown(shutdownCtx)
	stop()
	stores.Close(shutdownCtx)

	log.Info("server exited")
}
