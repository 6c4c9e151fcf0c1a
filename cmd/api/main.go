package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"github.com/juliogarciag/personal-site/internal/config"
	"github.com/juliogarciag/personal-site/internal/handler"
	"github.com/juliogarciag/personal-site/internal/logging"
	"github.com/juliogarciag/personal-site/internal/middleware"
	"github.com/juliogarciag/personal-site/internal/repository"
	"github.com/juliogarciag/personal-site/internal/service"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logging.Init("personal-site-api", cfg.LogLevel, cfg.AppEnv)

	db, err := connectDB(cfg)
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	movementSvc := service.NewMovementService(repository.NewMovementRepository(db), cfg.AnchorScope)
	postSvc := service.NewPostService(repository.NewPostRepository(db))

	movements := handler.NewMovementHandler(movementSvc)
	posts := handler.NewPostHandler(postSvc)

	authed := middleware.Auth(cfg.JWTSecret)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", handleHealth)

	mux.Handle("GET /api/v1/posts", http.HandlerFunc(posts.List))
	mux.Handle("GET /api/v1/posts/{id}", http.HandlerFunc(posts.Get))

	mux.Handle("GET /api/v1/admin/posts", authed(http.HandlerFunc(posts.ListAll)))
	mux.Handle("POST /api/v1/admin/posts", authed(http.HandlerFunc(posts.Create)))
	mux.Handle("PUT /api/v1/admin/posts/{id}", authed(http.HandlerFunc(posts.Update)))
	mux.Handle("DELETE /api/v1/admin/posts/{id}", authed(http.HandlerFunc(posts.Delete)))

	mux.Handle("GET /api/v1/users/{id}/movements", authed(http.HandlerFunc(movements.List)))
	mux.Handle("POST /api/v1/users/{id}/movements", authed(http.HandlerFunc(movements.Create)))
	mux.Handle("PATCH /api/v1/users/{id}/movements/{movementId}", authed(http.HandlerFunc(movements.Update)))
	mux.Handle("DELETE /api/v1/users/{id}/movements/{movementId}", authed(http.HandlerFunc(movements.Delete)))

	root := middleware.Tracing(middleware.Logging(middleware.Recovery(mux)))

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           root,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		slog.Info("server started", "addr", addr, "anchor_scope", cfg.AnchorScope)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}
	slog.Info("server stopped")
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(map[string]string{"status": "ok"}); err != nil {
		slog.Error("failed to write health response", "error", err)
	}
}

func connectDB(cfg *config.Config) (*sql.DB, error) {
	db, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("connectDB: %w", err)
	}

	db.SetMaxOpenConns(cfg.DBMaxOpenConns)
	db.SetMaxIdleConns(cfg.DBMaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.DBConnMaxLifetimeS) * time.Second)
	db.SetConnMaxIdleTime(time.Duration(cfg.DBConnMaxIdleTimeS) * time.Second)

	for i := range 30 {
		if err = db.Ping(); err == nil {
			return db, nil
		}
		slog.Info("waiting for database", "attempt", i+1)
		time.Sleep(time.Second)
	}

	db.Close()
	return nil, fmt.Errorf("connectDB: gave up after 30 attempts: %w", err)
}
