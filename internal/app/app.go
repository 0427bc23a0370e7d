// Package app wires the configured adapters into the HTTP service and
// owns its lifecycle.
package app

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"askdoc/features/qa"
	"askdoc/features/stats"
	"askdoc/internal/config"
	"askdoc/internal/middleware"
)

const serviceName = "askdoc"

type App struct {
	Handler http.Handler
	port    int
}

func New(cfg *config.Config, deps *Dependencies) *App {
	qaService := qa.NewService(deps.Gate, deps.Retriever, deps.Generator, deps.QueryLogger)
	qaHandler := qa.NewHandler(qaService)
	statsHandler := stats.NewHandler(deps.Provider)

	// Middleware: CORS
	enableCORS := func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Access-Control-Allow-Origin", "*")
			w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

			if r.Method == "OPTIONS" {
				w.WriteHeader(http.StatusOK)
				return
			}
			next(w, r)
		}
	}

	authed := func(next http.HandlerFunc) http.HandlerFunc {
		return middleware.BearerAuth(cfg.APIBearerToken, next).ServeHTTP
	}

	// Routes
	mux := http.NewServeMux()

	mux.Handle("POST /api/v1/qa/run", middleware.CorrelationID(enableCORS(authed(qaHandler.Run))))
	mux.Handle("GET /api/v1/stats", middleware.CorrelationID(enableCORS(statsHandler.GetStats)))

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"healthy","service":"` + serviceName + `"}`)) // #nosec G104 -- static health body
	})

	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(map[string]string{
			"service": serviceName,
			"version": "1.0.0",
			"health":  "/health",
		}); err != nil {
			slog.Error("failed to encode response", "error", err)
		}
	})

	return &App{
		Handler: mux,
		port:    cfg.ServerPort,
	}
}

func (a *App) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", a.port),
		Handler:           a.Handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		slog.Info("shutting down server...")
		if err := srv.Shutdown(context.Background()); err != nil {
			slog.Error("server shutdown failed", "error", err)
		}
	}()

	slog.Info("server starting", "port", a.port)
	if err := srv.ListenAndServe(); err != http.ErrServerClosed {
		return err
	}
	return nil
}
