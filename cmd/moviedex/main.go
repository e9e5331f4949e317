package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/cinewise/moviedex/internal/config"
	logpkg "github.com/cinewise/moviedex/internal/logger"
	"github.com/cinewise/moviedex/internal/metrics"
	catalogrepo "github.com/cinewise/moviedex/internal/repository/catalog"
	sessionrepo "github.com/cinewise/moviedex/internal/repository/session"
	chiTransport "github.com/cinewise/moviedex/internal/transport/chi"
	openaiTransport "github.com/cinewise/moviedex/internal/transport/openai"
	"github.com/cinewise/moviedex/internal/transport/tmdb"
	detailsuc "github.com/cinewise/moviedex/internal/usecase/details"
	healthuc "github.com/cinewise/moviedex/internal/usecase/health"
	recommenduc "github.com/cinewise/moviedex/internal/usecase/recommend"
	"github.com/cinewise/moviedex/internal/version"
	"github.com/cinewise/moviedex/web"
)

func main() {
	// .env first so ${VAR} references in the YAML resolve.
	_ = godotenv.Load()

	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting moviedex API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("catalog_table", cfg.Catalog.TablePath),
		zap.String("similarity_matrix", cfg.Catalog.MatrixPath),
	)

	// Load the similarity snapshot. A missing or corrupt snapshot is fatal:
	// nothing can be served without it.
	cat, err := catalogrepo.Load(cfg.Catalog.TablePath, cfg.Catalog.MatrixPath)
	if err != nil {
		logger.Fatal("Failed to load catalog snapshot", zap.Error(err))
	}
	logger.Info("Catalog loaded", zap.Int("movies", cat.Len()))

	// Register provider metrics explicitly (no init())
	metrics.RegisterProviderMetrics()

	if cfg.Metadata.APIKey == "" {
		logger.Warn("TMDB API key is not set; metadata fetches will fail per item")
	}
	fetcher := tmdb.NewClient(&tmdb.Config{
		BaseURL:      cfg.Metadata.BaseURL,
		ImageBaseURL: cfg.Metadata.ImageBaseURL,
		APIKey:       cfg.Metadata.APIKey,
		Language:     cfg.Metadata.Language,
		FetchTimeout: time.Duration(cfg.Metadata.FetchTimeoutSec) * time.Second,
		ProbeTimeout: time.Duration(cfg.Metadata.ProbeTimeoutSec) * time.Second,
		Logger:       logger,
	})

	if cfg.Summary.APIKey == "" {
		logger.Warn("OpenAI API key is not set; summaries will degrade to the fallback text")
	}
	summarizer := openaiTransport.NewSummarizer(&openaiTransport.Config{
		APIKey:    cfg.Summary.APIKey,
		BaseURL:   cfg.Summary.BaseURL,
		Model:     cfg.Summary.Model,
		MaxTokens: cfg.Summary.MaxTokens,
		Logger:    logger,
	})

	// Session store with an idle-sweep janitor.
	store := sessionrepo.New(time.Duration(cfg.Session.MaxIdleSec) * time.Second)
	janitorCtx, stopJanitor := context.WithCancel(context.Background())
	defer stopJanitor()
	go store.Janitor(janitorCtx, time.Duration(cfg.Session.SweepIntervalSec)*time.Second, logger)

	// Use case services
	recommendSvc := recommenduc.New(cat, fetcher, cfg.Recommend.TopK, logger)
	detailsSvc := detailsuc.New(fetcher, summarizer, store, logger)
	healthSvc := healthuc.New(cat, fetcher, summarizer)

	server := chiTransport.NewServer(recommendSvc, detailsSvc, healthSvc)

	ui, err := web.Handler(version.Version)
	if err != nil {
		logger.Fatal("Failed to build UI handler", zap.Error(err))
	}

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(metrics.Middleware())
	server.Routes(r)
	r.Get("/", ui)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}

// jsonRecoverer is a recovery middleware that returns JSON instead of a plain text stacktrace.
func jsonRecoverer(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rvr := recover(); rvr != nil {
					logger.Error("panic recovered",
						zap.Any("panic", rvr),
						zap.Stack("stacktrace"),
					)
					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					_ = json.NewEncoder(w).Encode(map[string]string{
						"code":    "internal_error",
						"message": "internal error",
					})
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// wideEventMiddleware emits a canonical log line per request and propagates X-Request-ID.
func wideEventMiddleware(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			// chi.middleware.RequestID already placed request_id in context
			requestID := chiMiddleware.GetReqID(r.Context())

			// Set X-Request-ID in response header
			if requestID != "" {
				w.Header().Set("X-Request-ID", requestID)
			}

			// Per-request logger with request_id
			reqLogger := logger.With(zap.String("request_id", requestID))
			ctx := logpkg.ContextWithLogger(r.Context(), reqLogger)

			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			// Canonical log line — one line per request
			reqLogger.Info("http_request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("latency", time.Since(start)),
				zap.String("ip", r.RemoteAddr),
				zap.Int64("content_length", r.ContentLength),
				zap.String("user_agent", r.UserAgent()),
				zap.Int("response_bytes", ww.BytesWritten()),
			)
		})
	}
}
