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
	"go.uber.org/zap"

	"github.com/ayo-labs/copilot/internal/config"
	"github.com/ayo-labs/copilot/internal/db/postgres"
	dbRedis "github.com/ayo-labs/copilot/internal/db/redis"
	"github.com/ayo-labs/copilot/internal/domain"
	logpkg "github.com/ayo-labs/copilot/internal/logger"
	"github.com/ayo-labs/copilot/internal/metrics"
	"github.com/ayo-labs/copilot/internal/quotes"
	brandrepo "github.com/ayo-labs/copilot/internal/repository/brand"
	contentrepo "github.com/ayo-labs/copilot/internal/repository/content"
	"github.com/ayo-labs/copilot/internal/repository/embcache"
	eventrepo "github.com/ayo-labs/copilot/internal/repository/event"
	usagerepo "github.com/ayo-labs/copilot/internal/repository/usage"
	"github.com/ayo-labs/copilot/internal/social"
	chiTransport "github.com/ayo-labs/copilot/internal/transport/chi"
	openaiTransport "github.com/ayo-labs/copilot/internal/transport/openai"
	brandsuc "github.com/ayo-labs/copilot/internal/usecase/brands"
	detectuc "github.com/ayo-labs/copilot/internal/usecase/detect"
	explainuc "github.com/ayo-labs/copilot/internal/usecase/explain"
	healthuc "github.com/ayo-labs/copilot/internal/usecase/health"
	retrieveuc "github.com/ayo-labs/copilot/internal/usecase/retrieve"
	"github.com/ayo-labs/copilot/internal/version"
)

func main() {
	// Load configuration based on ENV
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

	logger.Info("Starting copilot API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
	)

	store, err := postgres.NewStore(postgres.Config{
		DSN:          cfg.Database.DSN,
		MaxOpenConns: cfg.Database.MaxOpenConns,
		MaxIdleConns: cfg.Database.MaxIdleConns,
	})
	if err != nil {
		logger.Fatal("Failed to open database", zap.Error(err))
	}
	defer store.Close()

	ctx := context.Background()
	if err := store.WaitForReady(ctx, time.Duration(cfg.Database.ReadinessTimeout)*time.Second); err != nil {
		logger.Fatal("Database not ready", zap.Error(err))
	}
	logger.Info("Connected to database")

	// Register metrics explicitly (no init())
	metrics.RegisterEmbeddingMetrics()
	metrics.RegisterLLMMetrics()

	// Embedder chain: OpenAI base, optionally wrapped by the Redis cache.
	baseEmbedder := openaiTransport.NewEmbedder(&openaiTransport.EmbedderConfig{
		APIKey:     cfg.Embedding.APIKey,
		BaseURL:    cfg.Embedding.BaseURL,
		Model:      cfg.Embedding.Model,
		Dimensions: cfg.Embedding.Dimensions,
		Timeout:    time.Duration(cfg.Embedding.TimeoutSec) * time.Second,
		Logger:     logger,
	})

	var embedder domain.Embedder = baseEmbedder
	if len(cfg.Cache.Addrs) > 0 {
		cacheStore, err := dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.Cache.Addrs,
			Password: cfg.Cache.Password,
		})
		if err != nil {
			logger.Fatal("Failed to create embedding cache store", zap.Error(err))
		}
		defer cacheStore.Close()

		ttl := time.Duration(cfg.Cache.TTLHours) * time.Hour
		embedder = embcache.New(baseEmbedder, cacheStore, ttl, metrics.EmbeddingCacheTotal, logger)
		logger.Info("Embedding cache enabled", zap.Strings("addrs", cfg.Cache.Addrs))
	}

	completer := openaiTransport.NewCompleter(&openaiTransport.CompleterConfig{
		APIKey:      cfg.LLM.APIKey,
		BaseURL:     cfg.LLM.BaseURL,
		Model:       cfg.LLM.Model,
		MaxTokens:   cfg.LLM.MaxTokens,
		Temperature: cfg.LLM.Temperature,
		Timeout:     time.Duration(cfg.LLM.TimeoutSec) * time.Second,
		Logger:      logger,
	})

	// Repositories
	db := store.DB()
	contentRepo := contentrepo.New(db)
	brandRepo := brandrepo.New(db)
	eventRepo := eventrepo.New(db)
	usageRepo := usagerepo.New(db)

	// Quote provider: deterministic synthetic series behind a TTL cache.
	quoteProvider := quotes.NewCached(
		quotes.NewSynthetic(nil),
		time.Duration(cfg.Quotes.CacheTTLMin)*time.Minute,
		cfg.Quotes.CacheMaxEntries,
		nil,
	)

	// Social signals: same shape, longer TTL.
	socialProvider := social.NewCached(
		social.NewSynthetic(nil),
		time.Duration(cfg.Social.CacheTTLMin)*time.Minute,
		cfg.Social.CacheMaxEntries,
		nil,
	)

	// Use case services
	detectSvc := detectuc.New(brandRepo)
	retrieveSvc := retrieveuc.New(
		embedder, contentRepo,
		time.Duration(cfg.Retrieval.SearchTimeoutSec)*time.Second,
	)
	explainSvc := explainuc.New(
		detectSvc, retrieveSvc, completer, usageRepo,
		retrievalOptions(cfg.Retrieval), nil,
	)
	brandsSvc := brandsuc.New(brandRepo, quoteProvider, eventRepo, socialProvider, nil)
	healthSvc := healthuc.New(store, baseEmbedder)

	server := chiTransport.NewServer(explainSvc, brandsSvc, healthSvc, logger)

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(chiTransport.BearerAuthMiddleware(cfg.Auth.APIKeys))
	r.Use(metrics.Middleware())
	server.Routes(r)

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

func retrievalOptions(cfg config.RetrievalConfig) domain.RetrievalOptions {
	return domain.RetrievalOptions{
		Glossary:  domain.CategoryParams{Threshold: cfg.Glossary.Threshold, Limit: cfg.Glossary.Limit},
		Patterns:  domain.CategoryParams{Threshold: cfg.Patterns.Threshold, Limit: cfg.Patterns.Limit},
		Playbooks: domain.CategoryParams{Threshold: cfg.Playbooks.Threshold, Limit: cfg.Playbooks.Limit},
		Brand:     domain.CategoryParams{Threshold: cfg.Brand.Threshold, Limit: cfg.Brand.Limit},
	}
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
					_ = json.NewEncoder(w).Encode(map[string]any{
						"success": false,
						"error":   "internal error",
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
