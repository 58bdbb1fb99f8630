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

	"github.com/hireloop/talentsearch/internal/config"
	dbRedis "github.com/hireloop/talentsearch/internal/db/redis"
	"github.com/hireloop/talentsearch/internal/domain"
	"github.com/hireloop/talentsearch/internal/domain/candidate"
	"github.com/hireloop/talentsearch/internal/domain/skill"
	logpkg "github.com/hireloop/talentsearch/internal/logger"
	"github.com/hireloop/talentsearch/internal/metrics"
	candidaterepo "github.com/hireloop/talentsearch/internal/repository/candidate"
	retrievalrepo "github.com/hireloop/talentsearch/internal/repository/retrieval"
	chiTransport "github.com/hireloop/talentsearch/internal/transport/chi"
	openaiEmb "github.com/hireloop/talentsearch/internal/transport/openai"
	rerankClient "github.com/hireloop/talentsearch/internal/transport/rerank"
	healthuc "github.com/hireloop/talentsearch/internal/usecase/health"
	rankinguc "github.com/hireloop/talentsearch/internal/usecase/ranking"
	searchuc "github.com/hireloop/talentsearch/internal/usecase/search"
	"github.com/hireloop/talentsearch/internal/version"
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

	logger.Info("Starting talentsearch API server",
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.Strings("db_addrs", cfg.Database.Addrs),
		zap.Bool("reranker_enabled", cfg.Reranker.Enabled),
	)

	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.Database.Addrs,
		Password: cfg.Database.Password,
	})
	if err != nil {
		logger.Fatal("Failed to create database store", zap.Error(err))
	}
	defer store.Close()

	// Wait for database to be ready
	ctx := context.Background()
	if err := store.WaitForReady(ctx, time.Duration(cfg.Database.ReadinessTimeout)*time.Second); err != nil {
		logger.Fatal("Database not ready", zap.Error(err))
	}
	logger.Info("Connected to database")

	// Register transport metrics explicitly (no init())
	metrics.RegisterEmbeddingMetrics()
	metrics.RegisterRerankMetrics()
	metrics.RegisterSearchMetrics()

	// Skill taxonomy: embedded by default, file override for taxonomy updates
	// without a rebuild.
	tax := skill.Default()
	if cfg.Taxonomy.Path != "" {
		tax, err = skill.Load(cfg.Taxonomy.Path)
		if err != nil {
			logger.Fatal("Failed to load skill taxonomy", zap.Error(err))
		}
	}
	logger.Info("Skill taxonomy loaded", zap.String("version", tax.Version()))

	embedder := openaiEmb.NewEmbedder(&openaiEmb.Config{
		APIKey:     cfg.Embedding.APIKey,
		BaseURL:    cfg.Embedding.BaseURL,
		Model:      cfg.Embedding.Model,
		Dimensions: cfg.Embedding.Dimensions,
		Provider:   cfg.Embedding.Provider,
		Logger:     logger,
	})
	logger.Info("Embedder created",
		zap.String("provider", cfg.Embedding.Provider),
		zap.String("model", cfg.Embedding.Model),
		zap.Int("dimensions", cfg.Embedding.Dimensions),
	)

	// Repositories
	retrievalRepo := retrievalrepo.New(store, cfg.Database.KeyPrefix)
	if cfg.Database.RecreateIndex {
		logger.Warn("Recreating candidate index", zap.Int("dimensions", cfg.Embedding.Dimensions))
		if err := retrievalRepo.RecreateIndex(ctx, cfg.Embedding.Dimensions); err != nil {
			logger.Fatal("Failed to recreate candidate index", zap.Error(err))
		}
	} else if err := retrievalRepo.EnsureIndex(ctx, cfg.Embedding.Dimensions); err != nil {
		logger.Fatal("Failed to ensure candidate index", zap.Error(err))
	}
	candidateRepo := candidaterepo.New(store, cfg.Database.KeyPrefix)

	// Use case services
	rankingSvc := rankinguc.New(tax)
	searchSvc := searchuc.New(embedder, retrievalRepo, candidateRepo, rankingSvc, tax)

	var rerankChecker healthuc.DependencyChecker
	if cfg.Reranker.Enabled {
		rc := rerankClient.NewClient(&rerankClient.Config{
			BaseURL: cfg.Reranker.BaseURL,
			APIKey:  cfg.Reranker.APIKey,
			Model:   cfg.Reranker.Model,
			Timeout: time.Duration(cfg.Reranker.TimeoutSec) * time.Second,
			Logger:  logger,
		})
		searchSvc.WithReranker(rc, cfg.Reranker.TopN, cfg.Reranker.Mandatory)
		rerankChecker = rc
		logger.Info("Reranker enabled",
			zap.String("model", cfg.Reranker.Model),
			zap.Int("top_n", cfg.Reranker.TopN),
			zap.Bool("mandatory", cfg.Reranker.Mandatory),
		)
	}

	healthSvc := healthuc.New(store, newEmbeddingHealthChecker(embedder), rerankChecker)

	defaultWeights := candidate.Weights{
		SkillMatch:       cfg.Ranking.SkillMatchWeight,
		Confidence:       cfg.Ranking.ConfidenceWeight,
		VectorSimilarity: cfg.Ranking.VectorSimilarityWeight,
		ExperienceMatch:  cfg.Ranking.ExperienceWeight,
	}

	server := chiTransport.NewServer(searchSvc, tax, healthSvc, defaultWeights, logger)

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

// embeddingHealthChecker wraps domain.Embedder to implement health.DependencyChecker.
type embeddingHealthChecker struct {
	embedder domain.Embedder
}

func newEmbeddingHealthChecker(embedder domain.Embedder) *embeddingHealthChecker {
	return &embeddingHealthChecker{embedder: embedder}
}

func (h *embeddingHealthChecker) HealthCheck(ctx context.Context) error {
	if hc, ok := h.embedder.(domain.HealthChecker); ok {
		if err := hc.HealthCheck(ctx); err != nil {
			return fmt.Errorf("embedding health check: %w", err)
		}
	}
	return nil
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
