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

	"go.uber.org/zap"

	"github.com/kailas-cloud/tutorrag/internal/config"
	dbredis "github.com/kailas-cloud/tutorrag/internal/db/redis"
	"github.com/kailas-cloud/tutorrag/internal/embedding"
	"github.com/kailas-cloud/tutorrag/internal/logger"
	"github.com/kailas-cloud/tutorrag/internal/metrics"
	"github.com/kailas-cloud/tutorrag/internal/store"
	storememory "github.com/kailas-cloud/tutorrag/internal/store/memory"
	storeredis "github.com/kailas-cloud/tutorrag/internal/store/redis"
	transportchi "github.com/kailas-cloud/tutorrag/internal/transport/chi"
	"github.com/kailas-cloud/tutorrag/internal/transport/openai"
	"github.com/kailas-cloud/tutorrag/internal/usecase/generation"
	"github.com/kailas-cloud/tutorrag/internal/usecase/grading"
	"github.com/kailas-cloud/tutorrag/internal/usecase/pipeline"
	"github.com/kailas-cloud/tutorrag/internal/usecase/retrieval"
	"github.com/kailas-cloud/tutorrag/internal/version"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "tutorrag: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	env := config.GetEnv()
	cfg, err := config.Load(env)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := logger.New(env, cfg.Logging.Level)
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	log.Info("Starting tutorrag",
		zap.String("env", env),
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("driver", cfg.Database.Driver))

	metrics.RegisterEmbeddingMetrics()
	metrics.RegisterPipelineMetrics()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Embedding chain: provider, optionally fronted by the Redis cache.
	provider := openai.NewEmbedder(&openai.EmbedderConfig{
		APIKey:     cfg.Embedding.APIKey,
		BaseURL:    cfg.Embedding.BaseURL,
		Model:      cfg.Embedding.Model,
		Dimensions: cfg.Embedding.Dimensions,
		Timeout:    time.Duration(cfg.Embedding.TimeoutSec) * time.Second,
		Logger:     log,
	})

	var documentStore store.Store

	if cfg.Database.Driver == "redis" {
		redisStore, closeFn, err := buildRedisStore(ctx, cfg, provider, log)
		if err != nil {
			// Degraded mode: serve from the in-memory store rather
			// than refusing to start.
			log.Warn("Redis document store unavailable, falling back to the in-memory store", zap.Error(err))
		} else {
			defer closeFn()
			documentStore = redisStore
		}
	}

	if documentStore == nil {
		log.Warn("Using the in-memory document store; contents will not survive a restart")
		documentStore, err = storememory.New(embedding.New(provider), log)
		if err != nil {
			return fmt.Errorf("create memory document store: %w", err)
		}
	}

	// The generative model is optional: without an API key the pipeline
	// answers from the extractive fallback and grading degrades.
	var model *openai.Generator
	if cfg.Generation.APIKey != "" {
		model = openai.NewGenerator(&openai.GeneratorConfig{
			APIKey:  cfg.Generation.APIKey,
			BaseURL: cfg.Generation.BaseURL,
			Model:   cfg.Generation.Model,
			Timeout: time.Duration(cfg.Generation.TimeoutSec) * time.Second,
			Logger:  log,
		})
	} else {
		log.Warn("No generation API key configured; answers will use the extractive fallback")
	}

	retrievalSvc := retrieval.New(documentStore, log)

	var generationModel generation.ModelClient
	var gradingModel grading.ModelClient
	if model != nil {
		generationModel = model
		gradingModel = model
	}
	generationSvc := generation.New(generationModel, cfg.Generation.SystemPrompt, log)

	var gradingRetriever grading.Retriever
	if cfg.Grading.RetrieveContext {
		gradingRetriever = retrievalSvc
	}
	gradingSvc := grading.New(gradingModel, gradingRetriever, log)

	pipelineSvc := pipeline.New(retrievalSvc, generationSvc, gradingSvc, documentStore, cfg.Retrieval.TopK, log)

	server := transportchi.NewServer(pipelineSvc, log)

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.HTTP.Port),
		Handler:      server.Routes(),
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("HTTP server listening", zap.String("addr", httpServer.Addr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	log.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	return nil
}

// buildRedisStore connects to Redis, waits for readiness and creates the
// document store, optionally fronting the embedder with the Redis cache.
func buildRedisStore(ctx context.Context, cfg config.Config, provider *openai.Embedder, log *zap.Logger) (store.Store, func(), error) {
	backend, err := dbredis.NewStore(dbredis.Config{
		Addrs:    cfg.Database.Addrs,
		Password: cfg.Database.Password,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("create redis client: %w", err)
	}

	readiness := time.Duration(cfg.Database.ReadinessTimeout) * time.Second
	if err := backend.WaitForReady(ctx, readiness); err != nil {
		backend.Close()
		return nil, nil, fmt.Errorf("redis not ready: %w", err)
	}

	embedSvc := embedding.New(provider)
	if cfg.Embedding.Cache {
		cached := embedding.NewCachedEmbedder(provider, backend, cfg.Storage.KeyPrefix, metrics.EmbeddingCacheTotal, log)
		embedSvc = embedding.New(cached)
	}

	redisStore, err := storeredis.New(ctx, backend, embedSvc, cfg.Storage.KeyPrefix, cfg.Embedding.Dimensions, log)
	if err != nil {
		backend.Close()
		return nil, nil, fmt.Errorf("create redis document store: %w", err)
	}

	return redisStore, backend.Close, nil
}
