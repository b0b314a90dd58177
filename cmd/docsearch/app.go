package main

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/willianpinho/document-management-system-sub001/internal/config"
	"github.com/willianpinho/document-management-system-sub001/internal/db"
	"github.com/willianpinho/document-management-system-sub001/internal/db/postgres"
	"github.com/willianpinho/document-management-system-sub001/internal/db/valkey"
	"github.com/willianpinho/document-management-system-sub001/internal/domain"
	"github.com/willianpinho/document-management-system-sub001/internal/domain/search/request"
	logpkg "github.com/willianpinho/document-management-system-sub001/internal/logger"
	"github.com/willianpinho/document-management-system-sub001/internal/metrics"
	documentrepo "github.com/willianpinho/document-management-system-sub001/internal/repository/document"
	"github.com/willianpinho/document-management-system-sub001/internal/repository/embcache"
	searchrepo "github.com/willianpinho/document-management-system-sub001/internal/repository/search"
	"github.com/willianpinho/document-management-system-sub001/internal/text"
	openaiprov "github.com/willianpinho/document-management-system-sub001/internal/transport/openai"
	embeddinguc "github.com/willianpinho/document-management-system-sub001/internal/usecase/embedding"
	healthuc "github.com/willianpinho/document-management-system-sub001/internal/usecase/health"
	indexinguc "github.com/willianpinho/document-management-system-sub001/internal/usecase/indexing"
	"github.com/willianpinho/document-management-system-sub001/internal/usecase/rerank"
	searchuc "github.com/willianpinho/document-management-system-sub001/internal/usecase/search"
)

// cacheReadyTimeout bounds the wait for the remote embedding cache at startup.
const cacheReadyTimeout = 3 * time.Second

// app is the composition root shared by every subcommand that touches storage.
type app struct {
	cfg    config.Config
	logger *zap.Logger

	pg *postgres.Store
	kv *valkey.Store

	defaults request.Defaults

	search   *searchuc.Service
	indexing *indexinguc.Service
	health   *healthuc.Service
}

func loadConfig(env string) (config.Config, *zap.Logger, error) {
	cfg, err := config.Load(env)
	if err != nil {
		return config.Config{}, nil, fmt.Errorf("load config: %w", err)
	}
	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		return config.Config{}, nil, fmt.Errorf("create logger: %w", err)
	}
	return cfg, logger, nil
}

func newApp(ctx context.Context, env string) (*app, error) {
	cfg, logger, err := loadConfig(env)
	if err != nil {
		return nil, err
	}
	a := &app{cfg: cfg, logger: logger, defaults: searchDefaults(cfg.Search)}

	a.pg, err = postgres.NewStore(ctx, postgres.Config{
		DSN:      cfg.Database.DSN,
		MaxConns: cfg.Database.MaxConns,
		MinConns: cfg.Database.MinConns,
	})
	if err != nil {
		return nil, fmt.Errorf("create postgres store: %w", err)
	}
	if err := a.pg.WaitForReady(ctx, time.Duration(cfg.Database.ReadinessTimeout)*time.Second); err != nil {
		a.Close()
		return nil, fmt.Errorf("database not ready: %w", err)
	}
	logger.Info("Connected to database")

	if cfg.Database.AutoMigrate {
		if err := postgres.Migrate(cfg.Database.DSN, postgres.Up, 0); err != nil {
			a.Close()
			return nil, fmt.Errorf("migrate: %w", err)
		}
	}

	// Register metrics explicitly (no init())
	metrics.RegisterEmbeddingMetrics()
	metrics.RegisterSearchMetrics()

	// Pass nil interfaces (not typed nil pointers) for anything not configured.
	var cache db.KVStore
	var cachePinger healthuc.Pinger
	if len(cfg.Cache.Addrs) > 0 {
		kv, err := valkey.NewStore(valkey.Config{Addrs: cfg.Cache.Addrs, Password: cfg.Cache.Password})
		if err == nil {
			if err = kv.WaitForReady(ctx, cacheReadyTimeout); err != nil {
				kv.Close()
			}
		}
		if err != nil {
			logger.Warn("Embedding cache unavailable, using local tier only", zap.Error(err))
		} else {
			a.kv, cache, cachePinger = kv, kv, kv
		}
	}

	var (
		provider    domain.Embedder
		embedHealth healthuc.ProviderChecker
	)
	if cfg.Embedding.APIKey != "" {
		base := openaiprov.NewEmbedder(&openaiprov.Config{
			APIKey:     cfg.Embedding.APIKey,
			BaseURL:    cfg.Embedding.BaseURL,
			Model:      cfg.Embedding.Model,
			Dimensions: cfg.Embedding.Dimensions,
			Provider:   "openai",
			Logger:     logger,
		})
		provider = embcache.New(base, cache, embcache.Config{
			Model:     cfg.Embedding.Model,
			LocalSize: cfg.Cache.LocalSize,
			LocalTTL:  time.Duration(cfg.Cache.LocalTTL) * time.Second,
			RemoteTTL: time.Duration(cfg.Cache.TTLSec) * time.Second,
		}, metrics.EmbeddingCacheTotal, logger)
		embedHealth = base
	} else {
		logger.Warn("No embedding api key configured, semantic search falls back to text")
	}

	client := embeddinguc.NewClient(provider, text.NewHeuristicEstimator(), embeddinguc.Config{
		Model:             cfg.Embedding.Model,
		MaxInputTokens:    cfg.Embedding.MaxInputTokens,
		MaxBatchSize:      cfg.Embedding.MaxBatchSize,
		Timeout:           time.Duration(cfg.Embedding.TimeoutSec) * time.Second,
		RequestsPerSecond: cfg.Embedding.RequestsPerSecond,
	})

	var (
		completer domain.Completer
		llmHealth healthuc.ProviderChecker
	)
	if cfg.LLM.APIKey != "" && cfg.Search.RerankEnabled {
		c := openaiprov.NewCompleter(&openaiprov.CompleterConfig{
			APIKey:    cfg.LLM.APIKey,
			BaseURL:   cfg.LLM.BaseURL,
			Model:     cfg.LLM.Model,
			MaxTokens: cfg.LLM.MaxTokens,
			Logger:    logger,
		})
		completer, llmHealth = c, c
	}
	reranker := rerank.New(completer, rerank.Config{
		TopN:    cfg.Search.RerankTopN,
		Timeout: time.Duration(cfg.LLM.TimeoutSec) * time.Second,
	})

	docs := documentrepo.New(a.pg.Pool())
	vectors := searchrepo.New(a.pg.Pool())

	a.search = searchuc.New(docs, vectors, client, reranker, searchuc.Config{
		RRFK:            cfg.Search.RRFK,
		VectorTimeout:   time.Duration(cfg.Search.VectorTimeoutSec) * time.Second,
		SuggestionLimit: cfg.Search.SuggestionLimit,
	})

	chunker := text.NewChunker(text.NewHeuristicEstimator())
	docEmbedder := embeddinguc.NewDocumentEmbedder(client, chunker, cfg.Embedding.OverlapTokens)
	a.indexing = indexinguc.New(docs, docEmbedder, vectors, client.Model(), cfg.Embedding.MaxChunkTokens)

	a.health = healthuc.New(healthuc.Deps{
		DB:        a.pg,
		Cache:     cachePinger,
		Embedding: embedHealth,
		LLM:       llmHealth,
	}, healthuc.DefaultCheckTimeout)

	logger.Info("Search pipeline ready",
		zap.Bool("semantic", client.IsAvailable()),
		zap.Bool("rerank", reranker.IsAvailable()),
		zap.Bool("remote_cache", cache != nil),
		zap.String("embedding_model", client.Model()),
	)
	return a, nil
}

// searchDefaults maps the search config onto request defaults.
func searchDefaults(c config.SearchConfig) request.Defaults {
	return request.Defaults{
		Limit:          c.DefaultLimit,
		MaxLimit:       c.MaxLimit,
		Threshold:      c.DefaultThreshold,
		TextWeight:     c.TextWeight,
		SemanticWeight: c.SemanticWeight,
	}
}

// Close releases the stores and flushes the logger.
func (a *app) Close() {
	if a.kv != nil {
		a.kv.Close()
	}
	if a.pg != nil {
		a.pg.Close()
	}
	_ = a.logger.Sync()
}
