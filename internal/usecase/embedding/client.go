package embedding

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/willianpinho/document-management-system-sub001/internal/domain"
	"github.com/willianpinho/document-management-system-sub001/internal/logger"
	"github.com/willianpinho/document-management-system-sub001/internal/metrics"
	"github.com/willianpinho/document-management-system-sub001/internal/text"
)

// EmptyPlaceholder stands in for blank batch inputs; providers reject empty strings.
const EmptyPlaceholder = "[empty]"

// DefaultTimeout bounds a single provider call when Config.Timeout is unset.
const DefaultTimeout = 30 * time.Second

// Config holds client limits. Zero values fall back to domain.DefaultVectorConfig.
type Config struct {
	Model             string
	MaxInputTokens    int
	MaxBatchSize      int
	Timeout           time.Duration
	RequestsPerSecond float64
}

// Client is the embedding entry point for the pipeline. It trims and truncates
// inputs, splits batches to the provider limit, bounds every call with a timeout
// and records token usage on the request context.
type Client struct {
	inner          domain.Embedder
	estimator      text.TokenEstimator
	model          string
	maxInputTokens int
	maxBatchSize   int
	timeout        time.Duration
	limiter        *rate.Limiter
}

// NewClient wraps inner. A nil inner yields a client that reports IsAvailable() == false.
func NewClient(inner domain.Embedder, estimator text.TokenEstimator, cfg Config) *Client {
	def := domain.DefaultVectorConfig()
	if cfg.Model == "" {
		cfg.Model = def.Model
	}
	if cfg.MaxInputTokens <= 0 {
		cfg.MaxInputTokens = def.MaxInputTokens
	}
	if cfg.MaxBatchSize <= 0 {
		cfg.MaxBatchSize = def.MaxBatchSize
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if estimator == nil {
		estimator = text.NewHeuristicEstimator()
	}

	limiter := rate.NewLimiter(rate.Inf, 0)
	if cfg.RequestsPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), max(1, int(cfg.RequestsPerSecond)))
	}

	return &Client{
		inner:          inner,
		estimator:      estimator,
		model:          cfg.Model,
		maxInputTokens: cfg.MaxInputTokens,
		maxBatchSize:   cfg.MaxBatchSize,
		timeout:        cfg.Timeout,
		limiter:        limiter,
	}
}

// IsAvailable reports whether a provider credential is configured.
func (c *Client) IsAvailable() bool { return c != nil && c.inner != nil }

// Model returns the embedding model name.
func (c *Client) Model() string { return c.model }

// Embed vectorizes one text. Blank input fails with domain.ErrEmptyInput.
func (c *Client) Embed(ctx context.Context, input string) (domain.EmbeddingResult, error) {
	if !c.IsAvailable() {
		return domain.EmbeddingResult{}, domain.ErrEmbeddingUnavailable
	}
	input = strings.TrimSpace(input)
	if input == "" {
		return domain.EmbeddingResult{}, domain.ErrEmptyInput
	}
	input = c.truncate(ctx, input)

	if err := c.limiter.Wait(ctx); err != nil {
		return domain.EmbeddingResult{}, fmt.Errorf("rate limit wait: %w", err)
	}
	callCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	res, err := c.inner.Embed(callCtx, input)
	if err != nil {
		return domain.EmbeddingResult{}, fmt.Errorf("embed: %w", err)
	}
	domain.UsageFromContext(ctx).AddTokens(res.TotalTokens)
	return res, nil
}

// BatchEmbed vectorizes texts in submission order, in sub-batches of at most
// MaxBatchSize. Any failed sub-batch aborts the whole call.
func (c *Client) BatchEmbed(ctx context.Context, texts []string) (domain.BatchEmbeddingResult, error) {
	if !c.IsAvailable() {
		return domain.BatchEmbeddingResult{}, domain.ErrEmbeddingUnavailable
	}
	if len(texts) == 0 {
		return domain.BatchEmbeddingResult{}, nil
	}

	inputs := make([]string, len(texts))
	for i, t := range texts {
		t = strings.TrimSpace(t)
		if t == "" {
			t = EmptyPlaceholder
		}
		inputs[i] = c.truncate(ctx, t)
	}

	start := time.Now()
	out := domain.BatchEmbeddingResult{Embeddings: make([][]float32, 0, len(inputs))}

	for offset := 0; offset < len(inputs); offset += c.maxBatchSize {
		end := min(offset+c.maxBatchSize, len(inputs))
		sub := inputs[offset:end]

		res, err := c.embedSubBatch(ctx, sub)
		if err != nil {
			logger.FromContext(ctx).Warn("batch embedding failed",
				zap.String("model", c.model),
				zap.Int("chunk_offset", offset),
				zap.Int("chunk_size", len(sub)),
				zap.Error(err),
			)
			return domain.BatchEmbeddingResult{}, fmt.Errorf("batch embed [%d:%d]: %w", offset, end, err)
		}
		if len(res.Embeddings) != len(sub) {
			return domain.BatchEmbeddingResult{}, fmt.Errorf("batch embed [%d:%d]: got %d vectors: %w",
				offset, end, len(res.Embeddings), domain.ErrEmbeddingProvider)
		}

		out.Embeddings = append(out.Embeddings, res.Embeddings...)
		out.PromptTokens += res.PromptTokens
		out.TotalTokens += res.TotalTokens
	}

	domain.UsageFromContext(ctx).AddTokens(out.TotalTokens)
	logger.FromContext(ctx).Debug("batch embedding completed",
		zap.String("model", c.model),
		zap.Int("batch_size", len(inputs)),
		zap.Int("total_tokens", out.TotalTokens),
		zap.Duration("duration", time.Since(start)),
	)
	return out, nil
}

func (c *Client) embedSubBatch(ctx context.Context, texts []string) (domain.BatchEmbeddingResult, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return domain.BatchEmbeddingResult{}, fmt.Errorf("rate limit wait: %w", err)
	}
	callCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	if be, ok := c.inner.(domain.BatchEmbedder); ok {
		return be.BatchEmbed(callCtx, texts) //nolint:wrapcheck // wrapped by caller
	}
	return domain.BatchFallback(callCtx, c.inner, texts)
}

func (c *Client) truncate(ctx context.Context, input string) string {
	if c.estimator.EstimateTokens(input) <= c.maxInputTokens {
		return input
	}
	metrics.EmbeddingTruncationsTotal.Inc()
	logger.FromContext(ctx).Debug("embedding input truncated",
		zap.Int("max_tokens", c.maxInputTokens),
		zap.Int("chars", len(input)),
	)
	return text.Truncate(input, c.maxInputTokens)
}
