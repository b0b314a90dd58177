// Package embcache is a two-tier embedding cache: an in-process LRU in front of Valkey.
package embcache

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/willianpinho/document-management-system-sub001/internal/db"
	"github.com/willianpinho/document-management-system-sub001/internal/domain"
)

const cacheKeyPrefix = "emb:"

// Cache defaults.
const (
	DefaultLocalSize = 4096
	DefaultLocalTTL  = 10 * time.Minute
	DefaultRemoteTTL = 7 * 24 * time.Hour
)

const (
	tierLocal  = "local"
	tierRemote = "remote"
)

// Config tunes both tiers. Zero values use the defaults.
type Config struct {
	Model     string
	LocalSize int
	LocalTTL  time.Duration
	RemoteTTL time.Duration
}

// CachedEmbedder caches embeddings keyed by model and text.
// A nil store disables the remote tier.
type CachedEmbedder struct {
	inner      domain.Embedder
	store      db.KVStore
	local      *expirable.LRU[string, []float32]
	model      string
	remoteTTL  time.Duration
	cacheTotal *prometheus.CounterVec
	logger     *zap.Logger
}

// New creates a caching decorator.
// cacheTotal is a counter vec with labels "tier" and "result", passed explicitly.
func New(
	inner domain.Embedder,
	s db.KVStore,
	cfg Config,
	cacheTotal *prometheus.CounterVec,
	logger *zap.Logger,
) *CachedEmbedder {
	if cfg.LocalSize <= 0 {
		cfg.LocalSize = DefaultLocalSize
	}
	if cfg.LocalTTL <= 0 {
		cfg.LocalTTL = DefaultLocalTTL
	}
	if cfg.RemoteTTL <= 0 {
		cfg.RemoteTTL = DefaultRemoteTTL
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CachedEmbedder{
		inner:      inner,
		store:      s,
		local:      expirable.NewLRU[string, []float32](cfg.LocalSize, nil, cfg.LocalTTL),
		model:      cfg.Model,
		remoteTTL:  cfg.RemoteTTL,
		cacheTotal: cacheTotal,
		logger:     logger,
	}
}

// Embed returns a cached embedding or calls the inner embedder.
// Cache hit: TotalTokens = 0 (no real tokens consumed).
// Cache miss: full EmbeddingResult from inner.
func (c *CachedEmbedder) Embed(ctx context.Context, text string) (domain.EmbeddingResult, error) {
	key := c.cacheKey(text)

	if vec, ok := c.getLocal(key); ok {
		return domain.EmbeddingResult{Embedding: vec}, nil
	}
	if vec, ok := c.getRemote(ctx, key); ok {
		c.local.Add(key, vec)
		return domain.EmbeddingResult{Embedding: vec}, nil
	}

	result, err := c.inner.Embed(ctx, text)
	if err != nil {
		return domain.EmbeddingResult{}, fmt.Errorf("embed text: %w", err)
	}

	c.put(ctx, key, result.Embedding)
	return result, nil
}

// BatchEmbed resolves what it can from the cache and embeds only the misses in one
// call, or one Embed per miss when inner has no batch endpoint. Token counts cover
// the misses only.
func (c *CachedEmbedder) BatchEmbed(ctx context.Context, texts []string) (domain.BatchEmbeddingResult, error) {
	out := make([][]float32, len(texts))
	keys := make([]string, len(texts))

	var remoteIdx []int
	for i, t := range texts {
		keys[i] = c.cacheKey(t)
		if vec, ok := c.getLocal(keys[i]); ok {
			out[i] = vec
			continue
		}
		remoteIdx = append(remoteIdx, i)
	}

	missIdx := c.fillRemote(ctx, keys, remoteIdx, out)
	if len(missIdx) == 0 {
		return domain.BatchEmbeddingResult{Embeddings: out}, nil
	}

	missTexts := make([]string, len(missIdx))
	for j, i := range missIdx {
		missTexts[j] = texts[i]
	}

	var (
		res domain.BatchEmbeddingResult
		err error
	)
	if be, ok := c.inner.(domain.BatchEmbedder); ok {
		res, err = be.BatchEmbed(ctx, missTexts)
	} else {
		res, err = domain.BatchFallback(ctx, c.inner, missTexts)
	}
	if err != nil {
		return domain.BatchEmbeddingResult{}, fmt.Errorf("batch embed %d texts: %w", len(missTexts), err)
	}
	if len(res.Embeddings) != len(missTexts) {
		return domain.BatchEmbeddingResult{}, fmt.Errorf("batch embed: %w: got %d embeddings for %d texts",
			domain.ErrEmbeddingProvider, len(res.Embeddings), len(missTexts))
	}

	for j, i := range missIdx {
		out[i] = res.Embeddings[j]
		c.put(ctx, keys[i], res.Embeddings[j])
	}

	return domain.BatchEmbeddingResult{
		Embeddings:   out,
		PromptTokens: res.PromptTokens,
		TotalTokens:  res.TotalTokens,
	}, nil
}

// fillRemote looks up idx in one MGET, fills out and returns the indices still missing.
func (c *CachedEmbedder) fillRemote(ctx context.Context, keys []string, idx []int, out [][]float32) []int {
	if len(idx) == 0 || c.store == nil {
		c.incCache(tierRemote, "miss", len(idx))
		return idx
	}

	lookup := make([]string, len(idx))
	for j, i := range idx {
		lookup[j] = keys[i]
	}
	values, err := c.store.MGet(ctx, lookup)
	if err != nil {
		c.logger.Warn("Failed to get cached embeddings", zap.Int("keys", len(lookup)), zap.Error(err))
		c.incCache(tierRemote, "miss", len(idx))
		return idx
	}

	var missing []int
	for j, i := range idx {
		var data []byte
		if j < len(values) {
			data = values[j]
		}
		vec, ok := c.decode(keys[i], data)
		if !ok {
			missing = append(missing, i)
			continue
		}
		out[i] = vec
		c.local.Add(keys[i], vec)
	}
	c.incCache(tierRemote, "hit", len(idx)-len(missing))
	c.incCache(tierRemote, "miss", len(missing))
	return missing
}

func (c *CachedEmbedder) incCache(tier, result string, n int) {
	if c.cacheTotal != nil && n > 0 {
		c.cacheTotal.WithLabelValues(tier, result).Add(float64(n))
	}
}

func (c *CachedEmbedder) cacheKey(text string) string {
	h := sha256.Sum256([]byte(c.model + "|" + text))
	return cacheKeyPrefix + hex.EncodeToString(h[:])
}

func (c *CachedEmbedder) getLocal(key string) ([]float32, bool) {
	vec, ok := c.local.Get(key)
	if ok {
		c.incCache(tierLocal, "hit", 1)
	} else {
		c.incCache(tierLocal, "miss", 1)
	}
	return vec, ok
}

func (c *CachedEmbedder) getRemote(ctx context.Context, key string) ([]float32, bool) {
	if c.store == nil {
		c.incCache(tierRemote, "miss", 1)
		return nil, false
	}
	data, err := c.store.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, db.ErrKeyNotFound) {
			c.logger.Warn("Failed to get cached embedding", zap.String("key", key), zap.Error(err))
		}
		c.incCache(tierRemote, "miss", 1)
		return nil, false
	}
	vec, ok := c.decode(key, data)
	if ok {
		c.incCache(tierRemote, "hit", 1)
	} else {
		c.incCache(tierRemote, "miss", 1)
	}
	return vec, ok
}

func (c *CachedEmbedder) decode(key string, data []byte) ([]float32, bool) {
	if len(data) == 0 {
		return nil, false
	}
	vec, err := bytesToVector(data)
	if err != nil {
		c.logger.Warn("Failed to parse cached embedding", zap.String("key", key), zap.Error(err))
		return nil, false
	}
	return vec, true
}

func (c *CachedEmbedder) put(ctx context.Context, key string, vec []float32) {
	if len(vec) == 0 {
		return
	}
	c.local.Add(key, vec)
	if c.store == nil {
		return
	}
	if err := c.store.SetWithTTL(ctx, key, vectorToCacheBytes(vec), c.remoteTTL); err != nil {
		c.logger.Warn("Failed to cache embedding", zap.String("key", key), zap.Error(err))
	}
}

func vectorToCacheBytes(v []float32) []byte {
	buf := make([]byte, len(v)*4)
	for i, f := range v {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}

func bytesToVector(data []byte) ([]float32, error) {
	if len(data)%4 != 0 {
		return nil, fmt.Errorf("invalid embedding cache data: len=%d (not multiple of 4)", len(data))
	}
	vec := make([]float32, len(data)/4)
	for i := range vec {
		vec[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
	}
	return vec, nil
}
