package search

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/willianpinho/document-management-system-sub001/internal/domain/search/algorithm"
	"github.com/willianpinho/document-management-system-sub001/internal/domain/search/request"
	"github.com/willianpinho/document-management-system-sub001/internal/domain/search/result"
	"github.com/willianpinho/document-management-system-sub001/internal/domain/search/suggestion"
	"github.com/willianpinho/document-management-system-sub001/internal/logger"
	"github.com/willianpinho/document-management-system-sub001/internal/metrics"
)

// Service defaults.
const (
	// candidateFactor widens the semantic fetch to leave reranking headroom.
	candidateFactor        = 2
	DefaultVectorTimeout   = 5 * time.Second
	DefaultSuggestionLimit = 10
	MaxSuggestionLimit     = 50
)

// Fallback reasons.
const (
	reasonUnavailable    = "unavailable"
	reasonEmbeddingError = "embedding_error"
	reasonVectorError    = "vector_error"
)

// Config tunes the orchestrator. Zero values use the defaults.
type Config struct {
	RRFK            int
	VectorTimeout   time.Duration
	SuggestionLimit int
}

// Service orchestrates lexical, semantic and hybrid document search.
type Service struct {
	lexical  LexicalSearcher
	semantic SemanticSearcher
	embed    Embedder
	rerank   Reranker

	rrfK            int
	vectorTimeout   time.Duration
	suggestionLimit int
}

// New creates a search service. rerank may be nil.
func New(lexical LexicalSearcher, semantic SemanticSearcher, embed Embedder, rerank Reranker, cfg Config) *Service {
	if cfg.RRFK <= 0 {
		cfg.RRFK = DefaultRRFK
	}
	if cfg.VectorTimeout <= 0 {
		cfg.VectorTimeout = DefaultVectorTimeout
	}
	if cfg.SuggestionLimit <= 0 {
		cfg.SuggestionLimit = DefaultSuggestionLimit
	}
	return &Service{
		lexical:         lexical,
		semantic:        semantic,
		embed:           embed,
		rerank:          rerank,
		rrfK:            cfg.RRFK,
		vectorTimeout:   cfg.VectorTimeout,
		suggestionLimit: cfg.SuggestionLimit,
	}
}

// Search runs lexical search only.
func (s *Service) Search(ctx context.Context, req *request.Request) (result.Response, error) {
	start := time.Now()

	page, err := s.lexical.Search(ctx, req, req.Offset(), req.Limit())
	if err != nil {
		return result.Response{}, fmt.Errorf("lexical search: %w", err)
	}

	return s.respond(req, algorithm.Text, page.Items, page.Total, start, nil), nil
}

// SemanticSearch embeds the query and searches by vector similarity. Unavailable or
// failing embedding and vector infrastructure degrades to lexical search.
func (s *Service) SemanticSearch(ctx context.Context, req *request.Request) (result.Response, error) {
	start := time.Now()

	if !s.embed.IsAvailable() {
		return s.fallback(ctx, req, start, reasonUnavailable, nil)
	}

	candidates, reason, err := s.semanticCandidates(ctx, req, s.window(req))
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return result.Response{}, ctxErr
		}
		return s.fallback(ctx, req, start, reason, err)
	}

	candidates, reranked := s.maybeRerank(ctx, req, candidates)

	resp := s.respond(req, algorithm.Semantic,
		result.Paginate(candidates, req.Offset(), req.Limit()), len(candidates), start, &reranked)
	resp.Meta.Threshold = result.Float(req.Threshold())
	return resp, nil
}

// HybridSearch runs lexical and semantic search concurrently and fuses them with
// weighted RRF. Either branch may fail alone; both failing is an error.
func (s *Service) HybridSearch(ctx context.Context, req *request.Request) (result.Response, error) {
	start := time.Now()
	window := s.window(req)
	available := s.embed.IsAvailable()

	var (
		textPage             result.Page
		semantic             []result.Result
		textErr, semanticErr error
		g                    errgroup.Group
	)

	g.Go(func() error {
		textPage, textErr = s.lexical.Search(ctx, req, 0, window)
		return nil
	})
	g.Go(func() error {
		if !available {
			return nil
		}
		var reason string
		semantic, reason, semanticErr = s.semanticCandidates(ctx, req, window)
		if semanticErr != nil && ctx.Err() == nil {
			metrics.SearchFallbacksTotal.WithLabelValues(reason).Inc()
			logger.FromContext(ctx).Warn("Hybrid semantic branch failed, using lexical results only",
				zap.String("reason", reason), zap.Error(semanticErr))
		}
		return nil
	})
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return result.Response{}, err
	}
	if !available {
		metrics.SearchFallbacksTotal.WithLabelValues(reasonUnavailable).Inc()
	}
	if textErr != nil {
		if !available || semanticErr != nil {
			return result.Response{}, fmt.Errorf("lexical search: %w", textErr)
		}
		logger.FromContext(ctx).Warn("Hybrid lexical branch failed, using semantic results only", zap.Error(textErr))
	}

	fused := Fuse(textPage.Items, semantic, req.TextWeight(), req.SemanticWeight(), s.rrfK)
	fused, reranked := s.maybeRerank(ctx, req, fused)

	resp := s.respond(req, algorithm.Hybrid,
		result.Paginate(fused, req.Offset(), req.Limit()), len(fused), start, &reranked)
	resp.Meta.TextWeight = result.Float(req.TextWeight())
	resp.Meta.SemanticWeight = result.Float(req.SemanticWeight())
	return resp, nil
}

// Suggest returns up to limit name completions for prefix, best match first.
// Prefixes shorter than two characters return nothing without touching storage.
func (s *Service) Suggest(
	ctx context.Context, organizationID, prefix string, scope suggestion.Scope, limit int,
) ([]suggestion.Suggestion, error) {
	prefix = strings.TrimSpace(prefix)
	if utf8.RuneCountInString(prefix) < suggestion.MinPrefixLength {
		return []suggestion.Suggestion{}, nil
	}
	if limit <= 0 {
		limit = s.suggestionLimit
	}
	limit = min(limit, MaxSuggestionLimit)

	candidates, err := s.lexical.SuggestCandidates(ctx, organizationID, prefix, scope, limit)
	if err != nil {
		return nil, fmt.Errorf("suggest candidates: %w", err)
	}

	out := candidates.Suggestions(prefix)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].MatchScore > out[j].MatchScore
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// window is how many ranked candidates the semantic and hybrid paths fetch: every
// page up to the requested one, doubled for reranking headroom.
func (s *Service) window(req *request.Request) int {
	return min(req.Page()*req.Limit(), request.MaxWindow) * candidateFactor
}

// semanticCandidates embeds the query and runs the vector search. On failure it
// also returns the fallback reason.
func (s *Service) semanticCandidates(
	ctx context.Context, req *request.Request, topK int,
) ([]result.Result, string, error) {
	emb, err := s.embed.Embed(ctx, req.Query())
	if err != nil {
		return nil, reasonEmbeddingError, fmt.Errorf("vectorize query: %w", err)
	}

	vctx, cancel := context.WithTimeout(ctx, s.vectorTimeout)
	defer cancel()

	results, err := s.semantic.SearchKNN(vctx, req.OrganizationID(), emb.Embedding, req.Filters(), topK, req.Threshold())
	if err != nil {
		return nil, reasonVectorError, fmt.Errorf("search knn: %w", err)
	}
	return results, "", nil
}

func (s *Service) fallback(
	ctx context.Context, req *request.Request, start time.Time, reason string, cause error,
) (result.Response, error) {
	metrics.SearchFallbacksTotal.WithLabelValues(reason).Inc()
	if cause != nil {
		logger.FromContext(ctx).Warn("Semantic search failed, falling back to lexical search",
			zap.String("reason", reason), zap.Error(cause))
	}

	page, err := s.lexical.Search(ctx, req, req.Offset(), req.Limit())
	if err != nil {
		return result.Response{}, errors.Join(fmt.Errorf("lexical fallback: %w", err), cause)
	}
	return s.respond(req, algorithm.TextFallback, page.Items, page.Total, start, nil), nil
}

func (s *Service) maybeRerank(ctx context.Context, req *request.Request, results []result.Result) ([]result.Result, bool) {
	if !req.Rerank() || s.rerank == nil || !s.rerank.IsAvailable() {
		return results, false
	}
	return s.rerank.Rerank(ctx, req.Query(), results)
}

func (s *Service) respond(
	req *request.Request, alg algorithm.Algorithm, items []result.Result, total int, start time.Time, reranked *bool,
) result.Response {
	took := time.Since(start)
	metrics.SearchRequestsTotal.WithLabelValues(string(alg)).Inc()
	metrics.SearchDuration.WithLabelValues(string(alg)).Observe(took.Seconds())

	if items == nil {
		items = []result.Result{}
	}
	return result.Response{
		Results: items,
		Meta: result.Meta{
			Query:      req.Query(),
			Algorithm:  alg,
			Total:      total,
			Page:       req.Page(),
			Limit:      req.Limit(),
			TotalPages: result.TotalPages(total, req.Limit()),
			Took:       took,
			Reranked:   reranked,
		},
	}
}
