// Package rerank reorders the head of a ranked list with an LLM relevance judgment.
package rerank

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode"

	"go.uber.org/zap"

	"github.com/willianpinho/document-management-system-sub001/internal/domain"
	"github.com/willianpinho/document-management-system-sub001/internal/domain/search/result"
	"github.com/willianpinho/document-management-system-sub001/internal/logger"
	"github.com/willianpinho/document-management-system-sub001/internal/metrics"
)

// Reranker defaults.
const (
	DefaultTopN    = 20
	DefaultTimeout = 10 * time.Second
)

// snippetLimit bounds the snippet text sent per candidate.
const snippetLimit = 300

// Config tunes the reranker. Zero values use the defaults.
type Config struct {
	TopN    int
	Timeout time.Duration
}

// Reranker asks a completion provider for a relevance permutation of the top candidates.
// A nil completer disables it.
type Reranker struct {
	llm     domain.Completer
	topN    int
	timeout time.Duration
}

// New creates a reranker.
func New(llm domain.Completer, cfg Config) *Reranker {
	if cfg.TopN <= 0 {
		cfg.TopN = DefaultTopN
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	return &Reranker{llm: llm, topN: cfg.TopN, timeout: cfg.Timeout}
}

// IsAvailable reports whether a completion provider is configured.
func (r *Reranker) IsAvailable() bool {
	return r != nil && r.llm != nil
}

// Rerank returns results reordered by the LLM and whether any reordering was applied.
// Failures of any kind return the input order.
func (r *Reranker) Rerank(ctx context.Context, query string, results []result.Result) ([]result.Result, bool) {
	if !r.IsAvailable() || len(results) < 2 {
		metrics.RerankTotal.WithLabelValues("skipped").Inc()
		return results, false
	}

	head := results[:min(r.topN, len(results))]

	callCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	reply, err := r.llm.Complete(callCtx, buildPrompt(query, head))
	if err != nil {
		logger.FromContext(ctx).Warn("Rerank failed, keeping original order",
			zap.Int("candidates", len(head)), zap.Error(err))
		metrics.RerankTotal.WithLabelValues("fallback").Inc()
		return results, false
	}

	order := parseOrder(reply, len(head))
	if len(order) == 0 {
		logger.FromContext(ctx).Warn("Rerank reply had no usable indices, keeping original order",
			zap.String("reply", truncateReply(reply)))
		metrics.RerankTotal.WithLabelValues("fallback").Inc()
		return results, false
	}

	metrics.RerankTotal.WithLabelValues("reranked").Inc()
	return apply(results, head, order), true
}

// apply places ranked candidates first, then unranked head candidates, then the tail.
func apply(results, head []result.Result, order []int) []result.Result {
	out := make([]result.Result, 0, len(results))
	placed := make([]bool, len(head))

	for pos, idx := range order {
		res := head[idx]
		res.RerankScore = result.Float(1 - float64(pos)/float64(len(order)))
		out = append(out, res)
		placed[idx] = true
	}
	for i, res := range head {
		if !placed[i] {
			out = append(out, res)
		}
	}
	return append(out, results[len(head):]...)
}

// parseOrder extracts distinct in-range indices in reply order.
func parseOrder(reply string, n int) []int {
	fields := strings.FieldsFunc(reply, func(r rune) bool {
		return r == ',' || unicode.IsSpace(r)
	})

	seen := make(map[int]bool, n)
	var order []int
	for _, f := range fields {
		idx, err := strconv.Atoi(strings.Trim(f, "[]()."))
		if err != nil || idx < 0 || idx >= n || seen[idx] {
			continue
		}
		seen[idx] = true
		order = append(order, idx)
	}
	return order
}

func buildPrompt(query string, head []result.Result) string {
	var sb strings.Builder
	sb.WriteString("Rank the following documents by relevance to the search query.\n")
	fmt.Fprintf(&sb, "Query: %q\n\nDocuments:\n", query)
	for i, res := range head {
		snippet := res.Snippet
		if r := []rune(snippet); len(r) > snippetLimit {
			snippet = string(r[:snippetLimit])
		}
		fmt.Fprintf(&sb, "[%d] %s: %s\n", i, res.Name, snippet)
	}
	sb.WriteString("\nReturn only the document indices from most to least relevant, ")
	sb.WriteString("as a comma-separated list (for example: 2,0,1). No other text.")
	return sb.String()
}

func truncateReply(s string) string {
	if r := []rune(s); len(r) > 200 {
		return string(r[:200])
	}
	return s
}
