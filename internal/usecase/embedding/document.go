package embedding

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/willianpinho/document-management-system-sub001/internal/domain"
	"github.com/willianpinho/document-management-system-sub001/internal/domain/vector"
	"github.com/willianpinho/document-management-system-sub001/internal/logger"
	"github.com/willianpinho/document-management-system-sub001/internal/text"
)

// embedClient is the subset of Client used by DocumentEmbedder.
type embedClient interface {
	domain.Embedder
	domain.BatchEmbedder
}

// DocumentEmbedding is one vector for a whole document.
type DocumentEmbedding struct {
	Embedding  []float32
	TokensUsed int
	Chunks     int
}

// DocumentEmbedder turns arbitrary-length text into a single unit-length vector.
type DocumentEmbedder struct {
	client  embedClient
	chunker *text.Chunker
	overlap int
}

// NewDocumentEmbedder creates a document embedder. Non-positive overlap uses
// text.DefaultOverlapTokens.
func NewDocumentEmbedder(client embedClient, chunker *text.Chunker, overlapTokens int) *DocumentEmbedder {
	if chunker == nil {
		chunker = text.NewChunker(nil)
	}
	if overlapTokens <= 0 {
		overlapTokens = text.DefaultOverlapTokens
	}
	return &DocumentEmbedder{client: client, chunker: chunker, overlap: overlapTokens}
}

// EmbedDocument chunks body, embeds the chunks and combines them weighted by chunk
// token count. A single chunk is embedded directly and returned as-is.
func (d *DocumentEmbedder) EmbedDocument(ctx context.Context, body string, maxChunkTokens int) (DocumentEmbedding, error) {
	if maxChunkTokens <= 0 {
		maxChunkTokens = text.DefaultMaxChunkTokens
	}

	chunks := d.chunker.Chunk(body, maxChunkTokens, d.overlap)
	if len(chunks) == 1 {
		res, err := d.client.Embed(ctx, chunks[0].Text)
		if err != nil {
			return DocumentEmbedding{}, fmt.Errorf("embed single chunk: %w", err)
		}
		return DocumentEmbedding{Embedding: res.Embedding, TokensUsed: res.TotalTokens, Chunks: 1}, nil
	}

	texts := make([]string, len(chunks))
	weights := make([]float64, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Text
		weights[i] = float64(c.TokenCount)
	}

	res, err := d.client.BatchEmbed(ctx, texts)
	if err != nil {
		return DocumentEmbedding{}, fmt.Errorf("embed %d chunks: %w", len(chunks), err)
	}

	combined, err := vector.Combine(res.Embeddings, weights)
	if err != nil {
		return DocumentEmbedding{}, fmt.Errorf("combine chunk vectors: %w", err)
	}

	logger.FromContext(ctx).Debug("document embedded",
		zap.Int("chunks", len(chunks)),
		zap.Int("total_tokens", res.TotalTokens),
	)
	return DocumentEmbedding{Embedding: combined, TokensUsed: res.TotalTokens, Chunks: len(chunks)}, nil
}
