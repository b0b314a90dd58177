package indexing

import (
	"context"

	"github.com/willianpinho/document-management-system-sub001/internal/domain"
	"github.com/willianpinho/document-management-system-sub001/internal/usecase/embedding"
)

// TextReader loads a document's extracted text.
type TextReader interface {
	Text(ctx context.Context, organizationID, documentID string) (string, error)
}

// DocumentEmbedder turns a document body into one vector.
type DocumentEmbedder interface {
	EmbedDocument(ctx context.Context, body string, maxChunkTokens int) (embedding.DocumentEmbedding, error)
}

// EmbeddingWriter persists document vectors.
type EmbeddingWriter interface {
	Upsert(ctx context.Context, e domain.StoredEmbedding) error
}
