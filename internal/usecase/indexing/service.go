// Package indexing embeds stored documents and persists their vectors.
package indexing

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/willianpinho/document-management-system-sub001/internal/domain"
	"github.com/willianpinho/document-management-system-sub001/internal/logger"
	"github.com/willianpinho/document-management-system-sub001/internal/text"
)

// Result describes one indexed document.
type Result struct {
	DocumentID string
	Model      string
	Dimensions int
	TokensUsed int
	Chunks     int
}

// Service handles document embedding.
type Service struct {
	docs           TextReader
	embedder       DocumentEmbedder
	writer         EmbeddingWriter
	model          string
	maxChunkTokens int
}

// New creates an indexing service. Non-positive maxChunkTokens uses text.DefaultMaxChunkTokens.
func New(docs TextReader, embedder DocumentEmbedder, writer EmbeddingWriter, model string, maxChunkTokens int) *Service {
	if maxChunkTokens <= 0 {
		maxChunkTokens = text.DefaultMaxChunkTokens
	}
	return &Service{
		docs:           docs,
		embedder:       embedder,
		writer:         writer,
		model:          model,
		maxChunkTokens: maxChunkTokens,
	}
}

// IndexDocument embeds a document's extracted text and upserts the vector.
func (s *Service) IndexDocument(ctx context.Context, organizationID, documentID string) (Result, error) {
	if _, err := uuid.Parse(organizationID); err != nil {
		return Result{}, domain.NewValidationError("organization_id", "must be a uuid")
	}
	if _, err := uuid.Parse(documentID); err != nil {
		return Result{}, domain.NewValidationError("document_id", "must be a uuid")
	}

	body, err := s.docs.Text(ctx, organizationID, documentID)
	if err != nil {
		return Result{}, fmt.Errorf("load document text: %w", err)
	}

	emb, err := s.embedder.EmbedDocument(ctx, body, s.maxChunkTokens)
	if err != nil {
		return Result{}, fmt.Errorf("vectorize document: %w", err)
	}

	err = s.writer.Upsert(ctx, domain.StoredEmbedding{
		OrganizationID: organizationID,
		DocumentID:     documentID,
		Vector:         emb.Embedding,
		Model:          s.model,
		TokensUsed:     emb.TokensUsed,
		ChunkCount:     emb.Chunks,
	})
	if err != nil {
		return Result{}, fmt.Errorf("store embedding: %w", err)
	}

	logger.FromContext(ctx).Info("Document indexed",
		zap.String("document_id", documentID),
		zap.Int("chunks", emb.Chunks),
		zap.Int("tokens", emb.TokensUsed),
	)

	return Result{
		DocumentID: documentID,
		Model:      s.model,
		Dimensions: len(emb.Embedding),
		TokensUsed: emb.TokensUsed,
		Chunks:     emb.Chunks,
	}, nil
}
