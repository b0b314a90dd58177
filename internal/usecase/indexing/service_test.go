package indexing

import (
	"context"
	"errors"
	"testing"

	"github.com/willianpinho/document-management-system-sub001/internal/domain"
	"github.com/willianpinho/document-management-system-sub001/internal/usecase/embedding"
)

const (
	org = "0f8fad5b-d9cb-469f-a165-70867728950e"
	doc = "5b1c4a9e-3f2d-4f7a-9c51-0d2e8b6a1f30"
)

// --- Mocks ---

type mockDocs struct {
	body string
	err  error
}

func (m *mockDocs) Text(_ context.Context, _, _ string) (string, error) { return m.body, m.err }

type mockEmbedder struct {
	result    embedding.DocumentEmbedding
	err       error
	lastBody  string
	lastLimit int
}

func (m *mockEmbedder) EmbedDocument(_ context.Context, body string, maxChunkTokens int) (embedding.DocumentEmbedding, error) {
	m.lastBody, m.lastLimit = body, maxChunkTokens
	return m.result, m.err
}

type mockWriter struct {
	stored []domain.StoredEmbedding
	err    error
}

func (m *mockWriter) Upsert(_ context.Context, e domain.StoredEmbedding) error {
	m.stored = append(m.stored, e)
	return m.err
}

// --- Tests ---

func TestIndexDocument_HappyPath(t *testing.T) {
	docs := &mockDocs{body: "quarterly report"}
	emb := &mockEmbedder{result: embedding.DocumentEmbedding{Embedding: []float32{0.6, 0.8}, TokensUsed: 42, Chunks: 3}}
	w := &mockWriter{}
	svc := New(docs, emb, w, "text-embedding-3-small", 0)

	res, err := svc.IndexDocument(context.Background(), org, doc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if emb.lastBody != "quarterly report" || emb.lastLimit != 500 {
		t.Errorf("unexpected embed call: %q/%d", emb.lastBody, emb.lastLimit)
	}
	if len(w.stored) != 1 {
		t.Fatalf("expected 1 upsert, got %d", len(w.stored))
	}
	got := w.stored[0]
	if got.OrganizationID != org || got.DocumentID != doc || got.ChunkCount != 3 || got.TokensUsed != 42 {
		t.Errorf("unexpected stored embedding: %+v", got)
	}
	if got.Model != "text-embedding-3-small" {
		t.Errorf("model = %q", got.Model)
	}
	if res.Dimensions != 2 || res.Chunks != 3 {
		t.Errorf("unexpected result: %+v", res)
	}
}

func TestIndexDocument_InvalidIDs(t *testing.T) {
	svc := New(&mockDocs{}, &mockEmbedder{}, &mockWriter{}, "m", 0)

	if _, err := svc.IndexDocument(context.Background(), "nope", doc); !errors.Is(err, domain.ErrValidation) {
		t.Errorf("expected validation error for org, got %v", err)
	}
	if _, err := svc.IndexDocument(context.Background(), org, "nope"); !errors.Is(err, domain.ErrValidation) {
		t.Errorf("expected validation error for document, got %v", err)
	}
}

func TestIndexDocument_NotFound(t *testing.T) {
	w := &mockWriter{}
	svc := New(&mockDocs{err: domain.ErrNotFound}, &mockEmbedder{}, w, "m", 0)

	_, err := svc.IndexDocument(context.Background(), org, doc)
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if len(w.stored) != 0 {
		t.Error("nothing must be stored")
	}
}

func TestIndexDocument_EmbedError(t *testing.T) {
	w := &mockWriter{}
	svc := New(&mockDocs{body: "   "}, &mockEmbedder{err: domain.ErrEmptyInput}, w, "m", 0)

	_, err := svc.IndexDocument(context.Background(), org, doc)
	if !errors.Is(err, domain.ErrEmptyInput) {
		t.Fatalf("expected ErrEmptyInput, got %v", err)
	}
	if len(w.stored) != 0 {
		t.Error("nothing must be stored")
	}
}

func TestIndexDocument_WriteError(t *testing.T) {
	emb := &mockEmbedder{result: embedding.DocumentEmbedding{Embedding: []float32{1}, Chunks: 1}}
	svc := New(&mockDocs{body: "x"}, emb, &mockWriter{err: errors.New("fk violation")}, "m", 0)

	if _, err := svc.IndexDocument(context.Background(), org, doc); err == nil {
		t.Fatal("expected error")
	}
}
