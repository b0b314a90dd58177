package chi

import (
	"time"

	"github.com/willianpinho/document-management-system-sub001/internal/domain/search/result"
	"github.com/willianpinho/document-management-system-sub001/internal/domain/search/suggestion"
	indexinguc "github.com/willianpinho/document-management-system-sub001/internal/usecase/indexing"
)

// ErrorCode is a machine-readable error class.
type ErrorCode string

// Error codes.
const (
	ErrorCodeBadRequest       ErrorCode = "bad_request"
	ErrorCodeValidationFailed ErrorCode = "validation_failed"
	ErrorCodeUnauthorized     ErrorCode = "unauthorized"
	ErrorCodeNotFound         ErrorCode = "not_found"
	ErrorCodeUnprocessable    ErrorCode = "unprocessable"
	ErrorCodeUnavailable      ErrorCode = "unavailable"
	ErrorCodeInternalError    ErrorCode = "internal_error"
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

// SearchResultItem is one ranked hit.
type SearchResultItem struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	MimeType      string    `json:"mime_type"`
	FolderID      *string   `json:"folder_id"`
	Score         float64   `json:"score"`
	TextScore     *float64  `json:"text_score,omitempty"`
	SemanticScore *float64  `json:"semantic_score,omitempty"`
	RerankScore   *float64  `json:"rerank_score,omitempty"`
	Snippet       string    `json:"snippet,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// SearchMeta describes how the results were produced.
type SearchMeta struct {
	Query          string   `json:"query"`
	Algorithm      string   `json:"algorithm"`
	Total          int      `json:"total"`
	Page           int      `json:"page"`
	Limit          int      `json:"limit"`
	TotalPages     int      `json:"total_pages"`
	TookMs         int64    `json:"took_ms"`
	Threshold      *float64 `json:"threshold,omitempty"`
	Reranked       *bool    `json:"reranked,omitempty"`
	TextWeight     *float64 `json:"text_weight,omitempty"`
	SemanticWeight *float64 `json:"semantic_weight,omitempty"`
}

// SearchResponse is a page of results.
type SearchResponse struct {
	Results []SearchResultItem `json:"results"`
	Meta    SearchMeta         `json:"meta"`
}

// SuggestionItem is one autocomplete entry.
type SuggestionItem struct {
	Text       string  `json:"text"`
	Type       string  `json:"type"`
	ID         string  `json:"id"`
	MatchScore float64 `json:"match_score"`
}

// SuggestResponse lists suggestions, best match first.
type SuggestResponse struct {
	Suggestions []SuggestionItem `json:"suggestions"`
}

// EmbeddingResponse reports an indexed document.
type EmbeddingResponse struct {
	DocumentID string `json:"document_id"`
	Model      string `json:"model"`
	Dimensions int    `json:"dimensions"`
	TokensUsed int    `json:"tokens_used"`
	Chunks     int    `json:"chunks"`
}

// HealthResponse is the /health body.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

func searchResponseFromDomain(resp result.Response) SearchResponse {
	items := make([]SearchResultItem, len(resp.Results))
	for i := range resp.Results {
		items[i] = searchResultToDTO(&resp.Results[i])
	}
	m := resp.Meta
	return SearchResponse{
		Results: items,
		Meta: SearchMeta{
			Query:          m.Query,
			Algorithm:      string(m.Algorithm),
			Total:          m.Total,
			Page:           m.Page,
			Limit:          m.Limit,
			TotalPages:     m.TotalPages,
			TookMs:         m.Took.Milliseconds(),
			Threshold:      m.Threshold,
			Reranked:       m.Reranked,
			TextWeight:     m.TextWeight,
			SemanticWeight: m.SemanticWeight,
		},
	}
}

func searchResultToDTO(r *result.Result) SearchResultItem {
	return SearchResultItem{
		ID:            r.ID,
		Name:          r.Name,
		MimeType:      r.MimeType,
		FolderID:      r.FolderID,
		Score:         r.Score,
		TextScore:     r.TextScore,
		SemanticScore: r.SemanticScore,
		RerankScore:   r.RerankScore,
		Snippet:       r.Snippet,
		CreatedAt:     r.CreatedAt,
		UpdatedAt:     r.UpdatedAt,
	}
}

func suggestResponseFromDomain(in []suggestion.Suggestion) SuggestResponse {
	items := make([]SuggestionItem, len(in))
	for i, s := range in {
		items[i] = SuggestionItem{Text: s.Text, Type: string(s.Kind), ID: s.ID, MatchScore: s.MatchScore}
	}
	return SuggestResponse{Suggestions: items}
}

func embeddingResponseFromDomain(r indexinguc.Result) EmbeddingResponse {
	return EmbeddingResponse{
		DocumentID: r.DocumentID,
		Model:      r.Model,
		Dimensions: r.Dimensions,
		TokensUsed: r.TokensUsed,
		Chunks:     r.Chunks,
	}
}
