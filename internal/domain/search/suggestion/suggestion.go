// Package suggestion holds autocomplete suggestions and the candidate sets they are scored from.
package suggestion

import (
	"strings"

	"github.com/willianpinho/document-management-system-sub001/internal/domain"
)

// MinPrefixLength is the shortest trimmed prefix that reaches the store.
const MinPrefixLength = 2

// Match scores by position of the prefix in a candidate name.
const (
	ScorePrefix       = 1.0
	ScoreWordBoundary = 0.8
	ScoreSubstring    = 0.6
	ScoreOther        = 0.4
)

// Kind is the type of entity a suggestion points at.
type Kind string

// Suggestion kinds.
const (
	KindDocument Kind = "document"
	KindFolder   Kind = "folder"
)

// Suggestion is a single autocomplete entry.
type Suggestion struct {
	Text       string
	Kind       Kind
	ID         string
	MatchScore float64
}

// Scope selects which entity kinds a candidate set holds.
type Scope int

// Candidate scopes.
const (
	DocumentsOnly Scope = iota
	FoldersOnly
	Both
)

func (s Scope) String() string {
	switch s {
	case DocumentsOnly:
		return "documents"
	case FoldersOnly:
		return "folders"
	case Both:
		return "both"
	default:
		return "unknown"
	}
}

// ParseScope maps "documents", "folders" or "both" to a Scope. Empty means Both.
func ParseScope(s string) (Scope, error) {
	switch strings.ToLower(s) {
	case "", "both":
		return Both, nil
	case "documents":
		return DocumentsOnly, nil
	case "folders":
		return FoldersOnly, nil
	default:
		return Both, domain.NewValidationError("scope", "must be documents, folders or both")
	}
}

// Candidate is a named entity fetched for suggestion scoring.
type Candidate struct {
	ID   string
	Name string
}

// Candidates is a tagged set of suggestion candidates. Only the lists named by
// Scope are populated.
type Candidates struct {
	scope     Scope
	documents []Candidate
	folders   []Candidate
}

// NewDocumentCandidates creates a documents-only set.
func NewDocumentCandidates(docs []Candidate) Candidates {
	return Candidates{scope: DocumentsOnly, documents: docs}
}

// NewFolderCandidates creates a folders-only set.
func NewFolderCandidates(folders []Candidate) Candidates {
	return Candidates{scope: FoldersOnly, folders: folders}
}

// NewCandidates creates a set holding both kinds.
func NewCandidates(docs, folders []Candidate) Candidates {
	return Candidates{scope: Both, documents: docs, folders: folders}
}

// Scope returns which kinds the set holds.
func (c Candidates) Scope() Scope { return c.scope }

// Documents returns document candidates; nil for FoldersOnly.
func (c Candidates) Documents() []Candidate { return c.documents }

// Folders returns folder candidates; nil for DocumentsOnly.
func (c Candidates) Folders() []Candidate { return c.folders }

// Suggestions scores every candidate against prefix.
func (c Candidates) Suggestions(prefix string) []Suggestion {
	out := make([]Suggestion, 0, len(c.documents)+len(c.folders))
	for _, d := range c.documents {
		out = append(out, Suggestion{Text: d.Name, Kind: KindDocument, ID: d.ID, MatchScore: MatchScore(d.Name, prefix)})
	}
	for _, f := range c.folders {
		out = append(out, Suggestion{Text: f.Name, Kind: KindFolder, ID: f.ID, MatchScore: MatchScore(f.Name, prefix)})
	}
	return out
}

// MatchScore rates how well name matches prefix, case-insensitively:
// 1.0 when name starts with prefix, 0.8 when a word inside name does,
// 0.6 for any other substring match and 0.4 otherwise.
func MatchScore(name, prefix string) float64 {
	n := strings.ToLower(name)
	p := strings.ToLower(strings.TrimSpace(prefix))
	switch {
	case p == "":
		return ScoreOther
	case strings.HasPrefix(n, p):
		return ScorePrefix
	case strings.Contains(n, " "+p):
		return ScoreWordBoundary
	case strings.Contains(n, p):
		return ScoreSubstring
	default:
		return ScoreOther
	}
}
