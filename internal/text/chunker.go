package text

import "regexp"

// Chunking defaults.
const (
	DefaultMaxChunkTokens = 500
	DefaultOverlapTokens  = 50
)

// Chunk is a token-bounded slice of a source text.
//
// StartOffset and EndOffset are byte offsets of the chunk's own content in the source.
// Text is that content, preceded by the overlap prefix copied from the previous chunk
// when one was applied, so source[StartOffset:EndOffset] is always a suffix of Text.
type Chunk struct {
	Text        string
	StartOffset int
	EndOffset   int
	TokenCount  int
}

var (
	sentenceBoundary = regexp.MustCompile(`[.!?]\s+`)
	wordSpan         = regexp.MustCompile(`\s*\S+\s*`)
)

type span struct {
	start, end int
}

// Chunker splits long text into overlapping, token-bounded chunks for embedding.
type Chunker struct {
	estimator TokenEstimator
}

// NewChunker creates a chunker. A nil estimator falls back to HeuristicEstimator.
func NewChunker(estimator TokenEstimator) *Chunker {
	if estimator == nil {
		estimator = HeuristicEstimator{}
	}
	return &Chunker{estimator: estimator}
}

// Chunk splits text on sentence boundaries into chunks of at most maxTokens, each
// seeded with roughly overlapTokens of trailing context from the previous chunk.
// A sentence longer than maxTokens is split on word boundaries without overlap.
// Non-positive maxTokens uses DefaultMaxChunkTokens; negative overlap uses DefaultOverlapTokens.
func (c *Chunker) Chunk(text string, maxTokens, overlapTokens int) []Chunk {
	if maxTokens <= 0 {
		maxTokens = DefaultMaxChunkTokens
	}
	if overlapTokens < 0 {
		overlapTokens = DefaultOverlapTokens
	}

	if c.estimator.EstimateTokens(text) <= maxTokens {
		return []Chunk{c.newChunk("", text, 0, len(text))}
	}

	var (
		chunks   []Chunk
		consumed []span
		prefix   string
		curStart int
		curEnd   int
	)

	flush := func() {
		if curEnd > curStart {
			chunks = append(chunks, c.newChunk(prefix, text[curStart:curEnd], curStart, curEnd))
		}
	}

	for _, s := range splitSentences(text) {
		sentence := text[s.start:s.end]

		if c.estimator.EstimateTokens(sentence) > maxTokens {
			flush()
			chunks = append(chunks, c.splitWords(text, s, maxTokens)...)
			consumed, prefix = nil, ""
			curStart, curEnd = s.end, s.end
			continue
		}

		if curEnd > curStart && c.estimator.EstimateTokens(prefix+text[curStart:s.end]) > maxTokens {
			flush()
			prefix = c.overlap(text, consumed, overlapTokens)
			if c.estimator.EstimateTokens(prefix+sentence) > maxTokens {
				prefix = ""
			}
			consumed = nil
			curStart = s.start
		}

		curEnd = s.end
		consumed = append(consumed, s)
	}
	flush()

	return chunks
}

func (c *Chunker) newChunk(prefix, body string, start, end int) Chunk {
	t := prefix + body
	return Chunk{
		Text:        t,
		StartOffset: start,
		EndOffset:   end,
		TokenCount:  c.estimator.EstimateTokens(t),
	}
}

// overlap walks back over the sentences of the chunk just emitted until about
// overlapTokens are collected, never exceeding 1.5x overlapTokens.
func (c *Chunker) overlap(text string, consumed []span, overlapTokens int) string {
	if overlapTokens <= 0 {
		return ""
	}
	ceiling := overlapTokens * 3 / 2

	prefix := ""
	for i := len(consumed) - 1; i >= 0; i-- {
		candidate := text[consumed[i].start:consumed[i].end] + prefix
		tokens := c.estimator.EstimateTokens(candidate)
		if tokens > ceiling {
			break
		}
		prefix = candidate
		if tokens >= overlapTokens {
			break
		}
	}
	return prefix
}

// splitWords breaks one oversized sentence into word-aligned sub-chunks. No overlap
// is carried between these sub-chunks.
func (c *Chunker) splitWords(text string, s span, maxTokens int) []Chunk {
	words := wordSpan.FindAllStringIndex(text[s.start:s.end], -1)
	if len(words) == 0 {
		return c.splitRunes(text, s.start, s.end, maxTokens)
	}

	var chunks []Chunk
	start, end := s.start, s.start

	for _, w := range words {
		wStart, wEnd := s.start+w[0], s.start+w[1]

		if c.estimator.EstimateTokens(text[wStart:wEnd]) > maxTokens {
			if end > start {
				chunks = append(chunks, c.newChunk("", text[start:end], start, end))
			}
			chunks = append(chunks, c.splitRunes(text, wStart, wEnd, maxTokens)...)
			start, end = wEnd, wEnd
			continue
		}

		if end > start && c.estimator.EstimateTokens(text[start:wEnd]) > maxTokens {
			chunks = append(chunks, c.newChunk("", text[start:end], start, end))
			start = wStart
		}
		end = wEnd
	}
	if end > start {
		chunks = append(chunks, c.newChunk("", text[start:end], start, end))
	}
	return chunks
}

// splitRunes hard-cuts a single word that alone exceeds the budget.
func (c *Chunker) splitRunes(text string, start, end, maxTokens int) []Chunk {
	limit := maxTokens * CharsPerToken
	var chunks []Chunk

	pos, count := start, 0
	for i := range text[start:end] {
		if count == limit {
			chunks = append(chunks, c.newChunk("", text[pos:start+i], pos, start+i))
			pos, count = start+i, 0
		}
		count++
	}
	if end > pos {
		chunks = append(chunks, c.newChunk("", text[pos:end], pos, end))
	}
	return chunks
}

// splitSentences returns contiguous spans covering text. Each span ends after the
// whitespace that follows a '.', '!' or '?'.
func splitSentences(text string) []span {
	var spans []span
	start := 0
	for _, m := range sentenceBoundary.FindAllStringIndex(text, -1) {
		spans = append(spans, span{start: start, end: m[1]})
		start = m[1]
	}
	if start < len(text) {
		spans = append(spans, span{start: start, end: len(text)})
	}
	return spans
}
