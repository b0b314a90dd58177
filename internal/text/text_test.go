package text

import (
	"fmt"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHeuristicEstimator(t *testing.T) {
	est := NewHeuristicEstimator()

	tests := []struct {
		name string
		text string
		want int
	}{
		{"empty", "", 0},
		{"chars dominate", "hello world", 3},
		{"words dominate", "a a a a a a a a a a", 13},
		{"single long word", strings.Repeat("x", 41), 11},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, est.EstimateTokens(tc.text))
		})
	}
}

func TestHeuristicEstimator_MonotonicInLength(t *testing.T) {
	est := NewHeuristicEstimator()
	s := "Invoices are due within 30 days. Late fees apply! Contact billing? Yes."

	prev := 0
	for i := 0; i <= len(s); i++ {
		got := est.EstimateTokens(s[:i])
		require.GreaterOrEqual(t, got, prev, "prefix length %d", i)
		prev = got
	}
}

func sentences(n int) string {
	var b strings.Builder
	for i := 0; i < n; i++ {
		fmt.Fprintf(&b, "Sentence number %d talks about invoices and receipts. ", i)
	}
	return strings.TrimSpace(b.String())
}

func assertCoverage(t *testing.T, src string, chunks []Chunk, maxTokens int) {
	t.Helper()
	est := NewHeuristicEstimator()

	var rebuilt strings.Builder
	pos := 0
	for i, c := range chunks {
		require.Equal(t, pos, c.StartOffset, "chunk %d must start where the previous ended", i)
		body := src[c.StartOffset:c.EndOffset]
		assert.True(t, strings.HasSuffix(c.Text, body), "chunk %d text must end with its own content", i)
		assert.Equal(t, est.EstimateTokens(c.Text), c.TokenCount, "chunk %d token count", i)
		assert.LessOrEqual(t, c.TokenCount, maxTokens, "chunk %d over budget", i)
		rebuilt.WriteString(body)
		pos = c.EndOffset
	}
	assert.Equal(t, src, rebuilt.String())
}

func TestChunk_ShortTextSingleChunk(t *testing.T) {
	c := NewChunker(nil)
	src := "A short note."

	chunks := c.Chunk(src, 500, 50)

	require.Len(t, chunks, 1)
	assert.Equal(t, src, chunks[0].Text)
	assert.Equal(t, 0, chunks[0].StartOffset)
	assert.Equal(t, len(src), chunks[0].EndOffset)
}

func TestChunk_CoversSourceWithOverlap(t *testing.T) {
	c := NewChunker(nil)
	src := sentences(40)

	chunks := c.Chunk(src, 40, 10)

	require.Greater(t, len(chunks), 1)
	assertCoverage(t, src, chunks, 40)

	for i := 1; i < len(chunks); i++ {
		body := src[chunks[i].StartOffset:chunks[i].EndOffset]
		prefix := strings.TrimSuffix(chunks[i].Text, body)
		require.NotEmpty(t, prefix, "chunk %d should carry overlap", i)
		prevBody := src[chunks[i-1].StartOffset:chunks[i-1].EndOffset]
		assert.True(t, strings.HasSuffix(prevBody, prefix), "overlap of chunk %d must come from the previous chunk", i)
	}
}

func TestChunk_OverlapCapped(t *testing.T) {
	c := NewChunker(nil)
	est := NewHeuristicEstimator()
	src := sentences(40)

	chunks := c.Chunk(src, 60, 10)

	for i := 1; i < len(chunks); i++ {
		body := src[chunks[i].StartOffset:chunks[i].EndOffset]
		prefix := strings.TrimSuffix(chunks[i].Text, body)
		assert.LessOrEqual(t, est.EstimateTokens(prefix), 15, "overlap of chunk %d above 1.5x", i)
	}
}

func TestChunk_ZeroOverlap(t *testing.T) {
	c := NewChunker(nil)
	src := sentences(30)

	chunks := c.Chunk(src, 40, 0)

	assertCoverage(t, src, chunks, 40)
	for i, ch := range chunks {
		assert.Equal(t, src[ch.StartOffset:ch.EndOffset], ch.Text, "chunk %d", i)
	}
}

func TestChunk_LongSentenceSplitsOnWordsWithoutOverlap(t *testing.T) {
	c := NewChunker(nil)
	words := make([]string, 120)
	for i := range words {
		words[i] = fmt.Sprintf("word%d", i)
	}
	long := strings.Join(words, " ")
	src := "Intro sentence here. " + long + ". Closing remark."

	chunks := c.Chunk(src, 20, 5)

	assertCoverage(t, src, chunks, 20)
	// the word-split sub-chunks never carry an overlap prefix
	for _, ch := range chunks {
		body := src[ch.StartOffset:ch.EndOffset]
		if strings.Contains(body, "word60") {
			assert.Equal(t, body, ch.Text)
		}
	}
}

func TestChunk_OversizedSingleWordHardCut(t *testing.T) {
	c := NewChunker(nil)
	src := "Start. " + strings.Repeat("z", 300) + " end."

	chunks := c.Chunk(src, 10, 2)

	assertCoverage(t, src, chunks, 10)
}

func TestChunk_Defaults(t *testing.T) {
	c := NewChunker(nil)
	src := sentences(200)

	chunks := c.Chunk(src, 0, -1)

	assertCoverage(t, src, chunks, DefaultMaxChunkTokens)
}

func TestTruncate(t *testing.T) {
	t.Run("fits unchanged", func(t *testing.T) {
		assert.Equal(t, "short text", Truncate("short text", 10))
	})

	t.Run("hard cut without boundary", func(t *testing.T) {
		got := Truncate(strings.Repeat("a", 100), 10)
		assert.Equal(t, strings.Repeat("a", 40)+TruncationMarker, got)
	})

	t.Run("snaps to late word boundary", func(t *testing.T) {
		got := Truncate(strings.Repeat("aaaa ", 20), 10)
		assert.Equal(t, strings.TrimSpace(strings.Repeat("aaaa ", 8))+TruncationMarker, got)
	})

	t.Run("early boundary ignored", func(t *testing.T) {
		src := "ab " + strings.Repeat("x", 100)
		got := Truncate(src, 10)
		assert.Equal(t, src[:40]+TruncationMarker, got)
	})
}

func TestGenerateSnippet(t *testing.T) {
	t.Run("bounded", func(t *testing.T) {
		src := strings.Repeat("lorem ipsum ", 42)[:500]
		got := GenerateSnippet(src, 200)
		assert.LessOrEqual(t, len(got), 203)
		assert.True(t, strings.HasSuffix(got, "..."))
	})

	t.Run("short unchanged", func(t *testing.T) {
		assert.Equal(t, "tiny text", GenerateSnippet("tiny   text", 200))
	})

	t.Run("no spaces hard cut", func(t *testing.T) {
		got := GenerateSnippet(strings.Repeat("x", 500), 200)
		assert.Equal(t, strings.Repeat("x", 200)+"...", got)
	})
}

func TestHighlightSnippet(t *testing.T) {
	src := strings.Repeat("filler words ", 60) + "the Invoice total is due " + strings.Repeat("more text ", 60)

	got := HighlightSnippet(src, "invoice", 100)

	assert.Contains(t, got, "Invoice")
	assert.True(t, strings.HasPrefix(got, "..."))
	assert.True(t, strings.HasSuffix(got, "..."))
	assert.LessOrEqual(t, utf8.RuneCountInString(got), 103)
}

func TestHighlightSnippet_StaysWithinBound(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"match mid text", strings.Repeat("filler words ", 60) + "invoice " + strings.Repeat("tail ", 80)},
		{"match near end", strings.Repeat("filler words ", 60) + "invoice end"},
		{"unbroken tail", strings.Repeat("lead ", 40) + "invoice" + strings.Repeat("x", 400)},
		{"multibyte", strings.Repeat("überprüfung ", 40) + "Invoice " + strings.Repeat("größe ", 60)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, maxLen := range []int{20, 50, 100, 200} {
				got := HighlightSnippet(tt.src, "invoice", maxLen)
				assert.LessOrEqual(t, utf8.RuneCountInString(got), maxLen+3, "maxLen=%d: %q", maxLen, got)
			}
		})
	}
}

func TestHighlightSnippet_NoMatchFallsBack(t *testing.T) {
	src := strings.Repeat("filler words ", 60)
	assert.Equal(t, GenerateSnippet(src, 100), HighlightSnippet(src, "missing", 100))
}
