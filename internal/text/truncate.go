package text

import (
	"strings"
	"unicode"
)

// TruncationMarker is appended to text cut down to fit a token ceiling.
const TruncationMarker = "... [truncated]"

// CharsPerToken is the character budget granted per token when truncating.
const CharsPerToken = 4

// Truncate cuts text to maxTokens*CharsPerToken characters. The cut snaps back to the
// last whitespace when that whitespace lies within the final 20% of the window, otherwise
// it is a hard cut. Text that already fits is returned unchanged.
func Truncate(text string, maxTokens int) string {
	limit := maxTokens * CharsPerToken
	if limit <= 0 {
		return ""
	}
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}

	window := runes[:limit]
	cut := limit
	for i := limit - 1; i >= 0; i-- {
		if unicode.IsSpace(window[i]) {
			if i >= limit*8/10 {
				cut = i
			}
			break
		}
	}

	return strings.TrimRightFunc(string(window[:cut]), unicode.IsSpace) + TruncationMarker
}
