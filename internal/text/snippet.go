package text

import (
	"strings"
	"unicode"
)

const ellipsis = "..."

// DefaultSnippetLength is the snippet size used by the search repositories.
const DefaultSnippetLength = 200

// GenerateSnippet collapses whitespace and shortens text to at most maxLen characters,
// cutting at the last word boundary and appending "...". The result never exceeds
// maxLen+3 characters.
func GenerateSnippet(text string, maxLen int) string {
	collapsed := []rune(strings.Join(strings.Fields(text), " "))
	if len(collapsed) <= maxLen {
		return string(collapsed)
	}
	return cutAtWord(collapsed[:maxLen]) + ellipsis
}

// HighlightSnippet is like GenerateSnippet but centres the window on the first
// case-insensitive occurrence of query. Leading context is marked with "...". The
// result never exceeds maxLen+3 characters.
func HighlightSnippet(text, query string, maxLen int) string {
	collapsed := []rune(strings.Join(strings.Fields(text), " "))
	query = strings.TrimSpace(query)
	if len(collapsed) <= maxLen || query == "" {
		return GenerateSnippet(string(collapsed), maxLen)
	}

	idx := indexFold(collapsed, []rune(query))
	if idx <= maxLen/4 {
		return GenerateSnippet(string(collapsed), maxLen)
	}

	start := idx - maxLen/4
	// start on a word
	for start < idx && collapsed[start-1] != ' ' {
		start++
	}
	if len(collapsed)-start <= maxLen {
		return ellipsis + string(collapsed[start:])
	}
	// both ellipses share the maxLen+3 bound
	end := start + max(maxLen-len(ellipsis), 1)
	return ellipsis + cutAtWord(collapsed[start:end]) + ellipsis
}

func cutAtWord(window []rune) string {
	for i := len(window) - 1; i > 0; i-- {
		if window[i] == ' ' {
			return string(window[:i])
		}
	}
	return string(window)
}

// indexFold returns the rune index of the first case-insensitive match, or -1.
func indexFold(haystack, needle []rune) int {
	if len(needle) == 0 || len(needle) > len(haystack) {
		return -1
	}
	for i := 0; i+len(needle) <= len(haystack); i++ {
		match := true
		for j, r := range needle {
			if unicode.ToLower(haystack[i+j]) != unicode.ToLower(r) {
				match = false
				break
			}
		}
		if match {
			return i
		}
	}
	return -1
}
