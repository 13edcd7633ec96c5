package tts

import (
	"strings"
	"unicode"
)

// splitBounded breaks text into chunks of at most maxChars characters.
// Boundaries are searched in three tiers: the last sentence-ending punctuation
// at or before the limit, then the last whitespace, then a hard cut at exactly
// the limit. Lengths are counted in runes so multi-byte scripts are bounded by
// character count, not bytes.
func splitBounded(text string, maxChars int) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	runes := []rune(text)
	if len(runes) <= maxChars {
		return []string{text}
	}

	var chunks []string
	for len(runes) > maxChars {
		cut := boundaryAt(runes, maxChars)
		chunk := strings.TrimSpace(string(runes[:cut]))
		if chunk != "" {
			chunks = append(chunks, chunk)
		}
		runes = trimLeadingSpace(runes[cut:])
	}
	if rest := strings.TrimSpace(string(runes)); rest != "" {
		chunks = append(chunks, rest)
	}
	return chunks
}

// boundaryAt returns the cut position (exclusive) for the next chunk.
func boundaryAt(runes []rune, maxChars int) int {
	// Sentence tier: cut just after the punctuation.
	for i := maxChars - 1; i >= 0; i-- {
		if isSentenceEnd(runes[i]) {
			return i + 1
		}
	}
	// Whitespace tier: cut at the space, dropping it.
	for i := maxChars; i >= 1; i-- {
		if unicode.IsSpace(runes[i]) {
			return i
		}
	}
	// Hard cut.
	return maxChars
}

func trimLeadingSpace(runes []rune) []rune {
	start := 0
	for start < len(runes) && unicode.IsSpace(runes[start]) {
		start++
	}
	return runes[start:]
}
