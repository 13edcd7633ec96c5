package tts

import (
	"strings"
	"unicode"
)

// Cues is the lexical configuration for quote extraction: the reported-speech
// cue phrases and the quotation delimiters. It is plain data so the extractor
// can be pointed at another language without code changes.
type Cues struct {
	Verbs []string
	Open  string
	Close string
}

// DefaultCues covers Ukrainian narration with plain double quotes.
func DefaultCues() Cues {
	return Cues{
		Verbs: []string{
			"сказав", "сказала", "каже", "мовив", "мовила",
			"промовив", "промовила", "відповів", "відповіла",
			"прошепотів", "прошепотіла", "вигукнув", "вигукнула",
		},
		Open:  `"`,
		Close: `"`,
	}
}

func (c Cues) openDelim() string {
	if c.Open == "" {
		return `"`
	}
	return c.Open
}

func (c Cues) closeDelim() string {
	if c.Close == "" {
		return `"`
	}
	return c.Close
}

// isCue reports whether a whitespace-delimited token is one of the cue
// phrases, ignoring case and surrounding punctuation.
func (c Cues) isCue(token string) bool {
	token = trimTokenPunct(token)
	for _, verb := range c.Verbs {
		if strings.EqualFold(token, verb) {
			return true
		}
	}
	return false
}

func trimTokenPunct(token string) string {
	return strings.TrimFunc(token, func(r rune) bool {
		return unicode.IsPunct(r) || unicode.IsSymbol(r)
	})
}

// isNameToken reports whether a token looks like a speaker name reference:
// letters only with an upper-case initial (covers Cyrillic).
func isNameToken(token string) bool {
	token = trimTokenPunct(token)
	if token == "" {
		return false
	}
	for i, r := range token {
		if i == 0 && !unicode.IsUpper(r) {
			return false
		}
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return true
}

func isSentenceEnd(r rune) bool {
	switch r {
	case '.', '!', '?', '…':
		return true
	}
	return false
}
