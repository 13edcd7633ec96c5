package tts

import (
	"strings"
	"unicode/utf8"
)

// SegmentKind tags a segment as plain narration or an extracted quote.
type SegmentKind int

const (
	SegmentNarration SegmentKind = iota
	SegmentQuote
)

// Segment is a contiguous span of narration-unit text. Quote segments may
// carry the raw speaker name found in the surrounding attribution clause.
type Segment struct {
	Kind      SegmentKind
	Text      string
	Candidate string
}

// Warning records a non-fatal extraction anomaly: an attribution cue was found
// but no usable name token accompanied it. The quote is still extracted.
type Warning struct {
	Position int
	Message  string
}

// Extract partitions text into narration and quote segments. The partition is
// lossless modulo whitespace collapse: narration outside quotes and the quote
// bodies together carry every word of the source, attribution clauses
// included. An opening delimiter with no matching close disables extraction
// for the remainder of the text.
func Extract(text string, cues Cues) ([]Segment, []Warning) {
	openDelim := cues.openDelim()
	closeDelim := cues.closeDelim()

	var segments []Segment
	var warnings []Warning

	cursor := 0
	for {
		rel := strings.Index(text[cursor:], openDelim)
		if rel < 0 {
			break
		}
		openIdx := cursor + rel
		innerStart := openIdx + len(openDelim)
		relClose := strings.Index(text[innerStart:], closeDelim)
		if relClose < 0 {
			// Unmatched open delimiter: the rest stays narration.
			break
		}
		closeIdx := innerStart + relClose
		afterClose := closeIdx + len(closeDelim)

		before := text[cursor:openIdx]

		candidate, warn := precedingCandidate(before, cues)
		if candidate == "" && warn == nil {
			candidate, warn = followingCandidate(text[afterClose:], cues)
		}
		if warn != nil {
			warn.Position = openIdx
			warnings = append(warnings, *warn)
		}

		if trimmed := strings.TrimSpace(before); trimmed != "" {
			segments = append(segments, Segment{Kind: SegmentNarration, Text: trimmed})
		}
		if quote := strings.TrimSpace(text[innerStart:closeIdx]); quote != "" {
			segments = append(segments, Segment{Kind: SegmentQuote, Text: quote, Candidate: candidate})
		}

		cursor = afterClose
	}

	if trimmed := strings.TrimSpace(text[cursor:]); trimmed != "" {
		segments = append(segments, Segment{Kind: SegmentNarration, Text: trimmed})
	}

	return segments, warnings
}

// precedingCandidate searches the narration directly before an opening
// delimiter, bounded by the start of the current sentence, for the
// "Name ... cue" attribution shape.
func precedingCandidate(before string, cues Cues) (string, *Warning) {
	window := before
	if idx := strings.LastIndexFunc(window, isSentenceEnd); idx >= 0 {
		_, size := utf8.DecodeRuneInString(window[idx:])
		window = window[idx+size:]
	}

	tokens := strings.Fields(window)
	cueIdx := -1
	for i, token := range tokens {
		if cues.isCue(token) {
			cueIdx = i
		}
	}
	if cueIdx < 0 {
		return "", nil
	}
	for i := cueIdx - 1; i >= 0; i-- {
		if isNameToken(tokens[i]) {
			return trimTokenPunct(tokens[i]), nil
		}
	}
	return "", &Warning{Message: "attribution cue without a preceding name token"}
}

// followingCandidate searches the narration directly after a closing
// delimiter, bounded by the end of the sentence and the next quote, for the
// "cue Name" attribution shape.
func followingCandidate(after string, cues Cues) (string, *Warning) {
	window := after
	if idx := strings.IndexFunc(window, isSentenceEnd); idx >= 0 {
		window = window[:idx]
	}
	if idx := strings.Index(window, cues.openDelim()); idx >= 0 {
		window = window[:idx]
	}

	tokens := strings.Fields(window)
	for i, token := range tokens {
		if !cues.isCue(token) {
			continue
		}
		for j := i + 1; j < len(tokens); j++ {
			if isNameToken(tokens[j]) {
				return trimTokenPunct(tokens[j]), nil
			}
		}
		return "", &Warning{Message: "attribution cue without a following name token"}
	}
	return "", nil
}
