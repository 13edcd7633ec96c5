package tts

import (
	"strings"
	"testing"
)

func assertBounded(t *testing.T, chunks []string, maxChars int) {
	t.Helper()
	for i, chunk := range chunks {
		if n := len([]rune(chunk)); n > maxChars {
			t.Fatalf("chunk %d exceeds limit (%d > %d): %q", i, n, maxChars, chunk)
		}
	}
}

func TestSplitShortTextUntouched(t *testing.T) {
	chunks := splitBounded("Коротко.", 220)
	if len(chunks) != 1 || chunks[0] != "Коротко." {
		t.Fatalf("unexpected chunks: %v", chunks)
	}
}

func TestSplitPrefersSentenceBoundary(t *testing.T) {
	text := "Перше речення тут. Друге речення значно довше і цікавіше."
	chunks := splitBounded(text, 30)
	assertBounded(t, chunks, 30)
	if chunks[0] != "Перше речення тут." {
		t.Fatalf("expected split after sentence end, got %q", chunks[0])
	}
}

func TestSplitFallsBackToWhitespace(t *testing.T) {
	text := "слово одне два три чотири п'ять шість сім вісім"
	chunks := splitBounded(text, 20)
	assertBounded(t, chunks, 20)
	joined := strings.Join(chunks, " ")
	if joined != text {
		t.Fatalf("whitespace split must not lose words:\n want %q\n got %q", text, joined)
	}
}

func TestSplitHardCutWithoutBoundaries(t *testing.T) {
	text := strings.Repeat("а", 50)
	chunks := splitBounded(text, 20)
	assertBounded(t, chunks, 20)
	if len(chunks) != 3 {
		t.Fatalf("expected 3 chunks, got %v", chunks)
	}
	if len([]rune(chunks[0])) != 20 || len([]rune(chunks[1])) != 20 || len([]rune(chunks[2])) != 10 {
		t.Fatalf("expected hard cuts at exactly the limit, got %v", chunks)
	}
}

func TestSplitCountsRunesNotBytes(t *testing.T) {
	// 30 Cyrillic characters are 60 bytes; a limit of 25 must still split.
	text := strings.Repeat("ї", 30)
	chunks := splitBounded(text, 25)
	assertBounded(t, chunks, 25)
	if len(chunks) != 2 {
		t.Fatalf("expected 2 chunks, got %v", chunks)
	}
}

func TestSplitEmptyText(t *testing.T) {
	if chunks := splitBounded("   ", 10); chunks != nil {
		t.Fatalf("expected no chunks, got %v", chunks)
	}
}
