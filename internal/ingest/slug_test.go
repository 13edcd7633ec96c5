package ingest

import (
	"strings"
	"testing"
	"time"
)

func TestSlug(t *testing.T) {
	cases := []struct {
		name  string
		title string
		want  string
	}{
		{"latin", "A Simple Story", "a-simple-story"},
		{"ukrainian", "Дідусь і онука", "didus-i-onuka"},
		{"mixed punctuation", "Казка: про лисицю!", "kazka-pro-lisitsyu"},
		{"underscores and runs", "one_two   three---four", "one-two-three-four"},
		{"soft sign dropped", "Льон", "lon"},
		{"empty", "", "untitled"},
		{"only punctuation", "!!! ???", "untitled"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Slug(tc.title); got != tc.want {
				t.Fatalf("Slug(%q) = %q, want %q", tc.title, got, tc.want)
			}
		})
	}
}

func TestSlugLengthLimit(t *testing.T) {
	long := strings.Repeat("казка ", 30)
	got := Slug(long)
	if len([]rune(got)) > 50 {
		t.Fatalf("slug exceeds 50 characters: %q (%d)", got, len([]rune(got)))
	}
	if strings.HasSuffix(got, "-") {
		t.Fatalf("truncated slug must not end with a dash: %q", got)
	}
}

func TestGenerateJobID(t *testing.T) {
	now := time.Date(2026, 3, 1, 10, 20, 30, 0, time.UTC)
	got := GenerateJobID("Дівчинка і вовк", now)
	want := "2026-03-01T10-20-30Z__divchinka-i-vovk"
	if got != want {
		t.Fatalf("GenerateJobID = %q, want %q", got, want)
	}
}
