package ingest

import (
	"regexp"
	"strings"
)

const maxSlugLen = 50

// Transliteration table for Cyrillic titles, covering Ukrainian and
// Russian letters. Anything not listed passes through and is filtered
// by the word-character rules below.
var translit = map[rune]string{
	'а': "a", 'б': "b", 'в': "v", 'г': "g", 'д': "d", 'е': "e", 'ё': "e",
	'ж': "zh", 'з': "z", 'и': "i", 'й': "y", 'к': "k", 'л': "l", 'м': "m",
	'н': "n", 'о': "o", 'п': "p", 'р': "r", 'с': "s", 'т': "t", 'у': "u",
	'ф': "f", 'х': "h", 'ц': "ts", 'ч': "ch", 'ш': "sh", 'щ': "sch",
	'ъ': "", 'ы': "y", 'ь': "", 'э': "e", 'ю': "yu", 'я': "ya",
	'і': "i", 'ї': "i", 'є': "e", 'ґ': "g",
}

var (
	nonWordRe = regexp.MustCompile(`[^\p{L}\p{N}_\s-]`)
	spacerRe  = regexp.MustCompile(`[\s_]+`)
	dashRunRe = regexp.MustCompile(`-+`)
)

// Slug derives a filesystem-safe identifier from a story title:
// lowercase, Latin letters, dash-separated, at most 50 characters.
// Titles that reduce to nothing become "untitled".
func Slug(title string) string {
	s := strings.ToLower(strings.TrimSpace(title))

	var b strings.Builder
	for _, r := range s {
		if repl, ok := translit[r]; ok {
			b.WriteString(repl)
			continue
		}
		b.WriteRune(r)
	}
	s = b.String()

	s = nonWordRe.ReplaceAllString(s, "")
	s = spacerRe.ReplaceAllString(s, "-")
	s = dashRunRe.ReplaceAllString(s, "-")
	s = strings.Trim(s, "-")

	if runes := []rune(s); len(runes) > maxSlugLen {
		s = strings.TrimRight(string(runes[:maxSlugLen]), "-")
	}
	if s == "" {
		return "untitled"
	}
	return s
}
