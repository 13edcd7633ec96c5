package speaker

import (
	"sort"
	"strings"
	"unicode"

	"storyglot/internal/story"
)

// Suggestions lists registry gaps discovered in a story document.
type Suggestions struct {
	// MissingSpeakers are referenced identities with no speakers registry entry.
	MissingSpeakers []string
	// MissingPatterns are names with neither a matching map pattern nor a
	// pattern targeting them.
	MissingPatterns []string
}

// Covered reports whether the story needs no registry additions.
func (s Suggestions) Covered() bool {
	return len(s.MissingSpeakers) == 0 && len(s.MissingPatterns) == 0
}

// SuggestMissing scans dialogue speaker fields and attribution-cue hits in
// free text for names the registries do not cover yet. Results are sorted for
// stable output.
func SuggestMissing(reg *Registry, doc *story.Document, cues []string) Suggestions {
	found := map[string]struct{}{}

	for _, scene := range doc.Scenes {
		for _, unit := range scene.Dialogue {
			if name := strings.TrimSpace(unit.Speaker); name != "" {
				found[name] = struct{}{}
			}
			for _, name := range namesNearCues(unit.TextValue(), cues) {
				found[name] = struct{}{}
			}
		}
		for _, text := range []string{scene.Summary, scene.VisualNotes} {
			for _, name := range namesNearCues(text, cues) {
				found[name] = struct{}{}
			}
		}
	}

	resolver := NewResolver(reg)
	targets := map[string]struct{}{}
	for _, entry := range reg.NameMap.Patterns {
		targets[entry.Speaker] = struct{}{}
	}

	var suggestions Suggestions
	for name := range found {
		if _, ok := reg.Speakers.Items[name]; !ok {
			suggestions.MissingSpeakers = append(suggestions.MissingSpeakers, name)
		}
		resolved := resolver.Resolve(name)
		if _, isTarget := targets[name]; resolved.Method == MethodFallback && !isTarget {
			suggestions.MissingPatterns = append(suggestions.MissingPatterns, name)
		}
	}

	sort.Strings(suggestions.MissingSpeakers)
	sort.Strings(suggestions.MissingPatterns)
	return suggestions
}

// namesNearCues returns word tokens directly before or after an attribution
// cue, the two shapes reported speech takes ("Name said" / "said Name").
func namesNearCues(text string, cues []string) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	tokens := strings.Fields(text)
	var names []string
	for i, token := range tokens {
		if !isCueToken(token, cues) {
			continue
		}
		if i > 0 {
			if name := cleanNameToken(tokens[i-1]); name != "" {
				names = append(names, name)
			}
		}
		if i+1 < len(tokens) {
			if name := cleanNameToken(tokens[i+1]); name != "" {
				names = append(names, name)
			}
		}
	}
	return names
}

func isCueToken(token string, cues []string) bool {
	token = strings.TrimFunc(token, unicode.IsPunct)
	for _, cue := range cues {
		if strings.EqualFold(token, cue) {
			return true
		}
	}
	return false
}

func cleanNameToken(token string) string {
	token = strings.TrimFunc(token, unicode.IsPunct)
	for _, r := range token {
		if !unicode.IsLetter(r) {
			return ""
		}
	}
	return token
}
