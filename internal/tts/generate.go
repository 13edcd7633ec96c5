package tts

import (
	"fmt"
	"log/slog"
	"strings"

	"storyglot/internal/logging"
	"storyglot/internal/services"
	"storyglot/internal/speaker"
	"storyglot/internal/story"
)

// Options configures line generation.
type Options struct {
	MaxChars     int
	EnforceKnown bool
	Cues         Cues
}

// Line is one synthesizable output unit.
type Line struct {
	ID      string `json:"id"`
	Text    string `json:"text"`
	Speaker string `json:"speaker"`
}

// Result carries the generated lines plus the unresolved-speaker report for
// logging by the caller.
type Result struct {
	Lines      []Line
	Unresolved []string
}

// ResolutionError is the enforced-mode failure listing every distinct
// unresolved speaker reference, in first-seen order.
type ResolutionError struct {
	Names []string
}

func (e *ResolutionError) Error() string {
	return fmt.Sprintf("unresolved speakers: %s", strings.Join(e.Names, ", "))
}

func (e *ResolutionError) Unwrap() error {
	return services.ErrSpeakerResolution
}

// Generator runs the extraction, resolution, and line assembly pipeline over a
// story document against one registry snapshot.
type Generator struct {
	resolver *speaker.Resolver
	opts     Options
	logger   *slog.Logger
}

// NewGenerator builds a generator over a registry snapshot. A zero MaxChars
// falls back to 220; an empty cue set falls back to the defaults.
func NewGenerator(reg *speaker.Registry, opts Options, logger *slog.Logger) *Generator {
	if opts.MaxChars <= 0 {
		opts.MaxChars = 220
	}
	if len(opts.Cues.Verbs) == 0 {
		opts.Cues.Verbs = DefaultCues().Verbs
	}
	return &Generator{
		resolver: speaker.NewResolver(reg),
		opts:     opts,
		logger:   logging.NewComponentLogger(logger, "tts"),
	}
}

// Generate traverses the document scene by scene, unit by unit, in input
// order. It fails fast on malformed input; in enforced mode it fails after
// the full traversal when any speaker reference stayed unresolved, so the
// returned error lists every offending name.
func (g *Generator) Generate(doc *story.Document) (*Result, error) {
	result := &Result{}
	counter := 0

	for _, scene := range doc.Scenes {
		sceneID := scene.EffectiveID()
		for unitIdx, unit := range scene.Dialogue {
			if !unit.HasText() {
				return nil, services.Wrap(services.ErrMalformedInput, "tts", "generate",
					fmt.Sprintf("scene %s dialogue %d is missing its text field", sceneID, unitIdx), nil)
			}
			text := unit.TextValue()
			if strings.TrimSpace(text) == "" {
				continue
			}

			unitSpeaker := g.resolver.Resolve(unit.Speaker)

			segments, warnings := Extract(text, g.opts.Cues)
			for _, warn := range warnings {
				g.logger.Warn("quote extraction anomaly",
					logging.String("scene", sceneID),
					logging.Int("unit", unitIdx),
					logging.Int("position", warn.Position),
					logging.String("detail", warn.Message))
			}

			resolved := g.resolveSegments(segments, unitSpeaker)
			for _, chunk := range assemble(resolved, g.opts.MaxChars) {
				counter++
				result.Lines = append(result.Lines, Line{
					ID:      fmt.Sprintf("%s_%03d", sceneID, counter),
					Text:    chunk.text,
					Speaker: chunk.speaker,
				})
			}
		}
	}

	result.Unresolved = g.resolver.Report().Names()
	if len(result.Unresolved) > 0 {
		if g.opts.EnforceKnown {
			return nil, &ResolutionError{Names: result.Unresolved}
		}
		g.logger.Warn("unresolved speaker references fell back",
			logging.Int("count", len(result.Unresolved)),
			logging.String("fallback", g.resolver.Fallback()),
			logging.String("names", strings.Join(result.Unresolved, ", ")))
	}

	return result, nil
}

type resolvedSegment struct {
	text    string
	speaker string
}

// resolveSegments attaches a canonical speaker to every segment. Quotes with
// an attribution candidate resolve it through the registry; everything else
// inherits the enclosing unit's speaker.
func (g *Generator) resolveSegments(segments []Segment, unitSpeaker speaker.Resolved) []resolvedSegment {
	out := make([]resolvedSegment, 0, len(segments))
	for _, seg := range segments {
		id := unitSpeaker.ID
		if seg.Kind == SegmentQuote && seg.Candidate != "" {
			id = g.resolver.Resolve(seg.Candidate).ID
		}
		out = append(out, resolvedSegment{text: seg.Text, speaker: id})
	}
	return out
}

// assemble merges consecutive same-speaker segments while the combined text
// stays within the limit, then splits anything still over the limit. Merging
// across speakers is never allowed.
func assemble(segments []resolvedSegment, maxChars int) []resolvedSegment {
	var merged []resolvedSegment
	for _, seg := range segments {
		if n := len(merged); n > 0 {
			last := &merged[n-1]
			if last.speaker == seg.speaker && runeLen(last.text)+1+runeLen(seg.text) <= maxChars {
				last.text = last.text + " " + seg.text
				continue
			}
		}
		merged = append(merged, seg)
	}

	var out []resolvedSegment
	for _, seg := range merged {
		for _, chunk := range splitBounded(seg.text, maxChars) {
			out = append(out, resolvedSegment{text: chunk, speaker: seg.speaker})
		}
	}
	return out
}

func runeLen(s string) int {
	return len([]rune(s))
}
