package speaker

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"storyglot/internal/logging"
)

const (
	speakersFileName = "speakers.json"
	nameMapFileName  = "speaker_name_map.json"

	// DefaultFallback is used when a name map does not declare a fallback
	// speaker of its own.
	DefaultFallback = "narrator"
)

// Record holds the voice parameters for one canonical speaker identity.
type Record struct {
	DisplayName  string  `json:"display_name"`
	DefaultVoice string  `json:"default_voice"`
	Lang         string  `json:"lang"`
	Pitch        int     `json:"pitch"`
	Rate         float64 `json:"rate"`
	Style        string  `json:"style"`
}

// SpeakersFile is the on-disk shape of the speakers registry.
type SpeakersFile struct {
	Version   int               `json:"version"`
	UpdatedAt string            `json:"updated_at"`
	Items     map[string]Record `json:"items"`
}

// MapPattern maps a name-matching regular expression to a canonical speaker.
// Patterns are tried in file order; first match wins.
type MapPattern struct {
	Pattern string `json:"pattern"`
	Speaker string `json:"speaker"`
}

// NameMapFile is the on-disk shape of the speaker name map.
type NameMapFile struct {
	Version   int          `json:"version"`
	UpdatedAt string       `json:"updated_at"`
	Patterns  []MapPattern `json:"patterns"`
	Fallback  string       `json:"fallback"`
}

// Registry is a read-only snapshot of both registries, loaded once per run.
type Registry struct {
	Speakers SpeakersFile
	NameMap  NameMapFile
}

// RegistriesDir returns the directory holding registry files under an assets root.
func RegistriesDir(assetsDir string) string {
	return filepath.Join(assetsDir, "registries")
}

func speakersPath(assetsDir string) string {
	return filepath.Join(RegistriesDir(assetsDir), speakersFileName)
}

func nameMapPath(assetsDir string) string {
	return filepath.Join(RegistriesDir(assetsDir), nameMapFileName)
}

// LoadRegistry reads both registry files from the assets directory. Missing or
// unreadable files degrade to empty registries with a warning so a run can
// proceed on the fallback speaker alone.
func LoadRegistry(assetsDir string, logger *slog.Logger) (*Registry, error) {
	logger = logging.NewComponentLogger(logger, "speakers")

	reg := &Registry{
		Speakers: SpeakersFile{Items: map[string]Record{}},
		NameMap:  NameMapFile{Fallback: DefaultFallback},
	}

	if err := readJSONFile(speakersPath(assetsDir), &reg.Speakers); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			logger.Warn("could not load speakers registry", logging.Error(err))
		}
		reg.Speakers = SpeakersFile{Items: map[string]Record{}}
	}
	if reg.Speakers.Items == nil {
		reg.Speakers.Items = map[string]Record{}
	}

	if err := readJSONFile(nameMapPath(assetsDir), &reg.NameMap); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			logger.Warn("could not load speaker name map", logging.Error(err))
		}
		reg.NameMap = NameMapFile{Fallback: DefaultFallback}
	}
	if reg.NameMap.Fallback == "" {
		reg.NameMap.Fallback = DefaultFallback
	}

	return reg, nil
}

// Has reports whether id is a known canonical identity, including the fallback.
func (r *Registry) Has(id string) bool {
	if _, ok := r.Speakers.Items[id]; ok {
		return true
	}
	return id == r.NameMap.Fallback
}

func readJSONFile(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}

// writeJSONFile marshals v with indentation and without HTML escaping so
// Cyrillic display names stay readable in the registry files.
func writeJSONFile(path string, v any) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

func nowStamp() string {
	return time.Now().UTC().Format(time.RFC3339)
}
