package speaker

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"github.com/gofrs/flock"

	"storyglot/internal/services"
)

// Registry files are mutated only by these maintenance operations, never by
// the line generation core. A file lock serializes writers so concurrent
// maintenance invocations cannot interleave.

func withRegistryLock(assetsDir string, fn func() error) error {
	dir := RegistriesDir(assetsDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create registries directory: %w", err)
	}
	lock := flock.New(filepath.Join(dir, ".lock"))
	if err := lock.Lock(); err != nil {
		return fmt.Errorf("acquire registry lock: %w", err)
	}
	defer func() { _ = lock.Unlock() }()
	return fn()
}

// Init creates the registry files if they do not exist. An existing registry
// is left untouched.
func Init(assetsDir string) error {
	return withRegistryLock(assetsDir, func() error {
		spath := speakersPath(assetsDir)
		if _, err := os.Stat(spath); os.IsNotExist(err) {
			speakers := SpeakersFile{
				Version:   1,
				UpdatedAt: nowStamp(),
				Items: map[string]Record{
					DefaultFallback: {
						DisplayName:  "Оповідач",
						DefaultVoice: "voice_narrator",
						Lang:         "uk",
						Pitch:        0,
						Rate:         1.0,
						Style:        "calm",
					},
				},
			}
			if err := writeJSONFile(spath, speakers); err != nil {
				return err
			}
		}

		mpath := nameMapPath(assetsDir)
		if _, err := os.Stat(mpath); os.IsNotExist(err) {
			nameMap := NameMapFile{
				Version:   1,
				UpdatedAt: nowStamp(),
				Patterns:  []MapPattern{},
				Fallback:  DefaultFallback,
			}
			if err := writeJSONFile(mpath, nameMap); err != nil {
				return err
			}
		}
		return nil
	})
}

// Add inserts or replaces a speaker record.
func Add(assetsDir, id string, rec Record) error {
	return withRegistryLock(assetsDir, func() error {
		path := speakersPath(assetsDir)
		var speakers SpeakersFile
		if err := readJSONFile(path, &speakers); err != nil {
			return services.Wrap(services.ErrNotFound, "speakers", "add",
				"speakers registry not found; run 'speakers init' first", err)
		}
		if speakers.Items == nil {
			speakers.Items = map[string]Record{}
			speakers.Version = 1
		}
		speakers.Items[id] = rec
		speakers.UpdatedAt = nowStamp()
		return writeJSONFile(path, speakers)
	})
}

// LinkVoice updates the default voice of an existing speaker.
func LinkVoice(assetsDir, id, voice string) error {
	return withRegistryLock(assetsDir, func() error {
		path := speakersPath(assetsDir)
		var speakers SpeakersFile
		if err := readJSONFile(path, &speakers); err != nil {
			return services.Wrap(services.ErrNotFound, "speakers", "link-voice",
				"speakers registry not found; run 'speakers init' first", err)
		}
		rec, ok := speakers.Items[id]
		if !ok {
			return services.Wrap(services.ErrNotFound, "speakers", "link-voice",
				fmt.Sprintf("speaker %q not found in registry", id), nil)
		}
		rec.DefaultVoice = voice
		speakers.Items[id] = rec
		speakers.UpdatedAt = nowStamp()
		return writeJSONFile(path, speakers)
	})
}

// AddMapPattern appends a name mapping pattern. The pattern must be a valid
// regular expression; order in the file determines match precedence.
func AddMapPattern(assetsDir, pattern, target string) error {
	if _, err := regexp.Compile(pattern); err != nil {
		return services.Wrap(services.ErrValidation, "speakers", "add-map-pattern",
			fmt.Sprintf("invalid pattern %q", pattern), err)
	}
	return withRegistryLock(assetsDir, func() error {
		path := nameMapPath(assetsDir)
		var nameMap NameMapFile
		if err := readJSONFile(path, &nameMap); err != nil {
			return services.Wrap(services.ErrNotFound, "speakers", "add-map-pattern",
				"speaker name map not found; run 'speakers init' first", err)
		}
		if nameMap.Patterns == nil {
			nameMap.Version = 1
		}
		if nameMap.Fallback == "" {
			nameMap.Fallback = DefaultFallback
		}
		nameMap.Patterns = append(nameMap.Patterns, MapPattern{Pattern: pattern, Speaker: target})
		nameMap.UpdatedAt = nowStamp()
		return writeJSONFile(path, nameMap)
	})
}
