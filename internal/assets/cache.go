// Package assets manages the content-addressed asset cache shared by
// ingest jobs and speaker registries.
package assets

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofrs/flock"

	"storyglot/internal/fileutil"
	"storyglot/internal/logging"
	"storyglot/internal/services"
	"storyglot/internal/speaker"
)

const registryFileName = "assets.json"

var cacheSubdirs = []string{"images", "animations", "audio", "constants", "registries"}

// Entry describes one cached asset keyed by its full content hash.
type Entry struct {
	Kind    string `json:"kind"`
	Name    string `json:"name"`
	Path    string `json:"path"`
	AddedAt string `json:"added_at"`
}

// RegistryFile is the on-disk shape of the asset registry.
type RegistryFile struct {
	Version   int              `json:"version"`
	UpdatedAt string           `json:"updated_at"`
	Items     map[string]Entry `json:"items"`
}

// Cache is a content-addressed store rooted at the configured assets
// directory. Files are stored under kind subdirectories with names
// derived from their sha256 hash, so re-adding identical content is a
// no-op.
type Cache struct {
	root   string
	logger *slog.Logger
}

func NewCache(root string, logger *slog.Logger) *Cache {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Cache{root: root, logger: logger}
}

// Init creates the cache directory layout and seeds empty registry
// files. Existing files are left untouched.
func (c *Cache) Init() error {
	for _, sub := range cacheSubdirs {
		if err := os.MkdirAll(filepath.Join(c.root, sub), 0o755); err != nil {
			return services.Wrap(services.ErrConfiguration, "assets", "init", "create cache directory", err)
		}
	}
	path := c.registryPath()
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		empty := RegistryFile{Version: 1, UpdatedAt: nowStamp(), Items: map[string]Entry{}}
		if err := writeJSON(path, empty); err != nil {
			return services.Wrap(services.ErrConfiguration, "assets", "init", "seed asset registry", err)
		}
	} else if err != nil {
		return services.Wrap(services.ErrConfiguration, "assets", "init", "inspect asset registry", err)
	}
	c.logger.Info("asset cache initialized", logging.String("root", c.root))
	return nil
}

// AddConstant copies a JSON constants file into the cache under a
// hash-derived name and records it in the registry. It returns the
// cache-relative path of the stored file. Adding content that is
// already cached returns the existing path without rewriting anything.
func (c *Cache) AddConstant(srcPath, name string) (string, error) {
	if strings.TrimSpace(name) == "" {
		name = strings.TrimSuffix(filepath.Base(srcPath), filepath.Ext(srcPath))
	}
	var raw json.RawMessage
	if err := readJSON(srcPath, &raw); err != nil {
		return "", services.Wrap(services.ErrMalformedInput, "assets", "add-constant", "constants file must be valid JSON", err)
	}

	sum, err := fileutil.HashFile(srcPath)
	if err != nil {
		return "", services.Wrap(services.ErrMalformedInput, "assets", "add-constant", "hash constants file", err)
	}
	relPath := filepath.Join("constants", fmt.Sprintf("sha256_%s.json", sum[:12]))
	target := filepath.Join(c.root, relPath)

	var existed bool
	if _, err := os.Stat(target); err == nil {
		existed = true
	} else if !errors.Is(err, fs.ErrNotExist) {
		return "", services.Wrap(services.ErrConfiguration, "assets", "add-constant", "inspect cache target", err)
	}
	if !existed {
		copied, err := fileutil.CopyVerified(srcPath, target)
		if err != nil {
			return "", services.Wrap(services.ErrConfiguration, "assets", "add-constant", "copy into cache", err)
		}
		if copied != sum {
			return "", services.Wrap(services.ErrValidation, "assets", "add-constant", "source changed during copy", nil)
		}
	}

	err = c.withLock(func() error {
		reg, err := c.loadRegistry()
		if err != nil {
			return err
		}
		if _, ok := reg.Items[sum]; ok && existed {
			return nil
		}
		reg.Items[sum] = Entry{Kind: "constants", Name: name, Path: relPath, AddedAt: nowStamp()}
		reg.UpdatedAt = nowStamp()
		return writeJSON(c.registryPath(), reg)
	})
	if err != nil {
		return "", err
	}

	c.logger.Info("constant cached",
		logging.String("name", name),
		logging.String("path", relPath),
		logging.Bool("deduplicated", existed))
	return relPath, nil
}

// The remaining asset kinds are placeholders until their producers
// land. They fail with a distinct exit status so callers can tell a
// missing feature apart from a broken one.

func (c *Cache) AddImage(srcPath string) (string, error) {
	return "", services.Wrap(services.ErrNotImplemented, "assets", "add-image", "image assets are not available yet", nil)
}

func (c *Cache) AddAnimation(srcPath string) (string, error) {
	return "", services.Wrap(services.ErrNotImplemented, "assets", "add-animation", "animation assets are not available yet", nil)
}

func (c *Cache) AddAudio(srcPath string) (string, error) {
	return "", services.Wrap(services.ErrNotImplemented, "assets", "add-audio", "audio assets are not available yet", nil)
}

// List returns registry entries ordered by hash for stable output.
func (c *Cache) List() (map[string]Entry, error) {
	reg, err := c.loadRegistry()
	if err != nil {
		return nil, err
	}
	return reg.Items, nil
}

// RegistriesDir exposes the speaker registry directory inside this
// cache so command wiring has a single authority for the layout.
func (c *Cache) RegistriesDir() string {
	return speaker.RegistriesDir(c.root)
}

func (c *Cache) registryPath() string {
	return filepath.Join(c.root, "registries", registryFileName)
}

func (c *Cache) loadRegistry() (*RegistryFile, error) {
	reg := &RegistryFile{Version: 1, Items: map[string]Entry{}}
	err := readJSON(c.registryPath(), reg)
	if errors.Is(err, fs.ErrNotExist) {
		return reg, nil
	}
	if err != nil {
		return nil, services.Wrap(services.ErrMalformedInput, "assets", "load-registry", "read asset registry", err)
	}
	if reg.Items == nil {
		reg.Items = map[string]Entry{}
	}
	return reg, nil
}

func (c *Cache) withLock(fn func() error) error {
	lock := flock.New(filepath.Join(c.root, "registries", ".assets.lock"))
	if err := lock.Lock(); err != nil {
		return services.Wrap(services.ErrConfiguration, "assets", "lock", "acquire registry lock", err)
	}
	defer func() {
		_ = lock.Unlock()
	}()
	return fn()
}

func readJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, v)
}

func writeJSON(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	var buf strings.Builder
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(buf.String()), 0o644)
}

func nowStamp() string {
	return time.Now().UTC().Format(time.RFC3339)
}
