// Package story models the normalized story document consumed by the line
// generation core.
package story

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// Document is a normalized story: an ordered list of scenes.
type Document struct {
	Title  string  `json:"title"`
	Scenes []Scene `json:"scenes"`
}

// Scene groups the narration and dialogue for one story beat.
type Scene struct {
	ID          string     `json:"id"`
	Summary     string     `json:"summary,omitempty"`
	VisualNotes string     `json:"visual_notes,omitempty"`
	Dialogue    []Dialogue `json:"dialogue,omitempty"`
}

// Dialogue is one narration unit. Speaker is a raw reference that may be a
// registry key or a display name; Text is a pointer so a missing field can be
// told apart from an empty string.
type Dialogue struct {
	Speaker string  `json:"speaker,omitempty"`
	Text    *string `json:"text,omitempty"`
}

// HasText reports whether the unit carries a text field at all.
func (d Dialogue) HasText() bool {
	return d.Text != nil
}

// TextValue returns the unit text, or "" when the field is absent.
func (d Dialogue) TextValue() string {
	if d.Text == nil {
		return ""
	}
	return *d.Text
}

// EffectiveID returns the scene id, substituting a placeholder when the
// document omitted it.
func (s Scene) EffectiveID() string {
	if strings.TrimSpace(s.ID) == "" {
		return "unknown"
	}
	return s.ID
}

// Load reads a normalized story document from disk.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read story %s: %w", path, err)
	}
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse story %s: %w", path, err)
	}
	return &doc, nil
}
