package icon

import (
	"errors"
	"fmt"
	"unicode/utf8"
)

var (
	// ErrUnknownIcon is returned by a Registry when no loader is registered for a name.
	ErrUnknownIcon = errors.New("unknown icon")

	// ErrInvalidText is returned when a string field is not valid UTF-8.
	// encoding/json would otherwise replace the bad bytes with U+FFFD.
	ErrInvalidText = errors.New("invalid UTF-8 text")
)

// Metadata describes an icon. Values are sourced from a static table and are
// never mutated at runtime; tables hand out copies.
type Metadata struct {
	Name        string   `json:"name"`
	Category    string   `json:"category"`
	Tags        []string `json:"tags"`
	Description string   `json:"description"`
	Author      string   `json:"author,omitempty"`
	Version     string   `json:"version,omitempty"`
}

// Clone returns a deep copy of m.
func (m Metadata) Clone() Metadata {
	if m.Tags != nil {
		tags := make([]string, len(m.Tags))
		copy(tags, m.Tags)
		m.Tags = tags
	}
	return m
}

// Validate reports the first field of m that is not valid UTF-8.
func (m Metadata) Validate() error {
	fields := []struct{ name, value string }{
		{"name", m.Name},
		{"category", m.Category},
		{"description", m.Description},
		{"author", m.Author},
		{"version", m.Version},
	}
	for _, f := range fields {
		if !utf8.ValidString(f.value) {
			return fmt.Errorf("metadata %s: %w", f.name, ErrInvalidText)
		}
	}
	for i, tag := range m.Tags {
		if !utf8.ValidString(tag) {
			return fmt.Errorf("metadata tags[%d]: %w", i, ErrInvalidText)
		}
	}
	return nil
}

// Datum is the geometry of one icon as stored for offline use.
type Datum struct {
	Name     string    `json:"name"`
	Path     string    `json:"path"`
	ViewBox  string    `json:"viewBox"`
	Metadata *Metadata `json:"metadata,omitempty"`
}

// Clone returns a deep copy of d.
func (d Datum) Clone() Datum {
	if d.Metadata != nil {
		m := d.Metadata.Clone()
		d.Metadata = &m
	}
	return d
}

// Validate reports the first field of d that is not valid UTF-8.
func (d Datum) Validate() error {
	fields := []struct{ name, value string }{
		{"name", d.Name},
		{"path", d.Path},
		{"viewBox", d.ViewBox},
	}
	for _, f := range fields {
		if !utf8.ValidString(f.value) {
			return fmt.Errorf("icon %s: %w", f.name, ErrInvalidText)
		}
	}
	if d.Metadata != nil {
		if err := d.Metadata.Validate(); err != nil {
			return fmt.Errorf("icon %q: %w", d.Name, err)
		}
	}
	return nil
}

// Definition is what a registry loader resolves to: the name/path/viewBox
// triple a renderer needs.
type Definition struct {
	Name    string `json:"name"`
	Path    string `json:"path"`
	ViewBox string `json:"viewBox"`
}

// Datum converts the definition into offline Datum form.
func (d Definition) Datum(meta *Metadata) Datum {
	out := Datum{Name: d.Name, Path: d.Path, ViewBox: d.ViewBox}
	if meta != nil {
		m := meta.Clone()
		out.Metadata = &m
	}
	return out
}

// Category groups icons for browsing.
type Category struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Icons       []string `json:"icons"`
}
