// Package catalog loads the icon registry, metadata table, and categories
// from a CUE catalog.
//
// A catalog is a CUE file with two top-level structs:
//
//	icons: heart: {
//		path:    "M20.84 4.61..."
//		viewBox: "0 0 24 24"          // optional, defaults to "0 0 24 24"
//		metadata: {name: "Heart", category: "emotions", tags: [...], description: "..."}
//	}
//	categories: emotions: {name: "Emotions", icons: ["heart"]}
//
// The file is unified with an embedded schema, so unknown fields and type
// errors are reported with their CUE position. Icons register in the order
// they are declared.
package catalog

import (
	_ "embed"
	"fmt"
	"os"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"

	"github.com/roach88/animicons/internal/icon"
)

const schemaFilename = "schema.cue"

//go:embed schema.cue
var schemaCUE string

//go:embed default.cue
var defaultCUE []byte

// Entry is one catalog icon.
type Entry struct {
	Key        string
	Definition icon.Definition
	Metadata   *icon.Metadata
}

// Catalog is a loaded icon catalog.
type Catalog struct {
	entries    []Entry
	categories []icon.Category
}

// CompileError reports a catalog problem, with CUE position when known.
type CompileError struct {
	Field   string
	Message string
	Pos     token.Pos
}

func (e *CompileError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s",
			e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(),
			e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Default returns the built-in catalog.
func Default() (*Catalog, error) {
	return Load(defaultCUE, "default.cue")
}

// LoadFile reads and loads the catalog at path.
func LoadFile(path string) (*Catalog, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	return Load(src, path)
}

// Load compiles src (reported as filename in errors) against the catalog
// schema.
func Load(src []byte, filename string) (*Catalog, error) {
	ctx := cuecontext.New()

	schema := ctx.CompileString(schemaCUE, cue.Filename(schemaFilename))
	if err := schema.Err(); err != nil {
		return nil, fmt.Errorf("compile catalog schema: %w", err)
	}

	v := ctx.CompileBytes(src, cue.Filename(filename))
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	v = schema.Unify(v)
	if err := v.Validate(); err != nil {
		return nil, formatCUEError(err)
	}

	c := &Catalog{}
	if err := c.parseIcons(v.LookupPath(cue.ParsePath("icons"))); err != nil {
		return nil, err
	}
	if err := c.parseCategories(v.LookupPath(cue.ParsePath("categories"))); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Catalog) parseIcons(v cue.Value) error {
	if !v.Exists() {
		return &CompileError{Field: "icons", Message: "icons is required"}
	}
	iter, err := v.Fields()
	if err != nil {
		return formatCUEError(err)
	}
	for iter.Next() {
		entry, err := parseIcon(iter.Label(), iter.Value())
		if err != nil {
			return err
		}
		c.entries = append(c.entries, entry)
	}
	if len(c.entries) == 0 {
		return &CompileError{Field: "icons", Message: "at least one icon is required", Pos: v.Pos()}
	}
	return nil
}

func parseIcon(key string, v cue.Value) (Entry, error) {
	entry := Entry{Key: key, Definition: icon.Definition{Name: key}}

	// Fields() skips optional fields that were never filled in
	iter, err := v.Fields()
	if err != nil {
		return Entry{}, formatCUEError(err)
	}
	for iter.Next() {
		field := iter.Value()
		switch iter.Label() {
		case "path":
			entry.Definition.Path, err = stringValue(field, "icons."+key+".path")
		case "viewBox":
			entry.Definition.ViewBox, err = stringValue(field, "icons."+key+".viewBox")
		case "metadata":
			var meta icon.Metadata
			if decodeErr := field.Decode(&meta); decodeErr != nil {
				err = formatCUEError(decodeErr)
			}
			entry.Metadata = &meta
		}
		if err != nil {
			return Entry{}, err
		}
	}

	if entry.Definition.Path == "" {
		return Entry{}, &CompileError{Field: "icons." + key, Message: "path is required", Pos: v.Pos()}
	}
	return entry, nil
}

func (c *Catalog) parseCategories(v cue.Value) error {
	if !v.Exists() {
		return nil
	}
	iter, err := v.Fields()
	if err != nil {
		return formatCUEError(err)
	}

	known := make(map[string]bool, len(c.entries))
	for _, e := range c.entries {
		known[e.Key] = true
	}

	for iter.Next() {
		var cat icon.Category
		if err := iter.Value().Decode(&cat); err != nil {
			return formatCUEError(err)
		}
		for _, name := range cat.Icons {
			if !known[name] {
				return &CompileError{
					Field:   "categories." + iter.Label(),
					Message: fmt.Sprintf("unknown icon %q", name),
					Pos:     iter.Value().Pos(),
				}
			}
		}
		c.categories = append(c.categories, cat)
	}
	return nil
}

func stringValue(v cue.Value, field string) (string, error) {
	if d, ok := v.Default(); ok {
		v = d
	}
	s, err := v.String()
	if err != nil {
		return "", &CompileError{Field: field, Message: err.Error(), Pos: v.Pos()}
	}
	return s, nil
}

// formatCUEError extracts position info from CUE errors.
func formatCUEError(err error) error {
	if err == nil {
		return nil
	}

	errs := errors.Errors(err)
	if len(errs) == 0 {
		return err
	}

	first := errs[0]
	positions := errors.Positions(first)
	if len(positions) == 0 {
		return err
	}

	// Prefer a position in the catalog itself over one in the schema.
	pos := positions[0]
	for _, p := range positions {
		if p.Filename() != schemaFilename {
			pos = p
			break
		}
	}
	return &CompileError{Field: "cue", Message: first.Error(), Pos: pos}
}

// Entries returns the catalog icons in declaration order.
func (c *Catalog) Entries() []Entry {
	out := make([]Entry, len(c.entries))
	for i, e := range c.entries {
		if e.Metadata != nil {
			m := e.Metadata.Clone()
			e.Metadata = &m
		}
		out[i] = e
	}
	return out
}

// Names returns icon keys in declaration order.
func (c *Catalog) Names() []string {
	names := make([]string, len(c.entries))
	for i, e := range c.entries {
		names[i] = e.Key
	}
	return names
}

// Registry builds a registry whose loaders resolve the catalog definitions.
func (c *Catalog) Registry() *icon.Registry {
	r := icon.NewRegistry()
	for _, e := range c.entries {
		// keys come from CUE labels and are never empty
		_ = r.Register(e.Key, icon.StaticLoader(e.Definition))
	}
	return r
}

// Metadata builds the metadata table for icons that declare metadata.
func (c *Catalog) Metadata() icon.MetadataTable {
	entries := make(map[string]icon.Metadata, len(c.entries))
	for _, e := range c.entries {
		if e.Metadata != nil {
			entries[e.Key] = *e.Metadata
		}
	}
	return icon.NewMetadataTable(entries)
}

// Categories returns the category table in declaration order.
func (c *Catalog) Categories() []icon.Category {
	out := make([]icon.Category, len(c.categories))
	for i, cat := range c.categories {
		cat.Icons = append([]string(nil), cat.Icons...)
		out[i] = cat
	}
	return out
}

// Data returns every icon, with metadata, as a sequence payload for the
// offline cache.
func (c *Catalog) Data() icon.Payload {
	data := make([]icon.Datum, len(c.entries))
	for i, e := range c.entries {
		data[i] = e.Definition.Datum(e.Metadata)
	}
	return icon.Many(data...)
}
