package icon

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Payload is the unit stored by the offline cache: either a single Datum or
// a sequence of them. The zero Payload is absent and encodes as JSON null.
//
// The single/sequence shape is preserved across a JSON round-trip: a single
// datum encodes as an object, a sequence (even of length one) as an array.
type Payload struct {
	icons []Datum
	multi bool
}

// Single returns a Payload holding exactly d.
func Single(d Datum) Payload {
	return Payload{icons: []Datum{d.Clone()}}
}

// Many returns a sequence Payload. Many() with no arguments is an empty,
// but present, sequence.
func Many(ds ...Datum) Payload {
	icons := make([]Datum, len(ds))
	for i, d := range ds {
		icons[i] = d.Clone()
	}
	return Payload{icons: icons, multi: true}
}

// IsZero reports whether p is absent.
func (p Payload) IsZero() bool {
	return !p.multi && len(p.icons) == 0
}

// IsMulti reports whether p is a sequence.
func (p Payload) IsMulti() bool {
	return p.multi
}

// Len returns the number of icons in p.
func (p Payload) Len() int {
	return len(p.icons)
}

// Icons returns a copy of the icons held by p.
func (p Payload) Icons() []Datum {
	if p.IsZero() {
		return nil
	}
	out := make([]Datum, len(p.icons))
	for i, d := range p.icons {
		out[i] = d.Clone()
	}
	return out
}

// Names returns the icon names in payload order.
func (p Payload) Names() []string {
	names := make([]string, len(p.icons))
	for i, d := range p.icons {
		names[i] = d.Name
	}
	return names
}

// Validate reports the first icon in p holding text that is not valid UTF-8.
func (p Payload) Validate() error {
	for i, d := range p.icons {
		if err := d.Validate(); err != nil {
			return fmt.Errorf("payload[%d]: %w", i, err)
		}
	}
	return nil
}

// MarshalJSON encodes a single datum as an object and a sequence as an array.
// Payloads that fail Validate are rejected rather than silently rewritten.
func (p Payload) MarshalJSON() ([]byte, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	switch {
	case p.IsZero():
		return []byte("null"), nil
	case p.multi:
		return json.Marshal(p.icons)
	default:
		return json.Marshal(p.icons[0])
	}
}

// UnmarshalJSON accepts null, an object, or an array.
func (p *Payload) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return fmt.Errorf("payload: empty input")
	}

	switch trimmed[0] {
	case 'n':
		if !bytes.Equal(trimmed, []byte("null")) {
			return fmt.Errorf("payload: invalid literal %q", trimmed)
		}
		*p = Payload{}
		return nil
	case '[':
		var icons []Datum
		if err := json.Unmarshal(trimmed, &icons); err != nil {
			return fmt.Errorf("payload: %w", err)
		}
		if icons == nil {
			icons = []Datum{}
		}
		*p = Payload{icons: icons, multi: true}
		return nil
	case '{':
		var d Datum
		if err := json.Unmarshal(trimmed, &d); err != nil {
			return fmt.Errorf("payload: %w", err)
		}
		*p = Payload{icons: []Datum{d}}
		return nil
	default:
		return fmt.Errorf("payload: expected object, array or null, got %q", trimmed[0])
	}
}
