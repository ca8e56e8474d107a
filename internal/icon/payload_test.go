package icon

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func heartDatum() Datum {
	return Datum{
		Name:    "heart",
		Path:    "M20.84 4.61a5.5 5.5 0 0 0-7.78 0L12 5.67z",
		ViewBox: "0 0 24 24",
		Metadata: &Metadata{
			Name:        "Heart",
			Category:    "emotions",
			Tags:        []string{"heart", "love"},
			Description: "A heart icon",
		},
	}
}

func TestPayload_SingleEncodesAsObject(t *testing.T) {
	data, err := json.Marshal(Single(heartDatum()))
	require.NoError(t, err)
	assert.Equal(t, byte('{'), data[0])
}

func TestPayload_ManyEncodesAsArray(t *testing.T) {
	data, err := json.Marshal(Many(heartDatum()))
	require.NoError(t, err)
	assert.Equal(t, byte('['), data[0])
}

func TestPayload_ZeroEncodesAsNull(t *testing.T) {
	data, err := json.Marshal(Payload{})
	require.NoError(t, err)
	assert.Equal(t, "null", string(data))
	assert.True(t, Payload{}.IsZero())
}

func TestPayload_RoundTripPreservesShape(t *testing.T) {
	tests := []struct {
		name    string
		payload Payload
	}{
		{"single", Single(heartDatum())},
		{"many of one", Many(heartDatum())},
		{"many", Many(heartDatum(), Datum{Name: "home", Path: "M3 9l9-7", ViewBox: "0 0 24 24"})},
		{"empty sequence", Many()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := json.Marshal(tt.payload)
			require.NoError(t, err)

			var got Payload
			require.NoError(t, json.Unmarshal(data, &got))
			assert.Equal(t, tt.payload, got)
			assert.Equal(t, tt.payload.IsMulti(), got.IsMulti())
		})
	}
}

func TestPayload_MarshalRejectsInvalidUTF8(t *testing.T) {
	withMeta := heartDatum()
	withMeta.Metadata.Tags = []string{"love", "bad\xff"}

	tests := []struct {
		name    string
		payload Payload
	}{
		{"name", Single(Datum{Name: "bad\xff", Path: "M0 0", ViewBox: "0 0 24 24"})},
		{"path", Many(heartDatum(), Datum{Name: "home", Path: "M3\xc3", ViewBox: "0 0 24 24"})},
		{"metadata tag", Single(withMeta)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := json.Marshal(tt.payload)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidText)
		})
	}
}

func TestPayload_UnmarshalNull(t *testing.T) {
	p := Single(heartDatum())
	require.NoError(t, p.UnmarshalJSON([]byte("null")))
	assert.True(t, p.IsZero())
}

func TestPayload_UnmarshalRejectsScalars(t *testing.T) {
	var p Payload
	assert.Error(t, json.Unmarshal([]byte(`"heart"`), &p))
	assert.Error(t, json.Unmarshal([]byte(`42`), &p))
}

func TestPayload_IconsReturnsCopy(t *testing.T) {
	p := Single(heartDatum())

	icons := p.Icons()
	icons[0].Name = "mutated"
	icons[0].Metadata.Tags[0] = "mutated"

	again := p.Icons()
	assert.Equal(t, "heart", again[0].Name)
	assert.Equal(t, "heart", again[0].Metadata.Tags[0])
}

func TestPayload_SingleClonesInput(t *testing.T) {
	d := heartDatum()
	p := Single(d)
	d.Metadata.Tags[0] = "mutated"

	assert.Equal(t, "heart", p.Icons()[0].Metadata.Tags[0])
}

func TestPayload_Names(t *testing.T) {
	p := Many(Datum{Name: "a"}, Datum{Name: "b"})
	assert.Equal(t, []string{"a", "b"}, p.Names())
	assert.Equal(t, 2, p.Len())
}
