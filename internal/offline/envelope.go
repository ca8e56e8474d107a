package offline

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/roach88/animicons/internal/icon"
)

// Storage defaults.
const (
	// DefaultVersion is the current envelope schema version.
	DefaultVersion = "1.0.0"

	// DefaultStorageKey is the LocalStore slot key.
	DefaultStorageKey = "animated-icons-data"

	// DefaultDatabaseName is the SQLStore database name.
	DefaultDatabaseName = "AnimatedIconsDB"

	// DefaultTable is the SQLStore table name.
	DefaultTable = "iconData"

	// RecordID is the fixed primary key of the SQLStore record.
	RecordID = "icon-data"
)

// Envelope wraps a stored payload with its schema version and write time.
//
// Layout:
//
//	{"version": "1.0.0", "timestamp": 1700000000000, "data": {...} | [...]}
type Envelope struct {
	Version   string       `json:"version"`
	Timestamp int64        `json:"timestamp"`
	Data      icon.Payload `json:"data"`
}

// NewEnvelope stamps data with version and the epoch-millis time of now.
func NewEnvelope(version string, now time.Time, data icon.Payload) Envelope {
	return Envelope{
		Version:   version,
		Timestamp: now.UnixMilli(),
		Data:      data,
	}
}

// Valid reports whether the envelope was written under the current version.
func (e Envelope) Valid(current string) bool {
	return e.Version == current
}

// classify turns a decoded envelope into the payload and outcome for a read.
func (e Envelope) classify(current string) (icon.Payload, Outcome) {
	if !e.Valid(current) {
		return icon.Payload{}, Stale()
	}
	if e.Data.IsZero() {
		return icon.Payload{}, Absent()
	}
	return e.Data, Succeeded()
}

// EncodeEnvelope serializes e to JSON.
func EncodeEnvelope(e Envelope) ([]byte, error) {
	data, err := json.Marshal(e)
	if err != nil {
		return nil, fmt.Errorf("encode envelope: %w: %w", ErrSerialization, err)
	}
	return data, nil
}

// DecodeEnvelope parses a serialized envelope.
func DecodeEnvelope(data []byte) (Envelope, error) {
	var e Envelope
	if err := json.Unmarshal(data, &e); err != nil {
		return Envelope{}, fmt.Errorf("decode envelope: %w: %v", ErrSerialization, err)
	}
	return e, nil
}
