package offline

import (
	"context"
	"errors"
	"fmt"

	"github.com/roach88/animicons/internal/icon"
)

// Backend is the storage contract shared by every offline backend.
//
// Implementations manage one slot and must degrade instead of failing:
// writes that cannot be persisted are logged and reported through the
// Outcome, reads that cannot be served report absence.
type Backend interface {
	// Store replaces the slot with a fresh envelope holding data.
	Store(ctx context.Context, data icon.Payload) Outcome

	// Load returns the stored payload. The payload is only meaningful when
	// the outcome is StatusOK.
	Load(ctx context.Context) (icon.Payload, Outcome)

	// Has reports whether Load would return a payload.
	Has(ctx context.Context) bool

	// Clear removes the slot. Clearing an empty slot succeeds.
	Clear(ctx context.Context) Outcome
}

// Inspector is implemented by backends that expose diagnostics about the
// stored envelope.
type Inspector interface {
	Info(ctx context.Context) (StorageInfo, bool)
}

// StorageInfo describes the envelope currently stored in a slot.
type StorageInfo struct {
	Size      int    `json:"size"`
	Timestamp int64  `json:"timestamp"`
	Version   string `json:"version"`
}

var (
	// ErrMediumUnavailable means the persistence medium does not exist in this
	// environment.
	ErrMediumUnavailable = errors.New("storage medium unavailable")

	// ErrSerialization means an envelope could not be encoded or decoded.
	ErrSerialization = errors.New("serialization failure")

	// ErrStorageIO means the flat key-value medium rejected a read or write.
	ErrStorageIO = errors.New("storage i/o failure")

	// ErrTransaction means opening the database, running a transaction, or
	// executing a request failed.
	ErrTransaction = errors.New("transaction failure")
)

// Status classifies the result of a backend operation.
type Status int

const (
	StatusOK Status = iota
	StatusAbsent
	StatusStale
	StatusUnavailable
	StatusFailed
	// StatusDisabled is reported by callers that skipped the backend
	// entirely, e.g. when offline mode is turned off.
	StatusDisabled
)

var statusNames = map[Status]string{
	StatusOK:          "ok",
	StatusAbsent:      "absent",
	StatusStale:       "stale",
	StatusUnavailable: "unavailable",
	StatusFailed:      "failed",
	StatusDisabled:    "disabled",
}

func (s Status) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return fmt.Sprintf("status(%d)", int(s))
}

// MarshalText implements encoding.TextMarshaler.
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// ParseStatus parses a status name as produced by String.
func ParseStatus(name string) (Status, error) {
	for s, n := range statusNames {
		if n == name {
			return s, nil
		}
	}
	return 0, fmt.Errorf("unknown status %q", name)
}

// Outcome is the typed result of a backend operation.
type Outcome struct {
	Status Status
	Err    error
}

// OK reports whether the operation did what was asked.
func (o Outcome) OK() bool {
	return o.Status == StatusOK
}

// Failed reports whether the operation was degraded by a failure, as opposed
// to legitimately finding nothing.
func (o Outcome) Failed() bool {
	return o.Status == StatusFailed || o.Status == StatusUnavailable
}

func (o Outcome) String() string {
	if o.Err != nil {
		return fmt.Sprintf("%s: %v", o.Status, o.Err)
	}
	return o.Status.String()
}

// Succeeded returns a StatusOK outcome.
func Succeeded() Outcome { return Outcome{Status: StatusOK} }

// Absent returns a StatusAbsent outcome.
func Absent() Outcome { return Outcome{Status: StatusAbsent} }

// Stale returns a StatusStale outcome.
func Stale() Outcome { return Outcome{Status: StatusStale} }

// Disabled returns a StatusDisabled outcome.
func Disabled() Outcome { return Outcome{Status: StatusDisabled} }

// Unavailable returns a StatusUnavailable outcome wrapping ErrMediumUnavailable.
func Unavailable(op string) Outcome {
	return Outcome{Status: StatusUnavailable, Err: fmt.Errorf("%s: %w", op, ErrMediumUnavailable)}
}

// Failure returns a StatusFailed outcome for err.
func Failure(op string, err error) Outcome {
	return Outcome{Status: StatusFailed, Err: fmt.Errorf("%s: %w", op, err)}
}
