package offline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/roach88/animicons/internal/icon"
)

// LocalStore is the synchronous flat-store backend. It keeps one serialized
// envelope under a single key of a KeyValue medium and never suspends.
type LocalStore struct {
	medium    KeyValue
	key       string
	version   string
	logger    *slog.Logger
	now       func() time.Time
	available bool
}

var (
	_ Backend   = (*LocalStore)(nil)
	_ Inspector = (*LocalStore)(nil)
)

// NewLocalStore creates a flat store over medium. A nil medium, or one that
// reports itself unavailable, turns every operation into a no-op.
func NewLocalStore(medium KeyValue, opts ...Option) *LocalStore {
	o := buildOptions(opts)
	s := &LocalStore{
		medium:  medium,
		key:     o.storageKey,
		version: o.version,
		logger:  o.logger.With("backend", "local"),
		now:     o.now,
	}

	s.available = medium != nil
	if checker, ok := medium.(availabilityChecker); ok && s.available {
		s.available = checker.Available()
	}
	if !s.available {
		s.logger.Warn("offline storage medium unavailable; icon data will not persist", "key", s.key)
	}
	return s
}

// Key returns the slot key.
func (s *LocalStore) Key() string { return s.key }

// Version returns the current schema version.
func (s *LocalStore) Version() string { return s.version }

// Store serializes a fresh envelope and overwrites the slot.
func (s *LocalStore) Store(_ context.Context, data icon.Payload) Outcome {
	if !s.available {
		return Unavailable("store icon data")
	}

	text, err := EncodeEnvelope(NewEnvelope(s.version, s.now(), data))
	if err != nil {
		return s.degrade("store icon data", err)
	}
	if err := s.medium.Set(s.key, string(text)); err != nil {
		return s.degrade("store icon data", fmt.Errorf("%w: %v", ErrStorageIO, err))
	}
	return Succeeded()
}

// Load reads and validates the stored envelope.
func (s *LocalStore) Load(_ context.Context) (icon.Payload, Outcome) {
	if !s.available {
		return icon.Payload{}, Unavailable("load icon data")
	}

	env, _, outcome := s.read("load icon data")
	if !outcome.OK() {
		return icon.Payload{}, outcome
	}
	return env.classify(s.version)
}

// Has reports whether a valid, non-null envelope is stored.
func (s *LocalStore) Has(ctx context.Context) bool {
	_, outcome := s.Load(ctx)
	return outcome.OK()
}

// Clear removes the slot.
func (s *LocalStore) Clear(_ context.Context) Outcome {
	if !s.available {
		return Unavailable("clear icon data")
	}
	if err := s.medium.Remove(s.key); err != nil {
		return s.degrade("clear icon data", fmt.Errorf("%w: %v", ErrStorageIO, err))
	}
	return Succeeded()
}

// Info describes the stored envelope regardless of its version.
func (s *LocalStore) Info(_ context.Context) (StorageInfo, bool) {
	if !s.available {
		return StorageInfo{}, false
	}

	env, size, outcome := s.read("storage info")
	if !outcome.OK() {
		return StorageInfo{}, false
	}
	return StorageInfo{Size: size, Timestamp: env.Timestamp, Version: env.Version}, true
}

// read fetches and decodes the raw envelope. The outcome is StatusOK when an
// envelope was decoded, whatever its version.
func (s *LocalStore) read(op string) (Envelope, int, Outcome) {
	text, found, err := s.medium.Get(s.key)
	if err != nil {
		return Envelope{}, 0, s.degrade(op, fmt.Errorf("%w: %v", ErrStorageIO, err))
	}
	if !found || text == "" {
		return Envelope{}, 0, Absent()
	}

	env, err := DecodeEnvelope([]byte(text))
	if err != nil {
		return Envelope{}, 0, s.degrade(op, err)
	}
	return env, len(text), Succeeded()
}

func (s *LocalStore) degrade(op string, err error) Outcome {
	outcome := Failure(op, err)
	s.logger.Warn("offline storage operation failed", "op", op, "key", s.key, "error", outcome.Err)
	return outcome
}
