package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/roach88/animicons/internal/offline"
)

// BoltFileName is the bbolt file used by the bolt medium inside DataDir.
const BoltFileName = "animicons.bolt"

// OpenBackend builds the default offline backend described by s.
//
// The returned close function releases the medium and is never nil. A
// medium that cannot be created (unwritable data dir, locked bolt file)
// yields an unavailable backend rather than an error, so callers keep
// working without offline data.
func OpenBackend(s Settings, logger *slog.Logger) (offline.Backend, func() error, error) {
	if logger == nil {
		logger = slog.Default()
	}
	noop := func() error { return nil }

	common := []offline.Option{
		offline.WithVersion(s.SchemaVersion),
		offline.WithLogger(logger),
	}

	switch s.Backend {
	case BackendLocal:
		opts := append(common, offline.WithStorageKey(s.StorageKey))
		medium, closeFn, err := openMedium(s)
		if err != nil {
			logger.Warn("offline medium could not be opened", "medium", s.Medium, "error", err)
			return offline.NewLocalStore(nil, opts...), noop, nil
		}
		return offline.NewLocalStore(medium, opts...), closeFn, nil

	case BackendSQLite:
		if err := os.MkdirAll(s.DataDir, 0o755); err != nil {
			logger.Warn("offline data directory could not be created", "dir", s.DataDir, "error", err)
		}
		opts := append(common, offline.WithTable(s.StoreName), offline.WithDriver(s.Driver))
		store, err := offline.NewSQLStore(offline.DatabasePath(s.DataDir, s.DatabaseName), opts...)
		if err != nil {
			return nil, noop, fmt.Errorf("open sqlite backend: %w", err)
		}
		return store, noop, nil

	default:
		return nil, noop, fmt.Errorf("invalid backend %q", s.Backend)
	}
}

func openMedium(s Settings) (offline.KeyValue, func() error, error) {
	noop := func() error { return nil }

	switch s.Medium {
	case MediumMemory:
		return offline.NewMemoryKV(), noop, nil
	case MediumFile:
		kv, err := offline.NewFileKV(s.DataDir)
		if err != nil {
			return nil, noop, err
		}
		return kv, noop, nil
	case MediumBolt:
		if err := os.MkdirAll(s.DataDir, 0o755); err != nil {
			return nil, noop, fmt.Errorf("create data dir: %w", err)
		}
		kv, err := offline.OpenBoltKV(filepath.Join(s.DataDir, BoltFileName))
		if err != nil {
			return nil, noop, err
		}
		return kv, kv.Close, nil
	default:
		return nil, noop, fmt.Errorf("invalid medium %q", s.Medium)
	}
}
