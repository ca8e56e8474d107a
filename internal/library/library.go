// Package library is the single public surface for icon consumers. It
// composes the icon registry, the metadata table, and an offline backend.
package library

import (
	"context"
	"fmt"
	"log/slog"
	"reflect"
	"sync"

	"github.com/roach88/animicons/internal/icon"
	"github.com/roach88/animicons/internal/offline"
)

// Library orchestrates icon lookup and offline icon data.
//
// The offline backend is chosen once, at construction: Config.OfflineStorage
// when supplied, otherwise the default backend passed to New. UpdateConfig
// never re-selects it.
//
// Thread-safety: Library is safe for concurrent use.
type Library struct {
	registry   *icon.Registry
	metadata   icon.MetadataTable
	categories []icon.Category
	storage    offline.Backend
	logger     *slog.Logger

	mu     sync.RWMutex
	config Config
}

// Option configures a Library.
type Option func(*Library)

// WithLogger sets the logger for diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(l *Library) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// WithCategories sets the category table returned by Categories.
func WithCategories(categories []icon.Category) Option {
	return func(l *Library) {
		l.categories = cloneCategories(categories)
	}
}

// New creates a library. The patch is merged over DefaultConfig.
// defaultStorage may be nil, in which case offline operations degrade as if
// the medium were unavailable unless patch supplies OfflineStorage.
func New(registry *icon.Registry, metadata icon.MetadataTable, defaultStorage offline.Backend, patch Patch, opts ...Option) *Library {
	if registry == nil {
		registry = icon.NewRegistry()
	}

	l := &Library{
		registry: registry,
		metadata: metadata,
		logger:   slog.Default(),
		config:   patch.Apply(DefaultConfig()),
	}
	for _, opt := range opts {
		opt(l)
	}

	l.storage = l.config.OfflineStorage
	if isNilBackend(l.storage) {
		l.storage = defaultStorage
	}
	if isNilBackend(l.storage) {
		l.storage = offline.NewLocalStore(nil, offline.WithLogger(l.logger))
	}
	return l
}

// isNilBackend reports whether b is nil or an interface holding a nil pointer.
func isNilBackend(b offline.Backend) bool {
	if b == nil {
		return true
	}
	v := reflect.ValueOf(b)
	switch v.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan, reflect.Interface:
		return v.IsNil()
	}
	return false
}

// guard turns a backend panic into a failed outcome.
func (l *Library) guard(op string, outcome *offline.Outcome) {
	if r := recover(); r != nil {
		err := fmt.Errorf("backend panic: %v", r)
		l.logger.Error("offline storage operation failed", "op", op, "error", err)
		*outcome = offline.Failure(op, err)
	}
}

// Storage returns the backend selected at construction.
func (l *Library) Storage() offline.Backend {
	return l.storage
}

// GetIcon resolves the icon called name through its registered loader.
// Unknown names and failing loaders are logged and reported as absent.
func (l *Library) GetIcon(ctx context.Context, name string) (def icon.Definition, ok bool) {
	loader, err := l.registry.Lookup(name)
	if err != nil {
		l.logger.Error("failed to load icon", "icon", name, "error", err)
		return icon.Definition{}, false
	}

	defer func() {
		if r := recover(); r != nil {
			l.logger.Error("failed to load icon", "icon", name, "error", fmt.Errorf("loader panic: %v", r))
			def, ok = icon.Definition{}, false
		}
	}()

	def, err = loader(ctx)
	if err != nil {
		l.logger.Error("failed to load icon", "icon", name, "error", err)
		return icon.Definition{}, false
	}
	return def, true
}

// IconMetadata returns the metadata for name.
func (l *Library) IconMetadata(name string) (icon.Metadata, bool) {
	return l.metadata.Lookup(name)
}

// AvailableIcons returns registered icon names in registration order.
func (l *Library) AvailableIcons() []string {
	return l.registry.Names()
}

// HasIcon reports whether name is registered.
func (l *Library) HasIcon(name string) bool {
	return l.registry.Has(name)
}

// Categories returns a copy of the category table.
func (l *Library) Categories() []icon.Category {
	return cloneCategories(l.categories)
}

func (l *Library) offlineEnabled() bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.config.EnableOfflineMode
}

// StoreIconData persists data for offline use. With offline mode disabled
// it returns StatusDisabled without touching the backend.
func (l *Library) StoreIconData(ctx context.Context, data icon.Payload) (outcome offline.Outcome) {
	if !l.offlineEnabled() {
		return offline.Disabled()
	}
	defer l.guard("store icon data", &outcome)
	return l.storage.Store(ctx, data)
}

// StoredIconData returns the offline payload.
func (l *Library) StoredIconData(ctx context.Context) (payload icon.Payload, outcome offline.Outcome) {
	if !l.offlineEnabled() {
		return icon.Payload{}, offline.Disabled()
	}
	defer l.guard("load icon data", &outcome)
	return l.storage.Load(ctx)
}

// HasOfflineData reports whether offline data can be loaded.
func (l *Library) HasOfflineData(ctx context.Context) (has bool) {
	if !l.offlineEnabled() {
		return false
	}
	// a panicking backend leaves has false
	var outcome offline.Outcome
	defer l.guard("check icon data", &outcome)
	return l.storage.Has(ctx)
}

// ClearOfflineData removes the offline payload.
func (l *Library) ClearOfflineData(ctx context.Context) (outcome offline.Outcome) {
	if !l.offlineEnabled() {
		return offline.Disabled()
	}
	defer l.guard("clear icon data", &outcome)
	return l.storage.Clear(ctx)
}

// Config returns a copy of the current configuration.
func (l *Library) Config() Config {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.config
}

// UpdateConfig merges p over the current configuration. Supplying
// OfflineStorage updates the reported config but not the active backend.
func (l *Library) UpdateConfig(p Patch) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.config = p.Apply(l.config)
}

func cloneCategories(in []icon.Category) []icon.Category {
	if in == nil {
		return nil
	}
	out := make([]icon.Category, len(in))
	for i, c := range in {
		c.Icons = append([]string(nil), c.Icons...)
		out[i] = c
	}
	return out
}
