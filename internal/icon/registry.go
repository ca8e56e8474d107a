package icon

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/text/unicode/norm"
)

// Loader lazily resolves an icon's Definition.
type Loader func(ctx context.Context) (Definition, error)

// Registry is an ordered name -> Loader mapping. Names() reports names in
// registration order; re-registering a name replaces its loader in place.
//
// Thread-safety: Registry is safe for concurrent use.
type Registry struct {
	mu      sync.RWMutex
	order   []string
	loaders map[string]Loader
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{loaders: make(map[string]Loader)}
}

// NormalizeName returns the registry key for name.
func NormalizeName(name string) string {
	return norm.NFC.String(name)
}

// Register adds or replaces the loader for name.
func (r *Registry) Register(name string, loader Loader) error {
	if name == "" {
		return fmt.Errorf("register icon: name is required")
	}
	if loader == nil {
		return fmt.Errorf("register icon %q: loader is nil", name)
	}

	key := NormalizeName(name)

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.loaders[key]; !exists {
		r.order = append(r.order, key)
	}
	r.loaders[key] = loader
	return nil
}

// Lookup returns the loader for name.
func (r *Registry) Lookup(name string) (Loader, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	loader, ok := r.loaders[NormalizeName(name)]
	if !ok {
		return nil, fmt.Errorf("icon %q: %w", name, ErrUnknownIcon)
	}
	return loader, nil
}

// Has reports whether name is registered.
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.loaders[NormalizeName(name)]
	return ok
}

// Names returns registered names in registration order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, len(r.order))
	copy(names, r.order)
	return names
}

// Len returns the number of registered icons.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.order)
}

// StaticLoader returns a Loader that always resolves to def.
func StaticLoader(def Definition) Loader {
	return func(ctx context.Context) (Definition, error) {
		if err := ctx.Err(); err != nil {
			return Definition{}, err
		}
		return def, nil
	}
}
