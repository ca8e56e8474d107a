package library

import (
	"github.com/roach88/animicons/internal/icon"
	"github.com/roach88/animicons/internal/offline"
)

// Library defaults.
const (
	DefaultBaseURL = "https://api.animated-icons.com"
	DefaultSize    = 24
	DefaultColor   = "currentColor"
)

// Config holds the library configuration. It is a plain value: copying it
// yields an independent configuration (OfflineStorage is shared by reference).
type Config struct {
	// BaseURL is the remote icon service. It is carried for host
	// applications; the library never fetches from it.
	BaseURL string

	// OfflineStorage overrides the default backend. Only consulted at
	// construction.
	OfflineStorage offline.Backend

	DefaultAnimation  icon.AnimationConfig
	DefaultSize       int
	DefaultColor      string
	EnableOfflineMode bool
}

// DefaultConfig returns the configuration used before any overrides.
func DefaultConfig() Config {
	anim, _ := icon.AnimationDefaults(icon.AnimationFade)
	return Config{
		BaseURL:           DefaultBaseURL,
		DefaultAnimation:  anim,
		DefaultSize:       DefaultSize,
		DefaultColor:      DefaultColor,
		EnableOfflineMode: true,
	}
}

// Patch is a partial Config. Nil fields are left unchanged by Apply.
type Patch struct {
	BaseURL           *string
	OfflineStorage    offline.Backend
	DefaultAnimation  *icon.AnimationConfig
	DefaultSize       *int
	DefaultColor      *string
	EnableOfflineMode *bool
}

// Apply returns c with every field supplied in p overriding it. The merge is
// shallow: DefaultAnimation is replaced as a whole.
func (p Patch) Apply(c Config) Config {
	if p.BaseURL != nil {
		c.BaseURL = *p.BaseURL
	}
	if p.OfflineStorage != nil {
		c.OfflineStorage = p.OfflineStorage
	}
	if p.DefaultAnimation != nil {
		c.DefaultAnimation = *p.DefaultAnimation
	}
	if p.DefaultSize != nil {
		c.DefaultSize = *p.DefaultSize
	}
	if p.DefaultColor != nil {
		c.DefaultColor = *p.DefaultColor
	}
	if p.EnableOfflineMode != nil {
		c.EnableOfflineMode = *p.EnableOfflineMode
	}
	return c
}

// Ptr returns a pointer to v, for building Patches.
func Ptr[T any](v T) *T {
	return &v
}
