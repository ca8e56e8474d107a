package harness

import (
	"bytes"
	"fmt"
	"os"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/roach88/animicons/internal/offline"
)

// Scenario is a conformance test for the offline icon cache.
type Scenario struct {
	// Name uniquely identifies this scenario. It also names the golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Backends lists the backends to run the steps against, in order.
	// Defaults to [local].
	Backends []string `yaml:"backends,omitempty"`

	// Driver selects the database/sql driver for the sqlite backend.
	Driver string `yaml:"driver,omitempty"`

	// Version is the initial schema version. Defaults to offline.DefaultVersion.
	Version string `yaml:"version,omitempty"`

	// OfflineMode is the initial enable_offline_mode. Defaults to true.
	OfflineMode *bool `yaml:"offline_mode,omitempty"`

	Steps []Step `yaml:"steps"`
}

// Step is one operation plus its optional expectations.
type Step struct {
	Op string `yaml:"op"`

	// Icons is the data for store. Omitted icons (and no catalog) store a
	// null payload; an explicit empty list stores an empty sequence.
	Icons []IconData `yaml:"icons,omitempty"`

	// Single stores Icons[0] as a single datum instead of a sequence.
	Single bool `yaml:"single,omitempty"`

	// Catalog stores every icon of the built-in catalog.
	Catalog bool `yaml:"catalog,omitempty"`

	// Version is the new schema version for rev_version.
	Version string `yaml:"version,omitempty"`

	// Enabled is the new enable_offline_mode for offline.
	Enabled *bool `yaml:"enabled,omitempty"`

	ExpectStatus string   `yaml:"expect_status,omitempty"`
	ExpectHas    *bool    `yaml:"expect_has,omitempty"`
	ExpectIcons  []string `yaml:"expect_icons,omitempty"`
}

// IconData is an icon datum as written in a scenario.
type IconData struct {
	Name    string `yaml:"name"`
	Path    string `yaml:"path"`
	ViewBox string `yaml:"viewBox,omitempty"`
}

// Step operations.
const (
	OpStore      = "store"
	OpLoad       = "load"
	OpHas        = "has"
	OpClear      = "clear"
	OpRaw        = "raw"
	OpRevVersion = "rev_version"
	OpOffline    = "offline"
)

// Backend names.
const (
	BackendLocal  = "local"
	BackendSQLite = "sqlite"
)

var validOps = []string{OpStore, OpLoad, OpHas, OpClear, OpRaw, OpRevVersion, OpOffline}

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	return ParseScenario(data)
}

// ParseScenario parses scenario YAML with strict field validation.
func ParseScenario(data []byte) (*Scenario, error) {
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true) // Reject unknown fields
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &scenario, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Description == "" {
		return fmt.Errorf("description is required")
	}
	if len(s.Steps) == 0 {
		return fmt.Errorf("steps list is required and must be non-empty")
	}

	for i, b := range s.Backends {
		if b != BackendLocal && b != BackendSQLite {
			return fmt.Errorf("backends[%d]: unknown backend %q", i, b)
		}
	}
	if s.Driver != "" && s.Driver != offline.DriverSQLite3 && s.Driver != offline.DriverSQLite {
		return fmt.Errorf("unknown driver %q", s.Driver)
	}

	for i, step := range s.Steps {
		if err := validateStep(step); err != nil {
			return fmt.Errorf("steps[%d]: %w", i, err)
		}
	}
	return nil
}

func validateStep(step Step) error {
	if !slices.Contains(validOps, step.Op) {
		return fmt.Errorf("unknown op %q", step.Op)
	}

	switch step.Op {
	case OpStore:
		if step.Catalog && step.Icons != nil {
			return fmt.Errorf("store: catalog and icons are mutually exclusive")
		}
		if step.Single && len(step.Icons) != 1 {
			return fmt.Errorf("store: single requires exactly one icon, got %d", len(step.Icons))
		}
		for j, ic := range step.Icons {
			if ic.Name == "" {
				return fmt.Errorf("store: icons[%d]: name is required", j)
			}
		}
	case OpRevVersion:
		if step.Version == "" {
			return fmt.Errorf("rev_version: version is required")
		}
	case OpOffline:
		if step.Enabled == nil {
			return fmt.Errorf("offline: enabled is required")
		}
	}

	if step.ExpectStatus != "" {
		if step.Op != OpStore && step.Op != OpLoad && step.Op != OpClear {
			return fmt.Errorf("%s: expect_status applies to store, load and clear", step.Op)
		}
		if _, err := offline.ParseStatus(step.ExpectStatus); err != nil {
			return fmt.Errorf("%s: %w", step.Op, err)
		}
	}
	if step.ExpectHas != nil && step.Op != OpHas && step.Op != OpRaw {
		return fmt.Errorf("%s: expect_has applies to has and raw", step.Op)
	}
	if step.ExpectIcons != nil && step.Op != OpLoad {
		return fmt.Errorf("%s: expect_icons applies to load", step.Op)
	}
	return nil
}

// backends returns the configured backends or the default.
func (s *Scenario) backends() []string {
	if len(s.Backends) == 0 {
		return []string{BackendLocal}
	}
	return s.Backends
}
