package harness

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/roach88/animicons/internal/catalog"
	"github.com/roach88/animicons/internal/icon"
	"github.com/roach88/animicons/internal/library"
	"github.com/roach88/animicons/internal/offline"
	"github.com/roach88/animicons/internal/testutil"
)

// Option configures Run.
type Option func(*runOptions)

type runOptions struct {
	logger *slog.Logger
}

// WithLogger routes backend and library logs to logger. Logs are discarded
// by default.
func WithLogger(logger *slog.Logger) Option {
	return func(o *runOptions) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// rig is one backend under test. It owns the medium so the backend can be
// reopened with another schema version against the same data.
type rig struct {
	name    string
	open    func(version string) (offline.Backend, error)
	cleanup func()

	backend offline.Backend
	lib     *library.Library
	enabled bool
}

// Harness executes scenario steps against one rig at a time.
type Harness struct {
	catalog *catalog.Catalog
	logger  *slog.Logger
}

// Run executes a scenario against each of its backends and returns the
// combined result.
//
// Each backend starts empty, in memory for local and in a temporary
// directory for sqlite, with its own deterministic clock.
func Run(scenario *Scenario, opts ...Option) (*Result, error) {
	o := runOptions{logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
	for _, opt := range opts {
		opt(&o)
	}

	cat, err := catalog.Default()
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	h := &Harness{catalog: cat, logger: o.logger}

	ctx := context.Background()
	result := NewResult()
	for _, name := range scenario.backends() {
		if err := h.runBackend(ctx, scenario, name, result); err != nil {
			return nil, fmt.Errorf("backend %s: %w", name, err)
		}
	}
	return result, nil
}

func (h *Harness) runBackend(ctx context.Context, scenario *Scenario, name string, result *Result) error {
	r, err := h.newRig(name, scenario.Driver)
	if err != nil {
		return err
	}
	defer r.cleanup()

	version := scenario.Version
	if version == "" {
		version = offline.DefaultVersion
	}
	r.enabled = scenario.OfflineMode == nil || *scenario.OfflineMode
	if err := h.reopen(r, version); err != nil {
		return err
	}

	for i, step := range scenario.Steps {
		ev, err := h.execute(ctx, r, step)
		if err != nil {
			return fmt.Errorf("steps[%d] (%s): %w", i, step.Op, err)
		}
		ev = result.addEvent(ev)
		for _, msg := range checkStep(step, ev) {
			result.AddError(fmt.Sprintf("%s steps[%d] (%s): %s", name, i, step.Op, msg))
		}
	}
	return nil
}

func (h *Harness) newRig(name, driver string) (*rig, error) {
	clock := testutil.NewDeterministicClock()
	common := func(version string) []offline.Option {
		return []offline.Option{
			offline.WithVersion(version),
			offline.WithNow(clock.Now),
			offline.WithLogger(h.logger),
		}
	}

	switch name {
	case BackendLocal:
		medium := offline.NewMemoryKV()
		return &rig{
			name: name,
			open: func(version string) (offline.Backend, error) {
				return offline.NewLocalStore(medium, common(version)...), nil
			},
			cleanup: func() {},
		}, nil

	case BackendSQLite:
		dir, err := os.MkdirTemp("", "animicons-scenario-")
		if err != nil {
			return nil, fmt.Errorf("create temp dir: %w", err)
		}
		path := offline.DatabasePath(dir, offline.DefaultDatabaseName)
		return &rig{
			name: name,
			open: func(version string) (offline.Backend, error) {
				return offline.NewSQLStore(path, append(common(version), offline.WithDriver(driver))...)
			},
			cleanup: func() { _ = os.RemoveAll(dir) },
		}, nil

	default:
		return nil, fmt.Errorf("unknown backend %q", name)
	}
}

// reopen rebuilds the backend at version and a library over it.
func (h *Harness) reopen(r *rig, version string) error {
	backend, err := r.open(version)
	if err != nil {
		return fmt.Errorf("open backend: %w", err)
	}
	r.backend = backend
	r.lib = library.New(h.catalog.Registry(), h.catalog.Metadata(), backend,
		library.Patch{EnableOfflineMode: library.Ptr(r.enabled)},
		library.WithLogger(h.logger),
		library.WithCategories(h.catalog.Categories()),
	)
	return nil
}

func (h *Harness) execute(ctx context.Context, r *rig, step Step) (TraceEvent, error) {
	ev := TraceEvent{Backend: r.name, Op: step.Op}

	switch step.Op {
	case OpStore:
		ev.Status = r.lib.StoreIconData(ctx, h.payload(step)).Status.String()

	case OpLoad:
		data, outcome := r.lib.StoredIconData(ctx)
		ev.Status = outcome.Status.String()
		ev.Payload = payloadShape(data)
		if !data.IsZero() {
			ev.Icons = data.Names()
		}

	case OpHas:
		ev.Has = boolPtr(r.lib.HasOfflineData(ctx))

	case OpClear:
		ev.Status = r.lib.ClearOfflineData(ctx).Status.String()

	case OpRaw:
		present := false
		if inspector, ok := r.backend.(offline.Inspector); ok {
			var info offline.StorageInfo
			info, present = inspector.Info(ctx)
			if present {
				ev.Version = info.Version
				ev.Timestamp = info.Timestamp
			}
		}
		ev.Has = boolPtr(present)

	case OpRevVersion:
		if err := h.reopen(r, step.Version); err != nil {
			return ev, err
		}
		ev.Version = step.Version

	case OpOffline:
		r.enabled = *step.Enabled
		r.lib.UpdateConfig(library.Patch{EnableOfflineMode: library.Ptr(r.enabled)})
		ev.Enabled = boolPtr(r.enabled)

	default:
		return ev, fmt.Errorf("unknown op %q", step.Op)
	}
	return ev, nil
}

func (h *Harness) payload(step Step) icon.Payload {
	if step.Catalog {
		return h.catalog.Data()
	}
	if step.Icons == nil {
		return icon.Payload{}
	}

	data := make([]icon.Datum, len(step.Icons))
	for i, ic := range step.Icons {
		viewBox := ic.ViewBox
		if viewBox == "" {
			viewBox = "0 0 24 24"
		}
		data[i] = icon.Datum{Name: ic.Name, Path: ic.Path, ViewBox: viewBox}
	}
	if step.Single {
		return icon.Single(data[0])
	}
	return icon.Many(data...)
}

func payloadShape(p icon.Payload) string {
	switch {
	case p.IsZero():
		return "null"
	case p.IsMulti():
		return "sequence"
	default:
		return "single"
	}
}

func boolPtr(b bool) *bool { return &b }
