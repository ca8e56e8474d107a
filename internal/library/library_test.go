package library

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/animicons/internal/icon"
	"github.com/roach88/animicons/internal/offline"
)

// spyBackend records calls and delegates to an in-memory LocalStore.
type spyBackend struct {
	mu    sync.Mutex
	calls []string
	inner offline.Backend
}

func newSpyBackend() *spyBackend {
	return &spyBackend{inner: offline.NewLocalStore(offline.NewMemoryKV(), offline.WithLogger(discardLogger()))}
}

func (s *spyBackend) record(op string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, op)
}

func (s *spyBackend) Calls() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.calls...)
}

func (s *spyBackend) Store(ctx context.Context, data icon.Payload) offline.Outcome {
	s.record("store")
	return s.inner.Store(ctx, data)
}

func (s *spyBackend) Load(ctx context.Context) (icon.Payload, offline.Outcome) {
	s.record("load")
	return s.inner.Load(ctx)
}

func (s *spyBackend) Has(ctx context.Context) bool {
	s.record("has")
	return s.inner.Has(ctx)
}

func (s *spyBackend) Clear(ctx context.Context) offline.Outcome {
	s.record("clear")
	return s.inner.Clear(ctx)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

var heartDef = icon.Definition{
	Name:    "heart",
	Path:    "M20.84 4.61a5.5 5.5 0 0 0-7.78 0L12 5.67z",
	ViewBox: "0 0 24 24",
}

func newTestRegistry(t *testing.T) *icon.Registry {
	t.Helper()
	r := icon.NewRegistry()
	require.NoError(t, r.Register("heart", icon.StaticLoader(heartDef)))
	require.NoError(t, r.Register("broken", func(context.Context) (icon.Definition, error) {
		return icon.Definition{}, errors.New("chunk failed to load")
	}))
	require.NoError(t, r.Register("panicky", func(context.Context) (icon.Definition, error) {
		panic("boom")
	}))
	return r
}

func newTestMetadata() icon.MetadataTable {
	return icon.NewMetadataTable(map[string]icon.Metadata{
		"heart": {
			Name:        "Heart",
			Category:    "emotions",
			Tags:        []string{"heart", "love", "like", "favorite", "emotion"},
			Description: "A heart icon representing love, like, or favorite actions",
		},
	})
}

func newTestLibrary(t *testing.T, storage offline.Backend, patch Patch, opts ...Option) *Library {
	t.Helper()
	opts = append([]Option{WithLogger(discardLogger())}, opts...)
	return New(newTestRegistry(t), newTestMetadata(), storage, patch, opts...)
}

func TestNew_DefaultConfig(t *testing.T) {
	lib := newTestLibrary(t, newSpyBackend(), Patch{})
	cfg := lib.Config()

	assert.Equal(t, DefaultBaseURL, cfg.BaseURL)
	assert.Equal(t, 24, cfg.DefaultSize)
	assert.Equal(t, "currentColor", cfg.DefaultColor)
	assert.True(t, cfg.EnableOfflineMode)
	assert.Equal(t, icon.AnimationFade, cfg.DefaultAnimation.Type)
}

func TestNew_PatchOverridesDefaults(t *testing.T) {
	lib := newTestLibrary(t, newSpyBackend(), Patch{
		BaseURL:     Ptr("https://icons.example.com"),
		DefaultSize: Ptr(32),
	})
	cfg := lib.Config()

	assert.Equal(t, "https://icons.example.com", cfg.BaseURL)
	assert.Equal(t, 32, cfg.DefaultSize)
	assert.Equal(t, "currentColor", cfg.DefaultColor)
}

func TestNew_StorageSelection(t *testing.T) {
	def := newSpyBackend()
	override := newSpyBackend()

	lib := newTestLibrary(t, def, Patch{})
	assert.Same(t, def, lib.Storage())

	lib = newTestLibrary(t, def, Patch{OfflineStorage: override})
	assert.Same(t, override, lib.Storage())
}

func TestNew_NilStorageDegrades(t *testing.T) {
	ctx := context.Background()
	lib := newTestLibrary(t, nil, Patch{})

	outcome := lib.StoreIconData(ctx, icon.Single(heartDef.Datum(nil)))
	assert.Equal(t, offline.StatusUnavailable, outcome.Status)
	assert.False(t, lib.HasOfflineData(ctx))
}

func TestNew_TypedNilStorageIsIgnored(t *testing.T) {
	ctx := context.Background()
	def := newSpyBackend()

	lib := newTestLibrary(t, def, Patch{OfflineStorage: (*offline.LocalStore)(nil)})
	assert.Same(t, def, lib.Storage())

	lib = newTestLibrary(t, (*offline.SQLStore)(nil), Patch{OfflineStorage: (*offline.LocalStore)(nil)})
	require.NotPanics(t, func() {
		outcome := lib.StoreIconData(ctx, icon.Single(heartDef.Datum(nil)))
		assert.Equal(t, offline.StatusUnavailable, outcome.Status)
		assert.False(t, lib.HasOfflineData(ctx))
	})
}

// panicBackend fails every call the way a backend with a nil receiver would.
type panicBackend struct{}

func (panicBackend) Store(context.Context, icon.Payload) offline.Outcome { panic("store") }
func (panicBackend) Load(context.Context) (icon.Payload, offline.Outcome) { panic("load") }
func (panicBackend) Has(context.Context) bool { panic("has") }
func (panicBackend) Clear(context.Context) offline.Outcome { panic("clear") }

func TestOfflineData_BackendPanicIsFailure(t *testing.T) {
	ctx := context.Background()
	lib := newTestLibrary(t, panicBackend{}, Patch{})

	require.NotPanics(t, func() {
		outcome := lib.StoreIconData(ctx, icon.Single(heartDef.Datum(nil)))
		assert.Equal(t, offline.StatusFailed, outcome.Status)
		assert.ErrorContains(t, outcome.Err, "backend panic: store")

		payload, outcome := lib.StoredIconData(ctx)
		assert.Equal(t, offline.StatusFailed, outcome.Status)
		assert.True(t, payload.IsZero())

		assert.False(t, lib.HasOfflineData(ctx))
		assert.Equal(t, offline.StatusFailed, lib.ClearOfflineData(ctx).Status)
	})
}

func TestGetIcon_Registered(t *testing.T) {
	lib := newTestLibrary(t, newSpyBackend(), Patch{})

	def, ok := lib.GetIcon(context.Background(), "heart")
	require.True(t, ok)
	assert.Equal(t, heartDef, def)
}

func TestGetIcon_UnknownIsAbsentAndLogged(t *testing.T) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, nil))
	lib := New(newTestRegistry(t), newTestMetadata(), newSpyBackend(), Patch{}, WithLogger(logger))

	def, ok := lib.GetIcon(context.Background(), "nonexistent")
	assert.False(t, ok)
	assert.Equal(t, icon.Definition{}, def)
	assert.False(t, lib.HasIcon("nonexistent"))

	assert.Contains(t, logs.String(), "failed to load icon")
	assert.Contains(t, logs.String(), "nonexistent")
}

func TestGetIcon_LoaderErrorIsAbsent(t *testing.T) {
	lib := newTestLibrary(t, newSpyBackend(), Patch{})
	_, ok := lib.GetIcon(context.Background(), "broken")
	assert.False(t, ok)
}

func TestGetIcon_LoaderPanicIsAbsent(t *testing.T) {
	lib := newTestLibrary(t, newSpyBackend(), Patch{})

	assert.NotPanics(t, func() {
		_, ok := lib.GetIcon(context.Background(), "panicky")
		assert.False(t, ok)
	})
}

func TestIconMetadata(t *testing.T) {
	var logs bytes.Buffer
	lib := New(newTestRegistry(t), newTestMetadata(), newSpyBackend(), Patch{},
		WithLogger(slog.New(slog.NewTextHandler(&logs, nil))))

	m, ok := lib.IconMetadata("heart")
	require.True(t, ok)
	assert.Equal(t, "emotions", m.Category)
	assert.Equal(t, "heart", m.Tags[0])

	_, ok = lib.IconMetadata("nonexistent")
	assert.False(t, ok)
	assert.Empty(t, logs.String(), "metadata misses are not logged")
}

func TestAvailableIcons_RegistrationOrder(t *testing.T) {
	lib := newTestLibrary(t, newSpyBackend(), Patch{})
	assert.Equal(t, []string{"heart", "broken", "panicky"}, lib.AvailableIcons())
	assert.True(t, lib.HasIcon("heart"))
}

func TestOfflineData_PassThrough(t *testing.T) {
	ctx := context.Background()
	spy := newSpyBackend()
	lib := newTestLibrary(t, spy, Patch{})

	data := icon.Many(heartDef.Datum(nil))
	require.True(t, lib.StoreIconData(ctx, data).OK())
	assert.True(t, lib.HasOfflineData(ctx))

	got, outcome := lib.StoredIconData(ctx)
	require.True(t, outcome.OK())
	assert.Equal(t, data, got)

	require.True(t, lib.ClearOfflineData(ctx).OK())
	assert.False(t, lib.HasOfflineData(ctx))

	assert.Equal(t, []string{"store", "has", "load", "clear", "has"}, spy.Calls())
}

func TestOfflineData_DisabledSkipsBackend(t *testing.T) {
	ctx := context.Background()
	spy := newSpyBackend()
	lib := newTestLibrary(t, spy, Patch{EnableOfflineMode: Ptr(false)})

	assert.Equal(t, offline.StatusDisabled, lib.StoreIconData(ctx, icon.Single(heartDef.Datum(nil))).Status)

	payload, outcome := lib.StoredIconData(ctx)
	assert.Equal(t, offline.StatusDisabled, outcome.Status)
	assert.True(t, payload.IsZero())
	assert.False(t, lib.HasOfflineData(ctx))
	assert.Equal(t, offline.StatusDisabled, lib.ClearOfflineData(ctx).Status)

	assert.Empty(t, spy.Calls())
}

func TestOfflineData_ToggleTakesEffectImmediately(t *testing.T) {
	ctx := context.Background()
	spy := newSpyBackend()
	lib := newTestLibrary(t, spy, Patch{EnableOfflineMode: Ptr(false)})
	data := icon.Single(heartDef.Datum(nil))

	lib.StoreIconData(ctx, data)
	_, outcome := lib.StoredIconData(ctx)
	assert.Equal(t, offline.StatusDisabled, outcome.Status)

	lib.UpdateConfig(Patch{EnableOfflineMode: Ptr(true)})

	// nothing was stored while disabled
	_, outcome = lib.StoredIconData(ctx)
	assert.Equal(t, offline.StatusAbsent, outcome.Status)

	require.True(t, lib.StoreIconData(ctx, data).OK())
	got, outcome := lib.StoredIconData(ctx)
	require.True(t, outcome.OK())
	assert.Equal(t, data, got)

	// data survives a disable, it is only hidden
	lib.UpdateConfig(Patch{EnableOfflineMode: Ptr(false)})
	assert.False(t, lib.HasOfflineData(ctx))
	lib.UpdateConfig(Patch{EnableOfflineMode: Ptr(true)})
	assert.True(t, lib.HasOfflineData(ctx))
}

func TestConfig_CopyIsolation(t *testing.T) {
	lib := newTestLibrary(t, newSpyBackend(), Patch{})

	cfg := lib.Config()
	cfg.BaseURL = "mutated"
	cfg.DefaultSize = 99
	cfg.DefaultAnimation.Duration = 1
	cfg.EnableOfflineMode = false

	again := lib.Config()
	assert.Equal(t, DefaultBaseURL, again.BaseURL)
	assert.Equal(t, 24, again.DefaultSize)
	assert.Equal(t, 1000, again.DefaultAnimation.Duration)
	assert.True(t, again.EnableOfflineMode)
}

func TestUpdateConfig_ShallowMerge(t *testing.T) {
	lib := newTestLibrary(t, newSpyBackend(), Patch{DefaultColor: Ptr("red")})

	bounce, _ := icon.AnimationDefaults(icon.AnimationBounce)
	lib.UpdateConfig(Patch{DefaultSize: Ptr(48), DefaultAnimation: &bounce})
	lib.UpdateConfig(Patch{DefaultSize: Ptr(16)})

	cfg := lib.Config()
	assert.Equal(t, 16, cfg.DefaultSize)
	assert.Equal(t, "red", cfg.DefaultColor)
	assert.Equal(t, bounce, cfg.DefaultAnimation)
}

func TestUpdateConfig_DoesNotReselectStorage(t *testing.T) {
	ctx := context.Background()
	original := newSpyBackend()
	replacement := newSpyBackend()
	lib := newTestLibrary(t, original, Patch{})

	lib.UpdateConfig(Patch{OfflineStorage: replacement})
	assert.Same(t, replacement, lib.Config().OfflineStorage)
	assert.Same(t, original, lib.Storage())

	lib.StoreIconData(ctx, icon.Single(heartDef.Datum(nil)))
	assert.Equal(t, []string{"store"}, original.Calls())
	assert.Empty(t, replacement.Calls())
}

func TestCategories_ReturnsCopy(t *testing.T) {
	lib := newTestLibrary(t, newSpyBackend(), Patch{}, WithCategories([]icon.Category{
		{Name: "Emotions", Icons: []string{"heart"}},
	}))

	cats := lib.Categories()
	cats[0].Icons[0] = "mutated"
	assert.Equal(t, "heart", lib.Categories()[0].Icons[0])
}

func TestLibrary_ConcurrentUse(t *testing.T) {
	ctx := context.Background()
	lib := newTestLibrary(t, newSpyBackend(), Patch{})

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			lib.UpdateConfig(Patch{DefaultSize: Ptr(i)})
			lib.StoreIconData(ctx, icon.Single(heartDef.Datum(nil)))
			lib.HasOfflineData(ctx)
			_ = lib.Config()
		}(i)
	}
	wg.Wait()

	assert.True(t, lib.HasOfflineData(ctx))
}
