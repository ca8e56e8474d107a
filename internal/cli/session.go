package cli

import (
	"context"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/roach88/animicons/internal/catalog"
	"github.com/roach88/animicons/internal/config"
	"github.com/roach88/animicons/internal/library"
	"github.com/roach88/animicons/internal/offline"
)

// session is the per-invocation state shared by commands: output, a logger
// tagged with the trace id, settings, and a library over the configured
// backend.
type session struct {
	ctx      context.Context
	out      *OutputFormatter
	logger   *slog.Logger
	settings config.Settings
	catalog  *catalog.Catalog
	library  *library.Library
	closeFn  func() error
}

// newFormatter builds the formatter and trace-tagged logger for cmd.
func newFormatter(opts *RootOptions, cmd *cobra.Command) (*OutputFormatter, *slog.Logger) {
	gen := opts.IDGenerator
	if gen == nil {
		gen = UUIDv7Generator{}
	}
	traceID := gen.Generate()

	// Configure logging based on verbose flag
	logLevel := slog.LevelInfo
	if opts.Verbose {
		logLevel = slog.LevelDebug
	}
	handler := slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{
		Level: logLevel,
	})
	logger := slog.New(handler).With("trace_id", traceID)

	return &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(), // Verbose logs go to stderr to avoid corrupting JSON
		Verbose:   opts.Verbose,
		TraceID:   traceID,
	}, logger
}

// openSession loads settings and the catalog and builds the library. When
// withBackend is false the library gets a throwaway in-memory backend so
// that catalog-only commands never touch the data directory.
//
// Errors are already reported through the formatter.
func openSession(opts *RootOptions, cmd *cobra.Command, withBackend bool) (*session, error) {
	out, logger := newFormatter(opts, cmd)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	s := &session{ctx: ctx, out: out, logger: logger, closeFn: func() error { return nil }}

	settings, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, out.Fail(ExitCommandError, ErrCodeConfig, "failed to load settings", err)
	}
	s.settings = settings

	if settings.Catalog != "" {
		s.catalog, err = catalog.LoadFile(settings.Catalog)
	} else {
		s.catalog, err = catalog.Default()
	}
	if err != nil {
		return nil, out.Fail(ExitCommandError, ErrCodeConfig, "failed to load icon catalog", err)
	}
	out.VerboseLog("Loaded %d icon(s)", len(s.catalog.Names()))

	var backend offline.Backend
	if withBackend {
		backend, s.closeFn, err = config.OpenBackend(settings, logger)
		if err != nil {
			return nil, out.Fail(ExitCommandError, ErrCodeStorage, "failed to open offline backend", err)
		}
		logger.Debug("offline backend ready", "backend", settings.Backend, "medium", settings.Medium, "data_dir", settings.DataDir)
	} else {
		backend = offline.NewLocalStore(offline.NewMemoryKV(), offline.WithLogger(logger))
	}

	patch, err := settings.LibraryPatch()
	if err != nil {
		_ = s.closeFn()
		return nil, out.Fail(ExitCommandError, ErrCodeConfig, "invalid library settings", err)
	}

	s.library = library.New(s.catalog.Registry(), s.catalog.Metadata(), backend, patch,
		library.WithLogger(logger),
		library.WithCategories(s.catalog.Categories()),
	)
	return s, nil
}

// Close releases the backend medium.
func (s *session) Close() {
	if err := s.closeFn(); err != nil {
		s.logger.Error("error closing offline backend", "error", err)
	}
}
