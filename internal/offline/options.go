package offline

import (
	"log/slog"
	"time"
)

type options struct {
	storageKey string
	table      string
	version    string
	driver     string
	logger     *slog.Logger
	now        func() time.Time
}

func defaultOptions() options {
	return options{
		storageKey: DefaultStorageKey,
		table:      DefaultTable,
		version:    DefaultVersion,
		driver:     DriverSQLite3,
		logger:     slog.Default(),
		now:        time.Now,
	}
}

// Option configures a backend. Options that do not apply to a backend are
// ignored by it.
type Option func(*options)

// WithStorageKey sets the LocalStore slot key.
func WithStorageKey(key string) Option {
	return func(o *options) {
		if key != "" {
			o.storageKey = key
		}
	}
}

// WithTable sets the SQLStore table name.
func WithTable(table string) Option {
	return func(o *options) {
		if table != "" {
			o.table = table
		}
	}
}

// WithVersion sets the current schema version.
func WithVersion(version string) Option {
	return func(o *options) {
		if version != "" {
			o.version = version
		}
	}
}

// WithDriver selects the SQLStore database/sql driver.
func WithDriver(driver string) Option {
	return func(o *options) {
		if driver != "" {
			o.driver = driver
		}
	}
}

// WithLogger sets the logger for degraded operations.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithNow sets the time source for envelope timestamps.
func WithNow(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.now = now
		}
	}
}

func buildOptions(opts []Option) options {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
