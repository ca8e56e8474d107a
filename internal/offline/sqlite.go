package offline

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"time"

	_ "github.com/mattn/go-sqlite3"
	_ "modernc.org/sqlite"

	"github.com/roach88/animicons/internal/icon"
)

// database/sql driver names accepted by SQLStore.
const (
	// DriverSQLite3 is github.com/mattn/go-sqlite3 (cgo).
	DriverSQLite3 = "sqlite3"
	// DriverSQLite is modernc.org/sqlite (pure Go).
	DriverSQLite = "sqlite"
)

var tableNamePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// SQLStore is the transactional backend. It keeps the envelope as one
// record with id RecordID in a SQLite table.
//
// Every operation opens its own connection, runs one transaction, and closes
// the connection before returning. Concurrent stores race at the database:
// the last transaction to commit wins, and readers see a whole record.
type SQLStore struct {
	path      string
	table     string
	version   string
	driver    string
	logger    *slog.Logger
	now       func() time.Time
	available bool
}

var (
	_ Backend   = (*SQLStore)(nil)
	_ Inspector = (*SQLStore)(nil)
)

// NewSQLStore creates a transactional store for the database file at path.
// It returns an error only for an invalid table name; a missing driver or
// database directory makes the store unavailable instead.
func NewSQLStore(path string, opts ...Option) (*SQLStore, error) {
	o := buildOptions(opts)
	if !tableNamePattern.MatchString(o.table) {
		return nil, fmt.Errorf("sql store: invalid table name %q", o.table)
	}

	s := &SQLStore{
		path:    path,
		table:   o.table,
		version: o.version,
		driver:  o.driver,
		logger:  o.logger.With("backend", "sqlite", "driver", o.driver),
		now:     o.now,
	}

	if err := s.detectMedium(); err != nil {
		s.logger.Warn("offline database unavailable; icon data will not persist", "path", path, "error", err)
	} else {
		s.available = true
	}
	return s, nil
}

// DatabasePath returns the file name used for a database called name in dir.
func DatabasePath(dir, name string) string {
	if name == "" {
		name = DefaultDatabaseName
	}
	return filepath.Join(dir, name+".db")
}

// Path returns the database file path.
func (s *SQLStore) Path() string { return s.path }

// Table returns the table holding the record.
func (s *SQLStore) Table() string { return s.table }

// Version returns the current schema version.
func (s *SQLStore) Version() string { return s.version }

func (s *SQLStore) detectMedium() error {
	if !slices.Contains(sql.Drivers(), s.driver) {
		return fmt.Errorf("driver %q is not registered", s.driver)
	}
	if s.path == "" {
		return fmt.Errorf("database path is empty")
	}
	info, err := os.Stat(filepath.Dir(s.path))
	if err != nil {
		return fmt.Errorf("database directory: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("database directory %q is not a directory", filepath.Dir(s.path))
	}
	return nil
}

// Store upserts the record with a fresh envelope.
func (s *SQLStore) Store(ctx context.Context, data icon.Payload) Outcome {
	const op = "store icon data"
	if !s.available {
		return Unavailable(op)
	}

	env := NewEnvelope(s.version, s.now(), data)
	dataJSON, err := env.Data.MarshalJSON()
	if err != nil {
		return s.degrade(op, fmt.Errorf("%w: %w", ErrSerialization, err))
	}

	err = s.withTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, fmt.Sprintf(`
			INSERT INTO %s (id, version, timestamp, data)
			VALUES (?, ?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET
				version = excluded.version,
				timestamp = excluded.timestamp,
				data = excluded.data
		`, s.quotedTable()), RecordID, env.Version, env.Timestamp, string(dataJSON))
		if err != nil {
			return fmt.Errorf("put record: %w", err)
		}
		return nil
	}, true)
	if err != nil {
		return s.degrade(op, err)
	}
	return Succeeded()
}

// Load selects the record and validates its version.
func (s *SQLStore) Load(ctx context.Context) (icon.Payload, Outcome) {
	const op = "load icon data"
	if !s.available {
		return icon.Payload{}, Unavailable(op)
	}

	rec, outcome := s.read(ctx, op)
	if !outcome.OK() {
		return icon.Payload{}, outcome
	}

	env, err := rec.envelope()
	if err != nil {
		return icon.Payload{}, s.degrade(op, err)
	}
	return env.classify(s.version)
}

// Has reports whether a valid, non-null record is stored.
func (s *SQLStore) Has(ctx context.Context) bool {
	_, outcome := s.Load(ctx)
	return outcome.OK()
}

// Clear deletes the record.
func (s *SQLStore) Clear(ctx context.Context) Outcome {
	const op = "clear icon data"
	if !s.available {
		return Unavailable(op)
	}

	err := s.withTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx,
			fmt.Sprintf(`DELETE FROM %s WHERE id = ?`, s.quotedTable()), RecordID)
		if err != nil {
			return fmt.Errorf("delete record: %w", err)
		}
		return nil
	}, true)
	if err != nil {
		return s.degrade(op, err)
	}
	return Succeeded()
}

// Info describes the stored record regardless of its version. Size is the
// byte length of the stored data JSON.
func (s *SQLStore) Info(ctx context.Context) (StorageInfo, bool) {
	if !s.available {
		return StorageInfo{}, false
	}
	rec, outcome := s.read(ctx, "storage info")
	if !outcome.OK() {
		return StorageInfo{}, false
	}
	return StorageInfo{
		Size:      len(rec.data.String),
		Timestamp: rec.timestamp,
		Version:   rec.version,
	}, true
}

type record struct {
	version   string
	timestamp int64
	data      sql.NullString
}

func (r record) envelope() (Envelope, error) {
	env := Envelope{Version: r.version, Timestamp: r.timestamp}
	if !r.data.Valid {
		return env, nil
	}
	if err := env.Data.UnmarshalJSON([]byte(r.data.String)); err != nil {
		return Envelope{}, fmt.Errorf("decode record data: %w: %v", ErrSerialization, err)
	}
	return env, nil
}

// read fetches the raw record. The outcome is StatusOK whenever a row exists.
func (s *SQLStore) read(ctx context.Context, op string) (record, Outcome) {
	var (
		rec   record
		found bool
	)
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		err := tx.QueryRowContext(ctx,
			fmt.Sprintf(`SELECT version, timestamp, data FROM %s WHERE id = ?`, s.quotedTable()),
			RecordID,
		).Scan(&rec.version, &rec.timestamp, &rec.data)
		if errors.Is(err, sql.ErrNoRows) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("get record: %w", err)
		}
		found = true
		return nil
	}, false)
	if err != nil {
		return record{}, s.degrade(op, err)
	}
	if !found {
		return record{}, Absent()
	}
	return rec, Succeeded()
}

// withTx opens a connection, runs fn in a transaction, and closes the
// connection. Read transactions are rolled back, write transactions
// committed. Errors are wrapped with ErrTransaction.
func (s *SQLStore) withTx(ctx context.Context, fn func(tx *sql.Tx) error, write bool) (err error) {
	db, err := s.open(ctx)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrTransaction, err)
	}
	defer func() {
		if closeErr := db.Close(); closeErr != nil {
			s.logger.Debug("closing offline database", "error", closeErr)
		}
	}()

	// Reads run in a default transaction that is always rolled back.
	// sql.TxOptions.ReadOnly is not passed because the two drivers treat it
	// differently, and rollback already discards anything a read could change.
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: begin tx: %v", ErrTransaction, err)
	}
	defer tx.Rollback() // No-op if committed

	if err := fn(tx); err != nil {
		return fmt.Errorf("%w: %v", ErrTransaction, err)
	}
	if !write {
		return nil
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: commit: %v", ErrTransaction, err)
	}
	return nil
}

// open connects to the database, applies pragmas, and bootstraps the table
// on first use.
func (s *SQLStore) open(ctx context.Context) (*sql.DB, error) {
	db, err := sql.Open(s.driver, s.path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// One connection per operation; pragmas below are per-connection.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	if err := applyPragmas(ctx, db); err != nil {
		db.Close()
		return nil, err
	}
	if err := s.bootstrap(ctx, db); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

func applyPragmas(ctx context.Context, db *sql.DB) error {
	pragmas := []string{
		"PRAGMA busy_timeout = 5000",
		"PRAGMA journal_mode = WAL",
	}
	for _, pragma := range pragmas {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			return fmt.Errorf("failed to execute %q: %w", pragma, err)
		}
	}
	return nil
}

// bootstrap creates the table when it does not exist yet and bumps
// PRAGMA user_version. Existing tables are left untouched.
//
// The existence check is repeated under BEGIN IMMEDIATE so that two
// connections opening a fresh file bump user_version exactly once.
func (s *SQLStore) bootstrap(ctx context.Context, db *sql.DB) error {
	exists, err := tableExists(ctx, db, s.table)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	conn, err := db.Conn(ctx)
	if err != nil {
		return fmt.Errorf("bootstrap: acquire connection: %w", err)
	}
	defer conn.Close()

	// database/sql cannot request an IMMEDIATE transaction portably, so the
	// write lock is taken with a plain statement on a pinned connection.
	if _, err := conn.ExecContext(ctx, "BEGIN IMMEDIATE"); err != nil {
		return fmt.Errorf("bootstrap: begin: %w", err)
	}
	committed := false
	defer func() {
		if committed {
			return
		}
		if _, rbErr := conn.ExecContext(context.WithoutCancel(ctx), "ROLLBACK"); rbErr != nil {
			s.logger.Debug("rolling back bootstrap", "error", rbErr)
		}
	}()

	exists, err = tableExists(ctx, conn, s.table)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	_, err = conn.ExecContext(ctx, fmt.Sprintf(`
		CREATE TABLE %s (
			id        TEXT PRIMARY KEY,
			version   TEXT NOT NULL,
			timestamp INTEGER NOT NULL,
			data      TEXT
		)
	`, s.quotedTable()))
	if err != nil {
		return fmt.Errorf("bootstrap: create table: %w", err)
	}

	var userVersion int
	if err := conn.QueryRowContext(ctx, "PRAGMA user_version").Scan(&userVersion); err != nil {
		return fmt.Errorf("bootstrap: get user_version: %w", err)
	}
	if _, err := conn.ExecContext(ctx, fmt.Sprintf("PRAGMA user_version = %d", userVersion+1)); err != nil {
		return fmt.Errorf("bootstrap: set user_version: %w", err)
	}

	if _, err := conn.ExecContext(ctx, "COMMIT"); err != nil {
		return fmt.Errorf("bootstrap: commit: %w", err)
	}
	committed = true
	s.logger.Debug("created offline icon table", "path", s.path, "table", s.table, "user_version", userVersion+1)
	return nil
}

// queryRower is satisfied by *sql.DB, *sql.Conn and *sql.Tx.
type queryRower interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func tableExists(ctx context.Context, q queryRower, table string) (bool, error) {
	var count int
	err := q.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = ?", table,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("check table %q: %w", table, err)
	}
	return count > 0, nil
}

func (s *SQLStore) quotedTable() string {
	// table is validated against tableNamePattern at construction
	return `"` + s.table + `"`
}

func (s *SQLStore) degrade(op string, err error) Outcome {
	outcome := Failure(op, err)
	s.logger.Warn("offline storage operation failed", "op", op, "path", s.path, "error", outcome.Err)
	return outcome
}
