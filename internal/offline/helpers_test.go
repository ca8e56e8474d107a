package offline

import (
	"database/sql"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/roach88/animicons/internal/icon"
	"github.com/roach88/animicons/internal/testutil"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func heart() icon.Datum {
	return icon.Datum{
		Name:    "heart",
		Path:    "M20.84 4.61a5.5 5.5 0 0 0-7.78 0L12 5.67l-1.06-1.06z",
		ViewBox: "0 0 24 24",
		Metadata: &icon.Metadata{
			Name:        "Heart",
			Category:    "emotions",
			Tags:        []string{"heart", "love", "like"},
			Description: "A heart icon representing love, like, or favorite actions",
		},
	}
}

func star() icon.Datum {
	return icon.Datum{
		Name:    "star",
		Path:    "M12 2l3.09 6.26L22 9.27l-5 4.87 1.18 6.88L12 17.77z",
		ViewBox: "0 0 24 24",
	}
}

func home() icon.Datum {
	return icon.Datum{
		Name:    "home",
		Path:    "M3 9l9-7 9 7v11a2 2 0 0 1-2 2H5a2 2 0 0 1-2-2z",
		ViewBox: "0 0 24 24",
	}
}

// fixture binds one medium so that a backend can be reopened with another
// schema version, and exposes whether a raw record exists in the medium.
type fixture struct {
	open func(version string) Backend
	raw  func() bool
}

type fixtureFactory func(t *testing.T, clock *testutil.DeterministicClock) fixture

func localFixture(t *testing.T, clock *testutil.DeterministicClock) fixture {
	medium := NewMemoryKV()
	return fixture{
		open: func(version string) Backend {
			return NewLocalStore(medium,
				WithVersion(version), WithNow(clock.Now), WithLogger(discardLogger()))
		},
		raw: func() bool {
			_, ok, err := medium.Get(DefaultStorageKey)
			require.NoError(t, err)
			return ok
		},
	}
}

func sqlFixture(driver string) fixtureFactory {
	return func(t *testing.T, clock *testutil.DeterministicClock) fixture {
		path := filepath.Join(t.TempDir(), "AnimatedIconsDB.db")
		return fixture{
			open: func(version string) Backend {
				s, err := NewSQLStore(path,
					WithDriver(driver), WithVersion(version), WithNow(clock.Now), WithLogger(discardLogger()))
				require.NoError(t, err)
				return s
			},
			raw: func() bool {
				return countRecords(t, driver, path, DefaultTable) > 0
			},
		}
	}
}

func countRecords(t *testing.T, driver, path, table string) int {
	t.Helper()
	db, err := sql.Open(driver, path)
	require.NoError(t, err)
	defer db.Close()

	var count int
	err = db.QueryRow(`SELECT COUNT(*) FROM "`+table+`" WHERE id = ?`, RecordID).Scan(&count)
	require.NoError(t, err)
	return count
}

func fixtures() map[string]fixtureFactory {
	return map[string]fixtureFactory{
		"local":          localFixture,
		"sqlite/sqlite3": sqlFixture(DriverSQLite3),
		"sqlite/modernc": sqlFixture(DriverSQLite),
	}
}

// forEachBackend runs fn once per backend implementation.
func forEachBackend(t *testing.T, fn func(t *testing.T, f fixture)) {
	for name, factory := range fixtures() {
		t.Run(name, func(t *testing.T) {
			fn(t, factory(t, testutil.NewDeterministicClock()))
		})
	}
}
