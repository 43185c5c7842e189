// Package testutil provides shared test helpers for setting up storage and
// tracker services.
package testutil

import (
	"os"
	"testing"
	"time"

	"github.com/starford/tempus/internal/settings"
	"github.com/starford/tempus/internal/storage"
	"github.com/starford/tempus/internal/timestore"
	"github.com/starford/tempus/internal/tracker"
)

// TestSQLite creates a temporary SQLite provider that is automatically cleaned up.
func TestSQLite(t *testing.T) *storage.SQLite {
	t.Helper()
	dbFile, err := os.CreateTemp("", "tempus-test-*.db")
	if err != nil {
		t.Fatal(err)
	}
	dbFile.Close()
	t.Cleanup(func() { os.Remove(dbFile.Name()) })

	db, err := storage.OpenSQLite(dbFile.Name())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// TestFS creates a temporary data directory with a filesystem provider.
func TestFS(t *testing.T) (string, *storage.FS) {
	t.Helper()
	dir := t.TempDir()
	store, err := storage.NewFS(dir)
	if err != nil {
		t.Fatal(err)
	}
	return dir, store
}

// FixedClock returns a clock that always reports now.
func FixedClock(now time.Time) func() time.Time {
	return func() time.Time { return now }
}

// NewTracker wires a tracker service over kv in UTC with the given clock.
func NewTracker(t *testing.T, kv storage.Provider, clock func() time.Time, opts ...tracker.Option) *tracker.Service {
	t.Helper()
	st := settings.NewService(kv, settings.Default())
	store := timestore.New(kv, st, timestore.WithLocation(time.UTC), timestore.WithClock(clock))
	opts = append([]tracker.Option{tracker.WithClock(clock), tracker.WithLocation(time.UTC)}, opts...)
	return tracker.New(store, st, opts...)
}
