package testutil

import (
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/alexanderramin/cadence/internal/db"
)

// NewTestDB opens a migrated in-memory plan store pinned to one connection.
func NewTestDB(t *testing.T) *sql.DB {
	t.Helper()
	return openMigrated(t, ":memory:")
}

// NewFileTestDB opens a migrated WAL database file under t.TempDir(). Use it
// when a test needs real connection-level concurrency, which the in-memory
// store serializes away.
func NewFileTestDB(t *testing.T) *sql.DB {
	t.Helper()
	return openMigrated(t, filepath.Join(t.TempDir(), "cadence.db"))
}

// NewTestUoW wraps database in the production UnitOfWork.
func NewTestUoW(database *sql.DB) db.UnitOfWork {
	return db.NewSQLiteUnitOfWork(database)
}

func openMigrated(t *testing.T, path string) *sql.DB {
	database, err := db.OpenDB(path)
	if err != nil {
		t.Fatalf("opening plan store %s: %v", path, err)
	}
	t.Cleanup(func() { _ = database.Close() })
	return database
}
