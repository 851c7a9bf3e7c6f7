// Package storagetest opens migrated SQLite databases for tests in other packages.
package storagetest

import (
	"database/sql"
	"path/filepath"
	"testing"

	_ "modernc.org/sqlite"

	"peminatan/internal/adapters/storage"
)

// Open returns a migrated, file-backed database that is closed when the test ends.
func Open(t testing.TB) *sql.DB {
	t.Helper()
	db, err := storage.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if err := storage.MigrateDB(db); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	return db
}
