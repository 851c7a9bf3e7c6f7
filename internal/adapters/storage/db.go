package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	_ "modernc.org/sqlite"
)

// TimeFormat is the layout used for every timestamp column.
const TimeFormat = "2006-01-02T15:04:05.999999999Z07:00"

// Querier is the subset of *sql.DB / *sql.Tx that stores need to run statements.
// Stores accept it so the same code runs inside or outside a transaction.
type Querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

var (
	_ Querier = (*sql.DB)(nil)
	_ Querier = (*sql.Tx)(nil)
)

// Open opens a SQLite database with WAL mode, foreign keys and a busy timeout.
// PRE: path is a file path or ":memory:"
// POST: returns a pinged connection pool
func Open(path string) (*sql.DB, error) {
	dsn := path + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(ON)&_pragma=synchronous(NORMAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("database unreachable: %w", err)
	}
	return db, nil
}

// InTx runs fn inside a transaction. Any error from fn, or a failed commit, rolls back
// every change made through tx.
// PRE: db is a valid connection
// POST: fn's writes are committed together or not at all
func InTx(ctx context.Context, db SQLDB, fn func(tx *sql.Tx) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// migration is one forward-only schema step.
type migration struct {
	version     int
	description string
	statements  []string
}

var migrations = []migration{
	{
		version:     1,
		description: "baseline schema",
		statements: []string{
			`CREATE TABLE IF NOT EXISTS users (
				id TEXT PRIMARY KEY,
				username TEXT NOT NULL UNIQUE,
				password TEXT NOT NULL,
				role TEXT NOT NULL CHECK (role IN ('admin', 'guru', 'siswa')),
				nama TEXT NOT NULL DEFAULT '',
				nisn TEXT UNIQUE,
				kelas TEXT NOT NULL DEFAULT '',
				created_at TEXT NOT NULL
			)`,
			`CREATE TABLE IF NOT EXISTS student (
				id TEXT PRIMARY KEY,
				user_id TEXT NOT NULL UNIQUE,
				nama TEXT NOT NULL DEFAULT '',
				nisn TEXT NOT NULL DEFAULT '',
				kelas TEXT NOT NULL DEFAULT '',
				FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE
			)`,
			`CREATE TABLE IF NOT EXISTS riasec_result (
				id TEXT PRIMARY KEY,
				student_id TEXT NOT NULL UNIQUE,
				r INTEGER NOT NULL DEFAULT 0,
				i INTEGER NOT NULL DEFAULT 0,
				a INTEGER NOT NULL DEFAULT 0,
				s INTEGER NOT NULL DEFAULT 0,
				e INTEGER NOT NULL DEFAULT 0,
				c INTEGER NOT NULL DEFAULT 0,
				top3 TEXT NOT NULL DEFAULT '',
				created_at TEXT NOT NULL,
				FOREIGN KEY (student_id) REFERENCES student(id) ON DELETE CASCADE
			)`,
			`CREATE TABLE IF NOT EXISTS recommendation (
				id TEXT PRIMARY KEY,
				student_id TEXT NOT NULL UNIQUE,
				paket_prediksi TEXT NOT NULL,
				created_at TEXT NOT NULL,
				FOREIGN KEY (student_id) REFERENCES student(id) ON DELETE CASCADE
			)`,
			`CREATE TABLE IF NOT EXISTS report_score (
				id TEXT PRIMARY KEY,
				student_id TEXT NOT NULL UNIQUE,
				matematika REAL NOT NULL DEFAULT 0,
				bahasa_indonesia REAL NOT NULL DEFAULT 0,
				bahasa_inggris REAL NOT NULL DEFAULT 0,
				ipa REAL NOT NULL DEFAULT 0,
				ips REAL NOT NULL DEFAULT 0,
				informatika REAL NOT NULL DEFAULT 0,
				FOREIGN KEY (student_id) REFERENCES student(id) ON DELETE CASCADE
			)`,
		},
	},
	{
		version:     2,
		description: "dashboard indexes",
		statements: []string{
			`CREATE INDEX IF NOT EXISTS idx_users_role ON users(role)`,
			`CREATE INDEX IF NOT EXISTS idx_recommendation_paket ON recommendation(paket_prediksi)`,
		},
	},
}

// LatestSchemaVersion returns the version the migration chain ends at.
func LatestSchemaVersion() int {
	return migrations[len(migrations)-1].version
}

// SchemaVersion returns the applied schema version, 0 for a fresh database.
func SchemaVersion(db *sql.DB) (int, error) {
	var exists int
	err := db.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='schema_version'").Scan(&exists)
	if err != nil {
		return 0, err
	}
	if exists == 0 {
		return 0, nil
	}
	var version sql.NullInt64
	if err := db.QueryRow("SELECT MAX(version) FROM schema_version").Scan(&version); err != nil {
		return 0, err
	}
	return int(version.Int64), nil
}

// MigrateDB applies every migration newer than the current schema version. Each step runs
// in its own transaction together with its schema_version row.
// PRE: db is a valid database connection
// POST: schema is at LatestSchemaVersion
func MigrateDB(db *sql.DB) error {
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS schema_version (
		version INTEGER PRIMARY KEY,
		description TEXT NOT NULL,
		applied_at TEXT NOT NULL
	)`); err != nil {
		return fmt.Errorf("failed to create schema_version: %w", err)
	}

	current, err := SchemaVersion(db)
	if err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}

	ctx := context.Background()
	for _, m := range migrations {
		if m.version <= current {
			continue
		}
		err := InTx(ctx, db, func(tx *sql.Tx) error {
			for _, stmt := range m.statements {
				if _, err := tx.ExecContext(ctx, stmt); err != nil {
					return err
				}
			}
			_, err := tx.ExecContext(ctx,
				"INSERT INTO schema_version (version, description, applied_at) VALUES (?, ?, ?)",
				m.version, m.description, time.Now().UTC().Format(TimeFormat))
			return err
		})
		if err != nil {
			return fmt.Errorf("migration %d (%s) failed: %w", m.version, m.description, err)
		}
		slog.Info("schema_migrated", "version", m.version, "description", m.description)
	}
	return nil
}
