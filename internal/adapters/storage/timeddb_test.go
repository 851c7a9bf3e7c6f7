package storage

import (
	"bytes"
	"context"
	"database/sql"
	"log/slog"
	"strings"
	"testing"
	"time"

	_ "modernc.org/sqlite"
)

func openTimedTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db := openTestDB(t)
	if _, err := db.Exec("CREATE TABLE test (id TEXT PRIMARY KEY, val TEXT)"); err != nil {
		t.Fatalf("create table: %v", err)
	}
	return db
}

// captureLogs routes slog output to a buffer for the duration of the test.
func captureLogs(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	t.Cleanup(func() { slog.SetDefault(prev) })
	return &buf
}

// TestTimedDB_PassThrough verifies the wrapper behaves like the underlying DB.
func TestTimedDB_PassThrough(t *testing.T) {
	tdb := NewTimedDB(openTimedTestDB(t), time.Second)
	ctx := context.Background()

	if _, err := tdb.ExecContext(ctx, "INSERT INTO test (id, val) VALUES (?, ?)", "1", "hello"); err != nil {
		t.Fatalf("ExecContext: %v", err)
	}

	var val string
	if err := tdb.QueryRowContext(ctx, "SELECT val FROM test WHERE id = ?", "1").Scan(&val); err != nil {
		t.Fatalf("QueryRowContext: %v", err)
	}
	if val != "hello" {
		t.Errorf("val = %q, want hello", val)
	}

	rows, err := tdb.QueryContext(ctx, "SELECT id FROM test")
	if err != nil {
		t.Fatalf("QueryContext: %v", err)
	}
	defer rows.Close()
	n := 0
	for rows.Next() {
		n++
	}
	if n != 1 {
		t.Errorf("rows = %d, want 1", n)
	}
}

// TestTimedDB_LogsSlowQueries verifies queries over the threshold are logged at WARN.
func TestTimedDB_LogsSlowQueries(t *testing.T) {
	buf := captureLogs(t)
	tdb := NewTimedDB(openTimedTestDB(t), time.Nanosecond)

	tdb.ExecContext(context.Background(), "INSERT INTO test (id, val) VALUES ('1', 'x')")

	out := buf.String()
	if !strings.Contains(out, "slow_query") || !strings.Contains(out, "level=WARN") {
		t.Errorf("expected slow_query warning, got: %s", out)
	}
}

// TestTimedDB_FastQueriesAtDebug verifies fast queries are only logged at DEBUG.
func TestTimedDB_FastQueriesAtDebug(t *testing.T) {
	buf := captureLogs(t)
	tdb := NewTimedDB(openTimedTestDB(t), time.Hour)

	tdb.ExecContext(context.Background(), "INSERT INTO test (id, val) VALUES ('1', 'x')")

	if strings.Contains(buf.String(), "slow_query") {
		t.Errorf("fast query logged as slow: %s", buf.String())
	}
}

// TestTimedDB_InTx verifies InTx works through the wrapper.
func TestTimedDB_InTx(t *testing.T) {
	tdb := NewTimedDB(openTimedTestDB(t), time.Second)
	ctx := context.Background()
	err := InTx(ctx, tdb, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, "INSERT INTO test (id, val) VALUES ('1', 'x')")
		return err
	})
	if err != nil {
		t.Fatalf("InTx: %v", err)
	}
	var n int
	tdb.QueryRowContext(ctx, "SELECT COUNT(*) FROM test").Scan(&n)
	if n != 1 {
		t.Errorf("count = %d, want 1", n)
	}
}

func TestNewTimedDB_DefaultThreshold(t *testing.T) {
	tdb := NewTimedDB(openTimedTestDB(t), 0)
	if tdb.threshold != DefaultSlowQuery {
		t.Errorf("threshold = %v, want %v", tdb.threshold, DefaultSlowQuery)
	}
}
