package riasec

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"peminatan/internal/adapters/storage"
	domain "peminatan/internal/domain/riasec"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new RIASEC result store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// GetByStudentID retrieves the result for a student.
// PRE: studentID is non-empty
// POST: Returns the entity or an error wrapping sql.ErrNoRows if the student is untested
func (s *SQLiteStore) GetByStudentID(ctx context.Context, studentID string) (domain.Result, error) {
	var r domain.Result
	err := s.db.QueryRowContext(ctx,
		"SELECT id, student_id, r, i, a, s, e, c, top3 FROM riasec_result WHERE student_id = ?", studentID,
	).Scan(&r.ID, &r.StudentID, &r.R, &r.I, &r.A, &r.S, &r.E, &r.C, &r.Top3)
	if err == sql.ErrNoRows {
		return domain.Result{}, fmt.Errorf("riasec result not found: %w", err)
	}
	return r, err
}

// Save stores the result for a student, replacing any earlier one.
// PRE: entity has been validated
// INVARIANT: at most one result per student
func (s *SQLiteStore) Save(ctx context.Context, r domain.Result) error {
	return storage.InTx(ctx, s.db, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `INSERT INTO riasec_result (id, student_id, r, i, a, s, e, c, top3, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(student_id) DO UPDATE SET
				r=excluded.r, i=excluded.i, a=excluded.a,
				s=excluded.s, e=excluded.e, c=excluded.c,
				top3=excluded.top3`,
			r.ID, r.StudentID, r.R, r.I, r.A, r.S, r.E, r.C, r.Top3,
			time.Now().UTC().Format(storage.TimeFormat),
		)
		return err
	})
}
