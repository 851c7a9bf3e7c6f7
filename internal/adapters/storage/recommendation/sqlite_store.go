package recommendation

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"peminatan/internal/adapters/storage"
	domain "peminatan/internal/domain/recommendation"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new recommendation store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// GetByStudentID retrieves the recommendation for a student.
// POST: Returns the entity or an error wrapping sql.ErrNoRows if there is none
func (s *SQLiteStore) GetByStudentID(ctx context.Context, studentID string) (domain.Recommendation, error) {
	var r domain.Recommendation
	err := s.db.QueryRowContext(ctx,
		"SELECT id, student_id, paket_prediksi FROM recommendation WHERE student_id = ?", studentID,
	).Scan(&r.ID, &r.StudentID, &r.PaketPrediksi)
	if err == sql.ErrNoRows {
		return domain.Recommendation{}, fmt.Errorf("recommendation not found: %w", err)
	}
	return r, err
}

// Save stores the recommendation for a student, replacing any earlier one.
// INVARIANT: at most one recommendation per student
func (s *SQLiteStore) Save(ctx context.Context, r domain.Recommendation) error {
	return storage.InTx(ctx, s.db, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `INSERT INTO recommendation (id, student_id, paket_prediksi, created_at)
			VALUES (?, ?, ?, ?)
			ON CONFLICT(student_id) DO UPDATE SET paket_prediksi=excluded.paket_prediksi`,
			r.ID, r.StudentID, r.PaketPrediksi, time.Now().UTC().Format(storage.TimeFormat),
		)
		return err
	})
}
