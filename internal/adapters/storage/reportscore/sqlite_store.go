package reportscore

import (
	"context"
	"database/sql"
	"fmt"

	"peminatan/internal/adapters/storage"
	domain "peminatan/internal/domain/reportscore"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new report score store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// GetByStudentID retrieves the report scores for a student.
// POST: Returns the entity or an error wrapping sql.ErrNoRows if there are none
func (s *SQLiteStore) GetByStudentID(ctx context.Context, studentID string) (domain.ReportScore, error) {
	var r domain.ReportScore
	err := s.db.QueryRowContext(ctx, `SELECT id, student_id, matematika, bahasa_indonesia, bahasa_inggris, ipa, ips, informatika
		FROM report_score WHERE student_id = ?`, studentID,
	).Scan(&r.ID, &r.StudentID, &r.Matematika, &r.BahasaIndonesia, &r.BahasaInggris, &r.IPA, &r.IPS, &r.Informatika)
	if err == sql.ErrNoRows {
		return domain.ReportScore{}, fmt.Errorf("report score not found: %w", err)
	}
	return r, err
}

// Save stores report scores for a student, replacing any earlier ones.
func (s *SQLiteStore) Save(ctx context.Context, r domain.ReportScore) error {
	return storage.InTx(ctx, s.db, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `INSERT INTO report_score (id, student_id, matematika, bahasa_indonesia, bahasa_inggris, ipa, ips, informatika)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(student_id) DO UPDATE SET
				matematika=excluded.matematika,
				bahasa_indonesia=excluded.bahasa_indonesia,
				bahasa_inggris=excluded.bahasa_inggris,
				ipa=excluded.ipa,
				ips=excluded.ips,
				informatika=excluded.informatika`,
			r.ID, r.StudentID, r.Matematika, r.BahasaIndonesia, r.BahasaInggris, r.IPA, r.IPS, r.Informatika,
		)
		return err
	})
}
