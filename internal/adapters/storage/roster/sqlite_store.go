package roster

import (
	"context"
	"database/sql"
	"strings"

	"peminatan/internal/adapters/storage"
	"peminatan/internal/domain/account"
	"peminatan/internal/domain/recommendation"
)

// Resolved columns prefer the user's own value, then the profile's copy.
const (
	nameExpr  = "COALESCE(NULLIF(TRIM(u.nama), ''), NULLIF(TRIM(s.nama), ''), u.username)"
	nisnExpr  = "COALESCE(NULLIF(TRIM(u.nisn), ''), TRIM(s.nisn), '')"
	kelasExpr = "COALESCE(NULLIF(TRIM(u.kelas), ''), TRIM(s.kelas), '')"
)

const rowColumns = "u.id, COALESCE(s.id, ''), u.username, " + nameExpr + ", " + nisnExpr + ", " + kelasExpr +
	", r.id IS NOT NULL, COALESCE(r.top3, ''), COALESCE(rec.paket_prediksi, '')"

const rosterFrom = ` FROM users u
	LEFT JOIN student s ON s.user_id = u.id
	LEFT JOIN riasec_result r ON r.student_id = s.id
	LEFT JOIN recommendation rec ON rec.student_id = s.id`

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.Querier
}

// NewSQLiteStore creates a new roster store.
func NewSQLiteStore(db storage.Querier) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// List returns one page of siswa users matching filter, ordered by resolved name then id.
// PRE: limit > 0, offset >= 0
// POST: users without profile, result or recommendation are included
func (s *SQLiteStore) List(ctx context.Context, filter Filter, limit, offset int) ([]Row, error) {
	where, args := filter.where()
	query := "SELECT " + rowColumns + rosterFrom + where +
		" ORDER BY " + storage.LowerFunc + "(" + nameExpr + "), u.id LIMIT ? OFFSET ?"
	args = append(args, limit, offset)
	return s.query(ctx, query, args...)
}

// Count returns the number of siswa users matching filter.
func (s *SQLiteStore) Count(ctx context.Context, filter Filter) (int, error) {
	where, args := filter.where()
	var n int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*)"+rosterFrom+where, args...).Scan(&n)
	return n, err
}

// Summary aggregates the whole siswa population.
// POST: Tested + Untested == TotalStudents; Distribution.Sum() <= TotalRecommendations
func (s *SQLiteStore) Summary(ctx context.Context) (Summary, error) {
	var sum Summary
	err := s.db.QueryRowContext(ctx, `SELECT
			(SELECT COUNT(*) FROM users WHERE role = ?),
			(SELECT COUNT(*) FROM users WHERE role = ?),
			(SELECT COUNT(*) FROM users u
				JOIN student s ON s.user_id = u.id
				JOIN riasec_result r ON r.student_id = s.id
				WHERE u.role = ?),
			(SELECT COUNT(*) FROM users u
				JOIN student s ON s.user_id = u.id
				JOIN recommendation rec ON rec.student_id = s.id
				WHERE u.role = ?)`,
		account.RoleSiswa, account.RoleGuru, account.RoleSiswa, account.RoleSiswa,
	).Scan(&sum.TotalStudents, &sum.TotalTeachers, &sum.Tested, &sum.TotalRecommendations)
	if err != nil {
		return Summary{}, err
	}
	sum.Untested = sum.TotalStudents - sum.Tested

	rows, err := s.db.QueryContext(ctx, `SELECT rec.paket_prediksi, COUNT(*) FROM recommendation rec
		JOIN student s ON s.id = rec.student_id
		JOIN users u ON u.id = s.user_id
		WHERE u.role = ?
		GROUP BY rec.paket_prediksi`, account.RoleSiswa)
	if err != nil {
		return Summary{}, err
	}
	defer rows.Close()

	var dist recommendation.Distribution
	for rows.Next() {
		var label string
		var n int
		if err := rows.Scan(&label, &n); err != nil {
			return Summary{}, err
		}
		dist.Add(label, n)
	}
	if err := rows.Err(); err != nil {
		return Summary{}, err
	}
	sum.Distribution = dist
	return sum, nil
}

// ExportRows returns every student profile with its owner's fields resolved.
func (s *SQLiteStore) ExportRows(ctx context.Context) ([]Row, error) {
	query := "SELECT " + rowColumns + ` FROM student s
		JOIN users u ON u.id = s.user_id
		LEFT JOIN riasec_result r ON r.student_id = s.id
		LEFT JOIN recommendation rec ON rec.student_id = s.id
		ORDER BY ` + storage.LowerFunc + "(" + nameExpr + "), u.id"
	return s.query(ctx, query)
}

func (s *SQLiteStore) query(ctx context.Context, query string, args ...any) ([]Row, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Row
	for rows.Next() {
		r, err := scanRow(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func scanRow(rows *sql.Rows) (Row, error) {
	var r Row
	err := rows.Scan(&r.UserID, &r.StudentID, &r.Username, &r.Nama, &r.NISN, &r.Kelas, &r.Tested, &r.Top3, &r.Paket)
	return r, err
}

func (f Filter) where() (string, []any) {
	conds := []string{"u.role = ?"}
	args := []any{account.RoleSiswa}
	if strings.TrimSpace(f.Nama) != "" {
		conds = append(conds, storage.LowerFunc+"("+nameExpr+`) LIKE ? ESCAPE '\'`)
		args = append(args, storage.ContainsPattern(f.Nama))
	}
	if strings.TrimSpace(f.Kelas) != "" {
		conds = append(conds, storage.LowerFunc+"("+kelasExpr+`) LIKE ? ESCAPE '\'`)
		args = append(args, storage.ContainsPattern(f.Kelas))
	}
	if strings.TrimSpace(f.Riasec) != "" {
		conds = append(conds, `LOWER(COALESCE(r.top3, '')) LIKE ? ESCAPE '\'`)
		args = append(args, storage.ContainsPattern(f.Riasec))
	}
	if strings.TrimSpace(f.Paket) != "" {
		conds = append(conds, "rec.paket_prediksi = ?")
		args = append(args, strings.TrimSpace(f.Paket))
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}
