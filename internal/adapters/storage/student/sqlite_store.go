package student

import (
	"context"
	"database/sql"
	"fmt"

	"peminatan/internal/adapters/storage"
	domain "peminatan/internal/domain/student"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new student store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// GetByID retrieves a Student by its ID.
// PRE: id is non-empty
// POST: Returns the entity or an error wrapping sql.ErrNoRows if not found
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.Student, error) {
	return get(ctx, s.db, "id", id)
}

// GetByUserID retrieves the Student owned by a user.
// PRE: userID is non-empty
// POST: Returns the entity or an error wrapping sql.ErrNoRows if the user has no profile
func (s *SQLiteStore) GetByUserID(ctx context.Context, userID string) (domain.Student, error) {
	return get(ctx, s.db, "user_id", userID)
}

// Save persists a Student (insert or update).
func (s *SQLiteStore) Save(ctx context.Context, entity domain.Student) error {
	return storage.InTx(ctx, s.db, func(tx *sql.Tx) error {
		return Upsert(ctx, tx, entity)
	})
}

// Count returns the number of student profiles.
func (s *SQLiteStore) Count(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM student").Scan(&n)
	return n, err
}

// Upsert writes a Student through q.
func Upsert(ctx context.Context, q storage.Querier, entity domain.Student) error {
	_, err := q.ExecContext(ctx, `INSERT INTO student (id, user_id, nama, nisn, kelas)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			user_id=excluded.user_id,
			nama=excluded.nama,
			nisn=excluded.nisn,
			kelas=excluded.kelas`,
		entity.ID, entity.UserID, entity.Nama, entity.NISN, entity.Kelas,
	)
	return err
}

func get(ctx context.Context, q storage.Querier, column, value string) (domain.Student, error) {
	var entity domain.Student
	err := q.QueryRowContext(ctx,
		"SELECT id, user_id, nama, nisn, kelas FROM student WHERE "+column+" = ?", value,
	).Scan(&entity.ID, &entity.UserID, &entity.Nama, &entity.NISN, &entity.Kelas)
	if err == sql.ErrNoRows {
		return domain.Student{}, fmt.Errorf("student not found: %w", err)
	}
	return entity, err
}
