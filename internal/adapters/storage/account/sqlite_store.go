package account

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"peminatan/internal/adapters/storage"
	domain "peminatan/internal/domain/account"
)

const userColumns = "id, username, password, role, nama, nisn, kelas"

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new user store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// GetByID retrieves a User by its ID.
// PRE: id is non-empty
// POST: Returns the entity or an error wrapping sql.ErrNoRows if not found
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.User, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+userColumns+" FROM users WHERE id = ?", id)
	entity, err := scanUser(row.Scan)
	if err == sql.ErrNoRows {
		return domain.User{}, fmt.Errorf("user not found: %w", err)
	}
	return entity, err
}

// GetByUsername retrieves a User by username.
// PRE: username is non-empty
// POST: Returns the entity or an error wrapping sql.ErrNoRows if not found
func (s *SQLiteStore) GetByUsername(ctx context.Context, username string) (domain.User, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+userColumns+" FROM users WHERE username = ?", username)
	entity, err := scanUser(row.Scan)
	if err == sql.ErrNoRows {
		return domain.User{}, fmt.Errorf("user not found: %w", err)
	}
	return entity, err
}

// UsernameTaken reports whether another user already has username.
func (s *SQLiteStore) UsernameTaken(ctx context.Context, username, excludeID string) (bool, error) {
	return UsernameTaken(ctx, s.db, username, excludeID)
}

// NISNTaken reports whether another user already has nisn.
func (s *SQLiteStore) NISNTaken(ctx context.Context, nisn, excludeID string) (bool, error) {
	return NISNTaken(ctx, s.db, nisn, excludeID)
}

// Save persists a User (insert or update) in its own transaction.
// PRE: entity has been validated
// POST: Entity is persisted
func (s *SQLiteStore) Save(ctx context.Context, entity domain.User) error {
	return storage.InTx(ctx, s.db, func(tx *sql.Tx) error {
		return Upsert(ctx, tx, entity)
	})
}

// Delete removes a User from the database.
// PRE: id is non-empty
// POST: Entity is removed, or an error wrapping sql.ErrNoRows if there was none
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	return storage.InTx(ctx, s.db, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, "DELETE FROM users WHERE id = ?", id)
		if err != nil {
			return err
		}
		n, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if n == 0 {
			return fmt.Errorf("user not found: %w", sql.ErrNoRows)
		}
		return nil
	})
}

// List retrieves Users matching the filter, ordered by name.
// PRE: filter has valid parameters
// POST: Returns matching entities
func (s *SQLiteStore) List(ctx context.Context, filter ListFilter) ([]domain.User, error) {
	where, args := filter.where()
	query := "SELECT " + userColumns + " FROM users" + where + " ORDER BY " + storage.LowerFunc + "(nama), id"
	if filter.Limit > 0 {
		query += " LIMIT ? OFFSET ?"
		args = append(args, filter.Limit, filter.Offset)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []domain.User
	for rows.Next() {
		entity, err := scanUser(rows.Scan)
		if err != nil {
			return nil, err
		}
		results = append(results, entity)
	}
	return results, rows.Err()
}

// Count returns the number of users matching the filter, ignoring Limit and Offset.
func (s *SQLiteStore) Count(ctx context.Context, filter ListFilter) (int, error) {
	where, args := filter.where()
	var count int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM users"+where, args...).Scan(&count)
	return count, err
}

func (f ListFilter) where() (string, []any) {
	var conds []string
	var args []any
	if f.Role != "" {
		conds = append(conds, "role = ?")
		args = append(args, f.Role)
	}
	if strings.TrimSpace(f.Name) != "" {
		conds = append(conds, storage.LowerFunc+`(nama) LIKE ? ESCAPE '\'`)
		args = append(args, storage.ContainsPattern(f.Name))
	}
	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

// Upsert writes a user through q, so callers can include it in a wider transaction.
func Upsert(ctx context.Context, q storage.Querier, entity domain.User) error {
	_, err := q.ExecContext(ctx, `INSERT INTO users (id, username, password, role, nama, nisn, kelas, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			username=excluded.username,
			password=excluded.password,
			role=excluded.role,
			nama=excluded.nama,
			nisn=excluded.nisn,
			kelas=excluded.kelas`,
		entity.ID,
		entity.Username,
		entity.Password,
		entity.Role,
		entity.Nama,
		nullable(entity.NISN),
		entity.Kelas,
		time.Now().UTC().Format(storage.TimeFormat),
	)
	return uniqueViolation(err)
}

// uniqueViolation turns a UNIQUE constraint failure on users into ErrUsernameTaken or
// ErrNISNTaken. It catches writers that raced past UsernameTaken/NISNTaken.
func uniqueViolation(err error) error {
	var se *sqlite.Error
	if !errors.As(err, &se) || se.Code()&0xff != sqlite3.SQLITE_CONSTRAINT {
		return err
	}
	switch msg := se.Error(); {
	case strings.Contains(msg, "UNIQUE constraint failed: users.username"):
		return fmt.Errorf("%w: %v", ErrUsernameTaken, err)
	case strings.Contains(msg, "UNIQUE constraint failed: users.nisn"):
		return fmt.Errorf("%w: %v", ErrNISNTaken, err)
	}
	return err
}

// UsernameTaken reports whether a user other than excludeID has username.
func UsernameTaken(ctx context.Context, q storage.Querier, username, excludeID string) (bool, error) {
	var n int
	err := q.QueryRowContext(ctx, "SELECT COUNT(*) FROM users WHERE username = ? AND id != ?", username, excludeID).Scan(&n)
	return n > 0, err
}

// NISNTaken reports whether a user other than excludeID has nisn. An empty nisn is never taken.
func NISNTaken(ctx context.Context, q storage.Querier, nisn, excludeID string) (bool, error) {
	if strings.TrimSpace(nisn) == "" {
		return false, nil
	}
	var n int
	err := q.QueryRowContext(ctx, "SELECT COUNT(*) FROM users WHERE nisn = ? AND id != ?", nisn, excludeID).Scan(&n)
	return n > 0, err
}

// scanUser extracts a User from a row scanner function.
func scanUser(scan func(dest ...any) error) (domain.User, error) {
	var entity domain.User
	var nisn sql.NullString
	err := scan(
		&entity.ID,
		&entity.Username,
		&entity.Password,
		&entity.Role,
		&entity.Nama,
		&nisn,
		&entity.Kelas,
	)
	if err != nil {
		return domain.User{}, err
	}
	entity.NISN = nisn.String
	return entity, nil
}

func nullable(s string) any {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return s
}
