package enrollment

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"peminatan/internal/adapters/storage"
	accountstore "peminatan/internal/adapters/storage/account"
	studentstore "peminatan/internal/adapters/storage/student"
	"peminatan/internal/domain/account"
	"peminatan/internal/domain/student"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new enrollment store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// Register inserts user and profile together.
// PRE: user and profile have been validated; profile.UserID == user.ID
// POST: both rows exist, or neither does and the error says why
func (s *SQLiteStore) Register(ctx context.Context, user account.User, profile student.Student) error {
	return storage.InTx(ctx, s.db, func(tx *sql.Tx) error {
		return enroll(ctx, tx, user, profile)
	})
}

// Import runs fn inside one transaction.
// POST: every row fn enrolled successfully is committed together, or nothing is
func (s *SQLiteStore) Import(ctx context.Context, fn func(Batch) error) error {
	return storage.InTx(ctx, s.db, func(tx *sql.Tx) error {
		return fn(&sqliteBatch{tx: tx})
	})
}

type sqliteBatch struct {
	tx   *sql.Tx
	rows int
}

// Enroll wraps the row in a savepoint so a failure part way through, such as a user
// inserted without its profile, is undone without touching earlier rows.
func (b *sqliteBatch) Enroll(ctx context.Context, user account.User, profile student.Student) error {
	b.rows++
	sp := fmt.Sprintf("row_%d", b.rows)
	if _, err := b.tx.ExecContext(ctx, "SAVEPOINT "+sp); err != nil {
		return err
	}
	if err := enroll(ctx, b.tx, user, profile); err != nil {
		if _, rbErr := b.tx.ExecContext(ctx, "ROLLBACK TO "+sp); rbErr != nil {
			return fmt.Errorf("%w (rollback: %v)", err, rbErr)
		}
		if _, relErr := b.tx.ExecContext(ctx, "RELEASE "+sp); relErr != nil {
			slog.Warn("savepoint_release_failed", "savepoint", sp, "err", relErr)
		}
		return err
	}
	_, err := b.tx.ExecContext(ctx, "RELEASE "+sp)
	return err
}

func enroll(ctx context.Context, q storage.Querier, user account.User, profile student.Student) error {
	taken, err := accountstore.UsernameTaken(ctx, q, user.Username, user.ID)
	if err != nil {
		return err
	}
	if taken {
		return ErrUsernameTaken
	}
	taken, err = accountstore.NISNTaken(ctx, q, user.NISN, user.ID)
	if err != nil {
		return err
	}
	if taken {
		return ErrNISNTaken
	}
	if err := accountstore.Upsert(ctx, q, user); err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	if err := studentstore.Upsert(ctx, q, profile); err != nil {
		return fmt.Errorf("insert student: %w", err)
	}
	return nil
}
