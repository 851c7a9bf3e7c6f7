// Package enrollment writes a siswa User together with its Student profile.
package enrollment

import (
	"context"

	accountstore "peminatan/internal/adapters/storage/account"
	"peminatan/internal/domain/account"
	"peminatan/internal/domain/student"
)

// Uniqueness errors, whether caught by the pre-insert check or by the constraint.
var (
	ErrUsernameTaken = accountstore.ErrUsernameTaken
	ErrNISNTaken     = accountstore.ErrNISNTaken
)

// Store enrolls students.
type Store interface {
	// Register inserts one user and its profile in a single transaction.
	Register(ctx context.Context, user account.User, profile student.Student) error
	// Import runs fn against one batch transaction. The batch is committed once when fn
	// returns nil and rolled back entirely otherwise.
	Import(ctx context.Context, fn func(Batch) error) error
}

// Batch enrolls rows inside an import transaction.
type Batch interface {
	// Enroll inserts a user and its profile. A failed row leaves no trace in the batch.
	Enroll(ctx context.Context, user account.User, profile student.Student) error
}
