package account

import (
	"context"
	"errors"

	domain "peminatan/internal/domain/account"
)

// Uniqueness errors returned by writes that hit the users UNIQUE constraints.
var (
	ErrUsernameTaken = errors.New("username sudah digunakan")
	ErrNISNTaken     = errors.New("NISN sudah terdaftar")
)

// Store persists User state.
type Store interface {
	GetByID(ctx context.Context, id string) (domain.User, error)
	GetByUsername(ctx context.Context, username string) (domain.User, error)
	UsernameTaken(ctx context.Context, username, excludeID string) (bool, error)
	NISNTaken(ctx context.Context, nisn, excludeID string) (bool, error)
	Save(ctx context.Context, value domain.User) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter ListFilter) ([]domain.User, error)
	Count(ctx context.Context, filter ListFilter) (int, error)
}

// ListFilter carries filtering parameters for List and Count.
type ListFilter struct {
	Limit  int
	Offset int
	Role   string
	Name   string // case-insensitive substring of nama
}
