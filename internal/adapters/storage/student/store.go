package student

import (
	"context"

	domain "peminatan/internal/domain/student"
)

// Store persists Student profiles.
type Store interface {
	GetByID(ctx context.Context, id string) (domain.Student, error)
	GetByUserID(ctx context.Context, userID string) (domain.Student, error)
	Save(ctx context.Context, value domain.Student) error
	Count(ctx context.Context) (int, error)
}
