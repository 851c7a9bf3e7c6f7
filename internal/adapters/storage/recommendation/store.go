package recommendation

import (
	"context"

	domain "peminatan/internal/domain/recommendation"
)

// Store persists package recommendations.
type Store interface {
	GetByStudentID(ctx context.Context, studentID string) (domain.Recommendation, error)
	Save(ctx context.Context, value domain.Recommendation) error
}
