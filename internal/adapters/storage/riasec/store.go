package riasec

import (
	"context"

	domain "peminatan/internal/domain/riasec"
)

// Store persists RIASEC results. Results are written by the test-taking flow and read here.
type Store interface {
	GetByStudentID(ctx context.Context, studentID string) (domain.Result, error)
	Save(ctx context.Context, value domain.Result) error
}
