package reportscore

import (
	"context"

	domain "peminatan/internal/domain/reportscore"
)

// Store persists report-card scores.
type Store interface {
	GetByStudentID(ctx context.Context, studentID string) (domain.ReportScore, error)
	Save(ctx context.Context, value domain.ReportScore) error
}
