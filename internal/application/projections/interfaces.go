package projections

import (
	"context"

	accountstore "peminatan/internal/adapters/storage/account"
	"peminatan/internal/adapters/storage/roster"
	"peminatan/internal/domain/account"
	"peminatan/internal/domain/recommendation"
	"peminatan/internal/domain/reportscore"
	"peminatan/internal/domain/riasec"
	"peminatan/internal/domain/student"
)

// RosterStore interface for dashboard queries.
type RosterStore interface {
	List(ctx context.Context, filter roster.Filter, limit, offset int) ([]roster.Row, error)
	Count(ctx context.Context, filter roster.Filter) (int, error)
	Summary(ctx context.Context) (roster.Summary, error)
	ExportRows(ctx context.Context) ([]roster.Row, error)
}

// AccountStore interface for user queries.
type AccountStore interface {
	GetByID(ctx context.Context, id string) (account.User, error)
	List(ctx context.Context, filter accountstore.ListFilter) ([]account.User, error)
	Count(ctx context.Context, filter accountstore.ListFilter) (int, error)
}

// StudentStore interface for profile queries.
type StudentStore interface {
	GetByUserID(ctx context.Context, userID string) (student.Student, error)
}

// ResultStore interface for RIASEC result queries.
type ResultStore interface {
	GetByStudentID(ctx context.Context, studentID string) (riasec.Result, error)
}

// RecommendationStore interface for recommendation queries.
type RecommendationStore interface {
	GetByStudentID(ctx context.Context, studentID string) (recommendation.Recommendation, error)
}

// ReportScoreStore interface for report score queries.
type ReportScoreStore interface {
	GetByStudentID(ctx context.Context, studentID string) (reportscore.ReportScore, error)
}
