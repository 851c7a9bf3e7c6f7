// Package roster answers the dashboard queries that span users, student profiles, RIASEC
// results and recommendations.
package roster

import (
	"context"
)

// Filter narrows the student listing. Empty fields impose no constraint; set fields
// combine with AND.
type Filter struct {
	Nama   string // case-insensitive substring of the resolved name
	Kelas  string // case-insensitive substring of the resolved class
	Riasec string // case-insensitive substring of the top-3 code
	Paket  string // exact package label
}

// Row is one siswa user with its optional profile, result and recommendation resolved.
type Row struct {
	UserID    string
	StudentID string // empty when the user has no profile
	Username  string
	Nama      string
	NISN      string
	Kelas     string
	Tested    bool
	Top3      string
	Paket     string // empty when there is no recommendation
}

// Summary is computed over every siswa user, independent of any Filter.
type Summary struct {
	TotalStudents        int
	TotalTeachers        int
	Tested               int
	Untested             int
	Distribution         [3]int // counts per label in recommendation.Labels order
	TotalRecommendations int
}

// Store reads the roster.
type Store interface {
	List(ctx context.Context, filter Filter, limit, offset int) ([]Row, error)
	Count(ctx context.Context, filter Filter) (int, error)
	Summary(ctx context.Context) (Summary, error)
	// ExportRows returns one row per student profile, ordered by name.
	ExportRows(ctx context.Context) ([]Row, error)
}
