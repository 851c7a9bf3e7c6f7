package projections

import (
	"context"
	"database/sql"
	"errors"

	"peminatan/internal/domain/account"
	"peminatan/internal/domain/export"
	"peminatan/internal/domain/reportscore"
	"peminatan/internal/domain/riasec"
	"peminatan/internal/domain/student"
)

// ErrStudentNotFound is returned for an unknown user id or a user that is not a siswa.
var ErrStudentNotFound = errors.New("siswa tidak ditemukan")

// StudentDetail assembles everything known about one student. Every part after User is
// optional and nil when absent.
type StudentDetail struct {
	User           account.User
	Nama           string // resolved: user, then profile, then username
	NISN           string
	Kelas          string
	StatusTes      string
	Student        *student.Student
	Result         *riasec.Result
	Recommendation string // empty when there is none
	ReportScore    *reportscore.ReportScore
	Descriptions   []string // markdown, one per top-3 letter
}

// GetStudentDetailDeps holds dependencies for GetStudentDetail.
type GetStudentDetailDeps struct {
	AccountStore        AccountStore
	StudentStore        StudentStore
	ResultStore         ResultStore
	RecommendationStore RecommendationStore
	ReportScoreStore    ReportScoreStore
}

// QueryGetStudentDetail loads the detail view for a siswa user.
// PRE: userID is the id of a User, not of a Student profile
// POST: Returns ErrStudentNotFound unless userID is a siswa; missing parts are nil
func QueryGetStudentDetail(ctx context.Context, userID string, deps GetStudentDetailDeps) (StudentDetail, error) {
	user, err := deps.AccountStore.GetByID(ctx, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return StudentDetail{}, ErrStudentNotFound
	}
	if err != nil {
		return StudentDetail{}, err
	}
	if !user.IsSiswa() {
		return StudentDetail{}, ErrStudentNotFound
	}

	d := StudentDetail{
		User:      user,
		Nama:      user.DisplayName(),
		NISN:      user.NISN,
		Kelas:     user.Kelas,
		StatusTes: export.StatusFor(false),
	}

	profile, err := deps.StudentStore.GetByUserID(ctx, user.ID)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return d, nil
	case err != nil:
		return StudentDetail{}, err
	}
	d.Student = &profile
	d.Nama = student.ResolveName(user.Nama, profile.Nama, user.Username)
	d.NISN = student.Resolve(user.NISN, profile.NISN)
	d.Kelas = student.Resolve(user.Kelas, profile.Kelas)

	result, err := deps.ResultStore.GetByStudentID(ctx, profile.ID)
	switch {
	case err == nil:
		d.Result = &result
		d.StatusTes = export.StatusFor(true)
		d.Descriptions = riasec.DescriptionsFor(result.Top3)
	case !errors.Is(err, sql.ErrNoRows):
		return StudentDetail{}, err
	}

	rec, err := deps.RecommendationStore.GetByStudentID(ctx, profile.ID)
	switch {
	case err == nil:
		d.Recommendation = rec.PaketPrediksi
	case !errors.Is(err, sql.ErrNoRows):
		return StudentDetail{}, err
	}

	score, err := deps.ReportScoreStore.GetByStudentID(ctx, profile.ID)
	switch {
	case err == nil:
		d.ReportScore = &score
	case !errors.Is(err, sql.ErrNoRows):
		return StudentDetail{}, err
	}
	return d, nil
}
