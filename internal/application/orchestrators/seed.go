package orchestrators

import (
	"context"
	"fmt"
	"log/slog"

	accountstore "peminatan/internal/adapters/storage/account"
	"peminatan/internal/domain/account"
	"peminatan/internal/domain/recommendation"
	"peminatan/internal/domain/reportscore"
	"peminatan/internal/domain/riasec"
	"peminatan/internal/domain/student"
)

// AccountStoreForSeed defines the store interface needed by the seeders.
type AccountStoreForSeed interface {
	Count(ctx context.Context, filter accountstore.ListFilter) (int, error)
	UsernameTaken(ctx context.Context, username, excludeID string) (bool, error)
	Save(ctx context.Context, u account.User) error
}

// SeedAdminDeps holds dependencies for SeedAdmin.
type SeedAdminDeps struct {
	AccountStore AccountStoreForSeed
	GenerateID   func() string
}

// ExecuteSeedAdmin creates the admin account when no admin exists yet.
// PRE: Database is migrated
// POST: At least one admin exists; returns true when one was created now
func ExecuteSeedAdmin(ctx context.Context, deps SeedAdminDeps, username, password string) (bool, error) {
	n, err := deps.AccountStore.Count(ctx, accountstore.ListFilter{Role: account.RoleAdmin})
	if err != nil {
		return false, err
	}
	if n > 0 {
		return false, nil
	}
	taken, err := deps.AccountStore.UsernameTaken(ctx, username, "")
	if err != nil {
		return false, err
	}
	if taken {
		return false, fmt.Errorf("cannot seed admin: username %q belongs to another role", username)
	}

	admin := account.User{ID: idGenerator(deps.GenerateID)(), Username: username, Role: account.RoleAdmin, Nama: "Administrator"}
	if err := admin.Validate(); err != nil {
		return false, err
	}
	if err := admin.SetPassword(password); err != nil {
		return false, err
	}
	if err := deps.AccountStore.Save(ctx, admin); err != nil {
		return false, err
	}
	slog.Info("auth_event", "event", "admin_seeded", "username", username)
	return true, nil
}

// ResultStoreForSeed writes RIASEC results.
type ResultStoreForSeed interface {
	Save(ctx context.Context, r riasec.Result) error
}

// RecommendationStoreForSeed writes recommendations.
type RecommendationStoreForSeed interface {
	Save(ctx context.Context, r recommendation.Recommendation) error
}

// ReportScoreStoreForSeed writes report scores.
type ReportScoreStoreForSeed interface {
	Save(ctx context.Context, r reportscore.ReportScore) error
}

// SeedDemoDeps holds the stores written by the demo seeder.
type SeedDemoDeps struct {
	AccountStore    AccountStoreForSeed
	Enrollment      EnrollmentStoreForRegister
	Results         ResultStoreForSeed
	Recommendations RecommendationStoreForSeed
	ReportScores    ReportScoreStoreForSeed
	GenerateID      func() string
}

type demoStudent struct {
	nama, nisn, kelas string
	scores            [6]int // R I A S E C; all zero means not tested yet
	paket             string
	rapor             [6]float64
}

var demoTeachers = []account.User{
	{Username: "guru.bk", Nama: "Sri Wahyuni", NISN: "197805122005012003"},
	{Username: "guru.wali", Nama: "Agus Santoso", NISN: "198103092008011004", Kelas: "X-1"},
}

var demoStudents = []demoStudent{
	{"Ahmad Fauzi", "0061234501", "X-1", [6]int{30, 42, 18, 25, 20, 28}, recommendation.Paket1, [6]float64{88, 82, 79, 91, 75, 90}},
	{"Bunga Lestari", "0061234502", "X-1", [6]int{12, 20, 41, 38, 22, 15}, recommendation.Paket3, [6]float64{76, 90, 88, 74, 85, 80}},
	{"Citra Maharani", "0061234503", "X-2", [6]int{15, 22, 19, 29, 40, 33}, recommendation.Paket2, [6]float64{80, 84, 86, 78, 89, 77}},
	{"Dimas Pratama", "0061234504", "X-2", [6]int{40, 35, 10, 14, 18, 30}, recommendation.Paket1, [6]float64{92, 75, 70, 89, 72, 94}},
	{"Eka Putri", "0061234505", "X-3", [6]int{}, "", [6]float64{}},
	{"Fajar Nugroho", "0061234506", "X-3", [6]int{}, "", [6]float64{}},
}

// ExecuteSeedDemo loads a few teachers and students so the dashboards have data.
// It does nothing once any siswa exists.
// PRE: Database is migrated; development only
// POST: Demo users, profiles, results, recommendations and report scores exist
func ExecuteSeedDemo(ctx context.Context, deps SeedDemoDeps) error {
	n, err := deps.AccountStore.Count(ctx, accountstore.ListFilter{Role: account.RoleSiswa})
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}
	genID := idGenerator(deps.GenerateID)

	for _, t := range demoTeachers {
		t.ID = genID()
		t.Role = account.RoleGuru
		if err := t.SetPassword("guru12345"); err != nil {
			return err
		}
		if err := deps.AccountStore.Save(ctx, t); err != nil {
			return fmt.Errorf("seed teacher %s: %w", t.Username, err)
		}
	}

	for _, d := range demoStudents {
		user := account.User{ID: genID(), Username: d.nisn, Role: account.RoleSiswa, Nama: d.nama, NISN: d.nisn, Kelas: d.kelas}
		if err := user.SetPassword(d.nisn); err != nil {
			return err
		}
		profile := student.Student{ID: genID(), UserID: user.ID, Nama: d.nama, NISN: d.nisn, Kelas: d.kelas}
		if err := deps.Enrollment.Register(ctx, user, profile); err != nil {
			return fmt.Errorf("seed student %s: %w", d.nisn, err)
		}
		if d.scores == [6]int{} {
			continue
		}

		result := riasec.Result{
			ID: genID(), StudentID: profile.ID,
			R: d.scores[0], I: d.scores[1], A: d.scores[2], S: d.scores[3], E: d.scores[4], C: d.scores[5],
		}
		result.Top3 = result.ComputeTop3()
		if err := deps.Results.Save(ctx, result); err != nil {
			return err
		}
		if err := deps.Recommendations.Save(ctx, recommendation.Recommendation{ID: genID(), StudentID: profile.ID, PaketPrediksi: d.paket}); err != nil {
			return err
		}
		score := reportscore.ReportScore{
			ID: genID(), StudentID: profile.ID,
			Matematika: d.rapor[0], BahasaIndonesia: d.rapor[1], BahasaInggris: d.rapor[2],
			IPA: d.rapor[3], IPS: d.rapor[4], Informatika: d.rapor[5],
		}
		if err := deps.ReportScores.Save(ctx, score); err != nil {
			return err
		}
	}

	slog.Info("demo_seeded", "teachers", len(demoTeachers), "students", len(demoStudents))
	return nil
}
