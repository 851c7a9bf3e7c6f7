package orchestrators

import (
	"context"
	"testing"

	accountstore "peminatan/internal/adapters/storage/account"
	"peminatan/internal/adapters/storage/enrollment"
	recstore "peminatan/internal/adapters/storage/recommendation"
	scorestore "peminatan/internal/adapters/storage/reportscore"
	riasecstore "peminatan/internal/adapters/storage/riasec"
	"peminatan/internal/adapters/storage/roster"
	"peminatan/internal/adapters/storage/storagetest"
	"peminatan/internal/domain/account"
)

// TestExecuteSeedAdmin_Idempotent creates the admin once.
func TestExecuteSeedAdmin_Idempotent(t *testing.T) {
	ctx := context.Background()
	users := accountstore.NewSQLiteStore(storagetest.Open(t))
	deps := SeedAdminDeps{AccountStore: users}

	created, err := ExecuteSeedAdmin(ctx, deps, "admin", "admin123")
	if err != nil || !created {
		t.Fatalf("first seed: created=%v err=%v", created, err)
	}
	created, err = ExecuteSeedAdmin(ctx, deps, "admin", "lain")
	if err != nil || created {
		t.Fatalf("second seed: created=%v err=%v", created, err)
	}

	admin, err := users.GetByUsername(ctx, "admin")
	if err != nil {
		t.Fatal(err)
	}
	if admin.Role != account.RoleAdmin || !admin.CheckPassword("admin123") {
		t.Errorf("admin = %+v", admin)
	}
}

// TestExecuteSeedAdmin_UsernameClash refuses to take over another role's username.
func TestExecuteSeedAdmin_UsernameClash(t *testing.T) {
	store := newMockAccountStore(account.User{ID: "g1", Username: "admin", Role: account.RoleGuru, Nama: "G"})
	if _, err := ExecuteSeedAdmin(context.Background(), SeedAdminDeps{AccountStore: countingStore{store}}, "admin", "x"); err == nil {
		t.Error("expected an error")
	}
}

// countingStore adds the filtered Count the seeders need to the mock store.
type countingStore struct{ *mockAccountStore }

func (c countingStore) Count(_ context.Context, f accountstore.ListFilter) (int, error) {
	n := 0
	for _, u := range c.byID {
		if f.Role == "" || u.Role == f.Role {
			n++
		}
	}
	return n, nil
}

// TestExecuteSeedDemo fills the dashboards once.
func TestExecuteSeedDemo(t *testing.T) {
	ctx := context.Background()
	db := storagetest.Open(t)
	deps := SeedDemoDeps{
		AccountStore:    accountstore.NewSQLiteStore(db),
		Enrollment:      enrollment.NewSQLiteStore(db),
		Results:         riasecstore.NewSQLiteStore(db),
		Recommendations: recstore.NewSQLiteStore(db),
		ReportScores:    scorestore.NewSQLiteStore(db),
	}
	if err := ExecuteSeedDemo(ctx, deps); err != nil {
		t.Fatalf("seed: %v", err)
	}
	if err := ExecuteSeedDemo(ctx, deps); err != nil {
		t.Fatalf("reseed: %v", err)
	}

	sum, err := roster.NewSQLiteStore(db).Summary(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if sum.TotalStudents != len(demoStudents) || sum.TotalTeachers != len(demoTeachers) {
		t.Errorf("summary = %+v", sum)
	}
	if sum.Tested != 4 || sum.Distribution != [3]int{2, 1, 1} {
		t.Errorf("summary = %+v", sum)
	}
}
