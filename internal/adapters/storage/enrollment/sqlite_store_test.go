package enrollment_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	accountstore "peminatan/internal/adapters/storage/account"
	"peminatan/internal/adapters/storage/enrollment"
	"peminatan/internal/adapters/storage/storagetest"
	studentstore "peminatan/internal/adapters/storage/student"
	"peminatan/internal/domain/account"
	"peminatan/internal/domain/student"
)

func pair(id, username, nisn string) (account.User, student.Student) {
	u := account.User{ID: id, Username: username, Password: "x", Role: account.RoleSiswa, Nama: "Siswa " + id, NISN: nisn, Kelas: "X-1"}
	return u, student.Student{ID: "s-" + id, UserID: id, Nama: u.Nama, NISN: nisn, Kelas: u.Kelas}
}

func countRows(t *testing.T, db *sql.DB, table string) int {
	t.Helper()
	var n int
	if err := db.QueryRow("SELECT COUNT(*) FROM " + table).Scan(&n); err != nil {
		t.Fatal(err)
	}
	return n
}

// TestRegister_CreatesUserAndProfile writes both rows.
func TestRegister_CreatesUserAndProfile(t *testing.T) {
	ctx := context.Background()
	db := storagetest.Open(t)
	s := enrollment.NewSQLiteStore(db)

	u, p := pair("1", "budi", "001")
	if err := s.Register(ctx, u, p); err != nil {
		t.Fatalf("Register: %v", err)
	}
	got, err := studentstore.NewSQLiteStore(db).GetByUserID(ctx, "1")
	if err != nil {
		t.Fatalf("profile missing: %v", err)
	}
	if got.NISN != "001" {
		t.Errorf("profile NISN = %q", got.NISN)
	}
}

// TestRegister_Duplicates rejects a taken username or NISN without writing anything.
func TestRegister_Duplicates(t *testing.T) {
	ctx := context.Background()
	db := storagetest.Open(t)
	s := enrollment.NewSQLiteStore(db)
	u, p := pair("1", "budi", "001")
	if err := s.Register(ctx, u, p); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name     string
		username string
		nisn     string
		want     error
	}{
		{"same username", "budi", "002", enrollment.ErrUsernameTaken},
		{"same nisn", "ani", "001", enrollment.ErrNISNTaken},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u, p := pair("2", tt.username, tt.nisn)
			if err := s.Register(ctx, u, p); !errors.Is(err, tt.want) {
				t.Errorf("got %v, want %v", err, tt.want)
			}
			if n := countRows(t, db, "users"); n != 1 {
				t.Errorf("users = %d, want 1", n)
			}
		})
	}
}

// TestImport_RowFailureKeepsOtherRows commits good rows and drops the failed one entirely.
func TestImport_RowFailureKeepsOtherRows(t *testing.T) {
	ctx := context.Background()
	db := storagetest.Open(t)
	s := enrollment.NewSQLiteStore(db)

	var errs []error
	err := s.Import(ctx, func(b enrollment.Batch) error {
		for _, r := range [][3]string{{"1", "001", "001"}, {"2", "002", "001"}, {"3", "003", "003"}} {
			u, p := pair(r[0], r[1], r[2])
			if err := b.Enroll(ctx, u, p); err != nil {
				errs = append(errs, err)
			}
		}
		// A profile whose user id does not exist fails after the checks pass.
		u, p := pair("4", "004", "004")
		p.UserID = "nobody"
		if err := b.Enroll(ctx, u, p); err != nil {
			errs = append(errs, err)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if len(errs) != 2 || !errors.Is(errs[0], enrollment.ErrNISNTaken) {
		t.Fatalf("row errors = %v", errs)
	}
	if n := countRows(t, db, "users"); n != 2 {
		t.Errorf("users = %d, want 2", n)
	}
	if n := countRows(t, db, "student"); n != 2 {
		t.Errorf("student = %d, want 2", n)
	}
	if taken, _ := accountstore.UsernameTaken(ctx, db, "004", ""); taken {
		t.Error("user of the failed row was kept without its profile")
	}
}

// TestImport_AbortRollsBackEverything discards the whole batch when fn fails.
func TestImport_AbortRollsBackEverything(t *testing.T) {
	ctx := context.Background()
	db := storagetest.Open(t)
	s := enrollment.NewSQLiteStore(db)
	boom := errors.New("boom")

	err := s.Import(ctx, func(b enrollment.Batch) error {
		u, p := pair("1", "001", "001")
		if err := b.Enroll(ctx, u, p); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("Import = %v, want boom", err)
	}
	if n := countRows(t, db, "users"); n != 0 {
		t.Errorf("users = %d, want 0", n)
	}
}
