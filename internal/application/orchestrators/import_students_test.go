package orchestrators

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/xuri/excelize/v2"

	"peminatan/internal/adapters/spreadsheet"
	accountstore "peminatan/internal/adapters/storage/account"
	"peminatan/internal/adapters/storage/enrollment"
	"peminatan/internal/adapters/storage/storagetest"
	"peminatan/internal/domain/account"
	"peminatan/internal/domain/student"
)

func importInto(t *testing.T, filename, data string) (ImportReport, *accountstore.SQLiteStore, error) {
	t.Helper()
	db := storagetest.Open(t)
	report, err := ExecuteImportStudents(context.Background(), ImportStudentsInput{
		Filename: filename,
		Data:     []byte(data),
		ActorID:  "admin-1",
	}, ImportStudentsDeps{Enrollment: enrollment.NewSQLiteStore(db)})
	return report, accountstore.NewSQLiteStore(db), err
}

// TestExecuteImportStudents_DuplicateNISN imports the first row and counts the second as an error.
func TestExecuteImportStudents_DuplicateNISN(t *testing.T) {
	report, users, err := importInto(t, "siswa.csv", "nama,nisn,kelas\nBudi,001,X1\nBudi2,001,X2\n")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report.Success != 1 || report.Errors != 1 {
		t.Errorf("success=%d errors=%d, want 1 and 1", report.Success, report.Errors)
	}
	if len(report.RowErrors) != 1 || report.RowErrors[0].Row != 3 {
		t.Errorf("row errors = %+v", report.RowErrors)
	}
	n, _ := users.Count(context.Background(), accountstore.ListFilter{})
	if n != 1 {
		t.Errorf("users = %d, want 1", n)
	}
}

// TestExecuteImportStudents_Defaults uses the NISN as username and password.
func TestExecuteImportStudents_Defaults(t *testing.T) {
	_, users, err := importInto(t, "siswa.csv", "Nama,NISN,Kelas\nAni,0099,X-2\n")
	if err != nil {
		t.Fatal(err)
	}
	u, err := users.GetByUsername(context.Background(), "0099")
	if err != nil {
		t.Fatalf("user not created under NISN: %v", err)
	}
	if u.Role != account.RoleSiswa || !u.CheckPassword("0099") || u.Kelas != "X-2" {
		t.Errorf("user = %+v", u)
	}
}

// TestExecuteImportStudents_OptionalColumns lets username, password and role override defaults.
func TestExecuteImportStudents_OptionalColumns(t *testing.T) {
	data := "NAMA,NISN,KELAS,Username,Password,Role\n" +
		"Ani,0099,X-2,ani.w,rahasia,\n" +
		"Budi,0100,X-2,,,GURU\n"
	report, users, err := importInto(t, "siswa.csv", data)
	if err != nil {
		t.Fatal(err)
	}
	if report.Success != 2 {
		t.Fatalf("success = %d, errors = %+v", report.Success, report.RowErrors)
	}
	ctx := context.Background()
	ani, err := users.GetByUsername(ctx, "ani.w")
	if err != nil || !ani.CheckPassword("rahasia") {
		t.Errorf("ani = %+v, %v", ani, err)
	}
	budi, err := users.GetByUsername(ctx, "0100")
	if err != nil || budi.Role != account.RoleGuru {
		t.Errorf("budi = %+v, %v", budi, err)
	}
}

// TestExecuteImportStudents_SkipsBlankRows ignores rows without name or NISN.
func TestExecuteImportStudents_SkipsBlankRows(t *testing.T) {
	report, _, err := importInto(t, "siswa.csv", "nama,nisn,kelas\nBudi,,X1\n,002,X1\nAni,003,X1\n,,\n")
	if err != nil {
		t.Fatal(err)
	}
	if report.Success != 1 || report.Errors != 0 || report.Skipped != 3 {
		t.Errorf("report = %+v", report)
	}
}

// TestExecuteImportStudents_BadRole counts an unknown role as a row error.
func TestExecuteImportStudents_BadRole(t *testing.T) {
	report, _, err := importInto(t, "siswa.csv", "nama,nisn,kelas,role\nBudi,001,X1,kepala\nAni,002,X1,\n")
	if err != nil {
		t.Fatal(err)
	}
	if report.Success != 1 || report.Errors != 1 {
		t.Errorf("report = %+v", report)
	}
}

// TestExecuteImportStudents_FileFormatErrors rejects the upload before any row.
func TestExecuteImportStudents_FileFormatErrors(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		data     string
	}{
		{"missing kelas column", "siswa.csv", "nama,nisn\nBudi,001\n"},
		{"unsupported extension", "siswa.txt", "nama,nisn,kelas\nBudi,001,X1\n"},
		{"empty file", "siswa.csv", ""},
		{"not a workbook", "siswa.xlsx", "nama,nisn,kelas"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, users, err := importInto(t, tt.filename, tt.data)
			var ferr *FileFormatError
			if !errors.As(err, &ferr) {
				t.Fatalf("err = %v, want *FileFormatError", err)
			}
			if n, _ := users.Count(context.Background(), accountstore.ListFilter{}); n != 0 {
				t.Errorf("users = %d, want 0", n)
			}
		})
	}
}

// TestExecuteImportStudents_XLSX reads the first sheet of a workbook.
func TestExecuteImportStudents_XLSX(t *testing.T) {
	f := excelize.NewFile()
	rows := [][]any{{"Nama", "NISN", "Kelas"}, {"Ani", "001", "X-1"}, {"Budi", "002", "X-2"}}
	for i, r := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := f.SetSheetRow("Sheet1", cell, &r); err != nil {
			t.Fatal(err)
		}
	}
	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		t.Fatal(err)
	}
	f.Close()

	report, _, err := importInto(t, "siswa.xlsx", buf.String())
	if err != nil {
		t.Fatal(err)
	}
	if report.Success != 2 {
		t.Errorf("success = %d, errors = %+v", report.Success, report.RowErrors)
	}
}

// TestExecuteImportStudents_Template imports nothing from the blank template.
func TestExecuteImportStudents_Template(t *testing.T) {
	var buf bytes.Buffer
	if err := spreadsheet.WriteTemplate(&buf); err != nil {
		t.Fatal(err)
	}
	report, _, err := importInto(t, "template_import_siswa.xlsx", buf.String())
	if err != nil {
		t.Fatal(err)
	}
	if report.Success != 0 || report.Errors != 0 {
		t.Errorf("report = %+v", report)
	}
}

type failingEnrollment struct{ err error }

// Import implements EnrollmentStoreForImport by running fn against a batch that accepts
// every row and then failing the commit.
func (f failingEnrollment) Import(ctx context.Context, fn func(enrollment.Batch) error) error {
	if err := fn(acceptAll{}); err != nil {
		return err
	}
	return f.err
}

type acceptAll struct{}

func (acceptAll) Enroll(context.Context, account.User, student.Student) error { return nil }

// TestExecuteImportStudents_CommitFailure reports a storage error instead of counts.
func TestExecuteImportStudents_CommitFailure(t *testing.T) {
	boom := errors.New("database is locked")
	_, err := ExecuteImportStudents(context.Background(), ImportStudentsInput{
		Filename: "siswa.csv",
		Data:     []byte("nama,nisn,kelas\nBudi,001,X1\n"),
	}, ImportStudentsDeps{Enrollment: failingEnrollment{err: boom}})
	if !errors.Is(err, boom) {
		t.Errorf("err = %v, want %v", err, boom)
	}
	var ferr *FileFormatError
	if errors.As(err, &ferr) {
		t.Error("commit failure reported as a file format error")
	}
}

// recordingEnrollment notes whether a batch transaction is open and which users it saw.
type recordingEnrollment struct {
	inBatch bool
	users   []account.User
}

// Import implements EnrollmentStoreForImport.
func (r *recordingEnrollment) Import(ctx context.Context, fn func(enrollment.Batch) error) error {
	r.inBatch = true
	defer func() { r.inBatch = false }()
	return fn(r)
}

// Enroll implements enrollment.Batch.
func (r *recordingEnrollment) Enroll(_ context.Context, u account.User, _ student.Student) error {
	r.users = append(r.users, u)
	return nil
}

// TestExecuteImportStudents_HashesBeforeTransaction keeps bcrypt work out of the write
// transaction and hands the batch rows that are already hashed, in sheet order.
func TestExecuteImportStudents_HashesBeforeTransaction(t *testing.T) {
	store := &recordingEnrollment{}
	orig := setPassword
	t.Cleanup(func() { setPassword = orig })
	var mu sync.Mutex
	hashed := 0
	setPassword = func(u *account.User, pw string) error {
		mu.Lock()
		defer mu.Unlock()
		if store.inBatch {
			t.Error("password hashed inside the import transaction")
		}
		hashed++
		return orig(u, pw)
	}

	data := "nama,nisn,kelas,password\n" +
		"Ani,001,X1,\n" +
		",,,\n" +
		"Budi,002,X1,rahasia\n" +
		"Citra,003,X2,\n"
	report, err := ExecuteImportStudents(context.Background(), ImportStudentsInput{
		Filename: "siswa.csv",
		Data:     []byte(data),
	}, ImportStudentsDeps{Enrollment: store})
	if err != nil {
		t.Fatal(err)
	}
	if report.Success != 3 || report.Skipped != 1 || report.Errors != 0 {
		t.Errorf("report = %+v", report)
	}
	if hashed != 3 {
		t.Errorf("hashed %d passwords, want 3", hashed)
	}
	wantOrder := []string{"001", "002", "003"}
	if len(store.users) != len(wantOrder) {
		t.Fatalf("enrolled %d users, want %d", len(store.users), len(wantOrder))
	}
	for i, u := range store.users {
		if u.NISN != wantOrder[i] {
			t.Errorf("row %d nisn = %q, want %q", i, u.NISN, wantOrder[i])
		}
		if u.Password == "" || u.Password == u.NISN {
			t.Errorf("row %d password not hashed: %q", i, u.Password)
		}
	}
	if !store.users[1].CheckPassword("rahasia") {
		t.Error("password column not honoured")
	}
}
