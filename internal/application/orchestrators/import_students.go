package orchestrators

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"

	"golang.org/x/sync/errgroup"

	"peminatan/internal/adapters/spreadsheet"
	"peminatan/internal/adapters/storage/enrollment"
	"peminatan/internal/domain/account"
	"peminatan/internal/domain/roster"
	"peminatan/internal/domain/student"
)

// EnrollmentStoreForImport defines the store interface needed by ImportStudents.
type EnrollmentStoreForImport interface {
	Import(ctx context.Context, fn func(enrollment.Batch) error) error
}

// ImportStudentsInput carries the uploaded file.
type ImportStudentsInput struct {
	Filename string
	Data     []byte
	ActorID  string
}

// ImportStudentsDeps holds dependencies for ImportStudents.
type ImportStudentsDeps struct {
	Enrollment EnrollmentStoreForImport
	GenerateID func() string
}

// ImportReport summarises an import run. Success and Errors are the counts shown to the user.
type ImportReport struct {
	Success   int
	Errors    int
	Skipped   int
	RowErrors []ImportRowError
}

// ImportRowError explains why one sheet row was not imported. Row is 1-based and counts
// the header row.
type ImportRowError struct {
	Row     int
	Message string
}

// ExecuteImportStudents parses a CSV/XLSX/XLS roster and enrolls every valid row.
// PRE: input.Filename carries the extension of input.Data
// POST: On success every counted row is committed together; a *FileFormatError means no
//
//	row was looked at; any other error means nothing was committed.
//
// INVARIANT: A row error never aborts the run and never leaves a user without its profile.
func ExecuteImportStudents(ctx context.Context, input ImportStudentsInput, deps ImportStudentsDeps) (ImportReport, error) {
	format, err := spreadsheet.FormatFromFilename(input.Filename)
	if err != nil {
		return ImportReport{}, &FileFormatError{Err: err}
	}
	rows, err := spreadsheet.ReadRows(input.Data, format)
	if err != nil {
		return ImportReport{}, &FileFormatError{Err: err}
	}
	header, err := roster.ParseHeader(rows[0])
	if err != nil {
		return ImportReport{}, &FileFormatError{Err: err}
	}

	prepared, skipped, err := prepareRows(ctx, header, rows[1:], idGenerator(deps.GenerateID))
	if err != nil {
		return ImportReport{}, err
	}

	var report ImportReport
	err = deps.Enrollment.Import(ctx, func(b enrollment.Batch) error {
		report = ImportReport{Skipped: skipped}
		for _, p := range prepared {
			if err := ctx.Err(); err != nil {
				return err
			}
			err := p.err
			if err == nil {
				err = b.Enroll(ctx, p.user, p.profile)
			}
			if err != nil {
				report.Errors++
				report.RowErrors = append(report.RowErrors, ImportRowError{Row: p.rowNum, Message: rowMessage(err)})
				if !isRowRejection(err) {
					slog.Error("students_import_row_failed", "row", p.rowNum, "nisn", p.user.NISN, "err", err)
				}
				continue
			}
			report.Success++
		}
		return nil
	})
	if err != nil {
		slog.Error("students_import", "actor", input.ActorID, "file", input.Filename, "committed", false, "err", err)
		return ImportReport{}, fmt.Errorf("import gagal disimpan: %w", err)
	}

	slog.Info("students_import",
		"actor", input.ActorID,
		"file", input.Filename,
		"format", format,
		"success", report.Success,
		"errors", report.Errors,
		"skipped", report.Skipped,
	)
	return report, nil
}

// setPassword hashes a row's password.
var setPassword = (*account.User).SetPassword

// preparedRow is a data row ready to enroll, or the reason it cannot be.
type preparedRow struct {
	rowNum  int
	user    account.User
	profile student.Student
	err     error
}

// prepareRows validates and hashes every non-blank row before the import transaction
// opens, so the write lock is held only for the inserts.
// POST: rows come back in sheet order; skipped counts blank rows
func prepareRows(ctx context.Context, header roster.Header, data [][]string, genID func() string) ([]preparedRow, int, error) {
	prepared := make([]preparedRow, 0, len(data))
	skipped := 0
	passwords := make([]string, 0, len(data))
	for i, cells := range data {
		row := header.Row(cells)
		if row.Skippable() {
			skipped++
			continue
		}
		user := account.User{
			ID:       genID(),
			Username: row.Username,
			Role:     row.Role,
			Nama:     row.Nama,
			NISN:     row.NISN,
			Kelas:    row.Kelas,
		}
		prepared = append(prepared, preparedRow{
			rowNum: i + 2,
			user:   user,
			profile: student.Student{
				ID:     genID(),
				UserID: user.ID,
				Nama:   row.Nama,
				NISN:   row.NISN,
				Kelas:  row.Kelas,
			},
			err: user.Validate(),
		})
		passwords = append(passwords, row.Password)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i := range prepared {
		if prepared[i].err != nil {
			continue
		}
		p := &prepared[i]
		pw := passwords[i]
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			// Row-level problems such as an empty password stay with the row.
			p.err = setPassword(&p.user, pw)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, 0, err
	}
	return prepared, skipped, nil
}

var rowRejections = []error{
	enrollment.ErrUsernameTaken,
	enrollment.ErrNISNTaken,
	account.ErrEmptyUsername,
	account.ErrEmptyName,
	account.ErrInvalidRole,
	account.ErrEmptyPassword,
	account.ErrFieldTooLong,
}

// isRowRejection reports whether err is an expected data problem rather than a fault.
func isRowRejection(err error) bool {
	for _, r := range rowRejections {
		if errors.Is(err, r) {
			return true
		}
	}
	return false
}

func rowMessage(err error) string {
	for _, r := range rowRejections {
		if errors.Is(err, r) {
			return r.Error()
		}
	}
	return "gagal menyimpan baris (lihat log server)"
}
