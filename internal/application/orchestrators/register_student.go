package orchestrators

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"peminatan/internal/adapters/storage/enrollment"
	"peminatan/internal/domain/account"
	"peminatan/internal/domain/student"
)

// EnrollmentStoreForRegister defines the store interface needed by RegisterStudent.
type EnrollmentStoreForRegister interface {
	Register(ctx context.Context, user account.User, profile student.Student) error
}

// RegisterStudentInput is the self-registration form.
type RegisterStudentInput struct {
	Username string `label:"Username" validate:"required,max=64"`
	Password string `label:"Password" validate:"required"`
	Confirm  string `label:"Konfirmasi password" validate:"eqfield=Password"`
	Nama     string `label:"Nama" validate:"required,max=100"`
	NISN     string `label:"NISN" validate:"required,max=32"`
	Kelas    string `label:"Kelas" validate:"required,max=32"`
}

// RegisterStudentDeps holds dependencies for RegisterStudent.
type RegisterStudentDeps struct {
	Enrollment EnrollmentStoreForRegister
	GenerateID func() string
}

// ExecuteRegisterStudent creates a siswa account and its profile together.
// PRE: none
// POST: On success both records exist; on any *ValidationError nothing was written
// INVARIANT: Role is always siswa
func ExecuteRegisterStudent(ctx context.Context, input RegisterStudentInput, deps RegisterStudentDeps) (string, error) {
	input.Username = strings.TrimSpace(input.Username)
	input.Nama = strings.TrimSpace(input.Nama)
	input.NISN = strings.TrimSpace(input.NISN)
	input.Kelas = strings.TrimSpace(input.Kelas)
	if err := checkForm(input); err != nil {
		return "", err
	}

	genID := idGenerator(deps.GenerateID)
	user := account.User{
		ID:       genID(),
		Username: input.Username,
		Role:     account.RoleSiswa,
		Nama:     input.Nama,
		NISN:     input.NISN,
		Kelas:    input.Kelas,
	}
	if err := user.Validate(); err != nil {
		return "", invalid("", "%s", err.Error())
	}
	if err := user.SetPassword(input.Password); err != nil {
		return "", invalid("Password", "%s", err.Error())
	}
	profile := student.Student{
		ID:     genID(),
		UserID: user.ID,
		Nama:   user.Nama,
		NISN:   user.NISN,
		Kelas:  user.Kelas,
	}

	if err := deps.Enrollment.Register(ctx, user, profile); err != nil {
		switch {
		case errors.Is(err, enrollment.ErrUsernameTaken):
			return "", invalid("Username", "Username sudah digunakan")
		case errors.Is(err, enrollment.ErrNISNTaken):
			return "", invalid("NISN", "NISN sudah terdaftar")
		}
		return "", err
	}

	slog.Info("auth_event", "event", "student_registered", "username", user.Username, "user_id", user.ID)
	return user.ID, nil
}
