package orchestrators

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"strings"

	accountstore "peminatan/internal/adapters/storage/account"
	"peminatan/internal/domain/account"
)

// AccountStoreForTeacher defines the store interface needed by teacher management.
type AccountStoreForTeacher interface {
	GetByID(ctx context.Context, id string) (account.User, error)
	UsernameTaken(ctx context.Context, username, excludeID string) (bool, error)
	NISNTaken(ctx context.Context, nisn, excludeID string) (bool, error)
	Save(ctx context.Context, u account.User) error
	Delete(ctx context.Context, id string) error
}

// TeacherDeps holds dependencies for the teacher orchestrators.
type TeacherDeps struct {
	AccountStore AccountStoreForTeacher
	GenerateID   func() string
}

// CreateTeacherInput is the add-teacher form. NISN holds the teacher's NIP and is optional.
type CreateTeacherInput struct {
	Nama     string `label:"Nama" validate:"required,max=100"`
	Username string `label:"Username" validate:"required,max=64"`
	Password string `label:"Password" validate:"required"`
	Confirm  string `label:"Konfirmasi password" validate:"eqfield=Password"`
	NISN     string `label:"NIP" validate:"max=32"`
	Kelas    string `label:"Kelas" validate:"max=32"`
}

// UpdateTeacherInput is the edit-teacher form. An empty Password keeps the current one.
type UpdateTeacherInput struct {
	ID       string
	Nama     string `label:"Nama" validate:"required,max=100"`
	Username string `label:"Username" validate:"required,max=64"`
	Password string
	Confirm  string `label:"Konfirmasi password" validate:"eqfield=Password"`
	NISN     string `label:"NIP" validate:"max=32"`
	Kelas    string `label:"Kelas" validate:"max=32"`
}

// ExecuteCreateTeacher adds a guru account.
// PRE: none
// POST: On success a guru with a hashed password exists; on error nothing was written
// INVARIANT: username and NIP stay unique
func ExecuteCreateTeacher(ctx context.Context, input CreateTeacherInput, actorID string, deps TeacherDeps) (string, error) {
	input.Nama = strings.TrimSpace(input.Nama)
	input.Username = strings.TrimSpace(input.Username)
	input.NISN = strings.TrimSpace(input.NISN)
	input.Kelas = strings.TrimSpace(input.Kelas)
	if err := checkForm(input); err != nil {
		return "", err
	}
	if err := checkUnique(ctx, deps.AccountStore, input.Username, input.NISN, ""); err != nil {
		return "", err
	}

	user := account.User{
		ID:       idGenerator(deps.GenerateID)(),
		Username: input.Username,
		Role:     account.RoleGuru,
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
	if err := deps.AccountStore.Save(ctx, user); err != nil {
		return "", takenError(err)
	}

	slog.Info("teacher_event", "event", "created", "actor", actorID, "teacher_id", user.ID, "username", user.Username)
	return user.ID, nil
}

// ExecuteUpdateTeacher edits a guru account in place.
// PRE: input.ID names an existing guru
// POST: Fields are updated; the password only when a new one was given
func ExecuteUpdateTeacher(ctx context.Context, input UpdateTeacherInput, actorID string, deps TeacherDeps) error {
	user, err := getTeacher(ctx, deps.AccountStore, input.ID)
	if err != nil {
		return err
	}

	input.Nama = strings.TrimSpace(input.Nama)
	input.Username = strings.TrimSpace(input.Username)
	input.NISN = strings.TrimSpace(input.NISN)
	input.Kelas = strings.TrimSpace(input.Kelas)
	if err := checkForm(input); err != nil {
		return err
	}
	if err := checkUnique(ctx, deps.AccountStore, input.Username, input.NISN, user.ID); err != nil {
		return err
	}

	user.Nama = input.Nama
	user.Username = input.Username
	user.NISN = input.NISN
	user.Kelas = input.Kelas
	if err := user.Validate(); err != nil {
		return invalid("", "%s", err.Error())
	}
	if input.Password != "" {
		if err := user.SetPassword(input.Password); err != nil {
			return invalid("Password", "%s", err.Error())
		}
	}
	if err := deps.AccountStore.Save(ctx, user); err != nil {
		return takenError(err)
	}

	slog.Info("teacher_event", "event", "updated", "actor", actorID, "teacher_id", user.ID, "password_changed", input.Password != "")
	return nil
}

// ExecuteDeleteTeacher removes a guru account.
// PRE: id names an existing guru
// POST: The user row is gone, or nothing changed and an error is returned
func ExecuteDeleteTeacher(ctx context.Context, id, actorID string, deps TeacherDeps) error {
	user, err := getTeacher(ctx, deps.AccountStore, id)
	if err != nil {
		return err
	}
	if err := deps.AccountStore.Delete(ctx, user.ID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}
	slog.Info("teacher_event", "event", "deleted", "actor", actorID, "teacher_id", user.ID, "username", user.Username)
	return nil
}

func getTeacher(ctx context.Context, store AccountStoreForTeacher, id string) (account.User, error) {
	if id == "" {
		return account.User{}, ErrNotFound
	}
	user, err := store.GetByID(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return account.User{}, ErrNotFound
	}
	if err != nil {
		return account.User{}, err
	}
	if !user.IsGuru() {
		return account.User{}, ErrNotFound
	}
	return user, nil
}

// takenError maps a uniqueness failure from the store to the message checkUnique gives.
func takenError(err error) error {
	switch {
	case errors.Is(err, accountstore.ErrUsernameTaken):
		return invalid("Username", "Username sudah digunakan")
	case errors.Is(err, accountstore.ErrNISNTaken):
		return invalid("NISN", "NIP sudah digunakan")
	}
	return err
}

func checkUnique(ctx context.Context, store AccountStoreForTeacher, username, nisn, excludeID string) error {
	taken, err := store.UsernameTaken(ctx, username, excludeID)
	if err != nil {
		return err
	}
	if taken {
		return invalid("Username", "Username sudah digunakan")
	}
	if nisn == "" {
		return nil
	}
	taken, err = store.NISNTaken(ctx, nisn, excludeID)
	if err != nil {
		return err
	}
	if taken {
		return invalid("NISN", "NIP sudah digunakan")
	}
	return nil
}
