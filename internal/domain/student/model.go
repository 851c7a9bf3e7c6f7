package student

import (
	"errors"
	"strings"
)

// Domain errors
var (
	ErrEmptyUserID = errors.New("student must belong to a user")
	ErrEmptyName   = errors.New("nama siswa tidak boleh kosong")
)

// Student is the profile record owned by a siswa User. Nama, NISN and Kelas are copied
// from the User at creation and may drift afterwards.
type Student struct {
	ID     string
	UserID string
	Nama   string
	NISN   string
	Kelas  string
}

// Validate checks if the Student has valid data.
// PRE: Student struct is initialized
// POST: Returns error if validation fails, nil otherwise
func (s *Student) Validate() error {
	if s.UserID == "" {
		return ErrEmptyUserID
	}
	if strings.TrimSpace(s.Nama) == "" {
		return ErrEmptyName
	}
	return nil
}

// Resolve picks the authoritative value for a field: the User's own value when set,
// otherwise the Student profile's copy.
func Resolve(userValue, studentValue string) string {
	if v := strings.TrimSpace(userValue); v != "" {
		return v
	}
	return strings.TrimSpace(studentValue)
}

// ResolveName applies Resolve and falls back to the username when neither record has a name.
func ResolveName(userName, studentName, username string) string {
	if v := Resolve(userName, studentName); v != "" {
		return v
	}
	return username
}
