package account

import (
	"crypto/subtle"
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// Max length constants for user-editable fields.
const (
	MaxUsernameLength = 64
	MaxNameLength     = 100
	MaxNISNLength     = 32
	MaxKelasLength    = 32
)

// Role constants
const (
	RoleAdmin = "admin"
	RoleGuru  = "guru"
	RoleSiswa = "siswa"
)

// ValidRoles contains all valid role values.
var ValidRoles = []string{RoleAdmin, RoleGuru, RoleSiswa}

// HashCost is the bcrypt cost used by SetPassword. Tests lower it to bcrypt.MinCost.
var HashCost = bcrypt.DefaultCost

// Domain errors
var (
	ErrEmptyUsername = errors.New("username tidak boleh kosong")
	ErrEmptyName     = errors.New("nama tidak boleh kosong")
	ErrInvalidRole   = errors.New("role harus salah satu dari: admin, guru, siswa")
	ErrEmptyPassword = errors.New("password tidak boleh kosong")
	ErrFieldTooLong  = errors.New("isian melebihi panjang maksimum")
)

// User is a login identity. Nama, NISN and Kelas are optional for admins.
type User struct {
	ID       string
	Username string
	Password string // bcrypt hash; legacy rows may hold the plain value
	Role     string
	Nama     string
	NISN     string
	Kelas    string
}

// Validate checks if the User has valid data.
// PRE: User struct is populated
// POST: Returns nil if valid, error otherwise
func (u *User) Validate() error {
	if strings.TrimSpace(u.Username) == "" {
		return ErrEmptyUsername
	}
	if len(u.Username) > MaxUsernameLength || len(u.Nama) > MaxNameLength ||
		len(u.NISN) > MaxNISNLength || len(u.Kelas) > MaxKelasLength {
		return ErrFieldTooLong
	}
	if u.Role != RoleAdmin && strings.TrimSpace(u.Nama) == "" {
		return ErrEmptyName
	}
	if !IsValidRole(u.Role) {
		return ErrInvalidRole
	}
	return nil
}

// SetPassword hashes and stores a password using bcrypt.
// PRE: plaintext is non-empty
// POST: Password holds a bcrypt hash
func (u *User) SetPassword(plaintext string) error {
	if plaintext == "" {
		return ErrEmptyPassword
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), HashCost)
	if err != nil {
		return err
	}
	u.Password = string(hash)
	return nil
}

// CheckPassword reports whether plaintext matches the stored password.
// INVARIANT: User fields are not mutated
func (u *User) CheckPassword(plaintext string) bool {
	return VerifyPassword(u.Password, plaintext)
}

// VerifyPassword checks plaintext against a stored value in two steps: first as a bcrypt
// hash, then, when the hash check fails or the stored value is not a hash at all, as a
// legacy plain-text value compared in constant time.
func VerifyPassword(stored, plaintext string) bool {
	if stored == "" || plaintext == "" {
		return false
	}
	if bcrypt.CompareHashAndPassword([]byte(stored), []byte(plaintext)) == nil {
		return true
	}
	return subtle.ConstantTimeCompare([]byte(stored), []byte(plaintext)) == 1
}

// IsHashed reports whether the stored password is a bcrypt hash.
func (u *User) IsHashed() bool {
	_, err := bcrypt.Cost([]byte(u.Password))
	return err == nil
}

// DisplayName returns Nama, or the username when no name is set.
func (u *User) DisplayName() string {
	if n := strings.TrimSpace(u.Nama); n != "" {
		return n
	}
	return u.Username
}

// IsAdmin returns true if the user has admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// IsGuru returns true if the user is a teacher.
func (u *User) IsGuru() bool {
	return u.Role == RoleGuru
}

// IsSiswa returns true if the user is a student.
func (u *User) IsSiswa() bool {
	return u.Role == RoleSiswa
}

// HomePath returns the dashboard path for a role.
func HomePath(role string) string {
	switch role {
	case RoleAdmin:
		return "/admin"
	case RoleGuru:
		return "/guru"
	case RoleSiswa:
		return "/siswa"
	}
	return "/login"
}

// IsValidRole reports whether role is one of ValidRoles.
func IsValidRole(role string) bool {
	for _, r := range ValidRoles {
		if r == role {
			return true
		}
	}
	return false
}
