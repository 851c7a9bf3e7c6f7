package student_test

import (
	"testing"

	"peminatan/internal/domain/student"
)

func TestStudent_Validate(t *testing.T) {
	tests := []struct {
		name    string
		s       student.Student
		wantErr error
	}{
		{"valid", student.Student{ID: "s1", UserID: "u1", Nama: "Budi"}, nil},
		{"missing user", student.Student{ID: "s2", Nama: "Budi"}, student.ErrEmptyUserID},
		{"blank name", student.Student{ID: "s3", UserID: "u3", Nama: "  "}, student.ErrEmptyName},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.s.Validate(); err != tt.wantErr {
				t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

// TestResolve verifies the User value wins and the Student copy is the fallback.
func TestResolve(t *testing.T) {
	tests := []struct {
		user, stud, want string
	}{
		{"X-2", "X-1", "X-2"},
		{"", "X-1", "X-1"},
		{"  ", "X-1", "X-1"},
		{"", "", ""},
	}
	for _, tt := range tests {
		if got := student.Resolve(tt.user, tt.stud); got != tt.want {
			t.Errorf("Resolve(%q, %q) = %q, want %q", tt.user, tt.stud, got, tt.want)
		}
	}
}

func TestResolveName_FallsBackToUsername(t *testing.T) {
	if got := student.ResolveName("", "", "0042"); got != "0042" {
		t.Errorf("ResolveName = %q, want username", got)
	}
	if got := student.ResolveName("", "Siti", "0042"); got != "Siti" {
		t.Errorf("ResolveName = %q, want student name", got)
	}
	if got := student.ResolveName("Siti Aminah", "Siti", "0042"); got != "Siti Aminah" {
		t.Errorf("ResolveName = %q, want user name", got)
	}
}
