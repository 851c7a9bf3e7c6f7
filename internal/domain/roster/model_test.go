package roster_test

import (
	"errors"
	"testing"

	"peminatan/internal/domain/account"
	"peminatan/internal/domain/roster"
)

func TestParseHeader_CaseInsensitive(t *testing.T) {
	h, err := roster.ParseHeader([]string{" NAMA ", "Nisn", "kElAs", "Password"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !h.Has(roster.ColPassword) {
		t.Error("optional column should be recognised")
	}
	if h.Has(roster.ColUsername) {
		t.Error("username column is absent")
	}
}

func TestParseHeader_MissingRequired(t *testing.T) {
	for _, cells := range [][]string{
		{"nisn", "kelas"},
		{"nama", "kelas"},
		{"nama", "nisn"},
		{},
	} {
		_, err := roster.ParseHeader(cells)
		var mce *roster.MissingColumnError
		if !errors.As(err, &mce) {
			t.Errorf("ParseHeader(%v) error = %v, want MissingColumnError", cells, err)
		}
	}
}

func TestHeader_RowDefaults(t *testing.T) {
	h, _ := roster.ParseHeader([]string{"Nama", "NISN", "Kelas"})
	r := h.Row([]string{" Budi ", " 001 ", "X-1"})
	want := roster.Row{Nama: "Budi", NISN: "001", Kelas: "X-1", Username: "001", Password: "001", Role: account.RoleSiswa}
	if r != want {
		t.Errorf("Row() = %+v, want %+v", r, want)
	}
}

func TestHeader_RowOverrides(t *testing.T) {
	h, _ := roster.ParseHeader([]string{"nama", "nisn", "kelas", "username", "password", "role"})
	r := h.Row([]string{"Budi", "001", "X-1", "budi.x1", "s3cret", "GURU"})
	if r.Username != "budi.x1" || r.Password != "s3cret" || r.Role != account.RoleGuru {
		t.Errorf("overrides not applied: %+v", r)
	}

	blank := h.Row([]string{"Budi", "001", "X-1", " ", "", ""})
	if blank.Username != "001" || blank.Password != "001" || blank.Role != account.RoleSiswa {
		t.Errorf("blank overrides should fall back to defaults: %+v", blank)
	}
}

func TestRow_Skippable(t *testing.T) {
	h, _ := roster.ParseHeader([]string{"nama", "nisn", "kelas"})
	if !h.Row([]string{"Budi", "", "X"}).Skippable() {
		t.Error("blank NISN should be skippable")
	}
	if !h.Row([]string{"", "001", "X"}).Skippable() {
		t.Error("blank name should be skippable")
	}
	if !h.Row([]string{"Budi"}).Skippable() {
		t.Error("short row should be skippable")
	}
	if h.Row([]string{"Budi", "001", ""}).Skippable() {
		t.Error("blank class alone does not skip the row")
	}
}
