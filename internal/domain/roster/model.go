package roster

import (
	"fmt"
	"strings"

	"peminatan/internal/domain/account"
)

// Column names recognised in an import sheet, lower-cased.
const (
	ColNama     = "nama"
	ColNISN     = "nisn"
	ColKelas    = "kelas"
	ColUsername = "username"
	ColPassword = "password"
	ColRole     = "role"
)

// RequiredColumns must all be present in the header row.
var RequiredColumns = []string{ColNama, ColNISN, ColKelas}

// TemplateHeader is the header row of the blank import template.
var TemplateHeader = []string{"Nama", "NISN", "Kelas"}

// MissingColumnError reports a required column absent from the header row.
type MissingColumnError struct {
	Column string
}

// Error implements the error interface.
func (e *MissingColumnError) Error() string {
	return fmt.Sprintf("kolom wajib tidak ditemukan: %s", e.Column)
}

// Header maps lower-cased column names to their position.
type Header map[string]int

// ParseHeader builds a Header from the first sheet row.
// PRE: cells is the header row
// POST: returns *MissingColumnError if a required column is absent
func ParseHeader(cells []string) (Header, error) {
	h := make(Header, len(cells))
	for i, c := range cells {
		name := strings.ToLower(strings.TrimSpace(c))
		if name == "" {
			continue
		}
		if _, dup := h[name]; !dup {
			h[name] = i
		}
	}
	for _, col := range RequiredColumns {
		if _, ok := h[col]; !ok {
			return nil, &MissingColumnError{Column: col}
		}
	}
	return h, nil
}

// Has reports whether the sheet has the named column.
func (h Header) Has(col string) bool {
	_, ok := h[col]
	return ok
}

func (h Header) get(cells []string, col string) string {
	i, ok := h[col]
	if !ok || i >= len(cells) {
		return ""
	}
	return strings.TrimSpace(cells[i])
}

// Row is one data row of an import sheet with defaults applied.
type Row struct {
	Nama     string
	NISN     string
	Kelas    string
	Username string
	Password string
	Role     string
}

// Row extracts a data row. Username and password default to the NISN and role defaults
// to siswa when their columns are absent or blank.
func (h Header) Row(cells []string) Row {
	r := Row{
		Nama:     h.get(cells, ColNama),
		NISN:     h.get(cells, ColNISN),
		Kelas:    h.get(cells, ColKelas),
		Username: h.get(cells, ColUsername),
		Password: h.get(cells, ColPassword),
		Role:     strings.ToLower(h.get(cells, ColRole)),
	}
	if r.Username == "" {
		r.Username = r.NISN
	}
	if r.Password == "" {
		r.Password = r.NISN
	}
	if r.Role == "" {
		r.Role = account.RoleSiswa
	}
	return r
}

// Skippable reports whether the row lacks a name or NISN and should be ignored silently.
func (r Row) Skippable() bool {
	return r.Nama == "" || r.NISN == ""
}
