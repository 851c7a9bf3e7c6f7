package export

import (
	"encoding/csv"
	"io"
)

// Test status labels.
const (
	StatusTested   = "Sudah Tes"
	StatusUntested = "Belum Tes"
)

// Download file names.
const (
	CSVFilename      = "data_siswa.csv"
	XLSXFilename     = "data_siswa.xlsx"
	TemplateFilename = "template_import_siswa.xlsx"
)

// Header is the column header of the student export.
var Header = []string{"Nama", "NISN", "Status Tes", "Paket Rekomendasi"}

// StudentRow is one exported student.
type StudentRow struct {
	Nama      string
	NISN      string
	StatusTes string
	Paket     string
}

// Cells returns the row in Header order.
func (r StudentRow) Cells() []string {
	return []string{r.Nama, r.NISN, r.StatusTes, r.Paket}
}

// StatusFor maps the tested flag to its label.
func StatusFor(tested bool) string {
	if tested {
		return StatusTested
	}
	return StatusUntested
}

// WriteCSV writes the header and rows as CSV.
// PRE: w is writable
// POST: all rows are flushed or an error is returned
func WriteCSV(w io.Writer, rows []StudentRow) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return err
	}
	for _, r := range rows {
		if err := cw.Write(r.Cells()); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
