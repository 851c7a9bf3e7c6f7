// Package spreadsheet reads uploaded roster sheets and writes the xlsx downloads.
package spreadsheet

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/extrame/xls"
	"github.com/xuri/excelize/v2"

	"peminatan/internal/domain/export"
	"peminatan/internal/domain/roster"
)

// Format is an accepted upload format.
type Format string

// Supported formats.
const (
	CSV  Format = "csv"
	XLSX Format = "xlsx"
	XLS  Format = "xls"
)

// SheetName is the name given to the single sheet of every generated workbook.
const SheetName = "Siswa"

// ErrUnsupportedFormat is returned for an extension other than .csv, .xlsx or .xls.
var ErrUnsupportedFormat = errors.New("format file tidak didukung (gunakan .csv, .xlsx atau .xls)")

// ErrEmptyFile is returned when a sheet has no header row.
var ErrEmptyFile = errors.New("file kosong")

// FormatFromFilename picks the reader from the file extension.
func FormatFromFilename(name string) (Format, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".csv":
		return CSV, nil
	case ".xlsx":
		return XLSX, nil
	case ".xls":
		return XLS, nil
	}
	return "", ErrUnsupportedFormat
}

// ReadRows returns every row of the first sheet, header included.
// PRE: data is the whole uploaded file
// POST: returns ErrEmptyFile when there is no row at all
func ReadRows(data []byte, format Format) ([][]string, error) {
	var (
		rows [][]string
		err  error
	)
	switch format {
	case CSV:
		rows, err = readCSV(data)
	case XLSX:
		rows, err = readXLSX(data)
	case XLS:
		rows, err = readXLS(data)
	default:
		return nil, ErrUnsupportedFormat
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", format, err)
	}
	if len(rows) == 0 {
		return nil, ErrEmptyFile
	}
	return rows, nil
}

func readCSV(data []byte) ([][]string, error) {
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))
	cr := csv.NewReader(bytes.NewReader(data))
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1
	return cr.ReadAll()
}

func readXLSX(data []byte) ([][]string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, nil
	}
	return f.GetRows(sheets[0])
}

// readXLS recovers because the xls decoder panics on some truncated files.
func readXLS(data []byte) (rows [][]string, err error) {
	defer func() {
		if r := recover(); r != nil {
			rows, err = nil, fmt.Errorf("malformed xls: %v", r)
		}
	}()
	wb, err := xls.OpenReader(bytes.NewReader(data), "utf-8")
	if err != nil {
		return nil, err
	}
	sheet := wb.GetSheet(0)
	if sheet == nil {
		return nil, nil
	}
	for i := 0; i <= int(sheet.MaxRow); i++ {
		row := sheet.Row(i)
		if row == nil {
			rows = append(rows, nil)
			continue
		}
		cells := make([]string, 0, row.LastCol()+1)
		for j := 0; j <= row.LastCol(); j++ {
			cells = append(cells, row.Col(j))
		}
		rows = append(rows, cells)
	}
	return rows, nil
}

// WriteTemplate writes the blank import template: a header row and nothing else.
func WriteTemplate(w io.Writer) error {
	return writeWorkbook(w, roster.TemplateHeader, nil)
}

// WriteStudents writes the student export as a workbook.
func WriteStudents(w io.Writer, rows []export.StudentRow) error {
	data := make([][]string, len(rows))
	for i, r := range rows {
		data[i] = r.Cells()
	}
	return writeWorkbook(w, export.Header, data)
}

func writeWorkbook(w io.Writer, header []string, rows [][]string) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return err
	}
	if err := f.SetSheetRow(SheetName, "A1", &header); err != nil {
		return err
	}
	for i := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(SheetName, cell, &rows[i]); err != nil {
			return err
		}
	}
	_, err := f.WriteTo(w)
	return err
}
