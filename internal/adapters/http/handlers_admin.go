package web

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"peminatan/internal/adapters/http/middleware"
	"peminatan/internal/adapters/spreadsheet"
	"peminatan/internal/application/orchestrators"
	"peminatan/internal/application/projections"
	"peminatan/internal/domain/export"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// sendAttachment writes a download that was built completely in memory.
func sendAttachment(w http.ResponseWriter, filename, contentType string, body *bytes.Buffer) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.Header().Set("Content-Length", strconv.Itoa(body.Len()))
	body.WriteTo(w)
}

func exportRows(r *http.Request) ([]export.StudentRow, error) {
	return projections.QueryGetStudentExport(r.Context(), projections.GetStudentExportDeps{
		RosterStore: stores.RosterStore,
	})
}

// handleDownloadCSV handles GET /admin/download-csv
func handleDownloadCSV(w http.ResponseWriter, r *http.Request) {
	rows, err := exportRows(r)
	if err != nil {
		internalError(w, err)
		return
	}
	var buf bytes.Buffer
	if err := export.WriteCSV(&buf, rows); err != nil {
		internalError(w, err)
		return
	}
	sendAttachment(w, export.CSVFilename, "text/csv; charset=utf-8", &buf)
}

// handleDownloadXLSX handles GET /admin/download-xlsx
func handleDownloadXLSX(w http.ResponseWriter, r *http.Request) {
	rows, err := exportRows(r)
	if err != nil {
		internalError(w, err)
		return
	}
	var buf bytes.Buffer
	if err := spreadsheet.WriteStudents(&buf, rows); err != nil {
		internalError(w, err)
		return
	}
	sendAttachment(w, export.XLSXFilename, xlsxContentType, &buf)
}

// handleDownloadTemplate handles GET /admin/download-template
func handleDownloadTemplate(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := spreadsheet.WriteTemplate(&buf); err != nil {
		internalError(w, err)
		return
	}
	sendAttachment(w, export.TemplateFilename, xlsxContentType, &buf)
}

// handleImport handles GET (upload form) and POST (run import) for /admin/import
func handleImport(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		renderTemplate(w, r, "import.html", map[string]any{})
	case http.MethodPost:
		postImport(w, r)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func postImport(w http.ResponseWriter, r *http.Request) {
	back := func(kind, msg string, details ...string) {
		setFlash(w, kind, msg, details...)
		http.Redirect(w, r, "/admin/import", http.StatusSeeOther)
	}

	tooLarge := func() {
		back(flashError, fmt.Sprintf("File terlalu besar (maksimal %d KB).", maxUploadBytes>>10))
	}
	if r.ContentLength > maxUploadBytes {
		tooLarge()
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			tooLarge()
			return
		}
		back(flashError, "Upload tidak valid.")
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		back(flashError, "Pilih file yang akan diimport.")
		return
	}
	defer file.Close()
	data, err := io.ReadAll(file)
	if err != nil {
		internalError(w, err)
		return
	}

	sess, _ := middleware.GetSessionFromContext(r.Context())
	input := orchestrators.ImportStudentsInput{
		Filename: header.Filename,
		Data:     data,
		ActorID:  sess.UserID,
	}
	deps := orchestrators.ImportStudentsDeps{Enrollment: stores.EnrollmentStore}

	report, err := orchestrators.ExecuteImportStudents(r.Context(), input, deps)
	var formatErr *orchestrators.FileFormatError
	switch {
	case errors.As(err, &formatErr):
		back(flashError, "Import ditolak, "+formatErr.Error()+".")
		return
	case err != nil:
		slog.Error("internal_error", "error", err.Error())
		back(flashError, "Import gagal, tidak ada data yang disimpan.")
		return
	}

	details := make([]string, 0, len(report.RowErrors))
	for _, re := range report.RowErrors {
		details = append(details, fmt.Sprintf("Baris %d: %s", re.Row, re.Message))
	}
	kind := flashSuccess
	if report.Errors > 0 {
		kind = flashError
	}
	setFlash(w, kind, fmt.Sprintf("Import selesai: %d berhasil, %d gagal.", report.Success, report.Errors), details...)
	http.Redirect(w, r, "/admin", http.StatusSeeOther)
}
