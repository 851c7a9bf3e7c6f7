package web

import (
	"database/sql"
	"errors"
	"log/slog"
	"net/http"

	"peminatan/internal/adapters/http/middleware"
	"peminatan/internal/application/listutil"
	"peminatan/internal/application/orchestrators"
	"peminatan/internal/application/projections"
)

// teacherFilterKeys are the query parameters of the teacher list.
var teacherFilterKeys = []string{"nama"}

// teacherForm is what the add/edit form shows back to the admin. Passwords never round-trip.
type teacherForm struct {
	Nama     string
	Username string
	NIP      string
	Kelas    string
}

func teacherDeps() orchestrators.TeacherDeps {
	return orchestrators.TeacherDeps{AccountStore: stores.AccountStore}
}

func actorID(r *http.Request) string {
	sess, _ := middleware.GetSessionFromContext(r.Context())
	return sess.UserID
}

func readTeacherForm(r *http.Request) teacherForm {
	return teacherForm{
		Nama:     r.FormValue("nama"),
		Username: r.FormValue("username"),
		NIP:      r.FormValue("nip"),
		Kelas:    r.FormValue("kelas"),
	}
}

func renderTeacherForm(w http.ResponseWriter, r *http.Request, action string, edit bool, form teacherForm, errMsg string) {
	renderTemplate(w, r, "teacher_form.html", map[string]any{
		"Action": action,
		"Edit":   edit,
		"Form":   form,
		"Error":  errMsg,
	})
}

func teacherNotFound(w http.ResponseWriter, r *http.Request) {
	renderTemplateStatus(w, r, http.StatusNotFound, "not_found.html", map[string]any{
		"Message": "Guru tidak ditemukan.",
	})
}

// handleTeacherList handles GET /admin/guru
func handleTeacherList(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filters := listutil.ParseFilterParams(q, teacherFilterKeys)
	query := projections.GetTeacherListQuery{
		Nama: filters.Get("nama"),
		Page: listutil.ParsePage(q),
	}
	deps := projections.GetTeacherListDeps{AccountStore: stores.AccountStore}

	result, err := projections.QueryGetTeacherList(r.Context(), query, deps)
	if err != nil {
		internalError(w, err)
		return
	}
	renderTemplate(w, r, "teachers.html", map[string]any{
		"Result":  result,
		"Filters": filters,
	})
}

// handleTeacherAdd handles GET (form) and POST (create) for /admin/guru/add
func handleTeacherAdd(w http.ResponseWriter, r *http.Request) {
	const action = "/admin/guru/add"
	switch r.Method {
	case http.MethodGet:
		renderTeacherForm(w, r, action, false, teacherForm{}, "")

	case http.MethodPost:
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form submission", http.StatusBadRequest)
			return
		}
		form := readTeacherForm(r)
		input := orchestrators.CreateTeacherInput{
			Nama:     form.Nama,
			Username: form.Username,
			Password: r.FormValue("password"),
			Confirm:  r.FormValue("confirm"),
			NISN:     form.NIP,
			Kelas:    form.Kelas,
		}
		if _, err := orchestrators.ExecuteCreateTeacher(r.Context(), input, actorID(r), teacherDeps()); err != nil {
			msg, ok := validationMessage(err)
			if !ok {
				internalError(w, err)
				return
			}
			renderTeacherForm(w, r, action, false, form, msg)
			return
		}
		setFlash(w, flashSuccess, "Guru berhasil ditambahkan.")
		http.Redirect(w, r, "/admin/guru", http.StatusSeeOther)

	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// handleTeacherEdit handles GET (form) and POST (update) for /admin/guru/edit/{id}
func handleTeacherEdit(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	action := "/admin/guru/edit/" + id
	switch r.Method {
	case http.MethodGet:
		user, err := stores.AccountStore.GetByID(r.Context(), id)
		if err != nil && !errors.Is(err, sql.ErrNoRows) {
			internalError(w, err)
			return
		}
		if err != nil || !user.IsGuru() {
			teacherNotFound(w, r)
			return
		}
		renderTeacherForm(w, r, action, true, teacherForm{
			Nama:     user.Nama,
			Username: user.Username,
			NIP:      user.NISN,
			Kelas:    user.Kelas,
		}, "")

	case http.MethodPost:
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form submission", http.StatusBadRequest)
			return
		}
		form := readTeacherForm(r)
		input := orchestrators.UpdateTeacherInput{
			ID:       id,
			Nama:     form.Nama,
			Username: form.Username,
			Password: r.FormValue("password"),
			Confirm:  r.FormValue("confirm"),
			NISN:     form.NIP,
			Kelas:    form.Kelas,
		}
		err := orchestrators.ExecuteUpdateTeacher(r.Context(), input, actorID(r), teacherDeps())
		if errors.Is(err, orchestrators.ErrNotFound) {
			teacherNotFound(w, r)
			return
		}
		if err != nil {
			msg, ok := validationMessage(err)
			if !ok {
				internalError(w, err)
				return
			}
			renderTeacherForm(w, r, action, true, form, msg)
			return
		}
		setFlash(w, flashSuccess, "Data guru berhasil diperbarui.")
		http.Redirect(w, r, "/admin/guru", http.StatusSeeOther)

	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// handleTeacherDelete handles POST /admin/guru/delete/{id}
func handleTeacherDelete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	err := orchestrators.ExecuteDeleteTeacher(r.Context(), id, actorID(r), teacherDeps())
	switch {
	case errors.Is(err, orchestrators.ErrNotFound):
		setFlash(w, flashError, "Guru tidak ditemukan.")
	case err != nil:
		slog.Error("internal_error", "error", err.Error())
		setFlash(w, flashError, "Gagal menghapus guru.")
	default:
		sessions.DeleteUser(id)
		setFlash(w, flashSuccess, "Guru berhasil dihapus.")
	}
	http.Redirect(w, r, "/admin/guru", http.StatusSeeOther)
}
