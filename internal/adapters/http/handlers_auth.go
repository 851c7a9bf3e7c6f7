package web

import (
	"errors"
	"log/slog"
	"net/http"

	"peminatan/internal/adapters/http/middleware"
	"peminatan/internal/application/orchestrators"
	"peminatan/internal/domain/account"
)

// loginFailedMessage never says whether the username or the password was wrong.
const loginFailedMessage = "Login gagal. Cek username/password!"

// validationMessage returns the user-facing text of a ValidationError.
func validationMessage(err error) (string, bool) {
	var ve *orchestrators.ValidationError
	if errors.As(err, &ve) {
		return ve.Message, true
	}
	return "", false
}

// handleRoot sends visitors to the login page, which forwards logged-in users onward.
func handleRoot(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

// handleLogin handles GET (form) and POST (authenticate) for /login
func handleLogin(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		if sess, ok := middleware.GetSessionFromContext(r.Context()); ok {
			http.Redirect(w, r, account.HomePath(sess.Role), http.StatusSeeOther)
			return
		}
		renderTemplate(w, r, "login.html", map[string]any{})

	case http.MethodPost:
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form submission", http.StatusBadRequest)
			return
		}
		input := orchestrators.LoginInput{
			Username: r.FormValue("username"),
			Password: r.FormValue("password"),
		}
		deps := orchestrators.LoginDeps{AccountStore: stores.AccountStore}

		result, err := orchestrators.ExecuteLogin(r.Context(), input, deps)
		if errors.Is(err, orchestrators.ErrInvalidCredentials) {
			renderTemplate(w, r, "login.html", map[string]any{
				"Error":    loginFailedMessage,
				"Username": input.Username,
			})
			return
		}
		if err != nil {
			internalError(w, err)
			return
		}

		token, err := sessions.Create(result.UserID, result.Username, result.Role)
		if err != nil {
			internalError(w, err)
			return
		}
		middleware.SetSessionCookie(w, token)
		http.Redirect(w, r, account.HomePath(result.Role), http.StatusSeeOther)

	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// handleRegister handles GET (form) and POST (create siswa) for /register
func handleRegister(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		renderTemplate(w, r, "register.html", map[string]any{
			"Form": orchestrators.RegisterStudentInput{},
		})

	case http.MethodPost:
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form submission", http.StatusBadRequest)
			return
		}
		input := orchestrators.RegisterStudentInput{
			Username: r.FormValue("username"),
			Password: r.FormValue("password"),
			Confirm:  r.FormValue("confirm"),
			Nama:     r.FormValue("nama"),
			NISN:     r.FormValue("nisn"),
			Kelas:    r.FormValue("kelas"),
		}
		deps := orchestrators.RegisterStudentDeps{Enrollment: stores.EnrollmentStore}

		if _, err := orchestrators.ExecuteRegisterStudent(r.Context(), input, deps); err != nil {
			msg, ok := validationMessage(err)
			if !ok {
				internalError(w, err)
				return
			}
			input.Password, input.Confirm = "", ""
			renderTemplate(w, r, "register.html", map[string]any{
				"Error": msg,
				"Form":  input,
			})
			return
		}
		setFlash(w, flashSuccess, "Registrasi berhasil! Silakan login.")
		http.Redirect(w, r, "/login", http.StatusSeeOther)

	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// handleLogout handles GET and POST /logout
func handleLogout(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if cookie, err := r.Cookie(middleware.SessionCookieName); err == nil {
		sessions.Delete(cookie.Value)
	}
	if sess, ok := middleware.GetSessionFromContext(r.Context()); ok {
		slog.Info("auth_event", "event", "logout", "user_id", sess.UserID)
	}
	middleware.ClearSessionCookie(w)
	setFlash(w, flashSuccess, "Anda telah logout.")
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}
