package web

import (
	"errors"
	"net/http"

	"peminatan/internal/adapters/http/middleware"
	"peminatan/internal/application/listutil"
	"peminatan/internal/application/projections"
	"peminatan/internal/domain/recommendation"
)

// renderDashboard serves the admin and guru dashboards, which differ only in the teacher
// count and the export links.
func renderDashboard(w http.ResponseWriter, r *http.Request, title, basePath string, admin bool) {
	q := r.URL.Query()
	filters := listutil.ParseFilterParams(q, projections.DashboardFilterKeys)
	query := projections.GetDashboardQuery{
		Filters:         filters,
		Page:            listutil.ParsePage(q),
		IncludeTeachers: admin,
	}
	deps := projections.GetDashboardDeps{RosterStore: stores.RosterStore}

	result, err := projections.QueryGetDashboard(r.Context(), query, deps)
	if err != nil {
		internalError(w, err)
		return
	}
	renderTemplate(w, r, "dashboard.html", map[string]any{
		"Title":        title,
		"BasePath":     basePath,
		"IsAdmin":      admin,
		"Result":       result,
		"Filters":      filters,
		"PaketOptions": recommendation.Labels,
	})
}

// handleAdminDashboard handles GET /admin
func handleAdminDashboard(w http.ResponseWriter, r *http.Request) {
	renderDashboard(w, r, "Dashboard Admin", "/admin", true)
}

// handleGuruDashboard handles GET /guru
func handleGuruDashboard(w http.ResponseWriter, r *http.Request) {
	renderDashboard(w, r, "Dashboard Guru", "/guru", false)
}

func studentDetailDeps() projections.GetStudentDetailDeps {
	return projections.GetStudentDetailDeps{
		AccountStore:        stores.AccountStore,
		StudentStore:        stores.StudentStore,
		ResultStore:         stores.ResultStore,
		RecommendationStore: stores.RecommendationStore,
		ReportScoreStore:    stores.ReportScoreStore,
	}
}

// handleStudentDetail handles GET /guru/detail_siswa/{id}; id is the student's user id.
func handleStudentDetail(w http.ResponseWriter, r *http.Request) {
	detail, err := projections.QueryGetStudentDetail(r.Context(), r.PathValue("id"), studentDetailDeps())
	if errors.Is(err, projections.ErrStudentNotFound) {
		renderTemplateStatus(w, r, http.StatusNotFound, "not_found.html", map[string]any{
			"Message": "Siswa tidak ditemukan.",
		})
		return
	}
	if err != nil {
		internalError(w, err)
		return
	}
	renderTemplate(w, r, "student_detail.html", map[string]any{"Detail": detail})
}

// handleSiswaDashboard handles GET /siswa: the logged-in student's own results.
func handleSiswaDashboard(w http.ResponseWriter, r *http.Request) {
	sess, _ := middleware.GetSessionFromContext(r.Context())
	detail, err := projections.QueryGetStudentDetail(r.Context(), sess.UserID, studentDetailDeps())
	if errors.Is(err, projections.ErrStudentNotFound) {
		// The account vanished while the session lived on.
		sessions.DeleteUser(sess.UserID)
		middleware.ClearSessionCookie(w)
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}
	if err != nil {
		internalError(w, err)
		return
	}
	renderTemplate(w, r, "siswa.html", map[string]any{"Detail": detail})
}
