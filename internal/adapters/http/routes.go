package web

import (
	"net/http"

	"peminatan/internal/adapters/http/middleware"
	"peminatan/internal/domain/account"
)

var (
	adminOnly   = middleware.RequireRole(account.RoleAdmin)
	guruOrAdmin = middleware.RequireRole(account.RoleGuru, account.RoleAdmin)
	guruOnly    = middleware.RequireRole(account.RoleGuru)
	siswaOnly   = middleware.RequireRole(account.RoleSiswa)
)

func gated(gate func(http.Handler) http.Handler, h http.HandlerFunc) http.Handler {
	return gate(h)
}

// registerRoutes binds every page. Role gates redirect to /login instead of failing.
func registerRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /{$}", handleRoot)
	mux.HandleFunc("/login", handleLogin)
	mux.HandleFunc("/register", handleRegister)
	mux.HandleFunc("/logout", handleLogout)

	mux.Handle("GET /admin", gated(adminOnly, handleAdminDashboard))
	mux.Handle("GET /admin/download-csv", gated(adminOnly, handleDownloadCSV))
	mux.Handle("GET /admin/download-xlsx", gated(adminOnly, handleDownloadXLSX))
	mux.Handle("GET /admin/download-template", gated(adminOnly, handleDownloadTemplate))
	mux.Handle("/admin/import", gated(adminOnly, handleImport))

	mux.Handle("GET /admin/guru", gated(adminOnly, handleTeacherList))
	mux.Handle("/admin/guru/add", gated(adminOnly, handleTeacherAdd))
	mux.Handle("/admin/guru/edit/{id}", gated(adminOnly, handleTeacherEdit))
	mux.Handle("POST /admin/guru/delete/{id}", gated(adminOnly, handleTeacherDelete))

	mux.Handle("GET /guru", gated(guruOnly, handleGuruDashboard))
	mux.Handle("GET /guru/detail_siswa/{id}", gated(guruOrAdmin, handleStudentDetail))

	mux.Handle("GET /siswa", gated(siswaOnly, handleSiswaDashboard))
}
