package web

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"

	"github.com/gorilla/csrf"
	"github.com/yuin/goldmark"
	goldmarkHTML "github.com/yuin/goldmark/renderer/html"

	"peminatan/internal/adapters/http/middleware"
	"peminatan/internal/application/listutil"
	"peminatan/internal/domain/account"
)

//go:embed templates/*.html
var templateFS embed.FS

// mdRenderer is a goldmark instance configured for safe HTML output.
// Raw HTML in markdown input is escaped (WithUnsafe is NOT set).
var mdRenderer = goldmark.New(
	goldmark.WithRendererOptions(
		goldmarkHTML.WithHardWraps(),
	),
)

// internalError logs the real error and returns a generic message to the client.
func internalError(w http.ResponseWriter, err error) {
	slog.Error("internal_error", "error", err.Error())
	http.Error(w, "Terjadi kesalahan pada server. Silakan coba lagi.", http.StatusInternalServerError)
}

func renderMarkdown(md string) template.HTML {
	var buf bytes.Buffer
	if err := mdRenderer.Convert([]byte(md), &buf); err != nil {
		return template.HTML(template.HTMLEscapeString(md))
	}
	return template.HTML(buf.String())
}

func renderTemplate(w http.ResponseWriter, r *http.Request, templateName string, data any) {
	renderTemplateStatus(w, r, http.StatusOK, templateName, data)
}

// renderTemplateStatus executes layout.html, the partials and the named page into a buffer;
// nothing is written when execution fails.
func renderTemplateStatus(w http.ResponseWriter, r *http.Request, status int, templateName string, data any) {
	sess, loggedIn := middleware.GetSessionFromContext(r.Context())
	pending := popFlash(w, r)

	funcMap := template.FuncMap{
		"currentRole":     func() string { return sess.Role },
		"currentUsername": func() string { return sess.Username },
		"isLoggedIn":      func() bool { return loggedIn },
		"isAdmin":         func() bool { return sess.Role == account.RoleAdmin },
		"homePath":        func() string { return account.HomePath(sess.Role) },
		"csrfField":       func() template.HTML { return csrf.TemplateField(r) },
		"flash":           func() *flash { return pending },
		"renderMarkdown":  renderMarkdown,
		"add":             func(a, b int) int { return a + b },
		"sub":             func(a, b int) int { return a - b },
		"percent":         func(v float64) string { return fmt.Sprintf("%.1f%%", v) },
		"score":           func(v float64) string { return fmt.Sprintf("%.1f", v) },
		"pager": func(p listutil.PageInfo, f listutil.FilterParams) map[string]any {
			return map[string]any{"Page": p, "Filters": f}
		},
		"pageQuery": func(f listutil.FilterParams, page int) template.URL {
			return template.URL("?" + f.Query(page))
		},
	}

	tpl, err := template.New("layout.html").Funcs(funcMap).ParseFS(templateFS, "templates/layout.html", "templates/partial_*.html", "templates/"+templateName)
	if err != nil {
		internalError(w, fmt.Errorf("parse template %s: %w", templateName, err))
		return
	}
	var buf bytes.Buffer
	if err := tpl.Execute(&buf, data); err != nil {
		internalError(w, fmt.Errorf("render template %s: %w", templateName, err))
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	buf.WriteTo(w)
}
