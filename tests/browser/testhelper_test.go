//go:build browser

package browser_test

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net"
	"net/http"
	"path/filepath"
	"testing"
	"time"

	"github.com/playwright-community/playwright-go"

	web "peminatan/internal/adapters/http"
	"peminatan/internal/adapters/storage"
	accountStore "peminatan/internal/adapters/storage/account"
	enrollmentStore "peminatan/internal/adapters/storage/enrollment"
	recommendationStore "peminatan/internal/adapters/storage/recommendation"
	reportScoreStore "peminatan/internal/adapters/storage/reportscore"
	riasecStore "peminatan/internal/adapters/storage/riasec"
	rosterStore "peminatan/internal/adapters/storage/roster"
	studentStore "peminatan/internal/adapters/storage/student"
	"peminatan/internal/application/orchestrators"
)

const (
	adminUsername = "admin"
	adminPassword = "TestPass123!"
	// demo teacher password, see ExecuteSeedDemo
	guruPassword = "guru12345"
)

// testApp holds the running test server and Playwright handles.
type testApp struct {
	BaseURL string
	DB      *sql.DB
	Server  *http.Server
	PW      *playwright.Playwright
	Browser playwright.Browser
	Stores  *web.Stores
}

// newTestApp creates a fully wired app with a temp SQLite DB, seeds the admin and the demo
// data, and starts an HTTP server with CSRF protection on.
func newTestApp(t *testing.T) *testApp {
	t.Helper()

	db, err := storage.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to open test DB: %v", err)
	}
	if err := storage.MigrateDB(db); err != nil {
		t.Fatalf("failed to migrate test DB: %v", err)
	}

	stores := &web.Stores{
		AccountStore:        accountStore.NewSQLiteStore(db),
		StudentStore:        studentStore.NewSQLiteStore(db),
		ResultStore:         riasecStore.NewSQLiteStore(db),
		RecommendationStore: recommendationStore.NewSQLiteStore(db),
		ReportScoreStore:    reportScoreStore.NewSQLiteStore(db),
		RosterStore:         rosterStore.NewSQLiteStore(db),
		EnrollmentStore:     enrollmentStore.NewSQLiteStore(db),
	}

	ctx := context.Background()
	if _, err := orchestrators.ExecuteSeedAdmin(ctx, orchestrators.SeedAdminDeps{AccountStore: stores.AccountStore}, adminUsername, adminPassword); err != nil {
		t.Fatalf("failed to seed admin: %v", err)
	}
	if err := orchestrators.ExecuteSeedDemo(ctx, orchestrators.SeedDemoDeps{
		AccountStore:    stores.AccountStore,
		Enrollment:      stores.EnrollmentStore,
		Results:         stores.ResultStore,
		Recommendations: stores.RecommendationStore,
		ReportScores:    stores.ReportScoreStore,
	}); err != nil {
		t.Fatalf("failed to seed demo data: %v", err)
	}

	// Find a free port
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("failed to find free port: %v", err)
	}
	port := listener.Addr().(*net.TCPAddr).Port
	listener.Close()

	handler, err := web.NewMux(stores, web.Options{
		TrustedOrigins: []string{
			fmt.Sprintf("127.0.0.1:%d", port),
			fmt.Sprintf("localhost:%d", port),
		},
	})
	if err != nil {
		t.Fatalf("failed to build handler: %v", err)
	}
	srv := &http.Server{
		Addr:    fmt.Sprintf("127.0.0.1:%d", port),
		Handler: handler,
	}
	go func() {
		if err := srv.ListenAndServe(); err != http.ErrServerClosed {
			log.Printf("test server error: %v", err)
		}
	}()

	// Wait for server to be ready
	baseURL := fmt.Sprintf("http://127.0.0.1:%d", port)
	for i := 0; i < 50; i++ {
		resp, err := http.Get(baseURL + "/login")
		if err == nil {
			resp.Body.Close()
			break
		}
		time.Sleep(100 * time.Millisecond)
	}

	pw, err := playwright.Run()
	if err != nil {
		t.Fatalf("failed to start Playwright: %v", err)
	}
	browser, err := pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(true),
	})
	if err != nil {
		t.Fatalf("failed to launch browser: %v", err)
	}

	app := &testApp{
		BaseURL: baseURL,
		DB:      db,
		Server:  srv,
		PW:      pw,
		Browser: browser,
		Stores:  stores,
	}

	t.Cleanup(func() {
		browser.Close()
		pw.Stop()
		srv.Close()
		db.Close()
	})

	return app
}

// newPage creates a new browser page (tab).
func (a *testApp) newPage(t *testing.T) playwright.Page {
	t.Helper()
	page, err := a.Browser.NewPage()
	if err != nil {
		t.Fatalf("failed to create page: %v", err)
	}
	t.Cleanup(func() { page.Close() })
	return page
}

// login submits the login form and waits for the landing page.
func (a *testApp) login(t *testing.T, page playwright.Page, username, password, wantPath string) {
	t.Helper()
	if _, err := page.Goto(a.BaseURL + "/login"); err != nil {
		t.Fatalf("failed to navigate to login: %v", err)
	}
	if err := page.Locator("input[name=username]").Fill(username); err != nil {
		t.Fatalf("failed to fill username: %v", err)
	}
	if err := page.Locator("input[name=password]").Fill(password); err != nil {
		t.Fatalf("failed to fill password: %v", err)
	}
	if err := page.Locator("button[type=submit]").Click(); err != nil {
		t.Fatalf("failed to click login: %v", err)
	}
	if err := page.WaitForURL(a.BaseURL+wantPath, playwright.PageWaitForURLOptions{
		Timeout: playwright.Float(10000),
	}); err != nil {
		t.Fatalf("login did not land on %s: %v", wantPath, err)
	}
}

// text returns the inner text of the first element matching selector.
func text(t *testing.T, page playwright.Page, selector string) string {
	t.Helper()
	s, err := page.Locator(selector).First().InnerText()
	if err != nil {
		t.Fatalf("failed to read %s: %v", selector, err)
	}
	return s
}
