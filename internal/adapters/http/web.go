package web

import (
	"crypto/rand"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"peminatan/internal/adapters/http/middleware"
	accountStore "peminatan/internal/adapters/storage/account"
	enrollmentStore "peminatan/internal/adapters/storage/enrollment"
	recommendationStore "peminatan/internal/adapters/storage/recommendation"
	reportScoreStore "peminatan/internal/adapters/storage/reportscore"
	riasecStore "peminatan/internal/adapters/storage/riasec"
	rosterStore "peminatan/internal/adapters/storage/roster"
	studentStore "peminatan/internal/adapters/storage/student"
)

// Stores holds all storage dependencies.
type Stores struct {
	AccountStore        accountStore.Store
	StudentStore        studentStore.Store
	ResultStore         riasecStore.Store
	RecommendationStore recommendationStore.Store
	ReportScoreStore    reportScoreStore.Store
	RosterStore         rosterStore.Store
	EnrollmentStore     enrollmentStore.Store
}

// Options configures the HTTP layer.
type Options struct {
	// CSRFKey signs CSRF tokens and flash cookies. A nil key gets a random one per start.
	CSRFKey []byte
	// TrustedOrigins are extra hosts allowed to post forms, e.g. behind a proxy.
	TrustedOrigins []string
	// SecureCookies marks cookies Secure; set in production behind TLS.
	SecureCookies bool
	// MaxUploadBytes caps the import upload size.
	MaxUploadBytes int64
	// SlowRequest is the WARN threshold of the request log.
	SlowRequest time.Duration
}

// DefaultMaxUploadBytes applies when Options.MaxUploadBytes is zero.
const DefaultMaxUploadBytes = 10 << 20

// Global stores instance (set by NewMux)
var stores *Stores

// Global session store instance
var sessions *middleware.SessionStore

// Upload limit for /admin/import (set by NewMux)
var maxUploadBytes int64 = DefaultMaxUploadBytes

// RateLimitPerSecond controls the per-IP rate limit. Tests can increase this.
var RateLimitPerSecond = 20

// ensureCSRFKey returns key, or a random 32-byte key when none is configured.
func ensureCSRFKey(key []byte) ([]byte, error) {
	if len(key) != 0 {
		if len(key) != 32 {
			return nil, fmt.Errorf("csrf key must be 32 bytes, got %d", len(key))
		}
		return key, nil
	}
	key = make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		return nil, fmt.Errorf("failed to generate CSRF key: %w", err)
	}
	slog.Warn("csrf_key_random", "detail", "sessions and open forms will not survive a restart; set PEMINATAN_CSRF_KEY")
	return key, nil
}

// NewMux wires HTTP handlers for the app.
// PRE: s holds every store
// POST: returns the full handler with security, CSRF, session, rate limit and request log
func NewMux(s *Stores, opts Options) (http.Handler, error) {
	key, err := ensureCSRFKey(opts.CSRFKey)
	if err != nil {
		return nil, err
	}

	stores = s
	sessions = middleware.NewSessionStore()
	middleware.SecureCookies = opts.SecureCookies
	flashCodec = newFlashCodec(key)
	maxUploadBytes = opts.MaxUploadBytes
	if maxUploadBytes <= 0 {
		maxUploadBytes = DefaultMaxUploadBytes
	}

	mux := http.NewServeMux()
	registerRoutes(mux)

	limiter := middleware.NewRateLimiter(RateLimitPerSecond, time.Second)

	// Timing -> RateLimit -> Auth -> CSRF -> SecurityHeaders -> Mux
	return middleware.Chain(mux,
		middleware.SecurityHeaders,
		middleware.CSRF(key, opts.TrustedOrigins...),
		middleware.Auth(sessions),
		middleware.RateLimit(limiter),
		middleware.Timing(opts.SlowRequest),
	), nil
}
