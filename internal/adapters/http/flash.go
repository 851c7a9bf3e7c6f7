package web

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gorilla/securecookie"

	"peminatan/internal/adapters/http/middleware"
)

const flashCookieName = "peminatan_flash"

// Flash kinds, used as CSS classes.
const (
	flashSuccess = "success"
	flashError   = "error"
)

// flash is a one-shot message carried across a redirect.
type flash struct {
	Kind    string   `json:"k"`
	Message string   `json:"m"`
	Details []string `json:"d,omitempty"`
}

// maxFlashDetails keeps the cookie well under the 4 KB browser limit.
const maxFlashDetails = 10

// flashCodec signs flash cookies. A forged cookie fails to decode and is dropped.
var flashCodec *securecookie.SecureCookie

func newFlashCodec(key []byte) *securecookie.SecureCookie {
	c := securecookie.New(key, nil)
	c.SetSerializer(securecookie.JSONEncoder{})
	c.MaxAge(300)
	return c
}

// setFlash stores a message for the next page rendered for this browser.
func setFlash(w http.ResponseWriter, kind, message string, details ...string) {
	if len(details) > maxFlashDetails {
		more := len(details) - maxFlashDetails
		details = append(details[:maxFlashDetails:maxFlashDetails], fmt.Sprintf("... dan %d baris lainnya", more))
	}
	value, err := flashCodec.Encode(flashCookieName, flash{Kind: kind, Message: message, Details: details})
	if err != nil {
		slog.Error("flash_encode_failed", "error", err)
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     flashCookieName,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		Secure:   middleware.SecureCookies,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   300,
	})
}

// popFlash reads and clears the pending message. A missing or tampered cookie yields nil.
// PRE: called before the response body is written
func popFlash(w http.ResponseWriter, r *http.Request) *flash {
	cookie, err := r.Cookie(flashCookieName)
	if err != nil || cookie.Value == "" {
		return nil
	}
	http.SetCookie(w, &http.Cookie{
		Name:     flashCookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   middleware.SecureCookies,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
	})
	var f flash
	if err := flashCodec.Decode(flashCookieName, cookie.Value, &f); err != nil {
		return nil
	}
	return &f
}
