package authcore

import (
	"net/http"
	"time"
)

// SetRefreshCookie writes the refresh token into the configured cookie with
// the refresh TTL as its max age.
func (e *Engine) SetRefreshCookie(w http.ResponseWriter, refreshToken string) {
	if e == nil {
		return
	}
	cfg := e.config.Cookie
	http.SetCookie(w, &http.Cookie{
		Name:     cfg.Name,
		Value:    refreshToken,
		Path:     cfg.Path,
		Domain:   cfg.Domain,
		MaxAge:   int(e.config.JWT.RefreshTTL / time.Second),
		HttpOnly: cfg.HTTPOnly,
		Secure:   cfg.Secure,
		SameSite: cfg.SameSite,
	})
}

// ClearRefreshCookie expires the refresh cookie immediately.
func (e *Engine) ClearRefreshCookie(w http.ResponseWriter) {
	if e == nil {
		return
	}
	cfg := e.config.Cookie
	http.SetCookie(w, &http.Cookie{
		Name:     cfg.Name,
		Value:    "",
		Path:     cfg.Path,
		Domain:   cfg.Domain,
		MaxAge:   -1,
		HttpOnly: cfg.HTTPOnly,
		Secure:   cfg.Secure,
		SameSite: cfg.SameSite,
	})
}

// RefreshTokenFromRequest extracts the refresh token from the configured
// cookie, falling back to the "refresh_token" form field for clients that
// cannot carry cookies.
func (e *Engine) RefreshTokenFromRequest(r *http.Request) string {
	if e == nil || r == nil {
		return ""
	}
	if c, err := r.Cookie(e.config.Cookie.Name); err == nil && c.Value != "" {
		return c.Value
	}
	return r.PostFormValue("refresh_token")
}
