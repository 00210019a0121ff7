package http

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	sb1 "sparebudget/internal/infrastructure/sparebank1"
)

// sessionCookieMaxAge follows the refresh token lifetime
const sessionCookieMaxAge = 365 * 24 * 60 * 60

var (
	errSessionExpired = errors.New("session expired")
	errNoAccessToken  = errors.New("access token is required")
)

// Sealer is satisfied by *crypto.Sealer
type Sealer interface {
	SealJSON(v any) (string, error)
	OpenJSON(token string, v any) error
}

// SessionCookies stores the upstream session sealed in an HttpOnly cookie.
// A nil *SessionCookies, or one without a sealer, is disabled.
type SessionCookies struct {
	sealer Sealer
	name   string
	now    func() time.Time
}

func NewSessionCookies(sealer Sealer, name string) *SessionCookies {
	return &SessionCookies{sealer: sealer, name: name, now: time.Now}
}

func (c *SessionCookies) Enabled() bool {
	return c != nil && c.sealer != nil && c.name != ""
}

// Set writes the sealed session cookie
func (c *SessionCookies) Set(w http.ResponseWriter, r *http.Request, s sb1.Session) error {
	if !c.Enabled() {
		return nil
	}

	value, err := c.sealer.SealJSON(s)
	if err != nil {
		return fmt.Errorf("failed to seal session: %w", err)
	}

	http.SetCookie(w, &http.Cookie{
		Name:     c.name,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		Secure:   isSecureRequest(r),
		SameSite: http.SameSiteLaxMode,
		MaxAge:   sessionCookieMaxAge,
	})
	return nil
}

// Read returns the session carried by the request, or nil when there is none.
// A cookie that fails to open is treated as absent.
func (c *SessionCookies) Read(r *http.Request) *sb1.Session {
	if !c.Enabled() {
		return nil
	}
	cookie, err := r.Cookie(c.name)
	if err != nil || cookie.Value == "" {
		return nil
	}

	var s sb1.Session
	if err := c.sealer.OpenJSON(cookie.Value, &s); err != nil {
		return nil
	}
	return &s
}

// AccessToken prefers the explicit token and falls back to the session cookie
func (c *SessionCookies) AccessToken(r *http.Request, explicit string) (string, error) {
	if explicit != "" {
		return explicit, nil
	}

	s := c.Read(r)
	if s == nil || s.AccessToken == "" {
		return "", errNoAccessToken
	}
	if s.Expired(c.now()) {
		return "", errSessionExpired
	}
	return s.AccessToken, nil
}

// RefreshToken prefers the explicit token and falls back to the session cookie
func (c *SessionCookies) RefreshToken(r *http.Request, explicit string) string {
	if explicit != "" {
		return explicit
	}
	if s := c.Read(r); s != nil {
		return s.RefreshToken
	}
	return ""
}

func isSecureRequest(r *http.Request) bool {
	return r.TLS != nil || r.Header.Get("X-Forwarded-Proto") == "https"
}
