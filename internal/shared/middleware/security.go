package middleware

import (
	"net"
	"net/http"
	"strings"
)

const hstsValue = "max-age=31536000; includeSubDomains"

// HSTS tells browsers to use HTTPS for a year, subdomains included.
func HSTS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Strict-Transport-Security", hstsValue)
		next.ServeHTTP(w, r)
	})
}

// SecureCookies forces Secure and HttpOnly on every Set-Cookie the handler
// writes. Cookies without a SameSite attribute get Lax.
func SecureCookies(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next.ServeHTTP(&cookieHardener{ResponseWriter: w}, r)
	})
}

type cookieHardener struct {
	http.ResponseWriter
	done bool
}

func (w *cookieHardener) WriteHeader(status int) {
	if !w.done {
		w.done = true
		h := w.ResponseWriter.Header()
		if raw := h.Values("Set-Cookie"); len(raw) > 0 {
			hardened := make([]string, 0, len(raw))
			for _, c := range raw {
				hardened = append(hardened, hardenCookie(c))
			}
			h["Set-Cookie"] = hardened
		}
	}
	w.ResponseWriter.WriteHeader(status)
}

func (w *cookieHardener) Write(b []byte) (int, error) {
	if !w.done {
		w.WriteHeader(http.StatusOK)
	}
	return w.ResponseWriter.Write(b)
}

func (w *cookieHardener) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}

// hardenCookie returns raw unchanged when it does not parse as a cookie.
func hardenCookie(raw string) string {
	c, err := http.ParseSetCookie(raw)
	if err != nil {
		return raw
	}
	c.Secure = true
	c.HttpOnly = true
	if c.SameSite == 0 || c.SameSite == http.SameSiteDefaultMode {
		c.SameSite = http.SameSiteLaxMode
	}
	return c.String()
}

// RequireHTTPS redirects plain HTTP requests to HTTPS. Only for when the
// process terminates TLS itself. Hosts outside allowedHosts get 400 instead
// of a redirect.
func RequireHTTPS(allowedHosts []string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if isHTTPS(r) {
				next.ServeHTTP(w, r)
				return
			}
			if !IsHostAllowed(r.Host, allowedHosts) {
				http.Error(w, "Invalid host", http.StatusBadRequest)
				return
			}
			http.Redirect(w, r, "https://"+hostWithoutPort(r.Host)+r.RequestURI, http.StatusMovedPermanently)
		})
	}
}

func isHTTPS(r *http.Request) bool {
	return r.TLS != nil || strings.EqualFold(r.Header.Get("X-Forwarded-Proto"), "https")
}

// IsHostAllowed matches host against allowedHosts case-insensitively, with or
// without ports. An empty list allows every host.
func IsHostAllowed(host string, allowedHosts []string) bool {
	if len(allowedHosts) == 0 {
		return true
	}

	host = strings.ToLower(strings.TrimSpace(host))
	bare := hostWithoutPort(host)

	for _, allowed := range allowedHosts {
		allowed = strings.ToLower(strings.TrimSpace(allowed))
		if host == allowed || bare == hostWithoutPort(allowed) {
			return true
		}
	}
	return false
}

// hostWithoutPort strips an optional port and IPv6 brackets
func hostWithoutPort(h string) string {
	if host, _, err := net.SplitHostPort(h); err == nil {
		return host
	}
	return strings.TrimSuffix(strings.TrimPrefix(h, "["), "]")
}
