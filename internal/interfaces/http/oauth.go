package http

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	sb1 "sparebudget/internal/infrastructure/sparebank1"
)

// OAuthProvider is satisfied by *sparebank1.OAuth
type OAuthProvider interface {
	Configured() bool
	AuthCodeURL(state string) string
	Exchange(ctx context.Context, code, state string) (sb1.Session, error)
	Refresh(ctx context.Context, refreshToken string) (sb1.Session, error)
}

type OAuthHandler struct {
	oauth    OAuthProvider
	sessions *SessionCookies
	log      zerolog.Logger
	now      func() time.Time
}

func NewOAuthHandler(oauth OAuthProvider, sessions *SessionCookies, log zerolog.Logger) *OAuthHandler {
	return &OAuthHandler{oauth: oauth, sessions: sessions, log: log, now: time.Now}
}

type AuthorizeResponse struct {
	URL   string `json:"url"`
	State string `json:"state"`
}

type ExchangeRequest struct {
	Code  string `json:"code"`
	State string `json:"state"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type SessionResponse struct {
	AccessToken  string    `json:"accessToken"`
	RefreshToken string    `json:"refreshToken,omitempty"`
	TokenType    string    `json:"tokenType"`
	ExpiresAt    time.Time `json:"expiresAt"`
	ExpiresIn    int       `json:"expiresIn"`
}

func (h *OAuthHandler) sessionResponse(s sb1.Session) SessionResponse {
	expiresIn := int(s.ExpiresAt.Sub(h.now()).Seconds())
	if expiresIn < 0 {
		expiresIn = 0
	}
	return SessionResponse{
		AccessToken:  s.AccessToken,
		RefreshToken: s.RefreshToken,
		TokenType:    s.TokenType,
		ExpiresAt:    s.ExpiresAt,
		ExpiresIn:    expiresIn,
	}
}

// HandleAuthorize returns the consent URL. The caller may supply its own state.
func (h *OAuthHandler) HandleAuthorize(w http.ResponseWriter, r *http.Request) {
	if !allowMethods(w, r, http.MethodGet) {
		return
	}
	if !h.oauth.Configured() {
		respondError(w, http.StatusInternalServerError, CodeOAuthConfig, "SpareBank1 OAuth client is not configured")
		return
	}

	state := r.URL.Query().Get("state")
	if state == "" {
		generated, err := generateState()
		if err != nil {
			respondFailure(w, r, h.log, err, CodeOAuthConfig)
			return
		}
		state = generated
	}

	respondData(w, AuthorizeResponse{URL: h.oauth.AuthCodeURL(state), State: state}, "")
}

func generateState() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// HandleExchange trades the authorization code for a session and, when
// cookie sessions are enabled, stores it sealed on the client.
func (h *OAuthHandler) HandleExchange(w http.ResponseWriter, r *http.Request) {
	if !allowMethods(w, r, http.MethodPost) {
		return
	}

	var req ExchangeRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Code == "" || req.State == "" {
		respondError(w, http.StatusBadRequest, CodeMissingParameters, "Missing code or state parameter")
		return
	}

	s, err := h.oauth.Exchange(r.Context(), req.Code, req.State)
	if err != nil {
		respondFailure(w, r, h.log, err, CodeTokenExchange)
		return
	}
	h.storeSession(w, r, s)

	respondData(w, h.sessionResponse(s), "")
}

// HandleRefresh obtains a fresh access token from the body's refresh token
// or the one in the session cookie.
func (h *OAuthHandler) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	if !allowMethods(w, r, http.MethodPost) {
		return
	}

	var req RefreshRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	refreshToken := h.sessions.RefreshToken(r, req.RefreshToken)
	if refreshToken == "" {
		respondError(w, http.StatusBadRequest, CodeMissingParameters, "Refresh token is required")
		return
	}

	s, err := h.oauth.Refresh(r.Context(), refreshToken)
	if err != nil {
		respondFailure(w, r, h.log, err, CodeTokenRefresh)
		return
	}
	h.storeSession(w, r, s)

	respondData(w, h.sessionResponse(s), "")
}

func (h *OAuthHandler) storeSession(w http.ResponseWriter, r *http.Request, s sb1.Session) {
	if err := h.sessions.Set(w, r, s); err != nil {
		// the session is still returned in the body
		h.log.Warn().Err(err).Msg("failed to set session cookie")
	}
}
