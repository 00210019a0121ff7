package sparebank1

import (
	"time"

	"golang.org/x/oauth2"
)

// ExpiryMargin treats a token as expired slightly before its real expiry
const ExpiryMargin = 30 * time.Second

// defaultAccessTTL applies when the token response omits expires_in
const defaultAccessTTL = 10 * time.Minute

// Session is the credential set of one authenticated user. It is passed
// explicitly to every call that needs upstream access.
type Session struct {
	AccessToken  string    `json:"accessToken"`
	RefreshToken string    `json:"refreshToken,omitempty"`
	TokenType    string    `json:"tokenType"`
	ExpiresAt    time.Time `json:"expiresAt"`
}

func newSession(tok *oauth2.Token, now time.Time) Session {
	s := Session{
		AccessToken:  tok.AccessToken,
		RefreshToken: tok.RefreshToken,
		TokenType:    tok.TokenType,
		ExpiresAt:    tok.Expiry,
	}
	if s.TokenType == "" {
		s.TokenType = "Bearer"
	}
	if s.ExpiresAt.IsZero() {
		s.ExpiresAt = now.Add(defaultAccessTTL)
	}
	return s
}

// Expired reports whether the access token is expired, or expires within ExpiryMargin
func (s Session) Expired(now time.Time) bool {
	return s.ExpiresAt.Before(now.Add(ExpiryMargin))
}

// Valid reports whether the session has a usable access token at now
func (s Session) Valid(now time.Time) bool {
	return s.AccessToken != "" && !s.Expired(now)
}

// CanRefresh reports whether a refresh token is available
func (s Session) CanRefresh() bool {
	return s.RefreshToken != ""
}
