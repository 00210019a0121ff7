package sparebank1

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"golang.org/x/oauth2"
)

const (
	authorizePath = "/oauth/authorize"
	tokenPath     = "/oauth/token"
)

var ErrMissingCode = errors.New("sparebank1: authorization code and state are required")

type OAuthConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURI  string
	FinInst      string
	AuthURL      string
}

// OAuth runs the authorization-code and refresh-token grants against the
// SpareBank1 token endpoint.
type OAuth struct {
	config     *oauth2.Config
	finInst    string
	httpClient *http.Client
	now        func() time.Time
}

func NewOAuth(cfg OAuthConfig, httpClient *http.Client) *OAuth {
	base := strings.TrimRight(cfg.AuthURL, "/")
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &OAuth{
		config: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURI,
			Endpoint: oauth2.Endpoint{
				AuthURL:   base + authorizePath,
				TokenURL:  base + tokenPath,
				AuthStyle: oauth2.AuthStyleInParams,
			},
		},
		finInst:    cfg.FinInst,
		httpClient: httpClient,
		now:        time.Now,
	}
}

// Configured reports whether client credentials are present
func (o *OAuth) Configured() bool {
	return o.config.ClientID != "" && o.config.ClientSecret != ""
}

// AuthCodeURL returns the consent URL the user is sent to
func (o *OAuth) AuthCodeURL(state string) string {
	var opts []oauth2.AuthCodeOption
	if o.finInst != "" {
		opts = append(opts, oauth2.SetAuthURLParam("finInst", o.finInst))
	}
	return o.config.AuthCodeURL(state, opts...)
}

// Exchange trades an authorization code for a session
func (o *OAuth) Exchange(ctx context.Context, code, state string) (Session, error) {
	if code == "" || state == "" {
		return Session{}, ErrMissingCode
	}

	tok, err := o.config.Exchange(o.clientContext(ctx), code, oauth2.SetAuthURLParam("state", state))
	if err != nil {
		return Session{}, mapTokenError("exchange authorization code", err)
	}
	return newSession(tok, o.now()), nil
}

// Refresh obtains a new access token. The provider may rotate the refresh
// token; when it does not, the old one is kept.
func (o *OAuth) Refresh(ctx context.Context, refreshToken string) (Session, error) {
	if refreshToken == "" {
		return Session{}, fmt.Errorf("%w: refresh token is required", ErrUnauthorized)
	}

	src := o.config.TokenSource(o.clientContext(ctx), &oauth2.Token{RefreshToken: refreshToken})
	tok, err := src.Token()
	if err != nil {
		return Session{}, mapTokenError("refresh access token", err)
	}

	s := newSession(tok, o.now())
	if s.RefreshToken == "" {
		s.RefreshToken = refreshToken
	}
	return s, nil
}

func (o *OAuth) clientContext(ctx context.Context) context.Context {
	return context.WithValue(ctx, oauth2.HTTPClient, o.httpClient)
}

func mapTokenError(op string, err error) error {
	var re *oauth2.RetrieveError
	if errors.As(err, &re) && re.Response != nil {
		switch re.Response.StatusCode {
		case http.StatusBadRequest, http.StatusUnauthorized, http.StatusForbidden:
			return fmt.Errorf("failed to %s: %w: %s", op, ErrUnauthorized, re.ErrorCode)
		case http.StatusTooManyRequests:
			return &RateLimitError{RetryAfter: parseRetryAfter(re.Response.Header.Get("Retry-After"))}
		}
		return fmt.Errorf("failed to %s: %w: status %d", op, ErrUpstream, re.Response.StatusCode)
	}
	return fmt.Errorf("failed to %s: %w", op, err)
}
