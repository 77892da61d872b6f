package upload

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

// Credentials is the long-lived credential set for the Drive API.
type Credentials struct {
	ClientID     string
	ClientSecret string
	RefreshToken string
}

// GoogleTokenProvider exchanges a refresh token for short-lived access tokens
// at the Google OAuth2 token endpoint. Tokens are cached in memory and
// re-derived once expired; an expired token is never returned.
type GoogleTokenProvider struct {
	cfg          *oauth2.Config
	refreshToken string

	mu    sync.Mutex
	token *oauth2.Token
}

// NewGoogleTokenProvider validates creds and returns a provider. No network
// call is made until the first AccessToken.
func NewGoogleTokenProvider(creds Credentials) (*GoogleTokenProvider, error) {
	if creds.ClientSecret == "" || creds.RefreshToken == "" {
		return nil, fmt.Errorf("%w: client secret and refresh token are required", ErrAuth)
	}
	return &GoogleTokenProvider{
		cfg: &oauth2.Config{
			ClientID:     creds.ClientID,
			ClientSecret: creds.ClientSecret,
			Endpoint:     google.Endpoint,
		},
		refreshToken: creds.RefreshToken,
	}, nil
}

// AccessToken returns a currently valid access token, refreshing if the
// cached one is absent or expired. Endpoint or credential failure surfaces as
// ErrAuth with the upstream detail attached; no retry is performed here.
func (p *GoogleTokenProvider) AccessToken(ctx context.Context) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.token.Valid() {
		return p.token.AccessToken, nil
	}

	tok, err := p.cfg.TokenSource(ctx, &oauth2.Token{RefreshToken: p.refreshToken}).Token()
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrAuth, err)
	}
	p.token = tok
	return tok.AccessToken, nil
}
