package authenticator

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrNotConfigured is returned when the provider was never initialized or lacks credentials.
	ErrNotConfigured = errors.New("identity provider not configured")
	// ErrNoIDToken means the token response carried no id_token.
	ErrNoIDToken = errors.New("no id_token in token")
	// ErrInvalidIDToken means the id_token failed verification.
	ErrInvalidIDToken = errors.New("id_token verification failed")
)

// Config holds OAuth provider configuration
type Config struct {
	Issuer       string
	ClientID     string
	ClientSecret string
	RedirectURL  string
	Scopes       []string
}

// Token represents an authentication token
type Token struct {
	AccessToken  string
	RefreshToken string
	IDToken      string
	Expiry       time.Time
}

// Claims represents user claims from the ID token
type Claims map[string]interface{}

// Subject returns the sub claim.
func (c Claims) Subject() string {
	s, _ := c["sub"].(string)
	return s
}

// Email returns the email claim.
func (c Claims) Email() string {
	s, _ := c["email"].(string)
	return s
}

// DisplayName picks nickname, then name, then email, then sub.
func (c Claims) DisplayName() string {
	for _, key := range []string{"nickname", "name", "email"} {
		if v, ok := c[key].(string); ok && v != "" {
			return v
		}
	}
	return c.Subject()
}

// Provider interface abstracts OAuth provider operations
type Provider interface {
	GetAuthURL(state, verifier string) string
	ExchangeCode(ctx context.Context, code, verifier string) (*Token, error)
	GetClaims(ctx context.Context, token *Token) (Claims, error)
	UserInfo(ctx context.Context, accessToken string) (Claims, error)
	Refresh(ctx context.Context, refreshToken string) (*Token, error)
}
