package authenticator

import (
	"context"
	"fmt"

	"github.com/coreos/go-oidc/v3/oidc"
	"golang.org/x/oauth2"
)

// OpenIDProvider implements the Provider interface for any OpenID Connect issuer,
// Auth0 and Supabase included.
type OpenIDProvider struct {
	provider *oidc.Provider
	verifier *oidc.IDTokenVerifier
	config   oauth2.Config
}

// Validate reports which required setting is missing, wrapping ErrNotConfigured.
func (cfg Config) Validate() error {
	switch {
	case cfg.Issuer == "":
		return fmt.Errorf("%w: issuer is required", ErrNotConfigured)
	case cfg.ClientID == "":
		return fmt.Errorf("%w: client ID is required", ErrNotConfigured)
	case cfg.ClientSecret == "":
		return fmt.Errorf("%w: client secret is required", ErrNotConfigured)
	case cfg.RedirectURL == "":
		return fmt.Errorf("%w: callback URL is required", ErrNotConfigured)
	}
	return nil
}

// NewOpenIDProvider runs discovery against the issuer and builds the OAuth2 client.
func NewOpenIDProvider(ctx context.Context, cfg Config) (*OpenIDProvider, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	provider, err := oidc.NewProvider(ctx, cfg.Issuer)
	if err != nil {
		return nil, fmt.Errorf("%w: discovery failed: %v", ErrNotConfigured, err)
	}

	scopes := cfg.Scopes
	if len(scopes) == 0 {
		scopes = []string{oidc.ScopeOpenID, "profile", "email", oidc.ScopeOfflineAccess}
	}

	return &OpenIDProvider{
		provider: provider,
		verifier: provider.Verifier(&oidc.Config{ClientID: cfg.ClientID}),
		config: oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Endpoint:     provider.Endpoint(),
			Scopes:       scopes,
		},
	}, nil
}

// GetAuthURL returns the authorization URL with a PKCE S256 challenge for verifier.
func (p *OpenIDProvider) GetAuthURL(state, verifier string) string {
	return p.config.AuthCodeURL(state, oauth2.S256ChallengeOption(verifier))
}

// ExchangeCode exchanges an authorization code for tokens
func (p *OpenIDProvider) ExchangeCode(ctx context.Context, code, verifier string) (*Token, error) {
	opts := []oauth2.AuthCodeOption{}
	if verifier != "" {
		opts = append(opts, oauth2.VerifierOption(verifier))
	}

	oauth2Token, err := p.config.Exchange(ctx, code, opts...)
	if err != nil {
		return nil, err
	}
	return fromOAuth2(oauth2Token), nil
}

// GetClaims extracts user claims from the ID token
func (p *OpenIDProvider) GetClaims(ctx context.Context, token *Token) (Claims, error) {
	if token.IDToken == "" {
		return nil, ErrNoIDToken
	}

	idToken, err := p.verifier.Verify(ctx, token.IDToken)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidIDToken, err)
	}

	var claims Claims
	if err := idToken.Claims(&claims); err != nil {
		return nil, err
	}
	return claims, nil
}

// UserInfo resolves the identity behind a bare access token.
func (p *OpenIDProvider) UserInfo(ctx context.Context, accessToken string) (Claims, error) {
	info, err := p.provider.UserInfo(ctx, oauth2.StaticTokenSource(&oauth2.Token{AccessToken: accessToken}))
	if err != nil {
		return nil, err
	}

	var claims Claims
	if err := info.Claims(&claims); err != nil {
		return nil, err
	}
	if claims == nil {
		claims = Claims{}
	}
	claims["sub"] = info.Subject
	if info.Email != "" {
		claims["email"] = info.Email
	}
	return claims, nil
}

// Refresh trades a refresh token for a new token set.
func (p *OpenIDProvider) Refresh(ctx context.Context, refreshToken string) (*Token, error) {
	src := p.config.TokenSource(ctx, &oauth2.Token{RefreshToken: refreshToken})
	oauth2Token, err := src.Token()
	if err != nil {
		return nil, err
	}

	token := fromOAuth2(oauth2Token)
	if token.RefreshToken == "" {
		token.RefreshToken = refreshToken
	}
	return token, nil
}

func fromOAuth2(t *oauth2.Token) *Token {
	token := &Token{
		AccessToken:  t.AccessToken,
		RefreshToken: t.RefreshToken,
		Expiry:       t.Expiry,
	}
	if idToken, ok := t.Extra("id_token").(string); ok {
		token.IDToken = idToken
	}
	return token
}
