package callback

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/planify/planify/authenticator"
)

// Strategy is one way of obtaining a session. A nil session with a nil error
// means the strategy does not apply or found nothing.
type Strategy interface {
	Name() string
	Probe(ctx context.Context, req *Request) (*Session, error)
}

// DefaultStrategies is the ordered fallback chain used for every callback.
func DefaultStrategies(provider authenticator.Provider, store TokenStore) []Strategy {
	return []Strategy{
		ProviderReady{Provider: provider},
		ProviderError{},
		CodeExchange{Provider: provider},
		FragmentToken{Provider: provider},
		StoredSession{Store: store},
		Refresh{Provider: provider, Store: store},
	}
}

// ProviderReady fails fast when no provider was initialized.
type ProviderReady struct {
	Provider authenticator.Provider
}

func (ProviderReady) Name() string { return "provider_ready" }

func (s ProviderReady) Probe(context.Context, *Request) (*Session, error) {
	if s.Provider == nil {
		return nil, ErrConfiguration
	}
	return nil, nil
}

// ProviderError surfaces an error the provider sent back in the redirect.
type ProviderError struct{}

func (ProviderError) Name() string { return "provider_error" }

func (ProviderError) Probe(_ context.Context, req *Request) (*Session, error) {
	if req.Params.Error == "" {
		return nil, nil
	}
	if req.Params.ErrorDescription != "" {
		return nil, fmt.Errorf("%w: %s: %s", ErrProviderDenied, req.Params.Error, req.Params.ErrorDescription)
	}
	return nil, fmt.Errorf("%w: %s", ErrProviderDenied, req.Params.Error)
}

// CodeExchange trades an authorization code for a session.
type CodeExchange struct {
	Provider authenticator.Provider
}

func (CodeExchange) Name() string { return "code_exchange" }

func (s CodeExchange) Probe(ctx context.Context, req *Request) (*Session, error) {
	if req.Params.Code == "" {
		return nil, nil
	}
	if s.Provider == nil {
		return nil, ErrConfiguration
	}
	if req.ExpectedState == "" {
		return nil, fmt.Errorf("%w: no login in progress for this browser", ErrCredential)
	}
	if req.Params.State != req.ExpectedState {
		return nil, fmt.Errorf("%w: state mismatch", ErrCredential)
	}

	token, err := s.Provider.ExchangeCode(ctx, req.Params.Code, req.CodeVerifier)
	if err != nil {
		return nil, classifyProviderErr(ErrExchangeFailed, err)
	}

	claims, err := s.Provider.GetClaims(ctx, token)
	if errors.Is(err, authenticator.ErrNoIDToken) {
		claims, err = s.Provider.UserInfo(ctx, token.AccessToken)
	}
	if err != nil {
		if errors.Is(err, authenticator.ErrInvalidIDToken) {
			return nil, fmt.Errorf("%w: %v", ErrCredential, err)
		}
		return nil, classifyProviderErr(ErrExchangeFailed, err)
	}

	return sessionFrom(token, claims), nil
}

// FragmentToken verifies an access token that arrived in the URL fragment.
type FragmentToken struct {
	Provider authenticator.Provider
	Now      func() time.Time
}

func (FragmentToken) Name() string { return "fragment_token" }

func (s FragmentToken) Probe(ctx context.Context, req *Request) (*Session, error) {
	if req.Params.AccessToken == "" {
		return nil, nil
	}
	if s.Provider == nil {
		return nil, ErrConfiguration
	}

	claims, err := s.Provider.UserInfo(ctx, req.Params.AccessToken)
	if err != nil {
		return nil, classifyProviderErr(ErrExchangeFailed, err)
	}

	token := &authenticator.Token{
		AccessToken:  req.Params.AccessToken,
		RefreshToken: req.Params.RefreshToken,
	}
	if secs, err := strconv.Atoi(req.Params.ExpiresIn); err == nil && secs > 0 {
		token.Expiry = nowOr(s.Now).Add(time.Duration(secs) * time.Second)
	}
	return sessionFrom(token, claims), nil
}

// StoredSession reads the session already persisted for this device.
type StoredSession struct {
	Store TokenStore
	Now   func() time.Time
}

func (StoredSession) Name() string { return "stored_session" }

func (s StoredSession) Probe(ctx context.Context, req *Request) (*Session, error) {
	sess, err := s.Store.Load(ctx, req.DeviceID, TokenKey)
	if err != nil || sess == nil {
		return nil, err
	}
	if sess.Expired(nowOr(s.Now)) {
		return nil, nil
	}
	return sess, nil
}

// Refresh renews an expired stored session with its refresh token.
type Refresh struct {
	Provider authenticator.Provider
	Store    TokenStore
	Now      func() time.Time
}

func (Refresh) Name() string { return "refresh" }

func (s Refresh) Probe(ctx context.Context, req *Request) (*Session, error) {
	stored, err := s.Store.Load(ctx, req.DeviceID, TokenKey)
	if err != nil || stored == nil {
		return nil, err
	}
	if stored.RefreshToken == "" || !stored.Expired(nowOr(s.Now)) {
		return nil, nil
	}
	if s.Provider == nil {
		return nil, ErrConfiguration
	}

	token, err := s.Provider.Refresh(ctx, stored.RefreshToken)
	if err != nil {
		return nil, classifyProviderErr(ErrRefreshFailed, err)
	}
	return &Session{
		AccessToken:  token.AccessToken,
		RefreshToken: token.RefreshToken,
		Expiry:       token.Expiry,
		User:         stored.User,
	}, nil
}

func classifyProviderErr(kind, err error) error {
	if errors.Is(err, authenticator.ErrNotConfigured) {
		return fmt.Errorf("%w: %v", ErrConfiguration, err)
	}
	return fmt.Errorf("%w: %v", kind, err)
}

func sessionFrom(token *authenticator.Token, claims authenticator.Claims) *Session {
	return &Session{
		AccessToken:  token.AccessToken,
		RefreshToken: token.RefreshToken,
		Expiry:       token.Expiry,
		User: Identity{
			Subject: claims.Subject(),
			Email:   claims.Email(),
			Name:    claims.DisplayName(),
		},
	}
}

func nowOr(now func() time.Time) time.Time {
	if now != nil {
		return now()
	}
	return time.Now()
}
