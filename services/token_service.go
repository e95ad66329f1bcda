package services

import (
	"context"
	"errors"
	"time"

	"github.com/planify/planify/callback"
	"github.com/planify/planify/models"
	"github.com/planify/planify/repositories"
)

// ErrTokenNotFound means the device has no usable session.
var ErrTokenNotFound = errors.New("no session for device")

// TokenService is the durable token slot used by the callback flow and by
// authenticated requests afterwards.
type TokenService struct {
	repo repositories.TokenRepository
	now  func() time.Time
}

func NewTokenService(repo repositories.TokenRepository) *TokenService {
	return &TokenService{repo: repo, now: time.Now}
}

// Save implements callback.TokenStore.
func (s *TokenService) Save(ctx context.Context, deviceID, key string, sess *callback.Session) error {
	token := &models.DeviceToken{
		DeviceID:     deviceID,
		Key:          key,
		AccessToken:  sess.AccessToken,
		RefreshToken: sess.RefreshToken,
		Subject:      sess.User.Subject,
		Email:        sess.User.Email,
		Name:         sess.User.Name,
	}
	if !sess.Expiry.IsZero() {
		expiry := sess.Expiry
		token.ExpiresAt = &expiry
	}
	return s.repo.Upsert(ctx, token)
}

// Load implements callback.TokenStore. An empty slot is nil, nil.
func (s *TokenService) Load(ctx context.Context, deviceID, key string) (*callback.Session, error) {
	if deviceID == "" {
		return nil, nil
	}

	token, err := s.repo.Get(ctx, deviceID, key)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	sess := &callback.Session{
		AccessToken:  token.AccessToken,
		RefreshToken: token.RefreshToken,
		User: callback.Identity{
			Subject: token.Subject,
			Email:   token.Email,
			Name:    token.Name,
		},
	}
	if token.ExpiresAt != nil {
		sess.Expiry = *token.ExpiresAt
	}
	return sess, nil
}

// Current returns the live token for a device, or ErrTokenNotFound when it is
// missing or expired.
func (s *TokenService) Current(ctx context.Context, deviceID string) (*models.DeviceToken, error) {
	if deviceID == "" {
		return nil, ErrTokenNotFound
	}

	token, err := s.repo.Get(ctx, deviceID, callback.TokenKey)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, ErrTokenNotFound
	}
	if err != nil {
		return nil, err
	}
	if token.Expired(s.now()) {
		return nil, ErrTokenNotFound
	}
	return token, nil
}

// SignOut clears the device's token slot.
func (s *TokenService) SignOut(ctx context.Context, deviceID string) error {
	if deviceID == "" {
		return nil
	}
	return s.repo.Delete(ctx, deviceID, callback.TokenKey)
}

// Prune drops expired slots that have no refresh token.
func (s *TokenService) Prune(ctx context.Context) (int64, error) {
	return s.repo.DeleteExpired(ctx, s.now())
}
