package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/planify/planify/models"
)

// TokenRepository persists the per-device bearer token slot
type TokenRepository interface {
	Upsert(ctx context.Context, token *models.DeviceToken) error
	Get(ctx context.Context, deviceID, key string) (*models.DeviceToken, error)
	Delete(ctx context.Context, deviceID, key string) error
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

type sqliteTokenRepository struct {
	db *sql.DB
}

// NewTokenRepository creates a new token repository
func NewTokenRepository(db *sql.DB) TokenRepository {
	return &sqliteTokenRepository{db: db}
}

// Upsert writes the slot, replacing whatever was there (last write wins)
func (r *sqliteTokenRepository) Upsert(ctx context.Context, token *models.DeviceToken) error {
	if token.DeviceID == "" || token.Key == "" {
		return errors.New("device id and key are required")
	}

	query := `
		INSERT INTO device_tokens (device_id, key, access_token, refresh_token, subject, email, name, expires_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(device_id, key) DO UPDATE SET
			access_token = excluded.access_token,
			refresh_token = excluded.refresh_token,
			subject = excluded.subject,
			email = excluded.email,
			name = excluded.name,
			expires_at = excluded.expires_at,
			updated_at = excluded.updated_at
	`

	token.UpdatedAt = time.Now().UTC()
	var expiresAt sql.NullTime
	if token.ExpiresAt != nil {
		expiresAt = sql.NullTime{Time: token.ExpiresAt.UTC(), Valid: true}
	}

	_, err := r.db.ExecContext(ctx, query,
		token.DeviceID,
		token.Key,
		token.AccessToken,
		token.RefreshToken,
		token.Subject,
		token.Email,
		token.Name,
		expiresAt,
		token.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert device token: %w", err)
	}
	return nil
}

// Get returns the slot or ErrNotFound
func (r *sqliteTokenRepository) Get(ctx context.Context, deviceID, key string) (*models.DeviceToken, error) {
	query := `
		SELECT device_id, key, access_token, refresh_token, subject, email, name, expires_at, updated_at
		FROM device_tokens
		WHERE device_id = ? AND key = ?
	`

	var (
		token     models.DeviceToken
		expiresAt sql.NullTime
	)
	err := r.db.QueryRowContext(ctx, query, deviceID, key).Scan(
		&token.DeviceID,
		&token.Key,
		&token.AccessToken,
		&token.RefreshToken,
		&token.Subject,
		&token.Email,
		&token.Name,
		&expiresAt,
		&token.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get device token: %w", err)
	}

	if expiresAt.Valid {
		t := expiresAt.Time
		token.ExpiresAt = &t
	}
	return &token, nil
}

// Delete clears the slot; deleting an empty slot is not an error
func (r *sqliteTokenRepository) Delete(ctx context.Context, deviceID, key string) error {
	_, err := r.db.ExecContext(ctx, "DELETE FROM device_tokens WHERE device_id = ? AND key = ?", deviceID, key)
	return err
}

// DeleteExpired removes slots that expired before now and cannot be refreshed
func (r *sqliteTokenRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		"DELETE FROM device_tokens WHERE expires_at IS NOT NULL AND expires_at <= ? AND refresh_token = ''",
		now.UTC(),
	)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
