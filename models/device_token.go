package models

import "time"

// DeviceToken is the durable token slot for one browser device.
type DeviceToken struct {
	DeviceID     string
	Key          string
	AccessToken  string
	RefreshToken string
	Subject      string
	Email        string
	Name         string
	ExpiresAt    *time.Time
	UpdatedAt    time.Time
}

// Expired reports whether the token has a known expiry at or before now.
func (t *DeviceToken) Expired(now time.Time) bool {
	return t.ExpiresAt != nil && !now.Before(*t.ExpiresAt)
}
