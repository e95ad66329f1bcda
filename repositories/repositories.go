package repositories

import (
	"database/sql"
	"errors"
)

// ErrNotFound is returned when a lookup matches no row.
var ErrNotFound = errors.New("not found")

// Repositories struct holds all repository interfaces
type Repositories struct {
	Tokens TokenRepository
	Audit  AuditRepository
}

// NewRepositories creates and initializes all repositories
func NewRepositories(db *sql.DB) *Repositories {
	return &Repositories{
		Tokens: NewTokenRepository(db),
		Audit:  NewAuditRepository(db),
	}
}
