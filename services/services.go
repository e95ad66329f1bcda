package services

import (
	"log/slog"

	"github.com/planify/planify/repositories"
)

// Services holds all service instances
type Services struct {
	Tokens *TokenService
	Audit  *AuditService
}

// NewServices creates and initializes all service instances
func NewServices(repos *repositories.Repositories, logger *slog.Logger) *Services {
	return &Services{
		Tokens: NewTokenService(repos.Tokens),
		Audit:  NewAuditService(repos.Audit, logger),
	}
}
