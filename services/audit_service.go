package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/planify/planify/callback"
	"github.com/planify/planify/models"
	"github.com/planify/planify/repositories"
)

// AuditService records auth events. Failures are logged, never returned to the caller's user.
type AuditService struct {
	repo   repositories.AuditRepository
	logger *slog.Logger
}

func NewAuditService(repo repositories.AuditRepository, logger *slog.Logger) *AuditService {
	return &AuditService{repo: repo, logger: logger}
}

// Record stores entry, logging any failure.
func (s *AuditService) Record(ctx context.Context, entry *models.AuditLogEntry) {
	if err := s.repo.Create(ctx, entry); err != nil {
		s.logger.Error("failed to create audit log", "event", entry.Event, "err", err)
	}
}

// RecordCallback stores the resolution of one callback page load.
func (s *AuditService) RecordCallback(ctx context.Context, deviceID string, res callback.Resolution) {
	entry := &models.AuditLogEntry{
		Event:    models.AuditEventCallback,
		DeviceID: deviceID,
		Outcome:  "session_found",
		Detail: fmt.Sprintf("strategy=%s attempts=%d elapsed=%s",
			res.Strategy, len(res.Attempts), res.Elapsed),
	}
	if res.Found() {
		entry.Subject = res.Session.User.Subject
	} else {
		entry.Outcome = string(res.Code)
		if res.Err != nil {
			entry.Detail += " err=" + res.Err.Error()
		}
	}
	s.Record(ctx, entry)
}
