package repositories

import (
	"context"
	"database/sql"
	"time"

	"github.com/planify/planify/models"
)

// AuditRepository handles audit log persistence
type AuditRepository interface {
	Create(ctx context.Context, entry *models.AuditLogEntry) error
	Recent(ctx context.Context, limit int) ([]models.AuditLogEntry, error)
}

type sqliteAuditRepository struct {
	db *sql.DB
}

// NewAuditRepository creates a new audit repository
func NewAuditRepository(db *sql.DB) AuditRepository {
	return &sqliteAuditRepository{db: db}
}

// Create inserts a new audit log entry
func (r *sqliteAuditRepository) Create(ctx context.Context, entry *models.AuditLogEntry) error {
	query := `
		INSERT INTO audit_log (timestamp, event, device_id, subject, method, path, status, outcome, detail, user_agent, ip_address)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now().UTC()
	}

	res, err := r.db.ExecContext(ctx,
		query,
		entry.Timestamp,
		entry.Event,
		entry.DeviceID,
		entry.Subject,
		entry.Method,
		entry.Path,
		entry.Status,
		entry.Outcome,
		entry.Detail,
		entry.UserAgent,
		entry.IPAddress,
	)
	if err != nil {
		return err
	}

	entry.ID, err = res.LastInsertId()
	return err
}

// Recent returns the newest entries first
func (r *sqliteAuditRepository) Recent(ctx context.Context, limit int) ([]models.AuditLogEntry, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, timestamp, event, device_id, subject, method, path, status, outcome, detail, user_agent, ip_address
		FROM audit_log
		ORDER BY id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []models.AuditLogEntry
	for rows.Next() {
		var e models.AuditLogEntry
		if err := rows.Scan(&e.ID, &e.Timestamp, &e.Event, &e.DeviceID, &e.Subject, &e.Method, &e.Path,
			&e.Status, &e.Outcome, &e.Detail, &e.UserAgent, &e.IPAddress); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
