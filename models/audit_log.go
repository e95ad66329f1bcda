package models

import "time"

// Audit event names
const (
	AuditEventRequest  = "request"
	AuditEventCallback = "callback"
)

// AuditLogEntry represents a single auth-related event
type AuditLogEntry struct {
	ID        int64
	Timestamp time.Time
	Event     string
	DeviceID  string
	Subject   string
	Method    string
	Path      string
	Status    int
	Outcome   string
	Detail    string
	UserAgent string
	IPAddress string
}
