package middleware

import (
	"context"
	"net/http"
	"strings"

	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/planify/planify/models"
	"github.com/planify/planify/userctx"
)

// AuditRecorder stores audit entries.
type AuditRecorder interface {
	Record(ctx context.Context, entry *models.AuditLogEntry)
}

// AuditLogger records every request to the wrapped auth routes with its
// response status. Form bodies are never captured: the callback relay posts tokens.
func AuditLogger(audit AuditRecorder) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			entry := &models.AuditLogEntry{
				Event:     models.AuditEventRequest,
				DeviceID:  userctx.GetDeviceID(r.Context()),
				Method:    r.Method,
				Path:      r.URL.Path,
				Status:    ww.Status(),
				UserAgent: r.UserAgent(),
				IPAddress: getIPAddress(r),
			}
			if u, ok := userctx.GetUser(r.Context()); ok {
				entry.Subject = u.Subject
			}

			// The handler has returned, so the client may already be gone.
			audit.Record(context.WithoutCancel(r.Context()), entry)
		})
	}
}

// getIPAddress extracts IP address from request, checking X-Forwarded-For first
func getIPAddress(r *http.Request) string {
	// Check X-Forwarded-For header (proxy/load balancer)
	forwarded := r.Header.Get("X-Forwarded-For")
	if forwarded != "" {
		// Take first IP if multiple
		ips := strings.Split(forwarded, ",")
		return strings.TrimSpace(ips[0])
	}

	// Check X-Real-IP header
	realIP := r.Header.Get("X-Real-IP")
	if realIP != "" {
		return realIP
	}

	// Fall back to RemoteAddr
	ip := r.RemoteAddr
	// Remove port if present
	if idx := strings.LastIndex(ip, ":"); idx != -1 {
		ip = ip[:idx]
	}
	return ip
}
