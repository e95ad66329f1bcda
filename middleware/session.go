package middleware

import (
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/sessions"

	"github.com/planify/planify/userctx"
)

// Browser session cookie name and keys
const (
	SessionName     = "planify_session"
	SessionDeviceID = "device_id"
	SessionState    = "oauth_state"
	SessionVerifier = "pkce_verifier"
)

// NewSessionStore builds the signed cookie store for browser sessions.
func NewSessionStore(secret []byte, secure bool) *sessions.CookieStore {
	store := sessions.NewCookieStore(secret)
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   60 * 60 * 24 * 30,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
	return store
}

// Device makes sure every browser carries a stable device id and exposes it
// through userctx. The token slot is keyed by this id.
func Device(store sessions.Store, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess, err := store.Get(r, SessionName)
			if err != nil {
				// A cookie signed with an old secret decodes with an error but still yields a fresh session.
				logger.Debug("discarding unreadable session cookie", "err", err)
			}

			deviceID, _ := sess.Values[SessionDeviceID].(string)
			if deviceID == "" {
				deviceID = uuid.NewString()
				sess.Values[SessionDeviceID] = deviceID
				if err := sess.Save(r, w); err != nil {
					logger.Error("failed to save session", "err", err)
					http.Error(w, "Failed to start session", http.StatusInternalServerError)
					return
				}
			}

			next.ServeHTTP(w, r.WithContext(userctx.SetDeviceID(r.Context(), deviceID)))
		})
	}
}
