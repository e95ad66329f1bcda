package middleware

import (
	"context"
	"net/http"

	"github.com/planify/planify/models"
	"github.com/planify/planify/userctx"
)

// TokenReader returns the live token for a device.
type TokenReader interface {
	Current(ctx context.Context, deviceID string) (*models.DeviceToken, error)
}

// RequireAuth ensures the device holds a live session token.
// If not, it redirects to signInPath.
func RequireAuth(tokens TokenReader, signInPath string) func(http.Handler) http.Handler {
	return requireToken(tokens, func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, signInPath, http.StatusSeeOther)
	})
}

// RequireAPIAuth is RequireAuth for JSON endpoints: it answers 401 instead of redirecting.
func RequireAPIAuth(tokens TokenReader) func(http.Handler) http.Handler {
	return requireToken(tokens, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":"unauthorized"}`))
	})
}

func requireToken(tokens TokenReader, deny http.HandlerFunc) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, err := tokens.Current(r.Context(), userctx.GetDeviceID(r.Context()))
			if err != nil {
				deny(w, r)
				return
			}

			ctx := userctx.SetUser(r.Context(), userctx.User{
				Subject: token.Subject,
				Email:   token.Email,
				Name:    token.Name,
			})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
