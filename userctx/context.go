package userctx

import "context"

// Context key type
type contextKey string

const (
	userKey     contextKey = "user"
	deviceIDKey contextKey = "device_id"
)

// User is the signed-in identity attached to a request.
type User struct {
	Subject string
	Email   string
	Name    string
}

// SetUser adds the signed-in user to request context
func SetUser(ctx context.Context, u User) context.Context {
	return context.WithValue(ctx, userKey, u)
}

// GetUser retrieves the signed-in user from request context
func GetUser(ctx context.Context) (User, bool) {
	u, ok := ctx.Value(userKey).(User)
	return u, ok
}

// GetUserEmail retrieves the user email, or "anonymous"
func GetUserEmail(ctx context.Context) string {
	if u, ok := GetUser(ctx); ok && u.Email != "" {
		return u.Email
	}
	return "anonymous"
}

// SetDeviceID adds the browser device id to request context
func SetDeviceID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, deviceIDKey, id)
}

// GetDeviceID retrieves the browser device id from request context
func GetDeviceID(ctx context.Context) string {
	id, _ := ctx.Value(deviceIDKey).(string)
	return id
}
