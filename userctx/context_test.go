package userctx

import (
	"context"
	"testing"
)

func TestUserRoundTrip(t *testing.T) {
	ctx := SetUser(context.Background(), User{Subject: "auth0|1", Email: "una@planify.test"})

	u, ok := GetUser(ctx)
	if !ok {
		t.Fatal("Expected user in context")
	}
	if u.Subject != "auth0|1" {
		t.Errorf("Expected subject auth0|1, got %s", u.Subject)
	}
	if got := GetUserEmail(ctx); got != "una@planify.test" {
		t.Errorf("Expected email, got %s", got)
	}
}

func TestAnonymous(t *testing.T) {
	if got := GetUserEmail(context.Background()); got != "anonymous" {
		t.Errorf("Expected anonymous, got %s", got)
	}
	if got := GetDeviceID(context.Background()); got != "" {
		t.Errorf("Expected empty device id, got %s", got)
	}
}

func TestDeviceID(t *testing.T) {
	ctx := SetDeviceID(context.Background(), "device-1")
	if got := GetDeviceID(ctx); got != "device-1" {
		t.Errorf("Expected device-1, got %s", got)
	}
}
