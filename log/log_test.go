package log

import (
	"context"
	"log/slog"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
)

func TestContextRoundTrip(t *testing.T) {
	l := New("planify")
	ctx := IntoContext(context.Background(), l)
	assert.Same(t, l, FromContext(ctx))
}

func TestFromContextDefault(t *testing.T) {
	assert.Same(t, slog.Default(), FromContext(context.Background()))
}

func TestSubLoggerPrefix(t *testing.T) {
	sub := SubLogger(New("planify"), "callback")
	cl, ok := sub.Handler().(*log.Logger)
	if assert.True(t, ok) {
		assert.Equal(t, "planify/callback", cl.GetPrefix())
	}
}
