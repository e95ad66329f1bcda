package callback

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPolicyDelaySequence(t *testing.T) {
	p := DefaultPolicy()

	expected := []time.Duration{0, 300, 450, 675, 1013, 1519, 2279, 3419}
	for i, want := range expected {
		got := p.DelayBefore(i)
		assert.InDelta(t, float64(want*time.Millisecond), float64(got), float64(2*time.Millisecond), "attempt %d", i)
	}
}

func TestPolicyDelayIsCapped(t *testing.T) {
	p := DefaultPolicy()

	assert.Equal(t, 5*time.Second, p.Delay(8))
	assert.Equal(t, 5*time.Second, p.Delay(1000))
}

func TestPolicyDelayWithoutCap(t *testing.T) {
	p := Policy{BaseDelay: time.Second, Growth: 2}

	assert.Equal(t, 8*time.Second, p.Delay(3))
	assert.Equal(t, time.Duration(0), p.Delay(-1))
}

func TestPolicyDelayMonotonic(t *testing.T) {
	p := Policy{BaseDelay: time.Second, Growth: 1.5, MaxDelay: 5 * time.Second}

	prev := time.Duration(0)
	for i := 0; i < 20; i++ {
		d := p.Delay(i)
		assert.GreaterOrEqual(t, d, prev)
		assert.LessOrEqual(t, d, p.MaxDelay)
		prev = d
	}
}
