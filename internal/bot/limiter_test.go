package bot

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLimiter_BurstThenThrottle(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	l := NewLimiter(1, 2)
	l.now = func() time.Time { return now }

	assert.True(t, l.Allow(42))
	assert.True(t, l.Allow(42))
	assert.False(t, l.Allow(42))

	// Other users have their own bucket.
	assert.True(t, l.Allow(43))

	now = now.Add(time.Second)
	assert.True(t, l.Allow(42))
}

func TestLimiter_Sweep(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	l := NewLimiter(1, 1)
	l.now = func() time.Time { return now }

	l.Allow(1)
	now = now.Add(10 * time.Minute)
	l.Allow(2)

	assert.Equal(t, 1, l.Sweep(5*time.Minute))
	assert.Equal(t, 1, l.Len())
}
