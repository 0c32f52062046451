package testutil

import (
	"fmt"
	"sync"
	"time"
)

// Epoch is the default start time of test clocks.
var Epoch = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

// Clock is a manually advanced wall clock for tests.
//
// Thread-safety: All methods are safe for concurrent use via internal mutex.
type Clock struct {
	mu  sync.Mutex
	now time.Time
}

// NewClock creates a clock reading start. A zero start reads Epoch.
func NewClock(start time.Time) *Clock {
	if start.IsZero() {
		start = Epoch
	}
	return &Clock{now: start}
}

// Now returns the current reading. Usable as engine.WithClock(c.Now).
func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Advance moves the clock forward by d.
func (c *Clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// SequentialIDs returns a request id generator yielding req-0001,
// req-0002, ... regardless of the time passed in.
func SequentialIDs() func(time.Time) string {
	var (
		mu sync.Mutex
		n  int
	)
	return func(time.Time) string {
		mu.Lock()
		defer mu.Unlock()
		n++
		return fmt.Sprintf("req-%04d", n)
	}
}

// FixedOTP returns an OTP function that yields "<secret>-<unix step>",
// where the step is 30 seconds. Secrets starting with "bad" fail.
func FixedOTP(secret string, at time.Time) (string, error) {
	if len(secret) >= 3 && secret[:3] == "bad" {
		return "", fmt.Errorf("illegal base32 data in secret %q", secret)
	}
	return fmt.Sprintf("%s-%d", secret, at.Unix()/30), nil
}
