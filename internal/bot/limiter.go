package bot

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Limiter applies a token bucket per user.
//
// Thread-safety: All methods are safe for concurrent use via internal mutex.
type Limiter struct {
	mu    sync.Mutex
	every rate.Limit
	burst int
	now   func() time.Time
	users map[int64]*userLimit
}

type userLimit struct {
	lim  *rate.Limiter
	seen time.Time
}

// NewLimiter allows perSec events per second per user with the given burst.
func NewLimiter(perSec float64, burst int) *Limiter {
	return &Limiter{
		every: rate.Limit(perSec),
		burst: burst,
		now:   time.Now,
		users: make(map[int64]*userLimit),
	}
}

// Allow reports whether uid may act now, consuming a token if so.
func (l *Limiter) Allow(uid int64) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	u, ok := l.users[uid]
	if !ok {
		u = &userLimit{lim: rate.NewLimiter(l.every, l.burst)}
		l.users[uid] = u
	}
	u.seen = now
	return u.lim.AllowN(now, 1)
}

// Sweep forgets users idle for longer than idle and returns how many
// were dropped.
func (l *Limiter) Sweep(idle time.Duration) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	cutoff := l.now().Add(-idle)
	dropped := 0
	for uid, u := range l.users {
		if u.seen.Before(cutoff) {
			delete(l.users, uid)
			dropped++
		}
	}
	return dropped
}

// Len returns the number of tracked users.
func (l *Limiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.users)
}
