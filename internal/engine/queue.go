package engine

import (
	"context"
	"log/slog"
	"sync"
)

// QueueOutbox delivers notices from a single background goroutine so
// that workflow calls never wait on the transport.
//
// Thread-safety model:
//   - Post(): safe from any goroutine
//   - Run(): must be called from exactly one goroutine
//
// The queue is unbounded; notices are small and produced at human pace.
type QueueOutbox struct {
	notifier Notifier

	mu      sync.Mutex
	notices []Notice
	closed  bool
	signal  chan struct{} // buffered, size 1; coalesces wake-ups
	idle    *sync.Cond    // broadcast when the queue drains
	busy    bool
}

// NewQueueOutbox creates an outbox that delivers through notifier.
func NewQueueOutbox(notifier Notifier) *QueueOutbox {
	q := &QueueOutbox{
		notifier: notifier,
		notices:  make([]Notice, 0, 16),
		signal:   make(chan struct{}, 1),
	}
	q.idle = sync.NewCond(&q.mu)
	return q
}

// Post enqueues n. Notices posted after Close are dropped with a warning.
func (q *QueueOutbox) Post(_ context.Context, n Notice) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		slog.Warn("outbox closed, dropping notice", "kind", n.Kind, "to", n.To)
		return
	}
	q.notices = append(q.notices, n)

	select {
	case q.signal <- struct{}{}:
	default:
	}
}

// tryDequeue removes and returns the front notice without blocking.
func (q *QueueOutbox) tryDequeue() (Notice, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.notices) == 0 {
		q.busy = false
		q.idle.Broadcast()
		return Notice{}, false
	}
	n := q.notices[0]
	q.notices[0] = Notice{} // drop credential strings from the backing array
	q.notices = q.notices[1:]
	q.busy = true
	return n, true
}

// Run delivers notices until ctx is cancelled or Close is called and the
// queue has drained.
func (q *QueueOutbox) Run(ctx context.Context) error {
	for {
		if n, ok := q.tryDequeue(); ok {
			deliver(ctx, q.notifier, n)
			continue
		}

		select {
		case <-ctx.Done():
			q.Close()
			return ctx.Err()
		case _, open := <-q.signal:
			if !open && q.Len() == 0 {
				return nil
			}
		}
	}
}

// Len returns the number of undelivered notices.
func (q *QueueOutbox) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.notices)
}

// Flush blocks until every notice posted so far has been handed to the
// notifier. Requires Run to be active.
func (q *QueueOutbox) Flush() {
	q.mu.Lock()
	defer q.mu.Unlock()
	for len(q.notices) > 0 || q.busy {
		q.idle.Wait()
	}
}

// Close stops intake and wakes Run so it can drain and return.
func (q *QueueOutbox) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return
	}
	q.closed = true
	close(q.signal)
}
