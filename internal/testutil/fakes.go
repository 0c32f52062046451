package testutil

import (
	"context"
	"errors"
	"sync"

	"github.com/roach88/sellbot/internal/engine"
	"github.com/roach88/sellbot/internal/model"
)

// ErrInjected is returned by fakes configured to fail.
var ErrInjected = errors.New("injected failure")

// RecordingNotifier records every notice it is asked to deliver.
//
// Thread-safety: safe for concurrent use.
type RecordingNotifier struct {
	mu      sync.Mutex
	notices []engine.Notice
	fail    bool
}

// Notify records n, or returns ErrInjected when failing.
func (r *RecordingNotifier) Notify(_ context.Context, n engine.Notice) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fail {
		return ErrInjected
	}
	r.notices = append(r.notices, n)
	return nil
}

// SetFailing makes subsequent Notify calls fail.
func (r *RecordingNotifier) SetFailing(fail bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.fail = fail
}

// Notices returns a copy of the recorded notices in delivery order.
func (r *RecordingNotifier) Notices() []engine.Notice {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]engine.Notice, len(r.notices))
	copy(out, r.notices)
	return out
}

// To returns the recorded notices addressed to uid.
func (r *RecordingNotifier) To(uid int64) []engine.Notice {
	var out []engine.Notice
	for _, n := range r.Notices() {
		if n.To == uid {
			out = append(out, n)
		}
	}
	return out
}

// MemorySaver keeps the last saved document in memory.
//
// Thread-safety: safe for concurrent use.
type MemorySaver struct {
	mu    sync.Mutex
	last  model.Document
	saves int
	fail  bool
}

// Save stores a deep copy of doc, or returns ErrInjected when failing.
func (s *MemorySaver) Save(_ context.Context, doc model.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail {
		return ErrInjected
	}
	s.last = doc.Clone()
	s.saves++
	return nil
}

// SetFailing makes subsequent Save calls fail.
func (s *MemorySaver) SetFailing(fail bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fail = fail
}

// Last returns the most recently saved document.
func (s *MemorySaver) Last() model.Document {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last.Clone()
}

// Saves returns the number of successful saves.
func (s *MemorySaver) Saves() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saves
}
