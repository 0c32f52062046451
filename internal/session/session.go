// Package session holds per-user transient state for the chat transport:
// the product a buyer selected before sending a payment photo, and the
// admin's in-progress add-product dialog. Nothing here is persisted.
package session

import (
	"strings"
	"sync"
)

// Step is a stage of the add-product dialog.
type Step int

const (
	StepID Step = iota + 1
	StepPrice
	StepUsername
	StepPassword
	StepSecret
	StepName
)

// Draft accumulates add-product answers.
type Draft struct {
	Step     Step
	ID       string
	Price    string
	Username string
	Password string
	Secret   string
	Name     string
}

type state struct {
	selected string
	draft    *Draft
}

// Sessions is a mutex-guarded map of per-user state.
//
// Thread-safety: All methods are safe for concurrent use via internal mutex.
type Sessions struct {
	mu    sync.Mutex
	users map[int64]*state
}

// New creates an empty session map.
func New() *Sessions {
	return &Sessions{users: make(map[int64]*state)}
}

func (s *Sessions) get(uid int64) *state {
	st, ok := s.users[uid]
	if !ok {
		st = &state{}
		s.users[uid] = st
	}
	return st
}

// drop removes uid's entry once it holds nothing.
func (s *Sessions) drop(uid int64) {
	if st, ok := s.users[uid]; ok && st.selected == "" && st.draft == nil {
		delete(s.users, uid)
	}
}

// Select records the product uid intends to pay for, replacing any
// earlier selection.
func (s *Sessions) Select(uid int64, productID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.get(uid).selected = productID
}

// TakeSelected returns and clears uid's selected product, so a second
// photo without a new selection is inert.
func (s *Sessions) TakeSelected(uid int64) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.users[uid]
	if !ok || st.selected == "" {
		return "", false
	}
	pid := st.selected
	st.selected = ""
	s.drop(uid)
	return pid, true
}

// StartDraft begins an add-product dialog for uid at StepID, discarding
// any dialog already in progress.
func (s *Sessions) StartDraft(uid int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.get(uid).draft = &Draft{Step: StepID}
}

// InDraft reports whether uid has an add-product dialog in progress.
func (s *Sessions) InDraft(uid int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.users[uid]
	return ok && st.draft != nil
}

// Feed stores input as the answer to the current step and advances.
// When the last step is answered the dialog ends and the completed draft
// is returned with done set. ok is false if no dialog is in progress.
func (s *Sessions) Feed(uid int64, input string) (d Draft, done, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, exists := s.users[uid]
	if !exists || st.draft == nil {
		return Draft{}, false, false
	}
	draft := st.draft
	input = strings.TrimSpace(input)

	switch draft.Step {
	case StepID:
		draft.ID = input
	case StepPrice:
		draft.Price = input
	case StepUsername:
		draft.Username = input
	case StepPassword:
		draft.Password = input
	case StepSecret:
		draft.Secret = input
	case StepName:
		if input != "-" {
			draft.Name = input
		}
		st.draft = nil
		s.drop(uid)
		return *draft, true, true
	}
	draft.Step++
	return *draft, false, true
}

// Cancel clears the selection and any dialog for uid. It reports whether
// there was anything to clear.
func (s *Sessions) Cancel(uid int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.users[uid]
	delete(s.users, uid)
	return ok
}

// Len returns the number of users holding state.
func (s *Sessions) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.users)
}
