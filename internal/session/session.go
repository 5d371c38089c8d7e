// Package session holds the active household and user identity for a running
// process. It is an explicit object handed to every service rather than
// module-level state; reading it before login is an error, not a silent
// fallback to a sentinel household.
package session

import (
	"errors"
	"sync"

	"github.com/gharkhata/gharkhata/internal/model"
)

// ErrNoActiveSession is returned when the household id or user is read
// before login has set them.
var ErrNoActiveSession = errors.New("no active session")

// Session is the process-wide login context. Safe for concurrent reads;
// concurrent logins are not synchronized beyond field-level safety.
type Session struct {
	mu          sync.RWMutex
	householdID string
	user        model.User
	hasUser     bool
}

// New returns an empty, logged-out session.
func New() *Session {
	return &Session{}
}

// Login sets both the household and the current user in one step.
func (s *Session) Login(householdID string, user model.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.householdID = householdID
	s.user = user
	s.hasUser = true
}

// SetHouseholdID sets the active household.
func (s *Session) SetHouseholdID(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.householdID = id
}

// HouseholdID returns the active household id, or ErrNoActiveSession.
func (s *Session) HouseholdID() (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.householdID == "" {
		return "", ErrNoActiveSession
	}
	return s.householdID, nil
}

// SetCurrentUser sets the active user identity.
func (s *Session) SetCurrentUser(u model.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = u
	s.hasUser = true
}

// CurrentUser returns the active user, or ErrNoActiveSession.
func (s *Session) CurrentUser() (model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.hasUser {
		return model.User{}, ErrNoActiveSession
	}
	return s.user, nil
}
