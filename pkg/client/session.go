// Package client is the Go SDK for the Cosecha en Cope marketplace API.
//
// It bundles the session state the web front end keeps per tab: an observable
// session store, bearer-token persistence, the login/registration exchanges,
// an http.RoundTripper that authorises outbound calls, and route admission
// checks for navigation guards.
package client

import "sync"

// Identity is the authenticated session record. It is replaced atomically on
// login and cleared atomically on logout or invalidation, never partially
// updated.
type Identity struct {
	Token    string
	ID       int64
	Email    string
	UserType string
	Roles    []string
}

// HasRole reports whether the identity holds the given role.
func (id *Identity) HasRole(role string) bool {
	for _, r := range id.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// SessionStore holds the current Identity (or nil) for the lifetime of the
// process and notifies subscribers of every change, in order. Subscribers
// receive the current value on subscription and are conflated to the latest
// value: a slow consumer never observes intermediate stale states.
type SessionStore struct {
	mu      sync.Mutex
	current *Identity
	subs    map[int]chan *Identity
	nextSub int
}

func NewSessionStore() *SessionStore {
	return &SessionStore{subs: make(map[int]chan *Identity)}
}

// Set replaces the current identity entirely and notifies all subscribers.
func (s *SessionStore) Set(identity *Identity) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = identity
	s.notifyLocked()
}

// Clear sets the current identity to nil and notifies all subscribers.
// Clearing an already empty store is a no-op apart from the notification.
func (s *SessionStore) Clear() {
	s.Set(nil)
}

// Current returns the current identity, or nil when no session is active.
func (s *SessionStore) Current() *Identity {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Subscribe registers an observer. The returned channel immediately yields
// the current value, then every subsequent change in the order applied.
// The cancel function releases the subscription.
func (s *SessionStore) Subscribe() (<-chan *Identity, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ch := make(chan *Identity, 1)
	ch <- s.current

	id := s.nextSub
	s.nextSub++
	s.subs[id] = ch

	cancel := func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subs, id)
	}
	return ch, cancel
}

func (s *SessionStore) notifyLocked() {
	for _, ch := range s.subs {
		conflate(ch, s.current)
	}
}

// conflate delivers v without blocking: if the subscriber has not consumed
// the previous value yet, it is dropped in favour of the latest one.
func conflate(ch chan *Identity, v *Identity) {
	for {
		select {
		case ch <- v:
			return
		default:
			select {
			case <-ch:
			default:
			}
		}
	}
}
