package memory

import (
	"context"
	"slices"
	"sync"
	"time"

	domainauth "resort/internal/domain/auth"
	domainguest "resort/internal/domain/guest"
)

// SessionStore keeps auth sessions in memory. Expired sessions are dropped
// on read.
type SessionStore struct {
	mu    sync.RWMutex
	items map[domainauth.TokenID]*domainauth.Session
	now   func() time.Time
}

func NewSessionStore() *SessionStore {
	return &SessionStore{items: make(map[domainauth.TokenID]*domainauth.Session), now: time.Now}
}

var _ domainauth.SessionStore = (*SessionStore)(nil)

func (s *SessionStore) Save(ctx context.Context, session *domainauth.Session) error {
	if session == nil || session.TokenID == "" {
		return domainauth.ErrTokenIDRequired
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[session.TokenID] = cloneSession(session)
	return nil
}

func (s *SessionStore) Get(ctx context.Context, id domainauth.TokenID) (*domainauth.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.items[id]
	if !ok {
		return nil, domainauth.ErrSessionNotFound
	}
	if session.Expired(s.now()) {
		delete(s.items, id)
		return nil, domainauth.ErrSessionNotFound
	}
	return cloneSession(session), nil
}

func (s *SessionStore) Delete(ctx context.Context, id domainauth.TokenID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[id]; !ok {
		return domainauth.ErrSessionNotFound
	}
	delete(s.items, id)
	return nil
}

func (s *SessionStore) DeleteByGuest(ctx context.Context, guestID domainguest.ID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, session := range s.items {
		if session.GuestID == guestID {
			delete(s.items, id)
		}
	}
	return nil
}

func cloneSession(in *domainauth.Session) *domainauth.Session {
	out := *in
	out.Roles = slices.Clone(in.Roles)
	return &out
}
