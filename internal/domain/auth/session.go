package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"resort/internal/domain/guest"
)

var (
	ErrTokenIDRequired = errors.New("auth: token id is required")
	ErrGuestRequired   = errors.New("auth: guest is required")
	ErrTTLInvalid      = errors.New("auth: ttl must be positive")
	ErrSessionNotFound = errors.New("auth: session not found")
)

// TokenID is the jti of an issued access token. Sessions are keyed by it so
// a signed token can be revoked before it expires.
type TokenID string

type Session struct {
	TokenID   TokenID
	GuestID   guest.ID
	Roles     []guest.Role
	CreatedAt time.Time
	ExpiresAt time.Time
}

type CreateSessionParams struct {
	TokenID TokenID
	GuestID guest.ID
	Roles   []guest.Role
	TTL     time.Duration
	Now     time.Time
}

func NewSession(params CreateSessionParams) (*Session, error) {
	id := strings.TrimSpace(string(params.TokenID))
	if id == "" {
		return nil, ErrTokenIDRequired
	}
	if params.GuestID == 0 {
		return nil, ErrGuestRequired
	}
	if params.TTL <= 0 {
		return nil, ErrTTLInvalid
	}
	now := params.Now
	if now.IsZero() {
		now = time.Now()
	}
	now = now.UTC()
	return &Session{
		TokenID:   TokenID(id),
		GuestID:   params.GuestID,
		Roles:     append([]guest.Role(nil), params.Roles...),
		CreatedAt: now,
		ExpiresAt: now.Add(params.TTL),
	}, nil
}

func (s *Session) Expired(at time.Time) bool {
	if at.IsZero() {
		at = time.Now()
	}
	return !s.ExpiresAt.After(at.UTC())
}

func (s *Session) HasRole(role guest.Role) bool {
	for _, r := range s.Roles {
		if r == role {
			return true
		}
	}
	return false
}

type SessionStore interface {
	Save(ctx context.Context, session *Session) error
	Get(ctx context.Context, id TokenID) (*Session, error)
	Delete(ctx context.Context, id TokenID) error
	DeleteByGuest(ctx context.Context, guestID guest.ID) error
}
