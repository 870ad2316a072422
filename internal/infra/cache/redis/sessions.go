package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	goredis "github.com/go-redis/redis/v8"

	domainauth "resort/internal/domain/auth"
	domainguest "resort/internal/domain/guest"
)

const keyPrefix = "resort:session:"

// SessionStore keeps auth sessions in Redis. Each session key expires with
// the session; a per-guest set indexes the token ids for bulk revocation.
type SessionStore struct {
	client *goredis.Client
	now    func() time.Time
}

func NewClient(addr, password string, db int) *goredis.Client {
	return goredis.NewClient(&goredis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
}

func NewSessionStore(client *goredis.Client) *SessionStore {
	return &SessionStore{client: client, now: time.Now}
}

var _ domainauth.SessionStore = (*SessionStore)(nil)

type sessionDocument struct {
	TokenID   string    `json:"jti"`
	GuestID   int64     `json:"guest_id"`
	Roles     []string  `json:"roles"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

func (s *SessionStore) Save(ctx context.Context, session *domainauth.Session) error {
	if session == nil || session.TokenID == "" {
		return domainauth.ErrTokenIDRequired
	}
	ttl := session.ExpiresAt.Sub(s.now())
	if ttl <= 0 {
		return domainauth.ErrTTLInvalid
	}
	doc := sessionDocument{
		TokenID:   string(session.TokenID),
		GuestID:   int64(session.GuestID),
		CreatedAt: session.CreatedAt,
		ExpiresAt: session.ExpiresAt,
	}
	for _, r := range session.Roles {
		doc.Roles = append(doc.Roles, string(r))
	}
	payload, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	guestKey := guestIndexKey(session.GuestID)
	_, err = s.client.TxPipelined(ctx, func(p goredis.Pipeliner) error {
		p.Set(ctx, sessionKey(session.TokenID), payload, ttl)
		p.SAdd(ctx, guestKey, doc.TokenID)
		p.Expire(ctx, guestKey, ttl)
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis: save session: %w", err)
	}
	return nil
}

func (s *SessionStore) Get(ctx context.Context, id domainauth.TokenID) (*domainauth.Session, error) {
	raw, err := s.client.Get(ctx, sessionKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, domainauth.ErrSessionNotFound
		}
		return nil, err
	}
	var doc sessionDocument
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("redis: decode session: %w", err)
	}
	out := &domainauth.Session{
		TokenID:   domainauth.TokenID(doc.TokenID),
		GuestID:   domainguest.ID(doc.GuestID),
		CreatedAt: doc.CreatedAt,
		ExpiresAt: doc.ExpiresAt,
	}
	for _, r := range doc.Roles {
		out.Roles = append(out.Roles, domainguest.Role(r))
	}
	return out, nil
}

func (s *SessionStore) Delete(ctx context.Context, id domainauth.TokenID) error {
	n, err := s.client.Del(ctx, sessionKey(id)).Result()
	if err != nil {
		return err
	}
	if n == 0 {
		return domainauth.ErrSessionNotFound
	}
	return nil
}

func (s *SessionStore) DeleteByGuest(ctx context.Context, guestID domainguest.ID) error {
	guestKey := guestIndexKey(guestID)
	ids, err := s.client.SMembers(ctx, guestKey).Result()
	if err != nil {
		return err
	}
	keys := make([]string, 0, len(ids)+1)
	for _, id := range ids {
		keys = append(keys, sessionKey(domainauth.TokenID(id)))
	}
	keys = append(keys, guestKey)
	return s.client.Del(ctx, keys...).Err()
}

func (s *SessionStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func sessionKey(id domainauth.TokenID) string {
	return keyPrefix + string(id)
}

func guestIndexKey(id domainguest.ID) string {
	return keyPrefix + "guest:" + strconv.FormatInt(int64(id), 10)
}
