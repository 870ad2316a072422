package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	domainguest "resort/internal/domain/guest"
)

// GuestRepository stores guests in memory. Not suitable for production.
type GuestRepository struct {
	mu      sync.RWMutex
	byID    map[domainguest.ID]*domainguest.Guest
	byEmail map[string]domainguest.ID
	nextID  domainguest.ID
}

func NewGuestRepository() *GuestRepository {
	return &GuestRepository{
		byID:    make(map[domainguest.ID]*domainguest.Guest),
		byEmail: make(map[string]domainguest.ID),
	}
}

var _ domainguest.Repository = (*GuestRepository)(nil)

func (r *GuestRepository) ByID(ctx context.Context, id domainguest.ID) (*domainguest.Guest, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if g, ok := r.byID[id]; ok {
		return cloneGuest(g), nil
	}
	return nil, domainguest.ErrNotFound
}

func (r *GuestRepository) ByEmail(ctx context.Context, email string) (*domainguest.Guest, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.byEmail[emailKey(email)]
	if !ok {
		return nil, domainguest.ErrNotFound
	}
	if g, ok := r.byID[id]; ok {
		return cloneGuest(g), nil
	}
	return nil, domainguest.ErrNotFound
}

func (r *GuestRepository) List(ctx context.Context) ([]*domainguest.Guest, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*domainguest.Guest, 0, len(r.byID))
	for _, g := range r.byID {
		out = append(out, cloneGuest(g))
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

func (r *GuestRepository) Create(ctx context.Context, g *domainguest.Guest) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := emailKey(g.Email)
	if _, taken := r.byEmail[key]; taken {
		return domainguest.ErrEmailAlreadyUsed
	}
	r.nextID++
	g.ID = r.nextID
	r.byID[g.ID] = cloneGuest(g)
	r.byEmail[key] = g.ID
	return nil
}

func (r *GuestRepository) Save(ctx context.Context, g *domainguest.Guest) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	prev, ok := r.byID[g.ID]
	if !ok {
		return domainguest.ErrNotFound
	}
	key := emailKey(g.Email)
	if owner, taken := r.byEmail[key]; taken && owner != g.ID {
		return domainguest.ErrEmailAlreadyUsed
	}
	delete(r.byEmail, emailKey(prev.Email))
	r.byEmail[key] = g.ID
	r.byID[g.ID] = cloneGuest(g)
	return nil
}

func (r *GuestRepository) Delete(ctx context.Context, id domainguest.ID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	g, ok := r.byID[id]
	if !ok {
		return domainguest.ErrNotFound
	}
	delete(r.byEmail, emailKey(g.Email))
	delete(r.byID, id)
	return nil
}

func (r *GuestRepository) CountAdmins(ctx context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	n := 0
	for _, g := range r.byID {
		if g.IsAdmin {
			n++
		}
	}
	return n, nil
}

func emailKey(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func cloneGuest(in *domainguest.Guest) *domainguest.Guest {
	out := *in
	return &out
}
