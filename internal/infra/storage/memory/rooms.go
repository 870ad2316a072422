package memory

import (
	"context"
	"slices"
	"sort"
	"sync"

	domainroom "resort/internal/domain/room"
)

// RoomRepository stores rooms in memory. Not suitable for production.
type RoomRepository struct {
	mu     sync.RWMutex
	items  map[domainroom.ID]*domainroom.Room
	nextID domainroom.ID
}

func NewRoomRepository() *RoomRepository {
	return &RoomRepository{items: make(map[domainroom.ID]*domainroom.Room)}
}

var _ domainroom.Repository = (*RoomRepository)(nil)

func (r *RoomRepository) ByID(ctx context.Context, id domainroom.ID) (*domainroom.Room, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	room, ok := r.items[id]
	if !ok {
		return nil, domainroom.ErrNotFound
	}
	return cloneRoom(room), nil
}

func (r *RoomRepository) List(ctx context.Context, activeOnly bool) ([]*domainroom.Room, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*domainroom.Room, 0, len(r.items))
	for _, room := range r.items {
		if activeOnly && !room.IsActive {
			continue
		}
		out = append(out, cloneRoom(room))
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].DisplayOrder != out[j].DisplayOrder {
			return out[i].DisplayOrder < out[j].DisplayOrder
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r *RoomRepository) Create(ctx context.Context, room *domainroom.Room) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	room.ID = r.nextID
	r.items[room.ID] = cloneRoom(room)
	return nil
}

func (r *RoomRepository) Save(ctx context.Context, room *domainroom.Room) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[room.ID]; !ok {
		return domainroom.ErrNotFound
	}
	r.items[room.ID] = cloneRoom(room)
	return nil
}

func (r *RoomRepository) Delete(ctx context.Context, id domainroom.ID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[id]; !ok {
		return domainroom.ErrNotFound
	}
	delete(r.items, id)
	return nil
}

// Lock outside a unit of work only loads the room; the unit returned by
// Factory adds the per-room mutex.
func (r *RoomRepository) Lock(ctx context.Context, id domainroom.ID) (*domainroom.Room, error) {
	return r.ByID(ctx, id)
}

func cloneRoom(in *domainroom.Room) *domainroom.Room {
	out := *in
	out.Amenities = slices.Clone(in.Amenities)
	out.Photos = slices.Clone(in.Photos)
	return &out
}
