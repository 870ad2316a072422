package memory

import (
	"context"
	"slices"
	"sort"
	"sync"
	"time"

	domainbooking "resort/internal/domain/booking"
)

// BookingRepository stores bookings in memory.
type BookingRepository struct {
	mu     sync.RWMutex
	items  map[domainbooking.ID]*domainbooking.Booking
	nextID domainbooking.ID
}

func NewBookingRepository() *BookingRepository {
	return &BookingRepository{items: make(map[domainbooking.ID]*domainbooking.Booking)}
}

var _ domainbooking.Repository = (*BookingRepository)(nil)

func (r *BookingRepository) ByID(ctx context.Context, id domainbooking.ID) (*domainbooking.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	b, ok := r.items[id]
	if !ok {
		return nil, domainbooking.ErrNotFound
	}
	return cloneBooking(b), nil
}

func (r *BookingRepository) List(ctx context.Context, filter domainbooking.Filter) ([]*domainbooking.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*domainbooking.Booking, 0)
	for _, b := range r.items {
		if filter.RoomID != 0 && b.RoomID != filter.RoomID {
			continue
		}
		if len(filter.Statuses) > 0 && !slices.Contains(filter.Statuses, b.Status) {
			continue
		}
		out = append(out, cloneBooking(b))
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Stay.CheckIn.Equal(out[j].Stay.CheckIn) {
			return out[i].Stay.CheckIn.After(out[j].Stay.CheckIn)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

func (r *BookingRepository) ListConfirmedCreatedBefore(ctx context.Context, cutoff time.Time) ([]*domainbooking.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*domainbooking.Booking
	for _, b := range r.items {
		if b.Status == domainbooking.StatusConfirmed && b.CreatedAt.Before(cutoff) {
			out = append(out, cloneBooking(b))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *BookingRepository) Create(ctx context.Context, b *domainbooking.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	b.ID = r.nextID
	r.items[b.ID] = cloneBooking(b)
	return nil
}

func (r *BookingRepository) Save(ctx context.Context, b *domainbooking.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[b.ID]; !ok {
		return domainbooking.ErrNotFound
	}
	r.items[b.ID] = cloneBooking(b)
	return nil
}

// cloneBooking copies the state without pending events; those stay with
// the caller's aggregate.
func cloneBooking(in *domainbooking.Booking) *domainbooking.Booking {
	out := *in
	out.ClearEvents()
	return &out
}
