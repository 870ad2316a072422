package memory

import (
	"context"
	"sort"
	"sync"

	"resort/internal/domain/booking"
	domainreviews "resort/internal/domain/reviews"
)

// ReviewsRepository is a lightweight in-memory review store. It enforces
// one review per booking like the unique index in Postgres.
type ReviewsRepository struct {
	mu     sync.RWMutex
	items  map[domainreviews.ID]*domainreviews.Review
	nextID domainreviews.ID
}

func NewReviewsRepository() *ReviewsRepository {
	return &ReviewsRepository{items: make(map[domainreviews.ID]*domainreviews.Review)}
}

var _ domainreviews.Repository = (*ReviewsRepository)(nil)

func (r *ReviewsRepository) ByID(ctx context.Context, id domainreviews.ID) (*domainreviews.Review, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	review, ok := r.items[id]
	if !ok {
		return nil, domainreviews.ErrNotFound
	}
	out := *review
	return &out, nil
}

func (r *ReviewsRepository) ByBooking(ctx context.Context, bookingID booking.ID) (*domainreviews.Review, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, review := range r.items {
		if review.BookingID == bookingID {
			out := *review
			return &out, nil
		}
	}
	return nil, domainreviews.ErrNotFound
}

func (r *ReviewsRepository) List(ctx context.Context, approvedOnly bool) ([]*domainreviews.Review, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*domainreviews.Review, 0, len(r.items))
	for _, review := range r.items {
		if approvedOnly && !review.IsApproved {
			continue
		}
		copied := *review
		out = append(out, &copied)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

func (r *ReviewsRepository) Create(ctx context.Context, review *domainreviews.Review) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.items {
		if existing.BookingID == review.BookingID {
			return domainreviews.ErrAlreadyReviewed
		}
	}
	r.nextID++
	review.ID = r.nextID
	stored := *review
	r.items[review.ID] = &stored
	return nil
}

func (r *ReviewsRepository) Save(ctx context.Context, review *domainreviews.Review) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[review.ID]; !ok {
		return domainreviews.ErrNotFound
	}
	stored := *review
	r.items[review.ID] = &stored
	return nil
}

func (r *ReviewsRepository) Delete(ctx context.Context, id domainreviews.ID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[id]; !ok {
		return domainreviews.ErrNotFound
	}
	delete(r.items, id)
	return nil
}
