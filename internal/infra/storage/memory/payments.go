package memory

import (
	"context"
	"sort"
	"sync"

	"resort/internal/domain/booking"
	"resort/internal/domain/payment"
	"resort/internal/domain/shared/money"
)

type PaymentRepository struct {
	mu     sync.RWMutex
	items  map[payment.ID]*payment.Payment
	nextID payment.ID
}

func NewPaymentRepository() *PaymentRepository {
	return &PaymentRepository{items: make(map[payment.ID]*payment.Payment)}
}

var _ payment.Repository = (*PaymentRepository)(nil)

func (r *PaymentRepository) ByID(ctx context.Context, id payment.ID) (*payment.Payment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.items[id]
	if !ok {
		return nil, payment.ErrNotFound
	}
	return clonePayment(p), nil
}

func (r *PaymentRepository) List(ctx context.Context) ([]*payment.Payment, error) {
	return r.filter(func(*payment.Payment) bool { return true }), nil
}

func (r *PaymentRepository) ListByBooking(ctx context.Context, bookingID booking.ID) ([]*payment.Payment, error) {
	return r.filter(func(p *payment.Payment) bool { return p.BookingID == bookingID }), nil
}

func (r *PaymentRepository) filter(keep func(*payment.Payment) bool) []*payment.Payment {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*payment.Payment, 0)
	for _, p := range r.items {
		if keep(p) {
			out = append(out, clonePayment(p))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out
}

func (r *PaymentRepository) Create(ctx context.Context, p *payment.Payment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	p.ID = r.nextID
	r.items[p.ID] = clonePayment(p)
	return nil
}

func (r *PaymentRepository) Save(ctx context.Context, p *payment.Payment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[p.ID]; !ok {
		return payment.ErrNotFound
	}
	r.items[p.ID] = clonePayment(p)
	return nil
}

func (r *PaymentRepository) Delete(ctx context.Context, id payment.ID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[id]; !ok {
		return payment.ErrNotFound
	}
	delete(r.items, id)
	return nil
}

func (r *PaymentRepository) SumPaid(ctx context.Context, currency string) (money.Money, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	total := money.Zero(currency)
	var err error
	for _, p := range r.items {
		if p.Status != payment.StatusPaid {
			continue
		}
		if total, err = total.Add(p.Amount); err != nil {
			return money.Money{}, err
		}
	}
	return total, nil
}

func clonePayment(in *payment.Payment) *payment.Payment {
	out := *in
	out.ClearEvents()
	if in.PaidAt != nil {
		at := *in.PaidAt
		out.PaidAt = &at
	}
	return &out
}
