package memory

import (
	"context"
	"sort"
	"sync"

	"resort/internal/domain/dining"
)

type DiningRepository struct {
	mu     sync.RWMutex
	items  map[dining.ID]*dining.Item
	nextID dining.ID
}

func NewDiningRepository() *DiningRepository {
	return &DiningRepository{items: make(map[dining.ID]*dining.Item)}
}

var _ dining.Repository = (*DiningRepository)(nil)

func (r *DiningRepository) ByID(ctx context.Context, id dining.ID) (*dining.Item, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	item, ok := r.items[id]
	if !ok {
		return nil, dining.ErrNotFound
	}
	return cloneItem(item), nil
}

func (r *DiningRepository) List(ctx context.Context) ([]*dining.Item, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*dining.Item, 0, len(r.items))
	for _, item := range r.items {
		out = append(out, cloneItem(item))
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].DisplayOrder != out[j].DisplayOrder {
			return out[i].DisplayOrder < out[j].DisplayOrder
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r *DiningRepository) Create(ctx context.Context, item *dining.Item) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	item.ID = r.nextID
	r.items[item.ID] = cloneItem(item)
	return nil
}

func (r *DiningRepository) Save(ctx context.Context, item *dining.Item) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[item.ID]; !ok {
		return dining.ErrNotFound
	}
	r.items[item.ID] = cloneItem(item)
	return nil
}

func (r *DiningRepository) Delete(ctx context.Context, id dining.ID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[id]; !ok {
		return dining.ErrNotFound
	}
	delete(r.items, id)
	return nil
}

func cloneItem(in *dining.Item) *dining.Item {
	out := *in
	if in.Price != nil {
		price := *in.Price
		out.Price = &price
	}
	return &out
}
