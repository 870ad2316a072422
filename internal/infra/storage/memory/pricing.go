package memory

import (
	"context"
	"sort"
	"sync"

	"resort/internal/domain/pricing"
	"resort/internal/domain/room"
)

// PricingRuleRepository keeps seasonal rate rules in memory.
type PricingRuleRepository struct {
	mu     sync.RWMutex
	items  map[pricing.RuleID]*pricing.Rule
	nextID pricing.RuleID
}

func NewPricingRuleRepository() *PricingRuleRepository {
	return &PricingRuleRepository{items: make(map[pricing.RuleID]*pricing.Rule)}
}

var _ pricing.RuleRepository = (*PricingRuleRepository)(nil)

func (r *PricingRuleRepository) ByID(ctx context.Context, id pricing.RuleID) (*pricing.Rule, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rule, ok := r.items[id]
	if !ok {
		return nil, pricing.ErrRuleNotFound
	}
	out := *rule
	return &out, nil
}

// ListByRoom returns rules in creation order. Ids grow monotonically so
// ordering by id is creation order.
func (r *PricingRuleRepository) ListByRoom(ctx context.Context, roomID room.ID) ([]*pricing.Rule, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*pricing.Rule
	for _, rule := range r.items {
		if rule.RoomID == roomID {
			copied := *rule
			out = append(out, &copied)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *PricingRuleRepository) Create(ctx context.Context, rule *pricing.Rule) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	rule.ID = r.nextID
	stored := *rule
	r.items[rule.ID] = &stored
	return nil
}

func (r *PricingRuleRepository) Save(ctx context.Context, rule *pricing.Rule) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[rule.ID]; !ok {
		return pricing.ErrRuleNotFound
	}
	stored := *rule
	r.items[rule.ID] = &stored
	return nil
}

func (r *PricingRuleRepository) Delete(ctx context.Context, id pricing.RuleID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[id]; !ok {
		return pricing.ErrRuleNotFound
	}
	delete(r.items, id)
	return nil
}
