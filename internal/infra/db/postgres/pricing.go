package postgres

import (
	"context"

	"gorm.io/gorm"

	"resort/internal/domain/pricing"
	"resort/internal/domain/room"
)

type PricingRuleRepository struct {
	db       *gorm.DB
	currency string
}

func NewPricingRuleRepository(db *gorm.DB, currency string) *PricingRuleRepository {
	return &PricingRuleRepository{db: db, currency: currency}
}

var _ pricing.RuleRepository = (*PricingRuleRepository)(nil)

func (r *PricingRuleRepository) ByID(ctx context.Context, id pricing.RuleID) (*pricing.Rule, error) {
	var m pricingRuleModel
	if err := r.db.WithContext(ctx).First(&m, int64(id)).Error; err != nil {
		return nil, translate(err, pricing.ErrRuleNotFound, nil)
	}
	return ruleFromModel(m, r.currency)
}

// ListByRoom orders by id, which is creation order.
func (r *PricingRuleRepository) ListByRoom(ctx context.Context, roomID room.ID) ([]*pricing.Rule, error) {
	var rows []pricingRuleModel
	if err := r.db.WithContext(ctx).Where("room_id = ?", int64(roomID)).Order("id ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]*pricing.Rule, 0, len(rows))
	for _, m := range rows {
		rule, err := ruleFromModel(m, r.currency)
		if err != nil {
			return nil, err
		}
		out = append(out, rule)
	}
	return out, nil
}

func (r *PricingRuleRepository) Create(ctx context.Context, rule *pricing.Rule) error {
	m := ruleToModel(rule)
	m.ID = 0
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return translate(err, nil, nil)
	}
	rule.ID = pricing.RuleID(m.ID)
	return nil
}

func (r *PricingRuleRepository) Save(ctx context.Context, rule *pricing.Rule) error {
	m := ruleToModel(rule)
	res := r.db.WithContext(ctx).Model(&pricingRuleModel{ID: m.ID}).Select("*").Omit("id", "room_id", "created_at", "Room").Updates(&m)
	return affected(res, pricing.ErrRuleNotFound, nil)
}

func (r *PricingRuleRepository) Delete(ctx context.Context, id pricing.RuleID) error {
	res := r.db.WithContext(ctx).Delete(&pricingRuleModel{}, int64(id))
	return affected(res, pricing.ErrRuleNotFound, nil)
}
