package postgres

import (
	"context"

	"gorm.io/gorm"

	"resort/internal/domain/dining"
)

type DiningRepository struct {
	db       *gorm.DB
	currency string
}

func NewDiningRepository(db *gorm.DB, currency string) *DiningRepository {
	return &DiningRepository{db: db, currency: currency}
}

var _ dining.Repository = (*DiningRepository)(nil)

func (r *DiningRepository) ByID(ctx context.Context, id dining.ID) (*dining.Item, error) {
	var m diningItemModel
	if err := r.db.WithContext(ctx).First(&m, int64(id)).Error; err != nil {
		return nil, translate(err, dining.ErrNotFound, nil)
	}
	return diningFromModel(m, r.currency)
}

func (r *DiningRepository) List(ctx context.Context) ([]*dining.Item, error) {
	var rows []diningItemModel
	if err := r.db.WithContext(ctx).Order("display_order ASC").Order("id ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]*dining.Item, 0, len(rows))
	for _, m := range rows {
		it, err := diningFromModel(m, r.currency)
		if err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	return out, nil
}

func (r *DiningRepository) Create(ctx context.Context, it *dining.Item) error {
	m := diningToModel(it)
	m.ID = 0
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return translate(err, nil, nil)
	}
	it.ID = dining.ID(m.ID)
	return nil
}

func (r *DiningRepository) Save(ctx context.Context, it *dining.Item) error {
	m := diningToModel(it)
	res := r.db.WithContext(ctx).Model(&diningItemModel{ID: m.ID}).Select("*").Omit("id", "created_at").Updates(&m)
	return affected(res, dining.ErrNotFound, nil)
}

func (r *DiningRepository) Delete(ctx context.Context, id dining.ID) error {
	res := r.db.WithContext(ctx).Delete(&diningItemModel{}, int64(id))
	return affected(res, dining.ErrNotFound, nil)
}
