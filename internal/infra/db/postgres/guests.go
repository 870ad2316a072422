package postgres

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"resort/internal/domain/guest"
)

type GuestRepository struct {
	db *gorm.DB
}

func NewGuestRepository(db *gorm.DB) *GuestRepository {
	return &GuestRepository{db: db}
}

var _ guest.Repository = (*GuestRepository)(nil)

func (r *GuestRepository) ByID(ctx context.Context, id guest.ID) (*guest.Guest, error) {
	var m guestModel
	if err := r.db.WithContext(ctx).First(&m, int64(id)).Error; err != nil {
		return nil, translate(err, guest.ErrNotFound, nil)
	}
	return guestFromModel(m), nil
}

func (r *GuestRepository) ByEmail(ctx context.Context, email string) (*guest.Guest, error) {
	var m guestModel
	err := r.db.WithContext(ctx).Where("email = ?", strings.ToLower(strings.TrimSpace(email))).First(&m).Error
	if err != nil {
		return nil, translate(err, guest.ErrNotFound, nil)
	}
	return guestFromModel(m), nil
}

func (r *GuestRepository) List(ctx context.Context) ([]*guest.Guest, error) {
	var rows []guestModel
	if err := r.db.WithContext(ctx).Order("created_at DESC").Order("id DESC").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]*guest.Guest, 0, len(rows))
	for _, m := range rows {
		out = append(out, guestFromModel(m))
	}
	return out, nil
}

func (r *GuestRepository) Create(ctx context.Context, g *guest.Guest) error {
	m := guestToModel(g)
	m.ID = 0
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return translate(err, nil, guest.ErrEmailAlreadyUsed)
	}
	g.ID = guest.ID(m.ID)
	return nil
}

func (r *GuestRepository) Save(ctx context.Context, g *guest.Guest) error {
	m := guestToModel(g)
	res := r.db.WithContext(ctx).Model(&guestModel{ID: m.ID}).Select("*").Omit("id", "created_at").Updates(&m)
	return affected(res, guest.ErrNotFound, guest.ErrEmailAlreadyUsed)
}

func (r *GuestRepository) Delete(ctx context.Context, id guest.ID) error {
	res := r.db.WithContext(ctx).Delete(&guestModel{}, int64(id))
	return affected(res, guest.ErrNotFound, nil)
}

func (r *GuestRepository) CountAdmins(ctx context.Context) (int, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&guestModel{}).Where("is_admin = ?", true).Count(&n).Error; err != nil {
		return 0, err
	}
	return int(n), nil
}
