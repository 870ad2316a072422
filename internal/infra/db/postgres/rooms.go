package postgres

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"resort/internal/domain/room"
)

type RoomRepository struct {
	db       *gorm.DB
	currency string
}

func NewRoomRepository(db *gorm.DB, currency string) *RoomRepository {
	return &RoomRepository{db: db, currency: currency}
}

var _ room.Repository = (*RoomRepository)(nil)

func (r *RoomRepository) ByID(ctx context.Context, id room.ID) (*room.Room, error) {
	var m roomModel
	if err := r.db.WithContext(ctx).First(&m, int64(id)).Error; err != nil {
		return nil, translate(err, room.ErrNotFound, nil)
	}
	return roomFromModel(m, r.currency)
}

func (r *RoomRepository) List(ctx context.Context, activeOnly bool) ([]*room.Room, error) {
	q := r.db.WithContext(ctx).Order("display_order ASC").Order("id ASC")
	if activeOnly {
		q = q.Where("is_active = ?", true)
	}
	var rows []roomModel
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]*room.Room, 0, len(rows))
	for _, m := range rows {
		rm, err := roomFromModel(m, r.currency)
		if err != nil {
			return nil, err
		}
		out = append(out, rm)
	}
	return out, nil
}

func (r *RoomRepository) Create(ctx context.Context, rm *room.Room) error {
	m := roomToModel(rm)
	m.ID = 0
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return translate(err, nil, nil)
	}
	rm.ID = room.ID(m.ID)
	return nil
}

func (r *RoomRepository) Save(ctx context.Context, rm *room.Room) error {
	m := roomToModel(rm)
	res := r.db.WithContext(ctx).Model(&roomModel{ID: m.ID}).Select("*").Omit("id", "created_at").Updates(&m)
	return affected(res, room.ErrNotFound, nil)
}

func (r *RoomRepository) Delete(ctx context.Context, id room.ID) error {
	res := r.db.WithContext(ctx).Delete(&roomModel{}, int64(id))
	return affected(res, room.ErrNotFound, nil)
}

// Lock reads the room with SELECT ... FOR UPDATE. It only serialises when
// called inside a transaction.
func (r *RoomRepository) Lock(ctx context.Context, id room.ID) (*room.Room, error) {
	var m roomModel
	err := r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}).First(&m, int64(id)).Error
	if err != nil {
		return nil, translate(err, room.ErrNotFound, nil)
	}
	return roomFromModel(m, r.currency)
}
