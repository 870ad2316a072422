package dto

import (
	"time"

	domainroom "resort/internal/domain/room"
)

type Room struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Description  string    `json:"description,omitempty"`
	BasePrice    string    `json:"base_price"`
	Currency     string    `json:"currency"`
	MaxAdults    int       `json:"max_adults"`
	MaxChildren  int       `json:"max_children"`
	Amenities    []string  `json:"amenities"`
	Photos       []string  `json:"photos"`
	IsActive     bool      `json:"is_active"`
	DisplayOrder int       `json:"display_order"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func MapRoom(r *domainroom.Room) Room {
	if r == nil {
		return Room{}
	}
	return Room{
		ID:           int64(r.ID),
		Name:         r.Name,
		Description:  r.Description,
		BasePrice:    formatMoney(r.BasePrice),
		Currency:     r.BasePrice.Currency,
		MaxAdults:    r.MaxAdults,
		MaxChildren:  r.MaxChildren,
		Amenities:    nonNil(r.Amenities),
		Photos:       nonNil(r.Photos),
		IsActive:     r.IsActive,
		DisplayOrder: r.DisplayOrder,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}
}

func MapRooms(rooms []*domainroom.Room) Collection[Room] {
	return collect(rooms, MapRoom)
}

type PhotoUpload struct {
	RoomID int64  `json:"room_id"`
	URL    string `json:"url"`
}

func nonNil(in []string) []string {
	if in == nil {
		return []string{}
	}
	return append([]string(nil), in...)
}
