package dto

import (
	"time"

	domaindining "resort/internal/domain/dining"
)

type DiningItem struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Description  string    `json:"description,omitempty"`
	MealType     string    `json:"meal_type"`
	Price        *string   `json:"price"`
	Currency     string    `json:"currency,omitempty"`
	IsVegetarian bool      `json:"is_vegetarian"`
	IsAvailable  bool      `json:"is_available"`
	DisplayOrder int       `json:"display_order"`
	CreatedAt    time.Time `json:"created_at"`
}

func MapDiningItem(it *domaindining.Item) DiningItem {
	if it == nil {
		return DiningItem{}
	}
	out := DiningItem{
		ID:           int64(it.ID),
		Name:         it.Name,
		Description:  it.Description,
		MealType:     string(it.MealType),
		IsVegetarian: it.IsVegetarian,
		IsAvailable:  it.IsAvailable,
		DisplayOrder: it.DisplayOrder,
		CreatedAt:    it.CreatedAt,
	}
	if it.Price != nil {
		price := formatMoney(*it.Price)
		out.Price = &price
		out.Currency = it.Price.Currency
	}
	return out
}

func MapDiningItems(in []*domaindining.Item) Collection[DiningItem] {
	return collect(in, MapDiningItem)
}
