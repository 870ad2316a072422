package dining

import (
	"context"
	"errors"
	"strings"
	"time"

	"resort/internal/domain/shared/money"
)

var (
	ErrNotFound         = errors.New("dining: item not found")
	ErrNameRequired     = errors.New("dining: name is required")
	ErrInvalidMealType  = errors.New("dining: invalid meal type")
	ErrInvalidItemPrice = errors.New("dining: price must not be negative")
)

type ID int64

type MealType string

const (
	MealBreakfast MealType = "BREAKFAST"
	MealLunch     MealType = "LUNCH"
	MealDinner    MealType = "DINNER"
	MealPlan      MealType = "PLAN"
)

func ParseMealType(raw string) (MealType, error) {
	switch m := MealType(strings.ToUpper(strings.TrimSpace(raw))); m {
	case MealBreakfast, MealLunch, MealDinner, MealPlan:
		return m, nil
	default:
		return "", ErrInvalidMealType
	}
}

// Item is a menu entry or a meal plan. Price is optional; plans are often
// quoted on request.
type Item struct {
	ID           ID
	Name         string
	Description  string
	MealType     MealType
	Price        *money.Money
	IsVegetarian bool
	IsAvailable  bool
	DisplayOrder int
	CreatedAt    time.Time
}

type Repository interface {
	ByID(ctx context.Context, id ID) (*Item, error)
	// List returns items by display order.
	List(ctx context.Context) ([]*Item, error)
	Create(ctx context.Context, item *Item) error
	Save(ctx context.Context, item *Item) error
	Delete(ctx context.Context, id ID) error
}

type CreateParams struct {
	Name         string
	Description  string
	MealType     string
	Price        *money.Money
	IsVegetarian bool
	IsAvailable  *bool
	DisplayOrder int
	CreatedAt    time.Time
}

func NewItem(params CreateParams) (*Item, error) {
	meal, err := ParseMealType(params.MealType)
	if err != nil {
		return nil, err
	}
	now := params.CreatedAt
	if now.IsZero() {
		now = time.Now()
	}
	item := &Item{
		Name:         strings.TrimSpace(params.Name),
		Description:  strings.TrimSpace(params.Description),
		MealType:     meal,
		Price:        params.Price,
		IsVegetarian: params.IsVegetarian,
		IsAvailable:  true,
		DisplayOrder: params.DisplayOrder,
		CreatedAt:    now.UTC(),
	}
	if params.IsAvailable != nil {
		item.IsAvailable = *params.IsAvailable
	}
	if err := item.validate(); err != nil {
		return nil, err
	}
	return item, nil
}

type Patch struct {
	Name         *string
	Description  *string
	MealType     *string
	Price        *money.Money
	ClearPrice   bool
	IsVegetarian *bool
	IsAvailable  *bool
	DisplayOrder *int
}

func (it *Item) Apply(p Patch) error {
	next := *it
	if p.Name != nil {
		next.Name = strings.TrimSpace(*p.Name)
	}
	if p.Description != nil {
		next.Description = strings.TrimSpace(*p.Description)
	}
	if p.MealType != nil {
		meal, err := ParseMealType(*p.MealType)
		if err != nil {
			return err
		}
		next.MealType = meal
	}
	if p.ClearPrice {
		next.Price = nil
	} else if p.Price != nil {
		price := *p.Price
		next.Price = &price
	}
	if p.IsVegetarian != nil {
		next.IsVegetarian = *p.IsVegetarian
	}
	if p.IsAvailable != nil {
		next.IsAvailable = *p.IsAvailable
	}
	if p.DisplayOrder != nil {
		next.DisplayOrder = *p.DisplayOrder
	}
	if err := next.validate(); err != nil {
		return err
	}
	*it = next
	return nil
}

func (it *Item) validate() error {
	if it.Name == "" {
		return ErrNameRequired
	}
	if it.Price != nil && it.Price.Amount < 0 {
		return ErrInvalidItemPrice
	}
	return nil
}
