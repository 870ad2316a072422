package room

import (
	"context"
	"errors"
	"strings"
	"time"

	"resort/internal/domain/shared/money"
)

var (
	ErrNotFound         = errors.New("room: not found")
	ErrNameRequired     = errors.New("room: name is required")
	ErrInvalidBasePrice = errors.New("room: base price must be positive")
	ErrInvalidOccupancy = errors.New("room: occupancy limits are invalid")
	ErrInvalidParty     = errors.New("room: party does not fit the room")
)

const (
	DefaultMaxAdults   = 2
	DefaultMaxChildren = 0
)

type ID int64

type Room struct {
	ID           ID
	Name         string
	Description  string
	BasePrice    money.Money
	MaxAdults    int
	MaxChildren  int
	Amenities    []string
	Photos       []string
	IsActive     bool
	DisplayOrder int
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type Repository interface {
	ByID(ctx context.Context, id ID) (*Room, error)
	List(ctx context.Context, activeOnly bool) ([]*Room, error)
	Create(ctx context.Context, room *Room) error
	Save(ctx context.Context, room *Room) error
	Delete(ctx context.Context, id ID) error
	// Lock loads the room and holds it for the rest of the unit of work so
	// booking writes for the same room are serialised.
	Lock(ctx context.Context, id ID) (*Room, error)
}

type CreateParams struct {
	Name         string
	Description  string
	BasePrice    money.Money
	MaxAdults    *int
	MaxChildren  *int
	Amenities    []string
	IsActive     *bool
	DisplayOrder int
	CreatedAt    time.Time
}

func New(params CreateParams) (*Room, error) {
	now := params.CreatedAt
	if now.IsZero() {
		now = time.Now()
	}
	now = now.UTC()
	r := &Room{
		Name:         strings.TrimSpace(params.Name),
		Description:  strings.TrimSpace(params.Description),
		BasePrice:    params.BasePrice,
		MaxAdults:    DefaultMaxAdults,
		MaxChildren:  DefaultMaxChildren,
		Amenities:    normalizeAmenities(params.Amenities),
		IsActive:     true,
		DisplayOrder: params.DisplayOrder,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if params.MaxAdults != nil {
		r.MaxAdults = *params.MaxAdults
	}
	if params.MaxChildren != nil {
		r.MaxChildren = *params.MaxChildren
	}
	if params.IsActive != nil {
		r.IsActive = *params.IsActive
	}
	if err := r.validate(); err != nil {
		return nil, err
	}
	return r, nil
}

// Patch lists the fields an admin may change. Nil fields are left untouched.
type Patch struct {
	Name         *string
	Description  *string
	BasePrice    *money.Money
	MaxAdults    *int
	MaxChildren  *int
	Amenities    *[]string
	IsActive     *bool
	DisplayOrder *int
}

func (r *Room) Apply(p Patch, now time.Time) error {
	next := *r
	if p.Name != nil {
		next.Name = strings.TrimSpace(*p.Name)
	}
	if p.Description != nil {
		next.Description = strings.TrimSpace(*p.Description)
	}
	if p.BasePrice != nil {
		next.BasePrice = *p.BasePrice
	}
	if p.MaxAdults != nil {
		next.MaxAdults = *p.MaxAdults
	}
	if p.MaxChildren != nil {
		next.MaxChildren = *p.MaxChildren
	}
	if p.Amenities != nil {
		next.Amenities = normalizeAmenities(*p.Amenities)
	}
	if p.IsActive != nil {
		next.IsActive = *p.IsActive
	}
	if p.DisplayOrder != nil {
		next.DisplayOrder = *p.DisplayOrder
	}
	if err := next.validate(); err != nil {
		return err
	}
	next.UpdatedAt = now.UTC()
	*r = next
	return nil
}

func (r *Room) AddPhoto(url string, now time.Time) {
	url = strings.TrimSpace(url)
	if url == "" {
		return
	}
	r.Photos = append(r.Photos, url)
	r.UpdatedAt = now.UTC()
}

// AcceptsParty reports whether the room can host the given party.
func (r *Room) AcceptsParty(adults, children int) error {
	if adults < 1 || children < 0 {
		return ErrInvalidParty
	}
	if adults > r.MaxAdults || children > r.MaxChildren {
		return ErrInvalidParty
	}
	return nil
}

func (r *Room) validate() error {
	if r.Name == "" {
		return ErrNameRequired
	}
	if !r.BasePrice.IsPositive() {
		return ErrInvalidBasePrice
	}
	if r.MaxAdults < 1 || r.MaxChildren < 0 {
		return ErrInvalidOccupancy
	}
	return nil
}

func normalizeAmenities(in []string) []string {
	if len(in) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, a := range in {
		a = strings.TrimSpace(a)
		if a == "" {
			continue
		}
		key := strings.ToLower(a)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, a)
	}
	return out
}
