package pricing

import (
	"context"
	"errors"
	"strings"
	"time"

	"resort/internal/domain/room"
	"resort/internal/domain/shared/daterange"
	"resort/internal/domain/shared/money"
)

var (
	ErrRuleNotFound     = errors.New("pricing: rule not found")
	ErrInvalidRuleRange = errors.New("pricing: invalid pricing date range")
	ErrInvalidRulePrice = errors.New("pricing: rule price must be positive")
	ErrRoomRequired     = errors.New("pricing: room id is required")
)

type RuleID int64

// Rule overrides the nightly rate of a room for every date in
// [StartDate, EndDate]. Both ends are inclusive.
type Rule struct {
	ID        RuleID
	RoomID    room.ID
	Name      string
	StartDate time.Time
	EndDate   time.Time
	Price     money.Money
	CreatedAt time.Time
}

type RuleRepository interface {
	ByID(ctx context.Context, id RuleID) (*Rule, error)
	// ListByRoom returns the rules of a room in creation order. The resolver
	// relies on this order for its first-match policy.
	ListByRoom(ctx context.Context, roomID room.ID) ([]*Rule, error)
	Create(ctx context.Context, rule *Rule) error
	Save(ctx context.Context, rule *Rule) error
	Delete(ctx context.Context, id RuleID) error
}

type RuleParams struct {
	RoomID    room.ID
	Name      string
	StartDate time.Time
	EndDate   time.Time
	Price     money.Money
	CreatedAt time.Time
}

func NewRule(params RuleParams) (*Rule, error) {
	if params.RoomID == 0 {
		return nil, ErrRoomRequired
	}
	now := params.CreatedAt
	if now.IsZero() {
		now = time.Now()
	}
	r := &Rule{
		RoomID:    params.RoomID,
		Name:      strings.TrimSpace(params.Name),
		StartDate: daterange.Day(params.StartDate),
		EndDate:   daterange.Day(params.EndDate),
		Price:     params.Price,
		CreatedAt: now.UTC(),
	}
	if err := r.validate(); err != nil {
		return nil, err
	}
	return r, nil
}

// Covers reports whether the rule applies to the night starting on d.
func (r *Rule) Covers(d time.Time) bool {
	d = daterange.Day(d)
	return !d.Before(r.StartDate) && !d.After(r.EndDate)
}

type RulePatch struct {
	Name      *string
	StartDate *time.Time
	EndDate   *time.Time
	Price     *money.Money
}

func (r *Rule) Apply(p RulePatch) error {
	next := *r
	if p.Name != nil {
		next.Name = strings.TrimSpace(*p.Name)
	}
	if p.StartDate != nil {
		next.StartDate = daterange.Day(*p.StartDate)
	}
	if p.EndDate != nil {
		next.EndDate = daterange.Day(*p.EndDate)
	}
	if p.Price != nil {
		next.Price = *p.Price
	}
	if err := next.validate(); err != nil {
		return err
	}
	*r = next
	return nil
}

func (r *Rule) validate() error {
	if r.StartDate.IsZero() || r.EndDate.IsZero() || r.StartDate.After(r.EndDate) {
		return ErrInvalidRuleRange
	}
	if !r.Price.IsPositive() {
		return ErrInvalidRulePrice
	}
	return nil
}
