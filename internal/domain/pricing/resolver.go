package pricing

import (
	"errors"
	"time"

	"resort/internal/domain/room"
	"resort/internal/domain/shared/daterange"
	"resort/internal/domain/shared/money"
)

var (
	ErrRoomNotFound = errors.New("pricing: room not found")
)

// Night is the rate charged for a single night of a stay. Rule is nil when
// the room's base price applied.
type Night struct {
	Date  time.Time
	Price money.Money
	Rule  *RuleID
}

type Quote struct {
	RoomID   room.ID
	Stay     daterange.DateRange
	Nights   []Night
	Total    money.Money
	Currency string
}

// Resolve prices every night of the stay. For each night the first rule in
// the given order that covers it wins, otherwise the room's base price is
// charged. Rules for other rooms are skipped. Neither the room nor the rules
// are modified.
func Resolve(r *room.Room, stay daterange.DateRange, rules []*Rule) (Quote, error) {
	if r == nil {
		return Quote{}, ErrRoomNotFound
	}
	if err := stay.Validate(); err != nil {
		return Quote{}, err
	}
	currency := r.BasePrice.Currency
	total := money.Zero(currency)
	nights := make([]Night, 0, stay.Nights())
	for _, d := range stay.Dates() {
		night := Night{Date: d, Price: r.BasePrice}
		if rule := firstCovering(r.ID, d, rules); rule != nil {
			id := rule.ID
			night.Price = rule.Price
			night.Rule = &id
		}
		next, err := total.Add(night.Price)
		if err != nil {
			return Quote{}, err
		}
		total = next
		nights = append(nights, night)
	}
	return Quote{RoomID: r.ID, Stay: stay, Nights: nights, Total: total, Currency: currency}, nil
}

// TotalPrice is Resolve without the per-night breakdown.
func TotalPrice(r *room.Room, stay daterange.DateRange, rules []*Rule) (money.Money, error) {
	q, err := Resolve(r, stay, rules)
	if err != nil {
		return money.Money{}, err
	}
	return q.Total, nil
}

func firstCovering(roomID room.ID, d time.Time, rules []*Rule) *Rule {
	for _, rule := range rules {
		if rule == nil || rule.RoomID != roomID {
			continue
		}
		if rule.Covers(d) {
			return rule
		}
	}
	return nil
}
