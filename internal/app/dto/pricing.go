package dto

import (
	"time"

	domainpricing "resort/internal/domain/pricing"
)

type PricingRule struct {
	ID        int64     `json:"id"`
	RoomID    int64     `json:"room_id"`
	Name      string    `json:"name,omitempty"`
	StartDate string    `json:"start_date"`
	EndDate   string    `json:"end_date"`
	Price     string    `json:"price"`
	Currency  string    `json:"currency"`
	CreatedAt time.Time `json:"created_at"`
}

func MapPricingRule(r *domainpricing.Rule) PricingRule {
	if r == nil {
		return PricingRule{}
	}
	return PricingRule{
		ID:        int64(r.ID),
		RoomID:    int64(r.RoomID),
		Name:      r.Name,
		StartDate: formatDate(r.StartDate),
		EndDate:   formatDate(r.EndDate),
		Price:     formatMoney(r.Price),
		Currency:  r.Price.Currency,
		CreatedAt: r.CreatedAt,
	}
}

func MapPricingRules(in []*domainpricing.Rule) Collection[PricingRule] {
	return collect(in, MapPricingRule)
}

type NightlyRate struct {
	Date   string `json:"date"`
	Price  string `json:"price"`
	RuleID *int64 `json:"rule_id"`
}

type PriceQuote struct {
	RoomID     int64         `json:"room_id"`
	CheckIn    string        `json:"check_in"`
	CheckOut   string        `json:"check_out"`
	Nights     int           `json:"nights"`
	TotalPrice string        `json:"total_price"`
	Currency   string        `json:"currency"`
	Breakdown  []NightlyRate `json:"breakdown"`
}

func MapQuote(q domainpricing.Quote) PriceQuote {
	out := PriceQuote{
		RoomID:     int64(q.RoomID),
		CheckIn:    formatDate(q.Stay.CheckIn),
		CheckOut:   formatDate(q.Stay.CheckOut),
		Nights:     len(q.Nights),
		TotalPrice: formatMoney(q.Total),
		Currency:   q.Currency,
		Breakdown:  make([]NightlyRate, 0, len(q.Nights)),
	}
	for _, n := range q.Nights {
		rate := NightlyRate{Date: formatDate(n.Date), Price: formatMoney(n.Price)}
		if n.Rule != nil {
			id := int64(*n.Rule)
			rate.RuleID = &id
		}
		out.Breakdown = append(out.Breakdown, rate)
	}
	return out
}
