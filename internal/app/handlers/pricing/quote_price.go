package pricing

import (
	"context"
	"time"

	"resort/internal/app/dto"
	"resort/internal/app/handlers/support"
	"resort/internal/app/queries"
	"resort/internal/app/uow"
	domainpricing "resort/internal/domain/pricing"
	"resort/internal/domain/room"
	"resort/internal/domain/shared/daterange"
)

const quotePriceKey = "pricing.quote"

type QuotePriceQuery struct {
	RoomID   int64     `validate:"gt=0"`
	CheckIn  time.Time `validate:"required"`
	CheckOut time.Time `validate:"required"`
}

func (q QuotePriceQuery) Key() string { return quotePriceKey }

// QuotePriceHandler prices a stay with the same rules a booking would use.
type QuotePriceHandler struct {
	UoWFactory uow.UoWFactory
}

func (h *QuotePriceHandler) Handle(ctx context.Context, q QuotePriceQuery) (dto.PriceQuote, error) {
	stay, err := daterange.New(q.CheckIn, q.CheckOut)
	if err != nil {
		return dto.PriceQuote{}, err
	}
	unit, execCtx, cleanup, err := support.BeginReadOnlyUnit(ctx, h.UoWFactory)
	if err != nil {
		return dto.PriceQuote{}, err
	}
	if cleanup != nil {
		defer cleanup()
	}
	r, err := support.ActiveRoom(execCtx, unit.Rooms(), room.ID(q.RoomID))
	if err != nil {
		return dto.PriceQuote{}, err
	}
	rules, err := unit.PricingRules().ListByRoom(execCtx, r.ID)
	if err != nil {
		return dto.PriceQuote{}, err
	}
	quote, err := domainpricing.Resolve(r, stay, rules)
	if err != nil {
		return dto.PriceQuote{}, err
	}
	return dto.MapQuote(quote), nil
}

var _ queries.Handler[QuotePriceQuery, dto.PriceQuote] = (*QuotePriceHandler)(nil)
