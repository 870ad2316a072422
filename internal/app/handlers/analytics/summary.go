package analytics

import (
	"context"

	"resort/internal/app/dto"
	"resort/internal/app/handlers/support"
	"resort/internal/app/queries"
	"resort/internal/app/uow"
	domainbooking "resort/internal/domain/booking"
)

const summaryKey = "analytics.summary"

type SummaryQuery struct{}

func (SummaryQuery) Key() string     { return summaryKey }
func (SummaryQuery) AdminOnly() bool { return true }

// SummaryHandler reports booking counts and the revenue collected so far.
// Revenue only counts payments in PAID status.
type SummaryHandler struct {
	UoWFactory uow.UoWFactory
	Currency   string
}

func (h *SummaryHandler) Handle(ctx context.Context, _ SummaryQuery) (dto.AnalyticsSummary, error) {
	unit, execCtx, cleanup, err := support.BeginReadOnlyUnit(ctx, h.UoWFactory)
	if err != nil {
		return dto.AnalyticsSummary{}, err
	}
	if cleanup != nil {
		defer cleanup()
	}
	bookings, err := unit.Bookings().List(execCtx, domainbooking.Filter{})
	if err != nil {
		return dto.AnalyticsSummary{}, err
	}
	revenue, err := unit.Payments().SumPaid(execCtx, h.Currency)
	if err != nil {
		return dto.AnalyticsSummary{}, err
	}
	out := dto.AnalyticsSummary{
		TotalBookings: len(bookings),
		TotalRevenue:  revenue.String(),
		Currency:      revenue.Currency,
	}
	for _, b := range bookings {
		switch b.Status {
		case domainbooking.StatusConfirmed:
			out.ConfirmedBookings++
		case domainbooking.StatusCancelled:
			out.CancelledBookings++
		case domainbooking.StatusCompleted:
			out.CompletedBookings++
		}
	}
	return out, nil
}

var _ queries.Handler[SummaryQuery, dto.AnalyticsSummary] = (*SummaryHandler)(nil)
