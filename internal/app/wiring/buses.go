package wiring

import (
	"log/slog"
	"time"

	"resort/internal/app/commands"
	"resort/internal/app/dto"
	analyticsapp "resort/internal/app/handlers/analytics"
	availabilityapp "resort/internal/app/handlers/availability"
	bookingapp "resort/internal/app/handlers/booking"
	paymentapp "resort/internal/app/handlers/payments"
	pricingapp "resort/internal/app/handlers/pricing"
	"resort/internal/app/middleware"
	"resort/internal/app/outbox"
	"resort/internal/app/queries"
	"resort/internal/app/uow"
)

// Deps are the ports the command and query handlers need.
type Deps struct {
	Units       uow.UoWFactory
	Outbox      outbox.Outbox
	Idempotency middleware.IdempotencyStore
	Currency    string
	Logger      *slog.Logger
	Now         func() time.Time
}

// Buses registers every handler and wraps the buses in middleware. Command
// middleware runs outermost first: validation, authorization, idempotency,
// outbox flush, transaction.
func Buses(d Deps) (commands.Bus, queries.Bus) {
	if d.Logger == nil {
		d.Logger = slog.Default()
	}
	enc := outbox.JSONEventEncoder{}

	commandBus := commands.NewInMemoryBus()
	commands.RegisterHandler[bookingapp.CreateBookingCommand, *dto.Booking](commandBus, &bookingapp.CreateBookingHandler{
		Outbox: d.Outbox, Encoder: enc, Logger: d.Logger, Now: d.Now,
	})
	commands.RegisterHandler[bookingapp.UpdateBookingCommand, *dto.Booking](commandBus, &bookingapp.UpdateBookingHandler{
		Outbox: d.Outbox, Encoder: enc, Logger: d.Logger, Now: d.Now,
	})
	commands.RegisterHandler[bookingapp.CancelBookingCommand, *dto.Booking](commandBus, &bookingapp.CancelBookingHandler{
		Outbox: d.Outbox, Encoder: enc, Logger: d.Logger, Now: d.Now,
	})
	commands.RegisterHandler[bookingapp.ExpireBookingCommand, *dto.Booking](commandBus, &bookingapp.ExpireBookingHandler{
		Outbox: d.Outbox, Encoder: enc, Logger: d.Logger, Now: d.Now,
	})
	commands.RegisterHandler[paymentapp.CreatePaymentCommand, *dto.Payment](commandBus, &paymentapp.CreatePaymentHandler{
		Currency: d.Currency, Outbox: d.Outbox, Encoder: enc, Logger: d.Logger, Now: d.Now,
	})
	commands.RegisterHandler[paymentapp.UpdatePaymentCommand, *dto.Payment](commandBus, &paymentapp.UpdatePaymentHandler{
		Outbox: d.Outbox, Encoder: enc, Logger: d.Logger, Now: d.Now,
	})

	queryBus := queries.NewInMemoryBus()
	queries.RegisterHandler[availabilityapp.CheckAvailabilityQuery, dto.Availability](queryBus, &availabilityapp.CheckAvailabilityHandler{UoWFactory: d.Units})
	queries.RegisterHandler[pricingapp.QuotePriceQuery, dto.PriceQuote](queryBus, &pricingapp.QuotePriceHandler{UoWFactory: d.Units})
	queries.RegisterHandler[bookingapp.GetBookingQuery, dto.Booking](queryBus, &bookingapp.GetBookingHandler{UoWFactory: d.Units})
	queries.RegisterHandler[bookingapp.ListBookingsQuery, dto.Collection[dto.Booking]](queryBus, &bookingapp.ListBookingsHandler{UoWFactory: d.Units})
	queries.RegisterHandler[analyticsapp.SummaryQuery, dto.AnalyticsSummary](queryBus, &analyticsapp.SummaryHandler{UoWFactory: d.Units, Currency: d.Currency})

	validator := middleware.NewStructValidator()
	policy := middleware.AdminPolicy{}
	cmdMiddleware := []middleware.CommandMiddleware{
		middleware.Validation(validator),
		middleware.Authorization(policy),
	}
	if d.Idempotency != nil {
		cmdMiddleware = append(cmdMiddleware, middleware.Idempotency(d.Idempotency, nil))
	}
	cmdMiddleware = append(cmdMiddleware,
		middleware.OutboxFlush(d.Outbox, d.Logger),
		middleware.Transaction(d.Units, nil, d.Logger),
	)

	return middleware.ChainCommands(commandBus, cmdMiddleware...),
		middleware.ChainQueries(queryBus, middleware.QueryValidation(validator), middleware.QueryAuthorization(policy))
}
