package ginserver

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	gin "github.com/gin-gonic/gin"

	bookingapp "resort/internal/app/handlers/booking"
	"resort/internal/app/middleware"
	"resort/internal/app/services/auth"
	"resort/internal/app/services/rooms"
	"resort/internal/domain/availability"
	"resort/internal/domain/booking"
	"resort/internal/domain/dining"
	"resort/internal/domain/guest"
	"resort/internal/domain/payment"
	"resort/internal/domain/pricing"
	"resort/internal/domain/reviews"
	"resort/internal/domain/room"
	"resort/internal/domain/shared/daterange"
	"resort/internal/domain/shared/money"
	"resort/internal/infra/db/postgres"
)

type errorRule struct {
	targets []error
	status  int
	message string
}

var errorRules = []errorRule{
	{[]error{room.ErrNotFound, pricing.ErrRoomNotFound}, http.StatusNotFound, "Room not found"},
	{[]error{booking.ErrNotFound}, http.StatusNotFound, "Booking not found"},
	{[]error{pricing.ErrRuleNotFound}, http.StatusNotFound, "Pricing rule not found"},
	{[]error{payment.ErrNotFound}, http.StatusNotFound, "Payment not found"},
	{[]error{reviews.ErrNotFound}, http.StatusNotFound, "Review not found"},
	{[]error{dining.ErrNotFound}, http.StatusNotFound, "Dining item not found"},
	{[]error{guest.ErrNotFound}, http.StatusNotFound, "Guest not found"},

	{[]error{availability.ErrUnavailable}, http.StatusConflict, "Room not available for selected dates"},
	{[]error{middleware.ErrIdempotencyKeyReused}, http.StatusConflict, ""},
	{[]error{postgres.ErrInUse}, http.StatusConflict, "record is still referenced"},

	{[]error{middleware.ErrUnauthenticated, auth.ErrInvalidToken}, http.StatusUnauthorized, "auth required"},
	{[]error{auth.ErrInvalidCredentials}, http.StatusUnauthorized, "invalid credentials"},
	{[]error{middleware.ErrForbidden, auth.ErrAdminRequired}, http.StatusForbidden, "insufficient permissions"},

	{[]error{rooms.ErrUploaderUnavailable}, http.StatusServiceUnavailable, ""},
	{[]error{rooms.ErrPhotoTooLarge}, http.StatusRequestEntityTooLarge, ""},

	{[]error{
		middleware.ErrValidation,
		daterange.ErrInvalidRange, daterange.ErrStayTooLong,
		bookingapp.ErrStayInPast,
		money.ErrInvalidAmount, money.ErrInvalidCurrency, money.ErrCurrencyMismatch,
		room.ErrNameRequired, room.ErrInvalidBasePrice, room.ErrInvalidOccupancy, room.ErrInvalidParty,
		booking.ErrGuestNameRequired, booking.ErrInvalidEmail, booking.ErrInvalidGuests, booking.ErrInvalidStatus, booking.ErrInvalidTotal, booking.ErrTotalOutOfRange,
		pricing.ErrInvalidRuleRange, pricing.ErrInvalidRulePrice, pricing.ErrRoomRequired,
		payment.ErrInvalidAmount, payment.ErrMethodRequired, payment.ErrInvalidStatus, payment.ErrBookingRequired,
		reviews.ErrInvalidRating, reviews.ErrAlreadyReviewed, reviews.ErrGuestNameRequired, reviews.ErrBookingRequired,
		dining.ErrNameRequired, dining.ErrInvalidMealType, dining.ErrInvalidItemPrice,
		guest.ErrEmailRequired, guest.ErrInvalidEmail, guest.ErrNameRequired, guest.ErrEmailAlreadyUsed,
		auth.ErrPasswordTooShort, auth.ErrPasswordTooLong,
		rooms.ErrUnsupportedImage,
		errInvalidID, errDateRequired, errInvalidDate,
	}, http.StatusBadRequest, ""},
}

// statusFor returns the HTTP status and client message for err. An empty
// rule message means the error text without its package prefix.
func statusFor(err error) (int, string) {
	for _, rule := range errorRules {
		for _, target := range rule.targets {
			if errors.Is(err, target) {
				msg := rule.message
				if msg == "" {
					msg = publicMessage(err)
				}
				return rule.status, msg
			}
		}
	}
	return http.StatusInternalServerError, "internal error"
}

func respondWithError(c *gin.Context, logger *slog.Logger, op string, err error) {
	status, msg := statusFor(err)
	if status >= http.StatusInternalServerError {
		if logger == nil {
			logger = slog.Default()
		}
		logger.Error(op+" failed", "error", err, "path", c.FullPath())
		_ = c.Error(err)
	}
	c.JSON(status, gin.H{"error": msg})
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": msg})
}

// publicMessage strips a leading "pkg: " prefix such as "pricing: ".
func publicMessage(err error) string {
	msg := err.Error()
	head, rest, found := strings.Cut(msg, ": ")
	if !found || head == "" || strings.ContainsAny(head, " \t") || strings.ToLower(head) != head {
		return msg
	}
	return rest
}
