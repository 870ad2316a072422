package ginserver

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	gin "github.com/gin-gonic/gin"

	"resort/internal/app/commands"
	"resort/internal/app/dto"
	bookingapp "resort/internal/app/handlers/booking"
	"resort/internal/app/queries"
	domainbooking "resort/internal/domain/booking"
)

const idempotencyHeader = "Idempotency-Key"

type BookingHandler struct {
	Commands commands.Bus
	Queries  queries.Bus
	Currency string
	Logger   *slog.Logger
}

type createBookingRequest struct {
	RoomID          int64  `json:"room_id"`
	GuestName       string `json:"guest_name"`
	GuestEmail      string `json:"guest_email"`
	GuestPhone      string `json:"guest_phone"`
	CheckIn         string `json:"check_in"`
	CheckOut        string `json:"check_out"`
	Adults          *int   `json:"adults"`
	Children        int    `json:"children"`
	SpecialRequests string `json:"special_requests"`
}

type updateBookingRequest struct {
	GuestName       *string      `json:"guest_name"`
	GuestEmail      *string      `json:"guest_email"`
	GuestPhone      *string      `json:"guest_phone"`
	CheckIn         *string      `json:"check_in"`
	CheckOut        *string      `json:"check_out"`
	Adults          *int         `json:"adults"`
	Children        *int         `json:"children"`
	TotalAmount     *json.Number `json:"total_amount"`
	Status          *string      `json:"status"`
	SpecialRequests *string      `json:"special_requests"`
}

// Create books a room. The total is always computed server-side.
func (h BookingHandler) Create(c *gin.Context) {
	var req createBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request")
		return
	}
	checkIn, checkOut, err := parseStay(req.CheckIn, req.CheckOut)
	if err != nil {
		respondWithError(c, h.Logger, "create booking", err)
		return
	}
	adults := 1
	if req.Adults != nil {
		adults = *req.Adults
	}
	cmd := bookingapp.CreateBookingCommand{
		RoomID:          req.RoomID,
		GuestName:       req.GuestName,
		GuestEmail:      req.GuestEmail,
		GuestPhone:      req.GuestPhone,
		CheckIn:         checkIn,
		CheckOut:        checkOut,
		Adults:          adults,
		Children:        req.Children,
		SpecialRequests: req.SpecialRequests,
		IdempotencyKeyV: strings.TrimSpace(c.GetHeader(idempotencyHeader)),
	}
	result, err := commands.Dispatch[bookingapp.CreateBookingCommand, *dto.Booking](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		respondWithError(c, h.Logger, "create booking", err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

func (h BookingHandler) List(c *gin.Context) {
	query := bookingapp.ListBookingsQuery{Status: strings.ToUpper(strings.TrimSpace(c.Query("status")))}
	if raw := c.Query("room_id"); raw != "" {
		roomID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || roomID <= 0 {
			badRequest(c, "invalid room_id")
			return
		}
		query.RoomID = roomID
	}
	result, err := queries.Ask[bookingapp.ListBookingsQuery, dto.Collection[dto.Booking]](c.Request.Context(), h.Queries, query)
	if err != nil {
		respondWithError(c, h.Logger, "list bookings", err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h BookingHandler) Get(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		badRequest(c, err.Error())
		return
	}
	result, err := queries.Ask[bookingapp.GetBookingQuery, dto.Booking](c.Request.Context(), h.Queries, bookingapp.GetBookingQuery{BookingID: id})
	if err != nil {
		respondWithError(c, h.Logger, "get booking", err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h BookingHandler) Update(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		badRequest(c, err.Error())
		return
	}
	var req updateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request")
		return
	}
	patch, err := h.bookingPatch(req)
	if err != nil {
		respondWithError(c, h.Logger, "update booking", err)
		return
	}
	result, err := commands.Dispatch[bookingapp.UpdateBookingCommand, *dto.Booking](c.Request.Context(), h.Commands, bookingapp.UpdateBookingCommand{
		BookingID: id,
		Patch:     patch,
	})
	if err != nil {
		respondWithError(c, h.Logger, "update booking", err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// Cancel backs DELETE /bookings/:id. Bookings are never removed, only
// cancelled.
func (h BookingHandler) Cancel(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		badRequest(c, err.Error())
		return
	}
	_, err = commands.Dispatch[bookingapp.CancelBookingCommand, *dto.Booking](c.Request.Context(), h.Commands, bookingapp.CancelBookingCommand{
		BookingID: id,
		Reason:    c.Query("reason"),
	})
	if err != nil {
		respondWithError(c, h.Logger, "cancel booking", err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h BookingHandler) bookingPatch(req updateBookingRequest) (domainbooking.Patch, error) {
	patch := domainbooking.Patch{
		GuestName:       req.GuestName,
		GuestEmail:      req.GuestEmail,
		GuestPhone:      req.GuestPhone,
		Adults:          req.Adults,
		Children:        req.Children,
		SpecialRequests: req.SpecialRequests,
	}
	var err error
	if patch.CheckIn, err = parseDayPtr(req.CheckIn); err != nil {
		return patch, err
	}
	if patch.CheckOut, err = parseDayPtr(req.CheckOut); err != nil {
		return patch, err
	}
	if patch.TotalAmount, err = parseAmountPtr(req.TotalAmount, h.Currency); err != nil {
		return patch, err
	}
	if req.Status != nil {
		status, err := domainbooking.ParseStatus(*req.Status)
		if err != nil {
			return patch, err
		}
		patch.Status = &status
	}
	return patch, nil
}

var _ BookingHTTP = BookingHandler{}
