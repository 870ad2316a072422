package ginserver

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	gin "github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"resort/internal/app/dto"
	appoutbox "resort/internal/app/outbox"
	authsvc "resort/internal/app/services/auth"
	diningsvc "resort/internal/app/services/dining"
	"resort/internal/app/services/guests"
	paymentsvc "resort/internal/app/services/payments"
	"resort/internal/app/services/pricingrules"
	reviewsvc "resort/internal/app/services/reviews"
	roomsvc "resort/internal/app/services/rooms"
	"resort/internal/app/wiring"
	"resort/internal/domain/booking"
	"resort/internal/infra/config"
	"resort/internal/infra/obs"
	"resort/internal/infra/security"
	"resort/internal/infra/storage/memory"
)

type harness struct {
	t      *testing.T
	router *gin.Engine
	events *memory.OutboxSink
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	gin.SetMode(gin.TestMode)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	rooms := memory.NewRoomRepository()
	bookings := memory.NewBookingRepository()
	rules := memory.NewPricingRuleRepository()
	payments := memory.NewPaymentRepository()
	guestRepo := memory.NewGuestRepository()
	events := memory.NewOutboxSink(nil)

	commandBus, queryBus := wiring.Buses(wiring.Deps{
		Units:       memory.NewFactory(rooms, bookings, rules, payments),
		Outbox:      appoutbox.NewBuffered(events),
		Idempotency: memory.NewIdempotencyStore(time.Hour),
		Currency:    "INR",
		Logger:      logger,
	})
	issuer, err := security.NewJWTIssuer("test-secret", "resort-test")
	require.NoError(t, err)
	authService := &authsvc.Service{
		Guests:     guestRepo,
		Sessions:   memory.NewSessionStore(),
		Passwords:  security.BcryptHasher{Cost: bcrypt.MinCost},
		Tokens:     issuer,
		SessionTTL: time.Hour,
		Logger:     logger,
	}

	handlers := Handlers{
		Auth:     AuthHandler{Service: authService, Logger: logger},
		Rooms:    RoomHandler{Service: &roomsvc.Service{Rooms: rooms, Logger: logger}, Queries: queryBus, Currency: "INR", Logger: logger},
		Bookings: BookingHandler{Commands: commandBus, Queries: queryBus, Currency: "INR", Logger: logger},
		Pricing:  PricingHandler{Service: &pricingrules.Service{Rooms: rooms, Rules: rules, Logger: logger}, Queries: queryBus, Currency: "INR", Logger: logger},
		Payments: PaymentHandler{Commands: commandBus, Service: &paymentsvc.Service{Payments: payments, Logger: logger}, Logger: logger},
		Guests:   GuestHandler{Service: &guests.Service{Guests: guestRepo, Passwords: authService, Logger: logger}, Logger: logger},
		Reviews:  ReviewHandler{Service: &reviewsvc.Service{Reviews: memory.NewReviewsRepository(), Bookings: bookings, Logger: logger}, Logger: logger},
		Dining:   DiningHandler{Service: &diningsvc.Service{Items: memory.NewDiningRepository(), Logger: logger}, Currency: "INR", Logger: logger},
		Admin:    AdminHandler{Queries: queryBus, Logger: logger},

		AuthMiddleware: AuthMiddleware{Service: authService, Logger: logger}.Handle,
	}
	cfg := config.Config{Env: "test", APIPrefix: "/api/v1", CORSAllowedOrigins: []string{"*"}}
	router := NewRouter(cfg, obs.Middleware{Logger: logger}, obs.HealthHandlers{}, handlers)
	return &harness{t: t, router: router, events: events}
}

func (h *harness) do(method, path string, body any, token string, headers ...string) *httptest.ResponseRecorder {
	h.t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(h.t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, "/api/v1"+path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	rec := httptest.NewRecorder()
	h.router.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func (h *harness) adminToken() string {
	h.t.Helper()
	rec := h.do(http.MethodPost, "/auth/register-admin", map[string]any{
		"full_name": "Front Desk",
		"email":     "desk@resort.test",
		"password":  "correct-horse",
	}, "")
	require.Equal(h.t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = h.do(http.MethodPost, "/auth/login", map[string]any{
		"email":    "desk@resort.test",
		"password": "correct-horse",
	}, "")
	require.Equal(h.t, http.StatusOK, rec.Code, rec.Body.String())
	return decode[dto.AccessToken](h.t, rec).AccessToken
}

func (h *harness) createRoom(token, name, price string, maxAdults int) int64 {
	h.t.Helper()
	rec := h.do(http.MethodPost, "/rooms", map[string]any{
		"name":       name,
		"base_price": price,
		"max_adults": maxAdults,
	}, token)
	require.Equal(h.t, http.StatusCreated, rec.Code, rec.Body.String())
	return decode[dto.Room](h.t, rec).ID
}

func (h *harness) book(roomID int64, checkIn, checkOut string, headers ...string) *httptest.ResponseRecorder {
	h.t.Helper()
	return h.do(http.MethodPost, "/bookings", map[string]any{
		"room_id":     roomID,
		"guest_name":  "Asha Rao",
		"guest_email": "asha@example.com",
		"check_in":    checkIn,
		"check_out":   checkOut,
		"adults":      2,
	}, "", headers...)
}

// future returns the date n days from today.
func future(n int) string {
	return time.Now().UTC().AddDate(0, 0, n).Format(time.DateOnly)
}

func TestHealthEndpoints(t *testing.T) {
	h := newHarness(t)
	for _, path := range []string{"/livez", "/readyz", "/health"} {
		rec := httptest.NewRecorder()
		h.router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusOK, rec.Code, path)
	}
}

func TestAdminRoutesRequireAdmin(t *testing.T) {
	h := newHarness(t)

	rec := h.do(http.MethodPost, "/rooms", map[string]any{"name": "Suite", "base_price": "100"}, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = h.do(http.MethodGet, "/bookings", nil, "not-a-token")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	token := h.adminToken()
	rec = h.do(http.MethodGet, "/auth/me", nil, token)
	require.Equal(t, http.StatusOK, rec.Code)
	me := decode[dto.Guest](t, rec)
	assert.True(t, me.IsAdmin)

	// A second admin needs an admin caller once one exists.
	rec = h.do(http.MethodPost, "/auth/register-admin", map[string]any{
		"full_name": "Intruder",
		"email":     "x@resort.test",
		"password":  "long-enough",
	}, "")
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = h.do(http.MethodPost, "/auth/logout", nil, token)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	rec = h.do(http.MethodGet, "/auth/me", nil, token)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	h := newHarness(t)
	h.adminToken()
	rec := h.do(http.MethodPost, "/auth/login", map[string]any{"email": "desk@resort.test", "password": "wrong-password"}, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestBookingLifecycle(t *testing.T) {
	h := newHarness(t)
	token := h.adminToken()
	roomID := h.createRoom(token, "Garden Cottage", "100.00", 2)

	rec := h.book(roomID, future(10), future(13))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decode[dto.Booking](t, rec)
	assert.Equal(t, string(booking.StatusConfirmed), created.Status)
	assert.Equal(t, 3, created.Nights)
	assert.Equal(t, "300.00", created.TotalAmount)
	assert.Equal(t, "INR", created.Currency)

	events := h.events.Records()
	require.Len(t, events, 1)
	assert.Equal(t, booking.EventConfirmed, events[0].Name)

	rec = h.do(http.MethodGet, fmt.Sprintf("/bookings/%d", created.ID), nil, token)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = h.do(http.MethodGet, "/bookings?status=confirmed", nil, token)
	require.Equal(t, http.StatusOK, rec.Code)
	list := decode[dto.Collection[dto.Booking]](t, rec)
	assert.Equal(t, 1, list.Total)

	rec = h.do(http.MethodDelete, fmt.Sprintf("/bookings/%d", created.ID), nil, token)
	require.Equal(t, http.StatusNoContent, rec.Code, rec.Body.String())

	rec = h.do(http.MethodGet, fmt.Sprintf("/bookings/%d", created.ID), nil, token)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, string(booking.StatusCancelled), decode[dto.Booking](t, rec).Status)

	// The cancelled stay frees the dates.
	rec = h.book(roomID, future(10), future(13))
	assert.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
}

func TestBookingConflicts(t *testing.T) {
	h := newHarness(t)
	token := h.adminToken()
	roomID := h.createRoom(token, "Valley Suite", "250", 3)

	require.Equal(t, http.StatusCreated, h.book(roomID, future(20), future(25)).Code)

	rec := h.book(roomID, future(22), future(27))
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), "Room not available")

	// Back-to-back stays share a turnover day and do not overlap.
	assert.Equal(t, http.StatusCreated, h.book(roomID, future(25), future(27)).Code)
	assert.Equal(t, http.StatusCreated, h.book(roomID, future(18), future(20)).Code)

	rec = h.do(http.MethodGet, fmt.Sprintf("/rooms/%d/availability?check_in=%s&check_out=%s", roomID, future(19), future(21)), nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	avail := decode[dto.Availability](t, rec)
	assert.False(t, avail.Available)
	assert.Len(t, avail.Conflicts, 2)
}

func TestBookingValidation(t *testing.T) {
	h := newHarness(t)
	token := h.adminToken()
	roomID := h.createRoom(token, "Treehouse", "80", 2)

	cases := map[string]*httptest.ResponseRecorder{
		"reversed dates": h.book(roomID, future(5), future(3)),
		"same day":       h.book(roomID, future(5), future(5)),
		"past stay":      h.book(roomID, future(-3), future(2)),
		"bad date":       h.book(roomID, "05/01/2030", future(2)),
	}
	for name, rec := range cases {
		assert.Equal(t, http.StatusBadRequest, rec.Code, name+": "+rec.Body.String())
	}

	rec := h.book(999, future(5), future(7))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = h.do(http.MethodPost, "/bookings", map[string]any{
		"room_id":     roomID,
		"guest_name":  "Big Party",
		"guest_email": "party@example.com",
		"check_in":    future(5),
		"check_out":   future(6),
		"adults":      5,
	}, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestConcurrentBookingsForSameDates(t *testing.T) {
	h := newHarness(t)
	token := h.adminToken()
	roomID := h.createRoom(token, "Family Villa", "400", 4)

	const attempts = 8
	codes := make([]int, attempts)
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			codes[i] = h.book(roomID, future(40), future(42)).Code
		}(i)
	}
	wg.Wait()

	created := 0
	for _, code := range codes {
		switch code {
		case http.StatusCreated:
			created++
		default:
			assert.Equal(t, http.StatusConflict, code)
		}
	}
	assert.Equal(t, 1, created)
}

func TestIdempotentBookingReplay(t *testing.T) {
	h := newHarness(t)
	token := h.adminToken()
	roomID := h.createRoom(token, "Garden Cottage", "100", 2)

	first := h.book(roomID, future(10), future(12), idempotencyHeader, "key-1")
	require.Equal(t, http.StatusCreated, first.Code, first.Body.String())
	again := h.book(roomID, future(10), future(12), idempotencyHeader, "key-1")
	require.Equal(t, http.StatusCreated, again.Code, again.Body.String())
	assert.Equal(t, decode[dto.Booking](t, first).ID, decode[dto.Booking](t, again).ID)
	assert.Len(t, h.events.Records(), 1)

	reused := h.book(roomID, future(30), future(32), idempotencyHeader, "key-1")
	assert.Equal(t, http.StatusConflict, reused.Code)
}

func TestPricingRulesDriveQuotesAndTotals(t *testing.T) {
	h := newHarness(t)
	token := h.adminToken()
	roomID := h.createRoom(token, "Valley Suite", "100", 2)

	rec := h.do(http.MethodPost, "/pricing", map[string]any{
		"room_id":    roomID,
		"name":       "Festival",
		"start_date": future(11),
		"end_date":   future(11),
		"price":      "180.50",
	}, token)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = h.do(http.MethodGet, fmt.Sprintf("/pricing/room/%d/price?check_in=%s&check_out=%s", roomID, future(10), future(13)), nil, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	quote := decode[dto.PriceQuote](t, rec)
	assert.Equal(t, 3, quote.Nights)
	assert.Equal(t, "380.50", quote.TotalPrice)
	require.Len(t, quote.Breakdown, 3)
	assert.NotNil(t, quote.Breakdown[1].RuleID)
	assert.Nil(t, quote.Breakdown[0].RuleID)

	rec = h.book(roomID, future(10), future(13))
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "380.50", decode[dto.Booking](t, rec).TotalAmount)

	rec = h.do(http.MethodGet, fmt.Sprintf("/pricing/room/%d", roomID), nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, decode[dto.Collection[dto.PricingRule]](t, rec).Total)

	rec = h.do(http.MethodPost, "/pricing", map[string]any{
		"room_id":    roomID,
		"start_date": future(12),
		"end_date":   future(11),
		"price":      "10",
	}, token)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPaymentsAndAnalytics(t *testing.T) {
	h := newHarness(t)
	token := h.adminToken()
	roomID := h.createRoom(token, "Garden Cottage", "100", 2)
	rec := h.book(roomID, future(3), future(5))
	require.Equal(t, http.StatusCreated, rec.Code)
	b := decode[dto.Booking](t, rec)

	rec = h.do(http.MethodPost, "/payments", map[string]any{
		"booking_id": b.ID,
		"amount":     "200.00",
		"method":     "upi",
	}, "")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	p := decode[dto.Payment](t, rec)

	rec = h.do(http.MethodPut, fmt.Sprintf("/payments/%d", p.ID), map[string]any{"status": "PAID"}, token)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = h.do(http.MethodGet, "/admin/analytics", nil, token)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.True(t, strings.Contains(rec.Body.String(), "200.00"), rec.Body.String())

	rec = h.do(http.MethodPost, "/payments", map[string]any{"booking_id": 404, "amount": "1", "method": "card"}, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestInactiveRoomsAreHiddenFromGuests(t *testing.T) {
	h := newHarness(t)
	token := h.adminToken()
	roomID := h.createRoom(token, "Closed Wing", "90", 2)

	rec := h.do(http.MethodPut, fmt.Sprintf("/rooms/%d", roomID), map[string]any{"is_active": false}, token)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = h.do(http.MethodGet, fmt.Sprintf("/rooms/%d", roomID), nil, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	rec = h.do(http.MethodGet, "/rooms", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 0, decode[dto.Collection[dto.Room]](t, rec).Total)

	rec = h.do(http.MethodGet, "/rooms?include_inactive=true", nil, token)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, decode[dto.Collection[dto.Room]](t, rec).Total)

	assert.Equal(t, http.StatusNotFound, h.book(roomID, future(3), future(4)).Code)
}

func TestPhotoUploadWithoutStorage(t *testing.T) {
	h := newHarness(t)
	token := h.adminToken()
	roomID := h.createRoom(token, "Garden Cottage", "100", 2)

	body := &bytes.Buffer{}
	body.WriteString("--b\r\nContent-Disposition: form-data; name=\"file\"; filename=\"a.png\"\r\nContent-Type: image/png\r\n\r\n\x89PNG\r\n\x1a\n\r\n--b--\r\n")
	req := httptest.NewRequest(http.MethodPost, fmt.Sprintf("/api/v1/rooms/%d/photos", roomID), body)
	req.Header.Set("Content-Type", "multipart/form-data; boundary=b")
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	h.router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code, rec.Body.String())
}

func TestAmountsBeyondStorageAreRejected(t *testing.T) {
	h := newHarness(t)
	token := h.adminToken()

	for _, price := range []string{"1e20", "92233720368547758.08", "100000000"} {
		rec := h.do(http.MethodPost, "/rooms", map[string]any{"name": "Palace", "base_price": price}, token)
		assert.Equal(t, http.StatusBadRequest, rec.Code, price+": "+rec.Body.String())
	}

	roomID := h.createRoom(token, "Palace", "99999999.99", 2)
	rec := h.do(http.MethodGet, fmt.Sprintf("/pricing/room/%d/price?check_in=%s&check_out=%s", roomID, future(10), future(13)), nil, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "299999999.97", decode[dto.PriceQuote](t, rec).TotalPrice)

	// The quote is exact but no booking column can hold it.
	rec = h.book(roomID, future(10), future(13))
	assert.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
}

func TestStaysLongerThanAYearAreRejected(t *testing.T) {
	h := newHarness(t)
	token := h.adminToken()
	roomID := h.createRoom(token, "Garden Cottage", "100", 2)

	rec := h.do(http.MethodGet, fmt.Sprintf("/pricing/room/%d/price?check_in=%s&check_out=%s", roomID, future(1), "2400-01-01"), nil, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
	rec = h.do(http.MethodGet, fmt.Sprintf("/rooms/%d/availability?check_in=%s&check_out=%s", roomID, future(1), future(400)), nil, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
	rec = h.book(roomID, future(1), future(400))
	assert.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
}

func TestOverlongPasswordIsAClientError(t *testing.T) {
	h := newHarness(t)
	rec := h.do(http.MethodPost, "/auth/register-admin", map[string]any{
		"full_name": "Front Desk",
		"email":     "desk@resort.test",
		"password":  strings.Repeat("a", 80),
	}, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), "72 bytes")
}
