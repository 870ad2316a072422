package ginserver

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	gin "github.com/gin-gonic/gin"

	"resort/internal/domain/shared/daterange"
	"resort/internal/domain/shared/money"
)

var (
	errInvalidID    = errors.New("invalid id")
	errDateRequired = errors.New("date is required")
	errInvalidDate  = errors.New("invalid date")
)

func pathID(c *gin.Context, name string) (int64, error) {
	raw := strings.TrimSpace(c.Param(name))
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, errInvalidID
	}
	return id, nil
}

// parseDay accepts YYYY-MM-DD or an RFC3339 timestamp and truncates to the
// UTC day.
func parseDay(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, errDateRequired
	}
	if t, err := time.Parse(time.DateOnly, raw); err == nil {
		return daterange.Day(t), nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w %q: use YYYY-MM-DD", errInvalidDate, raw)
	}
	return daterange.Day(t), nil
}

func parseDayPtr(raw *string) (*time.Time, error) {
	if raw == nil {
		return nil, nil
	}
	t, err := parseDay(*raw)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// stayQuery reads check_in and check_out query parameters.
func stayQuery(c *gin.Context) (time.Time, time.Time, error) {
	return parseStay(c.Query("check_in"), c.Query("check_out"))
}

// parseStay parses both ends of a stay and rejects stays over
// daterange.MaxNights. Inverted ranges are left to the handlers.
func parseStay(rawIn, rawOut string) (time.Time, time.Time, error) {
	checkIn, err := parseDay(rawIn)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("check_in: %w", err)
	}
	checkOut, err := parseDay(rawOut)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("check_out: %w", err)
	}
	if err := (daterange.DateRange{CheckIn: checkIn, CheckOut: checkOut}).Bounded(); err != nil {
		return time.Time{}, time.Time{}, err
	}
	return checkIn, checkOut, nil
}

// parseAmount accepts JSON numbers and numeric strings.
func parseAmount(raw json.Number, currency string) (money.Money, error) {
	return money.Parse(strings.TrimSpace(raw.String()), currency)
}

func parseAmountPtr(raw *json.Number, currency string) (*money.Money, error) {
	if raw == nil {
		return nil, nil
	}
	m, err := parseAmount(*raw, currency)
	if err != nil {
		return nil, err
	}
	return &m, nil
}
