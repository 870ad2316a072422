package daterange

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(s string) time.Time {
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestNewRejectsEmptyAndInvertedRanges(t *testing.T) {
	_, err := New(date("2024-01-05"), date("2024-01-05"))
	require.ErrorIs(t, err, ErrInvalidRange)

	_, err = New(date("2024-01-06"), date("2024-01-05"))
	require.ErrorIs(t, err, ErrInvalidRange)

	_, err = New(time.Time{}, date("2024-01-05"))
	require.ErrorIs(t, err, ErrInvalidRange)
}

func TestNewTruncatesToDay(t *testing.T) {
	in := time.Date(2024, 3, 1, 15, 30, 0, 0, time.UTC)
	out := time.Date(2024, 3, 3, 9, 0, 0, 0, time.UTC)

	dr, err := New(in, out)
	require.NoError(t, err)
	assert.Equal(t, date("2024-03-01"), dr.CheckIn)
	assert.Equal(t, date("2024-03-03"), dr.CheckOut)
	assert.Equal(t, 2, dr.Nights())
}

func TestDatesExcludesCheckout(t *testing.T) {
	dr := Must(date("2024-02-28"), date("2024-03-02"))

	got := dr.Dates()
	require.Len(t, got, 3)
	assert.Equal(t, date("2024-02-28"), got[0])
	assert.Equal(t, date("2024-02-29"), got[1])
	assert.Equal(t, date("2024-03-01"), got[2])
}

func TestOverlaps(t *testing.T) {
	base := Must(date("2024-01-01"), date("2024-01-05"))

	cases := []struct {
		name  string
		other DateRange
		want  bool
	}{
		{"back to back after", Must(date("2024-01-05"), date("2024-01-10")), false},
		{"back to back before", Must(date("2023-12-28"), date("2024-01-01")), false},
		{"inside", Must(date("2024-01-02"), date("2024-01-03")), true},
		{"covering", Must(date("2023-12-30"), date("2024-01-08")), true},
		{"tail", Must(date("2024-01-04"), date("2024-01-06")), true},
		{"disjoint", Must(date("2024-02-01"), date("2024-02-03")), false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, base.Overlaps(tc.other))
			assert.Equal(t, tc.want, tc.other.Overlaps(base))
		})
	}
}

func TestContainsDate(t *testing.T) {
	dr := Must(date("2024-01-01"), date("2024-01-03"))
	assert.True(t, dr.ContainsDate(date("2024-01-01")))
	assert.True(t, dr.ContainsDate(time.Date(2024, 1, 2, 23, 0, 0, 0, time.UTC)))
	assert.False(t, dr.ContainsDate(date("2024-01-03")))
}

func TestNightsCountsCalendarDaysOverCenturies(t *testing.T) {
	dr := Must(time.Date(1700, 1, 1, 0, 0, 0, 0, time.UTC), time.Date(2100, 1, 1, 0, 0, 0, 0, time.UTC))
	// A Gregorian 400-year cycle has exactly 146097 days.
	assert.Equal(t, 146097, dr.Nights())
	assert.ErrorIs(t, dr.Bounded(), ErrStayTooLong)

	year := Must(time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC), time.Date(2031, 1, 1, 0, 0, 0, 0, time.UTC))
	assert.Equal(t, MaxNights, year.Nights())
	assert.NoError(t, year.Bounded())
	assert.Len(t, year.Dates(), year.Nights())
}
