package pricing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resort/internal/domain/room"
	"resort/internal/domain/shared/daterange"
	"resort/internal/domain/shared/money"
)

func day(s string) time.Time {
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		panic(err)
	}
	return t
}

func inr(v string) money.Money {
	return money.MustParse(v, "INR")
}

func testRoom() *room.Room {
	return &room.Room{ID: 1, Name: "Garden Cottage", BasePrice: inr("100"), MaxAdults: 2, IsActive: true}
}

func rule(id RuleID, from, to, price string) *Rule {
	return &Rule{ID: id, RoomID: 1, StartDate: day(from), EndDate: day(to), Price: inr(price)}
}

func TestBasePriceOnlyStay(t *testing.T) {
	total, err := TotalPrice(testRoom(), daterange.Must(day("2024-05-01"), day("2024-05-04")), nil)
	require.NoError(t, err)
	assert.Equal(t, "300.00", total.String())
	assert.Equal(t, "INR", total.Currency)
}

func TestRuleCoveringSecondNight(t *testing.T) {
	rules := []*Rule{rule(1, "2024-05-02", "2024-05-02", "150")}

	q, err := Resolve(testRoom(), daterange.Must(day("2024-05-01"), day("2024-05-04")), rules)
	require.NoError(t, err)
	assert.Equal(t, "350.00", q.Total.String())
	require.Len(t, q.Nights, 3)
	assert.Nil(t, q.Nights[0].Rule)
	require.NotNil(t, q.Nights[1].Rule)
	assert.Equal(t, RuleID(1), *q.Nights[1].Rule)
	assert.Nil(t, q.Nights[2].Rule)
}

func TestFirstMatchingRuleWins(t *testing.T) {
	stay := daterange.Must(day("2024-05-02"), day("2024-05-03"))
	cheap := rule(1, "2024-05-01", "2024-05-10", "120")
	pricey := rule(2, "2024-05-02", "2024-05-02", "500")

	total, err := TotalPrice(testRoom(), stay, []*Rule{cheap, pricey})
	require.NoError(t, err)
	assert.Equal(t, "120.00", total.String())

	total, err = TotalPrice(testRoom(), stay, []*Rule{pricey, cheap})
	require.NoError(t, err)
	assert.Equal(t, "500.00", total.String())
}

func TestRuleEndDateIsInclusiveAndCheckoutIsFree(t *testing.T) {
	rules := []*Rule{rule(1, "2024-05-03", "2024-05-04", "200")}

	total, err := TotalPrice(testRoom(), daterange.Must(day("2024-05-03"), day("2024-05-05")), rules)
	require.NoError(t, err)
	assert.Equal(t, "400.00", total.String())

	total, err = TotalPrice(testRoom(), daterange.Must(day("2024-05-01"), day("2024-05-03")), rules)
	require.NoError(t, err)
	assert.Equal(t, "200.00", total.String())
}

func TestRulesOfOtherRoomsAreIgnored(t *testing.T) {
	other := rule(9, "2024-05-01", "2024-05-31", "999")
	other.RoomID = 2

	total, err := TotalPrice(testRoom(), daterange.Must(day("2024-05-01"), day("2024-05-02")), []*Rule{other})
	require.NoError(t, err)
	assert.Equal(t, "100.00", total.String())
}

func TestFractionalPricesSumExactly(t *testing.T) {
	r := testRoom()
	r.BasePrice = inr("33.33")

	total, err := TotalPrice(r, daterange.Must(day("2024-05-01"), day("2024-05-04")), nil)
	require.NoError(t, err)
	assert.Equal(t, "99.99", total.String())
}

func TestResolveErrors(t *testing.T) {
	_, err := TotalPrice(nil, daterange.Must(day("2024-05-01"), day("2024-05-02")), nil)
	require.ErrorIs(t, err, ErrRoomNotFound)

	_, err = TotalPrice(testRoom(), daterange.DateRange{CheckIn: day("2024-05-02"), CheckOut: day("2024-05-01")}, nil)
	require.ErrorIs(t, err, daterange.ErrInvalidRange)
}

func TestResolveIsRepeatable(t *testing.T) {
	r := testRoom()
	rules := []*Rule{rule(1, "2024-05-02", "2024-05-02", "150")}
	stay := daterange.Must(day("2024-05-01"), day("2024-05-04"))

	first, err := Resolve(r, stay, rules)
	require.NoError(t, err)
	second, err := Resolve(r, stay, rules)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, "100.00", r.BasePrice.String())
	assert.Equal(t, "150.00", rules[0].Price.String())
}

func TestNewRuleValidatesRange(t *testing.T) {
	_, err := NewRule(RuleParams{RoomID: 1, StartDate: day("2024-05-05"), EndDate: day("2024-05-01"), Price: inr("10")})
	require.ErrorIs(t, err, ErrInvalidRuleRange)

	_, err = NewRule(RuleParams{RoomID: 1, StartDate: day("2024-05-01"), EndDate: day("2024-05-01"), Price: inr("0")})
	require.ErrorIs(t, err, ErrInvalidRulePrice)

	r, err := NewRule(RuleParams{RoomID: 1, Name: " Diwali ", StartDate: day("2024-05-01"), EndDate: day("2024-05-01"), Price: inr("10")})
	require.NoError(t, err)
	assert.Equal(t, "Diwali", r.Name)
	assert.True(t, r.Covers(day("2024-05-01")))
}
