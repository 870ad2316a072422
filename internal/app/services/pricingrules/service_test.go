package pricingrules

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resort/internal/domain/pricing"
	"resort/internal/domain/room"
	"resort/internal/domain/shared/money"
	"resort/internal/infra/storage/memory"
)

func day(s string) time.Time {
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		panic(err)
	}
	return t
}

func newService(t *testing.T) (*Service, room.ID) {
	t.Helper()
	rooms := memory.NewRoomRepository()
	r, err := room.New(room.CreateParams{Name: "Suite", BasePrice: money.MustParse("100", "INR")})
	require.NoError(t, err)
	require.NoError(t, rooms.Create(context.Background(), r))
	return &Service{Rooms: rooms, Rules: memory.NewPricingRuleRepository()}, r.ID
}

func TestListByRoomSortsByStartDate(t *testing.T) {
	svc, roomID := newService(t)
	ctx := context.Background()
	for _, start := range []string{"2030-07-01", "2030-01-01"} {
		_, err := svc.Create(ctx, pricing.RuleParams{
			RoomID:    roomID,
			Name:      "season " + start,
			StartDate: day(start),
			EndDate:   day(start).AddDate(0, 0, 10),
			Price:     money.MustParse("150", "INR"),
		})
		require.NoError(t, err)
	}

	rules, err := svc.ListByRoom(ctx, roomID)
	require.NoError(t, err)
	require.Len(t, rules, 2)
	assert.Equal(t, day("2030-01-01"), rules[0].StartDate)

	stored, err := svc.Rules.ListByRoom(ctx, roomID)
	require.NoError(t, err)
	assert.Equal(t, day("2030-07-01"), stored[0].StartDate, "storage keeps creation order")
}

func TestCreateAndUpdateValidation(t *testing.T) {
	svc, roomID := newService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, pricing.RuleParams{StartDate: day("2030-01-01"), EndDate: day("2030-01-02"), Price: money.MustParse("1", "INR")})
	assert.ErrorIs(t, err, pricing.ErrRoomRequired)
	_, err = svc.Create(ctx, pricing.RuleParams{RoomID: 99, StartDate: day("2030-01-01"), EndDate: day("2030-01-02"), Price: money.MustParse("1", "INR")})
	assert.ErrorIs(t, err, room.ErrNotFound)
	_, err = svc.Create(ctx, pricing.RuleParams{RoomID: roomID, StartDate: day("2030-01-05"), EndDate: day("2030-01-02"), Price: money.MustParse("1", "INR")})
	assert.ErrorIs(t, err, pricing.ErrInvalidRuleRange)

	rule, err := svc.Create(ctx, pricing.RuleParams{RoomID: roomID, StartDate: day("2030-01-01"), EndDate: day("2030-01-01"), Price: money.MustParse("120", "INR")})
	require.NoError(t, err)

	zero := money.MustParse("0", "INR")
	_, err = svc.Update(ctx, rule.ID, pricing.RulePatch{Price: &zero})
	assert.ErrorIs(t, err, pricing.ErrInvalidRulePrice)
	unchanged, err := svc.Rules.ByID(ctx, rule.ID)
	require.NoError(t, err)
	assert.Equal(t, "120.00", unchanged.Price.String())

	require.NoError(t, svc.Delete(ctx, rule.ID))
	_, err = svc.Rules.ByID(ctx, rule.ID)
	assert.ErrorIs(t, err, pricing.ErrRuleNotFound)
}
