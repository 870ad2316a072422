package room

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resort/internal/domain/shared/money"
)

func TestNewAppliesDefaults(t *testing.T) {
	r, err := New(CreateParams{Name: " Sea View ", BasePrice: money.MustParse("4500", "INR"), Amenities: []string{"wifi", "WiFi", " ", "pool"}})
	require.NoError(t, err)

	assert.Equal(t, "Sea View", r.Name)
	assert.Equal(t, DefaultMaxAdults, r.MaxAdults)
	assert.Equal(t, DefaultMaxChildren, r.MaxChildren)
	assert.True(t, r.IsActive)
	assert.Equal(t, []string{"wifi", "pool"}, r.Amenities)
}

func TestNewValidation(t *testing.T) {
	_, err := New(CreateParams{Name: "", BasePrice: money.MustParse("10", "INR")})
	require.ErrorIs(t, err, ErrNameRequired)

	_, err = New(CreateParams{Name: "Hut", BasePrice: money.Must(0, "INR")})
	require.ErrorIs(t, err, ErrInvalidBasePrice)

	zero := 0
	_, err = New(CreateParams{Name: "Hut", BasePrice: money.MustParse("10", "INR"), MaxAdults: &zero})
	require.ErrorIs(t, err, ErrInvalidOccupancy)
}

func TestApplyPatchIsAtomic(t *testing.T) {
	r, err := New(CreateParams{Name: "Hut", BasePrice: money.MustParse("10", "INR")})
	require.NoError(t, err)

	name := "Treehouse"
	bad := money.Must(0, "INR")
	require.ErrorIs(t, r.Apply(Patch{Name: &name, BasePrice: &bad}, time.Now()), ErrInvalidBasePrice)
	assert.Equal(t, "Hut", r.Name)

	inactive := false
	require.NoError(t, r.Apply(Patch{Name: &name, IsActive: &inactive}, time.Now()))
	assert.Equal(t, "Treehouse", r.Name)
	assert.False(t, r.IsActive)
}

func TestAcceptsParty(t *testing.T) {
	children := 1
	r, err := New(CreateParams{Name: "Family", BasePrice: money.MustParse("10", "INR"), MaxChildren: &children})
	require.NoError(t, err)

	require.NoError(t, r.AcceptsParty(2, 1))
	require.ErrorIs(t, r.AcceptsParty(3, 0), ErrInvalidParty)
	require.ErrorIs(t, r.AcceptsParty(2, 2), ErrInvalidParty)
	require.ErrorIs(t, r.AcceptsParty(0, 0), ErrInvalidParty)
}
