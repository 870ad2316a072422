package money

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// Scale is the number of fractional digits kept for every amount.
const Scale = 2

// MaxStored is the largest amount, in minor units, that a numeric(10,2)
// column holds: 99999999.99.
const MaxStored int64 = 9_999_999_999

var (
	ErrInvalidCurrency  = errors.New("money: invalid currency code")
	ErrCurrencyMismatch = errors.New("money: currency mismatch")
	ErrInvalidAmount    = errors.New("money: invalid amount")
	ErrOutOfRange       = fmt.Errorf("%w: amount out of range", ErrInvalidAmount)
)

var (
	minMinor = decimal.NewFromInt(math.MinInt64)
	maxMinor = decimal.NewFromInt(math.MaxInt64)
)

// Money keeps amounts in integer minor units (1/100 of the currency unit)
// so totals never drift through floating point.
type Money struct {
	Amount   int64
	Currency string
}

// New constructs a Money value validating minimal invariants.
func New(minor int64, currency string) (Money, error) {
	if len(currency) != 3 {
		return Money{}, ErrInvalidCurrency
	}
	return Money{Amount: minor, Currency: strings.ToUpper(currency)}, nil
}

// Must creates Money and panics if validation fails; useful in tests and fixtures.
func Must(minor int64, currency string) Money {
	m, err := New(minor, currency)
	if err != nil {
		panic(err)
	}
	return m
}

// Zero returns an empty amount in the given currency.
func Zero(currency string) Money {
	return Money{Currency: strings.ToUpper(currency)}
}

// Parse reads a decimal string such as "150" or "99.90". Values with more
// than two fractional digits are rounded to the nearest minor unit. Amounts
// that do not fit a stored column fail with ErrOutOfRange.
func Parse(value, currency string) (Money, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return Money{}, ErrInvalidAmount
	}
	d, err := decimal.NewFromString(value)
	if err != nil {
		return Money{}, fmt.Errorf("%w: %q", ErrInvalidAmount, value)
	}
	m, err := FromDecimal(d, currency)
	if err != nil {
		return Money{}, err
	}
	if !m.Storable() {
		return Money{}, fmt.Errorf("%w: %s exceeds %s", ErrOutOfRange, value, Money{Amount: MaxStored}.String())
	}
	return m, nil
}

// MustParse is Parse for fixtures.
func MustParse(value, currency string) Money {
	m, err := Parse(value, currency)
	if err != nil {
		panic(err)
	}
	return m
}

// FromDecimal converts d to minor units. Aggregates such as revenue sums may
// exceed MaxStored; only values beyond int64 are rejected here.
func FromDecimal(d decimal.Decimal, currency string) (Money, error) {
	minor := d.Round(Scale).Shift(Scale)
	if !minor.IsInteger() {
		return Money{}, ErrInvalidAmount
	}
	if minor.LessThan(minMinor) || minor.GreaterThan(maxMinor) {
		return Money{}, ErrOutOfRange
	}
	return New(minor.IntPart(), currency)
}

// Decimal converts the amount back to a fixed-point decimal.
func (m Money) Decimal() decimal.Decimal {
	return decimal.New(m.Amount, -Scale)
}

// String renders the amount with exactly two fractional digits, e.g. "300.00".
func (m Money) String() string {
	return m.Decimal().StringFixed(Scale)
}

// Add adds two money values ensuring currencies match.
func (m Money) Add(other Money) (Money, error) {
	if err := m.ensureSameCurrency(other); err != nil {
		return Money{}, err
	}
	sum := m.Amount + other.Amount
	if (other.Amount > 0 && sum < m.Amount) || (other.Amount < 0 && sum > m.Amount) {
		return Money{}, ErrOutOfRange
	}
	return Money{Amount: sum, Currency: m.Currency}, nil
}

// Multiply multiplies the amount by the provided factor.
func (m Money) Multiply(times int64) (Money, error) {
	if m.Amount == 0 || times == 0 {
		return Money{Currency: m.Currency}, nil
	}
	product := m.Amount * times
	if product/times != m.Amount || (times == -1 && m.Amount == math.MinInt64) {
		return Money{}, ErrOutOfRange
	}
	return Money{Amount: product, Currency: m.Currency}, nil
}

// Storable reports whether the amount fits a numeric(10,2) column.
func (m Money) Storable() bool {
	return m.Amount >= -MaxStored && m.Amount <= MaxStored
}

func (m Money) IsZero() bool {
	return m.Amount == 0
}

func (m Money) IsPositive() bool {
	return m.Amount > 0
}

func (m Money) Equal(other Money) bool {
	return m.Amount == other.Amount && m.Currency == other.Currency
}

func (m Money) ensureSameCurrency(other Money) error {
	if m.Currency == "" || other.Currency == "" {
		return ErrInvalidCurrency
	}
	if m.Currency != other.Currency {
		return ErrCurrencyMismatch
	}
	return nil
}

type wireMoney struct {
	Amount   string `json:"amount"`
	Currency string `json:"currency"`
}

func (m Money) MarshalJSON() ([]byte, error) {
	return json.Marshal(wireMoney{Amount: m.String(), Currency: m.Currency})
}

func (m *Money) UnmarshalJSON(data []byte) error {
	var w wireMoney
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	parsed, err := Parse(w.Amount, w.Currency)
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}
