package valueobject

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Currency represents a currency code (ISO 4217)
type Currency string

const (
	USD Currency = "USD" // US Dollar
	EUR Currency = "EUR" // Euro
	GBP Currency = "GBP" // British Pound
	JPY Currency = "JPY" // Japanese Yen
	CNY Currency = "CNY" // Chinese Yuan
)

// DefaultCurrency is the fallback settlement currency
const DefaultCurrency = USD

// String returns the ISO 4217 code
func (c Currency) String() string {
	return string(c)
}

// IsValid checks if the currency is a supported Currency
func (c Currency) IsValid() bool {
	switch c {
	case USD, EUR, GBP, JPY, CNY:
		return true
	}
	return false
}

// minorUnitDigits maps a currency to the number of digits after the
// decimal separator. Zero-decimal currencies settle in whole units.
func minorUnitDigits(c Currency) int32 {
	if c == JPY {
		return 0
	}
	return 2
}

// Money is a value object representing a monetary amount in integer
// minor units (cents). It is immutable - all operations return new
// Money instances. Persisted totals never leave integer space.
type Money struct {
	amount   int64
	currency Currency
}

// NewMoney creates a new Money with the specified minor-unit amount and currency
func NewMoney(amount int64, currency Currency) (Money, error) {
	if currency == "" {
		return Money{}, errors.New("currency cannot be empty")
	}
	return Money{amount: amount, currency: currency}, nil
}

// MustNewMoney creates Money, panicking on an empty currency
func MustNewMoney(amount int64, currency Currency) Money {
	m, err := NewMoney(amount, currency)
	if err != nil {
		panic(err)
	}
	return m
}

// Zero returns a zero-value Money in the specified currency
func Zero(currency Currency) Money {
	return Money{amount: 0, currency: currency}
}

// Amount returns the amount in minor units
func (m Money) Amount() int64 {
	return m.amount
}

// Currency returns the currency code
func (m Money) Currency() Currency {
	return m.currency
}

// IsZero returns true if the amount is zero
func (m Money) IsZero() bool {
	return m.amount == 0
}

// IsPositive returns true if the amount is greater than zero
func (m Money) IsPositive() bool {
	return m.amount > 0
}

// IsNegative returns true if the amount is less than zero
func (m Money) IsNegative() bool {
	return m.amount < 0
}

// Add returns a new Money with the sum of both amounts
// Returns error if currencies don't match
func (m Money) Add(other Money) (Money, error) {
	if m.currency != other.currency {
		return Money{}, fmt.Errorf("cannot add money with different currencies: %s and %s", m.currency, other.currency)
	}
	return Money{amount: m.amount + other.amount, currency: m.currency}, nil
}

// Subtract returns a new Money with the difference
// Returns error if currencies don't match
func (m Money) Subtract(other Money) (Money, error) {
	if m.currency != other.currency {
		return Money{}, fmt.Errorf("cannot subtract money with different currencies: %s and %s", m.currency, other.currency)
	}
	return Money{amount: m.amount - other.amount, currency: m.currency}, nil
}

// MultiplyInt returns the amount multiplied by an integer quantity
func (m Money) MultiplyInt(factor int64) Money {
	return Money{amount: m.amount * factor, currency: m.currency}
}

// Percentage returns floor(amount * pct / 100)
func (m Money) Percentage(pct int64) Money {
	return Money{amount: m.amount * pct / 100, currency: m.currency}
}

// ClampNonNegative returns the amount floored at zero
func (m Money) ClampNonNegative() Money {
	if m.amount < 0 {
		return Money{amount: 0, currency: m.currency}
	}
	return m
}

// Decimal returns the amount in major units as a decimal
func (m Money) Decimal() decimal.Decimal {
	return decimal.New(m.amount, -minorUnitDigits(m.currency))
}

// Format renders the amount with its currency code, e.g. "20.00 USD"
func (m Money) Format() string {
	return fmt.Sprintf("%s %s", m.Decimal().StringFixed(minorUnitDigits(m.currency)), m.currency)
}

// String implements fmt.Stringer
func (m Money) String() string {
	return m.Format()
}

// Equals returns true if amount and currency both match
func (m Money) Equals(other Money) bool {
	return m.amount == other.amount && m.currency == other.currency
}
