// Package money holds monetary amounts as fixed-point decimals with two
// fractional digits. Values round-trip through NUMERIC(12,2) columns and JSON
// strings without passing through float64.
package money

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

const Scale = 2

type Money struct {
	decimal.Decimal
}

var Zero = Money{Decimal: decimal.Zero}

func New(amount decimal.Decimal) Money {
	return Money{Decimal: amount.Round(Scale)}
}

// Cents builds an amount from minor units, e.g. Cents(1999) is 19.99.
func Cents(cents int64) Money {
	return Money{Decimal: decimal.New(cents, -Scale)}
}

func Parse(s string) (Money, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Zero, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	return New(d), nil
}

func MustParse(s string) Money {
	m, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return m
}

func (m Money) Add(other Money) Money {
	return New(m.Decimal.Add(other.Decimal))
}

func (m Money) Sub(other Money) Money {
	return New(m.Decimal.Sub(other.Decimal))
}

// Times multiplies by a line quantity.
func (m Money) Times(quantity int) Money {
	return New(m.Decimal.Mul(decimal.NewFromInt(int64(quantity))))
}

func (m Money) IsPositive() bool {
	return m.Decimal.IsPositive()
}

func (m Money) Equal(other Money) bool {
	return m.Decimal.Equal(other.Decimal)
}

func (m Money) String() string {
	return m.Decimal.Round(Scale).StringFixed(Scale)
}

func (m Money) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.String())
}

// UnmarshalJSON accepts both quoted and bare numbers. Bare numbers are parsed
// from their literal text, never via float64.
func (m *Money) UnmarshalJSON(b []byte) error {
	if len(b) == 0 || string(b) == "null" {
		return nil
	}
	raw := string(b)
	if b[0] == '"' {
		if err := json.Unmarshal(b, &raw); err != nil {
			return err
		}
	}
	parsed, err := Parse(raw)
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

func (m Money) Value() (driver.Value, error) {
	return m.String(), nil
}

func (m *Money) Scan(value interface{}) error {
	if err := m.Decimal.Scan(value); err != nil {
		return err
	}
	m.Decimal = m.Decimal.Round(Scale)
	return nil
}
