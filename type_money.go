package compass

import (
	"fmt"
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// DefaultCurrency is used when an amount carries no explicit currency.
// The advisor is a single-currency tool.
const DefaultCurrency = "USD"

// Money represents a monetary value as an exact decimal in a currency.
type Money struct {
	value decimal.Decimal // major unit value
	cur   string
}

// M builds a Money from any numeric value and a currency code.
func M[T float32 | float64 | int | int32 | int64 | decimal.Decimal](value T, currency string) Money {
	return Money{value: newDecimal(value), cur: currency}
}

// USD builds a USD Money from any numeric value.
func USD[T float32 | float64 | int | int32 | int64 | decimal.Decimal](value T) Money {
	return M(value, DefaultCurrency)
}

// currency resolves the money's currency, defaulting to DefaultCurrency.
func (m Money) currency() money.Currency {
	cur := m.cur
	if cur == "" {
		cur = DefaultCurrency
	}
	// the Money constructor guarantees a non-nil currency
	return *money.New(0, cur).Currency()
}

// String returns the formatted representation of the value, e.g. "$1,234.50".
func (m Money) String() string {
	cur := m.currency()
	dec := m.value.Shift(int32(cur.Fraction))
	return cur.Formatter().Format(dec.IntPart())
}

// SignedString is like String but prefixes positive values with "+".
func (m Money) SignedString() string {
	if m.value.IsPositive() {
		return "+" + m.String()
	}
	return m.String()
}

func (m Money) Currency() string               { return m.cur }
func (m Money) Equal(n Money) bool             { return m.value.Equal(n.value) }
func (m Money) IsZero() bool                   { return m.value.IsZero() }
func (m Money) IsPositive() bool               { return m.value.IsPositive() }
func (m Money) IsNegative() bool               { return m.value.IsNegative() }
func (m Money) LessThan(n Money) bool          { return m.value.LessThan(n.value) }
func (m Money) GreaterThan(n Money) bool       { return m.value.GreaterThan(n.value) }
func (m Money) Neg() Money                     { return Money{value: m.value.Neg(), cur: m.cur} }
func (m Money) Abs() Money                     { return Money{value: m.value.Abs(), cur: m.cur} }
func (m Money) Add(n Money) Money              { return Money{value: m.value.Add(n.value), cur: cur(m, n)} }
func (m Money) Sub(n Money) Money              { return Money{value: m.value.Sub(n.value), cur: cur(m, n)} }
func (m Money) Mul(q Quantity) Money           { return Money{value: m.value.Mul(q.value), cur: m.cur} }
func (m Money) Div(q Quantity) Money           { return Money{value: m.value.Div(q.value), cur: m.cur} }
func (m Money) DivPrice(price Money) Quantity  { return Quantity{value: m.value.Div(price.value)} }
func (m Money) InexactFloat() float64          { return m.value.InexactFloat64() }

// cur resolves the currency of a binary operation. The "" currency is weak.
func cur(a, b Money) string {
	if a.cur == "" {
		return b.cur
	}
	if b.cur == "" {
		return a.cur
	}
	if a.cur != b.cur {
		panic("currency mismatch " + a.cur + " != " + b.cur)
	}
	return a.cur
}

// PnLPercent returns the percentage gain of current over cost, as in
// (current-cost)/cost*100. Returns 0 when cost is zero.
func PnLPercent(cost, current Money) float64 {
	if cost.IsZero() {
		return 0
	}
	return current.Sub(cost).value.Div(cost.value).InexactFloat64() * 100
}

// ParseAmount parses a free-form dollar amount such as "$1,234.56" or
// "1234.56", stripping currency symbols and thousands separators.
func ParseAmount(s string) (Money, error) {
	clean := strings.TrimSpace(s)
	clean = strings.TrimPrefix(clean, "$")
	clean = strings.ReplaceAll(clean, ",", "")
	if clean == "" {
		return Money{}, fmt.Errorf("empty amount")
	}
	value, err := decimal.NewFromString(clean)
	if err != nil {
		return Money{}, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	return Money{value: value, cur: DefaultCurrency}, nil
}

// MarshalJSON writes the amount as a plain JSON number rounded to the
// currency's fraction. Currency is implied by context in the data files.
func (m Money) MarshalJSON() ([]byte, error) {
	rounded := m.value.Round(int32(m.currency().Fraction))
	return []byte(rounded.String()), nil
}

// UnmarshalJSON reads a plain JSON number as an amount in the default currency.
func (m *Money) UnmarshalJSON(b []byte) error {
	if err := m.value.UnmarshalJSON(b); err != nil {
		return err
	}
	m.cur = DefaultCurrency
	return nil
}
