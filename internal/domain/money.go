package domain

import (
	"bytes"
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Money is a fixed-point amount in minor units (1/100 of the currency unit).
type Money int64

const CurrencyCode = "RWF"

// NewMoney builds an amount from whole units and cents.
func NewMoney(units, cents int64) Money {
	return Money(units*100 + cents)
}

// ErrMoneyOverflow is returned when an amount does not fit in Money.
var ErrMoneyOverflow = errors.New("amount out of range")

// ParseMoney accepts "1500", "1500.5", "1,500.50" and rejects more than two decimals.
func ParseMoney(s string) (Money, error) {
	raw := s
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", ""))
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")

	whole, frac, _ := strings.Cut(s, ".")
	if whole == "" && frac == "" {
		return 0, fmt.Errorf("invalid amount %q", raw)
	}
	if !allDigits(whole) || !allDigits(frac) {
		return 0, fmt.Errorf("invalid amount %q", raw)
	}
	if len(frac) > 2 {
		return 0, fmt.Errorf("invalid amount %q: at most two decimals", raw)
	}
	for len(frac) < 2 {
		frac += "0"
	}
	if whole == "" {
		whole = "0"
	}

	u, err := strconv.ParseInt(whole, 10, 64)
	if err != nil || u > (math.MaxInt64-99)/100 {
		return 0, fmt.Errorf("invalid amount %q: %w", raw, ErrMoneyOverflow)
	}
	c, _ := strconv.ParseInt(frac, 10, 64)
	m := Money(u*100 + c)
	if neg {
		m = -m
	}
	return m, nil
}

func allDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// MustParseMoney is for constants and seeds.
func MustParseMoney(s string) Money {
	m, err := ParseMoney(s)
	if err != nil {
		panic(err)
	}
	return m
}

// Times multiplies by a count, used for seats × price. It fails with
// ErrMoneyOverflow instead of wrapping.
func (m Money) Times(n int) (Money, error) {
	if n == 0 || m == 0 {
		return 0, nil
	}
	p := int64(m) * int64(n)
	if p/int64(n) != int64(m) || (int64(n) == -1 && m == math.MinInt64) {
		return 0, ErrMoneyOverflow
	}
	return Money(p), nil
}

// String renders a plain decimal, e.g. "1500.00".
func (m Money) String() string {
	sign := ""
	v := int64(m)
	if v < 0 {
		sign = "-"
		v = -v
	}
	return fmt.Sprintf("%s%d.%02d", sign, v/100, v%100)
}

// Format renders with thousand separators and currency, e.g. "RWF 10,000.00".
func (m Money) Format() string {
	v := int64(m)
	sign := ""
	if v < 0 {
		sign = "-"
		v = -v
	}
	return fmt.Sprintf("%s%s %s.%02d", sign, CurrencyCode, formatThousand(v/100), v%100)
}

func formatThousand(n int64) string {
	str := strconv.FormatInt(n, 10)
	var out strings.Builder
	for i, c := range str {
		if i != 0 && (len(str)-i)%3 == 0 {
			out.WriteByte(',')
		}
		out.WriteRune(c)
	}
	return out.String()
}

func (m Money) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.String())
}

func (m *Money) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		return nil
	}
	raw := string(b)
	if strings.HasPrefix(raw, `"`) {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		raw = s
	}
	v, err := ParseMoney(raw)
	if err != nil {
		return err
	}
	*m = v
	return nil
}

// Value stores minor units as a BIGINT.
func (m Money) Value() (driver.Value, error) {
	return int64(m), nil
}

func (m *Money) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*m = 0
	case int64:
		*m = Money(v)
	case int32:
		*m = Money(v)
	case int:
		*m = Money(v)
	case float64:
		*m = Money(int64(v))
	case []byte:
		n, err := strconv.ParseInt(string(v), 10, 64)
		if err != nil {
			return fmt.Errorf("scan money: %w", err)
		}
		*m = Money(n)
	case string:
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("scan money: %w", err)
		}
		*m = Money(n)
	default:
		return fmt.Errorf("scan money: unsupported type %T", src)
	}
	return nil
}
