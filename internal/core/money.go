package core

import (
	"strconv"
	"strings"
)

// maxCents keeps iv*100 inside int64.
const maxCents = (1<<63 - 1) / 100

// parseCents reads a normalized pt-BR amount, "1234,56", into cents. The
// integer part may be empty (",50"); the fractional part must be exactly two
// digits. Zero is rejected.
func parseCents(s string) (int64, error) {
	intPart, frac, ok := strings.Cut(s, ",")
	if !ok || len(frac) != 2 || !isDigits(frac) || !isDigits(intPart) {
		return 0, ErrInvalidAmount
	}
	if intPart == "" {
		intPart = "0"
	}
	iv, err := strconv.ParseInt(intPart, 10, 64)
	if err != nil || iv >= maxCents {
		return 0, ErrInvalidAmount
	}
	fv, _ := strconv.ParseInt(frac, 10, 64)
	cents := iv*100 + fv
	if cents <= 0 {
		return 0, ErrInvalidAmount
	}
	return cents, nil
}

func isDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

func (m Money) Add(o Money) Money {
	return Money{Cents: m.Cents + o.Cents}
}

func (m Money) Sub(o Money) Money {
	return Money{Cents: m.Cents - o.Cents}
}

// MarshalJSON encodes money as integer cents.
func (m Money) MarshalJSON() ([]byte, error) {
	return strconv.AppendInt(nil, m.Cents, 10), nil
}

func (m *Money) UnmarshalJSON(b []byte) error {
	v, err := strconv.ParseInt(string(b), 10, 64)
	if err != nil {
		return err
	}
	m.Cents = v
	return nil
}
