package core

import (
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
)

// Brazilian Portuguese conventions used by the entry form, the record list
// and the export: comma decimals, dot thousands, dd/mm/yyyy dates.
const (
	CurrencySymbol  = "R$"
	dateInputLayout = "02/01/2006"
)

// SanitizeAmountInput filters a keystroke-level amount value: only digits and
// commas survive and everything after the first comma is joined into a single
// fractional part.
func SanitizeAmountInput(raw string) string {
	v := strings.Map(func(r rune) rune {
		if (r >= '0' && r <= '9') || r == ',' {
			return r
		}
		return -1
	}, raw)
	parts := strings.Split(v, ",")
	if len(parts) > 2 {
		v = parts[0] + "," + strings.Join(parts[1:], "")
	}
	return v
}

// NormalizeAmountInput pads or truncates the fractional part to exactly two
// digits: "123" -> "123,00", "123,4" -> "123,40", "123,456" -> "123,45".
func NormalizeAmountInput(raw string) string {
	intPart, dec, hasComma := strings.Cut(raw, ",")
	switch {
	case !hasComma || len(dec) == 0:
		return intPart + ",00"
	case len(dec) == 1:
		return intPart + "," + dec + "0"
	case len(dec) > 2:
		return intPart + "," + dec[:2]
	default:
		return raw
	}
}

// ParseAmountInput turns a form amount like "1.234,5" into Money. Extra
// fractional digits are truncated, not rounded.
func ParseAmountInput(raw string) (Money, error) {
	v := NormalizeAmountInput(SanitizeAmountInput(raw))
	cents, err := parseCents(v)
	if err != nil {
		return Money{}, err
	}
	return Money{Cents: cents}, nil
}

// FormatAmountInput renders money the way the amount field shows it, "23,50".
func FormatAmountInput(m Money) string {
	cents := m.Cents
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s%d,%02d", sign, cents/100, cents%100)
}

// SanitizeDateInput keeps digits and slashes and caps the day, month and year
// segments at 2, 2 and 4 characters.
func SanitizeDateInput(raw string) string {
	v := strings.Map(func(r rune) rune {
		if (r >= '0' && r <= '9') || r == '/' {
			return r
		}
		return -1
	}, raw)
	limits := []int{2, 2, 4}
	var out []string
	for i, p := range strings.Split(v, "/") {
		if i >= len(limits) {
			break
		}
		if len(p) > limits[i] {
			p = p[:limits[i]]
		}
		if p != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, "/")
}

// NormalizeDateInput zero-pads day and month: "1/6/2024" -> "01/06/2024".
// Inputs without three segments are returned unchanged.
func NormalizeDateInput(raw string) string {
	parts := strings.Split(raw, "/")
	if len(parts) != 3 {
		return raw
	}
	return pad2(parts[0]) + "/" + pad2(parts[1]) + "/" + parts[2]
}

func pad2(s string) string {
	if len(s) == 1 {
		return "0" + s
	}
	return s
}

// ParseDateInput parses a dd/mm/yyyy form value into a calendar date.
func ParseDateInput(raw string) (Date, error) {
	v := NormalizeDateInput(SanitizeDateInput(raw))
	t, err := time.Parse(dateInputLayout, v)
	if err != nil {
		return Date{}, ErrInvalidDate
	}
	return Date{Time: t}, nil
}

// FormatDate renders a date as dd/mm/yyyy.
func FormatDate(d Date) string {
	if d.IsZero() {
		return ""
	}
	return d.Format(dateInputLayout)
}

// FormatCurrency renders money as "R$ 1.234,56"; negatives as "-R$ 10,00".
func FormatCurrency(m Money) string {
	cents := m.Cents
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	reais := humanize.FormatInteger("#.###,", int(cents/100))
	return fmt.Sprintf("%s%s %s,%02d", sign, CurrencySymbol, reais, cents%100)
}
