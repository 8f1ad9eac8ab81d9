package core

import (
	"errors"
	"testing"
)

func TestSanitizeAmountInput(t *testing.T) {
	tests := map[string]string{
		"123,45":   "123,45",
		"R$ 12,3a": "12,3",
		"1,2,3":    "1,23",
		"1.234,56": "1234,56",
		"":         "",
	}
	for in, want := range tests {
		if got := SanitizeAmountInput(in); got != want {
			t.Errorf("SanitizeAmountInput(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestNormalizeAmountInput(t *testing.T) {
	tests := map[string]string{
		"123":     "123,00",
		"123,":    "123,00",
		"123,4":   "123,40",
		"123,45":  "123,45",
		"123,456": "123,45",
	}
	for in, want := range tests {
		if got := NormalizeAmountInput(in); got != want {
			t.Errorf("NormalizeAmountInput(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestParseAmountInput(t *testing.T) {
	tests := []struct {
		in   string
		want int64
		ok   bool
	}{
		{"123,456", 12345, true},
		{"123,4", 12340, true},
		{"1.234,5", 123450, true},
		{"0,01", 1, true},
		{"0,00", 0, false},
		{"", 0, false},
		{"abc", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseAmountInput(tt.in)
			if !tt.ok {
				if !errors.Is(err, ErrInvalidAmount) {
					t.Fatalf("expected ErrInvalidAmount, got %v", err)
				}
				return
			}
			if err != nil || got.Cents != tt.want {
				t.Fatalf("got %d (err=%v), want %d", got.Cents, err, tt.want)
			}
		})
	}
}

func TestFormatAmountInput(t *testing.T) {
	if got := FormatAmountInput(Money{Cents: 2350}); got != "23,50" {
		t.Fatalf("got %q", got)
	}
	if got := FormatAmountInput(Money{Cents: 5}); got != "0,05" {
		t.Fatalf("got %q", got)
	}
}

func TestSanitizeDateInput(t *testing.T) {
	tests := map[string]string{
		"31/12/2025":    "31/12/2025",
		"311/123/20251": "31/12/2025",
		"1/6/2024x":     "1/6/2024",
		"01//2024":      "01/2024",
	}
	for in, want := range tests {
		if got := SanitizeDateInput(in); got != want {
			t.Errorf("SanitizeDateInput(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestNormalizeDateInput(t *testing.T) {
	if got := NormalizeDateInput("1/6/2024"); got != "01/06/2024" {
		t.Fatalf("got %q", got)
	}
	if got := NormalizeDateInput("1/6"); got != "1/6" {
		t.Fatalf("incomplete input should be unchanged, got %q", got)
	}
}

func TestParseDateInput(t *testing.T) {
	d, err := ParseDateInput("1/6/2024")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.ISO() != "2024-06-01" {
		t.Fatalf("got %s", d.ISO())
	}

	for _, bad := range []string{"31/02/2024", "2024-06-01", "", "12/13/2024"} {
		if _, err := ParseDateInput(bad); !errors.Is(err, ErrInvalidDate) {
			t.Errorf("ParseDateInput(%q) expected ErrInvalidDate, got %v", bad, err)
		}
	}
}

func TestFormatDate(t *testing.T) {
	if got := FormatDate(NewDate(2024, 6, 1)); got != "01/06/2024" {
		t.Fatalf("got %q", got)
	}
	if got := FormatDate(Date{}); got != "" {
		t.Fatalf("zero date should render empty, got %q", got)
	}
}

func TestFormatCurrency(t *testing.T) {
	tests := []struct {
		cents int64
		want  string
	}{
		{2350, "R$ 23,50"},
		{0, "R$ 0,00"},
		{123456, "R$ 1.234,56"},
		{123456789, "R$ 1.234.567,89"},
		{-1000, "-R$ 10,00"},
	}
	for _, tt := range tests {
		if got := FormatCurrency(Money{Cents: tt.cents}); got != tt.want {
			t.Errorf("FormatCurrency(%d) = %q, want %q", tt.cents, got, tt.want)
		}
	}
}
