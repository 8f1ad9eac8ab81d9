package core

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	KindExpense Kind = "expense"
	KindIncome  Kind = "income"
)

type (
	Kind string

	Date struct {
		time.Time
	}

	Money struct {
		Cents int64
	}

	// Record is a single income or expense entry as persisted by the store.
	Record struct {
		ID            string     `json:"id"`
		Kind          Kind       `json:"kind"`
		Description   string     `json:"description"`
		Amount        Money      `json:"amount"`
		Date          Date       `json:"date"`
		Category      string     `json:"category"`
		PaymentMethod string     `json:"paymentMethod"`
		CreatedAt     time.Time  `json:"createdAt"`
		UpdatedAt     *time.Time `json:"updatedAt,omitempty"`
	}

	// Draft carries the user-editable fields of a Record. An empty ID means
	// the draft describes a new record.
	Draft struct {
		ID            string
		Kind          Kind
		Description   string
		Amount        Money
		Date          Date
		Category      string
		PaymentMethod string
	}
)

// ErrValidation is wrapped by every form-level validation failure.
var ErrValidation = errors.New("validation failed")

var (
	ErrInvalidDay           = fmt.Errorf("%w: invalid day", ErrValidation)
	ErrInvalidMonth         = fmt.Errorf("%w: invalid month", ErrValidation)
	ErrInvalidDate          = fmt.Errorf("%w: invalid date", ErrValidation)
	ErrInvalidAmount        = fmt.Errorf("%w: invalid amount", ErrValidation)
	ErrInvalidKind          = fmt.Errorf("%w: invalid kind", ErrValidation)
	ErrEmptyDescription     = fmt.Errorf("%w: empty description", ErrValidation)
	ErrDescriptionTooLong   = fmt.Errorf("%w: description too long (max 200 characters)", ErrValidation)
	ErrUnknownCategory      = fmt.Errorf("%w: unknown category", ErrValidation)
	ErrUnknownPaymentMethod = fmt.Errorf("%w: unknown payment method", ErrValidation)
)

const maxDescriptionLen = 200

func (k Kind) Validate() error {
	switch k {
	case KindExpense, KindIncome:
		return nil
	default:
		return ErrInvalidKind
	}
}

// ParseKind maps form values to a Kind. Empty input defaults to expense.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "expense", "despesa":
		return KindExpense, nil
	case "income", "receita":
		return KindIncome, nil
	default:
		return "", ErrInvalidKind
	}
}

func (d Date) Validate() error {
	if d.IsZero() {
		return ErrInvalidDate
	}
	_, month, day := d.Date()
	if day < 1 || day > 31 {
		return ErrInvalidDay
	}
	if month < 1 || month > 12 {
		return ErrInvalidMonth
	}
	return nil
}

// Day returns the day of the month
func (d Date) Day() int {
	return d.Time.Day()
}

// Month returns the month
func (d Date) Month() int {
	return int(d.Time.Month())
}

// Year returns the year
func (d Date) Year() int {
	return d.Time.Year()
}

// NewDate creates a new Date from year, month, day
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// DateOf truncates t to its calendar day in t's own location.
func DateOf(t time.Time) Date {
	return NewDate(t.Year(), int(t.Month()), t.Day())
}

// ISO returns the date as YYYY-MM-DD.
func (d Date) ISO() string {
	return d.Format("2006-01-02")
}

// ParseISODate parses a YYYY-MM-DD string.
func ParseISODate(s string) (Date, error) {
	t, err := time.Parse("2006-01-02", strings.TrimSpace(s))
	if err != nil {
		return Date{}, ErrInvalidDate
	}
	return Date{Time: t}, nil
}

func (m Money) Validate() error {
	if m.Cents <= 0 {
		return ErrInvalidAmount
	}
	return nil
}

func (d Draft) Validate() error {
	if err := d.Kind.Validate(); err != nil {
		return err
	}
	if err := d.Date.Validate(); err != nil {
		return err
	}
	if len(strings.TrimSpace(d.Description)) == 0 {
		return ErrEmptyDescription
	}
	if utf8.RuneCountInString(d.Description) > maxDescriptionLen {
		return ErrDescriptionTooLong
	}
	if err := d.Amount.Validate(); err != nil {
		return err
	}
	if !IsCategory(d.Category) {
		return ErrUnknownCategory
	}
	if !IsPaymentMethod(d.PaymentMethod) {
		return ErrUnknownPaymentMethod
	}
	return nil
}

// NewRecord builds a fresh record from a draft. UpdatedAt stays unset.
func NewRecord(d Draft, id string, now time.Time) Record {
	return Record{
		ID:            id,
		Kind:          d.Kind,
		Description:   strings.TrimSpace(d.Description),
		Amount:        d.Amount,
		Date:          d.Date,
		Category:      d.Category,
		PaymentMethod: d.PaymentMethod,
		CreatedAt:     now.UTC(),
	}
}

// Apply replaces every editable field with the draft's values and stamps
// UpdatedAt. ID and CreatedAt are preserved. UpdatedAt never moves backwards
// relative to CreatedAt or a previous UpdatedAt.
func (r Record) Apply(d Draft, now time.Time) Record {
	updated := now.UTC()
	if updated.Before(r.CreatedAt) {
		updated = r.CreatedAt
	}
	if r.UpdatedAt != nil && updated.Before(*r.UpdatedAt) {
		updated = *r.UpdatedAt
	}

	r.Kind = d.Kind
	r.Description = strings.TrimSpace(d.Description)
	r.Amount = d.Amount
	r.Date = d.Date
	r.Category = d.Category
	r.PaymentMethod = d.PaymentMethod
	r.UpdatedAt = &updated
	return r
}

// Draft returns the editable view of the record.
func (r Record) Draft() Draft {
	return Draft{
		ID:            r.ID,
		Kind:          r.Kind,
		Description:   r.Description,
		Amount:        r.Amount,
		Date:          r.Date,
		Category:      r.Category,
		PaymentMethod: r.PaymentMethod,
	}
}

// Signed returns the amount with expenses negated.
func (r Record) Signed() Money {
	if r.Kind == KindIncome {
		return r.Amount
	}
	return Money{Cents: -r.Amount.Cents}
}
