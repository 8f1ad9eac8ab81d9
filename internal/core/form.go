package core

import (
	"strings"
	"time"
)

// Form holds the raw values of the manual entry form, as typed by the user.
type Form struct {
	ID            string `json:"id,omitempty"`
	Kind          string `json:"kind"`
	Description   string `json:"description"`
	Amount        string `json:"amount"`
	Date          string `json:"date"`
	Category      string `json:"category"`
	PaymentMethod string `json:"paymentMethod"`
}

// BlankForm returns the defaults shown for a new entry.
func BlankForm(now time.Time) Form {
	return Form{
		Kind:   string(KindExpense),
		Amount: "0,00",
		Date:   FormatDate(DateOf(now)),
	}
}

// FormFor prefills the form used to edit r.
func FormFor(r Record) Form {
	d := r.Draft()
	return Form{
		ID:            d.ID,
		Kind:          string(d.Kind),
		Description:   d.Description,
		Amount:        FormatAmountInput(d.Amount),
		Date:          FormatDate(d.Date),
		Category:      d.Category,
		PaymentMethod: d.PaymentMethod,
	}
}

// Draft parses and validates the form. Every returned error wraps ErrValidation.
func (f Form) Draft() (Draft, error) {
	kind, err := ParseKind(f.Kind)
	if err != nil {
		return Draft{}, err
	}
	amount, err := ParseAmountInput(f.Amount)
	if err != nil {
		return Draft{}, err
	}
	date, err := ParseDateInput(f.Date)
	if err != nil {
		return Draft{}, err
	}
	d := Draft{
		ID:            strings.TrimSpace(f.ID),
		Kind:          kind,
		Description:   strings.TrimSpace(f.Description),
		Amount:        amount,
		Date:          date,
		Category:      strings.TrimSpace(f.Category),
		PaymentMethod: strings.TrimSpace(f.PaymentMethod),
	}
	if err := d.Validate(); err != nil {
		return Draft{}, err
	}
	return d, nil
}
