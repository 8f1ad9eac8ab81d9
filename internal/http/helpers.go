package http

import (
	"errors"
	"strings"

	"despesas/internal/core"
)

// sanitizeInput removes control characters and trims whitespace.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, s)
}

// validationMessage turns a form validation error into the text shown next
// to the form.
func validationMessage(err error) string {
	switch {
	case errors.Is(err, core.ErrInvalidAmount):
		return "Valor inválido"
	case errors.Is(err, core.ErrInvalidDate), errors.Is(err, core.ErrInvalidDay), errors.Is(err, core.ErrInvalidMonth):
		return "Data inválida"
	case errors.Is(err, core.ErrEmptyDescription):
		return "Descrição obrigatória"
	case errors.Is(err, core.ErrDescriptionTooLong):
		return "Descrição muito longa (máximo 200 caracteres)"
	case errors.Is(err, core.ErrUnknownCategory):
		return "Categoria inválida"
	case errors.Is(err, core.ErrUnknownPaymentMethod):
		return "Meio de pagamento inválido"
	case errors.Is(err, core.ErrInvalidKind):
		return "Tipo inválido"
	default:
		return "Dados inválidos"
	}
}

// recordView adds display strings to a record.
type recordView struct {
	core.Record
	DateDisplay   string `json:"dateDisplay"`
	AmountDisplay string `json:"amountDisplay"`
}

func newRecordView(r core.Record) recordView {
	return recordView{
		Record:        r,
		DateDisplay:   core.FormatDate(r.Date),
		AmountDisplay: core.FormatCurrency(r.Amount),
	}
}

type categoryView struct {
	Name          string `json:"name"`
	Amount        int64  `json:"amount"`
	AmountDisplay string `json:"amountDisplay"`
}

type totalsView struct {
	TotalIncome         int64          `json:"totalIncome"`
	TotalExpense        int64          `json:"totalExpense"`
	Balance             int64          `json:"balance"`
	TotalIncomeDisplay  string         `json:"totalIncomeDisplay"`
	TotalExpenseDisplay string         `json:"totalExpenseDisplay"`
	BalanceDisplay      string         `json:"balanceDisplay"`
	ByCategory          []categoryView `json:"byCategory"`
}

func newTotalsView(t core.Totals) totalsView {
	v := totalsView{
		TotalIncome:         t.TotalIncome.Cents,
		TotalExpense:        t.TotalExpense.Cents,
		Balance:             t.Balance.Cents,
		TotalIncomeDisplay:  core.FormatCurrency(t.TotalIncome),
		TotalExpenseDisplay: core.FormatCurrency(t.TotalExpense),
		BalanceDisplay:      core.FormatCurrency(t.Balance),
		ByCategory:          make([]categoryView, 0, len(t.ByCategory)),
	}
	for _, c := range t.ByCategory {
		v.ByCategory = append(v.ByCategory, categoryView{c.Name, c.Amount.Cents, core.FormatCurrency(c.Amount)})
	}
	return v
}
