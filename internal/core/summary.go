package core

import (
	"cmp"
	"slices"
)

// CategoryAmount represents an amount aggregated by category name.
type CategoryAmount struct {
	Name   string `json:"name"`
	Amount Money  `json:"amount"`
}

// Totals is the aggregate shown above the record list.
type Totals struct {
	TotalIncome  Money `json:"totalIncome"`
	TotalExpense Money `json:"totalExpense"`
	Balance      Money `json:"balance"`
	// ByCategory holds expense totals in the order of Categories, skipping
	// categories without expenses.
	ByCategory []CategoryAmount `json:"byCategory"`
}

// Summarize computes income, expense and balance totals.
func Summarize(records []Record) Totals {
	t := Totals{ByCategory: []CategoryAmount{}}
	perCategory := make(map[string]Money)
	for _, r := range records {
		t.Balance = t.Balance.Add(r.Signed())
		switch r.Kind {
		case KindIncome:
			t.TotalIncome = t.TotalIncome.Add(r.Amount)
		default:
			t.TotalExpense = t.TotalExpense.Add(r.Amount)
			perCategory[r.Category] = perCategory[r.Category].Add(r.Amount)
		}
	}

	for _, name := range Categories {
		if m, ok := perCategory[name]; ok {
			t.ByCategory = append(t.ByCategory, CategoryAmount{Name: name, Amount: m})
			delete(perCategory, name)
		}
	}
	// Records written before a category was retired still show up, after the
	// known ones and in name order.
	rest := make([]CategoryAmount, 0, len(perCategory))
	for name, m := range perCategory {
		rest = append(rest, CategoryAmount{Name: name, Amount: m})
	}
	slices.SortFunc(rest, func(a, b CategoryAmount) int { return cmp.Compare(a.Name, b.Name) })
	t.ByCategory = append(t.ByCategory, rest...)
	return t
}

// SortForDisplay returns a copy of records ordered by date, most recent
// first. Records on the same date keep their relative order.
func SortForDisplay(records []Record) []Record {
	out := slices.Clone(records)
	slices.SortStableFunc(out, func(a, b Record) int {
		return b.Date.Compare(a.Date.Time)
	})
	return out
}
