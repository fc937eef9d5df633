package ledger

import (
	"finance-tracker/internal/models"

	"github.com/shopspring/decimal"
)

// CategoryTotal is the expense sum of one category.
type CategoryTotal struct {
	Category string
	Total    decimal.Decimal
}

// Summary aggregates a list of transactions.
type Summary struct {
	TotalIncome  decimal.Decimal
	TotalExpense decimal.Decimal
	NetBalance   decimal.Decimal
	// Categories holds expense totals in order of each category's first appearance.
	Categories []CategoryTotal
}

// Summarize computes totals over transactions. It does not touch storage.
func Summarize(transactions []models.Transaction) Summary {
	s := Summary{
		TotalIncome:  decimal.Zero,
		TotalExpense: decimal.Zero,
		Categories:   []CategoryTotal{},
	}
	index := make(map[string]int)

	for _, t := range transactions {
		switch t.Type {
		case models.Income:
			s.TotalIncome = s.TotalIncome.Add(t.Amount)
		case models.Expense:
			s.TotalExpense = s.TotalExpense.Add(t.Amount)
			i, ok := index[t.Category]
			if !ok {
				i = len(s.Categories)
				index[t.Category] = i
				s.Categories = append(s.Categories, CategoryTotal{Category: t.Category, Total: decimal.Zero})
			}
			s.Categories[i].Total = s.Categories[i].Total.Add(t.Amount)
		}
	}

	s.NetBalance = s.TotalIncome.Sub(s.TotalExpense)
	return s
}

// CategoryMap returns the breakdown keyed by category.
func (s Summary) CategoryMap() map[string]decimal.Decimal {
	m := make(map[string]decimal.Decimal, len(s.Categories))
	for _, c := range s.Categories {
		m[c.Category] = c.Total
	}
	return m
}
