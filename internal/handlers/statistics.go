package handlers

import (
	"strings"

	"finance-tracker/internal/ledger"

	"github.com/shopspring/decimal"
)

// CategoryDef defines the properties of a category.
type CategoryDef struct {
	ID    string
	Name  string
	Icon  string
	Color string
}

// categories are offered as suggestions; any other name is accepted too.
var categories = []CategoryDef{
	{"salary", "Salary", "💼", "#34d399"},
	{"bonus", "Bonus", "🎉", "#4ade80"},
	{"food", "Food", "🍽️", "#60a5fa"},
	{"transport", "Transport", "🚌", "#a78bfa"},
	{"shopping", "Shopping", "🛍️", "#f59e0b"},
	{"entertainment", "Entertainment", "🎮", "#f472b6"},
	{"utilities", "Utilities", "💡", "#fbbf24"},
	{"housing", "Housing", "🏠", "#818cf8"},
	{"health", "Health", "💊", "#f87171"},
	{"gifts", "Gifts", "🎁", "#fb7185"},
	{"other", "Other", "📦", "#94a3b8"},
}

// CategoryStyle defines the visual style for a category.
type CategoryStyle struct {
	Icon  string
	Color string
}

func getCategoryStyle(category string) CategoryStyle {
	catLower := strings.ToLower(strings.TrimSpace(category))
	for _, c := range categories {
		if c.ID == catLower {
			return CategoryStyle{Icon: c.Icon, Color: c.Color}
		}
	}
	return CategoryStyle{Icon: "📦", Color: "#94a3b8"}
}

// StatsCategoryItem is one bar of the expense breakdown chart.
type StatsCategoryItem struct {
	Category      string
	Total         decimal.Decimal
	Percentage    float64
	CategoryStyle CategoryStyle
}

var hundred = decimal.NewFromInt(100)

// buildChart turns the summary breakdown into chart rows with each
// category's share of total expense.
func buildChart(s ledger.Summary) []StatsCategoryItem {
	items := make([]StatsCategoryItem, 0, len(s.Categories))
	for _, ct := range s.Categories {
		percentage := 0.0
		if s.TotalExpense.IsPositive() {
			percentage = ct.Total.Mul(hundred).Div(s.TotalExpense).Round(1).InexactFloat64()
		}
		items = append(items, StatsCategoryItem{
			Category:      ct.Category,
			Total:         ct.Total,
			Percentage:    percentage,
			CategoryStyle: getCategoryStyle(ct.Category),
		})
	}
	return items
}
