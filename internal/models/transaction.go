package models

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// TransactionType tells income from expense.
type TransactionType string

const (
	Income  TransactionType = "Income"
	Expense TransactionType = "Expense"
)

// ParseTransactionType accepts "income"/"expense" in any case.
func ParseTransactionType(s string) (TransactionType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "income":
		return Income, nil
	case "expense":
		return Expense, nil
	}
	return "", fmt.Errorf("%w: type must be Income or Expense, got %q", ErrInvalidInput, s)
}

// Valid reports whether t is Income or Expense.
func (t TransactionType) Valid() bool {
	return t == Income || t == Expense
}

// MaxCategoryLen bounds a category name for transactions and favorites alike.
const MaxCategoryLen = 50

// amountPattern is plain positional notation: at most 15 integer and 8 fractional digits, no exponent.
var amountPattern = regexp.MustCompile(`^\d{1,15}(\.\d{1,8})?$`)

// ParseAmount parses a non-negative decimal amount. Both "12.5" and "12,5" are accepted.
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", ".")
	if s == "" {
		return decimal.Zero, fmt.Errorf("%w: amount is required", ErrInvalidAmount)
	}
	if strings.HasPrefix(s, "-") {
		return decimal.Zero, fmt.Errorf("%w: amount must not be negative", ErrInvalidAmount)
	}
	if !amountPattern.MatchString(s) {
		return decimal.Zero, fmt.Errorf("%w: %q is not a plain number", ErrInvalidAmount, s)
	}
	amount, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q is not a number", ErrInvalidAmount, s)
	}
	return amount, nil
}

// Transaction is a single income or expense record owned by one user.
type Transaction struct {
	ID          int64           `json:"id"`
	UserID      int64           `json:"user_id"`
	Type        TransactionType `json:"type"`
	Category    string          `json:"category"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	Date        Date            `json:"date"`
}

// IsIncome reports whether the transaction adds to the balance.
func (t Transaction) IsIncome() bool {
	return t.Type == Income
}

// TransactionUpdate carries an edit. Nil pointers keep the stored value.
type TransactionUpdate struct {
	Type        TransactionType
	Amount      decimal.Decimal
	Category    string
	Description *string
	Date        *Date
}

// Favorite is a saved quick-entry template.
type Favorite struct {
	ID       int64           `json:"id"`
	UserID   int64           `json:"user_id"`
	Name     string          `json:"name"`
	Amount   decimal.Decimal `json:"amount"`
	Type     TransactionType `json:"type"`
	Category string          `json:"category"`
}
