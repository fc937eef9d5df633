// Package ledger owns a user's income and expense transactions and the
// aggregates derived from them.
package ledger

import (
	"context"
	"fmt"
	"strings"
	"time"

	"finance-tracker/internal/models"

	"github.com/shopspring/decimal"
)

// Column limits shared with the schema.
const (
	MaxCategoryLen    = models.MaxCategoryLen
	MaxDescriptionLen = 200
)

// Store persists transactions. Every call is scoped to one user.
type Store interface {
	CreateTransaction(ctx context.Context, t *models.Transaction) error
	ListTransactions(ctx context.Context, userID int64, on *models.Date) ([]models.Transaction, error)
	UpdateTransaction(ctx context.Context, userID, id int64, u models.TransactionUpdate) error
	DeleteTransaction(ctx context.Context, userID, id int64) error
	DeleteAllTransactions(ctx context.Context, userID int64) (int64, error)
}

// AddInput is a validated request to record a transaction. A nil Date means today.
type AddInput struct {
	Type        models.TransactionType
	Category    string
	Description string
	Amount      decimal.Decimal
	Date        *models.Date
}

// EditInput replaces type, amount and category. Nil Description or Date keep the stored value.
type EditInput struct {
	Type        models.TransactionType
	Category    string
	Description *string
	Amount      decimal.Decimal
	Date        *models.Date
}

// Ledger records transactions for users.
type Ledger struct {
	store Store
	now   func() time.Time
}

// New returns a Ledger on store.
func New(store Store) *Ledger {
	return &Ledger{store: store, now: time.Now}
}

// WithClock returns a copy of l that reads the current time from now.
func (l *Ledger) WithClock(now func() time.Time) *Ledger {
	return &Ledger{store: l.store, now: now}
}

// Today is the server-local calendar day, computed on every call.
func (l *Ledger) Today() models.Date {
	return models.DateOf(l.now())
}

// Add records a transaction owned by userID.
func (l *Ledger) Add(ctx context.Context, userID int64, in AddInput) (*models.Transaction, error) {
	category := strings.TrimSpace(in.Category)
	if err := validate(in.Type, category, in.Description, in.Amount); err != nil {
		return nil, err
	}

	date := l.Today()
	if in.Date != nil {
		date = *in.Date
	}

	t := &models.Transaction{
		UserID:      userID,
		Type:        in.Type,
		Category:    category,
		Description: in.Description,
		Amount:      in.Amount,
		Date:        date,
	}
	if err := l.store.CreateTransaction(ctx, t); err != nil {
		return nil, fmt.Errorf("create transaction: %w", err)
	}
	return t, nil
}

// List returns the user's transactions, newest first. A non-nil on keeps only that day.
func (l *Ledger) List(ctx context.Context, userID int64, on *models.Date) ([]models.Transaction, error) {
	transactions, err := l.store.ListTransactions(ctx, userID, on)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	return transactions, nil
}

// Edit updates a transaction owned by userID. It returns models.ErrNotFound
// when no such transaction belongs to the user.
func (l *Ledger) Edit(ctx context.Context, userID, id int64, in EditInput) error {
	category := strings.TrimSpace(in.Category)
	description := ""
	if in.Description != nil {
		description = *in.Description
	}
	if err := validate(in.Type, category, description, in.Amount); err != nil {
		return err
	}

	return l.store.UpdateTransaction(ctx, userID, id, models.TransactionUpdate{
		Type:        in.Type,
		Amount:      in.Amount,
		Category:    category,
		Description: in.Description,
		Date:        in.Date,
	})
}

// Delete removes a transaction owned by userID. A models.ErrNotFound result
// means nothing was removed and is safe to report as a warning.
func (l *Ledger) Delete(ctx context.Context, userID, id int64) error {
	return l.store.DeleteTransaction(ctx, userID, id)
}

// ClearAll removes every transaction owned by userID and reports how many went.
func (l *Ledger) ClearAll(ctx context.Context, userID int64) (int64, error) {
	n, err := l.store.DeleteAllTransactions(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("clear transactions: %w", err)
	}
	return n, nil
}

func validate(typ models.TransactionType, category, description string, amount decimal.Decimal) error {
	if !typ.Valid() {
		return fmt.Errorf("%w: type must be Income or Expense", models.ErrInvalidInput)
	}
	if category == "" {
		return fmt.Errorf("%w: category is required", models.ErrInvalidInput)
	}
	if len(category) > MaxCategoryLen {
		return fmt.Errorf("%w: category longer than %d characters", models.ErrInvalidInput, MaxCategoryLen)
	}
	if len(description) > MaxDescriptionLen {
		return fmt.Errorf("%w: description longer than %d characters", models.ErrInvalidInput, MaxDescriptionLen)
	}
	if amount.IsNegative() {
		return fmt.Errorf("%w: amount must not be negative", models.ErrInvalidAmount)
	}
	return nil
}
