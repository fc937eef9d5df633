// Package favorites keeps per-user quick-entry templates.
package favorites

import (
	"context"
	"fmt"
	"strings"

	"finance-tracker/internal/models"

	"github.com/shopspring/decimal"
)

// MaxNameLen bounds a favorite's display name.
const MaxNameLen = 100

// Store persists favorites. Every call is scoped to one user.
type Store interface {
	CreateFavorite(ctx context.Context, f *models.Favorite) error
	ListFavorites(ctx context.Context, userID int64) ([]models.Favorite, error)
	DeleteFavorite(ctx context.Context, userID, id int64) error
}

// Input describes a new favorite.
type Input struct {
	Name     string
	Amount   decimal.Decimal
	Type     models.TransactionType
	Category string
}

// Catalog manages favorites.
type Catalog struct {
	store Store
}

// New returns a Catalog on store.
func New(store Store) *Catalog {
	return &Catalog{store: store}
}

// Add saves a favorite owned by userID.
func (c *Catalog) Add(ctx context.Context, userID int64, in Input) (*models.Favorite, error) {
	name := strings.TrimSpace(in.Name)
	category := strings.TrimSpace(in.Category)
	switch {
	case name == "":
		return nil, fmt.Errorf("%w: name is required", models.ErrInvalidInput)
	case len(name) > MaxNameLen:
		return nil, fmt.Errorf("%w: name longer than %d characters", models.ErrInvalidInput, MaxNameLen)
	case category == "":
		return nil, fmt.Errorf("%w: category is required", models.ErrInvalidInput)
	case len(category) > models.MaxCategoryLen:
		return nil, fmt.Errorf("%w: category longer than %d characters", models.ErrInvalidInput, models.MaxCategoryLen)
	case !in.Type.Valid():
		return nil, fmt.Errorf("%w: type must be Income or Expense", models.ErrInvalidInput)
	case in.Amount.IsNegative():
		return nil, fmt.Errorf("%w: amount must not be negative", models.ErrInvalidAmount)
	}

	f := &models.Favorite{
		UserID:   userID,
		Name:     name,
		Amount:   in.Amount,
		Type:     in.Type,
		Category: category,
	}
	if err := c.store.CreateFavorite(ctx, f); err != nil {
		return nil, fmt.Errorf("create favorite: %w", err)
	}
	return f, nil
}

// List returns the user's favorites ordered by name.
func (c *Catalog) List(ctx context.Context, userID int64) ([]models.Favorite, error) {
	favs, err := c.store.ListFavorites(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list favorites: %w", err)
	}
	return favs, nil
}

// Delete removes a favorite owned by userID; models.ErrNotFound is a warning, not a failure.
func (c *Catalog) Delete(ctx context.Context, userID, id int64) error {
	return c.store.DeleteFavorite(ctx, userID, id)
}
