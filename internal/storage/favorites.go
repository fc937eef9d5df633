package storage

import (
	"context"
	"fmt"

	"finance-tracker/internal/models"
)

// CreateFavorite inserts f and sets its ID.
func (db *DB) CreateFavorite(ctx context.Context, f *models.Favorite) error {
	return db.queryRow(ctx,
		"INSERT INTO favorites (user_id, name, amount, type, category) VALUES (?, ?, ?, ?, ?) RETURNING id",
		f.UserID, f.Name, f.Amount.String(), string(f.Type), f.Category,
	).Scan(&f.ID)
}

// ListFavorites retrieves a user's favorites ordered by name.
func (db *DB) ListFavorites(ctx context.Context, userID int64) ([]models.Favorite, error) {
	rows, err := db.query(ctx,
		"SELECT id, user_id, name, amount, type, category FROM favorites WHERE user_id = ? ORDER BY name ASC, id ASC",
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	favorites := []models.Favorite{}
	for rows.Next() {
		var f models.Favorite
		if err := rows.Scan(&f.ID, &f.UserID, &f.Name, &f.Amount, &f.Type, &f.Category); err != nil {
			return nil, err
		}
		favorites = append(favorites, f)
	}
	return favorites, rows.Err()
}

// DeleteFavorite removes a favorite owned by userID.
func (db *DB) DeleteFavorite(ctx context.Context, userID, id int64) error {
	res, err := db.exec(ctx, "DELETE FROM favorites WHERE id = ? AND user_id = ?", id, userID)
	if err != nil {
		return err
	}
	if err := affectedOrNotFound(res); err != nil {
		return fmt.Errorf("favorite %d: %w", id, err)
	}
	return nil
}
