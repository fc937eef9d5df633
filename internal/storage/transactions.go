package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"finance-tracker/internal/models"
)

const transactionColumns = "id, user_id, type, category, description, amount, date"

// CreateTransaction inserts t and sets its ID.
func (db *DB) CreateTransaction(ctx context.Context, t *models.Transaction) error {
	return db.queryRow(ctx,
		`INSERT INTO transactions (user_id, type, category, description, amount, date)
		VALUES (?, ?, ?, ?, ?, ?) RETURNING id`,
		t.UserID, string(t.Type), t.Category, t.Description, t.Amount.String(), t.Date.String(),
	).Scan(&t.ID)
}

// GetTransaction retrieves a transaction owned by userID.
func (db *DB) GetTransaction(ctx context.Context, userID, id int64) (*models.Transaction, error) {
	row := db.queryRow(ctx,
		"SELECT "+transactionColumns+" FROM transactions WHERE id = ? AND user_id = ?",
		id, userID,
	)
	t, err := scanTransaction(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("transaction %d: %w", id, errNotFound)
		}
		return nil, err
	}
	return t, nil
}

// ListTransactions retrieves a user's transactions ordered by date descending.
// A non-nil on restricts the result to that exact day.
func (db *DB) ListTransactions(ctx context.Context, userID int64, on *models.Date) ([]models.Transaction, error) {
	query := "SELECT " + transactionColumns + " FROM transactions WHERE user_id = ?"
	args := []any{userID}
	if on != nil {
		query += " AND date = ?"
		args = append(args, on.String())
	}
	query += " ORDER BY date DESC, id DESC"

	rows, err := db.query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	transactions := []models.Transaction{}
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		transactions = append(transactions, *t)
	}

	return transactions, rows.Err()
}

// UpdateTransaction applies u to a transaction owned by userID in a single statement.
// Nil Description or Date keep the stored value.
func (db *DB) UpdateTransaction(ctx context.Context, userID, id int64, u models.TransactionUpdate) error {
	res, err := db.exec(ctx,
		`UPDATE transactions
		SET type = ?, amount = ?, category = ?,
			description = COALESCE(?, description),
			date = COALESCE(?, date)
		WHERE id = ? AND user_id = ?`,
		string(u.Type), u.Amount.String(), u.Category, u.Description, nullableDate(u.Date), id, userID,
	)
	if err != nil {
		return err
	}
	if err := affectedOrNotFound(res); err != nil {
		return fmt.Errorf("transaction %d: %w", id, err)
	}
	return nil
}

// DeleteTransaction removes a transaction owned by userID.
func (db *DB) DeleteTransaction(ctx context.Context, userID, id int64) error {
	res, err := db.exec(ctx, "DELETE FROM transactions WHERE id = ? AND user_id = ?", id, userID)
	if err != nil {
		return err
	}
	if err := affectedOrNotFound(res); err != nil {
		return fmt.Errorf("transaction %d: %w", id, err)
	}
	return nil
}

// DeleteAllTransactions removes every transaction owned by userID.
func (db *DB) DeleteAllTransactions(ctx context.Context, userID int64) (int64, error) {
	res, err := db.exec(ctx, "DELETE FROM transactions WHERE user_id = ?", userID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// nullableDate passes dates as plain YYYY-MM-DD text, or NULL when absent.
func nullableDate(d *models.Date) any {
	if d == nil {
		return nil
	}
	return d.String()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanTransaction(s scanner) (*models.Transaction, error) {
	var t models.Transaction
	if err := s.Scan(&t.ID, &t.UserID, &t.Type, &t.Category, &t.Description, &t.Amount, &t.Date); err != nil {
		return nil, err
	}
	return &t, nil
}
