package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"finance-tracker/internal/models"
)

// Session times are stored as unix milliseconds so both dialects compare them the same way.

// CreateSession stores a new session.
func (db *DB) CreateSession(ctx context.Context, s models.Session) error {
	if s.LastActivity.IsZero() {
		s.LastActivity = time.Now()
	}
	_, err := db.exec(ctx,
		"INSERT INTO sessions (token, user_id, expires_at, last_activity) VALUES (?, ?, ?, ?)",
		s.Token, s.UserID, s.ExpiresAt.UnixMilli(), s.LastActivity.UnixMilli(),
	)
	return err
}

// GetSession returns an unexpired session by token.
func (db *DB) GetSession(ctx context.Context, token string) (*models.Session, error) {
	row := db.queryRow(ctx,
		"SELECT token, user_id, expires_at, last_activity FROM sessions WHERE token = ? AND expires_at > ?",
		token, time.Now().UnixMilli(),
	)

	var s models.Session
	var expiresAt, lastActivity int64
	if err := row.Scan(&s.Token, &s.UserID, &expiresAt, &lastActivity); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("session: %w", errNotFound)
		}
		return nil, err
	}
	s.ExpiresAt = time.UnixMilli(expiresAt)
	s.LastActivity = time.UnixMilli(lastActivity)
	return &s, nil
}

// RenewSession updates the last_activity and expires_at for a session.
func (db *DB) RenewSession(ctx context.Context, token string, expiresAt time.Time) error {
	res, err := db.exec(ctx,
		"UPDATE sessions SET last_activity = ?, expires_at = ? WHERE token = ?",
		time.Now().UnixMilli(), expiresAt.UnixMilli(), token,
	)
	if err != nil {
		return err
	}
	return affectedOrNotFound(res)
}

// DeleteSession removes a session by token.
func (db *DB) DeleteSession(ctx context.Context, token string) error {
	_, err := db.exec(ctx, "DELETE FROM sessions WHERE token = ?", token)
	return err
}

// CleanExpiredSessions removes all expired sessions and reports how many were removed.
func (db *DB) CleanExpiredSessions(ctx context.Context) (int64, error) {
	res, err := db.exec(ctx, "DELETE FROM sessions WHERE expires_at <= ?", time.Now().UnixMilli())
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
