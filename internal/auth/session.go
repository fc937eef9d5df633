package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"finance-tracker/internal/models"
)

// DefaultSessionDuration is how long sessions last (30 days).
const DefaultSessionDuration = 30 * 24 * time.Hour

// SessionStore persists sessions. GetSession must not return expired sessions
// and reports missing ones with models.ErrNotFound.
type SessionStore interface {
	CreateSession(ctx context.Context, s models.Session) error
	GetSession(ctx context.Context, token string) (*models.Session, error)
	RenewSession(ctx context.Context, token string, expiresAt time.Time) error
	DeleteSession(ctx context.Context, token string) error
	CleanExpiredSessions(ctx context.Context) (int64, error)
}

// Sessions issues and resolves login sessions.
type Sessions struct {
	store    SessionStore
	users    UserStore
	duration time.Duration
	now      func() time.Time
}

// NewSessions returns a session manager. A non-positive duration means DefaultSessionDuration.
func NewSessions(store SessionStore, users UserStore, duration time.Duration) *Sessions {
	if duration <= 0 {
		duration = DefaultSessionDuration
	}
	return &Sessions{store: store, users: users, duration: duration, now: time.Now}
}

// Duration returns the session lifetime.
func (s *Sessions) Duration() time.Duration {
	return s.duration
}

// Start creates a session for userID.
func (s *Sessions) Start(ctx context.Context, userID int64) (*models.Session, error) {
	token, err := GenerateSessionToken()
	if err != nil {
		return nil, err
	}
	now := s.now()
	session := models.Session{
		Token:        token,
		UserID:       userID,
		ExpiresAt:    now.Add(s.duration),
		LastActivity: now,
	}
	if err := s.store.CreateSession(ctx, session); err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}
	return &session, nil
}

// Resolve returns the user behind token.
//
// Sessions roll: once a session is past the halfway point of its lifetime it is
// extended, and renewed is true so the caller can refresh the cookie.
func (s *Sessions) Resolve(ctx context.Context, token string) (user *models.User, renewed bool, err error) {
	if token == "" {
		return nil, false, models.ErrUnauthenticated
	}

	session, err := s.store.GetSession(ctx, token)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, false, models.ErrUnauthenticated
		}
		return nil, false, fmt.Errorf("get session: %w", err)
	}

	user, err = s.users.GetUserByID(ctx, session.UserID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, false, models.ErrUnauthenticated
		}
		return nil, false, fmt.Errorf("get session user: %w", err)
	}

	now := s.now()
	if session.ExpiresAt.Sub(now) < s.duration/2 {
		// A failed renewal leaves the current session usable.
		if err := s.store.RenewSession(ctx, token, now.Add(s.duration)); err == nil {
			renewed = true
		}
	}
	return user, renewed, nil
}

// End deletes the session behind token.
func (s *Sessions) End(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	return s.store.DeleteSession(ctx, token)
}

// Sweep removes expired sessions.
func (s *Sessions) Sweep(ctx context.Context) (int64, error) {
	return s.store.CleanExpiredSessions(ctx)
}
