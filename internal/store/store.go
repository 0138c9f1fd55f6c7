// Package store provides data persistence interfaces and implementations.
package store

import (
	"context"

	"github.com/clearpath/intake/internal/domain"
)

// Repository defines the interface for persisting application sessions.
type Repository interface {
	// GetSession retrieves a session by ID. Returns (nil, nil) when the
	// session does not exist or has expired.
	GetSession(ctx context.Context, sessionID string) (*domain.ApplicationSession, error)

	// PutSession creates or replaces a session record. Last write wins.
	PutSession(ctx context.Context, session *domain.ApplicationSession) error

	// DeleteSession removes a session. Deleting a missing session is not an
	// error.
	DeleteSession(ctx context.Context, sessionID string) error

	// ListSessions returns up to limit live sessions ordered by session ID,
	// starting after exclusiveStartKey. nextKey is non-empty when more rows
	// remain.
	ListSessions(ctx context.Context, limit int, exclusiveStartKey string) (sessions []*domain.ApplicationSession, nextKey string, err error)

	// CleanupExpired deletes sessions past their expiry and reports how many
	// were removed.
	CleanupExpired(ctx context.Context) (int64, error)

	// Ping verifies database connectivity.
	Ping(ctx context.Context) error

	// Close closes the database connection.
	Close() error
}
