package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/clearpath/intake/internal/domain"
	_ "modernc.org/sqlite"
)

// SQLiteStore implements Repository using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite creates a new SQLite-backed repository.
func NewSQLite(dbPath string) (Repository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create database directory: %w", err)
	}

	// Open database with WAL mode for better concurrency.
	dsn := dbPath + "?_journal=WAL&_sync=NORMAL&_busy_timeout=5000"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}

	store := &SQLiteStore{db: db}
	if err := store.initSchema(); err != nil {
		return nil, fmt.Errorf("initialize schema: %w", err)
	}

	return store, nil
}

func (s *SQLiteStore) initSchema() error {
	query := `
	PRAGMA busy_timeout = 5000;
	CREATE TABLE IF NOT EXISTS sessions (
		session_id TEXT PRIMARY KEY,
		collected_json TEXT NOT NULL,
		current_section TEXT NOT NULL,
		completion_pct INTEGER NOT NULL DEFAULT 0,
		created_at INTEGER NOT NULL,
		updated_at INTEGER NOT NULL,
		expires_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_sessions_expires ON sessions(expires_at);
	`
	if _, err := s.db.Exec(query); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

// Ping verifies database connectivity.
func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// GetSession retrieves a session by ID. Expired rows are treated as missing
// even before the sweeper removes them.
func (s *SQLiteStore) GetSession(ctx context.Context, sessionID string) (*domain.ApplicationSession, error) {
	query := `
		SELECT session_id, collected_json, current_section, completion_pct,
		       created_at, updated_at, expires_at
		FROM sessions WHERE session_id = ? AND expires_at > ?`

	row := s.db.QueryRowContext(ctx, query, sessionID, time.Now().Unix())

	sess, err := scanSession(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scan session row: %w", err)
	}
	return sess, nil
}

// PutSession creates or replaces a session record.
func (s *SQLiteStore) PutSession(ctx context.Context, session *domain.ApplicationSession) error {
	collected, err := json.Marshal(session.Collected)
	if err != nil {
		return fmt.Errorf("marshal collected data: %w", err)
	}

	query := `
	INSERT INTO sessions (session_id, collected_json, current_section, completion_pct, created_at, updated_at, expires_at)
	VALUES (?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT(session_id) DO UPDATE SET
		collected_json = excluded.collected_json,
		current_section = excluded.current_section,
		completion_pct = excluded.completion_pct,
		updated_at = excluded.updated_at,
		expires_at = excluded.expires_at`

	err = withWriteRetry(ctx, func() error {
		_, execErr := s.db.ExecContext(ctx, query,
			session.SessionID, string(collected), string(session.CurrentSection),
			session.CompletionPercentage,
			session.CreatedAt.Unix(), session.UpdatedAt.Unix(), session.ExpiresAt.Unix(),
		)
		return execErr
	})
	if err != nil {
		return fmt.Errorf("upsert session: %w", err)
	}
	return nil
}

// DeleteSession removes a session record.
func (s *SQLiteStore) DeleteSession(ctx context.Context, sessionID string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE session_id = ?`, sessionID); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// ListSessions pages through live sessions in session-ID order.
func (s *SQLiteStore) ListSessions(ctx context.Context, limit int, exclusiveStartKey string) ([]*domain.ApplicationSession, string, error) {
	if limit <= 0 {
		limit = 20
	}

	query := `
		SELECT session_id, collected_json, current_section, completion_pct,
		       created_at, updated_at, expires_at
		FROM sessions
		WHERE expires_at > ? AND session_id > ?
		ORDER BY session_id
		LIMIT ?`

	// Fetch one extra row to learn whether another page exists.
	rows, err := s.db.QueryContext(ctx, query, time.Now().Unix(), exclusiveStartKey, limit+1)
	if err != nil {
		return nil, "", fmt.Errorf("query sessions: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			slog.Warn("failed to close session rows", "error", closeErr)
		}
	}()

	var sessions []*domain.ApplicationSession
	for rows.Next() {
		sess, err := scanSession(rows)
		if err != nil {
			return nil, "", fmt.Errorf("scan session row: %w", err)
		}
		sessions = append(sessions, sess)
	}
	if err := rows.Err(); err != nil {
		return nil, "", fmt.Errorf("iterate sessions: %w", err)
	}

	nextKey := ""
	if len(sessions) > limit {
		sessions = sessions[:limit]
		nextKey = sessions[limit-1].SessionID
	}
	return sessions, nextKey, nil
}

// CleanupExpired deletes sessions past their expiry.
func (s *SQLiteStore) CleanupExpired(ctx context.Context) (int64, error) {
	result, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE expires_at <= ?`, time.Now().Unix())
	if err != nil {
		return 0, fmt.Errorf("delete expired sessions: %w", err)
	}
	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("get rows affected: %w", err)
	}
	return deleted, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("close database: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSession(row rowScanner) (*domain.ApplicationSession, error) {
	var sess domain.ApplicationSession
	var collectedJSON, section string
	var createdAt, updatedAt, expiresAt int64

	err := row.Scan(
		&sess.SessionID, &collectedJSON, &section, &sess.CompletionPercentage,
		&createdAt, &updatedAt, &expiresAt,
	)
	if err != nil {
		return nil, err
	}

	collected := domain.NewCollectedData()
	if err := json.Unmarshal([]byte(collectedJSON), collected); err != nil {
		return nil, fmt.Errorf("unmarshal collected data: %w", err)
	}
	sess.Collected = collected

	sess.CurrentSection = domain.Section(section)
	if !sess.CurrentSection.Valid() {
		sess.CurrentSection = domain.SectionPersonal
	}
	sess.CreatedAt = time.Unix(createdAt, 0)
	sess.UpdatedAt = time.Unix(updatedAt, 0)
	sess.ExpiresAt = time.Unix(expiresAt, 0)

	return &sess, nil
}
