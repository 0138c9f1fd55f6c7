package store

import (
	"context"
	"strings"
	"time"
)

const (
	writeRetries    = 3
	writeRetryDelay = 50 * time.Millisecond
)

// isConflict reports whether err is a SQLite concurrency error
// (SQLITE_BUSY or "database is locked"). These warrant a retry.
func isConflict(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "SQLITE_BUSY") || strings.Contains(msg, "database is locked")
}

// withWriteRetry runs fn, retrying a few times when the database is
// briefly locked by a concurrent writer.
func withWriteRetry(ctx context.Context, fn func() error) error {
	var err error
	for attempt := 0; attempt < writeRetries; attempt++ {
		if err = fn(); !isConflict(err) {
			return err
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(writeRetryDelay):
		}
	}
	return err
}
