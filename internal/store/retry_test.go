package store

import (
	"context"
	"errors"
	"testing"
)

func TestIsConflict(t *testing.T) {
	tests := []struct {
		err  error
		want bool
	}{
		{nil, false},
		{errors.New("SQLITE_BUSY: database is busy"), true},
		{errors.New("database is locked"), true},
		{errors.New("constraint failed"), false},
	}
	for _, tt := range tests {
		if got := isConflict(tt.err); got != tt.want {
			t.Errorf("isConflict(%v) = %v, want %v", tt.err, got, tt.want)
		}
	}
}

func TestWithWriteRetryRecoversFromTransientLock(t *testing.T) {
	calls := 0
	err := withWriteRetry(context.Background(), func() error {
		calls++
		if calls == 1 {
			return errors.New("database is locked")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Expected retry to recover, got %v", err)
	}
	if calls != 2 {
		t.Errorf("Expected 2 attempts, got %d", calls)
	}
}

func TestWithWriteRetryPassesThroughOtherErrors(t *testing.T) {
	calls := 0
	want := errors.New("constraint failed")
	err := withWriteRetry(context.Background(), func() error {
		calls++
		return want
	})
	if !errors.Is(err, want) {
		t.Errorf("Expected error passthrough, got %v", err)
	}
	if calls != 1 {
		t.Errorf("Expected a single attempt for non-conflict errors, got %d", calls)
	}
}
