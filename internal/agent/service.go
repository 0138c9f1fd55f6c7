package agent

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/clearpath/intake/internal/domain"
	"github.com/clearpath/intake/internal/llm"
	"github.com/clearpath/intake/internal/metrics"
	"github.com/clearpath/intake/internal/store"
)

// ErrSessionNotFound is returned when a session ID has no live record.
var ErrSessionNotFound = errors.New("session not found")

const welcomeMessage = "Welcome! I'm here to help you complete your financial application. " +
	"We'll go through a few short sections, starting with your personal details. " +
	"To begin, what's your full name?"

var replyParams = llm.Params{Temperature: 0.7, MaxTokens: 500, TopP: 0.9}

// Service runs one conversation turn end to end: load, extract, reply,
// advance, persist. It holds no per-session state; every request rebuilds
// the agent from the repository.
type Service struct {
	repo      store.Repository
	completer llm.Completer
	recorder  *metrics.Recorder
	ttl       time.Duration
}

// NewService wires the turn orchestrator. recorder may be nil.
func NewService(repo store.Repository, completer llm.Completer, recorder *metrics.Recorder, ttl time.Duration) *Service {
	return &Service{
		repo:      repo,
		completer: completer,
		recorder:  recorder,
		ttl:       ttl,
	}
}

// TurnResult is the outcome of initialize and reset.
type TurnResult struct {
	SessionID            string
	Message              string
	Collected            *domain.CollectedData
	CurrentSection       domain.Section
	CompletionPercentage int
}

// SendResult is the outcome of one send-message turn.
type SendResult struct {
	Message              string
	Collected            *domain.CollectedData
	CurrentSection       domain.Section
	CompletionPercentage int
	SectionComplete      bool
	ApplicationComplete  bool
	Summary              string
}

// Initialize creates a fresh session and returns the opening message.
func (s *Service) Initialize(ctx context.Context) (*TurnResult, error) {
	a := New()
	sess := s.newSession(a)
	if err := s.repo.PutSession(ctx, sess); err != nil {
		return nil, fmt.Errorf("persist new session: %w", err)
	}

	slog.Info("Session initialized", "session_id", sess.SessionID)
	return &TurnResult{
		SessionID:            sess.SessionID,
		Message:              welcomeMessage,
		Collected:            a.Data,
		CurrentSection:       a.Section,
		CompletionPercentage: a.CompletionPercentage(),
	}, nil
}

// Send processes one user message: extraction, conversational reply,
// completion checks, persistence.
func (s *Service) Send(ctx context.Context, sessionID, message string) (*SendResult, error) {
	sess, err := s.repo.GetSession(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	if sess == nil {
		return nil, ErrSessionNotFound
	}

	a := Rehydrate(sess)

	ApplyPatterns(a, message)

	// Model-assisted extraction failures are swallowed: the conversation
	// continues with whatever was already collected.
	if s.completer != nil && len(a.MissingFields()) > 0 {
		started := time.Now()
		if err := ExtractWithModel(ctx, s.completer, a, message); err != nil {
			s.recorder.ObserveModelCall("extraction", "error", time.Since(started))
			slog.Warn("Extraction failed, continuing without update", "session_id", sessionID, "error", err)
		} else {
			s.recorder.ObserveModelCall("extraction", "success", time.Since(started))
		}
	}

	reply, err := s.reply(ctx, a, message)
	if err != nil {
		s.recorder.ObserveTurn("error")
		return nil, err
	}

	sectionDone := a.SectionComplete()
	applicationDone := false
	summary := ""
	if sectionDone {
		if a.Section == domain.SectionFamily {
			applicationDone = true
			summary = a.Summary()
		} else {
			a.Advance()
		}
	}

	s.syncSession(sess, a)
	if err := s.repo.PutSession(ctx, sess); err != nil {
		s.recorder.ObserveTurn("error")
		return nil, fmt.Errorf("persist session: %w", err)
	}

	s.recorder.ObserveTurn("success")
	return &SendResult{
		Message:              reply,
		Collected:            a.Data,
		CurrentSection:       a.Section,
		CompletionPercentage: sess.CompletionPercentage,
		SectionComplete:      sectionDone,
		ApplicationComplete:  applicationDone,
		Summary:              summary,
	}, nil
}

func (s *Service) reply(ctx context.Context, a *Agent, message string) (string, error) {
	if s.completer == nil {
		return "", fmt.Errorf("no completion service configured")
	}
	started := time.Now()
	reply, err := s.completer.Complete(ctx, a.SystemPrompt(), message, replyParams)
	if err != nil {
		s.recorder.ObserveModelCall("reply", "error", time.Since(started))
		return "", err
	}
	s.recorder.ObserveModelCall("reply", "success", time.Since(started))
	return reply, nil
}

// State returns the persisted view of a session.
func (s *Service) State(ctx context.Context, sessionID string) (*domain.ApplicationSession, error) {
	sess, err := s.repo.GetSession(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	if sess == nil {
		return nil, ErrSessionNotFound
	}
	return sess, nil
}

// Reset discards a session and starts a new one under a fresh identifier.
// The old record is deleted even if it had already expired.
func (s *Service) Reset(ctx context.Context, sessionID string) (*TurnResult, error) {
	if err := s.repo.DeleteSession(ctx, sessionID); err != nil {
		return nil, fmt.Errorf("delete session: %w", err)
	}
	slog.Info("Session reset", "old_session_id", sessionID)
	return s.Initialize(ctx)
}

// List pages through live sessions.
func (s *Service) List(ctx context.Context, limit int, exclusiveStartKey string) ([]*domain.ApplicationSession, string, error) {
	return s.repo.ListSessions(ctx, limit, exclusiveStartKey)
}

func (s *Service) newSession(a *Agent) *domain.ApplicationSession {
	now := time.Now()
	return &domain.ApplicationSession{
		SessionID:            uuid.NewString(),
		Collected:            a.Data,
		CurrentSection:       a.Section,
		CompletionPercentage: a.CompletionPercentage(),
		CreatedAt:            now,
		UpdatedAt:            now,
		ExpiresAt:            now.Add(s.ttl),
	}
}

// syncSession writes the agent's state back onto the persisted record and
// refreshes the expiry window.
func (s *Service) syncSession(sess *domain.ApplicationSession, a *Agent) {
	now := time.Now()
	sess.Collected = a.Data
	sess.CurrentSection = a.Section
	sess.CompletionPercentage = a.CompletionPercentage()
	sess.UpdatedAt = now
	sess.ExpiresAt = now.Add(s.ttl)
}
