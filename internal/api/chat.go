package api

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/clearpath/intake/internal/agent"
	"github.com/clearpath/intake/internal/domain"
	"github.com/clearpath/intake/internal/llm"
)

const (
	defaultListLimit = 20
	maxListLimit     = 100
)

// RegisterRoutes registers the chat endpoints.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/chat", func(r chi.Router) {
		r.Post("/initialize", h.Initialize)
		r.Post("/send", h.Send)
		r.Get("/state/{sessionID}", h.State)
		r.Post("/reset/{sessionID}", h.Reset)
		r.Get("/sessions", h.ListSessions)
	})
}

type sendRequest struct {
	SessionID string `json:"sessionId"`
	Message   string `json:"message"`
}

type initializeResponse struct {
	SessionID            string                `json:"sessionId"`
	Message              string                `json:"message"`
	CollectedData        *domain.CollectedData `json:"collectedData"`
	CurrentSection       domain.Section        `json:"currentSection"`
	CompletionPercentage int                   `json:"completionPercentage"`
}

type sendResponse struct {
	Message              string                `json:"message"`
	CollectedData        *domain.CollectedData `json:"collectedData"`
	CurrentSection       domain.Section        `json:"currentSection"`
	CompletionPercentage int                   `json:"completionPercentage"`
	SectionComplete      bool                  `json:"sectionComplete"`
	ApplicationComplete  bool                  `json:"applicationComplete"`
	Summary              string                `json:"summary,omitempty"`
}

// Initialize creates a new session.
func (h *Handler) Initialize(w http.ResponseWriter, r *http.Request) {
	result, err := h.svc.Initialize(r.Context())
	if err != nil {
		slog.Error("Failed to initialize session", "error", err)
		Error(w, http.StatusInternalServerError, "Failed to initialize session")
		return
	}
	JSON(w, http.StatusOK, initializeResult(result))
}

// Send processes one user message for a session.
func (h *Handler) Send(w http.ResponseWriter, r *http.Request) {
	var req sendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.SessionID == "" {
		Error(w, http.StatusBadRequest, "sessionId is required")
		return
	}
	if req.Message == "" {
		Error(w, http.StatusBadRequest, "message is required")
		return
	}

	result, err := h.svc.Send(r.Context(), req.SessionID, req.Message)
	if err != nil {
		h.writeSendError(w, req.SessionID, err)
		return
	}

	JSON(w, http.StatusOK, sendResponse{
		Message:              result.Message,
		CollectedData:        result.Collected,
		CurrentSection:       result.CurrentSection,
		CompletionPercentage: result.CompletionPercentage,
		SectionComplete:      result.SectionComplete,
		ApplicationComplete:  result.ApplicationComplete,
		Summary:              result.Summary,
	})
}

// writeSendError maps turn failures onto the API error taxonomy.
func (h *Handler) writeSendError(w http.ResponseWriter, sessionID string, err error) {
	switch {
	case errors.Is(err, agent.ErrSessionNotFound):
		Error(w, http.StatusNotFound, "Session not found")
	case errors.Is(err, llm.ErrAuth):
		slog.Error("Provider authentication failed", "session_id", sessionID, "error", err)
		Error(w, http.StatusUnauthorized, "Authentication with the language model provider failed")
	case errors.Is(err, llm.ErrRateLimited):
		slog.Warn("Provider throttling", "session_id", sessionID, "error", err)
		Error(w, http.StatusTooManyRequests, "The language model provider is throttling requests, please try again shortly")
	default:
		slog.Error("Failed to process message", "session_id", sessionID, "error", err)
		Error(w, http.StatusInternalServerError, "Failed to process message")
	}
}

// State returns the persisted state of a session.
func (h *Handler) State(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	sess, err := h.svc.State(r.Context(), sessionID)
	if err != nil {
		if errors.Is(err, agent.ErrSessionNotFound) {
			Error(w, http.StatusNotFound, "Session not found")
			return
		}
		slog.Error("Failed to load session state", "session_id", sessionID, "error", err)
		Error(w, http.StatusInternalServerError, "Failed to load session state")
		return
	}

	JSON(w, http.StatusOK, map[string]interface{}{
		"sessionId":            sess.SessionID,
		"collectedData":        sess.Collected,
		"currentSection":       sess.CurrentSection,
		"completionPercentage": sess.CompletionPercentage,
		"updatedAt":            sess.UpdatedAt,
	})
}

// Reset discards a session and returns a fresh one.
func (h *Handler) Reset(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	result, err := h.svc.Reset(r.Context(), sessionID)
	if err != nil {
		slog.Error("Failed to reset session", "session_id", sessionID, "error", err)
		Error(w, http.StatusInternalServerError, "Failed to reset session")
		return
	}
	JSON(w, http.StatusOK, initializeResult(result))
}

// ListSessions pages through live sessions. The pagination cursor is opaque
// to clients: a base64-wrapped store key.
func (h *Handler) ListSessions(w http.ResponseWriter, r *http.Request) {
	limit := defaultListLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			Error(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = n
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}

	startKey := ""
	if raw := r.URL.Query().Get("exclusiveStartKey"); raw != "" {
		decoded, err := base64.StdEncoding.DecodeString(raw)
		if err != nil {
			Error(w, http.StatusBadRequest, "invalid exclusiveStartKey")
			return
		}
		startKey = string(decoded)
	}

	sessions, nextKey, err := h.svc.List(r.Context(), limit, startKey)
	if err != nil {
		slog.Error("Failed to list sessions", "error", err)
		Error(w, http.StatusInternalServerError, "Failed to list sessions")
		return
	}

	items := make([]map[string]interface{}, 0, len(sessions))
	for _, sess := range sessions {
		items = append(items, map[string]interface{}{
			"sessionId":            sess.SessionID,
			"currentSection":       sess.CurrentSection,
			"completionPercentage": sess.CompletionPercentage,
			"createdAt":            sess.CreatedAt,
			"updatedAt":            sess.UpdatedAt,
		})
	}

	nextToken := ""
	if nextKey != "" {
		nextToken = base64.StdEncoding.EncodeToString([]byte(nextKey))
	}

	JSON(w, http.StatusOK, map[string]interface{}{
		"sessions":  items,
		"nextToken": nextToken,
		"count":     len(items),
		"limit":     limit,
	})
}

func initializeResult(result *agent.TurnResult) initializeResponse {
	return initializeResponse{
		SessionID:            result.SessionID,
		Message:              result.Message,
		CollectedData:        result.Collected,
		CurrentSection:       result.CurrentSection,
		CompletionPercentage: result.CompletionPercentage,
	}
}
