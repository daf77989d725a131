package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"time"

	sonic "github.com/bytedance/sonic"

	"github.com/tapcycle/commander-league/internal/domain/session"
	"github.com/tapcycle/commander-league/internal/usecase"
)

func (h *Handler) ListSessions(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListSessions")
	defer span.End()

	sessions, err := h.sessionService.List(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "list sessions failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]sessionDTO, 0, len(sessions))
	for _, s := range sessions {
		items = append(items, sessionToDTO(ctx, s))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) GetSession(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetSession")
	defer span.End()

	sessionID := r.PathValue("sessionID")
	detail, err := h.sessionService.Get(ctx, sessionID)
	if err != nil {
		h.logger.WarnContext(ctx, "get session failed", "session_id", sessionID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, sessionDetailToDTO(ctx, detail))
}

func (h *Handler) GetOpenSession(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetOpenSession")
	defer span.End()

	detail, err := h.sessionService.GetOpen(ctx)
	if err != nil {
		h.logger.WarnContext(ctx, "get open session failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, sessionDetailToDTO(ctx, detail))
}

func (h *Handler) OpenSession(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.OpenSession")
	defer span.End()

	var req openSessionRequest
	decoder := sonic.ConfigDefault.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeError(ctx, w, fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err))
		return
	}

	date := time.Now().UTC()
	if req.Date != "" {
		parsed, err := time.Parse(time.RFC3339, req.Date)
		if err != nil {
			writeError(ctx, w, fmt.Errorf("%w: date must be RFC3339: %v", usecase.ErrInvalidInput, err))
			return
		}
		date = parsed
	}

	detail, err := h.sessionService.Open(ctx, date)
	if err != nil {
		h.logger.WarnContext(ctx, "open session failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, sessionDetailToDTO(ctx, detail))
}

func (h *Handler) ForceCloseSession(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ForceCloseSession")
	defer span.End()

	sessionID := r.PathValue("sessionID")
	if err := h.sessionService.ForceClose(ctx, sessionID); err != nil {
		h.logger.WarnContext(ctx, "force close session failed", "session_id", sessionID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"session_id": sessionID})
}

type openSessionRequest struct {
	Date string `json:"date"`
}

type sessionDTO struct {
	ID        string `json:"id"`
	MonthYear string `json:"monthYear"`
	Date      string `json:"date"`
	Closed    bool   `json:"closed"`
	CreatedAt string `json:"createdAt"`
}

type sessionDetailDTO struct {
	Session sessionDTO `json:"session"`
	Rounds  []roundDTO `json:"rounds"`
}

type roundDTO struct {
	ID        string `json:"id"`
	SessionID string `json:"sessionId"`
	Number    int    `json:"number"`
	Completed bool   `json:"completed"`
	StartedAt string `json:"startedAt"`
}

func sessionToDTO(ctx context.Context, v session.Session) sessionDTO {
	ctx, span := startSpan(ctx, "httpapi.sessionToDTO")
	defer span.End()

	return sessionDTO{
		ID:        v.ID,
		MonthYear: v.MonthYear,
		Date:      v.Date.UTC().Format(time.RFC3339),
		Closed:    v.Closed,
		CreatedAt: v.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func sessionDetailToDTO(ctx context.Context, v usecase.SessionDetail) sessionDetailDTO {
	ctx, span := startSpan(ctx, "httpapi.sessionDetailToDTO")
	defer span.End()

	rounds := make([]roundDTO, 0, len(v.Rounds))
	for _, round := range v.Rounds {
		rounds = append(rounds, roundToDTO(ctx, round))
	}

	return sessionDetailDTO{
		Session: sessionToDTO(ctx, v.Session),
		Rounds:  rounds,
	}
}

func roundToDTO(ctx context.Context, v session.Round) roundDTO {
	ctx, span := startSpan(ctx, "httpapi.roundToDTO")
	defer span.End()

	return roundDTO{
		ID:        v.ID,
		SessionID: v.SessionID,
		Number:    v.Number,
		Completed: v.Completed,
		StartedAt: v.StartedAt.UTC().Format(time.RFC3339),
	}
}
