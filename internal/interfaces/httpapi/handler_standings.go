package httpapi

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/tapcycle/commander-league/internal/usecase"
)

func (h *Handler) ListMonthlyStandings(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListMonthlyStandings")
	defer span.End()

	standings, err := h.standingsService.AllMonths(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "list monthly standings failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, standings)
}

func (h *Handler) GetMonthlyStanding(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetMonthlyStanding")
	defer span.End()

	monthYear := r.PathValue("monthYear")
	standing, err := h.standingsService.Monthly(ctx, monthYear)
	if err != nil {
		h.logger.WarnContext(ctx, "get monthly standing failed", "month_year", monthYear, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, standing)
}

func (h *Handler) ListMonthWinners(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListMonthWinners")
	defer span.End()

	before := time.Now().UTC()
	if raw := strings.TrimSpace(r.URL.Query().Get("before")); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			writeError(ctx, w, fmt.Errorf("%w: before must be RFC3339: %v", usecase.ErrInvalidInput, err))
			return
		}
		before = parsed
	}

	winners, err := h.standingsService.Winners(ctx, before)
	if err != nil {
		h.logger.ErrorContext(ctx, "list month winners failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, winners)
}

func (h *Handler) GetParticipantMetrics(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetParticipantMetrics")
	defer span.End()

	participantID := r.PathValue("participantID")
	metrics, err := h.standingsService.Participant(ctx, participantID)
	if err != nil {
		h.logger.WarnContext(ctx, "get participant metrics failed", "participant_id", participantID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, metrics)
}

func (h *Handler) ListParticipantMetrics(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListParticipantMetrics")
	defer span.End()

	metrics, err := h.standingsService.AllParticipants(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "list participant metrics failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, metrics)
}

func (h *Handler) GetLeagueMetrics(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetLeagueMetrics")
	defer span.End()

	metrics, err := h.standingsService.League(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "get league metrics failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, metrics)
}
