package httpapi

import (
	"context"
	"fmt"
	"net/http"

	sonic "github.com/bytedance/sonic"

	"github.com/tapcycle/commander-league/internal/usecase"
)

func (h *Handler) GetRound(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetRound")
	defer span.End()

	roundID := r.PathValue("roundID")
	detail, err := h.roundService.Get(ctx, roundID)
	if err != nil {
		h.logger.WarnContext(ctx, "get round failed", "round_id", roundID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, roundDetailToDTO(ctx, detail))
}

func (h *Handler) SeedRoundPods(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SeedRoundPods")
	defer span.End()

	roundID := r.PathValue("roundID")
	detail, err := h.roundService.SeedPods(ctx, roundID)
	if err != nil {
		h.logger.WarnContext(ctx, "seed pods failed", "round_id", roundID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, roundDetailToDTO(ctx, detail))
}

func (h *Handler) RerollRoundPods(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RerollRoundPods")
	defer span.End()

	roundID := r.PathValue("roundID")
	var req rerollRequest
	decoder := sonic.ConfigDefault.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeError(ctx, w, fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err))
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	detail, err := h.roundService.Reroll(ctx, roundID, req.ParticipantIDs)
	if err != nil {
		h.logger.WarnContext(ctx, "reroll pods failed", "round_id", roundID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, roundDetailToDTO(ctx, detail))
}

type rerollRequest struct {
	ParticipantIDs []string `json:"participant_ids" validate:"required,min=1,dive,required"`
}

type roundDetailDTO struct {
	Round roundDTO `json:"round"`
	Pods  []podDTO `json:"pods"`
}

type podDTO struct {
	ID             string   `json:"id"`
	Submitted      bool     `json:"submitted"`
	ParticipantIDs []string `json:"participantIds"`
}

func roundDetailToDTO(ctx context.Context, v usecase.RoundDetail) roundDetailDTO {
	ctx, span := startSpan(ctx, "httpapi.roundDetailToDTO")
	defer span.End()

	pods := make([]podDTO, 0, len(v.Pods))
	for _, pod := range v.Pods {
		pods = append(pods, podDTO{
			ID:             pod.Pod.ID,
			Submitted:      pod.Pod.Submitted,
			ParticipantIDs: append([]string(nil), pod.ParticipantIDs...),
		})
	}

	return roundDetailDTO{
		Round: roundToDTO(ctx, v.Round),
		Pods:  pods,
	}
}
