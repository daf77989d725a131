package httpapi

import (
	"context"
	"fmt"
	"net/http"

	sonic "github.com/bytedance/sonic"

	"github.com/tapcycle/commander-league/internal/domain/scoresheet"
	"github.com/tapcycle/commander-league/internal/usecase"
)

func (h *Handler) SubmitScoresheet(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SubmitScoresheet")
	defer span.End()

	podID := r.PathValue("podID")
	var req submitScoresheetRequest
	decoder := sonic.ConfigDefault.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeError(ctx, w, fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err))
		return
	}

	result, err := h.scoresheetService.Submit(ctx, podID, req.toOutcome(ctx))
	if err != nil {
		h.logger.WarnContext(ctx, "submit scoresheet failed", "pod_id", podID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, submitResultToDTO(ctx, result))
}

func (h *Handler) GetPodCommander(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetPodCommander")
	defer span.End()

	podID := r.PathValue("podID")
	commander, err := h.scoresheetService.GetPodCommander(ctx, podID)
	if err != nil {
		h.logger.WarnContext(ctx, "get pod commander failed", "pod_id", podID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, commanderToDTO(ctx, commander))
}

type submitScoresheetRequest struct {
	Draw                 bool     `json:"draw"`
	WinnerID             string   `json:"winner_id"`
	CommanderCardID      string   `json:"commander_card_id"`
	PartnerCardID        string   `json:"partner_card_id"`
	CompanionCardID      string   `json:"companion_card_id"`
	BroughtSnack         []string `json:"brought_snack"`
	LentDeck             []string `json:"lent_deck"`
	SubmittedDecklist    []string `json:"submitted_decklist"`
	KnockedOut           []string `json:"knocked_out"`
	PrizePool            []string `json:"prize_pool"`
	LastInTurnOrder      bool     `json:"last_in_turn_order"`
	CommanderDamage      bool     `json:"commander_damage"`
	WinnerAchievementIDs []string `json:"winner_achievement_ids"`
}

func (req submitScoresheetRequest) toOutcome(ctx context.Context) scoresheet.Outcome {
	ctx, span := startSpan(ctx, "httpapi.submitScoresheetRequest.toOutcome")
	defer span.End()

	if req.Draw {
		return scoresheet.Outcome{Draw: &scoresheet.DrawOutcome{}}
	}

	return scoresheet.Outcome{
		Decisive: &scoresheet.DecisiveOutcome{
			WinnerID:        req.WinnerID,
			CommanderCardID: req.CommanderCardID,
			PartnerCardID:   req.PartnerCardID,
			CompanionCardID: req.CompanionCardID,
			PodCategories: scoresheet.PodCategories{
				BroughtSnack:      req.BroughtSnack,
				LentDeck:          req.LentDeck,
				SubmittedDecklist: req.SubmittedDecklist,
				KnockedOut:        req.KnockedOut,
				PrizePool:         req.PrizePool,
			},
			WinnerFlags: scoresheet.WinnerFlags{
				LastInTurnOrder: req.LastInTurnOrder,
				CommanderDamage: req.CommanderDamage,
			},
			WinnerAchievementIDs: req.WinnerAchievementIDs,
		},
	}
}

type submitResultDTO struct {
	Commander      commanderDTO `json:"commander"`
	GrantsCreated  int          `json:"grantsCreated"`
	GrantsRevoked  int          `json:"grantsRevoked"`
	RoundCompleted bool         `json:"roundCompleted"`
	SessionClosed  bool         `json:"sessionClosed"`
}

type commanderDTO struct {
	PodID         string  `json:"podId"`
	Name          string  `json:"name"`
	ColorID       *string `json:"colorId"`
	ParticipantID *string `json:"participantId"`
}

func submitResultToDTO(ctx context.Context, v usecase.SubmitResult) submitResultDTO {
	ctx, span := startSpan(ctx, "httpapi.submitResultToDTO")
	defer span.End()

	return submitResultDTO{
		Commander:      commanderToDTO(ctx, v.Commander),
		GrantsCreated:  v.GrantsCreated,
		GrantsRevoked:  v.GrantsRevoked,
		RoundCompleted: v.RoundCompleted,
		SessionClosed:  v.SessionClosed,
	}
}

func commanderToDTO(ctx context.Context, v scoresheet.WinningCommander) commanderDTO {
	ctx, span := startSpan(ctx, "httpapi.commanderToDTO")
	defer span.End()

	return commanderDTO{
		PodID:         v.PodID,
		Name:          v.Name,
		ColorID:       v.ColorID,
		ParticipantID: v.ParticipantID,
	}
}
