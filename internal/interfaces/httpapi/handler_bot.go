package httpapi

import (
	"fmt"
	"net/http"

	sonic "github.com/bytedance/sonic"

	"github.com/tapcycle/commander-league/internal/usecase"
)

// Bot routes back the Discord sign-in flow: link a chat account to a
// participant code, stage a round selection, and confirm it into
// participation grants.

func (h *Handler) LinkBotAccount(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.LinkBotAccount")
	defer span.End()

	var req linkBotAccountRequest
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

	item, err := h.signinService.LinkByCode(ctx, req.Code, req.ExternalRef)
	if err != nil {
		h.logger.WarnContext(ctx, "link bot account failed", "external_ref", req.ExternalRef, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, participantToDTO(ctx, item))
}

func (h *Handler) ListOpenRounds(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListOpenRounds")
	defer span.End()

	rounds, err := h.signinService.OpenRounds(ctx)
	if err != nil {
		h.logger.WarnContext(ctx, "list open rounds failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, rounds)
}

func (h *Handler) StageSignInSelection(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.StageSignInSelection")
	defer span.End()

	var req stageSelectionRequest
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

	if err := h.signinService.StageSelection(ctx, req.GuildID, req.UserID, req.RoundIDs); err != nil {
		h.logger.WarnContext(ctx, "stage sign-in selection failed", "user_id", req.UserID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]any{
		"guild_id":  req.GuildID,
		"user_id":   req.UserID,
		"round_ids": req.RoundIDs,
	})
}

func (h *Handler) ConfirmSignIn(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ConfirmSignIn")
	defer span.End()

	var req confirmSignInRequest
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

	item, roundIDs, err := h.signinService.ConfirmSignIn(ctx, req.GuildID, req.UserID, req.ExternalRef)
	if err != nil {
		h.logger.WarnContext(ctx, "confirm sign-in failed", "user_id", req.UserID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]any{
		"participant": participantToDTO(ctx, item),
		"round_ids":   roundIDs,
	})
}

func (h *Handler) RecordSignIn(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RecordSignIn")
	defer span.End()

	var req recordSignInRequest
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

	item, err := h.signinService.RecordSignIn(ctx, req.ExternalRef, req.RoundIDs)
	if err != nil {
		h.logger.WarnContext(ctx, "record sign-in failed", "external_ref", req.ExternalRef, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, participantToDTO(ctx, item))
}

type linkBotAccountRequest struct {
	Code        string `json:"code" validate:"required,len=6"`
	ExternalRef string `json:"external_ref" validate:"required"`
}

type stageSelectionRequest struct {
	GuildID  string   `json:"guild_id" validate:"required"`
	UserID   string   `json:"user_id" validate:"required"`
	RoundIDs []string `json:"round_ids" validate:"required,min=1,dive,required"`
}

type confirmSignInRequest struct {
	GuildID     string `json:"guild_id" validate:"required"`
	UserID      string `json:"user_id" validate:"required"`
	ExternalRef string `json:"external_ref" validate:"required"`
}

type recordSignInRequest struct {
	ExternalRef string   `json:"external_ref" validate:"required"`
	RoundIDs    []string `json:"round_ids" validate:"required,min=1,dive,required"`
}
