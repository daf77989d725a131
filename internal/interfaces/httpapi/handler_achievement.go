package httpapi

import (
	"context"
	"fmt"
	"net/http"

	sonic "github.com/bytedance/sonic"

	"github.com/tapcycle/commander-league/internal/domain/achievement"
	"github.com/tapcycle/commander-league/internal/usecase"
)

func (h *Handler) ListAchievements(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListAchievements")
	defer span.End()

	achievements, err := h.achievementService.List(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "list achievements failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]achievementDTO, 0, len(achievements))
	for _, a := range achievements {
		items = append(items, achievementToDTO(ctx, a))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) GetAchievement(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetAchievement")
	defer span.End()

	achievementID := r.PathValue("achievementID")
	item, err := h.achievementService.Get(ctx, achievementID)
	if err != nil {
		h.logger.WarnContext(ctx, "get achievement failed", "achievement_id", achievementID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, achievementToDTO(ctx, item))
}

func (h *Handler) CreateAchievement(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CreateAchievement")
	defer span.End()

	var req createAchievementRequest
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

	item, err := h.achievementService.Create(ctx, usecase.CreateAchievementInput{
		Name:           req.Name,
		Slug:           req.Slug,
		PointValue:     req.PointValue,
		ParentID:       req.ParentID,
		RestrictionIDs: req.RestrictionIDs,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "create achievement failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, achievementToDTO(ctx, item))
}

func (h *Handler) RemoveAchievement(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RemoveAchievement")
	defer span.End()

	achievementID := r.PathValue("achievementID")
	if err := h.achievementService.Remove(ctx, achievementID); err != nil {
		h.logger.WarnContext(ctx, "remove achievement failed", "achievement_id", achievementID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"achievement_id": achievementID})
}

type createAchievementRequest struct {
	Name           string   `json:"name" validate:"required,max=150"`
	Slug           string   `json:"slug" validate:"max=100"`
	PointValue     *int     `json:"point_value"`
	ParentID       string   `json:"parent_id"`
	RestrictionIDs []string `json:"restriction_ids" validate:"dive,required"`
}

type achievementDTO struct {
	ID              string   `json:"id"`
	Name            string   `json:"name"`
	Slug            string   `json:"slug,omitempty"`
	EffectivePoints int      `json:"effectivePoints"`
	PointValue      *int     `json:"pointValue"`
	ParentID        *string  `json:"parentId"`
	RestrictionIDs  []string `json:"restrictionIds,omitempty"`
}

func achievementToDTO(ctx context.Context, v achievement.Achievement) achievementDTO {
	ctx, span := startSpan(ctx, "httpapi.achievementToDTO")
	defer span.End()

	return achievementDTO{
		ID:              v.ID,
		Name:            v.Name,
		Slug:            v.Slug,
		EffectivePoints: v.EffectivePoints(),
		PointValue:      v.PointValue,
		ParentID:        v.ParentID,
		RestrictionIDs:  append([]string(nil), v.RestrictionIDs...),
	}
}
