package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"time"

	sonic "github.com/bytedance/sonic"

	"github.com/tapcycle/commander-league/internal/domain/participant"
	"github.com/tapcycle/commander-league/internal/usecase"
)

func (h *Handler) ListParticipants(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListParticipants")
	defer span.End()

	participants, err := h.participantService.List(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "list participants failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]participantDTO, 0, len(participants))
	for _, p := range participants {
		items = append(items, participantToDTO(ctx, p))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) GetParticipant(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetParticipant")
	defer span.End()

	participantID := r.PathValue("participantID")
	item, err := h.participantService.Get(ctx, participantID)
	if err != nil {
		h.logger.WarnContext(ctx, "get participant failed", "participant_id", participantID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, participantToDTO(ctx, item))
}

func (h *Handler) CreateParticipant(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CreateParticipant")
	defer span.End()

	var req createParticipantRequest
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

	item, err := h.participantService.Create(ctx, req.Name)
	if err != nil {
		h.logger.WarnContext(ctx, "create participant failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, participantWithCodeDTO{
		participantDTO: participantToDTO(ctx, item),
		Code:           item.Code,
	})
}

// GetParticipantCode hands the sign-in code to the judge desk and the
// bot. Registered only behind auth, never on the public routes.
func (h *Handler) GetParticipantCode(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetParticipantCode")
	defer span.End()

	participantID := r.PathValue("participantID")
	item, err := h.participantService.Get(ctx, participantID)
	if err != nil {
		h.logger.WarnContext(ctx, "get participant code failed", "participant_id", participantID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]string{
		"participant_id": item.ID,
		"code":           item.Code,
	})
}

func (h *Handler) RenameParticipant(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RenameParticipant")
	defer span.End()

	participantID := r.PathValue("participantID")
	var req renameParticipantRequest
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

	if err := h.participantService.Rename(ctx, participantID, req.Name); err != nil {
		h.logger.WarnContext(ctx, "rename participant failed", "participant_id", participantID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"participant_id": participantID})
}

func (h *Handler) RemoveParticipant(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RemoveParticipant")
	defer span.End()

	participantID := r.PathValue("participantID")
	if err := h.participantService.Remove(ctx, participantID); err != nil {
		h.logger.WarnContext(ctx, "remove participant failed", "participant_id", participantID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"participant_id": participantID})
}

type createParticipantRequest struct {
	Name string `json:"name" validate:"required,max=100"`
}

type renameParticipantRequest struct {
	Name string `json:"name" validate:"required,max=100"`
}

// participantDTO deliberately omits the sign-in code: it is the only
// credential needed to link a chat account, so it never leaves the
// authenticated surface.
type participantDTO struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Linked    bool   `json:"linked"`
	CreatedAt string `json:"createdAt"`
	Removed   bool   `json:"removed"`
}

type participantWithCodeDTO struct {
	participantDTO
	Code string `json:"code"`
}

func participantToDTO(ctx context.Context, v participant.Participant) participantDTO {
	ctx, span := startSpan(ctx, "httpapi.participantToDTO")
	defer span.End()

	return participantDTO{
		ID:        v.ID,
		Name:      v.Name,
		Linked:    v.ExternalRef != "",
		CreatedAt: v.CreatedAt.UTC().Format(time.RFC3339),
		Removed:   v.DeletedAt != nil,
	}
}
