package httpapi

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/tapcycle/commander-league/internal/platform/logging"
	"github.com/tapcycle/commander-league/internal/usecase"
)

type Handler struct {
	participantService *usecase.ParticipantService
	sessionService     *usecase.SessionService
	roundService       *usecase.RoundService
	scoresheetService  *usecase.ScoresheetService
	achievementService *usecase.AchievementService
	standingsService   *usecase.StandingsService
	signinService      *usecase.SigninService
	logger             *logging.Logger
	validator          *validator.Validate
}

func NewHandler(
	participantService *usecase.ParticipantService,
	sessionService *usecase.SessionService,
	roundService *usecase.RoundService,
	scoresheetService *usecase.ScoresheetService,
	achievementService *usecase.AchievementService,
	standingsService *usecase.StandingsService,
	signinService *usecase.SigninService,
	logger *logging.Logger,
) *Handler {
	if logger == nil {
		logger = logging.Default()
	}

	return &Handler{
		participantService: participantService,
		sessionService:     sessionService,
		roundService:       roundService,
		scoresheetService:  scoresheetService,
		achievementService: achievementService,
		standingsService:   standingsService,
		signinService:      signinService,
		logger:             logger,
		validator:          validator.New(),
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	ctx, span := startSpan(ctx, "httpapi.Handler.validateRequest")
	defer span.End()

	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}

	return nil
}
