package httpapi

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	sonic "github.com/bytedance/sonic"

	"github.com/tapcycle/commander-league/internal/domain/account"
	"github.com/tapcycle/commander-league/internal/infrastructure/repository/memory"
	"github.com/tapcycle/commander-league/internal/platform/cache"
	idgen "github.com/tapcycle/commander-league/internal/platform/id"
	"github.com/tapcycle/commander-league/internal/platform/logging"
	"github.com/tapcycle/commander-league/internal/usecase"
)

const testInternalBotToken = "internal-bot-secret"

func newTestRouter(t *testing.T) (http.Handler, *usecase.ParticipantService) {
	t.Helper()

	participantRepo := memory.NewParticipantRepository(nil)
	sessionRepo := memory.NewSessionRepository()
	achievementRepo := memory.NewAchievementRepository(memory.SeedAchievements())
	colorRepo := memory.NewColorRepository(memory.SeedColors())
	sheetRepo := memory.NewScoresheetRepository(achievementRepo)
	cards := memory.NewCardCatalog(memory.SeedCards())

	ids := idgen.NewRandomGenerator()
	logger := logging.NewNop()

	participantSvc := usecase.NewParticipantService(participantRepo, ids, ids)
	sessionSvc := usecase.NewSessionService(sessionRepo, ids)
	roundSvc := usecase.NewRoundService(sessionRepo, achievementRepo, ids, logger)
	scoresheetSvc := usecase.NewScoresheetService(sessionRepo, achievementRepo, colorRepo, sheetRepo, cards, ids, logger, usecase.NopNotifier{})
	achievementSvc := usecase.NewAchievementService(achievementRepo, ids)
	standingsSvc := usecase.NewStandingsService(participantRepo, sessionRepo, achievementRepo, colorRepo, sheetRepo, logger)
	signinSvc := usecase.NewSigninService(participantRepo, sessionRepo, achievementRepo, cache.NewStore(time.Minute), ids, logger)

	handler := NewHandler(
		participantSvc,
		sessionSvc,
		roundSvc,
		scoresheetSvc,
		achievementSvc,
		standingsSvc,
		signinSvc,
		logger,
	)
	verifier := stubVerifier{principal: account.Principal{UserID: "judge-1"}}

	return NewRouter(handler, verifier, logger, nil, testInternalBotToken), participantSvc
}

func TestParticipantRoutes_PublicResponsesOmitSignInCode(t *testing.T) {
	router, participants := newTestRouter(t)

	created, err := participants.Create(t.Context(), "Alex")
	if err != nil {
		t.Fatalf("create participant: %v", err)
	}

	for _, path := range []string{"/v1/participants", "/v1/participants/" + created.ID} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("GET %s: expected status 200, got %d", path, rec.Code)
		}
		if strings.Contains(rec.Body.String(), created.Code) {
			t.Fatalf("GET %s leaks the sign-in code: %s", path, rec.Body.String())
		}

		var envelope struct {
			Data any `json:"data"`
		}
		if err := sonic.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
			t.Fatalf("GET %s: decode envelope: %v", path, err)
		}
		items, ok := envelope.Data.([]any)
		if !ok {
			items = []any{envelope.Data}
		}
		for _, item := range items {
			fields, ok := item.(map[string]any)
			if !ok {
				t.Fatalf("GET %s: unexpected data shape %T", path, item)
			}
			if _, leaked := fields["code"]; leaked {
				t.Fatalf("GET %s: response carries a code field", path)
			}
		}
	}
}

func TestParticipantRoutes_CodeOnlyBehindAuth(t *testing.T) {
	router, participants := newTestRouter(t)

	created, err := participants.Create(t.Context(), "Blake")
	if err != nil {
		t.Fatalf("create participant: %v", err)
	}

	judgePath := "/v1/participants/" + created.ID + "/code"
	botPath := "/v1/internal/bot/participants/" + created.ID + "/code"

	req := httptest.NewRequest(http.MethodGet, judgePath, nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without bearer token, got %d", rec.Code)
	}

	req = httptest.NewRequest(http.MethodGet, botPath, nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without internal bot token, got %d", rec.Code)
	}

	for _, tc := range []struct {
		path      string
		setHeader func(r *http.Request)
	}{
		{judgePath, func(r *http.Request) { r.Header.Set("Authorization", "Bearer judge-token") }},
		{botPath, func(r *http.Request) { r.Header.Set("X-Internal-Bot-Token", testInternalBotToken) }},
	} {
		req := httptest.NewRequest(http.MethodGet, tc.path, nil)
		tc.setHeader(req)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("GET %s: expected status 200, got %d: %s", tc.path, rec.Code, rec.Body.String())
		}
		var envelope struct {
			Data map[string]string `json:"data"`
		}
		if err := sonic.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
			t.Fatalf("GET %s: decode envelope: %v", tc.path, err)
		}
		if envelope.Data["code"] != created.Code {
			t.Fatalf("GET %s: expected code %q, got %q", tc.path, created.Code, envelope.Data["code"])
		}
	}
}
