package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	_ "github.com/lib/pq"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"

	"github.com/tapcycle/commander-league/internal/config"
	"github.com/tapcycle/commander-league/internal/infrastructure/account/gatekeeper"
	"github.com/tapcycle/commander-league/internal/infrastructure/botqueue"
	"github.com/tapcycle/commander-league/internal/infrastructure/cardindex"
	"github.com/tapcycle/commander-league/internal/infrastructure/repository/postgres"
	"github.com/tapcycle/commander-league/internal/interfaces/httpapi"
	"github.com/tapcycle/commander-league/internal/platform/cache"
	idgen "github.com/tapcycle/commander-league/internal/platform/id"
	"github.com/tapcycle/commander-league/internal/platform/logging"
	"github.com/tapcycle/commander-league/internal/platform/resilience"
	"github.com/tapcycle/commander-league/internal/usecase"
)

func NewHTTPServer(cfg config.Config, logger *logging.Logger) (*http.Server, error) {
	if logger == nil {
		logger = logging.Default()
	}

	db, err := otelsqlx.Connect("postgres", normalizeDBURL(cfg.DBURL, cfg.DBDisablePreparedBinary),
		otelsql.WithDBSystem("postgresql"),
		otelsql.WithDBName(dbNameFromURL(cfg.DBURL)),
		otelsql.WithQueryFormatter(formatDBQueryForTrace),
	)
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(5 * time.Minute)

	seedCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := postgres.BootstrapSeed(seedCtx, db); err != nil {
		return nil, fmt.Errorf("bootstrap seed data: %w", err)
	}

	participantRepo := postgres.NewParticipantRepository(db)
	sessionRepo := postgres.NewSessionRepository(db)
	achievementRepo := postgres.NewAchievementRepository(db)
	colorRepo := postgres.NewColorRepository(db)
	sheetRepo := postgres.NewScoresheetRepository(db)

	ids := idgen.NewRandomGenerator()

	cards := cardindex.NewClient(cardindex.ClientConfig{
		BaseURL: cfg.CardIndexBaseURL,
		APIKey:  cfg.CardIndexAPIKey,
		Timeout: cfg.CardIndexTimeout,
		Breaker: resilience.CircuitBreakerConfig{
			Enabled:          cfg.CardIndexCircuitEnabled,
			FailureThreshold: cfg.CardIndexCircuitFailureCount,
			OpenTimeout:      cfg.CardIndexCircuitOpenTimeout,
			HalfOpenMaxReq:   cfg.CardIndexCircuitHalfOpenMaxReq,
		},
	}, cache.NewStore(cfg.CacheTTL), logger)

	var notifier usecase.BotNotifier = usecase.NopNotifier{}
	if cfg.BotWebhookEnabled {
		notifier = botqueue.NewWebhookPublisher(botqueue.WebhookPublisherConfig{
			WebhookURL: cfg.BotWebhookURL,
			Token:      cfg.BotWebhookToken,
			Timeout:    cfg.BotWebhookTimeout,
		}, logger)
	}

	participantSvc := usecase.NewParticipantService(participantRepo, ids, ids)
	sessionSvc := usecase.NewSessionService(sessionRepo, ids)
	roundSvc := usecase.NewRoundService(sessionRepo, achievementRepo, ids, logger)
	scoresheetSvc := usecase.NewScoresheetService(sessionRepo, achievementRepo, colorRepo, sheetRepo, cards, ids, logger, notifier)
	achievementSvc := usecase.NewAchievementService(achievementRepo, ids)
	standingsSvc := usecase.NewStandingsService(participantRepo, sessionRepo, achievementRepo, colorRepo, sheetRepo, logger)
	signinSvc := usecase.NewSigninService(participantRepo, sessionRepo, achievementRepo, cache.NewStore(cfg.SelectionTTL), ids, logger)

	verifier := gatekeeper.NewClient(
		&http.Client{Timeout: cfg.GatekeeperTimeout},
		cfg.GatekeeperBaseURL,
		cfg.GatekeeperIntrospectPath,
		cache.NewStore(cfg.CacheTTL),
		logger,
	)

	handler := httpapi.NewHandler(
		participantSvc,
		sessionSvc,
		roundSvc,
		scoresheetSvc,
		achievementSvc,
		standingsSvc,
		signinSvc,
		logger,
	)
	router := httpapi.NewRouter(handler, verifier, logger, cfg.CORSAllowedOrigins, cfg.InternalBotToken)

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}
	server.RegisterOnShutdown(func() {
		if err := db.Close(); err != nil {
			logger.Warn("close database failed", "error", err)
		}
	})

	if server.Addr == "" {
		return nil, fmt.Errorf("http server addr cannot be empty")
	}

	return server, nil
}
