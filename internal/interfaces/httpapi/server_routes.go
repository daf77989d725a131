package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
}

// Public routes are read-only: the league's standings and history are
// open to everyone.
func registerPublicRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/participants", handler.ListParticipants)
	mux.HandleFunc("GET /v1/participants/{participantID}", handler.GetParticipant)
	mux.HandleFunc("GET /v1/sessions", handler.ListSessions)
	mux.HandleFunc("GET /v1/sessions/open", handler.GetOpenSession)
	mux.HandleFunc("GET /v1/sessions/{sessionID}", handler.GetSession)
	mux.HandleFunc("GET /v1/rounds/{roundID}", handler.GetRound)
	mux.HandleFunc("GET /v1/pods/{podID}/commander", handler.GetPodCommander)
	mux.HandleFunc("GET /v1/achievements", handler.ListAchievements)
	mux.HandleFunc("GET /v1/achievements/{achievementID}", handler.GetAchievement)
	mux.HandleFunc("GET /v1/standings/months", handler.ListMonthlyStandings)
	mux.HandleFunc("GET /v1/standings/months/{monthYear}", handler.GetMonthlyStanding)
	mux.HandleFunc("GET /v1/standings/winners", handler.ListMonthWinners)
	mux.HandleFunc("GET /v1/standings/participants", handler.ListParticipantMetrics)
	mux.HandleFunc("GET /v1/standings/participants/{participantID}", handler.GetParticipantMetrics)
	mux.HandleFunc("GET /v1/standings/league", handler.GetLeagueMetrics)
}

// Judge routes mutate league state and require a verified bearer token.
func registerJudgeRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier) {
	mux.Handle("POST /v1/participants", RequireAuth(verifier, http.HandlerFunc(handler.CreateParticipant)))
	mux.Handle("PATCH /v1/participants/{participantID}", RequireAuth(verifier, http.HandlerFunc(handler.RenameParticipant)))
	mux.Handle("DELETE /v1/participants/{participantID}", RequireAuth(verifier, http.HandlerFunc(handler.RemoveParticipant)))
	mux.Handle("GET /v1/participants/{participantID}/code", RequireAuth(verifier, http.HandlerFunc(handler.GetParticipantCode)))
	mux.Handle("POST /v1/sessions", RequireAuth(verifier, http.HandlerFunc(handler.OpenSession)))
	mux.Handle("POST /v1/sessions/{sessionID}/close", RequireAuth(verifier, http.HandlerFunc(handler.ForceCloseSession)))
	mux.Handle("POST /v1/rounds/{roundID}/pods", RequireAuth(verifier, http.HandlerFunc(handler.SeedRoundPods)))
	mux.Handle("PUT /v1/rounds/{roundID}/pods", RequireAuth(verifier, http.HandlerFunc(handler.RerollRoundPods)))
	mux.Handle("PUT /v1/pods/{podID}/scoresheet", RequireAuth(verifier, http.HandlerFunc(handler.SubmitScoresheet)))
	mux.Handle("POST /v1/achievements", RequireAuth(verifier, http.HandlerFunc(handler.CreateAchievement)))
	mux.Handle("DELETE /v1/achievements/{achievementID}", RequireAuth(verifier, http.HandlerFunc(handler.RemoveAchievement)))
}

func registerInternalBotRoutes(mux *http.ServeMux, handler *Handler, internalBotToken string) {
	mux.Handle("POST /v1/internal/bot/links", RequireInternalBotToken(internalBotToken, http.HandlerFunc(handler.LinkBotAccount)))
	mux.Handle("GET /v1/internal/bot/participants/{participantID}/code", RequireInternalBotToken(internalBotToken, http.HandlerFunc(handler.GetParticipantCode)))
	mux.Handle("GET /v1/internal/bot/rounds/open", RequireInternalBotToken(internalBotToken, http.HandlerFunc(handler.ListOpenRounds)))
	mux.Handle("PUT /v1/internal/bot/selections", RequireInternalBotToken(internalBotToken, http.HandlerFunc(handler.StageSignInSelection)))
	mux.Handle("POST /v1/internal/bot/signins/confirm", RequireInternalBotToken(internalBotToken, http.HandlerFunc(handler.ConfirmSignIn)))
	mux.Handle("POST /v1/internal/bot/signins", RequireInternalBotToken(internalBotToken, http.HandlerFunc(handler.RecordSignIn)))
}
