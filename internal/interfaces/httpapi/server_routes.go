package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler, swaggerEnabled bool) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
	if !swaggerEnabled {
		return
	}

	mux.HandleFunc("GET "+openAPIPath, handler.OpenAPI)
	mux.HandleFunc("GET /docs", handler.SwaggerUI)
	mux.HandleFunc("GET /docs/", handler.SwaggerUI)
}

func registerPublicRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/public/matches/{code}", handler.GetPublicMatch)
	mux.HandleFunc("GET /v1/public/matches/{code}/live", handler.StreamPublicMatch)
}

// registerMatchRoutes mounts the PIN-protected coach and referee API.
func registerMatchRoutes(mux *http.ServeMux, handler *Handler) {
	pinned := func(h http.HandlerFunc) http.Handler {
		return ExtractMatchPin(h)
	}

	mux.Handle("POST /v1/teams/{teamID}/matches", pinned(handler.CreateMatch))

	mux.Handle("GET /v1/matches/{matchID}", pinned(handler.GetMatch))
	mux.Handle("GET /v1/matches/{matchID}/playing-time", pinned(handler.GetPlayingTime))
	mux.Handle("GET /v1/matches/{matchID}/suggestions", pinned(handler.GetSuggestedSubstitutions))
	mux.Handle("GET /v1/matches/{matchID}/timeline", pinned(handler.GetTimeline))

	mux.Handle("POST /v1/matches/{matchID}/lineup", pinned(handler.OpenLineup))
	mux.Handle("POST /v1/matches/{matchID}/start", pinned(handler.StartMatch))
	mux.Handle("POST /v1/matches/{matchID}/pause", pinned(handler.PauseMatch))
	mux.Handle("POST /v1/matches/{matchID}/resume", pinned(handler.ResumeMatch))
	mux.Handle("POST /v1/matches/{matchID}/next-quarter", pinned(handler.NextQuarter))
	mux.Handle("POST /v1/matches/{matchID}/resume-halftime", pinned(handler.ResumeFromHalftime))

	mux.Handle("POST /v1/matches/{matchID}/substitutions", pinned(handler.Substitute))
	mux.Handle("PUT /v1/matches/{matchID}/players/{playerID}/on-field", pinned(handler.SetPlayerOnField))
	mux.Handle("PUT /v1/matches/{matchID}/players/{playerID}/keeper", pinned(handler.SetKeeper))

	mux.Handle("POST /v1/matches/{matchID}/goals", pinned(handler.AddGoal))
	mux.Handle("DELETE /v1/matches/{matchID}/goals/last", pinned(handler.UndoLastGoal))
	mux.Handle("POST /v1/matches/{matchID}/score", pinned(handler.AdjustScore))

	mux.Handle("POST /v1/matches/{matchID}/lead", pinned(handler.ClaimLead))
	mux.Handle("DELETE /v1/matches/{matchID}/lead", pinned(handler.ReleaseLead))
}
