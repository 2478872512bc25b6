package httpapi

import (
	"context"
	"net/http"
	"strings"

	"github.com/riskibarqy/matchday/internal/usecase"
)

type matchCommand func(ctx context.Context, matchID, pin string) (usecase.MatchState, error)

func (h *Handler) CreateMatch(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CreateMatch")
	defer span.End()

	var req createMatchRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	players := make([]usecase.MatchPlayerInput, 0, len(req.Players))
	for _, p := range req.Players {
		players = append(players, usecase.MatchPlayerInput{
			PlayerID:    p.PlayerID,
			Name:        p.Name,
			ShirtNumber: p.ShirtNumber,
			OnField:     p.OnField,
			IsKeeper:    p.IsKeeper,
		})
	}

	state, err := h.matchService.CreateMatch(ctx, usecase.CreateMatchInput{
		TeamID:       strings.TrimSpace(r.PathValue("teamID")),
		Pin:          matchPinFromContext(ctx),
		Opponent:     req.Opponent,
		IsHome:       req.IsHome,
		QuarterCount: req.QuarterCount,
		CoachPin:     req.CoachPin,
		RefereeID:    req.RefereeID,
		Players:      players,
	})
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, toMatchDTO(state))
}

func (h *Handler) OpenLineup(w http.ResponseWriter, r *http.Request) {
	h.runMatchCommand(w, r, "httpapi.Handler.OpenLineup", h.matchService.OpenLineup)
}

func (h *Handler) StartMatch(w http.ResponseWriter, r *http.Request) {
	h.runMatchCommand(w, r, "httpapi.Handler.StartMatch", h.matchService.Start)
}

func (h *Handler) PauseMatch(w http.ResponseWriter, r *http.Request) {
	h.runMatchCommand(w, r, "httpapi.Handler.PauseMatch", h.matchService.Pause)
}

func (h *Handler) ResumeMatch(w http.ResponseWriter, r *http.Request) {
	h.runMatchCommand(w, r, "httpapi.Handler.ResumeMatch", h.matchService.Resume)
}

func (h *Handler) NextQuarter(w http.ResponseWriter, r *http.Request) {
	h.runMatchCommand(w, r, "httpapi.Handler.NextQuarter", h.matchService.NextQuarter)
}

func (h *Handler) ResumeFromHalftime(w http.ResponseWriter, r *http.Request) {
	h.runMatchCommand(w, r, "httpapi.Handler.ResumeFromHalftime", h.matchService.ResumeFromHalftime)
}

func (h *Handler) ClaimLead(w http.ResponseWriter, r *http.Request) {
	h.runMatchCommand(w, r, "httpapi.Handler.ClaimLead", h.matchService.ClaimLead)
}

func (h *Handler) ReleaseLead(w http.ResponseWriter, r *http.Request) {
	h.runMatchCommand(w, r, "httpapi.Handler.ReleaseLead", h.matchService.ReleaseLead)
}

func (h *Handler) GetMatch(w http.ResponseWriter, r *http.Request) {
	h.runMatchCommand(w, r, "httpapi.Handler.GetMatch", h.matchService.GetMatchState)
}

func (h *Handler) runMatchCommand(w http.ResponseWriter, r *http.Request, spanName string, cmd matchCommand) {
	ctx, span := startSpan(r.Context(), spanName)
	defer span.End()

	state, err := cmd(ctx, r.PathValue("matchID"), matchPinFromContext(ctx))
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, toMatchDTO(state))
}

func (h *Handler) Substitute(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Substitute")
	defer span.End()

	var req substitutionRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	state, err := h.matchService.Substitute(ctx, r.PathValue("matchID"), matchPinFromContext(ctx), req.PlayerOutID, req.PlayerInID)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, toMatchDTO(state))
}

func (h *Handler) SetPlayerOnField(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SetPlayerOnField")
	defer span.End()

	var req onFieldRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	state, err := h.matchService.SetPlayerOnField(ctx, r.PathValue("matchID"), matchPinFromContext(ctx), r.PathValue("playerID"), *req.OnField)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, toMatchDTO(state))
}

func (h *Handler) SetKeeper(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SetKeeper")
	defer span.End()

	state, err := h.matchService.SetKeeper(ctx, r.PathValue("matchID"), matchPinFromContext(ctx), r.PathValue("playerID"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, toMatchDTO(state))
}

func (h *Handler) AddGoal(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.AddGoal")
	defer span.End()

	var req goalRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	state, err := h.matchService.AddGoal(ctx, usecase.AddGoalInput{
		MatchID:        r.PathValue("matchID"),
		Pin:            matchPinFromContext(ctx),
		PlayerID:       req.PlayerID,
		AssistPlayerID: req.AssistPlayerID,
		IsOwnGoal:      req.IsOwnGoal,
		IsOpponentGoal: req.IsOpponentGoal,
	})
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, toMatchDTO(state))
}

func (h *Handler) UndoLastGoal(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.UndoLastGoal")
	defer span.End()

	result, err := h.matchService.UndoLastGoal(ctx, r.PathValue("matchID"), matchPinFromContext(ctx))
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, undoGoalDTO{
		Match:   toMatchDTO(result.State),
		Removed: toEventDTOs(result.Removed),
	})
}

func (h *Handler) AdjustScore(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.AdjustScore")
	defer span.End()

	var req scoreAdjustRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	state, err := h.matchService.AdjustScore(ctx, r.PathValue("matchID"), matchPinFromContext(ctx), req.Side, req.Delta)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, toMatchDTO(state))
}

func (h *Handler) GetPlayingTime(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetPlayingTime")
	defer span.End()

	pt, err := h.matchService.GetPlayingTime(ctx, r.PathValue("matchID"), matchPinFromContext(ctx))
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, toPlayingTimeDTO(pt))
}

func (h *Handler) GetSuggestedSubstitutions(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetSuggestedSubstitutions")
	defer span.End()

	report, err := h.matchService.GetSuggestedSubstitutions(ctx, r.PathValue("matchID"), matchPinFromContext(ctx))
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, toSuggestionsDTO(report))
}

func (h *Handler) GetTimeline(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetTimeline")
	defer span.End()

	events, err := h.matchService.GetTimeline(ctx, r.PathValue("matchID"), matchPinFromContext(ctx))
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, toEventDTOs(events))
}
