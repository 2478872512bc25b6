package httpapi

import (
	"fmt"
	"net/http"

	"github.com/riskibarqy/matchday/internal/usecase"
)

func (h *Handler) GetPublicMatch(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetPublicMatch")
	defer span.End()

	view, err := h.matchService.GetPublicMatch(ctx, r.PathValue("code"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, toPublicMatchDTO(view))
}

// StreamPublicMatch upgrades to a websocket that receives a snapshot of the
// match on connect and after every committed change.
func (h *Handler) StreamPublicMatch(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if h.liveFeed == nil {
		writeError(ctx, w, fmt.Errorf("%w: live feed is disabled", usecase.ErrDependencyUnavailable))
		return
	}

	view, err := h.matchService.GetPublicMatch(ctx, r.PathValue("code"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	if err := h.liveFeed.Serve(w, r, view); err != nil {
		h.logger.WarnContext(ctx, "live feed upgrade failed",
			"code", view.Code,
			"error", err,
		)
	}
}
