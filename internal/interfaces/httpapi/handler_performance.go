package httpapi

import "net/http"

// GetPerformance exposes the actual performance feed scores are judged
// against.
func (h *Handler) GetPerformance(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetPerformance")
	defer span.End()

	position, err := parsePosition(r.PathValue("position"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	in, err := periodFromQuery(r.URL.Query())
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	period, err := in.resolve(h.now())
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	rows, err := h.accuracyService.ActualPerformance(ctx, position, period)
	if err != nil {
		h.logger.WarnContext(ctx, "get performance failed", "position", position, "period", period.Key(), "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, performanceFeedDTO{
		Position: string(position),
		Period:   toPeriodDTO(period),
		Players:  toActualPerformanceDTOs(rows),
	})
}
