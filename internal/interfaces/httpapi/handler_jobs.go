package httpapi

import (
	"fmt"
	"net/http"

	"github.com/riskibarqy/rankbet/internal/usecase"
)

func (h *Handler) RunRescorePeriodJob(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunRescorePeriodJob")
	defer span.End()

	if h.periodScoring == nil {
		writeError(ctx, w, fmt.Errorf("%w: period scoring is not configured", usecase.ErrDependencyUnavailable))
		return
	}

	var req periodJobRequest
	if err := decodeJSON(r, &req, true); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}
	period, err := req.periodInput().resolve(h.now())
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	positions, err := parsePositions(req.Positions)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	result, err := h.periodScoring.RescorePeriod(ctx, usecase.RescoreInput{
		Period:     period,
		Positions:  positions,
		MaxWorkers: req.MaxWorkers,
		DryRun:     req.DryRun,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "run rescore period job failed", "period", period.Key(), "dry_run", req.DryRun, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, result)
}

func (h *Handler) RunIngestPerformanceJob(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunIngestPerformanceJob")
	defer span.End()

	if h.ingestionService == nil {
		writeError(ctx, w, fmt.Errorf("%w: performance ingestion is not configured", usecase.ErrDependencyUnavailable))
		return
	}

	var req periodJobRequest
	if err := decodeJSON(r, &req, true); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}
	period, err := req.periodInput().resolve(h.now())
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	positions, err := parsePositions(req.Positions)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	result, err := h.ingestionService.Ingest(ctx, usecase.IngestPerformanceInput{
		Period:    period,
		Positions: positions,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "run ingest performance job failed", "period", period.Key(), "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, result)
}
