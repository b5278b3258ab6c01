package httpapi

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/go-playground/validator/v10"

	"github.com/riskibarqy/rankbet/internal/platform/logging"
	"github.com/riskibarqy/rankbet/internal/usecase"
)

const maxRequestBodyBytes = 1 << 20

type Handler struct {
	accuracyService  *usecase.AccuracyService
	rankingService   *usecase.RankingService
	periodScoring    *usecase.PeriodScoringService
	ingestionService *usecase.PerformanceIngestionService
	logger           *logging.Logger
	validator        *validator.Validate
	now              func() time.Time
}

// NewHandler wires the HTTP surface. ingestionService may be nil when no
// persistent performance store is configured.
func NewHandler(
	accuracyService *usecase.AccuracyService,
	rankingService *usecase.RankingService,
	periodScoring *usecase.PeriodScoringService,
	ingestionService *usecase.PerformanceIngestionService,
	logger *logging.Logger,
) *Handler {
	if logger == nil {
		logger = logging.Default()
	}

	return &Handler{
		accuracyService:  accuracyService,
		rankingService:   rankingService,
		periodScoring:    periodScoring,
		ingestionService: ingestionService,
		logger:           logger,
		validator:        validator.New(),
		now:              time.Now,
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}
	return nil
}

// decodeJSON decodes a strict JSON body. An empty body is accepted only when
// allowEmpty is set, leaving dst at its zero value.
func decodeJSON(r *http.Request, dst any, allowEmpty bool) error {
	if r.Body == nil {
		return emptyBody(allowEmpty)
	}
	raw, err := io.ReadAll(io.LimitReader(r.Body, maxRequestBodyBytes+1))
	if err != nil {
		return fmt.Errorf("%w: read request body: %v", usecase.ErrInvalidInput, err)
	}
	if len(raw) > maxRequestBodyBytes {
		return fmt.Errorf("%w: request body exceeds %d bytes", usecase.ErrInvalidInput, maxRequestBodyBytes)
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return emptyBody(allowEmpty)
	}

	decoder := sonic.ConfigDefault.NewDecoder(bytes.NewReader(raw))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dst); err != nil {
		return fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err)
	}
	return nil
}

func emptyBody(allowEmpty bool) error {
	if allowEmpty {
		return nil
	}
	return fmt.Errorf("%w: request body is required", usecase.ErrInvalidInput)
}
