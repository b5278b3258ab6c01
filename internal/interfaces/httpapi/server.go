package httpapi

import (
	"net/http"

	"github.com/riskibarqy/rankbet/internal/platform/logging"
	"github.com/riskibarqy/rankbet/internal/platform/metrics"
)

// RouterOptions carries the cross-cutting settings of NewRouter. A nil
// Metrics registry disables both /metrics and request observation.
type RouterOptions struct {
	Logger             *logging.Logger
	Metrics            *metrics.Registry
	SwaggerEnabled     bool
	CORSAllowedOrigins []string
	InternalJobToken   string
}

func NewRouter(handler *Handler, opts RouterOptions) http.Handler {
	logger := opts.Logger
	if logger == nil {
		logger = logging.Default()
	}

	mux := http.NewServeMux()
	registerSystemRoutes(mux, handler, opts.Metrics, opts.SwaggerEnabled)
	registerRankingRoutes(mux, handler)
	registerScoringRoutes(mux, handler)
	registerInternalJobRoutes(mux, handler, opts.InternalJobToken)

	var observer RequestObserver
	if opts.Metrics != nil {
		observer = opts.Metrics
	}
	routeOf := func(r *http.Request) string {
		_, pattern := mux.Handler(r)
		return pattern
	}

	return RequestTracing(
		RequestMetrics(observer, routeOf,
			RequestLogging(logger,
				CORS(opts.CORSAllowedOrigins, recoverPanic(logger, mux)))))
}

func recoverPanic(logger *logging.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		defer func() {
			if rec := recover(); rec != nil {
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				logger.ErrorContext(ctx, "panic recovered", "panic", rec, "path", r.URL.Path)
				writeInternalError(ctx, w)
			}
		}()
		next.ServeHTTP(w, r)
	})
}
