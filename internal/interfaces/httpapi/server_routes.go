package httpapi

import (
	"net/http"

	"github.com/riskibarqy/rankbet/internal/platform/metrics"
)

func registerSystemRoutes(mux *http.ServeMux, handler *Handler, registry *metrics.Registry, swaggerEnabled bool) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
	if registry != nil {
		mux.Handle("GET /metrics", registry.Handler())
	}
	if !swaggerEnabled {
		return
	}

	mux.HandleFunc("GET /openapi.yaml", handler.OpenAPI)
	mux.HandleFunc("GET /docs", handler.SwaggerUI)
	mux.HandleFunc("GET /docs/", handler.SwaggerUI)
}

func registerRankingRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("POST /v1/rankings", handler.CreateRanking)
	mux.HandleFunc("GET /v1/rankings", handler.ListRankings)
	mux.HandleFunc("GET /v1/rankings/{rankingID}", handler.GetRanking)
	mux.HandleFunc("PUT /v1/rankings/{rankingID}/players", handler.ReplaceRankingPlayers)
	mux.HandleFunc("GET /v1/rankings/{rankingID}/accuracy", handler.GetRankingAccuracy)
	mux.HandleFunc("POST /v1/rankings/{rankingID}/accuracy", handler.CalculateRankingAccuracy)
	mux.HandleFunc("GET /v1/rankings/{rankingID}/consensus", handler.GetRankingConsensus)
	mux.HandleFunc("GET /v1/average-rankings/{position}", handler.ListAverageRankings)
	mux.HandleFunc("GET /v1/leaderboards/{position}", handler.ListLeaderboard)
}

func registerScoringRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("POST /v1/accuracy-scoring/test", handler.ScoreTestRanking)
	mux.HandleFunc("GET /v1/accuracy-scoring/test", handler.SampleAccuracyScore)
	mux.HandleFunc("GET /v1/performance/{position}", handler.GetPerformance)
}

func registerInternalJobRoutes(mux *http.ServeMux, handler *Handler, internalJobToken string) {
	mux.Handle("POST /v1/internal/jobs/rescore-period", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.RunRescorePeriodJob)))
	mux.Handle("POST /v1/internal/jobs/ingest-performance", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.RunIngestPerformanceJob)))
}
