package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"
	"github.com/valyala/fasthttp"
	"go.opentelemetry.io/otel/attribute"

	"github.com/riskibarqy/rankbet/external/sleeper"
	"github.com/riskibarqy/rankbet/internal/config"
	"github.com/riskibarqy/rankbet/internal/domain/performance"
	"github.com/riskibarqy/rankbet/internal/domain/ranking"
	"github.com/riskibarqy/rankbet/internal/infrastructure/performance/fixture"
	cacherepo "github.com/riskibarqy/rankbet/internal/infrastructure/repository/cache"
	"github.com/riskibarqy/rankbet/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/rankbet/internal/infrastructure/repository/postgres"
	"github.com/riskibarqy/rankbet/internal/interfaces/httpapi"
	basecache "github.com/riskibarqy/rankbet/internal/platform/cache"
	"github.com/riskibarqy/rankbet/internal/platform/id"
	"github.com/riskibarqy/rankbet/internal/platform/logging"
	"github.com/riskibarqy/rankbet/internal/platform/metrics"
	"github.com/riskibarqy/rankbet/internal/platform/resilience"
	"github.com/riskibarqy/rankbet/internal/usecase"
)

const (
	dbMaxOpenConns    = 20
	dbMaxIdleConns    = 10
	dbConnMaxLifetime = 30 * time.Minute
	dbPingTimeout     = 5 * time.Second
)

// App holds the HTTP server and the resources that must be released with it.
type App struct {
	Server  *http.Server
	Metrics *metrics.Registry

	logger  *logging.Logger
	closers []func() error
}

// New builds the full dependency graph for the API process.
func New(ctx context.Context, cfg config.Config, logger *logging.Logger) (*App, error) {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.HTTPAddr == "" {
		return nil, fmt.Errorf("http server addr cannot be empty")
	}

	a := &App{logger: logger}
	now := time.Now

	var registry *metrics.Registry
	var scoringMetrics usecase.ScoringMetrics
	if cfg.MetricsEnabled {
		registry = metrics.New(metrics.WithRuntimeCollectors())
		scoringMetrics = registry
	}
	a.Metrics = registry

	var db *sqlx.DB
	if cfg.DBURL != "" {
		var err error
		db, err = openDB(ctx, cfg)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, db.Close)
		logger.Info("database connected", "db_name", dbNameFromURL(cfg.DBURL))
	} else {
		logger.Warn("DB_URL empty, using in-memory seeded rankings")
	}

	var rankings ranking.Repository
	var performanceStore performance.Repository
	if db != nil {
		rankings = postgres.NewRankingRepository(db)
		performanceStore = postgres.NewPerformanceRepository(db)
	} else {
		rankings = memory.NewRankingRepository(
			memory.SeedRankings(ranking.CurrentPeriod(now())),
			memory.SeedPlayerRankings(),
		)
		performanceStore = memory.NewPerformanceRepository()
	}
	if cfg.CacheEnabled {
		rankings = cacherepo.NewRankingRepository(rankings, cfg.CacheTTL)
	}

	provider, err := buildPerformanceProvider(cfg, performanceStore, logger)
	if err != nil {
		_ = a.Close()
		return nil, err
	}
	var cachedProvider *cacherepo.PerformanceProvider
	if cfg.CacheEnabled {
		cachedProvider = cacherepo.NewPerformanceProvider(provider, basecache.NewStore[[]performance.ActualPerformance](cfg.CacheTTL))
		provider = cachedProvider
	}

	opts := usecase.AccuracyServiceOptions{
		Metrics: scoringMetrics,
		Logger:  logger,
		Now:     now,
	}
	accuracySvc := usecase.NewAccuracyService(rankings, provider, opts)
	rankingSvc := usecase.NewRankingService(rankings, id.NewUUIDGenerator())
	periodScoringSvc := usecase.NewPeriodScoringService(rankings, provider, cfg.RescoreMaxWorkers, opts)

	ingestionSvc := buildIngestionService(cfg, performanceStore, cachedProvider, opts)

	handler := httpapi.NewHandler(accuracySvc, rankingSvc, periodScoringSvc, ingestionSvc, logger)
	router := httpapi.NewRouter(handler, httpapi.RouterOptions{
		Logger:             logger,
		Metrics:            registry,
		SwaggerEnabled:     cfg.SwaggerEnabled,
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		InternalJobToken:   cfg.InternalJobToken,
	})

	a.Server = &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadTimeout:       cfg.ReadTimeout,
		ReadHeaderTimeout: cfg.ReadTimeout,
		WriteTimeout:      cfg.WriteTimeout,
	}

	logger.Info("app initialized",
		"performance_source", cfg.PerformanceSource,
		"cache_enabled", cfg.CacheEnabled,
		"metrics_enabled", cfg.MetricsEnabled,
		"ingestion_enabled", ingestionSvc != nil,
		"performance_store", performanceStoreName(db),
	)

	return a, nil
}

// Close releases database handles and other resources opened by New.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}

func openDB(ctx context.Context, cfg config.Config) (*sqlx.DB, error) {
	dbName := dbNameFromURL(cfg.DBURL)
	db, err := otelsqlx.Open(
		"postgres",
		NormalizeDBURL(cfg.DBURL, cfg.DBBinaryParameters),
		otelsql.WithAttributes(attribute.String("db.system", "postgresql")),
		otelsql.WithDBName(dbName),
		otelsql.WithQueryFormatter(formatDBQueryForTrace),
	)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	db.SetMaxOpenConns(dbMaxOpenConns)
	db.SetMaxIdleConns(dbMaxIdleConns)
	db.SetConnMaxLifetime(dbConnMaxLifetime)

	pingCtx, cancel := context.WithTimeout(ctx, dbPingTimeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping database %q: %w", dbName, err)
	}

	return db, nil
}

// buildPerformanceProvider picks the feed scoring reads from. The database
// source reads the ingestion store, which is in memory when DB_URL is empty.
func buildPerformanceProvider(cfg config.Config, store performance.Repository, logger *logging.Logger) (performance.Provider, error) {
	switch cfg.PerformanceSource {
	case config.PerformanceSourceMock:
		return fixture.NewProvider()
	case config.PerformanceSourceSleeper:
		return newSleeperClient(cfg, logger), nil
	case config.PerformanceSourceDatabase:
		return store, nil
	default:
		return nil, fmt.Errorf("unknown performance source %q", cfg.PerformanceSource)
	}
}

// buildIngestionService copies feed rows into the performance store. In mock
// mode the embedded fixture is the upstream so local stores can be populated
// without network access.
func buildIngestionService(
	cfg config.Config,
	store performance.Repository,
	cachedProvider *cacherepo.PerformanceProvider,
	opts usecase.AccuracyServiceOptions,
) *usecase.PerformanceIngestionService {
	var source performance.Provider
	if cfg.PerformanceSource == config.PerformanceSourceMock {
		provider, err := fixture.NewProvider()
		if err != nil {
			opts.Logger.Warn("performance ingestion disabled", "error", err)
			return nil
		}
		source = provider
	} else {
		source = newSleeperClient(cfg, opts.Logger)
	}

	var invalidator usecase.PerformanceCacheInvalidator
	if cachedProvider != nil && cfg.PerformanceSource == config.PerformanceSourceDatabase {
		invalidator = cachedProvider
	}

	return usecase.NewPerformanceIngestionService(source, store, invalidator, opts)
}

func performanceStoreName(db *sqlx.DB) string {
	if db == nil {
		return "memory"
	}
	return "postgres"
}

func newSleeperClient(cfg config.Config, logger *logging.Logger) *sleeper.Client {
	return sleeper.NewClient(sleeper.ClientConfig{
		HTTPClient: &fasthttp.Client{
			Name:                "rankbet",
			ReadTimeout:         cfg.SleeperTimeout,
			WriteTimeout:        cfg.SleeperTimeout,
			MaxIdleConnDuration: time.Minute,
		},
		BaseURL:       cfg.SleeperBaseURL,
		Timeout:       cfg.SleeperTimeout,
		MaxRetries:    cfg.SleeperMaxRetries,
		ScoringFormat: sleeper.ParseScoringFormat(cfg.SleeperScoringFormat),
		Logger:        logger.Named("sleeper"),
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          cfg.SleeperCircuitEnabled,
			FailureThreshold: cfg.SleeperCircuitFailures,
			OpenTimeout:      cfg.SleeperCircuitOpenTimeout,
			HalfOpenMaxReq:   cfg.SleeperCircuitHalfOpenMax,
		},
	})
}
