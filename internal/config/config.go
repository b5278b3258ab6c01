package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/riskibarqy/rankbet/internal/platform/logging"
)

const (
	EnvDev   = "dev"
	EnvStage = "stage"
	EnvProd  = "prod"
)

const (
	PerformanceSourceMock     = "mock"
	PerformanceSourceSleeper  = "sleeper"
	PerformanceSourceDatabase = "database"
)

// Config stores runtime configuration for the service.
type Config struct {
	AppEnv                  string
	ServiceName             string
	ServiceVersion          string
	HTTPAddr                string
	ReadTimeout             time.Duration
	WriteTimeout            time.Duration
	ShutdownTimeout         time.Duration
	LogLevel                logging.Level
	DBURL                   string
	DBBinaryParameters      bool
	CacheEnabled            bool
	CacheTTL                time.Duration
	CORSAllowedOrigins      []string
	InternalJobToken        string
	MetricsEnabled          bool
	SwaggerEnabled          bool

	PerformanceSource         string
	SleeperBaseURL            string
	SleeperTimeout            time.Duration
	SleeperMaxRetries         int
	SleeperScoringFormat      string
	SleeperCircuitEnabled     bool
	SleeperCircuitFailures    int
	SleeperCircuitOpenTimeout time.Duration
	SleeperCircuitHalfOpenMax int

	RescoreMaxWorkers int

	PprofEnabled               bool
	PprofAddr                  string
	UptraceEnabled             bool
	UptraceDSN                 string
	UptraceLogsEnabled         bool
	PyroscopeEnabled           bool
	PyroscopeServerAddress     string
	PyroscopeAppName           string
	PyroscopeAuthToken         string
	PyroscopeBasicAuthUser     string
	PyroscopeBasicAuthPassword string
	PyroscopeUploadRate        time.Duration
}

func Load() (Config, error) {
	appEnv, err := parseAppEnv(getEnv("APP_ENV", EnvDev))
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		AppEnv:                     appEnv,
		ServiceName:                getEnv("APP_SERVICE_NAME", "rankbet-api"),
		ServiceVersion:             getEnv("APP_SERVICE_VERSION", "dev"),
		HTTPAddr:                   getEnv("APP_HTTP_ADDR", ":8080"),
		LogLevel:                   parseLogLevel(getEnv("APP_LOG_LEVEL", "info")),
		DBURL:                      strings.TrimSpace(getEnv("DB_URL", "")),
		CORSAllowedOrigins:         splitCSV(getEnv("CORS_ALLOWED_ORIGINS", "*")),
		InternalJobToken:           strings.TrimSpace(getEnv("INTERNAL_JOB_TOKEN", "")),
		SleeperBaseURL:             strings.TrimRight(getEnv("SLEEPER_BASE_URL", "https://api.sleeper.app"), "/"),
		PprofAddr:                  strings.TrimSpace(getEnv("PPROF_ADDR", ":6060")),
		PyroscopeServerAddress:     strings.TrimSpace(getEnv("PYROSCOPE_SERVER_ADDRESS", "")),
		PyroscopeAuthToken:         getEnv("PYROSCOPE_AUTH_TOKEN", ""),
		PyroscopeBasicAuthUser:     getEnv("PYROSCOPE_BASIC_AUTH_USER", ""),
		PyroscopeBasicAuthPassword: getEnv("PYROSCOPE_BASIC_AUTH_PASSWORD", ""),
	}
	cfg.PyroscopeAppName = getEnv("PYROSCOPE_APP_NAME", cfg.ServiceName)

	if cfg.ReadTimeout, err = parsePositiveDuration("APP_READ_TIMEOUT", "10s"); err != nil {
		return Config{}, err
	}
	if cfg.WriteTimeout, err = parsePositiveDuration("APP_WRITE_TIMEOUT", "15s"); err != nil {
		return Config{}, err
	}
	if cfg.ShutdownTimeout, err = parsePositiveDuration("APP_SHUTDOWN_TIMEOUT", "10s"); err != nil {
		return Config{}, err
	}

	if cfg.DBBinaryParameters, err = parseBool("DB_BINARY_PARAMETERS", "false"); err != nil {
		return Config{}, err
	}
	if cfg.CacheEnabled, err = parseBool("CACHE_ENABLED", "true"); err != nil {
		return Config{}, err
	}
	if cfg.CacheTTL, err = parsePositiveDuration("CACHE_TTL", "5m"); err != nil {
		return Config{}, err
	}
	if cfg.MetricsEnabled, err = parseBool("METRICS_ENABLED", "true"); err != nil {
		return Config{}, err
	}
	swaggerDefault := "true"
	if appEnv == EnvProd {
		swaggerDefault = "false"
	}
	if cfg.SwaggerEnabled, err = parseBool("SWAGGER_ENABLED", swaggerDefault); err != nil {
		return Config{}, err
	}

	cfg.PerformanceSource, err = parsePerformanceSource(getEnv("PERFORMANCE_SOURCE", PerformanceSourceMock))
	if err != nil {
		return Config{}, err
	}
	if cfg.SleeperTimeout, err = parsePositiveDuration("SLEEPER_TIMEOUT", "8s"); err != nil {
		return Config{}, err
	}
	if cfg.SleeperMaxRetries, err = getEnvAsInt("SLEEPER_MAX_RETRIES", 2); err != nil {
		return Config{}, fmt.Errorf("parse SLEEPER_MAX_RETRIES: %w", err)
	}
	if cfg.SleeperMaxRetries < 0 {
		return Config{}, fmt.Errorf("SLEEPER_MAX_RETRIES must be >= 0")
	}
	cfg.SleeperScoringFormat, err = parseScoringFormat(getEnv("SLEEPER_SCORING_FORMAT", "half_ppr"))
	if err != nil {
		return Config{}, err
	}
	if cfg.SleeperCircuitEnabled, err = parseBool("SLEEPER_CIRCUIT_ENABLED", "true"); err != nil {
		return Config{}, err
	}
	if cfg.SleeperCircuitFailures, err = parseMinInt("SLEEPER_CIRCUIT_FAILURE_COUNT", 5, 1); err != nil {
		return Config{}, err
	}
	if cfg.SleeperCircuitOpenTimeout, err = parsePositiveDuration("SLEEPER_CIRCUIT_OPEN_TIMEOUT", "30s"); err != nil {
		return Config{}, err
	}
	if cfg.SleeperCircuitHalfOpenMax, err = parseMinInt("SLEEPER_CIRCUIT_HALF_OPEN_MAX_REQ", 2, 1); err != nil {
		return Config{}, err
	}

	if cfg.RescoreMaxWorkers, err = parseMinInt("RESCORE_MAX_WORKERS", 8, 1); err != nil {
		return Config{}, err
	}

	if cfg.PprofEnabled, err = parseBool("PPROF_ENABLED", "false"); err != nil {
		return Config{}, err
	}
	if cfg.PprofEnabled && cfg.PprofAddr == "" {
		return Config{}, fmt.Errorf("PPROF_ADDR is required when PPROF_ENABLED=true")
	}

	if cfg.UptraceEnabled, err = parseBool("UPTRACE_ENABLED", "false"); err != nil {
		return Config{}, err
	}
	cfg.UptraceDSN = strings.TrimSpace(getEnv("UPTRACE_DSN", ""))
	if cfg.UptraceDSN == "" {
		cfg.UptraceDSN = parseUptraceDSNFromOTLPHeaders(getEnv("OTEL_EXPORTER_OTLP_HEADERS", ""))
	}
	if cfg.UptraceEnabled && cfg.UptraceDSN == "" {
		return Config{}, fmt.Errorf("UPTRACE_DSN is required when UPTRACE_ENABLED=true")
	}
	if cfg.UptraceLogsEnabled, err = parseBool("UPTRACE_LOGS_ENABLED", "true"); err != nil {
		return Config{}, err
	}

	if cfg.PyroscopeEnabled, err = parseBool("PYROSCOPE_ENABLED", "false"); err != nil {
		return Config{}, err
	}
	if cfg.PyroscopeEnabled && cfg.PyroscopeServerAddress == "" {
		return Config{}, fmt.Errorf("PYROSCOPE_SERVER_ADDRESS is required when PYROSCOPE_ENABLED=true")
	}
	if cfg.PyroscopeUploadRate, err = parsePositiveDuration("PYROSCOPE_UPLOAD_RATE", "15s"); err != nil {
		return Config{}, err
	}

	if appEnv == EnvProd && cfg.InternalJobToken == "" {
		return Config{}, fmt.Errorf("INTERNAL_JOB_TOKEN is required when APP_ENV=%s", EnvProd)
	}

	return cfg, nil
}

func parseLogLevel(v string) logging.Level {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "debug":
		return logging.LevelDebug
	case "warn", "warning":
		return logging.LevelWarn
	case "error":
		return logging.LevelError
	default:
		return logging.LevelInfo
	}
}

func parseAppEnv(v string) (string, error) {
	value := strings.ToLower(strings.TrimSpace(v))
	switch value {
	case EnvDev, EnvStage, EnvProd:
		return value, nil
	default:
		return "", fmt.Errorf("invalid APP_ENV %q: valid values are %s, %s, %s", v, EnvDev, EnvStage, EnvProd)
	}
}

func parsePerformanceSource(v string) (string, error) {
	value := strings.ToLower(strings.TrimSpace(v))
	switch value {
	case PerformanceSourceMock, PerformanceSourceSleeper, PerformanceSourceDatabase:
		return value, nil
	default:
		return "", fmt.Errorf("invalid PERFORMANCE_SOURCE %q: valid values are %s, %s, %s",
			v, PerformanceSourceMock, PerformanceSourceSleeper, PerformanceSourceDatabase)
	}
}

func parseScoringFormat(v string) (string, error) {
	value := strings.ToLower(strings.TrimSpace(v))
	switch value {
	case "std", "half_ppr", "ppr":
		return value, nil
	default:
		return "", fmt.Errorf("invalid SLEEPER_SCORING_FORMAT %q: valid values are std, half_ppr, ppr", v)
	}
}

func parseBool(key, fallback string) (bool, error) {
	out, err := strconv.ParseBool(getEnv(key, fallback))
	if err != nil {
		return false, fmt.Errorf("parse %s: %w", key, err)
	}
	return out, nil
}

func parsePositiveDuration(key, fallback string) (time.Duration, error) {
	out, err := time.ParseDuration(getEnv(key, fallback))
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}
	if out <= 0 {
		return 0, fmt.Errorf("%s must be > 0", key)
	}
	return out, nil
}

func parseMinInt(key string, fallback, minValue int) (int, error) {
	out, err := getEnvAsInt(key, fallback)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}
	if out < minValue {
		return 0, fmt.Errorf("%s must be >= %d", key, minValue)
	}
	return out, nil
}

func getEnv(key, fallback string) string {
	value := os.Getenv(key)
	if strings.TrimSpace(value) == "" {
		return fallback
	}

	return value
}

func getEnvAsInt(key string, fallback int) (int, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback, nil
	}

	out, err := strconv.Atoi(value)
	if err != nil {
		return 0, err
	}

	return out, nil
}

func splitCSV(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		item := strings.TrimSpace(part)
		if item == "" {
			continue
		}
		out = append(out, item)
	}

	return out
}

func parseUptraceDSNFromOTLPHeaders(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return ""
	}

	for _, item := range strings.Split(raw, ",") {
		key, value, ok := strings.Cut(strings.TrimSpace(item), "=")
		if !ok {
			continue
		}
		if strings.EqualFold(strings.TrimSpace(key), "uptrace-dsn") {
			return strings.Trim(strings.TrimSpace(value), "\"'")
		}
	}

	return ""
}
