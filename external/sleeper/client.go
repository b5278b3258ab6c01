package sleeper

import (
	"context"
	stderrors "errors"
	"fmt"
	"net/url"
	"slices"
	"strconv"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/valyala/bytebufferpool"
	"github.com/valyala/fasthttp"

	"github.com/riskibarqy/rankbet/internal/domain/performance"
	"github.com/riskibarqy/rankbet/internal/domain/ranking"
	"github.com/riskibarqy/rankbet/internal/platform/logging"
	"github.com/riskibarqy/rankbet/internal/platform/resilience"
	"github.com/riskibarqy/rankbet/internal/usecase"
)

const (
	defaultBaseURL    = "https://api.sleeper.app"
	defaultTimeout    = 8 * time.Second
	defaultRetryDelay = 500 * time.Millisecond
	maxBodyPreview    = 256
)

var errSleeperTransient = crerr.New("sleeper transient failure")

type ClientConfig struct {
	HTTPClient     *fasthttp.Client
	BaseURL        string
	Timeout        time.Duration
	MaxRetries     int
	RetryDelay     time.Duration
	ScoringFormat  ScoringFormat
	Logger         *logging.Logger
	CircuitBreaker resilience.CircuitBreakerConfig
}

// Client reads weekly and season stats from the Sleeper API and turns them
// into actual performance rows.
type Client struct {
	httpClient *fasthttp.Client
	baseURL    string
	timeout    time.Duration
	retry      resilience.RetryPolicy
	format     ScoringFormat
	logger     *logging.Logger
	breaker    *resilience.CircuitBreaker
	flight     resilience.SingleFlight
}

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &fasthttp.Client{
			Name:                "rankbet",
			ReadTimeout:         timeout,
			WriteTimeout:        timeout,
			MaxIdleConnDuration: time.Minute,
		}
	}
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	retryDelay := cfg.RetryDelay
	if retryDelay <= 0 {
		retryDelay = defaultRetryDelay
	}
	format := cfg.ScoringFormat
	if format == "" {
		format = ScoringHalfPPR
	}

	return &Client{
		httpClient: httpClient,
		baseURL:    baseURL,
		timeout:    timeout,
		retry:      resilience.RetryPolicy{MaxRetries: max(cfg.MaxRetries, 0), BaseDelay: retryDelay},
		format:     format,
		logger:     logger,
		breaker:    resilience.NewCircuitBreakerFromConfig(cfg.CircuitBreaker),
	}
}

// FetchActualPerformance ranks the players of a position by fantasy points
// for the period. OVR combines all four skill positions and FLX drops QB.
func (c *Client) FetchActualPerformance(ctx context.Context, position ranking.Position, period ranking.Period) ([]performance.ActualPerformance, error) {
	positions, err := feedPositions(position)
	if err != nil {
		return nil, err
	}

	requestURL := c.statsURL(period, positions)
	raw, err := c.get(ctx, requestURL)
	if err != nil {
		return nil, err
	}

	var rows []statsRow
	if err := sonic.Unmarshal(raw, &rows); err != nil {
		return nil, crerr.Wrap(err, "decode sleeper stats payload")
	}

	out := make([]performance.ActualPerformance, 0, len(rows))
	seen := make(map[string]struct{}, len(rows))
	for _, row := range rows {
		id := strings.TrimSpace(row.PlayerID)
		if id == "" {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		playerPos := ""
		item := performance.ActualPerformance{PlayerID: id}
		if row.Player != nil {
			playerPos = strings.ToUpper(strings.TrimSpace(row.Player.Position))
			item.Name = strings.TrimSpace(row.Player.FirstName + " " + row.Player.LastName)
			item.Team = row.Player.Team
			item.Position = playerPos
		}
		if playerPos != "" && !slices.Contains(positions, ranking.Position(playerPos)) {
			continue
		}
		seen[id] = struct{}{}

		item.Points = row.Stats.points(c.format)
		item.Inactive = !row.Stats.played(item.Points)
		out = append(out, item)
	}

	return performance.RankByPoints(out), nil
}

func (c *Client) statsURL(period ranking.Period, positions []ranking.Position) string {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	_, _ = buf.WriteString(c.baseURL)
	_, _ = buf.WriteString("/v1/stats/nfl/")
	_, _ = buf.WriteString(strconv.Itoa(period.Season))
	if period.Week != nil {
		_ = buf.WriteByte('/')
		_, _ = buf.WriteString(strconv.Itoa(*period.Week))
	}
	_, _ = buf.WriteString("?season_type=regular")
	for _, p := range positions {
		_, _ = buf.WriteString("&")
		_, _ = buf.WriteString(url.QueryEscape("position[]"))
		_ = buf.WriteByte('=')
		_, _ = buf.WriteString(url.QueryEscape(string(p)))
	}
	return buf.String()
}

// get runs one deduplicated, breaker-guarded, retried GET.
func (c *Client) get(ctx context.Context, requestURL string) ([]byte, error) {
	out, err, _ := c.flight.Do(requestURL, func() (any, error) {
		var body []byte
		guardErr := c.breaker.Guard(func() error {
			return resilience.Retry(ctx, c.retry, func(attempt int) error {
				raw, reqErr := c.do(ctx, requestURL)
				if reqErr != nil {
					if attempt < c.retry.MaxRetries && isTransient(reqErr) {
						c.logger.DebugContext(ctx, "retrying sleeper request", "attempt", attempt+1, "error", reqErr)
					}
					return reqErr
				}
				body = raw
				return nil
			})
		}, isTransient)
		return body, guardErr
	})
	if err != nil {
		if stderrors.Is(err, resilience.ErrCircuitOpen) {
			c.logger.WarnContext(ctx, "sleeper circuit breaker rejected request", "state", c.breaker.State())
			return nil, fmt.Errorf("%w: stats provider is temporarily unavailable", usecase.ErrDependencyUnavailable)
		}
		if stderrors.Is(err, context.Canceled) || stderrors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
		c.logger.WarnContext(ctx, "sleeper request failed", "url", requestURL, "error", err)
		return nil, fmt.Errorf("%w: %v", usecase.ErrDependencyUnavailable, err)
	}

	raw, ok := out.([]byte)
	if !ok {
		return nil, crerr.Newf("unexpected response payload type %T", out)
	}
	return raw, nil
}

func (c *Client) do(ctx context.Context, requestURL string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, resilience.Permanent(err)
	}

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(requestURL)
	req.Header.SetMethod(fasthttp.MethodGet)
	req.Header.Set("Accept", "application/json")

	deadline := time.Now().Add(c.timeout)
	if ctxDeadline, ok := ctx.Deadline(); ok && ctxDeadline.Before(deadline) {
		deadline = ctxDeadline
	}
	if err := c.httpClient.DoDeadline(req, resp, deadline); err != nil {
		return nil, crerr.Wrapf(errSleeperTransient, "send request: %v", err)
	}

	status := resp.StatusCode()
	body := append([]byte(nil), resp.Body()...)
	switch {
	case status >= 200 && status < 300:
		return body, nil
	case isRetryableStatus(status):
		return nil, crerr.Wrapf(errSleeperTransient, "provider status=%d body=%s", status, abbreviateBody(body))
	default:
		return nil, resilience.Permanent(crerr.Newf("provider status=%d body=%s", status, abbreviateBody(body)))
	}
}

func feedPositions(position ranking.Position) ([]ranking.Position, error) {
	switch position {
	case ranking.PositionQuarterback, ranking.PositionRunningBack, ranking.PositionWideReceiver, ranking.PositionTightEnd:
		return []ranking.Position{position}, nil
	case ranking.PositionOverall:
		return append([]ranking.Position(nil), ranking.ScoredPositions...), nil
	case ranking.PositionFlex:
		return []ranking.Position{ranking.PositionRunningBack, ranking.PositionWideReceiver, ranking.PositionTightEnd}, nil
	default:
		return nil, fmt.Errorf("%w: unsupported position %q", usecase.ErrInvalidInput, position)
	}
}

func isTransient(err error) bool {
	return crerr.Is(err, errSleeperTransient)
}

func isRetryableStatus(status int) bool {
	return status == fasthttp.StatusTooManyRequests || status >= 500
}

func abbreviateBody(body []byte) string {
	text := strings.TrimSpace(string(body))
	if len(text) <= maxBodyPreview {
		return text
	}
	return text[:maxBodyPreview] + "..."
}
