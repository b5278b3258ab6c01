package sleeper

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/riskibarqy/rankbet/internal/domain/ranking"
	"github.com/riskibarqy/rankbet/internal/platform/logging"
	"github.com/riskibarqy/rankbet/internal/platform/resilience"
	"github.com/riskibarqy/rankbet/internal/usecase"
)

const weeklyQBPayload = `[
  {"player_id":"4984","stats":{"pts_half_ppr":24.5,"gp":1},"player":{"first_name":"Josh","last_name":"Allen","team":"BUF","position":"QB"}},
  {"player_id":"6904","stats":{"pass_yd":300,"pass_td":2,"pass_int":1,"rush_yd":20,"gp":1},"player":{"first_name":"Jalen","last_name":"Hurts","team":"PHI","position":"QB"}},
  {"player_id":"3294","stats":{"gp":0},"player":{"first_name":"Aaron","last_name":"Rodgers","team":"NYJ","position":"QB"}},
  {"player_id":"4034","stats":{"pts_half_ppr":30,"gp":1},"player":{"first_name":"Christian","last_name":"McCaffrey","team":"SF","position":"RB"}}
]`

func newTestClient(baseURL string, retries int, breaker resilience.CircuitBreakerConfig) *Client {
	return NewClient(ClientConfig{
		BaseURL:        baseURL,
		Timeout:        2 * time.Second,
		MaxRetries:     retries,
		RetryDelay:     time.Millisecond,
		Logger:         logging.NewNop(),
		CircuitBreaker: breaker,
	})
}

func TestClient_FetchActualPerformance_WeeklyQB(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/stats/nfl/2024/5" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if got := r.URL.Query()["position[]"]; len(got) != 1 || got[0] != "QB" {
			t.Errorf("unexpected position filter: %v", got)
		}
		if r.URL.Query().Get("season_type") != "regular" {
			t.Errorf("unexpected season_type: %s", r.URL.Query().Get("season_type"))
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(weeklyQBPayload))
	}))
	defer server.Close()

	client := newTestClient(server.URL, 0, resilience.CircuitBreakerConfig{})
	rows, err := client.FetchActualPerformance(context.Background(), ranking.PositionQuarterback, ranking.WeeklyPeriod(2024, 5))
	if err != nil {
		t.Fatalf("fetch actual performance: %v", err)
	}

	if len(rows) != 3 {
		t.Fatalf("expected RB row to be filtered out, got %d rows", len(rows))
	}
	if rows[0].PlayerID != "4984" || rows[0].ActualRank != 1 || rows[0].Points != 24.5 {
		t.Fatalf("unexpected first row: %+v", rows[0])
	}
	if rows[1].PlayerID != "6904" || rows[1].ActualRank != 2 || rows[1].Points != 20 {
		t.Fatalf("unexpected computed row: %+v", rows[1])
	}
	if !rows[2].Inactive || rows[2].ActualRank != 0 || rows[2].Name != "Aaron Rodgers" {
		t.Fatalf("unexpected inactive row: %+v", rows[2])
	}
}

func TestClient_FetchActualPerformance_PreseasonAndFlex(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/stats/nfl/2024" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if got := r.URL.Query()["position[]"]; len(got) != 3 {
			t.Errorf("expected three flex positions, got %v", got)
		}
		_, _ = w.Write([]byte(weeklyQBPayload))
	}))
	defer server.Close()

	client := newTestClient(server.URL, 0, resilience.CircuitBreakerConfig{})
	rows, err := client.FetchActualPerformance(context.Background(), ranking.PositionFlex, ranking.PreseasonPeriod(2024))
	if err != nil {
		t.Fatalf("fetch actual performance: %v", err)
	}
	if len(rows) != 1 || rows[0].PlayerID != "4034" {
		t.Fatalf("expected only the RB row for FLX, got %+v", rows)
	}
}

func TestClient_RetriesTransientStatus(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(`[]`))
	}))
	defer server.Close()

	client := newTestClient(server.URL, 2, resilience.CircuitBreakerConfig{})
	rows, err := client.FetchActualPerformance(context.Background(), ranking.PositionTightEnd, ranking.WeeklyPeriod(2024, 1))
	if err != nil {
		t.Fatalf("expected retry to succeed: %v", err)
	}
	if len(rows) != 0 || hits.Load() != 2 {
		t.Fatalf("unexpected result: rows=%d hits=%d", len(rows), hits.Load())
	}
}

func TestClient_DoesNotRetryClientErrors(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client := newTestClient(server.URL, 3, resilience.CircuitBreakerConfig{})
	_, err := client.FetchActualPerformance(context.Background(), ranking.PositionWideReceiver, ranking.WeeklyPeriod(2024, 1))
	if !errors.Is(err, usecase.ErrDependencyUnavailable) {
		t.Fatalf("expected ErrDependencyUnavailable, got: %v", err)
	}
	if hits.Load() != 1 {
		t.Fatalf("expected a single attempt, got %d", hits.Load())
	}
}

func TestClient_CircuitBreakerOpens(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := newTestClient(server.URL, 0, resilience.CircuitBreakerConfig{
		Enabled:          true,
		FailureThreshold: 1,
		OpenTimeout:      time.Minute,
		HalfOpenMaxReq:   1,
	})

	ctx := context.Background()
	period := ranking.WeeklyPeriod(2024, 2)
	if _, err := client.FetchActualPerformance(ctx, ranking.PositionRunningBack, period); err == nil {
		t.Fatalf("expected first call to fail")
	}
	_, err := client.FetchActualPerformance(ctx, ranking.PositionRunningBack, period)
	if !errors.Is(err, usecase.ErrDependencyUnavailable) {
		t.Fatalf("expected open breaker to report ErrDependencyUnavailable, got: %v", err)
	}
	if hits.Load() != 1 {
		t.Fatalf("expected breaker to stop the second request, hits=%d", hits.Load())
	}
}

func TestClient_RejectsUnknownPosition(t *testing.T) {
	client := newTestClient("http://127.0.0.1:1", 0, resilience.CircuitBreakerConfig{})
	_, err := client.FetchActualPerformance(context.Background(), "K", ranking.WeeklyPeriod(2024, 1))
	if !errors.Is(err, usecase.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got: %v", err)
	}
}
