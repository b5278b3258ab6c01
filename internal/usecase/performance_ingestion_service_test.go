package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/mock"

	"github.com/riskibarqy/rankbet/internal/domain/performance"
	"github.com/riskibarqy/rankbet/internal/domain/ranking"
	performancemock "github.com/riskibarqy/rankbet/internal/mocks/domain/performance"
	"github.com/riskibarqy/rankbet/internal/platform/logging"
)

type recordingInvalidator struct {
	keys []string
}

func (r *recordingInvalidator) Invalidate(_ context.Context, position ranking.Position, period ranking.Period) {
	r.keys = append(r.keys, string(position)+"|"+period.Key())
}

func TestPerformanceIngestionService_Ingest_StoresEachPosition(t *testing.T) {
	t.Parallel()

	source := performancemock.NewProvider(t)
	store := performancemock.NewRepository(t)
	invalidator := &recordingInvalidator{}
	metrics := &recordingMetrics{}
	service := NewPerformanceIngestionService(source, store, invalidator, AccuracyServiceOptions{
		Metrics: metrics,
		Logger:  logging.NewNop(),
	})

	period := ranking.WeeklyPeriod(2024, 5)
	qbRows := append(sampleQBActual(), performance.ActualPerformance{PlayerID: "qb10", Inactive: true})
	source.On("FetchActualPerformance", mock.Anything, ranking.PositionQuarterback, period).Return(qbRows, nil).Once()
	source.On("FetchActualPerformance", mock.Anything, ranking.PositionTightEnd, period).Return(nil, errors.New("feed down")).Once()
	store.On("UpsertActualPerformance", mock.Anything, ranking.PositionQuarterback, period, qbRows).Return(nil).Once()

	got, err := service.Ingest(context.Background(), IngestPerformanceInput{
		Period:    period,
		Positions: []ranking.Position{ranking.PositionTightEnd, ranking.PositionQuarterback},
	})
	if err != nil {
		t.Fatalf("ingest: %v", err)
	}

	if got.StoredRows != 6 || got.FailedPos != 1 {
		t.Fatalf("unexpected counters: %+v", got)
	}
	if len(got.Positions) != 2 || got.Positions[0].Position != "QB" || got.Positions[0].Inactive != 1 {
		t.Fatalf("unexpected positions: %+v", got.Positions)
	}
	if got.Positions[1].Error == "" {
		t.Fatalf("expected TE error to be reported")
	}
	if len(invalidator.keys) != 1 || invalidator.keys[0] != "QB|weekly:2024:5" {
		t.Fatalf("unexpected invalidations: %+v", invalidator.keys)
	}
	if len(metrics.providerErrors) != 1 || metrics.providerErrors[0] != "TE" {
		t.Fatalf("unexpected provider errors: %+v", metrics.providerErrors)
	}
}

func TestPerformanceIngestionService_Ingest_StoreFailureAborts(t *testing.T) {
	t.Parallel()

	source := performancemock.NewProvider(t)
	store := performancemock.NewRepository(t)
	service := NewPerformanceIngestionService(source, store, nil, AccuracyServiceOptions{Logger: logging.NewNop()})

	period := ranking.PreseasonPeriod(2024)
	source.On("FetchActualPerformance", mock.Anything, ranking.PositionQuarterback, period).Return(sampleQBActual(), nil).Once()
	store.On("UpsertActualPerformance", mock.Anything, ranking.PositionQuarterback, period, mock.Anything).
		Return(errors.New("connection reset")).
		Once()

	_, err := service.Ingest(context.Background(), IngestPerformanceInput{
		Period:    period,
		Positions: []ranking.Position{ranking.PositionQuarterback},
	})
	if err == nil {
		t.Fatalf("expected store failure")
	}
}

func TestPerformanceIngestionService_Ingest_InvalidInput(t *testing.T) {
	t.Parallel()

	service := NewPerformanceIngestionService(performancemock.NewProvider(t), performancemock.NewRepository(t), nil, AccuracyServiceOptions{})

	tests := []struct {
		name  string
		input IngestPerformanceInput
	}{
		{name: "missing season", input: IngestPerformanceInput{Period: ranking.Period{Type: ranking.TypePreseason}}},
		{name: "unknown position", input: IngestPerformanceInput{
			Period:    ranking.WeeklyPeriod(2024, 1),
			Positions: []ranking.Position{"K"},
		}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := service.Ingest(context.Background(), tc.input)
			if !errors.Is(err, ErrInvalidInput) {
				t.Fatalf("expected ErrInvalidInput, got %v", err)
			}
		})
	}
}
