package fixture

import (
	"context"
	"testing"

	"github.com/riskibarqy/rankbet/internal/domain/ranking"
)

func TestProvider_QuarterbackFixture(t *testing.T) {
	p, err := NewProvider()
	if err != nil {
		t.Fatalf("new provider: %v", err)
	}

	rows, err := p.FetchActualPerformance(context.Background(), ranking.PositionQuarterback, ranking.WeeklyPeriod(2024, 1))
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}

	want := map[string]int{"qb1": 1, "qb2": 3, "qb3": 8, "qb4": 2, "qb5": 25}
	got := make(map[string]int, len(rows))
	inactive := 0
	for _, row := range rows {
		got[row.PlayerID] = row.ActualRank
		if row.IsInactive() {
			inactive++
		}
	}
	for id, rank := range want {
		if got[id] != rank {
			t.Fatalf("%s: expected rank %d, got %d", id, rank, got[id])
		}
	}
	if inactive != 1 {
		t.Fatalf("expected one inactive quarterback, got %d", inactive)
	}
}

func TestProvider_SameDataForEveryPeriod(t *testing.T) {
	p, err := NewProvider()
	if err != nil {
		t.Fatalf("new provider: %v", err)
	}
	ctx := context.Background()

	a, _ := p.FetchActualPerformance(ctx, ranking.PositionTightEnd, ranking.WeeklyPeriod(2024, 1))
	b, _ := p.FetchActualPerformance(ctx, ranking.PositionTightEnd, ranking.PreseasonPeriod(2023))
	if len(a) != len(b) || len(a) == 0 {
		t.Fatalf("expected identical non-empty lists, got %d and %d", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("row %d differs: %+v vs %+v", i, a[i], b[i])
		}
	}

	a[0].ActualRank = 99
	c, _ := p.FetchActualPerformance(ctx, ranking.PositionTightEnd, ranking.WeeklyPeriod(2024, 1))
	if c[0].ActualRank == 99 {
		t.Fatalf("provider leaked its internal slice")
	}
}

func TestProvider_FlexExcludesQuarterbacks(t *testing.T) {
	p, err := NewProvider()
	if err != nil {
		t.Fatalf("new provider: %v", err)
	}

	rows, err := p.FetchActualPerformance(context.Background(), ranking.PositionFlex, ranking.WeeklyPeriod(2024, 1))
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if len(rows) != 30 {
		t.Fatalf("expected 30 flex rows, got %d", len(rows))
	}
	for _, row := range rows {
		if row.Position == string(ranking.PositionQuarterback) {
			t.Fatalf("unexpected quarterback in flex list: %s", row.PlayerID)
		}
	}
	if rows[0].PlayerID != "rb1" || rows[0].ActualRank != 1 {
		t.Fatalf("expected rb1 at the top, got %+v", rows[0])
	}
}

func TestParse_RejectsUnknownPosition(t *testing.T) {
	if _, err := Parse([]byte("K:\n  - {id: k1, rank: 1}\n")); err == nil {
		t.Fatalf("expected error for unknown position")
	}
}
