package performance

import "testing"

func TestRankByPoints(t *testing.T) {
	rows := []ActualPerformance{
		{PlayerID: "c", Points: 12.5},
		{PlayerID: "a", Points: 20},
		{PlayerID: "z", Points: 40, Inactive: true},
		{PlayerID: "b", Points: 12.5},
		{PlayerID: "d", Points: 3},
	}

	out := RankByPoints(rows)

	want := []struct {
		id   string
		rank int
	}{
		{"a", 1},
		{"b", 2},
		{"c", 3},
		{"d", 4},
		{"z", 0},
	}
	if len(out) != len(want) {
		t.Fatalf("expected %d rows, got %d", len(want), len(out))
	}
	for i, w := range want {
		if out[i].PlayerID != w.id || out[i].ActualRank != w.rank {
			t.Fatalf("row %d: expected %s=%d, got %s=%d", i, w.id, w.rank, out[i].PlayerID, out[i].ActualRank)
		}
	}
	if rows[0].ActualRank != 0 {
		t.Fatalf("input must not be mutated")
	}
}

func TestIsInactive(t *testing.T) {
	if !(ActualPerformance{ActualRank: 0}).IsInactive() {
		t.Fatalf("rank 0 should be inactive")
	}
	if !(ActualPerformance{ActualRank: 3, Inactive: true}).IsInactive() {
		t.Fatalf("flagged row should be inactive")
	}
	if (ActualPerformance{ActualRank: 3}).IsInactive() {
		t.Fatalf("ranked row should be active")
	}
}
