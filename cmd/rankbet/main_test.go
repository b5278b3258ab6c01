package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/bytedance/sonic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/riskibarqy/rankbet/internal/usecase"
)

const sampleScoreFile = `position: qb
predicted:
  - {player_id: qb1, rank: 1, starred: true}
  - {player_id: qb2, rank: 2}
  - {player_id: qb3, rank: 3}
  - {player_id: qb4, rank: 4}
  - {player_id: qb5, rank: 5}
actual:
  - {player_id: qb1, rank: 1, points: 31.2}
  - {player_id: qb2, rank: 3, points: 26.0}
  - {player_id: qb3, rank: 8, points: 19.4}
  - {player_id: qb4, rank: 2, points: 28.1}
  - {player_id: qb5, rank: 25, points: 6.3}
`

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()

	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&bytes.Buffer{})
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestRootCmd_RegistersSubcommands(t *testing.T) {
	root := newRootCmd()

	names := map[string]bool{}
	for _, sub := range root.Commands() {
		names[sub.Name()] = true
	}
	assert.True(t, names["score"], "score subcommand should exist")
	assert.True(t, names["simulate"], "simulate subcommand should exist")
	assert.True(t, names["migrate"], "migrate subcommand should exist")

	flag := root.PersistentFlags().Lookup("log-level")
	require.NotNil(t, flag)
	assert.Equal(t, "info", flag.DefValue)
}

func TestScoreCmd_ScoresFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ranking.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sampleScoreFile), 0o600))

	out, err := execute(t, "", "score", "--file", path)
	require.NoError(t, err)

	var got scoreOutput
	require.NoError(t, sonic.UnmarshalString(out, &got))
	assert.Equal(t, "QB", got.Position)
	assert.Equal(t, 67.0, got.AccuracyPercentage)
	assert.Equal(t, 1, got.Details.PerfectMatches)
	assert.Len(t, got.Players, 5)
}

func TestScoreCmd_ReadsStdinAndFallsBackToDemoFeed(t *testing.T) {
	input := `position: QB
predicted:
  - {player_id: qb1, rank: 1}
  - {player_id: qb2, rank: 2}
`
	out, err := execute(t, input, "score", "--file", "-")
	require.NoError(t, err)

	var got scoreOutput
	require.NoError(t, sonic.UnmarshalString(out, &got))
	assert.Equal(t, 2, got.Details.ScoredPlayers)
}

func TestScoreCmd_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{name: "bad position", input: "position: K\npredicted:\n  - {player_id: k1, rank: 1}\n"},
		{name: "bad yaml", input: "position: [QB\n"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := execute(t, tc.input, "score", "--file", "-")
			assert.Error(t, err)
		})
	}

	_, err := execute(t, "", "score")
	assert.Error(t, err, "missing --file should fail")
}

func TestScoreCmd_EmptyPredictionsScoreZero(t *testing.T) {
	out, err := execute(t, "position: QB\npredicted: []\n", "score", "--file", "-")
	require.NoError(t, err)

	var got scoreOutput
	require.NoError(t, sonic.UnmarshalString(out, &got))
	assert.Equal(t, 0.0, got.AccuracyPercentage)
	assert.Equal(t, 0, got.Details.ScoredPlayers)
	assert.Empty(t, got.Players)
}

func TestSimulateCmd_JSONReport(t *testing.T) {
	out, err := execute(t, "", "simulate", "--users", "50", "--seed", "3", "--season", "2024", "--week", "6", "--position", "QB,RB", "--json")
	require.NoError(t, err)

	var report usecase.SimulationReport
	require.NoError(t, sonic.UnmarshalString(out, &report))
	assert.Equal(t, 50, report.Users)
	assert.Equal(t, "weekly:2024:6", report.Period)
	assert.Equal(t, 100, report.Overall.Count)
	require.Len(t, report.ByPosition, 2)
	assert.Equal(t, "QB", report.ByPosition[0].Name)
}

func TestSimulateCmd_TextReport(t *testing.T) {
	out, err := execute(t, "", "simulate", "--users", "20", "--season", "2024")
	require.NoError(t, err)
	assert.Contains(t, out, "period preseason:2024")
	assert.Contains(t, out, "Distribution")
}

func TestSimulateCmd_RejectsUnknownPosition(t *testing.T) {
	_, err := execute(t, "", "simulate", "--position", "K")
	assert.Error(t, err)
}
