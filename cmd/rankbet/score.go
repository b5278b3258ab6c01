package main

import (
	"fmt"
	"io"
	"os"

	"github.com/bytedance/sonic"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/riskibarqy/rankbet/internal/domain/accuracy"
	"github.com/riskibarqy/rankbet/internal/domain/performance"
	"github.com/riskibarqy/rankbet/internal/domain/ranking"
	"github.com/riskibarqy/rankbet/internal/infrastructure/performance/fixture"
)

// scoreFile is the offline input of `rankbet score`. When Actual is empty
// the embedded demo feed for the position is used.
type scoreFile struct {
	Position  string          `yaml:"position"`
	Predicted []predictedRow  `yaml:"predicted"`
	Actual    []actualRowYAML `yaml:"actual"`
}

type predictedRow struct {
	PlayerID string `yaml:"player_id"`
	Rank     int    `yaml:"rank"`
	Starred  bool   `yaml:"starred"`
}

type actualRowYAML struct {
	PlayerID string  `yaml:"player_id"`
	Name     string  `yaml:"name"`
	Team     string  `yaml:"team"`
	Rank     int     `yaml:"rank"`
	Points   float64 `yaml:"points"`
	Inactive bool    `yaml:"inactive"`
}

type scoreOutput struct {
	Position           string             `json:"position"`
	AccuracyPercentage float64            `json:"accuracy_percentage"`
	BaseScore          float64            `json:"base_score"`
	Bonuses            float64            `json:"bonuses"`
	Penalties          float64            `json:"penalties"`
	Details            scoreDetails       `json:"details"`
	Players            []scoreOutputEntry `json:"players"`
}

type scoreDetails struct {
	PerfectMatches   int `json:"perfect_matches"`
	CloseMatches     int `json:"close_matches"`
	Top10Correct     int `json:"top10_correct"`
	Top5Correct      int `json:"top5_correct"`
	Busts            int `json:"busts"`
	InactivePlayers  int `json:"inactive_players"`
	ScoredPlayers    int `json:"scored_players"`
	UnmatchedPlayers int `json:"unmatched_players"`
}

type scoreOutputEntry struct {
	PlayerID      string  `json:"player_id"`
	PredictedRank int     `json:"predicted_rank"`
	ActualRank    int     `json:"actual_rank,omitempty"`
	Credit        float64 `json:"credit"`
	Bonus         float64 `json:"bonus"`
	Penalty       float64 `json:"penalty"`
	Outcome       string  `json:"outcome"`
}

func newScoreCmd() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "score",
		Short: "Score a ranking stored in a YAML file",
		Example: `  rankbet score --file ranking.yaml
  cat ranking.yaml | rankbet score --file -`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			raw, err := readInput(cmd.InOrStdin(), file)
			if err != nil {
				return err
			}
			out, err := scoreYAML(cmd, raw)
			if err != nil {
				return err
			}
			encoded, err := sonic.ConfigStd.MarshalIndent(out, "", "  ")
			if err != nil {
				return fmt.Errorf("encode result: %w", err)
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), string(encoded))
			return err
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "YAML file with position, predicted and actual rows (- for stdin)")
	_ = cmd.MarkFlagRequired("file")

	return cmd
}

func readInput(stdin io.Reader, path string) ([]byte, error) {
	if path == "-" {
		raw, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		return raw, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return raw, nil
}

func scoreYAML(cmd *cobra.Command, raw []byte) (scoreOutput, error) {
	var doc scoreFile
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return scoreOutput{}, fmt.Errorf("decode score file: %w", err)
	}
	position, err := ranking.ParsePosition(doc.Position)
	if err != nil {
		return scoreOutput{}, err
	}
	predicted := make([]accuracy.PredictedRanking, 0, len(doc.Predicted))
	for _, row := range doc.Predicted {
		predicted = append(predicted, accuracy.PredictedRanking{
			PlayerID:     row.PlayerID,
			RankPosition: row.Rank,
			IsStarred:    row.Starred,
		})
	}

	var actual []performance.ActualPerformance
	if len(doc.Actual) == 0 {
		provider, err := fixture.NewProvider()
		if err != nil {
			return scoreOutput{}, err
		}
		actual, err = provider.FetchActualPerformance(cmd.Context(), position, ranking.PreseasonPeriod(1))
		if err != nil {
			return scoreOutput{}, err
		}
		cliLogger.Info("no actual rows in file, using demo feed", "position", position, "rows", len(actual))
	} else {
		actual = make([]performance.ActualPerformance, 0, len(doc.Actual))
		for _, row := range doc.Actual {
			actual = append(actual, performance.ActualPerformance{
				PlayerID:   row.PlayerID,
				Name:       row.Name,
				Team:       row.Team,
				Position:   string(position),
				ActualRank: row.Rank,
				Points:     row.Points,
				Inactive:   row.Inactive,
			})
		}
	}

	result := accuracy.Calculate(predicted, actual, position)
	out := scoreOutput{
		Position:           string(result.Position),
		AccuracyPercentage: result.AccuracyPercentage,
		BaseScore:          result.Breakdown.BaseScore,
		Bonuses:            result.Breakdown.Bonuses,
		Penalties:          result.Breakdown.Penalties,
		Details:            scoreDetails(result.Breakdown.Details),
		Players:            make([]scoreOutputEntry, 0, len(result.Players)),
	}
	for _, p := range result.Players {
		out.Players = append(out.Players, scoreOutputEntry{
			PlayerID:      p.PlayerID,
			PredictedRank: p.PredictedRank,
			ActualRank:    p.ActualRank,
			Credit:        p.Credit,
			Bonus:         p.Bonus,
			Penalty:       p.Penalty,
			Outcome:       string(p.Outcome),
		})
	}
	return out, nil
}
