// Package fixture serves deterministic actual-performance data for local
// development, demos and tests.
package fixture

import (
	"context"
	_ "embed"
	"fmt"
	"maps"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/riskibarqy/rankbet/internal/domain/performance"
	"github.com/riskibarqy/rankbet/internal/domain/ranking"
)

//go:embed fixtures.yaml
var defaultFixtures []byte

type fixtureRow struct {
	ID       string  `yaml:"id"`
	Name     string  `yaml:"name"`
	Team     string  `yaml:"team"`
	Rank     int     `yaml:"rank"`
	Points   float64 `yaml:"points"`
	Inactive bool    `yaml:"inactive"`
}

// Provider returns the same rows for a position regardless of period.
type Provider struct {
	rows map[ranking.Position][]performance.ActualPerformance
}

// NewProvider loads the embedded fixtures.
func NewProvider() (*Provider, error) {
	return Parse(defaultFixtures)
}

// Parse builds a provider from YAML keyed by position.
func Parse(raw []byte) (*Provider, error) {
	var doc map[string][]fixtureRow
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("decode performance fixtures: %w", err)
	}

	rows := make(map[ranking.Position][]performance.ActualPerformance, len(doc))
	for key, items := range doc {
		position, err := ranking.ParsePosition(key)
		if err != nil {
			return nil, fmt.Errorf("decode performance fixtures: %w", err)
		}
		out := make([]performance.ActualPerformance, 0, len(items))
		for _, item := range items {
			if item.ID == "" {
				return nil, fmt.Errorf("decode performance fixtures: %s row without id", position)
			}
			out = append(out, performance.ActualPerformance{
				PlayerID:   item.ID,
				Name:       item.Name,
				Team:       item.Team,
				Position:   string(position),
				ActualRank: item.Rank,
				Points:     item.Points,
				Inactive:   item.Inactive,
			})
		}
		rows[position] = out
	}

	return &Provider{rows: rows}, nil
}

func (p *Provider) FetchActualPerformance(ctx context.Context, position ranking.Position, _ ranking.Period) ([]performance.ActualPerformance, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if position == ranking.PositionOverall || position == ranking.PositionFlex {
		return p.combined(position), nil
	}
	return performance.Clone(p.rows[position]), nil
}

// Positions lists the positions with fixture data, sorted.
func (p *Provider) Positions() []ranking.Position {
	return slices.Sorted(maps.Keys(p.rows))
}

// combined re-ranks every eligible fixture row by points for the
// multi-position lists.
func (p *Provider) combined(position ranking.Position) []performance.ActualPerformance {
	var all []performance.ActualPerformance
	for _, key := range p.Positions() {
		if position == ranking.PositionFlex && key == ranking.PositionQuarterback {
			continue
		}
		all = append(all, p.rows[key]...)
	}
	return performance.RankByPoints(all)
}
