package httpapi

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/riskibarqy/rankbet/internal/domain/ranking"
	"github.com/riskibarqy/rankbet/internal/usecase"
)

// periodInput is the loose period selector accepted by query strings and
// request bodies. Zero values mean "not provided".
type periodInput struct {
	Type   string
	Season int
	Week   int
}

// resolve fills the gaps from the period in play at now. With nothing set the
// current period is used; a week without a type implies a weekly period and
// a season without a week implies preseason.
func (in periodInput) resolve(now time.Time) (ranking.Period, error) {
	current := ranking.CurrentPeriod(now)
	if strings.TrimSpace(in.Type) == "" && in.Season == 0 && in.Week == 0 {
		return current, nil
	}

	season := in.Season
	if season == 0 {
		season = current.Season
	}

	var typ ranking.Type
	switch {
	case strings.TrimSpace(in.Type) != "":
		parsed, err := ranking.ParseType(in.Type)
		if err != nil {
			return ranking.Period{}, fmt.Errorf("%w: %v", usecase.ErrInvalidInput, err)
		}
		typ = parsed
	case in.Week > 0:
		typ = ranking.TypeWeekly
	default:
		typ = ranking.TypePreseason
	}

	var period ranking.Period
	switch typ {
	case ranking.TypeWeekly:
		week := in.Week
		if week == 0 && season == current.Season && current.Week != nil {
			week = *current.Week
		}
		period = ranking.WeeklyPeriod(season, week)
	default:
		if in.Week != 0 {
			return ranking.Period{}, fmt.Errorf("%w: preseason period must not set a week", usecase.ErrInvalidInput)
		}
		period = ranking.PreseasonPeriod(season)
	}

	if err := period.Validate(); err != nil {
		return ranking.Period{}, fmt.Errorf("%w: %v", usecase.ErrInvalidInput, err)
	}
	return period, nil
}

func periodFromQuery(values url.Values) (periodInput, error) {
	season, err := optionalQueryInt(values, "season")
	if err != nil {
		return periodInput{}, err
	}
	week, err := optionalQueryInt(values, "week")
	if err != nil {
		return periodInput{}, err
	}
	return periodInput{
		Type:   values.Get("type"),
		Season: season,
		Week:   week,
	}, nil
}

func optionalQueryInt(values url.Values, key string) (int, error) {
	raw := strings.TrimSpace(values.Get(key))
	if raw == "" {
		return 0, nil
	}
	out, err := strconv.Atoi(raw)
	if err != nil || out <= 0 {
		return 0, fmt.Errorf("%w: %s must be a positive integer", usecase.ErrInvalidInput, key)
	}
	return out, nil
}

func parsePositions(raw []string) ([]ranking.Position, error) {
	out := make([]ranking.Position, 0, len(raw))
	for _, item := range raw {
		p, err := ranking.ParsePosition(item)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", usecase.ErrInvalidInput, err)
		}
		out = append(out, p)
	}
	return out, nil
}

func parsePosition(raw string) (ranking.Position, error) {
	p, err := ranking.ParsePosition(raw)
	if err != nil {
		return "", fmt.Errorf("%w: %v", usecase.ErrInvalidInput, err)
	}
	return p, nil
}
