package ranking

import "time"

const (
	RegularSeasonWeeks = 18
	weekDuration       = 7 * 24 * time.Hour
)

// SeasonStart returns kickoff of week 1: the Thursday after Labor Day
// (the first Monday of September), in UTC.
func SeasonStart(season int) time.Time {
	laborDay := time.Date(season, time.September, 1, 0, 0, 0, 0, time.UTC)
	for laborDay.Weekday() != time.Monday {
		laborDay = laborDay.AddDate(0, 0, 1)
	}
	return laborDay.AddDate(0, 0, 3)
}

// CurrentPeriod maps a wall clock time to the ranking period in play. Before
// kickoff it is the preseason of the upcoming season; a week runs from
// Tuesday through Monday night. January and February still belong to the
// previous season, which is pinned to its last regular week.
func CurrentPeriod(now time.Time) Period {
	now = now.UTC()
	season := now.Year()
	if now.Month() < time.March {
		return WeeklyPeriod(season-1, RegularSeasonWeeks)
	}

	start := SeasonStart(season)
	if now.Before(start) {
		return PreseasonPeriod(season)
	}

	// Week 1 ends at the Tuesday after its Thursday kickoff.
	week1End := start.AddDate(0, 0, 5)
	if now.Before(week1End) {
		return WeeklyPeriod(season, 1)
	}
	n := 2 + int(now.Sub(week1End)/weekDuration)
	return WeeklyPeriod(season, min(n, RegularSeasonWeeks))
}
