package ranking

import "testing"

func TestListFilter_Matches(t *testing.T) {
	weekly := Ranking{Position: PositionQuarterback, Period: WeeklyPeriod(2024, 6)}
	preseason := Ranking{Position: PositionRunningBack, Period: PreseasonPeriod(2024)}
	week := 6
	otherWeek := 7

	tests := []struct {
		name   string
		filter ListFilter
		item   Ranking
		want   bool
	}{
		{name: "empty filter", filter: ListFilter{}, item: preseason, want: true},
		{name: "position", filter: ListFilter{Position: PositionQuarterback}, item: preseason, want: false},
		{name: "type", filter: ListFilter{Type: TypeWeekly}, item: weekly, want: true},
		{name: "season", filter: ListFilter{Season: 2023}, item: weekly, want: false},
		{name: "week", filter: ListFilter{Week: &week}, item: weekly, want: true},
		{name: "other week", filter: ListFilter{Week: &otherWeek}, item: weekly, want: false},
		{name: "week on preseason", filter: ListFilter{Week: &week}, item: preseason, want: false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.filter.Matches(tc.item); got != tc.want {
				t.Fatalf("Matches() = %v, want %v", got, tc.want)
			}
		})
	}
}
