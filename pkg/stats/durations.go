package stats

import (
	"cmp"
	"slices"

	"bikeshare/pkg/types"
)

// WeekdayDuration is the total travel time of one weekday.
type WeekdayDuration struct {
	Weekday string  `json:"weekday"`
	Total   float64 `json:"total"`
	Share   float64 `json:"share"`
}

// DurationStats holds travel time totals in seconds.
type DurationStats struct {
	Trips     int               `json:"trips"`
	Total     float64           `json:"total"`
	Mean      float64           `json:"mean"`
	ByWeekday []WeekdayDuration `json:"by_weekday,omitempty"`
}

// ComputeDurations sums and averages trip durations. The per-weekday
// breakdown is only produced when day is types.All, largest total first.
func ComputeDurations(ds *types.Dataset, day string) DurationStats {
	st := DurationStats{Trips: ds.Len()}
	if st.Trips == 0 {
		return st
	}

	df := Frame(ds)
	durations := df.Col(ColDuration)
	st.Total = durations.Sum()
	st.Mean = durations.Mean()

	if day != types.All {
		return st
	}

	perDay, err := GroupSums(df, ColWeekday, ColDuration)
	warnOnError("weekday durations", err)

	st.ByWeekday = make([]WeekdayDuration, 0, len(perDay))
	for weekday, total := range perDay {
		st.ByWeekday = append(st.ByWeekday, WeekdayDuration{
			Weekday: weekday,
			Total:   total,
			Share:   share(total, st.Total),
		})
	}
	slices.SortFunc(st.ByWeekday, func(a, b WeekdayDuration) int {
		if c := cmp.Compare(b.Total, a.Total); c != 0 {
			return c
		}
		return cmp.Compare(a.Weekday, b.Weekday)
	})
	return st
}
