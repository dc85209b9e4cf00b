package stats

import "bikeshare/pkg/types"

// Day part names in report order
const (
	Morning   = "Morning"
	Afternoon = "Afternoon"
	Evening   = "Evening"
	Night     = "Night"
)

var dayPartOrder = []string{Morning, Afternoon, Evening, Night}

// DayPart is the number and share of trips starting in one part of the day.
type DayPart struct {
	Name  string  `json:"name"`
	Count int     `json:"count"`
	Share float64 `json:"share"`
}

// TimeStats summarizes when trips start.
type TimeStats struct {
	Trips         int       `json:"trips"`
	CommonMonth   string    `json:"common_month"`
	CommonWeekday string    `json:"common_weekday"`
	CommonHour    int       `json:"common_hour"`
	DayParts      []DayPart `json:"day_parts"`
}

// DayPartOf buckets an hour of day: morning 7-12, afternoon 13-17,
// evening 18-20, night for everything else.
func DayPartOf(hour int) string {
	switch {
	case hour >= 7 && hour <= 12:
		return Morning
	case hour >= 13 && hour <= 17:
		return Afternoon
	case hour >= 18 && hour <= 20:
		return Evening
	default:
		return Night
	}
}

// ComputeTime finds the most common month, weekday and start hour, and the
// share of trips per day part.
func ComputeTime(ds *types.Dataset) TimeStats {
	n := ds.Len()
	st := TimeStats{Trips: n}
	parts := make(map[string]int, len(dayPartOrder))

	if n > 0 {
		df := Frame(ds)

		months, err := StringCounts(df, ColMonth)
		warnOnError("month", err)
		st.CommonMonth, _ = Mode(months)

		weekdays, err := StringCounts(df, ColWeekday)
		warnOnError("weekday", err)
		st.CommonWeekday, _ = Mode(weekdays)

		hours, err := IntCounts(df, ColHour)
		warnOnError("hour", err)
		st.CommonHour, _ = Mode(hours)
		for hour, count := range hours {
			parts[DayPartOf(hour)] += count
		}
	}

	st.DayParts = make([]DayPart, 0, len(dayPartOrder))
	for _, name := range dayPartOrder {
		st.DayParts = append(st.DayParts, DayPart{
			Name:  name,
			Count: parts[name],
			Share: share(float64(parts[name]), float64(n)),
		})
	}
	return st
}
