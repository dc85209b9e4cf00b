package stats

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"bikeshare/pkg/types"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

// Column names of the trip frame
const (
	ColMonth    = "Month Name"
	ColWeekday  = "Weekday"
	ColHour     = "Start Hour"
	ColStart    = "Start Station"
	ColEnd      = "End Station"
	ColRoute    = "Route"
	ColDuration = "Trip Duration"
)

// routeSep joins start and end station into one groupable value.
const routeSep = "\x1f"

// Frame lays the trips of ds out as a dataframe with the derived calendar
// columns, the stations, a start/end route column and the duration.
func Frame(ds *types.Dataset) dataframe.DataFrame {
	n := ds.Len()
	months := make([]string, n)
	weekdays := make([]string, n)
	hours := make([]int, n)
	starts := make([]string, n)
	ends := make([]string, n)
	routes := make([]string, n)
	durations := make([]float64, n)

	for i := 0; i < n; i++ {
		trip := ds.Trips[i]
		months[i] = trip.MonthName
		weekdays[i] = trip.Weekday
		hours[i] = trip.StartHour
		starts[i] = trip.StartStation
		ends[i] = trip.EndStation
		routes[i] = trip.StartStation + routeSep + trip.EndStation
		durations[i] = trip.Duration
	}

	return dataframe.New(
		series.New(months, series.String, ColMonth),
		series.New(weekdays, series.String, ColWeekday),
		series.New(hours, series.Int, ColHour),
		series.New(starts, series.String, ColStart),
		series.New(ends, series.String, ColEnd),
		series.New(routes, series.String, ColRoute),
		series.New(durations, series.Float, ColDuration),
	)
}

// groupBy splits df on col. The map keys are the column values as gota
// formats them.
func groupBy(df dataframe.DataFrame, col string) (map[string]dataframe.DataFrame, error) {
	if df.Err != nil {
		return nil, df.Err
	}
	if df.Nrow() == 0 {
		return map[string]dataframe.DataFrame{}, nil
	}
	groups := df.GroupBy(col)
	if groups.Err != nil {
		return nil, fmt.Errorf("failed to group by %s: %w", col, groups.Err)
	}
	return groups.GetGroups(), nil
}

// StringCounts tallies the values of a string column.
func StringCounts(df dataframe.DataFrame, col string) (map[string]int, error) {
	groups, err := groupBy(df, col)
	if err != nil {
		return nil, err
	}
	tally := make(map[string]int, len(groups))
	for key, g := range groups {
		tally[key] = g.Nrow()
	}
	return tally, nil
}

// IntCounts tallies the values of an int column.
func IntCounts(df dataframe.DataFrame, col string) (map[int]int, error) {
	groups, err := groupBy(df, col)
	if err != nil {
		return nil, err
	}
	tally := make(map[int]int, len(groups))
	for key, g := range groups {
		v, err := strconv.Atoi(key)
		if err != nil {
			return nil, fmt.Errorf("column %s has non-integer group %q", col, key)
		}
		tally[v] = g.Nrow()
	}
	return tally, nil
}

// GroupSums totals sumCol for every distinct value of byCol.
func GroupSums(df dataframe.DataFrame, byCol, sumCol string) (map[string]float64, error) {
	groups, err := groupBy(df, byCol)
	if err != nil {
		return nil, err
	}
	sums := make(map[string]float64, len(groups))
	for key, g := range groups {
		sums[key] = g.Col(sumCol).Sum()
	}
	return sums, nil
}

func splitRoute(route string) Route {
	start, end, _ := strings.Cut(route, routeSep)
	return Route{Start: start, End: end}
}

// warnOnError logs aggregation failures; the affected statistic stays empty.
func warnOnError(stat string, err error) {
	if err != nil {
		slog.Warn("Failed to aggregate trips", "stat", stat, "error", err)
	}
}
