package stats

import (
	"bikeshare/pkg/types"
)

// Route is a directed start/end station pair.
type Route struct {
	Start string `json:"start_station"`
	End   string `json:"end_station"`
}

// StationStats holds the most used stations and trip.
type StationStats struct {
	CommonStart string `json:"common_start_station"`
	CommonEnd   string `json:"common_end_station"`
	CommonRoute Route  `json:"common_route"`
	RouteTrips  int    `json:"common_route_trips"`
}

// ComputeStations finds the most common start station, end station and
// start/end combination.
func ComputeStations(ds *types.Dataset) StationStats {
	var st StationStats
	if ds.Len() == 0 {
		return st
	}
	df := Frame(ds)

	starts, err := StringCounts(df, ColStart)
	warnOnError("start station", err)
	st.CommonStart, _ = Mode(starts)

	ends, err := StringCounts(df, ColEnd)
	warnOnError("end station", err)
	st.CommonEnd, _ = Mode(ends)

	// Joined routes sort by start station, then end station
	routes, err := StringCounts(df, ColRoute)
	warnOnError("route", err)
	if ranked := Rank(routes); len(ranked) > 0 {
		st.CommonRoute = splitRoute(ranked[0].Value)
		st.RouteTrips = ranked[0].Count
	}
	return st
}
