package stats

import (
	"bikeshare/pkg/types"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

// CategoryCount is the number and share of trips in one category.
type CategoryCount struct {
	Name  string  `json:"name"`
	Count int     `json:"count"`
	Share float64 `json:"share"`
}

// CategoryStats breaks trips down by a categorical column. Blank cells are
// excluded from both the counts and the share denominator.
type CategoryStats struct {
	Available bool            `json:"available"`
	Total     int             `json:"total"`
	Counts    []CategoryCount `json:"counts,omitempty"`
}

// BirthYearStats summarizes rider birth years.
type BirthYearStats struct {
	Available bool `json:"available"`
	Known     int  `json:"known"`
	Earliest  int  `json:"earliest,omitempty"`
	Latest    int  `json:"latest,omitempty"`
	Common    int  `json:"common,omitempty"`
}

// UserStats groups the demographic breakdowns.
type UserStats struct {
	UserTypes  CategoryStats  `json:"user_types"`
	Genders    CategoryStats  `json:"genders"`
	BirthYears BirthYearStats `json:"birth_years"`
}

// ComputeUsers builds the demographic breakdowns for the columns the
// dataset carries; absent columns are reported as unavailable.
func ComputeUsers(ds *types.Dataset) UserStats {
	var st UserStats
	if ds == nil {
		return st
	}

	if ds.Columns.UserType {
		st.UserTypes = categories("User Type", ds.Trips, func(t types.Trip) string { return t.UserType })
	}
	if ds.Columns.Gender {
		st.Genders = categories("Gender", ds.Trips, func(t types.Trip) string { return t.Gender })
	}
	if ds.Columns.BirthYear {
		st.BirthYears = birthYears(ds.Trips)
	}
	return st
}

func categories(col string, trips []types.Trip, value func(types.Trip) string) CategoryStats {
	values := make([]string, 0, len(trips))
	for _, trip := range trips {
		if v := value(trip); v != "" {
			values = append(values, v)
		}
	}

	st := CategoryStats{Available: true, Total: len(values)}
	if len(values) == 0 {
		return st
	}

	tally, err := StringCounts(dataframe.New(series.New(values, series.String, col)), col)
	warnOnError(col, err)
	for _, c := range Rank(tally) {
		st.Counts = append(st.Counts, CategoryCount{
			Name:  c.Value,
			Count: c.Count,
			Share: share(float64(c.Count), float64(st.Total)),
		})
	}
	return st
}

func birthYears(trips []types.Trip) BirthYearStats {
	const col = "Birth Year"

	years := make([]int, 0, len(trips))
	for _, trip := range trips {
		if trip.HasBirthYear {
			years = append(years, int(trip.BirthYear))
		}
	}

	st := BirthYearStats{Available: true, Known: len(years)}
	if len(years) == 0 {
		return st
	}

	s := series.New(years, series.Int, col)
	st.Earliest = int(s.Min())
	st.Latest = int(s.Max())

	tally, err := IntCounts(dataframe.New(s), col)
	warnOnError(col, err)
	st.Common, _ = Mode(tally)
	return st
}
