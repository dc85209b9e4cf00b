package types

import "time"

// All is the filter value meaning "no month/day restriction".
const All = "all"

// Trip is one bikeshare ride as read from a city CSV, plus the calendar
// fields derived from its start time.
type Trip struct {
	Index        int       `json:"index"` // zero-based row position in the source file
	StartTime    time.Time `json:"start_time"`
	EndTime      string    `json:"end_time,omitempty"`
	Duration     float64   `json:"trip_duration"` // seconds
	StartStation string    `json:"start_station"`
	EndStation   string    `json:"end_station"`

	// Optional columns. Blank cells stay empty / HasBirthYear false.
	UserType     string  `json:"user_type,omitempty"`
	Gender       string  `json:"gender,omitempty"`
	BirthYear    float64 `json:"birth_year,omitempty"`
	HasBirthYear bool    `json:"-"`

	// Derived at load time
	MonthName string `json:"month_name"`
	Weekday   string `json:"weekday"`
	StartHour int    `json:"start_hour"`
}

// Columns records which optional columns the source file carried.
type Columns struct {
	EndTime   bool
	UserType  bool
	Gender    bool
	BirthYear bool
}

// Dataset is the filtered trip collection for one session iteration.
type Dataset struct {
	City    string
	Columns Columns
	Trips   []Trip
}

// Len returns the number of trips in the dataset; nil-safe.
func (d *Dataset) Len() int {
	if d == nil {
		return 0
	}
	return len(d.Trips)
}

// FilterSelection is the user's city/month/day choice for one iteration.
type FilterSelection struct {
	City  string `json:"city"`
	Month string `json:"month"`
	Day   string `json:"day"`
}

// MonthFiltered reports whether a specific month was chosen.
func (f FilterSelection) MonthFiltered() bool {
	return f.Month != "" && f.Month != All
}

// DayFiltered reports whether a specific weekday was chosen.
func (f FilterSelection) DayFiltered() bool {
	return f.Day != "" && f.Day != All
}

// Months lists the months covered by the bikeshare datasets.
var Months = []string{"January", "February", "March", "April", "May", "June"}

// Weekdays lists weekday names Sunday first, matching the 1=Sunday prompt.
var Weekdays = []string{"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"}
