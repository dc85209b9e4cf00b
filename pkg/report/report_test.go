package report

import (
	"bytes"
	"context"
	"regexp"
	"strings"
	"testing"
	"time"

	"bikeshare/pkg/types"
)

func trip(start string, duration float64, from, to string) types.Trip {
	ts, _ := time.Parse("2006-01-02 15:04:05", start)
	return types.Trip{
		StartTime:    ts,
		Duration:     duration,
		StartStation: from,
		EndStation:   to,
		MonthName:    ts.Month().String(),
		Weekday:      ts.Weekday().String(),
		StartHour:    ts.Hour(),
	}
}

func chicago() *types.Dataset {
	ds := &types.Dataset{
		City:    "chicago",
		Columns: types.Columns{UserType: true, Gender: true, BirthYear: true},
		Trips: []types.Trip{
			trip("2017-01-01 08:00:00", 1000, "Canal St", "Clark St"),
			trip("2017-01-01 09:00:00", 2000, "Canal St", "Clark St"),
			trip("2017-01-02 14:00:00", 3000, "Clark St", "Canal St"),
			trip("2017-02-03 22:00:00", 500.5, "Canal St", "State St"),
		},
	}
	for i := range ds.Trips {
		ds.Trips[i].UserType = "Subscriber"
		ds.Trips[i].Gender = "Female"
		ds.Trips[i].BirthYear = 1985
		ds.Trips[i].HasBirthYear = true
	}
	return ds
}

func TestReporter_Time(t *testing.T) {
	var out bytes.Buffer
	New(&out).Time(context.Background(), chicago())

	for _, want := range []string{
		"Calculating The Most Frequent Times of Travel...",
		"Most Common Month: January",
		"Most Common Day of Week: Sunday",
		"Most Common Start Hour: 8",
		" - Morning: 50.00%",
		" - Afternoon: 25.00%",
		" - Evening: 0.00%",
		" - Night: 25.00%",
		"This took ",
		Rule,
	} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("output missing %q:\n%s", want, out.String())
		}
	}
}

func TestReporter_Stations(t *testing.T) {
	var out bytes.Buffer
	st := New(&out).Stations(context.Background(), chicago())

	if st.RouteTrips != 2 {
		t.Errorf("RouteTrips = %d, want 2", st.RouteTrips)
	}
	want := " - START STATION: Canal St / END STATION: Clark St"
	if !strings.Contains(out.String(), want) {
		t.Errorf("output missing %q:\n%s", want, out.String())
	}
}

func TestReporter_Durations(t *testing.T) {
	tests := []struct {
		name        string
		day         string
		wantLines   []string
		unwantLines []string
	}{
		{
			name: "all days",
			day:  types.All,
			wantLines: []string{
				"Total Travel Time: 6,500.50",
				"Mean Travel Time: 1625.12",
				"According the day, Total Travel Time are divided into:",
				" - Sunday: 3,000 (46.15%)",
			},
		},
		{
			name:        "single day",
			day:         "Sunday",
			wantLines:   []string{"Total Travel Time: 6,500.50"},
			unwantLines: []string{"According the day"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			New(&out).Durations(context.Background(), chicago(), tt.day)

			for _, want := range tt.wantLines {
				if !strings.Contains(out.String(), want) {
					t.Errorf("output missing %q:\n%s", want, out.String())
				}
			}
			for _, unwant := range tt.unwantLines {
				if strings.Contains(out.String(), unwant) {
					t.Errorf("output unexpectedly contains %q", unwant)
				}
			}
		})
	}
}

func TestReporter_Users(t *testing.T) {
	var out bytes.Buffer
	New(&out).Users(context.Background(), chicago())

	for _, want := range []string{
		" - Subscriber: 4 (100.00%)",
		" - Female: 4 (100.00%)",
		" - Earliest year of birth: 1985",
		" - Most Common year of birth: 1985",
	} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("output missing %q:\n%s", want, out.String())
		}
	}
}

func TestReporter_UsersUnavailable(t *testing.T) {
	ds := chicago()
	ds.City = "new york"
	ds.Columns = types.Columns{}

	var out bytes.Buffer
	st := New(&out).Users(context.Background(), ds)

	if st.UserTypes.Available || st.Genders.Available || st.BirthYears.Available {
		t.Errorf("expected no demographic stats, got %+v", st)
	}
	for _, want := range []string{
		"User Type statistics are not available for New York!",
		"Gender statistics are not available for New York!",
		"Birth Year statistics are not available for New York!",
	} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("output missing %q:\n%s", want, out.String())
		}
	}
	if strings.Contains(out.String(), "divided into") {
		t.Errorf("unexpected breakdown in output:\n%s", out.String())
	}
}

func TestReporter_EmptyDataset(t *testing.T) {
	ds := &types.Dataset{City: "chicago"}
	r := New(&bytes.Buffer{})

	var out bytes.Buffer
	r.out = &out
	r.Time(context.Background(), ds)
	r.Stations(context.Background(), ds)
	r.Durations(context.Background(), ds, types.All)
	r.Users(context.Background(), ds)

	if got := strings.Count(out.String(), EmptyNotice); got != 4 {
		t.Errorf("expected 4 empty notices, got %d:\n%s", got, out.String())
	}
	if strings.Contains(out.String(), "Most Common Month") {
		t.Errorf("unexpected statistics for empty dataset:\n%s", out.String())
	}
}

func TestReporter_ElapsedIsPlainDecimal(t *testing.T) {
	var out bytes.Buffer
	New(&out).Time(context.Background(), &types.Dataset{City: "chicago"})

	elapsed := regexp.MustCompile(`This took [0-9]+(\.[0-9]+)? seconds\.`)
	if !elapsed.MatchString(out.String()) {
		t.Errorf("elapsed time not printed as a plain decimal:\n%s", out.String())
	}
}

func TestReporter_UsersUnavailableWhenEmpty(t *testing.T) {
	tests := []struct {
		name    string
		columns types.Columns
		want    []string
		unwant  []string
	}{
		{
			name:    "no optional columns",
			columns: types.Columns{},
			want: []string{
				"User Type statistics are not available for Washington!",
				"Gender statistics are not available for Washington!",
				"Birth Year statistics are not available for Washington!",
			},
		},
		{
			name:    "only gender missing",
			columns: types.Columns{UserType: true, BirthYear: true},
			want:    []string{"Gender statistics are not available for Washington!"},
			unwant:  []string{"User Type statistics are not available", "Birth Year statistics are not available"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			New(&out).Users(context.Background(), &types.Dataset{City: "washington", Columns: tt.columns})

			for _, want := range append(tt.want, EmptyNotice) {
				if !strings.Contains(out.String(), want) {
					t.Errorf("output missing %q:\n%s", want, out.String())
				}
			}
			for _, unwant := range tt.unwant {
				if strings.Contains(out.String(), unwant) {
					t.Errorf("output unexpectedly contains %q", unwant)
				}
			}
		})
	}
}
