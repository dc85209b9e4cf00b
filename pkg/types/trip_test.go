package types

import (
	"encoding/json"
	"testing"
	"time"
)

func TestFilterSelection_Flags(t *testing.T) {
	tests := []struct {
		name      string
		sel       FilterSelection
		wantMonth bool
		wantDay   bool
	}{
		{"no filters", FilterSelection{City: "chicago", Month: All, Day: All}, false, false},
		{"month only", FilterSelection{City: "chicago", Month: "March", Day: All}, true, false},
		{"day only", FilterSelection{City: "washington", Month: All, Day: "Friday"}, false, true},
		{"both", FilterSelection{City: "new york", Month: "June", Day: "Sunday"}, true, true},
		{"zero value", FilterSelection{}, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.sel.MonthFiltered(); got != tt.wantMonth {
				t.Errorf("MonthFiltered() = %v, want %v", got, tt.wantMonth)
			}
			if got := tt.sel.DayFiltered(); got != tt.wantDay {
				t.Errorf("DayFiltered() = %v, want %v", got, tt.wantDay)
			}
		})
	}
}

func TestDataset_LenNilSafe(t *testing.T) {
	var ds *Dataset
	if ds.Len() != 0 {
		t.Errorf("nil Dataset Len() = %d, want 0", ds.Len())
	}
	ds = &Dataset{Trips: make([]Trip, 3)}
	if ds.Len() != 3 {
		t.Errorf("Len() = %d, want 3", ds.Len())
	}
}

func TestWeekdaysMatchTimePackage(t *testing.T) {
	for i, name := range Weekdays {
		if time.Weekday(i).String() != name {
			t.Errorf("Weekdays[%d] = %q, want %q", i, name, time.Weekday(i).String())
		}
	}
	for i, name := range Months {
		if time.Month(i+1).String() != name {
			t.Errorf("Months[%d] = %q, want %q", i, name, time.Month(i+1).String())
		}
	}
}

func TestTripJSON_OmitsMissingOptionalFields(t *testing.T) {
	trip := Trip{
		Index:        4,
		StartTime:    time.Date(2017, time.June, 23, 15, 9, 32, 0, time.UTC),
		Duration:     1002,
		StartStation: "Wood St & Hubbard St",
		EndStation:   "Damen Ave & Chicago Ave",
		MonthName:    "June",
		Weekday:      "Friday",
		StartHour:    15,
	}

	data, err := json.Marshal(trip)
	if err != nil {
		t.Fatalf("Failed to marshal Trip: %v", err)
	}

	var result map[string]interface{}
	if err := json.Unmarshal(data, &result); err != nil {
		t.Fatalf("Failed to unmarshal JSON: %v", err)
	}

	for _, key := range []string{"user_type", "gender", "birth_year", "end_time"} {
		if _, ok := result[key]; ok {
			t.Errorf("expected %q to be omitted, got %v", key, result[key])
		}
	}
	if result["start_station"] != "Wood St & Hubbard St" {
		t.Errorf("start_station = %v, want %v", result["start_station"], "Wood St & Hubbard St")
	}
	if result["start_hour"] != float64(15) {
		t.Errorf("start_hour = %v, want 15", result["start_hour"])
	}
}
