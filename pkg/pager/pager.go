package pager

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"bikeshare/pkg/metrics"
	"bikeshare/pkg/types"
)

// DefaultPageSize is the number of rows shown per "yes".
const DefaultPageSize = 5

// Question is asked before every page.
const Question = "Do you want to see the raw data? Enter yes or no."

// EndNotice is printed when the cursor has moved past the last row.
const EndNotice = "No more rows to display."

// Confirmer asks a yes/no question.
type Confirmer interface {
	Confirm(question string) (bool, error)
}

// Pager walks a dataset in fixed-size windows. The cursor starts at zero.
type Pager struct {
	ds     *types.Dataset
	size   int
	cursor int
}

func New(ds *types.Dataset, size int) *Pager {
	if size <= 0 {
		size = DefaultPageSize
	}
	return &Pager{ds: ds, size: size}
}

// Next returns rows [cursor, cursor+size) clamped to the dataset and advances
// the cursor by size. Past the end it returns an empty window.
func (p *Pager) Next() []types.Trip {
	n := p.ds.Len()
	if n == 0 {
		p.cursor += p.size
		return nil
	}
	start := min(p.cursor, n)
	end := min(p.cursor+p.size, n)
	p.cursor += p.size
	return p.ds.Trips[start:end:end]
}

// Run shows a page each time the user answers yes and stops at the first
// other answer.
func Run(ctx context.Context, confirm Confirmer, out io.Writer, ds *types.Dataset, size int) error {
	p := New(ds, size)
	for {
		more, err := confirm.Confirm(Question)
		if err != nil {
			return err
		}
		if !more {
			return nil
		}

		rows := p.Next()
		if len(rows) == 0 {
			fmt.Fprintln(out, EndNotice)
		} else if err := Render(out, ds.Columns, rows); err != nil {
			return err
		}
		metrics.RecordPageShown(ctx)
	}
}

// Render prints rows as an aligned table with the columns the dataset carries.
func Render(out io.Writer, cols types.Columns, rows []types.Trip) error {
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)

	header := []string{"", "Start Time"}
	if cols.EndTime {
		header = append(header, "End Time")
	}
	header = append(header, "Trip Duration", "Start Station", "End Station")
	if cols.UserType {
		header = append(header, "User Type")
	}
	if cols.Gender {
		header = append(header, "Gender")
	}
	if cols.BirthYear {
		header = append(header, "Birth Year")
	}
	header = append(header, "Month Name", "Weekday", "Start Hour")
	fmt.Fprintln(tw, strings.Join(header, "\t"))

	for _, trip := range rows {
		cells := []string{strconv.Itoa(trip.Index), trip.StartTime.Format("2006-01-02 15:04:05")}
		if cols.EndTime {
			cells = append(cells, trip.EndTime)
		}
		cells = append(cells,
			strconv.FormatFloat(trip.Duration, 'f', -1, 64),
			trip.StartStation,
			trip.EndStation,
		)
		if cols.UserType {
			cells = append(cells, blank(trip.UserType))
		}
		if cols.Gender {
			cells = append(cells, blank(trip.Gender))
		}
		if cols.BirthYear {
			year := "NaN"
			if trip.HasBirthYear {
				year = strconv.FormatFloat(trip.BirthYear, 'f', 1, 64)
			}
			cells = append(cells, year)
		}
		cells = append(cells, trip.MonthName, trip.Weekday, strconv.Itoa(trip.StartHour))
		fmt.Fprintln(tw, strings.Join(cells, "\t"))
	}

	return tw.Flush()
}

func blank(s string) string {
	if s == "" {
		return "NaN"
	}
	return s
}
