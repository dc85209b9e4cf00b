package report

import (
	"context"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	"bikeshare/pkg/metrics"
	bsotel "bikeshare/pkg/otel"
	"bikeshare/pkg/stats"
	"bikeshare/pkg/types"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Rule separates report sections.
var Rule = strings.Repeat("-", 40)

// EmptyNotice replaces a report body when no trips survived filtering.
const EmptyNotice = "No trips match the selected filters."

// Reporter prints the statistics sections of one session iteration.
type Reporter struct {
	out     io.Writer
	printer *message.Printer
	title   cases.Caser
	tracer  trace.Tracer
}

func New(out io.Writer) *Reporter {
	return &Reporter{
		out:     out,
		printer: message.NewPrinter(language.English),
		title:   cases.Title(language.English),
		tracer:  otel.Tracer("report"),
	}
}

// Time prints the most frequent times of travel.
func (r *Reporter) Time(ctx context.Context, ds *types.Dataset) stats.TimeStats {
	var st stats.TimeStats
	r.section(ctx, "time", "Calculating The Most Frequent Times of Travel...", ds, func() {
		st = stats.ComputeTime(ds)
		if st.Trips == 0 {
			return
		}
		r.printf("Most Common Month: %s\n", st.CommonMonth)
		r.printf("\nMost Common Day of Week: %s\n", st.CommonWeekday)
		r.printf("\nMost Common Start Hour: %d\n", st.CommonHour)
		r.printf("\nMost Common Day Part as Start Hour:\n")
		for _, part := range st.DayParts {
			r.printf(" - %s: %s\n", part.Name, r.percent(part.Share))
		}
	})
	return st
}

// Stations prints the most popular stations and trip.
func (r *Reporter) Stations(ctx context.Context, ds *types.Dataset) stats.StationStats {
	var st stats.StationStats
	r.section(ctx, "stations", "Calculating The Most Popular Stations and Trip...", ds, func() {
		st = stats.ComputeStations(ds)
		if ds.Len() == 0 {
			return
		}
		r.printf("Most Commonly Used Start Station: %s\n", st.CommonStart)
		r.printf("\nMost Commonly Used End Station: %s\n", st.CommonEnd)
		r.printf("\nMost Frequent Combination of Start Station and End Station:\n - START STATION: %s / END STATION: %s\n",
			st.CommonRoute.Start, st.CommonRoute.End)
	})
	return st
}

// Durations prints total and mean travel time. The per-weekday breakdown
// only appears when day is types.All.
func (r *Reporter) Durations(ctx context.Context, ds *types.Dataset, day string) stats.DurationStats {
	var st stats.DurationStats
	r.section(ctx, "durations", "Calculating Trip Duration...", ds, func() {
		st = stats.ComputeDurations(ds, day)
		if st.Trips == 0 {
			return
		}
		r.printf("Total Travel Time: %s\n", r.number(st.Total))
		r.printf("\nMean Travel Time: %s\n", strconv.FormatFloat(st.Mean, 'f', 2, 64))
		if len(st.ByWeekday) > 0 {
			r.printf("\nAccording the day, Total Travel Time are divided into:\n")
			for _, wd := range st.ByWeekday {
				r.printf(" - %s: %s (%s)\n", wd.Weekday, r.number(wd.Total), r.percent(wd.Share))
			}
		}
	})
	return st
}

// Users prints the demographic breakdowns, or a notice per column the
// city's data does not carry.
func (r *Reporter) Users(ctx context.Context, ds *types.Dataset) stats.UserStats {
	var st stats.UserStats
	r.section(ctx, "users", "Calculating User Stats...", ds, func() {
		st = stats.ComputeUsers(ds)
		var city string
		if ds != nil {
			city = r.title.String(ds.City)
		}
		// Missing columns are reported even when no trips matched
		empty := ds.Len() == 0

		switch {
		case !st.UserTypes.Available:
			r.printf("User Type statistics are not available for %s!\n", city)
		case !empty:
			r.printf("According to the type, users are divided into:\n")
			r.categories(st.UserTypes)
		}

		switch {
		case !st.Genders.Available:
			r.printf("\nGender statistics are not available for %s!\n", city)
		case !empty:
			r.printf("\nAccording to the gender, users are divided into:\n")
			r.categories(st.Genders)
		}

		switch {
		case !st.BirthYears.Available:
			r.printf("\nBirth Year statistics are not available for %s!\n", city)
		case empty:
			// nothing to summarize
		case st.BirthYears.Known == 0:
			r.printf("\nBirth Year statistics:\n - No birth years recorded\n")
		default:
			r.printf("\nBirth Year statistics:\n")
			// Years print without grouping separators
			r.printf(" - Earliest year of birth: %s\n", strconv.Itoa(st.BirthYears.Earliest))
			r.printf(" - Most Recent year of birth: %s\n", strconv.Itoa(st.BirthYears.Latest))
			r.printf(" - Most Common year of birth: %s\n", strconv.Itoa(st.BirthYears.Common))
		}
	})
	return st
}

func (r *Reporter) section(ctx context.Context, name, heading string, ds *types.Dataset, body func()) {
	var city string
	if ds != nil {
		city = ds.City
	}
	ctx, span := r.tracer.Start(ctx, "report."+name,
		trace.WithAttributes(
			attribute.String("city", city),
			attribute.Int("trips", ds.Len()),
		),
	)
	defer span.End()

	start := time.Now()
	r.printf("\n%s\n\n", heading)
	body()
	if ds.Len() == 0 {
		r.printf("%s\n", EmptyNotice)
	}
	elapsed := time.Since(start)

	// Plain decimal; the locale printer would switch to scientific notation
	r.printf("\nThis took %s seconds.\n", strconv.FormatFloat(elapsed.Seconds(), 'f', -1, 64))
	r.printf("%s\n", Rule)

	metrics.RecordReport(ctx, name, elapsed)
	bsotel.SetSpanOk(span)
}

func (r *Reporter) categories(st stats.CategoryStats) {
	for _, c := range st.Counts {
		r.printf(" - %s: %d (%s)\n", c.Name, c.Count, r.percent(c.Share))
	}
}

func (r *Reporter) printf(format string, args ...any) {
	r.printer.Fprintf(r.out, format, args...)
}

// number groups thousands and keeps two decimals only for fractional values.
func (r *Reporter) number(v float64) string {
	if v == math.Trunc(v) && math.Abs(v) < 1<<53 {
		return r.printer.Sprintf("%d", int64(v))
	}
	return r.printer.Sprintf("%.2f", v)
}

func (r *Reporter) percent(share float64) string {
	return r.printer.Sprintf("%.2f%%", share*100)
}
