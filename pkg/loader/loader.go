package loader

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"bikeshare/pkg/catalog"
	"bikeshare/pkg/metrics"
	bsotel "bikeshare/pkg/otel"
	"bikeshare/pkg/types"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

var (
	// ErrDataUnavailable means the CSV behind a city could not be located or read.
	ErrDataUnavailable = errors.New("data unavailable")

	// ErrMissingColumn means a required column is absent from the CSV header.
	ErrMissingColumn = errors.New("missing required column")
)

// Column names as they appear in the bikeshare CSV headers
const (
	ColStartTime    = "Start Time"
	ColEndTime      = "End Time"
	ColTripDuration = "Trip Duration"
	ColStartStation = "Start Station"
	ColEndStation   = "End Station"
	ColUserType     = "User Type"
	ColGender       = "Gender"
	ColBirthYear    = "Birth Year"
)

var requiredColumns = []string{ColStartTime, ColStartStation, ColEndStation, ColTripDuration}

var timeLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	time.RFC3339,
}

// Opener opens a source location for reading.
type Opener interface {
	Open(ctx context.Context, location string) (io.ReadCloser, error)
}

// Options tunes loader behavior.
type Options struct {
	// LegacyDayFilter evaluates the weekday predicate but keeps every row,
	// reproducing the historical behavior where the day filter had no effect.
	LegacyDayFilter bool
}

// Loader turns a FilterSelection into a filtered Dataset.
type Loader struct {
	catalog *catalog.Catalog
	opener  Opener
	opts    Options
	tracer  trace.Tracer
}

func New(cat *catalog.Catalog, opener Opener, opts Options) *Loader {
	return &Loader{
		catalog: cat,
		opener:  opener,
		opts:    opts,
		tracer:  otel.Tracer("loader"),
	}
}

// Load reads the CSV for sel.City and applies the month/day filters.
func (l *Loader) Load(ctx context.Context, sel types.FilterSelection) (*types.Dataset, error) {
	ctx, span := l.tracer.Start(ctx, "loader.load",
		trace.WithAttributes(
			attribute.String("city", sel.City),
			attribute.String("month", sel.Month),
			attribute.String("day", sel.Day),
			attribute.Bool("legacy_day_filter", l.opts.LegacyDayFilter),
		),
	)
	defer span.End()

	start := time.Now()

	if !l.catalog.Contains(sel.City) {
		err := fmt.Errorf("%w: unknown city %q", ErrDataUnavailable, sel.City)
		return nil, bsotel.Fail(span, err, bsotel.ErrorTypeValidation)
	}
	location, _ := l.catalog.Source(sel.City)

	rc, err := l.opener.Open(ctx, location)
	if err != nil {
		err = fmt.Errorf("%w: %s (%s): %w", ErrDataUnavailable, sel.City, location, err)
		return nil, bsotel.Fail(span, err, bsotel.ErrorTypeIO)
	}
	defer rc.Close()

	result, err := Parse(ctx, rc)
	if err != nil {
		if !errors.Is(err, ErrMissingColumn) {
			err = fmt.Errorf("%w: %s: %w", ErrDataUnavailable, sel.City, err)
		}
		return nil, bsotel.Fail(span, err, bsotel.ErrorTypeParse)
	}
	result.Dataset.City = sel.City

	if result.Skipped > 0 {
		slog.Warn("Skipped unparseable rows", "city", sel.City, "skipped", result.Skipped, "read", result.Read)
	}

	ds := Filter(result.Dataset, sel, l.opts)

	span.SetAttributes(
		attribute.Int("rows_read", result.Read),
		attribute.Int("rows_skipped", result.Skipped),
		attribute.Int("rows_kept", ds.Len()),
	)
	metrics.RecordLoad(ctx, sel.City, result.Read, result.Skipped, ds.Len(), time.Since(start))
	slog.Debug("Dataset loaded",
		"city", sel.City,
		"source", location,
		"rows", result.Read,
		"kept", ds.Len(),
		"duration", time.Since(start),
	)
	bsotel.SetSpanOk(span)

	return ds, nil
}

// ParseResult carries the parsed dataset and row accounting.
type ParseResult struct {
	Dataset *types.Dataset
	Read    int
	Skipped int
}

// Parse reads a bikeshare CSV and derives month, weekday and hour for every
// trip. Rows with an unparseable start time or duration are skipped.
func Parse(ctx context.Context, r io.Reader) (*ParseResult, error) {
	_, span := otel.Tracer("loader").Start(ctx, "loader.parse")
	defer span.End()

	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.ReuseRecord = true
	// Stray quotes inside unquoted fields are kept as text
	cr.LazyQuotes = true

	header, err := cr.Read()
	if err != nil {
		if err == io.EOF {
			err = errors.New("empty file")
		}
		return nil, fmt.Errorf("failed to read header: %w", err)
	}
	idx := indexColumns(header)

	for _, col := range requiredColumns {
		if _, ok := idx[col]; !ok {
			return nil, fmt.Errorf("%w: %q", ErrMissingColumn, col)
		}
	}

	ds := &types.Dataset{}
	_, ds.Columns.EndTime = idx[ColEndTime]
	_, ds.Columns.UserType = idx[ColUserType]
	_, ds.Columns.Gender = idx[ColGender]
	_, ds.Columns.BirthYear = idx[ColBirthYear]

	result := &ParseResult{Dataset: ds}
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		rowIndex := result.Read
		if err != nil {
			var perr *csv.ParseError
			if !errors.As(err, &perr) {
				return nil, fmt.Errorf("failed to read row %d: %w", rowIndex+1, err)
			}
			result.Read++
			result.Skipped++
			slog.Debug("Skipping malformed row", "row", rowIndex, "line", perr.Line, "error", perr.Err)
			continue
		}
		result.Read++

		trip, err := parseTrip(record, idx)
		if err != nil {
			result.Skipped++
			slog.Debug("Skipping row", "row", rowIndex, "error", err)
			continue
		}
		trip.Index = rowIndex
		ds.Trips = append(ds.Trips, trip)
	}

	span.SetAttributes(
		attribute.Int("rows_read", result.Read),
		attribute.Int("rows_skipped", result.Skipped),
	)

	return result, nil
}

// Filter keeps trips matching the month filter and, unless opts.LegacyDayFilter
// is set, the day filter. The input dataset is not modified.
func Filter(ds *types.Dataset, sel types.FilterSelection, opts Options) *types.Dataset {
	out := &types.Dataset{City: ds.City, Columns: ds.Columns}
	applyDay := sel.DayFiltered() && !opts.LegacyDayFilter

	if sel.DayFiltered() && opts.LegacyDayFilter {
		slog.Debug("Day filter evaluated but not applied", "day", sel.Day)
	}

	for _, trip := range ds.Trips {
		if sel.MonthFiltered() && trip.MonthName != sel.Month {
			continue
		}
		if applyDay && trip.Weekday != sel.Day {
			continue
		}
		out.Trips = append(out.Trips, trip)
	}
	return out
}

func indexColumns(header []string) map[string]int {
	idx := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))
		// pandas-written files carry an unnamed index column
		if name == "" {
			continue
		}
		idx[name] = i
	}
	return idx
}

// naValues are cell contents treated as missing in optional columns
var naValues = map[string]bool{
	"":     true,
	"NaN":  true,
	"nan":  true,
	"NA":   true,
	"N/A":  true,
	"n/a":  true,
	"null": true,
	"NULL": true,
}

// optional returns the cell for col, or "" when it holds a missing-value marker.
func optional(record []string, idx map[string]int, col string) string {
	v := field(record, idx, col)
	if naValues[v] {
		return ""
	}
	return v
}

func field(record []string, idx map[string]int, col string) string {
	i, ok := idx[col]
	if !ok || i >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[i])
}

func parseTrip(record []string, idx map[string]int) (types.Trip, error) {
	start, err := parseTime(field(record, idx, ColStartTime))
	if err != nil {
		return types.Trip{}, err
	}

	duration, err := strconv.ParseFloat(field(record, idx, ColTripDuration), 64)
	if err != nil {
		return types.Trip{}, fmt.Errorf("invalid trip duration: %w", err)
	}

	trip := types.Trip{
		StartTime:    start,
		EndTime:      field(record, idx, ColEndTime),
		Duration:     duration,
		StartStation: field(record, idx, ColStartStation),
		EndStation:   field(record, idx, ColEndStation),
		UserType:     optional(record, idx, ColUserType),
		Gender:       optional(record, idx, ColGender),
		MonthName:    start.Month().String(),
		Weekday:      start.Weekday().String(),
		StartHour:    start.Hour(),
	}

	if raw := optional(record, idx, ColBirthYear); raw != "" {
		if year, err := strconv.ParseFloat(raw, 64); err == nil {
			trip.BirthYear = year
			trip.HasBirthYear = true
		}
	}

	return trip, nil
}

func parseTime(s string) (time.Time, error) {
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid start time %q", s)
}
