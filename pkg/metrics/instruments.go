package metrics

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Session Metrics
var (
	// SessionsTotal counts session iterations by outcome
	SessionsTotal metric.Int64Counter

	// PromptRetries counts rejected interactive answers per prompt
	PromptRetries metric.Int64Counter

	// PagerPagesShown counts raw data windows printed
	PagerPagesShown metric.Int64Counter
)

// Loader Metrics
var (
	// LoaderRowsRead counts CSV data rows read per city
	LoaderRowsRead metric.Int64Counter

	// LoaderRowsSkipped counts rows dropped because they could not be parsed
	LoaderRowsSkipped metric.Int64Counter

	// LoaderRowsKept counts rows left after month/day filtering
	LoaderRowsKept metric.Int64Counter

	// LoaderDuration measures load + parse + filter time
	LoaderDuration metric.Float64Histogram

	// SourceOpenDuration measures time to open a city source (file or HTTP)
	SourceOpenDuration metric.Float64Histogram
)

// Report Metrics
var (
	// ReportDuration measures each statistics report
	ReportDuration metric.Float64Histogram
)

// initializeInstruments creates all metric instruments
func initializeInstruments() error {
	var err error

	SessionsTotal, err = Meter.Int64Counter(
		"session.iterations.total",
		metric.WithDescription("Session iterations by outcome"),
		metric.WithUnit("{iteration}"),
	)
	if err != nil {
		return err
	}

	PromptRetries, err = Meter.Int64Counter(
		"prompt.retries",
		metric.WithDescription("Rejected answers that caused a re-prompt"),
		metric.WithUnit("{answer}"),
	)
	if err != nil {
		return err
	}

	PagerPagesShown, err = Meter.Int64Counter(
		"pager.pages.shown",
		metric.WithDescription("Raw data windows printed"),
		metric.WithUnit("{page}"),
	)
	if err != nil {
		return err
	}

	LoaderRowsRead, err = Meter.Int64Counter(
		"loader.rows.read",
		metric.WithDescription("CSV data rows read"),
		metric.WithUnit("{row}"),
	)
	if err != nil {
		return err
	}

	LoaderRowsSkipped, err = Meter.Int64Counter(
		"loader.rows.skipped",
		metric.WithDescription("CSV rows skipped as unparseable"),
		metric.WithUnit("{row}"),
	)
	if err != nil {
		return err
	}

	LoaderRowsKept, err = Meter.Int64Counter(
		"loader.rows.kept",
		metric.WithDescription("Rows retained after filtering"),
		metric.WithUnit("{row}"),
	)
	if err != nil {
		return err
	}

	LoaderDuration, err = Meter.Float64Histogram(
		"loader.duration",
		metric.WithDescription("Duration of loading a city dataset"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.01, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0, 30.0),
	)
	if err != nil {
		return err
	}

	SourceOpenDuration, err = Meter.Float64Histogram(
		"source.open.duration",
		metric.WithDescription("Duration of opening a city source"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.001, 0.01, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0),
	)
	if err != nil {
		return err
	}

	ReportDuration, err = Meter.Float64Histogram(
		"report.duration",
		metric.WithDescription("Duration of computing and printing a report"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.001, 0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1.0),
	)
	if err != nil {
		return err
	}

	return nil
}

// RecordLoad records row counts and duration of one dataset load.
func RecordLoad(ctx context.Context, city string, read, skipped, kept int, elapsed time.Duration) {
	if !IsEnabled() {
		return
	}
	attrs := metric.WithAttributes(attribute.String("city", city))
	LoaderRowsRead.Add(ctx, int64(read), attrs)
	LoaderRowsSkipped.Add(ctx, int64(skipped), attrs)
	LoaderRowsKept.Add(ctx, int64(kept), attrs)
	LoaderDuration.Record(ctx, elapsed.Seconds(), attrs)
}

// RecordSourceOpen records how long opening a source took; kind is "file" or "http".
func RecordSourceOpen(ctx context.Context, kind string, elapsed time.Duration, err error) {
	if !IsEnabled() {
		return
	}
	SourceOpenDuration.Record(ctx, elapsed.Seconds(), metric.WithAttributes(
		attribute.String("kind", kind),
		attribute.Bool("error", err != nil),
	))
}

// RecordReport records the duration of one named report.
func RecordReport(ctx context.Context, report string, elapsed time.Duration) {
	if !IsEnabled() {
		return
	}
	ReportDuration.Record(ctx, elapsed.Seconds(), metric.WithAttributes(attribute.String("report", report)))
}

// RecordPromptRetry counts one rejected answer for the named prompt.
func RecordPromptRetry(ctx context.Context, prompt string) {
	if !IsEnabled() {
		return
	}
	PromptRetries.Add(ctx, 1, metric.WithAttributes(attribute.String("prompt", prompt)))
}

// RecordPageShown counts one printed raw data window.
func RecordPageShown(ctx context.Context) {
	if !IsEnabled() {
		return
	}
	PagerPagesShown.Add(ctx, 1)
}

// RecordSession counts one session iteration; outcome is "completed" or "failed".
func RecordSession(ctx context.Context, outcome string) {
	if !IsEnabled() {
		return
	}
	SessionsTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", outcome)))
}
