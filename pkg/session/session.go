package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"bikeshare/pkg/catalog"
	"bikeshare/pkg/export"
	"bikeshare/pkg/loader"
	"bikeshare/pkg/metrics"
	bsotel "bikeshare/pkg/otel"
	"bikeshare/pkg/pager"
	"bikeshare/pkg/prompt"
	"bikeshare/pkg/report"
	"bikeshare/pkg/types"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Filter modes offered by the filter prompt
const (
	ModeMonth = "month"
	ModeDay   = "day"
	ModeBoth  = "both"
	ModeNone  = "none"
)

var filterModes = []string{ModeMonth, ModeDay, ModeBoth, ModeNone}

const (
	greeting        = "Hello! Let's explore some US bikeshare data!"
	modeQuestion    = `Would you like to filter the data by month, day, both or not at all? Type "none" for no time filter.`
	modeRetry       = `Invalid filter. Please filter by month, day, both or not at all (type "none" for no time filter).`
	monthQuestion   = "Which month? January, February, March, April, May, or June?"
	monthRetry      = "Invalid month. Please choose January, February, March, April, May, or June?"
	dayQuestion     = "Which day? Please type your response as an integer (e.g., 1=Sunday)."
	dayRetry        = "Invalid day. Please choose a day as an integer (e.g., 1=Sunday)."
	restartQuestion = "Would you like to restart? Enter yes or no."
)

// DatasetLoader produces the filtered dataset for a selection.
type DatasetLoader interface {
	Load(ctx context.Context, sel types.FilterSelection) (*types.Dataset, error)
}

type Config struct {
	In         io.Reader
	Out        io.Writer
	Catalog    *catalog.Catalog
	Loader     DatasetLoader
	PageSize   int
	ExportPath string
}

// Session runs the interactive explore loop.
type Session struct {
	config   Config
	prompter *prompt.Prompter
	reporter *report.Reporter
	tracer   trace.Tracer
}

func New(config Config) (*Session, error) {
	if config.In == nil || config.Out == nil {
		return nil, fmt.Errorf("input and output are required")
	}
	if config.Catalog == nil {
		return nil, fmt.Errorf("a city catalog is required")
	}
	if config.Loader == nil {
		return nil, fmt.Errorf("a dataset loader is required")
	}
	if config.PageSize <= 0 {
		config.PageSize = pager.DefaultPageSize
	}

	return &Session{
		config:   config,
		prompter: prompt.New(config.In, config.Out),
		reporter: report.New(config.Out),
		tracer:   otel.Tracer("session"),
	}, nil
}

// Run loops until the user declines to restart. It returns nil on a normal
// end, prompt.ErrInputClosed when input runs out, and any load or export
// failure as is.
func (s *Session) Run(ctx context.Context) error {
	for iteration := 1; ; iteration++ {
		restart, err := s.iterate(ctx, iteration)
		if err != nil {
			return err
		}
		if !restart {
			slog.Debug("Session finished", "iterations", iteration)
			return nil
		}
	}
}

func (s *Session) iterate(ctx context.Context, iteration int) (bool, error) {
	id := uuid.NewString()
	logger := slog.With("session_id", id, "iteration", iteration)

	ctx, span := s.tracer.Start(ctx, "session.iteration",
		trace.WithAttributes(
			attribute.String("session.id", id),
			attribute.Int("session.iteration", iteration),
		),
	)
	defer span.End()

	restart, err := s.explore(ctx, id, logger)
	if err != nil {
		outcome := "failed"
		if errors.Is(err, prompt.ErrInputClosed) {
			outcome = "input_closed"
		}
		metrics.RecordSession(ctx, outcome)
		bsotel.RecordError(span, err, errorType(err), false)
		logger.Debug("Iteration ended early", "outcome", outcome, "error", err)
		return false, err
	}

	metrics.RecordSession(ctx, "completed")
	metrics.RecordSessionCompleted()
	span.SetAttributes(attribute.Bool("session.restart", restart))
	bsotel.SetSpanOk(span)
	return restart, nil
}

func (s *Session) explore(ctx context.Context, id string, logger *slog.Logger) (bool, error) {
	fmt.Fprintln(s.config.Out, greeting)

	sel, err := s.Filters(ctx)
	if err != nil {
		return false, err
	}
	logger.Info("Filters selected", "city", sel.City, "month", sel.Month, "day", sel.Day)
	trace.SpanFromContext(ctx).SetAttributes(
		attribute.String("city", sel.City),
		attribute.String("month", sel.Month),
		attribute.String("day", sel.Day),
	)

	ds, err := s.config.Loader.Load(ctx, sel)
	if err != nil {
		return false, err
	}
	logger.Debug("Dataset ready", "trips", ds.Len())

	summary := export.Summary{
		SessionID:   id,
		GeneratedAt: time.Now().UTC(),
		Selection:   sel,
		Trips:       ds.Len(),
	}
	summary.Time = s.reporter.Time(ctx, ds)
	summary.Stations = s.reporter.Stations(ctx, ds)
	summary.Durations = s.reporter.Durations(ctx, ds, sel.Day)
	summary.Users = s.reporter.Users(ctx, ds)

	if err := pager.Run(ctx, s.prompter, s.config.Out, ds, s.config.PageSize); err != nil {
		return false, err
	}

	if s.config.ExportPath != "" {
		if err := export.Write(ctx, s.config.ExportPath, summary); err != nil {
			return false, err
		}
	}

	return s.prompter.Confirm(restartQuestion)
}

// Filters asks for the city, the filter mode and, depending on the mode, the
// month and weekday.
func (s *Session) Filters(ctx context.Context) (types.FilterSelection, error) {
	sel := types.FilterSelection{Month: types.All, Day: types.All}

	cities := s.config.Catalog.Cities()
	names := cityList(cities)
	city, err := s.prompter.Choose(ctx, "city",
		fmt.Sprintf("Would you like to filter the data for %s?", names),
		fmt.Sprintf("Invalid city. Please choose %s.", names),
		prompt.Lower, cities)
	if err != nil {
		return sel, err
	}
	sel.City = city

	mode, err := s.prompter.Choose(ctx, "mode", modeQuestion, modeRetry, prompt.Lower, filterModes)
	if err != nil {
		return sel, err
	}

	if mode == ModeMonth || mode == ModeBoth {
		sel.Month, err = s.prompter.Choose(ctx, "month", monthQuestion, monthRetry, prompt.Title, types.Months)
		if err != nil {
			return sel, err
		}
	}

	if mode == ModeDay || mode == ModeBoth {
		n, err := s.prompter.ChooseIndex(ctx, "day", dayQuestion, dayRetry, 1, len(types.Weekdays))
		if err != nil {
			return sel, err
		}
		sel.Day = types.Weekdays[n-1]
	}

	fmt.Fprintln(s.config.Out, report.Rule)
	return sel, nil
}

// cityList renders catalog names for a question: "Chicago, New York, or Washington".
func cityList(cities []string) string {
	names := make([]string, len(cities))
	for i, city := range cities {
		names[i] = prompt.Title(city)
	}
	switch len(names) {
	case 0:
		return ""
	case 1:
		return names[0]
	case 2:
		return names[0] + " or " + names[1]
	default:
		return strings.Join(names[:len(names)-1], ", ") + ", or " + names[len(names)-1]
	}
}

func errorType(err error) bsotel.ErrorType {
	switch {
	case errors.Is(err, loader.ErrMissingColumn):
		return bsotel.ErrorTypeParse
	case errors.Is(err, prompt.ErrInputClosed), errors.Is(err, loader.ErrDataUnavailable):
		return bsotel.ErrorTypeIO
	default:
		return bsotel.ErrorTypeValidation
	}
}
