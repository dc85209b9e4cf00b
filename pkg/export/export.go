package export

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	bsotel "bikeshare/pkg/otel"
	"bikeshare/pkg/stats"
	"bikeshare/pkg/types"

	"github.com/clbanning/mxj/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// RootTag wraps the XML rendering of a Summary.
const RootTag = "bikeshare"

// Summary is everything computed during one session iteration.
type Summary struct {
	SessionID   string                `json:"session_id"`
	GeneratedAt time.Time             `json:"generated_at"`
	Selection   types.FilterSelection `json:"selection"`
	Trips       int                   `json:"trips"`
	Time        stats.TimeStats       `json:"time"`
	Stations    stats.StationStats    `json:"stations"`
	Durations   stats.DurationStats   `json:"durations"`
	Users       stats.UserStats       `json:"users"`
}

// Format is the encoding used for an export file.
type Format string

const (
	FormatJSON Format = "json"
	FormatXML  Format = "xml"
)

// FormatFor picks XML for a .xml extension and JSON otherwise.
func FormatFor(path string) Format {
	if strings.EqualFold(filepath.Ext(path), ".xml") {
		return FormatXML
	}
	return FormatJSON
}

// Encode renders s in the given format.
func Encode(s Summary, format Format) ([]byte, error) {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal summary: %w", err)
	}
	if format == FormatJSON {
		return append(data, '\n'), nil
	}

	// Go through the JSON form so the XML element names match the JSON keys
	m, err := mxj.NewMapJson(data)
	if err != nil {
		return nil, fmt.Errorf("failed to convert summary to map: %w", err)
	}
	xmlData, err := m.XmlIndent("", "  ", RootTag)
	if err != nil {
		return nil, fmt.Errorf("failed to render summary as XML: %w", err)
	}
	return append(xmlData, '\n'), nil
}

// Write encodes s according to the extension of path and replaces the file.
func Write(ctx context.Context, path string, s Summary) error {
	format := FormatFor(path)

	_, span := otel.Tracer("export").Start(ctx, "export.write",
		trace.WithAttributes(
			attribute.String("export.path", path),
			attribute.String("export.format", string(format)),
		),
	)
	defer span.End()

	data, err := Encode(s, format)
	if err != nil {
		return bsotel.Fail(span, err, bsotel.ErrorTypeParse)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return bsotel.Fail(span, fmt.Errorf("failed to write export %s: %w", path, err), bsotel.ErrorTypeIO)
	}

	span.SetAttributes(attribute.Int("export.bytes", len(data)))
	slog.Info("Summary exported", "path", path, "format", format, "bytes", len(data))
	bsotel.SetSpanOk(span)
	return nil
}
