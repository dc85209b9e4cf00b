package source

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"bikeshare/pkg/catalog"
	"bikeshare/pkg/metrics"
	bsotel "bikeshare/pkg/otel"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const userAgent = "bikeshare/1.0.0"

// Client opens city CSV sources from disk or over HTTP(S).
type Client struct {
	httpClient *http.Client
	tracer     trace.Tracer
}

func NewClient(timeout time.Duration) *Client {
	// Create HTTP client with OpenTelemetry instrumentation
	client := &http.Client{
		Transport: otelhttp.NewTransport(http.DefaultTransport),
		Timeout:   timeout,
	}

	return &Client{
		httpClient: client,
		tracer:     otel.Tracer("source-client"),
	}
}

// Open returns a reader over the CSV at location. The caller closes it.
func (c *Client) Open(ctx context.Context, location string) (io.ReadCloser, error) {
	kind := "file"
	if catalog.IsURL(location) {
		kind = "http"
	}

	ctx, span := c.tracer.Start(ctx, "source.open",
		trace.WithAttributes(
			attribute.String("source.location", location),
			attribute.String("source.kind", kind),
		),
	)
	defer span.End()

	start := time.Now()
	var (
		rc  io.ReadCloser
		err error
	)
	if kind == "http" {
		rc, err = c.fetch(ctx, span, location)
	} else {
		rc, err = os.Open(location)
		if err != nil {
			bsotel.RecordError(span, err, bsotel.ErrorTypeIO, false)
		}
	}
	metrics.RecordSourceOpen(ctx, kind, time.Since(start), err)

	if err != nil {
		return nil, err
	}
	bsotel.SetSpanOk(span)
	return rc, nil
}

func (c *Client) fetch(ctx context.Context, span trace.Span, url string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		bsotel.RecordError(span, err, bsotel.ErrorTypeValidation, false)
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "text/csv, */*")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		bsotel.RecordError(span, err, bsotel.ErrorTypeHTTP, true)
		return nil, fmt.Errorf("failed to make request: %w", err)
	}

	span.SetAttributes(
		attribute.Int("http.status_code", resp.StatusCode),
		attribute.String("http.response.content_type", resp.Header.Get("Content-Type")),
	)

	if resp.StatusCode != http.StatusOK {
		// Keep a short snippet of the body for debugging
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		resp.Body.Close()
		err := fmt.Errorf("source returned status %d: %s", resp.StatusCode, string(body))
		bsotel.RecordError(span, err, bsotel.ErrorTypeHTTP, resp.StatusCode >= 500)
		return nil, err
	}

	return resp.Body, nil
}
