package otel

import (
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// ErrorType is the error.type attribute attached to failed spans.
type ErrorType string

const (
	ErrorTypeIO         ErrorType = "io"         // opening or reading a city source or export file
	ErrorTypeHTTP       ErrorType = "http"       // remote source answered with a failure
	ErrorTypeParse      ErrorType = "parse"      // CSV header or summary encoding
	ErrorTypeValidation ErrorType = "validation" // unknown city, bad request
)

// RecordError marks span failed with err. transient flags failures a retry
// could fix, such as a 5xx from a remote source.
func RecordError(span trace.Span, err error, errorType ErrorType, transient bool) {
	span.RecordError(err, trace.WithAttributes(
		attribute.String("error.type", string(errorType)),
		attribute.Bool("error.transient", transient),
	))
	span.SetStatus(codes.Error, err.Error())
}

// Fail records a permanent err on span and returns it unchanged.
func Fail(span trace.Span, err error, errorType ErrorType) error {
	RecordError(span, err, errorType, false)
	return err
}

// SetSpanOk marks span as successfully completed.
func SetSpanOk(span trace.Span) {
	span.SetStatus(codes.Ok, "")
}
