package otel

import (
	"log/slog"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

// Protocol represents OTLP transport protocol
type Protocol string

const (
	ProtocolGRPC         Protocol = "grpc"
	ProtocolHTTPProtobuf Protocol = "http/protobuf"
	ProtocolHTTPJSON     Protocol = "http/json"
)

// Signal is the OTLP signal an exporter is configured for.
type Signal string

const (
	SignalTraces  Signal = "traces"
	SignalMetrics Signal = "metrics"
)

// ExporterConfig holds parsed OTLP exporter configuration for a signal
type ExporterConfig struct {
	Endpoint    string
	Protocol    Protocol
	Headers     map[string]string
	Timeout     time.Duration
	Insecure    bool
	Compression string
}

// TracingEnabled reports whether OTEL_TRACING_ENABLED is set to a true value.
func TracingEnabled() bool {
	return IsTrue(os.Getenv("OTEL_TRACING_ENABLED"))
}

// MetricsEnabled reports whether OTEL_METRICS_ENABLED is set to a true value.
func MetricsEnabled() bool {
	return IsTrue(os.Getenv("OTEL_METRICS_ENABLED"))
}

// ExporterConfigFor resolves the exporter configuration for a signal from the
// process environment.
func ExporterConfigFor(signal Signal) ExporterConfig {
	return resolve(signal, os.Getenv)
}

// signalEnv looks up OTEL_EXPORTER_OTLP_<SIGNAL>_<KEY> first and
// OTEL_EXPORTER_OTLP_<KEY> second.
type signalEnv struct {
	signal Signal
	getenv func(string) string
}

func (e signalEnv) specific(key string) string {
	return e.getenv("OTEL_EXPORTER_OTLP_" + strings.ToUpper(string(e.signal)) + "_" + key)
}

func (e signalEnv) base(key string) string {
	return e.getenv("OTEL_EXPORTER_OTLP_" + key)
}

func (e signalEnv) lookup(key, def string) string {
	if v := e.specific(key); v != "" {
		return v
	}
	if v := e.base(key); v != "" {
		return v
	}
	return def
}

func resolve(signal Signal, getenv func(string) string) ExporterConfig {
	env := signalEnv{signal: signal, getenv: getenv}

	protocol := parseProtocol(env.lookup("PROTOCOL", string(ProtocolHTTPProtobuf)))
	endpoint := endpointFor(env, protocol)

	cfg := ExporterConfig{
		Endpoint:    endpoint,
		Protocol:    protocol,
		Headers:     parseHeaders(env.lookup("HEADERS", "")),
		Timeout:     parseTimeout(env.lookup("TIMEOUT", ""), 10*time.Second),
		Compression: env.lookup("COMPRESSION", ""),
	}

	// Explicit setting wins, otherwise plain http endpoints are insecure
	if v := env.lookup("INSECURE", ""); v != "" {
		cfg.Insecure = IsTrue(v)
	} else {
		cfg.Insecure = strings.HasPrefix(endpoint, "http://")
	}

	return cfg
}

func parseProtocol(s string) Protocol {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "grpc":
		return ProtocolGRPC
	case "http/json":
		return ProtocolHTTPJSON
	default:
		return ProtocolHTTPProtobuf
	}
}

// endpointFor uses a signal-specific endpoint verbatim; a base endpoint gets
// the /v1/<signal> path appended for HTTP protocols.
func endpointFor(env signalEnv, protocol Protocol) string {
	if v := env.specific("ENDPOINT"); v != "" {
		return normalizeEndpoint(v, protocol)
	}
	if v := env.base("ENDPOINT"); v != "" {
		return withSignalPath(normalizeEndpoint(v, protocol), env.signal, protocol)
	}
	if protocol == ProtocolGRPC {
		return "localhost:4317"
	}
	return "http://localhost:4318/v1/" + string(env.signal)
}

func normalizeEndpoint(endpoint string, protocol Protocol) string {
	if protocol == ProtocolGRPC {
		// gRPC dials host:port
		endpoint = strings.TrimPrefix(endpoint, "http://")
		endpoint = strings.TrimPrefix(endpoint, "https://")
		if host, _, found := strings.Cut(endpoint, "/"); found {
			return host
		}
		return endpoint
	}
	if !strings.HasPrefix(endpoint, "http://") && !strings.HasPrefix(endpoint, "https://") {
		return "https://" + endpoint
	}
	return endpoint
}

func withSignalPath(endpoint string, signal Signal, protocol Protocol) string {
	if protocol == ProtocolGRPC {
		return endpoint
	}
	suffix := "/v1/" + string(signal)

	u, err := url.Parse(endpoint)
	if err != nil {
		return strings.TrimSuffix(endpoint, "/") + suffix
	}
	if strings.HasSuffix(u.Path, suffix) {
		return endpoint
	}
	u.Path = strings.TrimSuffix(u.Path, "/") + suffix
	return u.String()
}

// parseHeaders parses "key1=value1,key2=value2". Values keep everything after
// the first '=' untrimmed so base64 credentials survive.
func parseHeaders(raw string) map[string]string {
	headers := make(map[string]string)
	if raw == "" {
		return headers
	}
	for _, pair := range strings.Split(raw, ",") {
		key, value, ok := strings.Cut(strings.TrimSpace(pair), "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			continue
		}
		headers[key] = value
		slog.Debug("Parsed OTEL header", "key", key, "value_length", len(value))
	}
	return headers
}

// parseTimeout accepts Go durations ("10s") and OTLP millisecond integers ("10000").
func parseTimeout(s string, def time.Duration) time.Duration {
	if s == "" {
		return def
	}
	if d, err := time.ParseDuration(s); err == nil {
		return d
	}
	if ms, err := strconv.Atoi(s); err == nil {
		return time.Duration(ms) * time.Millisecond
	}
	return def
}

// IsTrue reports whether an environment value means "enabled":
// 1, true, t, yes, y or on, in any case.
func IsTrue(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true", "t", "yes", "y", "on":
		return true
	}
	return false
}
