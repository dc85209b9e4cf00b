package otel

import (
	"context"
	"fmt"
	"os"
	"runtime"

	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
)

// ServiceName is the name reported on every span and metric.
const ServiceName = "bikeshare"

// Version is set at build time via -ldflags
// e.g., go build -ldflags="-X bikeshare/pkg/otel.Version=1.2.3"
var Version = "dev"

// NewResource builds the resource shared by the tracer and meter providers.
func NewResource(ctx context.Context) (*resource.Resource, error) {
	return resource.New(ctx,
		// OTEL_SERVICE_NAME / OTEL_RESOURCE_ATTRIBUTES still apply
		resource.WithFromEnv(),
		resource.WithHost(),
		resource.WithProcess(),
		resource.WithAttributes(
			semconv.ServiceName(ServiceName),
			semconv.ServiceVersion(Version),
			semconv.ServiceInstanceID(instanceID()),
			semconv.DeploymentEnvironment(envOr("OTEL_DEPLOYMENT_ENVIRONMENT", "local")),
			semconv.ProcessRuntimeName("go"),
			semconv.ProcessRuntimeVersion(runtime.Version()),
		),
	)
}

// instanceID prefers OTEL_SERVICE_INSTANCE_ID, then the hostname, then the PID.
func instanceID() string {
	if id := os.Getenv("OTEL_SERVICE_INSTANCE_ID"); id != "" {
		return id
	}
	if hostname, err := os.Hostname(); err == nil && hostname != "" {
		return hostname
	}
	return fmt.Sprintf("%s-%d", ServiceName, os.Getpid())
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
