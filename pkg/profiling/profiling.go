package profiling

import (
	"log/slog"
	"os"

	"bikeshare/pkg/otel"

	"github.com/grafana/pyroscope-go"
)

// Config holds the Pyroscope settings read from PYROSCOPE_* variables.
type Config struct {
	Enabled           bool
	ServerAddress     string
	ApplicationName   string
	BasicAuthUser     string
	BasicAuthPassword string
}

// ConfigFromEnv reads the profiler configuration from the environment.
func ConfigFromEnv() Config {
	return Config{
		Enabled:           otel.IsTrue(os.Getenv("PYROSCOPE_PROFILING_ENABLED")),
		ServerAddress:     getEnv("PYROSCOPE_SERVER_ADDRESS", "http://localhost:4040"),
		ApplicationName:   getEnv("PYROSCOPE_APPLICATION_NAME", otel.ServiceName),
		BasicAuthUser:     os.Getenv("PYROSCOPE_BASIC_AUTH_USER"),
		BasicAuthPassword: os.Getenv("PYROSCOPE_BASIC_AUTH_PASSWORD"),
	}
}

// pyroscopeConfig translates cfg into the client configuration.
func (cfg Config) pyroscopeConfig() pyroscope.Config {
	pc := pyroscope.Config{
		ApplicationName: cfg.ApplicationName,
		ServerAddress:   cfg.ServerAddress,
		Logger:          pyroscope.StandardLogger,
		Tags: map[string]string{
			"service": otel.ServiceName,
			"version": otel.Version,
		},
	}
	// Credentials only apply as a pair
	if cfg.BasicAuthUser != "" && cfg.BasicAuthPassword != "" {
		pc.BasicAuthUser = cfg.BasicAuthUser
		pc.BasicAuthPassword = cfg.BasicAuthPassword
	}
	return pc
}

// InitProfiling starts continuous profiling when PYROSCOPE_PROFILING_ENABLED
// is true and returns a function that stops it.
func InitProfiling() (func(), error) {
	cfg := ConfigFromEnv()
	if !cfg.Enabled {
		slog.Debug("Pyroscope profiling is disabled")
		return func() {}, nil
	}

	profiler, err := pyroscope.Start(cfg.pyroscopeConfig())
	if err != nil {
		slog.Warn("Failed to start Pyroscope profiler", "error", err)
		return func() {}, nil
	}

	slog.Debug("Pyroscope profiling started", "server", cfg.ServerAddress, "application", cfg.ApplicationName)

	return func() {
		if err := profiler.Stop(); err != nil {
			slog.Error("Error stopping Pyroscope profiler", "error", err)
		} else {
			slog.Debug("Pyroscope profiler stopped")
		}
	}, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
