package config

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	bsotel "bikeshare/pkg/otel"

	"github.com/joho/godotenv"
)

type Config struct {
	DataDir         string
	CatalogPath     string
	PageSize        int
	ExportPath      string
	LegacyDayFilter bool
	FetchTimeout    time.Duration
	LogLevel        string
}

// Load reads .env (ignored if missing), then parses args with defaults taken
// from the environment. Flags win over environment variables.
func Load(args []string, output io.Writer) (*Config, error) {
	// Load .env into environment (ignore if missing)
	_ = godotenv.Load()

	pageSize, err := envInt("BIKESHARE_PAGE_SIZE", 5)
	if err != nil {
		return nil, err
	}
	fetchTimeout, err := envDuration("BIKESHARE_FETCH_TIMEOUT", 30*time.Second)
	if err != nil {
		return nil, err
	}

	cfg := &Config{}
	fs := flag.NewFlagSet("bikeshare", flag.ContinueOnError)
	fs.SetOutput(output)

	fs.StringVar(&cfg.DataDir, "data-dir", getEnv("BIKESHARE_DATA_DIR", "."), "Directory holding the city CSV files")
	fs.StringVar(&cfg.CatalogPath, "catalog", getEnv("BIKESHARE_CATALOG", ""), "YAML file mapping city names to CSV sources")
	fs.IntVar(&cfg.PageSize, "page-size", pageSize, "Rows shown per raw data page")
	fs.StringVar(&cfg.ExportPath, "export", getEnv("BIKESHARE_EXPORT", ""), "Write each iteration's statistics to this file (.json or .xml)")
	fs.BoolVar(&cfg.LegacyDayFilter, "legacy-day-filter", bsotel.IsTrue(os.Getenv("BIKESHARE_LEGACY_DAY_FILTER")), "Ignore the day filter when loading data")
	fs.DurationVar(&cfg.FetchTimeout, "fetch-timeout", fetchTimeout, "Timeout for downloading http(s) city sources")
	fs.StringVar(&cfg.LogLevel, "log-level", getEnv("LOG_LEVEL", "warn"), "Log level: debug, info, warn, error")

	fs.Usage = func() {
		fmt.Fprintf(output, "Usage: %s [options]\n\n", fs.Name())
		fmt.Fprintf(output, "Interactive explorer for US bikeshare trip data.\n\n")
		fmt.Fprintf(output, "Prompts for a city and optional month/day filters, then prints travel\n")
		fmt.Fprintf(output, "time, station, trip duration and rider statistics.\n\n")
		fmt.Fprintf(output, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(output, "\nEnvironment Variables:\n")
		fmt.Fprintf(output, "  BIKESHARE_DATA_DIR          - Directory holding the city CSV files (default: .)\n")
		fmt.Fprintf(output, "  BIKESHARE_CATALOG           - YAML city catalog file\n")
		fmt.Fprintf(output, "  BIKESHARE_PAGE_SIZE         - Rows per raw data page (default: 5)\n")
		fmt.Fprintf(output, "  BIKESHARE_EXPORT            - Summary export path\n")
		fmt.Fprintf(output, "  BIKESHARE_LEGACY_DAY_FILTER - Ignore the day filter (default: false)\n")
		fmt.Fprintf(output, "  BIKESHARE_FETCH_TIMEOUT     - HTTP source timeout (default: 30s)\n")
		fmt.Fprintf(output, "  LOG_LEVEL                   - Log level (default: warn)\n")
		fmt.Fprintf(output, "\nExamples:\n")
		fmt.Fprintf(output, "  %s --data-dir=./data\n", fs.Name())
		fmt.Fprintf(output, "  %s --catalog=cities.yaml --export=summary.xml\n\n", fs.Name())
	}

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.PageSize <= 0 {
		return fmt.Errorf("invalid page size %d: must be positive", c.PageSize)
	}
	if c.FetchTimeout <= 0 {
		return fmt.Errorf("invalid fetch timeout %s: must be positive", c.FetchTimeout)
	}
	if strings.TrimSpace(c.DataDir) == "" {
		return fmt.Errorf("data directory must not be empty")
	}
	return nil
}

// getEnv returns the value of an environment variable or a default value if not set
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func envInt(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %q", key, v)
	}
	return n, nil
}

func envDuration(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(strings.TrimSpace(v))
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %q", key, v)
	}
	return d, nil
}
