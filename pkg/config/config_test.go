package config

import (
	"bytes"
	"errors"
	"flag"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

var envKeys = []string{
	"BIKESHARE_DATA_DIR",
	"BIKESHARE_CATALOG",
	"BIKESHARE_PAGE_SIZE",
	"BIKESHARE_EXPORT",
	"BIKESHARE_LEGACY_DAY_FILTER",
	"BIKESHARE_FETCH_TIMEOUT",
	"LOG_LEVEL",
}

// clearEnv blanks every variable Load reads. godotenv never overrides a set
// variable, so a stray .env cannot leak in either.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range envKeys {
		t.Setenv(key, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(nil, &bytes.Buffer{})
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	want := &Config{
		DataDir:      ".",
		PageSize:     5,
		FetchTimeout: 30 * time.Second,
		LogLevel:     "warn",
	}
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("Config mismatch (-want +got):\n%s", diff)
	}
}

func TestLoad_Environment(t *testing.T) {
	clearEnv(t)
	t.Setenv("BIKESHARE_DATA_DIR", "/data")
	t.Setenv("BIKESHARE_CATALOG", "cities.yaml")
	t.Setenv("BIKESHARE_PAGE_SIZE", "10")
	t.Setenv("BIKESHARE_EXPORT", "out.xml")
	t.Setenv("BIKESHARE_LEGACY_DAY_FILTER", "true")
	t.Setenv("BIKESHARE_FETCH_TIMEOUT", "5s")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load(nil, &bytes.Buffer{})
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	want := &Config{
		DataDir:         "/data",
		CatalogPath:     "cities.yaml",
		PageSize:        10,
		ExportPath:      "out.xml",
		LegacyDayFilter: true,
		FetchTimeout:    5 * time.Second,
		LogLevel:        "debug",
	}
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("Config mismatch (-want +got):\n%s", diff)
	}
}

func TestLoad_FlagsOverrideEnvironment(t *testing.T) {
	clearEnv(t)
	t.Setenv("BIKESHARE_PAGE_SIZE", "10")
	t.Setenv("BIKESHARE_DATA_DIR", "/data")

	cfg, err := Load([]string{"-page-size=3", "--data-dir", "/other", "-legacy-day-filter"}, &bytes.Buffer{})
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.PageSize != 3 || cfg.DataDir != "/other" || !cfg.LegacyDayFilter {
		t.Errorf("flags not applied: %+v", cfg)
	}
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		args []string
	}{
		{"bad page size env", map[string]string{"BIKESHARE_PAGE_SIZE": "many"}, nil},
		{"bad timeout env", map[string]string{"BIKESHARE_FETCH_TIMEOUT": "soon"}, nil},
		{"zero page size", nil, []string{"-page-size=0"}},
		{"negative timeout", nil, []string{"-fetch-timeout=-1s"}},
		{"unknown flag", nil, []string{"-city=chicago"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			if _, err := Load(tt.args, &bytes.Buffer{}); err == nil {
				t.Error("Load() expected error, got nil")
			}
		})
	}
}

func TestLoad_Help(t *testing.T) {
	clearEnv(t)
	var out bytes.Buffer

	_, err := Load([]string{"-h"}, &out)
	if !errors.Is(err, flag.ErrHelp) {
		t.Fatalf("Load(-h) error = %v, want flag.ErrHelp", err)
	}
	if !bytes.Contains(out.Bytes(), []byte("BIKESHARE_DATA_DIR")) {
		t.Errorf("usage missing environment variables:\n%s", out.String())
	}
}
