package profiling

import "testing"

func TestConfigFromEnv_Defaults(t *testing.T) {
	t.Setenv("PYROSCOPE_PROFILING_ENABLED", "")
	t.Setenv("PYROSCOPE_SERVER_ADDRESS", "")
	t.Setenv("PYROSCOPE_APPLICATION_NAME", "")

	cfg := ConfigFromEnv()
	if cfg.Enabled {
		t.Error("Enabled = true, want false by default")
	}
	if cfg.ServerAddress != "http://localhost:4040" {
		t.Errorf("ServerAddress = %q, want %q", cfg.ServerAddress, "http://localhost:4040")
	}
	if cfg.ApplicationName != "bikeshare" {
		t.Errorf("ApplicationName = %q, want %q", cfg.ApplicationName, "bikeshare")
	}
}

func TestPyroscopeConfig_BasicAuthNeedsBoth(t *testing.T) {
	tests := []struct {
		name     string
		user     string
		password string
		wantAuth bool
	}{
		{"both set", "123456", "token", true},
		{"user only", "123456", "", false},
		{"password only", "", "token", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pc := Config{
				ServerAddress:     "http://pyroscope:4040",
				ApplicationName:   "bikeshare",
				BasicAuthUser:     tt.user,
				BasicAuthPassword: tt.password,
			}.pyroscopeConfig()

			gotAuth := pc.BasicAuthUser != "" && pc.BasicAuthPassword != ""
			if gotAuth != tt.wantAuth {
				t.Errorf("basic auth applied = %v, want %v", gotAuth, tt.wantAuth)
			}
			if pc.Tags["service"] != "bikeshare" {
				t.Errorf("service tag = %q, want %q", pc.Tags["service"], "bikeshare")
			}
		})
	}
}

func TestInitProfiling_DisabledIsNoop(t *testing.T) {
	t.Setenv("PYROSCOPE_PROFILING_ENABLED", "false")

	stop, err := InitProfiling()
	if err != nil {
		t.Fatalf("InitProfiling() error: %v", err)
	}
	stop()
}
