package internal

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestAuthConfig_DisabledMode(t *testing.T) {
	cfg := AuthConfig{Mode: "disabled", Token: ""}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("disabled mode should pass: %v", err)
	}
	if cfg.AuthEnabled() {
		t.Error("disabled mode should not be enabled")
	}
}

func TestAuthConfig_EmptyModeDefaultsDisabled(t *testing.T) {
	cfg := AuthConfig{Mode: "", Token: ""}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("empty mode should default to disabled: %v", err)
	}
	if cfg.Mode != AuthModeDisabled {
		t.Errorf("mode = %q, want %q", cfg.Mode, AuthModeDisabled)
	}
}

func TestAuthConfig_TokenModeValid(t *testing.T) {
	cfg := AuthConfig{Mode: "token", Token: "mysecret"}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("token mode with token should pass: %v", err)
	}
	if !cfg.AuthEnabled() {
		t.Error("token mode should be enabled")
	}
}

func TestAuthConfig_TokenModeEmptyToken(t *testing.T) {
	cfg := AuthConfig{Mode: "token", Token: ""}
	err := cfg.Validate()
	if err == nil {
		t.Fatal("token mode with empty token should fail")
	}
	if !strings.Contains(err.Error(), "token is empty") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestAuthConfig_InvalidMode(t *testing.T) {
	cfg := AuthConfig{Mode: "magic", Token: "x"}
	err := cfg.Validate()
	if err == nil {
		t.Fatal("invalid mode should fail validation")
	}
}

func TestFullConfig_AuthValidationCalled(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Auth.Mode = "token"
	cfg.Auth.Token = ""
	err := cfg.Validate()
	if err == nil {
		t.Fatal("full config validate should catch auth error")
	}
}

func TestDefaultConfig_Valid(t *testing.T) {
	cfg := NewDefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should be valid: %v", err)
	}
	if cfg.Storage.Driver != StorageDriverSQLite {
		t.Errorf("driver = %q, want %q", cfg.Storage.Driver, StorageDriverSQLite)
	}
}

func TestStorageConfig_Drivers(t *testing.T) {
	cases := []struct {
		name    string
		cfg     StorageConfig
		wantErr bool
	}{
		{"sqlite", StorageConfig{Driver: "sqlite", SQLite: SQLiteConfig{Path: "x.db"}}, false},
		{"fs", StorageConfig{Driver: "fs", FS: FSConfig{Path: "./data"}}, false},
		{"fs without path", StorageConfig{Driver: "fs", SQLite: SQLiteConfig{Path: "x.db"}}, true},
		{"sqlite without path", StorageConfig{Driver: "sqlite", FS: FSConfig{Path: "./data"}}, true},
		{"unknown", StorageConfig{Driver: "redis"}, true},
		{"empty", StorageConfig{}, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.cfg.Validate()
			if (err != nil) != tc.wantErr {
				t.Errorf("err = %v, wantErr %v", err, tc.wantErr)
			}
		})
	}
}

func TestCalendarConfig_FirstDayOfWeekRange(t *testing.T) {
	for _, d := range []int{0, 3, 6} {
		cfg := CalendarConfig{FirstDayOfWeek: d}
		if err := cfg.Validate(); err != nil {
			t.Errorf("day %d should be valid: %v", d, err)
		}
	}
	for _, d := range []int{-1, 7} {
		cfg := CalendarConfig{FirstDayOfWeek: d}
		if err := cfg.Validate(); err == nil {
			t.Errorf("day %d should be rejected", d)
		}
	}
}

func TestApplicationConfig_Timezone(t *testing.T) {
	cfg := ApplicationConfig{Timezone: "Europe/Paris", HTTP: HTTPConfig{Port: 8080}}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("valid timezone rejected: %v", err)
	}
	if got := cfg.Location().String(); got != "Europe/Paris" {
		t.Errorf("location = %q", got)
	}

	cfg.Timezone = "Mars/Olympus"
	if err := cfg.Validate(); err == nil {
		t.Error("unknown timezone should fail validation")
	}

	cfg.Timezone = ""
	if cfg.Location() != time.Local {
		t.Error("empty timezone should use the local zone")
	}
}

func TestWatchAndEvents_NegativeDurations(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Watch.Debounce = -time.Second
	if err := cfg.Validate(); err == nil {
		t.Error("negative debounce should fail")
	}

	cfg = NewDefaultConfig()
	cfg.Events.SummaryThrottle = -time.Second
	if err := cfg.Validate(); err == nil {
		t.Error("negative throttle should fail")
	}
}

func TestHTTPConfig_Address(t *testing.T) {
	cfg := HTTPConfig{Port: 9090}
	if got := cfg.Address(); got != ":9090" {
		t.Errorf("address = %q", got)
	}
	cfg.Port = 0
	if err := cfg.Validate(); err == nil {
		t.Error("port 0 should fail")
	}
}

func TestOpenServices_FS(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Storage.Driver = StorageDriverFS
	cfg.Storage.FS.Path = t.TempDir()
	cfg.Calendar.FirstDayOfWeek = int(time.Monday)

	svc, err := OpenServices(cfg, NewLogger(io.Discard, slog.LevelError))
	if err != nil {
		t.Fatalf("OpenServices: %v", err)
	}
	defer svc.Close()

	if svc.FS == nil {
		t.Fatal("fs driver should expose the FS backend")
	}
	st, err := svc.Tracker.Settings(context.Background())
	if err != nil {
		t.Fatalf("Settings: %v", err)
	}
	if st.FirstDayOfWeek != time.Monday {
		t.Errorf("first day = %v, want Monday from calendar defaults", st.FirstDayOfWeek)
	}
}

func TestOpenServices_SQLite(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Storage.SQLite.Path = filepath.Join(t.TempDir(), "nested", "tempus.db")

	svc, err := OpenServices(cfg, NewLogger(io.Discard, slog.LevelError))
	if err != nil {
		t.Fatalf("OpenServices: %v", err)
	}
	if svc.FS != nil {
		t.Error("sqlite driver should not expose an FS backend")
	}
	if err := svc.Close(); err != nil {
		t.Errorf("Close: %v", err)
	}
}
