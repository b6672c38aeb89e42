package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/cochisestarks-web/EARA---Darwish/internal/capacity"
	"github.com/cochisestarks-web/EARA---Darwish/internal/schedule"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	sched, err := cfg.Schedule()
	if err != nil {
		t.Fatalf("Schedule: %v", err)
	}
	if sched.TotalMinutes() != 480 {
		t.Fatalf("default schedule = %d minutes, want 480", sched.TotalMinutes())
	}
}

func TestLoadMissingOptionalFileFallsBack(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"), false)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Model != capacity.DefaultConfig() {
		t.Fatalf("model config = %+v, want defaults", cfg.Model)
	}
}

func TestLoadMissingExplicitFileFails(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"), true)
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("got %v, want os.ErrNotExist", err)
	}
}

func TestLoadYAMLFileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "eara.yaml")
	content := `
model:
  fatigue_rate: 0.02
harness:
  schedule: "work:45,rest:15"
  cycles: 2
  time_steps: 120
store:
  path: custom.db
logging:
  level: debug
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path, true)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Model.FatigueRate != 0.02 {
		t.Fatalf("fatigue rate = %v, want file value 0.02", cfg.Model.FatigueRate)
	}
	// Fields the file leaves out keep their defaults.
	if cfg.Model.RecoveryRate != 0.0009 {
		t.Fatalf("recovery rate = %v, want default", cfg.Model.RecoveryRate)
	}
	if cfg.Store.Path != "custom.db" || cfg.Logging.Level != "debug" {
		t.Fatalf("file overrides lost: %+v", cfg)
	}
	sched, err := cfg.Schedule()
	if err != nil {
		t.Fatalf("Schedule: %v", err)
	}
	if sched.TotalMinutes() != 120 {
		t.Fatalf("schedule = %d minutes, want 120", sched.TotalMinutes())
	}
}

func TestLoadEnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "eara.yaml")
	if err := os.WriteFile(path, []byte("model:\n  fatigue_rate: 0.02\n"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	t.Setenv("EARA_MODEL_FATIGUE_RATE", "0.03")
	t.Setenv("EARA_HARNESS_THRESHOLD_MAE", "0.01")
	t.Setenv("EARA_LOG_LEVEL", "trace")

	cfg, err := Load(path, true)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Model.FatigueRate != 0.03 {
		t.Fatalf("fatigue rate = %v, want env value 0.03", cfg.Model.FatigueRate)
	}
	if cfg.Harness.Thresholds.MAE != 0.01 {
		t.Fatalf("mae threshold = %v, want env value 0.01", cfg.Harness.Thresholds.MAE)
	}
	if cfg.Logging.Level != "trace" {
		t.Fatalf("log level = %q, want trace", cfg.Logging.Level)
	}
}

func TestLoadRejectsInvalidMergedConfig(t *testing.T) {
	t.Setenv("EARA_MODEL_FATIGUE_RATE", "-1")
	_, err := Load("", false)
	if !errors.Is(err, capacity.ErrInvalidConfiguration) {
		t.Fatalf("got %v, want ErrInvalidConfiguration", err)
	}
}

func TestValidateRejectsBadSchedule(t *testing.T) {
	cfg := Default()
	cfg.Harness.Schedule = "work:-5"
	if err := cfg.Validate(); !errors.Is(err, schedule.ErrInvalidSchedule) {
		t.Fatalf("got %v, want ErrInvalidSchedule", err)
	}
}
