package harness

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/cochisestarks-web/EARA---Darwish/internal/schedule"
)

func writeScenario(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write scenario: %v", err)
	}
	return path
}

func TestLoadScenarioYAML(t *testing.T) {
	path := writeScenario(t, "overnight.yaml", `
name: overnight
description: heavy shift then a long rest
config:
  fatigue_rate: 0.012
  initial_capacity: 0.9
schedule:
  - activity: work
    minutes: 240
  - activity: rest
    minutes: 240
thresholds:
  mae: 0.0005
expect_pass: true
`)

	sc, err := LoadScenario(path)
	if err != nil {
		t.Fatalf("LoadScenario: %v", err)
	}
	if sc.Name != "overnight" {
		t.Fatalf("name = %q", sc.Name)
	}
	if sc.Config.FatigueRate != 0.012 || sc.Config.InitialCapacity != 0.9 {
		t.Fatalf("explicit config fields not applied: %+v", sc.Config)
	}
	// Unspecified fields fall back to the documented defaults.
	if sc.Config.RecoveryRate != 0.0009 || sc.Config.MinCapacity != 0.10 {
		t.Fatalf("defaults not applied: %+v", sc.Config)
	}
	if sc.TimeSteps != 480 {
		t.Fatalf("time steps = %d, want schedule total 480", sc.TimeSteps)
	}
	if sc.Thresholds.MAE != 0.0005 {
		t.Fatalf("thresholds = %+v", sc.Thresholds)
	}
}

func TestLoadScenarioJSON(t *testing.T) {
	path := writeScenario(t, "compact.json", `{
  "name": "compact",
  "schedule_compact": "work:50,rest:10",
  "cycles": 3,
  "time_steps": 120
}`)

	sc, err := LoadScenario(path)
	if err != nil {
		t.Fatalf("LoadScenario: %v", err)
	}
	if got := sc.Schedule.TotalMinutes(); got != 180 {
		t.Fatalf("schedule total = %d, want 180", got)
	}
	if sc.TimeSteps != 120 {
		t.Fatalf("time steps = %d, want explicit 120", sc.TimeSteps)
	}
	if !sc.ExpectPass {
		t.Fatal("expect_pass should default to true")
	}
}

func TestLoadScenarioDefaultsEverything(t *testing.T) {
	path := writeScenario(t, "bare.yaml", "description: defaults only\n")

	sc, err := LoadScenario(path)
	if err != nil {
		t.Fatalf("LoadScenario: %v", err)
	}
	if sc.Name != "bare" {
		t.Fatalf("name should come from the file name, got %q", sc.Name)
	}
	if sc.Schedule.TotalMinutes() != 480 || sc.TimeSteps != 480 {
		t.Fatalf("default day not applied: total=%d steps=%d", sc.Schedule.TotalMinutes(), sc.TimeSteps)
	}

	rep, err := Run(sc)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !rep.Passed {
		t.Fatalf("default scenario from file failed: %s", rep.Reason)
	}
}

func TestLoadScenarioRejectsConflictingSchedules(t *testing.T) {
	path := writeScenario(t, "conflict.yaml", `
schedule:
  - activity: work
    minutes: 10
schedule_compact: "work:10"
`)
	if _, err := LoadScenario(path); err == nil {
		t.Fatal("accepted both schedule forms")
	}
}

func TestLoadScenarioRejectsBadSchedule(t *testing.T) {
	path := writeScenario(t, "bad.json", `{"schedule":[{"activity":"nap","minutes":10}]}`)
	_, err := LoadScenario(path)
	if !errors.Is(err, schedule.ErrInvalidSchedule) {
		t.Fatalf("got %v, want ErrInvalidSchedule", err)
	}
}

func TestLoadScenarioMissingFile(t *testing.T) {
	if _, err := LoadScenario(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("accepted a missing file")
	}
}

func TestScenarioFileUnknownActivityWrapsSentinel(t *testing.T) {
	sf := scenarioFile{Schedule: schedule.Schedule{{Activity: "nap", Minutes: 5}}}
	if _, err := sf.toScenario(); err == nil {
		t.Fatal("accepted an unknown activity")
	}
}
