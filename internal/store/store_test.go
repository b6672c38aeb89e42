package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/cochisestarks-web/EARA---Darwish/internal/capacity"
	"github.com/cochisestarks-web/EARA---Darwish/internal/schedule"
	"github.com/cochisestarks-web/EARA---Darwish/internal/sim"
)

func openStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "eara.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func sampleRun(t *testing.T) RunRecord {
	t.Helper()
	runner, err := sim.New(capacity.DefaultConfig())
	if err != nil {
		t.Fatalf("sim.New: %v", err)
	}
	res, err := runner.Run(schedule.DefaultDay(), 0)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	return RunRecord{
		RunID:     res.RunID,
		WorkerID:  res.WorkerID,
		CreatedAt: time.Now().UTC(),
		Config:    res.Config,
		Schedule:  res.Schedule,
		Summary:   res.Summary,
		Capacity:  res.Capacities(),
		Fatigue:   res.Fatigues(),
	}
}

func TestSaveAndGetRunRoundTrip(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()
	rec := sampleRun(t)

	if err := s.SaveRun(ctx, rec); err != nil {
		t.Fatalf("SaveRun: %v", err)
	}

	got, err := s.GetRun(ctx, rec.RunID)
	if err != nil {
		t.Fatalf("GetRun: %v", err)
	}
	if got.WorkerID != rec.WorkerID {
		t.Fatalf("worker = %q, want %q", got.WorkerID, rec.WorkerID)
	}
	if got.Config != rec.Config {
		t.Fatalf("config round-trip: got %+v, want %+v", got.Config, rec.Config)
	}
	if len(got.Capacity) != len(rec.Capacity) {
		t.Fatalf("capacity series length %d, want %d", len(got.Capacity), len(rec.Capacity))
	}
	for i := range rec.Capacity {
		if got.Capacity[i] != rec.Capacity[i] || got.Fatigue[i] != rec.Fatigue[i] {
			t.Fatalf("series differ at %d", i)
		}
	}
	if got.Summary.Ticks != rec.Summary.Ticks || got.Summary.MeanCapacity != rec.Summary.MeanCapacity {
		t.Fatalf("summary round-trip: got %+v", got.Summary)
	}
	if got.Schedule.Compact() != rec.Schedule.Compact() {
		t.Fatalf("schedule round-trip: got %s", got.Schedule.Compact())
	}
}

func TestGetRunNotFound(t *testing.T) {
	s := openStore(t)
	_, err := s.GetRun(context.Background(), "nope")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("got %v, want ErrNotFound", err)
	}
}

func TestListRunsMostRecentFirst(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()

	first := sampleRun(t)
	first.CreatedAt = time.Now().UTC().Add(-time.Hour)
	second := sampleRun(t)

	if err := s.SaveRun(ctx, first); err != nil {
		t.Fatalf("SaveRun first: %v", err)
	}
	if err := s.SaveRun(ctx, second); err != nil {
		t.Fatalf("SaveRun second: %v", err)
	}

	runs, err := s.ListRuns(ctx, 10)
	if err != nil {
		t.Fatalf("ListRuns: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("got %d runs, want 2", len(runs))
	}
	if runs[0].RunID != second.RunID {
		t.Fatalf("most recent run should come first, got %s", runs[0].RunID)
	}
}

func TestSaveAndGetReportRoundTrip(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()

	rec := ReportRecord{
		ReportID:      "rep-1",
		Scenario:      "default-day",
		CreatedAt:     time.Now().UTC(),
		MAE:           1.5e-16,
		RMSE:          2.5e-16,
		MaxError:      1.1e-15,
		MaxErrorIndex: 42,
		DataPoints:    480,
		Passed:        true,
		Reason:        "all checks passed",
		Errors:        []float64{0, 1.1e-15, 0},
	}
	if err := s.SaveReport(ctx, rec); err != nil {
		t.Fatalf("SaveReport: %v", err)
	}

	got, err := s.GetReport(ctx, "rep-1")
	if err != nil {
		t.Fatalf("GetReport: %v", err)
	}
	if got.MAE != rec.MAE || got.MaxErrorIndex != 42 || !got.Passed {
		t.Fatalf("report round-trip: got %+v", got)
	}
	if got.RunID != "" {
		t.Fatalf("run id should stay empty, got %q", got.RunID)
	}
	if len(got.Errors) != 3 || got.Errors[1] != 1.1e-15 {
		t.Fatalf("error series round-trip: %v", got.Errors)
	}
}

func TestSaveReportWithLinkedRun(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()

	run := sampleRun(t)
	if err := s.SaveRun(ctx, run); err != nil {
		t.Fatalf("SaveRun: %v", err)
	}
	rep := ReportRecord{
		ReportID:   "rep-linked",
		RunID:      run.RunID,
		Scenario:   "default-day",
		CreatedAt:  time.Now().UTC(),
		DataPoints: 480,
		Passed:     true,
		Reason:     "all checks passed",
	}
	if err := s.SaveReport(ctx, rep); err != nil {
		t.Fatalf("SaveReport: %v", err)
	}

	got, err := s.GetReport(ctx, "rep-linked")
	if err != nil {
		t.Fatalf("GetReport: %v", err)
	}
	if got.RunID != run.RunID {
		t.Fatalf("linked run id = %q, want %q", got.RunID, run.RunID)
	}

	reports, err := s.ListReports(ctx, 10)
	if err != nil {
		t.Fatalf("ListReports: %v", err)
	}
	if len(reports) != 1 || reports[0].ReportID != "rep-linked" {
		t.Fatalf("ListReports = %+v", reports)
	}
}

func TestGetReportNotFound(t *testing.T) {
	s := openStore(t)
	_, err := s.GetReport(context.Background(), "missing")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("got %v, want ErrNotFound", err)
	}
}
