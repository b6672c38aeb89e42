package sim

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/cochisestarks-web/EARA---Darwish/internal/capacity"
	"github.com/cochisestarks-web/EARA---Darwish/internal/logging"
	"github.com/cochisestarks-web/EARA---Darwish/internal/schedule"
)

func TestRunProducesOneSnapshotPerMinute(t *testing.T) {
	r, err := New(capacity.DefaultConfig())
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	res, err := r.Run(schedule.DefaultDay(), 0)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(res.Snapshots) != 480 {
		t.Fatalf("got %d snapshots, want 480", len(res.Snapshots))
	}
	if res.RunID == "" || res.WorkerID == "" {
		t.Fatalf("missing identifiers: run=%q worker=%q", res.RunID, res.WorkerID)
	}
	if res.Summary.Ticks != 480 {
		t.Fatalf("summary ticks = %d, want 480", res.Summary.Ticks)
	}
}

func TestRunHonorsTimeStepsCap(t *testing.T) {
	r, err := New(capacity.DefaultConfig())
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	res, err := r.Run(schedule.DefaultDay(), 100)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(res.Snapshots) != 100 {
		t.Fatalf("got %d snapshots, want cap of 100", len(res.Snapshots))
	}
}

func TestRunResetsBetweenRuns(t *testing.T) {
	r, err := New(capacity.DefaultConfig())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	sched := schedule.Schedule{{Activity: schedule.Work, Minutes: 50}}

	first, err := r.Run(sched, 0)
	if err != nil {
		t.Fatalf("first run: %v", err)
	}
	second, err := r.Run(sched, 0)
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if first.RunID == second.RunID {
		t.Fatal("runs share a RunID")
	}
	for i := range first.Snapshots {
		if first.Snapshots[i].Capacity != second.Snapshots[i].Capacity {
			t.Fatalf("tick %d differs across identical runs: %v vs %v",
				i, first.Snapshots[i].Capacity, second.Snapshots[i].Capacity)
		}
	}
}

func TestRunRejectsInvalidSchedule(t *testing.T) {
	r, err := New(capacity.DefaultConfig())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	_, err = r.Run(schedule.Schedule{}, 0)
	if !errors.Is(err, schedule.ErrInvalidSchedule) {
		t.Fatalf("got %v, want ErrInvalidSchedule", err)
	}
}

func TestRunEmitsTraceRecords(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trace.jsonl")
	tl, err := logging.NewTraceLogger(path)
	if err != nil {
		t.Fatalf("NewTraceLogger: %v", err)
	}
	t.Cleanup(tl.Close)

	r, err := New(capacity.DefaultConfig(), WithTrace(tl))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, err := r.Run(schedule.Schedule{{Activity: schedule.Work, Minutes: 5}}, 0); err != nil {
		t.Fatalf("Run: %v", err)
	}
	tl.Close()

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open trace: %v", err)
	}
	defer f.Close()

	lines := 0
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var rec map[string]any
		if err := json.Unmarshal(scanner.Bytes(), &rec); err != nil {
			t.Fatalf("trace line %d is not JSON: %v", lines, err)
		}
		lines++
	}
	if lines != 5 {
		t.Fatalf("got %d trace lines, want 5", lines)
	}
}

func TestRunLogsToOperationalLogger(t *testing.T) {
	var buf bytes.Buffer
	r, err := New(capacity.DefaultConfig(), WithLogger(logging.NewLogger("info", &buf)))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, err := r.Run(schedule.Schedule{{Activity: schedule.Rest, Minutes: 3}}, 0); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !bytes.Contains(buf.Bytes(), []byte("run started")) || !bytes.Contains(buf.Bytes(), []byte("run finished")) {
		t.Fatalf("missing run lifecycle logs: %s", buf.String())
	}
}

func TestResultChannels(t *testing.T) {
	r, err := New(capacity.DefaultConfig())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	res, err := r.Run(schedule.Schedule{{Activity: schedule.Work, Minutes: 10}}, 0)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	caps, fats := res.Capacities(), res.Fatigues()
	for i := range res.Snapshots {
		if caps[i] != res.Snapshots[i].Capacity || fats[i] != res.Snapshots[i].Fatigue {
			t.Fatalf("channel mismatch at %d", i)
		}
	}
}
