// Package sim drives a capacity model through a work/rest schedule, one
// tick per simulated minute, and collects the resulting trajectory.
package sim

import (
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/cochisestarks-web/EARA---Darwish/internal/capacity"
	"github.com/cochisestarks-web/EARA---Darwish/internal/logging"
	"github.com/cochisestarks-web/EARA---Darwish/internal/schedule"
)

// #region result
// Result is one completed simulation run.
type Result struct {
	RunID     string              `json:"run_id"`
	WorkerID  string              `json:"worker_id"`
	Config    capacity.Config     `json:"config"`
	Schedule  schedule.Schedule   `json:"schedule"`
	Snapshots []capacity.Snapshot `json:"snapshots"`
	Summary   capacity.Summary    `json:"summary"`
}

// Capacities extracts the capacity channel from the run's snapshots.
func (r Result) Capacities() []float64 {
	out := make([]float64, len(r.Snapshots))
	for i, s := range r.Snapshots {
		out[i] = s.Capacity
	}
	return out
}

// Fatigues extracts the fatigue channel from the run's snapshots.
func (r Result) Fatigues() []float64 {
	out := make([]float64, len(r.Snapshots))
	for i, s := range r.Snapshots {
		out[i] = s.Fatigue
	}
	return out
}

// #endregion result

// #region runner
// Runner owns one model and runs schedules against it. Logger and trace are
// optional; a nil trace logger is a no-op.
type Runner struct {
	model  *capacity.Model
	logger *slog.Logger
	trace  *logging.TraceLogger
}

// Option configures a Runner.
type Option func(*Runner)

// WithLogger attaches an operational logger to the runner.
func WithLogger(l *slog.Logger) Option {
	return func(r *Runner) { r.logger = l }
}

// WithTrace attaches a per-tick trace logger to the runner.
func WithTrace(tl *logging.TraceLogger) Option {
	return func(r *Runner) { r.trace = tl }
}

// New constructs a runner around a fresh model built from cfg.
func New(cfg capacity.Config, opts ...Option) (*Runner, error) {
	model, err := capacity.New(cfg)
	if err != nil {
		return nil, err
	}
	r := &Runner{model: model}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// Model returns the underlying model.
func (r *Runner) Model() *capacity.Model { return r.model }

// #endregion runner

// #region run
// Run resets the model, expands the schedule into unit ticks, and drives the
// model through it, truncated to timeSteps ticks (timeSteps <= 0 means no
// cap). Each run gets a fresh UUID.
func (r *Runner) Run(sched schedule.Schedule, timeSteps int) (Result, error) {
	if err := sched.Validate(); err != nil {
		return Result{}, err
	}

	runID := uuid.New().String()
	signal := sched.Expand()
	if timeSteps > 0 && timeSteps < len(signal) {
		signal = signal[:timeSteps]
	}

	if r.logger != nil {
		r.logger.Info("run started",
			"run_id", runID,
			"worker_id", r.model.WorkerID(),
			"schedule", sched.Compact(),
			"ticks", len(signal))
	}

	r.model.Reset()
	snapshots := make([]capacity.Snapshot, 0, len(signal))
	for i, working := range signal {
		snap, err := r.model.Tick(working, 1)
		if err != nil {
			return Result{}, fmt.Errorf("run %s tick %d: %w", runID, i+1, err)
		}
		snapshots = append(snapshots, snap)
		r.trace.Log(map[string]any{
			"run_id":      runID,
			"tick":        snap.Tick,
			"working":     snap.IsWorking,
			"capacity":    snap.Capacity,
			"fatigue":     snap.Fatigue,
			"performance": snap.Performance,
			"state":       snap.State,
			"session":     snap.Session,
		})
	}

	summary, err := r.model.Summary()
	if err != nil {
		return Result{}, fmt.Errorf("run %s: %w", runID, err)
	}

	if r.logger != nil {
		r.logger.Info("run finished",
			"run_id", runID,
			"final_capacity", summary.FinalCapacity,
			"min_capacity", summary.MinObservedCapacity,
			"emergency_shutdowns", summary.EmergencyShutdowns)
	}

	return Result{
		RunID:     runID,
		WorkerID:  r.model.WorkerID(),
		Config:    r.model.Config(),
		Schedule:  sched,
		Snapshots: snapshots,
		Summary:   summary,
	}, nil
}

// #endregion run
