// Package capacity implements a discrete-time biophysical model of one
// worker's productive capacity. Capacity decays exponentially under sustained
// work and recovers exponentially during rest; each maximal contiguous span
// of one activity mode is a session, and the trajectory within a session is
// evaluated in closed form from the capacity at the session boundary.
package capacity

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/cochisestarks-web/EARA---Darwish/internal/zone"
)

// #region model
// Model owns one worker's biophysical state and advances it tick by tick.
// A Model is not safe for concurrent use: each instance belongs to exactly
// one caller for the duration of a run.
type Model struct {
	cfg     Config
	state   WorkerState
	history []Snapshot
}

// New constructs a model, failing fast with ErrInvalidConfiguration on any
// out-of-range parameter. An empty WorkerID is replaced with a generated
// UUID.
func New(cfg Config) (*Model, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.WorkerID == "" {
		cfg.WorkerID = uuid.New().String()
	}
	return &Model{cfg: cfg, state: initialState(cfg)}, nil
}

// initialState builds the construction-time worker state: at rest, session 1,
// capacity as configured.
func initialState(cfg Config) WorkerState {
	return WorkerState{
		Capacity:             cfg.InitialCapacity,
		Fatigue:              1 - cfg.InitialCapacity,
		IsWorking:            false,
		SessionStartCapacity: cfg.InitialCapacity,
		Session:              1,
	}
}

// #endregion model

// #region tick
// Tick advances the state by deltaTime under the given activity signal,
// appends a snapshot to the history, and returns it. deltaTime must be
// positive.
func (m *Model) Tick(working bool, deltaTime float64) (Snapshot, error) {
	if deltaTime <= 0 {
		return Snapshot{}, fmt.Errorf("%w: delta time must be > 0, got %v", ErrInvalidInput, deltaTime)
	}
	m.state = step(m.state, working, deltaTime, m.cfg)
	snap := m.buildSnapshot(len(m.history) + 1)
	m.history = append(m.history, snap)
	return snap, nil
}

// buildSnapshot captures the current state together with the derived
// performance multiplier and classification.
func (m *Model) buildSnapshot(tick int) Snapshot {
	s := m.state
	b := m.cfg.Bands()
	return Snapshot{
		WorkerID:            m.cfg.WorkerID,
		Tick:                tick,
		Capacity:            s.Capacity,
		Fatigue:             s.Fatigue,
		Performance:         zone.Multiplier(s.Capacity, b),
		State:               zone.Classify(s.Capacity, b),
		IsWorking:           s.IsWorking,
		IsSafe:              s.Capacity >= m.cfg.MinCapacity,
		IsCritical:          s.Capacity < m.cfg.CriticalThreshold,
		Session:             s.Session,
		SessionTime:         s.SessionTime,
		TotalWorkTime:       s.TotalWorkTime,
		TotalRestTime:       s.TotalRestTime,
		TimeInCriticalZone:  s.TimeInCriticalZone,
		EmergencyShutdowns:  s.EmergencyShutdowns,
		ViolatedMinCapacity: s.ViolatedMinCapacity,
	}
}

// #endregion tick

// #region queries
// Config returns the configuration with the worker identifier resolved.
func (m *Model) Config() Config { return m.cfg }

// WorkerID returns the opaque worker identifier.
func (m *Model) WorkerID() string { return m.cfg.WorkerID }

// State returns a copy of the current worker state.
func (m *Model) State() WorkerState { return m.state }

// Current captures a snapshot of the current state without advancing it. The
// reported tick is the number of ticks taken so far.
func (m *Model) Current() Snapshot { return m.buildSnapshot(len(m.history)) }

// Ticks returns the number of ticks taken since construction or Reset.
func (m *Model) Ticks() int { return len(m.history) }

// History returns a copy of the per-tick snapshots in order.
func (m *Model) History() []Snapshot {
	out := make([]Snapshot, len(m.history))
	copy(out, m.history)
	return out
}

// IsSafe reports whether capacity is at or above the safety floor.
func (m *Model) IsSafe() bool { return m.state.Capacity >= m.cfg.MinCapacity }

// IsCritical reports whether capacity is below the critical threshold.
func (m *Model) IsCritical() bool { return m.state.Capacity < m.cfg.CriticalThreshold }

// #endregion queries

// #region summary
// Summary reduces the recorded history to aggregate statistics. It fails
// with ErrEmptyHistory before the first tick.
func (m *Model) Summary() (Summary, error) {
	if len(m.history) == 0 {
		return Summary{}, fmt.Errorf("%w: no ticks recorded", ErrEmptyHistory)
	}

	var capSum, perfSum float64
	minCap := m.history[0].Capacity
	maxFat := m.history[0].Fatigue
	for _, snap := range m.history {
		capSum += snap.Capacity
		perfSum += snap.Performance
		if snap.Capacity < minCap {
			minCap = snap.Capacity
		}
		if snap.Fatigue > maxFat {
			maxFat = snap.Fatigue
		}
	}

	n := float64(len(m.history))
	last := m.history[len(m.history)-1]
	return Summary{
		Ticks:               len(m.history),
		MeanCapacity:        capSum / n,
		MeanPerformance:     perfSum / n,
		MinObservedCapacity: minCap,
		MaxObservedFatigue:  maxFat,
		FinalCapacity:       last.Capacity,
		FinalFatigue:        last.Fatigue,
		TotalWorkTime:       last.TotalWorkTime,
		TotalRestTime:       last.TotalRestTime,
		Sessions:            last.Session,
		TimeInCriticalZone:  last.TimeInCriticalZone,
		EmergencyShutdowns:  last.EmergencyShutdowns,
		ViolatedMinCapacity: last.ViolatedMinCapacity,
	}, nil
}

// #endregion summary

// #region reset
// Reset reinstates the construction-time state and clears the history and
// all counters. The configuration and worker identity are kept.
func (m *Model) Reset() {
	m.state = initialState(m.cfg)
	m.history = nil
}

// #endregion reset
