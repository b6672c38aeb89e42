package capacity

import (
	"errors"
	"fmt"

	"github.com/cochisestarks-web/EARA---Darwish/internal/zone"
)

// #region errors
var (
	// ErrInvalidConfiguration is returned by New when a configuration value
	// is out of range.
	ErrInvalidConfiguration = errors.New("invalid configuration")

	// ErrInvalidInput is returned by Tick when the delta time is not
	// positive.
	ErrInvalidInput = errors.New("invalid input")

	// ErrEmptyHistory is returned by Summary before any tick has occurred.
	ErrEmptyHistory = errors.New("empty history")
)

// #endregion errors

// #region clock-mode
// ClockMode selects how TimeInCriticalZone accrues. The source model counted
// one unit per tick while the other cumulative timers added elapsed time, so
// the two disagree whenever delta time is not 1; the choice is exposed here
// instead of silently picking one.
type ClockMode string

const (
	// ClockTicks adds one unit per qualifying tick regardless of delta time.
	ClockTicks ClockMode = "ticks"
	// ClockElapsed adds the tick's delta time instead.
	ClockElapsed ClockMode = "elapsed"
)

// #endregion clock-mode

// #region config
// Config holds the biophysical parameters for one worker model. It is
// immutable after construction and re-applied on Reset.
type Config struct {
	FatigueRate       float64   `yaml:"fatigue_rate" json:"fatigue_rate" env:"FATIGUE_RATE"`                   // exponential fatigue growth rate while working (default 0.0097)
	RecoveryRate      float64   `yaml:"recovery_rate" json:"recovery_rate" env:"RECOVERY_RATE"`                // exponential fatigue decay rate while resting (default 0.0009)
	MinCapacity       float64   `yaml:"min_capacity" json:"min_capacity" env:"MIN_CAPACITY"`                   // safety floor in [0,1) (default 0.10)
	CriticalThreshold float64   `yaml:"critical_threshold" json:"critical_threshold" env:"CRITICAL_THRESHOLD"` // nonlinear degradation boundary in (MinCapacity,1] (default 0.70)
	OptimalThreshold  float64   `yaml:"optimal_threshold" json:"optimal_threshold" env:"OPTIMAL_THRESHOLD"`    // optimal classification boundary in [CriticalThreshold,1] (default 0.70)
	InitialCapacity   float64   `yaml:"initial_capacity" json:"initial_capacity" env:"INITIAL_CAPACITY"`       // construction-time capacity in [0,1] (default 1.0)
	WorkerID          string    `yaml:"worker_id" json:"worker_id" env:"WORKER_ID"`                            // opaque identifier; empty means New assigns a UUID
	CriticalZoneClock ClockMode `yaml:"critical_zone_clock" json:"critical_zone_clock" env:"CRITICAL_ZONE_CLOCK"`
}

// DefaultConfig returns sensible defaults. With the default thresholds the
// degraded band is empty and classification collapses to three effective
// states.
func DefaultConfig() Config {
	return Config{
		FatigueRate:       0.0097,
		RecoveryRate:      0.0009,
		MinCapacity:       0.10,
		CriticalThreshold: 0.70,
		OptimalThreshold:  0.70,
		InitialCapacity:   1.0,
		CriticalZoneClock: ClockTicks,
	}
}

// Bands returns the classification boundaries derived from the
// configuration.
func (c Config) Bands() zone.Bands {
	return zone.Bands{
		Floor:    c.MinCapacity,
		Critical: c.CriticalThreshold,
		Optimal:  c.OptimalThreshold,
	}
}

// Validate reports the first out-of-range parameter, wrapped in
// ErrInvalidConfiguration.
func (c Config) Validate() error {
	if c.FatigueRate <= 0 {
		return fmt.Errorf("%w: fatigue rate must be > 0, got %v", ErrInvalidConfiguration, c.FatigueRate)
	}
	if c.RecoveryRate <= 0 {
		return fmt.Errorf("%w: recovery rate must be > 0, got %v", ErrInvalidConfiguration, c.RecoveryRate)
	}
	if c.MinCapacity < 0 || c.MinCapacity >= 1 {
		return fmt.Errorf("%w: min capacity must be in [0,1), got %v", ErrInvalidConfiguration, c.MinCapacity)
	}
	if c.CriticalThreshold <= c.MinCapacity || c.CriticalThreshold > 1 {
		return fmt.Errorf("%w: critical threshold must be in (%v,1], got %v", ErrInvalidConfiguration, c.MinCapacity, c.CriticalThreshold)
	}
	if c.OptimalThreshold < c.CriticalThreshold || c.OptimalThreshold > 1 {
		return fmt.Errorf("%w: optimal threshold must be in [%v,1], got %v", ErrInvalidConfiguration, c.CriticalThreshold, c.OptimalThreshold)
	}
	if c.InitialCapacity < 0 || c.InitialCapacity > 1 {
		return fmt.Errorf("%w: initial capacity must be in [0,1], got %v", ErrInvalidConfiguration, c.InitialCapacity)
	}
	switch c.CriticalZoneClock {
	case ClockTicks, ClockElapsed:
	default:
		return fmt.Errorf("%w: critical zone clock must be %q or %q, got %q", ErrInvalidConfiguration, ClockTicks, ClockElapsed, c.CriticalZoneClock)
	}
	return nil
}

// #endregion config

// #region worker-state
// WorkerState is the complete biophysical state of one worker. It is owned by
// a single Model and mutated only through Tick. Capacity and Fatigue are
// complements: capacity + fatigue = 1 at every observation point.
type WorkerState struct {
	Capacity             float64 `json:"capacity"`
	Fatigue              float64 `json:"fatigue"`
	IsWorking            bool    `json:"is_working"`
	SessionTime          float64 `json:"session_time"`           // elapsed time since the current activity mode began
	SessionStartCapacity float64 `json:"session_start_capacity"` // closed-form anchor for the current session
	Session              int     `json:"session"`                // incremented on each rest→work transition
	TotalWorkTime        float64 `json:"total_work_time"`
	TotalRestTime        float64 `json:"total_rest_time"`
	TimeInCriticalZone   float64 `json:"time_in_critical_zone"`
	EmergencyShutdowns   int     `json:"emergency_shutdowns"`
	ViolatedMinCapacity  bool    `json:"violated_min_capacity"` // sticky; cleared only by Reset
}

// #endregion worker-state

// #region snapshot
// Snapshot is the per-tick observation record appended to history and handed
// to external consumers.
type Snapshot struct {
	WorkerID            string     `json:"worker_id"`
	Tick                int        `json:"tick"` // 1-based tick count at capture time
	Capacity            float64    `json:"capacity"`
	Fatigue             float64    `json:"fatigue"`
	Performance         float64    `json:"performance"`
	State               zone.Label `json:"state"`
	IsWorking           bool       `json:"is_working"`
	IsSafe              bool       `json:"is_safe"`
	IsCritical          bool       `json:"is_critical"`
	Session             int        `json:"session"`
	SessionTime         float64    `json:"session_time"`
	TotalWorkTime       float64    `json:"total_work_time"`
	TotalRestTime       float64    `json:"total_rest_time"`
	TimeInCriticalZone  float64    `json:"time_in_critical_zone"`
	EmergencyShutdowns  int        `json:"emergency_shutdowns"`
	ViolatedMinCapacity bool       `json:"violated_min_capacity"`
}

// #endregion snapshot

// #region summary
// Summary reduces a tick history to aggregate statistics.
type Summary struct {
	Ticks               int     `json:"ticks"`
	MeanCapacity        float64 `json:"mean_capacity"`
	MeanPerformance     float64 `json:"mean_performance"`
	MinObservedCapacity float64 `json:"min_observed_capacity"`
	MaxObservedFatigue  float64 `json:"max_observed_fatigue"`
	FinalCapacity       float64 `json:"final_capacity"`
	FinalFatigue        float64 `json:"final_fatigue"`
	TotalWorkTime       float64 `json:"total_work_time"`
	TotalRestTime       float64 `json:"total_rest_time"`
	Sessions            int     `json:"sessions"`
	TimeInCriticalZone  float64 `json:"time_in_critical_zone"`
	EmergencyShutdowns  int     `json:"emergency_shutdowns"`
	ViolatedMinCapacity bool    `json:"violated_min_capacity"`
}

// #endregion summary
