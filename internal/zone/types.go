package zone

// #region label
// Label classifies a capacity value into one of four operating states,
// ordered by severity.
type Label string

const (
	// Shutdown means capacity fell below the safety floor; output is zero.
	Shutdown Label = "shutdown"
	// Critical means capacity sits between the floor and the critical
	// threshold; output degrades nonlinearly.
	Critical Label = "critical"
	// Degraded means capacity sits between the critical and optimal
	// thresholds.
	Degraded Label = "degraded"
	// Optimal means capacity is at or above the optimal threshold.
	Optimal Label = "optimal"
)

// #endregion label

// #region bands
// Bands holds the capacity boundaries that drive classification and the
// performance multiplier. Every boundary comes from configuration; nothing
// here is hardcoded.
type Bands struct {
	Floor    float64 // safety floor; shutdown below this (default 0.10)
	Critical float64 // nonlinear degradation below this (default 0.70)
	Optimal  float64 // optimal at or above this (default 0.70)
}

// #endregion bands
