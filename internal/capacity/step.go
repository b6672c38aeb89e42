package capacity

import "math"

// #region step
// step advances a worker state by one tick. It is a pure function: the next
// state depends only on the previous state, the activity signal, the delta
// time, and the configuration. Fatigue is always re-evaluated in closed form
// from the session anchor rather than integrated from the previous tick's
// value, which keeps the stateful trajectory identical to the closed-form one
// at every tick instead of merely in the limit.
func step(prev WorkerState, working bool, deltaTime float64, cfg Config) WorkerState {
	next := prev

	// 1. Session boundary: re-anchor when the activity mode flips.
	if working != prev.IsWorking {
		next.SessionStartCapacity = prev.Capacity
		next.SessionTime = 0
		if working {
			next.Session++
		}
		next.IsWorking = working
	}

	// 2. Time accumulation within the session.
	next.SessionTime += deltaTime

	// 3. Closed-form fatigue from the session anchor.
	anchorFatigue := 1 - next.SessionStartCapacity
	if working {
		// Fatigue grows from the anchor toward 1 with rate λ.
		next.Fatigue = clamp01(1 - (1-anchorFatigue)*math.Exp(-cfg.FatigueRate*next.SessionTime))
	} else {
		// Fatigue decays from the anchor toward 0 with rate μ.
		next.Fatigue = clamp01(anchorFatigue * math.Exp(-cfg.RecoveryRate*next.SessionTime))
	}

	// 4. Capacity is the complement of fatigue.
	next.Capacity = math.Max(1-next.Fatigue, 0)

	// 5. Cumulative activity time.
	if working {
		next.TotalWorkTime += deltaTime
	} else {
		next.TotalRestTime += deltaTime
	}

	// 6. Safety transitions from the previous tick's predicate.
	applySafety(&next, prev.Capacity, deltaTime, cfg)

	return next
}

// #endregion step

// #region safety
// applySafety evaluates the three safety rules as explicit transitions.
// prevCapacity is the capacity before this tick; the constructed state acts
// as the baseline for the first tick.
func applySafety(next *WorkerState, prevCapacity, deltaTime float64, cfg Config) {
	prevBelow := prevCapacity < cfg.MinCapacity
	below := next.Capacity < cfg.MinCapacity

	// Shutdown counter: one increment per excursion below the floor, taken
	// on the rising edge only.
	if below && !prevBelow {
		next.EmergencyShutdowns++
	}

	// Violation flag is sticky once set.
	if below {
		next.ViolatedMinCapacity = true
	}

	// Critical-zone time accrues only while working under the threshold.
	if next.IsWorking && next.Capacity < cfg.CriticalThreshold {
		if cfg.CriticalZoneClock == ClockElapsed {
			next.TimeInCriticalZone += deltaTime
		} else {
			next.TimeInCriticalZone++
		}
	}
}

// #endregion safety

// #region helpers
// clamp01 restricts v to [0, 1].
func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// #endregion helpers
