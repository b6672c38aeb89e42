// Package oracle generates golden capacity trajectories directly from the
// closed-form fatigue equations, with no simulator state involved. The
// harness compares these against the live model's output; because the model
// also evaluates the closed form from its session anchor, the two should
// agree to machine precision at every tick.
package oracle

import (
	"fmt"
	"math"

	"github.com/cochisestarks-web/EARA---Darwish/internal/capacity"
	"github.com/cochisestarks-web/EARA---Darwish/internal/schedule"
)

// #region point
// Point is one simulated minute of the golden trajectory.
type Point struct {
	Capacity    float64 `json:"capacity"`
	Fatigue     float64 `json:"fatigue"`
	IsWorking   bool    `json:"is_working"`
	SessionTime float64 `json:"session_time"` // minutes since the current session began
}

// #endregion point

// #region generate
// Generate walks the schedule minute by minute and evaluates the trajectory
// in closed form. On each activity change the session fatigue re-anchors to
// the value carried over from the previous minute and the session clock
// resets; consecutive segments of the same activity continue the clock.
// The trajectory starts at rest with the configured initial capacity, which
// matches the model's construction-time state. At most timeSteps points are
// produced; timeSteps <= 0 means no cap.
func Generate(cfg capacity.Config, sched schedule.Schedule, timeSteps int) ([]Point, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := sched.Validate(); err != nil {
		return nil, fmt.Errorf("golden generation: %w", err)
	}

	total := sched.TotalMinutes()
	if timeSteps > 0 && timeSteps < total {
		total = timeSteps
	}

	points := make([]Point, 0, total)
	anchorFatigue := 1 - cfg.InitialCapacity
	fatigue := anchorFatigue
	sessionTime := 0.0
	working := false

	for _, seg := range sched {
		segWorking := seg.Activity == schedule.Work
		if segWorking != working {
			anchorFatigue = fatigue
			sessionTime = 0
			working = segWorking
		}

		for minute := 0; minute < seg.Minutes; minute++ {
			if len(points) >= total {
				return points, nil
			}
			sessionTime++
			if working {
				fatigue = 1 - (1-anchorFatigue)*math.Exp(-cfg.FatigueRate*sessionTime)
			} else {
				fatigue = anchorFatigue * math.Exp(-cfg.RecoveryRate*sessionTime)
			}
			if fatigue < 0 {
				fatigue = 0
			} else if fatigue > 1 {
				fatigue = 1
			}
			points = append(points, Point{
				Capacity:    math.Max(1-fatigue, 0),
				Fatigue:     fatigue,
				IsWorking:   working,
				SessionTime: sessionTime,
			})
		}
	}
	return points, nil
}

// #endregion generate

// #region channels
// Capacities extracts the capacity channel from a golden trajectory.
func Capacities(points []Point) []float64 {
	out := make([]float64, len(points))
	for i, p := range points {
		out[i] = p.Capacity
	}
	return out
}

// #endregion channels
