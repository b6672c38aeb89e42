// Package schedule describes work/rest plans and expands them into the
// per-tick activity signal that drives a simulation.
package schedule

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// #region activity
// Activity is one of the two modes a worker can be in.
type Activity string

const (
	Work Activity = "work"
	Rest Activity = "rest"
)

// #endregion activity

// #region errors
// ErrInvalidSchedule is returned for empty schedules, unknown activities, or
// non-positive durations.
var ErrInvalidSchedule = errors.New("invalid schedule")

// #endregion errors

// #region segment
// Segment is one contiguous span of a single activity.
type Segment struct {
	Activity Activity `yaml:"activity" json:"activity"`
	Minutes  int      `yaml:"minutes" json:"minutes"` // duration in simulated minutes, > 0
}

// Schedule is an ordered list of segments.
type Schedule []Segment

// #endregion segment

// #region operations
// Validate reports the first malformed segment wrapped in
// ErrInvalidSchedule.
func (s Schedule) Validate() error {
	if len(s) == 0 {
		return fmt.Errorf("%w: no segments", ErrInvalidSchedule)
	}
	for i, seg := range s {
		if seg.Activity != Work && seg.Activity != Rest {
			return fmt.Errorf("%w: segment %d has unknown activity %q", ErrInvalidSchedule, i, seg.Activity)
		}
		if seg.Minutes <= 0 {
			return fmt.Errorf("%w: segment %d duration must be > 0, got %d", ErrInvalidSchedule, i, seg.Minutes)
		}
	}
	return nil
}

// TotalMinutes sums the segment durations.
func (s Schedule) TotalMinutes() int {
	total := 0
	for _, seg := range s {
		total += seg.Minutes
	}
	return total
}

// Expand flattens the schedule into one work/rest flag per simulated minute.
func (s Schedule) Expand() []bool {
	signal := make([]bool, 0, s.TotalMinutes())
	for _, seg := range s {
		working := seg.Activity == Work
		for i := 0; i < seg.Minutes; i++ {
			signal = append(signal, working)
		}
	}
	return signal
}

// Repeat concatenates n copies of the schedule.
func (s Schedule) Repeat(n int) Schedule {
	if n <= 1 {
		return s
	}
	out := make(Schedule, 0, len(s)*n)
	for i := 0; i < n; i++ {
		out = append(out, s...)
	}
	return out
}

// Compact renders the schedule in the "work:90,rest:30" form accepted by
// ParseCompact.
func (s Schedule) Compact() string {
	parts := make([]string, len(s))
	for i, seg := range s {
		parts[i] = fmt.Sprintf("%s:%d", seg.Activity, seg.Minutes)
	}
	return strings.Join(parts, ",")
}

// #endregion operations

// #region parse
// ParseCompact parses a comma-separated "activity:minutes" list, e.g.
// "work:90,rest:30". Whitespace around entries is ignored and activities are
// case-insensitive.
func ParseCompact(text string) (Schedule, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return nil, fmt.Errorf("%w: empty schedule string", ErrInvalidSchedule)
	}

	var sched Schedule
	for _, part := range strings.Split(trimmed, ",") {
		entry := strings.TrimSpace(part)
		activity, minutes, found := strings.Cut(entry, ":")
		if !found {
			return nil, fmt.Errorf("%w: entry %q is not activity:minutes", ErrInvalidSchedule, entry)
		}
		n, err := strconv.Atoi(strings.TrimSpace(minutes))
		if err != nil {
			return nil, fmt.Errorf("%w: entry %q has a non-integer duration", ErrInvalidSchedule, entry)
		}
		sched = append(sched, Segment{
			Activity: Activity(strings.ToLower(strings.TrimSpace(activity))),
			Minutes:  n,
		})
	}

	if err := sched.Validate(); err != nil {
		return nil, err
	}
	return sched, nil
}

// #endregion parse

// #region defaults
// DefaultDay is four 90-minute work blocks separated by 30-minute breaks,
// one 480-minute day.
func DefaultDay() Schedule {
	return Schedule{
		{Activity: Work, Minutes: 90},
		{Activity: Rest, Minutes: 30},
	}.Repeat(4)
}

// #endregion defaults
