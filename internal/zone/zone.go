// Package zone maps worker capacity to operating states and to a usable
// performance multiplier. All functions are pure: the same capacity and bands
// always produce the same answer, independent of any history.
package zone

// #region classify
// Classify maps a capacity value to its operating state. The bands partition
// [0,1] into four half-open intervals; equal boundaries collapse the band
// between them to empty.
func Classify(capacity float64, b Bands) Label {
	switch {
	case capacity < b.Floor:
		return Shutdown
	case capacity < b.Critical:
		return Critical
	case capacity < b.Optimal:
		return Degraded
	default:
		return Optimal
	}
}

// #endregion classify

// #region multiplier
// Multiplier converts capacity into a usable-output multiplier over three
// zones:
//
//   - at or above the critical threshold the mapping is the identity, so the
//     multiplier is continuous at the boundary;
//   - between the floor and the threshold it is a quadratic ease-in, so the
//     same erosion costs more output near the floor than near the threshold;
//   - below the floor output fails entirely.
//
// At capacity exactly equal to the floor the multiplier is exactly the floor
// value.
func Multiplier(capacity float64, b Bands) float64 {
	switch {
	case capacity >= b.Critical:
		return capacity
	case capacity >= b.Floor:
		d := (capacity - b.Floor) / (b.Critical - b.Floor)
		return b.Floor + d*d*(b.Critical-b.Floor)
	default:
		return 0
	}
}

// #endregion multiplier
