// Package stats quantifies the divergence between two trajectories of equal
// length. It reduces the per-index absolute errors to the summary statistics
// the validation gate reads: mean absolute error, root-mean-square error,
// the maximum error and its index, and a magnitude histogram.
package stats

import (
	"errors"
	"fmt"
	"math"
)

// #region errors
var (
	// ErrLengthMismatch is returned when the two sequences differ in length.
	ErrLengthMismatch = errors.New("length mismatch")

	// ErrNoData is returned when there are no points to compare.
	ErrNoData = errors.New("no data points")
)

// #endregion errors

// #region bins
// binBounds are the upper bounds of the error-magnitude histogram buckets.
// Errors at or above the last bound land in the overflow bucket.
var binBounds = []float64{1e-12, 1e-9, 1e-6, 1e-3}

// Bin is one bucket of the error-magnitude histogram.
type Bin struct {
	Label      string  `json:"label"`       // e.g. "< 1e-09"
	UpperBound float64 `json:"upper_bound"` // +Inf for the overflow bucket
	Count      int     `json:"count"`
}

// #endregion bins

// #region comparison
// Comparison summarizes the divergence between a golden and a live sequence.
type Comparison struct {
	MAE           float64   `json:"mae"`
	RMSE          float64   `json:"rmse"`
	MaxError      float64   `json:"max_error"`
	MaxErrorIndex int       `json:"max_error_index"` // 0-based, first occurrence on ties
	DataPoints    int       `json:"data_points"`
	Errors        []float64 `json:"errors"` // per-index absolute errors
	Bins          []Bin     `json:"bins"`
}

// #endregion comparison

// #region compare
// Compare computes the divergence statistics between two sequences of equal
// length. It fails with ErrLengthMismatch when the lengths disagree and with
// ErrNoData when both are empty.
func Compare(golden, live []float64) (Comparison, error) {
	if len(golden) != len(live) {
		return Comparison{}, fmt.Errorf("%w: golden has %d points, live has %d", ErrLengthMismatch, len(golden), len(live))
	}
	if len(golden) == 0 {
		return Comparison{}, fmt.Errorf("%w: nothing to compare", ErrNoData)
	}

	n := len(golden)
	errs := make([]float64, n)
	var absSum, sqSum, maxErr float64
	maxIdx := 0
	for i := range golden {
		e := math.Abs(golden[i] - live[i])
		errs[i] = e
		absSum += e
		sqSum += e * e
		if e > maxErr {
			maxErr = e
			maxIdx = i
		}
	}

	return Comparison{
		MAE:           absSum / float64(n),
		RMSE:          math.Sqrt(sqSum / float64(n)),
		MaxError:      maxErr,
		MaxErrorIndex: maxIdx,
		DataPoints:    n,
		Errors:        errs,
		Bins:          binErrors(errs),
	}, nil
}

// binErrors buckets the absolute errors by magnitude.
func binErrors(errs []float64) []Bin {
	bins := make([]Bin, 0, len(binBounds)+1)
	for _, bound := range binBounds {
		bins = append(bins, Bin{Label: fmt.Sprintf("< %.0e", bound), UpperBound: bound})
	}
	bins = append(bins, Bin{Label: fmt.Sprintf(">= %.0e", binBounds[len(binBounds)-1]), UpperBound: math.Inf(1)})

	for _, e := range errs {
		for i := range bins {
			if e < bins[i].UpperBound || math.IsInf(bins[i].UpperBound, 1) {
				bins[i].Count++
				break
			}
		}
	}
	return bins
}

// #endregion compare
