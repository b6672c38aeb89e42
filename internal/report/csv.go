package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/cochisestarks-web/EARA---Darwish/internal/capacity"
)

// #region trajectory-csv
// WriteTrajectoryCSV writes one row per tick of a run's snapshot history.
func WriteTrajectoryCSV(w io.Writer, snapshots []capacity.Snapshot) error {
	cw := csv.NewWriter(w)
	header := []string{
		"tick", "capacity", "fatigue", "performance", "state", "working",
		"session", "session_time", "time_in_critical_zone", "emergency_shutdowns",
	}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, s := range snapshots {
		row := []string{
			strconv.Itoa(s.Tick),
			formatFloat(s.Capacity),
			formatFloat(s.Fatigue),
			formatFloat(s.Performance),
			string(s.State),
			strconv.FormatBool(s.IsWorking),
			strconv.Itoa(s.Session),
			formatFloat(s.SessionTime),
			formatFloat(s.TimeInCriticalZone),
			strconv.Itoa(s.EmergencyShutdowns),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write csv row %d: %w", s.Tick, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// #endregion trajectory-csv

// #region series-csv
// WriteSeriesCSV writes a bare capacity/fatigue series, one row per tick.
func WriteSeriesCSV(w io.Writer, capacitySeries, fatigueSeries []float64) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"tick", "capacity", "fatigue"}); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for i := range capacitySeries {
		fat := ""
		if i < len(fatigueSeries) {
			fat = formatFloat(fatigueSeries[i])
		}
		if err := cw.Write([]string{strconv.Itoa(i + 1), formatFloat(capacitySeries[i]), fat}); err != nil {
			return fmt.Errorf("write csv row %d: %w", i+1, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// #endregion series-csv

// #region errors-csv
// WriteErrorsCSV writes the per-tick absolute errors of a validation report.
func WriteErrorsCSV(w io.Writer, errs []float64) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"tick", "abs_error"}); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for i, e := range errs {
		if err := cw.Write([]string{strconv.Itoa(i + 1), strconv.FormatFloat(e, 'e', 12, 64)}); err != nil {
			return fmt.Errorf("write csv row %d: %w", i+1, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', 8, 64)
}

// #endregion errors-csv
