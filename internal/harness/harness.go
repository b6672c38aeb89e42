// Package harness validates the stateful capacity model against the
// closed-form oracle. It runs both over an identical schedule, aligns the
// capacity trajectories index by index, reduces them to divergence
// statistics, and gates the result against configured thresholds.
package harness

import (
	"fmt"

	"github.com/cochisestarks-web/EARA---Darwish/internal/capacity"
	"github.com/cochisestarks-web/EARA---Darwish/internal/oracle"
	"github.com/cochisestarks-web/EARA---Darwish/internal/schedule"
	"github.com/cochisestarks-web/EARA---Darwish/internal/sim"
	"github.com/cochisestarks-web/EARA---Darwish/internal/stats"
)

// #region types
// Thresholds gates a comparison. MAE is the primary gate and must be > 0;
// RMSE and MaxError are advisory when left at 0.
type Thresholds struct {
	MAE      float64 `yaml:"mae" json:"mae" env:"MAE"`
	RMSE     float64 `yaml:"rmse" json:"rmse" env:"RMSE"`
	MaxError float64 `yaml:"max_error" json:"max_error" env:"MAX_ERROR"`
}

// DefaultThresholds returns the default regression gate: MAE strictly below
// 0.001, RMSE and max error advisory. A correct implementation sits many
// orders of magnitude under the gate.
func DefaultThresholds() Thresholds {
	return Thresholds{MAE: 0.001}
}

// Scenario is one self-contained validation case.
type Scenario struct {
	Name        string            `yaml:"name" json:"name"`
	Description string            `yaml:"description" json:"description"`
	Config      capacity.Config   `yaml:"config" json:"config"`
	Schedule    schedule.Schedule `yaml:"schedule" json:"schedule"`
	TimeSteps   int               `yaml:"time_steps" json:"time_steps"`
	Thresholds  Thresholds        `yaml:"thresholds" json:"thresholds"`
	ExpectPass  bool              `yaml:"expect_pass" json:"expect_pass"`
}

// DefaultScenario is four cycles of work 90 / rest 30 over one 480-minute
// day with the default model parameters.
func DefaultScenario() Scenario {
	return Scenario{
		Name:        "default-day",
		Description: "four 90-minute work blocks with 30-minute breaks",
		Config:      capacity.DefaultConfig(),
		Schedule:    schedule.DefaultDay(),
		TimeSteps:   480,
		Thresholds:  DefaultThresholds(),
		ExpectPass:  true,
	}
}

// Metric is one gated statistic in a validation report.
type Metric struct {
	Name      string  `json:"name"`
	Value     float64 `json:"value"`
	Threshold float64 `json:"threshold"` // 0 means advisory
	Pass      bool    `json:"pass"`
}

// Report is the outcome of validating one scenario.
type Report struct {
	Scenario   string           `json:"scenario"`
	RunID      string           `json:"run_id"`
	Stats      stats.Comparison `json:"stats"`
	Metrics    []Metric         `json:"metrics"`
	Passed     bool             `json:"passed"`
	Reason     string           `json:"reason"`
	Golden     []oracle.Point   `json:"-"`
	Live       []float64        `json:"-"`
	ExpectPass bool             `json:"expect_pass"`
}

// #endregion types

// #region run
// Run generates the golden and live trajectories for a scenario, compares
// their capacity channels, and applies the threshold gate. The two
// generators are independent; only the comparison needs both.
func Run(sc Scenario) (Report, error) {
	golden, err := oracle.Generate(sc.Config, sc.Schedule, sc.TimeSteps)
	if err != nil {
		return Report{}, fmt.Errorf("scenario %s: %w", sc.Name, err)
	}

	runner, err := sim.New(sc.Config)
	if err != nil {
		return Report{}, fmt.Errorf("scenario %s: %w", sc.Name, err)
	}
	res, err := runner.Run(sc.Schedule, sc.TimeSteps)
	if err != nil {
		return Report{}, fmt.Errorf("scenario %s: %w", sc.Name, err)
	}

	live := res.Capacities()
	comparison, err := stats.Compare(oracle.Capacities(golden), live)
	if err != nil {
		return Report{}, fmt.Errorf("scenario %s: %w", sc.Name, err)
	}

	metrics, passed, reason := gate(comparison, sc.Thresholds)
	return Report{
		Scenario:   sc.Name,
		RunID:      res.RunID,
		Stats:      comparison,
		Metrics:    metrics,
		Passed:     passed,
		Reason:     reason,
		Golden:     golden,
		Live:       live,
		ExpectPass: sc.ExpectPass,
	}, nil
}

// gate applies the thresholds. The MAE check is strict (value must be below
// the threshold); RMSE and max error only gate when their threshold is set.
func gate(c stats.Comparison, th Thresholds) ([]Metric, bool, string) {
	metrics := []Metric{
		{Name: "mae", Value: c.MAE, Threshold: th.MAE, Pass: c.MAE < th.MAE},
		{Name: "rmse", Value: c.RMSE, Threshold: th.RMSE, Pass: th.RMSE == 0 || c.RMSE < th.RMSE},
		{Name: "max_error", Value: c.MaxError, Threshold: th.MaxError, Pass: th.MaxError == 0 || c.MaxError < th.MaxError},
	}

	for _, m := range metrics {
		if !m.Pass {
			return metrics, false, fmt.Sprintf("%s %.6g not below threshold %.6g", m.Name, m.Value, m.Threshold)
		}
	}
	return metrics, true, "all checks passed"
}

// #endregion run

// #region batch
// BatchSummary aggregates a batch of validation reports.
type BatchSummary struct {
	Total  int `json:"total"`
	Passed int `json:"passed"`
	Failed int `json:"failed"`
}

// RunAll validates each scenario in order and summarizes the outcomes. It
// stops at the first scenario that cannot be run at all; gate failures do
// not stop the batch.
func RunAll(scenarios []Scenario) ([]Report, BatchSummary, error) {
	reports := make([]Report, 0, len(scenarios))
	var sum BatchSummary
	for _, sc := range scenarios {
		rep, err := Run(sc)
		if err != nil {
			return reports, sum, err
		}
		reports = append(reports, rep)
		sum.Total++
		if rep.Passed {
			sum.Passed++
		} else {
			sum.Failed++
		}
	}
	return reports, sum, nil
}

// #endregion batch
