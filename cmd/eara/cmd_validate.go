package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/cochisestarks-web/EARA---Darwish/internal/config"
	"github.com/cochisestarks-web/EARA---Darwish/internal/harness"
	"github.com/cochisestarks-web/EARA---Darwish/internal/oracle"
	"github.com/cochisestarks-web/EARA---Darwish/internal/report"
	"github.com/cochisestarks-web/EARA---Darwish/internal/stats"
	"github.com/cochisestarks-web/EARA---Darwish/internal/store"
)

func newValidateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Compare the live simulator against the closed-form oracle",
		Long: `validate runs scenario files (or the configured default scenario)
through both the stateful model and the closed-form golden generator, then
gates the divergence statistics. With --run it replays a stored run's
capacity series against a fresh golden trajectory instead.

The exit code is 1 when any scenario's outcome differs from its expected
pass/fail.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			scenarioPaths, _ := cmd.Flags().GetStringArray("scenario")
			runID, _ := cmd.Flags().GetString("run")
			save, _ := cmd.Flags().GetBool("save")
			tableRows, _ := cmd.Flags().GetInt("table-rows")
			jsonOut, _ := cmd.Flags().GetBool("json")

			var reports []harness.Report
			if runID != "" {
				rep, err := validateStoredRun(cfg, runID)
				if err != nil {
					return err
				}
				reports = []harness.Report{rep}
			} else {
				scenarios, err := collectScenarios(cfg, scenarioPaths)
				if err != nil {
					return err
				}
				reports, _, err = harness.RunAll(scenarios)
				if err != nil {
					return err
				}
			}

			if save {
				if err := saveReports(cfg, reports); err != nil {
					return err
				}
			}

			failed := 0
			for _, rep := range reports {
				if rep.Passed != rep.ExpectPass {
					failed++
				}
			}

			if jsonOut {
				if err := json.NewEncoder(os.Stdout).Encode(map[string]any{
					"reports": reports,
					"failed":  failed,
				}); err != nil {
					return err
				}
			} else {
				for i, rep := range reports {
					if i > 0 {
						fmt.Println()
					}
					fmt.Print(report.ValidationBlock(rep))
					if tableRows != 0 {
						fmt.Println()
						report.WriteComparison(os.Stdout, oracle.Capacities(rep.Golden), rep.Live, tableRows)
					}
				}
			}

			if failed > 0 {
				os.Exit(1)
			}
			return nil
		},
	}

	cmd.Flags().StringArray("scenario", nil, "Scenario file (YAML or JSON); repeatable")
	cmd.Flags().String("run", "", "Validate a stored run's series instead of a scenario")
	cmd.Flags().Bool("save", false, "Persist the validation reports to the store")
	cmd.Flags().Int("table-rows", 0, "Print the per-tick comparison table, limited to N rows (-1 for all)")
	return cmd
}

// collectScenarios loads scenario files, or falls back to the configured
// default scenario when none are given.
func collectScenarios(cfg config.Config, paths []string) ([]harness.Scenario, error) {
	if len(paths) == 0 {
		sched, err := cfg.Schedule()
		if err != nil {
			return nil, err
		}
		sc := harness.DefaultScenario()
		sc.Config = cfg.Model
		sc.Schedule = sched
		sc.TimeSteps = cfg.Harness.TimeSteps
		sc.Thresholds = cfg.Harness.Thresholds
		return []harness.Scenario{sc}, nil
	}

	scenarios := make([]harness.Scenario, 0, len(paths))
	for _, path := range paths {
		sc, err := harness.LoadScenario(path)
		if err != nil {
			return nil, err
		}
		scenarios = append(scenarios, sc)
	}
	return scenarios, nil
}

// validateStoredRun regenerates the golden trajectory for a stored run and
// compares it against the persisted capacity series.
func validateStoredRun(cfg config.Config, runID string) (harness.Report, error) {
	s, err := openStore(cfg)
	if err != nil {
		return harness.Report{}, err
	}
	defer s.Close()

	rec, err := s.GetRun(context.Background(), runID)
	if err != nil {
		return harness.Report{}, err
	}

	golden, err := oracle.Generate(rec.Config, rec.Schedule, len(rec.Capacity))
	if err != nil {
		return harness.Report{}, err
	}
	comparison, err := stats.Compare(oracle.Capacities(golden), rec.Capacity)
	if err != nil {
		return harness.Report{}, fmt.Errorf("run %s: %w", runID, err)
	}

	th := cfg.Harness.Thresholds
	metrics := []harness.Metric{
		{Name: "mae", Value: comparison.MAE, Threshold: th.MAE, Pass: comparison.MAE < th.MAE},
		{Name: "rmse", Value: comparison.RMSE, Threshold: th.RMSE, Pass: th.RMSE == 0 || comparison.RMSE < th.RMSE},
		{Name: "max_error", Value: comparison.MaxError, Threshold: th.MaxError, Pass: th.MaxError == 0 || comparison.MaxError < th.MaxError},
	}
	passed := true
	reason := "all checks passed"
	for _, m := range metrics {
		if !m.Pass {
			passed = false
			reason = fmt.Sprintf("%s %.6g not below threshold %.6g", m.Name, m.Value, m.Threshold)
			break
		}
	}

	return harness.Report{
		Scenario:   "stored-run",
		RunID:      runID,
		Stats:      comparison,
		Metrics:    metrics,
		Passed:     passed,
		Reason:     reason,
		Golden:     golden,
		Live:       rec.Capacity,
		ExpectPass: true,
	}, nil
}

// saveReports persists each report with a fresh UUID.
func saveReports(cfg config.Config, reports []harness.Report) error {
	s, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer s.Close()

	ctx := context.Background()
	for _, rep := range reports {
		rec := store.ReportRecord{
			ReportID:      uuid.New().String(),
			Scenario:      rep.Scenario,
			RunID:         linkedRunID(rep),
			CreatedAt:     time.Now().UTC(),
			MAE:           rep.Stats.MAE,
			RMSE:          rep.Stats.RMSE,
			MaxError:      rep.Stats.MaxError,
			MaxErrorIndex: rep.Stats.MaxErrorIndex,
			DataPoints:    rep.Stats.DataPoints,
			Passed:        rep.Passed,
			Reason:        rep.Reason,
			Errors:        rep.Stats.Errors,
		}
		if err := s.SaveReport(ctx, rec); err != nil {
			return err
		}
	}
	return nil
}

// linkedRunID links a report to a stored run. Scenario runs use ephemeral
// in-memory runs, which are not in the runs table and must not be linked.
func linkedRunID(rep harness.Report) string {
	if rep.Scenario == "stored-run" {
		return rep.RunID
	}
	return ""
}
