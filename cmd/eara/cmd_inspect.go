package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/cochisestarks-web/EARA---Darwish/internal/store"
)

func newInspectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inspect [id]",
		Short: "List stored runs and validation reports, or show one by ID",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			s, err := openStore(cfg)
			if err != nil {
				return err
			}
			defer s.Close()

			jsonOut, _ := cmd.Flags().GetBool("json")
			limit, _ := cmd.Flags().GetInt("limit")
			ctx := context.Background()

			if len(args) == 1 {
				return inspectOne(ctx, s, args[0], jsonOut)
			}
			return inspectList(ctx, s, limit, jsonOut)
		},
	}

	cmd.Flags().Int("limit", 20, "Maximum entries per listing")
	return cmd
}

// inspectOne shows a single run or report. The ID is looked up as a run
// first, then as a report.
func inspectOne(ctx context.Context, s *store.Store, id string, jsonOut bool) error {
	run, err := s.GetRun(ctx, id)
	if err == nil {
		if jsonOut {
			return json.NewEncoder(os.Stdout).Encode(map[string]any{
				"run_id":    run.RunID,
				"worker_id": run.WorkerID,
				"created":   run.CreatedAt,
				"config":    run.Config,
				"schedule":  run.Schedule.Compact(),
				"summary":   run.Summary,
			})
		}
		fmt.Printf("Run %s (worker %s, %s)\n", run.RunID, run.WorkerID, run.CreatedAt.Format("2006-01-02 15:04:05"))
		fmt.Printf("  schedule: %s\n", run.Schedule.Compact())
		fmt.Printf("Summary over %d ticks\n", run.Summary.Ticks)
		fmt.Printf("  mean capacity:         %.6f\n", run.Summary.MeanCapacity)
		fmt.Printf("  min capacity observed: %.6f\n", run.Summary.MinObservedCapacity)
		fmt.Printf("  final capacity:        %.6f\n", run.Summary.FinalCapacity)
		fmt.Printf("  emergency shutdowns:   %d (floor violated: %v)\n",
			run.Summary.EmergencyShutdowns, run.Summary.ViolatedMinCapacity)
		return nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return err
	}

	rep, err := s.GetReport(ctx, id)
	if err != nil {
		return err
	}
	if jsonOut {
		return json.NewEncoder(os.Stdout).Encode(rep)
	}
	fmt.Printf("Report %s (scenario %s, %s)\n", rep.ReportID, rep.Scenario, rep.CreatedAt.Format("2006-01-02 15:04:05"))
	if rep.RunID != "" {
		fmt.Printf("  run: %s\n", rep.RunID)
	}
	fmt.Printf("  mae: %.6e  rmse: %.6e  max: %.6e at index %d\n", rep.MAE, rep.RMSE, rep.MaxError, rep.MaxErrorIndex)
	fmt.Printf("  %d points, %s — %s\n", rep.DataPoints, passText(rep.Passed), rep.Reason)
	return nil
}

// inspectList prints the most recent runs and reports.
func inspectList(ctx context.Context, s *store.Store, limit int, jsonOut bool) error {
	runs, err := s.ListRuns(ctx, limit)
	if err != nil {
		return err
	}
	reports, err := s.ListReports(ctx, limit)
	if err != nil {
		return err
	}

	if jsonOut {
		return json.NewEncoder(os.Stdout).Encode(map[string]any{
			"runs":    runs,
			"reports": reports,
		})
	}

	fmt.Printf("Runs (%d)\n", len(runs))
	for _, r := range runs {
		fmt.Printf("  %s  %s  %4d ticks  final %.4f  shutdowns %d\n",
			r.RunID, r.CreatedAt.Format("2006-01-02 15:04"), r.Summary.Ticks,
			r.Summary.FinalCapacity, r.Summary.EmergencyShutdowns)
	}
	fmt.Printf("Reports (%d)\n", len(reports))
	for _, r := range reports {
		fmt.Printf("  %s  %s  %-12s mae %.3e  %s\n",
			r.ReportID, r.CreatedAt.Format("2006-01-02 15:04"), r.Scenario, r.MAE, passText(r.Passed))
	}
	return nil
}

func passText(pass bool) string {
	if pass {
		return "PASS"
	}
	return "FAIL"
}
