package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/cochisestarks-web/EARA---Darwish/internal/logging"
	"github.com/cochisestarks-web/EARA---Darwish/internal/report"
	"github.com/cochisestarks-web/EARA---Darwish/internal/schedule"
	"github.com/cochisestarks-web/EARA---Darwish/internal/sim"
	"github.com/cochisestarks-web/EARA---Darwish/internal/store"
)

func newSimulateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Run a work/rest schedule through the capacity model",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			compact, _ := cmd.Flags().GetString("schedule")
			cycles, _ := cmd.Flags().GetInt("cycles")
			ticks, _ := cmd.Flags().GetInt("ticks")
			save, _ := cmd.Flags().GetBool("save")
			tracePath, _ := cmd.Flags().GetString("trace")
			jsonOut, _ := cmd.Flags().GetBool("json")

			var sched schedule.Schedule
			if compact != "" {
				sched, err = schedule.ParseCompact(compact)
				if err != nil {
					return err
				}
				if cycles > 1 {
					sched = sched.Repeat(cycles)
				}
			} else {
				if cycles > 0 {
					cfg.Harness.Cycles = cycles
				}
				sched, err = cfg.Schedule()
				if err != nil {
					return err
				}
			}
			if ticks == 0 {
				ticks = cfg.Harness.TimeSteps
			}

			opts := []sim.Option{sim.WithLogger(newLogger(cfg))}
			if tracePath == "" {
				tracePath = cfg.Logging.TracePath
			}
			if tracePath != "" {
				tl, err := logging.NewTraceLogger(tracePath)
				if err != nil {
					return err
				}
				defer tl.Close()
				opts = append(opts, sim.WithTrace(tl))
			}

			runner, err := sim.New(cfg.Model, opts...)
			if err != nil {
				return err
			}
			res, err := runner.Run(sched, ticks)
			if err != nil {
				return err
			}

			if save {
				s, err := openStore(cfg)
				if err != nil {
					return err
				}
				defer s.Close()
				rec := store.RunRecord{
					RunID:     res.RunID,
					WorkerID:  res.WorkerID,
					CreatedAt: time.Now().UTC(),
					Config:    res.Config,
					Schedule:  res.Schedule,
					Summary:   res.Summary,
					Capacity:  res.Capacities(),
					Fatigue:   res.Fatigues(),
				}
				if err := s.SaveRun(context.Background(), rec); err != nil {
					return err
				}
			}

			if jsonOut {
				return json.NewEncoder(os.Stdout).Encode(map[string]any{
					"run_id":    res.RunID,
					"worker_id": res.WorkerID,
					"schedule":  res.Schedule.Compact(),
					"summary":   res.Summary,
					"saved":     save,
				})
			}
			fmt.Printf("Run %s (worker %s, schedule %s)\n", res.RunID, res.WorkerID, res.Schedule.Compact())
			fmt.Print(report.SummaryBlock(res.Summary))
			if save {
				fmt.Printf("Saved to %s\n", cfg.Store.Path)
			}
			return nil
		},
	}

	cmd.Flags().String("schedule", "", `Compact schedule, e.g. "work:90,rest:30" (default from config)`)
	cmd.Flags().Int("cycles", 0, "Repeat the schedule this many times")
	cmd.Flags().Int("ticks", 0, "Cap on simulated minutes (default from config)")
	cmd.Flags().Bool("save", false, "Persist the run to the store")
	cmd.Flags().String("trace", "", "Write per-tick JSONL trace to this path")
	return cmd
}
