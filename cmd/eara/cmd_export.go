package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/cochisestarks-web/EARA---Darwish/internal/report"
)

func newExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export a stored run's trajectory or a report's errors as CSV",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			runID, _ := cmd.Flags().GetString("run")
			reportID, _ := cmd.Flags().GetString("report")
			outPath, _ := cmd.Flags().GetString("out")

			if (runID == "") == (reportID == "") {
				return fmt.Errorf("exactly one of --run or --report is required")
			}

			var out io.Writer = os.Stdout
			if outPath != "" {
				f, err := os.Create(outPath)
				if err != nil {
					return fmt.Errorf("create %s: %w", outPath, err)
				}
				defer f.Close()
				out = f
			}

			s, err := openStore(cfg)
			if err != nil {
				return err
			}
			defer s.Close()
			ctx := context.Background()

			if runID != "" {
				rec, err := s.GetRun(ctx, runID)
				if err != nil {
					return err
				}
				return report.WriteSeriesCSV(out, rec.Capacity, rec.Fatigue)
			}

			rec, err := s.GetReport(ctx, reportID)
			if err != nil {
				return err
			}
			return report.WriteErrorsCSV(out, rec.Errors)
		},
	}

	cmd.Flags().String("run", "", "Run ID to export as a capacity/fatigue series")
	cmd.Flags().String("report", "", "Report ID to export as per-tick errors")
	cmd.Flags().String("out", "", "Output file (default stdout)")
	return cmd
}
