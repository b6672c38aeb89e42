// Command eara simulates worker capacity/fatigue trajectories and validates
// the simulator against its closed-form oracle.
package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/cochisestarks-web/EARA---Darwish/internal/config"
	"github.com/cochisestarks-web/EARA---Darwish/internal/logging"
	"github.com/cochisestarks-web/EARA---Darwish/internal/store"
)

var version = "0.3.0-dev"

func main() {
	rootCmd := &cobra.Command{
		Use:   "eara",
		Short: "Worker capacity/fatigue simulator and validation harness",
		Long: `eara advances a biophysical capacity model tick by tick through
work/rest schedules, derives performance and safety metrics, and validates
the stateful simulator against an independent closed-form oracle.`,
		SilenceUsage: true,
	}

	// Global flags
	rootCmd.PersistentFlags().String("config", "", "Path to a YAML config file")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: info, debug, or trace")
	rootCmd.PersistentFlags().Bool("json", false, "Output as JSON")

	rootCmd.AddCommand(
		newVersionCmd(),
		newSimulateCmd(),
		newValidateCmd(),
		newInspectCmd(),
		newExportCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			jsonOut, _ := cmd.Flags().GetBool("json")
			if jsonOut {
				json.NewEncoder(os.Stdout).Encode(map[string]string{"version": version})
			} else {
				fmt.Printf("eara version %s\n", version)
			}
		},
	}
}

// loadConfig merges defaults, the optional --config file, and env overrides,
// then applies the --log-level flag on top.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path, path != "")
	if err != nil {
		return config.Config{}, err
	}
	if lvl, _ := cmd.Flags().GetString("log-level"); lvl != "" {
		cfg.Logging.Level = lvl
	}
	return cfg, nil
}

// openStore opens the configured SQLite database.
func openStore(cfg config.Config) (*store.Store, error) {
	s, err := store.Open(cfg.Store.Path)
	if err != nil {
		return nil, fmt.Errorf("open store %s: %w", cfg.Store.Path, err)
	}
	return s, nil
}

// newLogger builds the operational logger for a command.
func newLogger(cfg config.Config) *slog.Logger {
	return logging.NewLogger(cfg.Logging.Level, os.Stderr)
}
