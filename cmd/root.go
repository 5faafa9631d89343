package cmd

import (
	"context"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	sim "github.com/cyberflux/cyberflux/sim"
)

var (
	// CLI flags for the simulation run
	clientsMin            int    // Minimum number of clients
	clientsMax            int    // Maximum number of clients
	openHours             int    // Simulated opening hours (each compressed to 3s)
	forceConflictingOrder bool   // Use the deadlock-demonstrating acquisition order
	verbose               bool   // Per-client narration at info level
	logLevel              string // Log verbosity level
	seed                  int64  // Seed for all random draws (0 = time-based)
	scenarioPath          string // Optional YAML scenario overlay
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "cyberflux",
	Short: "Concurrent resource-contention simulator for the CyberFlux cyber café",
}

// runCmd executes the simulation using parameters from CLI flags
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the café simulation",
	Run: func(cmd *cobra.Command, args []string) {
		// Set up logging
		level, err := logrus.ParseLevel(logLevel)
		if err != nil {
			logrus.Fatalf("Invalid log level: %s", logLevel)
		}
		if verbose && level < logrus.InfoLevel {
			level = logrus.InfoLevel
		}
		logrus.SetLevel(level)

		cfg := buildConfig()
		if scenarioPath != "" {
			sc, err := sim.LoadScenario(scenarioPath)
			if err != nil {
				logrus.Fatalf("Could not load scenario %s: %v", scenarioPath, err)
			}
			cfg = sc.Apply(cfg)
		}

		s, err := sim.NewSimulator(cfg)
		if err != nil {
			logrus.Fatalf("Could not start simulation: %v", err)
		}

		startTime := time.Now()
		report := s.Run(context.Background())
		logrus.Infof("Simulation finished in %v wall time", time.Since(startTime).Round(time.Millisecond))

		report.Print()
	},
}

// buildConfig maps CLI flags onto the engine defaults. Flag values always
// win over DefaultConfig; a scenario file, if given, is overlaid on top.
func buildConfig() sim.Config {
	cfg := sim.DefaultConfig()
	cfg.MinClients = clientsMin
	cfg.MaxClients = clientsMax
	cfg.OpenHours = openHours
	cfg.ForceConflictingOrder = forceConflictingOrder
	cfg.Verbose = verbose
	if seed != 0 {
		cfg.Seed = seed
	}
	return cfg
}

// Execute runs the CLI root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// init sets up CLI flags and subcommands
func init() {
	runCmd.Flags().IntVar(&clientsMin, "clients-min", 20, "Minimum number of clients")
	runCmd.Flags().IntVar(&clientsMax, "clients-max", 120, "Maximum number of clients")
	runCmd.Flags().IntVar(&openHours, "open-hours", 8, "Simulated opening hours")
	runCmd.Flags().BoolVar(&forceConflictingOrder, "force-conflicting-order", false,
		"Acquire resources in conflicting per-category orders (may deadlock, on purpose)")
	runCmd.Flags().BoolVar(&verbose, "verbose", false, "Narrate every client at info level")
	runCmd.Flags().StringVar(&logLevel, "log", "warn", "Log level (trace, debug, info, warn, error, fatal, panic)")
	runCmd.Flags().Int64Var(&seed, "seed", 0, "Seed for random draws (0 = derived from clock)")
	runCmd.Flags().StringVar(&scenarioPath, "scenario", "", "Path to a YAML scenario overlay")

	// Attach `run` as a subcommand to `root`
	rootCmd.AddCommand(runCmd)
}
