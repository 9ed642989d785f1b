package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/geoffreypi/strand-game-sub000/sim"
	"github.com/geoffreypi/strand-game-sub000/sim/residue"
	"github.com/geoffreypi/strand-game-sub000/sim/scenario"
	"github.com/geoffreypi/strand-game-sub000/sim/trace"
)

var (
	// CLI flags for the run command
	scenarioPath     string // Scenario YAML file
	seed             int64  // Overrides the scenario seed
	mode             string // Overrides the scenario mode
	steps            int    // Overrides the scenario step count (stepped mode)
	registryPath     string // Residue registry YAML; built-in table when empty
	signalConfigPath string // Signal probability YAML, merged over the scenario's
	traceLevel       string // Trace verbosity: none, transitions
	logLevel         string // Log verbosity level
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "strand",
	Short: "Signal propagation over residue circuits on a hex grid",
}

// runCmd loads a scenario and propagates signals through it
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run signal propagation for a scenario file",
	Run: func(cmd *cobra.Command, args []string) {
		level, err := logrus.ParseLevel(logLevel)
		if err != nil {
			logrus.Fatalf("Invalid log level: %s", logLevel)
		}
		logrus.SetLevel(level)

		if scenarioPath == "" {
			logrus.Fatalf("--scenario is required")
		}
		if !trace.IsValidTraceLevel(traceLevel) {
			logrus.Fatalf("Invalid trace level %q; valid: none, transitions", traceLevel)
		}

		reg, err := loadRegistry(registryPath)
		if err != nil {
			logrus.Fatalf("%v", err)
		}
		sc, err := scenario.LoadScenario(scenarioPath)
		if err != nil {
			logrus.Fatalf("%v", err)
		}

		// CLI flags override scenario values only when explicitly set.
		if cmd.Flags().Changed("seed") {
			sc.Seed = seed
		}
		if cmd.Flags().Changed("mode") {
			sc.Mode = mode
		}
		if cmd.Flags().Changed("steps") {
			sc.Steps = steps
		}
		if signalConfigPath != "" {
			if err := mergeSignalConfig(sc, signalConfigPath); err != nil {
				logrus.Fatalf("%v", err)
			}
		}
		if err := sc.Validate(reg); err != nil {
			logrus.Fatalf("invalid scenario %s: %v", scenarioPath, err)
		}

		logrus.Infof("Running %s: %d residues, seed=%d, mode=%s", scenarioPath, len(sc.Residues), sc.Seed, modeOrDefault(sc.Mode))
		setup := sc.Build(reg, sim.NewPartitionedRNG(sim.NewSimulationKey(sc.Seed)))
		if len(setup.PlacedATP) > 0 {
			logrus.Infof("Placed %d random ATP tokens: %v", len(setup.PlacedATP), setup.PlacedATP)
		}
		st := trace.NewTraceForLevel(trace.TraceLevel(traceLevel))
		runScenario(os.Stdout, setup, reg, st)

		logrus.Info("Propagation complete.")
	},
}

// residuesCmd lists the residue registry
var residuesCmd = &cobra.Command{
	Use:   "residues",
	Short: "List residue types with their signaling category and binding target",
	Run: func(cmd *cobra.Command, args []string) {
		reg, err := loadRegistry(registryPath)
		if err != nil {
			logrus.Fatalf("%v", err)
		}
		printRegistry(os.Stdout, reg)
	},
}

// runScenario performs setup.Steps Run calls and prints each one, followed
// by the trace summary when tracing is on.
func runScenario(out io.Writer, setup *scenario.Setup, reg *residue.Registry, st *trace.SignalTrace) []sim.Result {
	setup.Options.Trace = st
	results := make([]sim.Result, 0, setup.Steps)
	for step := 1; step <= setup.Steps; step++ {
		res := sim.Run(setup.World, setup.Options)
		results = append(results, res)
		printStep(out, step, collectRows(setup.World, reg), res)
	}
	printTraceSummary(out, st)
	return results
}

func loadRegistry(path string) (*residue.Registry, error) {
	if path == "" {
		return residue.DefaultRegistry(), nil
	}
	return residue.LoadRegistry(path)
}

// mergeSignalConfig overlays probabilities from path onto the scenario's.
func mergeSignalConfig(sc *scenario.Scenario, path string) error {
	cfg, err := sim.LoadSignalConfig(path)
	if err != nil {
		return err
	}
	if sc.Probabilities == nil {
		sc.Probabilities = make(map[string]float64, len(cfg))
	}
	for k, p := range cfg {
		sc.Probabilities[k] = p
	}
	return nil
}

func printRegistry(out io.Writer, reg *residue.Registry) {
	fmt.Fprintf(out, "%-4s %-12s %s\n", "CODE", "CATEGORY", "BINDS")
	for _, code := range reg.Codes() {
		target, ok := reg.BindingTarget(code)
		binds := "-"
		if ok {
			binds = string(target)
		}
		fmt.Fprintf(out, "%-4s %-12s %s\n", code, reg.SignalingCategory(code), binds)
	}
}

func modeOrDefault(m string) string {
	if m == "" {
		return string(sim.ModeSteady)
	}
	return m
}

// Execute runs the CLI root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// init sets up CLI flags and subcommands
func init() {
	runCmd.Flags().StringVar(&scenarioPath, "scenario", "", "Path to a scenario YAML file")
	runCmd.Flags().Int64Var(&seed, "seed", 42, "Seed for activation rolls and random ATP placement (overrides scenario)")
	runCmd.Flags().StringVar(&mode, "mode", "steady", "Run mode: steady or stepped (overrides scenario)")
	runCmd.Flags().IntVar(&steps, "steps", 1, "Number of stepped-mode calls (overrides scenario)")
	runCmd.Flags().StringVar(&signalConfigPath, "signal-config", "", "Path to a signal probability YAML file")
	runCmd.Flags().StringVar(&traceLevel, "trace", "none", "Trace level (none, transitions)")
	runCmd.Flags().StringVar(&logLevel, "log", "error", "Log level (trace, debug, info, warn, error, fatal, panic)")

	rootCmd.PersistentFlags().StringVar(&registryPath, "registry", "", "Path to a residue registry YAML file (built-in table when empty)")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(residuesCmd)
}
