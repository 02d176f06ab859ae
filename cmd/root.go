package cmd

import (
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/replenish-sim/replenish-sim/search"
	"github.com/replenish-sim/replenish-sim/sim"
	"github.com/replenish-sim/replenish-sim/sim/ledger"
)

var (
	// CLI flags shared by the subcommands
	scenarioPath string // Path to the scenario YAML file
	seed         int64  // Master seed for all randomness
	logLevel     string // Log verbosity level
	recordsOut   string // Per-period records CSV output path
	ordersOut    string // Order log CSV output path

	// CLI flags for the search subcommand
	populationSize int     // Number of individuals per generation
	generations    int     // Number of generations to evolve
	tournamentSize int     // Tournament size for parent selection
	crossoverRate  float64 // Probability a parent pair is recombined
	mutationRate   float64 // Probability a child is mutated
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "replenish-sim",
	Short: "Multi-SKU inventory replenishment simulator",
}

func setupLogging() {
	level, err := logrus.ParseLevel(logLevel)
	if err != nil {
		logrus.Fatalf("Invalid log level: %s", logLevel)
	}
	logrus.SetLevel(level)
}

// runCmd evaluates one scenario and reports the cost breakdown
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Evaluate a scenario's bound policies over the full horizon",
	Run: func(cmd *cobra.Command, args []string) {
		setupLogging()

		scenario, err := LoadScenario(scenarioPath, seed)
		if err != nil {
			logrus.Fatalf("Invalid scenario: %v", err)
		}

		logrus.Infof("Starting evaluation: %d SKUs, %d suppliers, horizon=%d, seed=%d",
			len(scenario.SKUs), len(scenario.Suppliers), scenario.TimePeriods, seed)

		startTime := time.Now()
		simulator, err := sim.NewSimulator(scenario, sim.NewSimulationKey(seed))
		if err != nil {
			logrus.Fatalf("Invalid scenario: %v", err)
		}
		result := simulator.Run()
		logrus.Infof("Evaluation complete in %v", time.Since(startTime))

		writeReports(result)
		PrintSummary(ledger.Summarize(result))
	},
}

// searchCmd evolves policy parameters against a scenario
var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Search policy parameters with a genetic algorithm",
	Run: func(cmd *cobra.Command, args []string) {
		setupLogging()

		scenario, err := LoadScenario(scenarioPath, seed)
		if err != nil {
			logrus.Fatalf("Invalid scenario: %v", err)
		}

		ga, err := search.New(search.Config{
			PopulationSize: populationSize,
			Generations:    generations,
			TournamentSize: tournamentSize,
			CrossoverRate:  crossoverRate,
			MutationRate:   mutationRate,
		}, scenario, sim.NewSimulationKey(seed))
		if err != nil {
			logrus.Fatalf("Invalid search config: %v", err)
		}
		ga.AddObserver(search.LogObserver{})

		startTime := time.Now()
		best, err := ga.Run()
		if err != nil {
			logrus.Fatalf("Search failed: %v", err)
		}
		logrus.Infof("Search complete in %v, best fitness %.2f", time.Since(startTime), best.Fitness)

		for i, policy := range best.Policies {
			logrus.Infof("  %s: %s", scenario.SKUs[i].Name, policy)
		}

		// Re-evaluate the winner so the reports cover the best assignment.
		result, err := sim.Evaluate(scenario, best.Policies, sim.NewSimulationKey(seed))
		if err != nil {
			logrus.Fatalf("Re-evaluation failed: %v", err)
		}
		writeReports(result)
		PrintSummary(ledger.Summarize(result))
	},
}

func writeReports(result *ledger.Result) {
	if recordsOut != "" {
		if err := WriteRecordsCSV(recordsOut, result.Records); err != nil {
			logrus.Fatalf("Failed to write records: %v", err)
		}
		logrus.Infof("Wrote %d records to %s", len(result.Records), recordsOut)
	}
	if ordersOut != "" {
		if err := WriteOrdersCSV(ordersOut, result.Orders); err != nil {
			logrus.Fatalf("Failed to write order log: %v", err)
		}
		logrus.Infof("Wrote %d order lines to %s", len(result.Orders), ordersOut)
	}
}

func init() {
	for _, cmd := range []*cobra.Command{runCmd, searchCmd} {
		cmd.Flags().StringVar(&scenarioPath, "scenario", "scenario.yaml", "Path to the scenario YAML file")
		cmd.Flags().Int64Var(&seed, "seed", 42, "Master seed for demand, lead times and supplier shuffle")
		cmd.Flags().StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
		cmd.Flags().StringVar(&recordsOut, "out", "", "Write per-period records CSV to this path")
		cmd.Flags().StringVar(&ordersOut, "orders-out", "", "Write order log CSV to this path")
	}

	searchCmd.Flags().IntVar(&populationSize, "population", 20, "Population size")
	searchCmd.Flags().IntVar(&generations, "generations", 50, "Number of generations")
	searchCmd.Flags().IntVar(&tournamentSize, "tournament", 3, "Tournament size")
	searchCmd.Flags().Float64Var(&crossoverRate, "crossover-rate", 0.8, "Crossover probability per parent pair")
	searchCmd.Flags().Float64Var(&mutationRate, "mutation-rate", 0.3, "Mutation probability per child")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(searchCmd)
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
