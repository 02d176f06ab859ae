// Package search implements a genetic algorithm over per-SKU policy
// assignments. It treats the engine's Evaluate as an opaque fitness function:
// one individual is one policy per SKU, and lower fitness (total cost) wins.
package search

import (
	"fmt"
	"math/rand"

	"github.com/sirupsen/logrus"

	"github.com/replenish-sim/replenish-sim/sim"
)

// Individual is one candidate solution: a policy per SKU plus its last
// evaluated fitness. Policies are cloned on every hand-off so no two
// individuals (and no two evaluations) ever share mutable policy state.
type Individual struct {
	Policies []*sim.Policy
	Fitness  float64
}

// Clone deep-copies the individual.
func (ind *Individual) Clone() *Individual {
	policies := make([]*sim.Policy, len(ind.Policies))
	for i, p := range ind.Policies {
		policies[i] = p.Clone()
	}
	return &Individual{Policies: policies, Fitness: ind.Fitness}
}

// Observer receives progress notifications once per generation.
type Observer interface {
	Update(generation int, best *Individual)
}

// LogObserver logs each generation's best fitness via logrus.
type LogObserver struct{}

// Update implements Observer.
func (LogObserver) Update(generation int, best *Individual) {
	logrus.Infof("generation %d: best fitness %.2f", generation, best.Fitness)
}

// Config groups the GA hyperparameters.
type Config struct {
	PopulationSize int
	Generations    int
	TournamentSize int
	CrossoverRate  float64 // probability a pair is recombined rather than copied
	MutationRate   float64 // probability each child is perturbed
}

// Validate fails fast on out-of-range hyperparameters.
func (c Config) Validate() error {
	if c.PopulationSize < 2 {
		return fmt.Errorf("search config: population size must be at least 2, got %d", c.PopulationSize)
	}
	if c.Generations <= 0 {
		return fmt.Errorf("search config: generations must be positive, got %d", c.Generations)
	}
	if c.TournamentSize < 1 || c.TournamentSize > c.PopulationSize {
		return fmt.Errorf("search config: tournament size must be in [1, %d], got %d", c.PopulationSize, c.TournamentSize)
	}
	if c.CrossoverRate < 0 || c.CrossoverRate > 1 {
		return fmt.Errorf("search config: crossover rate must be in [0, 1], got %v", c.CrossoverRate)
	}
	if c.MutationRate < 0 || c.MutationRate > 1 {
		return fmt.Errorf("search config: mutation rate must be in [0, 1], got %v", c.MutationRate)
	}
	return nil
}

// GA runs tournament selection, one-point crossover at SKU boundaries, and
// policy mutation over a population of policy assignments. All randomness is
// drawn from the search subsystem of one PartitionedRNG, and every individual
// is scored under the same SimulationKey (common random numbers), so a run is
// deterministic for a fixed key and individuals compete on policy alone.
type GA struct {
	cfg       Config
	scenario  *sim.Scenario
	key       sim.SimulationKey
	rng       *rand.Rand
	observers []Observer
}

// New constructs a GA over a validated scenario.
func New(cfg Config, scenario *sim.Scenario, key sim.SimulationKey) (*GA, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := scenario.Validate(); err != nil {
		return nil, err
	}
	return &GA{
		cfg:      cfg,
		scenario: scenario,
		key:      key,
		rng:      sim.NewPartitionedRNG(key).ForSubsystem(sim.SubsystemSearch),
	}, nil
}

// AddObserver registers a progress observer.
func (g *GA) AddObserver(o Observer) {
	g.observers = append(g.observers, o)
}

func (g *GA) notify(generation int, best *Individual) {
	for _, o := range g.observers {
		o.Update(generation, best)
	}
}

// Run evolves the population and returns the best individual found. The
// initial population is the scenario's bound policy assignment plus mutated
// variants of it; the best individual of each generation survives unchanged.
func (g *GA) Run() (*Individual, error) {
	population, err := g.seedPopulation()
	if err != nil {
		return nil, err
	}

	best := g.fittest(population).Clone()
	g.notify(0, best)

	for gen := 1; gen <= g.cfg.Generations; gen++ {
		next := make([]*Individual, 0, g.cfg.PopulationSize)
		next = append(next, best.Clone()) // elitism

		for len(next) < g.cfg.PopulationSize {
			parentA := g.tournament(population)
			parentB := g.tournament(population)

			childA, childB := parentA.Clone(), parentB.Clone()
			if g.rng.Float64() < g.cfg.CrossoverRate {
				childA, childB = g.crossover(parentA, parentB)
			}
			for _, child := range []*Individual{childA, childB} {
				if len(next) == g.cfg.PopulationSize {
					break
				}
				if g.rng.Float64() < g.cfg.MutationRate {
					g.mutate(child)
				}
				if err := g.evaluate(child); err != nil {
					return nil, err
				}
				next = append(next, child)
			}
		}

		population = next
		if genBest := g.fittest(population); genBest.Fitness < best.Fitness {
			best = genBest.Clone()
		}
		g.notify(gen, best)
	}

	return best, nil
}

func (g *GA) seedPopulation() ([]*Individual, error) {
	seed := &Individual{Policies: make([]*sim.Policy, len(g.scenario.SKUs))}
	for i, cfg := range g.scenario.SKUs {
		seed.Policies[i] = cfg.Policy.Clone()
	}
	if err := g.evaluate(seed); err != nil {
		return nil, err
	}

	population := []*Individual{seed}
	for len(population) < g.cfg.PopulationSize {
		variant := seed.Clone()
		g.mutate(variant)
		if err := g.evaluate(variant); err != nil {
			return nil, err
		}
		population = append(population, variant)
	}
	return population, nil
}

// evaluate scores an individual with the engine. Each call builds fresh
// simulation state; the shared key gives every individual identical lead
// times and shuffle order to compete against.
func (g *GA) evaluate(ind *Individual) error {
	result, err := sim.Evaluate(g.scenario, ind.Policies, g.key)
	if err != nil {
		return err
	}
	ind.Fitness = result.Fitness
	return nil
}

// tournament picks the fittest of k uniformly drawn individuals.
func (g *GA) tournament(population []*Individual) *Individual {
	best := population[g.rng.Intn(len(population))]
	for i := 1; i < g.cfg.TournamentSize; i++ {
		challenger := population[g.rng.Intn(len(population))]
		if challenger.Fitness < best.Fitness {
			best = challenger
		}
	}
	return best
}

// crossover recombines two parents at a single SKU boundary. Policies stay
// whole: the cut never splits one policy's parameters, only the assignment.
func (g *GA) crossover(a, b *Individual) (*Individual, *Individual) {
	n := len(a.Policies)
	childA, childB := a.Clone(), b.Clone()
	if n < 2 {
		return childA, childB
	}
	cut := 1 + g.rng.Intn(n-1)
	for i := cut; i < n; i++ {
		childA.Policies[i], childB.Policies[i] = childB.Policies[i], childA.Policies[i]
	}
	return childA, childB
}

// mutate perturbs one randomly chosen policy in place.
func (g *GA) mutate(ind *Individual) {
	loc := g.rng.Intn(len(ind.Policies))
	ind.Policies[loc].Mutate(g.rng)
}

func (g *GA) fittest(population []*Individual) *Individual {
	best := population[0]
	for _, ind := range population[1:] {
		if ind.Fitness < best.Fitness {
			best = ind
		}
	}
	return best
}
