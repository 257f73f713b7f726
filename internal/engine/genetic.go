package engine

import (
	"math/rand"
	"sort"

	"github.com/aly-mahmoud97/2d-Nesting/internal/model"
)

// GeneticConfig holds parameters for the genetic refinement pass.
type GeneticConfig struct {
	PopulationSize int
	Generations    int
	MutationRate   float64
	TournamentSize int
	EliteCount     int
}

// DefaultGeneticConfig returns sensible default parameters.
func DefaultGeneticConfig() GeneticConfig {
	return GeneticConfig{
		PopulationSize: 50,
		Generations:    100,
		MutationRate:   0.15,
		TournamentSize: 3,
		EliteCount:     2,
	}
}

// gene represents a single panel placement decision in the chromosome.
type gene struct {
	panelIndex int  // Index into the expanded panel slice
	rotated    bool // Whether this panel should start rotated 90 degrees
}

// chromosome represents a candidate solution: an ordering of panels
// with rotation flags.
type chromosome struct {
	genes   []gene
	fitness float64
}

// geneticOptimizer evolves panel orderings; each chromosome is decoded
// by running the greedy nester with sorting disabled so the chromosome
// order is the placement order.
type geneticOptimizer struct {
	settings model.CutSettings
	config   GeneticConfig
	panels   []*Panel
	stocks   []model.StockSheet
	rng      *rand.Rand
}

func newGeneticOptimizer(settings model.CutSettings, config GeneticConfig, panels []*Panel, stocks []model.StockSheet, seed int64) *geneticOptimizer {
	return &geneticOptimizer{
		settings: settings,
		config:   config,
		panels:   panels,
		stocks:   stocks,
		rng:      rand.New(rand.NewSource(seed)),
	}
}

// optimize runs the genetic algorithm and returns the best decoded run.
func (g *geneticOptimizer) optimize() *Result {
	if len(g.panels) == 0 || len(g.stocks) == 0 {
		return &Result{}
	}

	population := g.initPopulation()
	for i := range population {
		population[i].fitness = g.evaluate(population[i])
	}

	for gen := 0; gen < g.config.Generations; gen++ {
		// Sort by fitness descending (higher is better)
		sort.Slice(population, func(i, j int) bool {
			return population[i].fitness > population[j].fitness
		})

		newPop := make([]chromosome, 0, g.config.PopulationSize)

		// Elitism: carry over the best individuals unchanged
		eliteCount := g.config.EliteCount
		if eliteCount > len(population) {
			eliteCount = len(population)
		}
		for i := 0; i < eliteCount; i++ {
			newPop = append(newPop, g.copyChromosome(population[i]))
		}

		for len(newPop) < g.config.PopulationSize {
			parent1 := g.tournamentSelect(population)
			parent2 := g.tournamentSelect(population)

			child := g.orderCrossover(parent1, parent2)
			g.mutate(&child)

			child.fitness = g.evaluate(child)
			newPop = append(newPop, child)
		}

		population = newPop
	}

	sort.Slice(population, func(i, j int) bool {
		return population[i].fitness > population[j].fitness
	})
	return g.decode(population[0])
}

// initPopulation creates the initial random population, seeded with one
// greedy area-descending chromosome as a known-good starting point.
func (g *geneticOptimizer) initPopulation() []chromosome {
	n := len(g.panels)
	population := make([]chromosome, g.config.PopulationSize)

	for i := range population {
		genes := make([]gene, n)
		perm := g.rng.Perm(n)
		for j := 0; j < n; j++ {
			p := g.panels[perm[j]]
			canRotate := p.AllowRotation && p.Grain == model.GrainNone
			genes[j] = gene{
				panelIndex: perm[j],
				rotated:    canRotate && g.rng.Float64() < 0.5,
			}
		}
		population[i] = chromosome{genes: genes}
	}

	if g.config.PopulationSize > 0 {
		population[0] = g.createGreedyChromosome()
	}
	return population
}

// createGreedyChromosome orders panels by area descending, mimicking
// the greedy heuristic.
func (g *geneticOptimizer) createGreedyChromosome() chromosome {
	n := len(g.panels)
	indices := make([]int, n)
	for i := range indices {
		indices[i] = i
	}
	sort.Slice(indices, func(i, j int) bool {
		return g.panels[indices[i]].W*g.panels[indices[i]].H >
			g.panels[indices[j]].W*g.panels[indices[j]].H
	})

	genes := make([]gene, n)
	for i, idx := range indices {
		genes[i] = gene{panelIndex: idx}
	}
	return chromosome{genes: genes}
}

// evaluate scores a chromosome: material efficiency minus penalties for
// unplaced panels and extra sheets.
func (g *geneticOptimizer) evaluate(c chromosome) float64 {
	result := g.decode(c)
	if len(result.Sheets) == 0 {
		return 0
	}

	fitness := result.TotalEfficiency()
	fitness -= float64(len(result.Unplaced)) * 0.1
	fitness -= float64(len(result.Sheets)-1) * 0.05
	if fitness < 0 {
		fitness = 0
	}
	return fitness
}

// decode runs the greedy nester over the chromosome's panel order.
func (g *geneticOptimizer) decode(c chromosome) *Result {
	ordered := make([]*Panel, len(c.genes))
	for i, gn := range c.genes {
		p := g.panels[gn.panelIndex].Copy()
		if gn.rotated {
			p.Rotate()
		}
		ordered[i] = p
	}

	cfg := ConfigForPreset(g.settings.Preset)
	cfg.SortStrategy = "none"
	cfg.GeneticRefinement = false

	nester := NewNester(cfg, g.settings.KerfWidth)
	result, err := nester.Nest(ordered, g.stocks)
	if err != nil {
		return &Result{}
	}
	return result
}

// tournamentSelect picks the best individual from a random tournament.
func (g *geneticOptimizer) tournamentSelect(population []chromosome) chromosome {
	best := population[g.rng.Intn(len(population))]
	for i := 1; i < g.config.TournamentSize; i++ {
		candidate := population[g.rng.Intn(len(population))]
		if candidate.fitness > best.fitness {
			best = candidate
		}
	}
	return g.copyChromosome(best)
}

// orderCrossover implements Order Crossover (OX1) for permutation
// chromosomes. It preserves the relative order of genes from both parents.
func (g *geneticOptimizer) orderCrossover(parent1, parent2 chromosome) chromosome {
	n := len(parent1.genes)
	if n <= 2 {
		return g.copyChromosome(parent1)
	}

	point1 := g.rng.Intn(n)
	point2 := g.rng.Intn(n)
	if point1 > point2 {
		point1, point2 = point2, point1
	}

	child := chromosome{genes: make([]gene, n)}

	inSegment := make(map[int]bool)
	for i := point1; i <= point2; i++ {
		child.genes[i] = parent1.genes[i]
		inSegment[parent1.genes[i].panelIndex] = true
	}

	childIdx := (point2 + 1) % n
	for _, pg := range parent2.genes {
		if !inSegment[pg.panelIndex] {
			child.genes[childIdx] = pg
			childIdx = (childIdx + 1) % n
		}
	}

	return child
}

// mutate applies swap, rotation-toggle and inversion mutations.
func (g *geneticOptimizer) mutate(c *chromosome) {
	n := len(c.genes)
	if n < 2 {
		return
	}

	if g.rng.Float64() < g.config.MutationRate {
		i := g.rng.Intn(n)
		j := g.rng.Intn(n)
		c.genes[i], c.genes[j] = c.genes[j], c.genes[i]
	}

	if g.rng.Float64() < g.config.MutationRate {
		i := g.rng.Intn(n)
		p := g.panels[c.genes[i].panelIndex]
		if p.AllowRotation && p.Grain == model.GrainNone {
			c.genes[i].rotated = !c.genes[i].rotated
		}
	}

	// Inversion mutation: reverse a small segment (less frequent)
	if g.rng.Float64() < g.config.MutationRate*0.5 {
		i := g.rng.Intn(n)
		j := g.rng.Intn(n)
		if i > j {
			i, j = j, i
		}
		for i < j {
			c.genes[i], c.genes[j] = c.genes[j], c.genes[i]
			i++
			j--
		}
	}
}

func (g *geneticOptimizer) copyChromosome(c chromosome) chromosome {
	genes := make([]gene, len(c.genes))
	copy(genes, c.genes)
	return chromosome{genes: genes, fitness: c.fitness}
}

// OptimizeGenetic runs the genetic algorithm over part ordering.
// Deterministic: the RNG is seeded with a fixed value so repeated runs
// on the same input give the same layout.
func OptimizeGenetic(parts []model.Part, stocks []model.StockSheet, settings model.CutSettings) (model.NestResult, error) {
	panels, byID := expandParts(parts, settings.KerfWidth)
	trimmed := trimStocks(stocks, settings.EdgeTrim)

	if err := validate(panels, trimmed, settings.KerfWidth); err != nil {
		return model.NestResult{}, err
	}
	if len(panels) == 0 {
		return model.NestResult{}, nil
	}

	config := DefaultGeneticConfig()
	// Scale effort with problem size
	if len(panels) > 20 {
		config.Generations = 150
	}
	if len(panels) > 50 {
		config.Generations = 200
		config.PopulationSize = 80
	}

	ga := newGeneticOptimizer(settings, config, panels, trimmed, 42)
	result := ga.optimize()
	return convertFree(result, stocks, byID, settings.EdgeTrim), nil
}

// RefineWithGenetic improves an existing greedy result when the GA finds
// a strictly better layout, otherwise the greedy result stands.
func RefineWithGenetic(greedy *Result, panels []*Panel, stocks []model.StockSheet, settings model.CutSettings) *Result {
	ga := newGeneticOptimizer(settings, DefaultGeneticConfig(), panels, stocks, 42)
	refined := ga.optimize()
	if refined.PlacedCount() > greedy.PlacedCount() {
		return refined
	}
	if refined.PlacedCount() == greedy.PlacedCount() &&
		refined.TotalEfficiency() > greedy.TotalEfficiency() {
		return refined
	}
	return greedy
}
