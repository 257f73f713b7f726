// Package engine implements the 2D panel nesting algorithms: free
// MaxRects/skyline nesting, a beam-saw guillotine variant, and a genetic
// refinement pass over panel ordering.
package engine

import "github.com/aly-mahmoud97/2d-Nesting/internal/model"

// Heuristic selects the placement scoring rule.
type Heuristic int

const (
	HeuristicBottomLeft    Heuristic = iota // Lowest y, then lowest x
	HeuristicBestShortSide                  // Minimize the shorter leftover side
	HeuristicBestLongSide                   // Minimize the longer leftover side
	HeuristicBestArea                       // Minimize leftover area
	HeuristicComposite                      // Weighted blend with edge and adjacency bonuses
)

func (h Heuristic) String() string {
	switch h {
	case HeuristicBottomLeft:
		return "bottom-left"
	case HeuristicBestShortSide:
		return "best-short-side"
	case HeuristicBestLongSide:
		return "best-long-side"
	case HeuristicBestArea:
		return "best-area"
	case HeuristicComposite:
		return "composite"
	}
	return "unknown"
}

// Config holds the tuning parameters of the nesting engine. The preset
// constructors trade placement quality against run time; the shared
// thresholds are identical across presets.
type Config struct {
	// Spatial grid sizing: cells per axis are derived from the average
	// panel size times GridSizeFactor, clamped to [MinGridCells, MaxGridCells].
	GridSizeFactor float64
	MinGridCells   int
	MaxGridCells   int

	// Candidate generation limits per placement attempt.
	MaxCandidates      int
	PriorityCandidates int // Skyline candidates always kept ahead of sampled ones

	// Trial-packing prefix sizes for new-sheet selection. The high limit
	// applies when more than TestPanelThreshold panels remain.
	TestPanelsHigh     int
	TestPanelsLow      int
	TestPanelThreshold int

	// MultiHeuristic enables the composite scoring path; off means plain
	// bottom-left.
	MultiHeuristic bool
	Heuristic      Heuristic

	// SortStrategy orders panels before nesting: "area", "perimeter",
	// "mixed" or "height".
	SortStrategy string

	// Shared thresholds.
	SheetFullThreshold    float64 // Sheets above this fill ratio are skipped when filling
	HighEfficiency        float64 // Early-accept threshold for trial-packed sheets
	MaxSkylineSegments    int
	SkylineMergeTolerance float64

	// New-sheet selection score weights.
	WeightFill  float64
	WeightCount float64
	WeightArea  float64

	// GeneticRefinement runs the order-based GA after the greedy pass.
	GeneticRefinement bool
}

func sharedDefaults(c Config) Config {
	c.SheetFullThreshold = 0.95
	c.HighEfficiency = 0.90
	c.TestPanelThreshold = 50
	c.MaxSkylineSegments = 100
	c.SkylineMergeTolerance = 0.1
	c.WeightFill = 2.0
	c.WeightCount = 1.0
	c.WeightArea = 0.001
	return c
}

// FastConfig favors run time: coarse grid, few candidates, bottom-left only.
func FastConfig() Config {
	return sharedDefaults(Config{
		GridSizeFactor:     5,
		MinGridCells:       5,
		MaxGridCells:       50,
		MaxCandidates:      40,
		PriorityCandidates: 15,
		TestPanelsHigh:     20,
		TestPanelsLow:      50,
		MultiHeuristic:     false,
		Heuristic:          HeuristicBottomLeft,
		SortStrategy:       "area",
	})
}

// BalancedConfig is the default speed/quality trade-off.
func BalancedConfig() Config {
	return sharedDefaults(Config{
		GridSizeFactor:     6,
		MinGridCells:       8,
		MaxGridCells:       70,
		MaxCandidates:      60,
		PriorityCandidates: 20,
		TestPanelsHigh:     30,
		TestPanelsLow:      70,
		MultiHeuristic:     true,
		Heuristic:          HeuristicComposite,
		SortStrategy:       "mixed",
	})
}

// BestConfig favors placement quality: fine grid, many candidates,
// composite scoring and genetic refinement.
func BestConfig() Config {
	return sharedDefaults(Config{
		GridSizeFactor:     8,
		MinGridCells:       10,
		MaxGridCells:       100,
		MaxCandidates:      100,
		PriorityCandidates: 30,
		TestPanelsHigh:     50,
		TestPanelsLow:      100,
		MultiHeuristic:     true,
		Heuristic:          HeuristicComposite,
		SortStrategy:       "mixed",
		GeneticRefinement:  true,
	})
}

// ConfigForPreset maps a model preset name to its engine configuration.
func ConfigForPreset(p model.Preset) Config {
	switch p {
	case model.PresetFast:
		return FastConfig()
	case model.PresetBest:
		return BestConfig()
	default:
		return BalancedConfig()
	}
}
