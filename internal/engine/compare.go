package engine

import (
	"fmt"

	"github.com/aly-mahmoud97/2d-Nesting/internal/model"
)

// ComparisonScenario defines a named set of settings to compare.
type ComparisonScenario struct {
	Name     string
	Settings model.CutSettings
}

// ComparisonResult holds the nesting result and computed statistics
// for a single scenario.
type ComparisonResult struct {
	Scenario      ComparisonScenario
	Result        model.NestResult
	SheetsUsed    int
	TotalCuts     int
	WastePercent  float64
	UnplacedCount int
}

// CompareScenarios runs the nesting for each scenario and returns the
// results in scenario order, enabling side-by-side comparison of
// algorithms, presets and kerf widths. A scenario that fails validation
// is reported with its error as a diagnostic instead of aborting the
// whole comparison.
func CompareScenarios(scenarios []ComparisonScenario, parts []model.Part, stocks []model.StockSheet) []ComparisonResult {
	results := make([]ComparisonResult, 0, len(scenarios))

	for _, scenario := range scenarios {
		result, err := Optimize(parts, stocks, scenario.Settings)
		if err != nil {
			result = model.NestResult{Diagnostics: []string{err.Error()}}
		}

		totalCuts := 0
		for _, sheet := range result.Sheets {
			if len(sheet.Cuts) > 0 {
				totalCuts += len(sheet.Cuts)
			} else {
				totalCuts += len(sheet.Placements)
			}
		}

		results = append(results, ComparisonResult{
			Scenario:      scenario,
			Result:        result,
			SheetsUsed:    len(result.Sheets),
			TotalCuts:     totalCuts,
			WastePercent:  100.0 - result.TotalEfficiency(),
			UnplacedCount: len(result.UnplacedParts),
		})
	}

	return results
}

// BuildDefaultScenarios generates a set of comparison scenarios based on
// the current settings, varying key parameters to show what-if alternatives.
func BuildDefaultScenarios(baseSettings model.CutSettings) []ComparisonScenario {
	scenarios := []ComparisonScenario{
		{
			Name:     "Current Settings",
			Settings: baseSettings,
		},
	}

	// Scenario: the other algorithms
	for _, algo := range []model.Algorithm{model.AlgorithmMaxRects, model.AlgorithmGuillotine, model.AlgorithmGenetic} {
		if algo == baseSettings.Algorithm {
			continue
		}
		alt := baseSettings
		alt.Algorithm = algo
		scenarios = append(scenarios, ComparisonScenario{
			Name:     fmt.Sprintf("Algorithm %s", algo),
			Settings: alt,
		})
	}

	// Scenario: the other presets
	for _, preset := range []model.Preset{model.PresetFast, model.PresetBalanced, model.PresetBest} {
		if preset == baseSettings.Preset {
			continue
		}
		alt := baseSettings
		alt.Preset = preset
		scenarios = append(scenarios, ComparisonScenario{
			Name:     fmt.Sprintf("Preset %s", preset),
			Settings: alt,
		})
	}

	// Scenario: tighter kerf (simulate a thinner blade)
	if baseSettings.KerfWidth > 1.0 {
		tightKerf := baseSettings
		tightKerf.KerfWidth = baseSettings.KerfWidth * 0.5
		scenarios = append(scenarios, ComparisonScenario{
			Name:     fmt.Sprintf("Kerf %.1fmm (half)", tightKerf.KerfWidth),
			Settings: tightKerf,
		})
	}

	// Scenario: no edge trim
	if baseSettings.EdgeTrim > 0 {
		noTrim := baseSettings
		noTrim.EdgeTrim = 0
		scenarios = append(scenarios, ComparisonScenario{
			Name:     "No Edge Trim",
			Settings: noTrim,
		})
	}

	return scenarios
}
