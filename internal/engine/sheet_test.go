package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aly-mahmoud97/2d-Nesting/internal/geom"
	"github.com/aly-mahmoud97/2d-Nesting/internal/model"
)

func TestSheetFilledAreaIncludesKerf(t *testing.T) {
	cfg := BalancedConfig()
	s := NewSheet(1000, 1000, 5, 100*50, model.GrainNone, 0, &cfg)

	p := NewPanel(0, "A", 100, 50, 5)
	require.True(t, s.Fits(p, 0, 0))
	s.Place(p, 0, 0)

	// The saw consumes the kerf strip too: 105 x 55, not 100 x 50
	assert.InDelta(t, 105.0*55.0, s.FilledArea, 1e-9)
	assert.InDelta(t, 105.0*55.0/(1000.0*1000.0), s.Efficiency(), 1e-12)
}

func TestSheetFilledAreaShapedPanelUsesOutline(t *testing.T) {
	cfg := BalancedConfig()
	s := NewSheet(1000, 1000, 5, 100*60, model.GrainNone, 0, &cfg)

	tri := geom.NewPolygon(model.Outline{{X: 0, Y: 0}, {X: 100, Y: 0}, {X: 0, Y: 60}})
	p := NewShapedPanel(0, "tri", tri, 5)
	require.True(t, s.Fits(p, 0, 0))
	s.Place(p, 0, 0)

	// Shaped panels contribute their exact outline area
	assert.InDelta(t, 3000.0, s.FilledArea, 1e-9)
}

func TestSheetFilledAreaAccumulates(t *testing.T) {
	cfg := BalancedConfig()
	s := NewSheet(1000, 1000, 3, 200*200, model.GrainNone, 0, &cfg)

	a := NewPanel(0, "A", 200, 200, 3)
	b := NewPanel(1, "B", 150, 100, 3)
	s.Place(a, 0, 0)
	s.Place(b, a.PlacedW(), 0)

	want := a.FootprintArea() + b.FootprintArea()
	assert.InDelta(t, want, s.FilledArea, 1e-9)
	assert.InDelta(t, 203.0*203.0+153.0*103.0, want, 1e-9)
}

func TestDownsampleCandidatesKeepsStridedTail(t *testing.T) {
	all := make([]candidate, 100)
	for i := range all {
		all[i] = candidate{x: float64(i), score: float64(i)}
	}

	kept := downsampleCandidates(all, 30)
	require.Len(t, kept, 30)

	// The best-scoring head survives intact
	for i := 0; i < 20; i++ {
		assert.Equal(t, float64(i), kept[i].score)
	}
	// The remainder is sampled evenly instead of cut off: candidates
	// far beyond the cap still appear
	maxScore := 0.0
	for _, c := range kept {
		if c.score > maxScore {
			maxScore = c.score
		}
	}
	assert.Greater(t, maxScore, 80.0)
}

func TestDownsampleCandidatesPassThrough(t *testing.T) {
	all := []candidate{{score: 1}, {score: 2}}
	kept := downsampleCandidates(all, 30)
	assert.Len(t, kept, 2)
}
