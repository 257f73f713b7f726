package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func testGridConfig() *Config {
	cfg := BalancedConfig()
	return &cfg
}

func TestSpatialGridQueryFindsInserted(t *testing.T) {
	g := NewSpatialGrid(1000, 500, 100, testGridConfig())
	g.Insert(0, 0, 0, 200, 200)
	g.Insert(1, 800, 300, 150, 150)

	hits := g.Query(50, 50, 50, 50)
	assert.Contains(t, hits, 0)
	assert.NotContains(t, hits, 1)

	hits = g.Query(850, 350, 50, 50)
	assert.Contains(t, hits, 1)
	assert.NotContains(t, hits, 0)
}

func TestSpatialGridQueryDeduplicates(t *testing.T) {
	g := NewSpatialGrid(1000, 500, 100, testGridConfig())
	// A large footprint covers many cells
	g.Insert(0, 0, 0, 900, 450)

	hits := g.Query(0, 0, 1000, 500)
	assert.Equal(t, []int{0}, hits)
}

func TestSpatialGridAdaptiveCellCount(t *testing.T) {
	cfg := testGridConfig()

	// Tiny average panel size clamps at the maximum cell count
	fine := NewSpatialGrid(2440, 1220, 1, cfg)
	assert.Equal(t, cfg.MaxGridCells, fine.cols)

	// Huge average panel size clamps at the minimum
	coarse := NewSpatialGrid(2440, 1220, 5000, cfg)
	assert.Equal(t, cfg.MinGridCells, coarse.cols)
}

func TestSpatialGridZeroAvgPanelSize(t *testing.T) {
	g := NewSpatialGrid(1000, 500, 0, testGridConfig())
	assert.Greater(t, g.cols, 0)
	assert.Greater(t, g.rows, 0)
}

func TestSpatialGridCopyIsIndependent(t *testing.T) {
	g := NewSpatialGrid(1000, 500, 100, testGridConfig())
	g.Insert(0, 0, 0, 200, 200)

	c := g.Copy()
	c.Insert(1, 0, 0, 200, 200)

	assert.NotContains(t, g.Query(0, 0, 200, 200), 1)
	assert.Contains(t, c.Query(0, 0, 200, 200), 1)
}
