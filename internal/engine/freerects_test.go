package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFreeSpaceIndexInitial(t *testing.T) {
	f := NewFreeSpaceIndex(1000, 500)
	rects := f.Rects()
	require.Len(t, rects, 1)
	assert.Equal(t, freeRect{x: 0, y: 0, w: 1000, h: 500}, rects[0])
}

func TestFreeSpaceIndexCornerPlacement(t *testing.T) {
	f := NewFreeSpaceIndex(1000, 500)
	f.Place(0, 0, 400, 300)

	// A corner placement leaves two maximal residuals: the right strip
	// at full height and the top strip at full width
	rects := f.Rects()
	require.Len(t, rects, 2)
	assert.Contains(t, rects, freeRect{x: 400, y: 0, w: 600, h: 500})
	assert.Contains(t, rects, freeRect{x: 0, y: 300, w: 1000, h: 200})
}

func TestFreeSpaceIndexCenterPlacement(t *testing.T) {
	f := NewFreeSpaceIndex(1000, 1000)
	f.Place(400, 400, 200, 200)

	// A center placement splits the sheet into four maximal residuals
	rects := f.Rects()
	require.Len(t, rects, 4)
	assert.Contains(t, rects, freeRect{x: 0, y: 0, w: 400, h: 1000})
	assert.Contains(t, rects, freeRect{x: 600, y: 0, w: 400, h: 1000})
	assert.Contains(t, rects, freeRect{x: 0, y: 0, w: 1000, h: 400})
	assert.Contains(t, rects, freeRect{x: 0, y: 600, w: 1000, h: 400})
}

func TestFreeSpaceIndexFullPlacement(t *testing.T) {
	f := NewFreeSpaceIndex(500, 500)
	f.Place(0, 0, 500, 500)
	assert.Empty(t, f.Rects(), "fully covered sheet has no free space")
}

func TestPruneRemovesContained(t *testing.T) {
	rects := []freeRect{
		{x: 0, y: 0, w: 1000, h: 500},
		{x: 100, y: 100, w: 200, h: 200}, // contained in the first
	}
	kept := prune(rects)
	require.Len(t, kept, 1)
	assert.Equal(t, freeRect{x: 0, y: 0, w: 1000, h: 500}, kept[0])
}

func TestPruneKeepsOneOfIdenticalRects(t *testing.T) {
	rects := []freeRect{
		{x: 0, y: 0, w: 100, h: 100},
		{x: 0, y: 0, w: 100, h: 100},
		{x: 0, y: 0, w: 100, h: 100},
	}
	kept := prune(rects)
	assert.Len(t, kept, 1)
}

func TestFreeSpaceIndexCopyIsIndependent(t *testing.T) {
	f := NewFreeSpaceIndex(1000, 500)
	c := f.Copy()
	c.Place(0, 0, 400, 300)

	assert.Len(t, f.Rects(), 1, "copy placement must not affect the original")
	assert.Len(t, c.Rects(), 2)
}
