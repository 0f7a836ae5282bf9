package locator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTileCellsKeepsTrailingPartialRowAndColumn(t *testing.T) {
	// 20x20 field tiled at size 8: 3x3 grid of tiles, with the last
	// row/column each only 4 pixels deep/wide.
	tables := buildGradientTables(20, 18)
	img := verticalBarsImage(20, 20, 4)
	field := calculateGradients(img, tables)

	cells := tileCells(field, 8, 18)
	require.Len(t, cells, 9)

	byCoord := make(map[[2]int]*cell)
	for _, c := range cells {
		byCoord[[2]int{c.x, c.y}] = c
	}

	corner, ok := byCoord[[2]int{16, 16}]
	require.True(t, ok)
	assert.Equal(t, 4, corner.w)
	assert.Equal(t, 4, corner.h)

	full, ok := byCoord[[2]int{0, 0}]
	require.True(t, ok)
	assert.Equal(t, 8, full.w)
	assert.Equal(t, 8, full.h)
}

func TestCellQualifiesUsesActualAreaNotTileSize(t *testing.T) {
	c := newCell(0, 0, 4, 4, 18)
	// 5 voters exceeds 4x4/4 = 4, so this partial cell can qualify on its
	// own actual area even though it is smaller than a full tile; against
	// the tile size (8x8/4 = 16) it would never qualify.
	for i := 0; i < 5; i++ {
		c.accumulate(0, 100)
	}
	assert.True(t, c.qualifies(1.5))
}

func TestCellAccumulateIgnoresSentinelBin(t *testing.T) {
	c := newCell(0, 0, 8, 8, 18)
	c.accumulate(36, 200) // sentinel bin == 2*nOrientations
	assert.Equal(t, 0, c.voters)
	assert.Equal(t, 0.0, c.total)
}

func TestCellDominantAndEntropyOnSingleBin(t *testing.T) {
	c := newCell(0, 0, 8, 8, 18)
	for i := 0; i < 10; i++ {
		c.accumulate(5, 50)
	}
	assert.Equal(t, 5, c.dominant())
	assert.InDelta(t, 0, c.shannonEntropy(), 1e-9)
}

func TestCellDominantIsUnweightedVoteNotMagnitudeWeight(t *testing.T) {
	c := newCell(0, 0, 8, 8, 18)
	// Bin 2 wins on raw voter count (5 votes) but loses on accumulated
	// magnitude (5*10 = 50); bin 9 wins on magnitude (3*100 = 300) but
	// loses on count (3 votes). The dominant bin must be the one with
	// more voters, not the one with more accumulated weight.
	for i := 0; i < 5; i++ {
		c.accumulate(2, 10)
	}
	for i := 0; i < 3; i++ {
		c.accumulate(9, 100)
	}
	assert.Equal(t, 2, c.dominant())
}
