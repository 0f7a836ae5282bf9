package matrix

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubViewSharesBackingStorage(t *testing.T) {
	m := New[uint8](8, 8)
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			m.Set(x, y, uint8(y*8+x))
		}
	}

	sub := m.SubView(2, 2, 3, 3)
	require.Equal(t, 3, sub.Width())
	require.Equal(t, 3, sub.Height())
	assert.Equal(t, m.At(2, 2), sub.At(0, 0))

	sub.Set(0, 0, 255)
	assert.Equal(t, uint8(255), m.At(2, 2), "mutating a sub-view must be visible through the parent")
}

func TestSubViewOutOfBoundsPanics(t *testing.T) {
	m := New[uint8](4, 4)
	assert.Panics(t, func() { m.SubView(2, 2, 3, 3) })
}

func TestCloneIsIndependentOfParent(t *testing.T) {
	m := New[uint8](4, 4)
	m.Set(1, 1, 9)
	clone := m.Clone()
	clone.Set(1, 1, 200)
	assert.Equal(t, uint8(9), m.At(1, 1))
	assert.Equal(t, uint8(200), clone.At(1, 1))
}

func TestRoundCast(t *testing.T) {
	assert.Equal(t, 2, RoundCast[int](1.5))
	assert.Equal(t, 2, RoundCast[int](1.6))
	assert.Equal(t, 1, RoundCast[int](1.4))
	assert.Equal(t, 0, RoundCast[int](-0.4))
}

func TestPointNormAndDistance(t *testing.T) {
	p := Point{3, 4}
	assert.InDelta(t, 5.0, p.Norm(), 1e-9)

	a := Point{0, 0}
	b := Point{3, 4}
	assert.InDelta(t, 5.0, Distance(a, b), 1e-9)
	assert.InDelta(t, Distance(a, b), Distance(b, a), 1e-9)
}

func TestCloneAsRounds(t *testing.T) {
	src := New[float64](2, 1)
	src.Set(0, 0, 1.6)
	src.Set(1, 0, -1.6)
	dst := CloneAs[float64, int](src)
	assert.Equal(t, 2, dst.At(0, 0))
	assert.Equal(t, -2, dst.At(1, 0))
}
