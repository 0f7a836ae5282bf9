package decoder

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/etekin/blade/symbology"
)

func TestDotProductClampsToOneOnFlatSignal(t *testing.T) {
	// A constant-intensity integral cancels exactly: signedSum*mean
	// reproduces raw regardless of the pattern shape, so conv is always
	// clamped to its floor of 1.
	n := 60
	slice := make([]float64, n)
	for i := range slice {
		slice[i] = float64(i) * 10
	}
	pattern := []int{1, 3, 5, 6, 8, 9}
	assert.Equal(t, 1.0, dotProduct(slice, 10, pattern, 1))
	assert.Equal(t, 1.0, dotProduct(slice, 10, pattern, -1))
}

func TestDotProductOutOfBoundsReturnsZero(t *testing.T) {
	slice := make([]float64, 20)
	pattern := []int{1, 3, 5, 6, 8, 9}
	assert.Equal(t, 0.0, dotProduct(slice, 15, pattern, 1))
	assert.Equal(t, 0.0, dotProduct(slice, -5, pattern, 1))
}

func TestDotProductZeroWidthPatternReturnsZero(t *testing.T) {
	slice := make([]float64, 20)
	assert.Equal(t, 0.0, dotProduct(slice, 0, []int{0, 0, 0, 0, 0, 0}, 1))
}

func TestReverseIntegralMatchesBruteForceReversal(t *testing.T) {
	intensity := []float64{3, 1, 4, 1, 5, 9, 2, 6}
	n := len(intensity)
	slice := make([]float64, n)
	sum := 0.0
	for i, v := range intensity {
		sum += v
		slice[i] = sum
	}

	reversed := make([]float64, n)
	for i := 0; i < n; i++ {
		reversed[i] = intensity[n-1-i]
	}
	want := make([]float64, n)
	s := 0.0
	for i, v := range reversed {
		s += v
		want[i] = s
	}

	got := reverseIntegral(slice)
	for i := range want {
		assert.InDelta(t, want[i], got[i], 1e-9)
	}
}

type fakeSymbology struct{}

func (fakeSymbology) Name() string                         { return "fake" }
func (fakeSymbology) NDigits() int                         { return 10 }
func (fakeSymbology) TotalWidth() int                      { return 0 }
func (fakeSymbology) FixedEdges() []symbology.Edge         { return nil }
func (fakeSymbology) DataSymbols() []symbology.Symbol      { return nil }
func (fakeSymbology) BracketingFixedEdges(int) (int, int)  { return 0, 0 }
func (fakeSymbology) FirstBarDark(int) bool                { return true }
func (fakeSymbology) Estimate([][]float64) string          { return "" }

func (fakeSymbology) ConvolutionPattern(digit int, moduleWidth float64, flipped bool) []int {
	w := int(moduleWidth)
	return []int{w, 2 * w, 3 * w, 4 * w, 5 * w, 6 * w}
}

func TestDigitEnergiesNormalizesToProbabilityLikeRows(t *testing.T) {
	n := 200
	slice := make([]float64, n)
	for i := range slice {
		slice[i] = float64(i) * 10
	}
	boundaries := []SymbolBoundary{{LeftEdge: 40, RightEdge: 110, Width: 7}}

	for _, dir := range [2]Direction{Forward, Backward} {
		energy := digitEnergies(slice, boundaries, fakeSymbology{}, 10, dir)
		assert.Len(t, energy, 10)
		for _, row := range energy {
			assert.Len(t, row, 1)
			assert.False(t, row[0] < 0)
		}
	}
}
