package decoder

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/etekin/blade/symbology"
)

// upcaModuleWidths recovers a digit's four bar-module run lengths from
// ConvolutionPattern at moduleWidth=1, rather than reaching into the
// symbology package's private digit table.
func upcaModuleWidths(u *symbology.UPCA, digit int) [4]int {
	p := u.ConvolutionPattern(digit, 1.0, false)
	var w [4]int
	for i := 0; i < 4; i++ {
		w[i] = p[i+1] - p[i]
	}
	return w
}

// pixelBoundary maps a module-space fixed-edge location to the slice
// pixel index renderUPCASlice placed it at: 2 leading quiet-zone
// modules precede module 0 of the barcode proper.
func pixelBoundary(loc, modulePx int) int {
	return (2+loc)*modulePx - 1
}

// renderUPCASlice renders a full 12-digit UPC-A bar pattern (guards,
// six left-half digits, middle guard, six right-half digits, right
// guard) as an integrated intensity signal, the same running-sum form
// extractSlice produces, plus the SymbolBoundary list every data
// symbol would resolve to once fixed-edge localization has run. Colors
// alternate continuously across the whole barcode starting dark, which
// is what makes left-half digits start light and right-half digits
// start dark without tracking per-symbol parity by hand.
func renderUPCASlice(u *symbology.UPCA, digits [12]int, modulePx int) ([]float64, []SymbolBoundary) {
	var moduleDark []bool
	dark := true
	appendWidths := func(widths []int) {
		for _, w := range widths {
			for i := 0; i < w; i++ {
				moduleDark = append(moduleDark, dark)
			}
			dark = !dark
		}
	}

	appendWidths([]int{1, 1, 1}) // left guard
	for i := 0; i < 6; i++ {
		w := upcaModuleWidths(u, digits[i])
		appendWidths(w[:])
	}
	appendWidths([]int{1, 1, 1, 1, 1}) // middle guard
	for i := 6; i < 12; i++ {
		w := upcaModuleWidths(u, digits[i])
		appendWidths(w[:])
	}
	appendWidths([]int{1, 1, 1}) // right guard

	full := make([]bool, 0, len(moduleDark)+4)
	full = append(full, false, false) // leading quiet zone
	full = append(full, moduleDark...)
	full = append(full, false, false) // trailing quiet zone

	slice := make([]float64, len(full)*modulePx)
	sum := 0.0
	idx := 0
	for _, d := range full {
		intensity := 10.0
		if d {
			intensity = 0.0
		}
		for p := 0; p < modulePx; p++ {
			sum += intensity
			slice[idx] = sum
			idx++
		}
	}

	fixed := u.FixedEdges()
	dataSymbols := u.DataSymbols()
	boundaries := make([]SymbolBoundary, len(dataSymbols))
	for s := range dataSymbols {
		left, right := u.BracketingFixedEdges(s)
		boundaries[s] = SymbolBoundary{
			LeftEdge:  pixelBoundary(fixed[left].Location, modulePx),
			RightEdge: pixelBoundary(fixed[right].Location, modulePx),
			Width:     dataSymbols[s].Width,
		}
	}
	return slice, boundaries
}

func TestDigitEnergiesFavorsRenderedDigitAtEverySymbol(t *testing.T) {
	u := symbology.NewUPCA(symbology.DefaultOptions())
	digits := [12]int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 3, 6}
	slice, boundaries := renderUPCASlice(u, digits, 6)

	energy := digitEnergies(slice, boundaries, u, u.NDigits(), Forward)
	require.Len(t, energy, u.NDigits())

	for s, want := range digits {
		lowest, lowestE := 0, energy[0][s]
		for d := 1; d < u.NDigits(); d++ {
			if energy[d][s] < lowestE {
				lowest, lowestE = d, energy[d][s]
			}
		}
		assert.Equal(t, want, lowest, "symbol %d: expected digit %d to have the lowest energy", s, want)
	}
}

func TestDigitEnergiesRoundTripsThroughEstimate(t *testing.T) {
	u := symbology.NewUPCA(symbology.DefaultOptions())
	digits := [12]int{0, 3, 6, 0, 0, 0, 2, 9, 1, 4, 5, 2}
	slice, boundaries := renderUPCASlice(u, digits, 6)

	energy := digitEnergies(slice, boundaries, u, u.NDigits(), Forward)
	want := "036000291452"
	assert.Equal(t, want, u.Estimate(energy))
}
