package decoder

import (
	"math"

	"github.com/etekin/blade/internal/viterbi"
	"github.com/etekin/blade/symbology"
)

const maxModuleWidthIterations = 16

// candidateSets builds, for each fixed edge, the detected edges that
// could realize it: matching polarity, with prefix counts inside the
// window [expected, expected+slack], where slack is the total excess of
// detected edges of that polarity over the symbology's expected count.
// A negative slack (fewer detected edges of a polarity than the
// symbology expects) shrinks the window below its own lower bound,
// which correctly yields zero candidates rather than ever being treated
// as a window expansion.
func candidateSets(edges []DetectedEdge, fixed []symbology.Edge) [][]DetectedEdge {
	var totalDetectedPos, totalDetectedNeg int
	for _, e := range edges {
		if e.Polarity > 0 {
			totalDetectedPos++
		} else {
			totalDetectedNeg++
		}
	}
	var totalFixedPos, totalFixedNeg int
	for _, fe := range fixed {
		if fe.Polarity() > 0 {
			totalFixedPos++
		} else {
			totalFixedNeg++
		}
	}
	posSlack := totalDetectedPos - totalFixedPos
	negSlack := totalDetectedNeg - totalFixedNeg

	expectedPos, expectedNeg := 0, 0
	sets := make([][]DetectedEdge, len(fixed))
	for n, fe := range fixed {
		var set []DetectedEdge
		if fe.Polarity() > 0 {
			lo, hi := expectedPos, expectedPos+posSlack
			for _, e := range edges {
				if e.Polarity > 0 && e.PrevPositiveCount >= lo && e.PrevPositiveCount <= hi {
					set = append(set, e)
				}
			}
			expectedPos++
		} else {
			lo, hi := expectedNeg, expectedNeg+negSlack
			for _, e := range edges {
				if e.Polarity < 0 && e.PrevNegativeCount >= lo && e.PrevNegativeCount <= hi {
					set = append(set, e)
				}
			}
			expectedNeg++
		}
		sets[n] = set
	}
	return sets
}

// localizeFixedEdges runs the iterated Viterbi fixed-edge localization
// described in the decoder design: build per-fixed-edge candidate sets,
// solve a layered min-energy path treating module width x as a nuisance
// parameter re-estimated from the winning path each round, until x
// converges or the iteration cap is hit.
func localizeFixedEdges(edges []DetectedEdge, fixed []symbology.Edge, opts Options) ([]DetectedEdge, bool) {
	sets := candidateSets(edges, fixed)
	for _, s := range sets {
		if len(s) == 0 {
			return nil, false
		}
	}

	x := float64(opts.FundamentalWidth)
	var chosen []DetectedEdge

	for iter := 0; iter < maxModuleWidthIterations; iter++ {
		priors := make([][]float64, len(fixed))
		for n, set := range sets {
			priors[n] = make([]float64, len(set))
			expected := float64(fixed[n].Location)
			for i, e := range set {
				magTerm := opts.EdgePowerCoefficient * math.Max(opts.MaxEdgeMagnitude-float64(e.Magnitude), 0)
				locTerm := (expected - float64(e.Location)/x)
				priors[n][i] = magTerm + locTerm*locTerm/opts.EdgeFixedLocationVar
			}
		}

		cond := make([][][]float64, len(fixed)-1)
		for n := 0; n < len(fixed)-1; n++ {
			expectedDelta := float64(fixed[n+1].Location - fixed[n].Location)
			m := make([][]float64, len(sets[n]))
			for i, ei := range sets[n] {
				row := make([]float64, len(sets[n+1]))
				for j, ej := range sets[n+1] {
					if ej.Location <= ei.Location {
						row[j] = 1e6
					} else {
						d := expectedDelta - float64(ej.Location-ei.Location)/x
						row[j] = d * d / opts.EdgeRelativeLocationVar
					}
				}
				m[i] = row
			}
			cond[n] = m
		}

		solver, err := viterbi.New(priors, cond, 1)
		if err != nil {
			return nil, false
		}
		solutions, err := solver.Solve(-1)
		if err != nil || len(solutions) == 0 || solutions[0].Sequence[0] == -1 {
			return nil, false
		}

		seq := solutions[0].Sequence
		chosen = make([]DetectedEdge, len(fixed))
		for n, s := range seq {
			if s < 0 {
				return nil, false
			}
			chosen[n] = sets[n][s]
		}

		firstLoc, lastLoc := float64(chosen[0].Location), float64(chosen[len(chosen)-1].Location)
		firstMod, lastMod := float64(fixed[0].Location), float64(fixed[len(fixed)-1].Location)
		if lastMod == firstMod {
			break
		}
		newX := (lastLoc - firstLoc) / (lastMod - firstMod)
		if newX <= 0 {
			return nil, false
		}
		if math.Abs(newX-x)/x <= 0.01 {
			x = newX
			break
		}
		x = newX
	}

	return chosen, true
}

// boundariesFromFixedEdges derives each data symbol's SymbolBoundary
// from the fixed edges the localizer chose.
func boundariesFromFixedEdges(cat Symbology, chosen []DetectedEdge) []SymbolBoundary {
	dataSymbols := cat.DataSymbols()
	out := make([]SymbolBoundary, len(dataSymbols))
	for i := range dataSymbols {
		left, right := cat.BracketingFixedEdges(i)
		out[i] = SymbolBoundary{
			LeftEdge:  chosen[left].Location,
			RightEdge: chosen[right].Location,
			Width:     dataSymbols[i].Width,
		}
	}
	return out
}
