package symbology

import (
	"fmt"
	"math"

	"github.com/etekin/blade/internal/matrix"
	"github.com/etekin/blade/internal/viterbi"
)

// symbolLength is the number of bars in one UPC-A data digit symbol.
const symbolLength = 4

// digitPatterns are the left-hand-odd-parity module run lengths for
// digits 0-9, each summing to 7. UPC-A's right half and the even-parity
// left encoding reuse the same widths via bar-polarity flips handled by
// the symbology's own sgn bookkeeping, not by a second table: the
// module widths a digit occupies are identical regardless of parity.
var digitPatterns = [10][4]int{
	{3, 2, 1, 1},
	{2, 2, 2, 1},
	{2, 1, 2, 2},
	{1, 4, 1, 1},
	{1, 1, 3, 2},
	{1, 2, 3, 1},
	{1, 1, 1, 4},
	{1, 3, 1, 2},
	{1, 2, 1, 3},
	{3, 1, 1, 2},
}

// Options tunes the UPC-A joint decoder's acceptance test.
type Options struct {
	// MinMargin is the minimum (secondBest-best)/best energy gap
	// required to accept a joint decode.
	MinMargin float64
	// MaxEnergy is reserved for a future per-digit energy ceiling; it is
	// not yet enforced.
	MaxEnergy float64
}

// DefaultOptions returns the reference tuning.
func DefaultOptions() Options {
	return Options{MinMargin: 0.02, MaxEnergy: 20}
}

// UPCA is the twelve-digit UPC-A symbology: left guard, six left-half
// digits, middle guard, six right-half digits, right guard.
type UPCA struct {
	*Catalog
	opts Options

	// leftTable/rightTable[prevState][curState] = digit, the inverse of
	// the forward parity recurrence used to keep Viterbi's state space a
	// plain 10-state chain instead of one state per (digit, parity).
	leftTable  [10][10]int
	rightTable [10][10]int
}

// NewUPCA builds the UPC-A catalog (guards + 12 data symbols) and the
// parity inversion tables.
func NewUPCA(opts Options) *UPCA {
	c := NewCatalog()
	c.AddSymbol(3, 3, []int{1, 1, 1}) // left guard
	for i := 0; i < 6; i++ {
		c.AddSymbol(7, symbolLength, nil)
	}
	c.AddSymbol(5, 5, []int{1, 1, 1, 1, 1}) // middle guard
	for i := 0; i < 6; i++ {
		c.AddSymbol(7, symbolLength, nil)
	}
	c.AddSymbol(3, 3, []int{1, 1, 1}) // right guard

	u := &UPCA{Catalog: c, opts: opts}
	for prev := 0; prev < 10; prev++ {
		for digit := 0; digit < 10; digit++ {
			curLeft := (3*digit + prev) % 10
			u.leftTable[prev][curLeft] = digit
			curRight := (digit + prev) % 10
			u.rightTable[prev][curRight] = digit
		}
	}
	return u
}

// Name implements the decoder's Symbology capability interface.
func (u *UPCA) Name() string { return "UPC-A" }

// NDigits is the size of UPC-A's digit alphabet.
func (u *UPCA) NDigits() int { return 10 }

// ConvolutionPattern emits the length symbolLength+2 cumulative pixel
// boundary sequence for digit d at module width x: a leading quiet-zone
// module, the four cumulative bar boundaries (reversed when flipped),
// and a trailing quiet-zone module.
func (u *UPCA) ConvolutionPattern(digit int, moduleWidth float64, flipped bool) []int {
	pattern := digitPatterns[digit]
	out := make([]int, symbolLength+2)
	out[0] = int(math.Floor(moduleWidth))
	for i := 0; i < symbolLength; i++ {
		idx := i
		if flipped {
			idx = symbolLength - 1 - i
		}
		out[i+1] = out[i] + int(matrix.RoundCast[int](float64(pattern[idx])*moduleWidth))
	}
	out[symbolLength+1] = out[symbolLength] + int(matrix.RoundCast[int](moduleWidth))
	return out
}

// Estimate runs the joint parity-aware Viterbi decode over the supplied
// 10x12 energy matrix (rows = digits, columns = symbols) and returns
// the 12-digit string, or "" if the margin or per-symbol override test
// rejects it.
func (u *UPCA) Estimate(energy [][]float64) string {
	const nSymbols = 12
	const nStates = 10

	tableFor := func(symbol int) *[10][10]int {
		if symbol < 6 {
			return &u.leftTable
		}
		return &u.rightTable
	}

	priors := make([][]float64, nSymbols)
	priors[0] = make([]float64, nStates)
	for cur := 0; cur < nStates; cur++ {
		digit := u.leftTable[0][cur]
		priors[0][cur] = energy[digit][0]
	}
	for s := 1; s < nSymbols; s++ {
		priors[s] = make([]float64, nStates)
		for cur := 0; cur < nStates; cur++ {
			// Layer s's prior is folded into the conditional from s-1 to
			// s below; it only needs a neutral (zero) baseline here.
			priors[s][cur] = 0
		}
	}

	cond := make([][][]float64, nSymbols-1)
	for s := 1; s < nSymbols; s++ {
		table := tableFor(s)
		m := make([][]float64, nStates)
		for prev := 0; prev < nStates; prev++ {
			m[prev] = make([]float64, nStates)
			for cur := 0; cur < nStates; cur++ {
				digit := table[prev][cur]
				m[prev][cur] = energy[digit][s]
			}
		}
		cond[s-1] = m
	}

	solver, err := viterbi.New(priors, cond, 2)
	if err != nil {
		return ""
	}
	solutions, err := solver.Solve(-1)
	if err != nil || len(solutions) < 2 {
		return ""
	}
	best, second := solutions[0], solutions[1]
	if second.Sequence[0] == -1 {
		return ""
	}
	if best.Energy <= 0 {
		return ""
	}
	margin := (second.Energy - best.Energy) / best.Energy
	if margin < u.opts.MinMargin {
		return ""
	}

	digits := make([]int, nSymbols)
	prev := 0
	for s := 0; s < nSymbols; s++ {
		cur := best.Sequence[s]
		digits[s] = tableFor(s)[prev][cur]
		prev = cur
	}

	overridden := 0
	for s := 0; s < nSymbols; s++ {
		winner := digits[s]
		betterCount := 0
		for d := 0; d < nStates; d++ {
			if energy[d][s] < energy[winner][s] {
				betterCount++
			}
		}
		if betterCount > 0 {
			overridden++
		}
	}
	if overridden > 1 {
		return ""
	}

	out := make([]byte, nSymbols)
	for s, d := range digits {
		out[s] = byte('0' + d)
	}
	return string(out)
}

func (u *UPCA) String() string {
	return fmt.Sprintf("UPCA{totalWidth=%d}", u.TotalWidth())
}
