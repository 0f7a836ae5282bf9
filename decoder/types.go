package decoder

import (
	"errors"

	"github.com/etekin/blade/internal/matrix"
	"github.com/etekin/blade/symbology"
)

// Outcome is the three-way result of Read: the resolution gate rejected
// the candidate, the gate passed but decoding failed, or decoding
// succeeded.
type Outcome int

const (
	CannotDecode Outcome = iota
	Failed
	Success
)

func (o Outcome) String() string {
	switch o {
	case CannotDecode:
		return "CannotDecode"
	case Failed:
		return "Failed"
	case Success:
		return "Success"
	default:
		return "Unknown"
	}
}

// ErrInconsistent is wrapped by the usage errors Options.Validate (and
// so New) returns for option values out of range.
var ErrInconsistent = errors.New("decoder: inconsistent configuration")

// Candidate is a located barcode segment, in full-image pixel
// coordinates, handed to Read.
type Candidate struct {
	First, Last matrix.Point
}

// Result carries the decoded payload and the name of the symbology that
// produced it.
type Result struct {
	Estimate  string
	Symbology string
}

// Symbology is the capability interface the decoder needs from a
// registered symbology: its layout (fixed edges, data symbols, total
// module width) and its per-symbology convolution pattern and joint
// decode. Concrete symbologies (symbology.UPCA) satisfy this
// structurally; this package never imports a registry.
type Symbology interface {
	Name() string
	NDigits() int
	FixedEdges() []symbology.Edge
	DataSymbols() []symbology.Symbol
	TotalWidth() int
	BracketingFixedEdges(dataIdx int) (left, right int)
	FirstBarDark(dataIdx int) bool
	ConvolutionPattern(digit int, moduleWidth float64, flipped bool) []int
	Estimate(energy [][]float64) string
}

// DetectedEdge is a local extremum of the second-difference of the
// integrated slice: polarity +1 for a maximum, -1 for a minimum.
// PrevPositiveCount/PrevNegativeCount count the positive and the
// negative edges, respectively, strictly before this one, whatever this
// edge's own polarity, so fixed-edge candidate matching can compare
// counts in O(1).
type DetectedEdge struct {
	Polarity          int
	Location          int
	Magnitude         int
	PrevPositiveCount int
	PrevNegativeCount int
}

// SymbolBoundary locates one data symbol's span within the slice once
// fixed-edge localization has run.
type SymbolBoundary struct {
	LeftEdge, RightEdge int
	Width               int
}
