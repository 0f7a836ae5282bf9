// Package decoder extracts a 1-D intensity slice along a located
// barcode candidate, finds its edges, localizes the symbology's fixed
// edges by Viterbi, scores each data symbol's digit energies in both
// sweep directions, and hands the result to the symbology's joint
// decoder.
package decoder

import "fmt"

// Options tunes the decoder's edge extraction and fixed-edge
// localization. Defaults match the reference implementation's tuning.
type Options struct {
	// EdgeThresh is the minimum |second-difference| magnitude to accept
	// a local extremum of the integrated slice as an edge.
	EdgeThresh int
	// FundamentalWidth is the nominal module width, in slice pixels, the
	// slice is resampled to.
	FundamentalWidth int
	// EdgePowerCoefficient weights the edge-magnitude term of the
	// Viterbi prior.
	EdgePowerCoefficient float64
	// MaxEdgeMagnitude caps the magnitude term before it is subtracted
	// from in the prior (larger magnitude edges are cheaper).
	MaxEdgeMagnitude float64
	// EdgeFixedLocationVar is the variance of the fixed-edge location
	// term of the Viterbi prior.
	EdgeFixedLocationVar float64
	// EdgeRelativeLocationVar is the variance of the inter-edge spacing
	// term of the Viterbi conditional.
	EdgeRelativeLocationVar float64
}

// DefaultOptions returns the reference tuning.
func DefaultOptions() Options {
	return Options{
		EdgeThresh:              40,
		FundamentalWidth:        10,
		EdgePowerCoefficient:    1,
		MaxEdgeMagnitude:        200,
		EdgeFixedLocationVar:    10000,
		EdgeRelativeLocationVar: 1,
	}
}

// Validate reports a usage error if any option is out of its accepted
// range.
func (o Options) Validate() error {
	switch {
	case o.EdgeThresh <= 0:
		return fmt.Errorf("%w: edgeThresh must be positive, got %d", ErrInconsistent, o.EdgeThresh)
	case o.FundamentalWidth <= 2:
		return fmt.Errorf("%w: fundamentalWidth must exceed 2, got %d", ErrInconsistent, o.FundamentalWidth)
	case o.EdgeFixedLocationVar <= 0 || o.EdgeRelativeLocationVar <= 0:
		return fmt.Errorf("%w: location variances must be positive", ErrInconsistent)
	}
	return nil
}
