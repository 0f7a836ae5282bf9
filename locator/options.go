// Package locator turns a raw grayscale image into an ordered list of
// barcode-candidate segments, by voting over local gradient orientation
// and then clustering and edge-tally-scanning each surviving mode.
package locator

import "fmt"

// Options configures the locator. Defaults match the reference
// implementation's tuning for handheld-camera 1-D barcode frames.
type Options struct {
	// GradThresh is the magnitude threshold (in raw gradient units,
	// before squaring) below which a pixel contributes no orientation
	// vote.
	GradThresh int
	// CellSize is the edge length in pixels of the square cells the
	// gradient field is tiled into.
	CellSize int
	// MaxEntropy is the maximum Shannon entropy (nats) of a cell's
	// weighted orientation histogram for the cell to qualify.
	MaxEntropy float64
	// MaxVotesPerBin is accepted and carried through configuration, but
	// no locator stage reads it: orientation votes are not capped per
	// bin.
	MaxVotesPerBin int
	// MinVotesPerOrientation is the seed threshold on the folded global
	// orientation histogram.
	MinVotesPerOrientation int
	// MinVotesPerMode is the minimum cluster weight for an orientation
	// mode to survive dedup.
	MinVotesPerMode int
	// MinEdgesInBarcode is the floor on accepted edge-tally count.
	MinEdgesInBarcode int
	// MinEdgeDensityInBarcode is the floor on accepted edge-tally count
	// as a fraction of candidate width.
	MinEdgeDensityInBarcode float64
	// MaxDistBtwEdges is the maximum pixel gap tolerated between
	// consecutive acceptable edges during the ray-scan before aborting
	// that direction.
	MaxDistBtwEdges int
	// NOrientations is the number of folded (unsigned) orientation bins
	// spanning [0, π); the signed gradient bins number 2*NOrientations.
	NOrientations int
	// Scale is the power-of-two subsample level applied before
	// gradient computation.
	Scale int
}

// DefaultOptions returns the reference tuning.
func DefaultOptions() Options {
	return Options{
		GradThresh:              20,
		CellSize:                16,
		MaxEntropy:              1.5,
		MaxVotesPerBin:          20,
		MinVotesPerOrientation:  300,
		MinVotesPerMode:         50,
		MinEdgesInBarcode:       20,
		MinEdgeDensityInBarcode: 0.2,
		MaxDistBtwEdges:         5,
		NOrientations:           18,
		Scale:                   0,
	}
}

// Validate reports a usage error if any option is out of its accepted
// range.
func (o Options) Validate() error {
	switch {
	case o.CellSize <= 0:
		return fmt.Errorf("locator: cellSize must be positive, got %d", o.CellSize)
	case o.NOrientations <= 0:
		return fmt.Errorf("locator: nOrientations must be positive, got %d", o.NOrientations)
	case o.Scale < 0 || o.Scale > 3:
		return fmt.Errorf("locator: scale must be in [0,3], got %d", o.Scale)
	case o.MaxEntropy <= 0:
		return fmt.Errorf("locator: maxEntropy must be positive, got %f", o.MaxEntropy)
	case o.MinEdgeDensityInBarcode < 0:
		return fmt.Errorf("locator: minEdgeDensityInBarcode must be non-negative, got %f", o.MinEdgeDensityInBarcode)
	}
	return nil
}
