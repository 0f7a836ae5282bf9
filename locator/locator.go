package locator

import (
	"github.com/etekin/blade/internal/matrix"
)

// Locator turns a grayscale image into an ordered list of barcode
// candidates. It owns its gradient lookup tables, which depend only on
// Options and are built once at construction.
type Locator struct {
	opts   Options
	tables *gradientTables
}

// New constructs a Locator, validating opts.
func New(opts Options) (*Locator, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	return &Locator{
		opts:   opts,
		tables: buildGradientTables(opts.GradThresh, 2*opts.NOrientations),
	}, nil
}

// Locate runs the full gradient-vote, cluster, and edge-tally-scan
// pipeline on img and returns candidates sorted by descending edge
// count. img is not retained past the call.
func (l *Locator) Locate(img *matrix.Matrix[uint8]) []BarcodeCandidate {
	working := img
	if l.opts.Scale > 0 {
		working = subsample(img, l.opts.Scale)
	}

	field := calculateGradients(working, l.tables)
	cells := tileCells(field, l.opts.CellSize, l.opts.NOrientations)
	hist := globalHistogram(cells, l.opts.MaxEntropy, l.opts.NOrientations)
	modes := seedModes(cells, hist, l.opts)

	var candidates []BarcodeCandidate
	for _, mode := range modes {
		found := scanMode(field, cells, mode, l.opts, l.opts.Scale)
		candidates = append(candidates, found...)
	}

	if l.opts.Scale > 0 {
		step := 1 << uint(l.opts.Scale)
		for i := range candidates {
			candidates[i].FirstEdge.X *= step
			candidates[i].FirstEdge.Y *= step
			candidates[i].LastEdge.X *= step
			candidates[i].LastEdge.Y *= step
		}
	}

	sortCandidates(candidates)
	return candidates
}
