package locator

import (
	"math"

	"github.com/etekin/blade/internal/kde"
)

// orientationMode is a surviving peak of the cell orientation histogram:
// a dominant direction (in the folded [0, nOrientations) bin space, but
// kept as a float64 since mean-shift relocates it continuously) together
// with its accumulated vote weight.
type orientationMode struct {
	Bin    float64
	Weight float64
}

// globalHistogram folds every qualifying cell's signed histogram into a
// single, size-nOrientations unsigned histogram: folding maps opposite
// polarities of the same edge direction onto the same bin, since a
// barcode's bars produce gradients pointing both ways across its width.
func globalHistogram(cells []*cell, maxEntropy float64, nOrientations int) []float64 {
	h := make([]float64, nOrientations)
	for _, c := range cells {
		if !c.qualifies(maxEntropy) {
			continue
		}
		for bin := 0; bin < nOrientations; bin++ {
			h[bin] += math.Min(c.signed[bin], c.signed[bin+nOrientations])
		}
	}
	return h
}

// seedModes picks the folded histogram bins exceeding minVotes as
// mean-shift seeds, builds the angular vote set out of every qualifying
// cell's folded histogram mass, relocates the seeds by mean-shift on the
// period-nOrientations circle, and deduplicates the results within
// half a bin of each other.
func seedModes(cells []*cell, hist []float64, opts Options) []orientationMode {
	period := float64(opts.NOrientations)

	var votes []kde.Vote
	for _, c := range cells {
		if !c.qualifies(opts.MaxEntropy) {
			continue
		}
		for bin, w := range c.folded {
			if w <= 0 {
				continue
			}
			votes = append(votes, kde.Vote{Loc: float64(bin), Weight: w})
		}
	}
	if len(votes) == 0 {
		return nil
	}

	var seeds []kde.Vote
	for bin, w := range hist {
		if w > float64(opts.MinVotesPerOrientation) {
			seeds = append(seeds, kde.Vote{Loc: float64(bin), Weight: w})
		}
	}
	if len(seeds) == 0 {
		return nil
	}

	kernel := kde.NewGaussianRot(1, period/2)
	fold := kde.Fold(period)

	relocated := kde.MeanShift(append(votes, seeds...)[len(votes):], kernel, fold)
	// Re-evaluate each relocated seed's density against the full angular
	// vote population, so its reported weight reflects actual support
	// rather than the seed histogram bin total.
	for i := range relocated {
		relocated[i].Weight = kde.KDE(votes, relocated[i].Loc, kernel)
	}

	distance := kde.AngularDistance(period)
	clustered := kde.FindClusterCenters(relocated, 0.5, distance)

	modes := make([]orientationMode, 0, len(clustered))
	for _, c := range clustered {
		if c.Weight < float64(opts.MinVotesPerMode) {
			continue
		}
		modes = append(modes, orientationMode{Bin: c.Loc, Weight: c.Weight})
	}
	return modes
}

// radians converts a folded orientation bin (period opts.NOrientations,
// spanning [0, π)) into radians.
func radians(bin float64, nOrientations int) float64 {
	return bin * math.Pi / float64(nOrientations)
}
