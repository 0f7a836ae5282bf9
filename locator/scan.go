package locator

import (
	"math"
	"sort"

	"github.com/etekin/blade/internal/kde"
	"github.com/etekin/blade/internal/matrix"
)

// BarcodeCandidate is a located segment: the two ray-scan endpoints, the
// orientation (in radians) the gradient votes pointed across the bars,
// an edge tally supporting it, and the subsample scale it was found at.
type BarcodeCandidate struct {
	FirstEdge matrix.Point
	LastEdge  matrix.Point
	Angle     float64
	EdgeCount int
	Scale     int
}

// clusterCandidates collects the qualifying cells whose dominant folded
// bin agrees with mode (within one bin, wrapping), 2-D mean-shifts their
// centers together, and deduplicates within a radius of 5 cell widths —
// the same radius the reference implementation uses to avoid reporting
// one physical barcode as several adjacent candidates.
func clusterCandidates(cells []*cell, mode orientationMode, opts Options) []kde.PointVote {
	period := float64(opts.NOrientations)
	half := period / 2

	var votes []kde.PointVote
	for _, c := range cells {
		if !c.qualifies(opts.MaxEntropy) {
			continue
		}
		d := math.Abs(float64(c.dominant()) - mode.Bin)
		if d > half {
			d = period - d
		}
		if d > 1.0 {
			continue
		}
		x, y := c.center()
		votes = append(votes, kde.PointVote{Loc: [2]float64{x, y}, Weight: c.total})
	}
	if len(votes) == 0 {
		return nil
	}

	radius := 5 * float64(opts.CellSize)
	kernel := kde.NewGaussianPt(radius * radius / 4)
	relocated := kde.MeanShiftPoint(votes, kernel)
	return kde.FindClusterCentersPoint(relocated, radius)
}

// acceptableBin reports whether a gradient pixel's folded orientation
// bin is consistent with a ray scanned in direction scanBin (both in the
// same folded [0, nOrientations) space): within 2 bins, allowing for
// wrap-around.
func acceptableBin(scanBin, pixelBin, nOrientations int) bool {
	d := scanBin - pixelBin
	if d < 0 {
		d = -d
	}
	if d > nOrientations/2 {
		d = nOrientations - d
	}
	return d <= 2
}

// rayScan walks outward from center in direction angle and its opposite,
// tallying pixels whose gradient orientation is consistent with a bar
// edge perpendicular to angle. The counter tracked while walking is the
// distance since the last acceptable edge: an acceptable pixel resets it
// and advances the recorded endpoint on that side; an unacceptable
// nonzero-gradient pixel increments the distance and decrements the edge
// tally; a zero-gradient pixel only increments the distance. A
// direction aborts once its distance exceeds maxGap, and the last
// recorded endpoint is kept as that side's edge.
func rayScan(field *gradientField, center [2]float64, angle float64, scanBin, maxGap, nOrientations int) (edgeCount int, first, last matrix.Point) {
	dx, dy := math.Cos(angle), math.Sin(angle)
	w, h := field.magnitude.Width(), field.magnitude.Height()

	walk := func(sign float64) (int, matrix.Point) {
		count := 0
		dist := 0
		endpoint := matrix.Point{X: int(center[0]), Y: int(center[1])}
		for step := 1; ; step++ {
			x := center[0] + sign*dx*float64(step)
			y := center[1] + sign*dy*float64(step)
			if x < 0 || y < 0 || x >= float64(w) || y >= float64(h) {
				break
			}
			px, py := int(x), int(y)
			mag := int(field.magnitude.At(px, py))
			orient := int(field.orientation.At(px, py))
			switch {
			case mag > 0 && orient < 2*nOrientations && acceptableBin(scanBin, orient%nOrientations, nOrientations):
				count++
				dist = 0
				endpoint = matrix.Point{X: px, Y: py}
			case mag > 0:
				dist++
				count--
				if dist > maxGap {
					return count, endpoint
				}
			default:
				dist++
				if dist > maxGap {
					return count, endpoint
				}
			}
		}
		return count, endpoint
	}

	c1, firstPt := walk(-1)
	c2, lastPt := walk(1)
	edgeCount = c1 + c2
	return edgeCount, firstPt, lastPt
}

// scanMode runs rayScan at every cluster center found for one
// orientation mode and keeps the ones whose edge tally clears both the
// absolute floor and the density floor relative to the scanned width.
func scanMode(field *gradientField, cells []*cell, mode orientationMode, opts Options, scale int) []BarcodeCandidate {
	centers := clusterCandidates(cells, mode, opts)
	if len(centers) == 0 {
		return nil
	}

	angle := radians(mode.Bin, opts.NOrientations)
	scanBin := int(math.Round(mode.Bin)) % opts.NOrientations

	var out []BarcodeCandidate
	for _, c := range centers {
		edgeCount, first, last := rayScan(field, c.Loc, angle, scanBin, opts.MaxDistBtwEdges, opts.NOrientations)
		width := int(matrix.Distance(first, last))
		floor := opts.MinEdgesInBarcode
		if d := int(float64(width) * opts.MinEdgeDensityInBarcode); d > floor {
			floor = d
		}
		if edgeCount <= floor {
			continue
		}
		out = append(out, BarcodeCandidate{
			FirstEdge: first,
			LastEdge:  last,
			Angle:     angle,
			EdgeCount: edgeCount,
			Scale:     scale,
		})
	}
	return out
}

// sortCandidates orders candidates by descending edge count, the
// reference implementation's confidence proxy, breaking ties by a
// stable left-to-right, top-to-bottom scan so output is deterministic.
func sortCandidates(candidates []BarcodeCandidate) {
	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].EdgeCount != candidates[j].EdgeCount {
			return candidates[i].EdgeCount > candidates[j].EdgeCount
		}
		if candidates[i].FirstEdge.Y != candidates[j].FirstEdge.Y {
			return candidates[i].FirstEdge.Y < candidates[j].FirstEdge.Y
		}
		return candidates[i].FirstEdge.X < candidates[j].FirstEdge.X
	})
}
