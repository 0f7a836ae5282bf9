// Package kde implements weighted kernel density estimation, iterative
// mode seeking by mean-shift (including an angular, wrap-around
// variant), and online cluster-center deduplication — the shared
// mode-finding machinery behind orientation voting and candidate
// clustering.
package kde

import "math"

// Vote is a (location, weight) pair. Location is either a scalar angle
// or, via PointVote, a 2-D pixel coordinate.
type Vote struct {
	Loc    float64
	Weight float64
}

// Kernel evaluates a kernel function at a scalar offset.
type Kernel interface {
	Value(delta float64) float64
}

// KDE evaluates the weighted kernel density Σ w_i·kernel(loc_i - x).
func KDE(votes []Vote, x float64, kernel Kernel) float64 {
	var w float64
	for _, v := range votes {
		w += v.Weight * kernel.Value(v.Loc-x)
	}
	return w
}

const (
	maxMeanShiftIterations = 100
	meanShiftConvergence   = 0.01
)

// MeanShift starts out = in and iterates each output location by the
// weight-normalized first moment of the input under the kernel, halting
// when the cumulative movement per iteration falls below 0.01 or after
// 100 iterations. fold, if non-nil, wraps a location back into its
// domain after each step (used by the angular variant to fold into
// [0, P)).
func MeanShift(in []Vote, kernel Kernel, fold func(float64) float64) []Vote {
	out := make([]Vote, len(in))
	copy(out, in)
	if len(in) < 2 {
		return out
	}

	weighted := make([]Vote, len(in))
	for i, v := range in {
		weighted[i] = Vote{Loc: v.Loc, Weight: v.Loc * v.Weight}
	}

	for iter := 0; iter < maxMeanShiftIterations; iter++ {
		totalMoved := 0.0
		for i := range out {
			w := KDE(in, out[i].Loc, kernel)
			newLoc := KDE(weighted, out[i].Loc, kernel) / w
			if fold != nil {
				newLoc = fold(newLoc)
			}
			totalMoved += math.Abs(newLoc - out[i].Loc)
			out[i] = Vote{Loc: newLoc, Weight: w}
		}
		if totalMoved < meanShiftConvergence {
			break
		}
	}
	return out
}

// FindClusterCenters is an online single-pass agglomerator: each input
// point attaches to the first existing center within radius (updating
// that center to the weighted barycenter, weights summed) or starts a
// new center. It is order-sensitive by design; callers feed mean-shift
// output in a stable order.
func FindClusterCenters(data []Vote, radius float64, distance func(a, b float64) float64) []Vote {
	var centers []Vote
	for _, v := range data {
		matched := -1
		for i, c := range centers {
			if distance(v.Loc, c.Loc) < radius {
				matched = i
				break
			}
		}
		if matched < 0 {
			centers = append(centers, v)
			continue
		}
		c := centers[matched]
		total := v.Weight + c.Weight
		centers[matched] = Vote{
			Loc:    c.Loc*(c.Weight/total) + v.Loc*(v.Weight/total),
			Weight: total,
		}
	}
	return centers
}

// LinearDistance is the distance function for FindClusterCenters over a
// plain real line (no wrap-around).
func LinearDistance(a, b float64) float64 {
	return math.Abs(a - b)
}

// GaussianD is a Gaussian kernel over reals with variance var.
type GaussianD struct {
	z, c float64
}

// NewGaussianD constructs a scalar Gaussian kernel with the given
// variance.
func NewGaussianD(variance float64) GaussianD {
	return GaussianD{
		z: 1 / math.Sqrt(2*math.Pi*variance),
		c: -0.5 / variance,
	}
}

// Value implements Kernel.
func (g GaussianD) Value(d float64) float64 {
	return math.Exp(g.c*d*d) / g.z
}

// GaussianRot is a Gaussian kernel over an angular domain that wraps
// around at period 2*maxVal: value(d) folds |d| back to 2*lim-|d| when
// it exceeds lim = maxVal, so the kernel stays valid on a circle.
type GaussianRot struct {
	z, c, lim float64
}

// NewGaussianRot constructs an angular Gaussian kernel with the given
// variance and maximum argument value (half the wrap-around period).
func NewGaussianRot(variance, maxVal float64) GaussianRot {
	return GaussianRot{
		z:   1 / math.Sqrt(2*math.Pi*variance),
		c:   -0.5 / variance,
		lim: maxVal,
	}
}

// Value implements Kernel.
func (g GaussianRot) Value(d float64) float64 {
	d = math.Abs(d)
	if d > g.lim {
		d = 2*g.lim - d
	}
	return math.Exp(g.c*d*d) / g.z
}

// AngularDistance measures the wrap-around distance between two angles
// on a domain of period P, for use with FindClusterCenters.
func AngularDistance(period float64) func(a, b float64) float64 {
	half := period / 2
	return func(a, b float64) float64 {
		d := math.Abs(a - b)
		if d > half {
			d = period - d
		}
		return d
	}
}

// PointVote is a (location, weight) pair over a 2-D pixel location,
// used for the candidate scanner's mean-shift over qualifying-cell
// centers.
type PointVote struct {
	Loc    [2]float64
	Weight float64
}

func pointDelta(a, b [2]float64) [2]float64 {
	return [2]float64{a[0] - b[0], a[1] - b[1]}
}

func pointNorm(d [2]float64) float64 {
	return math.Sqrt(d[0]*d[0] + d[1]*d[1])
}

// GaussianPt is a Gaussian kernel over 2-D points, evaluated on the
// Euclidean distance between the point and the kernel's center — the
// same norm used throughout this module for 2-D vectors, so a caller's
// distance-based decision and this kernel's density estimate always
// agree.
type GaussianPt struct {
	z, c float64
}

// NewGaussianPt constructs a 2-D Gaussian kernel with the given
// variance.
func NewGaussianPt(variance float64) GaussianPt {
	return GaussianPt{
		z: 1 / math.Sqrt(2*math.Pi*variance),
		c: -0.5 / variance,
	}
}

// Value evaluates the kernel at offset delta.
func (g GaussianPt) Value(delta [2]float64) float64 {
	d := pointNorm(delta)
	return math.Exp(g.c*d*d) / g.z
}

// KDEPoint evaluates the weighted kernel density at x over 2-D votes.
func KDEPoint(votes []PointVote, x [2]float64, kernel GaussianPt) float64 {
	var w float64
	for _, v := range votes {
		w += v.Weight * kernel.Value(pointDelta(v.Loc, x))
	}
	return w
}

// MeanShiftPoint is the 2-D analogue of MeanShift, iterating each
// output location by the weight-normalized first moment of the input
// under a 2-D Gaussian kernel. Each coordinate is weighted
// independently, matching a vector-valued first moment.
func MeanShiftPoint(in []PointVote, kernel GaussianPt) []PointVote {
	out := make([]PointVote, len(in))
	copy(out, in)
	if len(in) < 2 {
		return out
	}

	weightedX := make([]PointVote, len(in))
	weightedY := make([]PointVote, len(in))
	for i, v := range in {
		weightedX[i] = PointVote{Loc: v.Loc, Weight: v.Loc[0] * v.Weight}
		weightedY[i] = PointVote{Loc: v.Loc, Weight: v.Loc[1] * v.Weight}
	}

	for iter := 0; iter < maxMeanShiftIterations; iter++ {
		totalMoved := 0.0
		for i := range out {
			w := KDEPoint(in, out[i].Loc, kernel)
			mx := kdePointWeighted(weightedX, out[i].Loc, kernel)
			my := kdePointWeighted(weightedY, out[i].Loc, kernel)
			newLoc := [2]float64{mx / w, my / w}
			totalMoved += pointNorm(pointDelta(newLoc, out[i].Loc))
			out[i] = PointVote{Loc: newLoc, Weight: w}
		}
		if totalMoved < meanShiftConvergence {
			break
		}
	}
	return out
}

// kdePointWeighted evaluates the kernel at x using the original point
// locations but pre-weighted values — the same trick meanShift uses for
// its first-moment numerator.
func kdePointWeighted(votes []PointVote, x [2]float64, kernel GaussianPt) float64 {
	var w float64
	for _, v := range votes {
		w += v.Weight * kernel.Value(pointDelta(v.Loc, x))
	}
	return w
}

// FindClusterCentersPoint is the 2-D analogue of FindClusterCenters.
func FindClusterCentersPoint(data []PointVote, radius float64) []PointVote {
	var centers []PointVote
	for _, v := range data {
		matched := -1
		for i, c := range centers {
			if pointNorm(pointDelta(v.Loc, c.Loc)) < radius {
				matched = i
				break
			}
		}
		if matched < 0 {
			centers = append(centers, v)
			continue
		}
		c := centers[matched]
		total := v.Weight + c.Weight
		centers[matched] = PointVote{
			Loc: [2]float64{
				c.Loc[0]*(c.Weight/total) + v.Loc[0]*(v.Weight/total),
				c.Loc[1]*(c.Weight/total) + v.Loc[1]*(v.Weight/total),
			},
			Weight: total,
		}
	}
	return centers
}

// Fold wraps x back into [0, period).
func Fold(period float64) func(float64) float64 {
	return func(x float64) float64 {
		x = math.Mod(x, period)
		if x < 0 {
			x += period
		}
		return x
	}
}
