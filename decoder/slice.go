package decoder

import (
	"math"

	"github.com/etekin/blade/internal/matrix"
)

// resolutionGate implements the too-small / too-big / too-close-to-edge
// checks. isTooSmall requires both axes to be small (a barcode viewed
// edge-on along one axis still has a large extent along the other);
// isTooBig rejects if either axis alone is too big.
func resolutionGate(first, last matrix.Point, width, height int) bool {
	d := last.Sub(first)
	w := math.Abs(float64(d.X))
	h := math.Abs(float64(d.Y))
	N, M := float64(width), float64(height)

	isTooSmall := w < 0.4*N && h < 0.4*M
	isTooBig := w > 0.8*N || h > 0.8*M
	if isTooSmall || isTooBig {
		return false
	}

	margin := math.Min(N, M) / 20
	for _, p := range [2]matrix.Point{first, last} {
		if float64(p.X) < margin || float64(p.Y) < margin ||
			float64(width)-float64(p.X) < margin || float64(height)-float64(p.Y) < margin {
			return false
		}
	}
	return true
}

// bilinear samples img at a continuous coordinate, clamping to the
// image bounds so slice extraction never reads out of range when the
// extended endpoints land just outside the image.
func bilinear(img *matrix.Matrix[uint8], x, y float64) float64 {
	w, h := img.Width(), img.Height()
	x = math.Max(0, math.Min(float64(w-1), x))
	y = math.Max(0, math.Min(float64(h-1), y))
	x0, y0 := int(math.Floor(x)), int(math.Floor(y))
	x1, y1 := x0, y0
	if x0 < w-1 {
		x1 = x0 + 1
	}
	if y0 < h-1 {
		y1 = y0 + 1
	}
	fx, fy := x-float64(x0), y-float64(y0)

	v00 := float64(img.At(x0, y0))
	v10 := float64(img.At(x1, y0))
	v01 := float64(img.At(x0, y1))
	v11 := float64(img.At(x1, y1))

	top := v00*(1-fx) + v10*fx
	bot := v01*(1-fx) + v11*fx
	return top*(1-fy) + bot*fy
}

// extractSlice walks from first to last, extended by 2 modules at each
// end, resampling the image along the way into a length
// (symbologyWidth+4)*fundamentalWidth integral signal: slot k holds the
// running sum of sampled intensities up to and including step k.
func extractSlice(img *matrix.Matrix[uint8], first, last matrix.Point, symbologyWidth int, opts Options) []float64 {
	d := last.Sub(first)
	length := math.Hypot(float64(d.X), float64(d.Y))
	if length == 0 {
		return nil
	}
	theta := math.Atan2(float64(d.Y), float64(d.X))
	f := length / float64(symbologyWidth)

	extend := 2 * f
	startX := float64(first.X) - extend*math.Cos(theta)
	startY := float64(first.Y) - extend*math.Sin(theta)
	endX := float64(last.X) + extend*math.Cos(theta)
	endY := float64(last.Y) + extend*math.Sin(theta)
	extendedLen := math.Hypot(endX-startX, endY-startY)

	sliceLen := (symbologyWidth + 4) * opts.FundamentalWidth
	s := float64(sliceLen) / extendedLen
	stepX := math.Cos(theta) / s
	stepY := math.Sin(theta) / s

	slice := make([]float64, sliceLen)
	sum := 0.0
	for k := 0; k < sliceLen; k++ {
		x := startX + stepX*float64(k)
		y := startY + stepY*float64(k)
		sum += bilinear(img, x, y)
		slice[k] = sum
	}
	return slice
}

// extractEdges finds local extrema of the second-difference operator
// e(i) = slice[i+W] + slice[i-W] - 2*slice[i], a discrete Laplacian of
// the integrated signal equivalent to a boxcar differentiator on the
// original samples, with magnitude exceeding opts.EdgeThresh.
func extractEdges(slice []float64, opts Options) []DetectedEdge {
	w := opts.FundamentalWidth / 2
	n := len(slice)
	if n < 2*w+3 {
		return nil
	}

	e := make([]float64, n)
	for i := w; i < n-w; i++ {
		e[i] = slice[i+w] + slice[i-w] - 2*slice[i]
	}

	var edges []DetectedEdge
	posCount, negCount := 0, 0
	for i := w + 1; i < n-w-1; i++ {
		var polarity int
		if e[i] > e[i-1] && e[i] >= e[i+1] && e[i] > float64(opts.EdgeThresh) {
			polarity = 1
		} else if e[i] < e[i-1] && e[i] <= e[i+1] && e[i] < -float64(opts.EdgeThresh) {
			polarity = -1
		} else {
			continue
		}
		edges = append(edges, DetectedEdge{
			Polarity:          polarity,
			Location:          i,
			Magnitude:         int(math.Abs(e[i])),
			PrevPositiveCount: posCount,
			PrevNegativeCount: negCount,
		})
		if polarity > 0 {
			posCount++
		} else {
			negCount++
		}
	}
	return edges
}
