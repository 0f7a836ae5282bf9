package locator

import (
	"math"

	"github.com/etekin/blade/internal/matrix"
)

// minGrad/maxGrad bound the signed per-axis Scharr gradient magnitude
// that the polar lookup tables are built over. A 3x3 Scharr response on
// an 8-bit image cannot exceed ±(3+10+3)*255 in principle, but in
// practice the reference implementation bounds the lookup to ±255 and
// relies on 8-bit accumulation to saturate — this module keeps the same
// bound so the lookup tables are exactly 511x511, as specified.
const (
	minGrad = -255
	maxGrad = 255
)

// gradientTables are precomputed once per Locator (they depend only on
// gradThresh and nOrientations, not on image content).
type gradientTables struct {
	magnitude   *matrix.Matrix[uint8] // [di+255][dj+255] -> quantized magnitude, 0 below threshold
	orientation *matrix.Matrix[uint8] // [di+255][dj+255] -> bin in [0, 2*nOrientations], sentinel = 2*nOrientations
}

// buildGradientTables constructs the 511x511 polar lookup tables. thresh
// is the raw (unsquared) magnitude threshold; nOrientations is the
// number of *signed* bins (2x the configured orientation count), i.e.
// the orientation table's range is [0, nOrientations].
func buildGradientTables(thresh int, nOrientations int) *gradientTables {
	size := maxGrad - minGrad + 1
	mag := matrix.New[uint8](size, size)
	ang := matrix.New[uint8](size, size)
	thresh2 := thresh * thresh
	dTheta := 2 * math.Pi / float64(nOrientations)

	for di := minGrad; di <= maxGrad; di++ {
		diNorm := di - minGrad
		for dj := minGrad; dj <= maxGrad; dj++ {
			djNorm := dj - minGrad
			m := di*di + dj*dj
			if m > thresh2 {
				mag.Set(diNorm, djNorm, uint8(math.Sqrt(float64(m/2))))
			} else {
				mag.Set(diNorm, djNorm, 0)
			}
			if mag.At(diNorm, djNorm) != 0 {
				angle := math.Atan2(float64(di), float64(dj))
				bin := int(math.Floor(angle/dTheta+0.5+float64(nOrientations))) % nOrientations
				ang.Set(diNorm, djNorm, uint8(bin))
			} else {
				ang.Set(diNorm, djNorm, uint8(nOrientations))
			}
		}
	}
	return &gradientTables{magnitude: mag, orientation: ang}
}

// subsample performs strided decimation (no filter) by 2^scale.
func subsample(img *matrix.Matrix[uint8], scale int) *matrix.Matrix[uint8] {
	if scale == 0 {
		return img
	}
	step := 1 << uint(scale)
	w := img.Width() / step
	h := img.Height() / step
	out := matrix.New[uint8](w, h)
	for y, yy := 0, 0; yy < h; y, yy = y+step, yy+1 {
		for x, xx := 0, 0; xx < w; x, xx = x+step, xx+1 {
			out.Set(xx, yy, img.At(x, y))
		}
	}
	return out
}

// scharrSmoother and scharrDiff are the two 1-D kernels of the
// separable 3x3 Scharr operator: [3,10,3] smooths, [1,0,-1]
// differentiates.
var (
	scharrSmoother = [3]int{3, 10, 3}
	scharrDiff     = [3]int{1, 0, -1}
)

// scharrGradients computes the signed i (row) and j (column) gradients
// of img via the separable 3x3 Scharr operator. The top/bottom two rows
// and left/right two columns are zeroed, matching the reference
// implementation's border handling for a 3x3 kernel applied twice
// (once per pass).
func scharrGradients(img *matrix.Matrix[uint8]) (di, dj *matrix.Matrix[int]) {
	w, h := img.Width(), img.Height()
	di = matrix.New[int](w, h)
	dj = matrix.New[int](w, h)
	if w < 3 || h < 3 {
		return di, dj
	}

	// dj: differentiate along columns (x), smooth along rows (y).
	horiz := matrix.New[int](w, h)
	for y := 0; y < h; y++ {
		row := img.Row(y)
		out := horiz.Row(y)
		for x := 1; x < w-1; x++ {
			out[x] = scharrDiff[0]*int(row[x-1]) + scharrDiff[1]*int(row[x]) + scharrDiff[2]*int(row[x+1])
		}
	}
	for y := 2; y < h-2; y++ {
		a, b, c := horiz.Row(y-1), horiz.Row(y), horiz.Row(y+1)
		out := dj.Row(y)
		for x := 2; x < w-2; x++ {
			out[x] = scharrSmoother[0]*a[x] + scharrSmoother[1]*b[x] + scharrSmoother[2]*c[x]
		}
	}

	// di: differentiate along rows (y), smooth along columns (x).
	vert := matrix.New[int](w, h)
	for y := 1; y < h-1; y++ {
		a, b, c := img.Row(y-1), img.Row(y), img.Row(y+1)
		out := vert.Row(y)
		for x := 0; x < w; x++ {
			out[x] = scharrDiff[0]*int(a[x]) + scharrDiff[1]*int(b[x]) + scharrDiff[2]*int(c[x])
		}
	}
	for y := 2; y < h-2; y++ {
		row := vert.Row(y)
		out := di.Row(y)
		for x := 2; x < w-2; x++ {
			out[x] = scharrSmoother[0]*row[x-1] + scharrSmoother[1]*row[x] + scharrSmoother[2]*row[x+1]
		}
	}
	return di, dj
}

// gradientField holds the quantized magnitude and orientation images
// derived from one locate() call's (possibly subsampled) image.
type gradientField struct {
	magnitude   *matrix.Matrix[uint8]
	orientation *matrix.Matrix[uint8]
}

// calculateGradients runs the full pipeline: Scharr gradients, then
// polar conversion via the precomputed lookup tables.
func calculateGradients(img *matrix.Matrix[uint8], tables *gradientTables) *gradientField {
	di, dj := scharrGradients(img)
	w, h := img.Width(), img.Height()
	mag := matrix.New[uint8](w, h)
	ang := matrix.New[uint8](w, h)
	for y := 0; y < h; y++ {
		diRow, djRow := di.Row(y), dj.Row(y)
		magRow, angRow := mag.Row(y), ang.Row(y)
		for x := 0; x < w; x++ {
			curDI := clampGrad(diRow[x]) - minGrad
			curDJ := clampGrad(djRow[x]) - minGrad
			magRow[x] = tables.magnitude.At(curDI, curDJ)
			angRow[x] = tables.orientation.At(curDI, curDJ)
		}
	}
	return &gradientField{magnitude: mag, orientation: ang}
}

func clampGrad(v int) int {
	if v < minGrad {
		return minGrad
	}
	if v > maxGrad {
		return maxGrad
	}
	return v
}
