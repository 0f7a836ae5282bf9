package locator

import "math"

// cell is a square tile of the gradient field. It accumulates an
// unweighted signed orientation histogram (2*nOrientations bins, one
// per polarity), used only for the dominant-bin vote, and a folded,
// magnitude-weighted unsigned histogram (nOrientations bins) used for
// the entropy qualification test. Entropy and dominant-bin are computed
// lazily and cached, since most cells are visited once per query during
// scanning.
type cell struct {
	x, y int // top-left pixel coordinate
	// w, h are this cell's actual extent, smaller than the tiling size
	// for a trailing right- or bottom-edge partial cell.
	w, h          int
	nOrientations int

	signed   []float64 // len 2*nOrientations, unweighted voter count per signed bin
	folded   []float64 // len nOrientations, weighted unsigned histogram
	voters   int
	total    float64

	entropyValid bool
	entropy      float64
	dominantBin  int
}

func newCell(x, y, w, h, nOrientations int) *cell {
	return &cell{
		x: x, y: y, w: w, h: h, nOrientations: nOrientations,
		signed: make([]float64, 2*nOrientations),
		folded: make([]float64, nOrientations),
	}
}

// accumulate folds one gradient field pixel into the cell's histograms.
// bin is the signed orientation bin in [0, 2*nOrientations]; a bin equal
// to 2*nOrientations is the "no edge" sentinel and contributes no vote.
func (c *cell) accumulate(bin int, magnitude uint8) {
	if bin >= 2*c.nOrientations {
		return
	}
	c.signed[bin]++
	folded := bin % c.nOrientations
	c.folded[folded] += float64(magnitude)
	c.voters++
	c.total += float64(magnitude)
	c.entropyValid = false
}

// shannonEntropy returns the Shannon entropy, in nats, of the cell's
// normalized folded histogram. An empty cell has zero entropy.
func (c *cell) shannonEntropy() float64 {
	if c.entropyValid {
		return c.entropy
	}
	c.computeStats()
	return c.entropy
}

// dominant returns the signed histogram's argmax bin, folded mod
// nOrientations.
func (c *cell) dominant() int {
	if c.entropyValid {
		return c.dominantBin
	}
	c.computeStats()
	return c.dominantBin
}

func (c *cell) computeStats() {
	var h float64
	for _, w := range c.folded {
		if w <= 0 || c.total <= 0 {
			continue
		}
		p := w / c.total
		h -= p * math.Log(p)
	}

	best, bestV := 0, -1.0
	for bin, v := range c.signed {
		if v > bestV {
			best, bestV = bin, v
		}
	}

	c.entropy = h
	c.dominantBin = best % c.nOrientations
	c.entropyValid = true
}

// qualifies reports whether this cell has enough voters, relative to its
// area, and low enough orientation entropy, to seed or support a
// candidate orientation mode.
func (c *cell) qualifies(maxEntropy float64) bool {
	area := c.w * c.h
	if float64(c.voters) <= float64(area)/4 {
		return false
	}
	return c.shannonEntropy() < maxEntropy
}

// center returns the cell's pixel-space center.
func (c *cell) center() (float64, float64) {
	return float64(c.x) + float64(c.w)/2, float64(c.y) + float64(c.h)/2
}

// tileCells partitions a gradient field into non-overlapping size x size
// cells. A trailing right- or bottom-edge cell smaller than size x size
// is kept rather than dropped, with its own actual extent feeding the
// area term of its qualification test.
func tileCells(field *gradientField, size, nOrientations int) []*cell {
	w, h := field.magnitude.Width(), field.magnitude.Height()
	cols := (w + size - 1) / size
	rows := (h + size - 1) / size
	cells := make([]*cell, 0, cols*rows)
	for cy := 0; cy < rows; cy++ {
		for cx := 0; cx < cols; cx++ {
			x0, y0 := cx*size, cy*size
			cw, ch := size, size
			if x0+cw > w {
				cw = w - x0
			}
			if y0+ch > h {
				ch = h - y0
			}
			c := newCell(x0, y0, cw, ch, nOrientations)
			for y := 0; y < ch; y++ {
				py := c.y + y
				for x := 0; x < cw; x++ {
					px := c.x + x
					c.accumulate(int(field.orientation.At(px, py)), field.magnitude.At(px, py))
				}
			}
			cells = append(cells, c)
		}
	}
	return cells
}
