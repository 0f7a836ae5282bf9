// Package blade locates one-dimensional barcodes in a grayscale image
// and decodes each located candidate against a set of registered
// symbologies, by cascading gradient-orientation voting (the Locator)
// into constrained dynamic-programming symbol decoding (the Decoder).
package blade

import "github.com/etekin/blade/internal/matrix"

// Image is a dense row-major 8-bit grayscale bitmap. The caller owns it
// and is responsible for keeping it alive across Locate/Decode calls;
// the engine only borrows it.
type Image = matrix.Matrix[uint8]

// NewImage allocates a zero-initialized w x h image.
func NewImage(w, h int) *Image {
	return matrix.New[uint8](w, h)
}

// Point is an integer image coordinate.
type Point = matrix.Point

// Barcode is a located candidate segment, and — once Decode succeeds —
// its decoded payload and the symbology that produced it. Estimate and
// Symbology are empty until Decode returns true.
type Barcode struct {
	FirstEdge Point
	LastEdge  Point
	Estimate  string
	Symbology string

	// Orientation is the scan direction across the bars (perpendicular
	// to them) in radians, as voted by the locator's gradient field. Scale is the subsample level the
	// candidate was found at (0 = full resolution).
	Orientation float64
	Scale       int
}
