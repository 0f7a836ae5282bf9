// Package matrix provides a 2-D array type with row strides and
// zero-copy sub-views, the shared numeric substrate for the locator and
// decoder pipelines.
package matrix

import "math"

// Number is the set of element types a Matrix can hold.
type Number interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 | ~uint8 | ~uint16 | ~uint32 | ~float32 | ~float64
}

// Matrix is a 2-D array of row-major elements. A Matrix may be a
// sub-view of a larger backing array: Width/Height describe the view,
// Stride is the number of elements between the start of successive rows
// in the backing array, and originX/originY locate the view's top-left
// corner within it. Mutating a sub-view mutates the parent; a sub-view
// never outlives correctness of its own bounds check, but the Go
// garbage collector keeps the backing array alive as long as any view
// references it.
type Matrix[T Number] struct {
	data          []T
	stride        int
	originX       int
	originY       int
	width, height int
}

// New allocates a fresh w×h matrix, zero-initialized.
func New[T Number](w, h int) *Matrix[T] {
	return &Matrix[T]{
		data:   make([]T, w*h),
		stride: w,
		width:  w,
		height: h,
	}
}

// Width returns the number of columns in the view.
func (m *Matrix[T]) Width() int { return m.width }

// Height returns the number of rows in the view.
func (m *Matrix[T]) Height() int { return m.height }

// Stride returns the backing array's row stride, which may exceed
// Width for a sub-view.
func (m *Matrix[T]) Stride() int { return m.stride }

// At returns the element at (x, y), where x indexes columns and y rows.
func (m *Matrix[T]) At(x, y int) T {
	return m.data[(y+m.originY)*m.stride+x+m.originX]
}

// Set assigns the element at (x, y).
func (m *Matrix[T]) Set(x, y int, v T) {
	m.data[(y+m.originY)*m.stride+x+m.originX] = v
}

// Row returns the backing slice for row y, starting at column 0 of the
// view and running Width elements — a tight-loop escape hatch that
// avoids repeated bounds arithmetic.
func (m *Matrix[T]) Row(y int) []T {
	start := (y+m.originY)*m.stride + m.originX
	return m.data[start : start+m.width]
}

// SubView returns a w×h view onto the rectangle (x, y, w, h) of m,
// sharing m's backing storage. Out-of-range rectangles panic, matching
// the teacher's fail-fast bounds checks elsewhere in this codebase.
func (m *Matrix[T]) SubView(x, y, w, h int) *Matrix[T] {
	if x < 0 || y < 0 || w < 0 || h < 0 || x+w > m.width || y+h > m.height {
		panic("matrix: sub-view out of bounds")
	}
	return &Matrix[T]{
		data:    m.data,
		stride:  m.stride,
		originX: m.originX + x,
		originY: m.originY + y,
		width:   w,
		height:  h,
	}
}

// Fill sets every element of the view to v.
func (m *Matrix[T]) Fill(v T) {
	for y := 0; y < m.height; y++ {
		row := m.Row(y)
		for i := range row {
			row[i] = v
		}
	}
}

// Clone copies the view (not the whole backing array) into a new,
// densely packed Matrix of the same element type.
func (m *Matrix[T]) Clone() *Matrix[T] {
	out := New[T](m.width, m.height)
	for y := 0; y < m.height; y++ {
		copy(out.Row(y), m.Row(y))
	}
	return out
}

// CloneAs copies the view into a new densely packed Matrix, converting
// each element with RoundCast.
func CloneAs[TSrc, TDst Number](m *Matrix[TSrc]) *Matrix[TDst] {
	out := New[TDst](m.width, m.height)
	for y := 0; y < m.height; y++ {
		src := m.Row(y)
		dst := out.Row(y)
		for x := range src {
			dst[x] = RoundCast[TDst](float64(src[x]))
		}
	}
	return out
}

// RoundCast rounds v to the nearest integer, halves towards +infinity
// (floor(v+0.5)), before converting to T. For floating-point T it is a
// plain conversion.
func RoundCast[T Number](v float64) T {
	var zero T
	switch any(zero).(type) {
	case float32, float64:
		return T(v)
	}
	return T(math.Floor(v + 0.5))
}

// Point is an integer 2-D point, used for image coordinates and for
// mean-shift/kde over pixel locations.
type Point struct {
	X, Y int
}

// Sub returns p - q.
func (p Point) Sub(q Point) Point {
	return Point{p.X - q.X, p.Y - q.Y}
}

// Add returns p + q.
func (p Point) Add(q Point) Point {
	return Point{p.X + q.X, p.Y + q.Y}
}

// Scale returns p scaled by s, rounded to the nearest integer point.
func (p Point) Scale(s float64) Point {
	return Point{RoundCast[int](float64(p.X) * s), RoundCast[int](float64(p.Y) * s)}
}

// Norm is the Euclidean length of p, computed in float64 regardless of
// the coordinate type. Every caller and kernel evaluator in this module
// must use this exact function so that norm-based decisions agree
// bit-for-bit.
func (p Point) Norm() float64 {
	return math.Sqrt(float64(p.X)*float64(p.X) + float64(p.Y)*float64(p.Y))
}

// Distance is the norm of the difference between two points.
func Distance(a, b Point) float64 {
	return a.Sub(b).Norm()
}
