// Package imageio decodes common image container formats and converts
// them to the 8-bit grayscale samples the engine operates on. Nothing
// in the engine requires this package; blade.New accepts a
// blade.Image built any way the caller likes — this is the boundary
// convenience for the common case of "I have bytes from a file or an
// HTTP body."
package imageio

import (
	"fmt"
	"image"
	"io"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/etekin/blade/internal/matrix"
)

// Image is an 8-bit grayscale bitmap, matching blade.Image's
// underlying representation.
type Image = matrix.Matrix[uint8]

// Decode reads any registered image format from r and converts it to
// grayscale using the same weighted luminance formula Java ZXing uses,
// (306R+601G+117B+0x200)>>10 on 8-bit components, so this adapter is a
// drop-in replacement at the boundary for a luminance source built the
// teacher's way.
func Decode(r io.Reader) (*Image, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("imageio: decode: %w", err)
	}
	return toGray(img), nil
}

// DecodeGray takes a *image.Gray directly, copying row by row to strip
// any stride padding beyond the image's width.
func DecodeGray(g *image.Gray) *Image {
	b := g.Bounds()
	w, h := b.Dx(), b.Dy()
	out := matrix.New[uint8](w, h)
	for y := 0; y < h; y++ {
		off := y * g.Stride
		copy(out.Row(y), g.Pix[off:off+w])
	}
	return out
}

func toGray(img image.Image) *Image {
	if g, ok := img.(*image.Gray); ok {
		return DecodeGray(g)
	}

	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	out := matrix.New[uint8](w, h)
	for y := 0; y < h; y++ {
		row := out.Row(y)
		for x := 0; x < w; x++ {
			r, g, bl, _ := img.At(b.Min.X+x, b.Min.Y+y).RGBA()
			r8, g8, b8 := r>>8, g>>8, bl>>8
			row[x] = uint8((306*r8 + 601*g8 + 117*b8 + 0x200) >> 10)
		}
	}
	return out
}
