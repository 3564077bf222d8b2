// Package imaging implements the raster pre-processing and contour
// extraction primitives shared by the detection and extraction stages:
// grayscale conversion, denoising, adaptive binarization, morphological
// opening and boundary tracing with hole hierarchy.
package imaging

import (
	"image"
	"image/draw"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"golang.org/x/image/bmp"
)

// Point is a 2-D point in pixel or sub-pixel coordinates.
type Point struct {
	X, Y float64
}

// Gray is a grayscale raster, one byte per pixel, row-major.
type Gray struct {
	Pix           []uint8
	Width, Height int
}

// At returns the pixel value at (x, y). Out-of-bounds coordinates read as 0.
func (g *Gray) At(x, y int) uint8 {
	if x < 0 || y < 0 || x >= g.Width || y >= g.Height {
		return 0
	}
	return g.Pix[y*g.Width+x]
}

// Set stores the pixel value at (x, y), ignoring out-of-bounds coordinates.
func (g *Gray) Set(x, y int, v uint8) {
	if x < 0 || y < 0 || x >= g.Width || y >= g.Height {
		return
	}
	g.Pix[y*g.Width+x] = v
}

// NewGray allocates a zeroed Gray raster.
func NewGray(w, h int) *Gray {
	return &Gray{Pix: make([]uint8, w*h), Width: w, Height: h}
}

// Binary is a two-level raster: 0 is background, 255 is foreground (ink).
type Binary struct {
	Pix           []uint8
	Width, Height int
}

// At returns the pixel value at (x, y). Out-of-bounds coordinates read as 0.
func (b *Binary) At(x, y int) uint8 {
	if x < 0 || y < 0 || x >= b.Width || y >= b.Height {
		return 0
	}
	return b.Pix[y*b.Width+x]
}

// Set stores the pixel value at (x, y), ignoring out-of-bounds coordinates.
func (b *Binary) Set(x, y int, v uint8) {
	if x < 0 || y < 0 || x >= b.Width || y >= b.Height {
		return
	}
	b.Pix[y*b.Width+x] = v
}

// NewBinary allocates a zeroed Binary raster.
func NewBinary(w, h int) *Binary {
	return &Binary{Pix: make([]uint8, w*h), Width: w, Height: h}
}

// Coverage returns the fraction of pixels set to foreground.
func (b *Binary) Coverage() float64 {
	var n int
	for _, v := range b.Pix {
		if v != 0 {
			n++
		}
	}
	if len(b.Pix) == 0 {
		return 0
	}
	return float64(n) / float64(len(b.Pix))
}

// Crop extracts the rectangle (x,y,w,h) and returns it as a new w×h Binary
// with its own coordinate system; pixels outside the source read as 0.
func (b *Binary) Crop(x, y, w, h int) *Binary {
	out := NewBinary(w, h)
	for j := 0; j < h; j++ {
		for i := 0; i < w; i++ {
			out.Set(i, j, b.At(x+i, y+j))
		}
	}
	return out
}

// Decode reads a raster image from r, dispatching on content via the
// standard decoders registered for PNG/JPEG/GIF plus golang.org/x/image's
// BMP decoder (the five extensions this program accepts on upload).
func Decode(r interface {
	Read([]byte) (int, error)
}) (image.Image, string, error) {
	img, format, err := image.Decode(r)
	if err == nil {
		return img, format, nil
	}
	return nil, "", err
}

// DecodeBMP reads a BMP-format image specifically; image.Decode does not
// probe BMP by default so callers that see a ".bmp" extension should try
// this first.
func DecodeBMP(r interface {
	Read([]byte) (int, error)
}) (image.Image, error) {
	return bmp.Decode(r)
}

// ToGray converts an arbitrary image.Image to a Gray raster using the
// standard luma-weighted conversion from image/draw's Gray model.
func ToGray(src image.Image) *Gray {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	dst := image.NewGray(image.Rect(0, 0, w, h))
	draw.Draw(dst, dst.Bounds(), src, b.Min, draw.Src)

	out := NewGray(w, h)
	copy(out.Pix, dst.Pix)
	return out
}

// BinaryFromImage reconstructs a Binary from a two-level (0/255) raster
// previously produced by encoding a Binary as a PNG, as happens on project
// import. Any pixel at or above the midpoint is foreground.
func BinaryFromImage(src image.Image) *Binary {
	gray := ToGray(src)
	out := NewBinary(gray.Width, gray.Height)
	for i, v := range gray.Pix {
		if v >= 128 {
			out.Pix[i] = 255
		}
	}
	return out
}
