package imaging

// ellipticalKernel returns the (dx, dy) offsets covered by an elliptical
// structuring element of the given size (diameter), mirroring
// cv2.getStructuringElement(MORPH_ELLIPSE, (size, size)).
func ellipticalKernel(size int) []Point {
	if size < 1 {
		size = 1
	}
	r := float64(size-1) / 2
	var offs []Point
	for dy := -int(r + 0.5); dy <= int(r+0.5); dy++ {
		for dx := -int(r + 0.5); dx <= int(r+0.5); dx++ {
			x, y := float64(dx), float64(dy)
			if r == 0 || (x*x)/(r*r)+(y*y)/(r*r) <= 1.0+1e-9 {
				offs = append(offs, Point{X: float64(dx), Y: float64(dy)})
			}
		}
	}
	return offs
}

// Erode shrinks foreground regions: a pixel survives only if every
// structuring-element neighbor is also foreground.
func Erode(b *Binary, kernel []Point) *Binary {
	out := NewBinary(b.Width, b.Height)
	for y := 0; y < b.Height; y++ {
		for x := 0; x < b.Width; x++ {
			keep := true
			for _, o := range kernel {
				if b.At(x+int(o.X), y+int(o.Y)) == 0 {
					keep = false
					break
				}
			}
			if keep {
				out.Set(x, y, 255)
			}
		}
	}
	return out
}

// Dilate grows foreground regions: a pixel becomes foreground if any
// structuring-element neighbor is foreground.
func Dilate(b *Binary, kernel []Point) *Binary {
	out := NewBinary(b.Width, b.Height)
	for y := 0; y < b.Height; y++ {
		for x := 0; x < b.Width; x++ {
			set := false
			for _, o := range kernel {
				if b.At(x+int(o.X), y+int(o.Y)) != 0 {
					set = true
					break
				}
			}
			if set {
				out.Set(x, y, 255)
			}
		}
	}
	return out
}

// Open performs erosion followed by dilation with an elliptical structuring
// element of the given size, iterated `iterations` times, separating
// barely-touching letters without eroding their interiors away.
func Open(b *Binary, size, iterations int) *Binary {
	kernel := ellipticalKernel(size)
	out := b
	for i := 0; i < iterations; i++ {
		out = Erode(out, kernel)
		out = Dilate(out, kernel)
	}
	return out
}
