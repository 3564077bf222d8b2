package imaging

// Contour is a traced pixel boundary together with its role: an outer
// (ink) boundary or a hole boundary nested inside one.
type Contour struct {
	Points []Point
	IsHole bool
}

// Component is one 8-connected foreground blob: its bounding box, pixel
// area and outer boundary.
type Component struct {
	X, Y, W, H int
	Area       int
	Outer      []Point
}

// FillRatio returns Area / (W*H).
func (c Component) FillRatio() float64 {
	if c.W == 0 || c.H == 0 {
		return 0
	}
	return float64(c.Area) / float64(c.W*c.H)
}

var eightNeighbors = [8][2]int{
	{1, 0}, {1, 1}, {0, 1}, {-1, 1}, {-1, 0}, {-1, -1}, {0, -1}, {1, -1},
}

// FindComponents enumerates 8-connected foreground components (external
// contours only, no hierarchy), matching the Detector's extraction step.
func FindComponents(b *Binary) []Component {
	visited := make([]bool, b.Width*b.Height)
	var comps []Component

	for y := 0; y < b.Height; y++ {
		for x := 0; x < b.Width; x++ {
			idx := y*b.Width + x
			if visited[idx] || b.At(x, y) == 0 {
				continue
			}

			minX, minY, maxX, maxY, area := floodFill(b, visited, x, y)
			w := maxX - minX + 1
			h := maxY - minY + 1
			outer := traceBoundary(b, minX, minY, w, h, true)
			comps = append(comps, Component{
				X: minX, Y: minY, W: w, H: h,
				Area:  area,
				Outer: outer,
			})
		}
	}
	return comps
}

// floodFill marks the 8-connected foreground region containing (sx,sy) as
// visited and returns its bounding box and pixel count.
func floodFill(b *Binary, visited []bool, sx, sy int) (minX, minY, maxX, maxY, area int) {
	minX, minY, maxX, maxY = sx, sy, sx, sy
	stack := [][2]int{{sx, sy}}
	visited[sy*b.Width+sx] = true

	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		x, y := p[0], p[1]
		area++
		if x < minX {
			minX = x
		}
		if x > maxX {
			maxX = x
		}
		if y < minY {
			minY = y
		}
		if y > maxY {
			maxY = y
		}
		for _, d := range eightNeighbors {
			nx, ny := x+d[0], y+d[1]
			if nx < 0 || ny < 0 || nx >= b.Width || ny >= b.Height {
				continue
			}
			nidx := ny*b.Width + nx
			if visited[nidx] || b.At(nx, ny) == 0 {
				continue
			}
			visited[nidx] = true
			stack = append(stack, [2]int{nx, ny})
		}
	}
	return
}

// traceBoundary runs Moore-neighbor boundary tracing over the region
// (x0,y0,w,h) of b, returning the outer boundary of the foreground pixels
// when foreground=true, or the first enclosed background region's boundary
// when foreground=false (used for hole tracing).
func traceBoundary(b *Binary, x0, y0, w, h int, foreground bool) []Point {
	isFg := func(x, y int) bool {
		v := b.At(x, y) != 0
		return v == foreground
	}

	// find the topmost-then-leftmost boundary pixel
	var startX, startY int
	found := false
	for y := y0; y < y0+h && !found; y++ {
		for x := x0; x < x0+w; x++ {
			if isFg(x, y) {
				startX, startY = x, y
				found = true
				break
			}
		}
	}
	if !found {
		return nil
	}

	// Moore-neighbor tracing (clockwise), stopping on the first return to the start pixel
	dirs := [8][2]int{{0, -1}, {1, -1}, {1, 0}, {1, 1}, {0, 1}, {-1, 1}, {-1, 0}, {-1, -1}}
	points := []Point{{X: float64(startX), Y: float64(startY)}}

	cx, cy := startX, startY
	backtrack := 4 // direction we arrived from, so search starts one past it
	for iter := 0; iter < 4*w*h+16; iter++ {
		found := false
		for k := 0; k < 8; k++ {
			di := (backtrack + k) % 8
			nx, ny := cx+dirs[di][0], cy+dirs[di][1]
			if isFg(nx, ny) {
				cx, cy = nx, ny
				backtrack = (di + 5) % 8 // look back from the entry direction next time
				found = true
				break
			}
		}
		if !found {
			break
		}
		if cx == startX && cy == startY {
			break
		}
		points = append(points, Point{X: float64(cx), Y: float64(cy)})
	}
	return points
}

// ExtractContours enumerates the outer ink boundary and every enclosed
// background hole in a binary crop, in the RETR_CCOMP-equivalent shape the
// Extractor needs: outer contours with their nested holes flagged.
func ExtractContours(b *Binary) []Contour {
	comps := FindComponents(b)
	var result []Contour
	for _, c := range comps {
		if len(c.Outer) >= 3 {
			result = append(result, Contour{Points: c.Outer, IsHole: false})
		}

		holes := findHoles(b, c)
		for _, h := range holes {
			if len(h) >= 3 {
				result = append(result, Contour{Points: h, IsHole: true})
			}
		}
	}
	return result
}

// findHoles locates background regions fully enclosed within a component's
// bounding box (not touching its border) and traces each one's boundary.
func findHoles(b *Binary, c Component) [][]Point {
	crop := b.Crop(c.X, c.Y, c.W, c.H)
	visited := make([]bool, c.W*c.H)
	var holes [][]Point

	for y := 0; y < c.H; y++ {
		for x := 0; x < c.W; x++ {
			idx := y*c.W + x
			if visited[idx] || crop.At(x, y) != 0 {
				continue
			}
			minX, minY, maxX, maxY, _ := floodFill(invert(crop), visited, x, y)
			touchesBorder := minX == 0 || minY == 0 || maxX == c.W-1 || maxY == c.H-1
			if touchesBorder {
				continue
			}
			w, h := maxX-minX+1, maxY-minY+1
			boundary := traceBoundary(crop, minX, minY, w, h, false)
			// translate from the component crop back into b's coordinate frame
			for i := range boundary {
				boundary[i].X += float64(c.X)
				boundary[i].Y += float64(c.Y)
			}
			holes = append(holes, boundary)
		}
	}
	return holes
}

func invert(b *Binary) *Binary {
	out := NewBinary(b.Width, b.Height)
	for i, v := range b.Pix {
		if v == 0 {
			out.Pix[i] = 255
		}
	}
	return out
}
