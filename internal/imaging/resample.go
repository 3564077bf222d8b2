package imaging

// SmoothCircular applies a circular (wrap-around) moving average of the
// given odd window size to a closed contour, preserving its closed-curve
// property at the seam.
func SmoothCircular(pts []Point, window int) []Point {
	n := len(pts)
	if n == 0 || window <= 1 {
		return pts
	}
	if window%2 == 0 {
		window++
	}
	half := window / 2

	out := make([]Point, n)
	for i := 0; i < n; i++ {
		var sx, sy float64
		for k := -half; k <= half; k++ {
			j := ((i+k)%n + n) % n
			sx += pts[j].X
			sy += pts[j].Y
		}
		out[i] = Point{X: sx / float64(window), Y: sy / float64(window)}
	}
	return out
}

// SmoothWindow returns the clamp(3, round_odd(n/50), 9) window size for a
// contour of n raw points.
func SmoothWindow(n int) int {
	w := roundOdd(float64(n) / 50.0)
	if w < 3 {
		w = 3
	}
	if w > 9 {
		w = 9
	}
	return w
}

// ResampleTarget returns the clamp(24, n/4, 100) target point count for a
// contour of n raw points.
func ResampleTarget(n int) int {
	t := n / 4
	if t < 24 {
		t = 24
	}
	if t > 100 {
		t = 100
	}
	return t
}

// Resample re-samples a closed contour to exactly target points by linear
// interpolation along the original point index sequence (treated as a
// closed loop).
func Resample(pts []Point, target int) []Point {
	n := len(pts)
	if n == 0 || target <= 0 {
		return nil
	}
	if n == target {
		out := make([]Point, n)
		copy(out, pts)
		return out
	}

	out := make([]Point, target)
	for i := 0; i < target; i++ {
		pos := float64(i) * float64(n) / float64(target)
		j0 := int(pos) % n
		j1 := (j0 + 1) % n
		frac := pos - float64(int(pos))
		out[i] = Point{
			X: pts[j0].X*(1-frac) + pts[j1].X*frac,
			Y: pts[j0].Y*(1-frac) + pts[j1].Y*frac,
		}
	}
	return out
}

func roundOdd(v float64) int {
	r := int(v + 0.5)
	if r%2 == 0 {
		r++
	}
	return r
}
