package detect

import (
	"errors"

	"github.com/uberstorm/hebrewfontmaker/internal/imaging"
)

// ErrTooSmall is returned by Add when the requested box is below the
// minimum manually-addable size.
var ErrTooSmall = errors.New("detect: box smaller than minimum size")

// ErrNotEnoughParts is returned by Split when a detection's binary crop
// does not separate into at least two sub-components of usable size.
var ErrNotEnoughParts = errors.New("detect: fewer than two sub-components found")

// Add appends a manually drawn rectangle as a new detection, clamped to the
// image bounds. Boxes narrower or shorter than 4px are rejected.
func Add(dets []Detection, x, y, w, h, imgW, imgH int) ([]Detection, error) {
	if w < 4 || h < 4 {
		return dets, ErrTooSmall
	}
	if x < 0 {
		x = 0
	}
	if y < 0 {
		y = 0
	}
	if x+w > imgW {
		w = imgW - x
	}
	if y+h > imgH {
		h = imgH - y
	}
	if w < 4 || h < 4 {
		return dets, ErrTooSmall
	}

	rect := []imaging.Point{
		{X: float64(x), Y: float64(y)},
		{X: float64(x + w), Y: float64(y)},
		{X: float64(x + w), Y: float64(y + h)},
		{X: float64(x), Y: float64(y + h)},
	}
	d := Detection{
		BBox:  BBox{X: x, Y: y, W: w, H: h},
		Outer: rect,
		Area:  w * h, // fill_ratio = 1 for a manually drawn rectangle
	}
	return append(dets, d), nil
}

// Remove deletes the detection at index.
func Remove(dets []Detection, index int) ([]Detection, error) {
	if index < 0 || index >= len(dets) {
		return dets, errIndex(index)
	}
	out := make([]Detection, 0, len(dets)-1)
	out = append(out, dets[:index]...)
	out = append(out, dets[index+1:]...)
	return out, nil
}

// Merge unions the detections at the given indices into one, placed at the
// position of the smallest index.
func Merge(dets []Detection, indices []int) ([]Detection, error) {
	if len(indices) < 2 {
		return dets, errors.New("detect: merge requires at least two indices")
	}
	sorted := append([]int{}, indices...)
	sortInts(sorted)
	for _, i := range sorted {
		if i < 0 || i >= len(dets) {
			return dets, errIndex(i)
		}
	}

	merged := dets[sorted[0]]
	for _, i := range sorted[1:] {
		merged = unionDetection(merged, dets[i])
	}

	remove := make(map[int]bool, len(sorted))
	for _, i := range sorted {
		remove[i] = true
	}

	out := make([]Detection, 0, len(dets)-len(sorted)+1)
	placed := false
	for i, d := range dets {
		if !remove[i] {
			out = append(out, d)
			continue
		}
		if !placed {
			out = append(out, merged)
			placed = true
		}
	}
	return out, nil
}

// Split re-runs component extraction on the binary crop of the detection at
// index (with 4px padding) and replaces it with its sub-components, sorted
// right-to-left. Fails if fewer than two components of at least 5x5px are
// found.
func Split(dets []Detection, index int, binary *imaging.Binary) ([]Detection, error) {
	if index < 0 || index >= len(dets) {
		return dets, errIndex(index)
	}
	d := dets[index]
	const pad = 4
	x0 := d.BBox.X - pad
	y0 := d.BBox.Y - pad
	w := d.BBox.W + 2*pad
	h := d.BBox.H + 2*pad

	crop := binary.Crop(x0, y0, w, h)
	comps := imaging.FindComponents(crop)

	var parts []Detection
	for _, c := range comps {
		if c.W < 5 || c.H < 5 {
			continue
		}
		outer := make([]imaging.Point, len(c.Outer))
		for i, p := range c.Outer {
			outer[i] = imaging.Point{X: p.X + float64(x0), Y: p.Y + float64(y0)}
		}
		parts = append(parts, Detection{
			BBox:  BBox{X: c.X + x0, Y: c.Y + y0, W: c.W, H: c.H},
			Outer: outer,
			Area:  c.Area,
		})
	}
	if len(parts) < 2 {
		return dets, ErrNotEnoughParts
	}

	sortByXDescending(parts)

	out := make([]Detection, 0, len(dets)-1+len(parts))
	out = append(out, dets[:index]...)
	out = append(out, parts...)
	out = append(out, dets[index+1:]...)
	return out, nil
}

func sortByXDescending(parts []Detection) {
	for i := 1; i < len(parts); i++ {
		for j := i; j > 0 && parts[j-1].BBox.X < parts[j].BBox.X; j-- {
			parts[j-1], parts[j] = parts[j], parts[j-1]
		}
	}
}

func sortInts(s []int) {
	for i := 1; i < len(s); i++ {
		for j := i; j > 0 && s[j-1] > s[j]; j-- {
			s[j-1], s[j] = s[j], s[j-1]
		}
	}
}

type indexError struct{ index int }

func (e *indexError) Error() string { return "detect: no detection at index" }

func errIndex(i int) error { return &indexError{index: i} }
